package sqlxrepos

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/ligi/core/result"
)

type resultRow struct {
	ID         string    `db:"id"`
	HomeTeamID string    `db:"home_team_id"`
	AwayTeamID string    `db:"away_team_id"`
	HomeScore  int       `db:"home_score"`
	AwayScore  int       `db:"away_score"`
	HomePoints null.Int  `db:"home_points"`
	AwayPoints null.Int  `db:"away_points"`
	PlayedAt   null.Time `db:"played_at"`
	CreatedAt  null.Time `db:"created_at"`
}

func (r resultRow) unpack() result.Result {
	return result.Result{
		ID:         r.ID,
		HomeTeamID: r.HomeTeamID,
		AwayTeamID: r.AwayTeamID,
		HomeScore:  r.HomeScore,
		AwayScore:  r.AwayScore,
		HomePoints: r.HomePoints.Ptr(),
		AwayPoints: r.AwayPoints.Ptr(),
		PlayedAt:   r.PlayedAt.Time,
		CreatedAt:  r.CreatedAt.Time,
	}
}

type resultRepository struct {
	db *sqlx.DB
}

var _ result.Repository = (*resultRepository)(nil)

func NewResultRepository(db *sqlx.DB) result.Repository {
	return &resultRepository{db: db}
}

func (repo *resultRepository) selectResults(query string, args ...interface{}) ([]result.Result, error) {
	var rows []resultRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying results")
	}
	results := make([]result.Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, row.unpack())
	}
	return results, nil
}

func (repo *resultRepository) CreateResult(res result.Result) (result.Result, error) {
	res.ID = uuid.New().String()
	_, err := repo.db.Exec(
		`INSERT INTO result (id, home_team_id, away_team_id, home_score, away_score, home_points, away_points, played_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		res.ID, res.HomeTeamID, res.AwayTeamID, res.HomeScore, res.AwayScore,
		null.IntFromPtr(res.HomePoints), null.IntFromPtr(res.AwayPoints), res.PlayedAt, res.CreatedAt,
	)
	if err != nil {
		return result.Result{}, errors.Wrap(err, "inserting result")
	}
	return res, nil
}

func (repo *resultRepository) QueryAllResults() ([]result.Result, error) {
	return repo.selectResults(`SELECT * FROM result ORDER BY created_at, id`)
}

func (repo *resultRepository) GetResultByID(id string) (result.Result, error) {
	var row resultRow
	if err := repo.db.Get(&row, `SELECT * FROM result WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return result.Result{}, result.ErrNotFound
		}
		return result.Result{}, errors.Wrap(err, "getting result")
	}
	return row.unpack(), nil
}

func (repo *resultRepository) FilterResults(filter result.QueryFilter) ([]result.Result, error) {
	var (
		conds []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.TeamID != "" {
		p := arg(filter.TeamID)
		conds = append(conds, fmt.Sprintf("(home_team_id = %[1]s OR away_team_id = %[1]s)", p))
	}
	if !filter.PlayedFrom.IsZero() {
		conds = append(conds, "played_at >= "+arg(filter.PlayedFrom))
	}
	if !filter.PlayedTo.IsZero() {
		conds = append(conds, "played_at <= "+arg(filter.PlayedTo))
	}

	q := `SELECT * FROM result`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at, id"
	return repo.selectResults(q, args...)
}

func (repo *resultRepository) DeleteResultsByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := repo.db.Exec(`DELETE FROM result WHERE id = ANY($1)`, pq.StringArray(ids)); err != nil {
		return errors.Wrap(err, "deleting results")
	}
	return nil
}
