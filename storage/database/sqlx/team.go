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

	"github.com/trezcool/ligi/core/team"
)

type teamRow struct {
	ID        string      `db:"id"`
	Name      null.String `db:"name"`
	College   null.String `db:"college"`
	LogoURL   null.String `db:"logo_url"`
	GroupID   null.String `db:"group_id"`
	CreatedAt null.Time   `db:"created_at"`
	UpdatedAt null.Time   `db:"updated_at"`
}

func (r teamRow) unpack() team.Team {
	return team.Team{
		ID:        r.ID,
		Name:      r.Name.String,
		College:   r.College.String,
		LogoURL:   r.LogoURL.String,
		GroupID:   r.GroupID.String,
		CreatedAt: r.CreatedAt.Time,
		UpdatedAt: r.UpdatedAt.Time,
	}
}

type teamRepository struct {
	db *sqlx.DB
}

var _ team.Repository = (*teamRepository)(nil)

func NewTeamRepository(db *sqlx.DB) team.Repository {
	return &teamRepository{db: db}
}

func (repo *teamRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return team.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *teamRepository) get(query string, args ...interface{}) (team.Team, error) {
	var row teamRow
	if err := repo.db.Get(&row, query, args...); err != nil {
		return team.Team{}, repo.trapNoRowsErr(err, "getting team")
	}
	return row.unpack(), nil
}

func (repo *teamRepository) selectTeams(query string, args ...interface{}) ([]team.Team, error) {
	var rows []teamRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying teams")
	}
	teams := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		teams = append(teams, row.unpack())
	}
	return teams, nil
}

func (repo *teamRepository) CheckTeamNameUniqueness(name string, excludedTeams ...team.Team) error {
	args := []interface{}{name}
	q := `SELECT COUNT(*) FROM team WHERE LOWER(name) = LOWER($1)`
	if len(excludedTeams) > 0 {
		ids := make([]string, 0, len(excludedTeams))
		for _, t := range excludedTeams {
			ids = append(ids, t.ID)
		}
		q += ` AND NOT (id = ANY($2))`
		args = append(args, pq.StringArray(ids))
	}

	var count int
	if err := repo.db.Get(&count, q, args...); err != nil {
		return errors.Wrap(err, "checking team name uniqueness")
	}
	if count > 0 {
		return team.ErrNameExists
	}
	return nil
}

func (repo *teamRepository) CreateTeam(t team.Team) (team.Team, error) {
	t.ID = uuid.New().String()
	_, err := repo.db.Exec(
		`INSERT INTO team (id, name, college, logo_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.Name, t.College, t.LogoURL, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return team.Team{}, errors.Wrap(err, "inserting team")
	}
	return t, nil
}

func (repo *teamRepository) QueryAllTeams() ([]team.Team, error) {
	return repo.selectTeams(`SELECT * FROM team ORDER BY name`)
}

func (repo *teamRepository) GetTeamByID(id string) (team.Team, error) {
	return repo.get(`SELECT * FROM team WHERE id = $1`, id)
}

func (repo *teamRepository) GetTeamByName(name string) (team.Team, error) {
	return repo.get(`SELECT * FROM team WHERE LOWER(name) = LOWER($1)`, name)
}

func (repo *teamRepository) FilterTeams(filter team.QueryFilter) ([]team.Team, error) {
	var (
		conds []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		conds = append(conds, fmt.Sprintf("(name ILIKE %[1]s OR college ILIKE %[1]s)", p))
	}
	if filter.GroupID != "" {
		conds = append(conds, "group_id = "+arg(filter.GroupID))
	}

	q := `SELECT * FROM team`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY name"
	return repo.selectTeams(q, args...)
}

func (repo *teamRepository) UpdateTeam(t team.Team) (team.Team, error) {
	var (
		sets []string
		args []interface{}
	)
	set := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if t.Name != "" {
		set("name", t.Name)
	}
	set("college", t.College)
	set("logo_url", t.LogoURL)
	if !t.UpdatedAt.IsZero() {
		set("updated_at", t.UpdatedAt)
	}

	args = append(args, t.ID)
	q := fmt.Sprintf(`UPDATE team SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	res, err := repo.db.Exec(q, args...)
	if err != nil {
		return team.Team{}, errors.Wrap(err, "updating team")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return team.Team{}, team.ErrNotFound
	}
	return repo.GetTeamByID(t.ID)
}

func (repo *teamRepository) DeleteTeamsByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := repo.db.Exec(`DELETE FROM team WHERE id = ANY($1)`, pq.StringArray(ids)); err != nil {
		return errors.Wrap(err, "deleting teams")
	}
	return nil
}

func (repo *teamRepository) SetTeamsGroup(groupID string, teamIDs []string) error {
	members := pq.StringArray{}
	if teamIDs != nil {
		members = teamIDs
	}

	tx, err := repo.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "beginning tx")
	}
	defer tx.Rollback()

	if _, err = tx.Exec(
		`UPDATE team SET group_id = NULL WHERE group_id = $1 AND NOT (id = ANY($2))`,
		groupID, members,
	); err != nil {
		return errors.Wrap(err, "clearing team group refs")
	}
	if len(members) > 0 {
		if _, err = tx.Exec(
			`UPDATE team SET group_id = $1 WHERE id = ANY($2)`,
			groupID, members,
		); err != nil {
			return errors.Wrap(err, "setting team group refs")
		}
	}
	return errors.Wrap(tx.Commit(), "committing tx")
}
