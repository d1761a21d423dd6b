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

	"github.com/trezcool/ligi/core/group"
)

type groupRow struct {
	ID          string         `db:"id"`
	Name        null.String    `db:"name"`
	Description null.String    `db:"description"`
	TeamIDs     pq.StringArray `db:"team_ids"`
	CreatedAt   null.Time      `db:"created_at"`
	UpdatedAt   null.Time      `db:"updated_at"`
}

func (r groupRow) unpack() group.Group {
	return group.Group{
		ID:          r.ID,
		Name:        r.Name.String,
		Description: r.Description.String,
		TeamIDs:     r.TeamIDs,
		CreatedAt:   r.CreatedAt.Time,
		UpdatedAt:   r.UpdatedAt.Time,
	}
}

type groupRepository struct {
	db *sqlx.DB
}

var _ group.Repository = (*groupRepository)(nil)

func NewGroupRepository(db *sqlx.DB) group.Repository {
	return &groupRepository{db: db}
}

func (repo *groupRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return group.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *groupRepository) CheckGroupNameUniqueness(name string, excludedGroups ...group.Group) error {
	args := []interface{}{name}
	q := `SELECT COUNT(*) FROM "group" WHERE LOWER(name) = LOWER($1)`
	if len(excludedGroups) > 0 {
		ids := make([]string, 0, len(excludedGroups))
		for _, g := range excludedGroups {
			ids = append(ids, g.ID)
		}
		q += ` AND NOT (id = ANY($2))`
		args = append(args, pq.StringArray(ids))
	}

	var count int
	if err := repo.db.Get(&count, q, args...); err != nil {
		return errors.Wrap(err, "checking group name uniqueness")
	}
	if count > 0 {
		return group.ErrNameExists
	}
	return nil
}

func (repo *groupRepository) CreateGroup(g group.Group) (group.Group, error) {
	g.ID = uuid.New().String()
	teamIDs := pq.StringArray{}
	if g.TeamIDs != nil {
		teamIDs = g.TeamIDs
	}
	_, err := repo.db.Exec(
		`INSERT INTO "group" (id, name, description, team_ids, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		g.ID, g.Name, g.Description, teamIDs, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return group.Group{}, errors.Wrap(err, "inserting group")
	}
	return g, nil
}

func (repo *groupRepository) QueryAllGroups() ([]group.Group, error) {
	var rows []groupRow
	if err := repo.db.Select(&rows, `SELECT * FROM "group" ORDER BY created_at, name`); err != nil {
		return nil, errors.Wrap(err, "querying groups")
	}
	groups := make([]group.Group, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, row.unpack())
	}
	return groups, nil
}

func (repo *groupRepository) GetGroupByID(id string) (group.Group, error) {
	var row groupRow
	if err := repo.db.Get(&row, `SELECT * FROM "group" WHERE id = $1`, id); err != nil {
		return group.Group{}, repo.trapNoRowsErr(err, "getting group")
	}
	return row.unpack(), nil
}

func (repo *groupRepository) UpdateGroup(g group.Group, teamIDs []string) (group.Group, error) {
	var (
		sets []string
		args []interface{}
	)
	set := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if g.Name != "" {
		set("name", g.Name)
	}
	set("description", g.Description)
	if teamIDs != nil {
		set("team_ids", pq.StringArray(teamIDs))
	}
	if !g.UpdatedAt.IsZero() {
		set("updated_at", g.UpdatedAt)
	}

	args = append(args, g.ID)
	q := fmt.Sprintf(`UPDATE "group" SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	res, err := repo.db.Exec(q, args...)
	if err != nil {
		return group.Group{}, errors.Wrap(err, "updating group")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return group.Group{}, group.ErrNotFound
	}
	return repo.GetGroupByID(g.ID)
}

func (repo *groupRepository) DeleteGroupsByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := repo.db.Exec(`DELETE FROM "group" WHERE id = ANY($1)`, pq.StringArray(ids)); err != nil {
		return errors.Wrap(err, "deleting groups")
	}
	return nil
}
