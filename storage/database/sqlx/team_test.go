package sqlxrepos

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/ligi/core/team"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(mockDB, "postgres"), mock, func() { mockDB.Close() }
}

func teamColumns() []string {
	return []string{"id", "name", "college", "logo_url", "group_id", "created_at", "updated_at"}
}

func TestTeamRepository_GetTeamByID(t *testing.T) {
	db, mock, closeDB := newMockDB(t)
	defer closeDB()
	repo := NewTeamRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM team WHERE id = \$1`).
		WithArgs("team-1").
		WillReturnRows(sqlmock.NewRows(teamColumns()).
			AddRow("team-1", "Simba FC", "Hilltop College", "", nil, now, now))

	tm, err := repo.GetTeamByID("team-1")
	require.NoError(t, err)
	assert.Equal(t, "Simba FC", tm.Name)
	assert.Equal(t, "Hilltop College", tm.College)
	assert.Empty(t, tm.GroupID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamRepository_GetTeamByID_notFound(t *testing.T) {
	db, mock, closeDB := newMockDB(t)
	defer closeDB()
	repo := NewTeamRepository(db)

	mock.ExpectQuery(`SELECT \* FROM team WHERE id = \$1`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(teamColumns()))

	_, err := repo.GetTeamByID("nope")
	assert.Equal(t, team.ErrNotFound, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamRepository_CheckTeamNameUniqueness(t *testing.T) {
	db, mock, closeDB := newMockDB(t)
	defer closeDB()
	repo := NewTeamRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM team WHERE LOWER\(name\) = LOWER\(\$1\)`).
		WithArgs("Simba FC").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := repo.CheckTeamNameUniqueness("Simba FC")
	assert.Equal(t, team.ErrNameExists, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamRepository_CreateTeam(t *testing.T) {
	db, mock, closeDB := newMockDB(t)
	defer closeDB()
	repo := NewTeamRepository(db)

	now := time.Now()
	mock.ExpectExec(`INSERT INTO team`).
		WithArgs(sqlmock.AnyArg(), "Simba FC", "Hilltop College", "", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tm, err := repo.CreateTeam(team.Team{Name: "Simba FC", College: "Hilltop College", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	assert.NotEmpty(t, tm.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamRepository_SetTeamsGroup(t *testing.T) {
	db, mock, closeDB := newMockDB(t)
	defer closeDB()
	repo := NewTeamRepository(db)

	members := pq.StringArray{"team-1", "team-2"}
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE team SET group_id = NULL WHERE group_id = \$1 AND NOT \(id = ANY\(\$2\)\)`).
		WithArgs("group-1", members).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE team SET group_id = \$1 WHERE id = ANY\(\$2\)`).
		WithArgs("group-1", members).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := repo.SetTeamsGroup("group-1", []string{"team-1", "team-2"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamRepository_SetTeamsGroup_clear(t *testing.T) {
	db, mock, closeDB := newMockDB(t)
	defer closeDB()
	repo := NewTeamRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE team SET group_id = NULL WHERE group_id = \$1 AND NOT \(id = ANY\(\$2\)\)`).
		WithArgs("group-1", pq.StringArray{}).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := repo.SetTeamsGroup("group-1", nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
