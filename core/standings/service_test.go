package standings

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/ligi/core/group"
	"github.com/trezcool/ligi/core/result"
	"github.com/trezcool/ligi/core/team"
)

type (
	teamSourceFunc   func() ([]team.Team, error)
	groupSourceFunc  func() ([]group.Group, error)
	resultSourceFunc func() ([]result.Result, error)
)

func (f teamSourceFunc) QueryAllTeams() ([]team.Team, error)       { return f() }
func (f groupSourceFunc) QueryAllGroups() ([]group.Group, error)   { return f() }
func (f resultSourceFunc) QueryAllResults() ([]result.Result, error) { return f() }

type nopLogger struct{}

func (nopLogger) Enable(bool)                        {}
func (nopLogger) Debug(string, ...interface{})       {}
func (nopLogger) Info(string, ...interface{})        {}
func (nopLogger) Warn(string, ...interface{})        {}
func (nopLogger) Error(string, ...interface{})       {}
func (nopLogger) Fatal(string, ...interface{})       {}

func Test_service_Standings(t *testing.T) {
	teams := mkTeams("a", "b")
	groups := []group.Group{{ID: "g1", Name: "Group A", TeamIDs: []string{"id-a", "id-b"}}}
	results := []result.Result{mkResult("a", "b", 1, 0)}

	okTeams := teamSourceFunc(func() ([]team.Team, error) { return teams, nil })
	okGroups := groupSourceFunc(func() ([]group.Group, error) { return groups, nil })
	okResults := resultSourceFunc(func() ([]result.Result, error) { return results, nil })

	t.Run("aggregates all three snapshots", func(t *testing.T) {
		svc := NewService(okTeams, okGroups, okResults, nopLogger{})
		snap, err := svc.Standings()
		require.NoError(t, err)
		require.Len(t, snap.Tables, 1)
		assert.Equal(t, 3, snap.Tables[0].Rows[0].Points)
	})

	t.Run("any fetch failure aborts the whole computation", func(t *testing.T) {
		boom := errors.New("boom")
		failGroups := groupSourceFunc(func() ([]group.Group, error) { return nil, boom })

		svc := NewService(okTeams, failGroups, okResults, nopLogger{})
		snap, err := svc.Standings()
		assert.Equal(t, ErrComputeFailed, err)
		assert.Empty(t, snap.Tables)
	})
}
