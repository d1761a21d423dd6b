package standings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/ligi/core/group"
	"github.com/trezcool/ligi/core/result"
	"github.com/trezcool/ligi/core/team"
)

func intPtr(n int) *int { return &n }

func mkTeams(names ...string) []team.Team {
	teams := make([]team.Team, 0, len(names))
	for _, n := range names {
		teams = append(teams, team.Team{ID: "id-" + n, Name: n})
	}
	return teams
}

func mkResult(home, away string, hs, as int) result.Result {
	return result.Result{HomeTeamID: "id-" + home, AwayTeamID: "id-" + away, HomeScore: hs, AwayScore: as}
}

func findRow(t *testing.T, tbl Table, teamName string) Row {
	t.Helper()
	for _, r := range tbl.Rows {
		if r.TeamName == teamName {
			return r
		}
	}
	t.Fatalf("no row for %q in table %q", teamName, tbl.GroupName)
	return Row{}
}

func TestCompute_winDrawLoss(t *testing.T) {
	teams := mkTeams("simba", "twiga")
	groups := []group.Group{{ID: "g1", Name: "Group A", TeamIDs: []string{"id-simba", "id-twiga"}}}

	t.Run("3-1 home win", func(t *testing.T) {
		snap := Compute(teams, groups, []result.Result{mkResult("simba", "twiga", 3, 1)})
		require.Len(t, snap.Tables, 1)
		tbl := snap.Tables[0]

		simba := findRow(t, tbl, "simba")
		assert.Equal(t, Row{
			TeamID: "id-simba", TeamName: "simba",
			Played: 1, Won: 1,
			GoalsFor: 3, GoalsAgainst: 1, GoalDifference: 2,
			Points: 3,
		}, simba)

		twiga := findRow(t, tbl, "twiga")
		assert.Equal(t, Row{
			TeamID: "id-twiga", TeamName: "twiga",
			Played: 1, Lost: 1,
			GoalsFor: 1, GoalsAgainst: 3, GoalDifference: -2,
			Points: 0,
		}, twiga)

		// winner ranks first
		assert.Equal(t, "simba", tbl.Rows[0].TeamName)
	})

	t.Run("2-2 draw", func(t *testing.T) {
		snap := Compute(teams, groups, []result.Result{mkResult("simba", "twiga", 2, 2)})
		tbl := snap.Tables[0]
		for _, name := range []string{"simba", "twiga"} {
			r := findRow(t, tbl, name)
			assert.Equal(t, 1, r.Played, name)
			assert.Equal(t, 1, r.Drawn, name)
			assert.Equal(t, 1, r.Points, name)
			assert.Equal(t, 0, r.GoalDifference, name)
		}
	})
}

// every result hands out either 3 (decisive) or 2 (draw) points in total,
// and each row's played count always equals won+drawn+lost
func TestCompute_invariants(t *testing.T) {
	teams := mkTeams("a", "b", "c", "d")
	groups := []group.Group{
		{ID: "g1", Name: "Group A", TeamIDs: []string{"id-a", "id-b", "id-c", "id-d"}},
	}
	results := []result.Result{
		mkResult("a", "b", 3, 1),
		mkResult("c", "d", 2, 2),
		mkResult("a", "c", 0, 5),
		mkResult("b", "d", 1, 1),
		mkResult("a", "d", 2, 0),
	}

	snap := Compute(teams, groups, results)
	require.Len(t, snap.Tables, 1)
	tbl := snap.Tables[0]

	var totalPoints, totalPlayed, totalGD int
	for _, r := range tbl.Rows {
		assert.Equal(t, r.Played, r.Won+r.Drawn+r.Lost, r.TeamName)
		assert.Equal(t, r.GoalsFor-r.GoalsAgainst, r.GoalDifference, r.TeamName)
		totalPoints += r.Points
		totalPlayed += r.Played
		totalGD += r.GoalDifference
	}
	// 3 decisive results x 3 pts + 2 draws x 2 pts
	assert.Equal(t, 13, totalPoints)
	// each result counts once per side
	assert.Equal(t, 2*len(results), totalPlayed)
	assert.Equal(t, 0, totalGD)
}

func TestCompute_ranking(t *testing.T) {
	teams := mkTeams("a", "b", "c")
	groups := []group.Group{{ID: "g1", Name: "Group A", TeamIDs: []string{"id-a", "id-b", "id-c"}}}
	// a and b end level on 3 points; a has the better goal difference
	results := []result.Result{
		mkResult("a", "c", 4, 0),
		mkResult("b", "c", 1, 0),
	}

	snap := Compute(teams, groups, results)
	rows := snap.Tables[0].Rows
	assert.Equal(t, "a", rows[0].TeamName)
	assert.Equal(t, "b", rows[1].TeamName)
	assert.Equal(t, "c", rows[2].TeamName)
}

func rowOrder(tbl Table) []string {
	names := make([]string, 0, len(tbl.Rows))
	for _, r := range tbl.Rows {
		names = append(names, r.TeamName)
	}
	return names
}

func TestCompute_tieOrdering(t *testing.T) {
	t.Run("fully tied rows keep member order", func(t *testing.T) {
		teams := mkTeams("a", "b", "c")
		groups := []group.Group{{ID: "g1", Name: "Group A", TeamIDs: []string{"id-a", "id-b", "id-c"}}}
		// mirrored legs: a and b end level on points, goal difference and goals for
		results := []result.Result{
			mkResult("a", "b", 1, 0),
			mkResult("b", "a", 1, 0),
		}

		snap := Compute(teams, groups, results)
		require.Len(t, snap.Tables, 1)
		assert.Equal(t, []string{"a", "b", "c"}, rowOrder(snap.Tables[0]))
	})

	t.Run("draw between tied teams leaves order unchanged", func(t *testing.T) {
		teams := mkTeams("a", "b")
		groups := []group.Group{{ID: "g1", Name: "Group A", TeamIDs: []string{"id-a", "id-b"}}}

		snap := Compute(teams, groups, []result.Result{mkResult("a", "b", 2, 2)})
		require.Len(t, snap.Tables, 1)
		assert.Equal(t, []string{"a", "b"}, rowOrder(snap.Tables[0]))
	})

	t.Run("equal points and goal difference resolved by goals for", func(t *testing.T) {
		teams := mkTeams("a", "b", "c", "d")
		// declared out of rank order so the sort, not the pre-seed, decides
		groups := []group.Group{{ID: "g1", Name: "Group A", TeamIDs: []string{"id-b", "id-a", "id-d", "id-c"}}}
		// a and b both win by 2; a scores more. c and d both lose by 2; c scores more.
		results := []result.Result{
			mkResult("a", "c", 3, 1),
			mkResult("b", "d", 2, 0),
		}

		snap := Compute(teams, groups, results)
		require.Len(t, snap.Tables, 1)
		assert.Equal(t, []string{"a", "b", "c", "d"}, rowOrder(snap.Tables[0]))
	})
}

func TestCompute_explicitPointOverrides(t *testing.T) {
	teams := mkTeams("a", "b")
	groups := []group.Group{{ID: "g1", Name: "Group A", TeamIDs: []string{"id-a", "id-b"}}}
	// forfeit: the 2-0 win is overridden to 0 points, the loser awarded 3
	res := mkResult("a", "b", 2, 0)
	res.HomePoints = intPtr(0)
	res.AwayPoints = intPtr(3)

	snap := Compute(teams, groups, []result.Result{res})
	tbl := snap.Tables[0]
	assert.Equal(t, 0, findRow(t, tbl, "a").Points)
	assert.Equal(t, 3, findRow(t, tbl, "b").Points)
	// goals still count as recorded
	assert.Equal(t, 2, findRow(t, tbl, "a").GoalsFor)
}

func TestCompute_unknownTeamSkipsResult(t *testing.T) {
	teams := mkTeams("a", "b")
	groups := []group.Group{{ID: "g1", Name: "Group A", TeamIDs: []string{"id-a", "id-b"}}}
	results := []result.Result{
		mkResult("a", "b", 1, 0),
		{HomeTeamID: "id-ghost", AwayTeamID: "id-b", HomeScore: 9, AwayScore: 0},
	}

	snap := Compute(teams, groups, results)
	assert.Equal(t, 1, snap.SkippedResults)

	// the dangling result left no trace on the known side either
	b := findRow(t, snap.Tables[0], "b")
	assert.Equal(t, 1, b.Played)
	assert.Equal(t, 0, b.GoalsAgainst)
}

func TestCompute_noCommonGroupGoesUngrouped(t *testing.T) {
	teams := mkTeams("a", "b", "x")
	groups := []group.Group{
		{ID: "g1", Name: "Group A", TeamIDs: []string{"id-a", "id-b"}},
	}
	results := []result.Result{
		mkResult("a", "x", 2, 1), // x is in no group
	}

	snap := Compute(teams, groups, results)
	require.Len(t, snap.Tables, 2)

	// group A untouched by the cross result: a still all-zero there
	a := findRow(t, snap.Tables[0], "a")
	assert.Equal(t, 0, a.Played)

	ungrouped := snap.Tables[1]
	assert.Equal(t, UngroupedID, ungrouped.GroupID)
	assert.Equal(t, UngroupedName, ungrouped.GroupName)
	assert.Equal(t, 3, findRow(t, ungrouped, "a").Points)
	assert.Equal(t, 0, findRow(t, ungrouped, "x").Points)
}

func TestCompute_sharedGroupsBothCount(t *testing.T) {
	teams := mkTeams("a", "b")
	groups := []group.Group{
		{ID: "g1", Name: "Group A", TeamIDs: []string{"id-a", "id-b"}},
		{ID: "g2", Name: "Cup Pool", TeamIDs: []string{"id-a", "id-b"}},
	}

	snap := Compute(teams, groups, []result.Result{mkResult("a", "b", 1, 0)})
	require.Len(t, snap.Tables, 2)
	for _, tbl := range snap.Tables {
		assert.Equal(t, 3, findRow(t, tbl, "a").Points, tbl.GroupName)
	}
}

func TestCompute_emptyGroupStillTabled(t *testing.T) {
	teams := mkTeams("a", "b")
	groups := []group.Group{
		{ID: "g1", Name: "Group A", TeamIDs: []string{"id-a", "id-b"}},
		{ID: "g2", Name: "Memberless"},
	}

	snap := Compute(teams, groups, nil)
	// group with no members is omitted, group with members emits all-zero rows
	require.Len(t, snap.Tables, 1)
	tbl := snap.Tables[0]
	assert.Equal(t, "Group A", tbl.GroupName)
	require.Len(t, tbl.Rows, 2)
	for _, r := range tbl.Rows {
		assert.Equal(t, Row{TeamID: r.TeamID, TeamName: r.TeamName}, r)
	}
}

func TestCompute_tableOrderFollowsGroupDeclaration(t *testing.T) {
	teams := mkTeams("a", "b", "c", "d", "x", "y")
	groups := []group.Group{
		{ID: "g2", Name: "Group B", TeamIDs: []string{"id-c", "id-d"}},
		{ID: "g1", Name: "Group A", TeamIDs: []string{"id-a", "id-b"}},
	}
	results := []result.Result{
		mkResult("x", "y", 1, 1), // ungrouped
	}

	snap := Compute(teams, groups, results)
	require.Len(t, snap.Tables, 3)
	assert.Equal(t, "Group B", snap.Tables[0].GroupName)
	assert.Equal(t, "Group A", snap.Tables[1].GroupName)
	assert.Equal(t, UngroupedName, snap.Tables[2].GroupName)
}

func TestCompute_empty(t *testing.T) {
	snap := Compute(nil, nil, nil)
	assert.Empty(t, snap.Tables)
	assert.Zero(t, snap.SkippedResults)
}
