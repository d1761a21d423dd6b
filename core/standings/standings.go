// Package standings derives ranked league tables from recorded match results.
// Aggregation is a pure, single-pass computation over full snapshots of the
// team, group and result collections; nothing is persisted or cached.
package standings

import (
	"sort"

	"github.com/trezcool/ligi/core/group"
	"github.com/trezcool/ligi/core/result"
	"github.com/trezcool/ligi/core/team"
)

// The synthetic table collecting results between teams that share no group.
const (
	UngroupedID   = "ungrouped"
	UngroupedName = "Ungrouped"
)

const (
	winPoints  = 3
	drawPoints = 1
	lossPoints = 0
)

type (
	// Row is a team's aggregated record within one group.
	Row struct {
		TeamID         string `json:"team_id"`
		TeamName       string `json:"team_name"`
		Played         int    `json:"played"`
		Won            int    `json:"won"`
		Drawn          int    `json:"drawn"`
		Lost           int    `json:"lost"`
		GoalsFor       int    `json:"goals_for"`
		GoalsAgainst   int    `json:"goals_against"`
		GoalDifference int    `json:"goal_difference"`
		Points         int    `json:"points"`
	}

	// Table is one group's ranked standings.
	Table struct {
		GroupID   string `json:"group_id"`
		GroupName string `json:"group_name"`
		Rows      []Row  `json:"rows"`
	}

	// Snapshot is the full standings output for one aggregation pass.
	// SkippedResults counts results dropped for referencing unknown teams.
	Snapshot struct {
		Tables         []Table `json:"tables"`
		SkippedResults int     `json:"skipped_results"`
	}
)

// table accumulates rows for one group during aggregation, preserving the
// order in which teams were first seen (encounter order for stable sorting).
type table struct {
	rows  []*Row
	index map[string]*Row // team id -> row
}

func newTable() *table {
	return &table{index: make(map[string]*Row)}
}

// row returns the team's row, creating it on demand for teams that show up
// in a result for a group they were not pre-seeded into.
func (t *table) row(teamID, teamName string) *Row {
	if r, ok := t.index[teamID]; ok {
		return r
	}
	r := &Row{TeamID: teamID, TeamName: teamName}
	t.rows = append(t.rows, r)
	t.index[teamID] = r
	return r
}

// Compute aggregates results into one ranked table per group that has at
// least one member, in group declaration order, followed by the synthetic
// ungrouped table when it is non-empty.
//
// A result whose sides share no common group lands in the ungrouped table;
// a result referencing an unknown team on either side is skipped and counted.
func Compute(teams []team.Team, groups []group.Group, results []result.Result) Snapshot {
	// team id -> display name (fall back to the id itself if unknown)
	names := make(map[string]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}
	name := func(id string) string {
		if n, ok := names[id]; ok {
			return n
		}
		return id
	}

	// reverse index: team id -> ids of the groups it belongs to
	membership := make(map[string][]string)
	for _, g := range groups {
		for _, teamID := range g.TeamIDs {
			membership[teamID] = append(membership[teamID], g.ID)
		}
	}

	// pre-seed one all-zero row per (group, member team) pair so that groups
	// with no recorded results still emit full tables
	tables := make(map[string]*table, len(groups)+1)
	for _, g := range groups {
		tbl := newTable()
		for _, teamID := range g.TeamIDs {
			tbl.row(teamID, name(teamID))
		}
		tables[g.ID] = tbl
	}
	ungrouped := newTable()

	var skipped int
	for _, res := range results {
		// unresolved team reference on either side: drop the result
		if _, ok := names[res.HomeTeamID]; !ok {
			skipped++
			continue
		}
		if _, ok := names[res.AwayTeamID]; !ok {
			skipped++
			continue
		}

		homePts, awayPts := points(res)

		targets := intersect(membership[res.HomeTeamID], membership[res.AwayTeamID])
		if len(targets) == 0 {
			applyResult(ungrouped, res, homePts, awayPts, name)
			continue
		}
		for _, groupID := range targets {
			// target ids come from groups, so their tables are pre-seeded
			applyResult(tables[groupID], res, homePts, awayPts, name)
		}
	}

	// rank: points desc, then goal difference desc, then goals for desc;
	// stable so that teams equal on all three keep encounter order
	rank := func(tbl *table) []Row {
		sort.SliceStable(tbl.rows, func(i, j int) bool {
			a, b := tbl.rows[i], tbl.rows[j]
			if a.Points != b.Points {
				return a.Points > b.Points
			}
			if a.GoalDifference != b.GoalDifference {
				return a.GoalDifference > b.GoalDifference
			}
			return a.GoalsFor > b.GoalsFor
		})
		rows := make([]Row, 0, len(tbl.rows))
		for _, r := range tbl.rows {
			rows = append(rows, *r)
		}
		return rows
	}

	snap := Snapshot{Tables: make([]Table, 0, len(groups)+1), SkippedResults: skipped}
	for _, g := range groups {
		tbl := tables[g.ID]
		if len(tbl.rows) == 0 {
			continue
		}
		snap.Tables = append(snap.Tables, Table{GroupID: g.ID, GroupName: g.Name, Rows: rank(tbl)})
	}
	if len(ungrouped.rows) > 0 {
		snap.Tables = append(snap.Tables, Table{GroupID: UngroupedID, GroupName: UngroupedName, Rows: rank(ungrouped)})
	}
	return snap
}

// points resolves each side's points: explicit overrides win, otherwise the
// standard 3/1/0 win/draw/loss rule applies.
func points(res result.Result) (home, away int) {
	switch {
	case res.HomeScore > res.AwayScore:
		home, away = winPoints, lossPoints
	case res.HomeScore < res.AwayScore:
		home, away = lossPoints, winPoints
	default:
		home, away = drawPoints, drawPoints
	}
	if res.HomePoints != nil {
		home = *res.HomePoints
	}
	if res.AwayPoints != nil {
		away = *res.AwayPoints
	}
	return home, away
}

func applyResult(tbl *table, res result.Result, homePts, awayPts int, name func(string) string) {
	update(tbl.row(res.HomeTeamID, name(res.HomeTeamID)), res.HomeScore, res.AwayScore, homePts)
	update(tbl.row(res.AwayTeamID, name(res.AwayTeamID)), res.AwayScore, res.HomeScore, awayPts)
}

func update(r *Row, scored, conceded, pts int) {
	r.Played++
	switch pts {
	case winPoints:
		r.Won++
	case drawPoints:
		r.Drawn++
	default:
		r.Lost++
	}
	r.GoalsFor += scored
	r.GoalsAgainst += conceded
	r.GoalDifference += scored - conceded
	r.Points += pts
}

// intersect returns the group ids present in both memberships, in a's order.
func intersect(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	inB := make(map[string]struct{}, len(b))
	for _, id := range b {
		inB[id] = struct{}{}
	}
	var common []string
	for _, id := range a {
		if _, ok := inB[id]; ok {
			common = append(common, id)
		}
	}
	return common
}
