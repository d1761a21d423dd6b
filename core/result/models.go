package result

import (
	"time"

	"github.com/trezcool/ligi/core"
)

// Result is a recorded completed match between two teams. It is immutable
// once recorded: there is no update path, only create and delete.
// HomePoints/AwayPoints, when set, override the standard 3/1/0 points rule
// during standings aggregation (e.g. a forfeit awarded by the league).
type Result struct {
	ID         string    `json:"id"`
	HomeTeamID string    `json:"home_team_id"`
	AwayTeamID string    `json:"away_team_id"`
	HomeScore  int       `json:"home_score"`
	AwayScore  int       `json:"away_score"`
	HomePoints *int      `json:"home_points,omitempty"`
	AwayPoints *int      `json:"away_points,omitempty"`
	PlayedAt   time.Time `json:"played_at"`  // UTC
	CreatedAt  time.Time `json:"created_at"` // UTC
}

// NewResult contains information needed to record a completed match.
type NewResult struct {
	HomeTeamID string    `json:"home_team_id" validate:"required"`
	AwayTeamID string    `json:"away_team_id" validate:"required,nefield=HomeTeamID"`
	HomeScore  int       `json:"home_score" validate:"gte=0"`
	AwayScore  int       `json:"away_score" validate:"gte=0"`
	HomePoints *int      `json:"home_points" validate:"omitempty,gte=0"`
	AwayPoints *int      `json:"away_points" validate:"omitempty,gte=0"`
	PlayedAt   time.Time `json:"played_at"`
}

func (nr *NewResult) Validate(svc Service) error {
	nr.HomeTeamID = core.CleanString(nr.HomeTeamID)
	nr.AwayTeamID = core.CleanString(nr.AwayTeamID)

	if err := core.Validate.Struct(nr); err != nil {
		return err
	}
	return svc.CheckTeams(nr.HomeTeamID, nr.AwayTeamID)
}

type QueryFilter struct {
	TeamID     string    `query:"team_id"`
	PlayedFrom time.Time `query:"played_from"`
	PlayedTo   time.Time `query:"played_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.TeamID == "" && qf.PlayedFrom.IsZero() && qf.PlayedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.TeamID = core.CleanString(qf.TeamID)
}
