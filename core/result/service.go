package result

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/ligi/core"
	"github.com/trezcool/ligi/core/team"
)

var (
	// errors
	ErrNotFound = errors.New("result not found")
)

type (
	Repository interface {
		CreateResult(res Result) (Result, error)
		QueryAllResults() ([]Result, error)
		GetResultByID(id string) (Result, error)
		// FilterResults applies AND operation on available QueryFilter fields.
		FilterResults(filter QueryFilter) ([]Result, error)
		DeleteResultsByID(ids ...string) error
	}

	Service interface {
		CheckTeams(homeID, awayID string) error
		Create(nr NewResult) (Result, error)
		QueryAll() ([]Result, error)
		Filter(filter QueryFilter) ([]Result, error)
		GetByID(id string) (Result, error)
		Delete(ids ...string) error
	}

	service struct {
		repo     Repository
		teamRepo team.Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, teamRepo team.Repository) Service {
	return &service{
		repo:     repo,
		teamRepo: teamRepo,
	}
}

// CheckTeams verifies that both sides resolve to registered teams. Results
// recorded through the API always carry resolved ids; the aggregator still
// tolerates dangling references in historical data.
func (svc *service) CheckTeams(homeID, awayID string) error {
	check := func(field, id string) error {
		if _, err := svc.teamRepo.GetTeamByID(id); err != nil {
			if errors.Cause(err) == team.ErrNotFound {
				return core.NewValidationError(err,
					core.FieldError{Field: field, Error: fmt.Sprintf("unknown team %q", id)})
			}
			return errors.Wrap(err, "resolving team")
		}
		return nil
	}
	if err := check("home_team_id", homeID); err != nil {
		return err
	}
	return check("away_team_id", awayID)
}

func (svc *service) Create(nr NewResult) (Result, error) {
	now := time.Now().UTC()
	playedAt := nr.PlayedAt
	if playedAt.IsZero() {
		playedAt = now
	}
	res := Result{
		HomeTeamID: nr.HomeTeamID,
		AwayTeamID: nr.AwayTeamID,
		HomeScore:  nr.HomeScore,
		AwayScore:  nr.AwayScore,
		HomePoints: nr.HomePoints,
		AwayPoints: nr.AwayPoints,
		PlayedAt:   playedAt.UTC(),
		CreatedAt:  now,
	}
	return svc.repo.CreateResult(res)
}

func (svc *service) QueryAll() ([]Result, error) {
	return svc.repo.QueryAllResults()
}

func (svc *service) Filter(filter QueryFilter) ([]Result, error) {
	return svc.repo.FilterResults(filter)
}

func (svc *service) GetByID(id string) (Result, error) {
	return svc.repo.GetResultByID(id)
}

func (svc *service) Delete(ids ...string) error {
	return svc.repo.DeleteResultsByID(ids...)
}
