package standings

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/ligi/core"
	"github.com/trezcool/ligi/core/group"
	"github.com/trezcool/ligi/core/result"
	"github.com/trezcool/ligi/core/team"
)

// ErrComputeFailed is the single error surfaced when any snapshot fetch
// fails; the underlying cause is logged, not exposed.
var ErrComputeFailed = errors.New("failed to compute standings; check permissions")

type (
	TeamSource interface {
		QueryAllTeams() ([]team.Team, error)
	}
	GroupSource interface {
		QueryAllGroups() ([]group.Group, error)
	}
	ResultSource interface {
		QueryAllResults() ([]result.Result, error)
	}

	Service interface {
		// Standings fetches the three snapshots concurrently and aggregates
		// them. Any fetch failure aborts the whole computation.
		Standings() (Snapshot, error)
	}

	service struct {
		teams   TeamSource
		groups  GroupSource
		results ResultSource
		logger  core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(teams TeamSource, groups GroupSource, results ResultSource, logger core.Logger) Service {
	return &service{
		teams:   teams,
		groups:  groups,
		results: results,
		logger:  logger,
	}
}

func (svc *service) Standings() (Snapshot, error) {
	var (
		teams   []team.Team
		groups  []group.Group
		results []result.Result
	)

	errc := make(chan error)
	go func() {
		var err error
		if teams, err = svc.teams.QueryAllTeams(); err != nil {
			err = errors.Wrap(err, "fetching teams")
		}
		errc <- err
	}()
	go func() {
		var err error
		if groups, err = svc.groups.QueryAllGroups(); err != nil {
			err = errors.Wrap(err, "fetching groups")
		}
		errc <- err
	}()
	go func() {
		var err error
		if results, err = svc.results.QueryAllResults(); err != nil {
			err = errors.Wrap(err, "fetching results")
		}
		errc <- err
	}()

	var fetchErr error
	for i := 0; i < 3; i++ {
		if err := <-errc; err != nil && fetchErr == nil {
			fetchErr = err
		}
	}
	if fetchErr != nil {
		svc.logger.Error(fmt.Sprintf("standings snapshot fetch: %v", fetchErr), fetchErr)
		return Snapshot{}, ErrComputeFailed
	}

	snap := Compute(teams, groups, results)
	if snap.SkippedResults > 0 {
		svc.logger.Warn(fmt.Sprintf("standings: skipped %d result(s) with unresolved team references", snap.SkippedResults))
	}
	return snap, nil
}
