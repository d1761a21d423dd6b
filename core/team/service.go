package team

import (
	"sort"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pkg/errors"

	"github.com/trezcool/ligi/core"
)

var (
	// errors
	ErrNotFound   = errors.New("team not found")
	ErrNameExists = errors.New("a team with this name already exists")
)

type (
	Repository interface {
		CheckTeamNameUniqueness(name string, excludedTeams ...Team) error
		CreateTeam(t Team) (Team, error)
		QueryAllTeams() ([]Team, error)
		GetTeamByID(id string) (Team, error)
		GetTeamByName(name string) (Team, error)
		// FilterTeams applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Team.Name or Team.College.
		FilterTeams(filter QueryFilter) ([]Team, error)
		UpdateTeam(t Team) (Team, error)
		DeleteTeamsByID(ids ...string) error

		// SetTeamsGroup refreshes the derived group back-reference: teams in
		// teamIDs point to groupID, any other team still pointing to groupID
		// is cleared.
		SetTeamsGroup(groupID string, teamIDs []string) error
	}

	Service interface {
		CheckUniqueness(name string, exclTeams ...Team) error
		Create(nt NewTeam) (Team, error)
		QueryAll() ([]Team, error)
		Filter(filter QueryFilter) ([]Team, error)
		GetByID(id string) (Team, error)
		Update(id string, ut UpdateTeam) (Team, error)
		Delete(ids ...string) error
		// Suggest returns up to limit teams whose names fuzzy-match q, best first.
		Suggest(q string, limit int) ([]Team, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CheckUniqueness(name string, exclTeams ...Team) error {
	if err := svc.repo.CheckTeamNameUniqueness(name, exclTeams...); err != nil {
		if errors.Cause(err) == ErrNameExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Create(nt NewTeam) (Team, error) {
	now := time.Now().UTC()
	t := Team{
		Name:      nt.Name,
		College:   nt.College,
		LogoURL:   nt.LogoURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateTeam(t)
}

func (svc *service) QueryAll() ([]Team, error) {
	return svc.repo.QueryAllTeams()
}

func (svc *service) Filter(filter QueryFilter) ([]Team, error) {
	return svc.repo.FilterTeams(filter)
}

func (svc *service) GetByID(id string) (Team, error) {
	return svc.repo.GetTeamByID(id)
}

func (svc *service) Update(id string, ut UpdateTeam) (Team, error) {
	t := Team{
		ID:        id,
		Name:      ut.Name,
		College:   ut.College,
		LogoURL:   ut.LogoURL,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpdateTeam(t)
}

func (svc *service) Delete(ids ...string) error {
	return svc.repo.DeleteTeamsByID(ids...)
}

func (svc *service) Suggest(q string, limit int) ([]Team, error) {
	q = core.CleanString(q)
	if q == "" || limit <= 0 {
		return []Team{}, nil
	}

	teams, err := svc.repo.QueryAllTeams()
	if err != nil {
		return nil, errors.Wrap(err, "querying teams")
	}

	names := make([]string, 0, len(teams))
	byName := make(map[string]Team, len(teams))
	for _, t := range teams {
		names = append(names, t.Name)
		byName[t.Name] = t
	}

	ranks := fuzzy.RankFindFold(q, names)
	sort.Sort(ranks)

	matches := make([]Team, 0, limit)
	for _, r := range ranks {
		matches = append(matches, byName[r.Target])
		if len(matches) == limit {
			break
		}
	}
	return matches, nil
}
