package group

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/ligi/core"
	"github.com/trezcool/ligi/core/team"
)

var (
	// errors
	ErrNotFound   = errors.New("group not found")
	ErrNameExists = errors.New("a group with this name already exists")
)

type (
	Repository interface {
		CheckGroupNameUniqueness(name string, excludedGroups ...Group) error
		CreateGroup(g Group) (Group, error)
		// QueryAllGroups returns groups in declaration order (creation time).
		QueryAllGroups() ([]Group, error)
		GetGroupByID(id string) (Group, error)
		// UpdateGroup persists g; a nil teamIDs leaves the member list
		// untouched, any other value replaces it.
		UpdateGroup(g Group, teamIDs []string) (Group, error)
		DeleteGroupsByID(ids ...string) error
	}

	Service interface {
		CheckUniqueness(name string, exclGroups ...Group) error
		CheckMembers(teamIDs []string) error
		Create(ng NewGroup) (Group, error)
		QueryAll() ([]Group, error)
		GetByID(id string) (Group, error)
		Update(id string, ug UpdateGroup) (Group, error)
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

func (svc *service) CheckUniqueness(name string, exclGroups ...Group) error {
	if err := svc.repo.CheckGroupNameUniqueness(name, exclGroups...); err != nil {
		if errors.Cause(err) == ErrNameExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

// CheckMembers verifies that every team id resolves to a registered team.
func (svc *service) CheckMembers(teamIDs []string) error {
	for _, id := range teamIDs {
		if _, err := svc.teamRepo.GetTeamByID(id); err != nil {
			if errors.Cause(err) == team.ErrNotFound {
				return core.NewValidationError(err,
					core.FieldError{Field: "team_ids", Error: fmt.Sprintf("unknown team %q", id)})
			}
			return errors.Wrap(err, "resolving member team")
		}
	}
	return nil
}

func (svc *service) Create(ng NewGroup) (Group, error) {
	now := time.Now().UTC()
	grp := Group{
		Name:        ng.Name,
		Description: ng.Description,
		TeamIDs:     ng.TeamIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	grp, err := svc.repo.CreateGroup(grp)
	if err != nil {
		return Group{}, err
	}
	if err = svc.teamRepo.SetTeamsGroup(grp.ID, grp.TeamIDs); err != nil {
		return Group{}, errors.Wrap(err, "refreshing team group cache")
	}
	return grp, nil
}

func (svc *service) QueryAll() ([]Group, error) {
	return svc.repo.QueryAllGroups()
}

func (svc *service) GetByID(id string) (Group, error) {
	return svc.repo.GetGroupByID(id)
}

func (svc *service) Update(id string, ug UpdateGroup) (Group, error) {
	grp := Group{
		ID:          id,
		Name:        ug.Name,
		Description: ug.Description,
		UpdatedAt:   time.Now().UTC(),
	}
	grp, err := svc.repo.UpdateGroup(grp, ug.TeamIDs)
	if err != nil {
		return Group{}, err
	}
	if ug.TeamIDs != nil {
		if err = svc.teamRepo.SetTeamsGroup(grp.ID, grp.TeamIDs); err != nil {
			return Group{}, errors.Wrap(err, "refreshing team group cache")
		}
	}
	return grp, nil
}

func (svc *service) Delete(ids ...string) error {
	// drop the derived back-references first
	for _, id := range ids {
		if err := svc.teamRepo.SetTeamsGroup(id, nil); err != nil {
			return errors.Wrap(err, "clearing team group cache")
		}
	}
	return svc.repo.DeleteGroupsByID(ids...)
}
