package group

import (
	"time"

	"github.com/trezcool/ligi/core"
)

// Group is a named pool of teams that play each other for standings purposes.
// Its member list is the authoritative record of membership; the Team.GroupID
// back-reference is a cache derived from it.
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	TeamIDs     []string  `json:"team_ids"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// HasTeam reports whether the given team is a member of this group.
func (g Group) HasTeam(teamID string) bool {
	for _, id := range g.TeamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}

// NewGroup contains information needed to create a new Group.
type NewGroup struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"omitempty"`
	TeamIDs     []string `json:"team_ids" validate:"omitempty,unique,dive,required"`
}

func (ng *NewGroup) Validate(svc Service) error {
	ng.Name = core.CleanString(ng.Name)
	ng.Description = core.CleanString(ng.Description)

	if err := core.Validate.Struct(ng); err != nil {
		return err
	}
	if err := svc.CheckUniqueness(ng.Name); err != nil {
		return err
	}
	return svc.CheckMembers(ng.TeamIDs)
}

// UpdateGroup defines what information may be provided to modify an existing Group.
// A nil TeamIDs leaves membership untouched; an empty slice clears it.
type UpdateGroup struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	TeamIDs     []string `json:"team_ids" validate:"omitempty,unique,dive,required"`
}

func (ug *UpdateGroup) Validate(origGrp Group, svc Service) error {
	if name := core.CleanString(ug.Name); name != "" {
		ug.Name = name
	} else {
		ug.Name = origGrp.Name
	}
	ug.Description = core.CleanString(ug.Description)

	if err := core.Validate.Struct(ug); err != nil {
		return err
	}
	if err := svc.CheckUniqueness(ug.Name, origGrp); err != nil {
		return err
	}
	if ug.TeamIDs != nil {
		return svc.CheckMembers(ug.TeamIDs)
	}
	return nil
}
