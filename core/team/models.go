package team

import (
	"time"

	"github.com/trezcool/ligi/core"
)

// Team represents a club competing in the league.
// GroupID is a derived cache of the team's current group; the Group member
// list is the authoritative record and refreshes this field on every
// membership mutation.
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	College   string    `json:"college,omitempty"`
	LogoURL   string    `json:"logo_url,omitempty"`
	GroupID   string    `json:"group_id,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewTeam contains information needed to register a new Team.
type NewTeam struct {
	Name    string `json:"name" validate:"required"`
	College string `json:"college" validate:"omitempty"`
	LogoURL string `json:"logo_url" validate:"omitempty,mediaurl"`
}

func (nt *NewTeam) Validate(svc Service) error {
	nt.Name = core.CleanString(nt.Name)
	nt.College = core.CleanString(nt.College)
	nt.LogoURL = core.CleanString(nt.LogoURL)

	if err := core.Validate.Struct(nt); err != nil {
		return err
	}
	return svc.CheckUniqueness(nt.Name)
}

// UpdateTeam defines what information may be provided to modify an existing Team.
type UpdateTeam struct {
	Name    string `json:"name"`
	College string `json:"college"`
	LogoURL string `json:"logo_url" validate:"omitempty,mediaurl"`
}

func (ut *UpdateTeam) Validate(origTeam Team, svc Service) error {
	if name := core.CleanString(ut.Name); name != "" {
		ut.Name = name
	} else {
		ut.Name = origTeam.Name
	}
	ut.College = core.CleanString(ut.College)
	ut.LogoURL = core.CleanString(ut.LogoURL)

	if err := core.Validate.Struct(ut); err != nil {
		return err
	}
	return svc.CheckUniqueness(ut.Name, origTeam)
}

type QueryFilter struct {
	Search  string `query:"search"`
	GroupID string `query:"group_id"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.GroupID == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.GroupID = core.CleanString(qf.GroupID)
}
