package inmemdb

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/ligi/core/team"
)

type teamRepository struct {
	db *teamTable
}

var _ team.Repository = (*teamRepository)(nil)

func NewTeamRepository(db *DB) team.Repository {
	return &teamRepository{db: db.team}
}

func (repo *teamRepository) query() []team.Team {
	teams := make([]team.Team, 0, len(repo.db.table))
	for _, t := range repo.db.table {
		teams = append(teams, *t)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams
}

func (repo *teamRepository) CheckTeamNameUniqueness(name string, excludedTeams ...team.Team) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	excluded := func(t team.Team) bool {
		for _, ex := range excludedTeams {
			if t.ID == ex.ID {
				return true
			}
		}
		return false
	}
	for _, t := range repo.query() {
		if strings.EqualFold(t.Name, name) && !excluded(t) {
			return team.ErrNameExists
		}
	}
	return nil
}

func (repo *teamRepository) CreateTeam(t team.Team) (team.Team, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	t.ID = uuid.New().String()
	repo.db.table[t.ID] = &t
	return t, nil
}

func (repo *teamRepository) QueryAllTeams() ([]team.Team, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *teamRepository) GetTeamByID(id string) (team.Team, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if t, ok := repo.db.table[id]; ok {
		return *t, nil
	}
	return team.Team{}, team.ErrNotFound
}

func (repo *teamRepository) GetTeamByName(name string) (team.Team, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, t := range repo.query() {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return team.Team{}, team.ErrNotFound
}

func (repo *teamRepository) FilterTeams(filter team.QueryFilter) ([]team.Team, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	match := func(t team.Team) bool {
		if filter.GroupID != "" && t.GroupID != filter.GroupID {
			return false
		}
		if filter.Search != "" {
			kw := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(t.Name), kw) &&
				!strings.Contains(strings.ToLower(t.College), kw) {
				return false
			}
		}
		return true
	}

	teams := make([]team.Team, 0)
	for _, t := range repo.query() {
		if match(t) {
			teams = append(teams, t)
		}
	}
	return teams, nil
}

func (repo *teamRepository) UpdateTeam(t team.Team) (team.Team, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	origTeam, ok := repo.db.table[t.ID]
	if !ok {
		return team.Team{}, team.ErrNotFound
	}
	if t.Name != "" {
		origTeam.Name = t.Name
	}
	origTeam.College = t.College
	origTeam.LogoURL = t.LogoURL
	if !t.UpdatedAt.IsZero() {
		origTeam.UpdatedAt = t.UpdatedAt
	}
	return *origTeam, nil
}

func (repo *teamRepository) DeleteTeamsByID(ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func (repo *teamRepository) SetTeamsGroup(groupID string, teamIDs []string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	member := make(map[string]struct{}, len(teamIDs))
	for _, id := range teamIDs {
		member[id] = struct{}{}
	}
	for id, t := range repo.db.table {
		if _, ok := member[id]; ok {
			t.GroupID = groupID
		} else if t.GroupID == groupID {
			t.GroupID = ""
		}
	}
	return nil
}
