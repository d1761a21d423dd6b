package inmemdb

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/ligi/core/group"
)

type groupRepository struct {
	db *groupTable
}

var _ group.Repository = (*groupRepository)(nil)

func NewGroupRepository(db *DB) group.Repository {
	return &groupRepository{db: db.group}
}

// query returns groups in declaration order (creation time).
func (repo *groupRepository) query() []group.Group {
	groups := make([]group.Group, 0, len(repo.db.table))
	for _, g := range repo.db.table {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if !groups[i].CreatedAt.Equal(groups[j].CreatedAt) {
			return groups[i].CreatedAt.Before(groups[j].CreatedAt)
		}
		return groups[i].Name < groups[j].Name
	})
	return groups
}

func (repo *groupRepository) CheckGroupNameUniqueness(name string, excludedGroups ...group.Group) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	excluded := func(g group.Group) bool {
		for _, ex := range excludedGroups {
			if g.ID == ex.ID {
				return true
			}
		}
		return false
	}
	for _, g := range repo.query() {
		if strings.EqualFold(g.Name, name) && !excluded(g) {
			return group.ErrNameExists
		}
	}
	return nil
}

func (repo *groupRepository) CreateGroup(g group.Group) (group.Group, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	g.ID = uuid.New().String()
	if g.TeamIDs == nil {
		g.TeamIDs = []string{}
	}
	repo.db.table[g.ID] = &g
	return g, nil
}

func (repo *groupRepository) QueryAllGroups() ([]group.Group, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *groupRepository) GetGroupByID(id string) (group.Group, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if g, ok := repo.db.table[id]; ok {
		return *g, nil
	}
	return group.Group{}, group.ErrNotFound
}

func (repo *groupRepository) UpdateGroup(g group.Group, teamIDs []string) (group.Group, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	origGrp, ok := repo.db.table[g.ID]
	if !ok {
		return group.Group{}, group.ErrNotFound
	}
	if g.Name != "" {
		origGrp.Name = g.Name
	}
	origGrp.Description = g.Description
	if teamIDs != nil {
		origGrp.TeamIDs = teamIDs
	}
	if !g.UpdatedAt.IsZero() {
		origGrp.UpdatedAt = g.UpdatedAt
	}
	return *origGrp, nil
}

func (repo *groupRepository) DeleteGroupsByID(ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
