package inmemdb

import (
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/ligi/core/result"
)

type resultRepository struct {
	db *resultTable
}

var _ result.Repository = (*resultRepository)(nil)

func NewResultRepository(db *DB) result.Repository {
	return &resultRepository{db: db.result}
}

// query returns results in recording order (creation time).
func (repo *resultRepository) query() []result.Result {
	results := make([]result.Result, 0, len(repo.db.table))
	for _, res := range repo.db.table {
		results = append(results, *res)
	}
	sort.Slice(results, func(i, j int) bool {
		if !results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].CreatedAt.Before(results[j].CreatedAt)
		}
		return results[i].ID < results[j].ID
	})
	return results
}

func (repo *resultRepository) CreateResult(res result.Result) (result.Result, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	res.ID = uuid.New().String()
	repo.db.table[res.ID] = &res
	return res, nil
}

func (repo *resultRepository) QueryAllResults() ([]result.Result, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *resultRepository) GetResultByID(id string) (result.Result, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if res, ok := repo.db.table[id]; ok {
		return *res, nil
	}
	return result.Result{}, result.ErrNotFound
}

func (repo *resultRepository) FilterResults(filter result.QueryFilter) ([]result.Result, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	match := func(res result.Result) bool {
		if filter.TeamID != "" && res.HomeTeamID != filter.TeamID && res.AwayTeamID != filter.TeamID {
			return false
		}
		if !filter.PlayedFrom.IsZero() && res.PlayedAt.Before(filter.PlayedFrom) {
			return false
		}
		if !filter.PlayedTo.IsZero() && res.PlayedAt.After(filter.PlayedTo) {
			return false
		}
		return true
	}

	results := make([]result.Result, 0)
	for _, res := range repo.query() {
		if match(res) {
			results = append(results, res)
		}
	}
	return results, nil
}

func (repo *resultRepository) DeleteResultsByID(ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
