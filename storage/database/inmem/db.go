// Package inmemdb provides mutex-guarded in-memory repositories; used by
// tests and local development without a Postgres instance.
package inmemdb

import (
	"sync"

	"github.com/trezcool/ligi/core/group"
	"github.com/trezcool/ligi/core/post"
	"github.com/trezcool/ligi/core/result"
	"github.com/trezcool/ligi/core/team"
	"github.com/trezcool/ligi/core/user"
)

type (
	DB struct {
		user   *userTable
		team   *teamTable
		group  *groupTable
		result *resultTable
		post   *postTable
	}

	userTable struct {
		table map[string]*user.User
		mutex sync.RWMutex
	}
	teamTable struct {
		table map[string]*team.Team
		mutex sync.RWMutex
	}
	groupTable struct {
		table map[string]*group.Group
		mutex sync.RWMutex
	}
	resultTable struct {
		table map[string]*result.Result
		mutex sync.RWMutex
	}
	postTable struct {
		table map[string]*post.Post
		mutex sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		user:   &userTable{table: make(map[string]*user.User)},
		team:   &teamTable{table: make(map[string]*team.Team)},
		group:  &groupTable{table: make(map[string]*group.Group)},
		result: &resultTable{table: make(map[string]*result.Result)},
		post:   &postTable{table: make(map[string]*post.Post)},
	}
}

// Reset empties all tables; test helper.
func (db *DB) Reset() {
	db.user.mutex.Lock()
	db.user.table = make(map[string]*user.User)
	db.user.mutex.Unlock()

	db.team.mutex.Lock()
	db.team.table = make(map[string]*team.Team)
	db.team.mutex.Unlock()

	db.group.mutex.Lock()
	db.group.table = make(map[string]*group.Group)
	db.group.mutex.Unlock()

	db.result.mutex.Lock()
	db.result.table = make(map[string]*result.Result)
	db.result.mutex.Unlock()

	db.post.mutex.Lock()
	db.post.table = make(map[string]*post.Post)
	db.post.mutex.Unlock()
}
