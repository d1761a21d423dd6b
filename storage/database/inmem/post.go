package inmemdb

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/ligi/core/post"
)

type postRepository struct {
	db *postTable
}

var _ post.Repository = (*postRepository)(nil)

func NewPostRepository(db *DB) post.Repository {
	return &postRepository{db: db.post}
}

// query returns posts newest first.
func (repo *postRepository) query() []post.Post {
	posts := make([]post.Post, 0, len(repo.db.table))
	for _, p := range repo.db.table {
		posts = append(posts, *p)
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].Slug < posts[j].Slug
	})
	return posts
}

func (repo *postRepository) CheckPostSlugUniqueness(slug string) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, p := range repo.db.table {
		if p.Slug == slug {
			return post.ErrSlugExists
		}
	}
	return nil
}

func (repo *postRepository) CreatePost(p post.Post) (post.Post, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p.ID = uuid.New().String()
	repo.db.table[p.ID] = &p
	return p, nil
}

func (repo *postRepository) QueryAllPosts() ([]post.Post, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *postRepository) GetPostByID(id string) (post.Post, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if p, ok := repo.db.table[id]; ok {
		return *p, nil
	}
	return post.Post{}, post.ErrNotFound
}

func (repo *postRepository) GetPostBySlug(slug string) (post.Post, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, p := range repo.db.table {
		if p.Slug == slug {
			return *p, nil
		}
	}
	return post.Post{}, post.ErrNotFound
}

func (repo *postRepository) FilterPosts(filter post.QueryFilter) ([]post.Post, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	match := func(p post.Post) bool {
		if filter.Kind != "" && p.Kind != filter.Kind {
			return false
		}
		if filter.Status != "" && p.Status != filter.Status {
			return false
		}
		return true
	}

	posts := make([]post.Post, 0)
	for _, p := range repo.query() {
		if match(p) {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

func (repo *postRepository) UpdatePost(p post.Post) (post.Post, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	origPost, ok := repo.db.table[p.ID]
	if !ok {
		return post.Post{}, post.ErrNotFound
	}
	if p.Title != "" {
		origPost.Title = p.Title
	}
	if p.Body != "" {
		origPost.Body = p.Body
	}
	if p.MediaURL != "" {
		origPost.MediaURL = p.MediaURL
	}
	if p.Status != "" {
		origPost.Status = p.Status
	}
	if !p.PublishAt.IsZero() {
		origPost.PublishAt = p.PublishAt
	}
	if !p.UpdatedAt.IsZero() {
		origPost.UpdatedAt = p.UpdatedAt
	}
	return *origPost, nil
}

func (repo *postRepository) DeletePostsByID(ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func (repo *postRepository) PublishDuePosts(now time.Time) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	var count int
	for _, p := range repo.db.table {
		if p.Status == post.StatusScheduled && !p.PublishAt.IsZero() && !p.PublishAt.After(now) {
			p.Status = post.StatusPublished
			p.UpdatedAt = now
			count++
		}
	}
	return count, nil
}
