package post

import (
	"sort"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pkg/errors"

	"github.com/trezcool/ligi/core"
)

var (
	// errors
	ErrNotFound   = errors.New("post not found")
	ErrSlugExists = errors.New("a post with this slug already exists")
)

type (
	Repository interface {
		CheckPostSlugUniqueness(slug string) error
		CreatePost(p Post) (Post, error)
		QueryAllPosts() ([]Post, error)
		GetPostByID(id string) (Post, error)
		GetPostBySlug(slug string) (Post, error)
		// FilterPosts applies AND operation on available QueryFilter fields,
		// except Search which is matched in the service.
		FilterPosts(filter QueryFilter) ([]Post, error)
		UpdatePost(p Post) (Post, error)
		DeletePostsByID(ids ...string) error
		// PublishDuePosts flips scheduled posts whose publish time has passed
		// to published and returns how many were flipped.
		PublishDuePosts(now time.Time) (int, error)
	}

	Service interface {
		CheckSlugUniqueness(slug string) error
		Create(np NewPost, authorID string) (Post, error)
		QueryAll() ([]Post, error)
		Filter(filter QueryFilter) ([]Post, error)
		GetByID(id string) (Post, error)
		// GetPublishedBySlug is the public read path; it only returns
		// published posts.
		GetPublishedBySlug(slug string) (Post, error)
		Update(id string, up UpdatePost) (Post, error)
		Delete(ids ...string) error
		// PublishDue is run periodically by the scheduler.
		PublishDue(now time.Time) (int, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CheckSlugUniqueness(slug string) error {
	if err := svc.repo.CheckPostSlugUniqueness(slug); err != nil {
		if errors.Cause(err) == ErrSlugExists {
			return core.NewValidationError(err, core.FieldError{Field: "title", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Create(np NewPost, authorID string) (Post, error) {
	now := time.Now().UTC()
	p := Post{
		Kind:      np.Kind,
		Title:     np.Title,
		Slug:      Slugify(np.Title),
		Body:      np.Body,
		MediaURL:  np.MediaURL,
		Status:    np.Status,
		PublishAt: np.PublishAt.UTC(),
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if p.PublishAt.IsZero() && p.Status == StatusPublished {
		p.PublishAt = now
	}
	return svc.repo.CreatePost(p)
}

func (svc *service) QueryAll() ([]Post, error) {
	return svc.repo.QueryAllPosts()
}

func (svc *service) Filter(filter QueryFilter) ([]Post, error) {
	posts, err := svc.repo.FilterPosts(filter)
	if err != nil {
		return nil, err
	}
	if filter.Search == "" {
		return posts, nil
	}

	// fuzzy-rank titles against the search keyword
	titles := make([]string, 0, len(posts))
	byTitle := make(map[string]Post, len(posts))
	for _, p := range posts {
		titles = append(titles, p.Title)
		byTitle[p.Title] = p
	}
	ranks := fuzzy.RankFindFold(filter.Search, titles)
	sort.Sort(ranks)

	matches := make([]Post, 0, len(ranks))
	for _, r := range ranks {
		matches = append(matches, byTitle[r.Target])
	}
	return matches, nil
}

func (svc *service) GetByID(id string) (Post, error) {
	return svc.repo.GetPostByID(id)
}

func (svc *service) GetPublishedBySlug(slug string) (Post, error) {
	p, err := svc.repo.GetPostBySlug(core.CleanString(slug, true /* lower */))
	if err != nil {
		return Post{}, err
	}
	if !p.IsPublished() {
		return Post{}, ErrNotFound
	}
	return p, nil
}

func (svc *service) Update(id string, up UpdatePost) (Post, error) {
	p := Post{
		ID:        id,
		Title:     up.Title,
		Body:      up.Body,
		MediaURL:  up.MediaURL,
		Status:    up.Status,
		PublishAt: up.PublishAt.UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpdatePost(p)
}

func (svc *service) Delete(ids ...string) error {
	return svc.repo.DeletePostsByID(ids...)
}

func (svc *service) PublishDue(now time.Time) (int, error) {
	return svc.repo.PublishDuePosts(now.UTC())
}
