package sqlxrepos

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/ligi/core/post"
)

type postRow struct {
	ID        string      `db:"id"`
	Kind      string      `db:"kind"`
	Title     string      `db:"title"`
	Slug      string      `db:"slug"`
	Body      null.String `db:"body"`
	MediaURL  null.String `db:"media_url"`
	Status    string      `db:"status"`
	PublishAt null.Time   `db:"publish_at"`
	AuthorID  null.String `db:"author_id"`
	CreatedAt null.Time   `db:"created_at"`
	UpdatedAt null.Time   `db:"updated_at"`
}

func (r postRow) unpack() post.Post {
	return post.Post{
		ID:        r.ID,
		Kind:      r.Kind,
		Title:     r.Title,
		Slug:      r.Slug,
		Body:      r.Body.String,
		MediaURL:  r.MediaURL.String,
		Status:    r.Status,
		PublishAt: r.PublishAt.Time,
		AuthorID:  r.AuthorID.String,
		CreatedAt: r.CreatedAt.Time,
		UpdatedAt: r.UpdatedAt.Time,
	}
}

type postRepository struct {
	db *sqlx.DB
}

var _ post.Repository = (*postRepository)(nil)

func NewPostRepository(db *sqlx.DB) post.Repository {
	return &postRepository{db: db}
}

func (repo *postRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return post.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *postRepository) get(query string, args ...interface{}) (post.Post, error) {
	var row postRow
	if err := repo.db.Get(&row, query, args...); err != nil {
		return post.Post{}, repo.trapNoRowsErr(err, "getting post")
	}
	return row.unpack(), nil
}

func (repo *postRepository) selectPosts(query string, args ...interface{}) ([]post.Post, error) {
	var rows []postRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying posts")
	}
	posts := make([]post.Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, row.unpack())
	}
	return posts, nil
}

func (repo *postRepository) CheckPostSlugUniqueness(slug string) error {
	var count int
	if err := repo.db.Get(&count, `SELECT COUNT(*) FROM post WHERE slug = $1`, slug); err != nil {
		return errors.Wrap(err, "checking post slug uniqueness")
	}
	if count > 0 {
		return post.ErrSlugExists
	}
	return nil
}

func (repo *postRepository) CreatePost(p post.Post) (post.Post, error) {
	p.ID = uuid.New().String()
	_, err := repo.db.Exec(
		`INSERT INTO post (id, kind, title, slug, body, media_url, status, publish_at, author_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.Kind, p.Title, p.Slug, p.Body, p.MediaURL, p.Status, p.PublishAt, p.AuthorID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return post.Post{}, errors.Wrap(err, "inserting post")
	}
	return p, nil
}

func (repo *postRepository) QueryAllPosts() ([]post.Post, error) {
	return repo.selectPosts(`SELECT * FROM post ORDER BY created_at DESC, id`)
}

func (repo *postRepository) GetPostByID(id string) (post.Post, error) {
	return repo.get(`SELECT * FROM post WHERE id = $1`, id)
}

func (repo *postRepository) GetPostBySlug(slug string) (post.Post, error) {
	return repo.get(`SELECT * FROM post WHERE slug = $1`, slug)
}

func (repo *postRepository) FilterPosts(filter post.QueryFilter) ([]post.Post, error) {
	var (
		conds []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Kind != "" {
		conds = append(conds, "kind = "+arg(filter.Kind))
	}
	if filter.Status != "" {
		conds = append(conds, "status = "+arg(filter.Status))
	}

	q := `SELECT * FROM post`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC, id"
	return repo.selectPosts(q, args...)
}

func (repo *postRepository) UpdatePost(p post.Post) (post.Post, error) {
	var (
		sets []string
		args []interface{}
	)
	set := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if p.Title != "" {
		set("title", p.Title)
	}
	if p.Body != "" {
		set("body", p.Body)
	}
	if p.MediaURL != "" {
		set("media_url", p.MediaURL)
	}
	if p.Status != "" {
		set("status", p.Status)
	}
	if !p.PublishAt.IsZero() {
		set("publish_at", p.PublishAt)
	}
	if !p.UpdatedAt.IsZero() {
		set("updated_at", p.UpdatedAt)
	}
	if len(sets) == 0 {
		return repo.GetPostByID(p.ID)
	}

	args = append(args, p.ID)
	q := fmt.Sprintf(`UPDATE post SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	res, err := repo.db.Exec(q, args...)
	if err != nil {
		return post.Post{}, errors.Wrap(err, "updating post")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return post.Post{}, post.ErrNotFound
	}
	return repo.GetPostByID(p.ID)
}

func (repo *postRepository) DeletePostsByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := repo.db.Exec(`DELETE FROM post WHERE id = ANY($1)`, pq.StringArray(ids)); err != nil {
		return errors.Wrap(err, "deleting posts")
	}
	return nil
}

func (repo *postRepository) PublishDuePosts(now time.Time) (int, error) {
	res, err := repo.db.Exec(
		`UPDATE post SET status = $1, updated_at = $2 WHERE status = $3 AND publish_at IS NOT NULL AND publish_at <= $2`,
		post.StatusPublished, now, post.StatusScheduled,
	)
	if err != nil {
		return 0, errors.Wrap(err, "publishing due posts")
	}
	n, err := res.RowsAffected()
	return int(n), errors.Wrap(err, "publishing due posts")
}
