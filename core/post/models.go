package post

import (
	"regexp"
	"strings"
	"time"

	"github.com/trezcool/ligi/core"
)

// Kinds
const (
	KindBlog = "blog"
	KindVlog = "vlog"
)

// Statuses
const (
	StatusDraft     = "draft"
	StatusScheduled = "scheduled"
	StatusPublished = "published"
)

// Post is a piece of published league content: a written article (blog) or
// a video entry (vlog) whose media lives on the external hosting service.
type Post struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Body      string    `json:"body,omitempty"`
	MediaURL  string    `json:"media_url,omitempty"`
	Status    string    `json:"status"`
	PublishAt time.Time `json:"publish_at,omitempty"` // UTC; set when scheduled
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

func (p Post) IsPublished() bool { return p.Status == StatusPublished }

// NewPost contains information needed to create a new Post.
type NewPost struct {
	Kind      string    `json:"kind" validate:"required,oneof=blog vlog"`
	Title     string    `json:"title" validate:"required"`
	Body      string    `json:"body" validate:"omitempty"`
	MediaURL  string    `json:"media_url" validate:"omitempty,mediaurl"`
	Status    string    `json:"status" validate:"omitempty,oneof=draft scheduled published"`
	PublishAt time.Time `json:"publish_at"`
}

func (np *NewPost) Validate(svc Service) error {
	np.Kind = core.CleanString(np.Kind, true /* lower */)
	np.Title = core.CleanString(np.Title)
	np.MediaURL = core.CleanString(np.MediaURL)
	if np.Status == "" {
		np.Status = StatusDraft
	}

	if err := core.Validate.Struct(np); err != nil {
		return err
	}
	if err := validateContent(np.Kind, np.Body, np.MediaURL); err != nil {
		return err
	}
	if err := validateSchedule(np.Status, np.PublishAt); err != nil {
		return err
	}
	return svc.CheckSlugUniqueness(Slugify(np.Title))
}

// UpdatePost defines what information may be provided to modify an existing Post.
// The slug is fixed at creation; published URLs never change.
type UpdatePost struct {
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	MediaURL  string    `json:"media_url" validate:"omitempty,mediaurl"`
	Status    string    `json:"status" validate:"omitempty,oneof=draft scheduled published"`
	PublishAt time.Time `json:"publish_at"`
}

func (up *UpdatePost) Validate(origPost Post, svc Service) error {
	if title := core.CleanString(up.Title); title != "" {
		up.Title = title
	} else {
		up.Title = origPost.Title
	}
	up.MediaURL = core.CleanString(up.MediaURL)
	if up.Status == "" {
		up.Status = origPost.Status
	}

	if err := core.Validate.Struct(up); err != nil {
		return err
	}

	body := up.Body
	if body == "" {
		body = origPost.Body
	}
	media := up.MediaURL
	if media == "" {
		media = origPost.MediaURL
	}
	if err := validateContent(origPost.Kind, body, media); err != nil {
		return err
	}

	publishAt := up.PublishAt
	if publishAt.IsZero() {
		publishAt = origPost.PublishAt
	}
	return validateSchedule(up.Status, publishAt)
}

// validateContent enforces the per-kind content rule: blogs need a body,
// vlogs need a media URL.
func validateContent(kind, body, mediaURL string) error {
	switch kind {
	case KindBlog:
		if body == "" {
			return core.NewValidationError(nil, core.FieldError{Field: "body", Error: "a blog post requires a body"})
		}
	case KindVlog:
		if mediaURL == "" {
			return core.NewValidationError(nil, core.FieldError{Field: "media_url", Error: "a vlog post requires a media URL"})
		}
	}
	return nil
}

func validateSchedule(status string, publishAt time.Time) error {
	if status == StatusScheduled && publishAt.IsZero() {
		return core.NewValidationError(nil, core.FieldError{Field: "publish_at", Error: "a scheduled post requires a publish date"})
	}
	return nil
}

type QueryFilter struct {
	Search string `query:"search"`
	Kind   string `query:"kind"`
	Status string `query:"status"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Kind == "" && qf.Status == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Kind = core.CleanString(qf.Kind, true /* lower */)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}

var (
	slugInvalidRgx = regexp.MustCompile(`[^a-z0-9]+`)
	slugDashRgx    = regexp.MustCompile(`-{2,}`)
)

// Slugify derives a URL-safe slug from a post title.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugInvalidRgx.ReplaceAllString(s, "-")
	s = slugDashRgx.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
