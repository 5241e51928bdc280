// Package service holds the application operations. Every mutation checks the
// caller's session with the auth guard before touching a repository.
package service

import (
	"context"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"dealboard/internal/auth"
	"dealboard/internal/cache"
	"dealboard/internal/models"
	"dealboard/internal/notifications"
	"dealboard/internal/observability"
	"dealboard/internal/repository"
	"dealboard/internal/slug"

	"go.opentelemetry.io/otel/attribute"
)

const (
	maxTitleLen   = 300
	maxContentLen = 50000
	maxTags       = 20
	maxTagLen     = 40

	defaultPageSize = 9
	maxPageSize     = 50
)

type PostService struct {
	postRepo  repository.PostRepository
	publisher notifications.Publisher
}

// PostInput carries the editable fields of a post.
type PostInput struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	ImageURL  string   `json:"imageUrl"`
	Tags      []string `json:"tags"`
	Published bool     `json:"published"`
	// ExpiresOn is an RFC 3339 timestamp or a YYYY-MM-DD date. Anything else clears it.
	ExpiresOn string `json:"expiresOn"`
}

type ListPostsInput struct {
	Query string
	Tag   string
	Page  int
	Limit int
}

// PostPage is one page of browse results.
type PostPage struct {
	Posts      []*models.Post `json:"posts"`
	Page       int            `json:"page"`
	TotalPages int            `json:"totalPages"`
	Total      int            `json:"total"`
}

func NewPostService(postRepo repository.PostRepository, publisher notifications.Publisher) *PostService {
	return &PostService{postRepo: postRepo, publisher: publisher}
}

// ListPublished returns every published post, newest first.
func (s *PostService) ListPublished(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	err := cache.Aside(ctx, cache.PublishedPostsKey, &posts, cache.PostListTTL, func() error {
		var fetchErr error
		posts, fetchErr = s.postRepo.List(ctx, true)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Browse filters the published list by free text and tag, then paginates it.
func (s *PostService) Browse(ctx context.Context, in ListPostsInput) (*PostPage, error) {
	posts, err := s.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(in.Query))
	tag := strings.TrimSpace(in.Tag)
	filtered := make([]*models.Post, 0, len(posts))
	for _, p := range posts {
		if tag != "" && !p.HasTag(tag) {
			continue
		}
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		filtered = append(filtered, p)
	}

	limit := in.Limit
	switch {
	case limit <= 0:
		limit = defaultPageSize
	case limit > maxPageSize:
		limit = maxPageSize
	}
	total := len(filtered)
	totalPages := (total + limit - 1) / limit
	page := in.Page
	if page < 1 {
		page = 1
	}

	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return &PostPage{
		Posts:      filtered[start:end],
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	}, nil
}

func matchesQuery(p *models.Post, query string) bool {
	if strings.Contains(strings.ToLower(p.Title), query) || strings.Contains(strings.ToLower(p.Content), query) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), query) {
			return true
		}
	}
	return false
}

// Get returns a published post by id when key is numeric, otherwise by slug.
func (s *PostService) Get(ctx context.Context, key string) (*models.Post, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, models.NewValidationError("Post id or slug is required")
	}
	if id, err := strconv.ParseUint(key, 10, 32); err == nil {
		return s.postRepo.GetByID(ctx, uint(id), true)
	}
	return s.postRepo.GetBySlug(ctx, key, true)
}

// ListAll returns drafts and published posts for the admin dashboard.
func (s *PostService) ListAll(ctx context.Context, sess *auth.Session) ([]*models.Post, error) {
	if err := auth.RequireAdmin(sess); err != nil {
		return nil, err
	}
	return s.postRepo.List(ctx, false)
}

// GetForEdit returns a post by id regardless of its publish flag.
func (s *PostService) GetForEdit(ctx context.Context, sess *auth.Session, id uint) (*models.Post, error) {
	if err := auth.RequireAdmin(sess); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, id, false)
}

func (s *PostService) Create(ctx context.Context, sess *auth.Session, in PostInput) (*models.Post, error) {
	span, ctx := observability.StartSpan(ctx, "PostService.Create")
	var err error
	defer func() { span.End(err) }()

	if err = auth.RequireAdmin(sess); err != nil {
		return nil, err
	}
	if err = validatePostInput(&in); err != nil {
		return nil, err
	}

	postSlug := slug.Make(in.Title)
	if postSlug == "" {
		err = models.NewValidationError("Title must contain at least one letter or digit")
		return nil, err
	}
	if slug.Numeric(postSlug) {
		err = models.NewValidationError("Title must contain at least one letter")
		return nil, err
	}

	post := &models.Post{
		Title:     in.Title,
		Content:   in.Content,
		Slug:      postSlug,
		ImageURL:  in.ImageURL,
		Tags:      in.Tags,
		Published: in.Published,
		ExpiresOn: ParseExpiresOn(in.ExpiresOn),
		AuthorID:  sess.ID,
	}
	if err = s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	span.AddAttributes(attribute.Int("post.id", int(post.ID)), attribute.String("post.slug", post.Slug))

	observability.PostsMutated.WithLabelValues("create").Inc()
	cache.InvalidatePublishedPosts(ctx)
	if post.Published {
		s.publish(ctx, notifications.NewEvent(notifications.EventPostPublished, post.ID, sess.ID, postSummary(post)))
	}

	created, err := s.postRepo.GetByID(ctx, post.ID, false)
	return created, err
}

// Update rewrites the editable fields. The slug stays as created.
func (s *PostService) Update(ctx context.Context, sess *auth.Session, id uint, in PostInput) (*models.Post, error) {
	span, ctx := observability.StartSpan(ctx, "PostService.Update", attribute.Int("post.id", int(id)))
	var err error
	defer func() { span.End(err) }()

	if err = auth.RequireAdmin(sess); err != nil {
		return nil, err
	}
	if err = validatePostInput(&in); err != nil {
		return nil, err
	}

	existing, err := s.postRepo.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:        id,
		Title:     in.Title,
		Content:   in.Content,
		ImageURL:  in.ImageURL,
		Tags:      in.Tags,
		Published: in.Published,
		ExpiresOn: ParseExpiresOn(in.ExpiresOn),
	}
	if err = s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	observability.PostsMutated.WithLabelValues("update").Inc()
	cache.InvalidatePublishedPosts(ctx)

	updated, err := s.postRepo.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if !existing.Published && updated.Published {
		s.publish(ctx, notifications.NewEvent(notifications.EventPostPublished, id, sess.ID, postSummary(updated)))
	}
	return updated, nil
}

// Delete removes the post with its comments and likes.
func (s *PostService) Delete(ctx context.Context, sess *auth.Session, id uint) error {
	span, ctx := observability.StartSpan(ctx, "PostService.Delete", attribute.Int("post.id", int(id)))
	var err error
	defer func() { span.End(err) }()

	if err = auth.RequireAdmin(sess); err != nil {
		return err
	}
	if err = s.postRepo.Delete(ctx, id); err != nil {
		return err
	}

	observability.PostsMutated.WithLabelValues("delete").Inc()
	cache.InvalidatePublishedPosts(ctx)
	s.publish(ctx, notifications.NewEvent(notifications.EventPostDeleted, id, sess.ID, nil))
	return nil
}

func (s *PostService) publish(ctx context.Context, ev notifications.Event) {
	publishEvent(ctx, s.publisher, ev)
}

func postSummary(p *models.Post) map[string]any {
	return map[string]any{"title": p.Title, "slug": p.Slug}
}

func validatePostInput(in *PostInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.ImageURL = strings.TrimSpace(in.ImageURL)

	if in.Title == "" || strings.TrimSpace(in.Content) == "" || in.ImageURL == "" {
		return models.NewValidationError("Missing required fields")
	}
	if utf8.RuneCountInString(in.Title) > maxTitleLen {
		return models.NewValidationError("Title too long (max 300 characters)")
	}
	if utf8.RuneCountInString(in.Content) > maxContentLen {
		return models.NewValidationError("Content too long (max 50000 characters)")
	}

	tags := make([]string, 0, len(in.Tags))
	seen := make(map[string]struct{}, len(in.Tags))
	for _, t := range in.Tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if utf8.RuneCountInString(t) > maxTagLen {
			return models.NewValidationError("Tag too long (max 40 characters)")
		}
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, t)
	}
	if len(tags) > maxTags {
		return models.NewValidationError("Too many tags (max 20)")
	}
	in.Tags = tags
	return nil
}

// ParseExpiresOn reads an expiration date. Unparseable input yields nil, never an error.
func ParseExpiresOn(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return &t
	}
	return nil
}
