package service

import (
	"context"
	"html"
	"strings"
	"unicode/utf8"

	"dealboard/internal/auth"
	"dealboard/internal/cache"
	"dealboard/internal/models"
	"dealboard/internal/notifications"
	"dealboard/internal/observability"
	"dealboard/internal/repository"

	"github.com/microcosm-cc/bluemonday"
	"go.opentelemetry.io/otel/attribute"
)

const (
	maxCommentLen = 5000
	// Bounds the strip/decode loop in stripMarkup.
	maxSanitizePasses = 8
)

// EngagementService handles likes and comments on published posts.
type EngagementService struct {
	postRepo    repository.PostRepository
	likeRepo    repository.LikeRepository
	commentRepo repository.CommentRepository
	publisher   notifications.Publisher
	sanitizer   *bluemonday.Policy
}

func NewEngagementService(
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	commentRepo repository.CommentRepository,
	publisher notifications.Publisher,
) *EngagementService {
	return &EngagementService{
		postRepo:    postRepo,
		likeRepo:    likeRepo,
		commentRepo: commentRepo,
		publisher:   publisher,
		sanitizer:   bluemonday.StrictPolicy(),
	}
}

// ToggleLike flips the caller's like on postID and reports the new state.
func (s *EngagementService) ToggleLike(ctx context.Context, sess *auth.Session, postID uint) (bool, error) {
	span, ctx := observability.StartSpan(ctx, "EngagementService.ToggleLike", attribute.Int("post.id", int(postID)))
	var err error
	defer func() { span.End(err) }()

	if err = auth.RequireAuth(sess); err != nil {
		return false, err
	}
	if _, err = s.postRepo.GetByID(ctx, postID, true); err != nil {
		return false, err
	}

	liked, err := s.likeRepo.Toggle(ctx, postID, sess.ID)
	if err != nil {
		err = models.NewInternalError(err)
		return false, err
	}

	result := "unliked"
	if liked {
		result = "liked"
	}
	observability.LikeToggles.WithLabelValues(result).Inc()
	cache.InvalidatePublishedPosts(ctx)

	count, countErr := s.likeRepo.CountByPost(ctx, postID)
	if countErr == nil {
		publishEvent(ctx, s.publisher, notifications.NewEvent(notifications.EventLikeToggled, postID, sess.ID,
			map[string]any{"liked": liked, "likesCount": count}))
	}
	return liked, nil
}

// LikeStatus reports whether the caller likes the published post postID.
// Anonymous callers never do.
func (s *EngagementService) LikeStatus(ctx context.Context, sess *auth.Session, postID uint) (bool, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, true); err != nil {
		return false, err
	}
	if sess == nil {
		return false, nil
	}
	liked, err := s.likeRepo.Exists(ctx, postID, sess.ID)
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return liked, nil
}

// ListComments returns the comments of a published post, newest first.
func (s *EngagementService) ListComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, true); err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// AddComment stores a sanitized comment by the caller on a published post.
func (s *EngagementService) AddComment(ctx context.Context, sess *auth.Session, postID uint, content string) (*models.Comment, error) {
	span, ctx := observability.StartSpan(ctx, "EngagementService.AddComment", attribute.Int("post.id", int(postID)))
	var err error
	defer func() { span.End(err) }()

	if err = auth.RequireAuth(sess); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(s.stripMarkup(content))
	if content == "" {
		err = models.NewValidationError("Content is required")
		return nil, err
	}
	if utf8.RuneCountInString(content) > maxCommentLen {
		err = models.NewValidationError("Comment too long (max 5000 characters)")
		return nil, err
	}

	if _, err = s.postRepo.GetByID(ctx, postID, true); err != nil {
		return nil, err
	}

	comment := &models.Comment{Content: content, PostID: postID, AuthorID: sess.ID}
	if err = s.commentRepo.Create(ctx, comment); err != nil {
		err = models.NewInternalError(err)
		return nil, err
	}
	observability.CommentsCreated.Inc()
	cache.InvalidatePublishedPosts(ctx)

	created, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	publishEvent(ctx, s.publisher, notifications.NewEvent(notifications.EventCommentCreated, postID, sess.ID, created))
	return created, nil
}

// stripMarkup removes HTML from content and returns plain text. Decoding
// entities can expose new tags ("&lt;b&gt;" or "<<b>b>"), so stripping
// repeats until the text no longer changes. Text that has not settled
// after maxSanitizePasses is returned entity-escaped.
func (s *EngagementService) stripMarkup(content string) string {
	for range maxSanitizePasses {
		clean := html.UnescapeString(s.sanitizer.Sanitize(content))
		if clean == content {
			return clean
		}
		content = clean
	}
	return s.sanitizer.Sanitize(content)
}
