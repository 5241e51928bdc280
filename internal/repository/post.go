package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dealboard/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines interface for post operations
type PostRepository interface {
	List(ctx context.Context, publishedOnly bool) ([]*models.Post, error)
	GetByID(ctx context.Context, id uint, publishedOnly bool) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

const postDetailColumns = `posts.*,
	(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count,
	(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS likes_count`

// withDetails joins author display fields and engagement counts.
func (r *postRepository) withDetails(ctx context.Context, publishedOnly bool) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select(postDetailColumns).
		Preload("Author", authorColumns)
	if publishedOnly {
		q = q.Where("posts.published = ?", true)
	}
	return q
}

func (r *postRepository) List(ctx context.Context, publishedOnly bool) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.withDetails(ctx, publishedOnly).
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, publishedOnly bool) (*models.Post, error) {
	var post models.Post
	err := r.withDetails(ctx, publishedOnly).Where("posts.id = ?", id).Take(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, fmt.Errorf("loading post %d: %w", id, err)
	}
	return &post, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Post, error) {
	var post models.Post
	err := r.withDetails(ctx, publishedOnly).Where("posts.slug = ?", slug).Take(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", slug)
		}
		return nil, fmt.Errorf("loading post %q: %w", slug, err)
	}
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).
		Select("Title", "Content", "Slug", "ImageURL", "Tags", "Published", "ExpiresOn", "AuthorID", "CreatedAt", "UpdatedAt").
		Create(post).Error
	if err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError(fmt.Sprintf("A post with slug %q already exists", post.Slug), err)
		}
		return fmt.Errorf("creating post: %w", err)
	}
	return nil
}

// Update writes the editable fields of post. Slug, author and creation time are never touched.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", post.ID).
		Select("title", "content", "image_url", "tags", "published", "expires_on", "updated_at").
		Updates(post)
	if res.Error != nil {
		return fmt.Errorf("updating post %d: %w", post.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", post.ID)
	}
	return nil
}

// Delete removes the post; comments and likes go with it through ON DELETE CASCADE.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return fmt.Errorf("deleting post %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}
