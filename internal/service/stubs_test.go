package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"dealboard/internal/auth"
	"dealboard/internal/models"
	"dealboard/internal/notifications"
	"dealboard/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	adminSession = &auth.Session{ID: 1, Role: models.RoleAdmin, Name: "Admin"}
	userSession  = &auth.Session{ID: 2, Role: models.RoleUser, Name: "Reader"}
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	listFn      func(context.Context, bool) ([]*models.Post, error)
	getByIDFn   func(context.Context, uint, bool) (*models.Post, error)
	getBySlugFn func(context.Context, string, bool) (*models.Post, error)
	createFn    func(context.Context, *models.Post) error
	updateFn    func(context.Context, *models.Post) error
	deleteFn    func(context.Context, uint) error
}

func (s *postRepoStub) List(ctx context.Context, publishedOnly bool) ([]*models.Post, error) {
	return s.listFn(ctx, publishedOnly)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint, publishedOnly bool) (*models.Post, error) {
	return s.getByIDFn(ctx, id, publishedOnly)
}
func (s *postRepoStub) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Post, error) {
	return s.getBySlugFn(ctx, slug, publishedOnly)
}
func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		listFn: func(_ context.Context, _ bool) ([]*models.Post, error) { return nil, nil },
		getByIDFn: func(_ context.Context, id uint, _ bool) (*models.Post, error) {
			return &models.Post{ID: id, Published: true}, nil
		},
		getBySlugFn: func(_ context.Context, s string, _ bool) (*models.Post, error) {
			return &models.Post{ID: 1, Slug: s, Published: true}, nil
		},
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		updateFn: func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// likeRepoStub is a stub for repository.LikeRepository.
type likeRepoStub struct {
	toggleFn func(context.Context, uint, uint) (bool, error)
	existsFn func(context.Context, uint, uint) (bool, error)
	countFn  func(context.Context, uint) (int64, error)
}

func (s *likeRepoStub) Toggle(ctx context.Context, postID, userID uint) (bool, error) {
	return s.toggleFn(ctx, postID, userID)
}
func (s *likeRepoStub) Exists(ctx context.Context, postID, userID uint) (bool, error) {
	return s.existsFn(ctx, postID, userID)
}
func (s *likeRepoStub) CountByPost(ctx context.Context, postID uint) (int64, error) {
	return s.countFn(ctx, postID)
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint) ([]*models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn func(context.Context, uint) (*models.User, error)
	upsertFn  func(context.Context, repository.Identity) (*models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return nil, models.NewNotFoundError("User", email)
}
func (s *userRepoStub) UpsertFromIdentity(ctx context.Context, id repository.Identity) (*models.User, error) {
	return s.upsertFn(ctx, id)
}
func (s *userRepoStub) SetRole(_ context.Context, _ uint, _ models.Role) error { return nil }
func (s *userRepoStub) ListByRole(_ context.Context, _ models.Role) ([]models.User, error) {
	return nil, nil
}

// publisherStub records published events.
type publisherStub struct {
	mu     sync.Mutex
	events []notifications.Event
	err    error
}

func (p *publisherStub) Publish(_ context.Context, ev notifications.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *publisherStub) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
