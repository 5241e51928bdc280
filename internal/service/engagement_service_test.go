package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"dealboard/internal/cache"
	"dealboard/internal/models"
	"dealboard/internal/notifications"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngagement(posts *postRepoStub, likes *likeRepoStub, comments *commentRepoStub, pub notifications.Publisher) *EngagementService {
	if likes == nil {
		likes = &likeRepoStub{}
	}
	if comments == nil {
		comments = &commentRepoStub{}
	}
	return NewEngagementService(posts, likes, comments, pub)
}

func TestEngagementService_ToggleLike(t *testing.T) {
	liked := false
	likes := &likeRepoStub{
		toggleFn: func(_ context.Context, postID, userID uint) (bool, error) {
			assert.Equal(t, uint(8), postID)
			assert.Equal(t, userSession.ID, userID)
			liked = !liked
			return liked, nil
		},
		countFn: func(_ context.Context, _ uint) (int64, error) {
			if liked {
				return 1, nil
			}
			return 0, nil
		},
	}
	pub := &publisherStub{}
	svc := newEngagement(noopPostRepo(), likes, nil, pub)

	for i := 1; i <= 3; i++ {
		got, err := svc.ToggleLike(context.Background(), userSession, 8)
		require.NoError(t, err)
		assert.Equal(t, i%2 == 1, got)
	}
	assert.Equal(t, []string{
		notifications.EventLikeToggled,
		notifications.EventLikeToggled,
		notifications.EventLikeToggled,
	}, pub.types())
}

func TestEngagementService_ToggleLikeGuards(t *testing.T) {
	likes := &likeRepoStub{
		toggleFn: func(_ context.Context, _, _ uint) (bool, error) {
			t.Fatal("toggle must not be called")
			return false, nil
		},
	}

	_, err := newEngagement(noopPostRepo(), likes, nil, nil).ToggleLike(context.Background(), nil, 1)
	assertCode(t, err, models.CodeUnauthorized)

	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint, publishedOnly bool) (*models.Post, error) {
		assert.True(t, publishedOnly)
		return nil, models.NewNotFoundError("Post", id)
	}
	_, err = newEngagement(posts, likes, nil, nil).ToggleLike(context.Background(), userSession, 1)
	assertCode(t, err, models.CodeNotFound)
}

func TestEngagementService_ToggleLikeStoreError(t *testing.T) {
	likes := &likeRepoStub{
		toggleFn: func(_ context.Context, _, _ uint) (bool, error) {
			return false, errors.New("connection reset")
		},
	}
	_, err := newEngagement(noopPostRepo(), likes, nil, nil).ToggleLike(context.Background(), userSession, 1)
	assertCode(t, err, models.CodeInternal)
}

func TestEngagementService_LikeStatus(t *testing.T) {
	likes := &likeRepoStub{
		existsFn: func(_ context.Context, _, userID uint) (bool, error) {
			return userID == userSession.ID, nil
		},
	}
	svc := newEngagement(noopPostRepo(), likes, nil, nil)

	got, err := svc.LikeStatus(context.Background(), nil, 1)
	require.NoError(t, err)
	assert.False(t, got)

	got, err = svc.LikeStatus(context.Background(), userSession, 1)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestEngagementService_LikeStatusDraft(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint, publishedOnly bool) (*models.Post, error) {
		assert.True(t, publishedOnly)
		return nil, models.NewNotFoundError("Post", id)
	}
	likes := &likeRepoStub{
		existsFn: func(_ context.Context, _, _ uint) (bool, error) {
			t.Fatal("exists must not be called")
			return false, nil
		},
	}
	svc := newEngagement(posts, likes, nil, nil)

	_, err := svc.LikeStatus(context.Background(), userSession, 3)
	assertCode(t, err, models.CodeNotFound)
	_, err = svc.LikeStatus(context.Background(), nil, 3)
	assertCode(t, err, models.CodeNotFound)
}

func TestEngagementService_WritesInvalidatePostList(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	likes := &likeRepoStub{
		toggleFn: func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		countFn:  func(_ context.Context, _ uint) (int64, error) { return 1, nil },
	}
	comments := &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error { c.ID = 1; return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id}, nil
		},
	}
	svc := newEngagement(noopPostRepo(), likes, comments, nil)
	ctx := context.Background()

	require.NoError(t, mr.Set(cache.PublishedPostsKey, "[]"))
	_, err := svc.ToggleLike(ctx, userSession, 1)
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.PublishedPostsKey))

	require.NoError(t, mr.Set(cache.PublishedPostsKey, "[]"))
	_, err = svc.AddComment(ctx, userSession, 1, "Nice")
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.PublishedPostsKey))
}

func TestEngagementService_AddComment(t *testing.T) {
	var stored *models.Comment
	comments := &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error {
			c.ID = 77
			stored = c
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			cp := *stored
			cp.Author = &models.User{ID: cp.AuthorID, Name: "Reader"}
			return &cp, nil
		},
	}
	pub := &publisherStub{}
	svc := newEngagement(noopPostRepo(), nil, comments, pub)

	c, err := svc.AddComment(context.Background(), userSession, 4, "  <b>Great</b> deal, isn't it? <script>alert(1)</script> ")
	require.NoError(t, err)
	assert.Equal(t, "Great deal, isn't it?", c.Content)
	assert.Equal(t, uint(4), c.PostID)
	assert.Equal(t, userSession.ID, c.AuthorID)
	require.NotNil(t, c.Author)
	assert.Equal(t, []string{notifications.EventCommentCreated}, pub.types())
}

func TestEngagementService_AddCommentPlainText(t *testing.T) {
	var stored *models.Comment
	comments := &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error {
			stored = c
			return nil
		},
		getByIDFn: func(_ context.Context, _ uint) (*models.Comment, error) {
			return stored, nil
		},
	}
	svc := newEngagement(noopPostRepo(), nil, comments, nil)

	tests := []struct {
		in   string
		want string
	}{
		{"&lt;b&gt;Great&lt;/b&gt; deal", "Great deal"},
		{"&amp;lt;i&amp;gt;Cheap&amp;lt;/i&amp;gt; eats", "Cheap eats"},
		{"<<b>i>Nested</i>", "Nested"},
		{"Tom & Jerry's 5 < 6", "Tom & Jerry's 5 < 6"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := svc.AddComment(context.Background(), userSession, 4, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Content)
			assert.NotContains(t, c.Content, "<b>")
			assert.NotContains(t, c.Content, "<i>")
		})
	}
}

func TestEngagementService_AddCommentRejects(t *testing.T) {
	comments := &commentRepoStub{
		createFn: func(_ context.Context, _ *models.Comment) error {
			t.Fatal("create must not be called")
			return nil
		},
	}
	missing := noopPostRepo()
	missing.getByIDFn = func(_ context.Context, id uint, _ bool) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}

	tests := []struct {
		name    string
		svc     *EngagementService
		sess    bool
		content string
		code    string
	}{
		{"anonymous", newEngagement(noopPostRepo(), nil, comments, nil), false, "hi", models.CodeUnauthorized},
		{"empty", newEngagement(noopPostRepo(), nil, comments, nil), true, "", models.CodeValidation},
		{"whitespace", newEngagement(noopPostRepo(), nil, comments, nil), true, " \n\t ", models.CodeValidation},
		{"markup only", newEngagement(noopPostRepo(), nil, comments, nil), true, "<img src=x>", models.CodeValidation},
		{"encoded script", newEngagement(noopPostRepo(), nil, comments, nil), true, "&lt;script&gt;alert(1)&lt;/script&gt;", models.CodeValidation},
		{"split script tag", newEngagement(noopPostRepo(), nil, comments, nil), true, "<<b>script>alert(1)<</b>/script>", models.CodeValidation},
		{"too long", newEngagement(noopPostRepo(), nil, comments, nil), true, strings.Repeat("a", maxCommentLen+1), models.CodeValidation},
		{"unknown post", newEngagement(missing, nil, comments, nil), true, "hello", models.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := userSession
			if !tt.sess {
				sess = nil
			}
			_, err := tt.svc.AddComment(context.Background(), sess, 1, tt.content)
			assertCode(t, err, tt.code)
		})
	}
}

func TestEngagementService_ListComments(t *testing.T) {
	comments := &commentRepoStub{
		listByPostFn: func(_ context.Context, postID uint) ([]*models.Comment, error) {
			return []*models.Comment{{ID: 2, PostID: postID}, {ID: 1, PostID: postID}}, nil
		},
	}
	list, err := newEngagement(noopPostRepo(), nil, comments, nil).ListComments(context.Background(), 6)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	missing := noopPostRepo()
	missing.getByIDFn = func(_ context.Context, id uint, _ bool) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}
	_, err = newEngagement(missing, nil, comments, nil).ListComments(context.Background(), 6)
	assertCode(t, err, models.CodeNotFound)
}
