package repository

import (
	"context"
	"testing"
	"time"

	"dealboard/internal/models"
	"dealboard/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_CreateAndList(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	admin := testutil.CreateUser(t, db, models.RoleAdmin)
	user := testutil.CreateUser(t, db, models.RoleUser)
	post := testutil.CreatePost(t, db, admin, "Talk", true, time.Now())

	base := time.Now().Add(-time.Hour)
	for i, text := range []string{"first", "second", "third"} {
		c := &models.Comment{Content: text, PostID: post.ID, AuthorID: user.ID, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, repo.Create(ctx, c))
		assert.NotZero(t, c.ID)
	}

	comments, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "third", comments[0].Content)
	assert.Equal(t, "first", comments[2].Content)
	require.NotNil(t, comments[0].Author)
	assert.Equal(t, user.Name, comments[0].Author.Name)

	got, err := repo.GetByID(ctx, comments[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Content)

	_, err = repo.GetByID(ctx, 777)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestCommentRepository_CreateUnknownPost(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCommentRepository(db)
	user := testutil.CreateUser(t, db, models.RoleUser)

	err := repo.Create(context.Background(), &models.Comment{Content: "orphan", PostID: 31337, AuthorID: user.ID})
	assert.Error(t, err)
	assert.Zero(t, testutil.Count(t, db, "comments"))
}
