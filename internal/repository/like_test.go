package repository

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"dealboard/internal/models"
	"dealboard/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestLikeRepository_ToggleParity(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	admin := testutil.CreateUser(t, db, models.RoleAdmin)
	user := testutil.CreateUser(t, db, models.RoleUser)
	post := testutil.CreatePost(t, db, admin, "Liked", true, time.Now())

	for i := 1; i <= 5; i++ {
		liked, err := repo.Toggle(ctx, post.ID, user.ID)
		require.NoError(t, err)
		assert.Equal(t, i%2 == 1, liked, "toggle %d", i)

		exists, err := repo.Exists(ctx, post.ID, user.ID)
		require.NoError(t, err)
		assert.Equal(t, liked, exists)
	}

	n, err := repo.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestLikeRepository_ConcurrentTogglesKeepOneRow(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	admin := testutil.CreateUser(t, db, models.RoleAdmin)
	user := testutil.CreateUser(t, db, models.RoleUser)
	post := testutil.CreatePost(t, db, admin, "Busy", true, time.Now())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Toggle(ctx, post.ID, user.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Eight toggles end where they started.
	n, err := repo.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLikeRepository_ToggleSQL(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	t.Run("insert when absent", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "likes" WHERE post_id = $1 AND user_id = $2`)).
			WithArgs(3, 9).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`INSERT INTO "likes" .* ON CONFLICT \("post_id","user_id"\) DO NOTHING`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		liked, err := repo.Toggle(ctx, 3, 9)
		require.NoError(t, err)
		assert.True(t, liked)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete when present", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "likes" WHERE post_id = $1 AND user_id = $2`)).
			WithArgs(3, 9).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		liked, err := repo.Toggle(ctx, 3, 9)
		require.NoError(t, err)
		assert.False(t, liked)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
