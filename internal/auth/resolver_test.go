package auth

import (
	"context"
	"testing"
	"time"

	"dealboard/internal/models"
	"dealboard/internal/repository"
	"dealboard/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) (*SessionResolver, *miniredis.Miniredis, *models.User) {
	t.Helper()
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, models.RoleUser)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := NewSessionResolver(NewTokenManager(testSecret, time.Hour), repository.NewUserRepository(db), rdb)
	return r, mr, user
}

func TestSessionResolver_Resolve(t *testing.T) {
	r, _, user := newTestResolver(t)
	ctx := context.Background()

	token, _, err := r.Tokens().Issue(user.ID)
	require.NoError(t, err)

	sess, err := r.Resolve(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, user.ID, sess.ID)
	assert.Equal(t, models.RoleUser, sess.Role)
	assert.Equal(t, user.Email, sess.Email)
}

func TestSessionResolver_Anonymous(t *testing.T) {
	r, _, _ := newTestResolver(t)
	ctx := context.Background()

	orphan, _, err := r.Tokens().Issue(9999)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"unknown user": orphan,
	} {
		t.Run(name, func(t *testing.T) {
			sess, err := r.Resolve(ctx, token)
			assert.NoError(t, err)
			assert.Nil(t, sess)
		})
	}
}

func TestSessionResolver_Revoke(t *testing.T) {
	r, mr, user := newTestResolver(t)
	ctx := context.Background()

	token, claims, err := r.Tokens().Issue(user.ID)
	require.NoError(t, err)

	require.NoError(t, r.Revoke(ctx, token))
	assert.True(t, mr.Exists("blacklist:"+claims.ID))
	assert.Greater(t, mr.TTL("blacklist:"+claims.ID), 50*time.Minute)

	sess, err := r.Resolve(ctx, token)
	assert.NoError(t, err)
	assert.Nil(t, sess)
}

func TestSessionResolver_RedisDownFailsOpen(t *testing.T) {
	r, mr, user := newTestResolver(t)
	token, _, err := r.Tokens().Issue(user.ID)
	require.NoError(t, err)

	mr.SetError("ERR unavailable")

	sess, err := r.Resolve(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, user.ID, sess.ID)
}
