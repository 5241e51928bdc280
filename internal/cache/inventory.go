package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix     = "user:%d"
	PublishedPostsKey = "posts:published"
	OAuthStateKeyFmt  = "oauth_state:%s"
	RevokedSessionFmt = "blacklist:%s"
)

const (
	UserTTL       = 5 * time.Minute
	PostListTTL   = 30 * time.Second
	OAuthStateTTL = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func OAuthStateKey(state string) string {
	return fmt.Sprintf(OAuthStateKeyFmt, state)
}

func RevokedSessionKey(jti string) string {
	return fmt.Sprintf(RevokedSessionFmt, jti)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePublishedPosts(ctx context.Context) {
	Invalidate(ctx, PublishedPostsKey)
}
