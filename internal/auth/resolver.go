package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"dealboard/internal/cache"
	"dealboard/internal/middleware"
	"dealboard/internal/models"
	"dealboard/internal/repository"

	"github.com/redis/go-redis/v9"
)

// SessionResolver turns a session token into the caller's Session. The role
// is read from the user store on every resolve, never from the token.
type SessionResolver struct {
	tokens *TokenManager
	users  repository.UserRepository
	redis  *redis.Client
}

// NewSessionResolver returns a resolver. rdb may be nil, in which case
// revocation is not tracked.
func NewSessionResolver(tokens *TokenManager, users repository.UserRepository, rdb *redis.Client) *SessionResolver {
	return &SessionResolver{tokens: tokens, users: users, redis: rdb}
}

// Tokens exposes the token manager used for issuing sessions.
func (r *SessionResolver) Tokens() *TokenManager { return r.tokens }

// Resolve returns the session for tokenString. A missing, invalid, revoked or
// orphaned token resolves to a nil session without error; only store failures
// are returned.
func (r *SessionResolver) Resolve(ctx context.Context, tokenString string) (*Session, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, nil
	}

	claims, err := r.tokens.Parse(tokenString)
	if err != nil {
		middleware.Logger.Debug("rejecting session token", slog.String("error", err.Error()))
		return nil, nil
	}
	if r.isRevoked(ctx, claims.ID) {
		return nil, nil
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, nil
	}

	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return NewSession(user), nil
}

// Revoke blacklists the token's jti until the token would have expired.
// Tokens that no longer verify need no revocation.
func (r *SessionResolver) Revoke(ctx context.Context, tokenString string) error {
	if r.redis == nil || tokenString == "" {
		return nil
	}
	claims, err := r.tokens.Parse(tokenString)
	if err != nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return r.redis.Set(ctx, cache.RevokedSessionKey(claims.ID), "1", ttl).Err()
}

// isRevoked fails open when Redis errors: the signature and expiry checks still apply.
func (r *SessionResolver) isRevoked(ctx context.Context, jti string) bool {
	if r.redis == nil {
		return false
	}
	n, err := r.redis.Exists(ctx, cache.RevokedSessionKey(jti)).Result()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			middleware.Logger.Warn("revocation check failed", slog.String("error", err.Error()))
		}
		return false
	}
	return n > 0
}
