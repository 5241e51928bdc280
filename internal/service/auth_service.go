package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"dealboard/internal/auth"
	"dealboard/internal/cache"
	"dealboard/internal/middleware"
	"dealboard/internal/models"
	"dealboard/internal/observability"
	"dealboard/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// AuthService runs the OAuth login round trip and session logout.
type AuthService struct {
	provider auth.IdentityProvider
	userRepo repository.UserRepository
	resolver *auth.SessionResolver
	redis    *redis.Client
}

// LoginResult is a freshly issued session.
type LoginResult struct {
	Token     string        `json:"-"`
	ExpiresAt time.Time     `json:"expiresAt"`
	Session   *auth.Session `json:"session"`
}

func NewAuthService(
	provider auth.IdentityProvider,
	userRepo repository.UserRepository,
	resolver *auth.SessionResolver,
	rdb *redis.Client,
) *AuthService {
	return &AuthService{provider: provider, userRepo: userRepo, resolver: resolver, redis: rdb}
}

// BeginLogin stores a one-time state value and returns the provider sign-in URL.
func (s *AuthService) BeginLogin(ctx context.Context) (string, error) {
	if s.redis == nil {
		return "", models.NewInternalError(errors.New("login state store unavailable"))
	}
	state := uuid.NewString()
	if err := s.redis.Set(ctx, cache.OAuthStateKey(state), s.provider.Name(), cache.OAuthStateTTL).Err(); err != nil {
		return "", models.NewInternalError(fmt.Errorf("storing login state: %w", err))
	}
	return s.provider.AuthCodeURL(state), nil
}

// CompleteLogin consumes state, exchanges code with the provider, upserts the
// user and issues a session token.
func (s *AuthService) CompleteLogin(ctx context.Context, code, state string) (*LoginResult, error) {
	span, ctx := observability.StartSpan(ctx, "AuthService.CompleteLogin")
	var err error
	defer func() { span.End(err) }()

	code, state = strings.TrimSpace(code), strings.TrimSpace(state)
	if code == "" || state == "" {
		err = models.NewValidationError("code and state are required")
		return nil, err
	}
	if err = s.consumeState(ctx, state); err != nil {
		observability.Logins.WithLabelValues("bad_state").Inc()
		return nil, err
	}

	identity, err := s.provider.Exchange(ctx, code)
	if err != nil {
		observability.Logins.WithLabelValues("provider_error").Inc()
		middleware.Logger.WarnContext(ctx, "identity provider exchange failed", slog.String("error", err.Error()))
		err = models.NewUnauthorizedError("Login failed")
		return nil, err
	}

	user, err := s.userRepo.UpsertFromIdentity(ctx, identity)
	if err != nil {
		observability.Logins.WithLabelValues("store_error").Inc()
		return nil, err
	}

	token, claims, err := s.resolver.Tokens().Issue(user.ID)
	if err != nil {
		err = models.NewInternalError(err)
		return nil, err
	}

	observability.Logins.WithLabelValues("success").Inc()
	middleware.Logger.InfoContext(middleware.WithUserID(ctx, user.ID), "user signed in",
		slog.String("provider", identity.Provider))

	return &LoginResult{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		Session:   auth.NewSession(user),
	}, nil
}

func (s *AuthService) consumeState(ctx context.Context, state string) error {
	if s.redis == nil {
		return models.NewInternalError(errors.New("login state store unavailable"))
	}
	_, err := s.redis.GetDel(ctx, cache.OAuthStateKey(state)).Result()
	if errors.Is(err, redis.Nil) {
		return models.NewUnauthorizedError("Invalid or expired login state")
	}
	if err != nil {
		return models.NewInternalError(fmt.Errorf("reading login state: %w", err))
	}
	return nil
}

// Resolve returns the session for token, nil for anonymous callers.
func (s *AuthService) Resolve(ctx context.Context, token string) (*auth.Session, error) {
	return s.resolver.Resolve(ctx, token)
}

// Logout revokes token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.resolver.Revoke(ctx, token); err != nil {
		return models.NewInternalError(fmt.Errorf("revoking session: %w", err))
	}
	return nil
}

// SessionTTL is how long issued sessions stay valid.
func (s *AuthService) SessionTTL() time.Duration {
	return s.resolver.Tokens().TTL()
}
