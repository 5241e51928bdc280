package server

import (
	"log/slog"
	"strings"
	"time"

	"dealboard/internal/auth"
	"dealboard/internal/middleware"
	"dealboard/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "dealboard_session"

const sessionLocal = "session"

// sessionToken reads the session token from the Authorization header, falling
// back to the session cookie.
func sessionToken(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return c.Cookies(SessionCookie)
}

// SessionMiddleware resolves the caller's session once per request and stores
// it in locals. Missing or invalid tokens leave the request anonymous.
func (s *Server) SessionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := sessionToken(c)
		if token == "" {
			return c.Next()
		}

		sess, err := s.resolver.Resolve(c.UserContext(), token)
		if err != nil {
			middleware.Logger.ErrorContext(c.UserContext(), "session resolve failed", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		}
		if sess != nil {
			c.Locals(sessionLocal, sess)
			c.Locals("userID", sess.ID)
			c.SetUserContext(middleware.WithUserID(c.UserContext(), sess.ID))
		}
		return c.Next()
	}
}

// currentSession returns the session resolved for this request, or nil.
func currentSession(c *fiber.Ctx) *auth.Session {
	sess, _ := c.Locals(sessionLocal).(*auth.Session)
	return sess
}

// AuthRequired rejects anonymous callers with 401.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := auth.RequireAuth(currentSession(c)); err != nil {
			return models.Respond(c, err)
		}
		return c.Next()
	}
}

// AdminRequired rejects callers without the admin role with 403, anonymous
// callers included.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := auth.RequireAdmin(currentSession(c)); err != nil {
			return models.Respond(c, err)
		}
		return c.Next()
	}
}

// FeatureRequired hides a route behind a feature flag; a disabled route answers 404.
func (s *Server) FeatureRequired(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !s.featureFlags.Enabled(name, currentSession(c).UserID()) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Feature", name))
		}
		return c.Next()
	}
}

func (s *Server) setSessionCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
