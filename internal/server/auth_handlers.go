package server

import (
	"dealboard/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Login handles GET /api/auth/login by redirecting to the identity provider.
// @Summary Start an OAuth login
// @Tags auth
// @Success 302
// @Router /auth/login [get]
func (s *Server) Login(c *fiber.Ctx) error {
	url, err := s.authService.BeginLogin(c.UserContext())
	if err != nil {
		return models.Respond(c, err)
	}
	return c.Redirect(url, fiber.StatusFound)
}

// Callback handles GET /api/auth/callback
// @Summary Finish an OAuth login
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "Login state"
// @Success 200 {object} service.LoginResult
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/callback [get]
func (s *Server) Callback(c *fiber.Ctx) error {
	result, err := s.authService.CompleteLogin(c.UserContext(), c.Query("code"), c.Query("state"))
	if err != nil {
		return models.Respond(c, err)
	}

	s.setSessionCookie(c, result.Token, result.ExpiresAt)
	return c.JSON(result)
}

// GetSession handles GET /api/auth/session. Anonymous callers get a null session.
// @Summary Current session
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /auth/session [get]
func (s *Server) GetSession(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"session": currentSession(c)})
}

// Logout handles POST /api/auth/logout
// @Summary Revoke the current session
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	if token := sessionToken(c); token != "" {
		if err := s.authService.Logout(c.UserContext(), token); err != nil {
			return models.Respond(c, err)
		}
	}
	s.clearSessionCookie(c)
	return c.JSON(fiber.Map{"message": "Logged out"})
}
