package server

import (
	"dealboard/internal/models"
	"dealboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SubscribeNewsletter handles POST /api/newsletter
// @Summary Subscribe an email to the newsletter
// @Tags inbound
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 400 {object} models.ErrorResponse
// @Router /newsletter [post]
func (s *Server) SubscribeNewsletter(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	created, err := s.newsletterService.Subscribe(c.UserContext(), req.Email)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "created": created})
}

// SubmitContact handles POST /api/contact
// @Summary Leave a message through the contact form
// @Tags inbound
// @Accept json
// @Produce json
// @Param message body service.ContactInput true "Message"
// @Success 201 {object} models.ContactMessage
// @Failure 400 {object} models.ErrorResponse
// @Router /contact [post]
func (s *Server) SubmitContact(c *fiber.Ctx) error {
	var req service.ContactInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	msg, err := s.contactService.Submit(c.UserContext(), req)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// GetContactMessages handles GET /api/admin/contact
func (s *Server) GetContactMessages(c *fiber.Ctx) error {
	page := parsePagination(c)
	msgs, err := s.contactService.List(c.UserContext(), currentSession(c), page.Page, page.Limit)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(msgs)
}

// GetFeatureFlags returns configured feature flags and their state for the caller.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID := currentSession(c).UserID()
	return c.JSON(fiber.Map{
		"raw":       s.featureFlags.Raw(),
		"evaluated": s.featureFlags.Snapshot(userID),
	})
}
