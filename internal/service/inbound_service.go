package service

import (
	"context"
	"strings"

	"dealboard/internal/auth"
	"dealboard/internal/models"
	"dealboard/internal/observability"
	"dealboard/internal/repository"
)

const (
	maxEmailLen   = 254
	maxNameLen    = 100
	maxMessageLen = 5000
)

// NewsletterService records newsletter opt-ins.
type NewsletterService struct {
	repo repository.NewsletterRepository
}

func NewNewsletterService(repo repository.NewsletterRepository) *NewsletterService {
	return &NewsletterService{repo: repo}
}

// Subscribe stores email. Subscribing twice is not an error; the result says
// whether the address was new.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") || len(email) > maxEmailLen {
		return false, models.NewValidationError("Invalid email")
	}
	created, err := s.repo.Subscribe(ctx, email)
	if err != nil {
		return false, models.NewInternalError(err)
	}
	observability.InboundSubmissions.WithLabelValues("newsletter").Inc()
	return created, nil
}

// ContactService stores and lists contact form messages.
type ContactService struct {
	repo repository.ContactRepository
}

type ContactInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Deals     string `json:"deals"`
	Message   string `json:"message"`
}

func NewContactService(repo repository.ContactRepository) *ContactService {
	return &ContactService{repo: repo}
}

func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*models.ContactMessage, error) {
	msg := &models.ContactMessage{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
		Deals:     strings.TrimSpace(in.Deals),
		Message:   strings.TrimSpace(in.Message),
	}
	if msg.FirstName == "" || msg.LastName == "" || msg.Email == "" || msg.Message == "" {
		return nil, models.NewValidationError("Missing required fields")
	}
	if !strings.Contains(msg.Email, "@") || len(msg.Email) > maxEmailLen {
		return nil, models.NewValidationError("Invalid email")
	}
	if len(msg.FirstName) > maxNameLen || len(msg.LastName) > maxNameLen {
		return nil, models.NewValidationError("Name too long (max 100 characters)")
	}
	if len(msg.Message) > maxMessageLen {
		return nil, models.NewValidationError("Message too long (max 5000 characters)")
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, models.NewInternalError(err)
	}
	observability.InboundSubmissions.WithLabelValues("contact").Inc()
	return msg, nil
}

// List returns one page of messages, newest first. Admin only.
func (s *ContactService) List(ctx context.Context, sess *auth.Session, page, limit int) ([]models.ContactMessage, error) {
	if err := auth.RequireAdmin(sess); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxPageSize {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	msgs, err := s.repo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return msgs, nil
}
