package repository

import (
	"context"
	"fmt"

	"dealboard/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewsletterRepository stores newsletter opt-ins.
type NewsletterRepository interface {
	// Subscribe records email and reports whether it was new.
	Subscribe(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type newsletterRepository struct {
	db *gorm.DB
}

func NewNewsletterRepository(db *gorm.DB) NewsletterRepository {
	return &newsletterRepository{db: db}
}

func (r *newsletterRepository) Subscribe(ctx context.Context, email string) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(&models.NewsletterSubscriber{Email: email})
	if res.Error != nil {
		return false, fmt.Errorf("subscribing %s: %w", email, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *newsletterRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.NewsletterSubscriber{}).Count(&n).Error
	return n, err
}

// ContactRepository stores contact form submissions.
type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
	List(ctx context.Context, limit, offset int) ([]models.ContactMessage, error)
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("storing contact message: %w", err)
	}
	return nil
}

func (r *contactRepository) List(ctx context.Context, limit, offset int) ([]models.ContactMessage, error) {
	var msgs []models.ContactMessage
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("listing contact messages: %w", err)
	}
	return msgs, nil
}
