package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dealboard/internal/cache"
	"dealboard/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Identity is the profile an identity provider returns after a successful login.
type Identity struct {
	Provider string
	Subject  string
	Name     string
	Email    string
	Image    string
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpsertFromIdentity(ctx context.Context, id Identity) (*models.User, error)
	SetRole(ctx context.Context, id uint, role models.Role) error
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).Take(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns the earliest account registered with email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Order("id ASC").
		Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", email)
		}
		return nil, fmt.Errorf("loading user by email: %w", err)
	}
	return &user, nil
}

// UpsertFromIdentity creates the user on first login and refreshes profile
// fields on later logins. The role is never changed here.
func (r *userRepository) UpsertFromIdentity(ctx context.Context, id Identity) (*models.User, error) {
	if id.Provider == "" || id.Subject == "" {
		return nil, models.NewValidationError("identity provider and subject are required")
	}

	now := time.Now()
	candidate := &models.User{
		Name:            id.Name,
		Email:           id.Email,
		Image:           id.Image,
		Role:            models.RoleUser,
		Provider:        id.Provider,
		ProviderSubject: id.Subject,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider"}, {Name: "provider_subject"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "image", "updated_at"}),
	}).Create(candidate).Error
	if err != nil {
		return nil, fmt.Errorf("upserting user: %w", err)
	}

	var user models.User
	if err := db.Where("provider = ? AND provider_subject = ?", id.Provider, id.Subject).Take(&user).Error; err != nil {
		return nil, fmt.Errorf("reloading user: %w", err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return &user, nil
}

// SetRole changes the role of a user. It is the only way a role changes.
func (r *userRepository) SetRole(ctx context.Context, id uint, role models.Role) error {
	if !role.Valid() {
		return models.NewValidationError(fmt.Sprintf("unknown role %q", role))
	}
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return fmt.Errorf("updating role of user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

func (r *userRepository) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Where("role = ?", role).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}
