package repository

import (
	"context"
	"testing"

	"dealboard/internal/models"
	"dealboard/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_UpsertKeepsRole(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	ident := Identity{
		Provider: "google",
		Subject:  "1234567890",
		Name:     "Amira",
		Email:    "amira@example.com",
		Image:    "https://img.example.com/a.png",
	}

	first, err := repo.UpsertFromIdentity(ctx, ident)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, first.Role)
	assert.NotZero(t, first.ID)

	require.NoError(t, repo.SetRole(ctx, first.ID, models.RoleAdmin))

	ident.Name = "Amira K."
	second, err := repo.UpsertFromIdentity(ctx, ident)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Amira K.", second.Name)
	assert.Equal(t, models.RoleAdmin, second.Role)
	assert.EqualValues(t, 1, testutil.Count(t, db, "users"))
}

func TestUserRepository_UpsertRequiresSubject(t *testing.T) {
	repo := NewUserRepository(testutil.NewDB(t))
	_, err := repo.UpsertFromIdentity(context.Background(), Identity{Provider: "google"})
	assert.True(t, models.IsCode(err, models.CodeValidation))
}

func TestUserRepository_SetRole(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, models.RoleUser)

	err := repo.SetRole(ctx, user.ID, models.Role("OWNER"))
	assert.True(t, models.IsCode(err, models.CodeValidation))

	err = repo.SetRole(ctx, 4242, models.RoleAdmin)
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	require.NoError(t, repo.SetRole(ctx, user.ID, models.RoleAdmin))
	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())

	admins, err := repo.ListByRole(ctx, models.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, user.ID, admins[0].ID)
}

func TestUserRepository_Lookups(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, models.RoleUser)

	got, err := repo.GetByEmail(ctx, "  "+user.Email+" ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	_, err = repo.GetByID(ctx, 999)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}
