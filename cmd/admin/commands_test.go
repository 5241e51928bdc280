package main

import (
	"bytes"
	"context"
	"testing"

	"dealboard/internal/models"
	"dealboard/internal/repository"
	"dealboard/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runAdmin(t *testing.T, users repository.UserRepository, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(func() (repository.UserRepository, error) { return users, nil })
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAdminCommands(t *testing.T) {
	db := testutil.NewDB(t)
	users := repository.NewUserRepository(db)
	user := testutil.CreateUser(t, db, models.RoleUser)

	out, err := runAdmin(t, users, "list-admins")
	require.NoError(t, err)
	assert.Contains(t, out, "No admins")

	out, err = runAdmin(t, users, "promote", user.Email)
	require.NoError(t, err)
	assert.Contains(t, out, "USER -> ADMIN")

	out, err = runAdmin(t, users, "promote", user.Email)
	require.NoError(t, err)
	assert.Contains(t, out, "already has role ADMIN")

	out, err = runAdmin(t, users, "list-admins")
	require.NoError(t, err)
	assert.Contains(t, out, user.Email)

	_, err = runAdmin(t, users, "demote", user.Email)
	require.NoError(t, err)
	got, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, got.Role)
}

func TestAdminCommands_Errors(t *testing.T) {
	db := testutil.NewDB(t)
	users := repository.NewUserRepository(db)

	_, err := runAdmin(t, users, "promote", "ghost@example.com")
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	_, err = runAdmin(t, users, "promote")
	assert.Error(t, err)
}
