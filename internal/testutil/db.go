// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"dealboard/internal/database"
	"dealboard/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var seq atomic.Uint64

// NewDB returns a private in-memory SQLite database with the full schema and
// foreign keys enforced.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user with role.
func CreateUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()
	n := seq.Add(1)
	u := &models.User{
		Name:            fmt.Sprintf("User %d", n),
		Email:           fmt.Sprintf("user%d@example.com", n),
		Image:           fmt.Sprintf("https://img.example.com/u/%d.png", n),
		Role:            role,
		Provider:        "google",
		ProviderSubject: fmt.Sprintf("sub-%d", n),
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreatePost inserts a post by author. createdAt orders posts in listings.
func CreatePost(t *testing.T, db *gorm.DB, author *models.User, title string, published bool, createdAt time.Time) *models.Post {
	t.Helper()
	n := seq.Add(1)
	p := &models.Post{
		Title:     title,
		Content:   "Content for " + title,
		Slug:      fmt.Sprintf("post-%d", n),
		ImageURL:  "https://img.example.com/p.png",
		Tags:      []string{"food"},
		Published: published,
		AuthorID:  author.ID,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// Count returns the number of rows in table.
func Count(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table(table).Count(&n).Error)
	return n
}
