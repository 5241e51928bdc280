package database

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMigrationFS() fstest.MapFS {
	return fstest.MapFS{
		"m/000001_widgets.up.sql":   {Data: []byte("CREATE TABLE widgets (id INTEGER PRIMARY KEY);")},
		"m/000001_widgets.down.sql": {Data: []byte("DROP TABLE widgets;")},
		"m/000002_gadgets.up.sql":   {Data: []byte("CREATE TABLE gadgets (id INTEGER PRIMARY KEY);")},
		"m/000002_gadgets.down.sql": {Data: []byte("DROP TABLE gadgets;")},
		"m/README.md":               {Data: []byte("ignored")},
	}
}

func TestLoadMigrations_EmbeddedSet(t *testing.T) {
	ms, err := LoadMigrations(migrationFS, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, ms)
	assert.Equal(t, 1, ms[0].Version)
	assert.Equal(t, "000001_init", ms[0].String())
	for _, m := range ms {
		assert.NotEmpty(t, m.UpScript, m.String())
		assert.NotEmpty(t, m.DownScript, m.String())
	}
}

func TestLoadMigrations_MissingDown(t *testing.T) {
	fsys := fstest.MapFS{
		"m/000001_x.up.sql": {Data: []byte("SELECT 1;")},
	}
	_, err := LoadMigrations(fsys, "m")
	assert.Error(t, err)
}

func TestMigrator_UpStatusDown(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	ctx := context.Background()

	m, err := NewMigratorFS(db, testMigrationFS(), "m")
	require.NoError(t, err)

	applied, err := m.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, applied)
	assert.True(t, db.Migrator().HasTable("widgets"))
	assert.True(t, db.Migrator().HasTable("gadgets"))

	applied, err = m.Up(ctx)
	require.NoError(t, err)
	assert.Zero(t, applied)

	rolled, err := m.Down(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, rolled.Version)
	assert.False(t, db.Migrator().HasTable("gadgets"))

	status, err := m.Status(ctx)
	require.NoError(t, err)
	require.Len(t, status, 2)
	assert.True(t, status[0].Applied)
	assert.False(t, status[1].Applied)

	_, err = m.Down(ctx)
	require.NoError(t, err)
	_, err = m.Down(ctx)
	assert.ErrorIs(t, err, ErrNothingToRollBack)
}

func TestMigrator_UnknownAppliedVersion(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, db.AutoMigrate(&MigrationLog{}))
	require.NoError(t, db.Create(&MigrationLog{Version: 99, Name: "ghost"}).Error)

	m, err := NewMigratorFS(db, testMigrationFS(), "m")
	require.NoError(t, err)

	_, err = m.Up(ctx)
	assert.ErrorContains(t, err, "000099")
}

func TestAutoMigrate_SQLite(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	for _, table := range []string{"users", "posts", "comments", "likes", "newsletter_subscribers", "contact_messages"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex("likes", "idx_post_user"))
}
