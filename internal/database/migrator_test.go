package database

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMigrations(t *testing.T) MigrationSet {
	t.Helper()
	set, err := ParseMigrations(fstest.MapFS{
		"m/000002_add_roasters.up.sql":   {Data: []byte("CREATE TABLE roasters (id INTEGER PRIMARY KEY)")},
		"m/000002_add_roasters.down.sql": {Data: []byte("DROP TABLE roasters")},
		"m/000001_add_beans.up.sql":      {Data: []byte("CREATE TABLE beans (id INTEGER PRIMARY KEY)")},
		"m/000001_add_beans.down.sql":    {Data: []byte("DROP TABLE beans")},
		"m/README.md":                    {Data: []byte("ignored")},
		"m/notes.up.sql":                 {Data: []byte("ignored")},
	}, "m")
	require.NoError(t, err)
	return set
}

func TestBundledMigrations(t *testing.T) {
	t.Parallel()

	set := BundledMigrations()
	require.NotEmpty(t, set)
	for i := 1; i < len(set); i++ {
		assert.Less(t, set[i-1].Version, set[i].Version)
	}

	first, ok := set.Find(1)
	require.True(t, ok)
	assert.Equal(t, "000001_init_schema", first.ID())
	assert.Contains(t, first.Up, "CREATE TABLE IF NOT EXISTS likes")
	assert.Contains(t, first.Down, "DROP TABLE IF EXISTS likes")

	_, ok = set.Find(999)
	assert.False(t, ok)
}

func TestParseMigrations(t *testing.T) {
	t.Parallel()

	set := testMigrations(t)
	require.Len(t, set, 2)
	assert.Equal(t, "000001_add_beans", set[0].ID())
	assert.Equal(t, "DROP TABLE roasters", set[1].Down)

	_, err := ParseMigrations(fstest.MapFS{
		"m/000001_first.up.sql": {Data: []byte("SELECT 1")},
	}, "m")
	assert.ErrorContains(t, err, "no down script")

	_, err = ParseMigrations(fstest.MapFS{
		"m/000001_first.up.sql":   {Data: []byte("SELECT 1")},
		"m/000001_first.down.sql": {Data: []byte("SELECT 1")},
		"m/0001_again.up.sql":     {Data: []byte("SELECT 1")},
		"m/0001_again.down.sql":   {Data: []byte("SELECT 1")},
	}, "m")
	assert.ErrorContains(t, err, "version 1 used by")
}

func TestMigrator_UpAndDown(t *testing.T) {
	ctx := context.Background()
	db := openMemoryDB(t)
	m := NewMigratorFor(db, testMigrations(t))

	applied, err := m.Applied(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)

	ran, err := m.Up(ctx)
	require.NoError(t, err)
	assert.Len(t, ran, 2)
	assert.True(t, db.Migrator().HasTable("beans"))
	assert.True(t, db.Migrator().HasTable("roasters"))

	ran, err = m.Up(ctx)
	require.NoError(t, err)
	assert.Empty(t, ran, "second run has nothing to do")

	require.NoError(t, m.Down(ctx, 2))
	assert.False(t, db.Migrator().HasTable("roasters"))

	pending, err := m.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 2, pending[0].Version)

	assert.ErrorContains(t, m.Down(ctx, 2), "not applied")
	assert.ErrorContains(t, m.Down(ctx, 42), "unknown migration")
}

func TestMigrator_FailedScriptIsNotRecorded(t *testing.T) {
	ctx := context.Background()
	db := openMemoryDB(t)
	set := MigrationSet{
		{Version: 1, Name: "good", Up: "CREATE TABLE beans (id INTEGER PRIMARY KEY)", Down: "DROP TABLE beans"},
		{Version: 2, Name: "bad", Up: "CREATE TABLE", Down: "SELECT 1"},
	}

	ran, err := NewMigratorFor(db, set).Up(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000002_bad")
	require.Len(t, ran, 1)

	applied, err := NewMigratorFor(db, set).Applied(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, applied)
}

func TestMigrator_RefusesUnknownVersions(t *testing.T) {
	ctx := context.Background()
	db := openMemoryDB(t)
	_, err := NewMigratorFor(db, testMigrations(t)).Up(ctx)
	require.NoError(t, err)

	older := NewMigratorFor(db, testMigrations(t)[:1])
	_, err = older.Up(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000002")
}
