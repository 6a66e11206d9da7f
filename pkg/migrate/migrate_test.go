package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMigrationsDirIsValid(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
	require.NoError(t, ValidateFS(Embedded, EmbeddedDir))
}

func TestEmbeddedMigrationsRunOnSQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:migrate_embedded_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	ctx := context.Background()
	pending, err := Pending(ctx, sqlDB, "sqlite", EmbeddedSource())
	require.NoError(t, err)
	assert.NotEmpty(t, pending)

	require.NoError(t, Run(ctx, sqlDB, "sqlite", EmbeddedSource(), "up"))
	assert.True(t, conn.Migrator().HasTable("orders"))

	pending, err = Pending(ctx, sqlDB, "sqlite", EmbeddedSource())
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestOrdersMigrationRunsOnSQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:migrate_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	ctx := context.Background()
	require.NoError(t, Run(ctx, sqlDB, "sqlite", DirSource("migrations"), "up"))
	assert.True(t, conn.Migrator().HasTable("orders"))
	assert.True(t, conn.Migrator().HasIndex("orders", "idx_orders_order_number"))

	require.NoError(t, Run(ctx, sqlDB, "sqlite", DirSource("migrations"), "down"))
	assert.False(t, conn.Migrator().HasTable("orders"))
}

func TestGooseDialect(t *testing.T) {
	d, err := GooseDialect("postgres")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d)

	d, err = GooseDialect("sqlite")
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", d)

	_, err = GooseDialect("mysql")
	assert.Error(t, err)

	assert.Equal(t, "embedded:migrations", EmbeddedSource().String())
	assert.Equal(t, "pkg/migrate/migrations", DirSource(DefaultDir).String())
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Florists Table!")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_add_florists_table.sql"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "-- +goose Up")
	assert.Contains(t, string(content), "-- +goose Down")

	require.NoError(t, ValidateDir(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.sql"), []byte("select 1;"), 0o644))
	assert.Error(t, ValidateDir(dir))
}

func TestCreateSQLMigrationSkipsTakenVersion(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first, err := createSQLMigration(dir, "one", now)
	require.NoError(t, err)
	second, err := createSQLMigration(dir, "two", now)
	require.NoError(t, err)

	assert.Equal(t, "20260301120000_one.sql", filepath.Base(first))
	assert.Equal(t, "20260301120001_two.sql", filepath.Base(second))
}

func TestValidateFSRejectsUnbalancedStatements(t *testing.T) {
	fsys := fstest.MapFS{
		"20260301120000_broken.sql": {Data: []byte("-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose Down\n")},
	}
	assert.ErrorContains(t, ValidateFS(fsys, "."), "StatementBegin")
}

func TestRunRequiresInputs(t *testing.T) {
	assert.Error(t, Run(context.Background(), nil, "postgres", DirSource("migrations"), "up"))
}
