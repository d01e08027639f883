package database

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"fanhouse/pkg/database/migrations"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	assert.Contains(t, files, "00001_init_schema.sql")
	assert.Contains(t, files, "00002_ledger_append_only.sql")
	assert.Contains(t, files, "00004_posts_title_nullable.sql")
}

func TestMigrations_PostTitleNullable(t *testing.T) {
	body, err := fs.ReadFile(migrations.FS, "00004_posts_title_nullable.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "ALTER COLUMN title DROP NOT NULL")
	assert.Contains(t, string(body), "-- +goose Down")
}

func TestRunMigrations_UsesEmbeddedRoot(t *testing.T) {
	orig := gooseUp
	defer func() { gooseUp = orig }()

	var gotDir string
	gooseUp = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}

	require.NoError(t, RunMigrations(context.Background(), nil))
	assert.Equal(t, ".", gotDir)
}

func TestRunMigrations_Error(t *testing.T) {
	orig := gooseUp
	defer func() { gooseUp = orig }()

	gooseUp = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}

	err := RunMigrations(context.Background(), nil)
	assert.ErrorContains(t, err, "failed to run migrations")
}

func TestPing(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectPing()
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectPing()
	assert.NoError(t, Ping(context.Background(), db))
}
