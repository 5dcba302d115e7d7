package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"assignment-tracker/internal/model"
	"assignment-tracker/internal/storage"
)

// setupTestDB creates a SQLite database file in a temp dir.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "nested", "test.db"), zerolog.Nop())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestSlotRepository_GetMissing(t *testing.T) {
	repo := NewSlotRepository(setupTestDB(t))

	_, err := repo.Get(context.Background(), "studentAssignments")
	assert.ErrorIs(t, err, storage.ErrSlotNotFound)
}

func TestSlotRepository_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewSlotRepository(db)

	require.NoError(t, repo.Put(ctx, "darkMode", "false"))
	require.NoError(t, repo.Put(ctx, "darkMode", "true"))
	require.NoError(t, repo.Put(ctx, "studentAssignments", "[]"))

	got, err := repo.Get(ctx, "darkMode")
	require.NoError(t, err)
	assert.Equal(t, "true", got)

	var count int64
	require.NoError(t, db.Model(&model.Slot{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestEnsureDirForSQLite(t *testing.T) {
	assert.NoError(t, ensureDirForSQLite(":memory:"))
	assert.NoError(t, ensureDirForSQLite("file:x?mode=memory"))
	assert.NoError(t, ensureDirForSQLite("plain.db"))

	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, ensureDirForSQLite("file:"+filepath.Join(dir, "x.db")+"?_busy_timeout=5000"))
	assert.DirExists(t, dir)
}
