package imports

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/brewhouse/cafe-admin/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "imports.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.ImportSession{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return NewRepository(db), db
}

func TestRepository_Lifecycle(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	session, err := repo.Create(ctx, entities.ImportKindMenuItems, "menu.csv", "name\nLatte")
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, entities.ImportStatusPending, session.Status)

	require.NoError(t, repo.MarkRunning(ctx, session.ID))
	running, err := repo.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ImportStatusRunning, running.Status)
	assert.NotNil(t, running.StartedAt)
	assert.Equal(t, "name\nLatte", running.Content)

	require.NoError(t, repo.MarkCompleted(ctx, session.ID, Summary{
		SuccessCount: 1,
		FailedCount:  1,
		CreatedCount: 1,
		Errors:       []string{`Row 3: Category not found: "Tea"`},
	}))

	done, err := repo.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ImportStatusCompleted, done.Status)
	assert.True(t, done.Finished())
	assert.Equal(t, 1, done.SuccessCount)
	assert.Equal(t, 1, done.FailedCount)
	assert.Equal(t, []string{`Row 3: Category not found: "Tea"`}, done.ErrorList())
	assert.Empty(t, done.Content)
	assert.NotNil(t, done.CompletedAt)
}

func TestRepository_MarkFailed(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	session, err := repo.Create(ctx, entities.ImportKindCategories, "", "name")
	require.NoError(t, err)

	require.NoError(t, repo.MarkFailed(ctx, session.ID, "worker crashed"))

	failed, err := repo.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ImportStatusFailed, failed.Status)
	assert.Equal(t, "worker crashed", failed.ErrorMsg)
	assert.Empty(t, failed.ErrorList())
}

func TestRepository_NotFound(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	_, err := repo.Get(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(repo.MarkRunning(ctx, "missing"), ErrNotFound))
}

func TestRepository_ListAndCleanup(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()

	old, err := repo.Create(ctx, entities.ImportKindCategories, "old.csv", "name")
	require.NoError(t, err)
	require.NoError(t, repo.MarkCompleted(ctx, old.ID, Summary{}))
	require.NoError(t, db.Model(&entities.ImportSession{}).Where("id = ?", old.ID).
		Update("created_at", time.Now().Add(-72*time.Hour)).Error)

	pending, err := repo.Create(ctx, entities.ImportKindCategories, "pending.csv", "name")
	require.NoError(t, err)
	require.NoError(t, db.Model(&entities.ImportSession{}).Where("id = ?", pending.ID).
		Update("created_at", time.Now().Add(-72*time.Hour)).Error)

	_, err = repo.Create(ctx, entities.ImportKindMenuItems, "new.csv", "name")
	require.NoError(t, err)

	sessions, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, "new.csv", sessions[0].FileName)
	assert.Empty(t, sessions[0].Content)

	deleted, err := repo.DeleteFinishedBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.Get(ctx, pending.ID)
	assert.NoError(t, err, "unfinished sessions are kept")
}
