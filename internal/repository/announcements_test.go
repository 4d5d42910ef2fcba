package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/talentsift/talentsift/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Announcement{}))

	return db
}

func TestAnnouncementsRepository_CRUD(t *testing.T) {
	repo := NewAnnouncementsRepository(newTestDB(t))
	ctx := context.Background()

	a := &models.Announcement{Title: "Novos planos", Body: "Confira os novos planos Pro.", Active: true}
	require.NoError(t, repo.Create(ctx, a))
	require.NotEmpty(t, a.ID)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Novos planos", got.Title)

	got.Active = false
	require.NoError(t, repo.Update(ctx, got))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, repo.Delete(ctx, a.ID))
	gone, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestAnnouncementsRepository_GetMissing(t *testing.T) {
	repo := NewAnnouncementsRepository(newTestDB(t))

	got, err := repo.GetByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}
