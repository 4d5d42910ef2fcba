package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentsift/talentsift/internal/models"
)

// AnnouncementsRepository handles announcement CRUD via GORM. The admin
// back-office is cold-path code, so it rides the ORM instead of hand-written
// SQL.
type AnnouncementsRepository struct {
	db *gorm.DB
}

// NewAnnouncementsRepository creates a new announcements repository.
func NewAnnouncementsRepository(db *gorm.DB) *AnnouncementsRepository {
	return &AnnouncementsRepository{db: db}
}

// Create inserts a new announcement.
func (r *AnnouncementsRepository) Create(ctx context.Context, a *models.Announcement) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}

// GetByID returns an announcement, nil when absent.
func (r *AnnouncementsRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Announcement, error) {
	var a models.Announcement
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get announcement: %w", err)
	}
	return &a, nil
}

// List returns all announcements, newest first.
func (r *AnnouncementsRepository) List(ctx context.Context) ([]models.Announcement, error) {
	var out []models.Announcement
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return out, nil
}

// ListActive returns announcements currently shown to recruiters.
func (r *AnnouncementsRepository) ListActive(ctx context.Context) ([]models.Announcement, error) {
	var out []models.Announcement
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list active announcements: %w", err)
	}
	return out, nil
}

// Update saves changed fields of an existing announcement.
func (r *AnnouncementsRepository) Update(ctx context.Context, a *models.Announcement) error {
	if err := r.db.WithContext(ctx).Save(a).Error; err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}
	return nil
}

// Delete removes an announcement.
func (r *AnnouncementsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&models.Announcement{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	return nil
}
