// Package imports persists asynchronous import sessions.
package imports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/brewhouse/cafe-admin/internal/entities"
)

// ErrNotFound is returned when an import session does not exist.
var ErrNotFound = errors.New("import session not found")

// Summary is the outcome of a finished import, as stored on the session.
type Summary struct {
	SuccessCount int
	FailedCount  int
	CreatedCount int
	UpdatedCount int
	Errors       []string
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create stores a pending session holding the uploaded CSV.
func (r *Repository) Create(ctx context.Context, kind entities.ImportKind, fileName, content string) (*entities.ImportSession, error) {
	session := &entities.ImportSession{
		Kind:     kind,
		Status:   entities.ImportStatusPending,
		FileName: fileName,
		Content:  content,
	}
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*entities.ImportSession, error) {
	var session entities.ImportSession
	err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// List returns the most recent sessions first.
func (r *Repository) List(ctx context.Context, limit int) ([]entities.ImportSession, error) {
	if limit <= 0 {
		limit = 20
	}
	var sessions []entities.ImportSession
	err := r.db.WithContext(ctx).Omit("content").Order("created_at DESC").Limit(limit).Find(&sessions).Error
	return sessions, err
}

// MarkRunning moves a pending session to running.
func (r *Repository) MarkRunning(ctx context.Context, id string) error {
	now := time.Now()
	return r.update(ctx, id, map[string]any{
		"status":     entities.ImportStatusRunning,
		"started_at": &now,
	})
}

// MarkCompleted stores the import outcome and drops the uploaded content.
func (r *Repository) MarkCompleted(ctx context.Context, id string, summary Summary) error {
	now := time.Now()
	holder := entities.ImportSession{}
	holder.SetErrors(summary.Errors)
	return r.update(ctx, id, map[string]any{
		"status":        entities.ImportStatusCompleted,
		"success_count": summary.SuccessCount,
		"failed_count":  summary.FailedCount,
		"created_count": summary.CreatedCount,
		"updated_count": summary.UpdatedCount,
		"errors":        holder.Errors,
		"content":       "",
		"completed_at":  &now,
	})
}

// MarkFailed records a job-level failure.
func (r *Repository) MarkFailed(ctx context.Context, id string, reason string) error {
	now := time.Now()
	return r.update(ctx, id, map[string]any{
		"status":       entities.ImportStatusFailed,
		"error_msg":    truncate(reason, 500),
		"completed_at": &now,
	})
}

// DeleteFinishedBefore removes completed and failed sessions older than the cutoff.
func (r *Repository) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status IN ? AND created_at < ?", []entities.ImportStatus{entities.ImportStatusCompleted, entities.ImportStatusFailed}, cutoff).
		Delete(&entities.ImportSession{})
	return result.RowsAffected, result.Error
}

func (r *Repository) update(ctx context.Context, id string, values map[string]any) error {
	result := r.db.WithContext(ctx).Model(&entities.ImportSession{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
