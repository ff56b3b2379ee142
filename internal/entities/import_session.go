package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ImportStatus string

const (
	ImportStatusPending   ImportStatus = "pending"
	ImportStatusRunning   ImportStatus = "running"
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

type ImportKind string

const (
	ImportKindCategories ImportKind = "categories"
	ImportKindMenuItems  ImportKind = "menu_items"
)

// ImportSession tracks an asynchronous import job. Synchronous imports are not recorded.
type ImportSession struct {
	ID           string       `gorm:"primaryKey;size:36" json:"id"`
	Kind         ImportKind   `gorm:"index;size:20" json:"kind"`
	Status       ImportStatus `gorm:"index;size:20" json:"status"`
	FileName     string       `gorm:"size:255" json:"file_name,omitempty"`
	Content      string       `gorm:"type:text" json:"-"`
	SuccessCount int          `json:"success_count"`
	FailedCount  int          `json:"failed_count"`
	CreatedCount int          `json:"created_count"`
	UpdatedCount int          `json:"updated_count"`
	Errors       string       `gorm:"type:text" json:"-"` // JSON-encoded []string
	ErrorMsg     string       `gorm:"size:500" json:"error_msg,omitempty"`
	StartedAt    *time.Time   `json:"started_at,omitempty"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (s *ImportSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Status == "" {
		s.Status = ImportStatusPending
	}
	return nil
}

// ErrorList decodes the stored row errors.
func (s *ImportSession) ErrorList() []string {
	if s.Errors == "" {
		return []string{}
	}
	var errs []string
	if err := json.Unmarshal([]byte(s.Errors), &errs); err != nil {
		return []string{s.Errors}
	}
	return errs
}

// SetErrors encodes row errors for storage.
func (s *ImportSession) SetErrors(errs []string) {
	if len(errs) == 0 {
		s.Errors = ""
		return
	}
	data, err := json.Marshal(errs)
	if err != nil {
		return
	}
	s.Errors = string(data)
}

// Finished reports whether the session reached a terminal status.
func (s *ImportSession) Finished() bool {
	return s.Status == ImportStatusCompleted || s.Status == ImportStatusFailed
}
