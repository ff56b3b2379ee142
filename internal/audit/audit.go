package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Auditor archives raw import uploads on disk so a failed import can be
// inspected later.
type Auditor struct {
	AuditDir string
}

func NewAuditor(auditDir string) *Auditor {
	return &Auditor{
		AuditDir: auditDir,
	}
}

// SaveUpload stores an uploaded CSV as <kind>-<uuid>.csv and returns the file name.
func (a *Auditor) SaveUpload(kind, content string) (string, error) {
	filename := fmt.Sprintf("%s-%s.csv", kind, uuid.New().String())
	if err := a.write(filename, []byte(content)); err != nil {
		return "", err
	}
	return filename, nil
}

// SaveJSON saves the provided data as JSON to a file with UUID4 filename
func (a *Auditor) SaveJSON(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data to JSON: %w", err)
	}

	filename := fmt.Sprintf("%s.json", uuid.New().String())
	if err := a.write(filename, jsonData); err != nil {
		return "", err
	}
	return filename, nil
}

func (a *Auditor) write(filename string, data []byte) error {
	if err := a.ensureAuditDir(); err != nil {
		return fmt.Errorf("failed to ensure audit directory: %w", err)
	}

	path := filepath.Join(a.AuditDir, filename)
	zap.L().Debug("Saving audit file", zap.String("path", path))

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write audit file: %w", err)
	}
	return nil
}

// ensureAuditDir creates the audit directory if it doesn't exist
func (a *Auditor) ensureAuditDir() error {
	if _, err := os.Stat(a.AuditDir); os.IsNotExist(err) {
		if err := os.MkdirAll(a.AuditDir, 0755); err != nil {
			return fmt.Errorf("failed to create audit directory: %w", err)
		}
	}
	return nil
}
