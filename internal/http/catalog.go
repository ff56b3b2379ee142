package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/brewhouse/cafe-admin/internal/audit"
	"github.com/brewhouse/cafe-admin/internal/entities"
	"github.com/brewhouse/cafe-admin/internal/importers"
	"github.com/brewhouse/cafe-admin/internal/services"
	"github.com/brewhouse/cafe-admin/internal/utils"
)

const (
	// Upload cap used when none is configured (10 MB)
	defaultMaxUploadBytes = 10 << 20

	csvContentType = "text/csv; charset=utf-8"
	utf8BOM        = "\ufeff"
)

var (
	errUploadTooLarge = errors.New("upload too large")
	errUploadMissing  = errors.New("file is required")
)

// CatalogController serves catalog listing, CSV import, export and templates.
type CatalogController struct {
	catalog        CatalogService
	sessions       ImportSessionStore
	enqueuer       ImportEnqueuer
	auditor        CatalogAuditor
	archiver       UploadArchiver
	maxUploadBytes int64
}

// NewCatalogController creates a CatalogController. sessions, enqueuer,
// auditor and archiver may be nil; async imports are rejected without
// sessions and enqueuer.
func NewCatalogController(
	catalog CatalogService,
	sessions ImportSessionStore,
	enqueuer ImportEnqueuer,
	auditor CatalogAuditor,
	archiver UploadArchiver,
	maxUploadBytes int64,
) *CatalogController {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &CatalogController{
		catalog:        catalog,
		sessions:       sessions,
		enqueuer:       enqueuer,
		auditor:        auditor,
		archiver:       archiver,
		maxUploadBytes: maxUploadBytes,
	}
}

// ListCategories handles GET /api/categories
func (cc *CatalogController) ListCategories(c *gin.Context) {
	categories, err := cc.catalog.Categories(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// ListMenuItems handles GET /api/menu-items
func (cc *CatalogController) ListMenuItems(c *gin.Context) {
	items, err := cc.catalog.MenuItems(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list menu items")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"menu_items": items,
		"count":      len(items),
	})
}

// Import returns the handler for POST /api/{kind}/import. The CSV is read
// from the multipart field "file" or, for any other content type, from the
// raw request body. With ?async=true the import runs in the task queue and
// the response is 202 with the job id.
func (cc *CatalogController) Import(kind entities.ImportKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		content, fileName, err := cc.readUpload(c)
		switch {
		case errors.Is(err, errUploadTooLarge):
			respondError(c, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("file exceeds the %d byte upload limit", cc.maxUploadBytes), "upload_too_large")
			return
		case errors.Is(err, errUploadMissing):
			respondBadRequest(c, err.Error())
			return
		case err != nil:
			respondBadRequest(c, "failed to read upload")
			return
		}

		if !utf8.ValidString(content) {
			respondError(c, http.StatusBadRequest, "file must be UTF-8 encoded CSV", "invalid_encoding")
			return
		}
		content = strings.TrimPrefix(content, utf8BOM)

		archived := cc.archive(kind, content)

		if c.Query("async") == "true" {
			cc.enqueue(c, kind, fileName, content)
			return
		}

		result, err := cc.catalog.Import(c.Request.Context(), kind, content)
		cc.logImport(c, kind, fileName, result, err)
		if err != nil {
			respondUnavailable(c, err, "import "+string(kind))
			return
		}
		if result.FailedCount > 0 {
			cc.archiveReport(kind, archived, result)
		}

		c.JSON(http.StatusOK, result)
	}
}

func (cc *CatalogController) enqueue(c *gin.Context, kind entities.ImportKind, fileName, content string) {
	if cc.sessions == nil || cc.enqueuer == nil {
		respondError(c, http.StatusServiceUnavailable, "async imports are not enabled", "async_disabled")
		return
	}

	ctx := c.Request.Context()
	session, err := cc.sessions.Create(ctx, kind, fileName, content)
	if err != nil {
		respondInternalError(c, err, "create import session")
		return
	}

	taskID, err := cc.enqueuer.EnqueueImport(ctx, session.ID)
	if err != nil {
		if markErr := cc.sessions.MarkFailed(ctx, session.ID, "failed to enqueue: "+err.Error()); markErr != nil {
			zap.L().Error("Failed to mark import session failed", zap.String("session_id", session.ID), zap.Error(markErr))
		}
		respondInternalError(c, err, "enqueue import")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"job_id":  session.ID,
		"task_id": taskID,
		"status":  session.Status,
	})
}

// Export returns the handler for GET /api/{kind}/export.
func (cc *CatalogController) Export(kind entities.ImportKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		csv, err := cc.catalog.Export(c.Request.Context(), kind)
		if cc.auditor != nil {
			cc.auditor.LogExport(string(kind), fmt.Sprintf("Exported %s as CSV", kind), clientIP(c), err)
		}
		if err != nil {
			respondUnavailable(c, err, "export "+string(kind))
			return
		}
		sendCSV(c, string(kind)+".csv", csv)
	}
}

// Template returns the handler for GET /api/{kind}/template.
func (cc *CatalogController) Template(kind entities.ImportKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		sendCSV(c, string(kind)+"_template.csv", services.Template(kind))
	}
}

func (cc *CatalogController) readUpload(c *gin.Context) (content, fileName string, err error) {
	var r io.Reader
	if c.ContentType() == "multipart/form-data" {
		fh, err := c.FormFile("file")
		if err != nil {
			return "", "", errUploadMissing
		}
		if fh.Size > cc.maxUploadBytes {
			return "", "", errUploadTooLarge
		}
		f, err := fh.Open()
		if err != nil {
			return "", "", err
		}
		defer f.Close()
		r, fileName = f, fh.Filename
	} else {
		r, fileName = c.Request.Body, c.Query("file_name")
	}
	if fileName != "" {
		fileName = utils.SanitizeFilename(fileName)
	}

	data, err := io.ReadAll(io.LimitReader(r, cc.maxUploadBytes+1))
	if err != nil {
		return "", "", err
	}
	if int64(len(data)) > cc.maxUploadBytes {
		return "", "", errUploadTooLarge
	}
	return string(data), fileName, nil
}

// archive returns the archived file name, or "" when nothing was stored.
func (cc *CatalogController) archive(kind entities.ImportKind, content string) string {
	if cc.archiver == nil {
		return ""
	}
	name, err := cc.archiver.SaveUpload(string(kind), content)
	if err != nil {
		zap.L().Warn("Failed to archive upload", zap.String("kind", string(kind)), zap.Error(err))
		return ""
	}
	return name
}

// archiveReport stores the row errors of a partially failed import next to its upload.
func (cc *CatalogController) archiveReport(kind entities.ImportKind, upload string, result importers.ImportResult) {
	if cc.archiver == nil {
		return
	}
	report := gin.H{"kind": kind, "upload": upload, "result": result}
	if _, err := cc.archiver.SaveJSON(report); err != nil {
		zap.L().Warn("Failed to archive import report", zap.String("kind", string(kind)), zap.Error(err))
	}
}

func (cc *CatalogController) logImport(c *gin.Context, kind entities.ImportKind, fileName string, result importers.ImportResult, err error) {
	if cc.auditor == nil {
		return
	}
	cc.auditor.LogImport(audit.ImportEvent{
		Kind:      string(kind),
		Source:    "http",
		FileName:  fileName,
		IPAddress: clientIP(c),
		Result:    result,
		Err:       err,
	})
}

func sendCSV(c *gin.Context, fileName, body string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Data(http.StatusOK, csvContentType, []byte(body))
}
