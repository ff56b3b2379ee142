package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brewhouse/cafe-admin/internal/entities"
)

type fakeAuditReader struct {
	gotType   entities.AuditEventType
	gotLimit  int
	gotOffset int
	events    []entities.AuditEvent
	total     int64
	err       error
}

func (f *fakeAuditReader) GetEvents(_ context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	f.gotType, f.gotLimit, f.gotOffset = eventType, limit, offset
	return f.events, f.total, f.err
}

func TestAuditController_GetAuditEvents(t *testing.T) {
	reader := &fakeAuditReader{
		events: []entities.AuditEvent{{ID: 1, EventType: entities.AuditEventImport, Action: "categories_import"}},
		total:  21,
	}
	router := gin.New()
	router.GET("/api/audit", NewAuditController(reader).GetAuditEvents)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/audit?type=import&page=2&limit=10", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entities.AuditEventImport, reader.gotType)
	assert.Equal(t, 10, reader.gotLimit)
	assert.Equal(t, 10, reader.gotOffset)

	var resp struct {
		Events      []entities.AuditEvent `json:"events"`
		Page        int                   `json:"page"`
		TotalPages  int                   `json:"total_pages"`
		TotalEvents int64                 `json:"total_events"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Events, 1)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, int64(21), resp.TotalEvents)
}

func TestAuditController_Error(t *testing.T) {
	router := gin.New()
	router.GET("/api/audit", NewAuditController(&fakeAuditReader{err: errors.New("boom")}).GetAuditEvents)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/audit", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

type fakeTaskQueue struct {
	status                backlite.TaskStatus
	auditDays, importDays int
	err                   error
}

func (f *fakeTaskQueue) Status(context.Context, string) (backlite.TaskStatus, error) {
	return f.status, f.err
}

func (f *fakeTaskQueue) EnqueueCleanup(_ context.Context, auditDays, importDays int) error {
	f.auditDays, f.importDays = auditDays, importDays
	return f.err
}

func TestTasksController(t *testing.T) {
	queue := &fakeTaskQueue{status: backlite.TaskStatusSuccess}
	router := NewRouter(RouterConfig{TaskQueue: queue, AuditRetentionDays: 30, ImportRetentionDays: 7})

	t.Run("status", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks/abc", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"abc","status":"success"}`, w.Body.String())
	})

	t.Run("types", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks/types", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "import_csv")
	})

	t.Run("cleanup", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/tasks/cleanup", nil))

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Equal(t, 30, queue.auditDays)
		assert.Equal(t, 7, queue.importDays)
	})
}

func TestTaskStatusToString(t *testing.T) {
	assert.Equal(t, "pending", taskStatusToString(backlite.TaskStatusPending))
	assert.Equal(t, "running", taskStatusToString(backlite.TaskStatusRunning))
	assert.Equal(t, "failure", taskStatusToString(backlite.TaskStatusFailure))
	assert.Equal(t, "not_found", taskStatusToString(backlite.TaskStatusNotFound))
}
