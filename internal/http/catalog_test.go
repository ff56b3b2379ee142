package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brewhouse/cafe-admin/internal/audit"
	"github.com/brewhouse/cafe-admin/internal/database"
	"github.com/brewhouse/cafe-admin/internal/database/imports"
	"github.com/brewhouse/cafe-admin/internal/importers"
	"github.com/brewhouse/cafe-admin/internal/services"
)

type fakeAuditor struct {
	mu      sync.Mutex
	imports []audit.ImportEvent
	exports []string
}

func (f *fakeAuditor) LogImport(e audit.ImportEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imports = append(f.imports, e)
}

func (f *fakeAuditor) LogExport(kind, _, _ string, _ error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exports = append(f.exports, kind)
}

type fakeEnqueuer struct {
	sessionIDs []string
	err        error
}

func (f *fakeEnqueuer) EnqueueImport(_ context.Context, sessionID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sessionIDs = append(f.sessionIDs, sessionID)
	return "task-1", nil
}

type fakeArchiver struct {
	kinds   []string
	reports []any
}

func (f *fakeArchiver) SaveUpload(kind, _ string) (string, error) {
	f.kinds = append(f.kinds, kind)
	return kind + ".csv", nil
}

func (f *fakeArchiver) SaveJSON(data any) (string, error) {
	f.reports = append(f.reports, data)
	return "report.json", nil
}

type catalogTestEnv struct {
	db       *database.Database
	sessions *imports.Repository
	auditor  *fakeAuditor
	enqueuer *fakeEnqueuer
	archiver *fakeArchiver
	router   *gin.Engine
}

func setupCatalogTest(t *testing.T, maxUploadBytes int64) *catalogTestEnv {
	t.Helper()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &catalogTestEnv{
		db:       db,
		sessions: imports.NewRepository(db.DB),
		auditor:  &fakeAuditor{},
		enqueuer: &fakeEnqueuer{},
		archiver: &fakeArchiver{},
	}
	env.router = NewRouter(RouterConfig{
		Catalog:        services.NewCatalogService(database.NewCatalogStore(db.DB), importers.Options{}),
		Database:       db,
		Sessions:       env.sessions,
		Enqueuer:       env.enqueuer,
		Auditor:        env.auditor,
		Archiver:       env.archiver,
		MaxUploadBytes: maxUploadBytes,
		Version:        "test",
	})
	return env
}

func (env *catalogTestEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *catalogTestEnv) postCSV(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "text/csv")
	return env.do(req)
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) importers.ImportResult {
	t.Helper()
	var result importers.ImportResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	return result
}

func TestCatalogImport_RawBody(t *testing.T) {
	env := setupCatalogTest(t, 0)

	w := env.postCSV("/api/categories/import?file_name=cats.csv", "name,name_es\nCoffee,Café\nPastries,Pasteles")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decodeResult(t, w)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 2, result.CreatedCount)
	assert.Empty(t, result.Errors)

	require.Len(t, env.auditor.imports, 1)
	assert.Equal(t, "categories", env.auditor.imports[0].Kind)
	assert.Equal(t, "http", env.auditor.imports[0].Source)
	assert.Equal(t, "cats.csv", env.auditor.imports[0].FileName)
	assert.Equal(t, []string{"categories"}, env.archiver.kinds)
	assert.Empty(t, env.archiver.reports)
}

func TestCatalogImport_MultipartMenuItems(t *testing.T) {
	env := setupCatalogTest(t, 0)
	require.Equal(t, http.StatusOK, env.postCSV("/api/categories/import", "name\nCoffee").Code)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "menu.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("name,category_name,price\nLatte,Coffee,3.5\nGhost,Nope,1"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/menu-items/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := env.do(req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decodeResult(t, w)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.Equal(t, []string{`Row 3: Category not found: "Nope"`}, result.Errors)
	assert.Equal(t, "menu.csv", env.auditor.imports[1].FileName)
	assert.Len(t, env.archiver.reports, 1)
}

func TestCatalogImport_MultipartWithoutFile(t *testing.T) {
	env := setupCatalogTest(t, 0)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("other", "x"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/categories/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := env.do(req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "file is required")
}

func TestCatalogImport_StripsByteOrderMark(t *testing.T) {
	env := setupCatalogTest(t, 0)

	w := env.postCSV("/api/categories/import", "\ufeffname\nCoffee")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decodeResult(t, w).SuccessCount)
}

func TestCatalogImport_RejectsNonUTF8(t *testing.T) {
	env := setupCatalogTest(t, 0)

	w := env.postCSV("/api/categories/import", "name\nCaf\xe9")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_encoding")
	assert.Empty(t, env.auditor.imports)
}

func TestCatalogImport_TooLarge(t *testing.T) {
	env := setupCatalogTest(t, 10)

	w := env.postCSV("/api/categories/import", "name\nCoffee\nPastries")

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "upload_too_large")
}

func TestCatalogImport_StoreUnavailable(t *testing.T) {
	env := setupCatalogTest(t, 0)
	require.NoError(t, env.db.Close())

	w := env.postCSV("/api/categories/import", "name\nCoffee")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "store_unavailable")
	require.Len(t, env.auditor.imports, 1)
	assert.Error(t, env.auditor.imports[0].Err)
}

func TestCatalogImport_Async(t *testing.T) {
	env := setupCatalogTest(t, 0)

	w := env.postCSV("/api/menu-items/import?async=true&file_name=menu.csv", "name,category_name\nLatte,Coffee")

	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["job_id"])
	assert.Equal(t, "task-1", resp["task_id"])
	assert.Equal(t, "pending", resp["status"])
	assert.Equal(t, []string{resp["job_id"]}, env.enqueuer.sessionIDs)

	session, err := env.sessions.Get(context.Background(), resp["job_id"])
	require.NoError(t, err)
	assert.Equal(t, "menu.csv", session.FileName)
	assert.Equal(t, "name,category_name\nLatte,Coffee", session.Content)
}

func TestCatalogImport_AsyncEnqueueFailure(t *testing.T) {
	env := setupCatalogTest(t, 0)
	env.enqueuer.err = errors.New("queue closed")

	w := env.postCSV("/api/categories/import?async=true", "name\nCoffee")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	sessions, err := env.sessions.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "failed", string(sessions[0].Status))
}

func TestCatalogImport_AsyncDisabled(t *testing.T) {
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	router := NewRouter(RouterConfig{
		Catalog: services.NewCatalogService(database.NewCatalogStore(db.DB), importers.Options{}),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/categories/import?async=true", strings.NewReader("name\nCoffee"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "async_disabled")
}

func TestCatalogExport(t *testing.T) {
	env := setupCatalogTest(t, 0)
	require.Equal(t, http.StatusOK, env.postCSV("/api/categories/import", "name,display_order\nCoffee,1").Code)

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/categories/export", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, csvContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="categories.csv"`, w.Header().Get("Content-Disposition"))
	lines := strings.Split(w.Body.String(), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,name,name_es,description,description_es,display_order,is_active", lines[0])
	assert.Contains(t, lines[1], ",Coffee,,,,1,true")
	assert.Equal(t, []string{"categories"}, env.auditor.exports)
}

func TestCatalogTemplate(t *testing.T) {
	env := setupCatalogTest(t, 0)

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/menu-items/template", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="menu_items_template.csv"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(),
		"name,name_es,category_name,description,description_es,price,image_url,is_available,is_featured,display_order\n"))
}

func TestCatalogList(t *testing.T) {
	env := setupCatalogTest(t, 0)
	require.Equal(t, http.StatusOK, env.postCSV("/api/categories/import", "name\nCoffee").Code)
	require.Equal(t, http.StatusOK, env.postCSV("/api/menu-items/import", "name,category_name\nLatte,coffee").Code)

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/menu-items", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Count     int `json:"count"`
		MenuItems []struct {
			Name string `json:"name"`
		} `json:"menu_items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "Latte", resp.MenuItems[0].Name)
}

func TestImportStatus(t *testing.T) {
	env := setupCatalogTest(t, 0)
	ctx := context.Background()

	session, err := env.sessions.Create(ctx, "categories", "cats.csv", "name\n")
	require.NoError(t, err)
	require.NoError(t, env.sessions.MarkCompleted(ctx, session.ID, imports.Summary{
		SuccessCount: 1,
		FailedCount:  1,
		CreatedCount: 1,
		Errors:       []string{"Row 3: Missing required field: name"},
	}))

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/imports/"+session.ID, nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		ID           string   `json:"id"`
		Status       string   `json:"status"`
		SuccessCount int      `json:"success_count"`
		Errors       []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, session.ID, resp.ID)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, 1, resp.SuccessCount)
	assert.Equal(t, []string{"Row 3: Missing required field: name"}, resp.Errors)

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/imports/does-not-exist", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
