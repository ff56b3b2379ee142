package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brewhouse/cafe-admin/internal/database/imports"
	"github.com/brewhouse/cafe-admin/internal/entities"
)

// ImportsController reports the state of asynchronous imports.
type ImportsController struct {
	sessions ImportSessionStore
}

func NewImportsController(sessions ImportSessionStore) *ImportsController {
	return &ImportsController{sessions: sessions}
}

// ImportStatusResponse is an import session with its decoded row errors.
type ImportStatusResponse struct {
	*entities.ImportSession
	Errors []string `json:"errors"`
}

// GetStatus handles GET /api/imports/:id
func (ic *ImportsController) GetStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respondBadRequest(c, "import id is required")
		return
	}

	session, err := ic.sessions.Get(c.Request.Context(), id)
	if errors.Is(err, imports.ErrNotFound) {
		respondNotFound(c, "import")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get import session")
		return
	}

	c.JSON(http.StatusOK, ImportStatusResponse{
		ImportSession: session,
		Errors:        session.ErrorList(),
	})
}
