package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brewhouse/cafe-admin/internal/entities"
)

type AuditController struct {
	events AuditEventReader
}

func NewAuditController(events AuditEventReader) *AuditController {
	return &AuditController{
		events: events,
	}
}

// GetAuditEvents returns paginated audit events as JSON
// GET /api/audit
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	page, limit, offset := parsePagination(c, 25, 100)
	eventType := entities.AuditEventType(c.Query("type"))

	events, total, err := ac.events.GetEvents(c.Request.Context(), eventType, limit, offset)
	if err != nil {
		respondInternalError(c, err, "load audit events")
		return
	}

	totalPages := (int(total) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	c.JSON(http.StatusOK, gin.H{
		"events":       events,
		"page":         page,
		"limit":        limit,
		"total_pages":  totalPages,
		"total_events": total,
	})
}
