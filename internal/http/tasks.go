package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
)

// TaskQueue is the subset of the task client used by TasksController.
type TaskQueue interface {
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
	EnqueueCleanup(ctx context.Context, auditRetentionDays, importRetentionDays int) error
}

// TasksController handles task queue management endpoints.
type TasksController struct {
	queue               TaskQueue
	auditRetentionDays  int
	importRetentionDays int
}

// NewTasksController creates a new TasksController.
func NewTasksController(queue TaskQueue, auditRetentionDays, importRetentionDays int) *TasksController {
	return &TasksController{
		queue:               queue,
		auditRetentionDays:  auditRetentionDays,
		importRetentionDays: importRetentionDays,
	}
}

// TaskTypeInfo describes an available task type.
type TaskTypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Queue       string `json:"queue"`
}

// ListTaskTypes handles GET /api/tasks/types
func (tc *TasksController) ListTaskTypes(c *gin.Context) {
	types := []TaskTypeInfo{
		{
			Type:        "import_csv",
			Description: "Run an uploaded catalog CSV import",
			Queue:       "import_csv",
		},
		{
			Type:        "cleanup_audit_events",
			Description: "Delete audit events past the retention period",
			Queue:       "cleanup_audit_events",
		},
		{
			Type:        "cleanup_import_sessions",
			Description: "Delete finished import sessions past the retention period",
			Queue:       "cleanup_import_sessions",
		},
	}

	c.JSON(http.StatusOK, gin.H{
		"task_types": types,
	})
}

// GetTaskStatus handles GET /api/tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		respondBadRequest(c, "task ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.queue.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": taskStatusToString(status),
	})
}

// RunCleanup handles POST /api/tasks/cleanup
func (tc *TasksController) RunCleanup(c *gin.Context) {
	if err := tc.queue.EnqueueCleanup(c.Request.Context(), tc.auditRetentionDays, tc.importRetentionDays); err != nil {
		respondInternalError(c, err, "enqueue cleanup")
		return
	}

	c.JSON(http.StatusAccepted, SuccessResponse{Message: "cleanup tasks enqueued"})
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
