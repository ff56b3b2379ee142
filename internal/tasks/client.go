package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"
)

// Client runs the background queues: async CSV imports and retention cleanup.
// Tasks live in their own SQLite file so a busy queue never locks the catalog.
type Client struct {
	backlite *backlite.Client
	db       *sql.DB
	workers  int
	started  atomic.Bool
}

// TasksDBPath returns the queue database path for a catalog database:
// "cafe.db" becomes "cafe-tasks.db" in the same directory.
func TasksDBPath(catalogDBPath string) string {
	ext := filepath.Ext(catalogDBPath)
	return strings.TrimSuffix(catalogDBPath, ext) + "-tasks" + ext
}

// NewClient opens the queue database next to catalogDBPath, installs the
// backlite schema and registers queues.
func NewClient(catalogDBPath string, cfg Config, queues ...backlite.Queue) (*Client, error) {
	cfg = cfg.withDefaults()

	db, err := openQueueDB(TasksDBPath(catalogDBPath), cfg.Workers)
	if err != nil {
		return nil, err
	}

	bl, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          &zapLogger{log: zap.L().Sugar().Named("tasks")},
	})
	if err == nil {
		err = bl.Install()
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set up task queue: %w", err)
	}

	c := &Client{backlite: bl, db: db, workers: cfg.Workers}
	c.Register(queues...)
	return c, nil
}

func openQueueDB(path string, workers int) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks database: %w", err)
	}
	// Workers each hold a connection while claiming tasks; enqueues need spares.
	db.SetMaxOpenConns(workers + 4)
	db.SetMaxIdleConns(workers + 1)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// Register adds queues. Queues must be registered before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.backlite.Register(q)
	}
}

// Start begins processing in the background. Later calls are no-ops.
func (c *Client) Start(ctx context.Context) {
	if !c.started.CompareAndSwap(false, true) {
		return
	}
	zap.L().Info("Task queue started", zap.Int("workers", c.workers))
	c.backlite.Start(ctx)
}

// Stop waits for running tasks until ctx is done. It reports whether every
// worker finished in time.
func (c *Client) Stop(ctx context.Context) bool {
	if !c.started.Load() {
		return true
	}
	if !c.backlite.Stop(ctx) {
		zap.L().Warn("Task queue stopped before running tasks finished")
		return false
	}
	zap.L().Info("Task queue stopped")
	return true
}

// Close releases the queue database. Call it after Stop.
func (c *Client) Close() error {
	return c.db.Close()
}

// Status reports the state of a task.
func (c *Client) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return c.backlite.Status(ctx, taskID)
}

// EnqueueImport schedules the import stored in the given session and returns
// the task id.
func (c *Client) EnqueueImport(ctx context.Context, sessionID string) (string, error) {
	ids, err := c.enqueue(ctx, ImportCSVTask{SessionID: sessionID})
	if err != nil {
		return "", fmt.Errorf("enqueue import %s: %w", sessionID, err)
	}
	return ids[0], nil
}

// EnqueueCleanup schedules audit event and import session cleanup.
func (c *Client) EnqueueCleanup(ctx context.Context, auditRetentionDays, importRetentionDays int) error {
	_, err := c.enqueue(ctx,
		CleanupAuditEventsTask{RetentionDays: auditRetentionDays},
		CleanupImportSessionsTask{RetentionDays: importRetentionDays},
	)
	if err != nil {
		return fmt.Errorf("enqueue cleanup: %w", err)
	}
	return nil
}

func (c *Client) enqueue(ctx context.Context, batch ...backlite.Task) ([]string, error) {
	ids, err := c.backlite.Add(batch...).Ctx(ctx).Save()
	if err != nil {
		return nil, err
	}
	if len(ids) != len(batch) {
		return nil, errors.New("queue returned no task id")
	}
	return ids, nil
}

// zapLogger adapts backlite's key/value logging to zap.
type zapLogger struct {
	log *zap.SugaredLogger
}

func (l *zapLogger) Info(message string, params ...any) {
	l.log.Infow(message, params...)
}

func (l *zapLogger) Error(message string, params ...any) {
	l.log.Errorw(message, params...)
}
