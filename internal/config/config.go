package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Audit
		Tasks
		Import
		ExportSync
		Log
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Audit struct {
		Dir           string
		RetentionDays int // Days to keep audit events (default: 30)
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration // Stuck tasks return to the queue after this
		CleanupInterval time.Duration // How often finished tasks are purged

		CleanupSchedule            string // Cron format, empty disables scheduled cleanup
		ImportSessionRetentionDays int
	}
	Import struct {
		Concurrency      int  // Rows processed in parallel, 1 = sequential
		TrackBatchWrites bool // Match later rows against entities created earlier in the batch
		MaxUploadBytes   int64
	}
	ExportSync struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
		Dir      string
	}
	Log struct {
		Level    string
		Encoding string // json or console
	}
)

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are ignored; existing variables win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("audit_dir", "./audit")
	v.SetDefault("audit_retention_days", 30)

	// Import defaults
	v.SetDefault("import_concurrency", 1)
	v.SetDefault("import_track_batch_writes", false)
	v.SetDefault("import_max_upload_bytes", DefaultMaxUploadBytes)

	// Snapshot export defaults
	v.SetDefault("export_sync_enabled", false)
	v.SetDefault("export_sync_schedule", "0 3 * * *")
	v.SetDefault("export_sync_dir", DefaultSnapshotDir)

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_encoding", "json")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_cleanup_schedule", "30 4 * * *")
	v.SetDefault("import_session_retention_days", 7)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Audit: Audit{
			Dir:           v.GetString("AUDIT_DIR"),
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Tasks: Tasks{
			Enabled:                    v.GetBool("TASKS_ENABLED"),
			Workers:                    v.GetInt("TASK_WORKERS"),
			ReleaseAfter:               v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:            v.GetDuration("TASK_CLEANUP_INTERVAL"),
			CleanupSchedule:            v.GetString("TASK_CLEANUP_SCHEDULE"),
			ImportSessionRetentionDays: v.GetInt("IMPORT_SESSION_RETENTION_DAYS"),
		},
		Import: Import{
			Concurrency:      v.GetInt("IMPORT_CONCURRENCY"),
			TrackBatchWrites: v.GetBool("IMPORT_TRACK_BATCH_WRITES"),
			MaxUploadBytes:   v.GetInt64("IMPORT_MAX_UPLOAD_BYTES"),
		},
		ExportSync: ExportSync{
			Enabled:  v.GetBool("EXPORT_SYNC_ENABLED"),
			Schedule: v.GetString("EXPORT_SYNC_SCHEDULE"),
			Dir:      v.GetString("EXPORT_SYNC_DIR"),
		},
		Log: Log{
			Level:    v.GetString("LOG_LEVEL"),
			Encoding: v.GetString("LOG_ENCODING"),
		},
	}
}
