package config

// Default paths
const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./cafe-admin.db"

	// DefaultSnapshotDir is where scheduled CSV snapshots are written
	DefaultSnapshotDir = "./exports"

	// DefaultMaxUploadBytes caps CSV uploads at 10 MiB
	DefaultMaxUploadBytes = 10 << 20
)
