package tasks

import "time"

// Config holds configuration for the task queue. Attempts and timeouts are
// set per queue by each task's Config method.
type Config struct {
	// Workers is the number of concurrent task workers shared by every queue.
	Workers int

	// ReleaseAfter is when a task claimed by a crashed worker goes back to the queue.
	ReleaseAfter time.Duration

	// CleanupInterval is how often backlite purges finished tasks.
	CleanupInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:         2,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: time.Hour,
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.ReleaseAfter <= 0 {
		c.ReleaseAfter = d.ReleaseAfter
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = d.CleanupInterval
	}
	return c
}
