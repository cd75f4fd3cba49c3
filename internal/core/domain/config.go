package domain

import "time"

// StoreBackend names a LocalIDStore implementation.
type StoreBackend string

const (
	// StoreBackendJSON keeps local id mappings in a JSON file.
	StoreBackendJSON StoreBackend = "json"
	// StoreBackendSQLite keeps local id mappings in a SQLite database.
	StoreBackendSQLite StoreBackend = "sqlite"
)

// Default configuration values.
const (
	DefaultStorePath        = ".courier/localids.json"
	DefaultQueueParallelism = 4
	DefaultDedupWindow      = 10 * time.Minute
)

// Config is the resolved application configuration.
type Config struct {
	Store StoreConfig
	Queue QueueConfig
}

// StoreConfig selects and locates the local id store.
type StoreConfig struct {
	Backend StoreBackend
	Path    string
}

// QueueConfig tunes batch resolution.
type QueueConfig struct {
	// Parallelism bounds how many commands are resolved at once.
	Parallelism int
	// DedupWindow is how long a cache key suppresses identical commands.
	DedupWindow time.Duration
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: StoreBackendJSON,
			Path:    DefaultStorePath,
		},
		Queue: QueueConfig{
			Parallelism: DefaultQueueParallelism,
			DedupWindow: DefaultDedupWindow,
		},
	}
}
