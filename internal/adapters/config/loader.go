// Package config provides the configuration loader for courier.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/courier/internal/core/domain"
	"go.trai.ch/courier/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the configuration file looked up when none is given.
const DefaultFilename = "courier.yaml"

// SupportedVersion is the only configuration schema version understood.
const SupportedVersion = "1"

var _ ports.ConfigLoader = (*FileConfigLoader)(nil)

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct {
	log ports.Logger
}

// NewLoader creates a new FileConfigLoader.
func NewLoader(log ports.Logger) *FileConfigLoader {
	return &FileConfigLoader{log: log}
}

// Load reads the configuration at path. A missing file yields the defaults.
func (l *FileConfigLoader) Load(path string) (*domain.Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		l.log.Info("no configuration at " + path + ", using defaults")
		return domain.DefaultConfig(), nil
	}
	return cfg, err
}

// Load reads a configuration file from the given path and returns a domain.Config.
// Relative store paths are resolved against the directory of the file.
func Load(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	}

	var file Courierfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", path)
	}

	return file.toDomain(filepath.Dir(path))
}

func (f *Courierfile) toDomain(baseDir string) (*domain.Config, error) {
	if f.Version != "" && f.Version != SupportedVersion {
		return nil, zerr.With(zerr.New("unsupported config version"), "version", f.Version)
	}

	cfg := domain.DefaultConfig()

	if f.Store != nil {
		if f.Store.Backend != "" {
			backend := domain.StoreBackend(f.Store.Backend)
			if backend != domain.StoreBackendJSON && backend != domain.StoreBackendSQLite {
				return nil, zerr.With(zerr.Wrap(domain.ErrUnknownStoreBackend, "invalid store backend"), "backend", f.Store.Backend)
			}
			cfg.Store.Backend = backend
		}
		if f.Store.Path != "" {
			cfg.Store.Path = f.Store.Path
			if !filepath.IsAbs(cfg.Store.Path) {
				cfg.Store.Path = filepath.Join(baseDir, cfg.Store.Path)
			}
		}
	}

	if f.Queue != nil {
		if f.Queue.Parallelism != nil {
			if *f.Queue.Parallelism < 1 {
				return nil, zerr.With(zerr.New("queue parallelism must be at least 1"), "parallelism", *f.Queue.Parallelism)
			}
			cfg.Queue.Parallelism = *f.Queue.Parallelism
		}
		if f.Queue.DedupWindow != "" {
			window, err := time.ParseDuration(f.Queue.DedupWindow)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "invalid queue dedupWindow"), "dedup_window", f.Queue.DedupWindow)
			}
			if window < 0 {
				return nil, zerr.With(zerr.New("queue dedupWindow must not be negative"), "dedup_window", f.Queue.DedupWindow)
			}
			cfg.Queue.DedupWindow = window
		}
	}

	return cfg, nil
}
