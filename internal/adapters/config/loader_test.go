package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/courier/internal/adapters/config"
	"go.trai.ch/courier/internal/core/domain"
	"go.trai.ch/courier/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "courier.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return configPath
}

func TestLoad_Success(t *testing.T) {
	configPath := writeConfig(t, `
version: "1"
store:
  backend: sqlite
  path: state/ids.db
queue:
  parallelism: 8
  dedupWindow: 90s
`)

	cfg, err := config.Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, domain.StoreBackendSQLite, cfg.Store.Backend)
	assert.Equal(t, filepath.Join(filepath.Dir(configPath), "state", "ids.db"), cfg.Store.Path)
	assert.Equal(t, 8, cfg.Queue.Parallelism)
	assert.Equal(t, 90*time.Second, cfg.Queue.DedupWindow)
}

func TestLoad_PartialUsesDefaults(t *testing.T) {
	configPath := writeConfig(t, `
queue:
  parallelism: 2
`)

	cfg, err := config.Load(configPath)
	require.NoError(t, err)

	want := domain.DefaultConfig()
	want.Queue.Parallelism = 2
	assert.Equal(t, want, cfg)
}

func TestLoad_AbsoluteStorePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "ids.json")
	configPath := writeConfig(t, "store:\n  path: "+abs+"\n")

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.Store.Path)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		metaKey string
	}{
		{"version", "version: \"2\"\n", "version"},
		{"parallelism", "queue:\n  parallelism: 0\n", "parallelism"},
		{"dedup window", "queue:\n  dedupWindow: soon\n", "dedup_window"},
		{"negative dedup window", "queue:\n  dedupWindow: -1m\n", "dedup_window"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			require.Error(t, err)

			var zErr *zerr.Error
			require.True(t, errors.As(err, &zErr))
			assert.Contains(t, zErr.Metadata(), tt.metaKey)
		})
	}
}

func TestLoad_UnknownBackend(t *testing.T) {
	_, err := config.Load(writeConfig(t, "store:\n  backend: redis\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownStoreBackend))
}

func TestLoad_Errors(t *testing.T) {
	t.Run("File Not Found", func(t *testing.T) {
		_, err := config.Load("non-existent-file.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("Invalid YAML", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, `
store:
  backend: [json  # Unclosed list
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestFileConfigLoader_MissingFileUsesDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).Times(1)

	cfg, err := config.NewLoader(log).Load(filepath.Join(t.TempDir(), "courier.yaml"))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestFileConfigLoader_Reads(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	cfg, err := config.NewLoader(log).Load(writeConfig(t, "store:\n  backend: json\n"))
	require.NoError(t, err)
	assert.Equal(t, domain.StoreBackendJSON, cfg.Store.Backend)
}
