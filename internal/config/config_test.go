package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestConfigPath(t *testing.T) {
	t.Run("xdg config home", func(t *testing.T) {
		t.Cleanup(xdg.Reload)
		t.Setenv(ConfigPathEnv, "")
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		xdg.Reload()

		if got := ConfigPath(); got != "/custom/config/c4diagrammer/config.yaml" {
			t.Errorf("Expected XDG config path, got %s", got)
		}
	})

	t.Run("environment override", func(t *testing.T) {
		t.Setenv(ConfigPathEnv, "/tmp/other.yaml")
		if got := ConfigPath(); got != "/tmp/other.yaml" {
			t.Errorf("Expected override path, got %s", got)
		}
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Empty(t, cfg.AllowedDirectories)
	assert.Equal(t, 60*time.Second, cfg.Preview.DeleteAfter)
	assert.True(t, cfg.Preview.OpenBrowser)
	assert.Equal(t, int64(DefaultMaxReadBytes), cfg.Limits.MaxReadBytes)
	assert.Equal(t, "README.C4Diagrammer.md", cfg.Readme.FileName)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFrom(t *testing.T) {
	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := writeConfig(t, "allowed_directories:\n  - /srv/project\npreview:\n  delete_after: 5m\n")

		cfg, err := LoadFrom(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"/srv/project"}, cfg.AllowedDirectories)
		assert.Equal(t, 5*time.Minute, cfg.Preview.DeleteAfter)
		assert.True(t, cfg.Preview.OpenBrowser)
		assert.Equal(t, DefaultReadmeName, cfg.Readme.FileName)
	})

	t.Run("empty file", func(t *testing.T) {
		cfg, err := LoadFrom(writeConfig(t, ""))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), *cfg)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := LoadFrom(writeConfig(t, "storage_dir: /x\n"))
		assert.Error(t, err)
	})

	t.Run("invalid YAML", func(t *testing.T) {
		_, err := LoadFrom(writeConfig(t, "invalid: yaml: content: ["))
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFrom("/non/existent/file.yaml")
		assert.Error(t, err)
	})
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("C4DIAGRAMMER_ALLOWED_DIRECTORIES", "/a,/b")
	t.Setenv("C4DIAGRAMMER_PREVIEW_DELETE_AFTER", "30s")
	t.Setenv("C4DIAGRAMMER_PREVIEW_OPEN_BROWSER", "false")
	t.Setenv("C4DIAGRAMMER_LIMITS_MAX_READ_BYTES", "2048")

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, []string{"/a", "/b"}, cfg.AllowedDirectories)
	assert.Equal(t, 30*time.Second, cfg.Preview.DeleteAfter)
	assert.False(t, cfg.Preview.OpenBrowser)
	assert.Equal(t, int64(2048), cfg.Limits.MaxReadBytes)
	// untouched
	assert.Equal(t, DefaultReadmeName, cfg.Readme.FileName)
}

func TestApplyEnv_Invalid(t *testing.T) {
	t.Setenv("C4DIAGRAMMER_LIMITS_MAX_READ_BYTES", "lots")

	cfg := DefaultConfig()
	assert.Error(t, cfg.ApplyEnv())
}

func TestLoad(t *testing.T) {
	t.Run("no file uses defaults", func(t *testing.T) {
		t.Setenv(ConfigPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, DefaultDeleteAfter, cfg.Preview.DeleteAfter)
	})

	t.Run("environment beats file", func(t *testing.T) {
		path := writeConfig(t, "readme:\n  file_name: DOCS.md\nlimits:\n  max_read_bytes: 100\n")
		t.Setenv(ConfigPathEnv, path)
		t.Setenv("C4DIAGRAMMER_LIMITS_MAX_READ_BYTES", "200")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "DOCS.md", cfg.Readme.FileName)
		assert.Equal(t, int64(200), cfg.Limits.MaxReadBytes)
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		t.Setenv(ConfigPathEnv, writeConfig(t, "limits:\n  max_read_bytes: 0\n"))

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestOverrideAllowedDirectories(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AllowedDirectories = []string{"/from/file"}

	cfg.OverrideAllowedDirectories(nil)
	assert.Equal(t, []string{"/from/file"}, cfg.AllowedDirectories)

	cfg.OverrideAllowedDirectories([]string{"/from/cli"})
	assert.Equal(t, []string{"/from/cli"}, cfg.AllowedDirectories)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
		errorText   string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name:        "zero delete_after",
			mutate:      func(c *Config) { c.Preview.DeleteAfter = 0 },
			expectError: true,
			errorText:   "preview.delete_after",
		},
		{
			name:        "negative max_read_bytes",
			mutate:      func(c *Config) { c.Limits.MaxReadBytes = -1 },
			expectError: true,
			errorText:   "limits.max_read_bytes",
		},
		{
			name:        "empty readme name",
			mutate:      func(c *Config) { c.Readme.FileName = "  " },
			expectError: true,
			errorText:   "cannot be empty",
		},
		{
			name:        "readme name with directory",
			mutate:      func(c *Config) { c.Readme.FileName = "docs/README.md" },
			expectError: true,
			errorText:   "bare file name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorText)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveTo(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.AllowedDirectories = []string{"/srv/a"}
	cfg.Preview.DeleteAfter = 2 * time.Minute
	require.NoError(t, cfg.SaveTo(configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	if info.Mode()&0077 != 0 {
		t.Errorf("Config file should not be readable by group/others, got mode %o", info.Mode())
	}

	loaded, err := LoadFrom(configPath)
	require.NoError(t, err)
	assert.Equal(t, cfg, *loaded)
}
