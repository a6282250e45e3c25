package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadFrom tests the layered loading with various scenarios
func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		fileContent string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env vars and no file",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultBaseURL, cfg.Registry.BaseURL)
				assert.Equal(t, 30*time.Second, cfg.Registry.Timeout)
				assert.Equal(t, RateModeFixed, cfg.Rate.Mode)
				assert.Equal(t, time.Second, cfg.Rate.Interval)
				assert.Equal(t, 15, cfg.Collect.PageSize)
				assert.Equal(t, 525, cfg.Collect.OffsetCeiling)
				assert.False(t, cfg.Collect.Deduplicate)
				assert.Equal(t, DefaultInputFile, cfg.Paths.InputFile)
				assert.Equal(t, "fedlease.log", cfg.Logging.FilePath)
			},
		},
		{
			name: "environment overrides defaults",
			env: map[string]string{
				"FEDLEASE_REGISTRY_BASE_URL":   "http://127.0.0.1:8081/",
				"FEDLEASE_REGISTRY_TIMEOUT":    "5s",
				"FEDLEASE_RATE_MODE":           "TOKEN",
				"FEDLEASE_RATE_INTERVAL":       "250ms",
				"FEDLEASE_COLLECT_DEDUPLICATE": "true",
				"FEDLEASE_LOGGING_LEVEL":       "debug",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "http://127.0.0.1:8081", cfg.Registry.BaseURL)
				assert.Equal(t, 5*time.Second, cfg.Registry.Timeout)
				assert.Equal(t, RateModeToken, cfg.Rate.Mode)
				assert.Equal(t, 250*time.Millisecond, cfg.Rate.Interval)
				assert.True(t, cfg.Collect.Deduplicate)
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
		{
			name: "file overrides defaults",
			fileContent: `
registry:
  timeout: 10s
paths:
  input_file: inns.txt
  output_dir: out
collect:
  deduplicate: true
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 10*time.Second, cfg.Registry.Timeout)
				assert.Equal(t, "inns.txt", cfg.Paths.InputFile)
				assert.Equal(t, "out", cfg.Paths.OutputDir)
				assert.True(t, cfg.Collect.Deduplicate)
				// untouched sections keep defaults
				assert.Equal(t, DefaultBaseURL, cfg.Registry.BaseURL)
			},
		},
		{
			name: "environment wins over file",
			env: map[string]string{
				"FEDLEASE_REGISTRY_TIMEOUT": "3s",
			},
			fileContent: "registry:\n  timeout: 10s\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 3*time.Second, cfg.Registry.Timeout)
			},
		},
		{
			name:    "invalid rate mode",
			env:     map[string]string{"FEDLEASE_RATE_MODE": "adaptive"},
			wantErr: true,
		},
		{
			name:    "invalid base url",
			env:     map[string]string{"FEDLEASE_REGISTRY_BASE_URL": "not a url"},
			wantErr: true,
		},
		{
			name:    "ceiling below page size",
			env:     map[string]string{"FEDLEASE_COLLECT_OFFSET_CEILING": "10"},
			wantErr: true,
		},
		{
			name:    "unparseable duration",
			env:     map[string]string{"FEDLEASE_REGISTRY_TIMEOUT": "soon"},
			wantErr: true,
		},
		{
			name:        "malformed yaml",
			fileContent: "registry: [",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			var path string
			if tt.fileContent != "" {
				path = filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.fileContent), 0644))
			}

			cfg, err := LoadFrom(path)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default is valid", func(*Config) {}, false},
		{"metrics address", func(c *Config) { c.Telemetry.MetricsAddr = "127.0.0.1:9090" }, false},
		{"bad metrics address", func(c *Config) { c.Telemetry.MetricsAddr = "nope" }, true},
		{"zero timeout", func(c *Config) { c.Registry.Timeout = 0 }, true},
		{"zero burst", func(c *Config) { c.Rate.Burst = 0 }, true},
		{"empty input file", func(c *Config) { c.Paths.InputFile = "" }, true},
		{"unknown log output", func(c *Config) { c.Logging.Output = "syslog" }, true},
		{"unknown trace exporter", func(c *Config) { c.Telemetry.TraceExporter = "otlp" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResolvePaths(t *testing.T) {
	base := t.TempDir()
	abs := filepath.Join(t.TempDir(), "list.txt")

	p := ResolvePaths(base, PathsConfig{
		InputFile: abs,
		OutputDir: "out",
		LogsDir:   "logs",
	})

	assert.Equal(t, abs, p.InputFile)
	assert.Equal(t, filepath.Join(base, "out"), p.OutputDir)
	assert.Equal(t, filepath.Join(base, "logs", "run.log"), p.GetLogPath("run.log"))
	assert.Equal(t, filepath.Join(base, "out", "a.xlsx"), p.GetOutputPath("a.xlsx"))

	require.NoError(t, p.EnsureDirectories())
	assert.DirExists(t, p.OutputDir)
	assert.DirExists(t, p.LogsDir)
	assert.True(t, FileExists(p.OutputDir))
	assert.False(t, FileExists(p.InputFile))
}

func TestLogPathResolution(t *testing.T) {
	base := t.TempDir()
	p := ResolvePaths(base, PathsConfig{InputFile: "inns.txt", OutputDir: "out", LogsDir: "logs"})

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p.LogPathResolution(logger)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Path resolution", entry["msg"])
	assert.Equal(t, false, entry["input_exists"])

	paths, ok := entry["paths"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(base, "inns.txt"), paths["input_file"])
	assert.Equal(t, filepath.Join(base, "out"), paths["output_dir"])
}
