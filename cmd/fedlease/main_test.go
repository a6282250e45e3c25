package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fedlease/internal/config"
	"fedlease/internal/infrastructure"
	"fedlease/internal/shared/testutil"
)

// testEnv points the command at reg and keeps its log in a temp file
type testEnv struct {
	dir     string
	outDir  string
	innFile string
	logFile string
}

func newTestEnv(t *testing.T, registryURL string, inns string) *testEnv {
	t.Helper()
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	dir := t.TempDir()
	env := &testEnv{
		dir:     dir,
		outDir:  filepath.Join(dir, "out"),
		innFile: filepath.Join(dir, "inns.txt"),
		logFile: filepath.Join(dir, "fedlease.log"),
	}
	if inns != "" {
		require.NoError(t, os.WriteFile(env.innFile, []byte(inns), 0644))
	}

	t.Setenv("FEDLEASE_REGISTRY_BASE_URL", registryURL)
	t.Setenv("FEDLEASE_REGISTRY_TIMEOUT", "2s")
	t.Setenv("FEDLEASE_RATE_INTERVAL", "0s")
	t.Setenv("FEDLEASE_LOGGING_OUTPUT", "file")
	t.Setenv("FEDLEASE_LOGGING_FILE_PATH", env.logFile)
	t.Setenv("FEDLEASE_PATHS_LOGS_DIR", filepath.Join(dir, "logs"))
	return env
}

func (e *testEnv) args(extra ...string) []string {
	return append([]string{"-inn-file", e.innFile, "-out", e.outDir}, extra...)
}

func (e *testEnv) log(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile(e.logFile)
	require.NoError(t, err)
	return string(b)
}

func (e *testEnv) outputs(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(e.outDir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func leaseRegistry(t *testing.T) *testutil.FakeRegistry {
	reg := testutil.NewFakeRegistry(t)
	reg.AddCompany("1234567890", "c-1")
	reg.AddPublications("c-1", "2022-01-10", testutil.LeaseNotice("m-1"))
	reg.AddMessage("m-1", testutil.CompanyLesseeMessage)
	return reg
}

func TestRun_WritesSpreadsheet(t *testing.T) {
	reg := leaseRegistry(t)
	env := newTestEnv(t, reg.URL(), "1234567890\n\n0000000000\n")

	var stdout bytes.Buffer
	code := run(context.Background(), env.args("-from", "2022-01-10", "-to", "2022-01-10"), strings.NewReader(""), &stdout)
	require.Equal(t, exitOK, code, env.log(t))

	names := env.outputs(t)
	require.Len(t, names, 1)
	assert.True(t, strings.HasSuffix(names[0], ".xlsx"))

	f, err := excelize.OpenFile(filepath.Join(env.outDir, names[0]))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(config.OutputSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Дата", rows[0][0])
	assert.Equal(t, "2022-01-10", rows[1][0])
	assert.Len(t, rows[1], 12)

	logs := env.log(t)
	assert.Contains(t, logs, "Не найдено компаний с таким ИНН: 0000000000")
	assert.Contains(t, logs, config.MsgDone)
	assert.Contains(t, logs, `"trace_id"`)
}

func TestRun_DebugLogsResolvedPaths(t *testing.T) {
	reg := leaseRegistry(t)
	env := newTestEnv(t, reg.URL(), "1234567890\n")
	t.Setenv("FEDLEASE_LOGGING_LEVEL", "debug")

	var stdout bytes.Buffer
	code := run(context.Background(), env.args("-from", "2022-01-10", "-to", "2022-01-10"), strings.NewReader(""), &stdout)
	require.Equal(t, exitOK, code, env.log(t))

	logs := env.log(t)
	assert.Contains(t, logs, "Path resolution")
	assert.Contains(t, logs, `"input_exists":true`)
	assert.Contains(t, logs, env.outDir)
}

func TestRun_PromptedWindowAndCSV(t *testing.T) {
	reg := leaseRegistry(t)
	env := newTestEnv(t, reg.URL(), "1234567890\n")

	stdin := strings.NewReader("2022,1,12\n2022,1,10\n2022, 1, 10\n2022,1,10\n")
	var stdout bytes.Buffer
	code := run(context.Background(), env.args("-format", "csv"), stdin, &stdout)
	require.Equal(t, exitOK, code, env.log(t))

	assert.Equal(t, 2, strings.Count(stdout.String(), config.MsgPromptStartDate))
	assert.Contains(t, env.log(t), config.MsgBadDateInput)

	names := env.outputs(t)
	require.Len(t, names, 1)
	content, err := os.ReadFile(filepath.Join(env.outDir, names[0]))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("\ufeff")))
	assert.Contains(t, string(content), "Л-42 от 2022-01-05")
}

func TestRun_MissingInputFile(t *testing.T) {
	reg := leaseRegistry(t)
	env := newTestEnv(t, reg.URL(), "")

	code := run(context.Background(), env.args("-from", "2022-01-10", "-to", "2022-01-10"), strings.NewReader(""), &bytes.Buffer{})
	assert.Equal(t, exitError, code)
	assert.Contains(t, env.log(t), config.MsgInputFileMissing)
	assert.Empty(t, reg.Requests("/"))
}

func TestRun_FatalWritesNothing(t *testing.T) {
	t.Run("unreachable", func(t *testing.T) {
		reg := testutil.NewFakeRegistry(t)
		url := reg.URL()
		reg.Close()
		env := newTestEnv(t, url, "1234567890\n")

		code := run(context.Background(), env.args("-from", "2022-01-10", "-to", "2022-01-10"), strings.NewReader(""), &bytes.Buffer{})
		assert.Equal(t, exitError, code)
		assert.Contains(t, env.log(t), config.MsgConnectionFailed)
		assert.Empty(t, env.outputs(t))
	})

	t.Run("server error", func(t *testing.T) {
		reg := leaseRegistry(t)
		reg.FailWith(http.StatusBadGateway)
		env := newTestEnv(t, reg.URL(), "1234567890\n")

		code := run(context.Background(), env.args("-from", "2022-01-10", "-to", "2022-01-10"), strings.NewReader(""), &bytes.Buffer{})
		assert.Equal(t, exitError, code)
		assert.Contains(t, env.log(t), config.MsgConnectionFailed)
		assert.Empty(t, env.outputs(t))
	})

	t.Run("interrupted", func(t *testing.T) {
		reg := leaseRegistry(t)
		env := newTestEnv(t, reg.URL(), "1234567890\n")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		code := run(ctx, env.args("-from", "2022-01-10", "-to", "2022-01-10"), strings.NewReader(""), &bytes.Buffer{})
		assert.Equal(t, exitError, code)
		assert.Contains(t, env.log(t), "Collection interrupted")
		assert.Empty(t, env.outputs(t))
	})
}

func TestRun_NoDatesOnStdin(t *testing.T) {
	reg := leaseRegistry(t)
	env := newTestEnv(t, reg.URL(), "1234567890\n")

	code := run(context.Background(), env.args(), strings.NewReader("2022,13,1\n"), &bytes.Buffer{})
	assert.Equal(t, exitError, code)
	assert.Empty(t, env.outputs(t))
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unknown flag", []string{"-bogus"}, exitUsage},
		{"from without to", []string{"-from", "2022-01-10"}, exitUsage},
		{"bad format", []string{"-format", "pdf"}, exitUsage},
		{"help", []string{"-h"}, exitOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			assert.Equal(t, tt.want, run(context.Background(), tt.args, strings.NewReader(""), &stdout))
		})
	}
}

func TestRun_Version(t *testing.T) {
	var stdout bytes.Buffer
	assert.Equal(t, exitOK, run(context.Background(), []string{"-version"}, strings.NewReader(""), &stdout))
	assert.Contains(t, stdout.String(), "fedlease v")
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("paths:\n  input_file: from-file.txt\n"), 0644))

	cfg, err := loadConfig(&options{
		configFile:  cfgFile,
		outDir:      "results",
		metricsAddr: "127.0.0.1:9464",
	})
	require.NoError(t, err)

	assert.Equal(t, "from-file.txt", cfg.Paths.InputFile)
	assert.Equal(t, "results", cfg.Paths.OutputDir)
	assert.Equal(t, "127.0.0.1:9464", cfg.Telemetry.MetricsAddr)
	assert.Equal(t, "prometheus", cfg.Telemetry.MetricExporter)

	_, err = loadConfig(&options{metricsAddr: "nowhere"})
	assert.Error(t, err)
}
