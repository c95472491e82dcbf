package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msbuildlog/msbuildlog-go/internal/config"
	"github.com/msbuildlog/msbuildlog-go/pkg/msbuildlog"
)

const buildLog = `Build started 1/15/2024 12:00:00.
1>main.c(3,1): warning C4101: 'tmp': unreferenced local variable [app.vcxproj]
1>main.c(9,7): error C2065: 'x': undeclared identifier [app.vcxproj]
Build FAILED.
`

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func decodeRecords(t *testing.T, data []byte) []record {
	t.Helper()
	var out []record
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var r record
		require.NoError(t, json.Unmarshal([]byte(line), &r))
		out = append(out, r)
	}
	return out
}

func jsonlConfig() *config.Config {
	return &config.Config{Version: 1, Format: config.FormatJSONL}
}

func TestRunParse_File(t *testing.T) {
	dir := t.TempDir()
	logPath := writeFile(t, filepath.Join(dir, "build.log"), buildLog)

	var out, errOut bytes.Buffer
	require.NoError(t, runParse(t.Context(), jsonlConfig(), []string{logPath}, &out, &errOut))

	records := decodeRecords(t, out.Bytes())
	require.Len(t, records, 2)
	assert.Equal(t, "C4101", records[0].RuleID)
	assert.Equal(t, "warning", records[0].Severity)
	assert.Equal(t, "C2065", records[1].RuleID)
	assert.Equal(t, filepath.Join(dir, "main.c"), records[1].File)
	assert.Equal(t, records[0].FileID, records[1].FileID)
	assert.Equal(t, logPath, records[1].Log)
}

func TestRunParse_Filtered(t *testing.T) {
	logPath := writeFile(t, filepath.Join(t.TempDir(), "build.log"), buildLog)

	cfg := jsonlConfig()
	cfg.Severities = []string{"error"}

	var out, errOut bytes.Buffer
	require.NoError(t, runParse(t.Context(), cfg, []string{logPath}, &out, &errOut))

	records := decodeRecords(t, out.Bytes())
	require.Len(t, records, 1)
	assert.Equal(t, "C2065", records[0].RuleID)
}

func TestRunParse_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.log"), buildLog)
	writeFile(t, filepath.Join(dir, "x64", "Release", "b.log"), buildLog)
	writeFile(t, filepath.Join(dir, "notes.txt"), buildLog)

	cfg := jsonlConfig()
	cfg.Pattern = "**/*.log"

	var out, errOut bytes.Buffer
	require.NoError(t, runParse(t.Context(), cfg, []string{dir}, &out, &errOut))

	records := decodeRecords(t, out.Bytes())
	require.Len(t, records, 4)
	assert.Equal(t, filepath.Join(dir, "a.log"), records[0].Log)
	assert.Equal(t, filepath.Join(dir, "x64", "Release", "b.log"), records[3].Log)
	assert.Equal(t, filepath.Join(dir, "x64", "Release", "main.c"), records[3].File)
}

func TestRunParse_Summary(t *testing.T) {
	logPath := writeFile(t, filepath.Join(t.TempDir(), "build.log"), buildLog)

	showSummary = true
	t.Cleanup(func() { showSummary = false })

	var out, errOut bytes.Buffer
	require.NoError(t, runParse(t.Context(), jsonlConfig(), []string{logPath}, &out, &errOut))
	assert.Equal(t, "1 error, 1 warning in 1 log file\n", errOut.String())
}

func TestRunParse_Errors(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, filepath.Join(dir, "good.log"), buildLog)

	t.Run("missing path", func(t *testing.T) {
		var out, errOut bytes.Buffer
		err := runParse(t.Context(), jsonlConfig(), []string{filepath.Join(dir, "missing.log")}, &out, &errOut)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unreadable file is skipped", func(t *testing.T) {
		cfg := jsonlConfig()
		cfg.MaxLineBytes = 16

		var out, errOut bytes.Buffer
		err := runParse(t.Context(), cfg, []string{good}, &out, &errOut)
		require.Error(t, err)
		assert.True(t, msbuildlog.IsParseError(err))
		assert.Empty(t, out.String())
	})

	t.Run("no log files", func(t *testing.T) {
		empty := t.TempDir()
		var out, errOut bytes.Buffer
		err := runParse(t.Context(), jsonlConfig(), []string{empty}, &out, &errOut)
		assert.ErrorIs(t, err, msbuildlog.ErrNoLogFiles)
	})
}

func TestParseCommand(t *testing.T) {
	dir := t.TempDir()
	logPath := writeFile(t, filepath.Join(dir, "build.log"), buildLog)
	cfgPath := writeFile(t, filepath.Join(dir, "msbuildlog.yaml"), "version: 1\nexclude_rules: [C4101]\n")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"--config", cfgPath, "parse", logPath})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		configPath = ""
		fileConfig = nil
	})

	require.NoError(t, rootCmd.ExecuteContext(t.Context()))

	records := decodeRecords(t, out.Bytes())
	require.Len(t, records, 1)
	assert.Equal(t, "C2065", records[0].RuleID)
}
