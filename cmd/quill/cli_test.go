package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/HendryAvila/quill/internal/config"
	"github.com/HendryAvila/quill/internal/fluency"
	"github.com/HendryAvila/quill/internal/history"
)

const draft = "## 开篇\n\n这是一个非常非常长的句子它一直在继续而且没有任何标点符号来打断阅读的节奏让读者感到疲惫。\n\n短句。\n"

// setupCLI resets the globals a command reads and returns a command
// whose output lands in the returned buffer.
func setupCLI(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	logger = zap.NewNop()
	cfg = config.DefaultConfig()
	cfg.History.DataDir = t.TempDir()

	analyzeFormat, analyzeLevel, analyzeAudience = "markdown", "standard", fluency.DefaultAudience
	analyzeFocus, analyzeKey, analyzeWatch = nil, "", false
	historyLimit = 10
	configPath, configForce = "", false

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(&out)
	return cmd, &out
}

func writeDraft(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "draft.md")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestAnalyzeCmd_FileJSONRecordsHistory(t *testing.T) {
	cmd, out := setupCLI(t)
	analyzeFormat = "json"
	path := writeDraft(t, draft)

	require.NoError(t, runAnalyze(cmd, []string{path}))

	var report fluency.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, fluency.StatusComplete, report.Status)
	assert.Len(t, report.Dimensions, len(fluency.Dimensions))

	hs, err := history.New(history.Config{DataDir: cfg.History.DataDir})
	require.NoError(t, err)
	defer hs.Close()

	runs, err := hs.Recent(path, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, SourceCLI, runs[0].Source)
	assert.Equal(t, report.Score, runs[0].Score)
}

func TestAnalyzeCmd_StdinMarkdown(t *testing.T) {
	cmd, out := setupCLI(t)
	cfg.History.Enabled = false
	cmd.SetIn(strings.NewReader(draft))
	analyzeLevel = "basic"

	require.NoError(t, runAnalyze(cmd, nil))

	// A buffer is not a terminal, so the Markdown is printed raw.
	assert.True(t, strings.HasPrefix(out.String(), "# Fluency Report"))
	assert.Contains(t, out.String(), "**Level**: basic")
}

func TestAnalyzeCmd_Errors(t *testing.T) {
	cmd, _ := setupCLI(t)
	analyzeWatch = true
	assert.ErrorContains(t, runAnalyze(cmd, nil), "--watch needs a file path")

	cmd, _ = setupCLI(t)
	analyzeFormat = "html"
	assert.ErrorContains(t, runAnalyze(cmd, []string{writeDraft(t, draft)}), "unknown format")

	cmd, _ = setupCLI(t)
	analyzeLevel = "extreme"
	assert.ErrorIs(t, runAnalyze(cmd, []string{writeDraft(t, draft)}), fluency.ErrInvalidInput)

	cmd, _ = setupCLI(t)
	assert.Error(t, runAnalyze(cmd, []string{filepath.Join(t.TempDir(), "missing.md")}))
}

func TestWatchFile_RerunsOnWrite(t *testing.T) {
	orig := watchDebounce
	watchDebounce = 20 * time.Millisecond
	t.Cleanup(func() { watchDebounce = orig })

	path := writeDraft(t, draft)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runs := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, zap.NewNop(), func(context.Context) error {
			runs <- struct{}{}
			return nil
		})
	}()

	waitRun := func(msg string) {
		select {
		case <-runs:
		case <-time.After(3 * time.Second):
			t.Fatal(msg)
		}
	}
	waitRun("initial run did not happen")

	require.NoError(t, os.WriteFile(path, []byte("改过了。\n"), 0o644))
	waitRun("write did not trigger a re-run")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watchFile did not stop after cancel")
	}
}

func TestHistoryCmd(t *testing.T) {
	cmd, _ := setupCLI(t)
	analyzeFormat = "json"
	path := writeDraft(t, draft)
	require.NoError(t, runAnalyze(cmd, []string{path}))
	require.NoError(t, runAnalyze(cmd, []string{path}))
	dataDir := cfg.History.DataDir

	cmd, out := setupCLI(t)
	cfg.History.DataDir = dataDir
	require.NoError(t, runHistory(cmd, nil))
	assert.Contains(t, out.String(), path)

	out.Reset()
	require.NoError(t, runHistory(cmd, []string{path}))
	assert.Contains(t, out.String(), "over 2 runs")

	cmd, out = setupCLI(t)
	require.NoError(t, runHistory(cmd, nil))
	assert.Contains(t, out.String(), "No fluency runs recorded yet.")
}

func TestPrintRuns(t *testing.T) {
	hs, err := history.New(history.Config{DataDir: t.TempDir()})
	require.NoError(t, err)
	defer hs.Close()

	report, err := fluency.Analyze(draft, fluency.DefaultOptions())
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err := hs.Record(history.RecordParams{DocumentKey: "essay", Source: SourceCLI, Text: draft, Report: report})
		require.NoError(t, err)
	}

	var out bytes.Buffer
	require.NoError(t, printRuns(&out, hs, "essay", 10, time.Now().Add(time.Hour)))
	assert.Contains(t, out.String(), "over 2 runs")
	assert.Equal(t, 2, strings.Count(out.String(), "cli\n"))
	assert.Contains(t, out.String(), "ago")

	out.Reset()
	require.NoError(t, printDocuments(&out, hs, 10, time.Now()))
	assert.Contains(t, out.String(), "essay")

	assert.ErrorContains(t, printRuns(&out, hs, "missing", 10, time.Now()), "no runs recorded")
}

func TestHistoryCmd_Disabled(t *testing.T) {
	cmd, _ := setupCLI(t)
	cfg.History.Enabled = false
	assert.ErrorContains(t, runHistory(cmd, nil), "disabled")
}

func TestConfigInit(t *testing.T) {
	cmd, out := setupCLI(t)
	configPath = filepath.Join(t.TempDir(), "quill", "config.yaml")

	require.NoError(t, configInitCmd.RunE(cmd, nil))
	assert.Contains(t, out.String(), configPath)

	loaded, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Analyzer, loaded.Analyzer)

	assert.ErrorContains(t, configInitCmd.RunE(cmd, nil), "already exists")

	configForce = true
	assert.NoError(t, configInitCmd.RunE(cmd, nil))
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("warn", false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.InfoLevel))

	l, err = newLogger("warn", true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))

	_, err = newLogger("loud", false)
	assert.Error(t, err)
}
