package server

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/HendryAvila/quill/internal/config"
)

func listTools(t *testing.T, cfg *config.Config) string {
	t.Helper()
	s, cleanup, err := New(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer cleanup()

	resp := s.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return string(data)
}

func TestNew_RegistersTools(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.History.DataDir = t.TempDir()

	got := listTools(t, cfg)
	for _, name := range []string{"fluency_analyze", "review_article", "writing_preflight", "fluency_history"} {
		if !strings.Contains(got, `"`+name+`"`) {
			t.Errorf("tool %s not registered", name)
		}
	}
}

func TestNew_HistoryDisabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.History.Enabled = false

	got := listTools(t, cfg)
	if strings.Contains(got, `"fluency_history"`) {
		t.Error("fluency_history should not be registered without history")
	}
	if !strings.Contains(got, `"fluency_analyze"`) {
		t.Error("fluency_analyze should always be registered")
	}
}

func TestNew_InvalidThresholds(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Analyzer.LongSentenceChars = 0

	if _, _, err := New(cfg, nil); err == nil {
		t.Fatal("expected error for invalid thresholds")
	}
}

func TestOpenHistory_Unwritable(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.History.DataDir = "/dev/null/quill"

	if hs := OpenHistory(cfg, zap.NewNop()); hs != nil {
		hs.Close()
		t.Fatal("expected nil store for an unusable data dir")
	}
}

func TestServerInstructions_DescribeThresholdPenalties(t *testing.T) {
	got := serverInstructions()
	if strings.Contains(got, "per flagged unit") {
		t.Error("instructions should not describe every penalty as per-unit")
	}
	for _, want := range []string{"0.5 per section", "quill://fluency/rubric", "clamped to 1-5"} {
		if !strings.Contains(got, want) {
			t.Errorf("instructions missing %q", want)
		}
	}
}
