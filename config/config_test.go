package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Contest.TitleMarker != "Election" {
		t.Errorf("TitleMarker = %q, want %q", cfg.Contest.TitleMarker, "Election")
	}
	if cfg.Discovery.DetailWaitTimeout != 10*time.Second {
		t.Errorf("DetailWaitTimeout = %v, want 10s", cfg.Discovery.DetailWaitTimeout)
	}
	if cfg.Discovery.DetailMarker != "#precinctDetailLabel" {
		t.Errorf("DetailMarker = %q", cfg.Discovery.DetailMarker)
	}
	want := []string{"CLAYTON", "FULTON", "GWINNETT", "DEKALB", "COBB"}
	if diff := cmp.Diff(want, cfg.Contest.Counties); diff != "" {
		t.Errorf("Counties mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BALLOTMAP_COUNTIES", "fulton, cobb ,")
	t.Setenv("BALLOTMAP_FETCH_CONCURRENCY", "9")
	t.Setenv("BALLOTMAP_DETAIL_WAIT", "250ms")
	t.Setenv("BALLOTMAP_STEALTH", "true")
	t.Setenv("BALLOTMAP_FETCH_RPS", "not-a-number")

	cfg := Load()

	if diff := cmp.Diff([]string{"FULTON", "COBB"}, cfg.Contest.Counties); diff != "" {
		t.Errorf("Counties mismatch (-want +got):\n%s", diff)
	}
	if cfg.Fetch.Concurrency != 9 {
		t.Errorf("Concurrency = %d, want 9", cfg.Fetch.Concurrency)
	}
	if cfg.Discovery.DetailWaitTimeout != 250*time.Millisecond {
		t.Errorf("DetailWaitTimeout = %v, want 250ms", cfg.Discovery.DetailWaitTimeout)
	}
	if !cfg.Browser.Stealth {
		t.Error("Stealth should be enabled")
	}
	if cfg.Fetch.RequestsPerSecond != 4 {
		t.Errorf("invalid float should fall back to default, got %v", cfg.Fetch.RequestsPerSecond)
	}
}

func TestLogConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "county", "CLAYTON")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %s", out)
	}
	if !strings.Contains(out, `"county":"CLAYTON"`) {
		t.Errorf("expected JSON record, got %s", out)
	}
}

func TestLogConfig_SlogLevel(t *testing.T) {
	for name, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"DEBUG": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	} {
		if got := (LogConfig{Level: name}).SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	dotenv := "BALLOTMAP_TITLE_MARKER=Primary\nBALLOTMAP_DEM_CANDIDATE=FROM FILE\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0o644); err != nil {
		t.Fatal(err)
	}

	// Registered with t.Setenv so cleanup removes what godotenv sets.
	t.Setenv("BALLOTMAP_TITLE_MARKER", "")
	os.Unsetenv("BALLOTMAP_TITLE_MARKER")
	t.Setenv("BALLOTMAP_DEM_CANDIDATE", "FROM ENV")
	t.Chdir(dir)

	cfg := Load()
	if cfg.Contest.TitleMarker != "Primary" {
		t.Errorf("TitleMarker = %q, want value from .env", cfg.Contest.TitleMarker)
	}
	if cfg.Contest.DemCandidate != "FROM ENV" {
		t.Errorf("DemCandidate = %q, process environment should win", cfg.Contest.DemCandidate)
	}
}
