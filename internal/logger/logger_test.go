package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestSetup_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(&buf, "info", "json")

	l.Info("signed in", slog.String("user_id", "u-1"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "signed in" {
		t.Errorf("msg = %v, want %q", entry["msg"], "signed in")
	}
	if entry["user_id"] != "u-1" {
		t.Errorf("user_id = %v, want %q", entry["user_id"], "u-1")
	}
}

func TestSetup_Text(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(&buf, "info", "text")

	l.Info("hello")

	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("text output = %q, want msg=hello", buf.String())
	}
}

func TestSetup_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(&buf, "warn", "json")

	l.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info log written at warn level: %q", buf.String())
	}

	l.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("warn log missing: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetupDefault_SetsGlobalLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	SetupDefault(&buf, "info", "json")

	slog.Info("global")
	if !strings.Contains(buf.String(), "global") {
		t.Errorf("default logger did not write to buffer: %q", buf.String())
	}
}
