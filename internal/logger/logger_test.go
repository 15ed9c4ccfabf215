package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestSetupJSONWritesToConfiguredOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := Setup(Config{Level: "info", Format: "json", Output: &buf}); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	Info().Str("user", "admin").Msg("hash generated")
	Debug().Msg("suppressed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["message"] != "hash generated" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["user"] != "admin" {
		t.Errorf("user = %v", entry["user"])
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v", entry["level"])
	}
}

func TestSetupTextFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Setup(Config{Level: "debug", Format: "text", Output: &buf}); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	Warn().Msg("verification failed")

	out := buf.String()
	if !strings.Contains(out, "verification failed") {
		t.Errorf("console output missing message: %q", out)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("text format produced JSON: %q", out)
	}
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	if err := Setup(Config{Level: "loud", Format: "json"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
