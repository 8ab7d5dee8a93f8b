package log

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestComponentField(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(New(&buf, "debug", true))
	defer SetLogger(zerolog.Nop())

	Ledger.Info().Str("token_id", "abc").Msg("token created")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["component"] != "ledger" {
		t.Errorf("component = %v, want ledger", entry["component"])
	}
	if entry["token_id"] != "abc" {
		t.Errorf("token_id = %v, want abc", entry["token_id"])
	}
}

func TestInit_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nfp.log")
	closer, err := Init("info", true, path)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer SetLogger(zerolog.Nop())
	if err := closer.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
