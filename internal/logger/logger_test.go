package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestJSONLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "warn", true)

	Info("hidden")
	WithPlayer("p-1").Warn("shown", "cash", 10)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 1 {
		t.Fatalf("got %d lines: %s", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal(lines[0], &rec); err != nil {
		t.Fatalf("not json: %v", err)
	}
	if rec["msg"] != "shown" || rec["player_id"] != "p-1" {
		t.Fatalf("record = %v", rec)
	}
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "info", false)

	if WithContext(context.Background()) != Get() {
		t.Fatalf("empty context should fall back to default logger")
	}
	l := With("k", "v")
	if WithContext(NewContext(context.Background(), l)) != l {
		t.Fatalf("logger not taken from context")
	}
}
