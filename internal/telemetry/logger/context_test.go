package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestWithLogger_FromContext(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := WithLogger(context.Background(), l)

	retrieved := FromContext(ctx)
	if retrieved == nil {
		t.Fatal("FromContext returned nil")
	}
	retrieved.Info("test message")

	if buf.Len() == 0 {
		t.Error("Logger from context should produce output")
	}
}

func TestFromContext_Default(t *testing.T) {
	if l := FromContext(context.Background()); l == nil {
		t.Error("FromContext should return default logger, got nil")
	}
}

func TestRunIDFromContext(t *testing.T) {
	ctx := WithRunID(context.Background(), "01JABCDEF")
	if got := RunIDFromContext(ctx); got != "01JABCDEF" {
		t.Errorf("RunIDFromContext() = %q, want %q", got, "01JABCDEF")
	}
	if got := RunIDFromContext(context.Background()); got != "" {
		t.Errorf("RunIDFromContext(empty) = %q, want empty", got)
	}
}

func TestL_AttachesRunID(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := WithLogger(context.Background(), l)
	ctx = WithRunID(ctx, "01JRUN")
	L(ctx).Info("phase done")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}
	if entry["run_id"] != "01JRUN" {
		t.Errorf("run_id = %v, want %q", entry["run_id"], "01JRUN")
	}
}

func TestL_NoRunID(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	L(WithLogger(context.Background(), l)).Info("no run")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}
	if _, ok := entry["run_id"]; ok {
		t.Error("run_id should be absent without WithRunID")
	}
}
