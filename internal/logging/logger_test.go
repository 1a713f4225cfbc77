package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
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

func TestProductionHandlerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, "info", "production"))
	logger.Info("profile saved", "user_id", "u1")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json output, got %q", buf.String())
	}
	if entry["msg"] != "profile saved" || entry["user_id"] != "u1" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestMultiHandlerFansOutByLevel(t *testing.T) {
	var debugBuf, errorBuf bytes.Buffer
	logger := slog.New(NewMultiHandler(
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&errorBuf, &slog.HandlerOptions{Level: slog.LevelError}),
	))

	logger.Info("hello")
	logger.Error("boom")

	if !strings.Contains(debugBuf.String(), "hello") || !strings.Contains(debugBuf.String(), "boom") {
		t.Fatalf("expected both records in debug sink, got %q", debugBuf.String())
	}
	if strings.Contains(errorBuf.String(), "hello") || !strings.Contains(errorBuf.String(), "boom") {
		t.Fatalf("expected only the error in error sink, got %q", errorBuf.String())
	}
}

func TestSentryHandlerOnlyWantsErrors(t *testing.T) {
	h := NewSentryHandler(nil)
	if h.Enabled(context.Background(), slog.LevelWarn) {
		t.Fatal("expected warnings to be skipped")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("expected errors to be forwarded")
	}
}
