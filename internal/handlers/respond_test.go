package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestInternalErrorLogsOnceAndHidesCause(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	app := newTestApp("u1", "Trainee")
	app.Get("/boom", func(c *fiber.Ctx) error {
		return internalError(c, "load dashboard", errors.New("connection reset"))
	})

	resp := doJSON(t, app, http.MethodGet, "/boom", nil)
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["error"] != "Internal server error" {
		t.Fatalf("unexpected body %v", body)
	}

	if n := strings.Count(buf.String(), "level=ERROR"); n != 1 {
		t.Fatalf("expected one error record, got %d: %q", n, buf.String())
	}
	if !strings.Contains(buf.String(), "connection reset") {
		t.Fatalf("expected the cause in the log, got %q", buf.String())
	}
}
