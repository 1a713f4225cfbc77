package logging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/getsentry/sentry-go"
)

// SentryHandler forwards error records to Sentry as events. It is a no-op until
// sentry.Init has been called.
type SentryHandler struct {
	hub   *sentry.Hub
	attrs []slog.Attr
	group string
}

func NewSentryHandler(hub *sentry.Hub) *SentryHandler {
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	return &SentryHandler{hub: hub}
}

func (h *SentryHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *SentryHandler) Handle(_ context.Context, record slog.Record) error {
	extra := make(map[string]any, len(h.attrs)+record.NumAttrs())
	for _, a := range h.attrs {
		extra[h.key(a.Key)] = a.Value.String()
	}

	var cause error
	record.Attrs(func(a slog.Attr) bool {
		if err, ok := a.Value.Any().(error); ok && cause == nil {
			cause = err
		}
		extra[h.key(a.Key)] = a.Value.String()
		return true
	})

	h.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelError)
		scope.SetContext("log", extra)
		if cause != nil {
			h.hub.CaptureException(fmt.Errorf("%s: %w", record.Message, cause))
			return
		}
		h.hub.CaptureMessage(record.Message)
	})
	return nil
}

func (h *SentryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &next
}

func (h *SentryHandler) WithGroup(name string) slog.Handler {
	next := *h
	next.group = h.key(name)
	return &next
}

func (h *SentryHandler) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}
