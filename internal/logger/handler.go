package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

type textHandler struct {
	handler slog.Handler
	w       io.Writer
	attrs   []slog.Attr
}

func (h *textHandler) Handle(ctx context.Context, r slog.Record) error {
	timeStr := r.Time.Format(time.RFC3339)

	// Render pre-set and per-record attributes as key=value pairs
	attrs := make([]string, 0, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs = append(attrs, fmt.Sprintf("%s=%v", a.Key, a.Value))
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, fmt.Sprintf("%s=%v", a.Key, a.Value))
		return true
	})

	line := fmt.Sprintf("%s %s %s",
		timeStr,
		strings.ToUpper(r.Level.String()),
		r.Message,
	)
	if len(attrs) > 0 {
		line += " " + strings.Join(attrs, " ")
	}

	_, err := h.w.Write([]byte(line + "\n"))
	return err
}

func (h *textHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *textHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &textHandler{
		handler: h.handler,
		w:       h.w,
		attrs:   append(h.attrs, attrs...),
	}
}

func (h *textHandler) WithGroup(name string) slog.Handler {
	return &textHandler{
		handler: h.handler,
		w:       h.w,
		attrs:   h.attrs,
	}
}

func newTextHandler(opts *slog.HandlerOptions) slog.Handler {
	return &textHandler{
		handler: slog.NewTextHandler(os.Stderr, opts),
		w:       os.Stderr,
	}
}
