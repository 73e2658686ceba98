// Package middleware holds the cross-cutting request plumbing: the shared
// logger, tracing, metrics, the per-request identity and rate limits.
package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/trace"
)

// Logger is shared by every package.
var Logger *slog.Logger

var level slog.LevelVar

func init() {
	SetLevel(os.Getenv("LOG_LEVEL"))
	Logger = NewLogger(os.Stdout, os.Getenv("APP_ENV") == "production")
}

// NewLogger writes text, or JSON when asJSON is set, at the shared level.
// Records logged with a request context carry that request's IDs.
func NewLogger(w io.Writer, asJSON bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: &level}
	var h slog.Handler = slog.NewTextHandler(w, opts)
	if asJSON {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(requestHandler{h})
}

// SetLevel accepts debug, info, warn or error. Anything else means info.
func SetLevel(name string) {
	l := slog.LevelInfo
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		l = slog.LevelDebug
	case "warn", "warning":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	}
	level.Set(l)
}

// requestMeta is what the logger knows about the request behind a context.
type requestMeta struct {
	requestID string
	traceID   string
	userID    uint
}

type requestMetaKey struct{}

func metaFrom(ctx context.Context) requestMeta {
	m, _ := ctx.Value(requestMetaKey{}).(requestMeta)
	return m
}

func withMeta(ctx context.Context, update func(*requestMeta)) context.Context {
	m := metaFrom(ctx)
	update(&m)
	return context.WithValue(ctx, requestMetaKey{}, m)
}

// RequestID returns the X-Request-ID bound to ctx, if any.
func RequestID(ctx context.Context) string {
	return metaFrom(ctx).requestID
}

type requestHandler struct {
	slog.Handler
}

func (h requestHandler) Handle(ctx context.Context, r slog.Record) error {
	m := metaFrom(ctx)
	if m.requestID != "" {
		r.AddAttrs(slog.String("request_id", m.requestID))
	}
	if m.traceID != "" {
		r.AddAttrs(slog.String("trace_id", m.traceID))
	}
	if m.userID != 0 {
		r.AddAttrs(slog.Uint64("user_id", uint64(m.userID)))
	}
	return h.Handler.Handle(ctx, r)
}

func (h requestHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return requestHandler{h.Handler.WithAttrs(attrs)}
}

func (h requestHandler) WithGroup(name string) slog.Handler {
	return requestHandler{h.Handler.WithGroup(name)}
}

// RequestContext binds the request ID and, when tracing is on, the trace ID
// to the user context so service-level logs can be correlated.
func RequestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid, _ := c.Locals("requestid").(string)
		ctx := c.UserContext()
		ctx = withMeta(ctx, func(m *requestMeta) {
			m.requestID = rid
			if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
				m.traceID = sc.TraceID().String()
			}
		})
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// AccessLog writes one line per request. 4xx responses log at warn and
// failures at error.
func AccessLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		attrs := []slog.Attr{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("ip", c.IP()),
		}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}

		lvl := slog.LevelInfo
		switch {
		case status >= fiber.StatusInternalServerError:
			lvl = slog.LevelError
		case status >= fiber.StatusBadRequest:
			lvl = slog.LevelWarn
		}
		Logger.LogAttrs(c.UserContext(), lvl, "request", attrs...)
		return err
	}
}
