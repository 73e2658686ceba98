package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"cafehub/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Logger
	Logger = NewLogger(&buf, false)
	t.Cleanup(func() { Logger = prev })
	return &buf
}

func TestNewLogger_AddsRequestAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, true)

	ctx := withMeta(context.Background(), func(m *requestMeta) { m.requestID = "req-1" })
	ctx = WithCurrentUser(ctx, &models.User{ID: 42})
	logger.InfoContext(ctx, "hello")

	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-1"`)
	assert.Contains(t, out, `"user_id":42`)
	assert.NotContains(t, out, "trace_id")
}

func TestCurrentUser_Anonymous(t *testing.T) {
	t.Parallel()

	assert.Nil(t, CurrentUser(context.Background()))
	anon := WithCurrentUser(context.Background(), nil)
	assert.Nil(t, CurrentUser(anon))
	assert.Zero(t, metaFrom(anon).userID)

	user := &models.User{ID: 3, Username: "ada"}
	assert.Same(t, user, CurrentUser(WithCurrentUser(context.Background(), user)))
}

func TestRequestContext_BindsRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(requestid.New(), RequestContext())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(RequestID(c.UserContext()))
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(fiber.HeaderXRequestID, "abc-123")
	resp, err := app.Test(req)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", string(body))
}

func TestAccessLog_LevelFollowsStatus(t *testing.T) {
	buf := captureLogs(t)

	app := fiber.New()
	app.Use(AccessLog())
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/missing", func(c *fiber.Ctx) error { return fiber.ErrNotFound })
	app.Get("/boom", func(c *fiber.Ctx) error { return assert.AnError })

	for _, path := range []string{"/ok", "/missing", "/boom"} {
		_, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
	}

	out := buf.String()
	assert.Contains(t, out, "level=INFO msg=request method=GET path=/ok status=200")
	assert.Contains(t, out, "level=WARN msg=request method=GET path=/missing status=404")
	assert.Contains(t, out, "level=ERROR msg=request method=GET path=/boom status=500")
}

func TestSetLevel(t *testing.T) {
	defer SetLevel("info")

	SetLevel("debug")
	assert.Equal(t, slog.LevelDebug, level.Level())
	SetLevel("WARNING")
	assert.Equal(t, slog.LevelWarn, level.Level())
	SetLevel("nonsense")
	assert.Equal(t, slog.LevelInfo, level.Level())
}
