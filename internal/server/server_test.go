package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"cafehub/internal/config"
	"cafehub/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:              "8375",
		Env:               "test",
		SessionTTLMinutes: 60,
		CSRFEnabled:       false,
		BcryptCost:        bcrypt.MinCost,
	}
}

func newTestServer(t *testing.T, cfg *config.Config) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	s, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)
	app, err := s.NewApp()
	require.NoError(t, err)
	return app, db
}

// browser replays cookies between requests like a real client.
type browser struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
}

func newBrowser(t *testing.T, app *fiber.App) *browser {
	return &browser{t: t, app: app, cookies: map[string]string{}}
}

func (b *browser) do(req *http.Request) (*http.Response, string) {
	b.t.Helper()
	for name, value := range b.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	resp, err := b.app.Test(req, -1)
	require.NoError(b.t, err)
	for _, ck := range resp.Cookies() {
		if ck.MaxAge < 0 || (!ck.Expires.IsZero() && ck.Expires.Before(time.Now())) {
			delete(b.cookies, ck.Name)
			continue
		}
		b.cookies[ck.Name] = ck.Value
	}
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	assert.NotContains(b.t, string(body), "html/template:", "template errors must not leak into pages")
	return resp, string(body)
}

func (b *browser) get(path string) (*http.Response, string) {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) postForm(path string, form url.Values) (*http.Response, string) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	return b.do(req)
}

func (b *browser) postJSON(path, body string) (*http.Response, string) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	return b.do(req)
}

// login signs in a user created with testutil.CreateUser.
func (b *browser) login(username string) {
	b.t.Helper()
	resp, _ := b.postForm("/login", url.Values{"username": {username}, "password": {"secret123"}})
	require.Equal(b.t, fiber.StatusFound, resp.StatusCode)
}

func assertRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, location, resp.Header.Get("Location"))
}

func TestHealthChecks(t *testing.T) {
	app, _ := newTestServer(t, testConfig())
	b := newBrowser(t, app)

	resp, _ := b.get("/health/live")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := b.get("/health/ready")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var payload struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	assert.Equal(t, "healthy", payload.Status)
	assert.Equal(t, "unavailable", payload.Checks["redis"])
}

func TestHomepageAndStatic(t *testing.T) {
	app, _ := newTestServer(t, testConfig())
	b := newBrowser(t, app)

	resp, body := b.get("/")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Browse Cafes")
	assert.Contains(t, body, `href="/signup"`)

	resp, body = b.get("/static/js/script.js")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "showCafeLikeStar")
}

func TestUnknownRouteRendersNotFoundPage(t *testing.T) {
	app, _ := newTestServer(t, testConfig())
	b := newBrowser(t, app)

	resp, body := b.get("/nowhere")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Page Not Found")

	resp, body = b.get("/api/nowhere")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, `"code":"NOT_FOUND"`)
}

func TestRenderFailureIsServerError(t *testing.T) {
	s, err := NewServerWithDeps(testConfig(), testutil.NewTestDB(t), nil)
	require.NoError(t, err)
	s.views = fstest.MapFS{
		"layouts/main.html": {Data: []byte(`<main>{{.Content}}</main>`)},
		"homepage.html":     {Data: []byte(`{{template "cafe/missing" .}}`)},
		"errors/error.html": {Data: []byte(`<p>error {{.Status}}: {{.Message}}</p>`)},
		"errors/404.html":   {Data: []byte(`<p>not found</p>`)},
	}
	app, err := s.NewApp()
	require.NoError(t, err)

	resp, body := newBrowser(t, app).get("/")
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "<main><p>error 500: Something went wrong. Please try again later.</p></main>", body)
}

func TestCSRFProtectsForms(t *testing.T) {
	cfg := testConfig()
	cfg.CSRFEnabled = true
	app, db := newTestServer(t, cfg)
	testutil.CreateCity(t, db, "sf", "San Francisco", "CA")
	b := newBrowser(t, app)

	form := url.Values{"name": {"Arbor"}, "address": {"1 Elm"}, "city_code": {"sf"}}
	resp, _ := b.postForm("/cafes/add", form)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	_, page := b.get("/cafes/add")
	const marker = `name="_csrf" value="`
	start := strings.Index(page, marker)
	require.GreaterOrEqual(t, start, 0, "form carries a csrf field")
	token := page[start+len(marker):]
	token = token[:strings.Index(token, `"`)]
	require.NotEmpty(t, token)

	form.Set("_csrf", token)
	resp, _ = b.postForm("/cafes/add", form)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
}
