package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cafehub/internal/database"
	"cafehub/internal/models"
	"cafehub/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactional(t *testing.T) {
	db := testutil.NewTestDB(t)
	s := &Server{db: db}

	app := fiber.New()
	app.Use(recover.New())
	app.Use(s.Transactional())

	insert := func(c *fiber.Ctx, code string) error {
		return database.Conn(c.UserContext(), db).Create(&models.City{Code: code, Name: code, State: "CA"}).Error
	}
	app.Get("/ok", func(c *fiber.Ctx) error {
		if err := insert(c, "ok"); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/bad-status", func(c *fiber.Ctx) error {
		if err := insert(c, "bad"); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusBadRequest)
	})
	app.Get("/error", func(c *fiber.Ctx) error {
		if err := insert(c, "err"); err != nil {
			return err
		}
		return errors.New("boom")
	})
	app.Get("/panic", func(c *fiber.Ctx) error {
		if err := insert(c, "panic"); err != nil {
			return err
		}
		panic("boom")
	})

	for path, want := range map[string]int{
		"/ok":         fiber.StatusNoContent,
		"/bad-status": fiber.StatusBadRequest,
		"/error":      fiber.StatusInternalServerError,
		"/panic":      fiber.StatusInternalServerError,
	} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, path)
	}

	var codes []string
	require.NoError(t, db.Model(&models.City{}).Pluck("code", &codes).Error)
	assert.Equal(t, []string{"ok"}, codes)
}

func TestMapServiceError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", models.NewNotFoundError("Cafe", 1), fiber.StatusNotFound, models.CodeNotFound},
		{"validation", models.NewValidationError("bad"), fiber.StatusBadRequest, models.CodeValidation},
		{"conflict", models.NewConflictError("dup", nil), fiber.StatusConflict, models.CodeConflict},
		{"internal", models.NewInternalError(errors.New("x")), fiber.StatusInternalServerError, models.CodeInternal},
		{"fiber 404", fiber.ErrNotFound, fiber.StatusNotFound, models.CodeNotFound},
		{"fiber 403", fiber.ErrForbidden, fiber.StatusForbidden, models.CodeUnauthorized},
		{"plain", errors.New("boom"), fiber.StatusInternalServerError, models.CodeInternal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			status, appErr := mapServiceError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}
}
