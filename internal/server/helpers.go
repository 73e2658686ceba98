package server

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"cafehub/internal/middleware"
	"cafehub/internal/models"
	"cafehub/internal/service"
	"cafehub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const layout = "layouts/main"

// render fills in the values every page needs and renders name inside the
// main layout. The page is executed on its own first so a template failure
// becomes an error response instead of text inside a 200 page.
func (s *Server) render(c *fiber.Ctx, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	flashes, err := s.sessions.PopFlashes(c)
	if err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "could not read flashes", "error", err)
	}
	data["Flashes"] = flashes
	data["CurrentUser"] = middleware.CurrentUser(c.UserContext())
	token, _ := c.Locals("csrf").(string)
	data["CSRFToken"] = token
	if errs, ok := data["Errors"].(validation.FieldErrors); !ok || errs == nil {
		data["Errors"] = validation.FieldErrors{}
	}

	var page bytes.Buffer
	if err := s.engine.Render(&page, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	data["Content"] = template.HTML(page.String())
	return c.Render(layout, data)
}

// parseID reads a positive numeric route parameter. Anything else is a 404,
// as if the route did not match.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		return 0, fiber.ErrNotFound
	}
	return uint(id), nil
}

// mapServiceError maps an error to its HTTP status and the AppError to report.
func mapServiceError(err error) (int, *models.AppError) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, models.NewUnauthorizedError("Invalid credentials.")
	case errors.Is(err, service.ErrUsernameTaken):
		return fiber.StatusConflict, models.NewConflictError("Username already taken", nil)
	case errors.Is(err, service.ErrEmailTaken):
		return fiber.StatusConflict, models.NewConflictError("Email already registered", nil)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code < fiber.StatusInternalServerError {
			return fe.Code, &models.AppError{Code: models.CodeForStatus(fe.Code), Message: fe.Message}
		}
		return fe.Code, models.NewInternalError(err)
	}

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Status(), appErr
	}

	return fiber.StatusInternalServerError, models.NewInternalError(err)
}

// errorHandler answers API routes with JSON and page routes with HTML.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	status, appErr := mapServiceError(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			"path", c.Path(), "status", status, "error", err)
	}

	if strings.HasPrefix(c.Path(), "/api/") {
		return models.RespondWithError(c, status, appErr)
	}

	c.Status(status)
	if status == fiber.StatusNotFound {
		return s.render(c, "errors/404", fiber.Map{"Title": "Not Found"})
	}
	message := appErr.Message
	if status >= fiber.StatusInternalServerError {
		message = "Something went wrong. Please try again later."
	}
	return s.render(c, "errors/error", fiber.Map{
		"Title":   "Error",
		"Status":  status,
		"Message": message,
	})
}
