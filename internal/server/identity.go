package server

import (
	"cafehub/internal/middleware"
	"cafehub/internal/models"

	"github.com/gofiber/fiber/v2"
)

const notLoggedInMsg = "You are not logged in."

// identityHandler receives the logged-in user explicitly.
type identityHandler func(c *fiber.Ctx, me *models.User) error

// Identity resolves the session's user into the request context. A session
// pointing at a user that no longer exists is treated as anonymous.
func (s *Server) Identity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var user *models.User

		userID, ok, err := s.sessions.UserID(c)
		if err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "session lookup failed", "error", err)
		} else if ok {
			user, err = s.userService.GetUserByID(c.UserContext(), userID)
			if err != nil {
				if !models.IsNotFound(err) {
					return err
				}
				user = nil
			}
		}

		c.SetUserContext(middleware.WithCurrentUser(c.UserContext(), user))
		return c.Next()
	}
}

// loginRequired redirects anonymous visitors to the login page.
func (s *Server) loginRequired(h identityHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		me := middleware.CurrentUser(c.UserContext())
		if me == nil {
			if err := s.sessions.AddFlash(c, notLoggedInMsg); err != nil {
				return err
			}
			return c.Redirect("/login")
		}
		return h(c, me)
	}
}

// apiLoginRequired rejects anonymous API calls with 401.
func (s *Server) apiLoginRequired(h identityHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		me := middleware.CurrentUser(c.UserContext())
		if me == nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(notLoggedInMsg))
		}
		return h(c, me)
	}
}
