package server

import (
	"errors"
	"fmt"

	"cafehub/internal/middleware"
	"cafehub/internal/service"
	"cafehub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	signupFlash = "You are signed up and logged in."
	logoutFlash = "You have successfully logged out."
)

// SignupForm shows the registration form.
func (s *Server) SignupForm(c *fiber.Ctx) error {
	return s.render(c, "auth/signup", fiber.Map{"Title": "Sign Up", "Form": validation.SignupForm{}})
}

// Signup registers a user and logs them in.
func (s *Server) Signup(c *fiber.Ctx) error {
	var form validation.SignupForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.ErrBadRequest
	}
	errs := form.Validate()
	if errs == nil {
		user, err := s.authService.Register(c.UserContext(), service.RegisterInput{
			Username:    form.Username,
			FirstName:   form.FirstName,
			LastName:    form.LastName,
			Description: form.Description,
			Email:       form.Email,
			Password:    form.Password,
			ImageURL:    form.ImageURL,
		})
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			errs = validation.FieldErrors{}
			errs.Add("username", "Username already taken")
		case errors.Is(err, service.ErrEmailTaken):
			errs = validation.FieldErrors{}
			errs.Add("email", "Email already registered")
		case err != nil:
			return err
		default:
			middleware.AuthAttempts.WithLabelValues("signup").Inc()
			if err := s.sessions.Login(c, user.ID, signupFlash); err != nil {
				return err
			}
			return c.Redirect("/cafes")
		}
	}

	form.Password = ""
	return s.render(c, "auth/signup", fiber.Map{"Title": "Sign Up", "Form": form, "Errors": errs})
}

// LoginForm shows the login form.
func (s *Server) LoginForm(c *fiber.Ctx) error {
	return s.render(c, "auth/login", fiber.Map{"Title": "Log In", "Form": validation.LoginForm{}})
}

// Login authenticates the user. Both failure cases show the same message.
func (s *Server) Login(c *fiber.Ctx) error {
	var form validation.LoginForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.ErrBadRequest
	}
	errs := form.Validate()
	if errs == nil {
		user, err := s.authService.Authenticate(c.UserContext(), form.Username, form.Password)
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			middleware.AuthAttempts.WithLabelValues("failure").Inc()
			errs = validation.FieldErrors{}
			errs.Add("_form", "Invalid credentials.")
		case err != nil:
			return err
		default:
			middleware.AuthAttempts.WithLabelValues("success").Inc()
			if err := s.sessions.Login(c, user.ID, fmt.Sprintf("Hello, %s!", user.Username)); err != nil {
				return err
			}
			return c.Redirect("/cafes")
		}
	}

	form.Password = ""
	return s.render(c, "auth/login", fiber.Map{"Title": "Log In", "Form": form, "Errors": errs})
}

// Logout forgets the user and returns to the homepage.
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.sessions.Logout(c, logoutFlash); err != nil {
		return err
	}
	return c.Redirect("/")
}
