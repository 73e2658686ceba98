package server

import (
	"errors"

	"cafehub/internal/models"
	"cafehub/internal/service"
	"cafehub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Profile shows the logged-in user and the cafes they like.
func (s *Server) Profile(c *fiber.Ctx, me *models.User) error {
	liked, err := s.userService.LikedCafes(c.UserContext(), me.ID)
	if err != nil {
		return err
	}
	return s.render(c, "profile/detail", fiber.Map{
		"Title":      "Profile",
		"User":       me,
		"LikedCafes": liked,
	})
}

// ProfileEditForm shows the profile form filled with the stored values.
func (s *Server) ProfileEditForm(c *fiber.Ctx, me *models.User) error {
	form := validation.ProfileForm{
		FirstName:   me.FirstName,
		LastName:    me.LastName,
		Description: me.Description,
		Email:       me.Email,
		ImageURL:    me.ImageURL,
	}
	if form.ImageURL == models.DefaultUserImage {
		form.ImageURL = ""
	}
	return s.render(c, "profile/edit-form", fiber.Map{"Title": "Edit Profile", "Form": form})
}

// ProfileEdit overwrites the profile and returns to it.
func (s *Server) ProfileEdit(c *fiber.Ctx, me *models.User) error {
	var form validation.ProfileForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.ErrBadRequest
	}
	errs := form.Validate()
	if errs == nil {
		_, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
			UserID:      me.ID,
			FirstName:   form.FirstName,
			LastName:    form.LastName,
			Description: form.Description,
			Email:       form.Email,
			ImageURL:    form.ImageURL,
		})
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			errs = validation.FieldErrors{}
			errs.Add("email", "Email already registered")
		case err != nil:
			return err
		default:
			if err := s.sessions.AddFlash(c, "Profile edited."); err != nil {
				return err
			}
			return c.Redirect("/profile")
		}
	}
	return s.render(c, "profile/edit-form", fiber.Map{"Title": "Edit Profile", "Form": form, "Errors": errs})
}
