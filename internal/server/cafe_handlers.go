package server

import (
	"fmt"

	"cafehub/internal/models"
	"cafehub/internal/service"
	"cafehub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Homepage renders the landing page.
func (s *Server) Homepage(c *fiber.Ctx) error {
	return s.render(c, "homepage", nil)
}

// ListCafes renders every cafe ordered by name.
func (s *Server) ListCafes(c *fiber.Ctx) error {
	cafes, err := s.cafeService.List(c.UserContext())
	if err != nil {
		return err
	}
	return s.render(c, "cafe/list", fiber.Map{"Title": "Cafes", "Cafes": cafes})
}

// CafeDetail renders one cafe.
func (s *Server) CafeDetail(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	cafe, err := s.cafeService.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return s.render(c, "cafe/detail", fiber.Map{"Title": cafe.Name, "Cafe": cafe})
}

// AddCafeForm shows an empty cafe form.
func (s *Server) AddCafeForm(c *fiber.Ctx) error {
	cities, err := s.cafeService.CityChoices(c.UserContext())
	if err != nil {
		return err
	}
	return s.render(c, "cafe/add-form", fiber.Map{
		"Title":  "Add Cafe",
		"Form":   validation.CafeForm{},
		"Cities": cities,
	})
}

// AddCafe creates a cafe and redirects to it.
func (s *Server) AddCafe(c *fiber.Ctx) error {
	ctx := c.UserContext()
	cities, err := s.cafeService.CityChoices(ctx)
	if err != nil {
		return err
	}

	var form validation.CafeForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.ErrBadRequest
	}
	if errs := form.Validate(cities); errs != nil {
		return s.render(c, "cafe/add-form", fiber.Map{
			"Title":  "Add Cafe",
			"Form":   form,
			"Cities": cities,
			"Errors": errs,
		})
	}

	cafe, err := s.cafeService.Create(ctx, cafeInput(form))
	if err != nil {
		return err
	}
	if err := s.sessions.AddFlash(c, fmt.Sprintf("%s added.", cafe.Name)); err != nil {
		return err
	}
	return c.Redirect(fmt.Sprintf("/cafes/%d", cafe.ID))
}

// EditCafeForm shows the cafe form filled with the stored values. The
// placeholder image shows as blank.
func (s *Server) EditCafeForm(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	cafe, err := s.cafeService.Get(ctx, id)
	if err != nil {
		return err
	}
	cities, err := s.cafeService.CityChoices(ctx)
	if err != nil {
		return err
	}

	form := validation.CafeForm{
		Name:        cafe.Name,
		Description: cafe.Description,
		URL:         cafe.URL,
		Address:     cafe.Address,
		CityCode:    cafe.CityCode,
		ImageURL:    cafe.ImageURL,
	}
	if cafe.HasDefaultImage() {
		form.ImageURL = ""
	}
	return s.renderEditCafe(c, cafe, form, cities, nil)
}

// EditCafe overwrites a cafe and redirects to it.
func (s *Server) EditCafe(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	cafe, err := s.cafeService.Get(ctx, id)
	if err != nil {
		return err
	}
	cities, err := s.cafeService.CityChoices(ctx)
	if err != nil {
		return err
	}

	var form validation.CafeForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.ErrBadRequest
	}
	if errs := form.Validate(cities); errs != nil {
		return s.renderEditCafe(c, cafe, form, cities, errs)
	}

	updated, err := s.cafeService.Update(ctx, id, cafeInput(form))
	if err != nil {
		return err
	}
	if err := s.sessions.AddFlash(c, fmt.Sprintf("%s edited.", updated.Name)); err != nil {
		return err
	}
	return c.Redirect(fmt.Sprintf("/cafes/%d", updated.ID))
}

func (s *Server) renderEditCafe(c *fiber.Ctx, cafe *models.Cafe, form validation.CafeForm, cities []validation.Choice, errs validation.FieldErrors) error {
	return s.render(c, "cafe/edit-form", fiber.Map{
		"Title":    "Edit " + cafe.Name,
		"CafeName": cafe.Name,
		"CafeID":   cafe.ID,
		"Form":     form,
		"Cities":   cities,
		"Errors":   errs,
	})
}

func cafeInput(form validation.CafeForm) service.CafeInput {
	return service.CafeInput{
		Name:        form.Name,
		Description: form.Description,
		URL:         form.URL,
		Address:     form.Address,
		CityCode:    form.CityCode,
		ImageURL:    form.ImageURL,
	}
}
