// Package validation parses and checks the HTML forms submitted to the site.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// FieldErrors maps a form field name to its error messages.
type FieldErrors map[string][]string

// Add appends msg to the errors of field.
func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Has reports whether field has at least one error.
func (e FieldErrors) Has(field string) bool {
	return len(e[field]) > 0
}

// First returns the first error of field, or "".
func (e FieldErrors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Choice is one option of a select field.
type Choice struct {
	Value string
	Label string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Passwords are never trimmed, but all-whitespace ones count as missing.
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Field must be at least %s characters long.", fe.Param())
	case "url":
		return "Invalid URL."
	case "email":
		return "Invalid email address."
	default:
		return "Invalid value."
	}
}

// check runs the struct tags of form and collects one message per failing
// field. Tags are evaluated left to right, so a field reports the first rule
// it breaks.
func check(form any) FieldErrors {
	errs := FieldErrors{}
	err := validate.Struct(form)
	if err == nil {
		return errs
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add("_form", err.Error())
		return errs
	}
	for _, fe := range verrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

func result(errs FieldErrors) FieldErrors {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// CafeForm is the add/edit cafe form.
type CafeForm struct {
	Name        string `form:"name" validate:"required,max=300"`
	Description string `form:"description"`
	URL         string `form:"url" validate:"omitempty,url"`
	Address     string `form:"address" validate:"required"`
	CityCode    string `form:"city_code" validate:"required"`
	ImageURL    string `form:"image_url" validate:"omitempty,url"`
}

// Normalize trims every field.
func (f *CafeForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.URL = strings.TrimSpace(f.URL)
	f.Address = strings.TrimSpace(f.Address)
	f.CityCode = strings.TrimSpace(f.CityCode)
	f.ImageURL = strings.TrimSpace(f.ImageURL)
}

// Validate normalizes the form and checks it against the given city choices.
// It returns nil when the form is valid.
func (f *CafeForm) Validate(cities []Choice) FieldErrors {
	f.Normalize()
	errs := check(f)
	if !errs.Has("city_code") && !hasChoice(cities, f.CityCode) {
		errs.Add("city_code", "Not a valid choice.")
	}
	return result(errs)
}

func hasChoice(choices []Choice, value string) bool {
	for _, c := range choices {
		if c.Value == value {
			return true
		}
	}
	return false
}

// SignupForm registers a new user.
type SignupForm struct {
	Username    string `form:"username" validate:"required,max=300"`
	FirstName   string `form:"first_name" validate:"required,max=100"`
	LastName    string `form:"last_name" validate:"max=100"`
	Description string `form:"description"`
	Email       string `form:"email" validate:"required,email"`
	Password    string `form:"password" validate:"required,notblank,min=6,max=64"`
	ImageURL    string `form:"image_url" validate:"omitempty,url"`
}

// Normalize trims every field except the password.
func (f *SignupForm) Normalize() {
	f.Username = strings.TrimSpace(f.Username)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Description = strings.TrimSpace(f.Description)
	f.Email = strings.TrimSpace(f.Email)
	f.ImageURL = strings.TrimSpace(f.ImageURL)
}

// Validate normalizes and checks the form.
func (f *SignupForm) Validate() FieldErrors {
	f.Normalize()
	return result(check(f))
}

// LoginForm authenticates an existing user.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required,notblank"`
}

// Validate normalizes and checks the form.
func (f *LoginForm) Validate() FieldErrors {
	f.Username = strings.TrimSpace(f.Username)
	return result(check(f))
}

// ProfileForm edits the logged-in user's profile.
type ProfileForm struct {
	FirstName   string `form:"first_name" validate:"required,max=100"`
	LastName    string `form:"last_name" validate:"max=100"`
	Description string `form:"description"`
	Email       string `form:"email" validate:"required,email"`
	ImageURL    string `form:"image_url" validate:"omitempty,url"`
}

// Normalize trims every field.
func (f *ProfileForm) Normalize() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Description = strings.TrimSpace(f.Description)
	f.Email = strings.TrimSpace(f.Email)
	f.ImageURL = strings.TrimSpace(f.ImageURL)
}

// Validate normalizes and checks the form.
func (f *ProfileForm) Validate() FieldErrors {
	f.Normalize()
	return result(check(f))
}
