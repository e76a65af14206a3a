package validator

import (
	"log"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/mouwaficbdr/my-facebook/internal/auth"
	"github.com/mouwaficbdr/my-facebook/internal/models"
)

const minSignupAge = 13

// registerCustomRules installs the auth flow's field rules.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("person-name", validatePersonName)
	mustRegister("genre", validateGenre)
	mustRegister("strong-password", validateStrongPassword)
	mustRegister("birth-date", validateBirthDate)
}

// validatePersonName accepts letters (accents included), spaces, hyphens and
// apostrophes. Empty values are left to 'required'.
func validatePersonName(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	for _, r := range value {
		if !unicode.IsLetter(r) && r != ' ' && r != '-' && r != '\'' {
			return false
		}
	}
	return true
}

func validateGenre(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.Genre(value) {
	case models.GenreHomme, models.GenreFemme, models.GenreAutre:
		return true
	default:
		return false
	}
}

func validateStrongPassword(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return auth.ValidatePasswordStrength(value) == nil
}

// validateBirthDate wants YYYY-MM-DD, not in the future, and an age of at
// least 13 years.
func validateBirthDate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}

	birthDate, err := time.Parse("2006-01-02", value)
	if err != nil {
		return false
	}

	now := time.Now()
	if birthDate.After(now) {
		return false
	}
	return !birthDate.After(now.AddDate(-minSignupAge, 0, 0))
}
