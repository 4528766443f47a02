package dto

import (
	"errors"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/streamhive/account-service/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("password_strength", validatePasswordStrength); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("username_format", validateUsernameFormat); err != nil {
		panic(err)
	}
}

// validatePasswordStrength requires at least one uppercase letter, one
// lowercase letter and one digit.
func validatePasswordStrength(fl validator.FieldLevel) bool {
	password := fl.Field().String()

	hasUpper := false
	hasLower := false
	hasNumber := false

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		}
		if unicode.IsLower(char) {
			hasLower = true
		}
		if unicode.IsNumber(char) {
			hasNumber = true
		}
		if hasUpper && hasLower && hasNumber {
			return true
		}
	}

	return hasUpper && hasLower && hasNumber
}

// validateUsernameFormat allows only lowercase alphanumerics, underscores
// and dashes.
func validateUsernameFormat(fl validator.FieldLevel) bool {
	username := fl.Field().String()
	if username == "" {
		return false
	}
	for _, char := range username {
		ok := (char >= 'a' && char <= 'z') ||
			(char >= '0' && char <= '9') ||
			char == '_' || char == '-'
		if !ok {
			return false
		}
	}
	return true
}

// toDomainError maps the first validator failure onto the domain taxonomy.
func toDomainError(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.ErrInvalidField("body", "validation failed")
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return domain.ErrMissingField(field)
	case "email":
		return domain.ErrInvalidField(field, "invalid format")
	case "username_format":
		return domain.ErrInvalidField(field, "only lowercase letters, digits, _ and - allowed")
	case "password_strength":
		return domain.ErrWeakPassword("must contain upper, lower and digit")
	case "min":
		return domain.ErrInvalidField(field, "too short")
	case "max":
		return domain.ErrInvalidField(field, "too long")
	default:
		return domain.ErrInvalidField(field, fe.Tag())
	}
}
