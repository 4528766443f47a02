package dto

import (
	"net/http"
	"strings"

	"github.com/streamhive/account-service/internal/domain"
)

// -------- Register (multipart form fields) --------

type RegisterForm struct {
	FullName string `validate:"required"`
	Username string `validate:"required,min=3,max=30,username_format"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=72,password_strength"`
}

// RegisterFormFromRequest reads the text fields of a parsed multipart form.
func RegisterFormFromRequest(r *http.Request) RegisterForm {
	return RegisterForm{
		FullName: strings.TrimSpace(r.FormValue("fullName")),
		Username: strings.ToLower(strings.TrimSpace(r.FormValue("username"))),
		Email:    strings.ToLower(strings.TrimSpace(r.FormValue("email"))),
		Password: r.FormValue("password"),
	}
}

func (f *RegisterForm) Validate() error {
	return toDomainError(validate.Struct(f))
}

// -------- Login --------

// LoginRequest accepts either username or email as the identifier.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Identifier() string {
	if id := strings.TrimSpace(r.Username); id != "" {
		return id
	}
	return strings.TrimSpace(r.Email)
}

func (r *LoginRequest) Validate() error {
	if r.Identifier() == "" {
		return domain.ErrMissingField("username/email")
	}
	return toDomainError(validate.Struct(r))
}

// -------- Refresh --------

// RefreshRequest is optional: the refresh token usually arrives in an
// httpOnly cookie, but a body value is accepted too.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

// -------- Password change --------

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72,password_strength"`
}

func (r *ChangePasswordRequest) Validate() error {
	return toDomainError(validate.Struct(r))
}

// -------- Profile update --------

type UpdateProfileRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

func (r *UpdateProfileRequest) Validate() error {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return toDomainError(validate.Struct(r))
}
