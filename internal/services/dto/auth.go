package dto

import (
	"time"

	"github.com/mouwaficbdr/my-facebook/internal/models"
)

// SignupRequest - the /signup payload. Field names follow the public wire
// contract of the frontend.
type SignupRequest struct {
	Nom           string `json:"nom" validate:"required,min=2,max=60,person-name"`
	Prenom        string `json:"prenom" validate:"required,min=2,max=60,person-name"`
	Email         string `json:"email" validate:"required,email,max=255"`
	Password      string `json:"password" validate:"required,strong-password,max=72"`
	Genre         string `json:"genre" validate:"required,genre"`
	DateNaissance string `json:"date_naissance" validate:"required,birth-date"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required,strong-password,max=72"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

// UserResponse - public view of an account, password hash and tokens
// excluded.
type UserResponse struct {
	ID             uint            `json:"id"`
	Email          string          `json:"email"`
	Nom            string          `json:"nom"`
	Prenom         string          `json:"prenom"`
	Genre          models.Genre    `json:"genre"`
	Role           models.UserRole `json:"role"`
	EmailConfirmed bool            `json:"email_confirmed"`
	CreatedAt      time.Time       `json:"created_at"`
}

func NewUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		Nom:            u.Nom,
		Prenom:         u.Prenom,
		Genre:          u.Genre,
		Role:           u.Role,
		EmailConfirmed: u.EmailConfirmed,
		CreatedAt:      u.CreatedAt,
	}
}
