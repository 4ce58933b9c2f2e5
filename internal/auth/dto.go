package auth

import (
	"time"

	"github.com/google/uuid"
)

// SignupRequest captures the credentials for account creation. Either email
// or phone_number must be set.
type SignupRequest struct {
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,min=7,max=20"`
	Password    string `json:"password" validate:"required,min=8"`
}

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,min=7,max=20"`
	Password    string `json:"password" validate:"required"`
}

// CheckUserRequest asks whether an account exists for the identifier.
type CheckUserRequest struct {
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,min=7,max=20"`
}

// CheckUserResponse powers the signup/login switcher on the client.
type CheckUserResponse struct {
	Exists bool `json:"exists"`
}

// OTPRequest asks for a login code to be issued for the phone number.
type OTPRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,min=7,max=20"`
}

// OTPVerifyRequest exchanges an issued code for tokens.
type OTPVerifyRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,min=7,max=20"`
	Code        string `json:"code" validate:"required"`
}

// RefreshRequest rotates a refresh token.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest revokes the session tied to the access token.
type LogoutRequest struct {
	AccessToken string `json:"access_token" validate:"required"`
}

// UserDTO is the public shape of an account.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       *string    `json:"email,omitempty"`
	PhoneNumber *string    `json:"phone_number,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TokenResponse contains the token pair and user produced by a successful
// signup, login, or OTP verification.
type TokenResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	User         UserDTO `json:"user"`
}
