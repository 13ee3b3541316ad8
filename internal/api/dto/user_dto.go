package dto

import (
	"time"

	"github.com/sakalaundry/laundry-api/internal/domain"
)

// SignupRequest payload for new accounts.
type SignupRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// LoginRequest payload for login. The client may send a generic identifier
// or the explicit email/phone fields; the first non-empty one wins.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Password   string `json:"password"`
}

// ResolveIdentifier collapses the accepted identifier fields.
func (r LoginRequest) ResolveIdentifier() string {
	for _, candidate := range []string{r.Identifier, r.Email, r.Phone} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// RoleUpdateRequest payload for promoting/demoting accounts.
type RoleUpdateRequest struct {
	Role string `json:"role"`
}

// OTPRequest payload for the password reset code.
type OTPRequest struct {
	Phone string `json:"phone"`
}

// ResetPasswordRequest payload for consuming the reset code.
type ResetPasswordRequest struct {
	Phone       string `json:"phone"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
	Password    string `json:"password"`
}

// ResolvePassword accepts the legacy "password" field as a fallback.
func (r ResetPasswordRequest) ResolvePassword() string {
	if r.NewPassword != "" {
		return r.NewPassword
	}
	return r.Password
}

// UserView is the account representation returned to clients. The
// password hash never leaves the service.
type UserView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     *string   `json:"email,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuthResponse is returned from signup and login.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      UserView  `json:"user"`
}

// ToUserView maps a domain user to its client representation.
func ToUserView(user *domain.User) UserView {
	return UserView{
		ID:        user.ID,
		Name:      user.Name,
		Phone:     user.Phone,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToUserViews maps a slice of users.
func ToUserViews(users []domain.User) []UserView {
	views := make([]UserView, len(users))
	for i := range users {
		views[i] = ToUserView(&users[i])
	}
	return views
}
