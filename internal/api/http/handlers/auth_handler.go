package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/sakalaundry/laundry-api/internal/api/dto"
	"github.com/sakalaundry/laundry-api/internal/auth"
	"github.com/sakalaundry/laundry-api/internal/service"
	apperrors "github.com/sakalaundry/laundry-api/pkg/util"
)

// AuthHandler exposes signup, login, profile and the reset flow.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Signup handles POST /signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid JSON in request body", nil)
	}

	user, token, exp, err := h.auth.Signup(c.UserContext(), req.Name, req.Phone, req.Password, req.Email)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.AuthResponse{
		Token:     token,
		ExpiresAt: exp,
		User:      dto.ToUserView(user),
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid JSON in request body", nil)
	}

	user, token, exp, err := h.auth.Login(c.UserContext(), req.ResolveIdentifier(), req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.AuthResponse{
		Token:     token,
		ExpiresAt: exp,
		User:      dto.ToUserView(user),
	})
}

// Profile handles GET /profile.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("no access token", apperrors.ReasonNoToken)
	}

	user, err := h.auth.Profile(c.UserContext(), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(dto.ToUserView(user))
}

// RequestOTP handles POST /auth/forgot-password/request-otp. The code is
// returned in the response for in-app display; the response shape does not
// reveal whether the phone has an account.
func (h *AuthHandler) RequestOTP(c *fiber.Ctx) error {
	var req dto.OTPRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid JSON in request body", nil)
	}
	if req.Phone == "" {
		return apperrors.NewValidationError("phone is required", map[string]any{"field": "phone"})
	}

	otp, ttl, err := h.auth.RequestPasswordReset(c.UserContext(), req.Phone)
	if err != nil {
		return err
	}
	if otp == "" {
		return c.JSON(fiber.Map{"ok": true, "message": "If account exists, code generated."})
	}
	return c.JSON(fiber.Map{"ok": true, "otp": otp, "ttlMs": ttl.Milliseconds()})
}

// ResetPassword handles POST /auth/forgot-password/reset.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid JSON in request body", nil)
	}

	if err := h.auth.ConfirmPasswordReset(c.UserContext(), req.Phone, req.OTP, req.ResolvePassword()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "message": "Password reset successful. Please login."})
}
