package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sakalaundry/laundry-api/internal/domain"
	apperrors "github.com/sakalaundry/laundry-api/pkg/util"
)

// RequireAdmin rejects any authenticated caller whose role is not admin.
// Composes after AuthMiddleware.Handle: a valid non-admin token yields 403,
// never 401.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("no access token", apperrors.ReasonNoToken)
		}
		if claims.Role != domain.RoleAdmin {
			return apperrors.NewForbidden("admin only")
		}
		return c.Next()
	}
}
