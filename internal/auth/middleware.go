package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/sakalaundry/laundry-api/pkg/util"
)

const claimsKey = "auth_claims"

// AuthMiddleware validates bearer tokens and attaches claims to the request.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes. Failures carry a
// reason sub-code (no_token, invalid_token, token_expired) so the client
// can react to a dead session differently from a missing one.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token := BearerToken(c)
	if token == "" {
		return apperrors.NewUnauthorized("no access token", apperrors.ReasonNoToken)
	}

	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return apperrors.NewUnauthorized("token expired", apperrors.ReasonTokenExpired)
		}
		return apperrors.NewUnauthorized("invalid token", apperrors.ReasonInvalidToken)
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

// BearerToken extracts the token from the Authorization header, falling
// back to the "token" query parameter for websocket handshakes.
func BearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return c.Query("token")
}

// ClaimsFromContext retrieves the authenticated claims.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	val := c.Locals(claimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}
