package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"surveyapi/internal/auth"
)

// UserIDLocalKey holds the authenticated user ID in Fiber locals.
const UserIDLocalKey = "user_id"

// TokenParser verifies access tokens.
type TokenParser interface {
	Parse(token string, kind auth.TokenKind) (*auth.Claims, error)
}

// Authenticate resolves an "Authorization: Bearer <access token>" header to
// a user ID. Requests without the header pass through anonymously; a header
// carrying a bad token is rejected with 401.
func Authenticate(p TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "malformed authorization header")
		}
		claims, err := p.Parse(strings.TrimSpace(token), auth.KindAccess)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}
		c.Locals(UserIDLocalKey, claims.UserID)
		return c.Next()
	}
}

// RequireUser rejects anonymous requests.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if UserID(c) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		return c.Next()
	}
}

// UserID returns the authenticated user, or "" for anonymous requests.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDLocalKey).(string)
	return id
}
