package middleware

import (
	"errors"
	"strings"

	"skill-gap/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
)

const CtxAdminKey = "admin"

// RequireAdmin admits requests whose bearer token is a valid admin access
// token and stores the admin username in Locals under CtxAdminKey.
func RequireAdmin(svc jwt.Service) fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		claims, err := svc.ValidateToken(token)
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
		case err != nil:
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		case claims.Role != jwt.RoleAdmin:
			return NewAppError(fiber.StatusForbidden, "Forbidden", nil, nil)
		}

		c.Locals(CtxAdminKey, claims.Subject)
		return c.Next()
	}
}

// AdminFromCtx returns the authenticated admin, or "" on public routes.
func AdminFromCtx(c fiber.Ctx) string {
	v, _ := c.Locals(CtxAdminKey).(string)
	return v
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
