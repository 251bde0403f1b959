package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LoginPath is where unauthenticated requests are pointed at.
const LoginPath = "/login"

// TokenFromRequest extracts the raw session token from the cookie named by
// the configured context key, falling back to an Authorization bearer
// header. Empty string when the request is anonymous.
func TokenFromRequest(c *fiber.Ctx, cfg Config) string {
	if raw := c.Cookies(cfg.GetContextKey()); raw != "" {
		return raw
	}

	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// ProtectedRoute validates the session token and stores the claims in the
// request locals under the configured context key. Requests without a
// valid token get a 401 pointing at the login page; they never see which
// validation step failed.
func ProtectedRoute(cfg Config, validator TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := TokenFromRequest(c, cfg)
		if raw == "" {
			return unauthorized(c)
		}

		claims, err := validator.Validate(raw)
		if err != nil {
			return unauthorized(c)
		}

		c.Locals(cfg.GetContextKey(), claims)

		return c.Next()
	}
}

// RequireRole layers a minimum-role check on top of ProtectedRoute.
func RequireRole(cfg Config, minRole Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c, cfg)
		if !ok {
			return unauthorized(c)
		}

		if !claims.IsAtLeast(string(minRole)) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Insufficient role",
			})
		}

		return c.Next()
	}
}

// ClaimsFromContext retrieves validated claims stored by ProtectedRoute
func ClaimsFromContext(c *fiber.Ctx, cfg Config) (AuthClaims, bool) {
	raw := c.Locals(cfg.GetContextKey())
	if raw == nil {
		return nil, false
	}
	claims, ok := raw.(AuthClaims)
	return claims, ok
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized",
		"login": LoginPath,
	})
}
