package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-ticketing/internal/domain"
	apperrors "github.com/spec-kit/crm-ticketing/pkg/util"
)

// RequireRole denies any principal whose role differs from the required one.
// The check is a single-role equality: there is no hierarchy.
func RequireRole(required domain.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authorization token is required")
		}
		if claims.Role != required {
			return apperrors.NewForbidden("unauthorized access")
		}
		return c.Next()
	}
}

// RequireAuthenticated passes any valid principal.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := ClaimsFromContext(c); !ok {
			return apperrors.NewUnauthorized("authorization token is required")
		}
		return c.Next()
	}
}
