package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chart-eval/internal/domain"
	apperrors "github.com/spec-kit/chart-eval/pkg/util/errorutil"
)

// RequireRoleHandler ensures the authenticated account holds role.
// It must run after AuthMiddleware.Handle.
func RequireRoleHandler(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if err := RequireRole(account, role); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireSelfOrRole lets an account act on its own identity (route param) and
// requires role for anyone else's.
func RequireSelfOrRole(param string, role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if account.Identity == c.Params(param) {
			return c.Next()
		}
		if err := RequireRole(account, role); err != nil {
			return err
		}
		return c.Next()
	}
}
