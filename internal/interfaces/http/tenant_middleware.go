package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/tenant"
)

// tenantResolver contrato mínimo del Guard que necesita el middleware.
type tenantResolver interface {
	ResolveUser(ctx context.Context, userID string) (tenant.Scope, error)
}

// TenantMiddleware resuelve el tenant del usuario autenticado y lo deja en c.Locals.
// Debe usarse DESPUÉS de AuthMiddleware.
//   - 403 si el perfil no existe, no tiene rol o su empresa no está activa.
//   - 503 si el store no respondió tras el reintento.
func TenantMiddleware(resolver tenantResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return writeError(c, domain.ErrUnauthorized)
		}
		scope, err := resolver.ResolveUser(c.UserContext(), userID)
		if err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalScope, scope)
		return c.Next()
	}
}

// RequireAccess exige un nivel mínimo. Usar después de TenantMiddleware.
func RequireAccess(min tenant.AccessLevel) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, ok := GetScope(c)
		if !ok || scope.TenantID.IsZero() || !scope.Level.AtLeast(min) {
			return writeError(c, domain.ErrForbidden)
		}
		return c.Next()
	}
}

// GetScope scope resuelto por TenantMiddleware.
func GetScope(c *fiber.Ctx) (tenant.Scope, bool) {
	scope, ok := c.Locals(LocalScope).(tenant.Scope)
	return scope, ok
}

// tenantID atajo para handlers detrás de TenantMiddleware.
func tenantID(c *fiber.Ctx) tenant.ID {
	scope, _ := GetScope(c)
	return scope.TenantID
}
