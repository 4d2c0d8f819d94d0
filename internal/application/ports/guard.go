package ports

import (
	"context"

	"github.com/jhoicas/Finanzas-api/internal/domain/tenant"
)

// OwnershipGuard verificación de pertenencia para registros leídos sin filtro de tenant
// (gastos e ingresos pendientes). La implementa tenant.Guard.
type OwnershipGuard interface {
	AssertOwnership(ctx context.Context, record tenant.Owned, id tenant.ID) error
}
