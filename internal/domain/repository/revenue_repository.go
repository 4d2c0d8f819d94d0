package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
)

// RevenueRepository define el puerto de persistencia para ingresos pendientes y confirmados.
// El tenant de ambos es transitivo (misión), por eso los listados reciben companyID y hacen join.
type RevenueRepository interface {
	CreatePending(ctx context.Context, revenue *entity.PendingRevenue) error
	// GetPendingByID no filtra por tenant: pasar el resultado por Guard.AssertOwnership.
	GetPendingByID(ctx context.Context, id string) (*entity.PendingRevenue, error)
	// ListPending sólo filas en estado pending.
	ListPending(ctx context.Context, companyID string) ([]*entity.PendingRevenue, error)
	// TransitionPending cambia from → to de forma condicional; false si el estado ya no era from.
	TransitionPending(ctx context.Context, id string, from, to entity.RevenueStatus, at time.Time) (bool, error)
	CreateConfirmed(ctx context.Context, revenue *entity.ConfirmedRevenue) error
	ListConfirmed(ctx context.Context, companyID string) ([]*entity.ConfirmedRevenue, error)
}
