package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
)

// MissionRepository define el puerto de persistencia para Mission.
type MissionRepository interface {
	Create(ctx context.Context, mission *entity.Mission) error
	GetByIDForCompany(ctx context.Context, companyID, id string) (*entity.Mission, error)
	// ListByProvider misiones donde el proveedor es principal o asignado, filtradas por aprobación.
	ListByProvider(ctx context.Context, companyID, providerID string, approved bool) ([]*entity.Mission, error)
	// Approve marca la misión aprobada sólo si aún no lo estaba; devuelve false si ya lo estaba.
	Approve(ctx context.Context, companyID, id string, providerValue decimal.Decimal, at time.Time) (bool, error)
	// GetOwner devuelve sólo el company_id de la misión ("" si no existe). Uso exclusivo del Guard.
	GetOwner(ctx context.Context, missionID string) (string, error)
}
