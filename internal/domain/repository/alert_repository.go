package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
)

// AlertConfigRepository reglas de alerta persistidas por tenant.
type AlertConfigRepository interface {
	Create(ctx context.Context, cfg *entity.AlertConfig) error
	Update(ctx context.Context, cfg *entity.AlertConfig) error
	Delete(ctx context.Context, companyID, id string) (bool, error)
	GetByIDForCompany(ctx context.Context, companyID, id string) (*entity.AlertConfig, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.AlertConfig, error)
	// ClaimEvaluation fija last_triggered = now sólo si la regla sigue vencida (last_triggered nulo o <= cutoff).
	// Devuelve false si otro evaluador la tomó dentro de la misma ventana.
	ClaimEvaluation(ctx context.Context, companyID, id string, now, cutoff time.Time) (bool, error)
}
