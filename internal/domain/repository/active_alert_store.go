package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
)

// ActiveAlertStore almacén efímero de alertas activas (memoria o Redis).
// Una alerta se identifica por (empresa, regla, tipo de hallazgo): guardar de nuevo la misma clave la reemplaza.
type ActiveAlertStore interface {
	// Save guarda las alertas; expiran solas pasado ttl.
	Save(ctx context.Context, alerts []entity.ActiveAlert, ttl time.Duration) error
	List(ctx context.Context, companyID string) ([]entity.ActiveAlert, error)
	Acknowledge(ctx context.Context, companyID, id string) (bool, error)
	Dismiss(ctx context.Context, companyID, id string) (bool, error)
}
