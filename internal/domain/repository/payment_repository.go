package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para Payment.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByIDForCompany(ctx context.Context, companyID, id string) (*entity.Payment, error)
	ListByProvider(ctx context.Context, companyID, providerID string) ([]*entity.Payment, error)
	// ListOutstandingByProvider pagos pending/partial ordenados por vencimiento ascendente (más antiguo primero).
	// Dentro de una transacción bloquea las filas (SELECT FOR UPDATE).
	ListOutstandingByProvider(ctx context.Context, companyID, providerID string) ([]*entity.Payment, error)
	// LockProvider serializa liquidaciones del mismo (tenant, proveedor) hasta el fin de la transacción.
	LockProvider(ctx context.Context, companyID, providerID string) error
	// MarkCompleted pasa a completed sólo filas aún pending/partial; devuelve cuántas cambió.
	MarkCompleted(ctx context.Context, companyID string, ids []string, paymentDate time.Time, settledByID string) (int, error)
	// ListWithoutValidProvider pagos del tenant con provider_id vacío, inexistente o de otra empresa.
	ListWithoutValidProvider(ctx context.Context, companyID string) ([]*entity.Payment, error)
	// AssignProvider re-vincula un huérfano; false si la fila ya no era huérfana.
	AssignProvider(ctx context.Context, companyID, paymentID, providerID string) (bool, error)
}
