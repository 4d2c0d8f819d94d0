package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
)

// PaymentAggregate conteo y suma de un grupo de pagos.
type PaymentAggregate struct {
	Count int
	Total decimal.Decimal
}

// LedgerMetricsRepository consultas de solo lectura que alimentan al evaluador de alertas.
type LedgerMetricsRepository interface {
	// OverduePayments pagos marcados overdue o pending/partial con vencimiento anterior a asOf.
	OverduePayments(ctx context.Context, companyID string, asOf time.Time) (PaymentAggregate, error)
	// UpcomingPayments pagos pending/partial que vencen en [from, to].
	UpcomingPayments(ctx context.Context, companyID string, from, to time.Time) (PaymentAggregate, error)
	// CompletedTotal suma de transacciones completed del tipo dado en [start, end].
	CompletedTotal(ctx context.Context, companyID string, txType entity.TransactionType, start, end time.Time) (decimal.Decimal, error)
	// Balance ingresos completed menos egresos completed de toda la historia.
	Balance(ctx context.Context, companyID string) (decimal.Decimal, error)
}
