package postgres

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/domain/repository"
)

var _ repository.LedgerMetricsRepository = (*LedgerMetricsRepo)(nil)

// LedgerMetricsRepo consultas de solo lectura para el evaluador de alertas.
type LedgerMetricsRepo struct {
	q Querier
}

// NewLedgerMetricsRepository construye el adaptador de métricas.
func NewLedgerMetricsRepository(q Querier) *LedgerMetricsRepo {
	return &LedgerMetricsRepo{q: q}
}

// OverduePayments usa COALESCE para devolver cero si no hay pagos vencidos.
func (r *LedgerMetricsRepo) OverduePayments(ctx context.Context, companyID string, asOf time.Time) (repository.PaymentAggregate, error) {
	const query = `
	SELECT COUNT(*), COALESCE(SUM(amount), 0)
	FROM payments
	WHERE company_id = $1
	  AND (status = 'overdue'
	       OR (status IN ('pending', 'partial') AND due_date IS NOT NULL AND due_date < $2))`
	return r.aggregate(ctx, "overdue payments", query, companyID, asOf)
}

// UpcomingPayments pagos abiertos que vencen en [from, to].
func (r *LedgerMetricsRepo) UpcomingPayments(ctx context.Context, companyID string, from, to time.Time) (repository.PaymentAggregate, error) {
	const query = `
	SELECT COUNT(*), COALESCE(SUM(amount), 0)
	FROM payments
	WHERE company_id = $1
	  AND status IN ('pending', 'partial')
	  AND due_date BETWEEN $2 AND $3`
	return r.aggregate(ctx, "upcoming payments", query, companyID, from, to)
}

func (r *LedgerMetricsRepo) aggregate(ctx context.Context, op, query string, args ...any) (repository.PaymentAggregate, error) {
	agg := repository.PaymentAggregate{Total: decimal.Zero}
	if err := r.q.QueryRow(ctx, query, args...).Scan(&agg.Count, &agg.Total); err != nil {
		return repository.PaymentAggregate{}, domain.StoreError(op, err)
	}
	return agg, nil
}

// CompletedTotal suma de asientos completed del tipo dado en [start, end].
func (r *LedgerMetricsRepo) CompletedTotal(ctx context.Context, companyID string, txType entity.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(amount), 0)
	FROM transactions
	WHERE company_id = $1 AND type = $2 AND status = 'completed'
	  AND date BETWEEN $3 AND $4`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, companyID, txType, start, end).Scan(&total); err != nil {
		return decimal.Zero, domain.StoreError("completed total", err)
	}
	return total, nil
}

// Balance ingresos menos egresos completed de toda la historia.
func (r *LedgerMetricsRepo) Balance(ctx context.Context, companyID string) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE -amount END), 0)
	FROM transactions
	WHERE company_id = $1 AND status = 'completed' AND type IN ('income', 'expense')`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, companyID).Scan(&total); err != nil {
		return decimal.Zero, domain.StoreError("ledger balance", err)
	}
	return total, nil
}
