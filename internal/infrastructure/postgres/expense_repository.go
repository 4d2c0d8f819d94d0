package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/domain/repository"
)

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

// ExpenseRepo gastos de viaje sobre PostgreSQL.
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador de gastos.
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

// GetByID sin filtro de tenant; el caller valida pertenencia con el Guard.
func (r *ExpenseRepo) GetByID(ctx context.Context, id string) (*entity.Expense, error) {
	const query = `
		SELECT id, COALESCE(company_id, ''), mission_id, COALESCE(employee_id, ''), COALESCE(category, ''),
		       amount, invoice_amount, is_advanced, status, reimbursed_at, created_at, updated_at
		FROM expenses WHERE id = $1`
	var e entity.Expense
	err := r.q.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.CompanyID, &e.MissionID, &e.EmployeeID, &e.Category,
		&e.Amount, &e.InvoiceAmount, &e.IsAdvanced, &e.Status, &e.ReimbursedAt, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, domain.StoreError("get expense", err)
	}
	return &e, nil
}

// TransitionStatus UPDATE condicional sobre el estado actual.
func (r *ExpenseRepo) TransitionStatus(ctx context.Context, id string, from, to entity.ExpenseStatus, at time.Time) (bool, error) {
	const query = `
		UPDATE expenses
		   SET status = $3,
		       reimbursed_at = CASE WHEN $3 = 'reimbursed' THEN $4 ELSE reimbursed_at END,
		       updated_at = $4
		 WHERE id = $1 AND status = $2`
	cmd, err := r.q.Exec(ctx, query, id, from, to, at)
	if err != nil {
		return false, domain.StoreError("transition expense", err)
	}
	return cmd.RowsAffected() == 1, nil
}
