package postgres

import (
	"context"

	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo asientos del ledger sobre PostgreSQL.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador de transacciones.
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create persiste un asiento.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	const query = `
		INSERT INTO transactions (id, company_id, type, category, description, amount, date, status,
			mission_id, account_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.CompanyID, t.Type, t.Category, t.Description, t.Amount, t.Date, t.Status,
		nullIfEmpty(t.MissionID), nullIfEmpty(t.AccountID), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return insertErr("insert transaction", err)
	}
	return nil
}

// GetByIDForCompany devuelve nil, nil si no existe o es de otra empresa.
func (r *TransactionRepo) GetByIDForCompany(ctx context.Context, companyID, id string) (*entity.Transaction, error) {
	const query = `
		SELECT id, company_id, type, COALESCE(category, ''), COALESCE(description, ''), amount, date, status,
		       COALESCE(mission_id, ''), COALESCE(account_id, ''), created_at, updated_at
		FROM transactions WHERE id = $1 AND company_id = $2`
	var t entity.Transaction
	err := r.q.QueryRow(ctx, query, id, companyID).Scan(
		&t.ID, &t.CompanyID, &t.Type, &t.Category, &t.Description, &t.Amount, &t.Date, &t.Status,
		&t.MissionID, &t.AccountID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, domain.StoreError("get transaction", err)
	}
	return &t, nil
}
