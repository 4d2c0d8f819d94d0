package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Finanzas-api/internal/application/ports"
	"github.com/jhoicas/Finanzas-api/internal/domain"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunLedger inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) RunLedger(ctx context.Context, fn func(repos ports.LedgerRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.StoreError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := ports.LedgerRepos{
		Payments:     NewPaymentRepository(tx),
		Transactions: NewTransactionRepository(tx),
		Revenues:     NewRevenueRepository(tx),
		Expenses:     NewExpenseRepository(tx),
		Missions:     NewMissionRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.StoreError("commit transaction", err)
	}
	return nil
}
