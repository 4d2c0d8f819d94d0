package ports

import (
	"context"

	"github.com/jhoicas/Finanzas-api/internal/domain/repository"
)

// LedgerRepos repositorios atados a una misma transacción de BD.
type LedgerRepos struct {
	Payments     repository.PaymentRepository
	Transactions repository.TransactionRepository
	Revenues     repository.RevenueRepository
	Expenses     repository.ExpenseRepository
	Missions     repository.MissionRepository
}

// TxRunner ejecuta fn dentro de una transacción, con repos atados a esa tx.
// Si fn devuelve error (o el commit falla) se hace Rollback completo: ningún paso parcial queda visible.
type TxRunner interface {
	RunLedger(ctx context.Context, fn func(repos LedgerRepos) error) error
}
