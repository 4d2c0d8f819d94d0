package repository

import (
	"context"

	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
)

// TransactionRepository define el puerto de persistencia para Transaction (asientos del ledger).
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	GetByIDForCompany(ctx context.Context, companyID, id string) (*entity.Transaction, error)
}
