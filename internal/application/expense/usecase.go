// Package expense reembolso de gastos de viaje.
package expense

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Finanzas-api/internal/application/dto"
	"github.com/jhoicas/Finanzas-api/internal/application/ports"
	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/domain/repository"
	"github.com/jhoicas/Finanzas-api/internal/domain/tenant"
	"github.com/jhoicas/Finanzas-api/pkg/logger"
)

// UseCase reembolsos.
type UseCase struct {
	expenses repository.ExpenseRepository
	guard    ports.OwnershipGuard
	tx       ports.TxRunner
	log      *logger.Logger
	now      func() time.Time
}

// New construye el caso de uso. log puede ser nil.
func New(expenses repository.ExpenseRepository, guard ports.OwnershipGuard, tx ports.TxRunner, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{expenses: expenses, guard: guard, tx: tx, log: log.Component("expense"), now: time.Now}
}

// Reimburse approved → reimbursed y asiento expense por el monto reembolsable, en una transacción.
func (uc *UseCase) Reimburse(ctx context.Context, id tenant.ID, expenseID string, in dto.ReimburseExpenseRequest) (*dto.ReimburseResponse, error) {
	if id.IsZero() {
		return nil, domain.ErrForbidden
	}
	exp, err := uc.expenses.GetByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.guard.AssertOwnership(ctx, exp, id); err != nil {
		return nil, err
	}
	if exp.Status != entity.ExpenseApproved {
		return nil, domain.ErrConflict
	}
	amount := exp.ReimbursableAmount()
	if !amount.IsPositive() {
		return nil, domain.Invalid("amount", "el gasto no tiene monto reembolsable")
	}
	now := uc.now()
	date, err := dto.ParseDate("date", in.Date, now)
	if err != nil {
		return nil, err
	}
	txn := &entity.Transaction{
		ID:          uuid.New().String(),
		CompanyID:   id.String(),
		Type:        entity.TransactionExpense,
		Category:    entity.CategoryReimbursement,
		Description: "Reembolso de gasto: " + exp.Category,
		Amount:      amount,
		Date:        date,
		Status:      entity.TransactionCompleted,
		MissionID:   exp.MissionID,
		AccountID:   in.AccountID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.tx.RunLedger(ctx, func(repos ports.LedgerRepos) error {
		ok, err := repos.Expenses.TransitionStatus(ctx, exp.ID, entity.ExpenseApproved, entity.ExpenseReimbursed, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}
		return repos.Transactions.Create(ctx, txn)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", id.String()).Str("expense_id", exp.ID).Str("amount", amount.String()).Msg("gasto reembolsado")
	return &dto.ReimburseResponse{
		ExpenseID:     exp.ID,
		MissionID:     exp.MissionID,
		TransactionID: txn.ID,
		Amount:        amount,
		Status:        string(entity.ExpenseReimbursed),
	}, nil
}
