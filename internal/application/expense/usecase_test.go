package expense_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Finanzas-api/internal/application/dto"
	"github.com/jhoicas/Finanzas-api/internal/application/expense"
	apptenant "github.com/jhoicas/Finanzas-api/internal/application/tenant"
	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Finanzas-api/pkg/retry"
)

func setup() (*memory.Store, *expense.UseCase) {
	s := memory.New()
	s.PutMission(entity.Mission{ID: "mA", CompanyID: "A"})
	s.PutMission(entity.Mission{ID: "mB", CompanyID: "B"})
	invoice := decimal.NewFromInt(180)
	s.PutExpense(entity.Expense{ID: "e1", MissionID: "mA", Category: "hotel", Amount: decimal.NewFromInt(200), InvoiceAmount: &invoice, Status: entity.ExpenseApproved})
	s.PutExpense(entity.Expense{ID: "e2", MissionID: "mA", Category: "taxi", Amount: decimal.NewFromInt(30), Status: entity.ExpensePending})
	s.PutExpense(entity.Expense{ID: "eB", MissionID: "mB", Category: "taxi", Amount: decimal.NewFromInt(30), Status: entity.ExpenseApproved})
	guard := apptenant.NewGuard(s.Profiles(), s.Companies(), s.Providers(), s.Missions(), retry.Default())
	return s, expense.New(s.Expenses(), guard, s, nil)
}

func TestReimburse_EmiteAsientoPorMontoDeFactura(t *testing.T) {
	s, uc := setup()
	ctx := context.Background()

	out, err := uc.Reimburse(ctx, "A", "e1", dto.ReimburseExpenseRequest{AccountID: "caja"})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(180).Equal(out.Amount))
	assert.Equal(t, "reimbursed", out.Status)

	txn, err := s.Transactions().GetByIDForCompany(ctx, "A", out.TransactionID)
	require.NoError(t, err)
	require.NotNil(t, txn)
	assert.Equal(t, entity.TransactionExpense, txn.Type)
	assert.Equal(t, "mA", txn.MissionID)

	_, err = uc.Reimburse(ctx, "A", "e1", dto.ReimburseExpenseRequest{})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestReimburse_NoAprobado(t *testing.T) {
	_, uc := setup()
	_, err := uc.Reimburse(context.Background(), "A", "e2", dto.ReimburseExpenseRequest{})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestReimburse_PertenenciaTransitiva(t *testing.T) {
	_, uc := setup()
	_, err := uc.Reimburse(context.Background(), "A", "eB", dto.ReimburseExpenseRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Reimburse(context.Background(), "A", "no-existe", dto.ReimburseExpenseRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound, "ajeno e inexistente responden igual")
}
