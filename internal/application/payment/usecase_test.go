package payment_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Finanzas-api/internal/application/dto"
	"github.com/jhoicas/Finanzas-api/internal/application/payment"
	"github.com/jhoicas/Finanzas-api/internal/application/settlement"
	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Finanzas-api/pkg/retry"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup() (*memory.Store, *payment.UseCase) {
	s := memory.New()
	s.PutCompany(entity.Company{ID: "A"})
	s.PutProvider(entity.ServiceProvider{ID: "P", CompanyID: "A", Name: "Pedro"})
	s.PutProvider(entity.ServiceProvider{ID: "Q", CompanyID: "B", Name: "Quique"})
	engine := settlement.New(s.Providers(), s.Payments(), s, retry.Default(), nil)
	return s, payment.New(s.Payments(), engine)
}

func TestCreate_PendienteSellaTenant(t *testing.T) {
	_, uc := setup()

	out, err := uc.Create(context.Background(), "A", dto.CreatePaymentRequest{
		ProviderID: "P", Amount: d("250"), Type: "installment", DueDate: "2024-05-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "A", out.CompanyID)
	assert.Equal(t, "pending", out.Status)
	assert.Equal(t, "2024-05-01", out.DueDate)
	assert.Nil(t, out.Settlement)
}

func TestCreate_AdelantoCompletadoLiquida(t *testing.T) {
	s, uc := setup()
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.PutPayment(entity.Payment{ID: "old", CompanyID: "A", ProviderID: "P", Amount: d("300"), Type: entity.PaymentInstallment, Status: entity.PaymentPending, DueDate: &due})

	out, err := uc.Create(context.Background(), "A", dto.CreatePaymentRequest{
		ProviderID: "P", Amount: d("300"), Type: "advance", Status: "completed",
	})
	require.NoError(t, err)
	require.NotNil(t, out.Settlement)
	assert.Equal(t, []string{"old"}, out.Settlement.Liquidated)

	old, err := s.Payments().GetByIDForCompany(context.Background(), "A", "old")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCompleted, old.Status)
	assert.Equal(t, out.ID, old.SettledByID)
}

func TestCreate_Validaciones(t *testing.T) {
	_, uc := setup()
	ctx := context.Background()

	_, err := uc.Create(ctx, "A", dto.CreatePaymentRequest{ProviderID: "P", Amount: d("10"), Type: "gift"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, "A", dto.CreatePaymentRequest{Amount: d("10"), Type: "full"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, "A", dto.CreatePaymentRequest{ProviderID: "P", Amount: d("10"), Type: "full", DueDate: "31/12/2024"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "due_date", verr.Field)

	_, err = uc.Create(ctx, "A", dto.CreatePaymentRequest{ProviderID: "Q", Amount: d("10"), Type: "full"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
