package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Finanzas-api/internal/application/ports"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/infrastructure/memory"
)

func seed() *memory.Store {
	s := memory.New()
	s.PutCompany(entity.Company{ID: "A"})
	s.PutProvider(entity.ServiceProvider{ID: "P", CompanyID: "A"})
	s.PutMission(entity.Mission{ID: "m1", CompanyID: "A"})
	s.PutPayment(entity.Payment{ID: "p1", CompanyID: "A", ProviderID: "P", Amount: decimal.NewFromInt(100), Status: entity.PaymentPending})
	s.PutPayment(entity.Payment{ID: "p2", CompanyID: "A", ProviderID: "X", Amount: decimal.NewFromInt(50), Status: entity.PaymentPending})
	return s
}

func TestRunLedger_RollbackRevierteSoloLoEscrito(t *testing.T) {
	s := seed()
	ctx := context.Background()
	at := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	err := s.RunLedger(ctx, func(repos ports.LedgerRepos) error {
		n, err := repos.Payments.MarkCompleted(ctx, "A", []string{"p1"}, at, "bp")
		require.NoError(t, err)
		require.Equal(t, 1, n)
		require.NoError(t, repos.Payments.Create(ctx, &entity.Payment{ID: "bp", CompanyID: "A", ProviderID: "P", Amount: decimal.NewFromInt(100), Status: entity.PaymentCompleted}))
		ok, err := repos.Missions.Approve(ctx, "A", "m1", decimal.NewFromInt(900), at)
		require.NoError(t, err)
		require.True(t, ok)

		// Escritura fuera de la transacción, en medio de ella.
		ok, err = s.Payments().AssignProvider(ctx, "A", "p2", "P")
		require.NoError(t, err)
		require.True(t, ok)
		return errors.New("abortar")
	})
	require.Error(t, err)

	p1, err := s.Payments().GetByIDForCompany(ctx, "A", "p1")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentPending, p1.Status)
	assert.Empty(t, p1.SettledByID)

	bp, err := s.Payments().GetByIDForCompany(ctx, "A", "bp")
	require.NoError(t, err)
	assert.Nil(t, bp)

	m, err := s.Missions().GetByIDForCompany(ctx, "A", "m1")
	require.NoError(t, err)
	assert.False(t, m.IsApproved)

	p2, err := s.Payments().GetByIDForCompany(ctx, "A", "p2")
	require.NoError(t, err)
	assert.Equal(t, "P", p2.ProviderID, "la escritura ajena a la transacción se conserva")
}

func TestRunLedger_CommitConserva(t *testing.T) {
	s := seed()
	ctx := context.Background()

	err := s.RunLedger(ctx, func(repos ports.LedgerRepos) error {
		_, err := repos.Payments.MarkCompleted(ctx, "A", []string{"p1"}, time.Now(), "")
		return err
	})
	require.NoError(t, err)

	p1, err := s.Payments().GetByIDForCompany(ctx, "A", "p1")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCompleted, p1.Status)
}
