package revenue_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Finanzas-api/internal/application/dto"
	"github.com/jhoicas/Finanzas-api/internal/application/ports"
	"github.com/jhoicas/Finanzas-api/internal/application/revenue"
	apptenant "github.com/jhoicas/Finanzas-api/internal/application/tenant"
	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/domain/repository"
	"github.com/jhoicas/Finanzas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Finanzas-api/pkg/retry"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup(tx func(*memory.Store) ports.TxRunner) (*memory.Store, *revenue.UseCase) {
	s := memory.New()
	s.PutCompany(entity.Company{ID: "A"})
	s.PutCompany(entity.Company{ID: "B"})
	s.PutMission(entity.Mission{ID: "mA", CompanyID: "A", Title: "Evento A"})
	s.PutMission(entity.Mission{ID: "mB", CompanyID: "B", Title: "Evento B"})
	s.PutPendingRevenue(entity.PendingRevenue{
		ID: "r1", MissionID: "mA", ClientName: "ACME",
		TotalAmount: d("2000"), CompanyAmount: d("1200"), ProviderAmount: d("800"),
		Status: entity.RevenuePending,
	})
	guard := apptenant.NewGuard(s.Profiles(), s.Companies(), s.Providers(), s.Missions(), retry.Default())
	var runner ports.TxRunner = s
	if tx != nil {
		runner = tx(s)
	}
	return s, revenue.New(s.Revenues(), s.Missions(), guard, runner, nil)
}

var bank = dto.ConfirmRevenueRequest{AccountID: "acc-1", AccountType: "bank", PaymentMethod: "transferencia", ReceivedDate: "2024-06-10"}

func TestConfirm_CreaConfirmadoYAsiento(t *testing.T) {
	s, uc := setup(nil)
	ctx := context.Background()

	out, err := uc.Confirm(ctx, "A", "r1", bank)
	require.NoError(t, err)
	assert.True(t, d("1200").Equal(out.CompanyAmount))
	assert.True(t, d("800").Equal(out.ProviderAmount))
	assert.True(t, d("2000").Equal(out.TotalAmount))
	assert.Equal(t, "2024-06-10", out.ReceivedDate)

	txn, err := s.Transactions().GetByIDForCompany(ctx, "A", out.TransactionID)
	require.NoError(t, err)
	require.NotNil(t, txn)
	assert.Equal(t, entity.TransactionIncome, txn.Type)
	assert.Equal(t, entity.TransactionCompleted, txn.Status)
	assert.True(t, d("2000").Equal(txn.Amount))
	assert.Equal(t, "mA", txn.MissionID)

	pending, err := uc.ListPending(ctx, "A")
	require.NoError(t, err)
	assert.Empty(t, pending)

	confirmed, err := uc.ListConfirmed(ctx, "A")
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, "r1", confirmed[0].PendingRevenueID)
}

func TestConfirm_FechaRecibidoPorDefectoEsHoy(t *testing.T) {
	_, uc := setup(nil)
	in := bank
	in.ReceivedDate = ""

	before := time.Now().Format(dto.DateLayout)
	out, err := uc.Confirm(context.Background(), "A", "r1", in)
	require.NoError(t, err)
	after := time.Now().Format(dto.DateLayout)

	assert.Contains(t, []string{before, after}, out.ReceivedDate)
}

func TestConfirm_TransicionesMonotonas(t *testing.T) {
	_, uc := setup(nil)
	ctx := context.Background()

	_, err := uc.Confirm(ctx, "A", "r1", bank)
	require.NoError(t, err)

	_, err = uc.Confirm(ctx, "A", "r1", bank)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, uc.Cancel(ctx, "A", "r1"), domain.ErrConflict)
}

func TestCancel_LuegoNoSePuedeConfirmar(t *testing.T) {
	_, uc := setup(nil)
	ctx := context.Background()

	require.NoError(t, uc.Cancel(ctx, "A", "r1"))
	_, err := uc.Confirm(ctx, "A", "r1", bank)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCancel_SobreviveRollbackAjeno(t *testing.T) {
	s, uc := setup(nil)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.RunLedger(ctx, func(repos ports.LedgerRepos) error {
			if err := repos.Payments.Create(ctx, &entity.Payment{ID: "tmp", CompanyID: "A", ProviderID: "P", Amount: d("10"), Status: entity.PaymentPending}); err != nil {
				return err
			}
			close(started)
			<-release
			return errors.New("fallo ajeno")
		})
	}()

	<-started
	require.NoError(t, uc.Cancel(ctx, "A", "r1"))
	close(release)
	require.Error(t, <-done)

	rev, err := s.Revenues().GetPendingByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, entity.RevenueCancelled, rev.Status)

	tmp, err := s.Payments().GetByIDForCompany(ctx, "A", "tmp")
	require.NoError(t, err)
	assert.Nil(t, tmp, "la escritura de la transacción fallida se revierte")

	_, err = uc.Confirm(ctx, "A", "r1", bank)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestConfirm_OtroTenant(t *testing.T) {
	_, uc := setup(nil)

	_, err := uc.Confirm(context.Background(), "B", "r1", bank)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Cancel(context.Background(), "B", "r1"), domain.ErrNotFound)
}

func TestConfirm_Inexistente(t *testing.T) {
	_, uc := setup(nil)
	_, err := uc.Confirm(context.Background(), "A", "nope", bank)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConfirm_CuentaInvalida(t *testing.T) {
	_, uc := setup(nil)
	in := bank
	in.AccountType = "crypto"
	_, err := uc.Confirm(context.Background(), "A", "r1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

type failingConfirmed struct{ repository.RevenueRepository }

func (failingConfirmed) CreateConfirmed(context.Context, *entity.ConfirmedRevenue) error {
	return domain.StoreError("revenues.create_confirmed", errors.New("disk full"))
}

type failingTx struct{ s *memory.Store }

func (f failingTx) RunLedger(ctx context.Context, fn func(ports.LedgerRepos) error) error {
	return f.s.RunLedger(ctx, func(repos ports.LedgerRepos) error {
		repos.Revenues = failingConfirmed{RevenueRepository: repos.Revenues}
		return fn(repos)
	})
}

func TestConfirm_FalloParcialRevierte(t *testing.T) {
	s, uc := setup(func(s *memory.Store) ports.TxRunner { return failingTx{s: s} })
	ctx := context.Background()

	_, err := uc.Confirm(ctx, "A", "r1", bank)
	require.ErrorIs(t, err, domain.ErrStore)

	rev, err := s.Revenues().GetPendingByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, entity.RevenuePending, rev.Status)

	bal, err := s.Metrics().Balance(ctx, "A")
	require.NoError(t, err)
	assert.True(t, bal.IsZero(), "no debe quedar asiento de ingreso")
}

func TestCreatePending_ValidaReparto(t *testing.T) {
	_, uc := setup(nil)
	ctx := context.Background()

	_, err := uc.CreatePending(ctx, "A", dto.CreatePendingRevenueRequest{
		MissionID: "mA", ClientName: "X", TotalAmount: d("100"), CompanyAmount: d("60"), ProviderAmount: d("30"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := uc.CreatePending(ctx, "A", dto.CreatePendingRevenueRequest{
		MissionID: "mA", ClientName: "X", TotalAmount: d("100"), CompanyAmount: d("60"), ProviderAmount: d("39.995"),
	})
	require.NoError(t, err, "dentro de la tolerancia de 0.01")
	assert.Equal(t, "pending", out.Status)
}

func TestCreatePending_MisionDeOtroTenant(t *testing.T) {
	_, uc := setup(nil)
	_, err := uc.CreatePending(context.Background(), "A", dto.CreatePendingRevenueRequest{
		MissionID: "mB", ClientName: "X", TotalAmount: d("100"), CompanyAmount: d("60"), ProviderAmount: d("40"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
