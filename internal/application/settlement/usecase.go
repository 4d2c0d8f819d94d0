// Package settlement liquida pagos pendientes de proveedores: automática (pago de saldo o adelanto,
// FIFO) y manual (contra el total pendiente). Cada liquidación es una única transacción del store.
package settlement

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Finanzas-api/internal/application/ports"
	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/domain/ledger"
	"github.com/jhoicas/Finanzas-api/internal/domain/repository"
	"github.com/jhoicas/Finanzas-api/internal/domain/tenant"
	"github.com/jhoicas/Finanzas-api/pkg/logger"
	"github.com/jhoicas/Finanzas-api/pkg/retry"
)

// Result resultado de una liquidación.
type Result struct {
	ProviderID      string
	PaymentID       string // pago de saldo/adelanto registrado; vacío en la liquidación manual
	Liquidated      []string
	LiquidatedTotal decimal.Decimal
	PendingTotal    decimal.Decimal
	Difference      decimal.Decimal // amount - PendingTotal
	Remainder       decimal.Decimal // amount - LiquidatedTotal, queda como crédito
	FullMatch       bool
}

// Preview total pendiente de un proveedor.
type Preview struct {
	ProviderID   string
	PendingCount int
	PendingTotal decimal.Decimal
}

// UseCase motor de liquidación.
type UseCase struct {
	providers repository.ServiceProviderRepository
	payments  repository.PaymentRepository
	tx        ports.TxRunner
	locks     *keyedLock
	policy    retry.Policy
	log       *logger.Logger
	now       func() time.Time
}

// New construye el caso de uso. log puede ser nil.
func New(providers repository.ServiceProviderRepository, payments repository.PaymentRepository, tx ports.TxRunner, policy retry.Policy, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	policy.Retryable = func(err error) bool { return errors.Is(err, domain.ErrStore) }
	return &UseCase{
		providers: providers,
		payments:  payments,
		tx:        tx,
		locks:     newKeyedLock(),
		policy:    policy,
		log:       log.Component("settlement"),
		now:       time.Now,
	}
}

// PayBalance registra un pago de saldo por amount y liquida pendientes del más antiguo al más nuevo
// mientras la suma acumulada no supere amount. El sobrante queda como crédito en el propio pago.
func (uc *UseCase) PayBalance(ctx context.Context, id tenant.ID, providerID string, amount decimal.Decimal, date time.Time, description string) (Result, error) {
	if date.IsZero() {
		date = uc.now()
	}
	payment := entity.Payment{
		ProviderID:  providerID,
		Amount:      amount,
		Type:        entity.PaymentBalancePayment,
		Status:      entity.PaymentCompleted,
		Description: description,
		PaymentDate: &date,
	}
	return uc.Record(ctx, id, payment)
}

// Record inserta un pago en una transacción y, si es un completed de tipo balance_payment o advance,
// liquida en la misma transacción los pendientes que cubre.
func (uc *UseCase) Record(ctx context.Context, id tenant.ID, payment entity.Payment) (Result, error) {
	if err := uc.validate(ctx, id, payment.ProviderID, payment.Amount); err != nil {
		return Result{}, err
	}
	now := uc.now()
	payment = tenant.EnsureStamped(payment, id)
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.Status == "" {
		payment.Status = entity.PaymentPending
	}
	payment.CreatedAt, payment.UpdatedAt = now, now
	liquidates := payment.Status == entity.PaymentCompleted && payment.Type.TriggersLiquidation()
	if liquidates && payment.PaymentDate == nil {
		payment.PaymentDate = &now
	}

	unlock := uc.locks.Lock(lockKey(id, payment.ProviderID))
	defer unlock()

	res := Result{ProviderID: payment.ProviderID, PaymentID: payment.ID, LiquidatedTotal: decimal.Zero, Remainder: payment.Amount}
	err := uc.tx.RunLedger(ctx, func(repos ports.LedgerRepos) error {
		if liquidates {
			if err := repos.Payments.LockProvider(ctx, id.String(), payment.ProviderID); err != nil {
				return err
			}
		}
		if err := repos.Payments.Create(ctx, &payment); err != nil {
			return err
		}
		if !liquidates {
			return nil
		}
		outstanding, err := repos.Payments.ListOutstandingByProvider(ctx, id.String(), payment.ProviderID)
		if err != nil {
			return err
		}
		plan := ledger.PlanLiquidation(payment.Amount, outstanding)
		if err := markCompleted(ctx, repos, id, plan.CoveredIDs(), *payment.PaymentDate, payment.ID); err != nil {
			return err
		}
		res.Liquidated = plan.CoveredIDs()
		res.LiquidatedTotal = plan.Total
		res.Remainder = plan.Remainder
		res.PendingTotal = sumAmounts(outstanding)
		res.Difference = payment.Amount.Sub(res.PendingTotal)
		return nil
	})
	if err != nil {
		uc.log.Error().Err(err).Str("company_id", id.String()).Str("provider_id", payment.ProviderID).
			Str("amount", payment.Amount.String()).Msg("liquidación automática revertida")
		return Result{}, err
	}
	if liquidates {
		uc.log.Info().Str("company_id", id.String()).Str("provider_id", payment.ProviderID).
			Str("payment_id", payment.ID).Str("amount", payment.Amount.String()).
			Int("liquidated", len(res.Liquidated)).Str("remainder", res.Remainder.String()).
			Msg("pago de saldo registrado")
	}
	return res, nil
}

// SettlePendingPayments liquidación manual: si amount coincide con el total pendiente (±0.01) marca todos
// los pendientes como completed; si no, liquida FIFO hasta amount y devuelve la diferencia con signo.
func (uc *UseCase) SettlePendingPayments(ctx context.Context, id tenant.ID, providerID string, amount decimal.Decimal, date time.Time) (Result, error) {
	if err := uc.validate(ctx, id, providerID, amount); err != nil {
		return Result{}, err
	}
	if date.IsZero() {
		date = uc.now()
	}

	unlock := uc.locks.Lock(lockKey(id, providerID))
	defer unlock()

	var res Result
	err := uc.tx.RunLedger(ctx, func(repos ports.LedgerRepos) error {
		if err := repos.Payments.LockProvider(ctx, id.String(), providerID); err != nil {
			return err
		}
		outstanding, err := repos.Payments.ListOutstandingByProvider(ctx, id.String(), providerID)
		if err != nil {
			return err
		}
		plan := ledger.PlanSettlement(amount, outstanding)
		if err := markCompleted(ctx, repos, id, plan.CoveredIDs(), date, ""); err != nil {
			return err
		}
		res = Result{
			ProviderID:      providerID,
			Liquidated:      plan.CoveredIDs(),
			LiquidatedTotal: plan.Total,
			PendingTotal:    plan.PendingTotal,
			Difference:      plan.Difference,
			Remainder:       plan.Remainder,
			FullMatch:       plan.FullMatch,
		}
		return nil
	})
	if err != nil {
		uc.log.Error().Err(err).Str("company_id", id.String()).Str("provider_id", providerID).
			Str("amount", amount.String()).Msg("liquidación manual revertida")
		return Result{}, err
	}
	ev := uc.log.Info()
	if !res.FullMatch {
		ev = uc.log.Warn()
	}
	ev.Str("company_id", id.String()).Str("provider_id", providerID).Str("amount", amount.String()).
		Str("pending_total", res.PendingTotal.String()).Str("difference", res.Difference.String()).
		Int("liquidated", len(res.Liquidated)).Msg("liquidación manual")
	return res, nil
}

// PendingTotal suma de pagos pending/partial del proveedor, para mostrar la diferencia antes de liquidar.
func (uc *UseCase) PendingTotal(ctx context.Context, id tenant.ID, providerID string) (Preview, error) {
	if err := uc.validate(ctx, id, providerID, decimal.NewFromInt(1)); err != nil {
		return Preview{}, err
	}
	var outstanding []*entity.Payment
	err := uc.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		outstanding, err = uc.payments.ListOutstandingByProvider(ctx, id.String(), providerID)
		return err
	})
	if err != nil {
		return Preview{}, err
	}
	return Preview{ProviderID: providerID, PendingCount: len(outstanding), PendingTotal: sumAmounts(outstanding)}, nil
}

func (uc *UseCase) validate(ctx context.Context, id tenant.ID, providerID string, amount decimal.Decimal) error {
	if id.IsZero() {
		return domain.ErrForbidden
	}
	if providerID == "" {
		return domain.Invalid("provider_id", "requerido")
	}
	if !amount.IsPositive() {
		return domain.Invalid("amount", "debe ser mayor que cero")
	}
	var p *entity.ServiceProvider
	err := uc.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		p, err = uc.providers.GetByIDForCompany(ctx, id.String(), providerID)
		return err
	})
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return nil
}

// markCompleted exige que cambien exactamente las filas planificadas; si otra liquidación
// se adelantó, la transacción completa se revierte.
func markCompleted(ctx context.Context, repos ports.LedgerRepos, id tenant.ID, ids []string, date time.Time, settledBy string) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := repos.Payments.MarkCompleted(ctx, id.String(), ids, date, settledBy)
	if err != nil {
		return err
	}
	if n != len(ids) {
		return domain.ErrConflict
	}
	return nil
}

func sumAmounts(payments []*entity.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

func lockKey(id tenant.ID, providerID string) string {
	return id.String() + "/" + providerID
}
