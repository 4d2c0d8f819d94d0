// Package balance expone el saldo derivado de un proveedor.
package balance

import (
	"context"
	"errors"

	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/domain/ledger"
	"github.com/jhoicas/Finanzas-api/internal/domain/repository"
	"github.com/jhoicas/Finanzas-api/internal/domain/tenant"
	"github.com/jhoicas/Finanzas-api/pkg/retry"
)

// UseCase calcula saldos a partir de misiones y pagos del tenant. No guarda totales.
type UseCase struct {
	providers repository.ServiceProviderRepository
	missions  repository.MissionRepository
	payments  repository.PaymentRepository
	policy    retry.Policy
}

// New construye el caso de uso.
func New(providers repository.ServiceProviderRepository, missions repository.MissionRepository, payments repository.PaymentRepository, policy retry.Policy) *UseCase {
	policy.Retryable = func(err error) bool { return errors.Is(err, domain.ErrStore) }
	return &UseCase{providers: providers, missions: missions, payments: payments, policy: policy}
}

// GetProviderBalance saldo actual (ganado - pagado) y proyección pendiente.
// Un proveedor de otro tenant se reporta como ErrNotFound.
func (uc *UseCase) GetProviderBalance(ctx context.Context, id tenant.ID, providerID string) (ledger.Balance, error) {
	if id.IsZero() {
		return ledger.Balance{}, domain.ErrForbidden
	}
	if providerID == "" {
		return ledger.Balance{}, domain.Invalid("provider_id", "requerido")
	}
	if err := uc.ensureProvider(ctx, id, providerID); err != nil {
		return ledger.Balance{}, err
	}

	var (
		approved   []*entity.Mission
		unapproved []*entity.Mission
		payments   []*entity.Payment
	)
	err := uc.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		if approved, err = uc.missions.ListByProvider(ctx, id.String(), providerID, true); err != nil {
			return err
		}
		if unapproved, err = uc.missions.ListByProvider(ctx, id.String(), providerID, false); err != nil {
			return err
		}
		payments, err = uc.payments.ListByProvider(ctx, id.String(), providerID)
		return err
	})
	if err != nil {
		return ledger.Balance{}, err
	}
	return ledger.ComputeBalance(approved, unapproved, payments, providerID), nil
}

// Recalculate punto de entrada para recomputar tras cambios en misiones o pagos.
// Como el saldo nunca se persiste, recomputar equivale a leerlo de nuevo; llamarlo dos veces da lo mismo.
func (uc *UseCase) Recalculate(ctx context.Context, id tenant.ID, providerID string) (ledger.Balance, error) {
	return uc.GetProviderBalance(ctx, id, providerID)
}

func (uc *UseCase) ensureProvider(ctx context.Context, id tenant.ID, providerID string) error {
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
