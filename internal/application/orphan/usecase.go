// Package orphan detecta y re-vincula pagos que perdieron su proveedor.
package orphan

import (
	"context"

	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/domain/repository"
	"github.com/jhoicas/Finanzas-api/internal/domain/tenant"
	"github.com/jhoicas/Finanzas-api/pkg/logger"
)

// Fix pago re-vinculado.
type Fix struct {
	PaymentID  string
	ProviderID string
}

// RepairResult cuántos se arreglaron y cuáles quedan huérfanos. Nunca se borra un pago.
type RepairResult struct {
	FixedCount int
	Fixed      []Fix
	Unresolved []*entity.Payment
}

// UseCase reparación de huérfanos. Sólo consulta y asigna proveedores del mismo tenant.
type UseCase struct {
	payments  repository.PaymentRepository
	providers repository.ServiceProviderRepository
	strategy  MatchStrategy
	log       *logger.Logger
}

// New construye el caso de uso; strategy nil usa DefaultStrategy.
func New(payments repository.PaymentRepository, providers repository.ServiceProviderRepository, strategy MatchStrategy, log *logger.Logger) *UseCase {
	if strategy == nil {
		strategy = DefaultStrategy()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{payments: payments, providers: providers, strategy: strategy, log: log.Component("orphan")}
}

// Detect pagos del tenant con provider_id vacío, inexistente o de otra empresa.
func (uc *UseCase) Detect(ctx context.Context, id tenant.ID) ([]*entity.Payment, error) {
	if id.IsZero() {
		return nil, domain.ErrForbidden
	}
	return uc.payments.ListWithoutValidProvider(ctx, id.String())
}

// Repair intenta re-vincular cada huérfano. Re-ejecutarlo tras una reparación exitosa no encuentra
// los ya resueltos.
func (uc *UseCase) Repair(ctx context.Context, id tenant.ID) (RepairResult, error) {
	orphans, err := uc.Detect(ctx, id)
	if err != nil {
		return RepairResult{}, err
	}
	res := RepairResult{Fixed: []Fix{}, Unresolved: []*entity.Payment{}}
	if len(orphans) == 0 {
		return res, nil
	}
	providers, err := uc.providers.ListByCompany(ctx, id.String())
	if err != nil {
		return RepairResult{}, err
	}
	// sólo candidatos del mismo tenant
	candidates := providers[:0:0]
	for _, sp := range providers {
		if sp != nil && sp.CompanyID == id.String() {
			candidates = append(candidates, sp)
		}
	}

	for _, p := range orphans {
		providerID, ok := uc.strategy.Match(p, candidates)
		if !ok {
			res.Unresolved = append(res.Unresolved, p)
			continue
		}
		assigned, err := uc.payments.AssignProvider(ctx, id.String(), p.ID, providerID)
		if err != nil {
			return RepairResult{}, err
		}
		if !assigned {
			// otra reparación concurrente ya lo resolvió
			continue
		}
		res.FixedCount++
		res.Fixed = append(res.Fixed, Fix{PaymentID: p.ID, ProviderID: providerID})
	}
	uc.log.Info().Str("company_id", id.String()).Int("orphans", len(orphans)).
		Int("fixed", res.FixedCount).Int("unresolved", len(res.Unresolved)).Msg("reparación de pagos huérfanos")
	return res, nil
}
