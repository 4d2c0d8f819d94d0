// Package payment registra pagos a proveedores.
package payment

import (
	"context"

	"github.com/jhoicas/Finanzas-api/internal/application/dto"
	"github.com/jhoicas/Finanzas-api/internal/application/settlement"
	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/domain/repository"
	"github.com/jhoicas/Finanzas-api/internal/domain/tenant"
)

// UseCase alta y consulta de pagos. La inserción pasa por el motor de liquidación para que
// un adelanto o pago de saldo completed liquide pendientes en la misma transacción.
type UseCase struct {
	payments   repository.PaymentRepository
	settlement *settlement.UseCase
}

// New construye el caso de uso.
func New(payments repository.PaymentRepository, settlement *settlement.UseCase) *UseCase {
	return &UseCase{payments: payments, settlement: settlement}
}

// Create valida y registra un pago del tenant.
func (uc *UseCase) Create(ctx context.Context, id tenant.ID, in dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	p := entity.Payment{
		ProviderID:  in.ProviderID,
		Amount:      in.Amount,
		Type:        entity.PaymentType(in.Type),
		Status:      entity.PaymentStatus(in.Status),
		Description: in.Description,
	}
	if p.Status == "" {
		p.Status = entity.PaymentPending
	}
	if !p.Type.IsValid() || !p.Status.IsValid() {
		return nil, domain.ErrInvalidInput
	}
	var err error
	if p.DueDate, err = dto.ParseOptionalDate("due_date", in.DueDate); err != nil {
		return nil, err
	}
	if p.PaymentDate, err = dto.ParseOptionalDate("payment_date", in.PaymentDate); err != nil {
		return nil, err
	}

	res, err := uc.settlement.Record(ctx, id, p)
	if err != nil {
		return nil, err
	}
	created, err := uc.payments.GetByIDForCompany(ctx, id.String(), res.PaymentID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, domain.ErrNotFound
	}
	out := ToResponse(created)
	if p.Status == entity.PaymentCompleted && p.Type.TriggersLiquidation() {
		out.Settlement = SettlementResponse(res)
	}
	return out, nil
}

// ListByProvider pagos de un proveedor del tenant.
func (uc *UseCase) ListByProvider(ctx context.Context, id tenant.ID, providerID string) ([]*dto.PaymentResponse, error) {
	if id.IsZero() {
		return nil, domain.ErrForbidden
	}
	list, err := uc.payments.ListByProvider(ctx, id.String(), providerID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, ToResponse(p))
	}
	return out, nil
}

// ToResponse mapea la entidad al DTO.
func ToResponse(p *entity.Payment) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		ProviderID:  p.ProviderID,
		Amount:      p.Amount,
		Type:        string(p.Type),
		Status:      string(p.Status),
		Description: p.Description,
		DueDate:     dto.FormatDate(p.DueDate),
		PaymentDate: dto.FormatDate(p.PaymentDate),
		SettledByID: p.SettledByID,
	}
}

// SettlementResponse mapea el resultado de una liquidación al DTO.
func SettlementResponse(r settlement.Result) *dto.SettlementResponse {
	liquidated := r.Liquidated
	if liquidated == nil {
		liquidated = []string{}
	}
	return &dto.SettlementResponse{
		ProviderID:      r.ProviderID,
		PaymentID:       r.PaymentID,
		Liquidated:      liquidated,
		LiquidatedTotal: r.LiquidatedTotal,
		PendingTotal:    r.PendingTotal,
		Difference:      r.Difference,
		Remainder:       r.Remainder,
		FullMatch:       r.FullMatch,
	}
}
