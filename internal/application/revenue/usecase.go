// Package revenue implementa el flujo de ingresos: pendiente → confirmado | cancelado.
// Confirmar es atómico: transición, fila confirmada y asiento de ingreso o nada.
package revenue

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

// UseCase casos de uso de ingresos.
type UseCase struct {
	revenues repository.RevenueRepository
	missions repository.MissionRepository
	guard    ports.OwnershipGuard
	tx       ports.TxRunner
	log      *logger.Logger
	now      func() time.Time
}

// New construye el caso de uso. log puede ser nil.
func New(revenues repository.RevenueRepository, missions repository.MissionRepository, guard ports.OwnershipGuard, tx ports.TxRunner, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		revenues: revenues,
		missions: missions,
		guard:    guard,
		tx:       tx,
		log:      log.Component("revenue"),
		now:      time.Now,
	}
}

// CreatePending registra una facturación pendiente sobre una misión del tenant.
func (uc *UseCase) CreatePending(ctx context.Context, id tenant.ID, in dto.CreatePendingRevenueRequest) (*dto.PendingRevenueResponse, error) {
	if id.IsZero() {
		return nil, domain.ErrForbidden
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if !in.TotalAmount.IsPositive() {
		return nil, domain.Invalid("total_amount", "debe ser mayor que cero")
	}
	if in.CompanyAmount.IsNegative() || in.ProviderAmount.IsNegative() {
		return nil, domain.Invalid("company_amount", "los montos del reparto no pueden ser negativos")
	}
	if !entity.SplitIsBalanced(in.TotalAmount, in.CompanyAmount, in.ProviderAmount) {
		return nil, domain.Invalid("total_amount", "company_amount + provider_amount debe igualar total_amount")
	}
	due, err := dto.ParseOptionalDate("due_date", in.DueDate)
	if err != nil {
		return nil, err
	}
	mission, err := uc.missions.GetByIDForCompany(ctx, id.String(), in.MissionID)
	if err != nil {
		return nil, err
	}
	if mission == nil {
		return nil, domain.ErrNotFound
	}

	now := uc.now()
	rev := &entity.PendingRevenue{
		ID:             uuid.New().String(),
		MissionID:      mission.ID,
		ClientName:     in.ClientName,
		TotalAmount:    in.TotalAmount,
		CompanyAmount:  in.CompanyAmount,
		ProviderAmount: in.ProviderAmount,
		DueDate:        due,
		Status:         entity.RevenuePending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.revenues.CreatePending(ctx, rev); err != nil {
		return nil, err
	}
	return pendingResponse(rev), nil
}

// ListPending ingresos pendientes del tenant.
func (uc *UseCase) ListPending(ctx context.Context, id tenant.ID) ([]*dto.PendingRevenueResponse, error) {
	if id.IsZero() {
		return nil, domain.ErrForbidden
	}
	list, err := uc.revenues.ListPending(ctx, id.String())
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PendingRevenueResponse, 0, len(list))
	for _, r := range list {
		out = append(out, pendingResponse(r))
	}
	return out, nil
}

// ListConfirmed ingresos confirmados del tenant, más recientes primero.
func (uc *UseCase) ListConfirmed(ctx context.Context, id tenant.ID) ([]*dto.ConfirmedRevenueResponse, error) {
	if id.IsZero() {
		return nil, domain.ErrForbidden
	}
	list, err := uc.revenues.ListConfirmed(ctx, id.String())
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ConfirmedRevenueResponse, 0, len(list))
	for _, r := range list {
		out = append(out, confirmedResponse(r))
	}
	return out, nil
}

// Confirm pasa el pendiente a confirmado, crea el ConfirmedRevenue con el mismo reparto y un
// asiento income por el total, todo en una transacción.
func (uc *UseCase) Confirm(ctx context.Context, id tenant.ID, pendingID string, in dto.ConfirmRevenueRequest) (*dto.ConfirmedRevenueResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	accountType := entity.AccountType(in.AccountType)
	if !accountType.IsValid() {
		return nil, domain.Invalid("account_type", "debe ser bank, cash o card")
	}
	pending, err := uc.loadOwned(ctx, id, pendingID)
	if err != nil {
		return nil, err
	}
	if !pending.Status.CanTransitionTo(entity.RevenueConfirmed) {
		return nil, domain.ErrConflict
	}
	if !entity.SplitIsBalanced(pending.TotalAmount, pending.CompanyAmount, pending.ProviderAmount) {
		return nil, domain.Invalid("total_amount", "el reparto guardado no cuadra con el total")
	}
	now := uc.now()
	received, err := dto.ParseDate("received_date", in.ReceivedDate, now)
	if err != nil {
		return nil, err
	}

	txn := &entity.Transaction{
		ID:          uuid.New().String(),
		CompanyID:   id.String(),
		Type:        entity.TransactionIncome,
		Category:    entity.CategoryRevenue,
		Description: "Ingreso confirmado: " + pending.ClientName,
		Amount:      pending.TotalAmount,
		Date:        received,
		Status:      entity.TransactionCompleted,
		MissionID:   pending.MissionID,
		AccountID:   in.AccountID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	confirmed := &entity.ConfirmedRevenue{
		ID:               uuid.New().String(),
		PendingRevenueID: pending.ID,
		MissionID:        pending.MissionID,
		ClientName:       pending.ClientName,
		TotalAmount:      pending.TotalAmount,
		CompanyAmount:    pending.CompanyAmount,
		ProviderAmount:   pending.ProviderAmount,
		ReceivedDate:     received,
		PaymentMethod:    in.PaymentMethod,
		AccountID:        in.AccountID,
		AccountType:      accountType,
		TransactionID:    txn.ID,
		Status:           entity.RevenueConfirmed,
		CreatedAt:        now,
	}

	err = uc.tx.RunLedger(ctx, func(repos ports.LedgerRepos) error {
		ok, err := repos.Revenues.TransitionPending(ctx, pending.ID, entity.RevenuePending, entity.RevenueConfirmed, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}
		if err := repos.Transactions.Create(ctx, txn); err != nil {
			return err
		}
		return repos.Revenues.CreateConfirmed(ctx, confirmed)
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("company_id", id.String()).Str("pending_revenue_id", pendingID).Msg("confirmación de ingreso revertida")
		return nil, err
	}
	uc.log.Info().Str("company_id", id.String()).Str("pending_revenue_id", pendingID).
		Str("transaction_id", txn.ID).Str("total", pending.TotalAmount.String()).Msg("ingreso confirmado")
	return confirmedResponse(confirmed), nil
}

// Cancel pasa el pendiente a cancelado. Un ingreso ya confirmado o cancelado devuelve ErrConflict.
func (uc *UseCase) Cancel(ctx context.Context, id tenant.ID, pendingID string) error {
	pending, err := uc.loadOwned(ctx, id, pendingID)
	if err != nil {
		return err
	}
	if !pending.Status.CanTransitionTo(entity.RevenueCancelled) {
		return domain.ErrConflict
	}
	ok, err := uc.revenues.TransitionPending(ctx, pending.ID, entity.RevenuePending, entity.RevenueCancelled, uc.now())
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrConflict
	}
	uc.log.Info().Str("company_id", id.String()).Str("pending_revenue_id", pendingID).Msg("ingreso cancelado")
	return nil
}

func (uc *UseCase) loadOwned(ctx context.Context, id tenant.ID, pendingID string) (*entity.PendingRevenue, error) {
	if id.IsZero() {
		return nil, domain.ErrForbidden
	}
	pending, err := uc.revenues.GetPendingByID(ctx, pendingID)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.guard.AssertOwnership(ctx, pending, id); err != nil {
		return nil, err
	}
	return pending, nil
}

func pendingResponse(r *entity.PendingRevenue) *dto.PendingRevenueResponse {
	return &dto.PendingRevenueResponse{
		ID:             r.ID,
		MissionID:      r.MissionID,
		ClientName:     r.ClientName,
		TotalAmount:    r.TotalAmount,
		CompanyAmount:  r.CompanyAmount,
		ProviderAmount: r.ProviderAmount,
		DueDate:        dto.FormatDate(r.DueDate),
		Status:         string(r.Status),
	}
}

func confirmedResponse(r *entity.ConfirmedRevenue) *dto.ConfirmedRevenueResponse {
	return &dto.ConfirmedRevenueResponse{
		ID:               r.ID,
		PendingRevenueID: r.PendingRevenueID,
		MissionID:        r.MissionID,
		ClientName:       r.ClientName,
		TotalAmount:      r.TotalAmount,
		CompanyAmount:    r.CompanyAmount,
		ProviderAmount:   r.ProviderAmount,
		ReceivedDate:     r.ReceivedDate.Format(dto.DateLayout),
		PaymentMethod:    r.PaymentMethod,
		AccountID:        r.AccountID,
		AccountType:      string(r.AccountType),
		TransactionID:    r.TransactionID,
	}
}
