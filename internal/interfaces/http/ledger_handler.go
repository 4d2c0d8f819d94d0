package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Finanzas-api/internal/application/balance"
	"github.com/jhoicas/Finanzas-api/internal/application/dto"
	"github.com/jhoicas/Finanzas-api/internal/application/orphan"
	"github.com/jhoicas/Finanzas-api/internal/application/payment"
	"github.com/jhoicas/Finanzas-api/internal/application/settlement"
	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/ledger"
)

// LedgerHandler saldos, liquidaciones y pagos de proveedores.
type LedgerHandler struct {
	balance    *balance.UseCase
	settlement *settlement.UseCase
	payments   *payment.UseCase
	orphans    *orphan.UseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(b *balance.UseCase, s *settlement.UseCase, p *payment.UseCase, o *orphan.UseCase) *LedgerHandler {
	return &LedgerHandler{balance: b, settlement: s, payments: p, orphans: o}
}

// providerParam valida que el caller pueda operar sobre el proveedor de la ruta.
// Un proveedor sólo ve lo suyo; empleados y dueños todo el tenant.
func providerParam(c *fiber.Ctx) (string, error) {
	providerID := c.Params("id")
	if providerID == "" {
		return "", domain.Invalid("id", "id es requerido")
	}
	scope, _ := GetScope(c)
	if !scope.CanActOnProvider(providerID) {
		return "", domain.ErrForbidden
	}
	return providerID, nil
}

// GetBalance godoc
// @Summary      Saldo del proveedor
// @Tags         providers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proveedor"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/providers/{id}/balance [get]
func (h *LedgerHandler) GetBalance(c *fiber.Ctx) error {
	providerID, err := providerParam(c)
	if err != nil {
		return writeError(c, err)
	}
	b, err := h.balance.GetProviderBalance(c.UserContext(), tenantID(c), providerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(balanceResponse(providerID, b))
}

// Recalculate godoc
// @Summary      Recalcular saldo del proveedor
// @Tags         providers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proveedor"
// @Success      200  {object}  dto.BalanceResponse
// @Router       /api/providers/{id}/balance/recalculate [post]
func (h *LedgerHandler) Recalculate(c *fiber.Ctx) error {
	providerID, err := providerParam(c)
	if err != nil {
		return writeError(c, err)
	}
	b, err := h.balance.Recalculate(c.UserContext(), tenantID(c), providerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(balanceResponse(providerID, b))
}

// ListPayments godoc
// @Summary      Pagos del proveedor
// @Tags         providers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proveedor"
// @Success      200  {array}  dto.PaymentResponse
// @Router       /api/providers/{id}/payments [get]
func (h *LedgerHandler) ListPayments(c *fiber.Ctx) error {
	providerID, err := providerParam(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.payments.ListByProvider(c.UserContext(), tenantID(c), providerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PreviewSettlement godoc
// @Summary      Total pendiente antes de liquidar
// @Tags         settlements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proveedor"
// @Success      200  {object}  dto.SettlementPreviewResponse
// @Router       /api/providers/{id}/settlements/preview [get]
func (h *LedgerHandler) PreviewSettlement(c *fiber.Ctx) error {
	providerID, err := providerParam(c)
	if err != nil {
		return writeError(c, err)
	}
	p, err := h.settlement.PendingTotal(c.UserContext(), tenantID(c), providerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SettlementPreviewResponse{ProviderID: p.ProviderID, PendingCount: p.PendingCount, PendingTotal: p.PendingTotal})
}

// PayBalance godoc
// @Summary      Pago de saldo con liquidación automática FIFO
// @Tags         settlements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del proveedor"
// @Param        body  body  dto.SettleRequest  true  "Monto y fecha"
// @Success      201   {object}  dto.SettlementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/providers/{id}/balance-payments [post]
func (h *LedgerHandler) PayBalance(c *fiber.Ctx) error {
	providerID, in, date, err := h.settleInput(c)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.settlement.PayBalance(c.UserContext(), tenantID(c), providerID, in.Amount, date, in.Description)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(payment.SettlementResponse(res))
}

// Settle godoc
// @Summary      Liquidación manual contra el total pendiente
// @Tags         settlements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del proveedor"
// @Param        body  body  dto.SettleRequest  true  "Monto y fecha"
// @Success      200   {object}  dto.SettlementResponse
// @Router       /api/providers/{id}/settlements [post]
func (h *LedgerHandler) Settle(c *fiber.Ctx) error {
	providerID, in, date, err := h.settleInput(c)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.settlement.SettlePendingPayments(c.UserContext(), tenantID(c), providerID, in.Amount, date)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(payment.SettlementResponse(res))
}

func (h *LedgerHandler) settleInput(c *fiber.Ctx) (string, dto.SettleRequest, time.Time, error) {
	var in dto.SettleRequest
	providerID, err := providerParam(c)
	if err != nil {
		return "", in, time.Time{}, err
	}
	if err := c.BodyParser(&in); err != nil {
		return "", in, time.Time{}, domain.Invalid("body", "cuerpo inválido")
	}
	if err := dto.Validate(in); err != nil {
		return "", in, time.Time{}, err
	}
	date, err := dto.ParseDate("payment_date", in.PaymentDate, time.Time{})
	if err != nil {
		return "", in, time.Time{}, err
	}
	return providerID, in, date, nil
}

// CreatePayment godoc
// @Summary      Registrar pago a proveedor
// @Description  Un balance_payment o advance completed liquida pendientes en la misma transacción.
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePaymentRequest  true  "Pago"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/payments [post]
func (h *LedgerHandler) CreatePayment(c *fiber.Ctx) error {
	var in dto.CreatePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.payments.Create(c.UserContext(), tenantID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListOrphans godoc
// @Summary      Pagos sin proveedor válido
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PaymentResponse
// @Router       /api/payments/orphans [get]
func (h *LedgerHandler) ListOrphans(c *fiber.Ctx) error {
	list, err := h.orphans.Detect(c.UserContext(), tenantID(c))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]*dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, payment.ToResponse(p))
	}
	return c.JSON(out)
}

// RepairOrphans godoc
// @Summary      Re-vincular pagos huérfanos
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OrphanRepairResponse
// @Router       /api/payments/orphans/repair [post]
func (h *LedgerHandler) RepairOrphans(c *fiber.Ctx) error {
	res, err := h.orphans.Repair(c.UserContext(), tenantID(c))
	if err != nil {
		return writeError(c, err)
	}
	out := dto.OrphanRepairResponse{
		FixedCount: res.FixedCount,
		Fixed:      make([]dto.RepairedPayment, 0, len(res.Fixed)),
		Unresolved: make([]*dto.PaymentResponse, 0, len(res.Unresolved)),
	}
	for _, f := range res.Fixed {
		out.Fixed = append(out.Fixed, dto.RepairedPayment{PaymentID: f.PaymentID, ProviderID: f.ProviderID})
	}
	for _, p := range res.Unresolved {
		out.Unresolved = append(out.Unresolved, payment.ToResponse(p))
	}
	return c.JSON(out)
}

func balanceResponse(providerID string, b ledger.Balance) dto.BalanceResponse {
	return dto.BalanceResponse{ProviderID: providerID, Earned: b.Earned, Paid: b.Paid, Current: b.Current, Pending: b.Pending}
}
