package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Finanzas-api/internal/application/dto"
	"github.com/jhoicas/Finanzas-api/internal/application/revenue"
)

// RevenueHandler ingresos pendientes y su confirmación.
type RevenueHandler struct {
	uc *revenue.UseCase
}

// NewRevenueHandler construye el handler.
func NewRevenueHandler(uc *revenue.UseCase) *RevenueHandler {
	return &RevenueHandler{uc: uc}
}

// CreatePending godoc
// @Summary      Registrar ingreso pendiente
// @Tags         revenues
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePendingRevenueRequest  true  "Ingreso"
// @Success      201   {object}  dto.PendingRevenueResponse
// @Router       /api/revenues/pending [post]
func (h *RevenueHandler) CreatePending(c *fiber.Ctx) error {
	var in dto.CreatePendingRevenueRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreatePending(c.UserContext(), tenantID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListPending godoc
// @Summary      Ingresos pendientes
// @Tags         revenues
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PendingRevenueResponse
// @Router       /api/revenues/pending [get]
func (h *RevenueHandler) ListPending(c *fiber.Ctx) error {
	out, err := h.uc.ListPending(c.UserContext(), tenantID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListConfirmed godoc
// @Summary      Ingresos confirmados
// @Tags         revenues
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ConfirmedRevenueResponse
// @Router       /api/revenues/confirmed [get]
func (h *RevenueHandler) ListConfirmed(c *fiber.Ctx) error {
	out, err := h.uc.ListConfirmed(c.UserContext(), tenantID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Confirmar cobro de un ingreso pendiente
// @Tags         revenues
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del ingreso pendiente"
// @Param        body  body  dto.ConfirmRevenueRequest  true  "Cuenta destino"
// @Success      200   {object}  dto.ConfirmedRevenueResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/revenues/pending/{id}/confirm [post]
func (h *RevenueHandler) Confirm(c *fiber.Ctx) error {
	var in dto.ConfirmRevenueRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Confirm(c.UserContext(), tenantID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar ingreso pendiente
// @Tags         revenues
// @Security     Bearer
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/revenues/pending/{id}/cancel [post]
func (h *RevenueHandler) Cancel(c *fiber.Ctx) error {
	if err := h.uc.Cancel(c.UserContext(), tenantID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
