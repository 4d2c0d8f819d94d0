package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Finanzas-api/internal/application/alert"
	"github.com/jhoicas/Finanzas-api/internal/application/dto"
)

// AlertHandler reglas de alerta y alertas activas.
type AlertHandler struct {
	uc *alert.UseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(uc *alert.UseCase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// ListActive godoc
// @Summary      Alertas activas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ActiveAlertResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) ListActive(c *fiber.Ctx) error {
	out, err := h.uc.ListActive(c.UserContext(), tenantID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Evaluate godoc
// @Summary      Evaluar reglas vencidas ahora
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ActiveAlertResponse
// @Router       /api/alerts/evaluate [post]
func (h *AlertHandler) Evaluate(c *fiber.Ctx) error {
	out, err := h.uc.Evaluate(c.UserContext(), tenantID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Acknowledge godoc
// @Summary      Marcar alerta como vista
// @Tags         alerts
// @Security     Bearer
// @Success      204
// @Router       /api/alerts/{id}/acknowledge [post]
func (h *AlertHandler) Acknowledge(c *fiber.Ctx) error {
	if err := h.uc.Acknowledge(c.UserContext(), tenantID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Dismiss godoc
// @Summary      Descartar alerta
// @Tags         alerts
// @Security     Bearer
// @Success      204
// @Router       /api/alerts/{id} [delete]
func (h *AlertHandler) Dismiss(c *fiber.Ctx) error {
	if err := h.uc.Dismiss(c.UserContext(), tenantID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListConfigs godoc
// @Summary      Reglas de alerta
// @Tags         alert-configs
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.AlertConfigResponse
// @Router       /api/alert-configs [get]
func (h *AlertHandler) ListConfigs(c *fiber.Ctx) error {
	out, err := h.uc.ListConfigs(c.UserContext(), tenantID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateConfig godoc
// @Summary      Crear regla de alerta
// @Tags         alert-configs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AlertConfigRequest  true  "Regla"
// @Success      201   {object}  dto.AlertConfigResponse
// @Router       /api/alert-configs [post]
func (h *AlertHandler) CreateConfig(c *fiber.Ctx) error {
	var in dto.AlertConfigRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateConfig(c.UserContext(), tenantID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateConfig godoc
// @Summary      Actualizar regla de alerta
// @Tags         alert-configs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la regla"
// @Param        body  body  dto.AlertConfigRequest  true  "Regla"
// @Success      200   {object}  dto.AlertConfigResponse
// @Router       /api/alert-configs/{id} [put]
func (h *AlertHandler) UpdateConfig(c *fiber.Ctx) error {
	var in dto.AlertConfigRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateConfig(c.UserContext(), tenantID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteConfig godoc
// @Summary      Borrar regla de alerta
// @Tags         alert-configs
// @Security     Bearer
// @Success      204
// @Router       /api/alert-configs/{id} [delete]
func (h *AlertHandler) DeleteConfig(c *fiber.Ctx) error {
	if err := h.uc.DeleteConfig(c.UserContext(), tenantID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
