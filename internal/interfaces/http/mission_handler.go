package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Finanzas-api/internal/application/dto"
	"github.com/jhoicas/Finanzas-api/internal/application/expense"
	"github.com/jhoicas/Finanzas-api/internal/application/mission"
)

// MissionHandler misiones y reembolso de gastos.
type MissionHandler struct {
	missions *mission.UseCase
	expenses *expense.UseCase
}

// NewMissionHandler construye el handler.
func NewMissionHandler(m *mission.UseCase, e *expense.UseCase) *MissionHandler {
	return &MissionHandler{missions: m, expenses: e}
}

// Create godoc
// @Summary      Crear misión
// @Tags         missions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMissionRequest  true  "Misión"
// @Success      201   {object}  dto.MissionResponse
// @Router       /api/missions [post]
func (h *MissionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMissionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	scope, _ := GetScope(c)
	out, err := h.missions.Create(c.UserContext(), scope, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Approve godoc
// @Summary      Aprobar misión
// @Tags         missions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la misión"
// @Param        body  body  dto.ApproveMissionRequest  false "Valor del proveedor"
// @Success      200   {object}  dto.MissionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/missions/{id}/approve [post]
func (h *MissionHandler) Approve(c *fiber.Ctx) error {
	var in dto.ApproveMissionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	scope, _ := GetScope(c)
	out, err := h.missions.Approve(c.UserContext(), scope, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reimburse godoc
// @Summary      Reembolsar gasto aprobado
// @Tags         expenses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del gasto"
// @Param        body  body  dto.ReimburseExpenseRequest  false "Cuenta y fecha"
// @Success      200   {object}  dto.ReimburseResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/expenses/{id}/reimburse [post]
func (h *MissionHandler) Reimburse(c *fiber.Ctx) error {
	var in dto.ReimburseExpenseRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.expenses.Reimburse(c.UserContext(), tenantID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
