package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Finanzas-api/internal/application/alert"
	"github.com/jhoicas/Finanzas-api/internal/application/balance"
	"github.com/jhoicas/Finanzas-api/internal/application/expense"
	"github.com/jhoicas/Finanzas-api/internal/application/mission"
	"github.com/jhoicas/Finanzas-api/internal/application/orphan"
	"github.com/jhoicas/Finanzas-api/internal/application/payment"
	"github.com/jhoicas/Finanzas-api/internal/application/revenue"
	"github.com/jhoicas/Finanzas-api/internal/application/settlement"
	"github.com/jhoicas/Finanzas-api/internal/domain/tenant"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Guard        tenantResolver
	BalanceUC    *balance.UseCase
	SettlementUC *settlement.UseCase
	PaymentUC    *payment.UseCase
	OrphanUC     *orphan.UseCase
	MissionUC    *mission.UseCase
	ExpenseUC    *expense.UseCase
	RevenueUC    *revenue.UseCase
	AlertUC      *alert.UseCase
	JWTSecret    string
	JWTIssuer    string
}

// Router registra las rutas de la API. Todo /api pasa por JWT y resolución de tenant.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer), TenantMiddleware(deps.Guard))

	provider := RequireAccess(tenant.AccessProvider)
	employee := RequireAccess(tenant.AccessEmployee)
	owner := RequireAccess(tenant.AccessOwner)

	// Proveedores: saldo y liquidación
	ledger := NewLedgerHandler(deps.BalanceUC, deps.SettlementUC, deps.PaymentUC, deps.OrphanUC)
	providers := api.Group("/providers/:id")
	providers.Get("/balance", provider, ledger.GetBalance)
	providers.Post("/balance/recalculate", employee, ledger.Recalculate)
	providers.Get("/payments", provider, ledger.ListPayments)
	providers.Get("/settlements/preview", owner, ledger.PreviewSettlement)
	providers.Post("/balance-payments", owner, ledger.PayBalance)
	providers.Post("/settlements", owner, ledger.Settle)

	payments := api.Group("/payments", owner)
	payments.Post("/", ledger.CreatePayment)
	payments.Get("/orphans", ledger.ListOrphans)
	payments.Post("/orphans/repair", ledger.RepairOrphans)

	// Misiones y gastos
	missions := NewMissionHandler(deps.MissionUC, deps.ExpenseUC)
	api.Post("/missions", provider, missions.Create)
	api.Post("/missions/:id/approve", owner, missions.Approve)
	api.Post("/expenses/:id/reimburse", owner, missions.Reimburse)

	// Ingresos
	revenues := NewRevenueHandler(deps.RevenueUC)
	api.Get("/revenues/pending", employee, revenues.ListPending)
	api.Post("/revenues/pending", employee, revenues.CreatePending)
	api.Post("/revenues/pending/:id/confirm", owner, revenues.Confirm)
	api.Post("/revenues/pending/:id/cancel", owner, revenues.Cancel)
	api.Get("/revenues/confirmed", employee, revenues.ListConfirmed)

	// Alertas
	alerts := NewAlertHandler(deps.AlertUC)
	active := api.Group("/alerts", employee)
	active.Get("/", alerts.ListActive)
	active.Post("/evaluate", alerts.Evaluate)
	active.Post("/:id/acknowledge", alerts.Acknowledge)
	active.Delete("/:id", alerts.Dismiss)

	configs := api.Group("/alert-configs", owner)
	configs.Get("/", alerts.ListConfigs)
	configs.Post("/", alerts.CreateConfig)
	configs.Put("/:id", alerts.UpdateConfig)
	configs.Delete("/:id", alerts.DeleteConfig)
}
