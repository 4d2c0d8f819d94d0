package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Finanzas-api/internal/application/alert"
	"github.com/jhoicas/Finanzas-api/internal/application/balance"
	"github.com/jhoicas/Finanzas-api/internal/application/dto"
	"github.com/jhoicas/Finanzas-api/internal/application/expense"
	"github.com/jhoicas/Finanzas-api/internal/application/mission"
	"github.com/jhoicas/Finanzas-api/internal/application/orphan"
	"github.com/jhoicas/Finanzas-api/internal/application/payment"
	"github.com/jhoicas/Finanzas-api/internal/application/revenue"
	"github.com/jhoicas/Finanzas-api/internal/application/settlement"
	apptenant "github.com/jhoicas/Finanzas-api/internal/application/tenant"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Finanzas-api/internal/interfaces/http"
	"github.com/jhoicas/Finanzas-api/pkg/logger"
	"github.com/jhoicas/Finanzas-api/pkg/retry"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

// newLedgerApp arma la API completa sobre el store en memoria con dos empresas:
// A (dueño, empleado, proveedor P y P2) y B (dueño, proveedor Q).
func newLedgerApp(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	s := memory.New()
	s.PutCompany(entity.Company{ID: "A", Name: "Eventos A", Status: "active"})
	s.PutCompany(entity.Company{ID: "B", Name: "Eventos B", Status: "active"})
	s.PutProvider(entity.ServiceProvider{ID: "P", CompanyID: "A", Name: "Ana", IsActive: true})
	s.PutProvider(entity.ServiceProvider{ID: "P2", CompanyID: "A", Name: "Bruno", IsActive: true})
	s.PutProvider(entity.ServiceProvider{ID: "Q", CompanyID: "B", Name: "Carla", IsActive: true})
	s.PutProfile(entity.Profile{ID: "owner-a", CompanyID: "A", Role: entity.RoleOwner})
	s.PutProfile(entity.Profile{ID: "emp-a", CompanyID: "A", Role: entity.RoleEmployee, UserType: entity.UserTypeEmployee})
	s.PutProfile(entity.Profile{ID: "prov-p", UserType: entity.UserTypeProvider, ProviderID: "P"})
	s.PutProfile(entity.Profile{ID: "owner-b", CompanyID: "B", Role: entity.RoleOwner})

	s.PutMission(entity.Mission{ID: "m1", CompanyID: "A", Title: "Boda", IsApproved: true, ProviderID: "P", ProviderValue: dec("1000")})
	s.PutPayment(entity.Payment{ID: "jan", CompanyID: "A", ProviderID: "P", Amount: dec("300"), Type: entity.PaymentInstallment, Status: entity.PaymentPending, DueDate: day("2026-01-10")})
	s.PutPayment(entity.Payment{ID: "feb", CompanyID: "A", ProviderID: "P", Amount: dec("500"), Type: entity.PaymentInstallment, Status: entity.PaymentPending, DueDate: day("2026-02-10")})
	s.PutPendingRevenue(entity.PendingRevenue{
		ID: "r1", MissionID: "m1", ClientName: "ACME",
		TotalAmount: dec("2000"), CompanyAmount: dec("1200"), ProviderAmount: dec("800"),
		Status: entity.RevenuePending,
	})

	log := logger.Nop()
	policy := retry.Policy{Timeout: time.Second}
	guard := apptenant.NewGuard(s.Profiles(), s.Companies(), s.Providers(), s.Missions(), policy)
	settlementUC := settlement.New(s.Providers(), s.Payments(), s, policy, log)
	active := memory.NewActiveAlertStore()
	evaluator := alert.NewEvaluator(s.AlertConfigs(), s.Metrics(), active, policy, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Guard:        guard,
		BalanceUC:    balance.New(s.Providers(), s.Missions(), s.Payments(), policy),
		SettlementUC: settlementUC,
		PaymentUC:    payment.New(s.Payments(), settlementUC),
		OrphanUC:     orphan.New(s.Payments(), s.Providers(), nil, log),
		MissionUC:    mission.New(s.Missions(), s.Providers()),
		ExpenseUC:    expense.New(s.Expenses(), guard, s, log),
		RevenueUC:    revenue.New(s.Revenues(), s.Missions(), guard, s, log),
		AlertUC:      alert.NewUseCase(s.AlertConfigs(), active, evaluator),
		JWTSecret:    testJWTSecret,
		JWTIssuer:    testIssuer,
	})
	return app, s
}

func call(t *testing.T, app *fiber.App, method, path, userID string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, userID))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestAPI_SaldoProveedor(t *testing.T) {
	app, _ := newLedgerApp(t)

	resp := call(t, app, http.MethodGet, "/api/providers/P/balance", "owner-a", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	b := decode[dto.BalanceResponse](t, resp)
	assert.True(t, b.Earned.Equal(dec("1000")))
	assert.True(t, b.Paid.IsZero())
	assert.True(t, b.Current.Equal(dec("1000")))

	// El proveedor ve su saldo pero no el de otro proveedor del mismo tenant.
	resp = call(t, app, http.MethodGet, "/api/providers/P/balance", "prov-p", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = call(t, app, http.MethodGet, "/api/providers/P2/balance", "prov-p", nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Proveedor de otra empresa: no existe para este tenant.
	resp = call(t, app, http.MethodGet, "/api/providers/Q/balance", "owner-a", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAPI_PagoDeSaldoLiquidaFIFO(t *testing.T) {
	app, s := newLedgerApp(t)

	resp := call(t, app, http.MethodGet, "/api/providers/P/settlements/preview", "owner-a", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	preview := decode[dto.SettlementPreviewResponse](t, resp)
	assert.Equal(t, 2, preview.PendingCount)
	assert.True(t, preview.PendingTotal.Equal(dec("800")))

	resp = call(t, app, http.MethodPost, "/api/providers/P/balance-payments", "owner-a",
		dto.SettleRequest{Amount: dec("600"), PaymentDate: "2026-03-01"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	res := decode[dto.SettlementResponse](t, resp)
	assert.Equal(t, []string{"jan"}, res.Liquidated)
	assert.True(t, res.Remainder.Equal(dec("300")))
	assert.NotEmpty(t, res.PaymentID)

	jan, err := s.Payments().GetByIDForCompany(t.Context(), "A", "jan")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCompleted, jan.Status)
	assert.Equal(t, res.PaymentID, jan.SettledByID)

	resp = call(t, app, http.MethodGet, "/api/providers/P/balance", "owner-a", nil)
	b := decode[dto.BalanceResponse](t, resp)
	assert.True(t, b.Paid.Equal(dec("600")), "la cuota liquidada no se cuenta dos veces")
	assert.True(t, b.Current.Equal(dec("400")))
}

func TestAPI_PagoDeSaldo_Errores(t *testing.T) {
	app, _ := newLedgerApp(t)

	resp := call(t, app, http.MethodPost, "/api/providers/P/balance-payments", "owner-a", dto.SettleRequest{Amount: dec("0")})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	e := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Equal(t, "amount", e.Field)

	// Sólo el dueño liquida.
	resp = call(t, app, http.MethodPost, "/api/providers/P/balance-payments", "emp-a", dto.SettleRequest{Amount: dec("100")})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// El dueño de B no alcanza proveedores de A.
	resp = call(t, app, http.MethodPost, "/api/providers/P/balance-payments", "owner-b", dto.SettleRequest{Amount: dec("100")})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAPI_ConfirmarIngreso(t *testing.T) {
	app, _ := newLedgerApp(t)
	body := dto.ConfirmRevenueRequest{AccountID: "acc-1", AccountType: "bank", PaymentMethod: "pix", ReceivedDate: "2026-03-05"}

	// Otro tenant no ve el pendiente.
	resp := call(t, app, http.MethodPost, "/api/revenues/pending/r1/confirm", "owner-b", body)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/revenues/pending/r1/confirm", "owner-a", body)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	confirmed := decode[dto.ConfirmedRevenueResponse](t, resp)
	assert.Equal(t, "r1", confirmed.PendingRevenueID)
	assert.NotEmpty(t, confirmed.TransactionID)

	resp = call(t, app, http.MethodPost, "/api/revenues/pending/r1/confirm", "owner-a", body)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/revenues/confirmed", "emp-a", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decode[[]dto.ConfirmedRevenueResponse](t, resp)
	assert.Len(t, list, 1)
}

func TestAPI_Huerfanos(t *testing.T) {
	app, s := newLedgerApp(t)
	s.PutPayment(entity.Payment{ID: "o1", CompanyID: "A", ProviderID: "X", Amount: dec("50"), Type: entity.PaymentFull, Status: entity.PaymentPending, Description: "Pago a Bruno"})

	resp := call(t, app, http.MethodGet, "/api/payments/orphans", "owner-a", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	orphans := decode[[]dto.PaymentResponse](t, resp)
	require.Len(t, orphans, 1)
	assert.Equal(t, "o1", orphans[0].ID)

	resp = call(t, app, http.MethodPost, "/api/payments/orphans/repair", "owner-a", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	repaired := decode[dto.OrphanRepairResponse](t, resp)
	assert.Equal(t, 1, repaired.FixedCount)
	assert.Equal(t, "P2", repaired.Fixed[0].ProviderID)

	resp = call(t, app, http.MethodGet, "/api/payments/orphans", "owner-b", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]dto.PaymentResponse](t, resp))
}

func TestAPI_AlertasPorTenant(t *testing.T) {
	app, s := newLedgerApp(t)
	s.PutPayment(entity.Payment{ID: "late", CompanyID: "A", ProviderID: "P", Amount: dec("90"), Type: entity.PaymentFull, Status: entity.PaymentOverdue, DueDate: day("2020-01-01")})

	resp := call(t, app, http.MethodPost, "/api/alert-configs", "owner-a",
		dto.AlertConfigRequest{Name: "Vencidos", Type: "payment"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/alerts/evaluate", "emp-a", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	alerts := decode[[]dto.ActiveAlertResponse](t, resp)
	require.NotEmpty(t, alerts)

	resp = call(t, app, http.MethodGet, "/api/alerts", "owner-b", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]dto.ActiveAlertResponse](t, resp))

	resp = call(t, app, http.MethodPost, "/api/alerts/"+alerts[0].ID+"/acknowledge", "emp-a", nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp = call(t, app, http.MethodDelete, "/api/alerts/"+alerts[0].ID, "owner-b", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
