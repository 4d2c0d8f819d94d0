package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Finanzas-api/internal/application/dto"
	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/tenant"
	apphttp "github.com/jhoicas/Finanzas-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Finanzas-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "finanzas-api-test"
	testExpMin    = 60
)

// fakeResolver resuelve scopes desde un mapa fijo; un usuario ausente es acceso denegado.
type fakeResolver struct {
	scopes map[string]tenant.Scope
	err    error
}

func (f fakeResolver) ResolveUser(_ context.Context, userID string) (tenant.Scope, error) {
	if f.err != nil {
		return tenant.Scope{}, f.err
	}
	s, ok := f.scopes[userID]
	if !ok {
		return tenant.Scope{}, domain.ErrForbidden
	}
	return s, nil
}

// buildTestApp app mínima: JWT → tenant → nivel mínimo → handler dummy.
func buildTestApp(resolver fakeResolver, min tenant.AccessLevel) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, testIssuer),
		apphttp.TenantMiddleware(resolver),
		apphttp.RequireAccess(min),
		func(c *fiber.Ctx) error {
			scope, _ := apphttp.GetScope(c)
			return c.JSON(fiber.Map{"tenant": scope.TenantID.String(), "level": scope.Level.String()})
		},
	)
	return app
}

func bearer(t *testing.T, userID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out), "body: %s", body)
	return out
}

var testScopes = fakeResolver{scopes: map[string]tenant.Scope{
	"owner":    {TenantID: "A", UserID: "owner", Level: tenant.AccessOwner},
	"employee": {TenantID: "A", UserID: "employee", Level: tenant.AccessEmployee},
	"provider": {TenantID: "A", UserID: "provider", Level: tenant.AccessProvider, ProviderID: "P"},
}}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_Token(t *testing.T) {
	app := buildTestApp(testScopes, tenant.AccessProvider)

	otherSecret, err := pkgjwt.Generate("otro-secreto", "owner", testIssuer, testExpMin)
	require.NoError(t, err)
	otherIssuer, err := pkgjwt.Generate(testJWTSecret, "owner", "otro-issuer", testExpMin)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"sin prefijo Bearer", "Token abc", "INVALID_TOKEN"},
		{"token basura", "Bearer no.es.jwt", "INVALID_TOKEN"},
		{"firmado con otro secreto", "Bearer " + otherSecret, "INVALID_TOKEN"},
		{"issuer distinto", "Bearer " + otherIssuer, "INVALID_TOKEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, app, tt.header)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tt.code, decodeError(t, resp).Code)
		})
	}
}

func TestAuthMiddleware_BearerInsensibleAMayusculas(t *testing.T) {
	app := buildTestApp(testScopes, tenant.AccessProvider)
	tok, err := pkgjwt.Generate(testJWTSecret, "owner", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "bearer "+tok)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// TenantMiddleware + RequireAccess
// ──────────────────────────────────────────────────────────────────────────────

func TestTenantMiddleware_PerfilDesconocido(t *testing.T) {
	app := buildTestApp(testScopes, tenant.AccessProvider)

	resp := doRequest(t, app, bearer(t, "fantasma"))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Code)
}

func TestTenantMiddleware_StoreCaido(t *testing.T) {
	app := buildTestApp(fakeResolver{err: domain.StoreError("profile.get", io.ErrUnexpectedEOF)}, tenant.AccessProvider)

	resp := doRequest(t, app, bearer(t, "owner"))
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "STORE_UNAVAILABLE", decodeError(t, resp).Code)
}

func TestRequireAccess_Niveles(t *testing.T) {
	tests := []struct {
		min    tenant.AccessLevel
		user   string
		status int
	}{
		{tenant.AccessOwner, "owner", fiber.StatusOK},
		{tenant.AccessOwner, "employee", fiber.StatusForbidden},
		{tenant.AccessOwner, "provider", fiber.StatusForbidden},
		{tenant.AccessEmployee, "employee", fiber.StatusOK},
		{tenant.AccessEmployee, "provider", fiber.StatusForbidden},
		{tenant.AccessProvider, "provider", fiber.StatusOK},
		{tenant.AccessProvider, "owner", fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.min.String()+"/"+tt.user, func(t *testing.T) {
			app := buildTestApp(testScopes, tt.min)
			resp := doRequest(t, app, bearer(t, tt.user))
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestTenantMiddleware_DejaScopeEnLocals(t *testing.T) {
	app := buildTestApp(testScopes, tenant.AccessProvider)

	resp := doRequest(t, app, bearer(t, "provider"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "A", body["tenant"])
	assert.Equal(t, "provider", body["level"])
}
