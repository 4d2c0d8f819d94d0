// Package ledger contiene los servicios de dominio puros del ledger de proveedores:
// reparto de valor de misiones, cálculo de saldos, plan de liquidación FIFO y reglas de alertas.
// No hace I/O; los casos de uso le pasan los datos ya filtrados por tenant.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
)

// Epsilon tolerancia de redondeo para comparar montos (0.01 unidad monetaria).
var Epsilon = decimal.New(1, -2)

// Balance saldo derivado de un proveedor. Nunca se persiste como total cacheado.
type Balance struct {
	Earned  decimal.Decimal // suma de cuotas en misiones aprobadas
	Paid    decimal.Decimal // suma de pagos completed que cuentan como desembolso
	Current decimal.Decimal // Earned - Paid
	Pending decimal.Decimal // proyección sobre misiones no aprobadas
}

// ProviderShare cuota del proveedor en una misión.
// Principal: provider_value completo. Asignado (no principal): provider_value / N,
// con N = cantidad de asignados, sin distinguir roles.
func ProviderShare(m *entity.Mission, providerID string) decimal.Decimal {
	if m == nil || providerID == "" {
		return decimal.Zero
	}
	if m.ProviderID == providerID {
		return m.ProviderValue
	}
	n := len(m.AssignedProviderIDs)
	if n == 0 || !m.Involves(providerID) {
		return decimal.Zero
	}
	return m.ProviderValue.Div(decimal.NewFromInt(int64(n)))
}

// Earned suma las cuotas del proveedor en misiones aprobadas; ignora las no aprobadas.
func Earned(missions []*entity.Mission, providerID string) decimal.Decimal {
	total := decimal.Zero
	for _, m := range missions {
		if m == nil || !m.IsApproved {
			continue
		}
		total = total.Add(ProviderShare(m, providerID))
	}
	return total
}

// ProjectedPending suma las cuotas sobre misiones aún no aprobadas (no es deuda exigible).
func ProjectedPending(missions []*entity.Mission, providerID string) decimal.Decimal {
	total := decimal.Zero
	for _, m := range missions {
		if m == nil || m.IsApproved {
			continue
		}
		total = total.Add(ProviderShare(m, providerID))
	}
	return total
}

// Paid suma los pagos que cuentan como desembolso al proveedor.
func Paid(payments []*entity.Payment, providerID string) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p == nil || p.ProviderID != providerID || !p.CountsAsPaid() {
			continue
		}
		total = total.Add(p.Amount)
	}
	return total
}

// ComputeBalance arma el saldo completo. Es determinista: mismos datos, mismo resultado.
func ComputeBalance(approved, unapproved []*entity.Mission, payments []*entity.Payment, providerID string) Balance {
	earned := Earned(approved, providerID)
	paid := Paid(payments, providerID)
	return Balance{
		Earned:  earned,
		Paid:    paid,
		Current: earned.Sub(paid),
		Pending: ProjectedPending(unapproved, providerID),
	}
}

// WithinEpsilon informa si |a - b| <= Epsilon.
func WithinEpsilon(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Epsilon)
}
