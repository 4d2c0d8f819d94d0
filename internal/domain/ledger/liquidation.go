package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
)

// LiquidationPlan resultado de repartir un monto sobre pagos pendientes.
type LiquidationPlan struct {
	Covered   []*entity.Payment // pagos que pasan a completed
	Untouched []*entity.Payment // siguen pendientes
	Total     decimal.Decimal   // suma de Covered
	Remainder decimal.Decimal   // monto - Total; sin destino, queda como crédito
}

// CoveredIDs ids de los pagos cubiertos, en orden de liquidación.
func (p LiquidationPlan) CoveredIDs() []string {
	ids := make([]string, 0, len(p.Covered))
	for _, c := range p.Covered {
		ids = append(ids, c.ID)
	}
	return ids
}

// SortOldestFirst ordena por vencimiento ascendente; sin vencimiento al final, luego por creación.
func SortOldestFirst(payments []*entity.Payment) {
	sort.SliceStable(payments, func(i, j int) bool {
		a, b := payments[i], payments[j]
		switch {
		case a.DueDate != nil && b.DueDate != nil:
			if !a.DueDate.Equal(*b.DueDate) {
				return a.DueDate.Before(*b.DueDate)
			}
		case a.DueDate != nil:
			return true
		case b.DueDate != nil:
			return false
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

// PlanLiquidation FIFO: acumula pagos pendientes del más antiguo al más nuevo mientras la suma
// no supere amount. El primer pago que no entra corta la pasada; nunca se liquida una fila a medias.
// Invariante: Total <= amount.
func PlanLiquidation(amount decimal.Decimal, outstanding []*entity.Payment) LiquidationPlan {
	candidates := outstandingOnly(outstanding)
	SortOldestFirst(candidates)

	plan := LiquidationPlan{Total: decimal.Zero}
	stopped := false
	for _, p := range candidates {
		next := plan.Total.Add(p.Amount)
		if stopped || next.GreaterThan(amount) {
			stopped = true
			plan.Untouched = append(plan.Untouched, p)
			continue
		}
		plan.Total = next
		plan.Covered = append(plan.Covered, p)
	}
	plan.Remainder = amount.Sub(plan.Total)
	return plan
}

// SettlementPlan plan de liquidación manual con la comparación contra el total pendiente.
type SettlementPlan struct {
	LiquidationPlan
	PendingTotal decimal.Decimal
	Difference   decimal.Decimal // amount - PendingTotal, con signo
	FullMatch    bool            // amount coincide con PendingTotal dentro de Epsilon
}

// PlanSettlement si amount coincide con el total pendiente (±Epsilon) liquida todo;
// si no, procede igual en orden FIFO hasta amount y expone la diferencia con signo.
// En la coincidencia completa Total puede superar amount hasta Epsilon (Remainder negativo);
// es la única excepción a Total <= amount.
func PlanSettlement(amount decimal.Decimal, outstanding []*entity.Payment) SettlementPlan {
	candidates := outstandingOnly(outstanding)
	pendingTotal := decimal.Zero
	for _, p := range candidates {
		pendingTotal = pendingTotal.Add(p.Amount)
	}
	out := SettlementPlan{
		PendingTotal: pendingTotal,
		Difference:   amount.Sub(pendingTotal),
		FullMatch:    len(candidates) > 0 && WithinEpsilon(amount, pendingTotal),
	}
	if out.FullMatch {
		SortOldestFirst(candidates)
		out.Covered = candidates
		out.Total = pendingTotal
		out.Remainder = amount.Sub(pendingTotal)
		return out
	}
	out.LiquidationPlan = PlanLiquidation(amount, candidates)
	return out
}

func outstandingOnly(payments []*entity.Payment) []*entity.Payment {
	out := make([]*entity.Payment, 0, len(payments))
	for _, p := range payments {
		if p != nil && p.Status.IsOutstanding() {
			out = append(out, p)
		}
	}
	return out
}
