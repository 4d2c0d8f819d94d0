package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
)

// Tipos de hallazgo (Kind de ActiveAlert).
const (
	KindOverdue  = "overdue"
	KindUpcoming = "upcoming"
	KindGoal     = "goal"
	KindCashflow = "cashflow"
	KindExpense  = "expense"
)

var half = decimal.NewFromFloat(0.5)

// PaymentTotals conteo y suma de un grupo de pagos.
type PaymentTotals struct {
	Count int
	Total decimal.Decimal
}

// Snapshot estado del ledger de un tenant en un instante, ya agregado.
type Snapshot struct {
	AsOf            time.Time
	Overdue         PaymentTotals
	MonthlyIncome   decimal.Decimal
	MonthlyExpenses decimal.Decimal
	Balance         decimal.Decimal
}

// Finding alerta candidata producida por una regla.
type Finding struct {
	Kind     string
	Priority entity.AlertPriority
	Title    string
	Message  string
	Count    int
	Amount   decimal.Decimal
}

// EvaluateRule aplica una regla al snapshot. Devuelve cero, uno o (payment) dos hallazgos.
// upcoming son los pagos que vencen dentro de cfg.DaysAdvance días.
func EvaluateRule(cfg *entity.AlertConfig, snap Snapshot, upcoming PaymentTotals) []Finding {
	if cfg == nil {
		return nil
	}
	op := cfg.EffectiveOperator()
	switch cfg.Type {
	case entity.AlertPayment:
		return paymentFindings(cfg, op, snap, upcoming)
	case entity.AlertGoal:
		return goalFindings(cfg, op, snap)
	case entity.AlertCashflow:
		if !op.Holds(snap.Balance, cfg.Threshold) {
			return nil
		}
		return []Finding{{
			Kind:     KindCashflow,
			Priority: entity.PriorityHigh,
			Title:    "Saldo de caja bajo",
			Message:  fmt.Sprintf("El saldo total (%s) está por debajo del mínimo configurado (%s)", snap.Balance.StringFixed(2), cfg.Threshold.StringFixed(2)),
			Amount:   snap.Balance,
		}}
	case entity.AlertExpense:
		if !op.Holds(snap.MonthlyExpenses, cfg.Threshold) {
			return nil
		}
		return []Finding{{
			Kind:     KindExpense,
			Priority: entity.PriorityMedium,
			Title:    "Gastos del mes sobre el límite",
			Message:  fmt.Sprintf("Los gastos del mes (%s) superan el límite configurado (%s)", snap.MonthlyExpenses.StringFixed(2), cfg.Threshold.StringFixed(2)),
			Amount:   snap.MonthlyExpenses,
		}}
	}
	return nil
}

func paymentFindings(cfg *entity.AlertConfig, op entity.ConditionOperator, snap Snapshot, upcoming PaymentTotals) []Finding {
	var out []Finding
	if snap.Overdue.Count > 0 && op.Holds(decimal.NewFromInt(int64(snap.Overdue.Count)), cfg.Threshold) {
		out = append(out, Finding{
			Kind:     KindOverdue,
			Priority: entity.PriorityHigh,
			Title:    "Pagos vencidos",
			Message:  fmt.Sprintf("%d pagos vencidos por un total de %s", snap.Overdue.Count, snap.Overdue.Total.StringFixed(2)),
			Count:    snap.Overdue.Count,
			Amount:   snap.Overdue.Total,
		})
	}
	if cfg.DaysAdvance > 0 && upcoming.Count > 0 {
		out = append(out, Finding{
			Kind:     KindUpcoming,
			Priority: entity.PriorityMedium,
			Title:    "Pagos próximos a vencer",
			Message:  fmt.Sprintf("%d pagos vencen en los próximos %d días (%s)", upcoming.Count, cfg.DaysAdvance, upcoming.Total.StringFixed(2)),
			Count:    upcoming.Count,
			Amount:   upcoming.Total,
		})
	}
	return out
}

// goalFindings ingreso mensual bajo la meta; debajo del 50% de la meta la severidad es alta.
func goalFindings(cfg *entity.AlertConfig, op entity.ConditionOperator, snap Snapshot) []Finding {
	target := cfg.Threshold
	if !target.IsPositive() || !op.Holds(snap.MonthlyIncome, target) {
		return nil
	}
	priority := entity.PriorityMedium
	if snap.MonthlyIncome.Div(target).LessThan(half) {
		priority = entity.PriorityHigh
	}
	return []Finding{{
		Kind:     KindGoal,
		Priority: priority,
		Title:    "Meta de ingresos en riesgo",
		Message: fmt.Sprintf("Ingresos del mes %s de una meta de %s (faltan %s)",
			snap.MonthlyIncome.StringFixed(2), target.StringFixed(2), target.Sub(snap.MonthlyIncome).StringFixed(2)),
		Amount: snap.MonthlyIncome,
	}}
}

// MonthRange inicio del mes de t y fin del día de t (misma convención que el dashboard).
func MonthRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	dayStart := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, dayStart.Add(24*time.Hour - time.Nanosecond)
}
