package entity

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Finanzas-api/internal/domain/tenant"
)

// AlertType familia de regla.
type AlertType string

const (
	AlertPayment  AlertType = "payment"
	AlertGoal     AlertType = "goal"
	AlertCashflow AlertType = "cashflow"
	AlertExpense  AlertType = "expense"
)

// IsValid informa si el tipo es uno de los conocidos.
func (t AlertType) IsValid() bool {
	switch t {
	case AlertPayment, AlertGoal, AlertCashflow, AlertExpense:
		return true
	}
	return false
}

// DefaultOperator comparación por defecto de cada familia.
func (t AlertType) DefaultOperator() ConditionOperator {
	switch t {
	case AlertPayment:
		return OperatorGTE
	case AlertExpense:
		return OperatorGT
	default:
		return OperatorLT
	}
}

// AlertFrequency ventana de re-evaluación.
type AlertFrequency string

const (
	FrequencyDaily   AlertFrequency = "daily"
	FrequencyWeekly  AlertFrequency = "weekly"
	FrequencyMonthly AlertFrequency = "monthly"
)

// IsValid informa si la frecuencia es una de las conocidas.
func (f AlertFrequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// Interval duración de la ventana.
func (f AlertFrequency) Interval() time.Duration {
	switch f {
	case FrequencyWeekly:
		return 7 * 24 * time.Hour
	case FrequencyMonthly:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// ConditionOperator comparación entre la métrica y el umbral.
type ConditionOperator string

const (
	OperatorGT  ConditionOperator = "gt"
	OperatorGTE ConditionOperator = "gte"
	OperatorLT  ConditionOperator = "lt"
	OperatorLTE ConditionOperator = "lte"
)

// IsValid informa si el operador es uno de los conocidos.
func (o ConditionOperator) IsValid() bool {
	switch o {
	case OperatorGT, OperatorGTE, OperatorLT, OperatorLTE:
		return true
	}
	return false
}

// Holds evalúa "metric <op> threshold".
func (o ConditionOperator) Holds(metric, threshold decimal.Decimal) bool {
	switch o {
	case OperatorGT:
		return metric.GreaterThan(threshold)
	case OperatorGTE:
		return metric.GreaterThanOrEqual(threshold)
	case OperatorLT:
		return metric.LessThan(threshold)
	case OperatorLTE:
		return metric.LessThanOrEqual(threshold)
	}
	return false
}

// AlertPriority severidad de la alerta emitida.
type AlertPriority string

const (
	PriorityLow    AlertPriority = "low"
	PriorityMedium AlertPriority = "medium"
	PriorityHigh   AlertPriority = "high"
)

// AlertConfig regla definida por el usuario, persistida por tenant.
type AlertConfig struct {
	ID            string
	CompanyID     string
	Name          string
	Type          AlertType
	IsActive      bool
	Frequency     AlertFrequency
	Operator      ConditionOperator
	Threshold     decimal.Decimal
	DaysAdvance   int // sólo payment: aviso de vencimientos próximos
	LastTriggered *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// WithCompanyID devuelve una copia con la empresa indicada.
func (a AlertConfig) WithCompanyID(companyID string) AlertConfig {
	a.CompanyID = companyID
	return a
}

// TenantRef pertenencia directa.
func (a *AlertConfig) TenantRef() tenant.Ref { return tenant.Ref{CompanyID: a.CompanyID} }

// EffectiveOperator operador configurado o el de la familia.
func (a *AlertConfig) EffectiveOperator() ConditionOperator {
	if a.Operator.IsValid() {
		return a.Operator
	}
	return a.Type.DefaultOperator()
}

// IsDue idle → due cuando está activa y pasó la ventana desde la última evaluación.
func (a *AlertConfig) IsDue(now time.Time) bool {
	if !a.IsActive {
		return false
	}
	if a.LastTriggered == nil {
		return true
	}
	return now.Sub(*a.LastTriggered) > a.Frequency.Interval()
}

// ActiveAlert alerta efímera derivada; no forma parte del ledger durable.
type ActiveAlert struct {
	ID           string
	CompanyID    string
	ConfigID     string
	Type         AlertType
	Kind         string // overdue, upcoming, goal, cashflow, expense
	Priority     AlertPriority
	Title        string
	Message      string
	Count        int
	Amount       decimal.Decimal
	CreatedAt    time.Time
	Acknowledged bool
}

var priorityRank = map[AlertPriority]int{PriorityHigh: 0, PriorityMedium: 1, PriorityLow: 2}

// SortActiveAlerts prioridad alta primero, luego las más recientes.
func SortActiveAlerts(alerts []ActiveAlert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		ri, rj := priorityRank[alerts[i].Priority], priorityRank[alerts[j].Priority]
		if ri != rj {
			return ri < rj
		}
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
}
