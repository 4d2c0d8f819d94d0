package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/domain/ledger"
)

func TestEvaluateRule_PagosVencidosSobreUmbral(t *testing.T) {
	cfg := &entity.AlertConfig{Type: entity.AlertPayment, Threshold: d("3"), IsActive: true}
	snap := ledger.Snapshot{Overdue: ledger.PaymentTotals{Count: 5, Total: d("2500")}}

	findings := ledger.EvaluateRule(cfg, snap, ledger.PaymentTotals{})

	require.Len(t, findings, 1)
	assert.Equal(t, ledger.KindOverdue, findings[0].Kind)
	assert.Equal(t, entity.PriorityHigh, findings[0].Priority)
	assert.Equal(t, 5, findings[0].Count)
	assert.Contains(t, findings[0].Message, "2500.00")
}

func TestEvaluateRule_PagosVencidosBajoUmbral(t *testing.T) {
	cfg := &entity.AlertConfig{Type: entity.AlertPayment, Threshold: d("3")}
	snap := ledger.Snapshot{Overdue: ledger.PaymentTotals{Count: 2, Total: d("10")}}

	assert.Empty(t, ledger.EvaluateRule(cfg, snap, ledger.PaymentTotals{}))
}

func TestEvaluateRule_PagosProximos(t *testing.T) {
	cfg := &entity.AlertConfig{Type: entity.AlertPayment, Threshold: d("10"), DaysAdvance: 7}

	findings := ledger.EvaluateRule(cfg, ledger.Snapshot{}, ledger.PaymentTotals{Count: 2, Total: d("90")})

	require.Len(t, findings, 1)
	assert.Equal(t, ledger.KindUpcoming, findings[0].Kind)
	assert.Equal(t, entity.PriorityMedium, findings[0].Priority)
}

func TestEvaluateRule_MetaSeveridadSegunFaltante(t *testing.T) {
	cfg := &entity.AlertConfig{Type: entity.AlertGoal, Threshold: d("10000")}

	high := ledger.EvaluateRule(cfg, ledger.Snapshot{MonthlyIncome: d("4000")}, ledger.PaymentTotals{})
	medium := ledger.EvaluateRule(cfg, ledger.Snapshot{MonthlyIncome: d("8000")}, ledger.PaymentTotals{})
	none := ledger.EvaluateRule(cfg, ledger.Snapshot{MonthlyIncome: d("12000")}, ledger.PaymentTotals{})

	require.Len(t, high, 1)
	assert.Equal(t, entity.PriorityHigh, high[0].Priority)
	require.Len(t, medium, 1)
	assert.Equal(t, entity.PriorityMedium, medium[0].Priority)
	assert.Empty(t, none)
}

func TestEvaluateRule_CajaYGastos(t *testing.T) {
	cash := &entity.AlertConfig{Type: entity.AlertCashflow, Threshold: d("1000")}
	exp := &entity.AlertConfig{Type: entity.AlertExpense, Threshold: d("5000")}
	snap := ledger.Snapshot{Balance: d("200"), MonthlyExpenses: d("7000")}

	c := ledger.EvaluateRule(cash, snap, ledger.PaymentTotals{})
	e := ledger.EvaluateRule(exp, snap, ledger.PaymentTotals{})

	require.Len(t, c, 1)
	assert.Equal(t, entity.PriorityHigh, c[0].Priority)
	require.Len(t, e, 1)
	assert.Equal(t, entity.PriorityMedium, e[0].Priority)
}

func TestAlertConfig_IsDue(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-10 * time.Second)
	old := now.Add(-25 * time.Hour)

	assert.True(t, (&entity.AlertConfig{IsActive: true, Frequency: entity.FrequencyDaily}).IsDue(now))
	assert.False(t, (&entity.AlertConfig{IsActive: true, Frequency: entity.FrequencyDaily, LastTriggered: &recent}).IsDue(now))
	assert.True(t, (&entity.AlertConfig{IsActive: true, Frequency: entity.FrequencyDaily, LastTriggered: &old}).IsDue(now))
	assert.False(t, (&entity.AlertConfig{IsActive: false}).IsDue(now))
}
