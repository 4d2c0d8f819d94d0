package alert

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/domain/repository"
	"github.com/jhoicas/Finanzas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Finanzas-api/pkg/retry"
)

var now = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func seedOverdue(s *memory.Store, company string, n int) {
	due := now.AddDate(0, 0, -10)
	for i := 0; i < n; i++ {
		s.PutPayment(entity.Payment{
			ID: company + "-over-" + string(rune('a'+i)), CompanyID: company, ProviderID: "P",
			Amount: decimal.NewFromInt(100), Type: entity.PaymentInstallment, Status: entity.PaymentPending, DueDate: &due,
		})
	}
}

func paymentRule(id, company string) entity.AlertConfig {
	return entity.AlertConfig{ID: id, CompanyID: company, Name: "Vencidos", Type: entity.AlertPayment,
		IsActive: true, Frequency: entity.FrequencyDaily, Threshold: decimal.NewFromInt(3)}
}

func newEvaluator(s *memory.Store, configs repository.AlertConfigRepository) (*Evaluator, *memory.ActiveAlertStore) {
	active := memory.NewActiveAlertStore()
	if configs == nil {
		configs = s.AlertConfigs()
	}
	return NewEvaluator(configs, s.Metrics(), active, retry.Default(), nil), active
}

func TestEvaluate_VencidosSobreUmbralEmiteUnaAlertaAlta(t *testing.T) {
	s := memory.New()
	seedOverdue(s, "A", 5)
	s.PutAlertConfig(paymentRule("cfg1", "A"))
	ev, _ := newEvaluator(s, nil)

	alerts, err := ev.Evaluate(context.Background(), "A", now)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, entity.PriorityHigh, alerts[0].Priority)
	assert.Equal(t, 5, alerts[0].Count)
	assert.True(t, decimal.NewFromInt(500).Equal(alerts[0].Amount))
	assert.Contains(t, alerts[0].Message, "5")

	again, err := ev.Evaluate(context.Background(), "A", now.Add(10*time.Second))
	require.NoError(t, err)
	assert.Empty(t, again, "dentro de la ventana diaria no se repite")

	cfg, err := s.AlertConfigs().GetByIDForCompany(context.Background(), "A", "cfg1")
	require.NoError(t, err)
	require.NotNil(t, cfg.LastTriggered)
	assert.True(t, now.Equal(*cfg.LastTriggered))
}

func TestEvaluate_ActualizaLastTriggeredAunSinAlerta(t *testing.T) {
	s := memory.New()
	seedOverdue(s, "A", 1)
	s.PutAlertConfig(paymentRule("cfg1", "A"))
	ev, _ := newEvaluator(s, nil)

	alerts, err := ev.Evaluate(context.Background(), "A", now)
	require.NoError(t, err)
	assert.Empty(t, alerts)

	cfg, err := s.AlertConfigs().GetByIDForCompany(context.Background(), "A", "cfg1")
	require.NoError(t, err)
	require.NotNil(t, cfg.LastTriggered)
}

func TestEvaluate_NuevaVentanaVuelveAEvaluar(t *testing.T) {
	s := memory.New()
	seedOverdue(s, "A", 5)
	s.PutAlertConfig(paymentRule("cfg1", "A"))
	ev, _ := newEvaluator(s, nil)

	_, err := ev.Evaluate(context.Background(), "A", now)
	require.NoError(t, err)
	alerts, err := ev.Evaluate(context.Background(), "A", now.Add(25*time.Hour))
	require.NoError(t, err)
	assert.Len(t, alerts, 1)
}

func TestEvaluate_NoMezclaTenants(t *testing.T) {
	s := memory.New()
	seedOverdue(s, "B", 10)
	s.PutAlertConfig(paymentRule("cfg1", "A"))
	ev, active := newEvaluator(s, nil)

	alerts, err := ev.Evaluate(context.Background(), "A", now)
	require.NoError(t, err)
	assert.Empty(t, alerts)

	listB, err := active.List(context.Background(), "B")
	require.NoError(t, err)
	assert.Empty(t, listB)
}

func TestEvaluate_ConcurrentesNoDuplican(t *testing.T) {
	s := memory.New()
	seedOverdue(s, "A", 5)
	s.PutAlertConfig(paymentRule("cfg1", "A"))
	ev, active := newEvaluator(s, nil)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
	)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			alerts, err := ev.Evaluate(context.Background(), "A", now)
			if assert.NoError(t, err) {
				mu.Lock()
				total += len(alerts)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, total)

	list, err := active.List(context.Background(), "A")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

// flakyConfigs falla al reclamar una regla puntual.
type flakyConfigs struct {
	repository.AlertConfigRepository
	failID string
}

func (f flakyConfigs) ClaimEvaluation(ctx context.Context, companyID, id string, now, cutoff time.Time) (bool, error) {
	if id == f.failID {
		return false, domain.StoreError("alert_configs.claim", errors.New("timeout"))
	}
	return f.AlertConfigRepository.ClaimEvaluation(ctx, companyID, id, now, cutoff)
}

func TestEvaluate_FalloEnUnaReglaNoCortaLasDemas(t *testing.T) {
	s := memory.New()
	seedOverdue(s, "A", 5)
	s.PutAlertConfig(paymentRule("bad", "A"))
	s.PutAlertConfig(paymentRule("good", "A"))
	ev, _ := newEvaluator(s, flakyConfigs{AlertConfigRepository: s.AlertConfigs(), failID: "bad"})

	alerts, err := ev.Evaluate(context.Background(), "A", now)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "good", alerts[0].ConfigID)
}

func TestEvaluate_ProximosVencimientos(t *testing.T) {
	s := memory.New()
	soon := now.AddDate(0, 0, 3)
	s.PutPayment(entity.Payment{ID: "soon", CompanyID: "A", ProviderID: "P", Amount: decimal.NewFromInt(250),
		Type: entity.PaymentInstallment, Status: entity.PaymentPending, DueDate: &soon})
	rule := paymentRule("cfg1", "A")
	rule.DaysAdvance = 7
	s.PutAlertConfig(rule)
	ev, _ := newEvaluator(s, nil)

	alerts, err := ev.Evaluate(context.Background(), "A", now)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "upcoming", alerts[0].Kind)
	assert.Equal(t, entity.PriorityMedium, alerts[0].Priority)
}

func TestEvaluate_FlujoDeCaja(t *testing.T) {
	s := memory.New()
	s.PutTransaction(entity.Transaction{ID: "t1", CompanyID: "A", Type: entity.TransactionIncome, Amount: decimal.NewFromInt(100), Status: entity.TransactionCompleted, Date: now})
	s.PutTransaction(entity.Transaction{ID: "t2", CompanyID: "A", Type: entity.TransactionExpense, Amount: decimal.NewFromInt(400), Status: entity.TransactionCompleted, Date: now})
	s.PutAlertConfig(entity.AlertConfig{ID: "cash", CompanyID: "A", Type: entity.AlertCashflow, IsActive: true,
		Frequency: entity.FrequencyWeekly, Threshold: decimal.NewFromInt(0)})
	ev, _ := newEvaluator(s, nil)

	alerts, err := ev.Evaluate(context.Background(), "A", now)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "cashflow", alerts[0].Kind)
	assert.True(t, decimal.NewFromInt(-300).Equal(alerts[0].Amount))
}

func TestEvaluate_ReglaInactivaNoSeEvalua(t *testing.T) {
	s := memory.New()
	seedOverdue(s, "A", 5)
	rule := paymentRule("cfg1", "A")
	rule.IsActive = false
	s.PutAlertConfig(rule)
	ev, _ := newEvaluator(s, nil)

	alerts, err := ev.Evaluate(context.Background(), "A", now)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}
