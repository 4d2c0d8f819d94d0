// Package alert evalúa reglas de alerta por tenant contra el estado del ledger y publica
// alertas activas sin duplicarlas dentro de la ventana de frecuencia de cada regla.
package alert

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/domain/ledger"
	"github.com/jhoicas/Finanzas-api/internal/domain/repository"
	"github.com/jhoicas/Finanzas-api/internal/domain/tenant"
	"github.com/jhoicas/Finanzas-api/pkg/logger"
	"github.com/jhoicas/Finanzas-api/pkg/retry"
)

// Evaluator aplica las reglas vencidas de un tenant.
type Evaluator struct {
	configs repository.AlertConfigRepository
	metrics repository.LedgerMetricsRepository
	alerts  repository.ActiveAlertStore
	policy  retry.Policy
	log     *logger.Logger
}

// NewEvaluator construye el evaluador. log puede ser nil.
func NewEvaluator(configs repository.AlertConfigRepository, metrics repository.LedgerMetricsRepository, alerts repository.ActiveAlertStore, policy retry.Policy, log *logger.Logger) *Evaluator {
	if log == nil {
		log = logger.Nop()
	}
	policy.Retryable = func(err error) bool { return errors.Is(err, domain.ErrStore) }
	return &Evaluator{configs: configs, metrics: metrics, alerts: alerts, policy: policy, log: log.Component("alert_evaluator")}
}

// Evaluate evalúa las reglas activas cuya ventana venció y devuelve las alertas emitidas.
// Cada regla se reclama antes de evaluarse (last_triggered = now), haya o no alerta; si otro
// evaluador la tomó en la misma ventana se salta. Un fallo en una regla no corta las demás.
func (e *Evaluator) Evaluate(ctx context.Context, id tenant.ID, now time.Time) ([]entity.ActiveAlert, error) {
	if id.IsZero() {
		return nil, domain.ErrForbidden
	}
	var configs []*entity.AlertConfig
	err := e.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		configs, err = e.configs.ListByCompany(ctx, id.String())
		return err
	})
	if err != nil {
		return nil, err
	}
	due := make([]*entity.AlertConfig, 0, len(configs))
	for _, cfg := range configs {
		if cfg.IsDue(now) {
			due = append(due, cfg)
		}
	}
	emitted := make([]entity.ActiveAlert, 0)
	if len(due) == 0 {
		return emitted, nil
	}

	snap, err := e.snapshot(ctx, id, now)
	if err != nil {
		return nil, err
	}

	for _, cfg := range due {
		alerts, err := e.evaluateOne(ctx, id, cfg, snap, now)
		if err != nil {
			e.log.Error().Err(err).Str("company_id", id.String()).Str("config_id", cfg.ID).Msg("evaluación de regla fallida")
			continue
		}
		emitted = append(emitted, alerts...)
	}
	if len(emitted) > 0 {
		e.log.Info().Str("company_id", id.String()).Int("rules", len(due)).Int("alerts", len(emitted)).Msg("alertas emitidas")
	}
	return emitted, nil
}

func (e *Evaluator) evaluateOne(ctx context.Context, id tenant.ID, cfg *entity.AlertConfig, snap ledger.Snapshot, now time.Time) ([]entity.ActiveAlert, error) {
	window := cfg.Frequency.Interval()
	claimed, err := e.configs.ClaimEvaluation(ctx, id.String(), cfg.ID, now, now.Add(-window))
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, nil
	}

	upcoming := ledger.PaymentTotals{Total: decimal.Zero}
	if cfg.Type == entity.AlertPayment && cfg.DaysAdvance > 0 {
		var agg repository.PaymentAggregate
		err := e.policy.Do(ctx, func(ctx context.Context) error {
			var err error
			agg, err = e.metrics.UpcomingPayments(ctx, id.String(), now, now.AddDate(0, 0, cfg.DaysAdvance))
			return err
		})
		if err != nil {
			return nil, err
		}
		upcoming = ledger.PaymentTotals{Count: agg.Count, Total: agg.Total}
	}

	findings := ledger.EvaluateRule(cfg, snap, upcoming)
	if len(findings) == 0 {
		return nil, nil
	}
	alerts := make([]entity.ActiveAlert, 0, len(findings))
	for _, f := range findings {
		alerts = append(alerts, entity.ActiveAlert{
			ID:        cfg.ID + ":" + f.Kind,
			CompanyID: id.String(),
			ConfigID:  cfg.ID,
			Type:      cfg.Type,
			Kind:      f.Kind,
			Priority:  f.Priority,
			Title:     f.Title,
			Message:   f.Message,
			Count:     f.Count,
			Amount:    f.Amount,
			CreatedAt: now,
		})
	}
	if err := e.alerts.Save(ctx, alerts, window); err != nil {
		return nil, err
	}
	return alerts, nil
}

// snapshot consulta en paralelo las métricas del tenant.
func (e *Evaluator) snapshot(ctx context.Context, id tenant.ID, now time.Time) (ledger.Snapshot, error) {
	snap := ledger.Snapshot{AsOf: now}
	start, end := ledger.MonthRange(now)
	company := id.String()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return e.policy.Do(gctx, func(ctx context.Context) error {
			agg, err := e.metrics.OverduePayments(ctx, company, now)
			snap.Overdue = ledger.PaymentTotals{Count: agg.Count, Total: agg.Total}
			return err
		})
	})
	g.Go(func() error {
		return e.policy.Do(gctx, func(ctx context.Context) error {
			var err error
			snap.MonthlyIncome, err = e.metrics.CompletedTotal(ctx, company, entity.TransactionIncome, start, end)
			return err
		})
	})
	g.Go(func() error {
		return e.policy.Do(gctx, func(ctx context.Context) error {
			var err error
			snap.MonthlyExpenses, err = e.metrics.CompletedTotal(ctx, company, entity.TransactionExpense, start, end)
			return err
		})
	})
	g.Go(func() error {
		return e.policy.Do(gctx, func(ctx context.Context) error {
			var err error
			snap.Balance, err = e.metrics.Balance(ctx, company)
			return err
		})
	})
	if err := g.Wait(); err != nil {
		return ledger.Snapshot{}, err
	}
	return snap, nil
}
