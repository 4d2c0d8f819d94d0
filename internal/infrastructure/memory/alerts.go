package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/domain/repository"
)

// AlertConfigRepo implementa repository.AlertConfigRepository.
type AlertConfigRepo struct{ s *Store }

// AlertConfigs repo de reglas de alerta.
func (s *Store) AlertConfigs() *AlertConfigRepo { return &AlertConfigRepo{s: s} }

func (r *AlertConfigRepo) Create(_ context.Context, cfg *entity.AlertConfig) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.alertConfigs[cfg.ID]; exists {
		return domain.ErrConflict
	}
	r.s.alertConfigs[cfg.ID] = *cfg
	return nil
}

func (r *AlertConfigRepo) Update(_ context.Context, cfg *entity.AlertConfig) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.alertConfigs[cfg.ID]
	if !ok || cur.CompanyID != cfg.CompanyID {
		return domain.ErrNotFound
	}
	r.s.alertConfigs[cfg.ID] = *cfg
	return nil
}

func (r *AlertConfigRepo) Delete(_ context.Context, companyID, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.alertConfigs[id]
	if !ok || cur.CompanyID != companyID {
		return false, nil
	}
	delete(r.s.alertConfigs, id)
	return true, nil
}

func (r *AlertConfigRepo) GetByIDForCompany(_ context.Context, companyID, id string) (*entity.AlertConfig, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	cfg, ok := r.s.alertConfigs[id]
	if !ok || cfg.CompanyID != companyID {
		return nil, nil
	}
	return &cfg, nil
}

func (r *AlertConfigRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.AlertConfig, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.AlertConfig, 0)
	for _, cfg := range r.s.alertConfigs {
		if cfg.CompanyID != companyID {
			continue
		}
		cfg := cfg
		out = append(out, &cfg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *AlertConfigRepo) ClaimEvaluation(_ context.Context, companyID, id string, now, cutoff time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cfg, ok := r.s.alertConfigs[id]
	if !ok || cfg.CompanyID != companyID || !cfg.IsActive {
		return false, nil
	}
	if cfg.LastTriggered != nil && cfg.LastTriggered.After(cutoff) {
		return false, nil
	}
	cfg.LastTriggered = &now
	r.s.alertConfigs[id] = cfg
	return true, nil
}

// MetricsRepo implementa repository.LedgerMetricsRepository sobre los mapas del store.
type MetricsRepo struct{ s *Store }

// Metrics consultas agregadas para alertas.
func (s *Store) Metrics() *MetricsRepo { return &MetricsRepo{s: s} }

func (r *MetricsRepo) OverduePayments(_ context.Context, companyID string, asOf time.Time) (repository.PaymentAggregate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	agg := repository.PaymentAggregate{Total: decimal.Zero}
	for _, p := range r.s.payments {
		if p.CompanyID == companyID && p.IsOverdue(asOf) {
			agg.Count++
			agg.Total = agg.Total.Add(p.Amount)
		}
	}
	return agg, nil
}

func (r *MetricsRepo) UpcomingPayments(_ context.Context, companyID string, from, to time.Time) (repository.PaymentAggregate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	agg := repository.PaymentAggregate{Total: decimal.Zero}
	for _, p := range r.s.payments {
		if p.CompanyID != companyID || !p.Status.IsOutstanding() || p.DueDate == nil {
			continue
		}
		if p.DueDate.Before(from) || p.DueDate.After(to) {
			continue
		}
		agg.Count++
		agg.Total = agg.Total.Add(p.Amount)
	}
	return agg, nil
}

func (r *MetricsRepo) CompletedTotal(_ context.Context, companyID string, txType entity.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := decimal.Zero
	for _, t := range r.s.transactions {
		if t.CompanyID != companyID || t.Type != txType || t.Status != entity.TransactionCompleted {
			continue
		}
		if t.Date.Before(start) || t.Date.After(end) {
			continue
		}
		total = total.Add(t.Amount)
	}
	return total, nil
}

func (r *MetricsRepo) Balance(_ context.Context, companyID string) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := decimal.Zero
	for _, t := range r.s.transactions {
		if t.CompanyID != companyID || t.Status != entity.TransactionCompleted {
			continue
		}
		switch t.Type {
		case entity.TransactionIncome:
			total = total.Add(t.Amount)
		case entity.TransactionExpense:
			total = total.Sub(t.Amount)
		}
	}
	return total, nil
}
