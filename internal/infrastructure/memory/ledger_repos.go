package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/domain/ledger"
)

// MissionRepo implementa repository.MissionRepository.
type MissionRepo struct {
	s    *Store
	undo *undoLog
}

// Missions repo de misiones.
func (s *Store) Missions() *MissionRepo { return &MissionRepo{s: s} }

func (r *MissionRepo) Create(_ context.Context, m *entity.Mission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.missions[m.ID]; exists {
		return domain.ErrConflict
	}
	remember(r.undo, r.s.missions, m.ID)
	r.s.missions[m.ID] = cloneMission(*m)
	return nil
}

func (r *MissionRepo) GetByIDForCompany(_ context.Context, companyID, id string) (*entity.Mission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.missions[id]
	if !ok || m.CompanyID != companyID {
		return nil, nil
	}
	m = cloneMission(m)
	return &m, nil
}

func (r *MissionRepo) ListByProvider(_ context.Context, companyID, providerID string, approved bool) ([]*entity.Mission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Mission, 0)
	for _, m := range r.s.missions {
		if m.CompanyID != companyID || m.IsApproved != approved || !m.Involves(providerID) {
			continue
		}
		m = cloneMission(m)
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MissionRepo) Approve(_ context.Context, companyID, id string, providerValue decimal.Decimal, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.missions[id]
	if !ok || m.CompanyID != companyID || m.IsApproved {
		return false, nil
	}
	m.IsApproved = true
	m.ProviderValue = providerValue
	m.ApprovedAt = &at
	m.UpdatedAt = at
	remember(r.undo, r.s.missions, id)
	r.s.missions[id] = m
	return true, nil
}

func (r *MissionRepo) GetOwner(_ context.Context, missionID string) (string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.missions[missionID].CompanyID, nil
}

// ExpenseRepo implementa repository.ExpenseRepository.
type ExpenseRepo struct {
	s    *Store
	undo *undoLog
}

// Expenses repo de gastos.
func (s *Store) Expenses() *ExpenseRepo { return &ExpenseRepo{s: s} }

func (r *ExpenseRepo) GetByID(_ context.Context, id string) (*entity.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.expenses[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r *ExpenseRepo) TransitionStatus(_ context.Context, id string, from, to entity.ExpenseStatus, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.expenses[id]
	if !ok || e.Status != from {
		return false, nil
	}
	e.Status = to
	e.UpdatedAt = at
	if to == entity.ExpenseReimbursed {
		e.ReimbursedAt = &at
	}
	remember(r.undo, r.s.expenses, id)
	r.s.expenses[id] = e
	return true, nil
}

// TransactionRepo implementa repository.TransactionRepository.
type TransactionRepo struct {
	s    *Store
	undo *undoLog
}

// Transactions repo de asientos.
func (s *Store) Transactions() *TransactionRepo { return &TransactionRepo{s: s} }

func (r *TransactionRepo) Create(_ context.Context, t *entity.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.transactions[t.ID]; exists {
		return domain.ErrConflict
	}
	remember(r.undo, r.s.transactions, t.ID)
	r.s.transactions[t.ID] = *t
	return nil
}

func (r *TransactionRepo) GetByIDForCompany(_ context.Context, companyID, id string) (*entity.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.transactions[id]
	if !ok || t.CompanyID != companyID {
		return nil, nil
	}
	return &t, nil
}

// PaymentRepo implementa repository.PaymentRepository.
type PaymentRepo struct {
	s    *Store
	undo *undoLog
}

// Payments repo de pagos.
func (s *Store) Payments() *PaymentRepo { return &PaymentRepo{s: s} }

func (r *PaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.payments[p.ID]; exists {
		return domain.ErrConflict
	}
	remember(r.undo, r.s.payments, p.ID)
	r.s.payments[p.ID] = *p
	return nil
}

func (r *PaymentRepo) GetByIDForCompany(_ context.Context, companyID, id string) (*entity.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.payments[id]
	if !ok || p.CompanyID != companyID {
		return nil, nil
	}
	return &p, nil
}

func (r *PaymentRepo) ListByProvider(_ context.Context, companyID, providerID string) ([]*entity.Payment, error) {
	return r.list(func(p entity.Payment) bool {
		return p.CompanyID == companyID && p.ProviderID == providerID
	}), nil
}

func (r *PaymentRepo) ListOutstandingByProvider(_ context.Context, companyID, providerID string) ([]*entity.Payment, error) {
	out := r.list(func(p entity.Payment) bool {
		return p.CompanyID == companyID && p.ProviderID == providerID && p.Status.IsOutstanding()
	})
	ledger.SortOldestFirst(out)
	return out, nil
}

// LockProvider no-op: RunLedger ya serializa todas las transacciones.
func (r *PaymentRepo) LockProvider(_ context.Context, _, _ string) error { return nil }

func (r *PaymentRepo) MarkCompleted(_ context.Context, companyID string, ids []string, paymentDate time.Time, settledByID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, id := range ids {
		p, ok := r.s.payments[id]
		if !ok || p.CompanyID != companyID || !p.Status.IsOutstanding() {
			continue
		}
		date := paymentDate
		p.Status = entity.PaymentCompleted
		p.PaymentDate = &date
		p.SettledByID = settledByID
		p.UpdatedAt = paymentDate
		remember(r.undo, r.s.payments, id)
		r.s.payments[id] = p
		n++
	}
	return n, nil
}

func (r *PaymentRepo) ListWithoutValidProvider(_ context.Context, companyID string) ([]*entity.Payment, error) {
	// keep corre con el RLock de list tomado
	out := r.list(func(p entity.Payment) bool {
		if p.CompanyID != companyID {
			return false
		}
		if !p.HasProviderRef() {
			return true
		}
		owner, ok := r.s.providers[p.ProviderID]
		return !ok || owner.CompanyID != companyID
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *PaymentRepo) AssignProvider(_ context.Context, companyID, paymentID, providerID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[paymentID]
	if !ok || p.CompanyID != companyID {
		return false, nil
	}
	if owner, exists := r.s.providers[p.ProviderID]; p.HasProviderRef() && exists && owner.CompanyID == companyID {
		return false, nil
	}
	p.ProviderID = providerID
	remember(r.undo, r.s.payments, paymentID)
	r.s.payments[paymentID] = p
	return true, nil
}

func (r *PaymentRepo) list(keep func(entity.Payment) bool) []*entity.Payment {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Payment, 0)
	for _, p := range r.s.payments {
		if !keep(p) {
			continue
		}
		p := p
		out = append(out, &p)
	}
	return out
}

// RevenueRepo implementa repository.RevenueRepository.
type RevenueRepo struct {
	s    *Store
	undo *undoLog
}

// Revenues repo de ingresos.
func (s *Store) Revenues() *RevenueRepo { return &RevenueRepo{s: s} }

func (r *RevenueRepo) CreatePending(_ context.Context, rev *entity.PendingRevenue) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.pending[rev.ID]; exists {
		return domain.ErrConflict
	}
	remember(r.undo, r.s.pending, rev.ID)
	r.s.pending[rev.ID] = *rev
	return nil
}

func (r *RevenueRepo) GetPendingByID(_ context.Context, id string) (*entity.PendingRevenue, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rev, ok := r.s.pending[id]
	if !ok {
		return nil, nil
	}
	return &rev, nil
}

func (r *RevenueRepo) ListPending(_ context.Context, companyID string) ([]*entity.PendingRevenue, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.PendingRevenue, 0)
	for _, rev := range r.s.pending {
		if rev.Status != entity.RevenuePending || r.s.missions[rev.MissionID].CompanyID != companyID {
			continue
		}
		rev := rev
		out = append(out, &rev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *RevenueRepo) TransitionPending(_ context.Context, id string, from, to entity.RevenueStatus, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rev, ok := r.s.pending[id]
	if !ok || rev.Status != from {
		return false, nil
	}
	rev.Status = to
	rev.UpdatedAt = at
	remember(r.undo, r.s.pending, id)
	r.s.pending[id] = rev
	return true, nil
}

func (r *RevenueRepo) CreateConfirmed(_ context.Context, rev *entity.ConfirmedRevenue) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.confirmed {
		if c.PendingRevenueID == rev.PendingRevenueID {
			return domain.ErrConflict
		}
	}
	remember(r.undo, r.s.confirmed, rev.ID)
	r.s.confirmed[rev.ID] = *rev
	return nil
}

func (r *RevenueRepo) ListConfirmed(_ context.Context, companyID string) ([]*entity.ConfirmedRevenue, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.ConfirmedRevenue, 0)
	for _, rev := range r.s.confirmed {
		if r.s.missions[rev.MissionID].CompanyID != companyID {
			continue
		}
		rev := rev
		out = append(out, &rev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceivedDate.After(out[j].ReceivedDate) })
	return out, nil
}
