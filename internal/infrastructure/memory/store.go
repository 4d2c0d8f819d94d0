// Package memory implementa todos los puertos del ledger en memoria del proceso.
// Se usa en tests de casos de uso y con STORE_DRIVER=memory para desarrollo local.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Finanzas-api/internal/application/ports"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
)

// Store datos del ledger por id. Las entidades se guardan por valor: nada de lo que devuelve
// un repo comparte memoria con el estado interno.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	companies    map[string]entity.Company
	profiles     map[string]entity.Profile
	providers    map[string]entity.ServiceProvider
	missions     map[string]entity.Mission
	expenses     map[string]entity.Expense
	transactions map[string]entity.Transaction
	payments     map[string]entity.Payment
	pending      map[string]entity.PendingRevenue
	confirmed    map[string]entity.ConfirmedRevenue
	alertConfigs map[string]entity.AlertConfig
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		companies:    make(map[string]entity.Company),
		profiles:     make(map[string]entity.Profile),
		providers:    make(map[string]entity.ServiceProvider),
		missions:     make(map[string]entity.Mission),
		expenses:     make(map[string]entity.Expense),
		transactions: make(map[string]entity.Transaction),
		payments:     make(map[string]entity.Payment),
		pending:      make(map[string]entity.PendingRevenue),
		confirmed:    make(map[string]entity.ConfirmedRevenue),
		alertConfigs: make(map[string]entity.AlertConfig),
	}
}

// undoLog valores previos de las claves escritas dentro de una transacción, en orden de escritura.
// Un repo con undo nil escribe sin registrar nada.
type undoLog struct {
	steps []func()
}

// remember guarda el valor de m[id] antes de sobrescribirlo. Se llama con s.mu tomado.
func remember[V any](u *undoLog, m map[string]V, id string) {
	if u == nil {
		return
	}
	prev, existed := m[id]
	u.steps = append(u.steps, func() {
		if existed {
			m[id] = prev
			return
		}
		delete(m, id)
	})
}

func (s *Store) rollback(u *undoLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(u.steps) - 1; i >= 0; i-- {
		u.steps[i]()
	}
}

// RunLedger serializa las transacciones del ledger. Si fn falla se revierten sólo las claves
// que fn escribió; las escrituras hechas fuera de la transacción se conservan.
func (s *Store) RunLedger(ctx context.Context, fn func(repos ports.LedgerRepos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	undo := &undoLog{}
	if err := fn(s.ledgerRepos(undo)); err != nil {
		s.rollback(undo)
		return err
	}
	return nil
}

// LedgerRepos repos del ledger sin transacción.
func (s *Store) LedgerRepos() ports.LedgerRepos {
	return s.ledgerRepos(nil)
}

func (s *Store) ledgerRepos(undo *undoLog) ports.LedgerRepos {
	return ports.LedgerRepos{
		Payments:     &PaymentRepo{s: s, undo: undo},
		Transactions: &TransactionRepo{s: s, undo: undo},
		Revenues:     &RevenueRepo{s: s, undo: undo},
		Expenses:     &ExpenseRepo{s: s, undo: undo},
		Missions:     &MissionRepo{s: s, undo: undo},
	}
}

// Seed: altas directas para tests y desarrollo. Sobrescriben si el id existe.

func (s *Store) PutCompany(c entity.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[c.ID] = c
}

func (s *Store) PutProfile(p entity.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = p
}

func (s *Store) PutProvider(p entity.ServiceProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.providers[p.ID] = p
}

func (s *Store) PutMission(m entity.Mission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.missions[m.ID] = cloneMission(m)
}

func (s *Store) PutExpense(e entity.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses[e.ID] = e
}

func (s *Store) PutPayment(p entity.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[p.ID] = p
}

func (s *Store) PutTransaction(t entity.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[t.ID] = t
}

func (s *Store) PutPendingRevenue(r entity.PendingRevenue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[r.ID] = r
}

func (s *Store) PutAlertConfig(c entity.AlertConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alertConfigs[c.ID] = c
}

func cloneMission(m entity.Mission) entity.Mission {
	m.AssignedProviderIDs = append([]string(nil), m.AssignedProviderIDs...)
	return m
}
