package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
)

// ActiveAlertStore implementa repository.ActiveAlertStore en memoria, con expiración perezosa.
type ActiveAlertStore struct {
	mu     sync.Mutex
	alerts map[string]map[string]expiring // company → id → alerta
	now    func() time.Time
}

type expiring struct {
	alert     entity.ActiveAlert
	expiresAt time.Time
}

// NewActiveAlertStore crea el store vacío.
func NewActiveAlertStore() *ActiveAlertStore {
	return &ActiveAlertStore{alerts: make(map[string]map[string]expiring), now: time.Now}
}

func (s *ActiveAlertStore) Save(_ context.Context, alerts []entity.ActiveAlert, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := s.now().Add(ttl)
	for _, a := range alerts {
		byID, ok := s.alerts[a.CompanyID]
		if !ok {
			byID = make(map[string]expiring)
			s.alerts[a.CompanyID] = byID
		}
		byID[a.ID] = expiring{alert: a, expiresAt: exp}
	}
	return nil
}

func (s *ActiveAlertStore) List(_ context.Context, companyID string) ([]entity.ActiveAlert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	out := make([]entity.ActiveAlert, 0)
	for id, e := range s.alerts[companyID] {
		if !now.Before(e.expiresAt) {
			delete(s.alerts[companyID], id)
			continue
		}
		out = append(out, e.alert)
	}
	entity.SortActiveAlerts(out)
	return out, nil
}

func (s *ActiveAlertStore) Acknowledge(_ context.Context, companyID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.alerts[companyID][id]
	if !ok || !s.now().Before(e.expiresAt) {
		return false, nil
	}
	e.alert.Acknowledged = true
	s.alerts[companyID][id] = e
	return true, nil
}

func (s *ActiveAlertStore) Dismiss(_ context.Context, companyID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.alerts[companyID][id]; !ok {
		return false, nil
	}
	delete(s.alerts[companyID], id)
	return true, nil
}
