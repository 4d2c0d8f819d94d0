package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
)

// CompanyRepo implementa repository.CompanyRepository.
type CompanyRepo struct{ s *Store }

// Companies repo de empresas.
func (s *Store) Companies() *CompanyRepo { return &CompanyRepo{s: s} }

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CompanyRepo) ListActiveIDs(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := make([]string, 0, len(r.s.companies))
	for id, c := range r.s.companies {
		if c.Status == "" || c.Status == "active" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// ProfileRepo implementa repository.ProfileRepository.
type ProfileRepo struct{ s *Store }

// Profiles repo de perfiles.
func (s *Store) Profiles() *ProfileRepo { return &ProfileRepo{s: s} }

func (r *ProfileRepo) GetByID(_ context.Context, id string) (*entity.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// ProviderRepo implementa repository.ServiceProviderRepository.
type ProviderRepo struct{ s *Store }

// Providers repo de proveedores.
func (s *Store) Providers() *ProviderRepo { return &ProviderRepo{s: s} }

func (r *ProviderRepo) GetByIDForCompany(_ context.Context, companyID, id string) (*entity.ServiceProvider, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.providers[id]
	if !ok || p.CompanyID != companyID {
		return nil, nil
	}
	return &p, nil
}

func (r *ProviderRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.ServiceProvider, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.ServiceProvider, 0)
	for _, p := range r.s.providers {
		if p.CompanyID != companyID {
			continue
		}
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ProviderRepo) GetOwner(_ context.Context, providerID string) (string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.providers[providerID].CompanyID, nil
}
