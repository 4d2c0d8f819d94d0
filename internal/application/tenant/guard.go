// Package tenant implementa el Guard de aislamiento: único punto que convierte un perfil en un
// tenant resuelto y que verifica la pertenencia efectiva de un registro.
package tenant

import (
	"context"
	"errors"

	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/domain/repository"
	"github.com/jhoicas/Finanzas-api/internal/domain/tenant"
	"github.com/jhoicas/Finanzas-api/pkg/retry"
)

// Guard resuelve tenants y valida pertenencia. AccessDenied (domain.ErrForbidden) es fatal
// para la operación que llama: nunca hay fallback a consultas sin filtro.
type Guard struct {
	profiles  repository.ProfileRepository
	companies repository.CompanyRepository
	providers repository.ServiceProviderRepository
	missions  repository.MissionRepository
	policy    retry.Policy
}

// NewGuard construye el Guard. Las lecturas usan timeout acotado y un único reintento ante fallos del store.
func NewGuard(
	profiles repository.ProfileRepository,
	companies repository.CompanyRepository,
	providers repository.ServiceProviderRepository,
	missions repository.MissionRepository,
	policy retry.Policy,
) *Guard {
	policy.Retryable = func(err error) bool { return errors.Is(err, domain.ErrStore) }
	return &Guard{
		profiles:  profiles,
		companies: companies,
		providers: providers,
		missions:  missions,
		policy:    policy,
	}
}

// ResolveUser carga el perfil del usuario autenticado y lo resuelve.
func (g *Guard) ResolveUser(ctx context.Context, userID string) (tenant.Scope, error) {
	if userID == "" {
		return tenant.Scope{}, domain.ErrForbidden
	}
	var profile *entity.Profile
	err := g.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		profile, err = g.profiles.GetByID(ctx, userID)
		return err
	})
	if err != nil {
		return tenant.Scope{}, err
	}
	if profile == nil {
		return tenant.Scope{}, domain.ErrForbidden
	}
	return g.ResolveTenant(ctx, profile)
}

// ResolveTenant deriva el tenant del perfil.
// Proveedores: a través de ServiceProvider → Company, nunca por un company_id directo.
// Resto: company_id del perfil, que debe existir y estar activa.
func (g *Guard) ResolveTenant(ctx context.Context, profile *entity.Profile) (tenant.Scope, error) {
	level := profile.AccessLevel()
	if level == tenant.AccessNone {
		return tenant.Scope{}, domain.ErrForbidden
	}

	if level == tenant.AccessProvider {
		var companyID string
		err := g.policy.Do(ctx, func(ctx context.Context) error {
			var err error
			companyID, err = g.providers.GetOwner(ctx, profile.ProviderID)
			return err
		})
		if err != nil {
			return tenant.Scope{}, err
		}
		if companyID == "" {
			return tenant.Scope{}, domain.ErrForbidden
		}
		return tenant.Scope{
			TenantID:   tenant.ID(companyID),
			UserID:     profile.ID,
			Level:      level,
			ProviderID: profile.ProviderID,
		}, nil
	}

	if profile.CompanyID == "" {
		return tenant.Scope{}, domain.ErrForbidden
	}
	var company *entity.Company
	err := g.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		company, err = g.companies.GetByID(ctx, profile.CompanyID)
		return err
	})
	if err != nil {
		return tenant.Scope{}, err
	}
	if company == nil || (company.Status != "" && company.Status != "active") {
		return tenant.Scope{}, domain.ErrForbidden
	}
	return tenant.Scope{TenantID: tenant.ID(company.ID), UserID: profile.ID, Level: level}, nil
}

// Owns informa si el tenant efectivo del registro es id.
// Para entidades sin company_id directo (gasto, ingreso pendiente) se calcula por la misión.
func (g *Guard) Owns(ctx context.Context, record tenant.Owned, id tenant.ID) (bool, error) {
	if record == nil || id.IsZero() {
		return false, nil
	}
	ref := record.TenantRef()
	if ref.CompanyID == "" && ref.MissionID == "" {
		return false, nil
	}
	if ref.CompanyID != "" && ref.CompanyID != id.String() {
		return false, nil
	}
	if ref.MissionID == "" {
		return true, nil
	}
	var owner string
	err := g.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		owner, err = g.missions.GetOwner(ctx, ref.MissionID)
		return err
	})
	if err != nil {
		return false, err
	}
	return owner != "" && owner == id.String(), nil
}

// AssertOwnership como Owns pero devuelve domain.ErrNotFound si el registro no es del tenant:
// un id ajeno responde igual que uno inexistente.
func (g *Guard) AssertOwnership(ctx context.Context, record tenant.Owned, id tenant.ID) error {
	ok, err := g.Owns(ctx, record, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// Require valida el nivel mínimo del scope.
func Require(scope tenant.Scope, min tenant.AccessLevel) error {
	if scope.TenantID.IsZero() || !scope.Level.AtLeast(min) {
		return domain.ErrForbidden
	}
	return nil
}
