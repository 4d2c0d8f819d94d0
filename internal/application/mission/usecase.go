// Package mission alta y aprobación de misiones.
package mission

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Finanzas-api/internal/application/dto"
	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/domain/repository"
	"github.com/jhoicas/Finanzas-api/internal/domain/tenant"
)

// UseCase casos de uso de misiones.
type UseCase struct {
	missions  repository.MissionRepository
	providers repository.ServiceProviderRepository
	now       func() time.Time
}

// New construye el caso de uso.
func New(missions repository.MissionRepository, providers repository.ServiceProviderRepository) *UseCase {
	return &UseCase{missions: missions, providers: providers, now: time.Now}
}

// Create crea una misión sin aprobar. Un proveedor sólo puede crear misiones donde él participa.
func (uc *UseCase) Create(ctx context.Context, scope tenant.Scope, in dto.CreateMissionRequest) (*dto.MissionResponse, error) {
	if scope.TenantID.IsZero() || !scope.Level.AtLeast(tenant.AccessProvider) {
		return nil, domain.ErrForbidden
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.ServiceValue.IsNegative() || in.ProviderValue.IsNegative() || in.Budget.IsNegative() {
		return nil, domain.Invalid("provider_value", "los montos no pueden ser negativos")
	}
	now := uc.now()
	m := entity.Mission{
		ID:                  uuid.New().String(),
		Title:               in.Title,
		Location:            in.Location,
		Status:              entity.MissionPlanning,
		ProviderID:          in.ProviderID,
		AssignedProviderIDs: in.AssignedProviderIDs,
		ServiceValue:        in.ServiceValue,
		ProviderValue:       in.ProviderValue,
		Budget:              in.Budget,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if scope.Level == tenant.AccessProvider && !m.Involves(scope.ProviderID) {
		return nil, domain.ErrForbidden
	}
	for _, pid := range m.ProviderIDs() {
		p, err := uc.providers.GetByIDForCompany(ctx, scope.TenantID.String(), pid)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.Invalid("provider_id", "proveedor "+pid+" no pertenece a la empresa")
		}
	}
	m = tenant.EnsureStamped(m, scope.TenantID)
	if err := uc.missions.Create(ctx, &m); err != nil {
		return nil, err
	}
	return ToResponse(&m), nil
}

// Approve aprueba la misión y fija provider_value. Sólo el dueño; aprobar dos veces es ErrConflict.
func (uc *UseCase) Approve(ctx context.Context, scope tenant.Scope, missionID string, in dto.ApproveMissionRequest) (*dto.MissionResponse, error) {
	if scope.TenantID.IsZero() || !scope.Level.AtLeast(tenant.AccessOwner) {
		return nil, domain.ErrForbidden
	}
	m, err := uc.missions.GetByIDForCompany(ctx, scope.TenantID.String(), missionID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	if m.IsApproved {
		return nil, domain.ErrConflict
	}
	value := m.ProviderValue
	if in.ProviderValue != nil {
		value = *in.ProviderValue
	}
	if value.IsNegative() {
		return nil, domain.Invalid("provider_value", "no puede ser negativo")
	}
	now := uc.now()
	ok, err := uc.missions.Approve(ctx, scope.TenantID.String(), missionID, value, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrConflict
	}
	m.IsApproved = true
	m.ProviderValue = value
	m.ApprovedAt = &now
	return ToResponse(m), nil
}

// ToResponse mapea la entidad al DTO.
func ToResponse(m *entity.Mission) *dto.MissionResponse {
	assigned := m.AssignedProviderIDs
	if assigned == nil {
		assigned = []string{}
	}
	out := &dto.MissionResponse{
		ID:                  m.ID,
		CompanyID:           m.CompanyID,
		Title:               m.Title,
		Location:            m.Location,
		Status:              string(m.Status),
		IsApproved:          m.IsApproved,
		ProviderID:          m.ProviderID,
		AssignedProviderIDs: assigned,
		ServiceValue:        m.ServiceValue,
		ProviderValue:       m.ProviderValue,
		Budget:              m.Budget,
	}
	if m.ApprovedAt != nil {
		out.ApprovedAt = m.ApprovedAt.Format(time.RFC3339)
	}
	return out
}
