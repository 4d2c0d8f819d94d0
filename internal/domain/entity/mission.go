package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Finanzas-api/internal/domain/tenant"
)

// MissionStatus estado operativo de la misión.
type MissionStatus string

const (
	MissionPlanning   MissionStatus = "planning"
	MissionInProgress MissionStatus = "in_progress"
	MissionCompleted  MissionStatus = "completed"
)

// IsValid informa si el estado es uno de los conocidos.
func (s MissionStatus) IsValid() bool {
	switch s {
	case MissionPlanning, MissionInProgress, MissionCompleted:
		return true
	}
	return false
}

// Mission trabajo facturable. ProviderValue sólo cuenta para saldos liquidables cuando IsApproved;
// mientras no esté aprobada sólo alimenta la proyección de saldo pendiente.
type Mission struct {
	ID                  string
	CompanyID           string
	Title               string
	Location            string
	Status              MissionStatus
	IsApproved          bool
	ProviderID          string   // proveedor principal (puede ir vacío)
	AssignedProviderIDs []string // proveedores secundarios asignados
	ServiceValue        decimal.Decimal
	ProviderValue       decimal.Decimal
	Budget              decimal.Decimal
	TotalExpenses       decimal.Decimal
	ApprovedAt          *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// WithCompanyID devuelve una copia con la empresa indicada.
func (m Mission) WithCompanyID(companyID string) Mission {
	m.CompanyID = companyID
	m.AssignedProviderIDs = append([]string(nil), m.AssignedProviderIDs...)
	return m
}

// TenantRef pertenencia directa.
func (m *Mission) TenantRef() tenant.Ref { return tenant.Ref{CompanyID: m.CompanyID} }

// Involves informa si el proveedor es principal o está en la lista de asignados.
func (m *Mission) Involves(providerID string) bool {
	if providerID == "" {
		return false
	}
	if m.ProviderID == providerID {
		return true
	}
	for _, id := range m.AssignedProviderIDs {
		if id == providerID {
			return true
		}
	}
	return false
}

// ProviderIDs devuelve principal + asignados sin duplicados (para validar pertenencia al tenant).
func (m *Mission) ProviderIDs() []string {
	seen := make(map[string]struct{}, len(m.AssignedProviderIDs)+1)
	out := make([]string, 0, len(m.AssignedProviderIDs)+1)
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	add(m.ProviderID)
	for _, id := range m.AssignedProviderIDs {
		add(id)
	}
	return out
}
