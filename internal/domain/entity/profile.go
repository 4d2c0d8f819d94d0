package entity

import (
	"time"

	"github.com/jhoicas/Finanzas-api/internal/domain/tenant"
)

// Role rol del perfil dentro de la empresa.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleEmployee Role = "employee"
)

// IsValid informa si el rol es uno de los conocidos.
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleEmployee:
		return true
	}
	return false
}

// UserType tipo de usuario.
type UserType string

const (
	UserTypeAdmin    UserType = "admin"
	UserTypeEmployee UserType = "employee"
	UserTypeProvider UserType = "provider"
)

// IsValid informa si el tipo es uno de los conocidos.
func (t UserType) IsValid() bool {
	switch t {
	case UserTypeAdmin, UserTypeEmployee, UserTypeProvider:
		return true
	}
	return false
}

// Profile representa un usuario del sistema. CompanyID puede venir vacío:
// los proveedores resuelven su empresa a través de su ServiceProvider.
type Profile struct {
	ID         string
	CompanyID  string
	Name       string
	Email      string
	Role       Role
	UserType   UserType
	ProviderID string // sólo si UserType == provider
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AccessLevel deriva el nivel de acceso del perfil sin consultar la base de datos.
// El Guard es el único que debe llamarlo.
func (p *Profile) AccessLevel() tenant.AccessLevel {
	if p == nil {
		return tenant.AccessNone
	}
	switch {
	case p.UserType == UserTypeProvider:
		if p.ProviderID == "" {
			return tenant.AccessNone
		}
		return tenant.AccessProvider
	case p.Role == RoleOwner || p.UserType == UserTypeAdmin:
		return tenant.AccessOwner
	case p.Role == RoleEmployee || p.UserType == UserTypeEmployee:
		return tenant.AccessEmployee
	}
	return tenant.AccessNone
}
