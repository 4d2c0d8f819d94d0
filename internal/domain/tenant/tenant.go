// Package tenant define la frontera de aislamiento multi-empresa: identificador de tenant ya resuelto,
// niveles de acceso y el sellado de registros antes de insertarlos.
//
// Los casos de uso reciben siempre un ID resuelto por el Guard (internal/application/tenant),
// nunca un perfil crudo.
package tenant

// ID identifica una empresa (tenant) ya validada por el Guard.
type ID string

// String devuelve el id como string plano (para queries y logs).
func (id ID) String() string { return string(id) }

// IsZero informa si el id está vacío.
func (id ID) IsZero() bool { return id == "" }

// AccessLevel nivel de acceso ordenado: none < provider < employee < owner.
type AccessLevel int

const (
	AccessNone AccessLevel = iota
	AccessProvider
	AccessEmployee
	AccessOwner
)

func (l AccessLevel) String() string {
	switch l {
	case AccessProvider:
		return "provider"
	case AccessEmployee:
		return "employee"
	case AccessOwner:
		return "owner"
	default:
		return "none"
	}
}

// AtLeast informa si el nivel cubre el mínimo requerido.
func (l AccessLevel) AtLeast(min AccessLevel) bool { return l >= min }

// Scope resultado de resolver un perfil: tenant, nivel y, para proveedores, su provider id.
type Scope struct {
	TenantID   ID
	UserID     string
	Level      AccessLevel
	ProviderID string // sólo cuando Level == AccessProvider
}

// CanActOnProvider informa si el scope puede operar sobre el proveedor indicado.
// Un proveedor sólo puede ver lo suyo; empleados y dueños ven todo el tenant.
func (s Scope) CanActOnProvider(providerID string) bool {
	if s.Level == AccessProvider {
		return s.ProviderID != "" && s.ProviderID == providerID
	}
	return s.Level.AtLeast(AccessEmployee)
}

// Ref referencia de tenant de un registro. CompanyID es la pertenencia directa;
// MissionID se usa cuando la pertenencia es transitiva (gasto, ingreso pendiente).
type Ref struct {
	CompanyID string
	MissionID string
}

// Owned lo implementan las entidades del ledger para que el Guard calcule su tenant efectivo.
type Owned interface {
	TenantRef() Ref
}

// Stampable lo implementan las entidades con company_id directo.
// WithCompanyID devuelve una copia, nunca muta el receptor.
type Stampable[T any] interface {
	WithCompanyID(companyID string) T
}

// EnsureStamped devuelve una copia del registro con company_id forzado al tenant,
// de modo que un caller no pueda insertar con el id de otra empresa.
func EnsureStamped[T Stampable[T]](record T, id ID) T {
	return record.WithCompanyID(id.String())
}
