package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Finanzas-api/internal/domain/tenant"
)

// TransactionType dirección del asiento.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// IsValid informa si el tipo es uno de los conocidos.
func (t TransactionType) IsValid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// TransactionStatus estado del asiento.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionCancelled TransactionStatus = "cancelled"
)

// IsValid informa si el estado es uno de los conocidos.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionPending, TransactionCompleted, TransactionCancelled:
		return true
	}
	return false
}

// Categorías emitidas por el propio núcleo.
const (
	CategoryRevenue       = "revenue"
	CategoryReimbursement = "reimbursement"
)

// Transaction asiento canónico del ledger. Todo ingreso confirmado o reembolso aprobado termina en uno.
type Transaction struct {
	ID          string
	CompanyID   string
	Type        TransactionType
	Category    string
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	Status      TransactionStatus
	MissionID   string // opcional
	AccountID   string // opcional
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WithCompanyID devuelve una copia con la empresa indicada.
func (t Transaction) WithCompanyID(companyID string) Transaction {
	t.CompanyID = companyID
	return t
}

// TenantRef pertenencia directa.
func (t *Transaction) TenantRef() tenant.Ref { return tenant.Ref{CompanyID: t.CompanyID} }
