package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Finanzas-api/internal/domain/tenant"
)

// ExpenseStatus estado del gasto de viaje.
type ExpenseStatus string

const (
	ExpensePending    ExpenseStatus = "pending"
	ExpenseApproved   ExpenseStatus = "approved"
	ExpenseReimbursed ExpenseStatus = "reimbursed"
)

// IsValid informa si el estado es uno de los conocidos.
func (s ExpenseStatus) IsValid() bool {
	switch s {
	case ExpensePending, ExpenseApproved, ExpenseReimbursed:
		return true
	}
	return false
}

// Expense gasto de viaje de un empleado asociado a una misión.
// Su tenant efectivo es el de la misión.
type Expense struct {
	ID            string
	CompanyID     string
	MissionID     string
	EmployeeID    string
	Category      string
	Amount        decimal.Decimal
	InvoiceAmount *decimal.Decimal
	IsAdvanced    bool
	Status        ExpenseStatus
	ReimbursedAt  *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TenantRef pertenencia transitiva por misión (y directa si la fila la trae).
func (e *Expense) TenantRef() tenant.Ref {
	return tenant.Ref{CompanyID: e.CompanyID, MissionID: e.MissionID}
}

// ReimbursableAmount monto a reembolsar: el de la factura si existe, si no el declarado.
func (e *Expense) ReimbursableAmount() decimal.Decimal {
	if e.InvoiceAmount != nil && e.InvoiceAmount.GreaterThan(decimal.Zero) {
		return *e.InvoiceAmount
	}
	return e.Amount
}
