package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Finanzas-api/internal/domain/tenant"
)

// PaymentType tipo de pago a proveedor.
type PaymentType string

const (
	PaymentFull           PaymentType = "full"
	PaymentInstallment    PaymentType = "installment"
	PaymentAdvance        PaymentType = "advance"
	PaymentBalancePayment PaymentType = "balance_payment"
)

// IsValid informa si el tipo es uno de los conocidos.
func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentFull, PaymentInstallment, PaymentAdvance, PaymentBalancePayment:
		return true
	}
	return false
}

// TriggersLiquidation informa si registrar un pago de este tipo liquida los pendientes del proveedor.
func (t PaymentType) TriggersLiquidation() bool {
	return t == PaymentBalancePayment || t == PaymentAdvance
}

// PaymentStatus estado del pago.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPartial   PaymentStatus = "partial"
	PaymentCompleted PaymentStatus = "completed"
	PaymentOverdue   PaymentStatus = "overdue"
	PaymentCancelled PaymentStatus = "cancelled"
)

// IsValid informa si el estado es uno de los conocidos.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPartial, PaymentCompleted, PaymentOverdue, PaymentCancelled:
		return true
	}
	return false
}

// IsOutstanding informa si el pago sigue siendo una obligación liquidable.
func (s PaymentStatus) IsOutstanding() bool {
	return s == PaymentPending || s == PaymentPartial
}

// IsTerminal completed y cancelled no admiten más transiciones.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentCompleted || s == PaymentCancelled
}

// Payment obligación o desembolso de la empresa hacia un proveedor.
// ProviderID vacío o inválido convierte al pago en huérfano.
type Payment struct {
	ID          string
	CompanyID   string
	ProviderID  string
	Amount      decimal.Decimal
	Type        PaymentType
	Status      PaymentStatus
	Description string
	DueDate     *time.Time
	PaymentDate *time.Time
	// SettledByID id del pago de saldo/adelanto que liquidó esta fila (vacío si se pagó por sí misma).
	SettledByID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WithCompanyID devuelve una copia con la empresa indicada.
func (p Payment) WithCompanyID(companyID string) Payment {
	p.CompanyID = companyID
	return p
}

// TenantRef pertenencia directa.
func (p *Payment) TenantRef() tenant.Ref { return tenant.Ref{CompanyID: p.CompanyID} }

// HasProviderRef informa si la fila trae algún provider id (no valida que exista).
func (p *Payment) HasProviderRef() bool {
	return strings.TrimSpace(p.ProviderID) != ""
}

// CountsAsPaid informa si el monto debe restarse de lo ganado por el proveedor.
// Las filas liquidadas por un pago de saldo ya están cubiertas por ese pago.
func (p *Payment) CountsAsPaid() bool {
	return p.Status == PaymentCompleted && p.SettledByID == ""
}

// IsOverdue vencido: marcado overdue o pendiente con fecha de vencimiento anterior a asOf.
func (p *Payment) IsOverdue(asOf time.Time) bool {
	if p.Status == PaymentOverdue {
		return true
	}
	return p.Status.IsOutstanding() && p.DueDate != nil && p.DueDate.Before(asOf)
}
