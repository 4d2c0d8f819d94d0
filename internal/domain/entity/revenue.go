package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Finanzas-api/internal/domain/tenant"
)

// SplitEpsilon tolerancia para company_amount + provider_amount == total_amount.
var SplitEpsilon = decimal.New(1, -2)

// RevenueStatus estado del ingreso. pending → confirmed | cancelled; ambos terminales.
type RevenueStatus string

const (
	RevenuePending   RevenueStatus = "pending"
	RevenueConfirmed RevenueStatus = "confirmed"
	RevenueCancelled RevenueStatus = "cancelled"
)

// IsValid informa si el estado es uno de los conocidos.
func (s RevenueStatus) IsValid() bool {
	switch s {
	case RevenuePending, RevenueConfirmed, RevenueCancelled:
		return true
	}
	return false
}

// CanTransitionTo única transición permitida: desde pending hacia un terminal.
func (s RevenueStatus) CanTransitionTo(next RevenueStatus) bool {
	return s == RevenuePending && (next == RevenueConfirmed || next == RevenueCancelled)
}

// AccountType tipo de cuenta destino de un ingreso confirmado.
type AccountType string

const (
	AccountBank AccountType = "bank"
	AccountCash AccountType = "cash"
	AccountCard AccountType = "card"
)

// IsValid informa si el tipo es uno de los conocidos.
func (t AccountType) IsValid() bool {
	switch t {
	case AccountBank, AccountCash, AccountCard:
		return true
	}
	return false
}

// PendingRevenue facturación a cliente aún no cobrada. Su tenant es el de la misión.
type PendingRevenue struct {
	ID             string
	MissionID      string
	ClientName     string
	TotalAmount    decimal.Decimal
	CompanyAmount  decimal.Decimal
	ProviderAmount decimal.Decimal
	DueDate        *time.Time
	Status         RevenueStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TenantRef pertenencia transitiva por misión.
func (r *PendingRevenue) TenantRef() tenant.Ref { return tenant.Ref{MissionID: r.MissionID} }

// SplitIsBalanced valida company + provider == total dentro de SplitEpsilon.
func SplitIsBalanced(total, company, provider decimal.Decimal) bool {
	return company.Add(provider).Sub(total).Abs().LessThanOrEqual(SplitEpsilon)
}

// ConfirmedRevenue ingreso cobrado. Copia el reparto del pendiente sin recalcularlo.
type ConfirmedRevenue struct {
	ID               string
	PendingRevenueID string
	MissionID        string
	ClientName       string
	TotalAmount      decimal.Decimal
	CompanyAmount    decimal.Decimal
	ProviderAmount   decimal.Decimal
	ReceivedDate     time.Time
	PaymentMethod    string
	AccountID        string
	AccountType      AccountType
	TransactionID    string
	Status           RevenueStatus
	CreatedAt        time.Time
}

// TenantRef pertenencia transitiva por misión.
func (r *ConfirmedRevenue) TenantRef() tenant.Ref { return tenant.Ref{MissionID: r.MissionID} }
