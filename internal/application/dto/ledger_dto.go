package dto

import "github.com/shopspring/decimal"

// BalanceResponse saldo de un proveedor para GET /api/providers/:id/balance.
type BalanceResponse struct {
	ProviderID string          `json:"provider_id"`
	Earned     decimal.Decimal `json:"earned"`
	Paid       decimal.Decimal `json:"paid"`
	Current    decimal.Decimal `json:"current"`
	Pending    decimal.Decimal `json:"pending"`
}

// SettleRequest body para POST /api/providers/:id/balance-payments y /settlements.
type SettleRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate string          `json:"payment_date,omitempty"` // YYYY-MM-DD; vacío = hoy
	Description string          `json:"description,omitempty" validate:"max=500"`
}

// SettlementResponse resultado de una liquidación (automática o manual).
type SettlementResponse struct {
	ProviderID      string          `json:"provider_id"`
	PaymentID       string          `json:"payment_id,omitempty"` // pago de saldo creado (sólo liquidación automática)
	Liquidated      []string        `json:"liquidated"`
	LiquidatedTotal decimal.Decimal `json:"liquidated_total"`
	PendingTotal    decimal.Decimal `json:"pending_total"`
	Difference      decimal.Decimal `json:"difference"`
	Remainder       decimal.Decimal `json:"remainder"`
	FullMatch       bool            `json:"full_match"`
}

// SettlementPreviewResponse total pendiente antes de liquidar.
type SettlementPreviewResponse struct {
	ProviderID   string          `json:"provider_id"`
	PendingCount int             `json:"pending_count"`
	PendingTotal decimal.Decimal `json:"pending_total"`
}

// CreatePaymentRequest body para POST /api/payments.
type CreatePaymentRequest struct {
	ProviderID  string          `json:"provider_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type" validate:"required,oneof=full installment advance balance_payment"`
	Status      string          `json:"status,omitempty" validate:"omitempty,oneof=pending partial completed overdue cancelled"`
	Description string          `json:"description,omitempty" validate:"max=500"`
	DueDate     string          `json:"due_date,omitempty"`
	PaymentDate string          `json:"payment_date,omitempty"`
}

// PaymentResponse pago en respuestas.
type PaymentResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	ProviderID  string          `json:"provider_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	Description string          `json:"description,omitempty"`
	DueDate     string          `json:"due_date,omitempty"`
	PaymentDate string          `json:"payment_date,omitempty"`
	SettledByID string          `json:"settled_by_id,omitempty"`
	// Settlement presente cuando el pago disparó una liquidación automática.
	Settlement *SettlementResponse `json:"settlement,omitempty"`
}

// OrphanRepairResponse resultado de POST /api/payments/orphans/repair.
type OrphanRepairResponse struct {
	FixedCount int                `json:"fixed_count"`
	Fixed      []RepairedPayment  `json:"fixed"`
	Unresolved []*PaymentResponse `json:"unresolved"`
}

// RepairedPayment pago re-vinculado y el proveedor asignado.
type RepairedPayment struct {
	PaymentID  string `json:"payment_id"`
	ProviderID string `json:"provider_id"`
}
