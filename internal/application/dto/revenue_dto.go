package dto

import "github.com/shopspring/decimal"

// CreatePendingRevenueRequest body para POST /api/revenues/pending.
type CreatePendingRevenueRequest struct {
	MissionID      string          `json:"mission_id" validate:"required"`
	ClientName     string          `json:"client_name" validate:"required,max=200"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	CompanyAmount  decimal.Decimal `json:"company_amount"`
	ProviderAmount decimal.Decimal `json:"provider_amount"`
	DueDate        string          `json:"due_date,omitempty"`
}

// PendingRevenueResponse ingreso pendiente en respuestas.
type PendingRevenueResponse struct {
	ID             string          `json:"id"`
	MissionID      string          `json:"mission_id"`
	ClientName     string          `json:"client_name"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	CompanyAmount  decimal.Decimal `json:"company_amount"`
	ProviderAmount decimal.Decimal `json:"provider_amount"`
	DueDate        string          `json:"due_date,omitempty"`
	Status         string          `json:"status"`
}

// ConfirmRevenueRequest body para POST /api/revenues/pending/:id/confirm.
type ConfirmRevenueRequest struct {
	AccountID     string `json:"account_id" validate:"required"`
	AccountType   string `json:"account_type" validate:"required,oneof=bank cash card"`
	PaymentMethod string `json:"payment_method" validate:"required,max=50"`
	// ReceivedDate vacío = fecha de la confirmación. Permite registrar un cobro recibido días antes.
	ReceivedDate  string `json:"received_date,omitempty"`
}

// ConfirmedRevenueResponse ingreso confirmado en respuestas.
type ConfirmedRevenueResponse struct {
	ID               string          `json:"id"`
	PendingRevenueID string          `json:"pending_revenue_id"`
	MissionID        string          `json:"mission_id"`
	ClientName       string          `json:"client_name"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	CompanyAmount    decimal.Decimal `json:"company_amount"`
	ProviderAmount   decimal.Decimal `json:"provider_amount"`
	ReceivedDate     string          `json:"received_date"`
	PaymentMethod    string          `json:"payment_method"`
	AccountID        string          `json:"account_id"`
	AccountType      string          `json:"account_type"`
	TransactionID    string          `json:"transaction_id"`
}
