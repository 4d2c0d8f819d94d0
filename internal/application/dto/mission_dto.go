package dto

import "github.com/shopspring/decimal"

// CreateMissionRequest body para POST /api/missions.
type CreateMissionRequest struct {
	Title               string          `json:"title" validate:"required,max=200"`
	Location            string          `json:"location,omitempty" validate:"max=200"`
	ProviderID          string          `json:"provider_id,omitempty"`
	AssignedProviderIDs []string        `json:"assigned_provider_ids,omitempty" validate:"dive,required"`
	ServiceValue        decimal.Decimal `json:"service_value"`
	ProviderValue       decimal.Decimal `json:"provider_value"`
	Budget              decimal.Decimal `json:"budget"`
}

// ApproveMissionRequest body para POST /api/missions/:id/approve.
// ProviderValue nil conserva el valor cargado en la misión.
type ApproveMissionRequest struct {
	ProviderValue *decimal.Decimal `json:"provider_value,omitempty"`
}

// MissionResponse misión en respuestas.
type MissionResponse struct {
	ID                  string          `json:"id"`
	CompanyID           string          `json:"company_id"`
	Title               string          `json:"title"`
	Location            string          `json:"location,omitempty"`
	Status              string          `json:"status"`
	IsApproved          bool            `json:"is_approved"`
	ProviderID          string          `json:"provider_id,omitempty"`
	AssignedProviderIDs []string        `json:"assigned_provider_ids"`
	ServiceValue        decimal.Decimal `json:"service_value"`
	ProviderValue       decimal.Decimal `json:"provider_value"`
	Budget              decimal.Decimal `json:"budget"`
	ApprovedAt          string          `json:"approved_at,omitempty"`
}

// ReimburseExpenseRequest body para POST /api/expenses/:id/reimburse.
type ReimburseExpenseRequest struct {
	AccountID string `json:"account_id,omitempty"`
	Date      string `json:"date,omitempty"`
}

// ReimburseResponse gasto reembolsado y su asiento.
type ReimburseResponse struct {
	ExpenseID     string          `json:"expense_id"`
	MissionID     string          `json:"mission_id"`
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
}
