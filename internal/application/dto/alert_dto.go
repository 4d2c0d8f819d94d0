package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertConfigRequest body para POST/PUT /api/alert-configs.
type AlertConfigRequest struct {
	Name        string          `json:"name" validate:"required,max=120"`
	Type        string          `json:"type" validate:"required,oneof=payment goal cashflow expense"`
	IsActive    *bool           `json:"is_active,omitempty"`
	Frequency   string          `json:"frequency,omitempty" validate:"omitempty,oneof=daily weekly monthly"`
	Operator    string          `json:"operator,omitempty" validate:"omitempty,oneof=gt gte lt lte"`
	Threshold   decimal.Decimal `json:"threshold"`
	DaysAdvance int             `json:"days_advance,omitempty" validate:"min=0,max=90"`
}

// AlertConfigResponse regla en respuestas.
type AlertConfigResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	IsActive      bool            `json:"is_active"`
	Frequency     string          `json:"frequency"`
	Operator      string          `json:"operator"`
	Threshold     decimal.Decimal `json:"threshold"`
	DaysAdvance   int             `json:"days_advance"`
	LastTriggered *time.Time      `json:"last_triggered,omitempty"`
}

// ActiveAlertResponse alerta activa en respuestas.
type ActiveAlertResponse struct {
	ID           string          `json:"id"`
	ConfigID     string          `json:"config_id"`
	Type         string          `json:"type"`
	Kind         string          `json:"kind"`
	Priority     string          `json:"priority"`
	Title        string          `json:"title"`
	Message      string          `json:"message"`
	Count        int             `json:"count,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	CreatedAt    time.Time       `json:"created_at"`
	Acknowledged bool            `json:"acknowledged"`
}
