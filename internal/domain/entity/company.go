package entity

import "time"

// Company representa una empresa/tenant del sistema. Es la raíz del aislamiento:
// todo registro del ledger pertenece (directa o transitivamente) a exactamente una.
type Company struct {
	ID          string
	Name        string
	OwnerUserID string
	Status      string // active, suspended, inactive
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
