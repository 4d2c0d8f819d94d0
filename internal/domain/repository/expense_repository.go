package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
)

// ExpenseRepository define el puerto de persistencia para Expense.
// GetByID no filtra por tenant: el caller debe pasar el resultado por Guard.AssertOwnership.
type ExpenseRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Expense, error)
	// TransitionStatus cambia from → to de forma condicional; false si el estado ya no era from.
	TransitionStatus(ctx context.Context, id string, from, to entity.ExpenseStatus, at time.Time) (bool, error)
}
