package repository

import (
	"context"

	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
)

// ServiceProviderRepository define el puerto de persistencia para ServiceProvider.
type ServiceProviderRepository interface {
	// GetByIDForCompany devuelve nil, nil si el proveedor no existe o es de otra empresa.
	GetByIDForCompany(ctx context.Context, companyID, id string) (*entity.ServiceProvider, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.ServiceProvider, error)
	// GetOwner devuelve sólo el company_id del proveedor ("" si no existe).
	// Es la única lectura sin filtro de tenant y la usa exclusivamente el Guard.
	GetOwner(ctx context.Context, providerID string) (string, error)
}
