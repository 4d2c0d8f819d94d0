package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/domain/repository"
)

var _ repository.ServiceProviderRepository = (*ProviderRepo)(nil)

// ProviderRepo implementación de ServiceProviderRepository sobre PostgreSQL.
type ProviderRepo struct {
	q Querier
}

// NewProviderRepository construye el adaptador de proveedores.
func NewProviderRepository(q Querier) *ProviderRepo {
	return &ProviderRepo{q: q}
}

const providerColumns = `id, company_id, name, COALESCE(email, ''), COALESCE(phone, ''),
	COALESCE(payment_method, ''), is_active, created_at, updated_at`

func scanProvider(row pgx.Row) (*entity.ServiceProvider, error) {
	var p entity.ServiceProvider
	err := row.Scan(&p.ID, &p.CompanyID, &p.Name, &p.Email, &p.Phone,
		&p.PaymentMethod, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByIDForCompany devuelve nil, nil si no existe o es de otra empresa.
func (r *ProviderRepo) GetByIDForCompany(ctx context.Context, companyID, id string) (*entity.ServiceProvider, error) {
	query := `SELECT ` + providerColumns + ` FROM service_providers WHERE id = $1 AND company_id = $2`
	p, err := scanProvider(r.q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, domain.StoreError("get provider", err)
	}
	return p, nil
}

// ListByCompany proveedores de la empresa ordenados por nombre.
func (r *ProviderRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.ServiceProvider, error) {
	query := `SELECT ` + providerColumns + ` FROM service_providers WHERE company_id = $1 ORDER BY name, id`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, domain.StoreError("list providers", err)
	}
	defer rows.Close()

	var list []*entity.ServiceProvider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, domain.StoreError("scan provider", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("list providers", err)
	}
	return list, nil
}

// GetOwner company_id del proveedor, "" si no existe.
func (r *ProviderRepo) GetOwner(ctx context.Context, providerID string) (string, error) {
	var companyID string
	err := r.q.QueryRow(ctx, `SELECT company_id FROM service_providers WHERE id = $1`, providerID).Scan(&companyID)
	if err != nil {
		if isNoRows(err) {
			return "", nil
		}
		return "", domain.StoreError("get provider owner", err)
	}
	return companyID, nil
}
