package postgres

import (
	"context"

	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)
var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	const query = `
		SELECT id, name, COALESCE(owner_user_id, ''), status, created_at, updated_at
		FROM companies WHERE id = $1`
	var c entity.Company
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.OwnerUserID, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, domain.StoreError("get company", err)
	}
	return &c, nil
}

// ListActiveIDs ids de empresas activas, en orden estable.
func (r *CompanyRepo) ListActiveIDs(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT id FROM companies WHERE status = 'active' ORDER BY id`)
	if err != nil {
		return nil, domain.StoreError("list active companies", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, domain.StoreError("scan company id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("list active companies", err)
	}
	return ids, nil
}

// ProfileRepo lectura de perfiles de usuario.
type ProfileRepo struct {
	q Querier
}

// NewProfileRepository construye el adaptador de perfiles.
func NewProfileRepository(q Querier) *ProfileRepo {
	return &ProfileRepo{q: q}
}

// GetByID obtiene un perfil por ID.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	const query = `
		SELECT id, COALESCE(company_id, ''), name, email, COALESCE(role, ''), user_type,
		       COALESCE(provider_id, ''), created_at, updated_at
		FROM profiles WHERE id = $1`
	var p entity.Profile
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.CompanyID, &p.Name, &p.Email, &p.Role, &p.UserType,
		&p.ProviderID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, domain.StoreError("get profile", err)
	}
	return &p, nil
}
