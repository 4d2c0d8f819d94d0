package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/domain/repository"
)

var _ repository.MissionRepository = (*MissionRepo)(nil)

// MissionRepo implementación de MissionRepository sobre PostgreSQL (usable con pool o tx).
type MissionRepo struct {
	q Querier
}

// NewMissionRepository construye el adaptador de misiones.
func NewMissionRepository(q Querier) *MissionRepo {
	return &MissionRepo{q: q}
}

const missionColumns = `id, company_id, title, COALESCE(location, ''), status, is_approved,
	COALESCE(provider_id, ''), assigned_provider_ids, service_value, provider_value, budget,
	total_expenses, approved_at, created_at, updated_at`

func scanMission(row pgx.Row) (*entity.Mission, error) {
	var m entity.Mission
	err := row.Scan(&m.ID, &m.CompanyID, &m.Title, &m.Location, &m.Status, &m.IsApproved,
		&m.ProviderID, &m.AssignedProviderIDs, &m.ServiceValue, &m.ProviderValue, &m.Budget,
		&m.TotalExpenses, &m.ApprovedAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create persiste una misión.
func (r *MissionRepo) Create(ctx context.Context, m *entity.Mission) error {
	const query = `
		INSERT INTO missions (id, company_id, title, location, status, is_approved, provider_id,
			assigned_provider_ids, service_value, provider_value, budget, total_expenses, approved_at,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	assigned := m.AssignedProviderIDs
	if assigned == nil {
		assigned = []string{}
	}
	_, err := r.q.Exec(ctx, query,
		m.ID, m.CompanyID, m.Title, m.Location, m.Status, m.IsApproved, nullIfEmpty(m.ProviderID),
		assigned, m.ServiceValue, m.ProviderValue, m.Budget, m.TotalExpenses, m.ApprovedAt,
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return insertErr("insert mission", err)
	}
	return nil
}

// GetByIDForCompany devuelve nil, nil si no existe o es de otra empresa.
func (r *MissionRepo) GetByIDForCompany(ctx context.Context, companyID, id string) (*entity.Mission, error) {
	query := `SELECT ` + missionColumns + ` FROM missions WHERE id = $1 AND company_id = $2`
	m, err := scanMission(r.q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, domain.StoreError("get mission", err)
	}
	return m, nil
}

// ListByProvider misiones donde el proveedor es principal o está asignado.
func (r *MissionRepo) ListByProvider(ctx context.Context, companyID, providerID string, approved bool) ([]*entity.Mission, error) {
	query := `SELECT ` + missionColumns + `
		FROM missions
		WHERE company_id = $1
		  AND is_approved = $3
		  AND (provider_id = $2 OR $2 = ANY(assigned_provider_ids))
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, companyID, providerID, approved)
	if err != nil {
		return nil, domain.StoreError("list missions by provider", err)
	}
	defer rows.Close()

	var list []*entity.Mission
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, domain.StoreError("scan mission", err)
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("list missions by provider", err)
	}
	return list, nil
}

// Approve sólo actúa si la misión aún no estaba aprobada.
func (r *MissionRepo) Approve(ctx context.Context, companyID, id string, providerValue decimal.Decimal, at time.Time) (bool, error) {
	const query = `
		UPDATE missions
		   SET is_approved = true, provider_value = $3, approved_at = $4, updated_at = $4
		 WHERE id = $1 AND company_id = $2 AND NOT is_approved`
	cmd, err := r.q.Exec(ctx, query, id, companyID, providerValue, at)
	if err != nil {
		return false, domain.StoreError("approve mission", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// GetOwner company_id de la misión, "" si no existe.
func (r *MissionRepo) GetOwner(ctx context.Context, missionID string) (string, error) {
	var companyID string
	err := r.q.QueryRow(ctx, `SELECT company_id FROM missions WHERE id = $1`, missionID).Scan(&companyID)
	if err != nil {
		if isNoRows(err) {
			return "", nil
		}
		return "", domain.StoreError("get mission owner", err)
	}
	return companyID, nil
}
