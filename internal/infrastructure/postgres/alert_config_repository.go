package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/domain/repository"
)

var _ repository.AlertConfigRepository = (*AlertConfigRepo)(nil)

// AlertConfigRepo reglas de alerta persistidas por tenant.
type AlertConfigRepo struct {
	q Querier
}

// NewAlertConfigRepository construye el adaptador de reglas de alerta.
func NewAlertConfigRepository(q Querier) *AlertConfigRepo {
	return &AlertConfigRepo{q: q}
}

const alertConfigColumns = `id, company_id, name, type, is_active, frequency, operator, threshold,
	days_advance, last_triggered, created_at, updated_at`

func scanAlertConfig(row pgx.Row) (*entity.AlertConfig, error) {
	var a entity.AlertConfig
	err := row.Scan(&a.ID, &a.CompanyID, &a.Name, &a.Type, &a.IsActive, &a.Frequency, &a.Operator,
		&a.Threshold, &a.DaysAdvance, &a.LastTriggered, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create persiste una regla.
func (r *AlertConfigRepo) Create(ctx context.Context, a *entity.AlertConfig) error {
	const query = `
		INSERT INTO alert_configs (id, company_id, name, type, is_active, frequency, operator, threshold,
			days_advance, last_triggered, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.CompanyID, a.Name, a.Type, a.IsActive, a.Frequency, a.Operator, a.Threshold,
		a.DaysAdvance, a.LastTriggered, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return insertErr("insert alert config", err)
	}
	return nil
}

// Update reemplaza los campos editables; last_triggered no se toca.
func (r *AlertConfigRepo) Update(ctx context.Context, a *entity.AlertConfig) error {
	const query = `
		UPDATE alert_configs
		   SET name = $3, type = $4, is_active = $5, frequency = $6, operator = $7, threshold = $8,
		       days_advance = $9, updated_at = $10
		 WHERE id = $1 AND company_id = $2`
	cmd, err := r.q.Exec(ctx, query,
		a.ID, a.CompanyID, a.Name, a.Type, a.IsActive, a.Frequency, a.Operator, a.Threshold,
		a.DaysAdvance, a.UpdatedAt,
	)
	if err != nil {
		return domain.StoreError("update alert config", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update alert config: %w", domain.ErrNotFound)
	}
	return nil
}

// Delete borra la regla; false si no existía en la empresa.
func (r *AlertConfigRepo) Delete(ctx context.Context, companyID, id string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM alert_configs WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return false, domain.StoreError("delete alert config", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// GetByIDForCompany devuelve nil, nil si no existe o es de otra empresa.
func (r *AlertConfigRepo) GetByIDForCompany(ctx context.Context, companyID, id string) (*entity.AlertConfig, error) {
	query := `SELECT ` + alertConfigColumns + ` FROM alert_configs WHERE id = $1 AND company_id = $2`
	a, err := scanAlertConfig(r.q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, domain.StoreError("get alert config", err)
	}
	return a, nil
}

// ListByCompany reglas de la empresa por fecha de creación.
func (r *AlertConfigRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.AlertConfig, error) {
	query := `SELECT ` + alertConfigColumns + ` FROM alert_configs WHERE company_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, domain.StoreError("list alert configs", err)
	}
	defer rows.Close()

	var list []*entity.AlertConfig
	for rows.Next() {
		a, err := scanAlertConfig(rows)
		if err != nil {
			return nil, domain.StoreError("scan alert config", err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("list alert configs", err)
	}
	return list, nil
}

// ClaimEvaluation UPDATE condicional: de dos evaluadores concurrentes sólo uno ve RowsAffected = 1.
func (r *AlertConfigRepo) ClaimEvaluation(ctx context.Context, companyID, id string, now, cutoff time.Time) (bool, error) {
	const query = `
		UPDATE alert_configs
		   SET last_triggered = $3
		 WHERE id = $1 AND company_id = $2 AND is_active
		   AND (last_triggered IS NULL OR last_triggered <= $4)`
	cmd, err := r.q.Exec(ctx, query, id, companyID, now, cutoff)
	if err != nil {
		return false, domain.StoreError("claim alert evaluation", err)
	}
	return cmd.RowsAffected() == 1, nil
}
