package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/domain/repository"
)

var _ repository.RevenueRepository = (*RevenueRepo)(nil)

// RevenueRepo ingresos pendientes y confirmados. El tenant se resuelve con join a missions.
type RevenueRepo struct {
	q Querier
}

// NewRevenueRepository construye el adaptador de ingresos.
func NewRevenueRepository(q Querier) *RevenueRepo {
	return &RevenueRepo{q: q}
}

const pendingColumns = `r.id, r.mission_id, r.client_name, r.total_amount, r.company_amount,
	r.provider_amount, r.due_date, r.status, r.created_at, r.updated_at`

func scanPending(row pgx.Row) (*entity.PendingRevenue, error) {
	var p entity.PendingRevenue
	err := row.Scan(&p.ID, &p.MissionID, &p.ClientName, &p.TotalAmount, &p.CompanyAmount,
		&p.ProviderAmount, &p.DueDate, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePending persiste un ingreso pendiente.
func (r *RevenueRepo) CreatePending(ctx context.Context, rev *entity.PendingRevenue) error {
	const query = `
		INSERT INTO pending_revenues (id, mission_id, client_name, total_amount, company_amount,
			provider_amount, due_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		rev.ID, rev.MissionID, rev.ClientName, rev.TotalAmount, rev.CompanyAmount,
		rev.ProviderAmount, rev.DueDate, rev.Status, rev.CreatedAt, rev.UpdatedAt,
	)
	if err != nil {
		return insertErr("insert pending revenue", err)
	}
	return nil
}

// GetPendingByID sin filtro de tenant.
func (r *RevenueRepo) GetPendingByID(ctx context.Context, id string) (*entity.PendingRevenue, error) {
	query := `SELECT ` + pendingColumns + ` FROM pending_revenues r WHERE r.id = $1`
	p, err := scanPending(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, domain.StoreError("get pending revenue", err)
	}
	return p, nil
}

// ListPending ingresos en estado pending de las misiones de la empresa.
func (r *RevenueRepo) ListPending(ctx context.Context, companyID string) ([]*entity.PendingRevenue, error) {
	query := `SELECT ` + pendingColumns + `
		FROM pending_revenues r
		JOIN missions m ON m.id = r.mission_id
		WHERE m.company_id = $1 AND r.status = 'pending'
		ORDER BY r.created_at, r.id`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, domain.StoreError("list pending revenues", err)
	}
	defer rows.Close()

	var list []*entity.PendingRevenue
	for rows.Next() {
		p, err := scanPending(rows)
		if err != nil {
			return nil, domain.StoreError("scan pending revenue", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("list pending revenues", err)
	}
	return list, nil
}

// TransitionPending UPDATE condicional sobre el estado actual.
func (r *RevenueRepo) TransitionPending(ctx context.Context, id string, from, to entity.RevenueStatus, at time.Time) (bool, error) {
	const query = `UPDATE pending_revenues SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`
	cmd, err := r.q.Exec(ctx, query, id, from, to, at)
	if err != nil {
		return false, domain.StoreError("transition pending revenue", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// CreateConfirmed persiste el ingreso cobrado; pending_revenue_id es único.
func (r *RevenueRepo) CreateConfirmed(ctx context.Context, rev *entity.ConfirmedRevenue) error {
	const query = `
		INSERT INTO confirmed_revenues (id, pending_revenue_id, mission_id, client_name, total_amount,
			company_amount, provider_amount, received_date, payment_method, account_id, account_type,
			transaction_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		rev.ID, rev.PendingRevenueID, rev.MissionID, rev.ClientName, rev.TotalAmount,
		rev.CompanyAmount, rev.ProviderAmount, rev.ReceivedDate, rev.PaymentMethod, rev.AccountID,
		rev.AccountType, rev.TransactionID, rev.Status, rev.CreatedAt,
	)
	if err != nil {
		return insertErr("insert confirmed revenue", err)
	}
	return nil
}

// ListConfirmed ingresos cobrados de la empresa, del más reciente al más antiguo.
func (r *RevenueRepo) ListConfirmed(ctx context.Context, companyID string) ([]*entity.ConfirmedRevenue, error) {
	const query = `
		SELECT c.id, c.pending_revenue_id, c.mission_id, c.client_name, c.total_amount, c.company_amount,
		       c.provider_amount, c.received_date, COALESCE(c.payment_method, ''), c.account_id,
		       c.account_type, c.transaction_id, c.status, c.created_at
		FROM confirmed_revenues c
		JOIN missions m ON m.id = c.mission_id
		WHERE m.company_id = $1
		ORDER BY c.received_date DESC, c.id`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, domain.StoreError("list confirmed revenues", err)
	}
	defer rows.Close()

	var list []*entity.ConfirmedRevenue
	for rows.Next() {
		var c entity.ConfirmedRevenue
		if err := rows.Scan(&c.ID, &c.PendingRevenueID, &c.MissionID, &c.ClientName, &c.TotalAmount,
			&c.CompanyAmount, &c.ProviderAmount, &c.ReceivedDate, &c.PaymentMethod, &c.AccountID,
			&c.AccountType, &c.TransactionID, &c.Status, &c.CreatedAt); err != nil {
			return nil, domain.StoreError("scan confirmed revenue", err)
		}
		list = append(list, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("list confirmed revenues", err)
	}
	return list, nil
}
