package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo pagos a proveedores sobre PostgreSQL (usable con pool o tx).
// provider_id no tiene FK: los huérfanos existen y los repara el caso de uso de orphan.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador de pagos.
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `p.id, p.company_id, COALESCE(p.provider_id, ''), p.amount, p.type, p.status,
	COALESCE(p.description, ''), p.due_date, p.payment_date, COALESCE(p.settled_by_id, ''),
	p.created_at, p.updated_at`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(&p.ID, &p.CompanyID, &p.ProviderID, &p.Amount, &p.Type, &p.Status,
		&p.Description, &p.DueDate, &p.PaymentDate, &p.SettledByID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Payment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.StoreError(op, err)
	}
	defer rows.Close()

	var list []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, domain.StoreError("scan payment", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError(op, err)
	}
	return list, nil
}

// Create persiste un pago.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	const query = `
		INSERT INTO payments (id, company_id, provider_id, amount, type, status, description,
			due_date, payment_date, settled_by_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.CompanyID, nullIfEmpty(p.ProviderID), p.Amount, p.Type, p.Status, p.Description,
		p.DueDate, p.PaymentDate, nullIfEmpty(p.SettledByID), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return insertErr("insert payment", err)
	}
	return nil
}

// GetByIDForCompany devuelve nil, nil si no existe o es de otra empresa.
func (r *PaymentRepo) GetByIDForCompany(ctx context.Context, companyID, id string) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments p WHERE p.id = $1 AND p.company_id = $2`
	p, err := scanPayment(r.q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, domain.StoreError("get payment", err)
	}
	return p, nil
}

// ListByProvider todos los pagos del proveedor en la empresa.
func (r *PaymentRepo) ListByProvider(ctx context.Context, companyID, providerID string) ([]*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + `
		FROM payments p
		WHERE p.company_id = $1 AND p.provider_id = $2
		ORDER BY p.created_at, p.id`
	return r.list(ctx, "list payments by provider", query, companyID, providerID)
}

// ListOutstandingByProvider pending/partial del más antiguo al más nuevo; sin vencimiento al final.
// FOR UPDATE bloquea las filas hasta el fin de la transacción que las lee.
func (r *PaymentRepo) ListOutstandingByProvider(ctx context.Context, companyID, providerID string) ([]*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + `
		FROM payments p
		WHERE p.company_id = $1 AND p.provider_id = $2 AND p.status IN ('pending', 'partial')
		ORDER BY p.due_date ASC NULLS LAST, p.created_at ASC, p.id ASC
		FOR UPDATE`
	return r.list(ctx, "list outstanding payments", query, companyID, providerID)
}

// LockProvider advisory lock de transacción sobre (empresa, proveedor); se libera en commit/rollback.
func (r *PaymentRepo) LockProvider(ctx context.Context, companyID, providerID string) error {
	_, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, companyID+"/"+providerID)
	if err != nil {
		return domain.StoreError("lock provider", err)
	}
	return nil
}

// MarkCompleted sólo cambia filas aún pending/partial.
func (r *PaymentRepo) MarkCompleted(ctx context.Context, companyID string, ids []string, paymentDate time.Time, settledByID string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	const query = `
		UPDATE payments
		   SET status = 'completed', payment_date = $3, settled_by_id = $4, updated_at = now()
		 WHERE company_id = $1 AND id = ANY($2) AND status IN ('pending', 'partial')`
	cmd, err := r.q.Exec(ctx, query, companyID, ids, paymentDate, nullIfEmpty(settledByID))
	if err != nil {
		return 0, domain.StoreError("mark payments completed", err)
	}
	return int(cmd.RowsAffected()), nil
}

// ListWithoutValidProvider provider_id nulo, vacío, inexistente o de otra empresa.
func (r *PaymentRepo) ListWithoutValidProvider(ctx context.Context, companyID string) ([]*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + `
		FROM payments p
		LEFT JOIN service_providers sp ON sp.id = p.provider_id AND sp.company_id = p.company_id
		WHERE p.company_id = $1 AND sp.id IS NULL
		ORDER BY p.created_at, p.id`
	return r.list(ctx, "list orphan payments", query, companyID)
}

// AssignProvider re-vincula sólo si la fila sigue huérfana y el proveedor es de la misma empresa.
func (r *PaymentRepo) AssignProvider(ctx context.Context, companyID, paymentID, providerID string) (bool, error) {
	const query = `
		UPDATE payments p
		   SET provider_id = $3, updated_at = now()
		 WHERE p.id = $2 AND p.company_id = $1
		   AND EXISTS (SELECT 1 FROM service_providers WHERE id = $3 AND company_id = $1)
		   AND NOT EXISTS (
		       SELECT 1 FROM service_providers sp
		        WHERE sp.id = p.provider_id AND sp.company_id = p.company_id)`
	cmd, err := r.q.Exec(ctx, query, companyID, paymentID, providerID)
	if err != nil {
		return false, domain.StoreError("assign payment provider", err)
	}
	return cmd.RowsAffected() == 1, nil
}
