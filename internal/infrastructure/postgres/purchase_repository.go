package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/urbano-pos-api/internal/domain/entity"
	"github.com/jhoicas/urbano-pos-api/internal/domain/pagination"
	"github.com/jhoicas/urbano-pos-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `id, product_id, quantity, unit_cost, created_at`

// PurchaseRepo compras sobre PostgreSQL. Solo INSERT y SELECT.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador.
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	if err := row.Scan(&p.ID, &p.ProductID, &p.Quantity, &p.UnitCost, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchases (`+purchaseColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.ProductID, p.Quantity, p.UnitCost, p.CreatedAt,
	)
	return TranslateError(err, "insert purchase")
}

func (r *PurchaseRepo) List(ctx context.Context, f repository.PurchaseFilter, w pagination.Window) ([]*entity.Purchase, error) {
	var q query
	if f.ProductID != "" {
		uid, ok := parseID(f.ProductID)
		if !ok {
			return nil, nil
		}
		q.and("product_id = " + q.arg(uid))
	}
	q.period(f.Period)
	tail := q.window(w)
	return r.list(ctx, q.sql(`SELECT `+purchaseColumns+` FROM purchases`, tail), q.args...)
}

func (r *PurchaseRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Purchase, error) {
	uid, ok := parseID(productID)
	if !ok {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE product_id = $1`, uid)
}

func (r *PurchaseRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	uid, ok := parseID(productID)
	if !ok {
		return 0, nil
	}
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM purchases WHERE product_id = $1`, uid).Scan(&n); err != nil {
		return 0, TranslateError(err, "count purchases")
	}
	return n, nil
}

func (r *PurchaseRepo) list(ctx context.Context, sql string, args ...any) ([]*entity.Purchase, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, TranslateError(err, "list purchases")
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, p)
	}
	return list, TranslateError(rows.Err(), "list purchases")
}
