package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/urbano-pos-api/internal/domain/entity"
	"github.com/jhoicas/urbano-pos-api/internal/domain/pagination"
	"github.com/jhoicas/urbano-pos-api/internal/domain/repository"
)

var _ repository.SaleItemRepository = (*SaleItemRepo)(nil)

const saleItemColumns = `id, sale_id, product_id, quantity, price_sale`

// SaleItemRepo ítems de venta sobre PostgreSQL.
type SaleItemRepo struct {
	q Querier
}

// NewSaleItemRepository construye el adaptador.
func NewSaleItemRepository(q Querier) *SaleItemRepo {
	return &SaleItemRepo{q: q}
}

func scanSaleItem(row pgx.Row) (*entity.SaleItem, error) {
	var it entity.SaleItem
	if err := row.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.PriceSale); err != nil {
		return nil, err
	}
	return &it, nil
}

// CreateBatch inserta todos los ítems con un único INSERT multi-fila (todo o nada).
func (r *SaleItemRepo) CreateBatch(ctx context.Context, items []*entity.SaleItem) error {
	if len(items) == 0 {
		return nil
	}
	var q query
	values := make([]string, 0, len(items))
	for _, it := range items {
		values = append(values, fmt.Sprintf("(%s, %s, %s, %s, %s)",
			q.arg(it.ID), q.arg(it.SaleID), q.arg(it.ProductID), q.arg(it.Quantity), q.arg(it.PriceSale)))
	}
	_, err := r.q.Exec(ctx, `INSERT INTO sale_items (`+saleItemColumns+`) VALUES `+strings.Join(values, ", "), q.args...)
	return TranslateError(err, "insert sale items")
}

func (r *SaleItemRepo) GetByID(ctx context.Context, id string) (*entity.SaleItem, error) {
	uid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	it, err := scanSaleItem(r.q.QueryRow(ctx, `SELECT `+saleItemColumns+` FROM sale_items WHERE id = $1`, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, TranslateError(err, "get sale item")
	}
	return it, nil
}

func (r *SaleItemRepo) ListBySale(ctx context.Context, saleID string) ([]*entity.SaleItem, error) {
	uid, ok := parseID(saleID)
	if !ok {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+saleItemColumns+` FROM sale_items WHERE sale_id = $1 ORDER BY id`, uid)
}

func (r *SaleItemRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.SaleItem, error) {
	uid, ok := parseID(productID)
	if !ok {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+saleItemColumns+` FROM sale_items WHERE product_id = $1`, uid)
}

func (r *SaleItemRepo) List(ctx context.Context, f repository.SaleItemFilter, w pagination.Window) ([]*entity.SaleItem, error) {
	var q query
	for col, v := range map[string]string{"sale_id": f.SaleID, "product_id": f.ProductID} {
		if v == "" {
			continue
		}
		uid, ok := parseID(v)
		if !ok {
			return nil, nil
		}
		q.and(col + " = " + q.arg(uid))
	}
	w.OrderBy = pagination.FieldID
	tail := q.window(w)
	return r.list(ctx, q.sql(`SELECT `+saleItemColumns+` FROM sale_items`, tail), q.args...)
}

func (r *SaleItemRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	uid, ok := parseID(productID)
	if !ok {
		return 0, nil
	}
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM sale_items WHERE product_id = $1`, uid).Scan(&n); err != nil {
		return 0, TranslateError(err, "count sale items")
	}
	return n, nil
}

func (r *SaleItemRepo) DeleteBySale(ctx context.Context, saleID string) (int64, error) {
	uid, ok := parseID(saleID)
	if !ok {
		return 0, nil
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM sale_items WHERE sale_id = $1`, uid)
	if err != nil {
		return 0, TranslateError(err, "delete sale items")
	}
	return cmd.RowsAffected(), nil
}

func (r *SaleItemRepo) list(ctx context.Context, sql string, args ...any) ([]*entity.SaleItem, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, TranslateError(err, "list sale items")
	}
	defer rows.Close()
	var list []*entity.SaleItem
	for rows.Next() {
		it, err := scanSaleItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		list = append(list, it)
	}
	return list, TranslateError(rows.Err(), "list sale items")
}
