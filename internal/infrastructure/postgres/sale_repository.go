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

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, total_price, discount, payment_method, sale_type, notes, created_at`

// SaleRepo cabeceras de venta sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var payment, saleType string
	if err := row.Scan(&s.ID, &s.TotalPrice, &s.Discount, &payment, &saleType, &s.Notes, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.PaymentMethod = entity.PaymentMethod(payment)
	s.SaleType = entity.SaleType(saleType)
	return &s, nil
}

func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (`+saleColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.TotalPrice, s.Discount, string(s.PaymentMethod), string(s.SaleType), s.Notes, s.CreatedAt,
	)
	return TranslateError(err, "insert sale")
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	uid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, TranslateError(err, "get sale")
	}
	return s, nil
}

func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter, w pagination.Window) ([]*entity.Sale, error) {
	var q query
	q.period(f.Period)
	tail := q.window(w)
	rows, err := r.q.Query(ctx, q.sql(`SELECT `+saleColumns+` FROM sales`, tail), q.args...)
	if err != nil {
		return nil, TranslateError(err, "list sales")
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, TranslateError(rows.Err(), "list sales")
}

// Update aplica solo los campos presentes en el patch. Sin filas afectadas devuelve (nil, nil).
func (r *SaleRepo) Update(ctx context.Context, id string, patch entity.SalePatch) (*entity.Sale, error) {
	uid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	var q query
	var sets []string
	if patch.TotalPrice != nil {
		sets = append(sets, "total_price = "+q.arg(*patch.TotalPrice))
	}
	if patch.Discount != nil {
		sets = append(sets, "discount = "+q.arg(*patch.Discount))
	}
	if patch.PaymentMethod != nil {
		sets = append(sets, "payment_method = "+q.arg(string(*patch.PaymentMethod)))
	}
	if patch.SaleType != nil {
		sets = append(sets, "sale_type = "+q.arg(string(*patch.SaleType)))
	}
	if patch.Notes != nil {
		var notes *string
		if *patch.Notes != "" {
			notes = patch.Notes
		}
		sets = append(sets, "notes = "+q.arg(notes))
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sql := `UPDATE sales SET ` + strings.Join(sets, ", ") + ` WHERE id = ` + q.arg(uid) + ` RETURNING ` + saleColumns
	s, err := scanSale(r.q.QueryRow(ctx, sql, q.args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, TranslateError(err, "update sale")
	}
	return s, nil
}

func (r *SaleRepo) Delete(ctx context.Context, id string) (int64, error) {
	uid, ok := parseID(id)
	if !ok {
		return 0, nil
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, uid)
	if err != nil {
		return 0, TranslateError(err, "delete sale")
	}
	return cmd.RowsAffected(), nil
}
