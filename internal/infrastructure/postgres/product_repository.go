package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/urbano-pos-api/internal/domain/entity"
	"github.com/jhoicas/urbano-pos-api/internal/domain/pagination"
	"github.com/jhoicas/urbano-pos-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, description, price_sale, price_wholesale, cost, quantity, image_url, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.PriceSale, &p.PriceWholesale, &p.Cost,
		&p.Quantity, &p.ImageRef, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		product.ID, product.Name, product.Description, product.PriceSale, product.PriceWholesale,
		product.Cost, product.Quantity, product.ImageRef, product.CreatedAt, product.UpdatedAt,
	)
	return TranslateError(err, "insert product")
}

// GetByID obtiene un producto por ID; (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	uid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, TranslateError(err, "get product")
	}
	return p, nil
}

// GetByIDs resuelve varios productos en una sola consulta.
func (r *ProductRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Product, error) {
	uids := parseIDs(ids)
	if len(uids) == 0 {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, uids)
}

// Update actualiza los datos descriptivos y precios. El stock va por UpdateQuantity.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) (int64, error) {
	uid, ok := parseID(product.ID)
	if !ok {
		return 0, nil
	}
	cmd, err := r.q.Exec(ctx, `
		UPDATE products
		SET name = $2, description = $3, price_sale = $4, price_wholesale = $5, cost = $6, image_url = $7, updated_at = $8
		WHERE id = $1`,
		uid, product.Name, product.Description, product.PriceSale, product.PriceWholesale,
		product.Cost, product.ImageRef, product.UpdatedAt,
	)
	if err != nil {
		return 0, TranslateError(err, "update product")
	}
	return cmd.RowsAffected(), nil
}

// UpdateQuantity fija el stock del producto.
func (r *ProductRepo) UpdateQuantity(ctx context.Context, id string, quantity int) (int64, error) {
	uid, ok := parseID(id)
	if !ok {
		return 0, nil
	}
	cmd, err := r.q.Exec(ctx, `UPDATE products SET quantity = $2, updated_at = now() WHERE id = $1`, uid, quantity)
	if err != nil {
		return 0, TranslateError(err, "update product quantity")
	}
	return cmd.RowsAffected(), nil
}

// List lista productos según la ventana del cursor.
func (r *ProductRepo) List(ctx context.Context, w pagination.Window) ([]*entity.Product, error) {
	var q query
	tail := q.window(w)
	return r.list(ctx, q.sql(`SELECT `+productColumns+` FROM products`, tail), q.args...)
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(ctx context.Context, id string) (int64, error) {
	uid, ok := parseID(id)
	if !ok {
		return 0, nil
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, uid)
	if err != nil {
		return 0, TranslateError(err, "delete product")
	}
	return cmd.RowsAffected(), nil
}

func (r *ProductRepo) list(ctx context.Context, sql string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, TranslateError(err, "list products")
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, TranslateError(rows.Err(), "list products")
}
