package repository

import (
	"context"

	"github.com/jhoicas/urbano-pos-api/internal/domain/entity"
	"github.com/jhoicas/urbano-pos-api/internal/domain/pagination"
)

// PurchaseFilter filtros opcionales del listado de compras.
type PurchaseFilter struct {
	ProductID string
	Period    *pagination.Period
}

// PurchaseRepository puerto de persistencia de compras (solo inserción y lectura).
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	List(ctx context.Context, f PurchaseFilter, w pagination.Window) ([]*entity.Purchase, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.Purchase, error)
	CountByProduct(ctx context.Context, productID string) (int, error)
}
