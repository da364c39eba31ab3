package repository

import (
	"context"

	"github.com/jhoicas/urbano-pos-api/internal/domain/entity"
	"github.com/jhoicas/urbano-pos-api/internal/domain/pagination"
)

// SaleFilter filtros opcionales del listado de ventas.
type SaleFilter struct {
	Period *pagination.Period
}

// SaleRepository puerto de persistencia de cabeceras de venta.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	List(ctx context.Context, f SaleFilter, w pagination.Window) ([]*entity.Sale, error)
	// Update aplica el patch y devuelve la fila resultante; (nil, nil) si ninguna fila fue afectada.
	Update(ctx context.Context, id string, patch entity.SalePatch) (*entity.Sale, error)
	Delete(ctx context.Context, id string) (int64, error)
}

// SaleItemFilter filtros opcionales del listado de ítems.
type SaleItemFilter struct {
	SaleID    string
	ProductID string
}

// SaleItemRepository puerto de persistencia de ítems de venta. Los ítems no se modifican.
type SaleItemRepository interface {
	// CreateBatch inserta todos los ítems en una sola operación.
	CreateBatch(ctx context.Context, items []*entity.SaleItem) error
	GetByID(ctx context.Context, id string) (*entity.SaleItem, error)
	ListBySale(ctx context.Context, saleID string) ([]*entity.SaleItem, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.SaleItem, error)
	List(ctx context.Context, f SaleItemFilter, w pagination.Window) ([]*entity.SaleItem, error)
	CountByProduct(ctx context.Context, productID string) (int, error)
	DeleteBySale(ctx context.Context, saleID string) (int64, error)
}
