package repository

import (
	"context"

	"github.com/jhoicas/urbano-pos-api/internal/domain/entity"
	"github.com/jhoicas/urbano-pos-api/internal/domain/pagination"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID devuelve (nil, nil) si no existe. Las escrituras devuelven las filas afectadas.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByIDs resuelve varios productos en una sola consulta (id IN ...). Los ausentes se omiten.
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) (int64, error)
	UpdateQuantity(ctx context.Context, id string, quantity int) (int64, error)
	List(ctx context.Context, w pagination.Window) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) (int64, error)
}
