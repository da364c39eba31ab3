package sales

import (
	"context"

	"github.com/jhoicas/urbano-pos-api/internal/application/dto"
	"github.com/jhoicas/urbano-pos-api/internal/domain"
	"github.com/jhoicas/urbano-pos-api/internal/domain/entity"
	"github.com/jhoicas/urbano-pos-api/internal/domain/pagination"
	"github.com/jhoicas/urbano-pos-api/internal/domain/repository"
)

// ListItems lista ítems de venta (solo lectura). Los ítems no tienen created_at: siempre se ordena por id.
func (uc *UseCase) ListItems(ctx context.Context, q dto.SaleItemListQuery) (*dto.PageResponse[dto.SaleItemResponse], error) {
	params := q.Params()
	params.OrderBy = pagination.FieldID
	w := params.Window(pagination.FieldID)
	filter := repository.SaleItemFilter{SaleID: q.SaleID, ProductID: q.ProductID}
	page, err := pagination.Fetch(ctx, w,
		func(ctx context.Context, w pagination.Window) ([]*entity.SaleItem, error) {
			return uc.items.List(ctx, filter, w)
		},
		func(it *entity.SaleItem) pagination.Cursor { return pagination.Cursor{Value: it.ID} },
	)
	if err != nil {
		return nil, err
	}
	resp := dto.MapPage(page, ToSaleItemResponse)
	return &resp, nil
}

// GetItem devuelve un ítem por ID.
func (uc *UseCase) GetItem(ctx context.Context, id string) (*dto.SaleItemResponse, error) {
	it, err := uc.items.GetByID(ctx, id)
	if it, err = domain.RequireFound(it, err, "ítem de venta "+id); err != nil {
		return nil, err
	}
	resp := ToSaleItemResponse(it)
	return &resp, nil
}
