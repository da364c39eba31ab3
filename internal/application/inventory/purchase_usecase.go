package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/urbano-pos-api/internal/application/dto"
	"github.com/jhoicas/urbano-pos-api/internal/domain"
	"github.com/jhoicas/urbano-pos-api/internal/domain/entity"
	"github.com/jhoicas/urbano-pos-api/internal/domain/pagination"
	"github.com/jhoicas/urbano-pos-api/internal/domain/repository"
)

// PurchaseUseCase registra compras (solo inserción) y las lista.
// Registrar una compra no modifica el producto: el costo promedio se recalcula en las estadísticas.
type PurchaseUseCase struct {
	purchases repository.PurchaseRepository
	products  repository.ProductRepository
	now       func() time.Time
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(purchases repository.PurchaseRepository, products repository.ProductRepository) *PurchaseUseCase {
	return &PurchaseUseCase{purchases: purchases, products: products, now: time.Now}
}

// Record valida y agrega una compra.
func (uc *PurchaseUseCase) Record(ctx context.Context, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if in.Quantity <= 0 {
		return nil, domain.NewValidationError("la cantidad debe ser mayor a cero")
	}
	if in.UnitCost.IsNegative() {
		return nil, domain.NewValidationError("unit_cost no puede ser negativo")
	}
	product, err := uc.products.GetByID(ctx, in.ProductID)
	if _, err = domain.RequireFound(product, err, "producto "+in.ProductID); err != nil {
		return nil, err
	}

	createdAt := uc.now().UTC()
	if in.CreatedAt != nil {
		createdAt = in.CreatedAt.UTC()
	}
	purchase := &entity.Purchase{
		ID:        uuid.New().String(),
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		UnitCost:  in.UnitCost,
		CreatedAt: createdAt,
	}
	if err := uc.purchases.Create(ctx, purchase); err != nil {
		return nil, err
	}
	resp := toPurchaseResponse(purchase)
	return &resp, nil
}

// List lista compras con cursor; filtros opcionales por producto y mes/año.
func (uc *PurchaseUseCase) List(ctx context.Context, q dto.PurchaseListQuery) (*dto.PageResponse[dto.PurchaseResponse], error) {
	w := q.Params().Window(pagination.FieldCreatedAt)
	filter := repository.PurchaseFilter{ProductID: q.ProductID, Period: q.Period()}
	page, err := pagination.Fetch(ctx, w,
		func(ctx context.Context, w pagination.Window) ([]*entity.Purchase, error) {
			return uc.purchases.List(ctx, filter, w)
		},
		func(p *entity.Purchase) pagination.Cursor { return pagination.KeyOf(w.OrderBy, p.ID, p.CreatedAt) },
	)
	if err != nil {
		return nil, err
	}
	resp := dto.MapPage(page, toPurchaseResponse)
	return &resp, nil
}

func toPurchaseResponse(p *entity.Purchase) dto.PurchaseResponse {
	return dto.PurchaseResponse{
		ID:        p.ID,
		ProductID: p.ProductID,
		Quantity:  p.Quantity,
		UnitCost:  p.UnitCost,
		Total:     p.Total(),
		CreatedAt: p.CreatedAt,
	}
}
