package inventory

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/urbano-pos-api/internal/application/dto"
	"github.com/jhoicas/urbano-pos-api/internal/domain"
	"github.com/jhoicas/urbano-pos-api/internal/domain/entity"
	domaininv "github.com/jhoicas/urbano-pos-api/internal/domain/inventory"
	"github.com/jhoicas/urbano-pos-api/internal/domain/repository"
)

// StatsUseCase calcula estadísticas de compra/venta por producto. Se recalcula en cada llamada.
type StatsUseCase struct {
	products  repository.ProductRepository
	purchases repository.PurchaseRepository
	items     repository.SaleItemRepository
}

// NewStatsUseCase construye el caso de uso.
func NewStatsUseCase(
	products repository.ProductRepository,
	purchases repository.PurchaseRepository,
	items repository.SaleItemRepository,
) *StatsUseCase {
	return &StatsUseCase{products: products, purchases: purchases, items: items}
}

// GetProductStats lee producto, compras e ítems vendidos en paralelo y agrega.
func (uc *StatsUseCase) GetProductStats(ctx context.Context, productID string) (*dto.ProductStatsResponse, error) {
	var (
		product   *entity.Product
		purchases []*entity.Purchase
		items     []*entity.SaleItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := uc.products.GetByID(gctx, productID)
		product, err = domain.RequireFound(p, err, "producto "+productID)
		return err
	})
	g.Go(func() error {
		var err error
		purchases, err = uc.purchases.ListByProduct(gctx, productID)
		if err != nil {
			return fmt.Errorf("compras del producto: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		items, err = uc.items.ListByProduct(gctx, productID)
		if err != nil {
			return fmt.Errorf("ventas del producto: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s := domaininv.ComputeProductStats(product, purchases, items)
	return &dto.ProductStatsResponse{
		ProductID:      s.ProductID,
		TotalPurchased: s.TotalPurchased,
		TotalInvested:  s.TotalInvested,
		AverageCost:    s.AverageCost,
		TotalSold:      s.TotalSold,
		TotalRevenue:   s.TotalRevenue,
		GrossProfit:    s.GrossProfit,
		ProfitMargin:   s.ProfitMargin,
	}, nil
}
