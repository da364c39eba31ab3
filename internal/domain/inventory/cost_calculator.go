package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/urbano-pos-api/internal/domain/entity"
)

// ProductStats agregado de compras y ventas de un producto.
type ProductStats struct {
	ProductID      string
	TotalPurchased int
	TotalInvested  decimal.Decimal
	AverageCost    decimal.Decimal
	TotalSold      int
	TotalRevenue   decimal.Decimal
	GrossProfit    decimal.Decimal
	ProfitMargin   decimal.Decimal // porcentaje, 2 decimales
}

// WeightedAverageCost implementa el costo promedio ponderado (servicio de dominio).
// CostoPromedio = Σ(cantidad × costo_unitario) / Σ cantidad. Sin compras devuelve fallback.
func WeightedAverageCost(purchases []*entity.Purchase, fallback decimal.Decimal) (avg, invested decimal.Decimal, units int) {
	invested = decimal.Zero
	for i := range purchases {
		units += purchases[i].Quantity
		invested = invested.Add(purchases[i].Total())
	}
	if units <= 0 {
		return fallback, invested, units
	}
	return invested.Div(decimal.NewFromInt(int64(units))), invested, units
}

// ComputeProductStats recalcula las estadísticas completas del producto.
func ComputeProductStats(product *entity.Product, purchases []*entity.Purchase, items []*entity.SaleItem) ProductStats {
	avg, invested, purchased := WeightedAverageCost(purchases, product.Cost)

	revenue := decimal.Zero
	sold := 0
	for i := range items {
		sold += items[i].Quantity
		revenue = revenue.Add(items[i].LineTotal())
	}

	costOfSold := avg.Mul(decimal.NewFromInt(int64(sold)))
	profit := revenue.Sub(costOfSold)
	margin := decimal.Zero
	if revenue.IsPositive() {
		margin = profit.Div(revenue).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return ProductStats{
		ProductID:      product.ID,
		TotalPurchased: purchased,
		TotalInvested:  invested,
		AverageCost:    avg,
		TotalSold:      sold,
		TotalRevenue:   revenue,
		GrossProfit:    profit,
		ProfitMargin:   margin,
	}
}
