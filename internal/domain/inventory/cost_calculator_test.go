package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/urbano-pos-api/internal/domain/entity"
	"github.com/jhoicas/urbano-pos-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeProductStats_ConComprasYVentas(t *testing.T) {
	product := &entity.Product{ID: "p1", Cost: d("1.00")}
	purchases := []*entity.Purchase{
		{ProductID: "p1", Quantity: 10, UnitCost: d("4.00")},
		{ProductID: "p1", Quantity: 10, UnitCost: d("6.00")},
	}
	items := []*entity.SaleItem{
		{ProductID: "p1", Quantity: 4, PriceSale: d("10.00")},
		{ProductID: "p1", Quantity: 1, PriceSale: d("8.00")},
	}

	s := inventory.ComputeProductStats(product, purchases, items)

	assert.Equal(t, "p1", s.ProductID)
	assert.Equal(t, 20, s.TotalPurchased)
	assert.True(t, s.TotalInvested.Equal(d("100")), "invertido: %s", s.TotalInvested)
	assert.True(t, s.AverageCost.Equal(d("5")), "costo promedio: %s", s.AverageCost)
	assert.Equal(t, 5, s.TotalSold)
	assert.True(t, s.TotalRevenue.Equal(d("48")))
	assert.True(t, s.GrossProfit.Equal(d("23")), "48 - 5×5")
	assert.True(t, s.ProfitMargin.Equal(d("47.92")), "margen: %s", s.ProfitMargin)
}

func TestComputeProductStats_SinComprasUsaCostoDelProducto(t *testing.T) {
	product := &entity.Product{ID: "p1", Cost: d("3.50")}
	items := []*entity.SaleItem{{ProductID: "p1", Quantity: 2, PriceSale: d("5.00")}}

	s := inventory.ComputeProductStats(product, nil, items)

	assert.Equal(t, 0, s.TotalPurchased)
	assert.True(t, s.AverageCost.Equal(d("3.50")))
	assert.True(t, s.GrossProfit.Equal(d("3")))
}

func TestComputeProductStats_SinIngresosMargenCero(t *testing.T) {
	product := &entity.Product{ID: "p1", Cost: d("2")}
	purchases := []*entity.Purchase{{ProductID: "p1", Quantity: 5, UnitCost: d("2")}}

	s := inventory.ComputeProductStats(product, purchases, nil)

	assert.True(t, s.TotalRevenue.IsZero())
	assert.True(t, s.ProfitMargin.IsZero(), "sin ingresos no hay división por cero")
	assert.True(t, s.GrossProfit.IsZero())
}
