package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseRequest body para POST /api/purchases.
type CreatePurchaseRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	UnitCost  decimal.Decimal `json:"unit_cost" validate:"min=0"`
	CreatedAt *time.Time      `json:"created_at"`
}

// PurchaseResponse salida de una compra.
type PurchaseResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

// PurchaseListQuery filtros de GET /api/purchases.
type PurchaseListQuery struct {
	ListQuery
	ProductID string `query:"product_id"`
}

// ProductStatsResponse estadísticas de compras y ventas de un producto.
type ProductStatsResponse struct {
	ProductID      string          `json:"product_id"`
	TotalPurchased int             `json:"total_purchased"`
	TotalInvested  decimal.Decimal `json:"total_invested"`
	AverageCost    decimal.Decimal `json:"average_cost"`
	TotalSold      int             `json:"total_sold"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	GrossProfit    decimal.Decimal `json:"gross_profit"`
	ProfitMargin   decimal.Decimal `json:"profit_margin"`
}
