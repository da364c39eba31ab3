package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de una venta nueva.
type SaleItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	PriceSale decimal.Decimal `json:"price_sale" validate:"min=0"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	TotalPrice    decimal.Decimal   `json:"total_price" validate:"min=0"`
	Discount      *decimal.Decimal  `json:"discount" validate:"omitempty,min=0"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=cash credit debit pix other"`
	SaleType      string            `json:"sale_type" validate:"required,oneof=retail wholesale"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	CreatedAt     *time.Time        `json:"created_at"`
	Notes         *string           `json:"notes" validate:"omitempty,max=1000"`
}

// UpdateSaleRequest body para PATCH /api/sales/:id. Solo campos escalares; notes "" limpia.
type UpdateSaleRequest struct {
	TotalPrice    *decimal.Decimal `json:"total_price" validate:"omitempty,min=0"`
	Discount      *decimal.Decimal `json:"discount" validate:"omitempty,min=0"`
	PaymentMethod *string          `json:"payment_method" validate:"omitempty,oneof=cash credit debit pix other"`
	Notes         *string          `json:"notes" validate:"omitempty,max=1000"`
	SaleType      *string          `json:"sale_type" validate:"omitempty,oneof=retail wholesale"`
}

// SaleItemResponse salida de un ítem de venta.
type SaleItemResponse struct {
	ID        string          `json:"id"`
	SaleID    string          `json:"sale_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	PriceSale decimal.Decimal `json:"price_sale"`
}

// SaleResponse salida de una venta. Items solo se incluye en las lecturas individuales.
type SaleResponse struct {
	ID            string             `json:"id"`
	TotalPrice    decimal.Decimal    `json:"total_price"`
	Discount      decimal.Decimal    `json:"discount"`
	PaymentMethod string             `json:"payment_method"`
	SaleType      string             `json:"sale_type"`
	Notes         *string            `json:"notes"`
	CreatedAt     time.Time          `json:"created_at"`
	Items         []SaleItemResponse `json:"items,omitempty"`
}

// SaleItemListQuery filtros de GET /api/sale-items.
type SaleItemListQuery struct {
	ListQuery
	SaleID    string `query:"sale_id"`
	ProductID string `query:"product_id"`
}
