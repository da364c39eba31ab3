package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Image es base64 (con o sin prefijo data:).
type CreateProductRequest struct {
	Name           string          `json:"name" validate:"required,min=1,max=200"`
	Description    *string         `json:"description" validate:"omitempty,max=2000"`
	PriceSale      decimal.Decimal `json:"price_sale" validate:"min=0"`
	PriceWholesale decimal.Decimal `json:"price_wholesale" validate:"min=0"`
	Cost           decimal.Decimal `json:"cost" validate:"min=0"`
	Quantity       int             `json:"quantity" validate:"min=0"`
	Image          string          `json:"image"`
}

// UpdateProductRequest entrada para actualizar un producto (sin stock: se ajusta por /stock).
type UpdateProductRequest struct {
	Name           *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description    *string          `json:"description" validate:"omitempty,max=2000"`
	PriceSale      *decimal.Decimal `json:"price_sale" validate:"omitempty,min=0"`
	PriceWholesale *decimal.Decimal `json:"price_wholesale" validate:"omitempty,min=0"`
	Cost           *decimal.Decimal `json:"cost" validate:"omitempty,min=0"`
	Image          *string          `json:"image"`
}

// AdjustStockRequest ajuste explícito de stock: Delta relativo o Quantity absoluta (uno de los dos).
type AdjustStockRequest struct {
	Delta    *int `json:"delta"`
	Quantity *int `json:"quantity" validate:"omitempty,min=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    *string         `json:"description"`
	PriceSale      decimal.Decimal `json:"price_sale"`
	PriceWholesale decimal.Decimal `json:"price_wholesale"`
	Cost           decimal.Decimal `json:"cost"`
	Quantity       int             `json:"quantity"`
	ImageRef       *string         `json:"image_url"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
