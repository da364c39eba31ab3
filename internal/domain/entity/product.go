package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo con stock único (sin bodegas).
// Cost es el costo unitario heredado; el costo promedio real sale de las compras (Purchase).
type Product struct {
	ID             string
	Name           string
	Description    *string
	PriceSale      decimal.Decimal // precio de venta al por menor
	PriceWholesale decimal.Decimal // precio al por mayor
	Cost           decimal.Decimal
	Quantity       int // stock disponible
	ImageRef       *string // referencia opaca devuelta por el almacenamiento de imágenes
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PriceFor devuelve el precio autoritativo del producto para el tipo de venta.
func (p *Product) PriceFor(t SaleType) decimal.Decimal {
	if t == SaleTypeWholesale {
		return p.PriceWholesale
	}
	return p.PriceSale
}
