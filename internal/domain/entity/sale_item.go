package entity

import "github.com/shopspring/decimal"

// SaleItem línea de una venta (producto, cantidad, precio unitario cobrado).
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int
	PriceSale decimal.Decimal
}

// LineTotal devuelve price_sale × quantity.
func (i *SaleItem) LineTotal() decimal.Decimal {
	return i.PriceSale.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
