// Package sales contiene las reglas de precio y totales de una venta (servicio de dominio).
package sales

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/urbano-pos-api/internal/domain/entity"
)

// Tolerance diferencia máxima aceptada entre un monto enviado y el calculado.
var Tolerance = decimal.New(1, -2)

// WithinTolerance indica si |a - b| <= 0.01.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// TierLabel nombre del nivel de precio para mensajes al usuario.
func TierLabel(t entity.SaleType) string {
	if t == entity.SaleTypeWholesale {
		return "mayorista"
	}
	return "minorista"
}

// TierField nombre del campo de precio del producto que aplica al tipo de venta.
func TierField(t entity.SaleType) string {
	if t == entity.SaleTypeWholesale {
		return "price_wholesale"
	}
	return "price_sale"
}

// Subtotal Σ price_sale × quantity de los ítems.
func Subtotal(items []entity.SaleItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].LineTotal())
	}
	return total
}

// QuantitiesByProduct suma las cantidades por producto, conservando el orden de primera aparición.
func QuantitiesByProduct(items []entity.SaleItem) ([]string, map[string]int) {
	order := make([]string, 0, len(items))
	qty := make(map[string]int, len(items))
	for _, it := range items {
		if _, ok := qty[it.ProductID]; !ok {
			order = append(order, it.ProductID)
		}
		qty[it.ProductID] += it.Quantity
	}
	return order, qty
}
