package sales

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/urbano-pos-api/internal/domain/entity"
)

// ReceiptLine línea del comprobante con el nombre del producto ya resuelto.
type ReceiptLine struct {
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

// Receipt datos necesarios para renderizar el comprobante de una venta.
type Receipt struct {
	Sale     entity.Sale
	Lines    []ReceiptLine
	Subtotal decimal.Decimal
}

// ReceiptGenerator puerto de salida para el comprobante en PDF.
type ReceiptGenerator interface {
	Generate(ctx context.Context, r *Receipt) ([]byte, error)
}
