package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase registro de adquisición de stock. Solo se agrega; nunca se modifica ni se elimina.
type Purchase struct {
	ID        string
	ProductID string
	Quantity  int
	UnitCost  decimal.Decimal
	CreatedAt time.Time
}

// Total devuelve quantity × unit_cost.
func (p *Purchase) Total() decimal.Decimal {
	return p.UnitCost.Mul(decimal.NewFromInt(int64(p.Quantity)))
}
