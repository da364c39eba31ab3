package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod medio de pago de una venta.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCredit PaymentMethod = "credit"
	PaymentDebit  PaymentMethod = "debit"
	PaymentPix    PaymentMethod = "pix"
	PaymentOther  PaymentMethod = "other"
)

// Valid indica si el medio de pago es uno de los soportados.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCredit, PaymentDebit, PaymentPix, PaymentOther:
		return true
	}
	return false
}

// SaleType define qué nivel de precio aplica: minorista o mayorista.
type SaleType string

const (
	SaleTypeRetail    SaleType = "retail"
	SaleTypeWholesale SaleType = "wholesale"
)

// Valid indica si el tipo de venta es soportado.
func (t SaleType) Valid() bool {
	return t == SaleTypeRetail || t == SaleTypeWholesale
}

// Sale cabecera de una venta. Los ítems y CreatedAt son inmutables después de crearse.
type Sale struct {
	ID            string
	TotalPrice    decimal.Decimal
	Discount      decimal.Decimal
	PaymentMethod PaymentMethod
	SaleType      SaleType
	Notes         *string
	CreatedAt     time.Time
}

// SalePatch campos actualizables de una venta; nil = sin cambio.
// Notes con valor "" limpia las observaciones.
type SalePatch struct {
	TotalPrice    *decimal.Decimal
	Discount      *decimal.Decimal
	PaymentMethod *PaymentMethod
	Notes         *string
	SaleType      *SaleType
}

// IsEmpty indica que no hay campos para actualizar.
func (p SalePatch) IsEmpty() bool {
	return p.TotalPrice == nil && p.Discount == nil && p.PaymentMethod == nil && p.Notes == nil && p.SaleType == nil
}

// Apply aplica el patch sobre una copia de la venta.
func (p SalePatch) Apply(s Sale) Sale {
	if p.TotalPrice != nil {
		s.TotalPrice = *p.TotalPrice
	}
	if p.Discount != nil {
		s.Discount = *p.Discount
	}
	if p.PaymentMethod != nil {
		s.PaymentMethod = *p.PaymentMethod
	}
	if p.Notes != nil {
		if *p.Notes == "" {
			s.Notes = nil
		} else {
			n := *p.Notes
			s.Notes = &n
		}
	}
	if p.SaleType != nil {
		s.SaleType = *p.SaleType
	}
	return s
}
