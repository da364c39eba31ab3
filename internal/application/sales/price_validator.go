package sales

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/urbano-pos-api/internal/domain"
	"github.com/jhoicas/urbano-pos-api/internal/domain/entity"
	"github.com/jhoicas/urbano-pos-api/internal/domain/repository"
	domainsales "github.com/jhoicas/urbano-pos-api/internal/domain/sales"
)

// PriceValidator verifica que el precio de cada ítem coincida con el precio del producto
// para el tipo de venta. No escribe nada.
type PriceValidator struct {
	products repository.ProductRepository
}

// NewPriceValidator construye el validador.
func NewPriceValidator(products repository.ProductRepository) *PriceValidator {
	return &PriceValidator{products: products}
}

// Validate resuelve todos los productos en una sola consulta y compara precios con tolerancia 0.01.
// Devuelve los productos indexados por ID para los pasos siguientes.
func (v *PriceValidator) Validate(ctx context.Context, items []entity.SaleItem, saleType entity.SaleType) (map[string]*entity.Product, error) {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, CanonicalID(it.ProductID))
	}
	list, err := v.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("validar precios: %w", err)
	}
	byID := make(map[string]*entity.Product, len(list))
	for _, p := range list {
		byID[CanonicalID(p.ID)] = p
	}

	for _, it := range items {
		p, ok := byID[CanonicalID(it.ProductID)]
		if !ok {
			return nil, domain.NewValidationError("producto no encontrado: %s", it.ProductID)
		}
		expected := p.PriceFor(saleType)
		if !domainsales.WithinTolerance(it.PriceSale, expected) {
			return nil, domain.NewValidationError(
				"precio inválido para %q (%s): venta %s espera %s (%s), recibido %s",
				p.Name, p.ID, domainsales.TierLabel(saleType), expected.StringFixed(2),
				domainsales.TierField(saleType), it.PriceSale.StringFixed(2),
			)
		}
	}
	return byID, nil
}

// CanonicalID normaliza un UUID a su forma canónica (minúsculas, sin llaves ni prefijo urn).
// Un ID que no es UUID se devuelve sin cambios.
func CanonicalID(id string) string {
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return id
}
