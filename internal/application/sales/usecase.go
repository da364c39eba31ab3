// Package sales orquesta la creación, actualización y reversión de ventas sobre un store
// que solo garantiza atomicidad por tabla. Las escrituras de varios pasos corren como saga.
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/urbano-pos-api/internal/application/dto"
	"github.com/jhoicas/urbano-pos-api/internal/application/ports"
	"github.com/jhoicas/urbano-pos-api/internal/application/saga"
	"github.com/jhoicas/urbano-pos-api/internal/domain"
	"github.com/jhoicas/urbano-pos-api/internal/domain/entity"
	"github.com/jhoicas/urbano-pos-api/internal/domain/pagination"
	"github.com/jhoicas/urbano-pos-api/internal/domain/repository"
	domainsales "github.com/jhoicas/urbano-pos-api/internal/domain/sales"
)

// UseCase casos de uso de ventas.
type UseCase struct {
	sales     repository.SaleRepository
	items     repository.SaleItemRepository
	products  repository.ProductRepository
	validator *PriceValidator
	receipts  ReceiptGenerator
	observer  ports.Observer
	now       func() time.Time
}

// NewUseCase construye el caso de uso. receipts y observer pueden ser nil.
func NewUseCase(
	sales repository.SaleRepository,
	items repository.SaleItemRepository,
	products repository.ProductRepository,
	receipts ReceiptGenerator,
	observer ports.Observer,
) *UseCase {
	if observer == nil {
		observer = ports.NopObserver{}
	}
	return &UseCase{
		sales:     sales,
		items:     items,
		products:  products,
		validator: NewPriceValidator(products),
		receipts:  receipts,
		observer:  observer,
		now:       time.Now,
	}
}

// Create valida precios, totales y stock, y persiste la venta con sus ítems descontando stock.
// Ante un fallo a mitad de camino se compensan en orden inverso los pasos ya aplicados.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	saleType := entity.SaleType(in.SaleType)
	payment := entity.PaymentMethod(in.PaymentMethod)
	if !saleType.Valid() {
		return nil, domain.NewValidationError("tipo de venta inválido: %q", in.SaleType)
	}
	if !payment.Valid() {
		return nil, domain.NewValidationError("medio de pago inválido: %q", in.PaymentMethod)
	}
	if len(in.Items) == 0 {
		return nil, domain.NewValidationError("la venta debe tener al menos un ítem")
	}
	lines := make([]entity.SaleItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, domain.NewValidationError("cantidad inválida para el producto %s: %d", it.ProductID, it.Quantity)
		}
		lines = append(lines, entity.SaleItem{ProductID: CanonicalID(it.ProductID), Quantity: it.Quantity, PriceSale: it.PriceSale})
	}

	// ── 1. Precios contra el nivel del producto ──────────────────────────────
	products, err := uc.validator.Validate(ctx, lines, saleType)
	if err != nil {
		return nil, err
	}

	// ── 2. Subtotal, descuento y total ───────────────────────────────────────
	subtotal := domainsales.Subtotal(lines)
	discount := decimal.Zero
	if in.Discount != nil {
		discount = *in.Discount
	}
	if discount.GreaterThan(subtotal) {
		return nil, domain.NewValidationError("el descuento (%s) no puede ser mayor al subtotal (%s)",
			discount.StringFixed(2), subtotal.StringFixed(2))
	}
	expected := subtotal.Sub(discount)
	if !domainsales.WithinTolerance(in.TotalPrice, expected) {
		return nil, domain.NewValidationError("total_price inválido: subtotal %s - descuento %s = %s, recibido %s",
			subtotal.StringFixed(2), discount.StringFixed(2), expected.StringFixed(2), in.TotalPrice.StringFixed(2))
	}

	// ── 3. Stock disponible ──────────────────────────────────────────────────
	order, qty := domainsales.QuantitiesByProduct(lines)
	for _, id := range order {
		p := products[id]
		if qty[id] > p.Quantity {
			return nil, fmt.Errorf("%w: %q disponible %d, solicitado %d", domain.ErrInsufficientStock, p.Name, p.Quantity, qty[id])
		}
	}

	// ── 4. Escrituras como saga ──────────────────────────────────────────────
	createdAt := uc.now().UTC()
	if in.CreatedAt != nil {
		createdAt = in.CreatedAt.UTC()
	}
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		TotalPrice:    in.TotalPrice,
		Discount:      discount,
		PaymentMethod: payment,
		SaleType:      saleType,
		Notes:         normalizeNotes(in.Notes),
		CreatedAt:     createdAt,
	}
	items := make([]*entity.SaleItem, 0, len(lines))
	for _, l := range lines {
		l := l
		l.ID = uuid.New().String()
		l.SaleID = sale.ID
		items = append(items, &l)
	}

	s := saga.New("create_sale", uc.observer).
		Add(saga.Step{
			Name:       "insert_sale",
			Do:         func(ctx context.Context) error { return uc.sales.Create(ctx, sale) },
			Compensate: func(ctx context.Context) error { _, err := uc.sales.Delete(ctx, sale.ID); return err },
		}).
		Add(saga.Step{
			Name:       "insert_items",
			Do:         func(ctx context.Context) error { return uc.items.CreateBatch(ctx, items) },
			Compensate: func(ctx context.Context) error { _, err := uc.items.DeleteBySale(ctx, sale.ID); return err },
		})
	for _, id := range order {
		productID, n := id, qty[id]
		s.Add(saga.Step{
			Name: "decrement_stock:" + productID,
			Do: func(ctx context.Context) error {
				return uc.requireShift(ctx, productID, -n)
			},
			Compensate: func(ctx context.Context) error {
				return uc.requireShift(ctx, productID, n)
			},
		})
	}
	if err := s.Run(ctx); err != nil {
		return nil, err
	}

	return toSaleResponse(sale, items), nil
}

// Get devuelve la venta con sus ítems.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.sales.GetByID(ctx, id)
	if sale, err = domain.RequireFound(sale, err, "venta "+id); err != nil {
		return nil, err
	}
	items, err := uc.items.ListBySale(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items), nil
}

// List lista ventas con cursor, opcionalmente filtradas por mes/año de created_at.
func (uc *UseCase) List(ctx context.Context, q dto.ListQuery) (*dto.PageResponse[dto.SaleResponse], error) {
	w := q.Params().Window(pagination.FieldCreatedAt)
	filter := repository.SaleFilter{Period: q.Period()}
	page, err := pagination.Fetch(ctx, w,
		func(ctx context.Context, w pagination.Window) ([]*entity.Sale, error) {
			return uc.sales.List(ctx, filter, w)
		},
		func(s *entity.Sale) pagination.Cursor { return pagination.KeyOf(w.OrderBy, s.ID, s.CreatedAt) },
	)
	if err != nil {
		return nil, err
	}
	resp := dto.MapPage(page, func(s *entity.Sale) dto.SaleResponse { return *toSaleResponse(s, nil) })
	return &resp, nil
}

// Update actualiza los campos escalares de la venta. Sin campos devuelve el estado actual sin escribir.
// Si el store acepta la escritura pero no afecta filas de una venta existente se devuelve
// domain.ErrSilentRejection (no es un "no encontrado").
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateSaleRequest) (*dto.SaleResponse, error) {
	patch, err := toSalePatch(in)
	if err != nil {
		return nil, err
	}
	current, err := uc.sales.GetByID(ctx, id)
	if current, err = domain.RequireFound(current, err, "venta "+id); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return toSaleResponse(current, nil), nil
	}

	if patch.Discount != nil {
		items, err := uc.items.ListBySale(ctx, id)
		if err != nil {
			return nil, err
		}
		lines := make([]entity.SaleItem, 0, len(items))
		for _, it := range items {
			lines = append(lines, *it)
		}
		if subtotal := domainsales.Subtotal(lines); patch.Discount.GreaterThan(subtotal) {
			return nil, domain.NewValidationError("el descuento (%s) no puede ser mayor al subtotal (%s)",
				patch.Discount.StringFixed(2), subtotal.StringFixed(2))
		}
	}

	updated, err := uc.sales.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		uc.observer.Observe(ctx, ports.Event{
			Name:   ports.EventSilentRejection,
			Fields: map[string]any{"sale_id": id, "operation": "update"},
		})
		return nil, fmt.Errorf("%w: venta %s", domain.ErrSilentRejection, id)
	}
	return toSaleResponse(updated, nil), nil
}

// Remove revierte una venta: devuelve el stock de cada ítem, borra los ítems y luego la cabecera.
// Un producto que ya no existe se omite en la reposición sin bloquear el borrado.
func (uc *UseCase) Remove(ctx context.Context, id string) error {
	sale, err := uc.sales.GetByID(ctx, id)
	if _, err = domain.RequireFound(sale, err, "venta "+id); err != nil {
		return err
	}
	items, err := uc.items.ListBySale(ctx, id)
	if err != nil {
		return err
	}

	s := saga.New("remove_sale", uc.observer)

	// ── 1. Reponer stock por ítem ────────────────────────────────────────────
	for _, it := range items {
		it := it
		restocked := false
		s.Add(saga.Step{
			Name: "restock:" + it.ID,
			Do: func(ctx context.Context) error {
				found, err := uc.shiftStock(ctx, it.ProductID, it.Quantity)
				if err != nil {
					return err
				}
				if !found {
					uc.observer.Observe(ctx, ports.Event{
						Name:   ports.EventRestockSkipped,
						Saga:   "remove_sale",
						Fields: map[string]any{"sale_id": id, "product_id": it.ProductID, "quantity": it.Quantity},
					})
					return nil
				}
				restocked = true
				return nil
			},
			Compensate: func(ctx context.Context) error {
				if !restocked {
					return nil
				}
				return uc.requireShift(ctx, it.ProductID, -it.Quantity)
			},
		})
	}

	// ── 2. Borrar ítems (antes que la cabecera) ──────────────────────────────
	s.Add(saga.Step{
		Name: "delete_items",
		Do: func(ctx context.Context) error {
			_, err := uc.items.DeleteBySale(ctx, id)
			return err
		},
		Compensate: func(ctx context.Context) error {
			if len(items) == 0 {
				return nil
			}
			return uc.items.CreateBatch(ctx, items)
		},
	})

	// ── 3. Borrar cabecera ───────────────────────────────────────────────────
	s.Add(saga.Step{
		Name: "delete_sale",
		Do: func(ctx context.Context) error {
			n, err := uc.sales.Delete(ctx, id)
			if err != nil {
				return err
			}
			if n == 0 {
				uc.observer.Observe(ctx, ports.Event{
					Name:   ports.EventSilentRejection,
					Fields: map[string]any{"sale_id": id, "operation": "delete"},
				})
				return fmt.Errorf("%w: venta %s", domain.ErrSilentRejection, id)
			}
			return nil
		},
	})

	return s.Run(ctx)
}

// Receipt genera el comprobante PDF de la venta.
func (uc *UseCase) Receipt(ctx context.Context, id string) ([]byte, error) {
	if uc.receipts == nil {
		return nil, fmt.Errorf("%w: generador de comprobantes no configurado", domain.ErrInternal)
	}
	sale, err := uc.sales.GetByID(ctx, id)
	if sale, err = domain.RequireFound(sale, err, "venta "+id); err != nil {
		return nil, err
	}
	items, err := uc.items.ListBySale(ctx, id)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := uc.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	r := &Receipt{Sale: *sale, Subtotal: decimal.Zero}
	for _, it := range items {
		name, ok := names[it.ProductID]
		if !ok {
			name = it.ProductID
		}
		line := ReceiptLine{ProductName: name, Quantity: it.Quantity, UnitPrice: it.PriceSale, Total: it.LineTotal()}
		r.Lines = append(r.Lines, line)
		r.Subtotal = r.Subtotal.Add(line.Total)
	}
	return uc.receipts.Generate(ctx, r)
}

// shiftStock suma delta al stock del producto. found=false si el producto no existe.
func (uc *UseCase) shiftStock(ctx context.Context, productID string, delta int) (bool, error) {
	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return false, err
	}
	if p == nil {
		return false, nil
	}
	n, err := uc.products.UpdateQuantity(ctx, productID, p.Quantity+delta)
	if err != nil {
		return true, err
	}
	if n == 0 {
		return true, fmt.Errorf("%w: stock del producto %s", domain.ErrSilentRejection, productID)
	}
	return true, nil
}

// requireShift igual que shiftStock pero un producto inexistente es error.
func (uc *UseCase) requireShift(ctx context.Context, productID string, delta int) error {
	found, err := uc.shiftStock(ctx, productID, delta)
	if err != nil {
		return err
	}
	if !found {
		return domain.NotFoundf("producto %s", productID)
	}
	return nil
}

func toSalePatch(in dto.UpdateSaleRequest) (entity.SalePatch, error) {
	patch := entity.SalePatch{TotalPrice: in.TotalPrice, Discount: in.Discount, Notes: in.Notes}
	if in.PaymentMethod != nil {
		m := entity.PaymentMethod(*in.PaymentMethod)
		if !m.Valid() {
			return patch, domain.NewValidationError("medio de pago inválido: %q", *in.PaymentMethod)
		}
		patch.PaymentMethod = &m
	}
	if in.SaleType != nil {
		t := entity.SaleType(*in.SaleType)
		if !t.Valid() {
			return patch, domain.NewValidationError("tipo de venta inválido: %q", *in.SaleType)
		}
		patch.SaleType = &t
	}
	if patch.TotalPrice != nil && patch.TotalPrice.IsNegative() {
		return patch, domain.NewValidationError("total_price no puede ser negativo")
	}
	if patch.Discount != nil && patch.Discount.IsNegative() {
		return patch, domain.NewValidationError("el descuento no puede ser negativo")
	}
	return patch, nil
}

func normalizeNotes(n *string) *string {
	if n == nil || *n == "" {
		return nil
	}
	v := *n
	return &v
}

func toSaleResponse(s *entity.Sale, items []*entity.SaleItem) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:            s.ID,
		TotalPrice:    s.TotalPrice,
		Discount:      s.Discount,
		PaymentMethod: string(s.PaymentMethod),
		SaleType:      string(s.SaleType),
		Notes:         s.Notes,
		CreatedAt:     s.CreatedAt,
	}
	if items != nil {
		resp.Items = make([]dto.SaleItemResponse, 0, len(items))
		for _, it := range items {
			resp.Items = append(resp.Items, ToSaleItemResponse(it))
		}
	}
	return resp
}

// ToSaleItemResponse convierte un ítem a su DTO.
func ToSaleItemResponse(it *entity.SaleItem) dto.SaleItemResponse {
	return dto.SaleItemResponse{
		ID:        it.ID,
		SaleID:    it.SaleID,
		ProductID: it.ProductID,
		Quantity:  it.Quantity,
		PriceSale: it.PriceSale,
	}
}
