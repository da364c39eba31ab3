package sales_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/urbano-pos-api/internal/application/dto"
	"github.com/jhoicas/urbano-pos-api/internal/application/ports"
	"github.com/jhoicas/urbano-pos-api/internal/application/sales"
	"github.com/jhoicas/urbano-pos-api/internal/domain"
	"github.com/jhoicas/urbano-pos-api/internal/domain/entity"
	"github.com/jhoicas/urbano-pos-api/internal/domain/pagination"
	"github.com/jhoicas/urbano-pos-api/internal/domain/repository"
	"github.com/jhoicas/urbano-pos-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal { v := d(s); return &v }

func sp(s string) *string { return &s }

type eventLog struct {
	mu     sync.Mutex
	events []ports.Event
}

func (l *eventLog) Observe(_ context.Context, e ports.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) has(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.events {
		if e.Name == name {
			return true
		}
	}
	return false
}

type fixture struct {
	store *memory.Store
	log   *eventLog
	uc    *sales.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: memory.NewStore(), log: &eventLog{}}
	f.uc = sales.NewUseCase(f.store.Sales, f.store.SaleItems, f.store.Products, nil, f.log)
	return f
}

func (f *fixture) addProduct(t *testing.T, id, retail, wholesale string, qty int) {
	t.Helper()
	require.NoError(t, f.store.Products.Create(context.Background(), &entity.Product{
		ID:             id,
		Name:           "Producto " + id,
		PriceSale:      d(retail),
		PriceWholesale: d(wholesale),
		Cost:           d("1"),
		Quantity:       qty,
		CreatedAt:      time.Now(),
	}))
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.store.Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Quantity
}

func (f *fixture) countSales(t *testing.T) int {
	t.Helper()
	rows, err := f.store.Sales.List(context.Background(), repository.SaleFilter{}, pagination.Params{Limit: 100}.Window(pagination.FieldID))
	require.NoError(t, err)
	return len(rows)
}

func basicSale(price, discount, total string) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		TotalPrice:    d(total),
		Discount:      dp(discount),
		PaymentMethod: "cash",
		SaleType:      "retail",
		Items:         []dto.SaleItemRequest{{ProductID: "p1", Quantity: 2, PriceSale: d(price)}},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_TotalConDescuento(t *testing.T) {
	ctx := context.Background()

	t.Run("18.00 no coincide con 20.00 - 1.00", func(t *testing.T) {
		f := newFixture(t)
		f.addProduct(t, "p1", "10.00", "8.00", 10)

		_, err := f.uc.Create(ctx, basicSale("10.00", "1.00", "18.00"))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Contains(t, err.Error(), "19.00", "el mensaje incluye el total esperado")
		assert.Equal(t, 0, f.countSales(t), "no se persiste nada")
		assert.Equal(t, 10, f.stock(t, "p1"))
	})

	t.Run("19.00 es correcto", func(t *testing.T) {
		f := newFixture(t)
		f.addProduct(t, "p1", "10.00", "8.00", 10)

		resp, err := f.uc.Create(ctx, basicSale("10.00", "1.00", "19.00"))
		require.NoError(t, err)
		assert.True(t, resp.TotalPrice.Equal(d("19")))
		assert.True(t, resp.Discount.Equal(d("1")))
		require.Len(t, resp.Items, 1)
		assert.Equal(t, resp.ID, resp.Items[0].SaleID)
		assert.Equal(t, 8, f.stock(t, "p1"), "el stock se descuenta al crear")
	})

	t.Run("tolerancia de 0.01", func(t *testing.T) {
		f := newFixture(t)
		f.addProduct(t, "p1", "10.00", "8.00", 10)

		_, err := f.uc.Create(ctx, basicSale("10.00", "1.00", "19.01"))
		require.NoError(t, err)
	})
}

func TestCreate_IDDeProductoEnMayusculas(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := "3f2c8a1e-9b7d-4c6a-8e5f-1a2b3c4d5e6f"
	f.addProduct(t, id, "10.00", "8.00", 5)

	req := basicSale("10.00", "0", "20.00")
	req.Items[0].ProductID = strings.ToUpper(id)
	resp, err := f.uc.Create(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, id, resp.Items[0].ProductID)
	assert.Equal(t, 3, f.stock(t, id))
}

func TestCreate_PrecioDeNivelIncorrecto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "p1", "9.99", "7.99", 10)

	req := dto.CreateSaleRequest{
		TotalPrice:    d("9.99"),
		PaymentMethod: "pix",
		SaleType:      "wholesale",
		Items:         []dto.SaleItemRequest{{ProductID: "p1", Quantity: 1, PriceSale: d("9.99")}},
	}
	_, err := f.uc.Create(ctx, req)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "7.99")
	assert.Contains(t, err.Error(), "mayorista")
	assert.Equal(t, 0, f.countSales(t))
}

func TestCreate_ProductoInexistente(t *testing.T) {
	f := newFixture(t)
	req := basicSale("10.00", "0", "20.00")

	_, err := f.uc.Create(context.Background(), req)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "p1")
}

func TestCreate_DescuentoMayorAlSubtotal(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p1", "10.00", "8.00", 10)

	_, err := f.uc.Create(context.Background(), basicSale("10.00", "25.00", "0"))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "25.00")
	assert.Contains(t, err.Error(), "20.00")
}

func TestCreate_StockInsuficiente(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p1", "10.00", "8.00", 3)

	req := basicSale("10.00", "0", "40.00")
	req.Items = append(req.Items, dto.SaleItemRequest{ProductID: "p1", Quantity: 2, PriceSale: d("10.00")})
	_, err := f.uc.Create(context.Background(), req)

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 3, f.stock(t, "p1"))
}

// failingItems falla siempre al insertar ítems.
type failingItems struct {
	*memory.SaleItemRepo
	err error
}

func (r *failingItems) CreateBatch(context.Context, []*entity.SaleItem) error { return r.err }

type failingSaleDelete struct {
	*memory.SaleRepo
	err error
}

func (r *failingSaleDelete) Delete(context.Context, string) (int64, error) { return 0, r.err }

func TestCreate_CompensaCabeceraSiFallanLosItems(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	boom := errors.New("insert sale_items: connection reset")
	uc := sales.NewUseCase(store.Sales, &failingItems{SaleItemRepo: store.SaleItems, err: boom}, store.Products, nil, nil)
	require.NoError(t, store.Products.Create(ctx, &entity.Product{ID: "p1", Name: "x", PriceSale: d("10"), Quantity: 5}))

	_, err := uc.Create(ctx, basicSale("10.00", "0", "20.00"))

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrPartialFailure)
	rows, err := store.Sales.List(ctx, repository.SaleFilter{}, pagination.Params{}.Window(pagination.FieldID))
	require.NoError(t, err)
	assert.Empty(t, rows, "la cabecera huérfana se elimina")
	p, _ := store.Products.GetByID(ctx, "p1")
	assert.Equal(t, 5, p.Quantity)
}

func TestCreate_FalloParcialSiLaCompensacionFalla(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	boom := errors.New("insert sale_items")
	undo := errors.New("delete sale")
	log := &eventLog{}
	uc := sales.NewUseCase(
		&failingSaleDelete{SaleRepo: store.Sales, err: undo},
		&failingItems{SaleItemRepo: store.SaleItems, err: boom},
		store.Products, nil, log,
	)
	require.NoError(t, store.Products.Create(ctx, &entity.Product{ID: "p1", Name: "x", PriceSale: d("10"), Quantity: 5}))

	_, err := uc.Create(ctx, basicSale("10.00", "0", "20.00"))

	assert.ErrorIs(t, err, domain.ErrPartialFailure)
	assert.ErrorIs(t, err, domain.ErrInternal)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, undo)
	assert.True(t, log.has(ports.EventCompensationFailed))
}

// ──────────────────────────────────────────────────────────────────────────────
// Remove
// ──────────────────────────────────────────────────────────────────────────────

func TestRemove_RestauraStockYBorraItems(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "p1", "10.00", "8.00", 10)
	f.addProduct(t, "p2", "5.00", "4.00", 10)

	req := dto.CreateSaleRequest{
		TotalPrice:    d("35.00"),
		PaymentMethod: "debit",
		SaleType:      "retail",
		Items: []dto.SaleItemRequest{
			{ProductID: "p1", Quantity: 3, PriceSale: d("10.00")},
			{ProductID: "p2", Quantity: 1, PriceSale: d("5.00")},
		},
	}
	created, err := f.uc.Create(ctx, req)
	require.NoError(t, err)
	require.Equal(t, 7, f.stock(t, "p1"))

	require.NoError(t, f.uc.Remove(ctx, created.ID))

	assert.Equal(t, 10, f.stock(t, "p1"))
	assert.Equal(t, 10, f.stock(t, "p2"))
	items, err := f.store.SaleItems.ListBySale(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, items, "ningún ítem referencia la venta borrada")
	_, err = f.uc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemove_OmiteProductoEliminado(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "p1", "10.00", "8.00", 10)

	created, err := f.uc.Create(ctx, basicSale("10.00", "0", "20.00"))
	require.NoError(t, err)
	_, err = f.store.Products.Delete(ctx, "p1")
	require.NoError(t, err)

	require.NoError(t, f.uc.Remove(ctx, created.ID))
	assert.True(t, f.log.has(ports.EventRestockSkipped))
}

func TestRemove_VentaInexistente(t *testing.T) {
	f := newFixture(t)
	err := f.uc.Remove(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemove_CompensaSiFallaElBorradoDeCabecera(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Products.Create(ctx, &entity.Product{ID: "p1", Name: "x", PriceSale: d("10"), Quantity: 5}))
	creator := sales.NewUseCase(store.Sales, store.SaleItems, store.Products, nil, nil)
	created, err := creator.Create(ctx, basicSale("10.00", "0", "20.00"))
	require.NoError(t, err)
	require.Equal(t, 3, mustStock(t, store, "p1"))

	boom := errors.New("delete sale: timeout")
	remover := sales.NewUseCase(&failingSaleDelete{SaleRepo: store.Sales, err: boom}, store.SaleItems, store.Products, nil, nil)
	err = remover.Remove(ctx, created.ID)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, mustStock(t, store, "p1"), "la reposición se deshace")
	items, err := store.SaleItems.ListBySale(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1, "los ítems se reinsertan")
}

func mustStock(t *testing.T, store *memory.Store, id string) int {
	t.Helper()
	p, err := store.Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Quantity
}

// ──────────────────────────────────────────────────────────────────────────────
// Update
// ──────────────────────────────────────────────────────────────────────────────

// countingSales cuenta llamadas a Update y puede simular rechazo silencioso.
type countingSales struct {
	*memory.SaleRepo
	updates int
	reject  bool
}

func (r *countingSales) Update(ctx context.Context, id string, patch entity.SalePatch) (*entity.Sale, error) {
	r.updates++
	if r.reject {
		return nil, nil
	}
	return r.SaleRepo.Update(ctx, id, patch)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Products.Create(ctx, &entity.Product{ID: "p1", Name: "x", PriceSale: d("10"), Quantity: 50}))
	counting := &countingSales{SaleRepo: store.Sales}
	uc := sales.NewUseCase(counting, store.SaleItems, store.Products, nil, nil)

	req := basicSale("10.00", "0", "20.00")
	req.Notes = sp("primera")
	created, err := uc.Create(ctx, req)
	require.NoError(t, err)

	t.Run("patch vacío no escribe", func(t *testing.T) {
		resp, err := uc.Update(ctx, created.ID, dto.UpdateSaleRequest{})
		require.NoError(t, err)
		assert.Equal(t, created.ID, resp.ID)
		assert.Equal(t, 0, counting.updates)
	})

	t.Run("actualiza campos escalares", func(t *testing.T) {
		resp, err := uc.Update(ctx, created.ID, dto.UpdateSaleRequest{
			PaymentMethod: sp("credit"),
			TotalPrice:    dp("18.00"),
			Discount:      dp("2.00"),
		})
		require.NoError(t, err)
		assert.Equal(t, "credit", resp.PaymentMethod)
		assert.True(t, resp.Discount.Equal(d("2")))
		require.NotNil(t, resp.Notes)
	})

	t.Run("notas vacías limpian", func(t *testing.T) {
		resp, err := uc.Update(ctx, created.ID, dto.UpdateSaleRequest{Notes: sp("")})
		require.NoError(t, err)
		assert.Nil(t, resp.Notes)
	})

	t.Run("descuento mayor al subtotal", func(t *testing.T) {
		_, err := uc.Update(ctx, created.ID, dto.UpdateSaleRequest{Discount: dp("20.01")})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("medio de pago inválido", func(t *testing.T) {
		_, err := uc.Update(ctx, created.ID, dto.UpdateSaleRequest{PaymentMethod: sp("bitcoin")})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("venta inexistente", func(t *testing.T) {
		_, err := uc.Update(ctx, "nope", dto.UpdateSaleRequest{Notes: sp("x")})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("rechazo silencioso", func(t *testing.T) {
		counting.reject = true
		defer func() { counting.reject = false }()

		_, err := uc.Update(ctx, created.ID, dto.UpdateSaleRequest{Notes: sp("x")})
		assert.ErrorIs(t, err, domain.ErrSilentRejection)
		assert.ErrorIs(t, err, domain.ErrInternal)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// List / items
// ──────────────────────────────────────────────────────────────────────────────

func TestList_PaginaYFiltraPorMes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "p1", "10.00", "8.00", 100)

	for _, ts := range []time.Time{
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 11, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 12, 0, 0, 0, 0, time.UTC),
	} {
		ts := ts
		req := basicSale("10.00", "0", "20.00")
		req.CreatedAt = &ts
		_, err := f.uc.Create(ctx, req)
		require.NoError(t, err)
	}

	page, err := f.uc.List(ctx, dto.ListQuery{Limit: 2, Month: 2, Year: 2024})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	require.NotNil(t, page.NextCursor)
	assert.True(t, page.Data[0].CreatedAt.After(page.Data[1].CreatedAt), "descendente por defecto")
	assert.Nil(t, page.Data[0].Items, "el listado no incluye ítems")

	next, err := f.uc.List(ctx, dto.ListQuery{Limit: 2, Month: 2, Year: 2024, Cursor: *page.NextCursor})
	require.NoError(t, err)
	require.Len(t, next.Data, 1)
	assert.Nil(t, next.NextCursor)
	assert.Equal(t, 10, next.Data[0].CreatedAt.Day())

	all, err := f.uc.List(ctx, dto.ListQuery{Month: 2})
	require.NoError(t, err)
	assert.Len(t, all.Data, 4, "mes sin año no filtra")
}

func TestItems_SoloLectura(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "p1", "10.00", "8.00", 10)
	created, err := f.uc.Create(ctx, basicSale("10.00", "0", "20.00"))
	require.NoError(t, err)

	page, err := f.uc.ListItems(ctx, dto.SaleItemListQuery{SaleID: created.ID})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)

	item, err := f.uc.GetItem(ctx, page.Data[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)

	_, err = f.uc.GetItem(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
