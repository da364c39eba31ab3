package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/urbano-pos-api/internal/application/inventory"
	"github.com/jhoicas/urbano-pos-api/internal/application/ports"
	"github.com/jhoicas/urbano-pos-api/internal/application/sales"
	"github.com/jhoicas/urbano-pos-api/internal/application/usecase"
	"github.com/jhoicas/urbano-pos-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SaleUC      *sales.UseCase
	ProductUC   *usecase.ProductUseCase
	PurchaseUC  *inventory.PurchaseUseCase
	StatsUC     *inventory.StatsUseCase
	Idempotency ports.IdempotencyStore // nil = sin Idempotency-Key
	Logger      *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	val := NewValidator()
	api := app.Group("/api")

	// Sales
	saleHandler := NewSaleHandler(deps.SaleUC, val)
	salesGroup := api.Group("/sales")
	salesGroup.Post("/", Idempotency(deps.Idempotency, log.Component("idempotency")), saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.Get)
	salesGroup.Patch("/:id", saleHandler.Update)
	salesGroup.Delete("/:id", saleHandler.Delete)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)

	// Sale items (solo lectura)
	itemHandler := NewSaleItemHandler(deps.SaleUC, val)
	items := api.Group("/sale-items")
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.Get)

	// Products
	productHandler := NewProductHandler(deps.ProductUC, deps.StatsUC, val)
	products := api.Group("/products")
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Patch("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Post("/:id/stock", productHandler.AdjustStock)
	products.Get("/:id/stats", productHandler.Stats)

	// Purchases
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC, val)
	purchases := api.Group("/purchases")
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/", purchaseHandler.List)
}
