package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/text/language"

	"github.com/jhoicas/urbano-pos-api/internal/application/inventory"
	"github.com/jhoicas/urbano-pos-api/internal/application/ports"
	"github.com/jhoicas/urbano-pos-api/internal/application/sales"
	"github.com/jhoicas/urbano-pos-api/internal/application/usecase"
	"github.com/jhoicas/urbano-pos-api/internal/domain/repository"
	"github.com/jhoicas/urbano-pos-api/internal/infrastructure/memory"
	"github.com/jhoicas/urbano-pos-api/internal/infrastructure/observability"
	infrapdf "github.com/jhoicas/urbano-pos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/urbano-pos-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/urbano-pos-api/internal/infrastructure/redis"
	"github.com/jhoicas/urbano-pos-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/urbano-pos-api/internal/interfaces/http"
	"github.com/jhoicas/urbano-pos-api/pkg/config"
	"github.com/jhoicas/urbano-pos-api/pkg/logger"
)

// repos los cuatro repositorios, sea cual sea el driver.
type repos struct {
	products  repository.ProductRepository
	purchases repository.PurchaseRepository
	sales     repository.SaleRepository
	items     repository.SaleItemRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.StoreDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// ── Store ───────────────────────────────────────────────────────────────
	var r repos
	if cfg.StoreDriver == "memory" {
		st := memory.NewStore()
		r = repos{st.Products, st.Purchases, st.Sales, st.SaleItems}
		log.Warn().Msg("store en memoria: los datos no se persisten")
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		st := postgres.NewStore(pool)
		r = repos{st.Products, st.Purchases, st.Sales, st.SaleItems}
	}

	// ── Observabilidad ─────────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	var observer ports.Observer = observability.NewLogObserver(log.Component("core"))
	if cfg.Metrics.Enabled {
		observer = observability.NewMulti(observer, observability.NewMetricsObserver(registry))
	}

	// ── Imágenes ───────────────────────────────────────────────────────────
	var images ports.ImageStore = storage.DataURIStore{}
	if cfg.S3.Enabled() {
		s3Store, err := storage.NewS3ImageStore(ctx, cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("configurar S3")
		}
		images = s3Store
	}

	// ── Idempotencia ───────────────────────────────────────────────────────
	var idem ports.IdempotencyStore
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		idem = infraredis.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
	}

	receipts := infrapdf.NewMarotoReceiptGenerator(cfg.App.Name, language.Spanish)
	saleUC := sales.NewUseCase(r.sales, r.items, r.products, receipts, observer)
	productUC := usecase.NewProductUseCase(r.products, r.items, r.purchases, images, observer)
	purchaseUC := inventory.NewPurchaseUseCase(r.purchases, r.products)
	statsUC := inventory.NewStatsUseCase(r.products, r.purchases, r.items)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    8 * 1024 * 1024, // imágenes en base64
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Urbano POS API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	if cfg.Metrics.Enabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		SaleUC:      saleUC,
		ProductUC:   productUC,
		PurchaseUC:  purchaseUC,
		StatsUC:     statsUC,
		Idempotency: idem,
		Logger:      log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
