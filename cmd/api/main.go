package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jdvalencia/fieldops-api/internal/application/auth"
	"github.com/jdvalencia/fieldops-api/internal/application/inventory"
	"github.com/jdvalencia/fieldops-api/internal/application/usecase"
	infrapdf "github.com/jdvalencia/fieldops-api/internal/infrastructure/pdf"
	"github.com/jdvalencia/fieldops-api/internal/infrastructure/postgres"
	httpRouter "github.com/jdvalencia/fieldops-api/internal/interfaces/http"
	"github.com/jdvalencia/fieldops-api/pkg/config"
	"github.com/jdvalencia/fieldops-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	txRepo := postgres.NewTransactionRepository(pool)
	allocRepo := postgres.NewAllocationRepository(pool)
	poRepo := postgres.NewPurchaseOrderRepository(pool)
	alertRepo := postgres.NewStockAlertRepository(pool)
	countRepo := postgres.NewCountRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	unitRepo := postgres.NewUnitRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// El ledger es la única vía de escritura de cantidades; el resto de los
	// casos de uso de inventario escriben a través de él.
	ledgerUC := inventory.NewLedgerUseCase(txRunner, itemRepo, txRepo)
	allocationUC := inventory.NewAllocationUseCase(txRunner, ledgerUC, allocRepo)
	purchaseOrderUC := inventory.NewPurchaseOrderUseCase(txRunner, ledgerUC, poRepo, supplierRepo)
	countUC := inventory.NewCountUseCase(txRunner, ledgerUC, countRepo, itemRepo)
	itemUC := inventory.NewItemUseCase(txRunner, ledgerUC, itemRepo, allocRepo, poRepo)
	replenishmentUC := inventory.NewReplenishmentUseCase(itemRepo)
	alertUC := inventory.NewStockAlertUseCase(
		itemRepo, alertRepo,
		time.Duration(cfg.Alert.ExpiryDays)*24*time.Hour,
	)

	// PDF: orden de compra para el proveedor
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	purchasePDFUC := inventory.NewPurchaseOrderPDFUseCase(poRepo, supplierRepo, itemRepo, pdfGenerator)

	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	locationUC := usecase.NewLocationUseCase(locationRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	unitUC := usecase.NewUnitUseCase(unitRepo)

	authUC := auth.NewUseCase(userRepo, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "FieldOps API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:          itemUC,
		LedgerUC:        ledgerUC,
		AllocationUC:    allocationUC,
		PurchaseOrderUC: purchaseOrderUC,
		PurchasePDFUC:   purchasePDFUC,
		AlertUC:         alertUC,
		CountUC:         countUC,
		ReplenishmentUC: replenishmentUC,
		SupplierUC:      supplierUC,
		LocationUC:      locationUC,
		CategoryUC:      categoryUC,
		UnitUC:          unitUC,
		AuthUC:          authUC,
		JWTSecret:       cfg.JWT.Secret,
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
