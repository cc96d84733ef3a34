package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appalloc "github.com/ensambla/ems-api/internal/application/allocation"
	"github.com/ensambla/ems-api/internal/application/auth"
	"github.com/ensambla/ems-api/internal/application/inventory"
	"github.com/ensambla/ems-api/internal/infrastructure/postgres"
	"github.com/ensambla/ems-api/internal/infrastructure/snapshot"
	httpRouter "github.com/ensambla/ems-api/internal/interfaces/http"
	"github.com/ensambla/ems-api/pkg/config"
	"github.com/ensambla/ems-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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
	componentRepo := postgres.NewComponentRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	allocationRepo := postgres.NewAllocationRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	bomRepo := postgres.NewBomRepository(pool)
	invoiceRepo := postgres.NewSupplierInvoiceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Publisher de snapshots post-commit (mejor esfuerzo, opcional)
	var publisher appalloc.SnapshotPublisher
	if cfg.Snapshot.Enabled {
		filePublisher, err := snapshot.NewFilePublisher(cfg.Snapshot.Dir)
		if err != nil {
			log.Fatal().Err(err).Str("dir", cfg.Snapshot.Dir).Msg("directorio de snapshots")
		}
		publisher = filePublisher
	}

	registerReceiptUC := inventory.NewRegisterReceiptUseCase(txRunner, componentRepo)
	stockQueryUC := inventory.NewStockQueryUseCase(componentRepo, movementRepo)
	catalogUC := inventory.NewComponentCatalogUseCase(componentRepo)
	allocationUC := appalloc.NewAllocationUseCase(txRunner, projectRepo, invoiceRepo, publisher, log)
	allocationQueryUC := appalloc.NewAllocationQueryUseCase(allocationRepo)
	bomUC := appalloc.NewBomAllocationUseCase(bomRepo, projectRepo, componentRepo, allocationRepo, allocationUC, log)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		RegisterReceipt: registerReceiptUC,
		StockQuery:      stockQueryUC,
		Catalog:         catalogUC,
		AllocationUC:    allocationUC,
		AllocationQuery: allocationQueryUC,
		BomUC:           bomUC,
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
