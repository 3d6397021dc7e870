package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jdramirez/celustock-api/internal/application/picking"
	appsync "github.com/jdramirez/celustock-api/internal/application/sync"
	"github.com/jdramirez/celustock-api/internal/application/usecase"
	"github.com/jdramirez/celustock-api/internal/infrastructure/meli"
	"github.com/jdramirez/celustock-api/internal/infrastructure/postgres"
	httpRouter "github.com/jdramirez/celustock-api/internal/interfaces/http"
	"github.com/jdramirez/celustock-api/pkg/config"
	"github.com/jdramirez/celustock-api/pkg/events"
	"github.com/jdramirez/celustock-api/pkg/logger"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	bus := events.NewBus()

	unitRepo := postgres.NewInventoryUnitRepository(pool)
	orderRepo := postgres.NewSalesOrderRepository(pool)
	skuRepo := postgres.NewSkuAliasRepository(pool)
	pickLogRepo := postgres.NewPickLogRepository(pool)
	approvalRepo := postgres.NewApprovalRequestRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	pickingUC := picking.NewUseCase(
		orderRepo, unitRepo, skuRepo, approvalRepo, pickLogRepo,
		txRunner, bus, log, cfg.Picking.AutoSubmitDelay,
	)
	unitUC := usecase.NewUnitUseCase(unitRepo, bus)

	meliClient := meli.NewClient(cfg.Meli)
	syncUC := appsync.NewUseCase(orderRepo, meliClient, bus, log, cfg.Sync.Interval, cfg.Sync.Window)
	syncUC.Start(ctx)

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
		Title:    "CeluStock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		PickingUC: pickingUC,
		SyncUC:    syncUC,
		UnitUC:    unitUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
