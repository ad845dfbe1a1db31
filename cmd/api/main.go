package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"

	appanalytics "github.com/dcastano/VerdePOS-api/internal/application/analytics"
	"github.com/dcastano/VerdePOS-api/internal/application/audit"
	"github.com/dcastano/VerdePOS-api/internal/application/auth"
	"github.com/dcastano/VerdePOS-api/internal/application/inventory"
	appprocessors "github.com/dcastano/VerdePOS-api/internal/application/processors"
	"github.com/dcastano/VerdePOS-api/internal/application/sales"
	"github.com/dcastano/VerdePOS-api/internal/application/transfer"
	"github.com/dcastano/VerdePOS-api/internal/application/usecase"
	"github.com/dcastano/VerdePOS-api/internal/domain/pos"
	"github.com/dcastano/VerdePOS-api/internal/infrastructure/cache"
	"github.com/dcastano/VerdePOS-api/internal/infrastructure/excel"
	infrapdf "github.com/dcastano/VerdePOS-api/internal/infrastructure/pdf"
	"github.com/dcastano/VerdePOS-api/internal/infrastructure/postgres"
	infraprocessors "github.com/dcastano/VerdePOS-api/internal/infrastructure/processors"
	httpRouter "github.com/dcastano/VerdePOS-api/internal/interfaces/http"
	"github.com/dcastano/VerdePOS-api/internal/jobs"
	"github.com/dcastano/VerdePOS-api/pkg/config"
	"github.com/dcastano/VerdePOS-api/pkg/docnum"
	"github.com/dcastano/VerdePOS-api/pkg/logger"
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
	vendorRepo := postgres.NewVendorRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	adjustmentRepo := postgres.NewAdjustmentRepository(pool)
	levelRepo := postgres.NewInventoryLevelRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	processorRepo := postgres.NewProcessorRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Redis es opcional: sin él el dashboard consulta directo a PostgreSQL.
	redisClient, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Warn().Err(err).Msg("Redis no disponible, dashboard sin caché")
		redisClient = nil
	}
	dashCache := cache.NewCache(redisClient, 5*time.Minute)

	// Cola de trabajos: el API solo encola; cmd/worker consume.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	enqueuer := jobs.NewEnqueuer(asynqClient)
	defer enqueuer.Close()

	numbers, err := docnum.New(cfg.Worker.NodeID)
	if err != nil {
		log.Fatal().Err(err).Msg("generador de consecutivos")
	}

	connTimeout := time.Duration(cfg.Processors.TimeoutSeconds) * time.Second
	registry := infraprocessors.NewRegistry(
		infraprocessors.NewDejavooConnector(cfg.Processors.DejavooBaseURL, connTimeout),
		infraprocessors.NewStripeConnector(connTimeout),
		infraprocessors.NewSquareConnector(connTimeout),
		infraprocessors.NewAuthorizeNetConnector(connTimeout),
		infraprocessors.NewCloverConnector(connTimeout),
	)

	receiptCodes := pos.NewReceiptCodeService()
	pdfGenerator := infrapdf.NewMarotoReceiptGenerator()
	exporter := excel.NewExporter()

	authUC := auth.NewAuthUseCase(userRepo, vendorRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	vendorUC := usecase.NewVendorUseCase(vendorRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	locationUC := usecase.NewLocationUseCase(locationRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo)
	moduleSvc := usecase.NewModuleService(vendorRepo)

	adjustmentUC := inventory.NewAdjustmentUseCase(txRunner, adjustmentRepo, productRepo, locationRepo, exporter)
	levelsUC := inventory.NewLevelsUseCase(levelRepo, locationRepo, exporter)
	auditUC := audit.NewAuditUseCase(auditRepo, adjustmentRepo, stockRepo, locationRepo, adjustmentUC)
	transferUC := transfer.NewTransferUseCase(txRunner, transferRepo, locationRepo, productRepo, numbers)
	saleUC := sales.NewSaleUseCase(
		txRunner, saleRepo, productRepo, locationRepo, vendorRepo,
		receiptCodes, numbers, exporter, pdfGenerator, enqueuer, dashCache,
	)
	sessionUC := sales.NewSessionUseCase(txRunner, sessionRepo, locationRepo)
	processorUC := appprocessors.NewProcessorUseCase(processorRepo, locationRepo, registry)
	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo, dashCache)

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
		Title:    "VerdePOS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		VendorUC:     vendorUC,
		UserUC:       userUC,
		LocationUC:   locationUC,
		CategoryUC:   categoryUC,
		ProductUC:    productUC,
		AdjustmentUC: adjustmentUC,
		LevelsUC:     levelsUC,
		AuditUC:      auditUC,
		TransferUC:   transferUC,
		SaleUC:       saleUC,
		SessionUC:    sessionUC,
		ProcessorUC:  processorUC,
		DashboardUC:  dashboardUC,
		Modules:      moduleSvc,
		JWTSecret:    cfg.JWT.Secret,
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
