// Proceso worker: consume la cola de trabajos (envío de recibos por correo).
// Corre separado del API para que el SMTP lento nunca bloquee una venta.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/dcastano/VerdePOS-api/internal/infrastructure/mail"
	infrapdf "github.com/dcastano/VerdePOS-api/internal/infrastructure/pdf"
	"github.com/dcastano/VerdePOS-api/internal/infrastructure/postgres"
	"github.com/dcastano/VerdePOS-api/internal/jobs"
	"github.com/dcastano/VerdePOS-api/pkg/config"
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
		Int("concurrency", cfg.Worker.Concurrency).
		Msg("iniciando worker de trabajos")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	saleRepo := postgres.NewSaleRepository(pool)
	vendorRepo := postgres.NewVendorRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)

	renderer := infrapdf.NewMarotoReceiptGenerator()
	mailer := mail.NewMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)
	receipts := jobs.NewReceiptEmailHandler(saleRepo, vendorRepo, locationRepo, renderer, mailer, log.Zerolog())

	worker := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpt: asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		Concurrency: cfg.Worker.Concurrency,
		Logger:      log.Asynq(),
		Receipts:    receipts,
	})

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		log.Fatal().Err(err).Msg("worker finalizado con error")
	}

	log.Info().Msg("worker detenido")
}
