package jobs

import (
	"context"

	"github.com/hibiken/asynq"
)

// Worker envuelve el servidor asynq del proceso de trabajos.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// WorkerConfig dependencias para levantar el worker.
type WorkerConfig struct {
	RedisOpt    asynq.RedisClientOpt
	Concurrency int
	Logger      asynq.Logger
	Receipts    *ReceiptEmailHandler
}

// NewWorker construye el worker con sus handlers registrados.
func NewWorker(cfg WorkerConfig) *Worker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	server := asynq.NewServer(cfg.RedisOpt, asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues: map[string]int{
			QueueDefault: 1,
		},
		Logger: cfg.Logger,
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeReceiptEmail, cfg.Receipts.Handle)
	return &Worker{server: server, mux: mux}
}

// Run procesa trabajos hasta que el contexto se cancele.
func (w *Worker) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.server.Run(w.mux)
	}()
	select {
	case <-ctx.Done():
		w.server.Shutdown()
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}
