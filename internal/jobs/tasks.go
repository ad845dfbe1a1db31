// Package jobs define las tareas en segundo plano del POS y el worker
// asynq que las consume. El API encola; el proceso worker ejecuta.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault cola por defecto para los trabajos.
	QueueDefault = "default"
	// TaskTypeReceiptEmail tipo de tarea para enviar un recibo por correo.
	TaskTypeReceiptEmail = "receipt:email"

	receiptEmailMaxRetry = 5
)

// ReceiptEmailPayload datos necesarios para enviar un recibo por correo.
type ReceiptEmailPayload struct {
	SaleID string `json:"sale_id"`
	Email  string `json:"email"`
}

// NewReceiptEmailTask construye la tarea asynq para el envío de un recibo.
func NewReceiptEmailTask(payload ReceiptEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("jobs: serializar payload de recibo: %w", err)
	}
	return asynq.NewTask(TaskTypeReceiptEmail, data), nil
}

// Enqueuer encola tareas desde el API. Implementa sales.ReceiptMailer.
type Enqueuer struct {
	client *asynq.Client
}

// NewEnqueuer construye el encolador sobre un cliente asynq.
func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// EnqueueReceiptEmail encola el envío del recibo de la venta al correo
// indicado. La respuesta HTTP no espera al envío real.
func (e *Enqueuer) EnqueueReceiptEmail(ctx context.Context, saleID, email string) error {
	task, err := NewReceiptEmailTask(ReceiptEmailPayload{SaleID: saleID, Email: email})
	if err != nil {
		return err
	}
	_, err = e.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(receiptEmailMaxRetry),
	)
	if err != nil {
		return fmt.Errorf("jobs: encolar recibo de venta %s: %w", saleID, err)
	}
	return nil
}

// Close libera el cliente asynq.
func (e *Enqueuer) Close() error {
	return e.client.Close()
}
