package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
	"github.com/dcastano/VerdePOS-api/internal/domain/repository"
)

// ReceiptRenderer genera el PDF del recibo.
// Lo implementa infrastructure/pdf.MarotoReceiptGenerator.
type ReceiptRenderer interface {
	GenerateReceiptPDF(ctx context.Context, sale *entity.Sale, vendor *entity.Vendor, location *entity.Location) ([]byte, error)
}

// ReceiptSender envía el recibo ya generado.
// Lo implementa infrastructure/mail.Mailer.
type ReceiptSender interface {
	SendReceipt(to, vendorName, saleNumber string, pdf []byte) error
}

// ReceiptEmailHandler procesa las tareas TaskTypeReceiptEmail: carga la venta,
// genera el PDF del recibo y lo envía por correo.
type ReceiptEmailHandler struct {
	saleRepo     repository.SaleRepository
	vendorRepo   repository.VendorRepository
	locationRepo repository.LocationRepository
	renderer     ReceiptRenderer
	sender       ReceiptSender
	log          zerolog.Logger
}

// NewReceiptEmailHandler construye el handler del worker.
func NewReceiptEmailHandler(
	saleRepo repository.SaleRepository,
	vendorRepo repository.VendorRepository,
	locationRepo repository.LocationRepository,
	renderer ReceiptRenderer,
	sender ReceiptSender,
	log zerolog.Logger,
) *ReceiptEmailHandler {
	return &ReceiptEmailHandler{
		saleRepo:     saleRepo,
		vendorRepo:   vendorRepo,
		locationRepo: locationRepo,
		renderer:     renderer,
		sender:       sender,
		log:          log,
	}
}

// Handle ejecuta la tarea. Un payload corrupto o una venta inexistente no se
// reintentan; un fallo de SMTP o de base de datos sí.
func (h *ReceiptEmailHandler) Handle(ctx context.Context, t *asynq.Task) error {
	var payload ReceiptEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("jobs: payload de recibo ilegible: %v: %w", err, asynq.SkipRetry)
	}
	if payload.SaleID == "" || payload.Email == "" {
		return fmt.Errorf("jobs: payload de recibo incompleto: %w", asynq.SkipRetry)
	}

	sale, err := h.saleRepo.GetByID(ctx, payload.SaleID)
	if err != nil {
		return fmt.Errorf("jobs: cargar venta %s: %w", payload.SaleID, err)
	}
	if sale == nil {
		return fmt.Errorf("jobs: venta %s no existe: %w", payload.SaleID, asynq.SkipRetry)
	}

	vendor, err := h.vendorRepo.GetByID(ctx, sale.VendorID)
	if err != nil {
		return fmt.Errorf("jobs: cargar comercio %s: %w", sale.VendorID, err)
	}
	location, err := h.locationRepo.GetByID(ctx, sale.LocationID)
	if err != nil {
		return fmt.Errorf("jobs: cargar sucursal %s: %w", sale.LocationID, err)
	}

	pdf, err := h.renderer.GenerateReceiptPDF(ctx, sale, vendor, location)
	if err != nil {
		return fmt.Errorf("jobs: generar PDF del recibo %s: %w", sale.Number, err)
	}

	if err := h.sender.SendReceipt(payload.Email, vendor.Name, sale.Number, pdf); err != nil {
		return err
	}

	h.log.Info().
		Str("sale_id", sale.ID).
		Str("number", sale.Number).
		Str("to", payload.Email).
		Msg("recibo enviado por correo")
	return nil
}
