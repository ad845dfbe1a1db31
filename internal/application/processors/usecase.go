// Package processors administra los procesadores de pago del comercio:
// alta/baja/edición con validación de credenciales por tipo, enmascarado en
// toda salida y pruebas de conectividad contra el gateway real.
package processors

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dcastano/VerdePOS-api/internal/application/dto"
	"github.com/dcastano/VerdePOS-api/internal/domain"
	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
	"github.com/dcastano/VerdePOS-api/internal/domain/repository"
)

// testAllConcurrency cuántas pruebas de conectividad corren en paralelo.
const testAllConcurrency = 5

// ConnectionTester prueba credenciales contra el gateway del tipo dado.
// Lo implementa infrastructure/processors.Registry.
type ConnectionTester interface {
	TestConnection(ctx context.Context, processorType string, creds entity.ProcessorCredentials) error
}

// ProcessorUseCase gestiona la configuración de procesadores de pago. Las
// credenciales nunca salen en claro: toda respuesta las enmascara dejando
// visibles solo los últimos 4 caracteres de cada secreto.
type ProcessorUseCase struct {
	processorRepo repository.ProcessorRepository
	locationRepo  repository.LocationRepository
	tester        ConnectionTester
}

// NewProcessorUseCase construye el caso de uso.
func NewProcessorUseCase(
	processorRepo repository.ProcessorRepository,
	locationRepo repository.LocationRepository,
	tester ConnectionTester,
) *ProcessorUseCase {
	return &ProcessorUseCase{
		processorRepo: processorRepo,
		locationRepo:  locationRepo,
		tester:        tester,
	}
}

// Create configura un procesador nuevo. Valida las credenciales obligatorias
// según el tipo; el procesador nace activo.
func (uc *ProcessorUseCase) Create(ctx context.Context, vendorID string, in dto.CreateProcessorRequest) (*dto.ProcessorResponse, error) {
	if !entity.ValidProcessorTypes[in.Type] {
		return nil, domain.ErrInvalidInput
	}
	creds := toEntityCredentials(in.Credentials)
	if err := validateCredentials(in.Type, creds); err != nil {
		return nil, err
	}
	if in.LocationID != nil {
		location, err := uc.locationRepo.GetByID(ctx, *in.LocationID)
		if err != nil || location == nil {
			return nil, domain.ErrNotFound
		}
		if location.VendorID != vendorID {
			return nil, domain.ErrForbidden
		}
	}

	now := time.Now()
	processor := &entity.PaymentProcessor{
		ID:          uuid.New().String(),
		VendorID:    vendorID,
		LocationID:  in.LocationID,
		Type:        in.Type,
		Name:        strings.TrimSpace(in.Name),
		Credentials: creds,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.processorRepo.Create(ctx, processor); err != nil {
		return nil, err
	}
	resp := toProcessorResponse(processor)
	return &resp, nil
}

// Update edita nombre, sucursal, credenciales o estado. Credentials no-nil
// reemplaza el juego completo y se revalida contra el tipo del procesador.
func (uc *ProcessorUseCase) Update(ctx context.Context, vendorID, id string, in dto.UpdateProcessorRequest) (*dto.ProcessorResponse, error) {
	processor, err := uc.getOwned(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		processor.Name = strings.TrimSpace(*in.Name)
	}
	if in.LocationID != nil {
		if *in.LocationID == "" {
			processor.LocationID = nil
		} else {
			location, err := uc.locationRepo.GetByID(ctx, *in.LocationID)
			if err != nil || location == nil {
				return nil, domain.ErrNotFound
			}
			if location.VendorID != vendorID {
				return nil, domain.ErrForbidden
			}
			processor.LocationID = in.LocationID
		}
	}
	if in.Credentials != nil {
		creds := toEntityCredentials(*in.Credentials)
		if err := validateCredentials(processor.Type, creds); err != nil {
			return nil, err
		}
		processor.Credentials = creds
	}
	if in.Active != nil {
		processor.Active = *in.Active
	}
	processor.UpdatedAt = time.Now()
	if err := uc.processorRepo.Update(ctx, processor); err != nil {
		return nil, err
	}
	resp := toProcessorResponse(processor)
	return &resp, nil
}

// Delete elimina la configuración del procesador.
func (uc *ProcessorUseCase) Delete(ctx context.Context, vendorID, id string) error {
	processor, err := uc.getOwned(ctx, vendorID, id)
	if err != nil {
		return err
	}
	return uc.processorRepo.Delete(ctx, processor.ID)
}

// GetByID devuelve el procesador con credenciales enmascaradas, o nil si no
// existe o no pertenece al comercio.
func (uc *ProcessorUseCase) GetByID(ctx context.Context, vendorID, id string) (*dto.ProcessorResponse, error) {
	processor, err := uc.processorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if processor == nil || processor.VendorID != vendorID {
		return nil, nil
	}
	resp := toProcessorResponse(processor)
	return &resp, nil
}

// List lista los procesadores configurados del comercio.
func (uc *ProcessorUseCase) List(ctx context.Context, vendorID string) (*dto.ProcessorListResponse, error) {
	list, err := uc.processorRepo.ListByVendor(ctx, vendorID, false)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProcessorResponse, 0, len(list))
	for _, p := range list {
		items = append(items, toProcessorResponse(p))
	}
	return &dto.ProcessorListResponse{Items: items}, nil
}

// Test prueba la conectividad de un procesador contra su gateway real y
// devuelve el resultado con el tiempo de respuesta.
func (uc *ProcessorUseCase) Test(ctx context.Context, vendorID, id string) (*dto.TestConnectionResponse, error) {
	processor, err := uc.getOwned(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}
	result := uc.testOne(ctx, processor)
	return &result, nil
}

// TestAll prueba todos los procesadores activos del comercio en paralelo.
// Los fallos individuales no cortan el resto: cada resultado viene con su
// éxito o mensaje de error.
func (uc *ProcessorUseCase) TestAll(ctx context.Context, vendorID string) (*dto.TestAllResponse, error) {
	list, err := uc.processorRepo.ListByVendor(ctx, vendorID, true)
	if err != nil {
		return nil, err
	}
	results := make([]dto.TestConnectionResponse, len(list))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(testAllConcurrency)
	for i, p := range list {
		i, p := i, p
		g.Go(func() error {
			results[i] = uc.testOne(gctx, p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dto.TestAllResponse{Results: results}, nil
}

// testOne ejecuta la prueba midiendo el tiempo; el error se reporta en el
// resultado, no interrumpe.
func (uc *ProcessorUseCase) testOne(ctx context.Context, p *entity.PaymentProcessor) dto.TestConnectionResponse {
	result := dto.TestConnectionResponse{
		ProcessorID: p.ID,
		Name:        p.Name,
		Type:        p.Type,
	}
	started := time.Now()
	err := uc.tester.TestConnection(ctx, p.Type, p.Credentials)
	result.ElapsedMS = time.Since(started).Milliseconds()
	if err != nil {
		result.Message = err.Error()
		return result
	}
	result.Success = true
	return result
}

// getOwned obtiene el procesador verificando pertenencia al comercio.
func (uc *ProcessorUseCase) getOwned(ctx context.Context, vendorID, id string) (*entity.PaymentProcessor, error) {
	processor, err := uc.processorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if processor == nil {
		return nil, domain.ErrNotFound
	}
	if processor.VendorID != vendorID {
		return nil, domain.ErrForbidden
	}
	return processor, nil
}

// validateCredentials verifica los campos obligatorios de cada tipo. La
// conectividad real se verifica aparte con Test; aquí solo se exige que el
// juego de credenciales esté completo.
func validateCredentials(processorType string, c entity.ProcessorCredentials) error {
	switch processorType {
	case entity.ProcessorDejavoo:
		if c.TPN == "" || c.AuthKey == "" || c.RegisterID == "" {
			return domain.ErrInvalidInput
		}
	case entity.ProcessorStripe:
		if c.SecretKey == "" {
			return domain.ErrInvalidInput
		}
	case entity.ProcessorSquare:
		if c.AccessToken == "" || c.SquareLocationID == "" {
			return domain.ErrInvalidInput
		}
	case entity.ProcessorAuthorizeNet:
		if c.APILoginID == "" || c.TransactionKey == "" {
			return domain.ErrInvalidInput
		}
	case entity.ProcessorClover:
		if c.MerchantID == "" || c.APIToken == "" {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

// maskSecret enmascara un secreto dejando visibles los últimos 4 caracteres.
// Secretos de 4 o menos se ocultan por completo.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "••••"
	}
	return "••••" + s[len(s)-4:]
}

// maskedCredentials arma el mapa de credenciales enmascaradas; solo incluye
// los campos configurados.
func maskedCredentials(c entity.ProcessorCredentials) map[string]string {
	out := make(map[string]string)
	put := func(key, value string) {
		if value != "" {
			out[key] = maskSecret(value)
		}
	}
	put("tpn", c.TPN)
	put("auth_key", c.AuthKey)
	put("register_id", c.RegisterID)
	put("spin_url", c.SPInURL)
	put("secret_key", c.SecretKey)
	put("publishable_key", c.PublishableKey)
	put("webhook_secret", c.WebhookSecret)
	put("access_token", c.AccessToken)
	put("square_location_id", c.SquareLocationID)
	put("application_id", c.ApplicationID)
	put("api_login_id", c.APILoginID)
	put("transaction_key", c.TransactionKey)
	put("merchant_id", c.MerchantID)
	put("api_token", c.APIToken)
	put("device_id", c.DeviceID)
	return out
}

func toEntityCredentials(c dto.ProcessorCredentials) entity.ProcessorCredentials {
	return entity.ProcessorCredentials{
		TPN:              c.TPN,
		AuthKey:          c.AuthKey,
		RegisterID:       c.RegisterID,
		SPInURL:          c.SPInURL,
		SecretKey:        c.SecretKey,
		PublishableKey:   c.PublishableKey,
		WebhookSecret:    c.WebhookSecret,
		AccessToken:      c.AccessToken,
		SquareLocationID: c.SquareLocationID,
		ApplicationID:    c.ApplicationID,
		APILoginID:       c.APILoginID,
		TransactionKey:   c.TransactionKey,
		Sandbox:          c.Sandbox,
		MerchantID:       c.MerchantID,
		APIToken:         c.APIToken,
		DeviceID:         c.DeviceID,
	}
}

func toProcessorResponse(p *entity.PaymentProcessor) dto.ProcessorResponse {
	return dto.ProcessorResponse{
		ID:          p.ID,
		VendorID:    p.VendorID,
		LocationID:  p.LocationID,
		Type:        p.Type,
		Name:        p.Name,
		Credentials: maskedCredentials(p.Credentials),
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
