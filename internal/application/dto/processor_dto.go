package dto

import "time"

// ProcessorCredentials credenciales del procesador; cada tipo usa un
// subconjunto de campos y el caso de uso valida los obligatorios según el tipo.
type ProcessorCredentials struct {
	// Dejavoo (SPIn)
	TPN        string `json:"tpn,omitempty"`
	AuthKey    string `json:"auth_key,omitempty"`
	RegisterID string `json:"register_id,omitempty"`
	SPInURL    string `json:"spin_url,omitempty"`

	// Stripe
	SecretKey      string `json:"secret_key,omitempty"`
	PublishableKey string `json:"publishable_key,omitempty"`
	WebhookSecret  string `json:"webhook_secret,omitempty"`

	// Square
	AccessToken      string `json:"access_token,omitempty"`
	SquareLocationID string `json:"square_location_id,omitempty"`
	ApplicationID    string `json:"application_id,omitempty"`

	// Authorize.Net
	APILoginID     string `json:"api_login_id,omitempty"`
	TransactionKey string `json:"transaction_key,omitempty"`
	Sandbox        bool   `json:"sandbox,omitempty"`

	// Clover
	MerchantID string `json:"merchant_id,omitempty"`
	APIToken   string `json:"api_token,omitempty"`
	DeviceID   string `json:"device_id,omitempty"`
}

// CreateProcessorRequest alta de un procesador de pago.
type CreateProcessorRequest struct {
	LocationID  *string              `json:"location_id"` // nil = todas las sucursales
	Type        string               `json:"type" validate:"required,oneof=dejavoo stripe square authorizenet clover"`
	Name        string               `json:"name" validate:"required,min=1,max=100"`
	Credentials ProcessorCredentials `json:"credentials"`
}

// UpdateProcessorRequest actualización parcial; Credentials no-nil reemplaza
// el juego completo de credenciales.
type UpdateProcessorRequest struct {
	LocationID  *string               `json:"location_id"`
	Name        *string               `json:"name" validate:"omitempty,min=1,max=100"`
	Credentials *ProcessorCredentials `json:"credentials"`
	Active      *bool                 `json:"active"`
}

// ProcessorResponse salida de un procesador. Credentials viene enmascarado:
// solo los últimos 4 caracteres de cada secreto configurado.
type ProcessorResponse struct {
	ID          string            `json:"id"`
	VendorID    string            `json:"vendor_id"`
	LocationID  *string           `json:"location_id,omitempty"`
	Type        string            `json:"type"`
	Name        string            `json:"name"`
	Credentials map[string]string `json:"credentials"`
	Active      bool              `json:"active"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ProcessorListResponse procesadores del comercio.
type ProcessorListResponse struct {
	Items []ProcessorResponse `json:"items"`
}

// TestConnectionResponse resultado de la prueba de conectividad de un procesador.
type TestConnectionResponse struct {
	ProcessorID string `json:"processor_id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	ElapsedMS   int64  `json:"elapsed_ms"`
}

// TestAllResponse resultados de probar todos los procesadores activos.
type TestAllResponse struct {
	Results []TestConnectionResponse `json:"results"`
}
