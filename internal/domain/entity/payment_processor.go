package entity

import "time"

// Tipos de procesador de pago soportados.
const (
	ProcessorDejavoo      = "dejavoo"
	ProcessorStripe       = "stripe"
	ProcessorSquare       = "square"
	ProcessorAuthorizeNet = "authorizenet"
	ProcessorClover       = "clover"
)

// ValidProcessorTypes conjunto de tipos aceptados al configurar un procesador.
var ValidProcessorTypes = map[string]bool{
	ProcessorDejavoo:      true,
	ProcessorStripe:       true,
	ProcessorSquare:       true,
	ProcessorAuthorizeNet: true,
	ProcessorClover:       true,
}

// ProcessorCredentials agrupa las credenciales de todos los tipos; cada tipo
// usa un subconjunto y el caso de uso valida los campos obligatorios según Type.
// Se persiste como jsonb y nunca se devuelve sin enmascarar.
type ProcessorCredentials struct {
	// Dejavoo (SPIn)
	TPN        string `json:"tpn,omitempty"`         // terminal profile number
	AuthKey    string `json:"auth_key,omitempty"`    // llave de autenticación SPIn
	RegisterID string `json:"register_id,omitempty"` // id de caja registrado en la terminal
	SPInURL    string `json:"spin_url,omitempty"`    // gateway SPIn; vacío = el de configuración

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

// PaymentProcessor representa una integración de pago configurada para el
// comercio, opcionalmente restringida a una sucursal.
type PaymentProcessor struct {
	ID          string
	VendorID    string
	LocationID  *string // nil = disponible en todas las sucursales
	Type        string
	Name        string
	Credentials ProcessorCredentials
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
