package processors

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
)

const stripeAPIURL = "https://api.stripe.com"

// StripeConnector valida llaves contra la API de Stripe.
type StripeConnector struct {
	client *resty.Client
}

var _ Connector = (*StripeConnector)(nil)

// NewStripeConnector construye el conector de Stripe.
func NewStripeConnector(timeout time.Duration) *StripeConnector {
	return &StripeConnector{client: newHTTPClient(timeout).SetBaseURL(stripeAPIURL)}
}

func (c *StripeConnector) Type() string { return entity.ProcessorStripe }

// TestConnection consulta la cuenta asociada a la llave secreta.
// Una llave inválida devuelve 401.
func (c *StripeConnector) TestConnection(ctx context.Context, creds entity.ProcessorCredentials) error {
	if creds.SecretKey == "" {
		return fmt.Errorf("stripe: falta secret_key")
	}
	if !strings.HasPrefix(creds.SecretKey, "sk_") && !strings.HasPrefix(creds.SecretKey, "rk_") {
		return fmt.Errorf("stripe: secret_key con formato inesperado (debe iniciar con sk_ o rk_)")
	}

	var result struct {
		ID    string `json:"id"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(creds.SecretKey).
		SetResult(&result).
		SetError(&result).
		Get("/v1/account")
	if err != nil {
		return fmt.Errorf("stripe: llamada a la API fallida: %w", err)
	}

	switch {
	case resp.StatusCode() == 200:
		return nil
	case result.Error != nil:
		return fmt.Errorf("stripe: credenciales rechazadas: %s", result.Error.Message)
	default:
		return fmt.Errorf("stripe: la API respondió HTTP %d", resp.StatusCode())
	}
}
