package processors

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
)

const cloverAPIURL = "https://api.clover.com"

// CloverConnector valida tokens contra la API de Clover.
type CloverConnector struct {
	client *resty.Client
}

var _ Connector = (*CloverConnector)(nil)

// NewCloverConnector construye el conector de Clover.
func NewCloverConnector(timeout time.Duration) *CloverConnector {
	return &CloverConnector{client: newHTTPClient(timeout).SetBaseURL(cloverAPIURL)}
}

func (c *CloverConnector) Type() string { return entity.ProcessorClover }

// TestConnection consulta el comercio asociado al token.
func (c *CloverConnector) TestConnection(ctx context.Context, creds entity.ProcessorCredentials) error {
	if creds.MerchantID == "" || creds.APIToken == "" {
		return fmt.Errorf("clover: faltan credenciales (merchant_id y api_token son obligatorios)")
	}

	var result struct {
		ID      string `json:"id"`
		Message string `json:"message"`
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(creds.APIToken).
		SetResult(&result).
		SetError(&result).
		Get("/v3/merchants/" + creds.MerchantID)
	if err != nil {
		return fmt.Errorf("clover: llamada a la API fallida: %w", err)
	}

	switch resp.StatusCode() {
	case 200:
		return nil
	case 401:
		return fmt.Errorf("clover: token rechazado")
	case 404:
		return fmt.Errorf("clover: el comercio %s no existe", creds.MerchantID)
	default:
		if result.Message != "" {
			return fmt.Errorf("clover: %s", result.Message)
		}
		return fmt.Errorf("clover: la API respondió HTTP %d", resp.StatusCode())
	}
}
