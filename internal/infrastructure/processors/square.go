package processors

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
)

const (
	squareAPIURL  = "https://connect.squareup.com"
	squareVersion = "2024-06-04"
)

// SquareConnector valida tokens contra la API de Square.
type SquareConnector struct {
	client *resty.Client
}

var _ Connector = (*SquareConnector)(nil)

// NewSquareConnector construye el conector de Square.
func NewSquareConnector(timeout time.Duration) *SquareConnector {
	return &SquareConnector{
		client: newHTTPClient(timeout).
			SetBaseURL(squareAPIURL).
			SetHeader("Square-Version", squareVersion),
	}
}

func (c *SquareConnector) Type() string { return entity.ProcessorSquare }

// TestConnection lista las sucursales de la cuenta y, si el procesador tiene
// una sucursal Square configurada, verifica que exista en la cuenta.
func (c *SquareConnector) TestConnection(ctx context.Context, creds entity.ProcessorCredentials) error {
	if creds.AccessToken == "" {
		return fmt.Errorf("square: falta access_token")
	}

	var result struct {
		Locations []struct {
			ID string `json:"id"`
		} `json:"locations"`
		Errors []struct {
			Detail string `json:"detail"`
		} `json:"errors"`
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(creds.AccessToken).
		SetResult(&result).
		SetError(&result).
		Get("/v2/locations")
	if err != nil {
		return fmt.Errorf("square: llamada a la API fallida: %w", err)
	}

	if resp.StatusCode() != 200 {
		if len(result.Errors) > 0 {
			return fmt.Errorf("square: credenciales rechazadas: %s", result.Errors[0].Detail)
		}
		return fmt.Errorf("square: la API respondió HTTP %d", resp.StatusCode())
	}

	if creds.SquareLocationID == "" {
		return nil
	}
	for _, loc := range result.Locations {
		if loc.ID == creds.SquareLocationID {
			return nil
		}
	}
	return fmt.Errorf("square: la sucursal %s no existe en la cuenta", creds.SquareLocationID)
}
