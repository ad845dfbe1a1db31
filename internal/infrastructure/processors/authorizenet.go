package processors

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
)

const (
	authorizeNetURLProd    = "https://api.authorize.net/xml/v1/request.api"
	authorizeNetURLSandbox = "https://apitest.authorize.net/xml/v1/request.api"
)

// AuthorizeNetConnector valida credenciales contra Authorize.Net.
// A pesar de la ruta "xml", la API acepta JSON.
type AuthorizeNetConnector struct {
	client *resty.Client
}

var _ Connector = (*AuthorizeNetConnector)(nil)

// NewAuthorizeNetConnector construye el conector de Authorize.Net.
func NewAuthorizeNetConnector(timeout time.Duration) *AuthorizeNetConnector {
	return &AuthorizeNetConnector{client: newHTTPClient(timeout)}
}

func (c *AuthorizeNetConnector) Type() string { return entity.ProcessorAuthorizeNet }

// TestConnection emite un authenticateTestRequest, la operación oficial de
// verificación de credenciales del gateway. Sandbox decide el ambiente.
func (c *AuthorizeNetConnector) TestConnection(ctx context.Context, creds entity.ProcessorCredentials) error {
	if creds.APILoginID == "" || creds.TransactionKey == "" {
		return fmt.Errorf("authorizenet: faltan credenciales (api_login_id y transaction_key son obligatorios)")
	}

	url := authorizeNetURLProd
	if creds.Sandbox {
		url = authorizeNetURLSandbox
	}

	body := map[string]interface{}{
		"authenticateTestRequest": map[string]interface{}{
			"merchantAuthentication": map[string]string{
				"name":           creds.APILoginID,
				"transactionKey": creds.TransactionKey,
			},
		},
	}

	var result struct {
		Messages struct {
			ResultCode string `json:"resultCode"`
			Message    []struct {
				Code string `json:"code"`
				Text string `json:"text"`
			} `json:"message"`
		} `json:"messages"`
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&result).
		Post(url)
	if err != nil {
		return fmt.Errorf("authorizenet: llamada a la API fallida: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("authorizenet: la API respondió HTTP %d", resp.StatusCode())
	}

	if result.Messages.ResultCode != "Ok" {
		detail := "sin detalle"
		if len(result.Messages.Message) > 0 {
			detail = result.Messages.Message[0].Text
		}
		return fmt.Errorf("authorizenet: credenciales rechazadas: %s", detail)
	}
	return nil
}
