package processors

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/go-resty/resty/v2"

	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
)

// DejavooConnector habla el protocolo SPIn de Dejavoo: XML plano sobre HTTP.
// La prueba de conexión emite una transacción de tipo Status, que la terminal
// responde sin afectar el batch.
type DejavooConnector struct {
	client  *resty.Client
	baseURL string // gateway SPIn por defecto; cada procesador puede traer el suyo
}

var _ Connector = (*DejavooConnector)(nil)

// NewDejavooConnector construye el conector SPIn.
func NewDejavooConnector(baseURL string, timeout time.Duration) *DejavooConnector {
	return &DejavooConnector{
		client:  newHTTPClient(timeout).SetHeader("Content-Type", "text/xml"),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *DejavooConnector) Type() string { return entity.ProcessorDejavoo }

// TestConnection envía una petición Status a la terminal registrada.
func (c *DejavooConnector) TestConnection(ctx context.Context, creds entity.ProcessorCredentials) error {
	payload, err := buildDejavooStatusRequest(creds)
	if err != nil {
		return err
	}

	url := c.baseURL
	if creds.SPInURL != "" {
		url = strings.TrimRight(creds.SPInURL, "/")
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(url + "/cgi.html?TerminalTransaction")
	if err != nil {
		return fmt.Errorf("dejavoo: llamada SPIn fallida: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("dejavoo: SPIn respondió HTTP %d", resp.StatusCode())
	}

	return parseDejavooStatusResponse(resp.Body())
}

// buildDejavooStatusRequest arma el XML de la transacción Status.
// Todos los campos de credenciales son obligatorios para SPIn.
func buildDejavooStatusRequest(creds entity.ProcessorCredentials) (string, error) {
	if creds.TPN == "" || creds.AuthKey == "" || creds.RegisterID == "" {
		return "", fmt.Errorf("dejavoo: faltan credenciales (tpn, auth_key y register_id son obligatorios)")
	}

	doc := etree.NewDocument()
	req := doc.CreateElement("request")
	req.CreateElement("TPN").SetText(creds.TPN)
	req.CreateElement("Authkey").SetText(creds.AuthKey)
	req.CreateElement("RegisterId").SetText(creds.RegisterID)
	req.CreateElement("PaymentType").SetText("Credit")
	req.CreateElement("TransType").SetText("Status")
	req.CreateElement("RefId").SetText("conn-test")

	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("dejavoo: serializar request: %w", err)
	}
	return out, nil
}

// parseDejavooStatusResponse extrae el resultado del XML de respuesta SPIn.
// ResultCode 0 indica éxito; cualquier otro valor trae el detalle en Message.
func parseDejavooStatusResponse(body []byte) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return fmt.Errorf("dejavoo: respuesta SPIn ilegible: %w", err)
	}

	result := doc.FindElement("//ResultCode")
	if result == nil {
		return fmt.Errorf("dejavoo: respuesta SPIn sin ResultCode")
	}
	if strings.TrimSpace(result.Text()) == "0" {
		return nil
	}

	msg := "sin detalle"
	if m := doc.FindElement("//Message"); m != nil && strings.TrimSpace(m.Text()) != "" {
		msg = strings.TrimSpace(m.Text())
	}
	return fmt.Errorf("dejavoo: la terminal rechazó la conexión: %s", msg)
}
