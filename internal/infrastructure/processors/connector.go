package processors

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
)

// ── Puerto (interfaz) ──────────────────────────────────────────────────────────

// Connector define el puerto de salida hacia un procesador de pago externo.
// La única operación común a todos los tipos es la prueba de conectividad:
// valida que las credenciales configuradas sean aceptadas por el gateway.
// Para tests se puede inyectar un mock.
type Connector interface {
	// Type devuelve el tipo de procesador que atiende (entity.Processor*).
	Type() string
	// TestConnection valida las credenciales contra el ambiente real del
	// procesador. Un error indica credenciales rechazadas o gateway inalcanzable.
	TestConnection(ctx context.Context, creds entity.ProcessorCredentials) error
}

// ── Registro de conectores ─────────────────────────────────────────────────────

// Registry resuelve el conector según el tipo de procesador configurado.
type Registry struct {
	connectors map[string]Connector
}

// NewRegistry construye el registro con los conectores dados.
func NewRegistry(connectors ...Connector) *Registry {
	reg := &Registry{connectors: make(map[string]Connector, len(connectors))}
	for _, c := range connectors {
		reg.connectors[c.Type()] = c
	}
	return reg
}

// Get devuelve el conector para el tipo dado.
func (r *Registry) Get(processorType string) (Connector, error) {
	c, ok := r.connectors[processorType]
	if !ok {
		return nil, fmt.Errorf("procesador %q sin conector registrado", processorType)
	}
	return c, nil
}

// TestConnection resuelve el conector del tipo y prueba las credenciales.
func (r *Registry) TestConnection(ctx context.Context, processorType string, creds entity.ProcessorCredentials) error {
	c, err := r.Get(processorType)
	if err != nil {
		return err
	}
	return c.TestConnection(ctx, creds)
}

// newHTTPClient construye el cliente HTTP compartido por los conectores.
// Los gateways de pago pueden tardar; el timeout llega de configuración.
func newHTTPClient(timeout time.Duration) *resty.Client {
	return resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
}
