package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcastano/VerdePOS-api/internal/application/dto"
	apphttp "github.com/dcastano/VerdePOS-api/internal/interfaces/http"
)

// fakeModuleChecker responde según el mapa comercio/módulo; err simula un
// fallo de infraestructura al consultar.
type fakeModuleChecker struct {
	active map[string]bool
	err    error
}

func (f *fakeModuleChecker) HasActiveModule(_ context.Context, vendorID, moduleName string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.active[vendorID+"/"+moduleName], nil
}

// buildModuleApp ruta protegida por JWT + verificación del módulo transfers.
func buildModuleApp(checker *fakeModuleChecker) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireModule("transfers", checker),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
		},
	)
	return app
}

func errorBody(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(data, &body))
	return body
}

func TestRequireModule_ModuloActivoPasa(t *testing.T) {
	checker := &fakeModuleChecker{active: map[string]bool{testVendorID + "/transfers": true}}
	app := buildModuleApp(checker)

	resp := doRequest(t, app, tokenForRole(t, "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireModule_ModuloNoContratado_Retorna403(t *testing.T) {
	checker := &fakeModuleChecker{active: map[string]bool{}}
	app := buildModuleApp(checker)

	resp := doRequest(t, app, tokenForRole(t, "admin"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	body := errorBody(t, resp)
	assert.Equal(t, "MODULE_DISABLED", body.Code)
	assert.Contains(t, body.Message, "transfers")
}

func TestRequireModule_FalloDeInfraestructura_Retorna503(t *testing.T) {
	checker := &fakeModuleChecker{err: errors.New("conexión rechazada")}
	app := buildModuleApp(checker)

	resp := doRequest(t, app, tokenForRole(t, "admin"))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	body := errorBody(t, resp)
	assert.Equal(t, "MODULE_CHECK_FAILED", body.Code, "un fallo de DB no debe verse como módulo apagado")
}

func TestRequireModule_SinTokenNoLlegaAlChecker(t *testing.T) {
	checker := &fakeModuleChecker{active: map[string]bool{testVendorID + "/transfers": true}}
	app := buildModuleApp(checker)

	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
