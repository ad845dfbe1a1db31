package processors

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
)

func credencialesSPIn() entity.ProcessorCredentials {
	return entity.ProcessorCredentials{
		TPN:        "224466880011",
		AuthKey:    "AbCdEf123456",
		RegisterID: "CAJA-01",
	}
}

func TestBuildDejavooStatusRequest_EstructuraCompleta(t *testing.T) {
	payload, err := buildDejavooStatusRequest(credencialesSPIn())
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(payload))

	root := doc.SelectElement("request")
	require.NotNil(t, root, "el elemento raíz debe ser <request>")

	assert.Equal(t, "224466880011", root.SelectElement("TPN").Text())
	assert.Equal(t, "AbCdEf123456", root.SelectElement("Authkey").Text())
	assert.Equal(t, "CAJA-01", root.SelectElement("RegisterId").Text())
	assert.Equal(t, "Status", root.SelectElement("TransType").Text())
	assert.Equal(t, "Credit", root.SelectElement("PaymentType").Text())
}

func TestBuildDejavooStatusRequest_CredencialesIncompletas(t *testing.T) {
	casos := []struct {
		nombre string
		mutar  func(*entity.ProcessorCredentials)
	}{
		{"sin TPN", func(c *entity.ProcessorCredentials) { c.TPN = "" }},
		{"sin AuthKey", func(c *entity.ProcessorCredentials) { c.AuthKey = "" }},
		{"sin RegisterID", func(c *entity.ProcessorCredentials) { c.RegisterID = "" }},
	}

	for _, tc := range casos {
		t.Run(tc.nombre, func(t *testing.T) {
			creds := credencialesSPIn()
			tc.mutar(&creds)
			_, err := buildDejavooStatusRequest(creds)
			assert.Error(t, err)
		})
	}
}

func TestParseDejavooStatusResponse_Exito(t *testing.T) {
	body := []byte(`<response><ResultCode>0</ResultCode><Message>Approved</Message></response>`)
	assert.NoError(t, parseDejavooStatusResponse(body))
}

func TestParseDejavooStatusResponse_RechazoConMensaje(t *testing.T) {
	body := []byte(`<response><ResultCode>2</ResultCode><Message>Invalid AuthKey</Message></response>`)
	err := parseDejavooStatusResponse(body)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid AuthKey")
}

func TestParseDejavooStatusResponse_SinResultCode(t *testing.T) {
	err := parseDejavooStatusResponse([]byte(`<response><Foo>1</Foo></response>`))
	assert.Error(t, err)
}

func TestParseDejavooStatusResponse_XMLIlegible(t *testing.T) {
	err := parseDejavooStatusResponse([]byte(`<<<no es xml`))
	assert.Error(t, err)
}

func TestRegistry_ResuelvePorTipo(t *testing.T) {
	reg := NewRegistry(
		NewDejavooConnector("https://spinpos.net/spin", 0),
		NewStripeConnector(0),
		NewSquareConnector(0),
		NewAuthorizeNetConnector(0),
		NewCloverConnector(0),
	)

	for _, tipo := range []string{
		entity.ProcessorDejavoo, entity.ProcessorStripe, entity.ProcessorSquare,
		entity.ProcessorAuthorizeNet, entity.ProcessorClover,
	} {
		c, err := reg.Get(tipo)
		require.NoError(t, err, "tipo %s", tipo)
		assert.Equal(t, tipo, c.Type())
	}

	_, err := reg.Get("paypal")
	assert.Error(t, err, "un tipo sin conector debe fallar")
}
