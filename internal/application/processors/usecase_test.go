package processors_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcastano/VerdePOS-api/internal/application/dto"
	"github.com/dcastano/VerdePOS-api/internal/application/processors"
	"github.com/dcastano/VerdePOS-api/internal/domain"
	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
)

const (
	testVendorID      = "11111111-1111-1111-1111-111111111111"
	otherVendorID     = "22222222-2222-2222-2222-222222222222"
	mainLocationID    = "77777777-7777-7777-7777-777777777777"
	foreignLocationID = "88888888-8888-8888-8888-888888888888"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memProcessorRepo struct {
	processors map[string]*entity.PaymentProcessor
}

func newMemProcessorRepo() *memProcessorRepo {
	return &memProcessorRepo{processors: map[string]*entity.PaymentProcessor{}}
}

func (r *memProcessorRepo) Create(_ context.Context, p *entity.PaymentProcessor) error {
	c := *p
	r.processors[p.ID] = &c
	return nil
}

func (r *memProcessorRepo) GetByID(_ context.Context, id string) (*entity.PaymentProcessor, error) {
	if p, ok := r.processors[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (r *memProcessorRepo) Update(_ context.Context, p *entity.PaymentProcessor) error {
	if _, ok := r.processors[p.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *p
	r.processors[p.ID] = &c
	return nil
}

func (r *memProcessorRepo) ListByVendor(_ context.Context, vendorID string, onlyActive bool) ([]*entity.PaymentProcessor, error) {
	var out []*entity.PaymentProcessor
	for _, p := range r.processors {
		if p.VendorID != vendorID {
			continue
		}
		if onlyActive && !p.Active {
			continue
		}
		c := *p
		out = append(out, &c)
	}
	return out, nil
}

func (r *memProcessorRepo) Delete(_ context.Context, id string) error {
	delete(r.processors, id)
	return nil
}

type memLocationRepo struct {
	locations map[string]*entity.Location
}

func newMemLocationRepo(locations ...*entity.Location) *memLocationRepo {
	r := &memLocationRepo{locations: map[string]*entity.Location{}}
	for _, l := range locations {
		r.locations[l.ID] = l
	}
	return r
}

func (r *memLocationRepo) Create(_ context.Context, l *entity.Location) error {
	r.locations[l.ID] = l
	return nil
}

func (r *memLocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	return r.locations[id], nil
}

func (r *memLocationRepo) GetByVendorAndCode(_ context.Context, vendorID, code string) (*entity.Location, error) {
	return nil, nil
}

func (r *memLocationRepo) Update(_ context.Context, l *entity.Location) error {
	r.locations[l.ID] = l
	return nil
}

func (r *memLocationRepo) ListByVendor(_ context.Context, vendorID string, limit, offset int) ([]*entity.Location, error) {
	return nil, nil
}

func (r *memLocationRepo) Delete(_ context.Context, id string) error {
	delete(r.locations, id)
	return nil
}

// fakeTester simula el gateway: falla según el tipo y cuenta las llamadas.
// Con mutex porque TestAll lo invoca desde varias goroutines.
type fakeTester struct {
	mu    sync.Mutex
	calls int
	fail  map[string]error
}

func (t *fakeTester) TestConnection(_ context.Context, processorType string, _ entity.ProcessorCredentials) error {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()
	if err, ok := t.fail[processorType]; ok {
		return err
	}
	return nil
}

type fixture struct {
	uc     *processors.ProcessorUseCase
	repo   *memProcessorRepo
	tester *fakeTester
}

func newFixture() *fixture {
	repo := newMemProcessorRepo()
	locs := newMemLocationRepo(
		&entity.Location{ID: mainLocationID, VendorID: testVendorID, Code: "MAIN", Name: "Sucursal Principal"},
		&entity.Location{ID: foreignLocationID, VendorID: otherVendorID, Code: "AJENA", Name: "Sucursal Ajena"},
	)
	tester := &fakeTester{fail: map[string]error{}}
	return &fixture{
		uc:     processors.NewProcessorUseCase(repo, locs, tester),
		repo:   repo,
		tester: tester,
	}
}

func stripeRequest(name string) dto.CreateProcessorRequest {
	return dto.CreateProcessorRequest{
		Type:        entity.ProcessorStripe,
		Name:        name,
		Credentials: dto.ProcessorCredentials{SecretKey: "sk_live_abcdef123456"},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create: credenciales obligatorias según el tipo
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateProcessor_CredencialesPorTipo(t *testing.T) {
	casos := []struct {
		tipo        string
		completas   dto.ProcessorCredentials
		incompletas dto.ProcessorCredentials
	}{
		{
			tipo:        entity.ProcessorDejavoo,
			completas:   dto.ProcessorCredentials{TPN: "224455667788", AuthKey: "llave-spin", RegisterID: "CAJA01"},
			incompletas: dto.ProcessorCredentials{TPN: "224455667788", AuthKey: "llave-spin"},
		},
		{
			tipo:        entity.ProcessorStripe,
			completas:   dto.ProcessorCredentials{SecretKey: "sk_live_abcdef123456"},
			incompletas: dto.ProcessorCredentials{PublishableKey: "pk_live_xyz"},
		},
		{
			tipo:        entity.ProcessorSquare,
			completas:   dto.ProcessorCredentials{AccessToken: "EAAAE-token", SquareLocationID: "L12345"},
			incompletas: dto.ProcessorCredentials{AccessToken: "EAAAE-token"},
		},
		{
			tipo:        entity.ProcessorAuthorizeNet,
			completas:   dto.ProcessorCredentials{APILoginID: "login77", TransactionKey: "trans-key-99"},
			incompletas: dto.ProcessorCredentials{APILoginID: "login77"},
		},
		{
			tipo:        entity.ProcessorClover,
			completas:   dto.ProcessorCredentials{MerchantID: "MID998877", APIToken: "clv-token-123"},
			incompletas: dto.ProcessorCredentials{MerchantID: "MID998877"},
		},
	}

	for _, c := range casos {
		f := newFixture()
		res, err := f.uc.Create(context.Background(), testVendorID, dto.CreateProcessorRequest{
			Type: c.tipo, Name: "Terminal " + c.tipo, Credentials: c.completas,
		})
		require.NoError(t, err, "tipo %s con credenciales completas", c.tipo)
		assert.True(t, res.Active, "el procesador nace activo")

		_, err = f.uc.Create(context.Background(), testVendorID, dto.CreateProcessorRequest{
			Type: c.tipo, Name: "Terminal " + c.tipo, Credentials: c.incompletas,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo %s sin campos obligatorios", c.tipo)
	}
}

func TestCreateProcessor_TipoDesconocido(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Create(context.Background(), testVendorID, dto.CreateProcessorRequest{
		Type: "paypal", Name: "Terminal", Credentials: dto.ProcessorCredentials{SecretKey: "sk"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateProcessor_EnmascaraLosSecretos(t *testing.T) {
	f := newFixture()
	res, err := f.uc.Create(context.Background(), testVendorID, dto.CreateProcessorRequest{
		Type: entity.ProcessorStripe,
		Name: "Stripe Producción",
		Credentials: dto.ProcessorCredentials{
			SecretKey:     "sk_live_abcdef123456",
			WebhookSecret: "abc", // 4 o menos caracteres: se oculta completo
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "••••3456", res.Credentials["secret_key"], "solo los últimos 4 caracteres visibles")
	assert.Equal(t, "••••", res.Credentials["webhook_secret"])
	_, hasPublishable := res.Credentials["publishable_key"]
	assert.False(t, hasPublishable, "los campos sin configurar no aparecen")

	// el repositorio sí guarda el secreto completo para poder cobrar
	stored := f.repo.processors[res.ID]
	assert.Equal(t, "sk_live_abcdef123456", stored.Credentials.SecretKey)
}

func TestCreateProcessor_SucursalAjena(t *testing.T) {
	f := newFixture()
	in := stripeRequest("Stripe Norte")
	loc := foreignLocationID
	in.LocationID = &loc

	_, err := f.uc.Create(context.Background(), testVendorID, in)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateProcessor_SucursalInexistente(t *testing.T) {
	f := newFixture()
	in := stripeRequest("Stripe Norte")
	loc := "99999999-9999-9999-9999-999999999999"
	in.LocationID = &loc

	_, err := f.uc.Create(context.Background(), testVendorID, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update y Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_CredencialesSeRevalidanContraElTipo(t *testing.T) {
	f := newFixture()
	created, err := f.uc.Create(context.Background(), testVendorID, stripeRequest("Stripe"))
	require.NoError(t, err)

	// el juego nuevo reemplaza completo: sin secret_key no es válido para stripe
	_, err = f.uc.Update(context.Background(), testVendorID, created.ID, dto.UpdateProcessorRequest{
		Credentials: &dto.ProcessorCredentials{PublishableKey: "pk_live_nueva"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdate_NombreEstadoYSucursal(t *testing.T) {
	f := newFixture()
	created, err := f.uc.Create(context.Background(), testVendorID, stripeRequest("Stripe"))
	require.NoError(t, err)

	name := "  Stripe Caja 2  "
	active := false
	loc := mainLocationID
	res, err := f.uc.Update(context.Background(), testVendorID, created.ID, dto.UpdateProcessorRequest{
		Name:       &name,
		Active:     &active,
		LocationID: &loc,
	})
	require.NoError(t, err)
	assert.Equal(t, "Stripe Caja 2", res.Name)
	assert.False(t, res.Active)
	require.NotNil(t, res.LocationID)
	assert.Equal(t, mainLocationID, *res.LocationID)

	// location_id vacío vuelve a dejarlo disponible en todas las sucursales
	empty := ""
	res, err = f.uc.Update(context.Background(), testVendorID, created.ID, dto.UpdateProcessorRequest{
		LocationID: &empty,
	})
	require.NoError(t, err)
	assert.Nil(t, res.LocationID)
}

func TestUpdate_ProcesadorDeOtroComercio(t *testing.T) {
	f := newFixture()
	created, err := f.uc.Create(context.Background(), testVendorID, stripeRequest("Stripe"))
	require.NoError(t, err)

	name := "Intruso"
	_, err = f.uc.Update(context.Background(), otherVendorID, created.ID, dto.UpdateProcessorRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDelete_EliminaLaConfiguracion(t *testing.T) {
	f := newFixture()
	created, err := f.uc.Create(context.Background(), testVendorID, stripeRequest("Stripe"))
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(context.Background(), testVendorID, created.ID))

	res, err := f.uc.GetByID(context.Background(), testVendorID, created.ID)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestGetByID_OtroComercioNoVeElProcesador(t *testing.T) {
	f := newFixture()
	created, err := f.uc.Create(context.Background(), testVendorID, stripeRequest("Stripe"))
	require.NoError(t, err)

	res, err := f.uc.GetByID(context.Background(), otherVendorID, created.ID)
	require.NoError(t, err)
	assert.Nil(t, res)
}

// ──────────────────────────────────────────────────────────────────────────────
// Pruebas de conectividad
// ──────────────────────────────────────────────────────────────────────────────

func TestTest_ReportaElResultadoDelGateway(t *testing.T) {
	f := newFixture()
	created, err := f.uc.Create(context.Background(), testVendorID, stripeRequest("Stripe"))
	require.NoError(t, err)

	res, err := f.uc.Test(context.Background(), testVendorID, created.ID)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, created.ID, res.ProcessorID)
	assert.Empty(t, res.Message)

	f.tester.fail[entity.ProcessorStripe] = errors.New("api key inválida")
	res, err = f.uc.Test(context.Background(), testVendorID, created.ID)
	require.NoError(t, err, "el fallo del gateway se reporta en el resultado, no como error")
	assert.False(t, res.Success)
	assert.Equal(t, "api key inválida", res.Message)
}

func TestTestAll_PruebaSoloLosActivosYNoCorta(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Create(context.Background(), testVendorID, stripeRequest("Stripe"))
	require.NoError(t, err)
	_, err = f.uc.Create(context.Background(), testVendorID, dto.CreateProcessorRequest{
		Type: entity.ProcessorClover, Name: "Clover Caja 1",
		Credentials: dto.ProcessorCredentials{MerchantID: "MID1", APIToken: "tok1"},
	})
	require.NoError(t, err)
	inactive, err := f.uc.Create(context.Background(), testVendorID, dto.CreateProcessorRequest{
		Type: entity.ProcessorSquare, Name: "Square Apagado",
		Credentials: dto.ProcessorCredentials{AccessToken: "tok", SquareLocationID: "L1"},
	})
	require.NoError(t, err)
	off := false
	_, err = f.uc.Update(context.Background(), testVendorID, inactive.ID, dto.UpdateProcessorRequest{Active: &off})
	require.NoError(t, err)

	f.tester.fail[entity.ProcessorClover] = errors.New("terminal apagada")

	res, err := f.uc.TestAll(context.Background(), testVendorID)
	require.NoError(t, err)
	require.Len(t, res.Results, 2, "el procesador inactivo no se prueba")
	assert.Equal(t, 2, f.tester.calls)

	byName := map[string]dto.TestConnectionResponse{}
	for _, r := range res.Results {
		byName[r.Name] = r
	}
	assert.True(t, byName["Stripe"].Success)
	assert.False(t, byName["Clover Caja 1"].Success)
	assert.Equal(t, "terminal apagada", byName["Clover Caja 1"].Message)
}
