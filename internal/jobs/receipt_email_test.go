package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
	"github.com/dcastano/VerdePOS-api/internal/domain/repository"
	"github.com/dcastano/VerdePOS-api/internal/jobs"
)

const (
	testVendorID   = "11111111-1111-1111-1111-111111111111"
	testLocationID = "77777777-7777-7777-7777-777777777777"
	testSaleID     = "44444444-4444-4444-4444-444444444444"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes: el handler solo lee, así que los repos son mapas con error inyectable
// ──────────────────────────────────────────────────────────────────────────────

type memSaleRepo struct {
	sales map[string]*entity.Sale
	err   error
}

func (r *memSaleRepo) Create(_ context.Context, _ *entity.Sale) error { return nil }

func (r *memSaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.sales[id], nil
}

func (r *memSaleRepo) List(_ context.Context, _ repository.SaleFilter) ([]*entity.Sale, error) {
	return nil, nil
}

func (r *memSaleRepo) Void(_ context.Context, _, _ string, _ time.Time) error { return nil }

func (r *memSaleRepo) SumCashBySession(_ context.Context, _ string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type memVendorRepo struct {
	vendors map[string]*entity.Vendor
}

func (r *memVendorRepo) Create(_ context.Context, _ *entity.Vendor) error { return nil }

func (r *memVendorRepo) GetByID(_ context.Context, id string) (*entity.Vendor, error) {
	return r.vendors[id], nil
}

func (r *memVendorRepo) Update(_ context.Context, _ *entity.Vendor) error { return nil }

func (r *memVendorRepo) ListModules(_ context.Context, _ string) ([]*entity.VendorModule, error) {
	return nil, nil
}

func (r *memVendorRepo) SetModule(_ context.Context, _ *entity.VendorModule) error { return nil }

func (r *memVendorRepo) IsModuleEnabled(_ context.Context, _, _ string) (bool, error) {
	return true, nil
}

type memLocationRepo struct {
	locations map[string]*entity.Location
}

func (r *memLocationRepo) Create(_ context.Context, _ *entity.Location) error { return nil }

func (r *memLocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	return r.locations[id], nil
}

func (r *memLocationRepo) GetByVendorAndCode(_ context.Context, _, _ string) (*entity.Location, error) {
	return nil, nil
}

func (r *memLocationRepo) Update(_ context.Context, _ *entity.Location) error { return nil }

func (r *memLocationRepo) ListByVendor(_ context.Context, _ string, _, _ int) ([]*entity.Location, error) {
	return nil, nil
}

func (r *memLocationRepo) Delete(_ context.Context, _ string) error { return nil }

type fakeRenderer struct {
	data []byte
	err  error
}

func (r *fakeRenderer) GenerateReceiptPDF(_ context.Context, _ *entity.Sale, _ *entity.Vendor, _ *entity.Location) ([]byte, error) {
	return r.data, r.err
}

type spySender struct {
	calls      int
	to         string
	vendorName string
	saleNumber string
	pdf        []byte
	err        error
}

func (s *spySender) SendReceipt(to, vendorName, saleNumber string, pdf []byte) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.to, s.vendorName, s.saleNumber, s.pdf = to, vendorName, saleNumber, pdf
	return nil
}

type fixture struct {
	handler  *jobs.ReceiptEmailHandler
	saleRepo *memSaleRepo
	sender   *spySender
	renderer *fakeRenderer
}

func newFixture() *fixture {
	saleRepo := &memSaleRepo{sales: map[string]*entity.Sale{
		testSaleID: {
			ID:         testSaleID,
			VendorID:   testVendorID,
			LocationID: testLocationID,
			Number:     "POS-K3J9X2Q1L",
			Total:      decimal.RequireFromString("27.10"),
			Status:     entity.SaleStatusCompleted,
		},
	}}
	vendors := &memVendorRepo{vendors: map[string]*entity.Vendor{
		testVendorID: {ID: testVendorID, Name: "VerdePOS Demo"},
	}}
	locations := &memLocationRepo{locations: map[string]*entity.Location{
		testLocationID: {ID: testLocationID, VendorID: testVendorID, Name: "Sucursal Principal"},
	}}
	renderer := &fakeRenderer{data: []byte("%PDF-recibo")}
	sender := &spySender{}
	return &fixture{
		handler:  jobs.NewReceiptEmailHandler(saleRepo, vendors, locations, renderer, sender, zerolog.Nop()),
		saleRepo: saleRepo,
		sender:   sender,
		renderer: renderer,
	}
}

func receiptTask(t *testing.T, saleID, email string) *asynq.Task {
	t.Helper()
	task, err := jobs.NewReceiptEmailTask(jobs.ReceiptEmailPayload{SaleID: saleID, Email: email})
	require.NoError(t, err)
	return task
}

// ──────────────────────────────────────────────────────────────────────────────
// Handle: qué se reintenta y qué no
// ──────────────────────────────────────────────────────────────────────────────

func TestHandle_EnviaElReciboConPDF(t *testing.T) {
	f := newFixture()
	err := f.handler.Handle(context.Background(), receiptTask(t, testSaleID, "cliente@example.com"))
	require.NoError(t, err)

	assert.Equal(t, 1, f.sender.calls)
	assert.Equal(t, "cliente@example.com", f.sender.to)
	assert.Equal(t, "VerdePOS Demo", f.sender.vendorName)
	assert.Equal(t, "POS-K3J9X2Q1L", f.sender.saleNumber)
	assert.Equal(t, []byte("%PDF-recibo"), f.sender.pdf)
}

func TestHandle_PayloadIlegibleNoSeReintenta(t *testing.T) {
	f := newFixture()
	task := asynq.NewTask(jobs.TaskTypeReceiptEmail, []byte("{esto no es json"))

	err := f.handler.Handle(context.Background(), task)
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry), "un payload corrupto jamás va a mejorar reintentando")
	assert.Zero(t, f.sender.calls)
}

func TestHandle_PayloadIncompletoNoSeReintenta(t *testing.T) {
	f := newFixture()
	err := f.handler.Handle(context.Background(), receiptTask(t, testSaleID, ""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
	assert.Zero(t, f.sender.calls)
}

func TestHandle_VentaInexistenteNoSeReintenta(t *testing.T) {
	f := newFixture()
	err := f.handler.Handle(context.Background(), receiptTask(t, "99999999-9999-9999-9999-999999999999", "cliente@example.com"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
	assert.Zero(t, f.sender.calls)
}

func TestHandle_FalloDeSMTPSeReintenta(t *testing.T) {
	f := newFixture()
	f.sender.err = errors.New("dial tcp: connection refused")

	err := f.handler.Handle(context.Background(), receiptTask(t, testSaleID, "cliente@example.com"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry), "el SMTP caído sí se reintenta")
}

func TestHandle_FalloDeBaseDeDatosSeReintenta(t *testing.T) {
	f := newFixture()
	f.saleRepo.err = errors.New("conexión perdida")

	err := f.handler.Handle(context.Background(), receiptTask(t, testSaleID, "cliente@example.com"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
	assert.Zero(t, f.sender.calls)
}

func TestHandle_FalloDelRenderizadorSeReintenta(t *testing.T) {
	f := newFixture()
	f.renderer.err = errors.New("fuente no disponible")

	err := f.handler.Handle(context.Background(), receiptTask(t, testSaleID, "cliente@example.com"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
	assert.Zero(t, f.sender.calls)
}
