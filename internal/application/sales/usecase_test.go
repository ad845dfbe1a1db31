package sales_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcastano/VerdePOS-api/internal/application/dto"
	"github.com/dcastano/VerdePOS-api/internal/application/sales"
	"github.com/dcastano/VerdePOS-api/internal/domain"
	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
	"github.com/dcastano/VerdePOS-api/internal/domain/pos"
	"github.com/dcastano/VerdePOS-api/internal/domain/repository"
	"github.com/dcastano/VerdePOS-api/pkg/docnum"
)

const (
	testVendorID     = "11111111-1111-1111-1111-111111111111"
	otherVendorID    = "22222222-2222-2222-2222-222222222222"
	testUserID       = "33333333-3333-3333-3333-333333333333"
	flowerProductID  = "44444444-4444-4444-4444-444444444444"
	edibleProductID  = "55555555-5555-5555-5555-555555555555"
	oddPriceID       = "66666666-6666-6666-6666-666666666666"
	percentTaxID     = "99999999-9999-9999-9999-999999999999"
	foreignProductID = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	mainLocationID   = "77777777-7777-7777-7777-777777777777"
	northLocationID  = "88888888-8888-8888-8888-888888888888"
	openSessionID    = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria sobre los puertos de la venta POS.
// ──────────────────────────────────────────────────────────────────────────────

type memSaleRepo struct {
	sales map[string]*entity.Sale
}

func newMemSaleRepo() *memSaleRepo { return &memSaleRepo{sales: map[string]*entity.Sale{}} }

func cloneSale(s *entity.Sale) *entity.Sale {
	c := *s
	c.Items = make([]entity.SaleItem, len(s.Items))
	copy(c.Items, s.Items)
	return &c
}

func (r *memSaleRepo) Create(_ context.Context, s *entity.Sale) error {
	r.sales[s.ID] = cloneSale(s)
	return nil
}

func (r *memSaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	if s, ok := r.sales[id]; ok {
		return cloneSale(s), nil
	}
	return nil, nil
}

func (r *memSaleRepo) List(_ context.Context, filter repository.SaleFilter) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, s := range r.sales {
		if s.VendorID != filter.VendorID {
			continue
		}
		if filter.LocationID != "" && s.LocationID != filter.LocationID {
			continue
		}
		if filter.SessionID != "" && s.SessionID != filter.SessionID {
			continue
		}
		out = append(out, cloneSale(s))
	}
	return out, nil
}

func (r *memSaleRepo) Void(_ context.Context, saleID, voidedBy string, at time.Time) error {
	s, ok := r.sales[saleID]
	if !ok {
		return domain.ErrNotFound
	}
	s.Status = entity.SaleStatusVoided
	s.VoidedBy = &voidedBy
	s.VoidedAt = &at
	return nil
}

func (r *memSaleRepo) SumCashBySession(_ context.Context, sessionID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, s := range r.sales {
		if s.SessionID == sessionID && s.PaymentMethod == entity.PaymentMethodCash && s.Status == entity.SaleStatusCompleted {
			sum = sum.Add(s.Total)
		}
	}
	return sum, nil
}

type memSessionRepo struct {
	sessions map[string]*entity.RegisterSession
}

func newMemSessionRepo(sessions ...*entity.RegisterSession) *memSessionRepo {
	r := &memSessionRepo{sessions: map[string]*entity.RegisterSession{}}
	for _, s := range sessions {
		c := *s
		r.sessions[s.ID] = &c
	}
	return r
}

func (r *memSessionRepo) Create(_ context.Context, s *entity.RegisterSession) error {
	c := *s
	r.sessions[s.ID] = &c
	return nil
}

func (r *memSessionRepo) GetByID(_ context.Context, id string) (*entity.RegisterSession, error) {
	if s, ok := r.sessions[id]; ok {
		c := *s
		return &c, nil
	}
	return nil, nil
}

func (r *memSessionRepo) GetOpenByLocation(_ context.Context, locationID string) (*entity.RegisterSession, error) {
	for _, s := range r.sessions {
		if s.LocationID == locationID && s.Status == entity.SessionStatusOpen {
			c := *s
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memSessionRepo) Close(_ context.Context, s *entity.RegisterSession) error {
	if _, ok := r.sessions[s.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *s
	r.sessions[s.ID] = &c
	return nil
}

func (r *memSessionRepo) ListByVendor(_ context.Context, vendorID, locationID string, limit, offset int) ([]*entity.RegisterSession, error) {
	var out []*entity.RegisterSession
	for _, s := range r.sessions {
		if s.VendorID != vendorID {
			continue
		}
		if locationID != "" && s.LocationID != locationID {
			continue
		}
		c := *s
		out = append(out, &c)
	}
	return out, nil
}

type memStockRepo struct {
	rows map[string]*entity.Stock
}

func newMemStockRepo() *memStockRepo { return &memStockRepo{rows: map[string]*entity.Stock{}} }

func stockKey(productID, locationID string) string { return productID + "/" + locationID }

func (r *memStockRepo) set(productID, locationID string, qty decimal.Decimal) {
	r.rows[stockKey(productID, locationID)] = &entity.Stock{
		ProductID: productID, LocationID: locationID, Quantity: qty,
	}
}

func (r *memStockRepo) quantity(productID, locationID string) decimal.Decimal {
	if s, ok := r.rows[stockKey(productID, locationID)]; ok {
		return s.Quantity
	}
	return decimal.Zero
}

func (r *memStockRepo) Get(_ context.Context, productID, locationID string) (*entity.Stock, error) {
	if s, ok := r.rows[stockKey(productID, locationID)]; ok {
		c := *s
		return &c, nil
	}
	return &entity.Stock{ProductID: productID, LocationID: locationID, Quantity: decimal.Zero}, nil
}

func (r *memStockRepo) GetForUpdate(ctx context.Context, productID, locationID string) (*entity.Stock, error) {
	return r.Get(ctx, productID, locationID)
}

func (r *memStockRepo) Upsert(_ context.Context, stock *entity.Stock) error {
	c := *stock
	r.rows[stockKey(stock.ProductID, stock.LocationID)] = &c
	return nil
}

type memProductRepo struct {
	products map[string]*entity.Product
}

func newMemProductRepo(products ...*entity.Product) *memProductRepo {
	r := &memProductRepo{products: map[string]*entity.Product{}}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *memProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.products[id], nil
}

func (r *memProductRepo) GetByVendorAndSKU(_ context.Context, vendorID, sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.VendorID == vendorID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) GetByVendorAndBarcode(_ context.Context, vendorID, barcode string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.VendorID == vendorID && p.Barcode == barcode {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *memProductRepo) UpdateCost(_ context.Context, productID string, cost decimal.Decimal) error {
	return nil
}

func (r *memProductRepo) ListByVendor(_ context.Context, vendorID, categoryID, search string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

func (r *memProductRepo) Delete(_ context.Context, id string) error {
	delete(r.products, id)
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
	for _, l := range r.locations {
		if l.VendorID == vendorID && l.Code == code {
			return l, nil
		}
	}
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

type memVendorRepo struct {
	vendors map[string]*entity.Vendor
}

func newMemVendorRepo(vendors ...*entity.Vendor) *memVendorRepo {
	r := &memVendorRepo{vendors: map[string]*entity.Vendor{}}
	for _, v := range vendors {
		r.vendors[v.ID] = v
	}
	return r
}

func (r *memVendorRepo) Create(_ context.Context, v *entity.Vendor) error {
	r.vendors[v.ID] = v
	return nil
}

func (r *memVendorRepo) GetByID(_ context.Context, id string) (*entity.Vendor, error) {
	return r.vendors[id], nil
}

func (r *memVendorRepo) Update(_ context.Context, v *entity.Vendor) error {
	r.vendors[v.ID] = v
	return nil
}

func (r *memVendorRepo) ListModules(_ context.Context, vendorID string) ([]*entity.VendorModule, error) {
	return nil, nil
}

func (r *memVendorRepo) SetModule(_ context.Context, m *entity.VendorModule) error { return nil }

func (r *memVendorRepo) IsModuleEnabled(_ context.Context, vendorID, moduleName string) (bool, error) {
	return true, nil
}

type memTxRunner struct {
	sales    repository.SaleRepository
	stock    repository.StockRepository
	sessions repository.SessionRepository
	prods    repository.ProductRepository
}

func (r *memTxRunner) RunSale(ctx context.Context, fn func(
	repository.SaleRepository,
	repository.StockRepository,
	repository.SessionRepository,
	repository.ProductRepository,
) error) error {
	return fn(r.sales, r.stock, r.sessions, r.prods)
}

// spyCache cuenta los bumps al caché del dashboard.
type spyCache struct {
	bumps int
}

func (c *spyCache) Bump(_ context.Context) error {
	c.bumps++
	return nil
}

// fakeRenderer devuelve bytes fijos en lugar de un PDF real.
type fakeRenderer struct {
	data []byte
}

func (r *fakeRenderer) GenerateReceiptPDF(_ context.Context, _ *entity.Sale, _ *entity.Vendor, _ *entity.Location) ([]byte, error) {
	return r.data, nil
}

// spyMailer registra los correos encolados.
type spyMailer struct {
	saleIDs []string
	emails  []string
}

func (m *spyMailer) EnqueueReceiptEmail(_ context.Context, saleID, email string) error {
	m.saleIDs = append(m.saleIDs, saleID)
	m.emails = append(m.emails, email)
	return nil
}

// fakeExporter registra cuántas filas recibió y devuelve un buffer fijo.
type fakeExporter struct {
	rows int
}

func (e *fakeExporter) ExportSales(salesList []*entity.Sale) (*bytes.Buffer, error) {
	e.rows = len(salesList)
	return bytes.NewBufferString("xlsx"), nil
}

type fixture struct {
	uc       *sales.SaleUseCase
	sessions *sales.SessionUseCase
	sales    *memSaleRepo
	sessRepo *memSessionRepo
	stock    *memStockRepo
	cache    *spyCache
	mailer   *spyMailer
	exporter *fakeExporter
}

// newFixture deja una sesión de caja abierta en la sucursal principal con
// fondo de 100 y stock para vender: flor en 10, comestible en 5.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	prods := newMemProductRepo(
		&entity.Product{ID: flowerProductID, VendorID: testVendorID, SKU: "FLOR-001", Name: "Blue Dream 3.5g", Price: dec("10.00"), TaxRate: dec("0.08")},
		&entity.Product{ID: edibleProductID, VendorID: testVendorID, SKU: "COM-001", Name: "Gomitas 100mg", Price: dec("5.50"), TaxRate: dec("0")},
		&entity.Product{ID: oddPriceID, VendorID: testVendorID, SKU: "PRE-001", Name: "Preroll Suelto", Price: dec("3.333"), TaxRate: dec("0")},
		&entity.Product{ID: percentTaxID, VendorID: testVendorID, SKU: "ACC-001", Name: "Grinder Metálico", Price: dec("10.00"), TaxRate: dec("8")},
		&entity.Product{ID: foreignProductID, VendorID: otherVendorID, SKU: "AJENO-001", Name: "Producto Ajeno", Price: dec("1.00"), TaxRate: dec("0")},
	)
	locs := newMemLocationRepo(
		&entity.Location{ID: mainLocationID, VendorID: testVendorID, Code: "MAIN", Name: "Sucursal Principal"},
		&entity.Location{ID: northLocationID, VendorID: testVendorID, Code: "NORTE", Name: "Sucursal Norte"},
	)
	vendors := newMemVendorRepo(&entity.Vendor{ID: testVendorID, Name: "VerdePOS Demo"})
	saleRepo := newMemSaleRepo()
	sessRepo := newMemSessionRepo(&entity.RegisterSession{
		ID:          openSessionID,
		VendorID:    testVendorID,
		LocationID:  mainLocationID,
		OpenedBy:    testUserID,
		OpeningCash: dec("100"),
		Status:      entity.SessionStatusOpen,
		OpenedAt:    time.Now(),
	})
	stock := newMemStockRepo()
	stock.set(flowerProductID, mainLocationID, dec("10"))
	stock.set(edibleProductID, mainLocationID, dec("5"))
	stock.set(oddPriceID, mainLocationID, dec("5"))
	stock.set(percentTaxID, mainLocationID, dec("5"))

	numbers, err := docnum.New(2)
	require.NoError(t, err)
	tx := &memTxRunner{sales: saleRepo, stock: stock, sessions: sessRepo, prods: prods}
	cache := &spyCache{}
	mailer := &spyMailer{}
	exporter := &fakeExporter{}
	renderer := &fakeRenderer{data: []byte("%PDF-recibo")}

	return &fixture{
		uc: sales.NewSaleUseCase(
			tx, saleRepo, prods, locs, vendors,
			pos.NewReceiptCodeService(), numbers,
			exporter, renderer, mailer, cache,
		),
		sessions: sales.NewSessionUseCase(tx, sessRepo, locs),
		sales:    saleRepo,
		sessRepo: sessRepo,
		stock:    stock,
		cache:    cache,
		mailer:   mailer,
		exporter: exporter,
	}
}

// flowerAndEdible carrito de referencia: 2 flores y 1 comestible.
// subtotal = 2*10.00 + 5.50 = 25.50; impuesto = 20.00*0.08 = 1.60; total 27.10.
func flowerAndEdible() dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		LocationID: mainLocationID,
		SessionID:  openSessionID,
		Items: []dto.SaleItemRequest{
			{ProductID: flowerProductID, Quantity: dec("2")},
			{ProductID: edibleProductID, Quantity: dec("1")},
		},
		Subtotal:      dec("25.50"),
		TaxTotal:      dec("1.60"),
		Total:         dec("27.10"),
		PaymentMethod: entity.PaymentMethodCash,
		Tendered:      decPtr("30"),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create: los totales los manda el servidor
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_RecalculaYConfirma(t *testing.T) {
	f := newFixture(t)
	res, err := f.uc.Create(context.Background(), testVendorID, testUserID, flowerAndEdible())
	require.NoError(t, err)

	assert.Equal(t, entity.SaleStatusCompleted, res.Status)
	assert.True(t, strings.HasPrefix(res.Number, "POS-"), "el consecutivo lleva el prefijo de ventas")
	assert.True(t, res.Subtotal.Equal(dec("25.50")))
	assert.True(t, res.TaxTotal.Equal(dec("1.60")))
	assert.True(t, res.Total.Equal(dec("27.10")))
	require.NotNil(t, res.ChangeDue)
	assert.True(t, res.ChangeDue.Equal(dec("2.90")), "vuelto = recibido - total")
	require.Len(t, res.Items, 2)

	// el código del recibo es determinista: recalcularlo da lo mismo
	want, err := pos.NewReceiptCodeService().Calculate(&pos.ReceiptParams{
		Number:     res.Number,
		IssuedAt:   res.CreatedAt.UTC().Format(time.RFC3339),
		Subtotal:   res.Subtotal,
		TaxTotal:   res.TaxTotal,
		Total:      res.Total,
		VendorID:   res.VendorID,
		LocationID: res.LocationID,
	})
	require.NoError(t, err)
	assert.Equal(t, want, res.ReceiptCode)
	assert.Len(t, res.ReceiptCode, 64, "SHA-256 en hexadecimal")

	assert.True(t, f.stock.quantity(flowerProductID, mainLocationID).Equal(dec("8")))
	assert.True(t, f.stock.quantity(edibleProductID, mainLocationID).Equal(dec("4")))
	assert.Equal(t, 1, f.cache.bumps, "vender invalida el caché del dashboard")
}

func TestCreateSale_TotalesDelClienteNoCoinciden(t *testing.T) {
	f := newFixture(t)
	in := flowerAndEdible()
	in.Total = dec("26.10") // el cliente calculó un total viejo

	_, err := f.uc.Create(context.Background(), testVendorID, testUserID, in)
	assert.ErrorIs(t, err, domain.ErrTotalMismatch)
	assert.Empty(t, f.sales.sales, "la venta rechazada no se persiste")
	assert.True(t, f.stock.quantity(flowerProductID, mainLocationID).Equal(dec("10")))
	assert.Zero(t, f.cache.bumps)
}

func TestCreateSale_ResiduosDePrecisionNoRechazan(t *testing.T) {
	f := newFixture(t)
	// precio 3.333: el servidor calcula 3.333 y el cliente muestra 3.33;
	// la comparación redondeada a 2 decimales los considera iguales
	in := dto.CreateSaleRequest{
		LocationID:    mainLocationID,
		SessionID:     openSessionID,
		Items:         []dto.SaleItemRequest{{ProductID: oddPriceID, Quantity: dec("1")}},
		Subtotal:      dec("3.33"),
		TaxTotal:      dec("0"),
		Total:         dec("3.33"),
		PaymentMethod: entity.PaymentMethodCash,
		Tendered:      decPtr("3.33"),
	}
	res, err := f.uc.Create(context.Background(), testVendorID, testUserID, in)
	require.NoError(t, err)
	require.NotNil(t, res.ChangeDue)
	assert.True(t, res.ChangeDue.IsZero())
}

func TestCreateSale_PrecioCeroUsaElDelCatalogo(t *testing.T) {
	f := newFixture(t)
	in := dto.CreateSaleRequest{
		LocationID:    mainLocationID,
		SessionID:     openSessionID,
		Items:         []dto.SaleItemRequest{{ProductID: edibleProductID, Quantity: dec("2")}},
		Subtotal:      dec("11.00"),
		TaxTotal:      dec("0"),
		Total:         dec("11.00"),
		PaymentMethod: entity.PaymentMethodCash,
		Tendered:      decPtr("11"),
	}
	res, err := f.uc.Create(context.Background(), testVendorID, testUserID, in)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.True(t, res.Items[0].UnitPrice.Equal(dec("5.50")), "precio unitario en cero usa el vigente del catálogo")
}

func TestCreateSale_TasaPorcentualSeNormaliza(t *testing.T) {
	f := newFixture(t)
	// el grinder tiene la tasa guardada como 8 (porcentaje), no 0.08
	in := dto.CreateSaleRequest{
		LocationID:    mainLocationID,
		SessionID:     openSessionID,
		Items:         []dto.SaleItemRequest{{ProductID: percentTaxID, Quantity: dec("1")}},
		Subtotal:      dec("10.00"),
		TaxTotal:      dec("0.80"),
		Total:         dec("10.80"),
		PaymentMethod: entity.PaymentMethodCash,
		Tendered:      decPtr("20"),
	}
	res, err := f.uc.Create(context.Background(), testVendorID, testUserID, in)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.True(t, res.Items[0].TaxRate.Equal(dec("0.08")))
	assert.True(t, res.TaxTotal.Equal(dec("0.8")))
}

func TestCreateSale_SesionCerradaRechaza(t *testing.T) {
	f := newFixture(t)
	f.sessRepo.sessions[openSessionID].Status = entity.SessionStatusClosed

	_, err := f.uc.Create(context.Background(), testVendorID, testUserID, flowerAndEdible())
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
	assert.True(t, f.stock.quantity(flowerProductID, mainLocationID).Equal(dec("10")))
}

func TestCreateSale_SesionDeOtraSucursalRechaza(t *testing.T) {
	f := newFixture(t)
	in := flowerAndEdible()
	in.LocationID = northLocationID // la sesión abierta es de la principal

	_, err := f.uc.Create(context.Background(), testVendorID, testUserID, in)
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}

func TestCreateSale_StockInsuficienteRevierteTodo(t *testing.T) {
	f := newFixture(t)
	// la línea corta va primero: la venta corta antes de tocar la flor
	in := dto.CreateSaleRequest{
		LocationID: mainLocationID,
		SessionID:  openSessionID,
		Items: []dto.SaleItemRequest{
			{ProductID: edibleProductID, Quantity: dec("6")}, // existencia 5
			{ProductID: flowerProductID, Quantity: dec("2")},
		},
		Subtotal:      dec("53.00"),
		TaxTotal:      dec("1.60"),
		Total:         dec("54.60"),
		PaymentMethod: entity.PaymentMethodCash,
		Tendered:      decPtr("60"),
	}
	_, err := f.uc.Create(context.Background(), testVendorID, testUserID, in)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, f.sales.sales)
	assert.True(t, f.stock.quantity(edibleProductID, mainLocationID).Equal(dec("5")))
	assert.True(t, f.stock.quantity(flowerProductID, mainLocationID).Equal(dec("10")))
}

func TestCreateSale_EfectivoInsuficienteRechazado(t *testing.T) {
	f := newFixture(t)
	in := flowerAndEdible()
	in.Tendered = decPtr("20") // total 27.10

	_, err := f.uc.Create(context.Background(), testVendorID, testUserID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateSale_MetodoDePagoDesconocido(t *testing.T) {
	f := newFixture(t)
	in := flowerAndEdible()
	in.PaymentMethod = "check"

	_, err := f.uc.Create(context.Background(), testVendorID, testUserID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateSale_TarjetaGuardaMetadataDeLaTerminal(t *testing.T) {
	f := newFixture(t)
	processorID := "cccccccc-cccc-cccc-cccc-cccccccccccc"
	in := flowerAndEdible()
	in.PaymentMethod = entity.PaymentMethodCard
	in.Tendered = nil
	in.ProcessorID = &processorID
	in.PaymentRef = "AUTH-778899"
	in.CardBrand = "visa"
	in.CardLast4 = "4242"

	res, err := f.uc.Create(context.Background(), testVendorID, testUserID, in)
	require.NoError(t, err)
	require.NotNil(t, res.ProcessorID)
	assert.Equal(t, processorID, *res.ProcessorID)
	assert.Equal(t, "AUTH-778899", res.PaymentRef)
	assert.Equal(t, "visa", res.CardBrand)
	assert.Equal(t, "4242", res.CardLast4)
	assert.Nil(t, res.Tendered)
}

func TestCreateSale_ProductoRepetidoEnElCarrito(t *testing.T) {
	f := newFixture(t)
	in := flowerAndEdible()
	in.Items = append(in.Items, dto.SaleItemRequest{ProductID: flowerProductID, Quantity: dec("1")})

	_, err := f.uc.Create(context.Background(), testVendorID, testUserID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateSale_ProductoAjenoRechazado(t *testing.T) {
	f := newFixture(t)
	in := dto.CreateSaleRequest{
		LocationID:    mainLocationID,
		SessionID:     openSessionID,
		Items:         []dto.SaleItemRequest{{ProductID: foreignProductID, Quantity: dec("1")}},
		Subtotal:      dec("1.00"),
		TaxTotal:      dec("0"),
		Total:         dec("1.00"),
		PaymentMethod: entity.PaymentMethodCash,
		Tendered:      decPtr("1"),
	}
	_, err := f.uc.Create(context.Background(), testVendorID, testUserID, in)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Void: anular restituye el stock
// ──────────────────────────────────────────────────────────────────────────────

func TestVoid_RestituyeElStock(t *testing.T) {
	f := newFixture(t)
	created, err := f.uc.Create(context.Background(), testVendorID, testUserID, flowerAndEdible())
	require.NoError(t, err)
	require.True(t, f.stock.quantity(flowerProductID, mainLocationID).Equal(dec("8")))

	voided, err := f.uc.Void(context.Background(), testVendorID, testUserID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusVoided, voided.Status)
	require.NotNil(t, voided.VoidedBy)
	assert.Equal(t, testUserID, *voided.VoidedBy)
	assert.NotNil(t, voided.VoidedAt)

	assert.True(t, f.stock.quantity(flowerProductID, mainLocationID).Equal(dec("10")))
	assert.True(t, f.stock.quantity(edibleProductID, mainLocationID).Equal(dec("5")))
	assert.Equal(t, 2, f.cache.bumps, "anular también invalida el dashboard")
}

func TestVoid_DobleAnulacionRechazada(t *testing.T) {
	f := newFixture(t)
	created, err := f.uc.Create(context.Background(), testVendorID, testUserID, flowerAndEdible())
	require.NoError(t, err)
	_, err = f.uc.Void(context.Background(), testVendorID, testUserID, created.ID)
	require.NoError(t, err)

	_, err = f.uc.Void(context.Background(), testVendorID, testUserID, created.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, f.stock.quantity(flowerProductID, mainLocationID).Equal(dec("10")),
		"anular dos veces no puede duplicar la restitución")
}

func TestVoid_VentaDeOtroComercio(t *testing.T) {
	f := newFixture(t)
	created, err := f.uc.Create(context.Background(), testVendorID, testUserID, flowerAndEdible())
	require.NoError(t, err)

	_, err = f.uc.Void(context.Background(), otherVendorID, testUserID, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recibo: PDF inmediato y envío por correo en segundo plano
// ──────────────────────────────────────────────────────────────────────────────

func TestGetReceiptPDF_DevuelveArchivoConNombre(t *testing.T) {
	f := newFixture(t)
	created, err := f.uc.Create(context.Background(), testVendorID, testUserID, flowerAndEdible())
	require.NoError(t, err)

	pdfBytes, filename, err := f.uc.GetReceiptPDF(context.Background(), testVendorID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-recibo"), pdfBytes)
	assert.Equal(t, "recibo-"+created.Number+".pdf", filename)
}

func TestEmailReceipt_EncolaParaElWorker(t *testing.T) {
	f := newFixture(t)
	created, err := f.uc.Create(context.Background(), testVendorID, testUserID, flowerAndEdible())
	require.NoError(t, err)

	err = f.uc.EmailReceipt(context.Background(), testVendorID, created.ID, "cliente@example.com")
	require.NoError(t, err)
	require.Len(t, f.mailer.saleIDs, 1)
	assert.Equal(t, created.ID, f.mailer.saleIDs[0])
	assert.Equal(t, "cliente@example.com", f.mailer.emails[0])
}

func TestEmailReceipt_VentaInexistente(t *testing.T) {
	f := newFixture(t)
	err := f.uc.EmailReceipt(context.Background(), testVendorID, "dddddddd-dddd-dddd-dddd-dddddddddddd", "cliente@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.mailer.saleIDs)
}

func TestExport_EntregaLasFilasAlExportador(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), testVendorID, testUserID, flowerAndEdible())
	require.NoError(t, err)

	buf, err := f.uc.Export(context.Background(), testVendorID, dto.ListSalesRequest{})
	require.NoError(t, err)
	assert.Equal(t, "xlsx", buf.String())
	assert.Equal(t, 1, f.exporter.rows)
}

func TestList_FiltraPorSesion(t *testing.T) {
	f := newFixture(t)
	created, err := f.uc.Create(context.Background(), testVendorID, testUserID, flowerAndEdible())
	require.NoError(t, err)

	list, err := f.uc.List(context.Background(), testVendorID, dto.ListSalesRequest{SessionID: openSessionID})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, created.ID, list.Items[0].ID)

	empty, err := f.uc.List(context.Background(), testVendorID, dto.ListSalesRequest{SessionID: "eeeeeeee-eeee-eeee-eeee-eeeeeeeeeeee"})
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesiones de caja: una abierta por sucursal, arqueo al cierre
// ──────────────────────────────────────────────────────────────────────────────

func TestOpenSession_UnaSolaPorSucursal(t *testing.T) {
	f := newFixture(t)
	// la principal ya tiene sesión abierta en el fixture
	_, err := f.sessions.Open(context.Background(), testVendorID, testUserID, dto.OpenSessionRequest{
		LocationID:  mainLocationID,
		OpeningCash: dec("50"),
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// en la sucursal norte sí se puede abrir
	res, err := f.sessions.Open(context.Background(), testVendorID, testUserID, dto.OpenSessionRequest{
		LocationID:  northLocationID,
		OpeningCash: dec("50"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStatusOpen, res.Status)
	assert.True(t, res.OpeningCash.Equal(dec("50")))
}

func TestOpenSession_FondoNegativoRechazado(t *testing.T) {
	f := newFixture(t)
	_, err := f.sessions.Open(context.Background(), testVendorID, testUserID, dto.OpenSessionRequest{
		LocationID:  northLocationID,
		OpeningCash: dec("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCloseSession_CalculaEsperadoYDiferencia(t *testing.T) {
	f := newFixture(t)
	// una venta en efectivo de 27.10 dentro de la sesión
	_, err := f.uc.Create(context.Background(), testVendorID, testUserID, flowerAndEdible())
	require.NoError(t, err)

	res, err := f.sessions.Close(context.Background(), testVendorID, testUserID, openSessionID, dto.CloseSessionRequest{
		ClosingCash: dec("125"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SessionStatusClosed, res.Status)
	require.NotNil(t, res.ExpectedCash)
	assert.True(t, res.ExpectedCash.Equal(dec("127.10")), "esperado = fondo inicial + ventas en efectivo")
	require.NotNil(t, res.Variance)
	assert.True(t, res.Variance.Equal(dec("-2.10")), "faltante de 2.10 en el arqueo")
}

func TestCloseSession_LasAnuladasNoCuentanEnElArqueo(t *testing.T) {
	f := newFixture(t)
	created, err := f.uc.Create(context.Background(), testVendorID, testUserID, flowerAndEdible())
	require.NoError(t, err)
	_, err = f.uc.Void(context.Background(), testVendorID, testUserID, created.ID)
	require.NoError(t, err)

	res, err := f.sessions.Close(context.Background(), testVendorID, testUserID, openSessionID, dto.CloseSessionRequest{
		ClosingCash: dec("100"),
	})
	require.NoError(t, err)
	require.NotNil(t, res.ExpectedCash)
	assert.True(t, res.ExpectedCash.Equal(dec("100")), "la venta anulada no suma al efectivo esperado")
	require.NotNil(t, res.Variance)
	assert.True(t, res.Variance.IsZero())
}

func TestCloseSession_DobleCierreRechazado(t *testing.T) {
	f := newFixture(t)
	_, err := f.sessions.Close(context.Background(), testVendorID, testUserID, openSessionID, dto.CloseSessionRequest{
		ClosingCash: dec("100"),
	})
	require.NoError(t, err)

	_, err = f.sessions.Close(context.Background(), testVendorID, testUserID, openSessionID, dto.CloseSessionRequest{
		ClosingCash: dec("100"),
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestGetCurrent_DevuelveLaSesionAbierta(t *testing.T) {
	f := newFixture(t)
	res, err := f.sessions.GetCurrent(context.Background(), testVendorID, mainLocationID)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, openSessionID, res.ID)

	none, err := f.sessions.GetCurrent(context.Background(), testVendorID, northLocationID)
	require.NoError(t, err)
	assert.Nil(t, none)
}
