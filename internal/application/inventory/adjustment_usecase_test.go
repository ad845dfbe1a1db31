package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcastano/VerdePOS-api/internal/application/dto"
	"github.com/dcastano/VerdePOS-api/internal/application/inventory"
	"github.com/dcastano/VerdePOS-api/internal/domain"
	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
	"github.com/dcastano/VerdePOS-api/internal/domain/repository"
)

const (
	testVendorID   = "11111111-1111-1111-1111-111111111111"
	otherVendorID  = "22222222-2222-2222-2222-222222222222"
	testUserID     = "33333333-3333-3333-3333-333333333333"
	testProductID  = "44444444-4444-4444-4444-444444444444"
	testLocationID = "55555555-5555-5555-5555-555555555555"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria sobre los puertos de repositorio. Sin rollback: los tests
// de fallo verifican rutas que cortan antes de escribir.
// ──────────────────────────────────────────────────────────────────────────────

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

func (r *memStockRepo) Get(_ context.Context, productID, locationID string) (*entity.Stock, error) {
	if s, ok := r.rows[stockKey(productID, locationID)]; ok {
		c := *s
		return &c, nil
	}
	// sin fila equivale a existencia cero, igual que el adaptador real
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
	if p, ok := r.products[productID]; ok {
		p.Cost = cost
	}
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

type memAdjustmentRepo struct {
	created []*entity.InventoryAdjustment
}

func (r *memAdjustmentRepo) Create(_ context.Context, a *entity.InventoryAdjustment) error {
	c := *a
	r.created = append(r.created, &c)
	return nil
}

func (r *memAdjustmentRepo) GetByID(_ context.Context, id string) (*repository.AdjustmentRow, error) {
	for _, a := range r.created {
		if a.ID == id {
			return &repository.AdjustmentRow{
				InventoryAdjustment: *a,
				ProductName:         "Blue Dream 3.5g",
				ProductSKU:          "FLOR-001",
				LocationName:        "Sucursal Principal",
				CreatedByName:       "Ana Admin",
			}, nil
		}
	}
	return nil, nil
}

func (r *memAdjustmentRepo) List(_ context.Context, filter repository.AdjustmentFilter) ([]repository.AdjustmentRow, error) {
	rows := make([]repository.AdjustmentRow, 0, len(r.created))
	for _, a := range r.created {
		if a.VendorID != filter.VendorID {
			continue
		}
		rows = append(rows, repository.AdjustmentRow{InventoryAdjustment: *a})
	}
	return rows, nil
}

func (r *memAdjustmentRepo) ListByBatchID(_ context.Context, vendorID, batchID string) ([]repository.AdjustmentRow, error) {
	var rows []repository.AdjustmentRow
	for _, a := range r.created {
		if a.VendorID == vendorID && a.BatchID != nil && *a.BatchID == batchID {
			rows = append(rows, repository.AdjustmentRow{InventoryAdjustment: *a})
		}
	}
	return rows, nil
}

type memTxRunner struct {
	adj   repository.AdjustmentRepository
	stock repository.StockRepository
	prods repository.ProductRepository
}

func (r *memTxRunner) Run(ctx context.Context, fn func(
	repository.AdjustmentRepository,
	repository.StockRepository,
	repository.ProductRepository,
) error) error {
	return fn(r.adj, r.stock, r.prods)
}

type fixture struct {
	uc    *inventory.AdjustmentUseCase
	adj   *memAdjustmentRepo
	stock *memStockRepo
	prods *memProductRepo
}

func newFixture() *fixture {
	prods := newMemProductRepo(&entity.Product{
		ID: testProductID, VendorID: testVendorID,
		SKU: "FLOR-001", Name: "Blue Dream 3.5g", Cost: dec("2"),
	})
	locs := newMemLocationRepo(&entity.Location{
		ID: testLocationID, VendorID: testVendorID, Code: "MAIN", Name: "Sucursal Principal",
	})
	adj := &memAdjustmentRepo{}
	stock := newMemStockRepo()
	tx := &memTxRunner{adj: adj, stock: stock, prods: prods}
	return &fixture{
		uc:    inventory.NewAdjustmentUseCase(tx, adj, prods, locs, nil),
		adj:   adj,
		stock: stock,
		prods: prods,
	}
}

func baseInput(qty string) inventory.AdjustmentInput {
	return inventory.AdjustmentInput{
		VendorID:   testVendorID,
		UserID:     testUserID,
		ProductID:  testProductID,
		LocationID: testLocationID,
		Type:       entity.AdjustmentDamage,
		Quantity:   dec(qty),
		Reason:     "Producto dañado en bodega",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// ParseQuantity: el cliente envía el acumulador del teclado numérico como texto
// ──────────────────────────────────────────────────────────────────────────────

func TestParseQuantity_AcumuladorDelTeclado(t *testing.T) {
	casos := []struct {
		raw  string
		want string
	}{
		{"-5", "-5"},
		{"3.5", "3.5"},
		{"0", "0"},
		{" 12.25 ", "12.25"},
		{"-0.125", "-0.125"},
	}
	for _, c := range casos {
		got, err := inventory.ParseQuantity(c.raw)
		require.NoError(t, err, "ParseQuantity(%q)", c.raw)
		assert.True(t, got.Equal(dec(c.want)), "ParseQuantity(%q) = %s, esperaba %s", c.raw, got, c.want)
	}
}

func TestParseQuantity_EntradaInvalida(t *testing.T) {
	for _, raw := range []string{"", "   ", "abc", "1.2.3", "--4"} {
		_, err := inventory.ParseQuantity(raw)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "ParseQuantity(%q) debe fallar", raw)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create: before/after son del servidor, nunca del cliente
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateAdjustment_CalculaAntesYDespuesEnServidor(t *testing.T) {
	f := newFixture()
	f.stock.set(testProductID, testLocationID, dec("10"))

	adj, err := f.uc.Create(context.Background(), baseInput("-4"))
	require.NoError(t, err)

	assert.True(t, adj.QuantityBefore.Equal(dec("10")), "before = %s", adj.QuantityBefore)
	assert.True(t, adj.QuantityAfter.Equal(dec("6")), "after = %s", adj.QuantityAfter)
	assert.True(t, adj.QuantityChange.Equal(dec("-4")))
	assert.Equal(t, testUserID, adj.CreatedBy)
	assert.NotEmpty(t, adj.ID)
	assert.Nil(t, adj.BatchID, "un ajuste manual no lleva batch")

	stock, _ := f.stock.Get(context.Background(), testProductID, testLocationID)
	assert.True(t, stock.Quantity.Equal(dec("6")), "la existencia queda en 6")
	require.Len(t, f.adj.created, 1)
}

func TestCreateAdjustment_SinFilaDeStockParteDeCero(t *testing.T) {
	f := newFixture()

	in := baseInput("8")
	in.Type = entity.AdjustmentReceiving
	adj, err := f.uc.Create(context.Background(), in)
	require.NoError(t, err)

	assert.True(t, adj.QuantityBefore.IsZero())
	assert.True(t, adj.QuantityAfter.Equal(dec("8")))
}

func TestCreateAdjustment_RechazaDeltaCero(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Create(context.Background(), baseInput("0"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.adj.created)
}

func TestCreateAdjustment_RechazaTipoDesconocido(t *testing.T) {
	f := newFixture()

	in := baseInput("-1")
	in.Type = "shrinkage"
	_, err := f.uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateAdjustment_RechazaMotivoVacio(t *testing.T) {
	f := newFixture()

	in := baseInput("-1")
	in.Reason = "   "
	_, err := f.uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateAdjustment_StockInsuficienteNoPersisteNada(t *testing.T) {
	f := newFixture()
	f.stock.set(testProductID, testLocationID, dec("3"))

	_, err := f.uc.Create(context.Background(), baseInput("-5"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	stock, _ := f.stock.Get(context.Background(), testProductID, testLocationID)
	assert.True(t, stock.Quantity.Equal(dec("3")), "la existencia no cambia")
	assert.Empty(t, f.adj.created, "no queda ajuste registrado")
}

func TestCreateAdjustment_ProductoDeOtroComercio(t *testing.T) {
	f := newFixture()

	in := baseInput("-1")
	in.VendorID = otherVendorID
	_, err := f.uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateAdjustment_ProductoInexistente(t *testing.T) {
	f := newFixture()

	in := baseInput("-1")
	in.ProductID = "99999999-9999-9999-9999-999999999999"
	_, err := f.uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recepciones con costo: promedio ponderado
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateAdjustment_RecepcionConCostoRecalculaPromedio(t *testing.T) {
	f := newFixture()
	f.stock.set(testProductID, testLocationID, dec("10"))

	cost := dec("4")
	in := baseInput("10")
	in.Type = entity.AdjustmentReceiving
	in.Reason = "Recepción de mercancía"
	in.UnitCost = &cost

	adj, err := f.uc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, adj.QuantityAfter.Equal(dec("20")))

	// (10*2 + 10*4) / 20 = 3
	product, _ := f.prods.GetByID(context.Background(), testProductID)
	assert.True(t, product.Cost.Equal(dec("3")), "costo promedio = %s, esperaba 3", product.Cost)
}

func TestCreateAdjustment_CostoSoloEnRecepciones(t *testing.T) {
	f := newFixture()
	f.stock.set(testProductID, testLocationID, dec("10"))

	cost := dec("4")
	in := baseInput("-2")
	in.UnitCost = &cost // daño con costo declarado no tiene sentido
	_, err := f.uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateFromRequest: la ruta HTTP parsea la cantidad en texto
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateFromRequest_ParseaCantidadTexto(t *testing.T) {
	f := newFixture()
	f.stock.set(testProductID, testLocationID, dec("10"))

	resp, err := f.uc.CreateFromRequest(context.Background(), testVendorID, testUserID, dto.CreateAdjustmentRequest{
		ProductID:  testProductID,
		LocationID: testLocationID,
		Type:       entity.AdjustmentDamage,
		Quantity:   "-2.5",
		Reason:     "Merma por manipulación",
	})
	require.NoError(t, err)

	assert.True(t, resp.QuantityChange.Equal(dec("-2.5")))
	assert.True(t, resp.QuantityAfter.Equal(dec("7.5")))
	assert.Equal(t, "Blue Dream 3.5g", resp.ProductName, "la respuesta llega con nombres resueltos")
}

func TestCreateFromRequest_CantidadIlegible(t *testing.T) {
	f := newFixture()

	_, err := f.uc.CreateFromRequest(context.Background(), testVendorID, testUserID, dto.CreateAdjustmentRequest{
		ProductID:  testProductID,
		LocationID: testLocationID,
		Type:       entity.AdjustmentDamage,
		Quantity:   "1..5",
		Reason:     "Merma",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.adj.created)
}
