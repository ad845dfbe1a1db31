package transfer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcastano/VerdePOS-api/internal/application/dto"
	"github.com/dcastano/VerdePOS-api/internal/application/transfer"
	"github.com/dcastano/VerdePOS-api/internal/domain"
	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
	"github.com/dcastano/VerdePOS-api/internal/domain/repository"
	"github.com/dcastano/VerdePOS-api/pkg/docnum"
)

const (
	testVendorID      = "11111111-1111-1111-1111-111111111111"
	otherVendorID     = "22222222-2222-2222-2222-222222222222"
	testUserID        = "33333333-3333-3333-3333-333333333333"
	managerUserID     = "99999999-9999-9999-9999-999999999999"
	flowerProductID   = "44444444-4444-4444-4444-444444444444"
	edibleProductID   = "55555555-5555-5555-5555-555555555555"
	foreignProductID  = "66666666-6666-6666-6666-666666666666"
	mainLocationID    = "77777777-7777-7777-7777-777777777777"
	northLocationID   = "88888888-8888-8888-8888-888888888888"
	foreignLocationID = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. El fake de traslados devuelve copias para que el estado
// persistido solo cambie a través de UpdateStatus/ReplaceLines, igual que con
// una base de datos real.
// ──────────────────────────────────────────────────────────────────────────────

type memTransferRepo struct {
	transfers map[string]*entity.Transfer
}

func newMemTransferRepo() *memTransferRepo {
	return &memTransferRepo{transfers: map[string]*entity.Transfer{}}
}

func cloneTransfer(t *entity.Transfer) *entity.Transfer {
	c := *t
	c.Lines = make([]entity.TransferLine, len(t.Lines))
	copy(c.Lines, t.Lines)
	return &c
}

func (r *memTransferRepo) Create(_ context.Context, t *entity.Transfer) error {
	r.transfers[t.ID] = cloneTransfer(t)
	return nil
}

func (r *memTransferRepo) GetByID(_ context.Context, id string) (*entity.Transfer, error) {
	if t, ok := r.transfers[id]; ok {
		return cloneTransfer(t), nil
	}
	return nil, nil
}

func (r *memTransferRepo) ReplaceLines(_ context.Context, transferID string, lines []entity.TransferLine) error {
	t, ok := r.transfers[transferID]
	if !ok {
		return domain.ErrNotFound
	}
	t.Lines = make([]entity.TransferLine, len(lines))
	copy(t.Lines, lines)
	return nil
}

func (r *memTransferRepo) UpdateStatus(_ context.Context, t *entity.Transfer) error {
	if _, ok := r.transfers[t.ID]; !ok {
		return domain.ErrNotFound
	}
	r.transfers[t.ID] = cloneTransfer(t)
	return nil
}

func (r *memTransferRepo) UpdateNotes(_ context.Context, transferID, notes string) error {
	t, ok := r.transfers[transferID]
	if !ok {
		return domain.ErrNotFound
	}
	t.Notes = notes
	return nil
}

func (r *memTransferRepo) List(_ context.Context, filter repository.TransferFilter) ([]*entity.Transfer, error) {
	var out []*entity.Transfer
	for _, t := range r.transfers {
		if t.VendorID != filter.VendorID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.LocationID != "" && t.FromLocationID != filter.LocationID && t.ToLocationID != filter.LocationID {
			continue
		}
		out = append(out, cloneTransfer(t))
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

type memTxRunner struct {
	transfers repository.TransferRepository
	stock     repository.StockRepository
}

func (r *memTxRunner) RunTransfer(ctx context.Context, fn func(
	repository.TransferRepository,
	repository.StockRepository,
) error) error {
	return fn(r.transfers, r.stock)
}

type fixture struct {
	uc        *transfer.TransferUseCase
	transfers *memTransferRepo
	stock     *memStockRepo
}

// newFixture deja dos sucursales del comercio con stock en la principal
// (flor en 10, comestible en 5) más una sucursal y un producto ajenos.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	prods := newMemProductRepo(
		&entity.Product{ID: flowerProductID, VendorID: testVendorID, SKU: "FLOR-001", Name: "Blue Dream 3.5g"},
		&entity.Product{ID: edibleProductID, VendorID: testVendorID, SKU: "COM-001", Name: "Gomitas 100mg"},
		&entity.Product{ID: foreignProductID, VendorID: otherVendorID, SKU: "AJENO-001", Name: "Producto Ajeno"},
	)
	locs := newMemLocationRepo(
		&entity.Location{ID: mainLocationID, VendorID: testVendorID, Code: "MAIN", Name: "Sucursal Principal"},
		&entity.Location{ID: northLocationID, VendorID: testVendorID, Code: "NORTE", Name: "Sucursal Norte"},
		&entity.Location{ID: foreignLocationID, VendorID: otherVendorID, Code: "AJENA", Name: "Sucursal Ajena"},
	)
	transfers := newMemTransferRepo()
	stock := newMemStockRepo()
	stock.set(flowerProductID, mainLocationID, dec("10"))
	stock.set(edibleProductID, mainLocationID, dec("5"))
	numbers, err := docnum.New(1)
	require.NoError(t, err)
	tx := &memTxRunner{transfers: transfers, stock: stock}
	return &fixture{
		uc:        transfer.NewTransferUseCase(tx, transfers, locs, prods, numbers),
		transfers: transfers,
		stock:     stock,
	}
}

func line(productID, qty string) dto.TransferLineRequest {
	return dto.TransferLineRequest{ProductID: productID, Quantity: dec(qty)}
}

func baseRequest(lines ...dto.TransferLineRequest) dto.CreateTransferRequest {
	return dto.CreateTransferRequest{
		FromLocationID: mainLocationID,
		ToLocationID:   northLocationID,
		Lines:          lines,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create: el borrador retiene, nunca descuenta
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateTransfer_BorradorNoTocaElStock(t *testing.T) {
	f := newFixture(t)
	res, err := f.uc.Create(context.Background(), testVendorID, testUserID, baseRequest(
		line(flowerProductID, "4"),
		line(edibleProductID, "2"),
	))
	require.NoError(t, err)

	assert.Equal(t, entity.TransferStatusDraft, res.Status)
	assert.True(t, strings.HasPrefix(res.Number, "TRF-"), "el consecutivo lleva el prefijo de traslados")
	assert.Len(t, res.Lines, 2)
	assert.Nil(t, res.ShippedAt)

	assert.True(t, f.stock.quantity(flowerProductID, mainLocationID).Equal(dec("10")),
		"guardar un borrador no descuenta existencias")
	assert.True(t, f.stock.quantity(edibleProductID, mainLocationID).Equal(dec("5")))
}

func TestCreateTransfer_MismaSucursalRechazada(t *testing.T) {
	f := newFixture(t)
	in := baseRequest(line(flowerProductID, "4"))
	in.ToLocationID = mainLocationID

	_, err := f.uc.Create(context.Background(), testVendorID, testUserID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateTransfer_CarritoVacio(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), testVendorID, testUserID, baseRequest())
	assert.ErrorIs(t, err, domain.ErrEmptyTransfer)
}

func TestCreateTransfer_ProductoRepetidoEnElCarrito(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), testVendorID, testUserID, baseRequest(
		line(flowerProductID, "4"),
		line(flowerProductID, "1"),
	))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el carrito se indexa por producto")
}

func TestCreateTransfer_CantidadNoPositiva(t *testing.T) {
	f := newFixture(t)
	for _, qty := range []string{"0", "-3"} {
		_, err := f.uc.Create(context.Background(), testVendorID, testUserID, baseRequest(
			line(flowerProductID, qty),
		))
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad %s debe rechazarse", qty)
	}
}

func TestCreateTransfer_SucursalAjenaRechazada(t *testing.T) {
	f := newFixture(t)
	in := baseRequest(line(flowerProductID, "4"))
	in.ToLocationID = foreignLocationID

	_, err := f.uc.Create(context.Background(), testVendorID, testUserID, in)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateTransfer_ProductoAjenoRechazado(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), testVendorID, testUserID, baseRequest(
		line(foreignProductID, "1"),
	))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida: draft → approved → in_transit → completed
// ──────────────────────────────────────────────────────────────────────────────

func TestApprove_RegistraQuienYCuando(t *testing.T) {
	f := newFixture(t)
	draft, err := f.uc.Create(context.Background(), testVendorID, testUserID, baseRequest(line(flowerProductID, "4")))
	require.NoError(t, err)

	approved, err := f.uc.Approve(context.Background(), testVendorID, managerUserID, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, managerUserID, *approved.ApprovedBy)
	assert.NotNil(t, approved.ApprovedAt)

	// aprobar dos veces no es una transición válida
	_, err = f.uc.Approve(context.Background(), testVendorID, managerUserID, draft.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestShip_DescuentaElOrigen(t *testing.T) {
	f := newFixture(t)
	draft, err := f.uc.Create(context.Background(), testVendorID, testUserID, baseRequest(
		line(flowerProductID, "4"),
		line(edibleProductID, "2"),
	))
	require.NoError(t, err)

	shipped, err := f.uc.Ship(context.Background(), testVendorID, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusInTransit, shipped.Status)
	assert.NotNil(t, shipped.ShippedAt)

	assert.True(t, f.stock.quantity(flowerProductID, mainLocationID).Equal(dec("6")))
	assert.True(t, f.stock.quantity(edibleProductID, mainLocationID).Equal(dec("3")))
	assert.True(t, f.stock.quantity(flowerProductID, northLocationID).Equal(decimal.Zero),
		"el destino no recibe nada hasta completar")
}

func TestShip_StockInsuficienteNoDespachaNada(t *testing.T) {
	f := newFixture(t)
	// la línea corta va primero: el despacho corta antes de tocar la flor
	draft, err := f.uc.Create(context.Background(), testVendorID, testUserID, baseRequest(
		line(edibleProductID, "6"), // existencia 5
		line(flowerProductID, "4"),
	))
	require.NoError(t, err)

	_, err = f.uc.Ship(context.Background(), testVendorID, draft.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, f.stock.quantity(edibleProductID, mainLocationID).Equal(dec("5")))
	assert.True(t, f.stock.quantity(flowerProductID, mainLocationID).Equal(dec("10")))

	current, err := f.uc.GetByID(context.Background(), testVendorID, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusDraft, current.Status, "el traslado sigue editable tras el fallo")
}

func TestShip_DobleDespachoRechazado(t *testing.T) {
	f := newFixture(t)
	draft, err := f.uc.Create(context.Background(), testVendorID, testUserID, baseRequest(line(flowerProductID, "4")))
	require.NoError(t, err)

	_, err = f.uc.Ship(context.Background(), testVendorID, draft.ID)
	require.NoError(t, err)

	_, err = f.uc.Ship(context.Background(), testVendorID, draft.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.True(t, f.stock.quantity(flowerProductID, mainLocationID).Equal(dec("6")),
		"el segundo despacho no debe descontar de nuevo")
}

func TestComplete_SumaEnElDestino(t *testing.T) {
	f := newFixture(t)
	draft, err := f.uc.Create(context.Background(), testVendorID, testUserID, baseRequest(
		line(flowerProductID, "4"),
		line(edibleProductID, "2"),
	))
	require.NoError(t, err)
	_, err = f.uc.Ship(context.Background(), testVendorID, draft.ID)
	require.NoError(t, err)

	completed, err := f.uc.Complete(context.Background(), testVendorID, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	assert.True(t, f.stock.quantity(flowerProductID, northLocationID).Equal(dec("4")))
	assert.True(t, f.stock.quantity(edibleProductID, northLocationID).Equal(dec("2")))
	assert.True(t, f.stock.quantity(flowerProductID, mainLocationID).Equal(dec("6")),
		"el origen quedó descontado desde el despacho")
}

func TestComplete_SinDespachoPrevioRechazado(t *testing.T) {
	f := newFixture(t)
	draft, err := f.uc.Create(context.Background(), testVendorID, testUserID, baseRequest(line(flowerProductID, "4")))
	require.NoError(t, err)

	_, err = f.uc.Complete(context.Background(), testVendorID, draft.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.True(t, f.stock.quantity(flowerProductID, northLocationID).Equal(decimal.Zero))
}

func TestCancel_SoloAntesDelDespacho(t *testing.T) {
	f := newFixture(t)
	draft, err := f.uc.Create(context.Background(), testVendorID, testUserID, baseRequest(line(flowerProductID, "4")))
	require.NoError(t, err)

	cancelled, err := f.uc.Cancel(context.Background(), testVendorID, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)
	assert.True(t, f.stock.quantity(flowerProductID, mainLocationID).Equal(dec("10")),
		"cancelar solo libera el hold, el stock nunca se tocó")

	// un traslado despachado ya movió mercancía: no se puede cancelar
	other, err := f.uc.CreateAndShip(context.Background(), testVendorID, testUserID, baseRequest(line(edibleProductID, "1")))
	require.NoError(t, err)
	_, err = f.uc.Cancel(context.Background(), testVendorID, other.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCreateAndShip_AtomicoEnUnaLlamada(t *testing.T) {
	f := newFixture(t)
	res, err := f.uc.CreateAndShip(context.Background(), testVendorID, testUserID, baseRequest(
		line(flowerProductID, "3"),
	))
	require.NoError(t, err)

	assert.Equal(t, entity.TransferStatusInTransit, res.Status)
	assert.NotNil(t, res.ShippedAt)
	assert.True(t, f.stock.quantity(flowerProductID, mainLocationID).Equal(dec("7")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Guardado del carrito y aislamiento por comercio
// ──────────────────────────────────────────────────────────────────────────────

func TestSaveDraft_ReemplazaLineasYNotas(t *testing.T) {
	f := newFixture(t)
	draft, err := f.uc.Create(context.Background(), testVendorID, testUserID, baseRequest(line(flowerProductID, "4")))
	require.NoError(t, err)

	saved, err := f.uc.SaveDraft(context.Background(), testVendorID, draft.ID, dto.UpdateTransferRequest{
		Notes: "  Reponer vitrina norte  ",
		Lines: []dto.TransferLineRequest{line(edibleProductID, "3")},
	})
	require.NoError(t, err)
	require.Len(t, saved.Lines, 1)
	assert.Equal(t, edibleProductID, saved.Lines[0].ProductID)
	assert.Equal(t, "Reponer vitrina norte", saved.Notes)
}

func TestSaveDraft_TrasAprobarDevuelveConflicto(t *testing.T) {
	f := newFixture(t)
	draft, err := f.uc.Create(context.Background(), testVendorID, testUserID, baseRequest(line(flowerProductID, "4")))
	require.NoError(t, err)
	_, err = f.uc.Approve(context.Background(), testVendorID, managerUserID, draft.ID)
	require.NoError(t, err)

	_, err = f.uc.SaveDraft(context.Background(), testVendorID, draft.ID, dto.UpdateTransferRequest{
		Lines: []dto.TransferLineRequest{line(edibleProductID, "3")},
	})
	assert.ErrorIs(t, err, domain.ErrConflict, "un traslado aprobado ya no es editable")
}

func TestGetByID_OtroComercioNoVeElTraslado(t *testing.T) {
	f := newFixture(t)
	draft, err := f.uc.Create(context.Background(), testVendorID, testUserID, baseRequest(line(flowerProductID, "4")))
	require.NoError(t, err)

	res, err := f.uc.GetByID(context.Background(), otherVendorID, draft.ID)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestList_FiltraPorEstado(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), testVendorID, testUserID, baseRequest(line(flowerProductID, "1")))
	require.NoError(t, err)
	shipped, err := f.uc.CreateAndShip(context.Background(), testVendorID, testUserID, baseRequest(line(edibleProductID, "1")))
	require.NoError(t, err)

	list, err := f.uc.List(context.Background(), testVendorID, dto.ListTransfersRequest{Status: entity.TransferStatusInTransit})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, shipped.ID, list.Items[0].ID)
}
