package sales

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dcastano/VerdePOS-api/internal/application/dto"
	"github.com/dcastano/VerdePOS-api/internal/domain"
	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
	"github.com/dcastano/VerdePOS-api/internal/domain/repository"
)

// SessionUseCase gestiona los turnos de caja: apertura con fondo inicial,
// cierre con arqueo (efectivo esperado = apertura + ventas en efectivo) y
// consulta de la sesión vigente. Una sucursal admite una sola sesión abierta.
type SessionUseCase struct {
	txRunner     TxRunner
	sessionRepo  repository.SessionRepository
	locationRepo repository.LocationRepository
}

// NewSessionUseCase construye el caso de uso.
func NewSessionUseCase(
	txRunner TxRunner,
	sessionRepo repository.SessionRepository,
	locationRepo repository.LocationRepository,
) *SessionUseCase {
	return &SessionUseCase{
		txRunner:     txRunner,
		sessionRepo:  sessionRepo,
		locationRepo: locationRepo,
	}
}

// Open abre un turno de caja en la sucursal. Si ya hay una sesión abierta en
// esa sucursal devuelve ErrConflict.
func (uc *SessionUseCase) Open(ctx context.Context, vendorID, userID string, in dto.OpenSessionRequest) (*dto.SessionResponse, error) {
	if in.OpeningCash.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	location, err := uc.locationRepo.GetByID(ctx, in.LocationID)
	if err != nil || location == nil {
		return nil, domain.ErrNotFound
	}
	if location.VendorID != vendorID {
		return nil, domain.ErrForbidden
	}
	open, err := uc.sessionRepo.GetOpenByLocation(ctx, in.LocationID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, domain.ErrConflict
	}

	session := &entity.RegisterSession{
		ID:          uuid.New().String(),
		VendorID:    vendorID,
		LocationID:  in.LocationID,
		OpenedBy:    userID,
		OpeningCash: in.OpeningCash,
		Status:      entity.SessionStatusOpen,
		OpenedAt:    time.Now(),
	}
	if err := uc.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	resp := toSessionResponse(session)
	return &resp, nil
}

// Close cierra el turno con el efectivo contado. El esperado (apertura +
// ventas en efectivo no anuladas) se calcula en la misma transacción que
// persiste el cierre para que una venta simultánea no descuadre el arqueo.
func (uc *SessionUseCase) Close(ctx context.Context, vendorID, userID, sessionID string, in dto.CloseSessionRequest) (*dto.SessionResponse, error) {
	if in.ClosingCash.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	var closed *entity.RegisterSession
	err := uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		_ repository.StockRepository,
		sessionRepo repository.SessionRepository,
		_ repository.ProductRepository,
	) error {
		session, err := sessionRepo.GetByID(ctx, sessionID)
		if err != nil {
			return err
		}
		if session == nil || session.VendorID != vendorID {
			return domain.ErrNotFound
		}
		if session.Status != entity.SessionStatusOpen {
			return domain.ErrConflict
		}
		cashSales, err := saleRepo.SumCashBySession(ctx, session.ID)
		if err != nil {
			return err
		}
		now := time.Now()
		expected := session.OpeningCash.Add(cashSales)
		session.Status = entity.SessionStatusClosed
		session.ClosedBy = &userID
		session.ClosingCash = &in.ClosingCash
		session.ExpectedCash = &expected
		session.ClosedAt = &now
		if err := sessionRepo.Close(ctx, session); err != nil {
			return err
		}
		closed = session
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := toSessionResponse(closed)
	return &resp, nil
}

// GetCurrent devuelve la sesión abierta de la sucursal, o nil si no hay.
func (uc *SessionUseCase) GetCurrent(ctx context.Context, vendorID, locationID string) (*dto.SessionResponse, error) {
	if locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	session, err := uc.sessionRepo.GetOpenByLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.VendorID != vendorID {
		return nil, nil
	}
	resp := toSessionResponse(session)
	return &resp, nil
}

// List lista las sesiones del comercio, más recientes primero.
func (uc *SessionUseCase) List(ctx context.Context, vendorID, locationID string, page dto.PageRequest) (*dto.SessionListResponse, error) {
	page.DefaultPage()
	sessions, err := uc.sessionRepo.ListByVendor(ctx, vendorID, locationID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		items = append(items, toSessionResponse(s))
	}
	return &dto.SessionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toSessionResponse(s *entity.RegisterSession) dto.SessionResponse {
	resp := dto.SessionResponse{
		ID:           s.ID,
		VendorID:     s.VendorID,
		LocationID:   s.LocationID,
		OpenedBy:     s.OpenedBy,
		OpeningCash:  s.OpeningCash,
		ClosedBy:     s.ClosedBy,
		ClosingCash:  s.ClosingCash,
		ExpectedCash: s.ExpectedCash,
		Status:       s.Status,
		OpenedAt:     s.OpenedAt,
		ClosedAt:     s.ClosedAt,
	}
	if s.ClosingCash != nil && s.ExpectedCash != nil {
		variance := s.ClosingCash.Sub(*s.ExpectedCash)
		resp.Variance = &variance
	}
	return resp
}
