package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dcastano/VerdePOS-api/internal/application/dto"
	"github.com/dcastano/VerdePOS-api/internal/domain"
	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
	"github.com/dcastano/VerdePOS-api/internal/domain/repository"
)

// VendorUseCase perfil del comercio y activación de módulos SaaS.
type VendorUseCase struct {
	repo repository.VendorRepository
}

// NewVendorUseCase construye el caso de uso.
func NewVendorUseCase(repo repository.VendorRepository) *VendorUseCase {
	return &VendorUseCase{repo: repo}
}

// Get devuelve el perfil del comercio autenticado.
func (uc *VendorUseCase) Get(ctx context.Context, vendorID string) (*dto.VendorResponse, error) {
	vendor, err := uc.repo.GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, domain.ErrNotFound
	}
	return toVendorResponse(vendor), nil
}

// Update actualiza el perfil del comercio.
func (uc *VendorUseCase) Update(ctx context.Context, vendorID string, in dto.UpdateVendorRequest) (*dto.VendorResponse, error) {
	vendor, err := uc.repo.GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		vendor.Name = strings.TrimSpace(*in.Name)
	}
	if in.LicenseNumber != nil {
		vendor.LicenseNumber = *in.LicenseNumber
	}
	if in.Address != nil {
		vendor.Address = *in.Address
	}
	if in.Phone != nil {
		vendor.Phone = *in.Phone
	}
	if in.Email != nil {
		vendor.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	vendor.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, vendor); err != nil {
		return nil, err
	}
	return toVendorResponse(vendor), nil
}

// SetModule activa o desactiva un módulo SaaS del comercio, con vencimiento
// opcional.
func (uc *VendorUseCase) SetModule(ctx context.Context, vendorID string, in dto.SetModuleRequest) (*dto.ModuleResponse, error) {
	if !entity.ValidModules[in.ModuleName] {
		return nil, domain.ErrInvalidInput
	}
	module := &entity.VendorModule{
		ID:          uuid.New().String(),
		VendorID:    vendorID,
		ModuleName:  in.ModuleName,
		IsActive:    in.IsActive,
		ActivatedAt: time.Now(),
		ExpiresAt:   in.ExpiresAt,
	}
	if err := uc.repo.SetModule(ctx, module); err != nil {
		return nil, err
	}
	return &dto.ModuleResponse{
		ModuleName:  module.ModuleName,
		IsActive:    module.IsActive,
		ActivatedAt: module.ActivatedAt,
		ExpiresAt:   module.ExpiresAt,
	}, nil
}

// ListModules lista los módulos SaaS del comercio con su estado.
func (uc *VendorUseCase) ListModules(ctx context.Context, vendorID string) (*dto.ModuleListResponse, error) {
	modules, err := uc.repo.ListModules(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ModuleResponse, 0, len(modules))
	for _, m := range modules {
		items = append(items, dto.ModuleResponse{
			ModuleName:  m.ModuleName,
			IsActive:    m.IsActive,
			ActivatedAt: m.ActivatedAt,
			ExpiresAt:   m.ExpiresAt,
		})
	}
	return &dto.ModuleListResponse{Items: items}, nil
}

func toVendorResponse(v *entity.Vendor) *dto.VendorResponse {
	if v == nil {
		return nil
	}
	return &dto.VendorResponse{
		ID:            v.ID,
		Name:          v.Name,
		LicenseNumber: v.LicenseNumber,
		Address:       v.Address,
		Phone:         v.Phone,
		Email:         v.Email,
		Status:        v.Status,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}
