package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jdvalencia/fieldops-api/internal/application/dto"
	"github.com/jdvalencia/fieldops-api/internal/domain"
	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
	"github.com/jdvalencia/fieldops-api/internal/domain/repository"
)

// Casos de uso de los registros de referencia. Solo CRUD + soft-delete vía
// status: el núcleo de inventario los consume como datos de consulta. La
// unicidad del código por organización la garantiza la BD (el repositorio
// traduce la violación a ErrDuplicate).

// SupplierUseCase administra proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

func (uc *SupplierUseCase) Create(ctx context.Context, orgID string, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	s := &entity.Supplier{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Code:           in.Code,
		Name:           in.Name,
		ContactName:    in.ContactName,
		Email:          in.Email,
		Phone:          in.Phone,
		Address:        in.Address,
		Status:         entity.ReferenceStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

func (uc *SupplierUseCase) GetByID(ctx context.Context, orgID, id string) (*dto.SupplierResponse, error) {
	s, err := uc.owned(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// Update modifica los datos de contacto del proveedor. El código es inmutable.
func (uc *SupplierUseCase) Update(ctx context.Context, orgID, id string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	s, err := uc.owned(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		s.Name = *in.Name
	}
	if in.ContactName != nil {
		s.ContactName = *in.ContactName
	}
	if in.Email != nil {
		s.Email = *in.Email
	}
	if in.Phone != nil {
		s.Phone = *in.Phone
	}
	if in.Address != nil {
		s.Address = *in.Address
	}
	s.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

func (uc *SupplierUseCase) owned(ctx context.Context, orgID, id string) (*entity.Supplier, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if s.OrganizationID != orgID {
		return nil, domain.ErrForbidden
	}
	return s, nil
}

func (uc *SupplierUseCase) Deactivate(ctx context.Context, orgID, id string) error {
	if _, err := uc.GetByID(ctx, orgID, id); err != nil {
		return err
	}
	return uc.repo.SetStatus(ctx, id, entity.ReferenceStatusInactive)
}

func (uc *SupplierUseCase) List(ctx context.Context, orgID string, limit, offset int) ([]*dto.SupplierResponse, error) {
	list, err := uc.repo.ListByOrganization(ctx, orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSupplierResponse(s))
	}
	return out, nil
}

// LocationUseCase administra ubicaciones físicas de stock.
type LocationUseCase struct {
	repo repository.LocationRepository
}

func NewLocationUseCase(repo repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo}
}

func (uc *LocationUseCase) Create(ctx context.Context, orgID string, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	l := &entity.Location{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Code:           in.Code,
		Name:           in.Name,
		Address:        in.Address,
		Status:         entity.ReferenceStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return toLocationResponse(l), nil
}

func (uc *LocationUseCase) GetByID(ctx context.Context, orgID, id string) (*dto.LocationResponse, error) {
	l, err := uc.owned(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	return toLocationResponse(l), nil
}

func (uc *LocationUseCase) Update(ctx context.Context, orgID, id string, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	l, err := uc.owned(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		l.Name = *in.Name
	}
	if in.Address != nil {
		l.Address = *in.Address
	}
	l.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return toLocationResponse(l), nil
}

func (uc *LocationUseCase) owned(ctx context.Context, orgID, id string) (*entity.Location, error) {
	l, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	if l.OrganizationID != orgID {
		return nil, domain.ErrForbidden
	}
	return l, nil
}

func (uc *LocationUseCase) Deactivate(ctx context.Context, orgID, id string) error {
	if _, err := uc.GetByID(ctx, orgID, id); err != nil {
		return err
	}
	return uc.repo.SetStatus(ctx, id, entity.ReferenceStatusInactive)
}

func (uc *LocationUseCase) List(ctx context.Context, orgID string, limit, offset int) ([]*dto.LocationResponse, error) {
	list, err := uc.repo.ListByOrganization(ctx, orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.LocationResponse, 0, len(list))
	for _, l := range list {
		out = append(out, toLocationResponse(l))
	}
	return out, nil
}

// CategoryUseCase administra categorías de ítems.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

func (uc *CategoryUseCase) Create(ctx context.Context, orgID string, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.ParentID != "" {
		parent, err := uc.repo.GetByID(ctx, in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.OrganizationID != orgID {
			return nil, domain.ErrNotFound
		}
	}
	now := time.Now()
	c := &entity.Category{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		ParentID:       in.ParentID,
		Code:           in.Code,
		Name:           in.Name,
		Status:         entity.ReferenceStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

func (uc *CategoryUseCase) GetByID(ctx context.Context, orgID, id string) (*dto.CategoryResponse, error) {
	c, err := uc.owned(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// Update modifica nombre o padre de la categoría. Una categoría no puede ser
// su propio padre; "" quita el padre.
func (uc *CategoryUseCase) Update(ctx context.Context, orgID, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := uc.owned(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		c.Name = *in.Name
	}
	if in.ParentID != nil {
		if *in.ParentID != "" {
			if *in.ParentID == id {
				return nil, domain.ErrInvalidInput
			}
			parent, err := uc.repo.GetByID(ctx, *in.ParentID)
			if err != nil {
				return nil, err
			}
			if parent == nil || parent.OrganizationID != orgID {
				return nil, domain.ErrNotFound
			}
		}
		c.ParentID = *in.ParentID
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

func (uc *CategoryUseCase) owned(ctx context.Context, orgID, id string) (*entity.Category, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if c.OrganizationID != orgID {
		return nil, domain.ErrForbidden
	}
	return c, nil
}

func (uc *CategoryUseCase) Deactivate(ctx context.Context, orgID, id string) error {
	if _, err := uc.GetByID(ctx, orgID, id); err != nil {
		return err
	}
	return uc.repo.SetStatus(ctx, id, entity.ReferenceStatusInactive)
}

func (uc *CategoryUseCase) List(ctx context.Context, orgID string, limit, offset int) ([]*dto.CategoryResponse, error) {
	list, err := uc.repo.ListByOrganization(ctx, orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCategoryResponse(c))
	}
	return out, nil
}

// UnitUseCase administra unidades de medida.
type UnitUseCase struct {
	repo repository.UnitRepository
}

func NewUnitUseCase(repo repository.UnitRepository) *UnitUseCase {
	return &UnitUseCase{repo: repo}
}

func (uc *UnitUseCase) Create(ctx context.Context, orgID string, in dto.CreateUnitRequest) (*dto.UnitResponse, error) {
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	u := &entity.UnitOfMeasure{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Code:           in.Code,
		Name:           in.Name,
		Status:         entity.ReferenceStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return toUnitResponse(u), nil
}

func (uc *UnitUseCase) GetByID(ctx context.Context, orgID, id string) (*dto.UnitResponse, error) {
	u, err := uc.owned(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	return toUnitResponse(u), nil
}

func (uc *UnitUseCase) Update(ctx context.Context, orgID, id string, in dto.UpdateUnitRequest) (*dto.UnitResponse, error) {
	u, err := uc.owned(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		u.Name = *in.Name
	}
	u.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return toUnitResponse(u), nil
}

func (uc *UnitUseCase) owned(ctx context.Context, orgID, id string) (*entity.UnitOfMeasure, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	if u.OrganizationID != orgID {
		return nil, domain.ErrForbidden
	}
	return u, nil
}

func (uc *UnitUseCase) Deactivate(ctx context.Context, orgID, id string) error {
	if _, err := uc.GetByID(ctx, orgID, id); err != nil {
		return err
	}
	return uc.repo.SetStatus(ctx, id, entity.ReferenceStatusInactive)
}

func (uc *UnitUseCase) List(ctx context.Context, orgID string, limit, offset int) ([]*dto.UnitResponse, error) {
	list, err := uc.repo.ListByOrganization(ctx, orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UnitResponse, 0, len(list))
	for _, u := range list {
		out = append(out, toUnitResponse(u))
	}
	return out, nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:          s.ID,
		Code:        s.Code,
		Name:        s.Name,
		ContactName: s.ContactName,
		Email:       s.Email,
		Phone:       s.Phone,
		Address:     s.Address,
		Status:      s.Status,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:        l.ID,
		Code:      l.Code,
		Name:      l.Name,
		Address:   l.Address,
		Status:    l.Status,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:        c.ID,
		Code:      c.Code,
		Name:      c.Name,
		ParentID:  c.ParentID,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toUnitResponse(u *entity.UnitOfMeasure) *dto.UnitResponse {
	return &dto.UnitResponse{
		ID:        u.ID,
		Code:      u.Code,
		Name:      u.Name,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
