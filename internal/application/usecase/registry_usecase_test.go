package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdvalencia/fieldops-api/internal/application/dto"
	"github.com/jdvalencia/fieldops-api/internal/application/usecase"
	"github.com/jdvalencia/fieldops-api/internal/domain"
	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
)

const (
	orgA = "org-a"
	orgB = "org-b"
)

func str(s string) *string { return &s }

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos de referencia (guardan valores, devuelven
// copias: una mutación que falla a medias no queda persistida).
// ──────────────────────────────────────────────────────────────────────────────

type fakeSupplierRepo struct{ m map[string]entity.Supplier }

func (r *fakeSupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	r.m[s.ID] = *s
	return nil
}

func (r *fakeSupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	s, ok := r.m[id]
	if !ok {
		return nil, nil
	}
	out := s
	return &out, nil
}

func (r *fakeSupplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	r.m[s.ID] = *s
	return nil
}

func (r *fakeSupplierRepo) SetStatus(_ context.Context, id, status string) error {
	s := r.m[id]
	s.Status = status
	r.m[id] = s
	return nil
}

func (r *fakeSupplierRepo) ListByOrganization(_ context.Context, orgID string, limit, offset int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	for _, s := range r.m {
		if s.OrganizationID == orgID {
			c := s
			out = append(out, &c)
		}
	}
	return out, nil
}

type fakeCategoryRepo struct{ m map[string]entity.Category }

func (r *fakeCategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.m[c.ID] = *c
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	c, ok := r.m[id]
	if !ok {
		return nil, nil
	}
	out := c
	return &out, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.m[c.ID] = *c
	return nil
}

func (r *fakeCategoryRepo) SetStatus(_ context.Context, id, status string) error {
	c := r.m[id]
	c.Status = status
	r.m[id] = c
	return nil
}

func (r *fakeCategoryRepo) ListByOrganization(_ context.Context, orgID string, limit, offset int) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range r.m {
		if c.OrganizationID == orgID {
			cp := c
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Proveedores
// ──────────────────────────────────────────────────────────────────────────────

func TestSupplierUpdate_ModificaContactoSinTocarElCodigo(t *testing.T) {
	repo := &fakeSupplierRepo{m: map[string]entity.Supplier{}}
	uc := usecase.NewSupplierUseCase(repo)
	ctx := context.Background()

	created, err := uc.Create(ctx, orgA, dto.CreateSupplierRequest{
		Code:  "PROV-001",
		Name:  "Ferretería El Tornillo",
		Email: "ventas@eltornillo.co",
	})
	require.NoError(t, err)

	updated, err := uc.Update(ctx, orgA, created.ID, dto.UpdateSupplierRequest{
		Name:        str("Ferretería El Tornillo SAS"),
		ContactName: str("Marcela Ruiz"),
		Phone:       str("3101234567"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Ferretería El Tornillo SAS", updated.Name)
	assert.Equal(t, "Marcela Ruiz", updated.ContactName)
	assert.Equal(t, "3101234567", updated.Phone)
	assert.Equal(t, "ventas@eltornillo.co", updated.Email, "campo no enviado se conserva")
	assert.Equal(t, "PROV-001", updated.Code, "el código es inmutable")
}

func TestSupplierUpdate_Validaciones(t *testing.T) {
	repo := &fakeSupplierRepo{m: map[string]entity.Supplier{}}
	uc := usecase.NewSupplierUseCase(repo)
	ctx := context.Background()

	created, err := uc.Create(ctx, orgA, dto.CreateSupplierRequest{Code: "PROV-001", Name: "Proveedor"})
	require.NoError(t, err)

	// nombre vacío
	_, err = uc.Update(ctx, orgA, created.ID, dto.UpdateSupplierRequest{Name: str("")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// inexistente
	_, err = uc.Update(ctx, orgA, "no-existe", dto.UpdateSupplierRequest{Name: str("X")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// de otra organización
	_, err = uc.Update(ctx, orgB, created.ID, dto.UpdateSupplierRequest{Name: str("X")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// nada quedó tocado
	intact, err := uc.GetByID(ctx, orgA, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Proveedor", intact.Name)
}

// ──────────────────────────────────────────────────────────────────────────────
// Categorías
// ──────────────────────────────────────────────────────────────────────────────

func TestCategoryUpdate_ReasignaElPadre(t *testing.T) {
	repo := &fakeCategoryRepo{m: map[string]entity.Category{}}
	uc := usecase.NewCategoryUseCase(repo)
	ctx := context.Background()

	root, err := uc.Create(ctx, orgA, dto.CreateCategoryRequest{Code: "MAT", Name: "Materiales"})
	require.NoError(t, err)
	child, err := uc.Create(ctx, orgA, dto.CreateCategoryRequest{Code: "TUB", Name: "Tubería"})
	require.NoError(t, err)

	updated, err := uc.Update(ctx, orgA, child.ID, dto.UpdateCategoryRequest{ParentID: &root.ID})
	require.NoError(t, err)
	assert.Equal(t, root.ID, updated.ParentID)

	// "" quita el padre
	updated, err = uc.Update(ctx, orgA, child.ID, dto.UpdateCategoryRequest{ParentID: str("")})
	require.NoError(t, err)
	assert.Empty(t, updated.ParentID)
}

func TestCategoryUpdate_PadreInvalido(t *testing.T) {
	repo := &fakeCategoryRepo{m: map[string]entity.Category{}}
	uc := usecase.NewCategoryUseCase(repo)
	ctx := context.Background()

	cat, err := uc.Create(ctx, orgA, dto.CreateCategoryRequest{Code: "MAT", Name: "Materiales"})
	require.NoError(t, err)

	// su propio padre
	_, err = uc.Update(ctx, orgA, cat.ID, dto.UpdateCategoryRequest{ParentID: &cat.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// padre inexistente
	_, err = uc.Update(ctx, orgA, cat.ID, dto.UpdateCategoryRequest{ParentID: str("no-existe")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSupplierDeactivate_EsSoftDelete(t *testing.T) {
	repo := &fakeSupplierRepo{m: map[string]entity.Supplier{}}
	uc := usecase.NewSupplierUseCase(repo)
	ctx := context.Background()

	created, err := uc.Create(ctx, orgA, dto.CreateSupplierRequest{Code: "PROV-001", Name: "Proveedor"})
	require.NoError(t, err)
	require.NoError(t, uc.Deactivate(ctx, orgA, created.ID))

	// la fila se conserva con status inactive
	got, err := uc.GetByID(ctx, orgA, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReferenceStatusInactive, got.Status)
}
