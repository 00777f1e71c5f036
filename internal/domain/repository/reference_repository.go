package repository

import (
	"context"

	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
)

// Puertos de los registros de referencia (proveedores, ubicaciones,
// categorías, unidades). Solo CRUD + soft-delete; el núcleo los trata como
// datos de consulta.

type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	Update(ctx context.Context, s *entity.Supplier) error
	SetStatus(ctx context.Context, id, status string) error
	ListByOrganization(ctx context.Context, orgID string, limit, offset int) ([]*entity.Supplier, error)
}

type LocationRepository interface {
	Create(ctx context.Context, l *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	Update(ctx context.Context, l *entity.Location) error
	SetStatus(ctx context.Context, id, status string) error
	ListByOrganization(ctx context.Context, orgID string, limit, offset int) ([]*entity.Location, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	Update(ctx context.Context, c *entity.Category) error
	SetStatus(ctx context.Context, id, status string) error
	ListByOrganization(ctx context.Context, orgID string, limit, offset int) ([]*entity.Category, error)
}

type UnitRepository interface {
	Create(ctx context.Context, u *entity.UnitOfMeasure) error
	GetByID(ctx context.Context, id string) (*entity.UnitOfMeasure, error)
	Update(ctx context.Context, u *entity.UnitOfMeasure) error
	SetStatus(ctx context.Context, id, status string) error
	ListByOrganization(ctx context.Context, orgID string, limit, offset int) ([]*entity.UnitOfMeasure, error)
}
