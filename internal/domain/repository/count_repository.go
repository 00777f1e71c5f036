package repository

import (
	"context"

	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
)

// CountRepository define el puerto de persistencia para conteos físicos.
type CountRepository interface {
	Create(ctx context.Context, count *entity.InventoryCount) error
	GetByID(ctx context.Context, id string) (*entity.InventoryCount, error)
	// GetForUpdate bloquea la cabecera del conteo (SELECT FOR UPDATE), sin líneas.
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryCount, error)
	UpdateHeader(ctx context.Context, count *entity.InventoryCount) error
	// CreateItems inserta el snapshot de líneas en lote.
	CreateItems(ctx context.Context, items []entity.InventoryCountItem) error
	GetItem(ctx context.Context, countID, itemID string) (*entity.InventoryCountItem, error)
	UpdateItem(ctx context.Context, item *entity.InventoryCountItem) error
	ListItems(ctx context.Context, countID string) ([]entity.InventoryCountItem, error)
	ListByOrganization(ctx context.Context, orgID string, limit, offset int) ([]*entity.InventoryCount, error)
}
