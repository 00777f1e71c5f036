package repository

import (
	"context"

	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para InventoryItem (DIP).
// Las cantidades solo se escriben vía UpdateProjection, y siempre dentro de
// una transacción que obtuvo el ítem con GetForUpdate.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	GetByOrgAndCode(ctx context.Context, orgID, code string) (*entity.InventoryItem, error)
	// GetForUpdate bloquea la fila del ítem (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error)
	// Update escribe solo campos no-cuantitativos (identidad, costeo, política de reorden).
	Update(ctx context.Context, item *entity.InventoryItem) error
	// UpdateProjection escribe la proyección de cantidades, costo promedio y estado derivado.
	UpdateProjection(ctx context.Context, item *entity.InventoryItem) error
	SoftDelete(ctx context.Context, id string) error
	ListByOrganization(ctx context.Context, orgID string, limit, offset int) ([]*entity.InventoryItem, error)
	// ListActive pagina ítems no eliminados, opcionalmente filtrados por ubicación
	// (para el monitor de alertas y el snapshot de conteos).
	ListActive(ctx context.Context, orgID, locationID string, limit, offset int) ([]*entity.InventoryItem, error)
}
