package repository

import (
	"context"
	"time"

	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
)

// TransactionRepository define el puerto del ledger de transacciones.
// Solo inserciones: las filas del ledger nunca se actualizan ni se borran.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.InventoryTransaction) error
	GetByID(ctx context.Context, id string) (*entity.InventoryTransaction, error)
	// ListByItem devuelve las filas del ítem en orden de creación ascendente
	// (la historia canónica de cantidades).
	ListByItem(ctx context.Context, itemID string, limit, offset int) ([]*entity.InventoryTransaction, error)
	ListByOrganization(ctx context.Context, orgID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error)
}
