package repository

import (
	"context"

	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra.
type PurchaseOrderRepository interface {
	// Create persiste la cabecera y sus líneas.
	Create(ctx context.Context, po *entity.InventoryPurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.InventoryPurchaseOrder, error)
	// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) y carga las líneas.
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryPurchaseOrder, error)
	UpdateHeader(ctx context.Context, po *entity.InventoryPurchaseOrder) error
	UpdateLine(ctx context.Context, line *entity.InventoryPurchaseOrderItem) error
	ListByOrganization(ctx context.Context, orgID, status string, limit, offset int) ([]*entity.InventoryPurchaseOrder, error)
	// CountOpenLinesByItem cuenta líneas no entregadas por completo en órdenes
	// vivas que referencian el ítem (bloqueo de soft-delete).
	CountOpenLinesByItem(ctx context.Context, itemID string) (int, error)
}
