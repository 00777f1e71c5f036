package repository

import (
	"context"

	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
)

// StockAlertRepository define el puerto de persistencia para alertas de stock.
type StockAlertRepository interface {
	Create(ctx context.Context, alert *entity.InventoryStockAlert) error
	GetByID(ctx context.Context, id string) (*entity.InventoryStockAlert, error)
	Update(ctx context.Context, alert *entity.InventoryStockAlert) error
	// ExistsOpen indica si el ítem ya tiene una alerta abierta (no resuelta) del tipo dado.
	ExistsOpen(ctx context.Context, itemID, alertType string) (bool, error)
	ListOpenByOrganization(ctx context.Context, orgID string, limit, offset int) ([]*entity.InventoryStockAlert, error)
}
