package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
)

// DeriveStatus calcula el estado de un ítem a partir de sus cantidades
// (función pura). Los overrides administrativos (discontinued, on_order)
// tienen precedencia sobre el valor calculado.
func DeriveStatus(onHand, reorderLevel decimal.Decimal, override string) string {
	if override == entity.ItemStatusDiscontinued || override == entity.ItemStatusOnOrder {
		return override
	}
	if onHand.LessThanOrEqual(decimal.Zero) {
		return entity.ItemStatusOutOfStock
	}
	if onHand.LessThanOrEqual(reorderLevel) {
		return entity.ItemStatusLowStock
	}
	return entity.ItemStatusInStock
}

// RederiveItemStatus actualiza el campo Status del ítem según sus cantidades actuales.
func RederiveItemStatus(item *entity.InventoryItem) {
	item.Status = DeriveStatus(item.QuantityOnHand, item.ReorderLevel, item.StatusOverride)
}
