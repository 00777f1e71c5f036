package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados derivados de un ítem de inventario.
const (
	ItemStatusInStock      = "in_stock"
	ItemStatusLowStock     = "low_stock"
	ItemStatusOutOfStock   = "out_of_stock"
	ItemStatusOnOrder      = "on_order"      // override explícito (workflow de compras)
	ItemStatusDiscontinued = "discontinued"  // override explícito (administrativo)
)

// InventoryItem representa un SKU del inventario de la organización.
// Las cantidades (OnHand/Allocated/Available/OnOrder) son una proyección
// materializada del ledger de transacciones: nunca se escriben directamente,
// solo vía la aplicación de transacciones. Invariante permanente:
// QuantityOnHand = QuantityAllocated + QuantityAvailable, todas >= 0.
type InventoryItem struct {
	ID             string
	OrganizationID string
	Code           string // código único por organización
	Name           string
	Description    string
	CategoryID     string
	UnitID         string // unidad de medida
	SupplierID     string // proveedor preferido (opcional)
	LocationID     string // ubicación principal (opcional)

	UnitCost     decimal.Decimal // costo de la última compra
	AverageCost  decimal.Decimal // costo promedio ponderado (calculado desde el ledger)
	SellingPrice decimal.Decimal

	QuantityOnHand    decimal.Decimal
	QuantityAllocated decimal.Decimal
	QuantityAvailable decimal.Decimal
	QuantityOnOrder   decimal.Decimal

	ReorderLevel    decimal.Decimal
	ReorderQuantity decimal.Decimal
	MaxStockLevel   *decimal.Decimal // nil = sin límite de sobre-stock

	Status         string // derivado de cantidades; ver StatusOverride
	StatusOverride string // "", on_order o discontinued; tiene precedencia sobre el derivado

	TrackBySerial bool
	TrackByBatch  bool
	ExpiryDate    *time.Time // vencimiento del lote más próximo (solo ítems con lote/serie)

	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
