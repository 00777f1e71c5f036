package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest body para POST /api/items. Las cantidades inician en
// cero; InitialQuantity (opcional) se registra como transacción
// initial_stock en el ledger, nunca como escritura directa.
type CreateItemRequest struct {
	Code            string           `json:"code"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	CategoryID      string           `json:"category_id,omitempty"`
	UnitID          string           `json:"unit_id,omitempty"`
	SupplierID      string           `json:"supplier_id,omitempty"`
	LocationID      string           `json:"location_id,omitempty"`
	UnitCost        decimal.Decimal  `json:"unit_cost"`
	SellingPrice    decimal.Decimal  `json:"selling_price"`
	ReorderLevel    decimal.Decimal  `json:"reorder_level"`
	ReorderQuantity decimal.Decimal  `json:"reorder_quantity"`
	MaxStockLevel   *decimal.Decimal `json:"max_stock_level,omitempty"`
	TrackBySerial   bool             `json:"track_by_serial"`
	TrackByBatch    bool             `json:"track_by_batch"`
	ExpiryDate      *time.Time       `json:"expiry_date,omitempty"`
	InitialQuantity *decimal.Decimal `json:"initial_quantity,omitempty"`
}

// UpdateItemRequest body para PUT /api/items/:id. Solo campos
// no-cuantitativos: cualquier intento de escribir cantidades directamente
// se rechaza con operación no permitida (las cantidades solo cambian vía ledger).
type UpdateItemRequest struct {
	Name            *string          `json:"name,omitempty"`
	Description     *string          `json:"description,omitempty"`
	CategoryID      *string          `json:"category_id,omitempty"`
	UnitID          *string          `json:"unit_id,omitempty"`
	SupplierID      *string          `json:"supplier_id,omitempty"`
	LocationID      *string          `json:"location_id,omitempty"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	SellingPrice    *decimal.Decimal `json:"selling_price,omitempty"`
	ReorderLevel    *decimal.Decimal `json:"reorder_level,omitempty"`
	ReorderQuantity *decimal.Decimal `json:"reorder_quantity,omitempty"`
	MaxStockLevel   *decimal.Decimal `json:"max_stock_level,omitempty"`
	ExpiryDate      *time.Time       `json:"expiry_date,omitempty"`
	StatusOverride  *string          `json:"status_override,omitempty"` // "", on_order, discontinued

	// Campos de proyección: si llegan, la petición se rechaza (InvalidOperation).
	QuantityOnHand    *decimal.Decimal `json:"quantity_on_hand,omitempty"`
	QuantityAllocated *decimal.Decimal `json:"quantity_allocated,omitempty"`
	QuantityAvailable *decimal.Decimal `json:"quantity_available,omitempty"`
	QuantityOnOrder   *decimal.Decimal `json:"quantity_on_order,omitempty"`
}

// HasQuantityFields indica si la petición intenta escribir la proyección de cantidades.
func (r *UpdateItemRequest) HasQuantityFields() bool {
	return r.QuantityOnHand != nil || r.QuantityAllocated != nil ||
		r.QuantityAvailable != nil || r.QuantityOnOrder != nil
}

// ItemResponse representación HTTP de un ítem.
type ItemResponse struct {
	ID                string           `json:"id"`
	Code              string           `json:"code"`
	Name              string           `json:"name"`
	Description       string           `json:"description,omitempty"`
	CategoryID        string           `json:"category_id,omitempty"`
	UnitID            string           `json:"unit_id,omitempty"`
	SupplierID        string           `json:"supplier_id,omitempty"`
	LocationID        string           `json:"location_id,omitempty"`
	UnitCost          decimal.Decimal  `json:"unit_cost"`
	AverageCost       decimal.Decimal  `json:"average_cost"`
	SellingPrice      decimal.Decimal  `json:"selling_price"`
	QuantityOnHand    decimal.Decimal  `json:"quantity_on_hand"`
	QuantityAllocated decimal.Decimal  `json:"quantity_allocated"`
	QuantityAvailable decimal.Decimal  `json:"quantity_available"`
	QuantityOnOrder   decimal.Decimal  `json:"quantity_on_order"`
	ReorderLevel      decimal.Decimal  `json:"reorder_level"`
	ReorderQuantity   decimal.Decimal  `json:"reorder_quantity"`
	MaxStockLevel     *decimal.Decimal `json:"max_stock_level,omitempty"`
	Status            string           `json:"status"`
	TrackBySerial     bool             `json:"track_by_serial"`
	TrackByBatch      bool             `json:"track_by_batch"`
	ExpiryDate        *time.Time       `json:"expiry_date,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ReplenishmentSuggestion es un SKU en o bajo su punto de reorden con la
// cantidad sugerida de pedido (insumo para crear órdenes de compra).
type ReplenishmentSuggestion struct {
	ItemID            string          `json:"item_id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	SupplierID        string          `json:"supplier_id,omitempty"`
	QuantityOnHand    decimal.Decimal `json:"quantity_on_hand"`
	QuantityOnOrder   decimal.Decimal `json:"quantity_on_order"`
	ReorderLevel      decimal.Decimal `json:"reorder_level"`
	SuggestedOrderQty decimal.Decimal `json:"suggested_order_qty"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	EstimatedCost     decimal.Decimal `json:"estimated_cost"`
	Priority          int             `json:"priority"` // 1 = más urgente
}
