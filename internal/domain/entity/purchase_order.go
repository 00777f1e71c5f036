package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra. El estado solo avanza:
// draft → pending_approval → approved → sent → {partially_received → received} → closed;
// cancelled es alcanzable desde cualquier estado previo a received.
const (
	POStatusDraft             = "draft"
	POStatusPendingApproval   = "pending_approval"
	POStatusApproved          = "approved"
	POStatusSent              = "sent"
	POStatusPartiallyReceived = "partially_received"
	POStatusReceived          = "received"
	POStatusCancelled         = "cancelled"
	POStatusClosed            = "closed"
)

// InventoryPurchaseOrder es la cabecera de una orden de compra a un proveedor.
type InventoryPurchaseOrder struct {
	ID             string
	OrganizationID string
	OrderNumber    string // consecutivo único por organización
	SupplierID     string
	Status         string

	Subtotal     decimal.Decimal
	TaxAmount    decimal.Decimal
	ShippingCost decimal.Decimal
	TotalAmount  decimal.Decimal
	AmountPaid   decimal.Decimal

	OrderDate    time.Time
	ExpectedDate *time.Time
	ReceivedDate *time.Time

	Notes      string
	CreatedBy  string
	ApprovedBy string
	ApprovedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Items []InventoryPurchaseOrderItem
}

// InventoryPurchaseOrderItem es una línea de la orden.
// Invariante: QuantityReceived <= QuantityOrdered.
type InventoryPurchaseOrderItem struct {
	ID               string
	PurchaseOrderID  string
	ItemID           string
	QuantityOrdered  decimal.Decimal
	QuantityReceived decimal.Decimal
	UnitCost         decimal.Decimal
	LineTotal        decimal.Decimal
	Notes            string
}

// Remaining devuelve la cantidad pendiente de recibir de la línea.
func (li *InventoryPurchaseOrderItem) Remaining() decimal.Decimal {
	return li.QuantityOrdered.Sub(li.QuantityReceived)
}

// FullyReceived indica si la línea se recibió por completo.
func (li *InventoryPurchaseOrderItem) FullyReceived() bool {
	return li.QuantityReceived.GreaterThanOrEqual(li.QuantityOrdered)
}

// IsTerminal indica si la orden ya no admite transiciones.
func (po *InventoryPurchaseOrder) IsTerminal() bool {
	return po.Status == POStatusClosed || po.Status == POStatusCancelled
}

// Receivable indica si la orden puede recibir mercancía: solo después de
// enviada al proveedor. Una orden aprobada pero no enviada no recibe.
func (po *InventoryPurchaseOrder) Receivable() bool {
	switch po.Status {
	case POStatusSent, POStatusPartiallyReceived:
		return true
	}
	return false
}
