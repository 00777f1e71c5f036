package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseOrderRequest body para POST /api/purchase-orders (inicia en draft).
type CreatePurchaseOrderRequest struct {
	SupplierID   string                     `json:"supplier_id"`
	ExpectedDate *time.Time                 `json:"expected_date,omitempty"`
	TaxAmount    decimal.Decimal            `json:"tax_amount"`
	ShippingCost decimal.Decimal            `json:"shipping_cost"`
	Notes        string                     `json:"notes,omitempty"`
	Lines        []PurchaseOrderLineRequest `json:"lines"`
}

// PurchaseOrderLineRequest línea de la orden al crearla.
type PurchaseOrderLineRequest struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Notes    string          `json:"notes,omitempty"`
}

// ReceivePurchaseOrderRequest body para POST /api/purchase-orders/:id/receive.
// Cada entrada es el delta recibido EN ESTA llamada (recepción parcial segura:
// la llamada solo suma lo efectivamente recibido ahora).
type ReceivePurchaseOrderRequest struct {
	Receipts []LineReceipt `json:"receipts"`
}

// LineReceipt delta recibido para una línea.
type LineReceipt struct {
	LineID   string          `json:"line_id"`
	Quantity decimal.Decimal `json:"quantity"` // >= 0; 0 = sin recepción en esta llamada
}

// PurchaseOrderResponse representación HTTP de una orden con sus líneas.
type PurchaseOrderResponse struct {
	ID           string                      `json:"id"`
	OrderNumber  string                      `json:"order_number"`
	SupplierID   string                      `json:"supplier_id"`
	Status       string                      `json:"status"`
	Subtotal     decimal.Decimal             `json:"subtotal"`
	TaxAmount    decimal.Decimal             `json:"tax_amount"`
	ShippingCost decimal.Decimal             `json:"shipping_cost"`
	TotalAmount  decimal.Decimal             `json:"total_amount"`
	AmountPaid   decimal.Decimal             `json:"amount_paid"`
	OrderDate    time.Time                   `json:"order_date"`
	ExpectedDate *time.Time                  `json:"expected_date,omitempty"`
	ReceivedDate *time.Time                  `json:"received_date,omitempty"`
	Notes        string                      `json:"notes,omitempty"`
	CreatedBy    string                      `json:"created_by,omitempty"`
	ApprovedBy   string                      `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time                  `json:"approved_at,omitempty"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
	Lines        []PurchaseOrderLineResponse `json:"lines"`
}

// PurchaseOrderLineResponse línea de la orden en respuestas.
type PurchaseOrderLineResponse struct {
	ID               string          `json:"id"`
	ItemID           string          `json:"item_id"`
	QuantityOrdered  decimal.Decimal `json:"quantity_ordered"`
	QuantityReceived decimal.Decimal `json:"quantity_received"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	LineTotal        decimal.Decimal `json:"line_total"`
	Notes            string          `json:"notes,omitempty"`
}
