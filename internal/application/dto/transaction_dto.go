package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppendTransactionRequest body para POST /api/inventory/transactions.
// Quantity es el delta firmado según la convención del ledger: entradas
// positivas (receipt/return/initial_stock), salidas negativas
// (issue/write_off), adjustment con signo explícito.
type AppendTransactionRequest struct {
	ItemID          string           `json:"item_id"`
	Type            string           `json:"type"`
	Quantity        decimal.Decimal  `json:"quantity"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	PurchaseOrderID string           `json:"purchase_order_id,omitempty"`
	JobID           string           `json:"job_id,omitempty"`
	BidID           string           `json:"bid_id,omitempty"`
	Reference       string           `json:"reference,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

// TransferRequest body para POST /api/inventory/transfers: un traslado es
// un solo evento lógico que toca dos ubicaciones (dos filas enlazadas,
// ambas o ninguna).
type TransferRequest struct {
	ItemID         string          `json:"item_id"`
	FromLocationID string          `json:"from_location_id"`
	ToLocationID   string          `json:"to_location_id"`
	Quantity       decimal.Decimal `json:"quantity"` // positiva; el signo por fila lo pone el ledger
	Reference      string          `json:"reference,omitempty"`
	Notes          string          `json:"notes,omitempty"`
}

// TransactionResponse representación HTTP de una fila del ledger.
type TransactionResponse struct {
	ID              string          `json:"id"`
	ItemID          string          `json:"item_id"`
	Type            string          `json:"type"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	PurchaseOrderID string          `json:"purchase_order_id,omitempty"`
	AllocationID    string          `json:"allocation_id,omitempty"`
	JobID           string          `json:"job_id,omitempty"`
	BidID           string          `json:"bid_id,omitempty"`
	FromLocationID  string          `json:"from_location_id,omitempty"`
	ToLocationID    string          `json:"to_location_id,omitempty"`
	TransferID      string          `json:"transfer_id,omitempty"`
	Reference       string          `json:"reference,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	PerformedBy     string          `json:"performed_by,omitempty"`
	Date            time.Time       `json:"date"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ReconciliationReport resultado de reproducir el ledger de un ítem desde
// cero y compararlo con la proyección cacheada (diagnóstico del invariante).
type ReconciliationReport struct {
	ItemID            string          `json:"item_id"`
	RowCount          int             `json:"row_count"`
	LedgerQuantity    decimal.Decimal `json:"ledger_quantity"`     // suma de deltas en orden de creación
	LastBalanceAfter  decimal.Decimal `json:"last_balance_after"`  // snapshot de la última fila
	ProjectedQuantity decimal.Decimal `json:"projected_quantity"`  // QuantityOnHand cacheado en el ítem
	InSync            bool            `json:"in_sync"`
}
