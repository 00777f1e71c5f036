package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción del ledger de inventario.
const (
	TxTypeReceipt      = "receipt"       // entrada por compra (positivo)
	TxTypeIssue        = "issue"         // salida por consumo (negativo)
	TxTypeAdjustment   = "adjustment"    // ajuste con delta firmado explícito
	TxTypeTransfer     = "transfer"      // traslado entre ubicaciones (dos filas enlazadas)
	TxTypeReturn       = "return"        // devolución de material emitido (positivo)
	TxTypeWriteOff     = "write_off"     // baja por daño/pérdida (negativo)
	TxTypeInitialStock = "initial_stock" // carga inicial (positivo)
)

// InventoryTransaction es una fila inmutable del ledger: única fuente de
// verdad de todo cambio de cantidad. Se crea una vez y nunca se actualiza
// ni se elimina; las correcciones se hacen con filas compensatorias.
// El orden de creación define la historia canónica de cantidades por ítem.
type InventoryTransaction struct {
	ID             string
	OrganizationID string
	ItemID         string
	Type           string
	Quantity       decimal.Decimal // delta firmado aplicado a QuantityOnHand
	UnitCost       decimal.Decimal
	TotalCost      decimal.Decimal
	BalanceAfter   decimal.Decimal // snapshot de OnHand después de aplicar esta fila

	// Enlaces opcionales al documento que originó el movimiento.
	PurchaseOrderID string
	AllocationID    string
	JobID           string
	BidID           string
	FromLocationID  string
	ToLocationID    string
	TransferID      string // agrupa las dos filas de un traslado

	Reference   string
	Notes       string
	PerformedBy string
	Date        time.Time
	CreatedAt   time.Time
}

// IsValidTxType indica si el tipo de transacción es conocido.
func IsValidTxType(t string) bool {
	switch t {
	case TxTypeReceipt, TxTypeIssue, TxTypeAdjustment, TxTypeTransfer,
		TxTypeReturn, TxTypeWriteOff, TxTypeInitialStock:
		return true
	}
	return false
}
