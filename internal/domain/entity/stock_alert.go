package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos y severidades de alerta de stock.
const (
	AlertTypeLowStock   = "low_stock"
	AlertTypeOutOfStock = "out_of_stock"
	AlertTypeOverstock  = "overstock"
	AlertTypeExpiring   = "expiring"

	AlertSeverityInfo     = "info"
	AlertSeverityWarning  = "warning"
	AlertSeverityCritical = "critical"
)

// InventoryStockAlert es una señal derivada y re-derivable del estado del
// ítem: no es una fila del ledger. El monitor la crea cuando detecta la
// condición; nunca la cierra automáticamente — el reconocimiento y la
// resolución son transiciones explícitas de una sola vía.
type InventoryStockAlert struct {
	ID             string
	OrganizationID string
	ItemID         string
	AlertType      string
	Severity       string
	Message        string

	// Snapshot de cantidades al momento de levantar la alerta.
	QuantityOnHand decimal.Decimal
	ReorderLevel   decimal.Decimal

	IsAcknowledged bool
	AcknowledgedBy string
	AcknowledgedAt *time.Time

	IsResolved      bool
	ResolvedBy      string
	ResolvedAt      *time.Time
	ResolutionNotes string

	CreatedAt time.Time
}
