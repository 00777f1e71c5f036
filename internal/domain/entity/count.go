package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos y estados de un conteo físico de inventario.
const (
	CountTypeFull  = "full"
	CountTypeCycle = "cycle"
	CountTypeSpot  = "spot"

	CountStatusInProgress = "in_progress"
	CountStatusCompleted  = "completed"
	CountStatusCancelled  = "cancelled"
)

// InventoryCount es una sesión de conteo físico: snapshot de cantidades de
// sistema al iniciar, registro de cantidades contadas y, al completar,
// ajustes vía ledger por cada varianza distinta de cero. Un conteo
// cancelado no genera ajustes.
type InventoryCount struct {
	ID             string
	OrganizationID string
	CountNumber    string
	CountType      string // full, cycle, spot
	Status         string
	LocationID     string // vacío = toda la organización

	StartedBy   string
	CompletedBy string
	StartedAt   *time.Time
	CompletedAt *time.Time

	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time

	Items []InventoryCountItem
}

// InventoryCountItem es una línea del conteo para un ítem.
// Variance = CountedQuantity - SystemQuantity; VarianceCost = Variance * UnitCost.
type InventoryCountItem struct {
	ID              string
	CountID         string
	ItemID          string
	SystemQuantity  decimal.Decimal  // snapshot al iniciar el conteo
	CountedQuantity *decimal.Decimal // nil hasta que se registre el conteo
	Variance        decimal.Decimal
	VarianceCost    decimal.Decimal
	UnitCost        decimal.Decimal
	CountedBy       string
	CountedAt       *time.Time
	Notes           string
}

// Counted indica si la línea ya tiene cantidad contada registrada.
func (ci *InventoryCountItem) Counted() bool {
	return ci.CountedQuantity != nil
}
