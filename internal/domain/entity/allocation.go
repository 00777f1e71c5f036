package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una reserva de inventario. La máquina avanza siempre hacia
// adelante: allocated → issued → {partially_used | fully_used} → returned;
// cancelled solo es alcanzable desde allocated (nunca después de emitir).
const (
	AllocationStatusAllocated     = "allocated"
	AllocationStatusIssued        = "issued"
	AllocationStatusPartiallyUsed = "partially_used"
	AllocationStatusFullyUsed     = "fully_used"
	AllocationStatusReturned      = "returned"
	AllocationStatusCancelled     = "cancelled"
)

// InventoryAllocation reserva cantidad de un ítem para un trabajo (Job) o
// una cotización (Bid): exactamente uno de los dos debe estar presente.
// Invariante: QuantityUsed + QuantityReturned <= QuantityAllocated.
type InventoryAllocation struct {
	ID             string
	OrganizationID string
	ItemID         string
	JobID          string // exactamente uno de JobID/BidID
	BidID          string

	QuantityAllocated decimal.Decimal
	QuantityUsed      decimal.Decimal
	QuantityReturned  decimal.Decimal

	Status          string
	AllocationDate  time.Time
	ExpectedUseDate *time.Time
	ActualUseDate   *time.Time

	AllocatedBy string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsTerminal indica si la reserva ya no admite transiciones.
func (a *InventoryAllocation) IsTerminal() bool {
	switch a.Status {
	case AllocationStatusFullyUsed, AllocationStatusReturned, AllocationStatusCancelled:
		return true
	}
	return false
}

// OutstandingUsed devuelve la cantidad emitida aún no devuelta.
func (a *InventoryAllocation) OutstandingUsed() decimal.Decimal {
	return a.QuantityUsed.Sub(a.QuantityReturned)
}
