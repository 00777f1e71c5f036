package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAllocationRequest body para POST /api/allocations.
// Exactamente uno de JobID/BidID debe estar presente.
type CreateAllocationRequest struct {
	ItemID          string          `json:"item_id"`
	JobID           string          `json:"job_id,omitempty"`
	BidID           string          `json:"bid_id,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	ExpectedUseDate *time.Time      `json:"expected_use_date,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// ReturnAllocationRequest body para POST /api/allocations/:id/return.
type ReturnAllocationRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Notes    string          `json:"notes,omitempty"`
}

// AllocationResponse representación HTTP de una reserva.
type AllocationResponse struct {
	ID                string          `json:"id"`
	ItemID            string          `json:"item_id"`
	JobID             string          `json:"job_id,omitempty"`
	BidID             string          `json:"bid_id,omitempty"`
	QuantityAllocated decimal.Decimal `json:"quantity_allocated"`
	QuantityUsed      decimal.Decimal `json:"quantity_used"`
	QuantityReturned  decimal.Decimal `json:"quantity_returned"`
	Status            string          `json:"status"`
	AllocationDate    time.Time       `json:"allocation_date"`
	ExpectedUseDate   *time.Time      `json:"expected_use_date,omitempty"`
	ActualUseDate     *time.Time      `json:"actual_use_date,omitempty"`
	AllocatedBy       string          `json:"allocated_by,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
