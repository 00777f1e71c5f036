package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StartCountRequest body para POST /api/counts.
type StartCountRequest struct {
	CountType  string `json:"count_type"` // full, cycle, spot
	LocationID string `json:"location_id,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// RecordCountRequest body para POST /api/counts/:id/items/:itemId.
type RecordCountRequest struct {
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
	Notes           string          `json:"notes,omitempty"`
}

// CountResponse representación HTTP de una sesión de conteo.
type CountResponse struct {
	ID          string              `json:"id"`
	CountNumber string              `json:"count_number"`
	CountType   string              `json:"count_type"`
	Status      string              `json:"status"`
	LocationID  string              `json:"location_id,omitempty"`
	StartedBy   string              `json:"started_by,omitempty"`
	CompletedBy string              `json:"completed_by,omitempty"`
	StartedAt   *time.Time          `json:"started_at,omitempty"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
	Notes       string              `json:"notes,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	Items       []CountItemResponse `json:"items,omitempty"`
}

// CountItemResponse línea del conteo en respuestas.
type CountItemResponse struct {
	ID              string           `json:"id"`
	ItemID          string           `json:"item_id"`
	SystemQuantity  decimal.Decimal  `json:"system_quantity"`
	CountedQuantity *decimal.Decimal `json:"counted_quantity,omitempty"`
	Variance        decimal.Decimal  `json:"variance"`
	VarianceCost    decimal.Decimal  `json:"variance_cost"`
	UnitCost        decimal.Decimal  `json:"unit_cost"`
	CountedBy       string           `json:"counted_by,omitempty"`
	CountedAt       *time.Time       `json:"counted_at,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

// CompleteCountResponse resumen al completar un conteo.
type CompleteCountResponse struct {
	CountID            string `json:"count_id"`
	AdjustmentsApplied int    `json:"adjustments_applied"`
	LinesSkipped       int    `json:"lines_skipped"` // sin contar o sin varianza
}
