package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ResolveAlertRequest body para POST /api/alerts/:id/resolve.
type ResolveAlertRequest struct {
	Notes string `json:"notes,omitempty"`
}

// AlertResponse representación HTTP de una alerta de stock.
type AlertResponse struct {
	ID              string          `json:"id"`
	ItemID          string          `json:"item_id"`
	AlertType       string          `json:"alert_type"`
	Severity        string          `json:"severity"`
	Message         string          `json:"message"`
	QuantityOnHand  decimal.Decimal `json:"quantity_on_hand"`
	ReorderLevel    decimal.Decimal `json:"reorder_level"`
	IsAcknowledged  bool            `json:"is_acknowledged"`
	AcknowledgedBy  string          `json:"acknowledged_by,omitempty"`
	AcknowledgedAt  *time.Time      `json:"acknowledged_at,omitempty"`
	IsResolved      bool            `json:"is_resolved"`
	ResolvedBy      string          `json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time      `json:"resolved_at,omitempty"`
	ResolutionNotes string          `json:"resolution_notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// AlertCheckResponse resumen de una corrida del monitor de alertas.
type AlertCheckResponse struct {
	ItemsEvaluated int `json:"items_evaluated"`
	AlertsRaised   int `json:"alerts_raised"`
}
