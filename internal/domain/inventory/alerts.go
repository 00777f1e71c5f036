package inventory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
)

// AlertCandidate es una condición de alerta detectada para un ítem.
type AlertCandidate struct {
	AlertType string
	Severity  string
	Message   string
}

// EvaluateItem evalúa las condiciones de alerta de un ítem (función pura).
// Devuelve todas las condiciones vigentes; el monitor decide si ya existe
// una alerta abierta del mismo tipo antes de crear una nueva.
// expiryHorizon aplica solo a ítems con seguimiento por lote/serie.
func EvaluateItem(item *entity.InventoryItem, now time.Time, expiryHorizon time.Duration) []AlertCandidate {
	if item.IsDeleted || item.StatusOverride == entity.ItemStatusDiscontinued {
		return nil
	}

	var out []AlertCandidate

	switch {
	case item.QuantityOnHand.LessThanOrEqual(decimal.Zero):
		out = append(out, AlertCandidate{
			AlertType: entity.AlertTypeOutOfStock,
			Severity:  entity.AlertSeverityCritical,
			Message:   fmt.Sprintf("%s sin existencias", item.Code),
		})
	case item.QuantityOnHand.LessThanOrEqual(item.ReorderLevel):
		out = append(out, AlertCandidate{
			AlertType: entity.AlertTypeLowStock,
			Severity:  entity.AlertSeverityWarning,
			Message:   fmt.Sprintf("%s bajo el punto de reorden (%s <= %s)", item.Code, item.QuantityOnHand, item.ReorderLevel),
		})
	}

	if item.MaxStockLevel != nil && item.QuantityOnHand.GreaterThan(*item.MaxStockLevel) {
		out = append(out, AlertCandidate{
			AlertType: entity.AlertTypeOverstock,
			Severity:  entity.AlertSeverityInfo,
			Message:   fmt.Sprintf("%s sobre el máximo de stock (%s > %s)", item.Code, item.QuantityOnHand, *item.MaxStockLevel),
		})
	}

	if (item.TrackByBatch || item.TrackBySerial) && item.ExpiryDate != nil &&
		item.QuantityOnHand.GreaterThan(decimal.Zero) &&
		item.ExpiryDate.Before(now.Add(expiryHorizon)) {
		out = append(out, AlertCandidate{
			AlertType: entity.AlertTypeExpiring,
			Severity:  entity.AlertSeverityWarning,
			Message:   fmt.Sprintf("%s con lote próximo a vencer (%s)", item.Code, item.ExpiryDate.Format("2006-01-02")),
		})
	}

	return out
}
