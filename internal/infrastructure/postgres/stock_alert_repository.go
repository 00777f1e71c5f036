package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
	"github.com/jdvalencia/fieldops-api/internal/domain/repository"
)

var _ repository.StockAlertRepository = (*StockAlertRepo)(nil)

// StockAlertRepo implementación de StockAlertRepository sobre PostgreSQL.
type StockAlertRepo struct {
	q Querier
}

// NewStockAlertRepository construye el adaptador de alertas. Pasar pool o tx (Querier).
func NewStockAlertRepository(q Querier) *StockAlertRepo {
	return &StockAlertRepo{q: q}
}

const alertColumns = `
	id, organization_id, item_id, alert_type, severity, message,
	quantity_on_hand, reorder_level, is_acknowledged, acknowledged_by,
	acknowledged_at, is_resolved, resolved_by, resolved_at,
	resolution_notes, created_at`

// Create inserta la alerta.
func (r *StockAlertRepo) Create(ctx context.Context, a *entity.InventoryStockAlert) error {
	query := `
		INSERT INTO stock_alerts (` + alertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.OrganizationID, a.ItemID, a.AlertType, a.Severity, a.Message,
		a.QuantityOnHand, a.ReorderLevel, a.IsAcknowledged, a.AcknowledgedBy,
		a.AcknowledgedAt, a.IsResolved, a.ResolvedBy, a.ResolvedAt,
		a.ResolutionNotes, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock alert: %w", err)
	}
	return nil
}

// GetByID obtiene la alerta. Devuelve nil si no existe.
func (r *StockAlertRepo) GetByID(ctx context.Context, id string) (*entity.InventoryStockAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM stock_alerts WHERE id = $1`
	var a entity.InventoryStockAlert
	err := scanAlertFields(r.q.QueryRow(ctx, query, id), &a)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock alert: %w", err)
	}
	return &a, nil
}

// Update escribe el reconocimiento y la resolución de la alerta.
func (r *StockAlertRepo) Update(ctx context.Context, a *entity.InventoryStockAlert) error {
	query := `
		UPDATE stock_alerts SET
			is_acknowledged = $2, acknowledged_by = $3, acknowledged_at = $4,
			is_resolved = $5, resolved_by = $6, resolved_at = $7, resolution_notes = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.IsAcknowledged, a.AcknowledgedBy, a.AcknowledgedAt,
		a.IsResolved, a.ResolvedBy, a.ResolvedAt, a.ResolutionNotes,
	)
	if err != nil {
		return fmt.Errorf("update stock alert: %w", err)
	}
	return nil
}

// ExistsOpen indica si el ítem ya tiene una alerta abierta del tipo dado.
func (r *StockAlertRepo) ExistsOpen(ctx context.Context, itemID, alertType string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM stock_alerts
			WHERE item_id = $1 AND alert_type = $2 AND NOT is_resolved
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, itemID, alertType).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists open alert: %w", err)
	}
	return exists, nil
}

// ListOpenByOrganization pagina las alertas no resueltas de la organización.
func (r *StockAlertRepo) ListOpenByOrganization(ctx context.Context, orgID string, limit, offset int) ([]*entity.InventoryStockAlert, error) {
	query := `SELECT ` + alertColumns + `
		FROM stock_alerts
		WHERE organization_id = $1 AND NOT is_resolved
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list open alerts: %w", err)
	}
	defer rows.Close()

	var out []*entity.InventoryStockAlert
	for rows.Next() {
		var a entity.InventoryStockAlert
		if err := scanAlertFields(rows, &a); err != nil {
			return nil, fmt.Errorf("scan stock alert: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func scanAlertFields(row pgx.Row, a *entity.InventoryStockAlert) error {
	return row.Scan(
		&a.ID, &a.OrganizationID, &a.ItemID, &a.AlertType, &a.Severity, &a.Message,
		&a.QuantityOnHand, &a.ReorderLevel, &a.IsAcknowledged, &a.AcknowledgedBy,
		&a.AcknowledgedAt, &a.IsResolved, &a.ResolvedBy, &a.ResolvedAt,
		&a.ResolutionNotes, &a.CreatedAt,
	)
}
