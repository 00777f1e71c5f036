package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
	"github.com/jdvalencia/fieldops-api/internal/domain/repository"
)

var _ repository.CountRepository = (*CountRepo)(nil)

// CountRepo implementación de CountRepository sobre PostgreSQL.
type CountRepo struct {
	q Querier
}

// NewCountRepository construye el adaptador de conteos. Pasar pool o tx (Querier).
func NewCountRepository(q Querier) *CountRepo {
	return &CountRepo{q: q}
}

const countColumns = `
	id, organization_id, count_number, count_type, status, location_id,
	started_by, completed_by, started_at, completed_at, notes, created_at, updated_at`

const countItemColumns = `
	id, count_id, item_id, system_quantity, counted_quantity, variance,
	variance_cost, unit_cost, counted_by, counted_at, notes`

// Create inserta la cabecera del conteo.
func (r *CountRepo) Create(ctx context.Context, c *entity.InventoryCount) error {
	query := `
		INSERT INTO inventory_counts (` + countColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.OrganizationID, c.CountNumber, c.CountType, c.Status, c.LocationID,
		c.StartedBy, c.CompletedBy, c.StartedAt, c.CompletedAt,
		c.Notes, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert count: %w", mapInsertErr(err))
	}
	return nil
}

// GetByID obtiene la cabecera del conteo, sin líneas. Devuelve nil si no existe.
func (r *CountRepo) GetByID(ctx context.Context, id string) (*entity.InventoryCount, error) {
	query := `SELECT ` + countColumns + ` FROM inventory_counts WHERE id = $1`
	return scanCount(r.q.QueryRow(ctx, query, id), "get count")
}

// GetForUpdate bloquea la cabecera del conteo (SELECT FOR UPDATE), sin líneas.
func (r *CountRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryCount, error) {
	query := `SELECT ` + countColumns + ` FROM inventory_counts WHERE id = $1 FOR UPDATE`
	return scanCount(r.q.QueryRow(ctx, query, id), "get count for update")
}

// UpdateHeader escribe estado y cierre de la cabecera.
func (r *CountRepo) UpdateHeader(ctx context.Context, c *entity.InventoryCount) error {
	query := `
		UPDATE inventory_counts SET
			status = $2, completed_by = $3, completed_at = $4, notes = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Status, c.CompletedBy, c.CompletedAt, c.Notes, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update count: %w", err)
	}
	return nil
}

// CreateItems inserta el snapshot de líneas en lote.
func (r *CountRepo) CreateItems(ctx context.Context, items []entity.InventoryCountItem) error {
	query := `
		INSERT INTO inventory_count_items (` + countItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for i := range items {
		l := &items[i]
		_, err := r.q.Exec(ctx, query,
			l.ID, l.CountID, l.ItemID, l.SystemQuantity, l.CountedQuantity,
			l.Variance, l.VarianceCost, l.UnitCost, l.CountedBy, l.CountedAt, l.Notes,
		)
		if err != nil {
			return fmt.Errorf("insert count line: %w", err)
		}
	}
	return nil
}

// GetItem obtiene la línea del conteo para un ítem. Devuelve nil si no existe.
func (r *CountRepo) GetItem(ctx context.Context, countID, itemID string) (*entity.InventoryCountItem, error) {
	query := `SELECT ` + countItemColumns + `
		FROM inventory_count_items
		WHERE count_id = $1 AND item_id = $2`
	var l entity.InventoryCountItem
	err := scanCountItemFields(r.q.QueryRow(ctx, query, countID, itemID), &l)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get count line: %w", err)
	}
	return &l, nil
}

// UpdateItem escribe lo contado y la varianza de la línea.
func (r *CountRepo) UpdateItem(ctx context.Context, l *entity.InventoryCountItem) error {
	query := `
		UPDATE inventory_count_items SET
			counted_quantity = $2, variance = $3, variance_cost = $4,
			counted_by = $5, counted_at = $6, notes = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.CountedQuantity, l.Variance, l.VarianceCost,
		l.CountedBy, l.CountedAt, l.Notes,
	)
	if err != nil {
		return fmt.Errorf("update count line: %w", err)
	}
	return nil
}

// ListItems devuelve todas las líneas del conteo.
func (r *CountRepo) ListItems(ctx context.Context, countID string) ([]entity.InventoryCountItem, error) {
	query := `SELECT ` + countItemColumns + `
		FROM inventory_count_items
		WHERE count_id = $1
		ORDER BY id`
	rows, err := r.q.Query(ctx, query, countID)
	if err != nil {
		return nil, fmt.Errorf("list count lines: %w", err)
	}
	defer rows.Close()

	var out []entity.InventoryCountItem
	for rows.Next() {
		var l entity.InventoryCountItem
		if err := scanCountItemFields(rows, &l); err != nil {
			return nil, fmt.Errorf("scan count line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListByOrganization pagina los conteos de la organización, sin líneas.
func (r *CountRepo) ListByOrganization(ctx context.Context, orgID string, limit, offset int) ([]*entity.InventoryCount, error) {
	query := `SELECT ` + countColumns + `
		FROM inventory_counts
		WHERE organization_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list counts: %w", err)
	}
	defer rows.Close()

	var out []*entity.InventoryCount
	for rows.Next() {
		var c entity.InventoryCount
		if err := scanCountFields(rows, &c); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func scanCount(row pgx.Row, op string) (*entity.InventoryCount, error) {
	var c entity.InventoryCount
	if err := scanCountFields(row, &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

func scanCountFields(row pgx.Row, c *entity.InventoryCount) error {
	return row.Scan(
		&c.ID, &c.OrganizationID, &c.CountNumber, &c.CountType, &c.Status, &c.LocationID,
		&c.StartedBy, &c.CompletedBy, &c.StartedAt, &c.CompletedAt,
		&c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
}

func scanCountItemFields(row pgx.Row, l *entity.InventoryCountItem) error {
	return row.Scan(
		&l.ID, &l.CountID, &l.ItemID, &l.SystemQuantity, &l.CountedQuantity,
		&l.Variance, &l.VarianceCost, &l.UnitCost, &l.CountedBy, &l.CountedAt, &l.Notes,
	)
}
