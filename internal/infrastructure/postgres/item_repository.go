package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
	"github.com/jdvalencia/fieldops-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de ítems. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `
	id, organization_id, code, name, description, category_id, unit_id,
	supplier_id, location_id, unit_cost, average_cost, selling_price,
	quantity_on_hand, quantity_allocated, quantity_available, quantity_on_order,
	reorder_level, reorder_quantity, max_stock_level, status, status_override,
	track_by_serial, track_by_batch, expiry_date, is_deleted, created_at, updated_at`

// Create inserta el ítem. El código es único por organización (constraint en BD).
func (r *ItemRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.OrganizationID, item.Code, item.Name, item.Description,
		item.CategoryID, item.UnitID, item.SupplierID, item.LocationID,
		item.UnitCost, item.AverageCost, item.SellingPrice,
		item.QuantityOnHand, item.QuantityAllocated, item.QuantityAvailable, item.QuantityOnOrder,
		item.ReorderLevel, item.ReorderQuantity, item.MaxStockLevel,
		item.Status, item.StatusOverride, item.TrackBySerial, item.TrackByBatch,
		item.ExpiryDate, item.IsDeleted, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", mapInsertErr(err))
	}
	return nil
}

// GetByID obtiene el ítem por id. Devuelve nil si no existe.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get item")
}

// GetByOrgAndCode busca por código dentro de la organización (ítems no eliminados).
func (r *ItemRepo) GetByOrgAndCode(ctx context.Context, orgID, code string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + `
		FROM inventory_items
		WHERE organization_id = $1 AND code = $2 AND NOT is_deleted`
	return r.scanOne(r.q.QueryRow(ctx, query, orgID, code), "get item by code")
}

// GetForUpdate obtiene el ítem bloqueando la fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get item for update")
}

// Update escribe solo los campos no-cuantitativos del ítem.
func (r *ItemRepo) Update(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items SET
			name = $2, description = $3, category_id = $4, unit_id = $5,
			supplier_id = $6, location_id = $7, unit_cost = $8, selling_price = $9,
			reorder_level = $10, reorder_quantity = $11, max_stock_level = $12,
			status = $13, status_override = $14, expiry_date = $15, updated_at = $16
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Description, item.CategoryID, item.UnitID,
		item.SupplierID, item.LocationID, item.UnitCost, item.SellingPrice,
		item.ReorderLevel, item.ReorderQuantity, item.MaxStockLevel,
		item.Status, item.StatusOverride, item.ExpiryDate, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// UpdateProjection escribe la proyección de cantidades, el costo promedio y
// el estado derivado. Solo debe llamarse dentro de una tx que obtuvo el ítem
// con GetForUpdate.
func (r *ItemRepo) UpdateProjection(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items SET
			quantity_on_hand = $2, quantity_allocated = $3,
			quantity_available = $4, quantity_on_order = $5,
			average_cost = $6, unit_cost = $7, status = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.QuantityOnHand, item.QuantityAllocated,
		item.QuantityAvailable, item.QuantityOnOrder,
		item.AverageCost, item.UnitCost, item.Status, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item projection: %w", err)
	}
	return nil
}

// SoftDelete marca el ítem como eliminado; el historial del ledger queda intacto.
func (r *ItemRepo) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE inventory_items SET is_deleted = TRUE, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("soft delete item: %w", err)
	}
	return nil
}

// ListByOrganization pagina los ítems no eliminados de la organización.
func (r *ItemRepo) ListByOrganization(ctx context.Context, orgID string, limit, offset int) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + `
		FROM inventory_items
		WHERE organization_id = $1 AND NOT is_deleted
		ORDER BY code
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// ListActive pagina ítems no eliminados, opcionalmente filtrados por ubicación.
func (r *ItemRepo) ListActive(ctx context.Context, orgID, locationID string, limit, offset int) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + `
		FROM inventory_items
		WHERE organization_id = $1 AND NOT is_deleted
		  AND ($2 = '' OR location_id = $2)
		ORDER BY code
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, orgID, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list active items: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

func (r *ItemRepo) scanOne(row pgx.Row, op string) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	err := row.Scan(
		&it.ID, &it.OrganizationID, &it.Code, &it.Name, &it.Description,
		&it.CategoryID, &it.UnitID, &it.SupplierID, &it.LocationID,
		&it.UnitCost, &it.AverageCost, &it.SellingPrice,
		&it.QuantityOnHand, &it.QuantityAllocated, &it.QuantityAvailable, &it.QuantityOnOrder,
		&it.ReorderLevel, &it.ReorderQuantity, &it.MaxStockLevel,
		&it.Status, &it.StatusOverride, &it.TrackBySerial, &it.TrackByBatch,
		&it.ExpiryDate, &it.IsDeleted, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &it, nil
}

func (r *ItemRepo) scanMany(rows pgx.Rows) ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	for rows.Next() {
		var it entity.InventoryItem
		err := rows.Scan(
			&it.ID, &it.OrganizationID, &it.Code, &it.Name, &it.Description,
			&it.CategoryID, &it.UnitID, &it.SupplierID, &it.LocationID,
			&it.UnitCost, &it.AverageCost, &it.SellingPrice,
			&it.QuantityOnHand, &it.QuantityAllocated, &it.QuantityAvailable, &it.QuantityOnOrder,
			&it.ReorderLevel, &it.ReorderQuantity, &it.MaxStockLevel,
			&it.Status, &it.StatusOverride, &it.TrackBySerial, &it.TrackByBatch,
			&it.ExpiryDate, &it.IsDeleted, &it.CreatedAt, &it.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}
