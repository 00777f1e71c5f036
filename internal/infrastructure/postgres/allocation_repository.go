package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
	"github.com/jdvalencia/fieldops-api/internal/domain/repository"
)

var _ repository.AllocationRepository = (*AllocationRepo)(nil)

// AllocationRepo implementación de AllocationRepository sobre PostgreSQL.
type AllocationRepo struct {
	q Querier
}

// NewAllocationRepository construye el adaptador de reservas. Pasar pool o tx (Querier).
func NewAllocationRepository(q Querier) *AllocationRepo {
	return &AllocationRepo{q: q}
}

const allocColumns = `
	id, organization_id, item_id, job_id, bid_id, quantity_allocated,
	quantity_used, quantity_returned, status, allocation_date,
	expected_use_date, actual_use_date, allocated_by, notes, created_at, updated_at`

// Create inserta la reserva.
func (r *AllocationRepo) Create(ctx context.Context, a *entity.InventoryAllocation) error {
	query := `
		INSERT INTO inventory_allocations (` + allocColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.OrganizationID, a.ItemID, a.JobID, a.BidID,
		a.QuantityAllocated, a.QuantityUsed, a.QuantityReturned,
		a.Status, a.AllocationDate, a.ExpectedUseDate, a.ActualUseDate,
		a.AllocatedBy, a.Notes, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert allocation: %w", err)
	}
	return nil
}

// GetByID obtiene la reserva. Devuelve nil si no existe.
func (r *AllocationRepo) GetByID(ctx context.Context, id string) (*entity.InventoryAllocation, error) {
	query := `SELECT ` + allocColumns + ` FROM inventory_allocations WHERE id = $1`
	return scanAllocation(r.q.QueryRow(ctx, query, id), "get allocation")
}

// GetForUpdate obtiene la reserva bloqueando la fila (SELECT FOR UPDATE).
func (r *AllocationRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryAllocation, error) {
	query := `SELECT ` + allocColumns + ` FROM inventory_allocations WHERE id = $1 FOR UPDATE`
	return scanAllocation(r.q.QueryRow(ctx, query, id), "get allocation for update")
}

// Update escribe cantidades, estado y fechas de la reserva.
func (r *AllocationRepo) Update(ctx context.Context, a *entity.InventoryAllocation) error {
	query := `
		UPDATE inventory_allocations SET
			quantity_used = $2, quantity_returned = $3, status = $4,
			actual_use_date = $5, notes = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.QuantityUsed, a.QuantityReturned, a.Status,
		a.ActualUseDate, a.Notes, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update allocation: %w", err)
	}
	return nil
}

// ListByItem pagina las reservas de un ítem, más recientes primero.
func (r *AllocationRepo) ListByItem(ctx context.Context, itemID string, limit, offset int) ([]*entity.InventoryAllocation, error) {
	query := `SELECT ` + allocColumns + `
		FROM inventory_allocations
		WHERE item_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	return r.list(ctx, query, itemID, limit, offset)
}

// ListByJob pagina las reservas de un trabajo.
func (r *AllocationRepo) ListByJob(ctx context.Context, jobID string, limit, offset int) ([]*entity.InventoryAllocation, error) {
	query := `SELECT ` + allocColumns + `
		FROM inventory_allocations
		WHERE job_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	return r.list(ctx, query, jobID, limit, offset)
}

// ListByBid pagina las reservas de una cotización.
func (r *AllocationRepo) ListByBid(ctx context.Context, bidID string, limit, offset int) ([]*entity.InventoryAllocation, error) {
	query := `SELECT ` + allocColumns + `
		FROM inventory_allocations
		WHERE bid_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	return r.list(ctx, query, bidID, limit, offset)
}

// CountOpenByItem cuenta reservas no terminales del ítem.
func (r *AllocationRepo) CountOpenByItem(ctx context.Context, itemID string) (int, error) {
	query := `
		SELECT count(*) FROM inventory_allocations
		WHERE item_id = $1 AND status NOT IN ('fully_used', 'returned', 'cancelled')`
	var n int
	if err := r.q.QueryRow(ctx, query, itemID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count open allocations: %w", err)
	}
	return n, nil
}

func (r *AllocationRepo) list(ctx context.Context, query string, key string, limit, offset int) ([]*entity.InventoryAllocation, error) {
	rows, err := r.q.Query(ctx, query, key, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	defer rows.Close()

	var out []*entity.InventoryAllocation
	for rows.Next() {
		var a entity.InventoryAllocation
		if err := scanAllocationFields(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func scanAllocation(row pgx.Row, op string) (*entity.InventoryAllocation, error) {
	var a entity.InventoryAllocation
	if err := scanAllocationFields(row, &a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &a, nil
}

func scanAllocationFields(row pgx.Row, a *entity.InventoryAllocation) error {
	return row.Scan(
		&a.ID, &a.OrganizationID, &a.ItemID, &a.JobID, &a.BidID,
		&a.QuantityAllocated, &a.QuantityUsed, &a.QuantityReturned,
		&a.Status, &a.AllocationDate, &a.ExpectedUseDate, &a.ActualUseDate,
		&a.AllocatedBy, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
}
