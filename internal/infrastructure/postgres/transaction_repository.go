package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
	"github.com/jdvalencia/fieldops-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación del ledger sobre PostgreSQL. Solo INSERT y
// SELECT: la tabla no tiene UPDATE ni DELETE en ninguna ruta de código.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

const txColumns = `
	id, organization_id, item_id, type, quantity, unit_cost, total_cost,
	balance_after, purchase_order_id, allocation_id, job_id, bid_id,
	from_location_id, to_location_id, transfer_id, reference, notes,
	performed_by, date, created_at`

// Create inserta la fila del ledger.
func (r *TransactionRepo) Create(ctx context.Context, tx *entity.InventoryTransaction) error {
	query := `
		INSERT INTO inventory_transactions (` + txColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(ctx, query,
		tx.ID, tx.OrganizationID, tx.ItemID, tx.Type, tx.Quantity,
		tx.UnitCost, tx.TotalCost, tx.BalanceAfter,
		tx.PurchaseOrderID, tx.AllocationID, tx.JobID, tx.BidID,
		tx.FromLocationID, tx.ToLocationID, tx.TransferID,
		tx.Reference, tx.Notes, tx.PerformedBy, tx.Date, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID obtiene una fila del ledger. Devuelve nil si no existe.
func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*entity.InventoryTransaction, error) {
	query := `SELECT ` + txColumns + ` FROM inventory_transactions WHERE id = $1`
	var tx entity.InventoryTransaction
	err := r.q.QueryRow(ctx, query, id).Scan(
		&tx.ID, &tx.OrganizationID, &tx.ItemID, &tx.Type, &tx.Quantity,
		&tx.UnitCost, &tx.TotalCost, &tx.BalanceAfter,
		&tx.PurchaseOrderID, &tx.AllocationID, &tx.JobID, &tx.BidID,
		&tx.FromLocationID, &tx.ToLocationID, &tx.TransferID,
		&tx.Reference, &tx.Notes, &tx.PerformedBy, &tx.Date, &tx.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &tx, nil
}

// ListByItem devuelve las filas del ítem en orden de creación ascendente:
// la historia canónica que usa la reconciliación para replay.
func (r *TransactionRepo) ListByItem(ctx context.Context, itemID string, limit, offset int) ([]*entity.InventoryTransaction, error) {
	query := `SELECT ` + txColumns + `
		FROM inventory_transactions
		WHERE item_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, itemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions by item: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// ListByOrganization pagina el ledger de la organización, opcionalmente por rango de fechas.
func (r *TransactionRepo) ListByOrganization(ctx context.Context, orgID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error) {
	query := `SELECT ` + txColumns + `
		FROM inventory_transactions
		WHERE organization_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date < $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, orgID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func scanTransactions(rows pgx.Rows) ([]*entity.InventoryTransaction, error) {
	var out []*entity.InventoryTransaction
	for rows.Next() {
		var tx entity.InventoryTransaction
		err := rows.Scan(
			&tx.ID, &tx.OrganizationID, &tx.ItemID, &tx.Type, &tx.Quantity,
			&tx.UnitCost, &tx.TotalCost, &tx.BalanceAfter,
			&tx.PurchaseOrderID, &tx.AllocationID, &tx.JobID, &tx.BidID,
			&tx.FromLocationID, &tx.ToLocationID, &tx.TransferID,
			&tx.Reference, &tx.Notes, &tx.PerformedBy, &tx.Date, &tx.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, &tx)
	}
	return out, rows.Err()
}
