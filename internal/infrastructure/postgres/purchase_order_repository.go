package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
	"github.com/jdvalencia/fieldops-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de PurchaseOrderRepository sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador de órdenes. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const poColumns = `
	id, organization_id, order_number, supplier_id, status, subtotal,
	tax_amount, shipping_cost, total_amount, amount_paid, order_date,
	expected_date, received_date, notes, created_by, approved_by,
	approved_at, created_at, updated_at`

const poLineColumns = `
	id, purchase_order_id, item_id, quantity_ordered, quantity_received,
	unit_cost, line_total, notes`

// Create inserta la cabecera y sus líneas.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.InventoryPurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (` + poColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		po.ID, po.OrganizationID, po.OrderNumber, po.SupplierID, po.Status,
		po.Subtotal, po.TaxAmount, po.ShippingCost, po.TotalAmount, po.AmountPaid,
		po.OrderDate, po.ExpectedDate, po.ReceivedDate, po.Notes,
		po.CreatedBy, po.ApprovedBy, po.ApprovedAt, po.CreatedAt, po.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase order: %w", mapInsertErr(err))
	}

	lineQuery := `
		INSERT INTO purchase_order_items (` + poLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i := range po.Items {
		l := &po.Items[i]
		_, err := r.q.Exec(ctx, lineQuery,
			l.ID, l.PurchaseOrderID, l.ItemID, l.QuantityOrdered,
			l.QuantityReceived, l.UnitCost, l.LineTotal, l.Notes,
		)
		if err != nil {
			return fmt.Errorf("insert purchase order line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la cabecera con sus líneas. Devuelve nil si no existe.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.InventoryPurchaseOrder, error) {
	query := `SELECT ` + poColumns + ` FROM purchase_orders WHERE id = $1`
	po, err := scanPurchaseOrder(r.q.QueryRow(ctx, query, id), "get purchase order")
	if err != nil || po == nil {
		return po, err
	}
	po.Items, err = r.listLines(ctx, po.ID)
	return po, err
}

// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) y carga las líneas.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryPurchaseOrder, error) {
	query := `SELECT ` + poColumns + ` FROM purchase_orders WHERE id = $1 FOR UPDATE`
	po, err := scanPurchaseOrder(r.q.QueryRow(ctx, query, id), "get purchase order for update")
	if err != nil || po == nil {
		return po, err
	}
	po.Items, err = r.listLines(ctx, po.ID)
	return po, err
}

// UpdateHeader escribe estado, fechas y aprobación de la cabecera.
func (r *PurchaseOrderRepo) UpdateHeader(ctx context.Context, po *entity.InventoryPurchaseOrder) error {
	query := `
		UPDATE purchase_orders SET
			status = $2, received_date = $3, approved_by = $4, approved_at = $5,
			amount_paid = $6, notes = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		po.ID, po.Status, po.ReceivedDate, po.ApprovedBy, po.ApprovedAt,
		po.AmountPaid, po.Notes, po.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	return nil
}

// UpdateLine escribe la cantidad recibida de una línea.
func (r *PurchaseOrderRepo) UpdateLine(ctx context.Context, line *entity.InventoryPurchaseOrderItem) error {
	query := `UPDATE purchase_order_items SET quantity_received = $2, notes = $3 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, line.ID, line.QuantityReceived, line.Notes)
	if err != nil {
		return fmt.Errorf("update purchase order line: %w", err)
	}
	return nil
}

// ListByOrganization pagina las órdenes, opcionalmente por estado, sin líneas.
func (r *PurchaseOrderRepo) ListByOrganization(ctx context.Context, orgID, status string, limit, offset int) ([]*entity.InventoryPurchaseOrder, error) {
	query := `SELECT ` + poColumns + `
		FROM purchase_orders
		WHERE organization_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY order_date DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, orgID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	var out []*entity.InventoryPurchaseOrder
	for rows.Next() {
		var po entity.InventoryPurchaseOrder
		if err := scanPurchaseOrderFields(rows, &po); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		out = append(out, &po)
	}
	return out, rows.Err()
}

// CountOpenLinesByItem cuenta líneas no entregadas por completo en órdenes
// vivas que referencian el ítem.
func (r *PurchaseOrderRepo) CountOpenLinesByItem(ctx context.Context, itemID string) (int, error) {
	query := `
		SELECT count(*)
		FROM purchase_order_items li
		JOIN purchase_orders po ON po.id = li.purchase_order_id
		WHERE li.item_id = $1
		  AND li.quantity_received < li.quantity_ordered
		  AND po.status NOT IN ('cancelled', 'closed')`
	var n int
	if err := r.q.QueryRow(ctx, query, itemID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count open purchase order lines: %w", err)
	}
	return n, nil
}

func (r *PurchaseOrderRepo) listLines(ctx context.Context, poID string) ([]entity.InventoryPurchaseOrderItem, error) {
	query := `SELECT ` + poLineColumns + `
		FROM purchase_order_items
		WHERE purchase_order_id = $1
		ORDER BY id`
	rows, err := r.q.Query(ctx, query, poID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order lines: %w", err)
	}
	defer rows.Close()

	var out []entity.InventoryPurchaseOrderItem
	for rows.Next() {
		var l entity.InventoryPurchaseOrderItem
		err := rows.Scan(
			&l.ID, &l.PurchaseOrderID, &l.ItemID, &l.QuantityOrdered,
			&l.QuantityReceived, &l.UnitCost, &l.LineTotal, &l.Notes,
		)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanPurchaseOrder(row pgx.Row, op string) (*entity.InventoryPurchaseOrder, error) {
	var po entity.InventoryPurchaseOrder
	if err := scanPurchaseOrderFields(row, &po); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &po, nil
}

func scanPurchaseOrderFields(row pgx.Row, po *entity.InventoryPurchaseOrder) error {
	return row.Scan(
		&po.ID, &po.OrganizationID, &po.OrderNumber, &po.SupplierID, &po.Status,
		&po.Subtotal, &po.TaxAmount, &po.ShippingCost, &po.TotalAmount, &po.AmountPaid,
		&po.OrderDate, &po.ExpectedDate, &po.ReceivedDate, &po.Notes,
		&po.CreatedBy, &po.ApprovedBy, &po.ApprovedAt, &po.CreatedAt, &po.UpdatedAt,
	)
}
