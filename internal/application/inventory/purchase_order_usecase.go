package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jdvalencia/fieldops-api/internal/application/dto"
	"github.com/jdvalencia/fieldops-api/internal/domain"
	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
	"github.com/jdvalencia/fieldops-api/internal/domain/repository"
)

// PurchaseOrderUseCase implementa el workflow de órdenes de compra:
// draft → pending_approval → approved → sent → {partially_received →
// received} → closed, con cancelled desde cualquier estado previo a
// received. La aprobación compromete QuantityOnOrder de cada ítem; la
// recepción genera transacciones receipt por línea (misma transacción de BD
// que la actualización de la línea y la cabecera); la cancelación libera el
// OnOrder del remanente no recibido.
type PurchaseOrderUseCase struct {
	txRunner     TxRunner
	ledgerUC     *LedgerUseCase
	poRepo       repository.PurchaseOrderRepository
	supplierRepo repository.SupplierRepository
}

// NewPurchaseOrderUseCase construye el caso de uso.
func NewPurchaseOrderUseCase(
	txRunner TxRunner,
	ledgerUC *LedgerUseCase,
	poRepo repository.PurchaseOrderRepository,
	supplierRepo repository.SupplierRepository,
) *PurchaseOrderUseCase {
	return &PurchaseOrderUseCase{txRunner: txRunner, ledgerUC: ledgerUC, poRepo: poRepo, supplierRepo: supplierRepo}
}

// Create crea la orden en draft con sus líneas y calcula los totales
// (LineTotal = cantidad * costo; Subtotal = suma de líneas;
// Total = Subtotal + impuestos + envío).
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, orgID, userID string, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if in.SupplierID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.TaxAmount.LessThan(decimal.Zero) || in.ShippingCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	supplier, err := uc.supplierRepo.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil || supplier.OrganizationID != orgID {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	poID := uuid.New().String()
	subtotal := decimal.Zero
	lines := make([]entity.InventoryPurchaseOrderItem, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.ItemID == "" || !l.Quantity.GreaterThan(decimal.Zero) || l.UnitCost.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		lineTotal := l.Quantity.Mul(l.UnitCost)
		subtotal = subtotal.Add(lineTotal)
		lines = append(lines, entity.InventoryPurchaseOrderItem{
			ID:               uuid.New().String(),
			PurchaseOrderID:  poID,
			ItemID:           l.ItemID,
			QuantityOrdered:  l.Quantity,
			QuantityReceived: decimal.Zero,
			UnitCost:         l.UnitCost,
			LineTotal:        lineTotal,
			Notes:            l.Notes,
		})
	}

	po := &entity.InventoryPurchaseOrder{
		ID:             poID,
		OrganizationID: orgID,
		OrderNumber:    newOrderNumber(now),
		SupplierID:     in.SupplierID,
		Status:         entity.POStatusDraft,
		Subtotal:       subtotal,
		TaxAmount:      in.TaxAmount,
		ShippingCost:   in.ShippingCost,
		TotalAmount:    subtotal.Add(in.TaxAmount).Add(in.ShippingCost),
		AmountPaid:     decimal.Zero,
		OrderDate:      now,
		ExpectedDate:   in.ExpectedDate,
		Notes:          in.Notes,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
		Items:          lines,
	}

	// Cabecera y líneas en una sola transacción.
	err = uc.txRunner.RunPurchase(ctx, func(
		_ repository.ItemRepository,
		_ repository.TransactionRepository,
		orders repository.PurchaseOrderRepository,
	) error {
		return orders.Create(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(po), nil
}

// Submit envía la orden a aprobación: draft → pending_approval.
func (uc *PurchaseOrderUseCase) Submit(ctx context.Context, orgID, userID, poID string) (*dto.PurchaseOrderResponse, error) {
	return uc.transition(ctx, orgID, poID, entity.POStatusDraft, entity.POStatusPendingApproval, nil)
}

// Approve aprueba la orden: pending_approval → approved. Falla con acceso
// denegado si la orden no tiene líneas. Compromete QuantityOnOrder de cada
// ítem por la cantidad ordenada (suministro futuro esperado).
func (uc *PurchaseOrderUseCase) Approve(ctx context.Context, orgID, userID, poID string) (*dto.PurchaseOrderResponse, error) {
	return uc.transition(ctx, orgID, poID, entity.POStatusPendingApproval, entity.POStatusApproved,
		func(ctx context.Context, items repository.ItemRepository, po *entity.InventoryPurchaseOrder) error {
			if len(po.Items) == 0 {
				return domain.ErrForbidden
			}
			now := time.Now()
			for i := range po.Items {
				line := &po.Items[i]
				item, err := items.GetForUpdate(ctx, line.ItemID)
				if err != nil {
					return err
				}
				if item == nil || item.IsDeleted {
					return domain.ErrNotFound
				}
				item.QuantityOnOrder = item.QuantityOnOrder.Add(line.QuantityOrdered)
				item.UpdatedAt = now
				if err := items.UpdateProjection(ctx, item); err != nil {
					return err
				}
			}
			po.ApprovedBy = userID
			po.ApprovedAt = &now
			return nil
		})
}

// Send marca la orden como enviada al proveedor: approved → sent.
// La representación PDF para el proveedor se genera aparte (GET .../pdf).
func (uc *PurchaseOrderUseCase) Send(ctx context.Context, orgID, userID, poID string) (*dto.PurchaseOrderResponse, error) {
	return uc.transition(ctx, orgID, poID, entity.POStatusApproved, entity.POStatusSent, nil)
}

// Receive registra la mercancía recibida en ESTA llamada: por cada línea
// valida delta >= 0 y recibido+delta <= ordenado, genera una transacción
// receipt (sube OnHand, baja OnOrder), actualiza la línea y recalcula el
// estado de la orden (received si todas las líneas completas, si no
// partially_received). Todo en una transacción de BD.
func (uc *PurchaseOrderUseCase) Receive(ctx context.Context, orgID, userID, poID string, in dto.ReceivePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if len(in.Receipts) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, r := range in.Receipts {
		if r.LineID == "" || r.Quantity.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	var updated *entity.InventoryPurchaseOrder
	err := uc.txRunner.RunPurchase(ctx, func(
		items repository.ItemRepository,
		ledger repository.TransactionRepository,
		orders repository.PurchaseOrderRepository,
	) error {
		po, err := uc.lockOrder(ctx, orders, orgID, poID)
		if err != nil {
			return err
		}
		if !po.Receivable() {
			return domain.ErrInvalidTransition
		}

		now := time.Now()
		for _, r := range in.Receipts {
			if r.Quantity.IsZero() {
				continue // sin recepción para esta línea en esta llamada
			}
			line := findLine(po, r.LineID)
			if line == nil {
				return domain.ErrNotFound
			}
			if line.QuantityReceived.Add(r.Quantity).GreaterThan(line.QuantityOrdered) {
				return domain.ErrInvalidInput
			}

			cost := line.UnitCost
			_, err := uc.ledgerUC.ApplyInTx(ctx, items, ledger, TransactionInput{
				OrganizationID:  orgID,
				ItemID:          line.ItemID,
				Type:            entity.TxTypeReceipt,
				Quantity:        r.Quantity,
				UnitCost:        &cost,
				PurchaseOrderID: po.ID,
				Reference:       po.OrderNumber,
				PerformedBy:     userID,
			}, now)
			if err != nil {
				return err
			}

			line.QuantityReceived = line.QuantityReceived.Add(r.Quantity)
			if err := orders.UpdateLine(ctx, line); err != nil {
				return err
			}
		}

		po.Status = receiptStatus(po)
		if po.Status == entity.POStatusReceived {
			po.ReceivedDate = &now
		}
		po.UpdatedAt = now
		if err := orders.UpdateHeader(ctx, po); err != nil {
			return err
		}
		updated = po
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(updated), nil
}

// Cancel cancela la orden desde cualquier estado previo a received. Si la
// orden estaba aprobada/enviada, libera el QuantityOnOrder del remanente no
// recibido (solo el remanente: lo ya recibido queda en el ledger).
func (uc *PurchaseOrderUseCase) Cancel(ctx context.Context, orgID, userID, poID string) (*dto.PurchaseOrderResponse, error) {
	var updated *entity.InventoryPurchaseOrder
	err := uc.txRunner.RunPurchase(ctx, func(
		items repository.ItemRepository,
		_ repository.TransactionRepository,
		orders repository.PurchaseOrderRepository,
	) error {
		po, err := uc.lockOrder(ctx, orders, orgID, poID)
		if err != nil {
			return err
		}
		switch po.Status {
		case entity.POStatusDraft, entity.POStatusPendingApproval,
			entity.POStatusApproved, entity.POStatusSent, entity.POStatusPartiallyReceived:
			// cancelable
		default:
			return domain.ErrInvalidTransition
		}

		now := time.Now()
		if po.Status == entity.POStatusApproved || po.Status == entity.POStatusSent || po.Status == entity.POStatusPartiallyReceived {
			for i := range po.Items {
				line := &po.Items[i]
				remaining := line.Remaining()
				if !remaining.GreaterThan(decimal.Zero) {
					continue
				}
				item, err := items.GetForUpdate(ctx, line.ItemID)
				if err != nil {
					return err
				}
				if item == nil {
					continue // ítem eliminado después de aprobar: nada que liberar
				}
				newOnOrder := item.QuantityOnOrder.Sub(remaining)
				if newOnOrder.LessThan(decimal.Zero) {
					newOnOrder = decimal.Zero
				}
				item.QuantityOnOrder = newOnOrder
				item.UpdatedAt = now
				if err := items.UpdateProjection(ctx, item); err != nil {
					return err
				}
			}
		}

		po.Status = entity.POStatusCancelled
		po.UpdatedAt = now
		if err := orders.UpdateHeader(ctx, po); err != nil {
			return err
		}
		updated = po
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(updated), nil
}

// Close cierra la orden: solo desde received o cancelled, si no Conflict.
func (uc *PurchaseOrderUseCase) Close(ctx context.Context, orgID, userID, poID string) (*dto.PurchaseOrderResponse, error) {
	var updated *entity.InventoryPurchaseOrder
	err := uc.txRunner.RunPurchase(ctx, func(
		_ repository.ItemRepository,
		_ repository.TransactionRepository,
		orders repository.PurchaseOrderRepository,
	) error {
		po, err := uc.lockOrder(ctx, orders, orgID, poID)
		if err != nil {
			return err
		}
		if po.Status != entity.POStatusReceived && po.Status != entity.POStatusCancelled {
			return domain.ErrConflict
		}
		po.Status = entity.POStatusClosed
		po.UpdatedAt = time.Now()
		if err := orders.UpdateHeader(ctx, po); err != nil {
			return err
		}
		updated = po
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(updated), nil
}

// GetByID obtiene una orden con sus líneas.
func (uc *PurchaseOrderUseCase) GetByID(ctx context.Context, orgID, id string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.poRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	if po.OrganizationID != orgID {
		return nil, domain.ErrForbidden
	}
	return toPurchaseOrderResponse(po), nil
}

// List lista órdenes de la organización, opcionalmente por estado.
func (uc *PurchaseOrderUseCase) List(ctx context.Context, orgID, status string, limit, offset int) ([]*dto.PurchaseOrderResponse, error) {
	list, err := uc.poRepo.ListByOrganization(ctx, orgID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PurchaseOrderResponse, 0, len(list))
	for _, po := range list {
		out = append(out, toPurchaseOrderResponse(po))
	}
	return out, nil
}

// transition ejecuta una transición guardada from → to dentro de una
// transacción; extra corre con la orden bloqueada antes de escribir el estado.
func (uc *PurchaseOrderUseCase) transition(
	ctx context.Context,
	orgID, poID, from, to string,
	extra func(ctx context.Context, items repository.ItemRepository, po *entity.InventoryPurchaseOrder) error,
) (*dto.PurchaseOrderResponse, error) {
	var updated *entity.InventoryPurchaseOrder
	err := uc.txRunner.RunPurchase(ctx, func(
		items repository.ItemRepository,
		_ repository.TransactionRepository,
		orders repository.PurchaseOrderRepository,
	) error {
		po, err := uc.lockOrder(ctx, orders, orgID, poID)
		if err != nil {
			return err
		}
		if po.Status != from {
			return domain.ErrInvalidTransition
		}
		if extra != nil {
			if err := extra(ctx, items, po); err != nil {
				return err
			}
		}
		po.Status = to
		po.UpdatedAt = time.Now()
		if err := orders.UpdateHeader(ctx, po); err != nil {
			return err
		}
		updated = po
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(updated), nil
}

// lockOrder bloquea la cabecera y valida existencia y organización.
func (uc *PurchaseOrderUseCase) lockOrder(ctx context.Context, orders repository.PurchaseOrderRepository, orgID, id string) (*entity.InventoryPurchaseOrder, error) {
	po, err := orders.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	if po.OrganizationID != orgID {
		return nil, domain.ErrForbidden
	}
	return po, nil
}

// receiptStatus recalcula el estado tras una recepción: received si todas
// las líneas están completas, partially_received si al menos una tiene
// recepción parcial o alguna completa y otras pendientes.
func receiptStatus(po *entity.InventoryPurchaseOrder) string {
	allFull := true
	anyReceived := false
	for i := range po.Items {
		if po.Items[i].QuantityReceived.GreaterThan(decimal.Zero) {
			anyReceived = true
		}
		if !po.Items[i].FullyReceived() {
			allFull = false
		}
	}
	if allFull && len(po.Items) > 0 {
		return entity.POStatusReceived
	}
	if anyReceived {
		return entity.POStatusPartiallyReceived
	}
	return po.Status
}

func findLine(po *entity.InventoryPurchaseOrder, lineID string) *entity.InventoryPurchaseOrderItem {
	for i := range po.Items {
		if po.Items[i].ID == lineID {
			return &po.Items[i]
		}
	}
	return nil
}

// newOrderNumber genera el consecutivo visible de la orden (OC-AAAA-XXXXXXXX).
func newOrderNumber(now time.Time) string {
	return fmt.Sprintf("OC-%d-%s", now.Year(), strings.ToUpper(uuid.New().String()[:8]))
}

func toPurchaseOrderResponse(po *entity.InventoryPurchaseOrder) *dto.PurchaseOrderResponse {
	lines := make([]dto.PurchaseOrderLineResponse, 0, len(po.Items))
	for _, l := range po.Items {
		lines = append(lines, dto.PurchaseOrderLineResponse{
			ID:               l.ID,
			ItemID:           l.ItemID,
			QuantityOrdered:  l.QuantityOrdered,
			QuantityReceived: l.QuantityReceived,
			UnitCost:         l.UnitCost,
			LineTotal:        l.LineTotal,
			Notes:            l.Notes,
		})
	}
	return &dto.PurchaseOrderResponse{
		ID:           po.ID,
		OrderNumber:  po.OrderNumber,
		SupplierID:   po.SupplierID,
		Status:       po.Status,
		Subtotal:     po.Subtotal,
		TaxAmount:    po.TaxAmount,
		ShippingCost: po.ShippingCost,
		TotalAmount:  po.TotalAmount,
		AmountPaid:   po.AmountPaid,
		OrderDate:    po.OrderDate,
		ExpectedDate: po.ExpectedDate,
		ReceivedDate: po.ReceivedDate,
		Notes:        po.Notes,
		CreatedBy:    po.CreatedBy,
		ApprovedBy:   po.ApprovedBy,
		ApprovedAt:   po.ApprovedAt,
		CreatedAt:    po.CreatedAt,
		UpdatedAt:    po.UpdatedAt,
		Lines:        lines,
	}
}
