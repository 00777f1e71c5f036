package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jdvalencia/fieldops-api/internal/application/dto"
	"github.com/jdvalencia/fieldops-api/internal/domain"
	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
	domaininv "github.com/jdvalencia/fieldops-api/internal/domain/inventory"
	"github.com/jdvalencia/fieldops-api/internal/domain/repository"
	"github.com/jdvalencia/fieldops-api/pkg/metrics"
)

// LedgerUseCase es la única vía de escritura de cantidades: toda mutación
// de la proyección del ítem pasa por ApplyInTx dentro de una transacción de
// BD con bloqueo de fila (SELECT FOR UPDATE). Los demás casos de uso
// (reservas, órdenes de compra, conteos) componen ApplyInTx dentro de sus
// propias transacciones.
type LedgerUseCase struct {
	txRunner TxRunner
	itemRepo repository.ItemRepository
	txRepo   repository.TransactionRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, itemRepo repository.ItemRepository, txRepo repository.TransactionRepository) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, itemRepo: itemRepo, txRepo: txRepo}
}

// TransactionInput entrada para registrar una transacción del ledger.
// Quantity es el delta firmado; UnitCost nil usa el costo promedio del ítem.
// ConsumesAllocation indica que una emisión consume una reserva (la cantidad
// sale de QuantityAllocated en lugar de QuantityAvailable).
type TransactionInput struct {
	OrganizationID string
	ItemID         string
	Type           string
	Quantity       decimal.Decimal
	UnitCost       *decimal.Decimal

	PurchaseOrderID string
	AllocationID    string
	JobID           string
	BidID           string
	FromLocationID  string
	ToLocationID    string
	TransferID      string

	Reference   string
	Notes       string
	PerformedBy string

	ConsumesAllocation bool
}

// Append registra una transacción simple (no traslado) en su propia
// transacción de BD: fila del ledger + proyección + estado, todo o nada.
func (uc *LedgerUseCase) Append(ctx context.Context, in TransactionInput) (*dto.TransactionResponse, error) {
	if !entity.IsValidTxType(in.Type) || in.Type == entity.TxTypeTransfer {
		return nil, domain.ErrInvalidInput
	}
	if in.ItemID == "" {
		return nil, domain.ErrInvalidInput
	}

	var created *entity.InventoryTransaction
	err := uc.txRunner.Run(ctx, func(items repository.ItemRepository, ledger repository.TransactionRepository) error {
		tx, err := uc.ApplyInTx(ctx, items, ledger, in, time.Now())
		if err != nil {
			return err
		}
		created = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToTransactionResponse(created), nil
}

// ApplyInTx es la rutina central de aplicación del ledger, ejecutada con
// repositorios atados a la transacción del caller:
//
//	(a) bloquea la fila del ítem (FOR UPDATE),
//	(b) valida signo y aplica el delta a la proyección (OnHand/Allocated/
//	    Available, y OnOrder para entradas de órdenes de compra),
//	(c) recalcula costo promedio en entradas y re-deriva el estado,
//	(d) inserta la fila inmutable con BalanceAfter = OnHand resultante.
//
// Cualquier error deja la transacción sin fila parcial ni proyección parcial
// (el caller hace rollback).
func (uc *LedgerUseCase) ApplyInTx(
	ctx context.Context,
	items repository.ItemRepository,
	ledger repository.TransactionRepository,
	in TransactionInput,
	now time.Time,
) (*entity.InventoryTransaction, error) {
	item, err := items.GetForUpdate(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.IsDeleted {
		return nil, domain.ErrNotFound
	}
	if item.OrganizationID != in.OrganizationID {
		return nil, domain.ErrForbidden
	}

	unitCost := item.AverageCost
	if in.UnitCost != nil {
		if in.UnitCost.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		unitCost = *in.UnitCost
	}

	previousOnHand := item.QuantityOnHand

	if err := domaininv.ApplyToProjection(item, in.Type, in.Quantity, in.ConsumesAllocation, in.PurchaseOrderID != ""); err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			metrics.InsufficientStockRejected()
		}
		return nil, err
	}

	// Entradas con costo recalculan el promedio ponderado del ítem.
	switch in.Type {
	case entity.TxTypeReceipt, entity.TxTypeInitialStock:
		item.AverageCost = domaininv.WeightedAverageCost(previousOnHand, item.AverageCost, in.Quantity, unitCost)
		item.UnitCost = unitCost
	}

	row := &entity.InventoryTransaction{
		ID:              uuid.New().String(),
		OrganizationID:  in.OrganizationID,
		ItemID:          in.ItemID,
		Type:            in.Type,
		Quantity:        in.Quantity,
		UnitCost:        unitCost,
		TotalCost:       in.Quantity.Mul(unitCost),
		BalanceAfter:    item.QuantityOnHand,
		PurchaseOrderID: in.PurchaseOrderID,
		AllocationID:    in.AllocationID,
		JobID:           in.JobID,
		BidID:           in.BidID,
		FromLocationID:  in.FromLocationID,
		ToLocationID:    in.ToLocationID,
		TransferID:      in.TransferID,
		Reference:       in.Reference,
		Notes:           in.Notes,
		PerformedBy:     in.PerformedBy,
		Date:            now,
		CreatedAt:       now,
	}

	item.UpdatedAt = now
	if err := items.UpdateProjection(ctx, item); err != nil {
		return nil, err
	}
	if err := ledger.Create(ctx, row); err != nil {
		return nil, err
	}

	metrics.TransactionApplied(in.Type)
	return row, nil
}

// Transfer registra un traslado entre ubicaciones como UN evento lógico:
// dos filas enlazadas por TransferID (negativa en origen, positiva en
// destino) en la misma transacción de BD — ambas o ninguna. El OnHand del
// ítem no cambia (el stock no desaparece en tránsito).
func (uc *LedgerUseCase) Transfer(ctx context.Context, orgID, userID string, in dto.TransferRequest) ([]*dto.TransactionResponse, error) {
	if in.ItemID == "" || in.FromLocationID == "" || in.ToLocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.FromLocationID == in.ToLocationID || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var rows []*entity.InventoryTransaction
	err := uc.txRunner.Run(ctx, func(items repository.ItemRepository, ledger repository.TransactionRepository) error {
		item, err := items.GetForUpdate(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil || item.IsDeleted {
			return domain.ErrNotFound
		}
		if item.OrganizationID != orgID {
			return domain.ErrForbidden
		}
		if in.Quantity.GreaterThan(item.QuantityOnHand) {
			metrics.InsufficientStockRejected()
			return domain.ErrInsufficientStock
		}

		now := time.Now()
		transferID := uuid.New().String()
		unitCost := item.AverageCost

		outRow := &entity.InventoryTransaction{
			ID:             uuid.New().String(),
			OrganizationID: orgID,
			ItemID:         in.ItemID,
			Type:           entity.TxTypeTransfer,
			Quantity:       in.Quantity.Neg(),
			UnitCost:       unitCost,
			TotalCost:      in.Quantity.Neg().Mul(unitCost),
			BalanceAfter:   item.QuantityOnHand.Sub(in.Quantity),
			FromLocationID: in.FromLocationID,
			ToLocationID:   in.ToLocationID,
			TransferID:     transferID,
			Reference:      in.Reference,
			Notes:          in.Notes,
			PerformedBy:    userID,
			Date:           now,
			CreatedAt:      now,
		}
		inRow := &entity.InventoryTransaction{
			ID:             uuid.New().String(),
			OrganizationID: orgID,
			ItemID:         in.ItemID,
			Type:           entity.TxTypeTransfer,
			Quantity:       in.Quantity,
			UnitCost:       unitCost,
			TotalCost:      in.Quantity.Mul(unitCost),
			BalanceAfter:   item.QuantityOnHand,
			FromLocationID: in.FromLocationID,
			ToLocationID:   in.ToLocationID,
			TransferID:     transferID,
			Reference:      in.Reference,
			Notes:          in.Notes,
			PerformedBy:    userID,
			Date:           now,
			CreatedAt:      now,
		}

		if err := ledger.Create(ctx, outRow); err != nil {
			return err
		}
		if err := ledger.Create(ctx, inRow); err != nil {
			return err
		}
		metrics.TransactionApplied(entity.TxTypeTransfer)
		rows = []*entity.InventoryTransaction{outRow, inRow}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]*dto.TransactionResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ToTransactionResponse(r))
	}
	return out, nil
}

// reconcilePageSize tamaño de página al reproducir el ledger (evita cargar
// historias largas en una sola consulta).
const reconcilePageSize = 500

// Reconcile reproduce el ledger del ítem desde cero en orden de creación y
// lo compara con la proyección cacheada: chequeo permanente del invariante
// "la proyección es re-derivable del ledger" (diagnóstico, no mutación).
func (uc *LedgerUseCase) Reconcile(ctx context.Context, orgID, itemID string) (*dto.ReconciliationReport, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.OrganizationID != orgID {
		return nil, domain.ErrForbidden
	}

	sum := decimal.Zero
	last := decimal.Zero
	rowCount := 0
	offset := 0
	for {
		page, err := uc.txRepo.ListByItem(ctx, itemID, reconcilePageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, row := range page {
			sum = sum.Add(row.Quantity)
			last = row.BalanceAfter
			rowCount++
		}
		if len(page) < reconcilePageSize {
			break
		}
		offset += reconcilePageSize
	}

	inSync := sum.Equal(item.QuantityOnHand)
	if rowCount > 0 {
		inSync = inSync && last.Equal(sum)
	}

	return &dto.ReconciliationReport{
		ItemID:            itemID,
		RowCount:          rowCount,
		LedgerQuantity:    sum,
		LastBalanceAfter:  last,
		ProjectedQuantity: item.QuantityOnHand,
		InSync:            inSync,
	}, nil
}

// ListByItem lista la historia del ítem en orden de creación (paginado).
func (uc *LedgerUseCase) ListByItem(ctx context.Context, orgID, itemID string, limit, offset int) ([]*dto.TransactionResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.OrganizationID != orgID {
		return nil, domain.ErrForbidden
	}
	rows, err := uc.txRepo.ListByItem(ctx, itemID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.TransactionResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ToTransactionResponse(r))
	}
	return out, nil
}

// ListByOrganization lista transacciones de la organización por rango de fechas.
func (uc *LedgerUseCase) ListByOrganization(ctx context.Context, orgID string, from, to *time.Time, limit, offset int) ([]*dto.TransactionResponse, error) {
	rows, err := uc.txRepo.ListByOrganization(ctx, orgID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.TransactionResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ToTransactionResponse(r))
	}
	return out, nil
}

// ToTransactionResponse mapea la entidad al DTO HTTP.
func ToTransactionResponse(t *entity.InventoryTransaction) *dto.TransactionResponse {
	return &dto.TransactionResponse{
		ID:              t.ID,
		ItemID:          t.ItemID,
		Type:            t.Type,
		Quantity:        t.Quantity,
		UnitCost:        t.UnitCost,
		TotalCost:       t.TotalCost,
		BalanceAfter:    t.BalanceAfter,
		PurchaseOrderID: t.PurchaseOrderID,
		AllocationID:    t.AllocationID,
		JobID:           t.JobID,
		BidID:           t.BidID,
		FromLocationID:  t.FromLocationID,
		ToLocationID:    t.ToLocationID,
		TransferID:      t.TransferID,
		Reference:       t.Reference,
		Notes:           t.Notes,
		PerformedBy:     t.PerformedBy,
		Date:            t.Date,
		CreatedAt:       t.CreatedAt,
	}
}
