package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jdvalencia/fieldops-api/internal/application/dto"
	"github.com/jdvalencia/fieldops-api/internal/domain"
	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
	domaininv "github.com/jdvalencia/fieldops-api/internal/domain/inventory"
	"github.com/jdvalencia/fieldops-api/internal/domain/repository"
)

// ItemUseCase implementa el registro de ítems. Las cantidades del ítem son
// una proyección del ledger: Create las inicia en cero (el stock inicial
// entra como transacción initial_stock) y Update rechaza cualquier intento
// de escribirlas directamente.
type ItemUseCase struct {
	txRunner  TxRunner
	ledgerUC  *LedgerUseCase
	itemRepo  repository.ItemRepository
	allocRepo repository.AllocationRepository
	poRepo    repository.PurchaseOrderRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(
	txRunner TxRunner,
	ledgerUC *LedgerUseCase,
	itemRepo repository.ItemRepository,
	allocRepo repository.AllocationRepository,
	poRepo repository.PurchaseOrderRepository,
) *ItemUseCase {
	return &ItemUseCase{txRunner: txRunner, ledgerUC: ledgerUC, itemRepo: itemRepo, allocRepo: allocRepo, poRepo: poRepo}
}

// Create registra el ítem con cantidades en cero. Si viene InitialQuantity,
// registra una transacción initial_stock en la misma transacción de BD, de
// modo que el stock inicial queda trazado en el ledger como cualquier otro
// movimiento. El código es único por organización.
func (uc *ItemUseCase) Create(ctx context.Context, orgID, userID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitCost.LessThan(decimal.Zero) || in.SellingPrice.LessThan(decimal.Zero) ||
		in.ReorderLevel.LessThan(decimal.Zero) || in.ReorderQuantity.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.InitialQuantity != nil && in.InitialQuantity.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.itemRepo.GetByOrgAndCode(ctx, orgID, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	item := &entity.InventoryItem{
		ID:                uuid.New().String(),
		OrganizationID:    orgID,
		Code:              in.Code,
		Name:              in.Name,
		Description:       in.Description,
		CategoryID:        in.CategoryID,
		UnitID:            in.UnitID,
		SupplierID:        in.SupplierID,
		LocationID:        in.LocationID,
		UnitCost:          in.UnitCost,
		AverageCost:       in.UnitCost,
		SellingPrice:      in.SellingPrice,
		QuantityOnHand:    decimal.Zero,
		QuantityAllocated: decimal.Zero,
		QuantityAvailable: decimal.Zero,
		QuantityOnOrder:   decimal.Zero,
		ReorderLevel:      in.ReorderLevel,
		ReorderQuantity:   in.ReorderQuantity,
		MaxStockLevel:     in.MaxStockLevel,
		TrackBySerial:     in.TrackBySerial,
		TrackByBatch:      in.TrackByBatch,
		ExpiryDate:        in.ExpiryDate,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	domaininv.RederiveItemStatus(item)

	err = uc.txRunner.Run(ctx, func(items repository.ItemRepository, ledger repository.TransactionRepository) error {
		if err := items.Create(ctx, item); err != nil {
			return err
		}
		if in.InitialQuantity != nil && in.InitialQuantity.GreaterThan(decimal.Zero) {
			cost := in.UnitCost
			tx, err := uc.ledgerUC.ApplyInTx(ctx, items, ledger, TransactionInput{
				OrganizationID: orgID,
				ItemID:         item.ID,
				Type:           entity.TxTypeInitialStock,
				Quantity:       *in.InitialQuantity,
				UnitCost:       &cost,
				PerformedBy:    userID,
			}, now)
			if err != nil {
				return err
			}
			item.QuantityOnHand = tx.BalanceAfter
			item.QuantityAvailable = tx.BalanceAfter
			domaininv.RederiveItemStatus(item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

// Update modifica los campos no-cuantitativos del ítem. Si la petición trae
// campos de la proyección de cantidades, se rechaza: esas solo cambian vía
// ledger. StatusOverride admite "", on_order o discontinued.
func (uc *ItemUseCase) Update(ctx context.Context, orgID, itemID string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if in.HasQuantityFields() {
		return nil, domain.ErrInvalidOperation
	}
	if in.StatusOverride != nil {
		switch *in.StatusOverride {
		case "", entity.ItemStatusOnOrder, entity.ItemStatusDiscontinued:
		default:
			return nil, domain.ErrInvalidInput
		}
	}

	item, err := uc.getOwned(ctx, orgID, itemID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Name = *in.Name
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.CategoryID != nil {
		item.CategoryID = *in.CategoryID
	}
	if in.UnitID != nil {
		item.UnitID = *in.UnitID
	}
	if in.SupplierID != nil {
		item.SupplierID = *in.SupplierID
	}
	if in.LocationID != nil {
		item.LocationID = *in.LocationID
	}
	if in.UnitCost != nil {
		if in.UnitCost.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		item.UnitCost = *in.UnitCost
	}
	if in.SellingPrice != nil {
		if in.SellingPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		item.SellingPrice = *in.SellingPrice
	}
	if in.ReorderLevel != nil {
		if in.ReorderLevel.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		item.ReorderLevel = *in.ReorderLevel
	}
	if in.ReorderQuantity != nil {
		if in.ReorderQuantity.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		item.ReorderQuantity = *in.ReorderQuantity
	}
	if in.MaxStockLevel != nil {
		item.MaxStockLevel = in.MaxStockLevel
	}
	if in.ExpiryDate != nil {
		item.ExpiryDate = in.ExpiryDate
	}
	if in.StatusOverride != nil {
		item.StatusOverride = *in.StatusOverride
	}

	item.UpdatedAt = time.Now()
	domaininv.RederiveItemStatus(item)
	if err := uc.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

// SoftDelete marca el ítem como eliminado. Bloqueado con Conflict si el
// ítem tiene reservas abiertas o líneas pendientes en órdenes de compra
// vivas; el historial del ledger se conserva siempre.
func (uc *ItemUseCase) SoftDelete(ctx context.Context, orgID, itemID string) error {
	item, err := uc.getOwned(ctx, orgID, itemID)
	if err != nil {
		return err
	}

	openAllocs, err := uc.allocRepo.CountOpenByItem(ctx, item.ID)
	if err != nil {
		return err
	}
	if openAllocs > 0 {
		return domain.ErrConflict
	}
	openLines, err := uc.poRepo.CountOpenLinesByItem(ctx, item.ID)
	if err != nil {
		return err
	}
	if openLines > 0 {
		return domain.ErrConflict
	}

	return uc.itemRepo.SoftDelete(ctx, item.ID)
}

// GetByID obtiene el ítem si pertenece a la organización y no está eliminado.
func (uc *ItemUseCase) GetByID(ctx context.Context, orgID, itemID string) (*dto.ItemResponse, error) {
	item, err := uc.getOwned(ctx, orgID, itemID)
	if err != nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

// List lista los ítems de la organización.
func (uc *ItemUseCase) List(ctx context.Context, orgID string, limit, offset int) ([]*dto.ItemResponse, error) {
	list, err := uc.itemRepo.ListByOrganization(ctx, orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, ToItemResponse(it))
	}
	return out, nil
}

func (uc *ItemUseCase) getOwned(ctx context.Context, orgID, id string) (*entity.InventoryItem, error) {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil || item.IsDeleted {
		return nil, domain.ErrNotFound
	}
	if item.OrganizationID != orgID {
		return nil, domain.ErrForbidden
	}
	return item, nil
}

// ToItemResponse mapea la entidad a su representación HTTP.
func ToItemResponse(item *entity.InventoryItem) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:                item.ID,
		Code:              item.Code,
		Name:              item.Name,
		Description:       item.Description,
		CategoryID:        item.CategoryID,
		UnitID:            item.UnitID,
		SupplierID:        item.SupplierID,
		LocationID:        item.LocationID,
		UnitCost:          item.UnitCost,
		AverageCost:       item.AverageCost,
		SellingPrice:      item.SellingPrice,
		QuantityOnHand:    item.QuantityOnHand,
		QuantityAllocated: item.QuantityAllocated,
		QuantityAvailable: item.QuantityAvailable,
		QuantityOnOrder:   item.QuantityOnOrder,
		ReorderLevel:      item.ReorderLevel,
		ReorderQuantity:   item.ReorderQuantity,
		MaxStockLevel:     item.MaxStockLevel,
		Status:            item.Status,
		TrackBySerial:     item.TrackBySerial,
		TrackByBatch:      item.TrackByBatch,
		ExpiryDate:        item.ExpiryDate,
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
}
