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

// AllocationUseCase implementa el motor de reservas:
// allocated → issued → {partially_used | fully_used} → returned, con
// cancelled alcanzable solo desde allocated. Crear y cancelar mueven la
// reserva (Allocated/Available) sin fila de ledger; emitir y devolver sí
// generan transacciones (issue / return) vía LedgerUseCase.ApplyInTx dentro
// de la misma transacción de BD.
type AllocationUseCase struct {
	txRunner  TxRunner
	ledgerUC  *LedgerUseCase
	allocRepo repository.AllocationRepository
}

// NewAllocationUseCase construye el caso de uso.
func NewAllocationUseCase(txRunner TxRunner, ledgerUC *LedgerUseCase, allocRepo repository.AllocationRepository) *AllocationUseCase {
	return &AllocationUseCase{txRunner: txRunner, ledgerUC: ledgerUC, allocRepo: allocRepo}
}

// Create reserva cantidad de un ítem para un Job o Bid (exactamente uno).
// Requiere quantity <= QuantityAvailable; sube Allocated y baja Available
// sin tocar OnHand: la reserva no es un movimiento de stock.
func (uc *AllocationUseCase) Create(ctx context.Context, orgID, userID string, in dto.CreateAllocationRequest) (*dto.AllocationResponse, error) {
	if in.ItemID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if (in.JobID == "") == (in.BidID == "") { // ninguno o ambos
		return nil, domain.ErrInvalidInput
	}

	var created *entity.InventoryAllocation
	err := uc.txRunner.RunAllocation(ctx, func(
		items repository.ItemRepository,
		_ repository.TransactionRepository,
		allocs repository.AllocationRepository,
	) error {
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
		if err := domaininv.Reserve(item, in.Quantity); err != nil {
			return err
		}
		now := time.Now()
		item.UpdatedAt = now
		if err := items.UpdateProjection(ctx, item); err != nil {
			return err
		}
		created = &entity.InventoryAllocation{
			ID:                uuid.New().String(),
			OrganizationID:    orgID,
			ItemID:            in.ItemID,
			JobID:             in.JobID,
			BidID:             in.BidID,
			QuantityAllocated: in.Quantity,
			QuantityUsed:      decimal.Zero,
			QuantityReturned:  decimal.Zero,
			Status:            entity.AllocationStatusAllocated,
			AllocationDate:    now,
			ExpectedUseDate:   in.ExpectedUseDate,
			AllocatedBy:       userID,
			Notes:             in.Notes,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		return allocs.Create(ctx, created)
	})
	if err != nil {
		return nil, err
	}
	return toAllocationResponse(created), nil
}

// Issue emite la reserva completa: genera la transacción issue (consume la
// reserva y el stock físico a la vez) y pasa a issued. Solo válido desde allocated.
func (uc *AllocationUseCase) Issue(ctx context.Context, orgID, userID, allocationID string) (*dto.AllocationResponse, error) {
	var updated *entity.InventoryAllocation
	err := uc.txRunner.RunAllocation(ctx, func(
		items repository.ItemRepository,
		ledger repository.TransactionRepository,
		allocs repository.AllocationRepository,
	) error {
		alloc, err := uc.lockAllocation(ctx, allocs, orgID, allocationID)
		if err != nil {
			return err
		}
		if alloc.Status != entity.AllocationStatusAllocated {
			return domain.ErrInvalidTransition
		}

		now := time.Now()
		_, err = uc.ledgerUC.ApplyInTx(ctx, items, ledger, TransactionInput{
			OrganizationID:     orgID,
			ItemID:             alloc.ItemID,
			Type:               entity.TxTypeIssue,
			Quantity:           alloc.QuantityAllocated.Neg(),
			AllocationID:       alloc.ID,
			JobID:              alloc.JobID,
			BidID:              alloc.BidID,
			PerformedBy:        userID,
			ConsumesAllocation: true,
		}, now)
		if err != nil {
			return err
		}

		alloc.QuantityUsed = alloc.QuantityAllocated
		alloc.Status = entity.AllocationStatusIssued
		alloc.ActualUseDate = &now
		alloc.UpdatedAt = now
		if err := allocs.Update(ctx, alloc); err != nil {
			return err
		}
		updated = alloc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toAllocationResponse(updated), nil
}

// Return devuelve cantidad emitida no consumida: genera la transacción
// return (restaura OnHand/Available) y recalcula el estado. Válido desde
// issued o partially_used; quantity <= emitido aún no devuelto.
func (uc *AllocationUseCase) Return(ctx context.Context, orgID, userID, allocationID string, in dto.ReturnAllocationRequest) (*dto.AllocationResponse, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var updated *entity.InventoryAllocation
	err := uc.txRunner.RunAllocation(ctx, func(
		items repository.ItemRepository,
		ledger repository.TransactionRepository,
		allocs repository.AllocationRepository,
	) error {
		alloc, err := uc.lockAllocation(ctx, allocs, orgID, allocationID)
		if err != nil {
			return err
		}
		if alloc.Status != entity.AllocationStatusIssued && alloc.Status != entity.AllocationStatusPartiallyUsed {
			return domain.ErrInvalidTransition
		}
		if in.Quantity.GreaterThan(alloc.OutstandingUsed()) {
			return domain.ErrInvalidTransition
		}

		now := time.Now()
		_, err = uc.ledgerUC.ApplyInTx(ctx, items, ledger, TransactionInput{
			OrganizationID: orgID,
			ItemID:         alloc.ItemID,
			Type:           entity.TxTypeReturn,
			Quantity:       in.Quantity,
			AllocationID:   alloc.ID,
			JobID:          alloc.JobID,
			BidID:          alloc.BidID,
			Notes:          in.Notes,
			PerformedBy:    userID,
		}, now)
		if err != nil {
			return err
		}

		alloc.QuantityReturned = alloc.QuantityReturned.Add(in.Quantity)
		if alloc.QuantityReturned.Equal(alloc.QuantityUsed) {
			alloc.Status = entity.AllocationStatusReturned
		} else {
			alloc.Status = entity.AllocationStatusPartiallyUsed
		}
		alloc.UpdatedAt = now
		if err := allocs.Update(ctx, alloc); err != nil {
			return err
		}
		updated = alloc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toAllocationResponse(updated), nil
}

// Complete marca el consumo como definitivo (el trabajo terminó y no habrá
// más devoluciones): issued → fully_used, partially_used → fully_used.
func (uc *AllocationUseCase) Complete(ctx context.Context, orgID, userID, allocationID string) (*dto.AllocationResponse, error) {
	var updated *entity.InventoryAllocation
	err := uc.txRunner.RunAllocation(ctx, func(
		_ repository.ItemRepository,
		_ repository.TransactionRepository,
		allocs repository.AllocationRepository,
	) error {
		alloc, err := uc.lockAllocation(ctx, allocs, orgID, allocationID)
		if err != nil {
			return err
		}
		if alloc.Status != entity.AllocationStatusIssued && alloc.Status != entity.AllocationStatusPartiallyUsed {
			return domain.ErrInvalidTransition
		}
		alloc.Status = entity.AllocationStatusFullyUsed
		alloc.UpdatedAt = time.Now()
		if err := allocs.Update(ctx, alloc); err != nil {
			return err
		}
		updated = alloc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toAllocationResponse(updated), nil
}

// Cancel libera una reserva nunca emitida: baja Allocated y restaura
// Available sin fila de ledger. Solo válido desde allocated; la doble
// cancelación devuelve transición inválida, nunca éxito silencioso.
func (uc *AllocationUseCase) Cancel(ctx context.Context, orgID, userID, allocationID string) (*dto.AllocationResponse, error) {
	var updated *entity.InventoryAllocation
	err := uc.txRunner.RunAllocation(ctx, func(
		items repository.ItemRepository,
		_ repository.TransactionRepository,
		allocs repository.AllocationRepository,
	) error {
		alloc, err := uc.lockAllocation(ctx, allocs, orgID, allocationID)
		if err != nil {
			return err
		}
		if alloc.Status != entity.AllocationStatusAllocated {
			return domain.ErrInvalidTransition
		}

		item, err := items.GetForUpdate(ctx, alloc.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if err := domaininv.Release(item, alloc.QuantityAllocated); err != nil {
			return err
		}
		now := time.Now()
		item.UpdatedAt = now
		if err := items.UpdateProjection(ctx, item); err != nil {
			return err
		}

		alloc.Status = entity.AllocationStatusCancelled
		alloc.UpdatedAt = now
		if err := allocs.Update(ctx, alloc); err != nil {
			return err
		}
		updated = alloc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toAllocationResponse(updated), nil
}

// GetByID obtiene una reserva.
func (uc *AllocationUseCase) GetByID(ctx context.Context, orgID, id string) (*dto.AllocationResponse, error) {
	alloc, err := uc.allocRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if alloc == nil {
		return nil, domain.ErrNotFound
	}
	if alloc.OrganizationID != orgID {
		return nil, domain.ErrForbidden
	}
	return toAllocationResponse(alloc), nil
}

// ListByItem lista reservas de un ítem (paginado).
func (uc *AllocationUseCase) ListByItem(ctx context.Context, orgID, itemID string, limit, offset int) ([]*dto.AllocationResponse, error) {
	list, err := uc.allocRepo.ListByItem(ctx, itemID, limit, offset)
	if err != nil {
		return nil, err
	}
	return filterAllocationResponses(list, orgID), nil
}

// ListByJob lista reservas de un trabajo (paginado).
func (uc *AllocationUseCase) ListByJob(ctx context.Context, orgID, jobID string, limit, offset int) ([]*dto.AllocationResponse, error) {
	list, err := uc.allocRepo.ListByJob(ctx, jobID, limit, offset)
	if err != nil {
		return nil, err
	}
	return filterAllocationResponses(list, orgID), nil
}

// lockAllocation bloquea la reserva y valida existencia y organización.
func (uc *AllocationUseCase) lockAllocation(ctx context.Context, allocs repository.AllocationRepository, orgID, id string) (*entity.InventoryAllocation, error) {
	alloc, err := allocs.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if alloc == nil {
		return nil, domain.ErrNotFound
	}
	if alloc.OrganizationID != orgID {
		return nil, domain.ErrForbidden
	}
	return alloc, nil
}

func filterAllocationResponses(list []*entity.InventoryAllocation, orgID string) []*dto.AllocationResponse {
	out := make([]*dto.AllocationResponse, 0, len(list))
	for _, a := range list {
		if a.OrganizationID != orgID {
			continue
		}
		out = append(out, toAllocationResponse(a))
	}
	return out
}

func toAllocationResponse(a *entity.InventoryAllocation) *dto.AllocationResponse {
	return &dto.AllocationResponse{
		ID:                a.ID,
		ItemID:            a.ItemID,
		JobID:             a.JobID,
		BidID:             a.BidID,
		QuantityAllocated: a.QuantityAllocated,
		QuantityUsed:      a.QuantityUsed,
		QuantityReturned:  a.QuantityReturned,
		Status:            a.Status,
		AllocationDate:    a.AllocationDate,
		ExpectedUseDate:   a.ExpectedUseDate,
		ActualUseDate:     a.ActualUseDate,
		AllocatedBy:       a.AllocatedBy,
		Notes:             a.Notes,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}
