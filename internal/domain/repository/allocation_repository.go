package repository

import (
	"context"

	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
)

// AllocationRepository define el puerto de persistencia para reservas.
type AllocationRepository interface {
	Create(ctx context.Context, alloc *entity.InventoryAllocation) error
	GetByID(ctx context.Context, id string) (*entity.InventoryAllocation, error)
	// GetForUpdate bloquea la fila de la reserva (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryAllocation, error)
	Update(ctx context.Context, alloc *entity.InventoryAllocation) error
	ListByItem(ctx context.Context, itemID string, limit, offset int) ([]*entity.InventoryAllocation, error)
	ListByJob(ctx context.Context, jobID string, limit, offset int) ([]*entity.InventoryAllocation, error)
	ListByBid(ctx context.Context, bidID string, limit, offset int) ([]*entity.InventoryAllocation, error)
	// CountOpenByItem cuenta reservas no terminales del ítem (bloqueo de soft-delete).
	CountOpenByItem(ctx context.Context, itemID string) (int, error)
}
