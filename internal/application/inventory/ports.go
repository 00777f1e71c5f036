package inventory

import (
	"context"

	"github.com/jdvalencia/fieldops-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el núcleo de
// inventario: la lectura de cantidades (FOR UPDATE) y la escritura de la
// proyección ocurren en la misma transacción, con a lo sumo una mutación de
// cantidades en vuelo por ítem.
type TxRunner interface {
	// Run núcleo del ledger: ítems + transacciones.
	Run(ctx context.Context, fn func(
		items repository.ItemRepository,
		ledger repository.TransactionRepository,
	) error) error

	// RunAllocation añade el repositorio de reservas a la misma tx.
	RunAllocation(ctx context.Context, fn func(
		items repository.ItemRepository,
		ledger repository.TransactionRepository,
		allocs repository.AllocationRepository,
	) error) error

	// RunPurchase añade el repositorio de órdenes de compra a la misma tx.
	RunPurchase(ctx context.Context, fn func(
		items repository.ItemRepository,
		ledger repository.TransactionRepository,
		orders repository.PurchaseOrderRepository,
	) error) error

	// RunCount añade el repositorio de conteos a la misma tx.
	RunCount(ctx context.Context, fn func(
		items repository.ItemRepository,
		ledger repository.TransactionRepository,
		counts repository.CountRepository,
	) error) error
}
