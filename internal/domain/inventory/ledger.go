package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jdvalencia/fieldops-api/internal/domain"
	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
)

// ValidateSign verifica la convención de signos del ledger:
// receipt/return/initial_stock positivos; issue/write_off negativos;
// adjustment lleva delta firmado explícito distinto de cero.
func ValidateSign(txType string, quantity decimal.Decimal) error {
	switch txType {
	case entity.TxTypeReceipt, entity.TxTypeReturn, entity.TxTypeInitialStock:
		if !quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	case entity.TxTypeIssue, entity.TxTypeWriteOff:
		if !quantity.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	case entity.TxTypeAdjustment, entity.TxTypeTransfer:
		if quantity.IsZero() {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

// ApplyToProjection aplica el delta firmado de una transacción a la
// proyección de cantidades del ítem (función pura sobre el ítem ya
// bloqueado por fila). consumesAllocation indica que el movimiento consume
// una reserva (issue de una allocation): la cantidad emitida sale de
// QuantityAllocated en vez de QuantityAvailable. linkedToPO descuenta el
// delta de QuantityOnOrder (entradas de órdenes de compra).
//
// Ninguna cantidad puede quedar negativa: la proyección cumple siempre
// OnHand = Allocated + Available. Ante violación devuelve
// ErrInsufficientStock y deja el ítem sin modificar.
func ApplyToProjection(item *entity.InventoryItem, txType string, quantity decimal.Decimal, consumesAllocation, linkedToPO bool) error {
	if err := ValidateSign(txType, quantity); err != nil {
		return err
	}

	newOnHand := item.QuantityOnHand.Add(quantity)
	newAllocated := item.QuantityAllocated
	if consumesAllocation {
		// La emisión consume la reserva y el stock físico a la vez.
		newAllocated = newAllocated.Add(quantity)
	}
	newAvailable := newOnHand.Sub(newAllocated)

	if newOnHand.LessThan(decimal.Zero) || newAllocated.LessThan(decimal.Zero) || newAvailable.LessThan(decimal.Zero) {
		return domain.ErrInsufficientStock
	}

	item.QuantityOnHand = newOnHand
	item.QuantityAllocated = newAllocated
	item.QuantityAvailable = newAvailable

	if linkedToPO && quantity.GreaterThan(decimal.Zero) {
		newOnOrder := item.QuantityOnOrder.Sub(quantity)
		if newOnOrder.LessThan(decimal.Zero) {
			newOnOrder = decimal.Zero
		}
		item.QuantityOnOrder = newOnOrder
	}

	RederiveItemStatus(item)
	return nil
}

// Reserve registra una reserva: sube Allocated y baja Available sin tocar
// OnHand (la reserva no es un movimiento de stock, no genera fila de ledger).
func Reserve(item *entity.InventoryItem, quantity decimal.Decimal) error {
	if !quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if quantity.GreaterThan(item.QuantityAvailable) {
		return domain.ErrInsufficientStock
	}
	item.QuantityAllocated = item.QuantityAllocated.Add(quantity)
	item.QuantityAvailable = item.QuantityAvailable.Sub(quantity)
	return nil
}

// Release libera una reserva nunca emitida: operación inversa de Reserve.
func Release(item *entity.InventoryItem, quantity decimal.Decimal) error {
	if !quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if quantity.GreaterThan(item.QuantityAllocated) {
		return domain.ErrConflict
	}
	item.QuantityAllocated = item.QuantityAllocated.Sub(quantity)
	item.QuantityAvailable = item.QuantityAvailable.Add(quantity)
	return nil
}
