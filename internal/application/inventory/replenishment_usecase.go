package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jdvalencia/fieldops-api/internal/application/dto"
	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
	"github.com/jdvalencia/fieldops-api/internal/domain/repository"
)

const replenishmentPageSize = 500

// ReplenishmentUseCase sugiere reposiciones: ítems en o bajo su punto de
// reorden cuyo suministro pendiente (OnOrder) no cubre el déficit. La salida
// es insumo para crear órdenes de compra, ordenada por urgencia.
type ReplenishmentUseCase struct {
	itemRepo repository.ItemRepository
}

// NewReplenishmentUseCase construye el caso de uso.
func NewReplenishmentUseCase(itemRepo repository.ItemRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{itemRepo: itemRepo}
}

// Suggest calcula las sugerencias de reposición de la organización.
// La cantidad sugerida es ReorderQuantity si está definida; si no,
// reorden*1.5 - disponible proyectado. Prioridad 1 = mayor déficit relativo.
func (uc *ReplenishmentUseCase) Suggest(ctx context.Context, orgID string) ([]dto.ReplenishmentSuggestion, error) {
	var out []dto.ReplenishmentSuggestion

	for offset := 0; ; offset += replenishmentPageSize {
		page, err := uc.itemRepo.ListActive(ctx, orgID, "", replenishmentPageSize, offset)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		for _, item := range page {
			if s, ok := suggestFor(item); ok {
				out = append(out, s)
			}
		}
		if len(page) < replenishmentPageSize {
			break
		}
	}

	// Mayor déficit relativo primero; el código rompe empates para salida estable.
	sort.Slice(out, func(i, j int) bool {
		di := deficitRatio(out[i])
		dj := deficitRatio(out[j])
		if !di.Equal(dj) {
			return di.GreaterThan(dj)
		}
		return out[i].Code < out[j].Code
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}

func suggestFor(item *entity.InventoryItem) (dto.ReplenishmentSuggestion, bool) {
	if item.StatusOverride == entity.ItemStatusDiscontinued {
		return dto.ReplenishmentSuggestion{}, false
	}
	if item.QuantityOnHand.GreaterThan(item.ReorderLevel) {
		return dto.ReplenishmentSuggestion{}, false
	}
	// El suministro pendiente cubre el déficit: no sugerir doble pedido.
	projected := item.QuantityOnHand.Add(item.QuantityOnOrder)
	if projected.GreaterThan(item.ReorderLevel) {
		return dto.ReplenishmentSuggestion{}, false
	}

	var qty decimal.Decimal
	if item.ReorderQuantity.GreaterThan(decimal.Zero) {
		qty = item.ReorderQuantity
	} else {
		qty = item.ReorderLevel.Mul(decimal.NewFromFloat(1.5)).Sub(projected)
	}
	if !qty.GreaterThan(decimal.Zero) {
		return dto.ReplenishmentSuggestion{}, false
	}

	cost := item.AverageCost
	if cost.IsZero() {
		cost = item.UnitCost
	}
	return dto.ReplenishmentSuggestion{
		ItemID:            item.ID,
		Code:              item.Code,
		Name:              item.Name,
		SupplierID:        item.SupplierID,
		QuantityOnHand:    item.QuantityOnHand,
		QuantityOnOrder:   item.QuantityOnOrder,
		ReorderLevel:      item.ReorderLevel,
		SuggestedOrderQty: qty,
		UnitCost:          cost,
		EstimatedCost:     qty.Mul(cost),
	}, true
}

// deficitRatio mide la urgencia: (reorden - onHand) / max(reorden, 1).
func deficitRatio(s dto.ReplenishmentSuggestion) decimal.Decimal {
	base := s.ReorderLevel
	if !base.GreaterThan(decimal.Zero) {
		base = decimal.NewFromInt(1)
	}
	return s.ReorderLevel.Sub(s.QuantityOnHand).Div(base)
}
