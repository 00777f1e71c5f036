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

const countSnapshotPageSize = 500

// CountUseCase implementa los conteos físicos de inventario: snapshot de
// cantidades de sistema al iniciar, registro de lo contado por línea y, al
// completar, un ajuste vía ledger por cada línea contada con varianza
// distinta de cero. Un conteo cancelado no genera ajustes.
type CountUseCase struct {
	txRunner  TxRunner
	ledgerUC  *LedgerUseCase
	countRepo repository.CountRepository
	itemRepo  repository.ItemRepository
}

// NewCountUseCase construye el caso de uso.
func NewCountUseCase(txRunner TxRunner, ledgerUC *LedgerUseCase, countRepo repository.CountRepository, itemRepo repository.ItemRepository) *CountUseCase {
	return &CountUseCase{txRunner: txRunner, ledgerUC: ledgerUC, countRepo: countRepo, itemRepo: itemRepo}
}

// Start crea la sesión de conteo y toma el snapshot de líneas: una por ítem
// activo (opcionalmente filtrado por ubicación) con la cantidad de sistema
// al momento de iniciar. Queda en in_progress.
func (uc *CountUseCase) Start(ctx context.Context, orgID, userID string, in dto.StartCountRequest) (*dto.CountResponse, error) {
	switch in.CountType {
	case entity.CountTypeFull, entity.CountTypeCycle, entity.CountTypeSpot:
	default:
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	count := &entity.InventoryCount{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		CountNumber:    newCountNumber(now),
		CountType:      in.CountType,
		Status:         entity.CountStatusInProgress,
		LocationID:     in.LocationID,
		StartedBy:      userID,
		StartedAt:      &now,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := uc.txRunner.RunCount(ctx, func(
		items repository.ItemRepository,
		_ repository.TransactionRepository,
		counts repository.CountRepository,
	) error {
		if err := counts.Create(ctx, count); err != nil {
			return err
		}
		for offset := 0; ; offset += countSnapshotPageSize {
			page, err := items.ListActive(ctx, orgID, in.LocationID, countSnapshotPageSize, offset)
			if err != nil {
				return err
			}
			if len(page) == 0 {
				break
			}
			lines := make([]entity.InventoryCountItem, 0, len(page))
			for _, item := range page {
				lines = append(lines, entity.InventoryCountItem{
					ID:             uuid.New().String(),
					CountID:        count.ID,
					ItemID:         item.ID,
					SystemQuantity: item.QuantityOnHand,
					Variance:       decimal.Zero,
					VarianceCost:   decimal.Zero,
					UnitCost:       item.AverageCost,
				})
			}
			if err := counts.CreateItems(ctx, lines); err != nil {
				return err
			}
			count.Items = append(count.Items, lines...)
			if len(page) < countSnapshotPageSize {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toCountResponse(count, true), nil
}

// Record registra la cantidad contada de una línea. Solo sobre conteos
// in_progress; la varianza y su costo se recalculan con cada registro
// (registrar de nuevo sobreescribe el conteo anterior de la línea).
func (uc *CountUseCase) Record(ctx context.Context, orgID, userID, countID, itemID string, in dto.RecordCountRequest) (*dto.CountItemResponse, error) {
	if in.CountedQuantity.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	count, err := uc.getOwned(ctx, orgID, countID)
	if err != nil {
		return nil, err
	}
	if count.Status != entity.CountStatusInProgress {
		return nil, domain.ErrInvalidTransition
	}

	line, err := uc.countRepo.GetItem(ctx, countID, itemID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	counted := in.CountedQuantity
	line.CountedQuantity = &counted
	line.Variance = counted.Sub(line.SystemQuantity)
	line.VarianceCost = line.Variance.Mul(line.UnitCost)
	line.CountedBy = userID
	line.CountedAt = &now
	line.Notes = in.Notes
	if err := uc.countRepo.UpdateItem(ctx, line); err != nil {
		return nil, err
	}
	resp := toCountItemResponse(*line)
	return &resp, nil
}

// Complete cierra el conteo y aplica los ajustes: por cada línea contada con
// varianza distinta de cero, una transacción adjustment en el ledger por la
// varianza (positiva o negativa). Las líneas sin contar o sin varianza se
// omiten. Cabecera, líneas y ajustes en una sola transacción de BD.
func (uc *CountUseCase) Complete(ctx context.Context, orgID, userID, countID string) (*dto.CompleteCountResponse, error) {
	var result *dto.CompleteCountResponse
	err := uc.txRunner.RunCount(ctx, func(
		items repository.ItemRepository,
		ledger repository.TransactionRepository,
		counts repository.CountRepository,
	) error {
		count, err := counts.GetForUpdate(ctx, countID)
		if err != nil {
			return err
		}
		if count == nil {
			return domain.ErrNotFound
		}
		if count.OrganizationID != orgID {
			return domain.ErrForbidden
		}
		if count.Status != entity.CountStatusInProgress {
			return domain.ErrInvalidTransition
		}

		lines, err := counts.ListItems(ctx, countID)
		if err != nil {
			return err
		}

		now := time.Now()
		applied := 0
		skipped := 0
		for i := range lines {
			line := &lines[i]
			if !line.Counted() || line.Variance.IsZero() {
				skipped++
				continue
			}
			_, err := uc.ledgerUC.ApplyInTx(ctx, items, ledger, TransactionInput{
				OrganizationID: orgID,
				ItemID:         line.ItemID,
				Type:           entity.TxTypeAdjustment,
				Quantity:       line.Variance,
				Reference:      count.CountNumber,
				Notes:          line.Notes,
				PerformedBy:    userID,
			}, now)
			if err != nil {
				return err
			}
			applied++
		}

		count.Status = entity.CountStatusCompleted
		count.CompletedBy = userID
		count.CompletedAt = &now
		count.UpdatedAt = now
		if err := counts.UpdateHeader(ctx, count); err != nil {
			return err
		}
		result = &dto.CompleteCountResponse{
			CountID:            count.ID,
			AdjustmentsApplied: applied,
			LinesSkipped:       skipped,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel cancela un conteo in_progress sin tocar el ledger.
func (uc *CountUseCase) Cancel(ctx context.Context, orgID, userID, countID string) (*dto.CountResponse, error) {
	var updated *entity.InventoryCount
	err := uc.txRunner.RunCount(ctx, func(
		_ repository.ItemRepository,
		_ repository.TransactionRepository,
		counts repository.CountRepository,
	) error {
		count, err := counts.GetForUpdate(ctx, countID)
		if err != nil {
			return err
		}
		if count == nil {
			return domain.ErrNotFound
		}
		if count.OrganizationID != orgID {
			return domain.ErrForbidden
		}
		if count.Status != entity.CountStatusInProgress {
			return domain.ErrInvalidTransition
		}
		count.Status = entity.CountStatusCancelled
		count.UpdatedAt = time.Now()
		if err := counts.UpdateHeader(ctx, count); err != nil {
			return err
		}
		updated = count
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toCountResponse(updated, false), nil
}

// GetByID obtiene el conteo con sus líneas.
func (uc *CountUseCase) GetByID(ctx context.Context, orgID, countID string) (*dto.CountResponse, error) {
	count, err := uc.getOwned(ctx, orgID, countID)
	if err != nil {
		return nil, err
	}
	lines, err := uc.countRepo.ListItems(ctx, countID)
	if err != nil {
		return nil, err
	}
	count.Items = lines
	return toCountResponse(count, true), nil
}

// List lista los conteos de la organización, sin líneas.
func (uc *CountUseCase) List(ctx context.Context, orgID string, limit, offset int) ([]*dto.CountResponse, error) {
	list, err := uc.countRepo.ListByOrganization(ctx, orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CountResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCountResponse(c, false))
	}
	return out, nil
}

func (uc *CountUseCase) getOwned(ctx context.Context, orgID, id string) (*entity.InventoryCount, error) {
	count, err := uc.countRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if count == nil {
		return nil, domain.ErrNotFound
	}
	if count.OrganizationID != orgID {
		return nil, domain.ErrForbidden
	}
	return count, nil
}

// newCountNumber genera el consecutivo visible del conteo (CF-AAAA-XXXXXXXX).
func newCountNumber(now time.Time) string {
	return fmt.Sprintf("CF-%d-%s", now.Year(), strings.ToUpper(uuid.New().String()[:8]))
}

func toCountResponse(c *entity.InventoryCount, withItems bool) *dto.CountResponse {
	resp := &dto.CountResponse{
		ID:          c.ID,
		CountNumber: c.CountNumber,
		CountType:   c.CountType,
		Status:      c.Status,
		LocationID:  c.LocationID,
		StartedBy:   c.StartedBy,
		CompletedBy: c.CompletedBy,
		StartedAt:   c.StartedAt,
		CompletedAt: c.CompletedAt,
		Notes:       c.Notes,
		CreatedAt:   c.CreatedAt,
	}
	if withItems {
		resp.Items = make([]dto.CountItemResponse, 0, len(c.Items))
		for _, l := range c.Items {
			resp.Items = append(resp.Items, toCountItemResponse(l))
		}
	}
	return resp
}

func toCountItemResponse(l entity.InventoryCountItem) dto.CountItemResponse {
	return dto.CountItemResponse{
		ID:              l.ID,
		ItemID:          l.ItemID,
		SystemQuantity:  l.SystemQuantity,
		CountedQuantity: l.CountedQuantity,
		Variance:        l.Variance,
		VarianceCost:    l.VarianceCost,
		UnitCost:        l.UnitCost,
		CountedBy:       l.CountedBy,
		CountedAt:       l.CountedAt,
		Notes:           l.Notes,
	}
}
