package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jdvalencia/fieldops-api/internal/application/dto"
	"github.com/jdvalencia/fieldops-api/internal/domain"
	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
	domaininv "github.com/jdvalencia/fieldops-api/internal/domain/inventory"
	"github.com/jdvalencia/fieldops-api/internal/domain/repository"
	"github.com/jdvalencia/fieldops-api/pkg/metrics"
)

const alertScanPageSize = 500

// StockAlertUseCase implementa el monitor de alertas de stock. Las alertas
// son señales derivadas (no filas del ledger): RunCheck las levanta cuando
// detecta la condición y nunca las cierra; reconocer y resolver son
// transiciones explícitas de una sola vía.
type StockAlertUseCase struct {
	itemRepo  repository.ItemRepository
	alertRepo repository.StockAlertRepository

	// Horizonte para alertas de vencimiento de ítems con lote/serie.
	expiryHorizon time.Duration
}

// NewStockAlertUseCase construye el caso de uso.
func NewStockAlertUseCase(itemRepo repository.ItemRepository, alertRepo repository.StockAlertRepository, expiryHorizon time.Duration) *StockAlertUseCase {
	return &StockAlertUseCase{itemRepo: itemRepo, alertRepo: alertRepo, expiryHorizon: expiryHorizon}
}

// RunCheck recorre los ítems activos de la organización y levanta alertas
// para las condiciones vigentes sin alerta abierta del mismo tipo. La
// evaluación es idempotente: correr dos veces no duplica alertas.
func (uc *StockAlertUseCase) RunCheck(ctx context.Context, orgID string) (*dto.AlertCheckResponse, error) {
	now := time.Now()
	evaluated := 0
	raised := 0

	for offset := 0; ; offset += alertScanPageSize {
		page, err := uc.itemRepo.ListActive(ctx, orgID, "", alertScanPageSize, offset)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		for _, item := range page {
			evaluated++
			for _, cand := range domaininv.EvaluateItem(item, now, uc.expiryHorizon) {
				open, err := uc.alertRepo.ExistsOpen(ctx, item.ID, cand.AlertType)
				if err != nil {
					return nil, err
				}
				if open {
					continue
				}
				alert := &entity.InventoryStockAlert{
					ID:             uuid.New().String(),
					OrganizationID: orgID,
					ItemID:         item.ID,
					AlertType:      cand.AlertType,
					Severity:       cand.Severity,
					Message:        cand.Message,
					QuantityOnHand: item.QuantityOnHand,
					ReorderLevel:   item.ReorderLevel,
					CreatedAt:      now,
				}
				if err := uc.alertRepo.Create(ctx, alert); err != nil {
					return nil, err
				}
				metrics.AlertRaised(cand.AlertType)
				raised++
			}
		}
		if len(page) < alertScanPageSize {
			break
		}
	}

	return &dto.AlertCheckResponse{ItemsEvaluated: evaluated, AlertsRaised: raised}, nil
}

// Acknowledge marca la alerta como reconocida. Reconocer dos veces es una
// transición inválida; la resolución no requiere reconocimiento previo.
func (uc *StockAlertUseCase) Acknowledge(ctx context.Context, orgID, userID, alertID string) (*dto.AlertResponse, error) {
	alert, err := uc.getOwned(ctx, orgID, alertID)
	if err != nil {
		return nil, err
	}
	if alert.IsAcknowledged || alert.IsResolved {
		return nil, domain.ErrInvalidTransition
	}
	now := time.Now()
	alert.IsAcknowledged = true
	alert.AcknowledgedBy = userID
	alert.AcknowledgedAt = &now
	if err := uc.alertRepo.Update(ctx, alert); err != nil {
		return nil, err
	}
	return toAlertResponse(alert), nil
}

// Resolve marca la alerta como resuelta (transición terminal).
func (uc *StockAlertUseCase) Resolve(ctx context.Context, orgID, userID, alertID string, in dto.ResolveAlertRequest) (*dto.AlertResponse, error) {
	alert, err := uc.getOwned(ctx, orgID, alertID)
	if err != nil {
		return nil, err
	}
	if alert.IsResolved {
		return nil, domain.ErrInvalidTransition
	}
	now := time.Now()
	alert.IsResolved = true
	alert.ResolvedBy = userID
	alert.ResolvedAt = &now
	alert.ResolutionNotes = in.Notes
	if err := uc.alertRepo.Update(ctx, alert); err != nil {
		return nil, err
	}
	return toAlertResponse(alert), nil
}

// ListOpen lista las alertas abiertas (no resueltas) de la organización.
func (uc *StockAlertUseCase) ListOpen(ctx context.Context, orgID string, limit, offset int) ([]*dto.AlertResponse, error) {
	list, err := uc.alertRepo.ListOpenByOrganization(ctx, orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.AlertResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAlertResponse(a))
	}
	return out, nil
}

func (uc *StockAlertUseCase) getOwned(ctx context.Context, orgID, id string) (*entity.InventoryStockAlert, error) {
	alert, err := uc.alertRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, domain.ErrNotFound
	}
	if alert.OrganizationID != orgID {
		return nil, domain.ErrForbidden
	}
	return alert, nil
}

func toAlertResponse(a *entity.InventoryStockAlert) *dto.AlertResponse {
	return &dto.AlertResponse{
		ID:              a.ID,
		ItemID:          a.ItemID,
		AlertType:       a.AlertType,
		Severity:        a.Severity,
		Message:         a.Message,
		QuantityOnHand:  a.QuantityOnHand,
		ReorderLevel:    a.ReorderLevel,
		IsAcknowledged:  a.IsAcknowledged,
		AcknowledgedBy:  a.AcknowledgedBy,
		AcknowledgedAt:  a.AcknowledgedAt,
		IsResolved:      a.IsResolved,
		ResolvedBy:      a.ResolvedBy,
		ResolvedAt:      a.ResolvedAt,
		ResolutionNotes: a.ResolutionNotes,
		CreatedAt:       a.CreatedAt,
	}
}
