package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jdvalencia/fieldops-api/internal/domain"
	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
	"github.com/jdvalencia/fieldops-api/internal/domain/repository"
)

// POLineForPDF línea de la orden enriquecida con los datos del ítem para el documento.
type POLineForPDF struct {
	ItemCode        string
	ItemName        string
	QuantityOrdered decimal.Decimal
	UnitCost        decimal.Decimal
	LineTotal       decimal.Decimal
}

// PurchaseOrderPDFGenerator puerto de generación del documento de la orden
// de compra para el proveedor.
type PurchaseOrderPDFGenerator interface {
	GeneratePurchaseOrderPDF(ctx context.Context, po *entity.InventoryPurchaseOrder, supplier *entity.Supplier, lines []POLineForPDF) ([]byte, error)
}

// PurchaseOrderPDFUseCase arma los datos del documento y delega al generador.
type PurchaseOrderPDFUseCase struct {
	poRepo       repository.PurchaseOrderRepository
	supplierRepo repository.SupplierRepository
	itemRepo     repository.ItemRepository
	generator    PurchaseOrderPDFGenerator
}

// NewPurchaseOrderPDFUseCase construye el caso de uso.
func NewPurchaseOrderPDFUseCase(
	poRepo repository.PurchaseOrderRepository,
	supplierRepo repository.SupplierRepository,
	itemRepo repository.ItemRepository,
	generator PurchaseOrderPDFGenerator,
) *PurchaseOrderPDFUseCase {
	return &PurchaseOrderPDFUseCase{poRepo: poRepo, supplierRepo: supplierRepo, itemRepo: itemRepo, generator: generator}
}

// Generate genera el PDF de la orden para enviar al proveedor.
func (uc *PurchaseOrderPDFUseCase) Generate(ctx context.Context, orgID, poID string) ([]byte, error) {
	po, err := uc.poRepo.GetByID(ctx, poID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	if po.OrganizationID != orgID {
		return nil, domain.ErrForbidden
	}

	supplier, err := uc.supplierRepo.GetByID(ctx, po.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}

	lines := make([]POLineForPDF, 0, len(po.Items))
	for i := range po.Items {
		l := &po.Items[i]
		code, name := l.ItemID, ""
		if item, err := uc.itemRepo.GetByID(ctx, l.ItemID); err != nil {
			return nil, err
		} else if item != nil {
			code, name = item.Code, item.Name
		}
		lines = append(lines, POLineForPDF{
			ItemCode:        code,
			ItemName:        name,
			QuantityOrdered: l.QuantityOrdered,
			UnitCost:        l.UnitCost,
			LineTotal:       l.LineTotal,
		})
	}

	return uc.generator.GeneratePurchaseOrderPDF(ctx, po, supplier, lines)
}
