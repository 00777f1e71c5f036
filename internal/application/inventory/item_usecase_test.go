package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdvalencia/fieldops-api/internal/application/dto"
	"github.com/jdvalencia/fieldops-api/internal/domain"
	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
)

func TestItemCreate_ConStockInicialQuedaTrazado(t *testing.T) {
	f := newFixture()
	initial := dec("25")

	item, err := f.itemUC.Create(context.Background(), orgA, user1, dto.CreateItemRequest{
		Code:            "TUB-PVC-12",
		Name:            "Tubo PVC 1/2\"",
		UnitCost:        dec("100"),
		ReorderLevel:    dec("10"),
		InitialQuantity: &initial,
	})
	require.NoError(t, err)

	assert.True(t, item.QuantityOnHand.Equal(dec("25")))
	assert.True(t, item.QuantityAvailable.Equal(dec("25")))
	assert.Equal(t, entity.ItemStatusInStock, item.Status)
	assert.True(t, item.AverageCost.Equal(dec("100")))

	require.Len(t, f.store.txs, 1, "el stock inicial entra por el ledger")
	tx := f.store.txs[0]
	assert.Equal(t, entity.TxTypeInitialStock, tx.Type)
	assert.True(t, tx.Quantity.Equal(dec("25")))
	assert.True(t, tx.BalanceAfter.Equal(dec("25")))
}

func TestItemCreate_SinStockInicialQuedaEnCero(t *testing.T) {
	f := newFixture()

	item, err := f.itemUC.Create(context.Background(), orgA, user1, dto.CreateItemRequest{
		Code:         "TUB-PVC-12",
		Name:         "Tubo PVC 1/2\"",
		ReorderLevel: dec("10"),
	})
	require.NoError(t, err)

	assert.True(t, item.QuantityOnHand.IsZero())
	assert.Equal(t, entity.ItemStatusOutOfStock, item.Status)
	assert.Empty(t, f.store.txs)
}

func TestItemCreate_CodigoDuplicadoEnLaOrganizacion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.itemUC.Create(ctx, orgA, user1, dto.CreateItemRequest{Code: "TUB-PVC-12", Name: "Tubo"})
	require.NoError(t, err)

	// mismo código, misma organización: duplicado (sin distinguir mayúsculas)
	_, err = f.itemUC.Create(ctx, orgA, user1, dto.CreateItemRequest{Code: "tub-pvc-12", Name: "Otro tubo"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// el mismo código en otra organización sí se permite
	_, err = f.itemUC.Create(ctx, orgB, user1, dto.CreateItemRequest{Code: "TUB-PVC-12", Name: "Tubo"})
	assert.NoError(t, err)
}

func TestItemCreate_Validaciones(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.itemUC.Create(ctx, orgA, user1, dto.CreateItemRequest{Name: "Sin código"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.itemUC.Create(ctx, orgA, user1, dto.CreateItemRequest{Code: "X-1", Name: "Negativo", UnitCost: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	neg := dec("-5")
	_, err = f.itemUC.Create(ctx, orgA, user1, dto.CreateItemRequest{Code: "X-2", Name: "Stock negativo", InitialQuantity: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemUpdate_RechazaEscrituraDirectaDeCantidades(t *testing.T) {
	f := newFixture()
	f.store.seedItem("item-1", "TUB-PVC-12", "50", "10")

	qty := dec("999")
	_, err := f.itemUC.Update(context.Background(), orgA, "item-1", dto.UpdateItemRequest{
		QuantityOnHand: &qty,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation, "las cantidades solo cambian vía ledger")
	assert.True(t, f.store.item("item-1").QuantityOnHand.Equal(dec("50")))
}

func TestItemUpdate_CamposNoCuantitativos(t *testing.T) {
	f := newFixture()
	f.store.seedItem("item-1", "TUB-PVC-12", "50", "10")

	name := "Tubo PVC 1/2\" presión"
	reorder := dec("20")
	updated, err := f.itemUC.Update(context.Background(), orgA, "item-1", dto.UpdateItemRequest{
		Name:         &name,
		ReorderLevel: &reorder,
	})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.True(t, updated.ReorderLevel.Equal(dec("20")))
	assert.Equal(t, "TUB-PVC-12", updated.Code, "el código no cambia")
}

func TestItemUpdate_StatusOverride(t *testing.T) {
	f := newFixture()
	f.store.seedItem("item-1", "TUB-PVC-12", "50", "10")
	ctx := context.Background()

	override := entity.ItemStatusDiscontinued
	updated, err := f.itemUC.Update(ctx, orgA, "item-1", dto.UpdateItemRequest{StatusOverride: &override})
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStatusDiscontinued, updated.Status, "el override manda sobre el estado derivado")

	// quitar el override vuelve al estado derivado de cantidades
	empty := ""
	updated, err = f.itemUC.Update(ctx, orgA, "item-1", dto.UpdateItemRequest{StatusOverride: &empty})
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStatusInStock, updated.Status)

	// solo "", on_order o discontinued
	bad := "congelado"
	_, err = f.itemUC.Update(ctx, orgA, "item-1", dto.UpdateItemRequest{StatusOverride: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemSoftDelete_BloqueadoConCompromisosAbiertos(t *testing.T) {
	f := newFixture()
	f.store.seedItem("item-1", "TUB-PVC-12", "50", "10")
	f.store.seedSupplier("sup-1")
	ctx := context.Background()

	// reserva abierta: bloquea
	alloc, err := f.allocUC.Create(ctx, orgA, user1, dto.CreateAllocationRequest{
		ItemID: "item-1", JobID: "job-7", Quantity: dec("5"),
	})
	require.NoError(t, err)
	err = f.itemUC.SoftDelete(ctx, orgA, "item-1")
	assert.ErrorIs(t, err, domain.ErrConflict)

	// cancelada la reserva, una línea pendiente de compra también bloquea
	_, err = f.allocUC.Cancel(ctx, orgA, user1, alloc.ID)
	require.NoError(t, err)
	po, err := f.poUC.Create(ctx, orgA, user1, dto.CreatePurchaseOrderRequest{
		SupplierID: "sup-1",
		Lines:      []dto.PurchaseOrderLineRequest{{ItemID: "item-1", Quantity: dec("10"), UnitCost: dec("90")}},
	})
	require.NoError(t, err)
	err = f.itemUC.SoftDelete(ctx, orgA, "item-1")
	assert.ErrorIs(t, err, domain.ErrConflict)

	// cerrados los compromisos, la eliminación procede y el historial queda
	_, err = f.poUC.Cancel(ctx, orgA, user1, po.ID)
	require.NoError(t, err)
	require.NoError(t, f.itemUC.SoftDelete(ctx, orgA, "item-1"))

	_, err = f.itemUC.GetByID(ctx, orgA, "item-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, f.store.item("item-1").IsDeleted, "borrado lógico, la fila se conserva")
}

func TestItemList_NoIncluyeEliminados(t *testing.T) {
	f := newFixture()
	f.store.seedItem("item-1", "TUB-PVC-12", "50", "10")
	f.store.seedItem("item-2", "COD-CU-34", "8", "5")
	ctx := context.Background()

	require.NoError(t, f.itemUC.SoftDelete(ctx, orgA, "item-2"))

	list, err := f.itemUC.List(ctx, orgA, 50, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "item-1", list[0].ID)
}
