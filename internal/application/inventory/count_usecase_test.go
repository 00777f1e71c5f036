package inventory_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdvalencia/fieldops-api/internal/application/dto"
	"github.com/jdvalencia/fieldops-api/internal/domain"
	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
)

func TestCountStart_TomaSnapshotDeItemsActivos(t *testing.T) {
	f := newFixture()
	f.store.seedItem("item-1", "TUB-PVC-12", "50", "10")
	f.store.seedItem("item-2", "COD-CU-34", "8", "5")
	deleted := f.store.seedItem("item-3", "VAL-BR-1", "3", "1")
	require.NoError(t, f.items.SoftDelete(context.Background(), deleted.ID))

	count, err := f.countUC.Start(context.Background(), orgA, user1, dto.StartCountRequest{
		CountType: entity.CountTypeFull,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.CountStatusInProgress, count.Status)
	assert.True(t, strings.HasPrefix(count.CountNumber, "CF-"), "consecutivo CF-AAAA-XXXXXXXX")
	require.Len(t, count.Items, 2, "el ítem eliminado no entra al snapshot")

	byItem := map[string]dto.CountItemResponse{}
	for _, li := range count.Items {
		byItem[li.ItemID] = li
	}
	assert.True(t, byItem["item-1"].SystemQuantity.Equal(dec("50")), "la cantidad de sistema es el OnHand al iniciar")
	assert.True(t, byItem["item-2"].SystemQuantity.Equal(dec("8")))
	assert.Nil(t, byItem["item-1"].CountedQuantity, "nada contado todavía")
}

func TestCountStart_TipoInvalido(t *testing.T) {
	f := newFixture()
	_, err := f.countUC.Start(context.Background(), orgA, user1, dto.StartCountRequest{
		CountType: "anual",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCountRecord_CalculaVarianza(t *testing.T) {
	f := newFixture()
	item := f.store.seedItem("item-1", "TUB-PVC-12", "50", "10")
	item.AverageCost = dec("100")
	f.store.items[item.ID] = *item
	ctx := context.Background()

	count, err := f.countUC.Start(ctx, orgA, user1, dto.StartCountRequest{CountType: entity.CountTypeCycle})
	require.NoError(t, err)

	line, err := f.countUC.Record(ctx, orgA, user1, count.ID, "item-1", dto.RecordCountRequest{
		CountedQuantity: dec("48"),
	})
	require.NoError(t, err)

	require.NotNil(t, line.CountedQuantity)
	assert.True(t, line.CountedQuantity.Equal(dec("48")))
	assert.True(t, line.Variance.Equal(dec("-2")), "varianza = contado - sistema")
	assert.True(t, line.VarianceCost.Equal(dec("-200")), "al costo promedio del snapshot")
	assert.Equal(t, user1, line.CountedBy)

	// volver a registrar sobreescribe, no acumula
	line, err = f.countUC.Record(ctx, orgA, user1, count.ID, "item-1", dto.RecordCountRequest{
		CountedQuantity: dec("51"),
	})
	require.NoError(t, err)
	assert.True(t, line.Variance.Equal(dec("1")))
}

func TestCountRecord_Validaciones(t *testing.T) {
	f := newFixture()
	f.store.seedItem("item-1", "TUB-PVC-12", "50", "10")
	ctx := context.Background()

	count, err := f.countUC.Start(ctx, orgA, user1, dto.StartCountRequest{CountType: entity.CountTypeSpot})
	require.NoError(t, err)

	// cantidad negativa
	_, err = f.countUC.Record(ctx, orgA, user1, count.ID, "item-1", dto.RecordCountRequest{
		CountedQuantity: dec("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// ítem que no está en el snapshot
	_, err = f.countUC.Record(ctx, orgA, user1, count.ID, "item-9", dto.RecordCountRequest{
		CountedQuantity: dec("5"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// sobre un conteo cancelado no se registra nada
	_, err = f.countUC.Cancel(ctx, orgA, user1, count.ID)
	require.NoError(t, err)
	_, err = f.countUC.Record(ctx, orgA, user1, count.ID, "item-1", dto.RecordCountRequest{
		CountedQuantity: dec("5"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// Escenario de referencia de la conciliación: se cuentan 48 de 50, el cierre
// aplica un ajuste de -2 vía ledger y la proyección queda en 48.
func TestCountComplete_AplicaAjustesPorVarianza(t *testing.T) {
	f := newFixture()
	f.store.seedItem("item-1", "TUB-PVC-12", "50", "10")
	f.store.seedItem("item-2", "COD-CU-34", "8", "5")
	f.store.seedItem("item-3", "VAL-BR-1", "3", "1")
	ctx := context.Background()

	count, err := f.countUC.Start(ctx, orgA, user1, dto.StartCountRequest{CountType: entity.CountTypeFull})
	require.NoError(t, err)

	// item-1 con faltante, item-2 exacto, item-3 sin contar
	_, err = f.countUC.Record(ctx, orgA, user1, count.ID, "item-1", dto.RecordCountRequest{CountedQuantity: dec("48")})
	require.NoError(t, err)
	_, err = f.countUC.Record(ctx, orgA, user1, count.ID, "item-2", dto.RecordCountRequest{CountedQuantity: dec("8")})
	require.NoError(t, err)

	result, err := f.countUC.Complete(ctx, orgA, user1, count.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.AdjustmentsApplied, "solo la línea con varianza genera ajuste")
	assert.Equal(t, 2, result.LinesSkipped, "la exacta y la no contada se omiten")

	require.Len(t, f.store.txs, 1)
	adj := f.store.txs[0]
	assert.Equal(t, entity.TxTypeAdjustment, adj.Type)
	assert.True(t, adj.Quantity.Equal(dec("-2")))
	assert.Equal(t, count.CountNumber, adj.Reference)

	assert.True(t, f.store.item("item-1").QuantityOnHand.Equal(dec("48")))
	assert.True(t, f.store.item("item-2").QuantityOnHand.Equal(dec("8")), "sin varianza no se toca")
	assert.True(t, f.store.item("item-3").QuantityOnHand.Equal(dec("3")), "sin contar no se toca")

	// completed es terminal
	_, err = f.countUC.Complete(ctx, orgA, user1, count.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCountComplete_SobranteGeneraAjustePositivo(t *testing.T) {
	f := newFixture()
	f.store.seedItem("item-1", "TUB-PVC-12", "50", "10")
	ctx := context.Background()

	count, err := f.countUC.Start(ctx, orgA, user1, dto.StartCountRequest{CountType: entity.CountTypeCycle})
	require.NoError(t, err)
	_, err = f.countUC.Record(ctx, orgA, user1, count.ID, "item-1", dto.RecordCountRequest{CountedQuantity: dec("53")})
	require.NoError(t, err)

	_, err = f.countUC.Complete(ctx, orgA, user1, count.ID)
	require.NoError(t, err)

	require.Len(t, f.store.txs, 1)
	assert.True(t, f.store.txs[0].Quantity.Equal(dec("3")))
	assert.True(t, f.store.item("item-1").QuantityOnHand.Equal(dec("53")))
}

func TestCountCancel_NoGeneraLedger(t *testing.T) {
	f := newFixture()
	f.store.seedItem("item-1", "TUB-PVC-12", "50", "10")
	ctx := context.Background()

	count, err := f.countUC.Start(ctx, orgA, user1, dto.StartCountRequest{CountType: entity.CountTypeSpot})
	require.NoError(t, err)
	_, err = f.countUC.Record(ctx, orgA, user1, count.ID, "item-1", dto.RecordCountRequest{CountedQuantity: dec("40")})
	require.NoError(t, err)

	cancelled, err := f.countUC.Cancel(ctx, orgA, user1, count.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CountStatusCancelled, cancelled.Status)

	assert.Empty(t, f.store.txs, "cancelar descarta las varianzas registradas")
	assert.True(t, f.store.item("item-1").QuantityOnHand.Equal(dec("50")))

	// cancelado es terminal: ni completar ni volver a cancelar
	_, err = f.countUC.Complete(ctx, orgA, user1, count.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.countUC.Cancel(ctx, orgA, user1, count.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCount_OrganizacionAjena(t *testing.T) {
	f := newFixture()
	f.store.seedItem("item-1", "TUB-PVC-12", "50", "10")
	ctx := context.Background()

	count, err := f.countUC.Start(ctx, orgA, user1, dto.StartCountRequest{CountType: entity.CountTypeFull})
	require.NoError(t, err)

	_, err = f.countUC.GetByID(ctx, orgB, count.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.countUC.Complete(ctx, orgB, user1, count.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
