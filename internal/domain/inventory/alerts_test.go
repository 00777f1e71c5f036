package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
	"github.com/jdvalencia/fieldops-api/internal/domain/inventory"
)

const horizonte30d = 30 * 24 * time.Hour

func alertTypes(cands []inventory.AlertCandidate) []string {
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.AlertType)
	}
	return out
}

func TestEvaluateItem_SinExistencias_Critical(t *testing.T) {
	item := itemWith("0", "0")
	now := time.Now()

	cands := inventory.EvaluateItem(item, now, horizonte30d)
	require.Len(t, cands, 1)
	assert.Equal(t, entity.AlertTypeOutOfStock, cands[0].AlertType)
	assert.Equal(t, entity.AlertSeverityCritical, cands[0].Severity)
	assert.Contains(t, cands[0].Message, item.Code)
}

func TestEvaluateItem_BajoReorden_Warning(t *testing.T) {
	item := itemWith("5", "0") // reorder level 10
	cands := inventory.EvaluateItem(item, time.Now(), horizonte30d)

	require.Len(t, cands, 1)
	assert.Equal(t, entity.AlertTypeLowStock, cands[0].AlertType)
	assert.Equal(t, entity.AlertSeverityWarning, cands[0].Severity)
}

func TestEvaluateItem_OutOfStockYLowStockSonExcluyentes(t *testing.T) {
	// Un ítem sin existencias está también bajo el reorden, pero solo debe
	// salir la condición más severa.
	item := itemWith("0", "0")
	cands := inventory.EvaluateItem(item, time.Now(), horizonte30d)
	assert.Equal(t, []string{entity.AlertTypeOutOfStock}, alertTypes(cands))
}

func TestEvaluateItem_SobreElMaximo_Info(t *testing.T) {
	item := itemWith("500", "0")
	max := dec("100")
	item.MaxStockLevel = &max

	cands := inventory.EvaluateItem(item, time.Now(), horizonte30d)
	require.Len(t, cands, 1)
	assert.Equal(t, entity.AlertTypeOverstock, cands[0].AlertType)
	assert.Equal(t, entity.AlertSeverityInfo, cands[0].Severity)
}

func TestEvaluateItem_SinMaximoNoHayOverstock(t *testing.T) {
	item := itemWith("500", "0")
	item.MaxStockLevel = nil

	cands := inventory.EvaluateItem(item, time.Now(), horizonte30d)
	assert.NotContains(t, alertTypes(cands), entity.AlertTypeOverstock)
}

func TestEvaluateItem_LoteProximoAVencer(t *testing.T) {
	item := itemWith("20", "0")
	item.TrackByBatch = true
	expiry := time.Now().Add(10 * 24 * time.Hour) // vence en 10 días, horizonte 30
	item.ExpiryDate = &expiry

	cands := inventory.EvaluateItem(item, time.Now(), horizonte30d)
	assert.Contains(t, alertTypes(cands), entity.AlertTypeExpiring)
}

func TestEvaluateItem_VencimientoFueraDelHorizonte(t *testing.T) {
	item := itemWith("20", "0")
	item.TrackByBatch = true
	expiry := time.Now().Add(90 * 24 * time.Hour)
	item.ExpiryDate = &expiry

	cands := inventory.EvaluateItem(item, time.Now(), horizonte30d)
	assert.NotContains(t, alertTypes(cands), entity.AlertTypeExpiring)
}

func TestEvaluateItem_VencimientoSinSeguimientoSeIgnora(t *testing.T) {
	// La fecha de vencimiento solo aplica a ítems con lote o serie.
	item := itemWith("20", "0")
	expiry := time.Now().Add(5 * 24 * time.Hour)
	item.ExpiryDate = &expiry

	cands := inventory.EvaluateItem(item, time.Now(), horizonte30d)
	assert.NotContains(t, alertTypes(cands), entity.AlertTypeExpiring)
}

func TestEvaluateItem_VencimientoSinStockSeIgnora(t *testing.T) {
	item := itemWith("0", "0")
	item.TrackByBatch = true
	expiry := time.Now().Add(5 * 24 * time.Hour)
	item.ExpiryDate = &expiry

	cands := inventory.EvaluateItem(item, time.Now(), horizonte30d)
	assert.NotContains(t, alertTypes(cands), entity.AlertTypeExpiring,
		"sin existencias no hay lote que vencer")
}

func TestEvaluateItem_CondicionesCombinadas(t *testing.T) {
	// low_stock + expiring a la vez
	item := itemWith("5", "0") // reorder 10
	item.TrackBySerial = true
	expiry := time.Now().Add(2 * 24 * time.Hour)
	item.ExpiryDate = &expiry

	cands := inventory.EvaluateItem(item, time.Now(), horizonte30d)
	types := alertTypes(cands)
	assert.Contains(t, types, entity.AlertTypeLowStock)
	assert.Contains(t, types, entity.AlertTypeExpiring)
	assert.Len(t, cands, 2)
}

func TestEvaluateItem_DescontinuadoNoAlerta(t *testing.T) {
	item := itemWith("0", "0")
	item.StatusOverride = entity.ItemStatusDiscontinued

	assert.Empty(t, inventory.EvaluateItem(item, time.Now(), horizonte30d))
}

func TestEvaluateItem_EliminadoNoAlerta(t *testing.T) {
	item := itemWith("0", "0")
	item.IsDeleted = true

	assert.Empty(t, inventory.EvaluateItem(item, time.Now(), horizonte30d))
}

func TestEvaluateItem_SaludableNoAlerta(t *testing.T) {
	item := itemWith("50", "0") // reorder 10, sin máximo, sin vencimiento
	assert.Empty(t, inventory.EvaluateItem(item, time.Now(), horizonte30d))
}
