package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jdvalencia/fieldops-api/internal/domain/inventory"
)

// TestWeightedAverageCost_Mezcla valida el promedio ponderado con un caso
// calculado a mano: (10*100 + 20*130) / 30 = 120.
func TestWeightedAverageCost_Mezcla(t *testing.T) {
	got := inventory.WeightedAverageCost(dec("10"), dec("100"), dec("20"), dec("130"))
	assert.True(t, got.Equal(dec("120")), "esperaba 120, obtuve %s", got)
}

func TestWeightedAverageCost_PrimeraEntrada(t *testing.T) {
	// Sin stock previo el promedio es el costo de la entrada.
	got := inventory.WeightedAverageCost(decimal.Zero, decimal.Zero, dec("15"), dec("42.50"))
	assert.True(t, got.Equal(dec("42.50")))
}

func TestWeightedAverageCost_SumaCeroDevuelveCero(t *testing.T) {
	// Caso degenerado (stock negativo que anula la entrada): no dividir por cero.
	got := inventory.WeightedAverageCost(dec("-5"), dec("100"), dec("5"), dec("100"))
	assert.True(t, got.IsZero())
}

func TestWeightedAverageCost_MismoCostoNoCambia(t *testing.T) {
	got := inventory.WeightedAverageCost(dec("100"), dec("37.25"), dec("50"), dec("37.25"))
	assert.True(t, got.Equal(dec("37.25")))
}
