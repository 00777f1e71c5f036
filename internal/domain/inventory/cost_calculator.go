package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost implementa la lógica de costo promedio ponderado
// (servicio de dominio). Se recalcula en cada entrada al ledger:
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func WeightedAverageCost(currentStock, currentCost, inQty, inCost decimal.Decimal) decimal.Decimal {
	sum := currentStock.Add(inQty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := currentStock.Mul(currentCost).Add(inQty.Mul(inCost))
	return num.Div(sum)
}
