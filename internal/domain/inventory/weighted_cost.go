package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost costo unitario tras una compra:
// (stock × costo actual + comprado × costo de compra) / (stock + comprado).
// Con stock negativo o nulo resultante devuelve el costo de compra.
func WeightedAverageCost(stock, currentCost, bought, purchaseCost decimal.Decimal) decimal.Decimal {
	if stock.IsNegative() {
		stock = decimal.Zero
	}
	total := stock.Add(bought)
	if !total.IsPositive() {
		return purchaseCost
	}
	return stock.Mul(currentCost).Add(bought.Mul(purchaseCost)).Div(total)
}
