package inventory

import "github.com/shopspring/decimal"

// CostScale is the decimal precision of unit costs (currency per kg, mills).
const CostScale = 3

// NextAverageCost recomputes a material's weighted-average cost after a
// receipt: (Q0*C0 + q*c) / (Q0 + q), rounded to CostScale. An empty result
// quantity yields zero. Issues never call this; they leave the average alone.
func NextAverageCost(inStockKg float64, costPerKg decimal.Decimal, receiptKg float64, receiptUnitCost decimal.Decimal) decimal.Decimal {
	newQty := decimal.NewFromFloat(inStockKg).Add(decimal.NewFromFloat(receiptKg))
	if newQty.IsZero() {
		return decimal.Zero
	}
	totalValue := decimal.NewFromFloat(inStockKg).Mul(costPerKg).
		Add(decimal.NewFromFloat(receiptKg).Mul(receiptUnitCost))
	return totalValue.DivRound(newQty, CostScale)
}

// MovementValue is the booked total cost of a movement: quantity times the
// cost basis, rounded to CostScale.
func MovementValue(quantityKg float64, unitCost decimal.Decimal) decimal.Decimal {
	return decimal.NewFromFloat(quantityKg).Mul(unitCost).Round(CostScale)
}
