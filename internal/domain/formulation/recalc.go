package formulation

import (
	"github.com/shopspring/decimal"

	"github.com/feedmill/feedmill-backend/internal/domain/inventory"
)

// The owning service calls these at well-defined points after mutating a
// formulation's lines; nothing recomputes implicitly on persistence.

// RecalculateCost derives the per-kg blend cost from the current lines:
// sum(quantity * line cost) / sum(quantity), rounded to the costing scale.
func RecalculateCost(f *Formulation) {
	totalQty := decimal.Zero
	totalCost := decimal.Zero
	for i := range f.Ingredients {
		qty := decimal.NewFromFloat(f.Ingredients[i].QuantityKg)
		totalQty = totalQty.Add(qty)
		totalCost = totalCost.Add(qty.Mul(f.Ingredients[i].CostPerKg))
	}
	if totalQty.IsZero() {
		f.CostPerKg = decimal.Zero
		return
	}
	f.CostPerKg = totalCost.DivRound(totalQty, inventory.CostScale)
}

// RecalculatePercentages rewrites each line's percentage of the batch.
func RecalculatePercentages(f *Formulation) {
	if f.BatchSizeKg <= 0 {
		return
	}
	for i := range f.Ingredients {
		f.Ingredients[i].Percentage = f.Ingredients[i].QuantityKg / f.BatchSizeKg * 100
	}
}

// TotalQuantityKg sums the line quantities. For a finalized formulation this
// equals the batch size within rounding tolerance.
func TotalQuantityKg(f *Formulation) float64 {
	var total float64
	for i := range f.Ingredients {
		total += f.Ingredients[i].QuantityKg
	}
	return total
}
