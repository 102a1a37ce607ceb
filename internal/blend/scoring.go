package blend

// Scorer ranks fill-loop candidates; lower is better. It sees the material and
// the remaining required nutrient masses (kg) for the batch.
type Scorer interface {
	Score(m Material, required map[Nutrient]float64) float64
}

// scoreEpsilon keeps the denominator nonzero for protein-free candidates.
const scoreEpsilon = 1e-9

// ProteinCostScorer is the default cost-effectiveness heuristic: cost per kg
// divided by the material's potential protein contribution. It deliberately
// considers only protein when ranking candidates; swap the Scorer to weigh the
// other tracked nutrients.
type ProteinCostScorer struct{}

func (ProteinCostScorer) Score(m Material, required map[Nutrient]float64) float64 {
	cost, _ := m.CostPerKg.Float64()
	return cost / (m.CrudeProteinPct*required[NutrientProtein] + scoreEpsilon)
}
