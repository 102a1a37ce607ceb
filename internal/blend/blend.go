// Package blend implements the feed formulation generator: a greedy
// least-cost blend of raw materials approximating a nutrient profile's
// targets for a batch. It is pure computation over catalog snapshots; it
// never touches storage and never mutates its inputs.
package blend

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Nutrient string

const (
	NutrientProtein Nutrient = "protein"
	NutrientFat     Nutrient = "fat"
	NutrientFiber   Nutrient = "fiber"
	NutrientCalcium Nutrient = "calcium"
)

// trackedNutrients is the set the generator balances, in a stable order.
func trackedNutrients() []Nutrient {
	return []Nutrient{NutrientProtein, NutrientFat, NutrientFiber, NutrientCalcium}
}

// metToleranceKg is the absolute nutrient mass below which a requirement
// counts as met and the fill loop stops chasing it.
const metToleranceKg = 0.01

// costScale matches the ledger's unit-cost precision.
const costScale = 3

// Material is a candidate ingredient snapshot. Contents are percent by weight.
type Material struct {
	ID                  uuid.UUID
	Name                string
	CrudeProteinPct     float64
	MetabolizableEnergy float64
	CalciumPct          float64
	FatPct              float64
	FiberPct            float64
	AshPct              float64
	CostPerKg           decimal.Decimal
	InStockKg           float64
	Locked              bool
}

func (m Material) ContentPct(n Nutrient) float64 {
	switch n {
	case NutrientProtein:
		return m.CrudeProteinPct
	case NutrientFat:
		return m.FatPct
	case NutrientFiber:
		return m.FiberPct
	case NutrientCalcium:
		return m.CalciumPct
	default:
		return 0
	}
}

// Profile is the generation target: nutrient percentages plus the ingredient
// names that must or must not appear.
type Profile struct {
	Targets    map[Nutrient]float64
	Mandatory  []string
	Restricted []string
}

// Line is one blend line. Locked lines came in pre-placed and kept their
// quantity through the run.
type Line struct {
	MaterialID uuid.UUID
	Name       string
	QuantityKg float64
	Percentage float64
	CostPerKg  decimal.Decimal
	Locked     bool
}

// Placement fixes a material at a quantity before the fill loop runs, used to
// honor locked lines when re-optimizing an existing formulation.
type Placement struct {
	Material   Material
	QuantityKg float64
}

// Result is a generated blend. AchievedNutrients may fall short of the
// profile's targets when candidates run out; that is a normal result, not an
// error, and callers inspect the map to detect the shortfall.
type Result struct {
	Lines             []Line
	BatchSizeKg       float64
	CostPerKg         decimal.Decimal
	AchievedNutrients map[Nutrient]float64
}

// Options tunes a generation run. Zero value gives the default behavior.
type Options struct {
	// Scorer ranks fill-loop candidates; nil uses ProteinCostScorer.
	Scorer Scorer
	// Preplaced lines are fixed before mandatory placement and excluded from
	// rescaling during normalization.
	Preplaced []Placement
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
