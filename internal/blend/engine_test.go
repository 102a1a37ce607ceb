package blend

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedmill/feedmill-backend/internal/pkg/apperr"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func material(name string, cp float64, cost string, stock float64) Material {
	return Material{
		ID:              uuid.New(),
		Name:            name,
		CrudeProteinPct: cp,
		CostPerKg:       dec(cost),
		InStockKg:       stock,
	}
}

func totalQuantity(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		total += l.QuantityKg
	}
	return total
}

func totalPercentage(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		total += l.Percentage
	}
	return total
}

func TestGenerateRejectsNonPositiveBatchSize(t *testing.T) {
	t.Parallel()
	_, err := Generate(Profile{}, nil, 0, Options{})
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = Generate(Profile{}, nil, -10, Options{})
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestGenerateTwoIngredientProteinScenario(t *testing.T) {
	t.Parallel()
	// protein target 20% of a 1000kg batch -> 200kg of protein required.
	profile := Profile{Targets: map[Nutrient]float64{NutrientProtein: 20}}
	soy := material("soybean meal", 40, "10", 5000)
	bran := material("rice bran", 10, "2", 5000)

	res, err := Generate(profile, []Material{soy, bran}, 1000, Options{})
	require.NoError(t, err)

	// Bran scores better (2/(10*200) < 10/(40*200)) and alone can cover the
	// need: 200kg * 100 / 10% = 2000kg, rescaled to the 1000kg batch.
	require.Len(t, res.Lines, 1)
	assert.Equal(t, "rice bran", res.Lines[0].Name)
	assert.InDelta(t, 1000, res.Lines[0].QuantityKg, 1e-6)
	assert.InDelta(t, 100, res.Lines[0].Percentage, 1e-6)

	// Achieved protein after normalization: 1000 * 10% / 1000 * 100 = 10%.
	assert.InDelta(t, 10, res.AchievedNutrients[NutrientProtein], 1e-6)
	assert.True(t, res.CostPerKg.Equal(dec("2")), "got %s", res.CostPerKg)
}

func TestGenerateNormalizationSumsToBatchSize(t *testing.T) {
	t.Parallel()
	profile := Profile{
		Targets: map[Nutrient]float64{
			NutrientProtein: 18,
			NutrientFat:     4,
			NutrientFiber:   6,
			NutrientCalcium: 1,
		},
		Mandatory: []string{"fish meal"},
	}
	fish := material("fish meal", 60, "45", 800)
	soy := material("soybean meal", 44, "12", 2000)
	soy.FatPct = 1.5
	soy.FiberPct = 6
	maize := material("maize", 9, "6", 3000)
	maize.FatPct = 4
	maize.FiberPct = 2.5
	limestone := material("limestone", 0, "1", 500)
	limestone.CalciumPct = 38

	res, err := Generate(profile, []Material{fish, soy, maize, limestone}, 2000, Options{})
	require.NoError(t, err)
	require.NotEmpty(t, res.Lines)

	assert.InEpsilon(t, 2000, totalQuantity(res.Lines), 1e-6)
	assert.InEpsilon(t, 100, totalPercentage(res.Lines), 1e-6)
}

func TestGenerateMandatoryPlacementSizing(t *testing.T) {
	t.Parallel()
	// Mandatory quantity contributes 5% of the protein requirement:
	// 0.05 * 200kg / (50/100) = 20kg before normalization.
	profile := Profile{
		Targets:   map[Nutrient]float64{NutrientProtein: 20},
		Mandatory: []string{"fish meal"},
	}
	fish := material("fish meal", 50, "45", 1000)

	res, err := Generate(profile, []Material{fish}, 1000, Options{})
	require.NoError(t, err)

	// Fish meal is placed as mandatory (20kg), then picked again is impossible
	// (already used), so the loop breaks nutrient-short and the 20kg line is
	// rescaled to the full batch.
	require.Len(t, res.Lines, 1)
	assert.Equal(t, "fish meal", res.Lines[0].Name)
	assert.InDelta(t, 1000, res.Lines[0].QuantityKg, 1e-6)
	assert.InDelta(t, 50, res.AchievedNutrients[NutrientProtein], 1e-6)
}

func TestGenerateMandatoryMissingFails(t *testing.T) {
	t.Parallel()
	profile := Profile{
		Targets:   map[Nutrient]float64{NutrientProtein: 20},
		Mandatory: []string{"fish meal"},
	}
	_, err := Generate(profile, []Material{material("maize", 9, "6", 1000)}, 1000, Options{})
	require.ErrorIs(t, err, apperr.ErrMandatoryUnavailable)
}

func TestGenerateMandatoryOutOfStockFails(t *testing.T) {
	t.Parallel()
	profile := Profile{
		Targets:   map[Nutrient]float64{NutrientProtein: 20},
		Mandatory: []string{"fish meal"},
	}
	// Zero stock removes the material from the candidate set entirely.
	_, err := Generate(profile, []Material{material("fish meal", 60, "45", 0)}, 1000, Options{})
	require.ErrorIs(t, err, apperr.ErrMandatoryUnavailable)
}

func TestGenerateRestrictedIngredientNeverSelected(t *testing.T) {
	t.Parallel()
	profile := Profile{
		Targets:    map[Nutrient]float64{NutrientProtein: 20},
		Restricted: []string{"Meat Meal"},
	}
	meat := material("meat meal", 55, "1", 5000) // cheapest by far, but restricted
	soy := material("soybean meal", 44, "12", 5000)

	res, err := Generate(profile, []Material{meat, soy}, 1000, Options{})
	require.NoError(t, err)
	for _, line := range res.Lines {
		assert.NotEqual(t, "meat meal", line.Name)
	}
}

func TestGenerateLockedMaterialSkippedByFillLoop(t *testing.T) {
	t.Parallel()
	profile := Profile{Targets: map[Nutrient]float64{NutrientProtein: 20}}
	locked := material("fish meal", 60, "1", 5000)
	locked.Locked = true
	soy := material("soybean meal", 44, "12", 5000)

	res, err := Generate(profile, []Material{locked, soy}, 1000, Options{})
	require.NoError(t, err)
	require.Len(t, res.Lines, 1)
	assert.Equal(t, "soybean meal", res.Lines[0].Name)
}

func TestGenerateLockedMaterialStillUsableAsMandatory(t *testing.T) {
	t.Parallel()
	profile := Profile{
		Targets:   map[Nutrient]float64{NutrientProtein: 20},
		Mandatory: []string{"fish meal"},
	}
	locked := material("fish meal", 60, "45", 5000)
	locked.Locked = true

	res, err := Generate(profile, []Material{locked}, 1000, Options{})
	require.NoError(t, err)
	require.Len(t, res.Lines, 1)
	assert.Equal(t, "fish meal", res.Lines[0].Name)
}

func TestGeneratePartialFulfillmentIsSoft(t *testing.T) {
	t.Parallel()
	// One candidate with barely any stock: the loop runs out of materials and
	// returns a nutrient-short blend instead of failing.
	profile := Profile{Targets: map[Nutrient]float64{NutrientProtein: 20}}
	scarce := material("soybean meal", 44, "12", 50)

	res, err := Generate(profile, []Material{scarce}, 1000, Options{})
	require.NoError(t, err)
	require.Len(t, res.Lines, 1)
	assert.Less(t, res.AchievedNutrients[NutrientProtein], 20.0)
}

func TestGenerateZeroProteinMandatoryFallsBackToOnePercent(t *testing.T) {
	t.Parallel()
	profile := Profile{
		Targets:   map[Nutrient]float64{NutrientProtein: 20, NutrientCalcium: 1},
		Mandatory: []string{"limestone"},
	}
	limestone := material("limestone", 0, "1", 500)
	limestone.CalciumPct = 38
	soy := material("soybean meal", 44, "12", 5000)

	res, err := Generate(profile, []Material{limestone, soy}, 1000, Options{})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(res.Lines), 2)
	assert.Equal(t, "limestone", res.Lines[0].Name)
	assert.Greater(t, res.Lines[0].QuantityKg, 0.0)
}

func TestGeneratePreplacedLockedLinesKeepQuantity(t *testing.T) {
	t.Parallel()
	profile := Profile{Targets: map[Nutrient]float64{NutrientProtein: 20}}
	fish := material("fish meal", 60, "45", 5000)
	soy := material("soybean meal", 44, "12", 5000)

	res, err := Generate(profile, []Material{soy}, 1000, Options{
		Preplaced: []Placement{{Material: fish, QuantityKg: 250}},
	})
	require.NoError(t, err)

	require.NotEmpty(t, res.Lines)
	require.True(t, res.Lines[0].Locked)
	assert.Equal(t, "fish meal", res.Lines[0].Name)
	assert.InDelta(t, 250, res.Lines[0].QuantityKg, 1e-9, "locked line must not be rescaled")

	assert.InEpsilon(t, 1000, totalQuantity(res.Lines), 1e-6)
	assert.InEpsilon(t, 100, totalPercentage(res.Lines), 1e-6)
}

func TestGenerateCostSummary(t *testing.T) {
	t.Parallel()
	profile := Profile{Targets: map[Nutrient]float64{NutrientProtein: 20}}
	soy := material("soybean meal", 40, "10", 400)
	bran := material("rice bran", 10, "2", 600)

	res, err := Generate(profile, []Material{soy, bran}, 1000, Options{})
	require.NoError(t, err)
	require.Len(t, res.Lines, 2)

	// Blend cost is the quantity-weighted mean of line costs.
	var want decimal.Decimal
	for _, l := range res.Lines {
		want = want.Add(decimal.NewFromFloat(l.QuantityKg).Mul(l.CostPerKg))
	}
	want = want.DivRound(decimal.NewFromFloat(totalQuantity(res.Lines)), 3)
	assert.True(t, res.CostPerKg.Equal(want), "got %s want %s", res.CostPerKg, want)
}
