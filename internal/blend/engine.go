package blend

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/feedmill/feedmill-backend/internal/pkg/apperr"
)

// Generate produces a blend for batchSizeKg of feed from the given candidate
// materials. The run is a single synchronous pass: collect candidates, place
// mandatory ingredients, greedily fill remaining nutrient gaps, normalize to
// the batch size, then summarize cost and achieved nutrients.
func Generate(profile Profile, materials []Material, batchSizeKg float64, opts Options) (*Result, error) {
	if batchSizeKg <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %v: %w", batchSizeKg, apperr.ErrInvalidArgument)
	}
	scorer := opts.Scorer
	if scorer == nil {
		scorer = ProteinCostScorer{}
	}

	restricted := make(map[string]struct{}, len(profile.Restricted))
	for _, name := range profile.Restricted {
		restricted[normalizeName(name)] = struct{}{}
	}

	// Candidate collection: in stock and not restricted. Archived materials
	// never reach the engine; the catalog query excludes them.
	candidates := make([]Material, 0, len(materials))
	for _, m := range materials {
		if m.InStockKg <= 0 {
			continue
		}
		if _, ok := restricted[normalizeName(m.Name)]; ok {
			continue
		}
		candidates = append(candidates, m)
	}

	// Absolute nutrient mass needed in the batch, e.g. kg of protein.
	required := make(map[Nutrient]float64, len(trackedNutrients()))
	for _, n := range trackedNutrients() {
		required[n] = profile.Targets[n] / 100 * batchSizeKg
	}

	var lines []Line
	used := make(map[string]struct{})

	place := func(m Material, qty float64, locked bool) {
		lines = append(lines, Line{
			MaterialID: m.ID,
			Name:       m.Name,
			QuantityKg: qty,
			CostPerKg:  m.CostPerKg,
			Locked:     locked,
		})
		used[normalizeName(m.Name)] = struct{}{}
		for _, n := range trackedNutrients() {
			required[n] -= m.ContentPct(n) / 100 * qty
		}
	}

	// Pre-placed locked lines keep their quantities through the whole run.
	for _, p := range opts.Preplaced {
		place(p.Material, p.QuantityKg, true)
	}

	// Mandatory placement: sized off the protein requirement alone, matching
	// the established sizing rule.
	for _, name := range profile.Mandatory {
		key := normalizeName(name)
		if _, ok := used[key]; ok {
			continue
		}
		m, ok := findByName(candidates, key)
		if !ok {
			return nil, fmt.Errorf("mandatory ingredient %q not among eligible candidates: %w", name, apperr.ErrMandatoryUnavailable)
		}
		qty := 0.0
		if m.CrudeProteinPct > 0 {
			qty = 0.05 * required[NutrientProtein] / (m.CrudeProteinPct / 100)
		}
		if qty <= 0 {
			qty = 0.01 * batchSizeKg
		}
		place(m, qty, false)
	}

	// Greedy fill: cheapest useful candidate next, until every tracked
	// requirement is met or no unused candidate remains.
	for !requirementsMet(required) {
		best, ok := pickBest(candidates, used, required, scorer)
		if !ok {
			// Out of candidates; the blend may be nutrient-short and the
			// caller reads that off the achieved-nutrient summary.
			break
		}
		qty := fillQuantity(best, required, batchSizeKg)
		if qty <= 0 {
			used[normalizeName(best.Name)] = struct{}{}
			continue
		}
		place(best, qty, false)
	}

	normalize(lines, batchSizeKg)

	return summarize(lines, candidatesPlusPreplaced(materials, opts.Preplaced), batchSizeKg), nil
}

func requirementsMet(required map[Nutrient]float64) bool {
	for _, n := range trackedNutrients() {
		if required[n] > metToleranceKg {
			return false
		}
	}
	return true
}

func findByName(candidates []Material, normalized string) (Material, bool) {
	for _, m := range candidates {
		if normalizeName(m.Name) == normalized {
			return m, true
		}
	}
	return Material{}, false
}

func pickBest(candidates []Material, used map[string]struct{}, required map[Nutrient]float64, scorer Scorer) (Material, bool) {
	var best Material
	bestScore := math.Inf(1)
	found := false
	for _, m := range candidates {
		if _, ok := used[normalizeName(m.Name)]; ok {
			continue
		}
		if m.Locked {
			// Locked materials are excluded from automatic selection; only a
			// mandatory or pre-placed line can bring them in.
			continue
		}
		if score := scorer.Score(m, required); score < bestScore {
			best = m
			bestScore = score
			found = true
		}
	}
	return best, found
}

// fillQuantity is the largest amount of m that does not overshoot any nutrient
// it meaningfully contributes to, clamped to available stock. A material with
// no relevant contribution gets a minimal 1%-of-batch placeholder.
func fillQuantity(m Material, required map[Nutrient]float64, batchSizeKg float64) float64 {
	qty := math.Inf(1)
	contributes := false
	for _, n := range trackedNutrients() {
		content := m.ContentPct(n)
		need := required[n]
		if content <= 0 || need <= 0 {
			continue
		}
		if possible := need * 100 / content; possible < qty {
			qty = possible
			contributes = true
		}
	}
	if !contributes {
		qty = 0.01 * batchSizeKg
	}
	return math.Min(qty, m.InStockKg)
}

// normalize rescales line quantities so they sum to the batch size. Locked
// lines keep their quantities; only the unlocked remainder is rescaled.
func normalize(lines []Line, batchSizeKg float64) {
	var lockedTotal, unlockedTotal float64
	for i := range lines {
		if lines[i].Locked {
			lockedTotal += lines[i].QuantityKg
		} else {
			unlockedTotal += lines[i].QuantityKg
		}
	}
	target := batchSizeKg - lockedTotal
	if unlockedTotal > 0 && target > 0 {
		scale := target / unlockedTotal
		for i := range lines {
			if !lines[i].Locked {
				lines[i].QuantityKg *= scale
			}
		}
	}
	for i := range lines {
		lines[i].Percentage = lines[i].QuantityKg / batchSizeKg * 100
	}
}

func candidatesPlusPreplaced(materials []Material, preplaced []Placement) []Material {
	if len(preplaced) == 0 {
		return materials
	}
	all := make([]Material, 0, len(materials)+len(preplaced))
	all = append(all, materials...)
	for _, p := range preplaced {
		all = append(all, p.Material)
	}
	return all
}

func summarize(lines []Line, materials []Material, batchSizeKg float64) *Result {
	contents := make(map[string]Material, len(materials))
	for _, m := range materials {
		contents[normalizeName(m.Name)] = m
	}

	totalQty := decimal.Zero
	totalCost := decimal.Zero
	achieved := make(map[Nutrient]float64, len(trackedNutrients()))
	for _, line := range lines {
		qty := decimal.NewFromFloat(line.QuantityKg)
		totalQty = totalQty.Add(qty)
		totalCost = totalCost.Add(qty.Mul(line.CostPerKg))
		if m, ok := contents[normalizeName(line.Name)]; ok {
			for _, n := range trackedNutrients() {
				achieved[n] += line.QuantityKg * m.ContentPct(n) / 100
			}
		}
	}
	for _, n := range trackedNutrients() {
		achieved[n] = achieved[n] / batchSizeKg * 100
	}

	costPerKg := decimal.Zero
	if !totalQty.IsZero() {
		costPerKg = totalCost.DivRound(totalQty, costScale)
	}

	return &Result{
		Lines:             lines,
		BatchSizeKg:       batchSizeKg,
		CostPerKg:         costPerKg,
		AchievedNutrients: achieved,
	}
}
