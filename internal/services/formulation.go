package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/feedmill/feedmill-backend/internal/blend"
	catalogrepo "github.com/feedmill/feedmill-backend/internal/data/repos/catalog"
	formulationrepo "github.com/feedmill/feedmill-backend/internal/data/repos/formulation"
	types "github.com/feedmill/feedmill-backend/internal/domain"
	domform "github.com/feedmill/feedmill-backend/internal/domain/formulation"
	"github.com/feedmill/feedmill-backend/internal/pkg/apperr"
	"github.com/feedmill/feedmill-backend/internal/pkg/dbctx"
	"github.com/feedmill/feedmill-backend/internal/platform/logger"
	"github.com/feedmill/feedmill-backend/internal/platform/metrics"
)

// FinalizeNotifier is called after a formulation is finalized, the point where
// downstream systems (production planning, purchasing) pick the recipe up.
type FinalizeNotifier interface {
	FormulationFinalized(ctx context.Context, f *types.Formulation)
}

// logNotifier is the default notifier: it just records the event.
type logNotifier struct {
	log *logger.Logger
}

func (n logNotifier) FormulationFinalized(_ context.Context, f *types.Formulation) {
	n.log.Info("formulation finalized",
		"formulation_id", f.ID.String(),
		"name", f.Name,
		"cost_per_kg", f.CostPerKg.String(),
	)
}

type FormulationService interface {
	// Generate runs the blend engine for a profile without persisting anything.
	Generate(ctx context.Context, profileID uuid.UUID, batchSizeKg float64) (*blend.Result, error)
	// Save persists a generated result as a draft formulation.
	Save(ctx context.Context, name string, profileID uuid.UUID, res *blend.Result) (*types.Formulation, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Formulation, error)
	List(ctx context.Context) ([]*types.Formulation, error)
	// Regenerate re-runs the engine against current stock and costs. Locked
	// lines keep their quantities; everything else is replaced.
	Regenerate(ctx context.Context, id uuid.UUID) (*types.Formulation, error)
	Finalize(ctx context.Context, id uuid.UUID) (*types.Formulation, error)
	Unfinalize(ctx context.Context, id uuid.UUID) (*types.Formulation, error)
	Archive(ctx context.Context, id uuid.UUID) error
	// Delete removes a draft. Finalized and archived formulations stay.
	Delete(ctx context.Context, id uuid.UUID) error
}

type formulationService struct {
	formulations formulationrepo.FormulationRepo
	profiles     catalogrepo.NutrientProfileRepo
	materials    catalogrepo.RawMaterialRepo
	notifier     FinalizeNotifier
	log          *logger.Logger
}

func NewFormulationService(
	formulations formulationrepo.FormulationRepo,
	profiles catalogrepo.NutrientProfileRepo,
	materials catalogrepo.RawMaterialRepo,
	notifier FinalizeNotifier,
	baseLog *logger.Logger,
) FormulationService {
	log := baseLog.With("service", "FormulationService")
	if notifier == nil {
		notifier = logNotifier{log: log}
	}
	return &formulationService{
		formulations: formulations,
		profiles:     profiles,
		materials:    materials,
		notifier:     notifier,
		log:          log,
	}
}

func toBlendMaterial(m *types.RawMaterial) blend.Material {
	return blend.Material{
		ID:                  m.ID,
		Name:                m.Name,
		CrudeProteinPct:     m.CrudeProteinPct,
		MetabolizableEnergy: m.MetabolizableEnergy,
		CalciumPct:          m.CalciumPct,
		FatPct:              m.FatPct,
		FiberPct:            m.FiberPct,
		AshPct:              m.AshPct,
		CostPerKg:           m.CostPerKg,
		InStockKg:           m.InStockKg,
		Locked:              m.Locked,
	}
}

func (s *formulationService) loadBlendInputs(dbc dbctx.Context, profileID uuid.UUID) (blend.Profile, []blend.Material, error) {
	p, err := s.profiles.GetByID(dbc, profileID)
	if err != nil {
		return blend.Profile{}, nil, err
	}
	targets, err := p.Targets()
	if err != nil {
		return blend.Profile{}, nil, fmt.Errorf("profile %s targets: %w", profileID, err)
	}
	mandatory, err := p.Mandatory()
	if err != nil {
		return blend.Profile{}, nil, fmt.Errorf("profile %s mandatory list: %w", profileID, err)
	}
	restricted, err := p.Restricted()
	if err != nil {
		return blend.Profile{}, nil, fmt.Errorf("profile %s restricted list: %w", profileID, err)
	}

	profile := blend.Profile{
		Targets:    make(map[blend.Nutrient]float64, len(targets)),
		Mandatory:  mandatory,
		Restricted: restricted,
	}
	for name, pct := range targets {
		profile.Targets[blend.Nutrient(name)] = pct
	}

	eligible, err := s.materials.ListEligible(dbc)
	if err != nil {
		return blend.Profile{}, nil, err
	}
	candidates := make([]blend.Material, 0, len(eligible))
	for _, m := range eligible {
		candidates = append(candidates, toBlendMaterial(m))
	}
	return profile, candidates, nil
}

func (s *formulationService) Generate(ctx context.Context, profileID uuid.UUID, batchSizeKg float64) (*blend.Result, error) {
	dbc := dbctx.Context{Ctx: ctx}
	profile, candidates, err := s.loadBlendInputs(dbc, profileID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := blend.Generate(profile, candidates, batchSizeKg, blend.Options{})
	if err != nil {
		return nil, err
	}
	metrics.FormulationDuration.Observe(time.Since(start).Seconds())
	metrics.FormulationsGenerated.Inc()

	s.log.Info("formulation generated",
		"profile_id", profileID.String(),
		"batch_size_kg", batchSizeKg,
		"lines", len(res.Lines),
		"cost_per_kg", res.CostPerKg.String(),
	)
	return res, nil
}

func linesFromResult(res *blend.Result) []types.FormulationIngredient {
	out := make([]types.FormulationIngredient, 0, len(res.Lines))
	for _, line := range res.Lines {
		out = append(out, types.FormulationIngredient{
			RawMaterialID: line.MaterialID,
			Name:          line.Name,
			QuantityKg:    line.QuantityKg,
			Percentage:    line.Percentage,
			CostPerKg:     line.CostPerKg,
			Locked:        line.Locked,
		})
	}
	return out
}

func (s *formulationService) Save(ctx context.Context, name string, profileID uuid.UUID, res *blend.Result) (*types.Formulation, error) {
	if name == "" {
		return nil, fmt.Errorf("formulation name is required: %w", apperr.ErrInvalidArgument)
	}
	if res == nil || len(res.Lines) == 0 {
		return nil, fmt.Errorf("formulation needs at least one ingredient line: %w", apperr.ErrInvalidArgument)
	}

	f := &types.Formulation{
		Name:              name,
		NutrientProfileID: &profileID,
		BatchSizeKg:       res.BatchSizeKg,
		CostPerKg:         res.CostPerKg,
		Status:            types.FormulationDraft,
		Ingredients:       linesFromResult(res),
	}
	if err := s.formulations.Create(dbctx.Context{Ctx: ctx}, f); err != nil {
		return nil, err
	}
	s.log.Info("formulation saved", "formulation_id", f.ID.String(), "name", f.Name)
	return f, nil
}

func (s *formulationService) Get(ctx context.Context, id uuid.UUID) (*types.Formulation, error) {
	return s.formulations.GetByID(dbctx.Context{Ctx: ctx}, id)
}

func (s *formulationService) List(ctx context.Context) ([]*types.Formulation, error) {
	return s.formulations.List(dbctx.Context{Ctx: ctx})
}

func (s *formulationService) Regenerate(ctx context.Context, id uuid.UUID) (*types.Formulation, error) {
	dbc := dbctx.Context{Ctx: ctx}
	f, err := s.formulations.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if f.Finalized || f.Status == types.FormulationFinalized {
		return nil, fmt.Errorf("formulation %s is finalized: %w", id, apperr.ErrInvalidArgument)
	}
	if f.Status == types.FormulationArchived {
		return nil, fmt.Errorf("formulation %s is archived: %w", id, apperr.ErrInvalidArgument)
	}
	if f.NutrientProfileID == nil {
		return nil, fmt.Errorf("formulation %s has no nutrient profile to regenerate from: %w", id, apperr.ErrInvalidArgument)
	}

	profile, candidates, err := s.loadBlendInputs(dbc, *f.NutrientProfileID)
	if err != nil {
		return nil, err
	}

	// Locked lines ride through as pre-placed quantities. The material snapshot
	// comes from the catalog when it still exists, otherwise from the line.
	var preplaced []blend.Placement
	for _, line := range f.Ingredients {
		if !line.Locked {
			continue
		}
		mat := blend.Material{
			ID:        line.RawMaterialID,
			Name:      line.Name,
			CostPerKg: line.CostPerKg,
			InStockKg: line.QuantityKg,
		}
		if current, err := s.materials.GetByID(dbc, line.RawMaterialID); err == nil {
			mat = toBlendMaterial(current)
		}
		preplaced = append(preplaced, blend.Placement{Material: mat, QuantityKg: line.QuantityKg})
	}

	start := time.Now()
	res, err := blend.Generate(profile, candidates, f.BatchSizeKg, blend.Options{Preplaced: preplaced})
	if err != nil {
		return nil, err
	}
	metrics.FormulationDuration.Observe(time.Since(start).Seconds())
	metrics.FormulationsGenerated.Inc()

	// Replace only the unlocked lines; locked rows keep their ids and
	// positions. New lines slot in after them.
	maxPos := -1
	for _, line := range f.Ingredients {
		if line.Locked && line.Position > maxPos {
			maxPos = line.Position
		}
	}
	var fresh []types.FormulationIngredient
	for _, line := range res.Lines {
		if line.Locked {
			continue
		}
		maxPos++
		fresh = append(fresh, types.FormulationIngredient{
			RawMaterialID: line.MaterialID,
			Name:          line.Name,
			QuantityKg:    line.QuantityKg,
			Percentage:    line.Percentage,
			CostPerKg:     line.CostPerKg,
			Position:      maxPos,
		})
	}
	if err := s.formulations.ReplaceUnlockedLines(dbc, id, fresh); err != nil {
		return nil, err
	}

	f, err = s.formulations.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	domform.RecalculateCost(f)
	domform.RecalculatePercentages(f)
	if err := s.formulations.UpdateFields(dbc, id, map[string]interface{}{
		"cost_per_kg": f.CostPerKg,
	}); err != nil {
		return nil, err
	}

	s.log.Info("formulation regenerated",
		"formulation_id", id.String(),
		"locked_lines", len(preplaced),
		"cost_per_kg", f.CostPerKg.String(),
	)
	return f, nil
}

func (s *formulationService) Finalize(ctx context.Context, id uuid.UUID) (*types.Formulation, error) {
	dbc := dbctx.Context{Ctx: ctx}
	f, err := s.formulations.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if f.Status == types.FormulationArchived {
		return nil, fmt.Errorf("formulation %s is archived: %w", id, apperr.ErrInvalidArgument)
	}
	if f.Finalized {
		return f, nil
	}
	if err := s.formulations.UpdateFields(dbc, id, map[string]interface{}{
		"status":    types.FormulationFinalized,
		"finalized": true,
	}); err != nil {
		return nil, err
	}
	f, err = s.formulations.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	s.notifier.FormulationFinalized(ctx, f)
	return f, nil
}

func (s *formulationService) Unfinalize(ctx context.Context, id uuid.UUID) (*types.Formulation, error) {
	dbc := dbctx.Context{Ctx: ctx}
	f, err := s.formulations.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if !f.Finalized {
		return f, nil
	}
	if err := s.formulations.UpdateFields(dbc, id, map[string]interface{}{
		"status":    types.FormulationDraft,
		"finalized": false,
	}); err != nil {
		return nil, err
	}
	return s.formulations.GetByID(dbc, id)
}

func (s *formulationService) Archive(ctx context.Context, id uuid.UUID) error {
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := s.formulations.GetByID(dbc, id); err != nil {
		return err
	}
	return s.formulations.UpdateFields(dbc, id, map[string]interface{}{
		"status": types.FormulationArchived,
	})
}

func (s *formulationService) Delete(ctx context.Context, id uuid.UUID) error {
	dbc := dbctx.Context{Ctx: ctx}
	f, err := s.formulations.GetByID(dbc, id)
	if err != nil {
		return err
	}
	if f.Status != types.FormulationDraft {
		return fmt.Errorf("only draft formulations can be deleted, %s is %s: %w", id, f.Status, apperr.ErrInvalidArgument)
	}
	return s.formulations.Delete(dbc, id)
}
