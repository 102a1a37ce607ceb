package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/feedmill/feedmill-backend/internal/blend"
	catalogrepo "github.com/feedmill/feedmill-backend/internal/data/repos/catalog"
	formulationrepo "github.com/feedmill/feedmill-backend/internal/data/repos/formulation"
	"github.com/feedmill/feedmill-backend/internal/data/repos/testutil"
	types "github.com/feedmill/feedmill-backend/internal/domain"
	"github.com/feedmill/feedmill-backend/internal/pkg/apperr"
)

type captureNotifier struct {
	finalized []uuid.UUID
}

func (n *captureNotifier) FormulationFinalized(_ context.Context, f *types.Formulation) {
	n.finalized = append(n.finalized, f.ID)
}

func newFormulationSvc(t *testing.T) (FormulationService, *captureNotifier, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	notifier := &captureNotifier{}
	svc := NewFormulationService(
		formulationrepo.NewFormulationRepo(tx, log),
		catalogrepo.NewNutrientProfileRepo(tx, log),
		catalogrepo.NewRawMaterialRepo(tx, log),
		notifier,
		log,
	)
	return svc, notifier, tx
}

func seedBlendFixtures(t *testing.T, tx *gorm.DB) *types.NutrientProfile {
	t.Helper()
	ctx := context.Background()
	testutil.SeedRawMaterial(t, ctx, tx, types.RawMaterial{
		Name:            "maize",
		CrudeProteinPct: 9,
		CostPerKg:       decimal.NewFromInt(6),
		InStockKg:       5000,
	})
	testutil.SeedRawMaterial(t, ctx, tx, types.RawMaterial{
		Name:            "soybean meal",
		CrudeProteinPct: 44,
		CostPerKg:       decimal.NewFromInt(12),
		InStockKg:       2000,
	})
	return testutil.SeedNutrientProfile(t, ctx, tx, "grower",
		map[string]float64{"protein": 10}, nil, nil)
}

func TestFormulationGenerateAndSave(t *testing.T) {
	ctx := context.Background()
	svc, _, tx := newFormulationSvc(t)
	profile := seedBlendFixtures(t, tx)

	res, err := svc.Generate(ctx, profile.ID, 1000)
	require.NoError(t, err)
	require.NotEmpty(t, res.Lines)

	var total float64
	for _, line := range res.Lines {
		total += line.QuantityKg
	}
	assert.InDelta(t, 1000, total, 1e-6)
	// Normalizing to the batch overshoots the protein target; the summary
	// reports what the scaled blend actually delivers.
	assert.GreaterOrEqual(t, res.AchievedNutrients[blend.NutrientProtein], 10.0)

	f, err := svc.Save(ctx, "grower batch", profile.ID, res)
	require.NoError(t, err)
	assert.Equal(t, types.FormulationDraft, f.Status)

	got, err := svc.Get(ctx, f.ID)
	require.NoError(t, err)
	assert.Len(t, got.Ingredients, len(res.Lines))
	assert.True(t, got.CostPerKg.Equal(res.CostPerKg))
}

func TestFormulationGenerateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, tx := newFormulationSvc(t)
	profile := seedBlendFixtures(t, tx)

	_, err := svc.Generate(ctx, uuid.New(), 1000)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Generate(ctx, profile.ID, 0)
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = svc.Save(ctx, "", profile.ID, &blend.Result{Lines: []blend.Line{{}}})
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = svc.Save(ctx, "empty", profile.ID, &blend.Result{})
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestFormulationRegenerate(t *testing.T) {
	ctx := context.Background()
	svc, _, tx := newFormulationSvc(t)
	profile := seedBlendFixtures(t, tx)

	res, err := svc.Generate(ctx, profile.ID, 1000)
	require.NoError(t, err)
	f, err := svc.Save(ctx, "grower batch", profile.ID, res)
	require.NoError(t, err)

	// Lock the first line, then regenerate: the locked quantity must survive.
	lockedLine := f.Ingredients[0]
	require.NoError(t, tx.Model(&types.FormulationIngredient{}).
		Where("id = ?", lockedLine.ID).
		Update("locked", true).Error)

	regen, err := svc.Regenerate(ctx, f.ID)
	require.NoError(t, err)

	var total float64
	foundLocked := false
	for _, line := range regen.Ingredients {
		total += line.QuantityKg
		if line.ID == lockedLine.ID {
			foundLocked = true
			assert.InDelta(t, lockedLine.QuantityKg, line.QuantityKg, 1e-6)
			assert.True(t, line.Locked)
		}
	}
	assert.True(t, foundLocked, "locked line must keep its row")
	assert.InDelta(t, 1000, total, 1e-6)
}

func TestFormulationRegenerateRejectsFinalized(t *testing.T) {
	ctx := context.Background()
	svc, _, tx := newFormulationSvc(t)
	profile := seedBlendFixtures(t, tx)

	res, err := svc.Generate(ctx, profile.ID, 500)
	require.NoError(t, err)
	f, err := svc.Save(ctx, "grower batch", profile.ID, res)
	require.NoError(t, err)

	_, err = svc.Finalize(ctx, f.ID)
	require.NoError(t, err)

	_, err = svc.Regenerate(ctx, f.ID)
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestFormulationFinalizeLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, notifier, tx := newFormulationSvc(t)
	profile := seedBlendFixtures(t, tx)

	res, err := svc.Generate(ctx, profile.ID, 500)
	require.NoError(t, err)
	f, err := svc.Save(ctx, "grower batch", profile.ID, res)
	require.NoError(t, err)

	final, err := svc.Finalize(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, types.FormulationFinalized, final.Status)
	assert.True(t, final.Finalized)
	require.Len(t, notifier.finalized, 1)
	assert.Equal(t, f.ID, notifier.finalized[0])

	// Finalizing again is a no-op, not a second notification.
	_, err = svc.Finalize(ctx, f.ID)
	require.NoError(t, err)
	assert.Len(t, notifier.finalized, 1)

	// Finalized drafts cannot be deleted.
	require.ErrorIs(t, svc.Delete(ctx, f.ID), apperr.ErrInvalidArgument)

	back, err := svc.Unfinalize(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, types.FormulationDraft, back.Status)
	assert.False(t, back.Finalized)

	require.NoError(t, svc.Delete(ctx, f.ID))
	_, err = svc.Get(ctx, f.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestFormulationArchive(t *testing.T) {
	ctx := context.Background()
	svc, _, tx := newFormulationSvc(t)
	profile := seedBlendFixtures(t, tx)

	res, err := svc.Generate(ctx, profile.ID, 500)
	require.NoError(t, err)
	f, err := svc.Save(ctx, "grower batch", profile.ID, res)
	require.NoError(t, err)

	require.NoError(t, svc.Archive(ctx, f.ID))

	got, err := svc.Get(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, types.FormulationArchived, got.Status)

	_, err = svc.Regenerate(ctx, f.ID)
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)
	_, err = svc.Finalize(ctx, f.ID)
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)
}
