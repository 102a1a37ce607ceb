package formulation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedmill/feedmill-backend/internal/data/repos/testutil"
	types "github.com/feedmill/feedmill-backend/internal/domain"
	"github.com/feedmill/feedmill-backend/internal/pkg/apperr"
	"github.com/feedmill/feedmill-backend/internal/pkg/dbctx"
)

func seedFormulation(t *testing.T, repo FormulationRepo, dbc dbctx.Context) *types.Formulation {
	t.Helper()
	f := &types.Formulation{
		Name:        "broiler starter batch",
		BatchSizeKg: 1000,
		CostPerKg:   decimal.RequireFromString("8.25"),
		Status:      types.FormulationDraft,
		Ingredients: []types.FormulationIngredient{
			{Name: "maize", QuantityKg: 600, Percentage: 60, CostPerKg: decimal.NewFromInt(6)},
			{Name: "soybean meal", QuantityKg: 350, Percentage: 35, CostPerKg: decimal.NewFromInt(12), Locked: true},
			{Name: "premix", QuantityKg: 50, Percentage: 5, CostPerKg: decimal.NewFromInt(9)},
		},
	}
	require.NoError(t, repo.Create(dbc, f))
	return f
}

func TestFormulationRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewFormulationRepo(db, testutil.Logger(t))

	t.Run("Create and GetByID preserve line order", func(t *testing.T) {
		f := seedFormulation(t, repo, dbc)

		got, err := repo.GetByID(dbc, f.ID)
		require.NoError(t, err)
		require.Len(t, got.Ingredients, 3)
		assert.Equal(t, "maize", got.Ingredients[0].Name)
		assert.Equal(t, "soybean meal", got.Ingredients[1].Name)
		assert.Equal(t, "premix", got.Ingredients[2].Name)
		for i, line := range got.Ingredients {
			assert.Equal(t, i, line.Position)
			assert.Equal(t, f.ID, line.FormulationID)
		}
	})

	t.Run("GetByID missing", func(t *testing.T) {
		_, err := repo.GetByID(dbc, uuid.New())
		require.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("List", func(t *testing.T) {
		seedFormulation(t, repo, dbc)
		list, err := repo.List(dbc)
		require.NoError(t, err)
		assert.NotEmpty(t, list)
	})

	t.Run("UpdateFields", func(t *testing.T) {
		f := seedFormulation(t, repo, dbc)
		require.NoError(t, repo.UpdateFields(dbc, f.ID, map[string]interface{}{
			"status":    types.FormulationFinalized,
			"finalized": true,
		}))

		got, err := repo.GetByID(dbc, f.ID)
		require.NoError(t, err)
		assert.Equal(t, types.FormulationFinalized, got.Status)
		assert.True(t, got.Finalized)
	})

	t.Run("ReplaceUnlockedLines keeps locked lines", func(t *testing.T) {
		f := seedFormulation(t, repo, dbc)
		err := repo.ReplaceUnlockedLines(dbc, f.ID, []types.FormulationIngredient{
			{Name: "sunflower meal", QuantityKg: 650, Percentage: 65, CostPerKg: decimal.NewFromInt(7), Position: 0},
		})
		require.NoError(t, err)

		got, err := repo.GetByID(dbc, f.ID)
		require.NoError(t, err)
		require.Len(t, got.Ingredients, 2)

		names := map[string]bool{}
		for _, line := range got.Ingredients {
			names[line.Name] = true
		}
		assert.True(t, names["soybean meal"], "locked line must survive")
		assert.True(t, names["sunflower meal"])
		assert.False(t, names["maize"])
	})

	t.Run("Delete removes lines", func(t *testing.T) {
		f := seedFormulation(t, repo, dbc)
		require.NoError(t, repo.Delete(dbc, f.ID))

		_, err := repo.GetByID(dbc, f.ID)
		require.ErrorIs(t, err, apperr.ErrNotFound)

		var count int64
		require.NoError(t, tx.Model(&types.FormulationIngredient{}).
			Where("formulation_id = ?", f.ID).
			Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("Delete missing", func(t *testing.T) {
		require.ErrorIs(t, repo.Delete(dbc, uuid.New()), apperr.ErrNotFound)
	})
}
