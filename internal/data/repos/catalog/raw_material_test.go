package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedmill/feedmill-backend/internal/data/repos/testutil"
	types "github.com/feedmill/feedmill-backend/internal/domain"
	"github.com/feedmill/feedmill-backend/internal/pkg/apperr"
	"github.com/feedmill/feedmill-backend/internal/pkg/dbctx"
)

func TestRawMaterialRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewRawMaterialRepo(db, testutil.Logger(t))

	soy := testutil.SeedRawMaterial(t, ctx, tx, types.RawMaterial{
		Name:            "soybean meal",
		CrudeProteinPct: 44,
		CostPerKg:       decimal.RequireFromString("12.5"),
		InStockKg:       1200,
	})
	testutil.SeedRawMaterial(t, ctx, tx, types.RawMaterial{
		Name:      "old premix",
		InStockKg: 90,
		Archived:  true,
	})
	testutil.SeedRawMaterial(t, ctx, tx, types.RawMaterial{
		Name:      "empty bin",
		InStockKg: 0,
	})
	testutil.SeedRawMaterial(t, ctx, tx, types.RawMaterial{
		Name:       "limestone",
		InStockKg:  20,
		MinStockKg: 100,
	})

	t.Run("GetByID", func(t *testing.T) {
		got, err := repo.GetByID(dbc, soy.ID)
		require.NoError(t, err)
		assert.Equal(t, "soybean meal", got.Name)
		assert.True(t, got.CostPerKg.Equal(decimal.RequireFromString("12.5")))
	})

	t.Run("GetByID missing", func(t *testing.T) {
		_, err := repo.GetByID(dbc, newUUID(t))
		require.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("GetByName", func(t *testing.T) {
		got, err := repo.GetByName(dbc, "limestone")
		require.NoError(t, err)
		assert.InDelta(t, 20, got.InStockKg, 1e-9)
	})

	t.Run("List excludes archived by default", func(t *testing.T) {
		list, err := repo.List(dbc, false)
		require.NoError(t, err)
		for _, m := range list {
			assert.False(t, m.Archived)
		}

		all, err := repo.List(dbc, true)
		require.NoError(t, err)
		assert.Greater(t, len(all), len(list))
	})

	t.Run("ListEligible excludes archived and out-of-stock", func(t *testing.T) {
		eligible, err := repo.ListEligible(dbc)
		require.NoError(t, err)
		names := map[string]bool{}
		for _, m := range eligible {
			names[m.Name] = true
		}
		assert.True(t, names["soybean meal"])
		assert.True(t, names["limestone"])
		assert.False(t, names["old premix"])
		assert.False(t, names["empty bin"])
	})

	t.Run("ListLowStock", func(t *testing.T) {
		low, err := repo.ListLowStock(dbc)
		require.NoError(t, err)
		require.Len(t, low, 1)
		assert.Equal(t, "limestone", low[0].Name)
	})

	t.Run("UpdateStock", func(t *testing.T) {
		err := repo.UpdateStock(dbc, soy.ID, 1500, decimal.RequireFromString("10.667"))
		require.NoError(t, err)

		got, err := repo.GetByID(dbc, soy.ID)
		require.NoError(t, err)
		assert.InDelta(t, 1500, got.InStockKg, 1e-9)
		assert.True(t, got.CostPerKg.Equal(decimal.RequireFromString("10.667")), "got %s", got.CostPerKg)
	})

	t.Run("UpdateFields missing", func(t *testing.T) {
		err := repo.UpdateFields(dbc, newUUID(t), map[string]interface{}{"locked": true})
		require.ErrorIs(t, err, apperr.ErrNotFound)
	})
}
