package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedmill/feedmill-backend/internal/data/repos/testutil"
	"github.com/feedmill/feedmill-backend/internal/pkg/apperr"
	"github.com/feedmill/feedmill-backend/internal/pkg/dbctx"
)

func newUUID(tb testing.TB) uuid.UUID {
	tb.Helper()
	return uuid.New()
}

func TestNutrientProfileRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewNutrientProfileRepo(db, testutil.Logger(t))

	seeded := testutil.SeedNutrientProfile(t, ctx, tx, "broiler starter",
		map[string]float64{"protein": 22, "fat": 5},
		[]string{"fish meal"},
		[]string{"meat meal"},
	)

	t.Run("GetByID round-trips JSON columns", func(t *testing.T) {
		got, err := repo.GetByID(dbc, seeded.ID)
		require.NoError(t, err)

		targets, err := got.Targets()
		require.NoError(t, err)
		assert.InDelta(t, 22, targets["protein"], 1e-9)

		mandatory, err := got.Mandatory()
		require.NoError(t, err)
		assert.Equal(t, []string{"fish meal"}, mandatory)

		restricted, err := got.Restricted()
		require.NoError(t, err)
		assert.Equal(t, []string{"meat meal"}, restricted)
	})

	t.Run("GetByID missing", func(t *testing.T) {
		_, err := repo.GetByID(dbc, newUUID(t))
		require.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("List", func(t *testing.T) {
		list, err := repo.List(dbc)
		require.NoError(t, err)
		require.NotEmpty(t, list)
	})

	t.Run("Delete", func(t *testing.T) {
		other := testutil.SeedNutrientProfile(t, ctx, tx, "layer finisher",
			map[string]float64{"protein": 16}, nil, nil)
		require.NoError(t, repo.Delete(dbc, other.ID))

		_, err := repo.GetByID(dbc, other.ID)
		require.ErrorIs(t, err, apperr.ErrNotFound)
	})
}
