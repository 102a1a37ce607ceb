package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	catalogrepo "github.com/feedmill/feedmill-backend/internal/data/repos/catalog"
	inventoryrepo "github.com/feedmill/feedmill-backend/internal/data/repos/inventory"
	types "github.com/feedmill/feedmill-backend/internal/domain"
	"github.com/feedmill/feedmill-backend/internal/domain/inventory"
	"github.com/feedmill/feedmill-backend/internal/pkg/apperr"
	"github.com/feedmill/feedmill-backend/internal/pkg/dbctx"
	"github.com/feedmill/feedmill-backend/internal/pkg/keymutex"
	"github.com/feedmill/feedmill-backend/internal/platform/logger"
	"github.com/feedmill/feedmill-backend/internal/platform/metrics"
)

// LedgerService is the only writer of stock levels and average costs. Every
// receipt and issue goes through it so that the stock update and the movement
// row always land in the same transaction.
type LedgerService interface {
	// ReceiveStock books quantityKg at unitCost into the material and folds the
	// receipt into its weighted average cost. It returns the post-movement
	// material snapshot together with the ledger entry.
	ReceiveStock(ctx context.Context, materialID uuid.UUID, quantityKg float64, unitCost decimal.Decimal, reference string) (*types.RawMaterial, *types.InventoryMovement, error)
	// IssueStock removes quantityKg valued at the current average cost. The
	// average itself never changes on an issue.
	IssueStock(ctx context.Context, materialID uuid.UUID, quantityKg float64, reference string) (*types.RawMaterial, *types.InventoryMovement, error)
	ListMovements(ctx context.Context, materialID uuid.UUID, from, to *time.Time) ([]*types.InventoryMovement, error)
}

type ledgerService struct {
	db        *gorm.DB
	materials catalogrepo.RawMaterialRepo
	movements inventoryrepo.MovementRepo
	locks     *keymutex.Keyed
	log       *logger.Logger
}

func NewLedgerService(
	db *gorm.DB,
	materials catalogrepo.RawMaterialRepo,
	movements inventoryrepo.MovementRepo,
	baseLog *logger.Logger,
) LedgerService {
	return &ledgerService{
		db:        db,
		materials: materials,
		movements: movements,
		locks:     keymutex.New(),
		log:       baseLog.With("service", "LedgerService"),
	}
}

// withExclusiveAccess serializes fn against every other ledger operation on the
// same material. Cross-material operations run in parallel.
func (s *ledgerService) withExclusiveAccess(materialID uuid.UUID, fn func() error) error {
	return s.locks.WithExclusive(materialID.String(), fn)
}

func (s *ledgerService) ReceiveStock(ctx context.Context, materialID uuid.UUID, quantityKg float64, unitCost decimal.Decimal, reference string) (*types.RawMaterial, *types.InventoryMovement, error) {
	if quantityKg <= 0 {
		return nil, nil, fmt.Errorf("receive quantity must be positive, got %v: %w", quantityKg, apperr.ErrInvalidArgument)
	}
	if unitCost.IsNegative() {
		return nil, nil, fmt.Errorf("receive unit cost must not be negative, got %s: %w", unitCost, apperr.ErrInvalidArgument)
	}

	var (
		mat *types.RawMaterial
		mv  *types.InventoryMovement
	)
	err := s.withExclusiveAccess(materialID, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			dbc := dbctx.Context{Ctx: ctx, Tx: tx}

			var err error
			mat, err = s.materials.GetByID(dbc, materialID)
			if err != nil {
				return err
			}
			if mat.Archived {
				return fmt.Errorf("raw material %q is archived: %w", mat.Name, apperr.ErrInvalidArgument)
			}

			newCost := inventory.NextAverageCost(mat.InStockKg, mat.CostPerKg, quantityKg, unitCost)
			newStock := mat.InStockKg + quantityKg
			if err := s.materials.UpdateStock(dbc, materialID, newStock, newCost); err != nil {
				return err
			}
			mat.InStockKg = newStock
			mat.CostPerKg = newCost

			mv = &types.InventoryMovement{
				RawMaterialID: materialID,
				Type:          types.MovementReceive,
				QuantityKg:    quantityKg,
				UnitCost:      unitCost,
				TotalCost:     inventory.MovementValue(quantityKg, unitCost),
				Reference:     reference,
			}
			return s.movements.Create(dbc, mv)
		})
	})
	if err != nil {
		return nil, nil, err
	}

	metrics.MovementsTotal.WithLabelValues(string(types.MovementReceive)).Inc()
	metrics.MovementKg.WithLabelValues(string(types.MovementReceive)).Add(quantityKg)
	s.log.Info("stock received",
		"material_id", materialID.String(),
		"quantity_kg", quantityKg,
		"unit_cost", unitCost.String(),
	)
	return mat, mv, nil
}

func (s *ledgerService) IssueStock(ctx context.Context, materialID uuid.UUID, quantityKg float64, reference string) (*types.RawMaterial, *types.InventoryMovement, error) {
	if quantityKg <= 0 {
		return nil, nil, fmt.Errorf("issue quantity must be positive, got %v: %w", quantityKg, apperr.ErrInvalidArgument)
	}

	var (
		mat *types.RawMaterial
		mv  *types.InventoryMovement
	)
	err := s.withExclusiveAccess(materialID, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			dbc := dbctx.Context{Ctx: ctx, Tx: tx}

			var err error
			mat, err = s.materials.GetByID(dbc, materialID)
			if err != nil {
				return err
			}
			if mat.Archived {
				return fmt.Errorf("raw material %q is archived: %w", mat.Name, apperr.ErrInvalidArgument)
			}
			if quantityKg > mat.InStockKg {
				return fmt.Errorf("issue of %vkg exceeds %vkg in stock for %q: %w",
					quantityKg, mat.InStockKg, mat.Name, apperr.ErrInsufficientStock)
			}

			if err := s.materials.UpdateStock(dbc, materialID, mat.InStockKg-quantityKg, mat.CostPerKg); err != nil {
				return err
			}
			mat.InStockKg -= quantityKg

			mv = &types.InventoryMovement{
				RawMaterialID: materialID,
				Type:          types.MovementIssue,
				QuantityKg:    quantityKg,
				UnitCost:      mat.CostPerKg,
				TotalCost:     inventory.MovementValue(quantityKg, mat.CostPerKg),
				Reference:     reference,
			}
			return s.movements.Create(dbc, mv)
		})
	})
	if err != nil {
		return nil, nil, err
	}

	metrics.MovementsTotal.WithLabelValues(string(types.MovementIssue)).Inc()
	metrics.MovementKg.WithLabelValues(string(types.MovementIssue)).Add(quantityKg)
	s.log.Info("stock issued",
		"material_id", materialID.String(),
		"quantity_kg", quantityKg,
	)
	return mat, mv, nil
}

func (s *ledgerService) ListMovements(ctx context.Context, materialID uuid.UUID, from, to *time.Time) ([]*types.InventoryMovement, error) {
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := s.materials.GetByID(dbc, materialID); err != nil {
		return nil, err
	}
	return s.movements.ListByMaterial(dbc, materialID, from, to)
}
