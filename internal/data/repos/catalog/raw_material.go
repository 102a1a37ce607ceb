package catalog

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	types "github.com/feedmill/feedmill-backend/internal/domain"
	"github.com/feedmill/feedmill-backend/internal/pkg/apperr"
	"github.com/feedmill/feedmill-backend/internal/pkg/dbctx"
	"github.com/feedmill/feedmill-backend/internal/platform/logger"
)

type RawMaterialRepo interface {
	Create(dbc dbctx.Context, m *types.RawMaterial) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.RawMaterial, error)
	GetByName(dbc dbctx.Context, name string) (*types.RawMaterial, error)
	List(dbc dbctx.Context, includeArchived bool) ([]*types.RawMaterial, error)
	// ListEligible returns the formulation candidate set: not archived and in stock.
	ListEligible(dbc dbctx.Context) ([]*types.RawMaterial, error)
	// ListLowStock returns unarchived materials at or below their reorder level.
	ListLowStock(dbc dbctx.Context) ([]*types.RawMaterial, error)
	// UpdateStock writes the quantity/cost pair the WAC ledger computed. Only
	// the ledger calls this.
	UpdateStock(dbc dbctx.Context, id uuid.UUID, inStockKg float64, costPerKg decimal.Decimal) error
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type rawMaterialRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRawMaterialRepo(db *gorm.DB, baseLog *logger.Logger) RawMaterialRepo {
	return &rawMaterialRepo{
		db:  db,
		log: baseLog.With("repo", "RawMaterialRepo"),
	}
}

func (r *rawMaterialRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *rawMaterialRepo) Create(dbc dbctx.Context, m *types.RawMaterial) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return r.handle(dbc).WithContext(dbc.Ctx).Create(m).Error
}

func (r *rawMaterialRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.RawMaterial, error) {
	var m types.RawMaterial
	err := r.handle(dbc).WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("raw material %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *rawMaterialRepo) GetByName(dbc dbctx.Context, name string) (*types.RawMaterial, error) {
	var m types.RawMaterial
	err := r.handle(dbc).WithContext(dbc.Ctx).
		Where("name = ?", name).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("raw material %q: %w", name, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *rawMaterialRepo) List(dbc dbctx.Context, includeArchived bool) ([]*types.RawMaterial, error) {
	q := r.handle(dbc).WithContext(dbc.Ctx).Order("name ASC")
	if !includeArchived {
		q = q.Where("archived = ?", false)
	}
	var out []*types.RawMaterial
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *rawMaterialRepo) ListEligible(dbc dbctx.Context) ([]*types.RawMaterial, error) {
	var out []*types.RawMaterial
	err := r.handle(dbc).WithContext(dbc.Ctx).
		Where("archived = ? AND in_stock_kg > 0", false).
		Order("name ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *rawMaterialRepo) ListLowStock(dbc dbctx.Context) ([]*types.RawMaterial, error) {
	var out []*types.RawMaterial
	err := r.handle(dbc).WithContext(dbc.Ctx).
		Where("archived = ? AND min_stock_kg > 0 AND in_stock_kg <= min_stock_kg", false).
		Order("name ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *rawMaterialRepo) UpdateStock(dbc dbctx.Context, id uuid.UUID, inStockKg float64, costPerKg decimal.Decimal) error {
	res := r.handle(dbc).WithContext(dbc.Ctx).
		Model(&types.RawMaterial{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"in_stock_kg": inStockKg,
			"cost_per_kg": costPerKg,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("raw material %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

func (r *rawMaterialRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	res := r.handle(dbc).WithContext(dbc.Ctx).
		Model(&types.RawMaterial{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("raw material %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}
