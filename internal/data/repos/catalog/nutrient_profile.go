package catalog

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/feedmill/feedmill-backend/internal/domain"
	"github.com/feedmill/feedmill-backend/internal/pkg/apperr"
	"github.com/feedmill/feedmill-backend/internal/pkg/dbctx"
	"github.com/feedmill/feedmill-backend/internal/platform/logger"
)

type NutrientProfileRepo interface {
	Create(dbc dbctx.Context, p *types.NutrientProfile) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.NutrientProfile, error)
	List(dbc dbctx.Context) ([]*types.NutrientProfile, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type nutrientProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNutrientProfileRepo(db *gorm.DB, baseLog *logger.Logger) NutrientProfileRepo {
	return &nutrientProfileRepo{
		db:  db,
		log: baseLog.With("repo", "NutrientProfileRepo"),
	}
}

func (r *nutrientProfileRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *nutrientProfileRepo) Create(dbc dbctx.Context, p *types.NutrientProfile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return r.handle(dbc).WithContext(dbc.Ctx).Create(p).Error
}

func (r *nutrientProfileRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.NutrientProfile, error) {
	var p types.NutrientProfile
	err := r.handle(dbc).WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("nutrient profile %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *nutrientProfileRepo) List(dbc dbctx.Context) ([]*types.NutrientProfile, error) {
	var out []*types.NutrientProfile
	if err := r.handle(dbc).WithContext(dbc.Ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *nutrientProfileRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	res := r.handle(dbc).WithContext(dbc.Ctx).
		Model(&types.NutrientProfile{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("nutrient profile %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

func (r *nutrientProfileRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	res := r.handle(dbc).WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.NutrientProfile{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("nutrient profile %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}
