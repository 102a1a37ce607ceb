package formulation

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

type FormulationRepo interface {
	// Create persists the formulation together with its ingredient lines.
	Create(dbc dbctx.Context, f *types.Formulation) error
	// GetByID loads the formulation with its lines in position order.
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Formulation, error)
	List(dbc dbctx.Context) ([]*types.Formulation, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	// ReplaceUnlockedLines swaps out every non-locked line for the given set,
	// used by re-optimization. Locked lines are left untouched.
	ReplaceUnlockedLines(dbc dbctx.Context, formulationID uuid.UUID, lines []types.FormulationIngredient) error
	// Delete removes the formulation and all of its lines.
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type formulationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFormulationRepo(db *gorm.DB, baseLog *logger.Logger) FormulationRepo {
	return &formulationRepo{
		db:  db,
		log: baseLog.With("repo", "FormulationRepo"),
	}
}

func (r *formulationRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *formulationRepo) Create(dbc dbctx.Context, f *types.Formulation) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	for i := range f.Ingredients {
		if f.Ingredients[i].ID == uuid.Nil {
			f.Ingredients[i].ID = uuid.New()
		}
		f.Ingredients[i].FormulationID = f.ID
		f.Ingredients[i].Position = i
	}
	return r.handle(dbc).WithContext(dbc.Ctx).Create(f).Error
}

func (r *formulationRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Formulation, error) {
	var f types.Formulation
	err := r.handle(dbc).WithContext(dbc.Ctx).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("formulation %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *formulationRepo) List(dbc dbctx.Context) ([]*types.Formulation, error) {
	var out []*types.Formulation
	err := r.handle(dbc).WithContext(dbc.Ctx).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *formulationRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	res := r.handle(dbc).WithContext(dbc.Ctx).
		Model(&types.Formulation{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("formulation %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

func (r *formulationRepo) ReplaceUnlockedLines(dbc dbctx.Context, formulationID uuid.UUID, lines []types.FormulationIngredient) error {
	h := r.handle(dbc).WithContext(dbc.Ctx)
	if err := h.
		Where("formulation_id = ? AND locked = ?", formulationID, false).
		Delete(&types.FormulationIngredient{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		if lines[i].ID == uuid.Nil {
			lines[i].ID = uuid.New()
		}
		lines[i].FormulationID = formulationID
	}
	return h.Create(&lines).Error
}

func (r *formulationRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	h := r.handle(dbc).WithContext(dbc.Ctx)
	if err := h.
		Where("formulation_id = ?", id).
		Delete(&types.FormulationIngredient{}).Error; err != nil {
		return err
	}
	res := h.Where("id = ?", id).Delete(&types.Formulation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("formulation %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}
