package inventory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/feedmill/feedmill-backend/internal/domain"
	"github.com/feedmill/feedmill-backend/internal/pkg/dbctx"
	"github.com/feedmill/feedmill-backend/internal/platform/logger"
)

// MovementRepo appends and reads ledger entries. There is deliberately no
// update or delete: movements are an immutable audit trail.
type MovementRepo interface {
	Create(dbc dbctx.Context, mv *types.InventoryMovement) error
	// ListByMaterial returns movements newest first, optionally bounded by a
	// closed [from, to] date range.
	ListByMaterial(dbc dbctx.Context, materialID uuid.UUID, from, to *time.Time) ([]*types.InventoryMovement, error)
}

type movementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMovementRepo(db *gorm.DB, baseLog *logger.Logger) MovementRepo {
	return &movementRepo{
		db:  db,
		log: baseLog.With("repo", "MovementRepo"),
	}
}

func (r *movementRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *movementRepo) Create(dbc dbctx.Context, mv *types.InventoryMovement) error {
	if mv.ID == uuid.Nil {
		mv.ID = uuid.New()
	}
	if mv.MovedAt.IsZero() {
		mv.MovedAt = time.Now().UTC()
	}
	return r.handle(dbc).WithContext(dbc.Ctx).Create(mv).Error
}

func (r *movementRepo) ListByMaterial(dbc dbctx.Context, materialID uuid.UUID, from, to *time.Time) ([]*types.InventoryMovement, error) {
	q := r.handle(dbc).WithContext(dbc.Ctx).
		Where("raw_material_id = ?", materialID)
	if from != nil {
		q = q.Where("moved_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("moved_at <= ?", *to)
	}
	var out []*types.InventoryMovement
	if err := q.Order("moved_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
