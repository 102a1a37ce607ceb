package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	catalogrepo "github.com/feedmill/feedmill-backend/internal/data/repos/catalog"
	types "github.com/feedmill/feedmill-backend/internal/domain"
	"github.com/feedmill/feedmill-backend/internal/pkg/apperr"
	"github.com/feedmill/feedmill-backend/internal/pkg/dbctx"
	"github.com/feedmill/feedmill-backend/internal/platform/logger"
)

type ProfileInput struct {
	Name       string
	Stage      string
	Targets    map[string]float64
	Mandatory  []string
	Restricted []string
}

type ProfileService interface {
	Create(ctx context.Context, in ProfileInput) (*types.NutrientProfile, error)
	Get(ctx context.Context, id uuid.UUID) (*types.NutrientProfile, error)
	List(ctx context.Context) ([]*types.NutrientProfile, error)
	// Update replaces the profile wholesale; partial target edits are not a
	// thing, a profile is versioned by saving a new one.
	Update(ctx context.Context, id uuid.UUID, in ProfileInput) (*types.NutrientProfile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type profileService struct {
	profiles catalogrepo.NutrientProfileRepo
	log      *logger.Logger
}

func NewProfileService(profiles catalogrepo.NutrientProfileRepo, baseLog *logger.Logger) ProfileService {
	return &profileService{
		profiles: profiles,
		log:      baseLog.With("service", "ProfileService"),
	}
}

func (s *profileService) validate(in ProfileInput) error {
	if in.Name == "" {
		return fmt.Errorf("profile name is required: %w", apperr.ErrInvalidArgument)
	}
	if len(in.Targets) == 0 {
		return fmt.Errorf("profile needs at least one nutrient target: %w", apperr.ErrInvalidArgument)
	}
	for nutrient, pct := range in.Targets {
		if pct < 0 || pct > 100 {
			return fmt.Errorf("target %q must be between 0 and 100, got %v: %w", nutrient, pct, apperr.ErrInvalidArgument)
		}
	}
	for _, name := range in.Mandatory {
		for _, restricted := range in.Restricted {
			if name == restricted {
				return fmt.Errorf("ingredient %q is both mandatory and restricted: %w", name, apperr.ErrInvalidArgument)
			}
		}
	}
	return nil
}

func fillProfile(p *types.NutrientProfile, in ProfileInput) error {
	p.Name = in.Name
	p.Stage = in.Stage
	if err := p.SetTargets(in.Targets); err != nil {
		return err
	}
	if err := p.SetMandatory(in.Mandatory); err != nil {
		return err
	}
	return p.SetRestricted(in.Restricted)
}

func (s *profileService) Create(ctx context.Context, in ProfileInput) (*types.NutrientProfile, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	p := &types.NutrientProfile{}
	if err := fillProfile(p, in); err != nil {
		return nil, err
	}
	if err := s.profiles.Create(dbctx.Context{Ctx: ctx}, p); err != nil {
		return nil, err
	}
	s.log.Info("nutrient profile created", "profile_id", p.ID.String(), "name", p.Name)
	return p, nil
}

func (s *profileService) Get(ctx context.Context, id uuid.UUID) (*types.NutrientProfile, error) {
	return s.profiles.GetByID(dbctx.Context{Ctx: ctx}, id)
}

func (s *profileService) List(ctx context.Context) ([]*types.NutrientProfile, error) {
	return s.profiles.List(dbctx.Context{Ctx: ctx})
}

func (s *profileService) Update(ctx context.Context, id uuid.UUID, in ProfileInput) (*types.NutrientProfile, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	p, err := s.profiles.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if err := fillProfile(p, in); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"name":                   p.Name,
		"stage":                  p.Stage,
		"target_nutrients":       p.TargetNutrients,
		"mandatory_ingredients":  p.MandatoryIngredients,
		"restricted_ingredients": p.RestrictedIngredients,
	}
	if err := s.profiles.UpdateFields(dbc, id, updates); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *profileService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.profiles.Delete(dbctx.Context{Ctx: ctx}, id)
}
