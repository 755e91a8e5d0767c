package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/masego-dev/kasieats-backend/pkg/db/models"
	"github.com/masego-dev/kasieats-backend/pkg/enums"
	pkgerrors "github.com/masego-dev/kasieats-backend/pkg/errors"
	"github.com/masego-dev/kasieats-backend/pkg/logger"
	"github.com/masego-dev/kasieats-backend/pkg/redis"
	"github.com/masego-dev/kasieats-backend/pkg/types"
)

const menuCacheTTL = 5 * time.Minute

// Service exposes the storefront catalog and the price resolution used by
// cart and checkout.
type Service interface {
	ListMenu(ctx context.Context) ([]MealDTO, error)
	GetMeal(ctx context.Context, id uuid.UUID) (*MealDTO, error)
	ResolveItemPrice(ctx context.Context, mealRef string, addOnRefs []string) (decimal.Decimal, types.AddOnSelections, error)
	CreateMeal(ctx context.Context, input CreateMealInput) (*MealDTO, error)
	SetMealAvailability(ctx context.Context, id uuid.UUID, available bool) error
}

// CreateMealInput holds the validated payload to create a catalog meal.
type CreateMealInput struct {
	Name        string
	Description *string
	Category    string
	BasePrice   decimal.Decimal
	ImageURL    *string
	AddOns      []CreateAddOnInput
}

// CreateAddOnInput defines one customization created with the meal.
type CreateAddOnInput struct {
	Name  string
	Type  enums.AddOnType
	Price decimal.Decimal
}

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CacheKey(parts ...string) string
}

type service struct {
	repo  *Repository
	cache cacheStore
	logg  *logger.Logger
}

// NewService constructs the catalog service. The cache is optional; a nil
// cache reads straight through to the database.
func NewService(repo *Repository, cache cacheStore, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("menu repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("menu logger required")
	}
	return &service{repo: repo, cache: cache, logg: logg}, nil
}

func (s *service) ListMenu(ctx context.Context) ([]MealDTO, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, s.menuKey()); err == nil {
			var cached []MealDTO
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
		}
	}

	meals, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list menu")
	}

	dtos := make([]MealDTO, 0, len(meals))
	for _, meal := range meals {
		dtos = append(dtos, toMealDTO(meal))
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(dtos); err == nil {
			if err := s.cache.Set(ctx, s.menuKey(), string(encoded), menuCacheTTL); err != nil {
				s.logg.Warn(ctx, "menu cache write failed")
			}
		}
	}
	return dtos, nil
}

func (s *service) GetMeal(ctx context.Context, id uuid.UUID) (*MealDTO, error) {
	meal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "meal not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load meal")
	}
	dto := toMealDTO(*meal)
	return &dto, nil
}

// ResolveItemPrice returns the current base price and priced add-on snapshot
// for a meal. Unknown or unavailable meals and add-ons are validation
// failures: the storefront must never price from stale refs.
func (s *service) ResolveItemPrice(ctx context.Context, mealRef string, addOnRefs []string) (decimal.Decimal, types.AddOnSelections, error) {
	mealID, err := uuid.Parse(mealRef)
	if err != nil {
		return decimal.Zero, nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid meal reference")
	}

	meal, err := s.repo.FindByID(ctx, mealID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil, pkgerrors.New(pkgerrors.CodeNotFound, "meal not found")
		}
		return decimal.Zero, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load meal")
	}
	if !meal.IsAvailable {
		return decimal.Zero, nil, pkgerrors.New(pkgerrors.CodeValidation, "meal is not available")
	}

	byID := make(map[string]models.AddOn, len(meal.AddOns))
	for _, addOn := range meal.AddOns {
		byID[addOn.ID.String()] = addOn
	}

	selections := make(types.AddOnSelections, 0, len(addOnRefs))
	for _, ref := range addOnRefs {
		addOn, ok := byID[ref]
		if !ok || !addOn.IsAvailable {
			return decimal.Zero, nil, pkgerrors.New(pkgerrors.CodeValidation, "add-on is not available for this meal").
				WithDetails(map[string]any{"addOnRef": ref})
		}
		selections = append(selections, types.AddOnSelection{
			Ref:       addOn.ID.String(),
			Name:      addOn.Name,
			Type:      string(addOn.Type),
			UnitPrice: addOn.Price,
		})
	}
	if len(selections) == 0 {
		selections = nil
	}
	return meal.BasePrice, selections, nil
}

func (s *service) CreateMeal(ctx context.Context, input CreateMealInput) (*MealDTO, error) {
	if input.BasePrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base price cannot be negative")
	}

	meal := &models.Meal{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		BasePrice:   input.BasePrice,
		ImageURL:    input.ImageURL,
		IsAvailable: true,
	}
	for _, addOn := range input.AddOns {
		if !addOn.Type.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid add-on type").
				WithDetails(map[string]any{"type": string(addOn.Type)})
		}
		meal.AddOns = append(meal.AddOns, models.AddOn{
			Name:        addOn.Name,
			Type:        addOn.Type,
			Price:       addOn.Price,
			IsAvailable: true,
		})
	}

	created, err := s.repo.CreateMeal(ctx, meal)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create meal")
	}
	s.invalidateMenu(ctx)

	dto := toMealDTO(*created)
	return &dto, nil
}

func (s *service) SetMealAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "meal not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load meal")
	}
	if err := s.repo.SetAvailability(ctx, id, available); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update meal availability")
	}
	s.invalidateMenu(ctx)
	return nil
}

func (s *service) menuKey() string {
	if s.cache == nil {
		return ""
	}
	return s.cache.CacheKey("menu", "available")
}

func (s *service) invalidateMenu(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.menuKey()); err != nil && !redis.IsNil(err) {
		s.logg.Warn(ctx, "menu cache invalidation failed")
	}
}
