package menu

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/masego-dev/kasieats-backend/pkg/db/models"
)

// Repository wires together catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListAvailable returns every available meal with its add-ons, ordered for
// stable menu rendering.
func (r *Repository) ListAvailable(ctx context.Context) ([]models.Meal, error) {
	var meals []models.Meal
	err := r.db.WithContext(ctx).
		Preload("AddOns", "is_available = ?", true).
		Where("is_available = ?", true).
		Order("category, name").
		Find(&meals).Error
	if err != nil {
		return nil, err
	}
	return meals, nil
}

// FindByID loads a meal with all its add-ons, available or not.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Meal, error) {
	var meal models.Meal
	if err := r.db.WithContext(ctx).Preload("AddOns").First(&meal, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &meal, nil
}

// CreateMeal inserts a meal together with its add-ons.
func (r *Repository) CreateMeal(ctx context.Context, meal *models.Meal) (*models.Meal, error) {
	if err := r.db.WithContext(ctx).Create(meal).Error; err != nil {
		return nil, err
	}
	return meal, nil
}

// UpdateMeal saves the meal row.
func (r *Repository) UpdateMeal(ctx context.Context, meal *models.Meal) (*models.Meal, error) {
	if err := r.db.WithContext(ctx).Save(meal).Error; err != nil {
		return nil, err
	}
	return meal, nil
}

// SetAvailability toggles a meal on or off the menu.
func (r *Repository) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Meal{}).
		Where("id = ?", id).
		Update("is_available", available).Error
}
