package menu

import (
	"github.com/shopspring/decimal"

	"github.com/masego-dev/kasieats-backend/internal/pricing"
	"github.com/masego-dev/kasieats-backend/pkg/db/models"
	"github.com/masego-dev/kasieats-backend/pkg/enums"
)

// MealDTO is the storefront view of a catalog meal. Prices are tax-exclusive
// numbers; DisplayPrice is the tax-inclusive string shown to customers.
type MealDTO struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  *string         `json:"description,omitempty"`
	Category     string          `json:"category"`
	BasePrice    decimal.Decimal `json:"basePrice"`
	DisplayPrice string          `json:"displayPrice"`
	ImageURL     *string         `json:"imageUrl,omitempty"`
	IsAvailable  bool            `json:"isAvailable"`
	AddOns       []AddOnDTO      `json:"addOns,omitempty"`
}

// AddOnDTO is the storefront view of a meal customization.
type AddOnDTO struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        enums.AddOnType `json:"type"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable bool            `json:"isAvailable"`
}

func toMealDTO(meal models.Meal) MealDTO {
	dto := MealDTO{
		ID:           meal.ID.String(),
		Name:         meal.Name,
		Description:  meal.Description,
		Category:     meal.Category,
		BasePrice:    meal.BasePrice,
		DisplayPrice: pricing.FormatPrice(meal.BasePrice),
		ImageURL:     meal.ImageURL,
		IsAvailable:  meal.IsAvailable,
	}
	for _, addOn := range meal.AddOns {
		dto.AddOns = append(dto.AddOns, AddOnDTO{
			ID:          addOn.ID.String(),
			Name:        addOn.Name,
			Type:        addOn.Type,
			Price:       addOn.Price,
			IsAvailable: addOn.IsAvailable,
		})
	}
	return dto
}
