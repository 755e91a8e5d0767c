package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/masego-dev/kasieats-backend/pkg/enums"
)

// AddOn is a purchasable customization attached to a meal.
type AddOn struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	MealID      uuid.UUID       `gorm:"column:meal_id;type:uuid;not null"`
	Name        string          `gorm:"column:name;not null"`
	Type        enums.AddOnType `gorm:"column:type;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	IsAvailable bool            `gorm:"column:is_available;not null;default:true"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
