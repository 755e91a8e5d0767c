package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/masego-dev/kasieats-backend/pkg/types"
)

// OrderItem is the frozen snapshot of a cart line item at checkout time.
// Prices are captured here and never re-derived from the catalog.
type OrderItem struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderID uuid.UUID `gorm:"column:order_id;type:uuid;not null"`

	MealID   *uuid.UUID `gorm:"column:meal_id;type:uuid"`
	MealName string     `gorm:"column:meal_name;not null"`
	Quantity int        `gorm:"column:quantity;not null"`

	UnitBasePrice decimal.Decimal       `gorm:"column:unit_base_price;type:numeric(10,2);not null"`
	AddOns        types.AddOnSelections `gorm:"column:add_ons;type:jsonb;serializer:json"`

	// Total = (unit_base_price + sum of add-on unit prices) * quantity.
	Total decimal.Decimal `gorm:"column:total;type:numeric(10,2);not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
