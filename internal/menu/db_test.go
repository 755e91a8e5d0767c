package menu

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/masego-dev/kasieats-backend/pkg/db/models"
	"github.com/masego-dev/kasieats-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Meal{}, &models.AddOn{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

func mustCreateTestMeal(t *testing.T, tx *gorm.DB, basePrice string) *models.Meal {
	t.Helper()
	meal := &models.Meal{
		ID:          uuid.New(),
		Name:        "Classic Kota",
		Category:    "kotas",
		BasePrice:   decimal.RequireFromString(basePrice),
		IsAvailable: true,
		AddOns: []models.AddOn{
			{
				ID:          uuid.New(),
				Name:        "Extra Cheese",
				Type:        enums.AddOnTypeTopping,
				Price:       decimal.RequireFromString("20.00"),
				IsAvailable: true,
			},
		},
	}
	if err := tx.Create(meal).Error; err != nil {
		t.Fatalf("create meal: %v", err)
	}
	return meal
}
