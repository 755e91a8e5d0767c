package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/masego-dev/kasieats-backend/api/responses"
	"github.com/masego-dev/kasieats-backend/api/validators"
	"github.com/masego-dev/kasieats-backend/internal/orders"
	pkgerrors "github.com/masego-dev/kasieats-backend/pkg/errors"
	"github.com/masego-dev/kasieats-backend/pkg/logger"
)

// Checkout creates a pending order from the submitted cart snapshot and
// starts the hosted payment.
func Checkout(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.CheckoutInput{
			Customer: orders.CustomerInput{
				Name:                validators.SanitizeString(payload.Customer.Name, 120),
				Email:               validators.SanitizeString(payload.Customer.Email, 254),
				Phone:               validators.SanitizeString(payload.Customer.Phone, 32),
				SpecialInstructions: payload.SpecialInstructions,
			},
			PickupTime:   payload.PickupTime,
			ClientAmount: payload.Amount,
		}
		for _, item := range payload.Items {
			input.Items = append(input.Items, orders.CheckoutItemInput{
				MealID:    item.MealID,
				MealName:  validators.SanitizeString(item.MealName, 120),
				Quantity:  item.Quantity,
				AddOnRefs: item.AddOnRefs,
			})
		}

		result, err := svc.Checkout(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, checkoutResponse{
			Success:          true,
			AuthorizationURL: result.AuthorizationURL,
			Reference:        result.Reference,
			OrderID:          result.OrderID.String(),
		})
	}
}

type checkoutCustomer struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}

type checkoutItem struct {
	MealID    string   `json:"mealId" validate:"required"`
	MealName  string   `json:"mealName"`
	Quantity  int      `json:"quantity" validate:"required,min=1"`
	AddOnRefs []string `json:"selectedAddOns,omitempty"`
}

type checkoutRequest struct {
	Customer            checkoutCustomer `json:"customer" validate:"required"`
	Items               []checkoutItem   `json:"items" validate:"required,min=1,dive"`
	SpecialInstructions *string          `json:"specialInstructions,omitempty"`
	PickupTime          *time.Time       `json:"pickupTime,omitempty"`
	Amount              *decimal.Decimal `json:"amount,omitempty"`
}

type checkoutResponse struct {
	Success          bool   `json:"success"`
	AuthorizationURL string `json:"authorizationUrl"`
	Reference        string `json:"reference"`
	OrderID          string `json:"orderId"`
}
