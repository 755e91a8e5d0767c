package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/masego-dev/kasieats-backend/api/responses"
	"github.com/masego-dev/kasieats-backend/api/validators"
	"github.com/masego-dev/kasieats-backend/internal/menu"
	"github.com/masego-dev/kasieats-backend/pkg/enums"
	pkgerrors "github.com/masego-dev/kasieats-backend/pkg/errors"
	"github.com/masego-dev/kasieats-backend/pkg/logger"
)

// MenuList returns the available catalog for the storefront.
func MenuList(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		meals, err := svc.ListMenu(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, meals)
	}
}

// MenuDetail returns one meal with its add-ons.
func MenuDetail(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		mealID, err := mealIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		meal, err := svc.GetMeal(r.Context(), mealID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, meal)
	}
}

type createAddOnRequest struct {
	Name  string          `json:"name" validate:"required"`
	Type  string          `json:"type" validate:"required"`
	Price decimal.Decimal `json:"price"`
}

type createMealRequest struct {
	Name        string               `json:"name" validate:"required"`
	Description *string              `json:"description,omitempty"`
	Category    string               `json:"category" validate:"required"`
	BasePrice   decimal.Decimal      `json:"basePrice" validate:"required"`
	ImageURL    *string              `json:"imageUrl,omitempty"`
	AddOns      []createAddOnRequest `json:"addOns,omitempty" validate:"omitempty,dive"`
}

// AdminMenuCreate adds a meal and its customizations to the catalog.
func AdminMenuCreate(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		var payload createMealRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := menu.CreateMealInput{
			Name:        validators.SanitizeString(payload.Name, 120),
			Description: payload.Description,
			Category:    validators.SanitizeString(payload.Category, 60),
			BasePrice:   payload.BasePrice,
			ImageURL:    payload.ImageURL,
		}
		for _, addOn := range payload.AddOns {
			input.AddOns = append(input.AddOns, menu.CreateAddOnInput{
				Name:  validators.SanitizeString(addOn.Name, 120),
				Type:  enums.AddOnType(addOn.Type),
				Price: addOn.Price,
			})
		}

		meal, err := svc.CreateMeal(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, meal)
	}
}

type availabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

// AdminMenuAvailability toggles whether a meal can be ordered.
func AdminMenuAvailability(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		mealID, err := mealIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload availabilityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetMealAvailability(r.Context(), mealID, *payload.Available); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"id": mealID.String(), "available": *payload.Available})
	}
}

func mealIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "mealId")
	mealID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid meal id").WithDetails(map[string]string{"mealId": raw})
	}
	return mealID, nil
}
