package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/masego-dev/kasieats-backend/internal/pricing"
	"github.com/masego-dev/kasieats-backend/pkg/db/models"
	"github.com/masego-dev/kasieats-backend/pkg/enums"
	"github.com/masego-dev/kasieats-backend/pkg/types"
)

// CheckoutItemInput is one cart line submitted at checkout. Prices are
// re-resolved from the catalog server-side; client-sent amounts are checked,
// never charged.
type CheckoutItemInput struct {
	MealID    string
	MealName  string
	Quantity  int
	AddOnRefs []string
}

// CustomerInput carries the contact details captured at checkout.
type CustomerInput struct {
	Name                string
	Email               string
	Phone               string
	SpecialInstructions *string
}

// CheckoutInput is the validated checkout payload.
type CheckoutInput struct {
	Customer     CustomerInput
	Items        []CheckoutItemInput
	PickupTime   *time.Time
	ClientAmount *decimal.Decimal
}

// CheckoutResult is returned to the storefront to start the hosted payment.
type CheckoutResult struct {
	OrderID          uuid.UUID
	Reference        string
	AuthorizationURL string
	Total            decimal.Decimal
}

// ReconcileOutcome distinguishes the two provider verdicts a reconciliation
// can apply.
type ReconcileOutcome string

const (
	OutcomeSuccess ReconcileOutcome = "success"
	OutcomeFailure ReconcileOutcome = "failure"
)

// ReconcileInput carries one payment notification, whichever path it arrived
// on (webhook or verification poll).
type ReconcileInput struct {
	Reference             string
	Outcome               ReconcileOutcome
	EventType             string
	Channel               *string
	ExternalTransactionID *string
	PaidAt                *time.Time
	Amount                *decimal.Decimal
	Payload               types.JSONMap
}

// ReconcileResult reports what the transition did.
type ReconcileResult struct {
	Order   *OrderDTO
	Applied bool
}

// VerificationResult is the synchronous fallback response shape.
type VerificationResult struct {
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	PaidAt    *time.Time      `json:"paidAt,omitempty"`
	Channel   string          `json:"channel,omitempty"`
	OrderID   string          `json:"orderId"`
}

// AdvanceInput moves the kitchen axis forward one step.
type AdvanceInput struct {
	OrderID uuid.UUID
	Target  enums.OrderStatus
	Actor   string
}

// CancelInput cancels an order before it is ready.
type CancelInput struct {
	OrderID uuid.UUID
	Reason  string
	Actor   string
}

// RefundInput refunds a paid order. A nil Amount refunds the full total.
type RefundInput struct {
	OrderID uuid.UUID
	Amount  *decimal.Decimal
	Reason  string
	Actor   string
}

// OrderItemDTO is the frozen line item view.
type OrderItemDTO struct {
	ID            string                `json:"id"`
	MealID        *string               `json:"mealId,omitempty"`
	MealName      string                `json:"mealName"`
	Quantity      int                   `json:"quantity"`
	UnitBasePrice decimal.Decimal       `json:"unitBasePrice"`
	AddOns        types.AddOnSelections `json:"selectedAddOns,omitempty"`
	Total         decimal.Decimal       `json:"total"`
}

// OrderDTO is the full order document returned by lookups.
type OrderDTO struct {
	ID                  string              `json:"id"`
	CustomerName        string              `json:"customerName"`
	CustomerEmail       string              `json:"customerEmail"`
	CustomerPhone       string              `json:"customerPhone"`
	SpecialInstructions *string             `json:"specialInstructions,omitempty"`
	PickupTime          *time.Time          `json:"pickupTime,omitempty"`
	Status              enums.OrderStatus   `json:"status"`
	PaymentStatus       enums.PaymentStatus `json:"paymentStatus"`
	PaymentReference    string              `json:"paymentReference"`
	Currency            string              `json:"currency"`
	Subtotal            decimal.Decimal     `json:"subtotal"`
	TaxAmount           decimal.Decimal     `json:"taxAmount"`
	Total               decimal.Decimal     `json:"total"`
	DisplayTotal        string              `json:"displayTotal"`
	PaymentChannel      *string             `json:"paymentChannel,omitempty"`
	PaidAt              *time.Time          `json:"paidAt,omitempty"`
	CancelledAt         *time.Time          `json:"cancelledAt,omitempty"`
	CancelReason        *string             `json:"cancelReason,omitempty"`
	RefundedAt          *time.Time          `json:"refundedAt,omitempty"`
	RefundAmount        *decimal.Decimal    `json:"refundAmount,omitempty"`
	RefundReason        *string             `json:"refundReason,omitempty"`
	Items               []OrderItemDTO      `json:"items"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

// OrderPage is one keyset page of the back-office order listing.
type OrderPage struct {
	Items      []OrderDTO `json:"items"`
	NextCursor string     `json:"nextCursor,omitempty"`
}

func toOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:                  order.ID.String(),
		CustomerName:        order.CustomerName,
		CustomerEmail:       order.CustomerEmail,
		CustomerPhone:       order.CustomerPhone,
		SpecialInstructions: order.SpecialInstructions,
		PickupTime:          order.PickupTime,
		Status:              order.Status,
		PaymentStatus:       order.PaymentStatus,
		PaymentReference:    order.PaymentReference,
		Currency:            order.Currency,
		Subtotal:            order.Subtotal,
		TaxAmount:           order.TaxAmount,
		Total:               order.Total,
		DisplayTotal:        pricing.FormatRands(order.Total),
		PaymentChannel:      order.PaymentChannel,
		PaidAt:              order.PaidAt,
		CancelledAt:         order.CancelledAt,
		CancelReason:        order.CancelReason,
		RefundedAt:          order.RefundedAt,
		RefundAmount:        order.RefundAmount,
		RefundReason:        order.RefundReason,
		CreatedAt:           order.CreatedAt,
		UpdatedAt:           order.UpdatedAt,
	}
	for _, item := range order.Items {
		itemDTO := OrderItemDTO{
			ID:            item.ID.String(),
			MealName:      item.MealName,
			Quantity:      item.Quantity,
			UnitBasePrice: item.UnitBasePrice,
			AddOns:        item.AddOns,
			Total:         item.Total,
		}
		if item.MealID != nil {
			mealID := item.MealID.String()
			itemDTO.MealID = &mealID
		}
		dto.Items = append(dto.Items, itemDTO)
	}
	return dto
}
