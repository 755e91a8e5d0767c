package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/masego-dev/kasieats-backend/pkg/db/models"
	"github.com/masego-dev/kasieats-backend/pkg/paystack"
	"github.com/masego-dev/kasieats-backend/pkg/types"
)

// Repository defines persistence operations for orders and payment events.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByReference(ctx context.Context, reference string) (*models.Order, error)
	List(ctx context.Context, filters ListFilters) ([]models.Order, error)
	MarkPaid(ctx context.Context, reference string, details PaidDetails) (bool, error)
	MarkPaymentFailed(ctx context.Context, reference string) (bool, error)
	ConfirmPending(ctx context.Context, reference string) (bool, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error)
	RecordPaymentEvent(ctx context.Context, event *models.PaymentEvent) (bool, error)
}

// PaymentGateway is the provider surface the order lifecycle depends on.
type PaymentGateway interface {
	Initialize(ctx context.Context, params paystack.InitializeParams) (*paystack.InitializeResult, error)
	Verify(ctx context.Context, reference string) (*paystack.Transaction, error)
	Refund(ctx context.Context, params paystack.RefundParams) (*paystack.Refund, error)
}

// Service defines the order lifecycle operations.
type Service interface {
	Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error)
	ReconcilePayment(ctx context.Context, input ReconcileInput) (*ReconcileResult, error)
	VerifyPayment(ctx context.Context, reference string) (*VerificationResult, error)
	GetByReference(ctx context.Context, reference string) (*OrderDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, filters ListFilters) (*OrderPage, error)
	AdvanceStatus(ctx context.Context, input AdvanceInput) (*OrderDTO, error)
	Cancel(ctx context.Context, input CancelInput) (*OrderDTO, error)
	RefundOrder(ctx context.Context, input RefundInput) (*OrderDTO, error)
}

// PaidDetails carries the provider-side facts recorded on successful payment.
type PaidDetails struct {
	Channel               *string
	ExternalTransactionID *string
	PaidAt                *time.Time
}

// priceResolver returns current catalog components for checkout repricing.
type priceResolver interface {
	ResolveItemPrice(ctx context.Context, mealRef string, addOnRefs []string) (decimal.Decimal, types.AddOnSelections, error)
}
