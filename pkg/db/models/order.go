package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/masego-dev/kasieats-backend/pkg/enums"
)

// Order is the server-side aggregate created at checkout. It is created once,
// mutated only through the defined transition operations and never deleted.
// Status and payment status are independent axes on the same record.
type Order struct {
	ID uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`

	CustomerName        string     `gorm:"column:customer_name;not null"`
	CustomerEmail       string     `gorm:"column:customer_email;not null"`
	CustomerPhone       string     `gorm:"column:customer_phone;not null"`
	SpecialInstructions *string    `gorm:"column:special_instructions"`
	PickupTime          *time.Time `gorm:"column:pickup_time"`

	Status        enums.OrderStatus   `gorm:"column:status;not null;default:'pending'"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;not null;default:'pending'"`

	// PaymentReference is the sole correlation key between this order and the
	// gateway transaction. Unique by constraint; the idempotency key for every
	// downstream reconciliation.
	PaymentReference string `gorm:"column:payment_reference;not null;uniqueIndex:idx_orders_payment_reference"`

	Currency  string          `gorm:"column:currency;not null;default:'ZAR'"`
	Subtotal  decimal.Decimal `gorm:"column:subtotal;type:numeric(10,2);not null"`
	TaxAmount decimal.Decimal `gorm:"column:tax_amount;type:numeric(10,2);not null"`
	Total     decimal.Decimal `gorm:"column:total;type:numeric(10,2);not null"`

	PaymentChannel        *string    `gorm:"column:payment_channel"`
	ExternalTransactionID *string    `gorm:"column:external_transaction_id"`
	PaidAt                *time.Time `gorm:"column:paid_at"`

	CancelledAt  *time.Time `gorm:"column:cancelled_at"`
	CancelReason *string    `gorm:"column:cancel_reason"`
	CancelledBy  *string    `gorm:"column:cancelled_by"`

	RefundedAt          *time.Time       `gorm:"column:refunded_at"`
	RefundAmount        *decimal.Decimal `gorm:"column:refund_amount;type:numeric(10,2)"`
	RefundReason        *string          `gorm:"column:refund_reason"`
	RefundTransactionID *string          `gorm:"column:refund_transaction_id"`
	RefundedBy          *string          `gorm:"column:refunded_by"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
