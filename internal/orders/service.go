package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/masego-dev/kasieats-backend/internal/pricing"
	"github.com/masego-dev/kasieats-backend/pkg/config"
	"github.com/masego-dev/kasieats-backend/pkg/db/models"
	"github.com/masego-dev/kasieats-backend/pkg/enums"
	pkgerrors "github.com/masego-dev/kasieats-backend/pkg/errors"
	"github.com/masego-dev/kasieats-backend/pkg/logger"
	pkgmetrics "github.com/masego-dev/kasieats-backend/pkg/metrics"
	"github.com/masego-dev/kasieats-backend/pkg/outbox"
	"github.com/masego-dev/kasieats-backend/pkg/pagination"
	"github.com/masego-dev/kasieats-backend/pkg/paystack"
	"github.com/masego-dev/kasieats-backend/pkg/types"
)

const paymentProvider = "paystack"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// OrderCreatedEvent is emitted when checkout persists a new order.
type OrderCreatedEvent struct {
	OrderID   uuid.UUID       `json:"order_id"`
	Reference string          `json:"reference"`
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency"`
	ItemCount int             `json:"item_count"`
}

// OrderPaymentEvent is emitted when a payment reconciliation applies.
type OrderPaymentEvent struct {
	OrderID       uuid.UUID           `json:"order_id"`
	Reference     string              `json:"reference"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	Channel       *string             `json:"channel,omitempty"`
}

// OrderStatusEvent is emitted on staff-triggered lifecycle changes.
type OrderStatusEvent struct {
	OrderID uuid.UUID         `json:"order_id"`
	Status  enums.OrderStatus `json:"status"`
	Actor   string            `json:"actor,omitempty"`
	Reason  string            `json:"reason,omitempty"`
}

// OrderRefundedEvent is emitted when a refund settles.
type OrderRefundedEvent struct {
	OrderID             uuid.UUID       `json:"order_id"`
	Reference           string          `json:"reference"`
	Amount              decimal.Decimal `json:"amount"`
	RefundTransactionID string          `json:"refund_transaction_id,omitempty"`
	Actor               string          `json:"actor,omitempty"`
}

type service struct {
	repo     Repository
	tx       txRunner
	gateway  PaymentGateway
	outbox   outboxPublisher
	resolver priceResolver
	checkout config.CheckoutConfig
	callback string
	metrics  *pkgmetrics.PaymentMetrics
	logg     *logger.Logger
}

// NewService builds the order lifecycle service with its dependencies.
func NewService(
	repo Repository,
	tx txRunner,
	gateway PaymentGateway,
	outboxSvc outboxPublisher,
	resolver priceResolver,
	checkoutCfg config.CheckoutConfig,
	callbackURL string,
	paymentMetrics *pkgmetrics.PaymentMetrics,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("price resolver required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		gateway:  gateway,
		outbox:   outboxSvc,
		resolver: resolver,
		checkout: checkoutCfg,
		callback: callbackURL,
		metrics:  paymentMetrics,
		logg:     logg,
	}, nil
}

// Checkout prices the submitted items from the catalog, persists the order
// with a fresh payment reference, and opens a hosted payment session.
func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	if err := validateCheckout(input); err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	subtotal := decimal.Zero
	for _, line := range input.Items {
		basePrice, addOns, err := s.resolver.ResolveItemPrice(ctx, line.MealID, line.AddOnRefs)
		if err != nil {
			return nil, err
		}
		lineTotal := pricing.LineTotal(basePrice, addOns, line.Quantity)
		item := models.OrderItem{
			MealName:      line.MealName,
			Quantity:      line.Quantity,
			UnitBasePrice: basePrice,
			AddOns:        addOns,
			Total:         lineTotal,
		}
		if mealID, err := uuid.Parse(line.MealID); err == nil {
			item.MealID = &mealID
		}
		items = append(items, item)
		subtotal = subtotal.Add(lineTotal)
	}

	quote := pricing.NewQuote(subtotal)
	if !quote.Total.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order total must be positive")
	}
	if input.ClientAmount != nil && !input.ClientAmount.Equal(quote.Total) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "submitted amount does not match priced total").
			WithDetails(map[string]any{
				"submitted": input.ClientAmount.StringFixed(2),
				"priced":    quote.Total.StringFixed(2),
			})
	}

	reference := NewPaymentReference(s.checkout.ReferencePrefix)
	order := &models.Order{
		CustomerName:        strings.TrimSpace(input.Customer.Name),
		CustomerEmail:       strings.TrimSpace(input.Customer.Email),
		CustomerPhone:       strings.TrimSpace(input.Customer.Phone),
		SpecialInstructions: input.Customer.SpecialInstructions,
		PickupTime:          input.PickupTime,
		Status:              enums.OrderStatusPending,
		PaymentStatus:       enums.PaymentStatusPending,
		PaymentReference:    reference,
		Currency:            s.checkout.Currency,
		Subtotal:            quote.Subtotal,
		TaxAmount:           quote.TaxAmount,
		Total:               quote.Total,
		Items:               items,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist order")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Data: OrderCreatedEvent{
				OrderID:   order.ID,
				Reference: reference,
				Total:     quote.Total,
				Currency:  order.Currency,
				ItemCount: len(items),
			},
		})
	})
	if err != nil {
		s.metrics.IncCheckout("failure")
		return nil, err
	}

	logCtx := s.logg.WithOrderID(s.logg.WithReference(ctx, reference), order.ID.String())
	s.logg.Info(logCtx, "order created")

	session, err := s.gateway.Initialize(ctx, paystack.InitializeParams{
		Email:       order.CustomerEmail,
		Amount:      quote.Total,
		Currency:    order.Currency,
		Reference:   reference,
		CallbackURL: s.callback,
		Metadata: map[string]any{
			"order_id": order.ID.String(),
		},
	})
	if err != nil {
		// The order stays pending/payment-pending; the customer can retry
		// checkout and the abandoned row never transitions.
		s.logg.Error(logCtx, "payment session initialization failed", err)
		s.metrics.IncCheckout("failure")
		return nil, err
	}

	s.metrics.IncCheckout("success")
	return &CheckoutResult{
		OrderID:          order.ID,
		Reference:        reference,
		AuthorizationURL: session.AuthorizationURL,
		Total:            quote.Total,
	}, nil
}

// ReconcilePayment is the single idempotent transition shared by the webhook
// reconciler and the verification fallback. Whichever path delivers first
// wins; every later delivery of the same outcome is a no-op success.
func (s *service) ReconcilePayment(ctx context.Context, input ReconcileInput) (*ReconcileResult, error) {
	reference := strings.TrimSpace(input.Reference)
	if reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment reference is required")
	}

	order, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found for reference")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order for reconciliation")
	}

	logCtx := s.logg.WithOrderID(s.logg.WithReference(ctx, reference), order.ID.String())

	if input.Amount != nil && !input.Amount.Equal(order.Total) {
		s.logg.Warn(s.logg.WithFields(logCtx, map[string]any{
			"expected": order.Total.StringFixed(2),
			"reported": input.Amount.StringFixed(2),
		}), "reconciled amount differs from order total")
	}

	applied := false
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		recorded, err := txRepo.RecordPaymentEvent(ctx, &models.PaymentEvent{
			Provider:              paymentProvider,
			EventType:             input.EventType,
			Reference:             reference,
			ExternalTransactionID: input.ExternalTransactionID,
			Payload:               input.Payload,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record payment event")
		}
		if !recorded {
			// Exact redelivery of an event already consumed.
			return nil
		}

		switch input.Outcome {
		case OutcomeSuccess:
			applied, err = txRepo.MarkPaid(ctx, reference, PaidDetails{
				Channel:               input.Channel,
				ExternalTransactionID: input.ExternalTransactionID,
				PaidAt:                input.PaidAt,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark order paid")
			}
			if !applied {
				return nil
			}
			if _, err := txRepo.ConfirmPending(ctx, reference); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "confirm order")
			}
			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventOrderPaid,
				AggregateType: enums.AggregateOrder,
				AggregateID:   order.ID,
				Data: OrderPaymentEvent{
					OrderID:       order.ID,
					Reference:     reference,
					PaymentStatus: enums.PaymentStatusPaid,
					Channel:       input.Channel,
				},
			})

		case OutcomeFailure:
			applied, err = txRepo.MarkPaymentFailed(ctx, reference)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark payment failed")
			}
			if !applied {
				return nil
			}
			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventOrderPaymentFailed,
				AggregateType: enums.AggregateOrder,
				AggregateID:   order.ID,
				Data: OrderPaymentEvent{
					OrderID:       order.ID,
					Reference:     reference,
					PaymentStatus: enums.PaymentStatusFailed,
				},
			})

		default:
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown reconciliation outcome")
		}
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncReconciliation(string(input.Outcome), applied)
	if applied {
		s.logg.Info(s.logg.WithEventType(logCtx, input.EventType), "payment reconciled")
	} else {
		s.logg.Info(s.logg.WithEventType(logCtx, input.EventType), "payment reconciliation no-op")
	}

	updated, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload order")
	}
	return &ReconcileResult{Order: toOrderDTO(updated), Applied: applied}, nil
}

// VerifyPayment polls the gateway for a reference and applies the shared
// transition. Used by the storefront after the provider redirect when the
// webhook has not landed yet.
func (s *service) VerifyPayment(ctx context.Context, reference string) (*VerificationResult, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment reference is required")
	}

	order, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found for reference")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order for verification")
	}

	txn, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		return nil, err
	}

	switch txn.Status {
	case paystack.TransactionSuccess:
		externalID := strconv.FormatInt(txn.ID, 10)
		if _, err := s.ReconcilePayment(ctx, ReconcileInput{
			Reference:             reference,
			Outcome:               OutcomeSuccess,
			EventType:             "verification.success",
			Channel:               optional(txn.Channel),
			ExternalTransactionID: &externalID,
			PaidAt:                txn.PaidAt,
			Amount:                &txn.Amount,
			Payload:               types.JSONMap{"source": "verification", "gateway_response": txn.GatewayResponse},
		}); err != nil {
			return nil, err
		}
	case paystack.TransactionFailed, paystack.TransactionAbandoned:
		if _, err := s.ReconcilePayment(ctx, ReconcileInput{
			Reference: reference,
			Outcome:   OutcomeFailure,
			EventType: "verification." + string(txn.Status),
			Payload:   types.JSONMap{"source": "verification", "gateway_response": txn.GatewayResponse},
		}); err != nil {
			return nil, err
		}
	default:
		// Still pending on the provider side; no transition.
	}

	return &VerificationResult{
		Reference: reference,
		Amount:    txn.Amount,
		Status:    string(txn.Status),
		PaidAt:    txn.PaidAt,
		Channel:   txn.Channel,
		OrderID:   order.ID.String(),
	}, nil
}

func (s *service) GetByReference(ctx context.Context, reference string) (*OrderDTO, error) {
	order, err := s.repo.FindByReference(ctx, strings.TrimSpace(reference))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return toOrderDTO(order), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return toOrderDTO(order), nil
}

func (s *service) ListOrders(ctx context.Context, filters ListFilters) (*OrderPage, error) {
	rows, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	page := &OrderPage{}
	limit := pagination.NormalizeLimit(filters.Limit)
	if len(rows) > limit {
		last := rows[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		rows = rows[:limit]
	}
	page.Items = make([]OrderDTO, 0, len(rows))
	for i := range rows {
		page.Items = append(page.Items, *toOrderDTO(&rows[i]))
	}
	return page, nil
}

// statusAdvances maps each kitchen status to its only legal successor.
var statusAdvances = map[enums.OrderStatus]enums.OrderStatus{
	enums.OrderStatusConfirmed: enums.OrderStatusPreparing,
	enums.OrderStatusPreparing: enums.OrderStatusReady,
	enums.OrderStatusReady:     enums.OrderStatusCompleted,
}

// AdvanceStatus moves the kitchen axis exactly one step forward.
func (s *service) AdvanceStatus(ctx context.Context, input AdvanceInput) (*OrderDTO, error) {
	if !input.Target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}

	next, ok := statusAdvances[order.Status]
	if !ok || next != input.Target {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "status transition not allowed").
			WithDetails(map[string]any{
				"from": order.Status.String(),
				"to":   input.Target.String(),
			})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		affected, err := txRepo.UpdateOrder(ctx, order.ID, map[string]any{"status": input.Target})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "advance order status")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order changed concurrently")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{Subject: input.Actor, Role: "staff"},
			Data: OrderStatusEvent{
				OrderID: order.ID,
				Status:  input.Target,
				Actor:   input.Actor,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, order.ID)
}

// cancellableStatuses lists the kitchen states a cancellation may leave from.
var cancellableStatuses = []enums.OrderStatus{
	enums.OrderStatusPending,
	enums.OrderStatusConfirmed,
	enums.OrderStatusPreparing,
}

// Cancel marks the order cancelled. Orders already ready or completed cannot
// be cancelled.
func (s *service) Cancel(ctx context.Context, input CancelInput) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}

	cancellable := false
	for _, status := range cancellableStatuses {
		if order.Status == status {
			cancellable = true
			break
		}
	}
	if !cancellable {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be cancelled").
			WithDetails(map[string]any{"status": order.Status.String()})
	}

	now := time.Now()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		affected, err := txRepo.UpdateOrder(ctx, order.ID, map[string]any{
			"status":        enums.OrderStatusCancelled,
			"cancelled_at":  now,
			"cancel_reason": input.Reason,
			"cancelled_by":  input.Actor,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel order")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order changed concurrently")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCancelled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{Subject: input.Actor, Role: "staff"},
			Data: OrderStatusEvent{
				OrderID: order.ID,
				Status:  enums.OrderStatusCancelled,
				Actor:   input.Actor,
				Reason:  input.Reason,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, order.ID)
}

// RefundOrder issues a provider refund and flips the payment axis paid ->
// refunded. Only paid orders qualify.
func (s *service) RefundOrder(ctx context.Context, input RefundInput) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}

	if order.PaymentStatus != enums.PaymentStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only paid orders can be refunded").
			WithDetails(map[string]any{"paymentStatus": order.PaymentStatus.String()})
	}
	if order.ExternalTransactionID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order has no settled gateway transaction")
	}
	transactionID, err := strconv.ParseInt(*order.ExternalTransactionID, 10, 64)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse gateway transaction id")
	}

	amount := order.Total
	if input.Amount != nil {
		if input.Amount.IsNegative() || input.Amount.GreaterThan(order.Total) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "refund amount out of range")
		}
		amount = *input.Amount
	}

	refund, err := s.gateway.Refund(ctx, paystack.RefundParams{
		TransactionID: transactionID,
		Amount:        amount,
		Reason:        input.Reason,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	refundTxnID := strconv.FormatInt(refund.ID, 10)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		affected, err := txRepo.UpdateOrder(ctx, order.ID, map[string]any{
			"payment_status":        enums.PaymentStatusRefunded,
			"refunded_at":           now,
			"refund_amount":         amount,
			"refund_reason":         input.Reason,
			"refund_transaction_id": refundTxnID,
			"refunded_by":           input.Actor,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record refund")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order changed concurrently")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderRefunded,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{Subject: input.Actor, Role: "staff"},
			Data: OrderRefundedEvent{
				OrderID:             order.ID,
				Reference:           order.PaymentReference,
				Amount:              amount,
				RefundTransactionID: refundTxnID,
				Actor:               input.Actor,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, order.ID)
}

func validateCheckout(input CheckoutInput) error {
	details := map[string]string{}
	if strings.TrimSpace(input.Customer.Name) == "" {
		details["name"] = "customer name is required"
	}
	if strings.TrimSpace(input.Customer.Email) == "" {
		details["email"] = "customer email is required"
	}
	if strings.TrimSpace(input.Customer.Phone) == "" {
		details["phone"] = "customer phone is required"
	}
	if len(input.Items) == 0 {
		details["items"] = "order must contain at least one item"
	}
	for i, item := range input.Items {
		if item.Quantity < 1 {
			details[fmt.Sprintf("items[%d].quantity", i)] = "quantity must be at least 1"
		}
		if strings.TrimSpace(item.MealID) == "" {
			details[fmt.Sprintf("items[%d].mealId", i)] = "meal id is required"
		}
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid checkout payload").WithDetails(details)
	}
	return nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
