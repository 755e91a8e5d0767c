// Package paystackwebhook applies verified Paystack events to the order
// lifecycle. Signature verification happens in the HTTP controller; this
// service assumes the event is authentic.
package paystackwebhook

import (
	"context"
	"strconv"

	"github.com/masego-dev/kasieats-backend/internal/orders"
	pkgerrors "github.com/masego-dev/kasieats-backend/pkg/errors"
	"github.com/masego-dev/kasieats-backend/pkg/logger"
	pkgmetrics "github.com/masego-dev/kasieats-backend/pkg/metrics"
	"github.com/masego-dev/kasieats-backend/pkg/paystack"
	"github.com/masego-dev/kasieats-backend/pkg/types"
)

type reconciler interface {
	ReconcilePayment(ctx context.Context, input orders.ReconcileInput) (*orders.ReconcileResult, error)
}

type Service struct {
	orders  reconciler
	metrics *pkgmetrics.PaymentMetrics
	logg    *logger.Logger
}

func NewService(ordersSvc reconciler, paymentMetrics *pkgmetrics.PaymentMetrics, logg *logger.Logger) (*Service, error) {
	if ordersSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders service required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{orders: ordersSvc, metrics: paymentMetrics, logg: logg}, nil
}

// HandleEvent dispatches one verified event. A nil return acknowledges the
// delivery; an error tells the controller to answer 5xx so the provider
// retries.
func (s *Service) HandleEvent(ctx context.Context, event *paystack.WebhookEvent) error {
	if event == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "event payload required")
	}

	logCtx := s.logg.WithEventType(ctx, event.Event)

	switch event.Event {
	case paystack.WebhookChargeSuccess:
		return s.reconcile(logCtx, event, orders.OutcomeSuccess)
	case paystack.WebhookChargeFailed:
		return s.reconcile(logCtx, event, orders.OutcomeFailure)
	default:
		// Forward compatibility: acknowledge what we do not understand.
		s.metrics.IncWebhookEvent(event.Event, "ignored")
		s.logg.Info(logCtx, "ignoring unhandled paystack event")
		return nil
	}
}

func (s *Service) reconcile(ctx context.Context, event *paystack.WebhookEvent, outcome orders.ReconcileOutcome) error {
	reference := event.Data.Reference
	if reference == "" {
		// Missing correlation data can never resolve; acknowledging stops
		// the provider's retry storm.
		s.metrics.IncWebhookEvent(event.Event, "discarded")
		s.logg.Warn(ctx, "paystack event missing reference, discarding")
		return nil
	}

	logCtx := s.logg.WithReference(ctx, reference)

	input := orders.ReconcileInput{
		Reference: reference,
		Outcome:   outcome,
		EventType: event.Event,
		Payload: types.JSONMap{
			"source":           "webhook",
			"event":            event.Event,
			"gateway_response": event.Data.GatewayResponse,
			"order_id":         event.Data.OrderID(),
		},
	}
	if outcome == orders.OutcomeSuccess {
		amount := event.Data.AmountRands()
		input.Amount = &amount
		input.PaidAt = event.Data.PaidAt()
		if event.Data.Channel != "" {
			channel := event.Data.Channel
			input.Channel = &channel
		}
		if event.Data.ID != 0 {
			externalID := strconv.FormatInt(event.Data.ID, 10)
			input.ExternalTransactionID = &externalID
		}
	}

	result, err := s.orders.ReconcilePayment(ctx, input)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			// An event for an order we never created; logged no-op.
			s.metrics.IncWebhookEvent(event.Event, "discarded")
			s.logg.Warn(logCtx, "paystack event references unknown order, discarding")
			return nil
		}
		s.metrics.IncWebhookEvent(event.Event, "error")
		return err
	}

	if result.Applied {
		s.metrics.IncWebhookEvent(event.Event, "applied")
		s.logg.Info(logCtx, "paystack event reconciled")
	} else {
		s.metrics.IncWebhookEvent(event.Event, "duplicate")
		s.logg.Info(logCtx, "paystack event was a duplicate, no-op")
	}
	return nil
}
