package webhooks

import (
	"context"
	"io"
	"net/http"

	"github.com/masego-dev/kasieats-backend/api/responses"
	pkgerrors "github.com/masego-dev/kasieats-backend/pkg/errors"
	"github.com/masego-dev/kasieats-backend/pkg/logger"
	"github.com/masego-dev/kasieats-backend/pkg/paystack"
	"github.com/masego-dev/kasieats-backend/pkg/webhooksig"
)

type PaystackWebhookService interface {
	HandleEvent(ctx context.Context, event *paystack.WebhookEvent) error
}

type paystackWebhookGuard interface {
	CheckAndMark(ctx context.Context, eventID string) (bool, error)
	Delete(ctx context.Context, eventID string) error
}

// PaystackWebhook is the asynchronous payment reconciliation entrypoint. The
// signature is computed over the exact raw body, so the body must be read
// before any decoding.
func PaystackWebhook(svc PaystackWebhookService, verifier webhooksig.Verifier, guard paystackWebhookGuard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}
		if verifier == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "signature verifier unavailable"))
			return
		}
		if guard == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "idempotency guard unavailable"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		signature := r.Header.Get(paystack.SignatureHeader)
		if !verifier.Verify(payload, signature) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid webhook signature"))
			return
		}

		event, err := paystack.ParseWebhookEvent(payload)
		if err != nil {
			// The body authenticated, so a decode failure is the provider's
			// bug; acknowledging avoids a retry loop that can never succeed.
			if logg != nil {
				logg.Warn(ctx, "discarding undecodable paystack webhook body")
			}
			responses.WriteAck(w)
			return
		}

		eventID := event.Event + ":" + event.Data.Reference
		if event.Data.Reference == "" {
			eventID = signature
		}

		alreadyProcessed, err := guard.CheckAndMark(ctx, eventID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
			return
		}
		if alreadyProcessed {
			responses.WriteAck(w)
			return
		}

		if err := svc.HandleEvent(ctx, event); err != nil {
			// Release the mark so the provider's retry gets another attempt.
			_ = guard.Delete(ctx, eventID)
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteAck(w)
	}
}
