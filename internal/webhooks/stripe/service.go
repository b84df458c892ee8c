package stripewebhook

import (
	"context"
	"encoding/json"

	"github.com/stripe/stripe-go/v84"
	"go.uber.org/multierr"

	pkgerrors "github.com/gamersouq/storefront-backend/pkg/errors"
	"github.com/gamersouq/storefront-backend/pkg/logger"
)

const metadataSessionKey = "session_id"

type cartClearer interface {
	Clear(ctx context.Context, sessionID string) error
}

type idempotencyGuard interface {
	CheckAndMark(ctx context.Context, eventID string) (bool, error)
	Delete(ctx context.Context, eventID string) error
}

// ServiceParams wires the webhook handler's dependencies.
type ServiceParams struct {
	Carts  cartClearer
	Guard  idempotencyGuard
	Logger *logger.Logger
}

// Service reacts to verified Stripe events. Payment success is the only event
// that mutates state: it clears the paying session's cart exactly once.
type Service struct {
	carts cartClearer
	guard idempotencyGuard
	logg  *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Carts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart store required")
	}
	if params.Guard == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "idempotency guard required")
	}
	return &Service{
		carts: params.Carts,
		guard: params.Guard,
		logg:  params.Logger,
	}, nil
}

// HandleEvent dispatches a verified event. Unrecognized event types are
// acknowledged without action so Stripe stops redelivering them.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		return s.handlePaymentSucceeded(ctx, event)
	default:
		return nil
	}
}

func (s *Service) handlePaymentSucceeded(ctx context.Context, event *stripe.Event) error {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode payment intent event")
	}

	sessionID := intent.Metadata[metadataSessionKey]
	if sessionID == "" {
		// Intents opened outside this storefront carry no session. Nothing
		// to clear.
		if s.logg != nil {
			s.logg.Warn(ctx, "payment intent succeeded without session metadata")
		}
		return nil
	}

	duplicate, err := s.guard.CheckAndMark(ctx, event.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check event idempotency")
	}
	if duplicate {
		return nil
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		// Release the mark so Stripe's redelivery gets another attempt.
		return multierr.Append(
			pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart after payment"),
			s.guard.Delete(ctx, event.ID),
		)
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithSessionID(ctx, sessionID), "cart cleared after payment success")
	}
	return nil
}
