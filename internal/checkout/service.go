package checkout

import (
	"context"
	"fmt"

	stripeapi "github.com/stripe/stripe-go/v84"

	"github.com/gamersouq/storefront-backend/internal/cart"
	"github.com/gamersouq/storefront-backend/pkg/currency"
	pkgerrors "github.com/gamersouq/storefront-backend/pkg/errors"
	"github.com/gamersouq/storefront-backend/pkg/logger"
	"github.com/gamersouq/storefront-backend/pkg/metrics"
)

const (
	outcomeCreated   = "created"
	outcomeEmptyCart = "empty_cart"
	outcomeError     = "error"
)

// CartReader exposes the cart operations checkout depends on.
type CartReader interface {
	Get(ctx context.Context, sessionID string) (*cart.Snapshot, error)
}

// PaymentClient creates payment intents with the processor.
type PaymentClient interface {
	CreatePaymentIntent(ctx context.Context, amountMinor int64, currency string, sessionID string) (*stripeapi.PaymentIntent, error)
}

// Quote is the cart priced in the canonical currency plus the shopper's
// selected display currency.
type Quote struct {
	Snapshot        *cart.Snapshot
	DisplayCurrency currency.Code
	DisplayTotal    string
}

// Intent carries what the storefront needs to confirm the payment client side.
type Intent struct {
	IntentID     string
	ClientSecret string
	AmountMinor  int64
	Currency     currency.Code
}

// Service prices carts for payment and opens payment intents.
type Service struct {
	carts    CartReader
	payments PaymentClient
	logg     *logger.Logger
	metrics  *metrics.PricingMetrics
}

// NewService builds the checkout service.
func NewService(carts CartReader, payments PaymentClient, logg *logger.Logger, m *metrics.PricingMetrics) (*Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	if payments == nil {
		return nil, fmt.Errorf("payment client required")
	}
	return &Service{carts: carts, payments: payments, logg: logg, metrics: m}, nil
}

// Quote returns the current cart totals, with the grand total additionally
// rendered in the shopper's display currency. It never mutates the cart.
func (s *Service) Quote(ctx context.Context, sessionID string, display currency.Code, locale string) (*Quote, error) {
	snap, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if parsed, ok := currency.Parse(string(display)); ok {
		display = parsed
	} else {
		display = currency.Canonical
	}
	converted := currency.Convert(snap.Totals.Total, display)
	return &Quote{
		Snapshot:        snap,
		DisplayCurrency: display,
		DisplayTotal:    currency.Format(converted, display, locale),
	}, nil
}

// CreateIntent opens a payment intent for the cart's grand total. Payment is
// always charged in the canonical currency regardless of the display
// preference. The cart stays untouched until the webhook confirms payment.
func (s *Service) CreateIntent(ctx context.Context, sessionID string) (*Intent, error) {
	snap, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		s.metrics.IncCheckoutIntent(outcomeError)
		return nil, err
	}
	if len(snap.Items) == 0 {
		s.metrics.IncCheckoutIntent(outcomeEmptyCart)
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}

	amountMinor := currency.MinorUnits(snap.Totals.Total, currency.Canonical)
	if amountMinor <= 0 {
		s.metrics.IncCheckoutIntent(outcomeEmptyCart)
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart total must be positive")
	}

	intent, err := s.payments.CreatePaymentIntent(ctx, amountMinor, string(currency.Canonical), sessionID)
	if err != nil {
		s.metrics.IncCheckoutIntent(outcomeError)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment intent")
	}

	s.metrics.IncCheckoutIntent(outcomeCreated)
	if s.logg != nil {
		s.logg.Info(s.logg.WithSessionID(ctx, sessionID), "payment intent created")
	}
	return &Intent{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		AmountMinor:  amountMinor,
		Currency:     currency.Canonical,
	}, nil
}
