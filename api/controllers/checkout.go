package controllers

import (
	"context"
	"net/http"

	"github.com/gamersouq/storefront-backend/api/middleware"
	"github.com/gamersouq/storefront-backend/api/responses"
	checkoutsvc "github.com/gamersouq/storefront-backend/internal/checkout"
	"github.com/gamersouq/storefront-backend/pkg/currency"
	pkgerrors "github.com/gamersouq/storefront-backend/pkg/errors"
	"github.com/gamersouq/storefront-backend/pkg/logger"
)

// CheckoutService prices carts and opens payment intents.
type CheckoutService interface {
	Quote(ctx context.Context, sessionID string, display currency.Code, locale string) (*checkoutsvc.Quote, error)
	CreateIntent(ctx context.Context, sessionID string) (*checkoutsvc.Intent, error)
}

// CheckoutQuote returns the cart totals priced for payment, with the grand
// total also rendered in the requested display currency.
func CheckoutQuote(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		display := currency.Code(r.URL.Query().Get("currency"))
		locale := r.URL.Query().Get("locale")

		quote, err := svc.Quote(r.Context(), middleware.SessionIDFromContext(r.Context()), display, locale)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"cart":             quote.Snapshot,
			"display_currency": quote.DisplayCurrency,
			"display_total":    quote.DisplayTotal,
		})
	}
}

type intentResponse struct {
	IntentID     string        `json:"intent_id"`
	ClientSecret string        `json:"client_secret"`
	AmountMinor  int64         `json:"amount_minor"`
	Currency     currency.Code `json:"currency"`
}

// CheckoutCreateIntent opens a payment intent for the session's cart.
func CheckoutCreateIntent(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		intent, err := svc.CreateIntent(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, intentResponse{
			IntentID:     intent.IntentID,
			ClientSecret: intent.ClientSecret,
			AmountMinor:  intent.AmountMinor,
			Currency:     intent.Currency,
		})
	}
}
