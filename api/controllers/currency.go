package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gamersouq/storefront-backend/api/middleware"
	"github.com/gamersouq/storefront-backend/api/responses"
	"github.com/gamersouq/storefront-backend/api/validators"
	"github.com/gamersouq/storefront-backend/pkg/currency"
	pkgerrors "github.com/gamersouq/storefront-backend/pkg/errors"
	"github.com/gamersouq/storefront-backend/pkg/logger"
	"github.com/gamersouq/storefront-backend/pkg/redis"
)

// Currency preferences outlive carts; a shopper keeps their display currency
// across visits.
const currencyPrefTTL = 90 * 24 * time.Hour

type currencyPrefStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CurrencyPrefKey(sessionID string) string
}

type currencyRate struct {
	Code     currency.Code `json:"code"`
	Rate     string        `json:"rate"`
	Exponent int32         `json:"exponent"`
	Sample   string        `json:"sample"`
}

// CurrencyRates lists the supported display currencies with their static
// conversion rates from the canonical currency.
func CurrencyRates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locale := r.URL.Query().Get("locale")

		rates := make([]currencyRate, 0, len(currency.Supported()))
		for _, code := range currency.Supported() {
			converted := currency.Convert(decimal.NewFromInt(1), code)
			rates = append(rates, currencyRate{
				Code:     code,
				Rate:     currency.Rate(code).String(),
				Exponent: currency.Exponent(code),
				Sample:   currency.Format(converted, code, locale),
			})
		}
		responses.WriteSuccess(w, map[string]any{
			"canonical": currency.Canonical,
			"rates":     rates,
		})
	}
}

// CurrencyGetPreference returns the session's stored display currency,
// falling back to the configured default.
func CurrencyGetPreference(store currencyPrefStore, fallback currency.Code, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "preference store unavailable"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		stored, err := store.Get(r.Context(), store.CurrencyPrefKey(sessionID))
		if err != nil && !errors.Is(err, redis.ErrNotFound) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load currency preference"))
			return
		}

		code, ok := currency.Parse(stored)
		if !ok {
			code = fallback
		}
		responses.WriteSuccess(w, map[string]any{"currency": code})
	}
}

type setPreferenceRequest struct {
	Currency string `json:"currency" validate:"required,len=3"`
}

// CurrencySetPreference stores the session's display currency choice.
func CurrencySetPreference(store currencyPrefStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "preference store unavailable"))
			return
		}

		var payload setPreferenceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		code, ok := currency.Parse(payload.Currency)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unsupported currency"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if err := store.Set(r.Context(), store.CurrencyPrefKey(sessionID), string(code), currencyPrefTTL); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store currency preference"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"currency": code})
	}
}
