package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	checkoutsvc "github.com/gamersouq/storefront-backend/internal/checkout"
	"github.com/gamersouq/storefront-backend/pkg/currency"
	pkgerrors "github.com/gamersouq/storefront-backend/pkg/errors"
)

type stubCheckoutService struct {
	quote       *checkoutsvc.Quote
	intent      *checkoutsvc.Intent
	err         error
	gotSession  string
	gotCurrency currency.Code
	gotLocale   string
}

func (s *stubCheckoutService) Quote(_ context.Context, sessionID string, display currency.Code, locale string) (*checkoutsvc.Quote, error) {
	s.gotSession = sessionID
	s.gotCurrency = display
	s.gotLocale = locale
	return s.quote, s.err
}

func (s *stubCheckoutService) CreateIntent(_ context.Context, sessionID string) (*checkoutsvc.Intent, error) {
	s.gotSession = sessionID
	return s.intent, s.err
}

func TestCheckoutQuoteForwardsDisplayParams(t *testing.T) {
	svc := &stubCheckoutService{quote: &checkoutsvc.Quote{
		Snapshot:        emptySnapshot(),
		DisplayCurrency: currency.USD,
		DisplayTotal:    "$ 10.87",
	}}
	handler := CheckoutQuote(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodGet, "/api/v1/checkout/quote?currency=USD&locale=ar", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotCurrency != currency.Code("USD") || svc.gotLocale != "ar" {
		t.Fatalf("unexpected params %q %q", svc.gotCurrency, svc.gotLocale)
	}

	var envelope struct {
		Data struct {
			DisplayTotal string `json:"display_total"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.DisplayTotal != "$ 10.87" {
		t.Fatalf("unexpected display total %q", envelope.Data.DisplayTotal)
	}
}

func TestCheckoutCreateIntentSuccess(t *testing.T) {
	svc := &stubCheckoutService{intent: &checkoutsvc.Intent{
		IntentID:     "pi_1",
		ClientSecret: "pi_1_secret",
		AmountMinor:  4500,
		Currency:     currency.KWD,
	}}
	handler := CheckoutCreateIntent(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/checkout/intent", ""))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}

	var envelope struct {
		Data intentResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AmountMinor != 4500 || envelope.Data.ClientSecret != "pi_1_secret" {
		t.Fatalf("unexpected intent %+v", envelope.Data)
	}
}

func TestCheckoutCreateIntentEmptyCart(t *testing.T) {
	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")}
	handler := CheckoutCreateIntent(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPost, "/api/v1/checkout/intent", ""))

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}
