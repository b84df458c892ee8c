package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/gamersouq/storefront-backend/pkg/config"
	"github.com/gamersouq/storefront-backend/pkg/currency"
	"github.com/gamersouq/storefront-backend/pkg/redis"
)

func newPrefStore(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := redis.New(context.Background(), config.RedisConfig{Address: mr.Addr()}, nil)
	if err != nil {
		t.Fatalf("bootstrap test redis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCurrencyRatesListsAllSupported(t *testing.T) {
	handler := CurrencyRates()

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/currency/rates?locale=en", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			Canonical string `json:"canonical"`
			Rates     []struct {
				Code     string `json:"code"`
				Rate     string `json:"rate"`
				Exponent int32  `json:"exponent"`
			} `json:"rates"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Canonical != "KWD" {
		t.Fatalf("unexpected canonical %q", envelope.Data.Canonical)
	}
	if len(envelope.Data.Rates) != len(currency.Supported()) {
		t.Fatalf("expected %d rates, got %d", len(currency.Supported()), len(envelope.Data.Rates))
	}
}

func TestCurrencyPreferenceDefaultsWhenUnset(t *testing.T) {
	handler := CurrencyGetPreference(newPrefStore(t), currency.KWD, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodGet, "/api/v1/currency/preference", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			Currency string `json:"currency"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Currency != "KWD" {
		t.Fatalf("expected fallback KWD, got %q", envelope.Data.Currency)
	}
}

func TestCurrencyPreferenceRoundTrip(t *testing.T) {
	store := newPrefStore(t)

	setHandler := CurrencySetPreference(store, nil)
	resp := httptest.NewRecorder()
	setHandler.ServeHTTP(resp, sessionRequest(http.MethodPut, "/api/v1/currency/preference", `{"currency":"usd"}`))
	if resp.Code != http.StatusOK {
		t.Fatalf("set: expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	getHandler := CurrencyGetPreference(store, currency.KWD, nil)
	resp = httptest.NewRecorder()
	getHandler.ServeHTTP(resp, sessionRequest(http.MethodGet, "/api/v1/currency/preference", ""))
	if resp.Code != http.StatusOK {
		t.Fatalf("get: expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			Currency string `json:"currency"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Currency != "USD" {
		t.Fatalf("expected USD, got %q", envelope.Data.Currency)
	}
}

func TestCurrencySetPreferenceRejectsUnknown(t *testing.T) {
	handler := CurrencySetPreference(newPrefStore(t), nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, sessionRequest(http.MethodPut, "/api/v1/currency/preference", `{"currency":"XYZ"}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
