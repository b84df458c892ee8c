package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	stripeapi "github.com/stripe/stripe-go/v84"

	cartsvc "github.com/gamersouq/storefront-backend/internal/cart"
	checkoutsvc "github.com/gamersouq/storefront-backend/internal/checkout"
	"github.com/gamersouq/storefront-backend/internal/promotions"
	stripewebhook "github.com/gamersouq/storefront-backend/internal/webhooks/stripe"
	"github.com/gamersouq/storefront-backend/pkg/config"
	"github.com/gamersouq/storefront-backend/pkg/logger"
	"github.com/gamersouq/storefront-backend/pkg/redis"
	"github.com/shopspring/decimal"
)

type fakePayments struct{}

func (fakePayments) CreatePaymentIntent(_ context.Context, amountMinor int64, currency string, sessionID string) (*stripeapi.PaymentIntent, error) {
	return &stripeapi.PaymentIntent{
		ID:           "pi_test",
		ClientSecret: "pi_test_secret",
		Amount:       amountMinor,
	}, nil
}

type fakeSigner struct{}

func (fakeSigner) SigningSecret() string { return "whsec_test" }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})

	mr := miniredis.RunT(t)
	redisClient, err := redis.New(context.Background(), config.RedisConfig{Address: mr.Addr()}, nil)
	if err != nil {
		t.Fatalf("bootstrap redis: %v", err)
	}
	t.Cleanup(func() { _ = redisClient.Close() })

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.Currency.Default = "KWD"
	cfg.Admin.Token = "admin-secret"
	cfg.RateLimit.Limit = 1000
	cfg.RateLimit.Window = time.Minute

	rules := cartsvc.Rules{
		FreeShippingThreshold: decimal.RequireFromString("25.000"),
		FlatShippingFee:       decimal.RequireFromString("2.000"),
	}
	cartStore, err := cartsvc.NewStore(redisClient, rules, time.Hour, nil, nil)
	if err != nil {
		t.Fatalf("cart store: %v", err)
	}

	promoService, err := promotions.NewService(promotions.NewMemoryRepository(promotions.SeedCatalog()...), nil, nil)
	if err != nil {
		t.Fatalf("promo service: %v", err)
	}

	checkoutService, err := checkoutsvc.NewService(cartStore, fakePayments{}, nil, nil)
	if err != nil {
		t.Fatalf("checkout service: %v", err)
	}

	guard, err := stripewebhook.NewIdempotencyGuard(redisClient, time.Hour, "stripe")
	if err != nil {
		t.Fatalf("guard: %v", err)
	}
	webhookService, err := stripewebhook.NewService(stripewebhook.ServiceParams{
		Carts: cartStore,
		Guard: guard,
	})
	if err != nil {
		t.Fatalf("webhook service: %v", err)
	}

	return NewRouter(RouterParams{
		Config:       cfg,
		Logger:       logg,
		DB:           nil,
		Redis:        redisClient,
		CartService:  cartStore,
		Promotions:   promoService,
		Catalog:      promoService,
		Checkout:     checkoutService,
		Webhooks:     webhookService,
		StripeClient: fakeSigner{},
		Registry:     prometheus.NewRegistry(),
	})
}

func doRequest(t *testing.T, router http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/health/live", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("live: expected 200 got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/health/ready", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200 got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestCartFlowEndToEnd(t *testing.T) {
	router := newTestRouter(t)
	session := map[string]string{"X-Session-ID": "sess-flow"}

	rec := doRequest(t, router, http.MethodGet, "/api/v1/cart", "", session)
	if rec.Code != http.StatusOK {
		t.Fatalf("get empty cart: expected 200 got %d", rec.Code)
	}

	body := `{"id":"tee-1","title":"Pro Tee","price":"29.000","quantity":1,"category":"tshirts"}`
	rec = doRequest(t, router, http.MethodPost, "/api/v1/cart/items", body, session)
	if rec.Code != http.StatusOK {
		t.Fatalf("add item: expected 200 got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodPost, "/api/v1/cart/promo", `{"code":"garden10"}`, session)
	if rec.Code != http.StatusOK {
		t.Fatalf("apply promo: expected 200 got %d (%s)", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data struct {
			PromoCode string `json:"promo_code"`
			Totals    struct {
				Discount string `json:"discount"`
				Total    string `json:"total"`
			} `json:"totals"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.PromoCode != "garden10" {
		t.Fatalf("expected promo applied, got %q", envelope.Data.PromoCode)
	}
	if envelope.Data.Totals.Discount != "2.900" {
		t.Fatalf("expected discount 2.900, got %q", envelope.Data.Totals.Discount)
	}

	rec = doRequest(t, router, http.MethodPost, "/api/v1/checkout/intent", "", session)
	if rec.Code != http.StatusCreated {
		t.Fatalf("checkout: expected 201 got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestCartRoutesRequireSession(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/cart", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without session header, got %d", rec.Code)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/admin/discount-codes", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/admin/discount-codes", "", map[string]string{"X-Admin-Token": "admin-secret"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestCurrencyRatesPublic(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/currency/rates", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}
