package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics records cart mutation, promo resolution and checkout activity.
type PricingMetrics struct {
	cartMutations    *prometheus.HistogramVec
	promoResolutions *prometheus.CounterVec
	checkoutIntents  *prometheus.CounterVec
	cartsCleared     prometheus.Counter
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	mutations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_mutation_duration_seconds",
		Help:    "Duration of cart store mutations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	resolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "promo_resolutions_total",
		Help: "Promo code resolutions by outcome.",
	}, []string{"outcome"})
	intents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_intents_total",
		Help: "Checkout payment intent attempts by outcome.",
	}, []string{"outcome"})
	cleared := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "carts_cleared_total",
		Help: "Carts cleared after confirmed payment.",
	})
	reg.MustRegister(mutations, resolutions, intents, cleared)
	return &PricingMetrics{
		cartMutations:    mutations,
		promoResolutions: resolutions,
		checkoutIntents:  intents,
		cartsCleared:     cleared,
	}
}

// ObserveCartMutation records the duration for the named cart operation.
func (p *PricingMetrics) ObserveCartMutation(op string, duration time.Duration) {
	if p == nil || p.cartMutations == nil {
		return
	}
	p.cartMutations.WithLabelValues(normalizeLabel(op)).Observe(duration.Seconds())
}

// IncPromoResolution increments the resolution counter for the given outcome.
func (p *PricingMetrics) IncPromoResolution(outcome string) {
	if p == nil || p.promoResolutions == nil {
		return
	}
	p.promoResolutions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncCheckoutIntent increments the checkout counter for the given outcome.
func (p *PricingMetrics) IncCheckoutIntent(outcome string) {
	if p == nil || p.checkoutIntents == nil {
		return
	}
	p.checkoutIntents.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncCartCleared increments the cleared-cart counter.
func (p *PricingMetrics) IncCartCleared() {
	if p == nil || p.cartsCleared == nil {
		return
	}
	p.cartsCleared.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
