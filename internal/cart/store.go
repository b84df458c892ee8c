package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gamersouq/storefront-backend/pkg/enums"
	pkgerrors "github.com/gamersouq/storefront-backend/pkg/errors"
	"github.com/gamersouq/storefront-backend/pkg/logger"
	"github.com/gamersouq/storefront-backend/pkg/metrics"
	"github.com/gamersouq/storefront-backend/pkg/redis"
)

// Storage is the key-value contract the store persists through.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// Store is the single source of truth for session carts. Every mutation goes
// through it so the derived totals stay consistent with the line items.
type Store struct {
	kv      Storage
	rules   Rules
	ttl     time.Duration
	logg    *logger.Logger
	metrics *metrics.PricingMetrics
}

// NewStore builds a cart store backed by the provided key-value storage.
func NewStore(kv Storage, rules Rules, ttl time.Duration, logg *logger.Logger, m *metrics.PricingMetrics) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	if rules.FlatShippingFee.IsNegative() || rules.FreeShippingThreshold.IsNegative() {
		return nil, fmt.Errorf("shipping rules must be non-negative")
	}
	return &Store{
		kv:      kv,
		rules:   rules,
		ttl:     ttl,
		logg:    logg,
		metrics: m,
	}, nil
}

// Get rehydrates the session's cart. A missing or corrupted document yields
// the empty initial state rather than an error.
func (s *Store) Get(ctx context.Context, sessionID string) (*Snapshot, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.snapshot(state), nil
}

// AddItem merges the line into the cart: an existing line with the same id
// gains the incoming quantity, otherwise the line is appended at the end.
func (s *Store) AddItem(ctx context.Context, sessionID string, line Line) (*Snapshot, error) {
	if strings.TrimSpace(line.ID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line id is required")
	}
	if line.Quantity <= 0 {
		line.Quantity = 1
	}
	if line.Price.IsNegative() {
		line.Price = decimal.Zero
	}

	return s.mutate(ctx, sessionID, "add_item", func(state *State) {
		if i := state.findLine(line.ID); i >= 0 {
			state.Items[i].Quantity += line.Quantity
			return
		}
		state.Items = append(state.Items, line)
	})
}

// UpdateQuantity sets the line's quantity; zero or below removes the line.
// A missing line id is a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, sessionID, lineID string, quantity int) (*Snapshot, error) {
	return s.mutate(ctx, sessionID, "update_quantity", func(state *State) {
		i := state.findLine(lineID)
		if i < 0 {
			return
		}
		if quantity <= 0 {
			state.Items = append(state.Items[:i], state.Items[i+1:]...)
			return
		}
		state.Items[i].Quantity = quantity
	})
}

// RemoveItem drops the matching line; absent lines are a no-op.
func (s *Store) RemoveItem(ctx context.Context, sessionID, lineID string) (*Snapshot, error) {
	return s.mutate(ctx, sessionID, "remove_item", func(state *State) {
		if i := state.findLine(lineID); i >= 0 {
			state.Items = append(state.Items[:i], state.Items[i+1:]...)
		}
	})
}

// ApplyPromo records an already-validated discount on the cart. Validation
// against the catalog is the promotion resolver's job; callers run it first.
func (s *Store) ApplyPromo(ctx context.Context, sessionID, code string, value decimal.Decimal, discountType enums.DiscountType) (*Snapshot, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code is required")
	}
	if !discountType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid discount type")
	}
	if value.IsNegative() {
		value = decimal.Zero
	}

	return s.mutate(ctx, sessionID, "apply_promo", func(state *State) {
		state.PromoCode = code
		state.PromoDiscount = value
		state.PromoDiscountType = discountType
	})
}

// RemovePromo clears the promo fields back to the no-discount state.
func (s *Store) RemovePromo(ctx context.Context, sessionID string) (*Snapshot, error) {
	return s.mutate(ctx, sessionID, "remove_promo", func(state *State) {
		state.PromoCode = ""
		state.PromoDiscount = decimal.Zero
		state.PromoDiscountType = ""
	})
}

// Clear resets the session to the empty initial state. The checkout webhook
// calls this exactly once, after payment success is confirmed.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.kv.Del(ctx, s.kv.CartKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	s.metrics.IncCartCleared()
	return nil
}

func (s *Store) mutate(ctx context.Context, sessionID, op string, fn func(*State)) (*Snapshot, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	start := time.Now()
	defer func() {
		s.metrics.ObserveCartMutation(op, time.Since(start))
	}()

	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	fn(&state)

	if err := s.persist(ctx, sessionID, state); err != nil {
		return nil, err
	}
	return s.snapshot(state), nil
}

func (s *Store) load(ctx context.Context, sessionID string) (State, error) {
	raw, err := s.kv.Get(ctx, s.kv.CartKey(sessionID))
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return emptyState(), nil
		}
		return State{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		// Corrupted documents are discarded, never propagated.
		if s.logg != nil {
			s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "discarding corrupted cart state")
		}
		return emptyState(), nil
	}
	if state.Items == nil {
		state.Items = []Line{}
	}
	return state, nil
}

func (s *Store) persist(ctx context.Context, sessionID string, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.kv.Set(ctx, s.kv.CartKey(sessionID), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return nil
}

func (s *Store) snapshot(state State) *Snapshot {
	return &Snapshot{
		State:  state,
		Totals: computeTotals(state, s.rules),
	}
}
