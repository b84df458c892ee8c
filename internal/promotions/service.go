package promotions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"

	"github.com/gamersouq/storefront-backend/pkg/db"
	"github.com/gamersouq/storefront-backend/pkg/db/models"
	"github.com/gamersouq/storefront-backend/pkg/enums"
	pkgerrors "github.com/gamersouq/storefront-backend/pkg/errors"
	"github.com/gamersouq/storefront-backend/pkg/logger"
	"github.com/gamersouq/storefront-backend/pkg/metrics"
)

// Resolve outcome labels for metrics.
const (
	outcomeValid     = "valid"
	outcomeNotFound  = "not_found"
	outcomeInactive  = "inactive"
	outcomeExhausted = "exhausted"
	outcomeError     = "error"
)

const (
	incrementAttempts = 3
	incrementBackoff  = 25 * time.Millisecond
)

// Resolution is the result of a successful promo code lookup. The usage slot
// is already consumed by the time the caller sees it.
type Resolution struct {
	Code  string
	Type  enums.DiscountType
	Value decimal.Decimal
}

// Service exposes promo code resolution and catalog management.
type Service interface {
	Resolve(ctx context.Context, code string) (*Resolution, error)
	ListCodes(ctx context.Context) ([]models.DiscountCode, error)
	GetCode(ctx context.Context, id uuid.UUID) (*models.DiscountCode, error)
	CreateCode(ctx context.Context, input CreateCodeInput) (*models.DiscountCode, error)
	UpdateCode(ctx context.Context, id uuid.UUID, input UpdateCodeInput) (*models.DiscountCode, error)
	DeactivateCode(ctx context.Context, id uuid.UUID) (*models.DiscountCode, error)
}

// CreateCodeInput holds the validated payload to create a catalog entry.
type CreateCodeInput struct {
	Code       string
	Type       enums.DiscountType
	Value      decimal.Decimal
	UsageLimit int
	IsActive   bool
}

// UpdateCodeInput holds optional mutation values for a catalog entry.
type UpdateCodeInput struct {
	Type       *enums.DiscountType
	Value      *decimal.Decimal
	UsageLimit *int
	IsActive   *bool
}

type service struct {
	repo    Repository
	logg    *logger.Logger
	metrics *metrics.PricingMetrics
}

// NewService builds the promotion service.
func NewService(repo Repository, logg *logger.Logger, m *metrics.PricingMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("promotions repository required")
	}
	return &service{repo: repo, logg: logg, metrics: m}, nil
}

// Resolve looks the code up and, when redeemable, consumes one usage slot
// before returning. The guarded increment retries a few times when another
// redemption races it; losing every attempt surfaces as exhausted or conflict
// depending on what the reloaded row says.
func (s *service) Resolve(ctx context.Context, code string) (*Resolution, error) {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code is required")
	}

	dc, err := s.repo.FindByCode(ctx, normalized)
	if err != nil {
		if db.IsNotFound(err) {
			s.metrics.IncPromoResolution(outcomeNotFound)
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promo code not found")
		}
		s.metrics.IncPromoResolution(outcomeError)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up promo code")
	}

	if resErr := s.checkRedeemable(dc); resErr != nil {
		return nil, resErr
	}

	if err := s.consumeUsage(ctx, dc); err != nil {
		return nil, err
	}

	s.metrics.IncPromoResolution(outcomeValid)
	if s.logg != nil {
		s.logg.Info(s.logg.WithPromoCode(ctx, normalized), "promo code redeemed")
	}
	return &Resolution{Code: dc.Code, Type: dc.Type, Value: dc.Value}, nil
}

func (s *service) checkRedeemable(dc *models.DiscountCode) error {
	if !dc.IsActive {
		s.metrics.IncPromoResolution(outcomeInactive)
		return pkgerrors.New(pkgerrors.CodeStateConflict, "promo code is no longer active")
	}
	if dc.UsedCount >= dc.UsageLimit {
		s.metrics.IncPromoResolution(outcomeExhausted)
		return pkgerrors.New(pkgerrors.CodeConflict, "promo code has been fully redeemed")
	}
	return nil
}

func (s *service) consumeUsage(ctx context.Context, dc *models.DiscountCode) error {
	backoff := retry.WithMaxRetries(incrementAttempts, retry.NewConstant(incrementBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		ok, err := s.repo.IncrementUsage(ctx, dc.ID, dc.Version)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		// The version moved under us. Reload and decide whether the code is
		// still worth another attempt.
		fresh, err := s.repo.FindByID(ctx, dc.ID)
		if err != nil {
			return err
		}
		if resErr := s.checkRedeemable(fresh); resErr != nil {
			return resErr
		}
		*dc = *fresh
		return retry.RetryableError(fmt.Errorf("usage increment lost the race"))
	})
	if err == nil {
		return nil
	}
	if appErr := pkgerrors.As(err); appErr != nil {
		return appErr
	}
	s.metrics.IncPromoResolution(outcomeError)
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume promo usage")
}

// ListCodes returns the whole catalog.
func (s *service) ListCodes(ctx context.Context) ([]models.DiscountCode, error) {
	codes, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list discount codes")
	}
	return codes, nil
}

// GetCode loads a single catalog entry.
func (s *service) GetCode(ctx context.Context, id uuid.UUID) (*models.DiscountCode, error) {
	dc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "discount code not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load discount code")
	}
	return dc, nil
}

// CreateCode inserts a new catalog entry after normalizing the code.
func (s *service) CreateCode(ctx context.Context, input CreateCodeInput) (*models.DiscountCode, error) {
	code := strings.ToLower(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid discount type")
	}
	if err := validateValue(input.Type, input.Value); err != nil {
		return nil, err
	}
	if input.UsageLimit < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "usage limit must be at least 1")
	}

	if existing, err := s.repo.FindByCode(ctx, code); err == nil && existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "discount code already exists")
	} else if err != nil && !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check discount code uniqueness")
	}

	dc := &models.DiscountCode{
		Code:       code,
		Type:       input.Type,
		Value:      input.Value,
		IsActive:   input.IsActive,
		UsageLimit: input.UsageLimit,
	}
	created, err := s.repo.Create(ctx, dc)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create discount code")
	}
	return created, nil
}

// UpdateCode applies the provided fields to an existing entry.
func (s *service) UpdateCode(ctx context.Context, id uuid.UUID, input UpdateCodeInput) (*models.DiscountCode, error) {
	dc, err := s.GetCode(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Type != nil {
		if !input.Type.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid discount type")
		}
		dc.Type = *input.Type
	}
	if input.Value != nil {
		dc.Value = *input.Value
	}
	if err := validateValue(dc.Type, dc.Value); err != nil {
		return nil, err
	}
	if input.UsageLimit != nil {
		if *input.UsageLimit < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "usage limit must be at least 1")
		}
		dc.UsageLimit = *input.UsageLimit
	}
	if input.IsActive != nil {
		dc.IsActive = *input.IsActive
	}

	updated, err := s.repo.Update(ctx, dc)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update discount code")
	}
	return updated, nil
}

// DeactivateCode flips the entry inactive; already-inactive entries pass through.
func (s *service) DeactivateCode(ctx context.Context, id uuid.UUID) (*models.DiscountCode, error) {
	inactive := false
	return s.UpdateCode(ctx, id, UpdateCodeInput{IsActive: &inactive})
}

func validateValue(discountType enums.DiscountType, value decimal.Decimal) error {
	if value.IsNegative() || value.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount value must be positive")
	}
	if discountType == enums.DiscountTypePercentage && value.GreaterThan(decimal.NewFromInt(100)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "percentage discount cannot exceed 100")
	}
	return nil
}
