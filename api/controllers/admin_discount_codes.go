package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gamersouq/storefront-backend/api/responses"
	"github.com/gamersouq/storefront-backend/api/validators"
	"github.com/gamersouq/storefront-backend/internal/promotions"
	"github.com/gamersouq/storefront-backend/pkg/db/models"
	"github.com/gamersouq/storefront-backend/pkg/enums"
	pkgerrors "github.com/gamersouq/storefront-backend/pkg/errors"
	"github.com/gamersouq/storefront-backend/pkg/logger"
)

// DiscountCatalogService manages the promo code catalog.
type DiscountCatalogService interface {
	ListCodes(ctx context.Context) ([]models.DiscountCode, error)
	GetCode(ctx context.Context, id uuid.UUID) (*models.DiscountCode, error)
	CreateCode(ctx context.Context, input promotions.CreateCodeInput) (*models.DiscountCode, error)
	UpdateCode(ctx context.Context, id uuid.UUID, input promotions.UpdateCodeInput) (*models.DiscountCode, error)
	DeactivateCode(ctx context.Context, id uuid.UUID) (*models.DiscountCode, error)
}

// AdminListDiscountCodes returns the whole catalog.
func AdminListDiscountCodes(svc DiscountCatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		codes, err := svc.ListCodes(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, codes)
	}
}

// AdminGetDiscountCode returns a single catalog entry.
func AdminGetDiscountCode(svc DiscountCatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "codeID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount code id"))
			return
		}

		code, err := svc.GetCode(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, code)
	}
}

type createDiscountCodeRequest struct {
	Code       string          `json:"code" validate:"required,min=2,max=64"`
	Type       string          `json:"type" validate:"required,oneof=percentage fixed"`
	Value      decimal.Decimal `json:"value" validate:"required"`
	UsageLimit int             `json:"usage_limit" validate:"required,min=1"`
	IsActive   bool            `json:"is_active"`
}

// AdminCreateDiscountCode inserts a new promo code.
func AdminCreateDiscountCode(svc DiscountCatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createDiscountCodeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discountType, err := enums.ParseDiscountType(payload.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount type"))
			return
		}

		created, err := svc.CreateCode(r.Context(), promotions.CreateCodeInput{
			Code:       payload.Code,
			Type:       discountType,
			Value:      payload.Value,
			UsageLimit: payload.UsageLimit,
			IsActive:   payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

type updateDiscountCodeRequest struct {
	Type       *string          `json:"type" validate:"omitempty,oneof=percentage fixed"`
	Value      *decimal.Decimal `json:"value"`
	UsageLimit *int             `json:"usage_limit" validate:"omitempty,min=1"`
	IsActive   *bool            `json:"is_active"`
}

// AdminUpdateDiscountCode applies a partial update to a catalog entry.
func AdminUpdateDiscountCode(svc DiscountCatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "codeID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount code id"))
			return
		}

		var payload updateDiscountCodeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := promotions.UpdateCodeInput{
			Value:      payload.Value,
			UsageLimit: payload.UsageLimit,
			IsActive:   payload.IsActive,
		}
		if payload.Type != nil {
			discountType, err := enums.ParseDiscountType(*payload.Type)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount type"))
				return
			}
			input.Type = &discountType
		}

		updated, err := svc.UpdateCode(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// AdminDeactivateDiscountCode retires a code without deleting its redemption
// history.
func AdminDeactivateDiscountCode(svc DiscountCatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "codeID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount code id"))
			return
		}

		updated, err := svc.DeactivateCode(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}
