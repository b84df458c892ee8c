package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/gamersouq/storefront-backend/api/middleware"
	"github.com/gamersouq/storefront-backend/api/responses"
	"github.com/gamersouq/storefront-backend/api/validators"
	cartsvc "github.com/gamersouq/storefront-backend/internal/cart"
	"github.com/gamersouq/storefront-backend/internal/promotions"
	"github.com/gamersouq/storefront-backend/pkg/enums"
	pkgerrors "github.com/gamersouq/storefront-backend/pkg/errors"
	"github.com/gamersouq/storefront-backend/pkg/logger"
)

// CartService is the cart store surface the handlers drive.
type CartService interface {
	Get(ctx context.Context, sessionID string) (*cartsvc.Snapshot, error)
	AddItem(ctx context.Context, sessionID string, line cartsvc.Line) (*cartsvc.Snapshot, error)
	UpdateQuantity(ctx context.Context, sessionID, lineID string, quantity int) (*cartsvc.Snapshot, error)
	RemoveItem(ctx context.Context, sessionID, lineID string) (*cartsvc.Snapshot, error)
	ApplyPromo(ctx context.Context, sessionID, code string, value decimal.Decimal, discountType enums.DiscountType) (*cartsvc.Snapshot, error)
	RemovePromo(ctx context.Context, sessionID string) (*cartsvc.Snapshot, error)
	Clear(ctx context.Context, sessionID string) error
}

// PromoResolver validates a code against the catalog and consumes a usage slot.
type PromoResolver interface {
	Resolve(ctx context.Context, code string) (*promotions.Resolution, error)
}

// GetCart returns the session's cart with derived totals.
func GetCart(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		snap, err := svc.Get(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

type addItemRequest struct {
	ID            string           `json:"id" validate:"required"`
	ProductID     string           `json:"product_id"`
	Title         string           `json:"title" validate:"required"`
	TitleEn       string           `json:"title_en"`
	Price         decimal.Decimal  `json:"price" validate:"required"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	Quantity      int              `json:"quantity" validate:"min=0,max=99"`
	Image         string           `json:"image"`
	Category      string           `json:"category" validate:"required"`
	IsDigital     bool             `json:"is_digital"`
	Badge         *string          `json:"badge"`
}

func (p addItemRequest) toLine() (cartsvc.Line, error) {
	category, err := enums.ParseProductCategory(p.Category)
	if err != nil {
		return cartsvc.Line{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product category")
	}
	return cartsvc.Line{
		ID:            p.ID,
		ProductID:     p.ProductID,
		Title:         p.Title,
		TitleEn:       p.TitleEn,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Quantity:      p.Quantity,
		Image:         p.Image,
		Category:      category,
		IsDigital:     p.IsDigital,
		Badge:         p.Badge,
	}, nil
}

// CartAddItem adds a product snapshot to the cart, merging duplicate lines.
func CartAddItem(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		line, err := payload.toLine()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := svc.AddItem(r.Context(), middleware.SessionIDFromContext(r.Context()), line)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"max=99"`
}

// CartUpdateQuantity sets a line's quantity; zero or below removes the line.
func CartUpdateQuantity(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		lineID := chi.URLParam(r, "lineID")
		if lineID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "line id is required"))
			return
		}

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := svc.UpdateQuantity(r.Context(), middleware.SessionIDFromContext(r.Context()), lineID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// CartRemoveItem drops a line from the cart.
func CartRemoveItem(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		lineID := chi.URLParam(r, "lineID")
		if lineID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "line id is required"))
			return
		}

		snap, err := svc.RemoveItem(r.Context(), middleware.SessionIDFromContext(r.Context()), lineID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

type applyPromoRequest struct {
	Code string `json:"code" validate:"required,min=2,max=64"`
}

// CartApplyPromo resolves the code against the catalog and, when valid,
// records the discount on the cart.
func CartApplyPromo(svc CartService, promos PromoResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || promos == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload applyPromoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resolution, err := promos.Resolve(r.Context(), payload.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := svc.ApplyPromo(r.Context(), middleware.SessionIDFromContext(r.Context()), resolution.Code, resolution.Value, resolution.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// CartClear resets the session to an empty cart.
func CartClear(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if err := svc.Clear(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := svc.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// CartRemovePromo clears any applied discount from the cart.
func CartRemovePromo(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		snap, err := svc.RemovePromo(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}
