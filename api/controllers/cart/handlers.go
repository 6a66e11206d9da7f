package cart

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/florale-backend/api/middleware"
	"github.com/angelmondragon/florale-backend/api/responses"
	"github.com/angelmondragon/florale-backend/api/validators"
	cartsvc "github.com/angelmondragon/florale-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/florale-backend/pkg/errors"
	"github.com/angelmondragon/florale-backend/pkg/logger"
)

// CartFetch returns the session cart summary.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, svc, logg)
		if !ok {
			return
		}

		summary, err := svc.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// CartAddItem adds a catalog product with optional packaging and card to the cart.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, svc, logg)
		if !ok {
			return
		}

		var payload AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.AddProduct(r.Context(), sessionID, toAddProductInput("", payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, summary)
	}
}

// CartQuickAdd adds one unit of a product from the catalog grid, defaulting to its first size.
func CartQuickAdd(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, svc, logg)
		if !ok {
			return
		}

		productID, ok := productIDParam(w, r, logg)
		if !ok {
			return
		}
		sizeID, err := validators.ParseQueryString(r, "size_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.AddProduct(r.Context(), sessionID, toAddProductInput(productID, AddItemRequest{SizeID: sizeID}))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, summary)
	}
}

// CartUpdateItem applies packaging, card message, and quantity changes to a product's lines.
// Quantity goes last because a non-positive value removes the lines.
func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, svc, logg)
		if !ok {
			return
		}
		productID, ok := productIDParam(w, r, logg)
		if !ok {
			return
		}

		var payload UpdateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.empty() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update").
				WithDetails(map[string]any{"fields": []string{"quantity", "packaging_id", "card_message"}}))
			return
		}

		ctx := r.Context()
		var (
			summary cartsvc.Summary
			err     error
		)
		if payload.PackagingID != nil {
			if summary, err = svc.UpdatePackaging(ctx, sessionID, productID, strings.TrimSpace(*payload.PackagingID)); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
		}
		if payload.CardMessage != nil {
			if summary, err = svc.UpdateCardMessage(ctx, sessionID, productID, *payload.CardMessage); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
		}
		if payload.Quantity != nil {
			if payload.SizeID != nil && strings.TrimSpace(*payload.SizeID) != "" {
				summary, err = svc.UpdateLineQuantity(ctx, sessionID, productID, strings.TrimSpace(*payload.SizeID), *payload.Quantity)
			} else {
				summary, err = svc.UpdateQuantity(ctx, sessionID, productID, *payload.Quantity)
			}
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
		}

		responses.WriteSuccess(w, summary)
	}
}

// CartRemoveItem removes every line of a product, or a single line when size_id is given.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, svc, logg)
		if !ok {
			return
		}
		productID, ok := productIDParam(w, r, logg)
		if !ok {
			return
		}
		sizeID, err := validators.ParseQueryString(r, "size_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var summary cartsvc.Summary
		if sizeID != "" {
			summary, err = svc.RemoveLine(r.Context(), sessionID, productID, sizeID)
		} else {
			summary, err = svc.RemoveItem(r.Context(), sessionID, productID)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, svc, logg)
		if !ok {
			return
		}

		summary, err := svc.Clear(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

func requireSession(w http.ResponseWriter, r *http.Request, svc cartsvc.Service, logg *logger.Logger) (string, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
		return "", false
	}
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session id is required"))
		return "", false
	}
	return sessionID, true
}

func productIDParam(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (string, bool) {
	productID := strings.TrimSpace(chi.URLParam(r, "productId"))
	if productID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
		return "", false
	}
	return productID, true
}
