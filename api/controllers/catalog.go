package controllers

import (
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/florale-backend/api/responses"
	"github.com/angelmondragon/florale-backend/api/validators"
	"github.com/angelmondragon/florale-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/florale-backend/pkg/errors"
	"github.com/angelmondragon/florale-backend/pkg/logger"
)

type productCatalog interface {
	List(collection string) []catalog.Product
	Product(id string) (catalog.Product, error)
}

// CatalogProducts lists the product feed, optionally narrowed to one collection.
func CatalogProducts(cat productCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cat == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		collection, err := validators.ParseQueryString(r, "collection")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		collection = strings.ToLower(collection)
		if collection != "" && collection != "all" && !slices.Contains(catalog.Collections, collection) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown collection").
				WithDetails(map[string]any{"collection": collection, "allowed": catalog.Collections}))
			return
		}

		responses.WriteSuccess(w, cat.List(collection))
	}
}

func CatalogProduct(cat productCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cat == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		product, err := cat.Product(productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
