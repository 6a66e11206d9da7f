package orders

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/florale-backend/api/middleware"
	"github.com/angelmondragon/florale-backend/api/responses"
	"github.com/angelmondragon/florale-backend/api/validators"
	"github.com/angelmondragon/florale-backend/internal/cart"
	"github.com/angelmondragon/florale-backend/internal/catalog"
	ordersvc "github.com/angelmondragon/florale-backend/internal/orders"
	"github.com/angelmondragon/florale-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/florale-backend/pkg/errors"
	"github.com/angelmondragon/florale-backend/pkg/logger"
	"github.com/angelmondragon/florale-backend/pkg/pagination"
)

type productCatalog interface {
	Product(id string) (catalog.Product, error)
	Packaging(id string) (catalog.PackagingOption, bool)
}

// Checkout places an order from the shopper's cart.
func Checkout(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session id is required"))
			return
		}

		var payload CheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PlaceOrder(r.Context(), sessionID, ordersvc.CheckoutInput{
			Recipient:     payload.Recipient,
			Delivery:      payload.Delivery,
			PaymentMethod: enums.PaymentMethod(payload.PaymentMethod),
			PointID:       strings.TrimSpace(payload.PointID),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// NextCursorHeader carries the cursor of the following page when the list was cut by limit.
const NextCursorHeader = "X-Next-Cursor"

func orderCursor(o ordersvc.Order) pagination.Cursor {
	return pagination.Cursor{CreatedAt: o.CreatedAt, ID: o.ID}
}

// AdminOrders lists orders, most recent first, filtered by point and status.
func AdminOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		pointID, ok := resolvePoint(w, r, logg)
		if !ok {
			return
		}
		status, err := validators.ParseQueryOrderStatus(r, "status")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := ordersvc.ListFilter{PointID: pointID}
		if status != nil {
			filter.Status = *status
		}
		page, next, err := pagination.Page(svc.List(r.Context(), filter), pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}, orderCursor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor"))
			return
		}
		if next != "" {
			w.Header().Set(NextCursorHeader, next)
		}
		responses.WriteSuccess(w, page)
	}
}

func AdminOrderDetail(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, ok := orderIDParam(w, r, svc, logg)
		if !ok {
			return
		}

		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !canSeePoint(r, order.PointID) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminCreateOrder records an order taken by staff, resolving items against the catalog.
func AdminCreateOrder(svc ordersvc.Service, cat productCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || cat == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload CreateOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pointID, ok := scopedPoint(w, r, logg, payload.PointID)
		if !ok {
			return
		}

		items, err := resolveItems(cat, payload.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), ordersvc.CreateOrderInput{
			PointID:       pointID,
			Items:         items,
			Recipient:     payload.Recipient,
			Delivery:      payload.Delivery,
			PaymentMethod: enums.PaymentMethod(payload.PaymentMethod),
			PaymentStatus: enums.PaymentStatus(payload.PaymentStatus),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func AdminUpdateOrderStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, ok := mutableOrderID(w, r, svc, logg)
		if !ok {
			return
		}

		var payload UpdateStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateStatus(r.Context(), orderID, enums.OrderStatus(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func AdminAssignFlorist(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, ok := mutableOrderID(w, r, svc, logg)
		if !ok {
			return
		}

		var payload AssignFloristRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.AssignFlorist(r.Context(), orderID, strings.TrimSpace(payload.FloristID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func AdminAssignCourier(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, ok := mutableOrderID(w, r, svc, logg)
		if !ok {
			return
		}

		var payload AssignCourierRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.AssignCourier(r.Context(), orderID, strings.TrimSpace(payload.CourierID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminMetrics returns the dashboard tiles for a point, or for every point when none is given.
func AdminMetrics(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		pointID, ok := resolvePoint(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, svc.Metrics(r.Context(), pointID))
	}
}

func AdminSelectedPoint(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"point_id": svc.SelectedPoint()})
	}
}

func AdminSelectPoint(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload SelectPointRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pointID := strings.TrimSpace(payload.PointID)
		if !canSeePoint(r, pointID) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "point not allowed for this token"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"point_id": svc.SelectPoint(r.Context(), pointID)})
	}
}

func resolveItems(cat productCatalog, requested []OrderItemRequest) ([]cart.Item, error) {
	items := make([]cart.Item, 0, len(requested))
	for i, req := range requested {
		product, err := cat.Product(strings.TrimSpace(req.ProductID))
		if err != nil {
			return nil, err
		}
		size, ok := product.Size(strings.TrimSpace(req.SizeID))
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown size for product").
				WithDetails(map[string]any{"index": i, "product_id": product.ID, "size_id": req.SizeID})
		}
		item := cart.Item{
			ProductID:   product.ID,
			Product:     product,
			Size:        size,
			Quantity:    req.Quantity,
			CardMessage: req.CardMessage,
			CardDesign:  req.CardDesign,
		}
		if id := strings.TrimSpace(req.PackagingID); id != "" {
			packaging, ok := cat.Packaging(id)
			if !ok {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown packaging").
					WithDetails(map[string]any{"index": i, "packaging_id": id})
			}
			item.Packaging = &packaging
		}
		items = append(items, item)
	}
	return items, nil
}

// resolvePoint reads point_id from the query. Tokens bound to a point default to it and may
// not read other points.
func resolvePoint(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (string, bool) {
	pointID, err := validators.ParseQueryString(r, "point_id")
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return "", false
	}
	return scopedPoint(w, r, logg, pointID)
}

// scopedPoint applies the token's point binding to a requested point: empty falls back to the
// bound point, a foreign point is forbidden.
func scopedPoint(w http.ResponseWriter, r *http.Request, logg *logger.Logger, pointID string) (string, bool) {
	pointID = strings.TrimSpace(pointID)
	bound := middleware.PointIDFromContext(r.Context())
	if pointID == "" {
		return bound, true
	}
	if !canSeePoint(r, pointID) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "point not allowed for this token"))
		return "", false
	}
	return pointID, true
}

func canSeePoint(r *http.Request, pointID string) bool {
	bound := middleware.PointIDFromContext(r.Context())
	return bound == "" || bound == pointID
}

func orderIDParam(w http.ResponseWriter, r *http.Request, svc ordersvc.Service, logg *logger.Logger) (string, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
		return "", false
	}
	orderID := strings.TrimSpace(chi.URLParam(r, "orderId"))
	if orderID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id is required"))
		return "", false
	}
	return orderID, true
}

// mutableOrderID resolves the order id and hides orders of other points from point-bound tokens.
func mutableOrderID(w http.ResponseWriter, r *http.Request, svc ordersvc.Service, logg *logger.Logger) (string, bool) {
	orderID, ok := orderIDParam(w, r, svc, logg)
	if !ok {
		return "", false
	}
	order, err := svc.Get(r.Context(), orderID)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return "", false
	}
	if !canSeePoint(r, order.PointID) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
		return "", false
	}
	return orderID, true
}
