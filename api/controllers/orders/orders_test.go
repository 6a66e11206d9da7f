package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/florale-backend/api/middleware"
	"github.com/angelmondragon/florale-backend/internal/catalog"
	ordersvc "github.com/angelmondragon/florale-backend/internal/orders"
	"github.com/angelmondragon/florale-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/florale-backend/pkg/errors"
)

type stubOrdersService struct {
	orders    map[string]ordersvc.Order
	filter    ordersvc.ListFilter
	created   ordersvc.CreateOrderInput
	checkout  ordersvc.CheckoutInput
	status    enums.OrderStatus
	florist   string
	courier   string
	metricsAt string
	point     string
	err       error
}

func newStubOrdersService() *stubOrdersService {
	return &stubOrdersService{
		orders: map[string]ordersvc.Order{
			"o-mirny":   {ID: "o-mirny", OrderNumber: "FL-001234", Status: enums.OrderStatusNew, PointID: "mirny"},
			"o-yakutsk": {ID: "o-yakutsk", OrderNumber: "FL-001235", Status: enums.OrderStatusProcessing, PointID: "yakutsk"},
		},
		point: "mirny",
	}
}

func (s *stubOrdersService) Bootstrap(ctx context.Context) error { return nil }

func (s *stubOrdersService) List(ctx context.Context, filter ordersvc.ListFilter) []ordersvc.Order {
	s.filter = filter
	out := []ordersvc.Order{}
	for _, o := range s.orders {
		if filter.PointID == "" || o.PointID == filter.PointID {
			out = append(out, o)
		}
	}
	return out
}

func (s *stubOrdersService) Get(ctx context.Context, orderID string) (ordersvc.Order, error) {
	o, ok := s.orders[orderID]
	if !ok {
		return ordersvc.Order{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return o, nil
}

func (s *stubOrdersService) Create(ctx context.Context, input ordersvc.CreateOrderInput) (ordersvc.Order, error) {
	s.created = input
	return ordersvc.Order{ID: "new", OrderNumber: "FL-001237", PointID: input.PointID}, s.err
}

func (s *stubOrdersService) PlaceOrder(ctx context.Context, sessionID string, input ordersvc.CheckoutInput) (ordersvc.Order, error) {
	s.checkout = input
	if s.err != nil {
		return ordersvc.Order{}, s.err
	}
	return ordersvc.Order{ID: "placed", OrderNumber: "FL-001237", Total: 4800}, nil
}

func (s *stubOrdersService) UpdateStatus(ctx context.Context, orderID string, status enums.OrderStatus) (ordersvc.Order, error) {
	s.status = status
	o := s.orders[orderID]
	o.Status = status
	return o, nil
}

func (s *stubOrdersService) AssignFlorist(ctx context.Context, orderID, floristID string) (ordersvc.Order, error) {
	s.florist = floristID
	return s.orders[orderID], nil
}

func (s *stubOrdersService) AssignCourier(ctx context.Context, orderID, courierID string) (ordersvc.Order, error) {
	s.courier = courierID
	return s.orders[orderID], nil
}

func (s *stubOrdersService) Metrics(ctx context.Context, pointID string) ordersvc.DashboardMetrics {
	s.metricsAt = pointID
	return ordersvc.DashboardMetrics{}
}

func (s *stubOrdersService) SelectedPoint() string { return s.point }

func (s *stubOrdersService) SelectPoint(ctx context.Context, pointID string) string {
	s.point = pointID
	return pointID
}

type stubCatalog struct{}

func (stubCatalog) Product(id string) (catalog.Product, error) {
	if id != "rose-blush" {
		return catalog.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return catalog.Product{ID: id, Name: "Blush roses", Price: 4500, Sizes: []catalog.ProductSize{{ID: "m", Price: 4500}, {ID: "l", Price: 6000}}}, nil
}

func (stubCatalog) Packaging(id string) (catalog.PackagingOption, bool) {
	if id == "kraft" {
		return catalog.PackagingOption{ID: "kraft", Price: 200}, true
	}
	return catalog.PackagingOption{}, false
}

func withOrderID(req *http.Request, orderID string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add("orderId", orderID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func asStaff(req *http.Request, role enums.StaffRole, pointID string) *http.Request {
	return req.WithContext(middleware.WithStaff(req.Context(), "staff-1", string(role), pointID))
}

const checkoutBody = `{
	"recipient": {"name": "Anna Ivanova", "phone": "+79990001122"},
	"delivery": {"address": "Lenina 1", "date": "2026-03-08", "time": "10:00-12:00"},
	"payment_method": "online"
}`

func TestCheckoutPlacesOrder(t *testing.T) {
	svc := newStubOrdersService()
	handler := Checkout(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/checkout", strings.NewReader(checkoutBody))
	req = req.WithContext(middleware.WithSessionID(req.Context(), "session-1234"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.checkout.PaymentMethod != enums.PaymentMethodOnline || svc.checkout.Recipient.Name != "Anna Ivanova" {
		t.Fatalf("unexpected checkout input %+v", svc.checkout)
	}
}

func TestCheckoutValidatesRecipient(t *testing.T) {
	svc := newStubOrdersService()
	handler := Checkout(svc, nil)

	body := `{"recipient":{"name":""},"delivery":{"address":"Lenina 1","date":"2026-03-08","time":"10:00"},"payment_method":"online"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/checkout", strings.NewReader(body))
	req = req.WithContext(middleware.WithSessionID(req.Context(), "session-1234"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutEmptyCartIs422(t *testing.T) {
	svc := newStubOrdersService()
	svc.err = pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	handler := Checkout(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/checkout", strings.NewReader(checkoutBody))
	req = req.WithContext(middleware.WithSessionID(req.Context(), "session-1234"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestAdminOrdersFilters(t *testing.T) {
	svc := newStubOrdersService()
	handler := AdminOrders(svc, nil)

	req := asStaff(httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders?point_id=yakutsk&status=processing", nil), enums.StaffRoleAdmin, "")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.filter.PointID != "yakutsk" || svc.filter.Status != enums.OrderStatusProcessing {
		t.Fatalf("unexpected filter %+v", svc.filter)
	}
}

func TestAdminOrdersRejectsUnknownStatus(t *testing.T) {
	handler := AdminOrders(newStubOrdersService(), nil)

	req := asStaff(httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders?status=lost", nil), enums.StaffRoleAdmin, "")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminOrdersRejectsBadPaging(t *testing.T) {
	handler := AdminOrders(newStubOrdersService(), nil)

	for _, query := range []string{"limit=0", "limit=abc", "limit=5&cursor=%25%25"} {
		req := asStaff(httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders?"+query, nil), enums.StaffRoleAdmin, "")
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", query, resp.Code)
		}
	}
}

func TestAdminOrdersPointBoundToken(t *testing.T) {
	svc := newStubOrdersService()
	handler := AdminOrders(svc, nil)

	req := asStaff(httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil), enums.StaffRoleFlorist, "mirny")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || svc.filter.PointID != "mirny" {
		t.Fatalf("expected bound point filter, got %d %+v", resp.Code, svc.filter)
	}

	req = asStaff(httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders?point_id=yakutsk", nil), enums.StaffRoleFlorist, "mirny")
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestAdminOrderDetailNotFound(t *testing.T) {
	handler := AdminOrderDetail(newStubOrdersService(), nil)

	req := withOrderID(httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders/missing", nil), "missing")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestAdminUpdateOrderStatus(t *testing.T) {
	svc := newStubOrdersService()
	handler := AdminUpdateOrderStatus(svc, nil)

	req := withOrderID(httptest.NewRequest(http.MethodPost, "/api/admin/v1/orders/o-mirny/status", strings.NewReader(`{"status":"ready"}`)), "o-mirny")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data ordersvc.Order `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Status != enums.OrderStatusReady {
		t.Fatalf("unexpected status %s", envelope.Data.Status)
	}
}

func TestAdminUpdateOrderStatusRejectsUnknown(t *testing.T) {
	svc := newStubOrdersService()
	handler := AdminUpdateOrderStatus(svc, nil)

	req := withOrderID(httptest.NewRequest(http.MethodPost, "/api/admin/v1/orders/o-mirny/status", strings.NewReader(`{"status":"lost"}`)), "o-mirny")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.status != "" {
		t.Fatalf("service should not be called")
	}
}

func TestAdminAssignHidesOtherPoints(t *testing.T) {
	svc := newStubOrdersService()
	handler := AdminAssignFlorist(svc, nil)

	req := withOrderID(httptest.NewRequest(http.MethodPost, "/api/admin/v1/orders/o-yakutsk/florist", strings.NewReader(`{"florist_id":"f-1"}`)), "o-yakutsk")
	req = asStaff(req, enums.StaffRoleAdmin, "mirny")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
	if svc.florist != "" {
		t.Fatalf("florist should not be assigned")
	}
}

func TestAdminAssignCourier(t *testing.T) {
	svc := newStubOrdersService()
	handler := AdminAssignCourier(svc, nil)

	req := withOrderID(httptest.NewRequest(http.MethodPost, "/api/admin/v1/orders/o-mirny/courier", strings.NewReader(`{"courier_id":" c-7 "}`)), "o-mirny")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK || svc.courier != "c-7" {
		t.Fatalf("expected courier c-7 assigned, got %d %q", resp.Code, svc.courier)
	}
}

func TestAdminCreateOrderResolvesCatalog(t *testing.T) {
	svc := newStubOrdersService()
	handler := AdminCreateOrder(svc, stubCatalog{}, nil)

	body := `{
		"point_id": "mirny",
		"items": [{"product_id": "rose-blush", "size_id": "l", "quantity": 2, "packaging_id": "kraft"}],
		"recipient": {"name": "Ivan", "phone": "+79990001133"},
		"delivery": {"address": "Lenina 2", "date": "2026-03-08", "time": "12:00-14:00"},
		"payment_method": "cash",
		"payment_status": "paid"
	}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/admin/v1/orders", strings.NewReader(body)))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(svc.created.Items) != 1 {
		t.Fatalf("expected one item, got %d", len(svc.created.Items))
	}
	item := svc.created.Items[0]
	if item.Size.Price != 6000 || item.Packaging == nil || item.Packaging.Price != 200 || item.Quantity != 2 {
		t.Fatalf("unexpected resolved item %+v", item)
	}
	if svc.created.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("unexpected payment status %s", svc.created.PaymentStatus)
	}
}

func TestAdminCreateOrderUnknownPackaging(t *testing.T) {
	handler := AdminCreateOrder(newStubOrdersService(), stubCatalog{}, nil)

	body := `{
		"items": [{"product_id": "rose-blush", "quantity": 1, "packaging_id": "velvet"}],
		"recipient": {"name": "Ivan", "phone": "+79990001133"},
		"delivery": {"address": "Lenina 2", "date": "2026-03-08", "time": "12:00"},
		"payment_method": "cash"
	}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/admin/v1/orders", strings.NewReader(body)))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminMetricsAndPoint(t *testing.T) {
	svc := newStubOrdersService()

	resp := httptest.NewRecorder()
	AdminMetrics(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/admin/v1/metrics?point_id=yakutsk", nil))
	if resp.Code != http.StatusOK || svc.metricsAt != "yakutsk" {
		t.Fatalf("expected metrics for yakutsk, got %d %q", resp.Code, svc.metricsAt)
	}

	resp = httptest.NewRecorder()
	AdminSelectPoint(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPut, "/api/admin/v1/point", strings.NewReader(`{"point_id":"yakutsk"}`)))
	if resp.Code != http.StatusOK || svc.point != "yakutsk" {
		t.Fatalf("expected point selected, got %d %q", resp.Code, svc.point)
	}

	resp = httptest.NewRecorder()
	AdminSelectedPoint(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/admin/v1/point", nil))
	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["point_id"] != "yakutsk" {
		t.Fatalf("unexpected point %v", envelope.Data)
	}
}

func TestAdminCreateOrderRespectsBoundPoint(t *testing.T) {
	svc := newStubOrdersService()
	handler := AdminCreateOrder(svc, stubCatalog{}, nil)

	body := func(point string) string {
		return `{
			"point_id": "` + point + `",
			"items": [{"product_id": "rose-blush", "quantity": 1}],
			"recipient": {"name": "Ivan", "phone": "+79990001133"},
			"delivery": {"address": "Lenina 2", "date": "2026-03-08", "time": "12:00"},
			"payment_method": "cash"
		}`
	}

	req := asStaff(httptest.NewRequest(http.MethodPost, "/api/admin/v1/orders", strings.NewReader(body("mirny"))), enums.StaffRoleAdmin, "yakutsk")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a foreign point, got %d", resp.Code)
	}
	if len(svc.created.Items) != 0 {
		t.Fatal("order must not be created for a foreign point")
	}

	req = asStaff(httptest.NewRequest(http.MethodPost, "/api/admin/v1/orders", strings.NewReader(body(""))), enums.StaffRoleAdmin, "yakutsk")
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.created.PointID != "yakutsk" {
		t.Fatalf("expected bound point as default, got %q", svc.created.PointID)
	}
}
