package orders

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/florale-backend/internal/cart"
	"github.com/angelmondragon/florale-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/florale-backend/pkg/errors"
	"github.com/angelmondragon/florale-backend/pkg/logger"
	"github.com/angelmondragon/florale-backend/pkg/realtime"
	"github.com/angelmondragon/florale-backend/pkg/types"
)

const (
	MessageOrderCreated = "order.created"
	MessageOrderUpdated = "order.updated"

	orderNumberPrefix = "FL-"
	firstOrderNumber  = 1000
)

// Service exposes the admin order store with persistence and notifications.
type Service interface {
	Bootstrap(ctx context.Context) error
	List(ctx context.Context, filter ListFilter) []Order
	Get(ctx context.Context, orderID string) (Order, error)
	Create(ctx context.Context, input CreateOrderInput) (Order, error)
	PlaceOrder(ctx context.Context, sessionID string, input CheckoutInput) (Order, error)
	UpdateStatus(ctx context.Context, orderID string, status enums.OrderStatus) (Order, error)
	AssignFlorist(ctx context.Context, orderID, floristID string) (Order, error)
	AssignCourier(ctx context.Context, orderID, courierID string) (Order, error)
	Metrics(ctx context.Context, pointID string) DashboardMetrics
	SelectedPoint() string
	SelectPoint(ctx context.Context, pointID string) string
}

type cartCheckout interface {
	Checkout(ctx context.Context, sessionID string, place func(cart.Summary) error) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type orderRecorder interface {
	IncOrderStatus(status string)
	ObserveOrderCreated(total int64)
}

// ServiceParams groups the order service dependencies.
type ServiceParams struct {
	Store        *Store
	Repo         Repository
	Tx           txRunner
	Carts        cartCheckout
	Publisher    realtime.Publisher
	Metrics      orderRecorder
	Logger       *logger.Logger
	DeliveryFee  int64
	SeedFixtures bool
	// DefaultPoint receives orders placed without a point. Empty falls back to the package DefaultPoint.
	DefaultPoint string
	Now          func() time.Time
}

type service struct {
	store        *Store
	repo         Repository
	tx           txRunner
	carts        cartCheckout
	publisher    realtime.Publisher
	metrics      orderRecorder
	logg         *logger.Logger
	deliveryFee  int64
	seedFixtures bool
	defaultPoint string
	now          func() time.Time

	writeMu sync.Mutex
}

// NewService builds an order service around the provided store.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("order store required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DeliveryFee < 0 {
		return nil, fmt.Errorf("delivery fee must be non-negative")
	}
	if params.Publisher == nil {
		params.Publisher = realtime.NopPublisher{}
	}
	if params.Metrics == nil {
		params.Metrics = noopRecorder{}
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	if params.DefaultPoint == "" {
		params.DefaultPoint = DefaultPoint
	}
	return &service{
		store:        params.Store,
		repo:         params.Repo,
		tx:           params.Tx,
		carts:        params.Carts,
		publisher:    params.Publisher,
		metrics:      params.Metrics,
		logg:         params.Logger,
		deliveryFee:  params.DeliveryFee,
		seedFixtures: params.SeedFixtures,
		defaultPoint: params.DefaultPoint,
		now:          params.Now,
	}, nil
}

// Bootstrap loads persisted orders into the store, seeding fixtures into an empty database when enabled.
func (s *service) Bootstrap(ctx context.Context) error {
	persisted, err := s.repo.List(ctx)
	if err != nil {
		return pkgerrors.FromPersistence(err, "load orders")
	}
	if len(persisted) == 0 && s.seedFixtures {
		persisted = Fixtures(s.now())
		if err := s.seed(ctx, persisted); err != nil {
			return pkgerrors.FromPersistence(err, "seed orders")
		}
		s.logg.Info(s.logg.WithField(ctx, "count", len(persisted)), "orders.fixtures.seeded")
	}
	s.store.SetOrders(persisted)
	s.logg.Info(s.logg.WithField(ctx, "count", len(persisted)), "orders.bootstrap.loaded")
	return nil
}

// seed writes the fixtures in one transaction when a runner is configured.
func (s *service) seed(ctx context.Context, fixtures []Order) error {
	save := func(repo Repository) error {
		for _, o := range fixtures {
			if err := repo.Save(ctx, o); err != nil {
				return err
			}
		}
		return nil
	}
	if s.tx == nil {
		return save(s.repo)
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return save(s.repo.WithTx(tx))
	})
}

func (s *service) List(_ context.Context, filter ListFilter) []Order {
	switch {
	case filter.Status != "":
		return s.store.OrdersByStatus(filter.Status, filter.PointID)
	case filter.PointID != "":
		return s.store.OrdersByPoint(filter.PointID)
	default:
		return s.store.Orders()
	}
}

func (s *service) Get(_ context.Context, orderID string) (Order, error) {
	order, ok := s.store.Order(orderID)
	if !ok {
		return Order{}, notFound(orderID)
	}
	return order, nil
}

// Create records a staff-entered order. Totals are derived from the items plus the delivery fee.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (Order, error) {
	if len(input.Items) == 0 {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	for _, it := range input.Items {
		if it.ProductID == "" || it.Size.ID == "" || it.Quantity <= 0 {
			return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "order items require product, size, and a positive quantity")
		}
	}
	paymentStatus := input.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = enums.PaymentStatusPending
	}
	total := cart.NewLedger(input.Items).Total() + s.deliveryFee
	order, err := s.create(ctx, input.PointID, input.Items, input.Recipient, input.Delivery, types.PaymentInfo{
		Method: input.PaymentMethod,
		Status: paymentStatus,
		Amount: total,
	}, total)
	if err != nil {
		return Order{}, err
	}
	s.publisher.Publish(ctx, MessageOrderCreated, order)
	return order, nil
}

// PlaceOrder turns the session cart into a new order and clears the cart. The cart stays locked
// until the order is persisted; subscribers hear about it after the lock is released.
func (s *service) PlaceOrder(ctx context.Context, sessionID string, input CheckoutInput) (Order, error) {
	ctx = s.logg.WithSessionID(ctx, sessionID)
	pointID := input.PointID
	if pointID == "" {
		pointID = s.defaultPoint
	}

	var order Order
	err := s.carts.Checkout(ctx, sessionID, func(summary cart.Summary) error {
		if len(summary.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
		}
		total := summary.Total + s.deliveryFee
		placed, err := s.create(ctx, pointID, summary.Items, input.Recipient, input.Delivery, types.PaymentInfo{
			Method: input.PaymentMethod,
			Status: enums.PaymentStatusPending,
			Amount: total,
		}, total)
		if err != nil {
			return err
		}
		order = placed
		return nil
	})
	switch {
	case order.ID == "":
		return Order{}, err
	case err != nil:
		s.logg.Error(s.logg.WithOrderID(ctx, order.ID), "orders.checkout.cart_clear_failed", err)
	}

	s.publisher.Publish(ctx, MessageOrderCreated, order)
	return order, nil
}

func (s *service) create(ctx context.Context, pointID string, items []cart.Item, recipient types.Recipient, delivery types.DeliveryInfo, payment types.PaymentInfo, total int64) (Order, error) {
	if !payment.Method.IsValid() {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if !payment.Status.IsValid() {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}
	if pointID == "" {
		pointID = s.defaultPoint
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	now := s.now().UTC()
	order := Order{
		ID:          uuid.NewString(),
		OrderNumber: s.nextOrderNumber(),
		Status:      enums.OrderStatusNew,
		Items:       items,
		Recipient:   recipient,
		Delivery:    delivery,
		Payment:     payment,
		Total:       total,
		CreatedAt:   now,
		UpdatedAt:   now,
		Timeline: []types.TimelineEntry{{
			Status:    enums.OrderStatusNew,
			Timestamp: now,
			Message:   enums.OrderStatusNew.Message(),
		}},
		PointID: pointID,
	}

	s.store.AddOrder(order)
	if err := s.repo.Save(ctx, order); err != nil {
		s.store.remove(order.ID)
		s.logg.Error(s.logg.WithOrderID(ctx, order.ID), "orders.persist.failed", err)
		return Order{}, pkgerrors.FromPersistence(err, "save order")
	}

	s.metrics.ObserveOrderCreated(order.Total)
	s.logg.Info(s.logg.WithPointID(s.logg.WithOrderID(ctx, order.ID), order.PointID), "orders.created")
	return order, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID string, status enums.OrderStatus) (Order, error) {
	if !status.IsValid() {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").
			WithDetails(map[string]any{"status": status})
	}
	order, err := s.mutate(ctx, orderID, func() (Order, bool) {
		return s.store.UpdateOrderStatus(orderID, status)
	})
	if err != nil {
		return Order{}, err
	}
	s.metrics.IncOrderStatus(status.String())
	return order, nil
}

func (s *service) AssignFlorist(ctx context.Context, orderID, floristID string) (Order, error) {
	if strings.TrimSpace(floristID) == "" {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "florist id is required")
	}
	return s.mutate(ctx, orderID, func() (Order, bool) {
		return s.store.AssignFlorist(orderID, floristID)
	})
}

func (s *service) AssignCourier(ctx context.Context, orderID, courierID string) (Order, error) {
	if strings.TrimSpace(courierID) == "" {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "courier id is required")
	}
	return s.mutate(ctx, orderID, func() (Order, bool) {
		return s.store.AssignCourier(orderID, courierID)
	})
}

func (s *service) Metrics(_ context.Context, pointID string) DashboardMetrics {
	orders := s.store.Orders()
	if pointID != "" {
		orders = s.store.OrdersByPoint(pointID)
	}
	return ComputeMetrics(orders, s.now())
}

func (s *service) SelectedPoint() string {
	return s.store.SelectedPoint()
}

func (s *service) SelectPoint(ctx context.Context, pointID string) string {
	s.store.SetSelectedPoint(pointID)
	s.logg.Info(s.logg.WithPointID(ctx, pointID), "orders.point.selected")
	return pointID
}

// mutate applies fn to the store, persists the result, and rolls the store back if persisting fails.
func (s *service) mutate(ctx context.Context, orderID string, fn func() (Order, bool)) (Order, error) {
	ctx = s.logg.WithOrderID(ctx, orderID)
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	previous, ok := s.store.Order(orderID)
	if !ok {
		return Order{}, notFound(orderID)
	}
	updated, ok := fn()
	if !ok {
		return Order{}, notFound(orderID)
	}
	if err := s.repo.Save(ctx, updated); err != nil {
		s.store.put(previous)
		s.logg.Error(ctx, "orders.persist.failed", err)
		return Order{}, pkgerrors.FromPersistence(err, "save order")
	}
	s.publisher.Publish(ctx, MessageOrderUpdated, updated)
	return updated, nil
}

// nextOrderNumber continues after the highest FL-number in the store. Callers hold writeMu.
func (s *service) nextOrderNumber() string {
	highest := firstOrderNumber
	for _, o := range s.store.Orders() {
		n, err := strconv.Atoi(strings.TrimPrefix(o.OrderNumber, orderNumberPrefix))
		if err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%06d", orderNumberPrefix, highest+1)
}

func notFound(orderID string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "order not found").
		WithDetails(map[string]any{"order_id": orderID})
}

type noopRecorder struct{}

func (noopRecorder) IncOrderStatus(string)     {}
func (noopRecorder) ObserveOrderCreated(int64) {}
