package orders

import (
	"sync"
	"time"

	"github.com/angelmondragon/florale-backend/pkg/enums"
	"github.com/angelmondragon/florale-backend/pkg/types"
)

// DefaultPoint is the pickup point selected when nothing else is configured.
const DefaultPoint = "mirny"

// Store holds the working set of orders, most recent first.
// Mutations on unknown ids are no-ops and report false.
type Store struct {
	mu            sync.RWMutex
	orders        []Order
	selectedPoint string
	now           func() time.Time
}

func NewStore(selectedPoint string, now func() time.Time) *Store {
	if selectedPoint == "" {
		selectedPoint = DefaultPoint
	}
	if now == nil {
		now = time.Now
	}
	return &Store{selectedPoint: selectedPoint, now: now}
}

// SetOrders replaces the whole working set.
func (s *Store) SetOrders(orders []Order) {
	cloned := make([]Order, len(orders))
	for i, o := range orders {
		cloned[i] = o.clone()
	}
	s.mu.Lock()
	s.orders = cloned
	s.mu.Unlock()
}

// AddOrder prepends the order.
func (s *Store) AddOrder(order Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append([]Order{order.clone()}, s.orders...)
}

// UpdateOrderStatus sets the status, refreshes UpdatedAt, and appends one timeline entry.
func (s *Store) UpdateOrderStatus(orderID string, status enums.OrderStatus) (Order, bool) {
	return s.update(orderID, func(o *Order, now time.Time) {
		o.Status = status
		o.Timeline = append(o.Timeline, types.TimelineEntry{
			Status:    status,
			Timestamp: now,
			Message:   status.Message(),
		})
	})
}

// AssignFlorist sets the florist without touching status or timeline.
func (s *Store) AssignFlorist(orderID, floristID string) (Order, bool) {
	return s.update(orderID, func(o *Order, _ time.Time) {
		o.FloristID = floristID
	})
}

// AssignCourier sets the courier without touching status or timeline.
func (s *Store) AssignCourier(orderID, courierID string) (Order, bool) {
	return s.update(orderID, func(o *Order, _ time.Time) {
		o.CourierID = courierID
	})
}

func (s *Store) OrdersByPoint(pointID string) []Order {
	return s.filter(func(o Order) bool { return o.PointID == pointID })
}

// OrdersByStatus filters by status, restricted to pointID when it is non-empty.
func (s *Store) OrdersByStatus(status enums.OrderStatus, pointID string) []Order {
	return s.filter(func(o Order) bool {
		if pointID != "" && o.PointID != pointID {
			return false
		}
		return o.Status == status
	})
}

func (s *Store) Order(orderID string) (Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.ID == orderID {
			return o.clone(), true
		}
	}
	return Order{}, false
}

func (s *Store) Orders() []Order {
	return s.filter(func(Order) bool { return true })
}

func (s *Store) SelectedPoint() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedPoint
}

func (s *Store) SetSelectedPoint(pointID string) {
	s.mu.Lock()
	s.selectedPoint = pointID
	s.mu.Unlock()
}

// put overwrites an existing order in place. Used to roll back a failed persist.
func (s *Store) put(order Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == order.ID {
			s.orders[i] = order.clone()
			return
		}
	}
}

func (s *Store) remove(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			return
		}
	}
}

func (s *Store) update(orderID string, fn func(*Order, time.Time)) (Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID != orderID {
			continue
		}
		now := s.now().UTC()
		updated := s.orders[i].clone()
		fn(&updated, now)
		updated.UpdatedAt = now
		s.orders[i] = updated
		return updated.clone(), true
	}
	return Order{}, false
}

func (s *Store) filter(keep func(Order) bool) []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Order, 0, len(s.orders))
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, o.clone())
		}
	}
	return out
}
