package orders

import (
	"testing"
	"time"

	"github.com/angelmondragon/florale-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
}

func TestStoreAddOrderPrepends(t *testing.T) {
	s := NewStore("", nil)
	s.AddOrder(Order{ID: "a"})
	s.AddOrder(Order{ID: "b"})

	orders := s.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, "b", orders[0].ID)
	assert.Equal(t, "a", orders[1].ID)
	assert.Equal(t, DefaultPoint, s.SelectedPoint())
}

func TestStoreUpdateOrderStatusAppendsTimelineInOrder(t *testing.T) {
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	s := NewStore("", fixedClock(start))
	s.SetOrders(Fixtures(start)[:1])
	id := s.Orders()[0].ID
	initial := len(s.Orders()[0].Timeline)

	calls := []enums.OrderStatus{
		enums.OrderStatusProcessing,
		enums.OrderStatusReady,
		enums.OrderStatusDelivered,
		enums.OrderStatusNew,
	}
	for _, status := range calls {
		_, ok := s.UpdateOrderStatus(id, status)
		require.True(t, ok)
	}

	order, ok := s.Order(id)
	require.True(t, ok)
	require.Len(t, order.Timeline, initial+len(calls))
	for i, status := range calls {
		entry := order.Timeline[initial+i]
		assert.Equal(t, status, entry.Status)
		assert.Equal(t, status.Message(), entry.Message)
	}
	assert.Equal(t, enums.OrderStatusNew, order.Status)
	assert.Equal(t, order.Timeline[len(order.Timeline)-1].Timestamp, order.UpdatedAt)
	assert.True(t, order.UpdatedAt.After(start))
}

func TestStoreDeliveredMessage(t *testing.T) {
	s := NewStore("", nil)
	s.AddOrder(Order{ID: "a", Status: enums.OrderStatusInDelivery})

	order, ok := s.UpdateOrderStatus("a", enums.OrderStatusDelivered)
	require.True(t, ok)
	assert.Equal(t, "order delivered", order.Timeline[len(order.Timeline)-1].Message)
}

func TestStoreAssignmentsSkipTimeline(t *testing.T) {
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	s := NewStore("", fixedClock(start))
	s.AddOrder(Order{ID: "a", Status: enums.OrderStatusDelivered, UpdatedAt: start})

	order, ok := s.AssignFlorist("a", "florist-1")
	require.True(t, ok)
	assert.Equal(t, "florist-1", order.FloristID)
	assert.Empty(t, order.Timeline)
	assert.True(t, order.UpdatedAt.After(start))

	order, ok = s.AssignCourier("a", "courier-9")
	require.True(t, ok)
	assert.Equal(t, "courier-9", order.CourierID)
	assert.Equal(t, enums.OrderStatusDelivered, order.Status)
	assert.Empty(t, order.Timeline)
}

func TestStoreMissingIDsAreNoops(t *testing.T) {
	s := NewStore("", nil)
	s.AddOrder(Order{ID: "a", Status: enums.OrderStatusNew})

	_, ok := s.UpdateOrderStatus("missing", enums.OrderStatusReady)
	assert.False(t, ok)
	_, ok = s.AssignFlorist("missing", "f")
	assert.False(t, ok)
	_, ok = s.AssignCourier("missing", "c")
	assert.False(t, ok)

	order, _ := s.Order("a")
	assert.Equal(t, enums.OrderStatusNew, order.Status)
	assert.Empty(t, order.Timeline)
}

func TestStoreFilters(t *testing.T) {
	s := NewStore("yakutsk", nil)
	s.SetOrders([]Order{
		{ID: "1", PointID: "mirny", Status: enums.OrderStatusNew},
		{ID: "2", PointID: "yakutsk", Status: enums.OrderStatusNew},
		{ID: "3", PointID: "mirny", Status: enums.OrderStatusReady},
	})

	assert.Len(t, s.OrdersByPoint("mirny"), 2)
	assert.Empty(t, s.OrdersByPoint("lensk"))
	assert.Len(t, s.OrdersByStatus(enums.OrderStatusNew, ""), 2)

	mirnyNew := s.OrdersByStatus(enums.OrderStatusNew, "mirny")
	require.Len(t, mirnyNew, 1)
	assert.Equal(t, "1", mirnyNew[0].ID)

	assert.Equal(t, "yakutsk", s.SelectedPoint())
	s.SetSelectedPoint("mirny")
	assert.Equal(t, "mirny", s.SelectedPoint())
}

func TestStoreReturnsCopies(t *testing.T) {
	s := NewStore("", nil)
	s.AddOrder(Order{ID: "a"})
	s.UpdateOrderStatus("a", enums.OrderStatusReady)

	order, _ := s.Order("a")
	order.Timeline[0].Message = "tampered"

	again, _ := s.Order("a")
	assert.Equal(t, "bouquet ready", again.Timeline[0].Message)
}
