package orders

import (
	"time"

	"github.com/angelmondragon/florale-backend/internal/cart"
	"github.com/angelmondragon/florale-backend/internal/catalog"
	"github.com/angelmondragon/florale-backend/pkg/enums"
	"github.com/angelmondragon/florale-backend/pkg/types"
)

type fixture struct {
	id        string
	number    string
	status    enums.OrderStatus
	recipient string
	phone     string
	total     int64
	age       time.Duration
	point     string
}

var sampleOrders = []fixture{
	{id: "5b7c4f1e-3d1a-4a43-9d0e-0c1f3f7a1234", number: "FL-001234", status: enums.OrderStatusNew, recipient: "Anna Ivanova", phone: "+79140000001", total: 4500, point: "mirny"},
	{id: "5b7c4f1e-3d1a-4a43-9d0e-0c1f3f7a1235", number: "FL-001235", status: enums.OrderStatusProcessing, recipient: "Mikhail Petrov", phone: "+79140000002", total: 7200, age: 30 * time.Minute, point: "yakutsk"},
	{id: "5b7c4f1e-3d1a-4a43-9d0e-0c1f3f7a1236", number: "FL-001236", status: enums.OrderStatusReady, recipient: "Olga Sidorova", phone: "+79140000003", total: 3800, age: 45 * time.Minute, point: "mirny"},
}

// Fixtures returns the sample orders used to seed an empty dashboard, newest first.
// Each order carries a timeline that walks from new to its current status.
func Fixtures(now time.Time) []Order {
	now = now.UTC()
	out := make([]Order, 0, len(sampleOrders))
	for _, f := range sampleOrders {
		created := now.Add(-f.age)
		size := catalog.ProductSize{ID: "medium", Name: "M", FlowersCount: "25-35 flowers", Price: f.total, Height: "50-55 cm"}
		product := catalog.Product{
			ID:       "fixture-" + f.number,
			Name:     "Signature bouquet",
			Price:    f.total,
			Rating:   5,
			Category: "bouquet",
			Sizes:    []catalog.ProductSize{size},
			InStock:  true,
		}
		out = append(out, Order{
			ID:          f.id,
			OrderNumber: f.number,
			Status:      f.status,
			Items:       []cart.Item{{ProductID: product.ID, Product: product, Size: size, Quantity: 1}},
			Recipient:   types.Recipient{Name: f.recipient, Phone: f.phone},
			Delivery:    types.DeliveryInfo{Address: "Lenina 1", Date: created.Format(time.DateOnly), Time: "18:00-20:00"},
			Payment:     types.PaymentInfo{Method: enums.PaymentMethodOnline, Status: enums.PaymentStatusPaid, Amount: f.total},
			Total:       f.total,
			CreatedAt:   created,
			UpdatedAt:   created,
			Timeline:    timelineUpTo(f.status, created),
			PointID:     f.point,
		})
	}
	return out
}

func timelineUpTo(status enums.OrderStatus, at time.Time) []types.TimelineEntry {
	var timeline []types.TimelineEntry
	for _, s := range enums.OrderStatuses() {
		timeline = append(timeline, types.TimelineEntry{Status: s, Timestamp: at, Message: s.Message()})
		if s == status {
			break
		}
	}
	return timeline
}
