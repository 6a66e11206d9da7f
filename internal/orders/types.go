package orders

import (
	"time"

	"github.com/angelmondragon/florale-backend/internal/cart"
	"github.com/angelmondragon/florale-backend/pkg/enums"
	"github.com/angelmondragon/florale-backend/pkg/types"
)

// Order is a placed bouquet order as seen by the admin dashboard.
type Order struct {
	ID          string                `json:"id"`
	OrderNumber string                `json:"order_number"`
	Status      enums.OrderStatus     `json:"status"`
	Items       []cart.Item           `json:"items"`
	Recipient   types.Recipient       `json:"recipient"`
	Delivery    types.DeliveryInfo    `json:"delivery"`
	Payment     types.PaymentInfo     `json:"payment"`
	Total       int64                 `json:"total"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	Timeline    []types.TimelineEntry `json:"timeline"`
	FloristID   string                `json:"florist_id,omitempty"`
	CourierID   string                `json:"courier_id,omitempty"`
	PointID     string                `json:"point_id"`
}

func (o Order) clone() Order {
	out := o
	out.Items = append([]cart.Item(nil), o.Items...)
	out.Timeline = append([]types.TimelineEntry(nil), o.Timeline...)
	return out
}

// ListFilter narrows admin order listings. Empty fields match everything.
type ListFilter struct {
	PointID string
	Status  enums.OrderStatus
}

// CheckoutInput is what the shopper supplies when turning a cart into an order.
type CheckoutInput struct {
	Recipient     types.Recipient
	Delivery      types.DeliveryInfo
	PaymentMethod enums.PaymentMethod
	PointID       string
}

// CreateOrderInput is an order entered by staff, e.g. taken over the phone.
type CreateOrderInput struct {
	PointID       string
	Items         []cart.Item
	Recipient     types.Recipient
	Delivery      types.DeliveryInfo
	PaymentMethod enums.PaymentMethod
	PaymentStatus enums.PaymentStatus
}
