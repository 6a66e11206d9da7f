package enums

import "fmt"

// OrderStatus tracks where a bouquet order sits in the fulfillment flow.
type OrderStatus string

const (
	OrderStatusNew             OrderStatus = "new"
	OrderStatusProcessing      OrderStatus = "processing"
	OrderStatusReady           OrderStatus = "ready"
	OrderStatusCourierAssigned OrderStatus = "courier_assigned"
	OrderStatusInDelivery      OrderStatus = "in_delivery"
	OrderStatusDelivered       OrderStatus = "delivered"
	OrderStatusCancelled       OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusNew,
	OrderStatusProcessing,
	OrderStatusReady,
	OrderStatusCourierAssigned,
	OrderStatusInDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

var orderStatusMessages = map[OrderStatus]string{
	OrderStatusNew:             "order placed",
	OrderStatusProcessing:      "florist started work",
	OrderStatusReady:           "bouquet ready",
	OrderStatusCourierAssigned: "courier assigned",
	OrderStatusInDelivery:      "order en route",
	OrderStatusDelivered:       "order delivered",
	OrderStatusCancelled:       "order cancelled",
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further fulfillment step follows the status.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusDelivered || o == OrderStatusCancelled
}

// Message returns the timeline text recorded when an order enters the status.
func (o OrderStatus) Message() string {
	return orderStatusMessages[o]
}

// OrderStatuses lists every status in fulfillment order.
func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(validOrderStatuses))
	copy(out, validOrderStatuses)
	return out
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
