package orders

import (
	"github.com/angelmondragon/florale-backend/pkg/types"
)

// CheckoutRequest turns the session cart into an order.
type CheckoutRequest struct {
	Recipient     types.Recipient    `json:"recipient"`
	Delivery      types.DeliveryInfo `json:"delivery"`
	PaymentMethod string             `json:"payment_method" validate:"required,oneof=online card_courier cash"`
	PointID       string             `json:"point_id" validate:"max=64"`
}

// CreateOrderRequest is a staff-entered order referencing catalog products.
type CreateOrderRequest struct {
	PointID       string             `json:"point_id" validate:"max=64"`
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Recipient     types.Recipient    `json:"recipient"`
	Delivery      types.DeliveryInfo `json:"delivery"`
	PaymentMethod string             `json:"payment_method" validate:"required,oneof=online card_courier cash"`
	PaymentStatus string             `json:"payment_status" validate:"omitempty,oneof=pending paid failed"`
}

type OrderItemRequest struct {
	ProductID   string `json:"product_id" validate:"required,max=64"`
	SizeID      string `json:"size_id" validate:"max=64"`
	Quantity    int    `json:"quantity" validate:"required,min=1,max=999"`
	PackagingID string `json:"packaging_id" validate:"max=64"`
	CardMessage string `json:"card_message" validate:"max=200"`
	CardDesign  string `json:"card_design" validate:"max=64"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new processing ready courier_assigned in_delivery delivered cancelled"`
}

type AssignFloristRequest struct {
	FloristID string `json:"florist_id" validate:"required,max=64"`
}

type AssignCourierRequest struct {
	CourierID string `json:"courier_id" validate:"required,max=64"`
}

type SelectPointRequest struct {
	PointID string `json:"point_id" validate:"required,max=64"`
}
