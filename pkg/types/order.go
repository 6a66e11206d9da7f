package types

import (
	"time"

	"github.com/angelmondragon/florale-backend/pkg/enums"
)

// Recipient is the person receiving the bouquet.
type Recipient struct {
	Name     string `json:"name" validate:"required,max=120"`
	Phone    string `json:"phone" validate:"required,max=32"`
	IsSender bool   `json:"is_sender,omitempty"`
}

// Courier describes the courier attached to a delivery.
type Courier struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Phone  string  `json:"phone"`
	Photo  string  `json:"photo,omitempty"`
	Rating float64 `json:"rating"`
}

// DeliveryInfo stores where and when an order is delivered. Date and Time are the slot chosen by the shopper.
type DeliveryInfo struct {
	Address string   `json:"address" validate:"required,max=300"`
	Date    string   `json:"date" validate:"required"`
	Time    string   `json:"time" validate:"required"`
	Urgent  bool     `json:"urgent,omitempty"`
	Courier *Courier `json:"courier,omitempty"`
}

// PaymentInfo records how an order is paid.
type PaymentInfo struct {
	Method enums.PaymentMethod `json:"method"`
	Status enums.PaymentStatus `json:"status"`
	Amount int64               `json:"amount"`
}

// TimelineEntry is one status change in an order's history.
type TimelineEntry struct {
	Status    enums.OrderStatus `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Message   string            `json:"message"`
	Image     string            `json:"image,omitempty"`
}
