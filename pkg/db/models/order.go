package models

import (
	"encoding/json"
	"time"

	"github.com/angelmondragon/florale-backend/pkg/enums"
	"github.com/angelmondragon/florale-backend/pkg/types"
)

// Order is the persisted row behind the admin order store.
// Timestamps are owned by the domain, so gorm must not touch them.
type Order struct {
	ID          string                `gorm:"column:id;type:text;primaryKey"`
	OrderNumber string                `gorm:"column:order_number;type:text;not null;uniqueIndex"`
	Status      enums.OrderStatus     `gorm:"column:status;type:text;not null;default:'new'"`
	PointID     string                `gorm:"column:point_id;type:text;not null;index"`
	FloristID   *string               `gorm:"column:florist_id;type:text"`
	CourierID   *string               `gorm:"column:courier_id;type:text"`
	Total       int64                 `gorm:"column:total;not null"`
	Items       json.RawMessage       `gorm:"column:items;type:jsonb;serializer:json"`
	Recipient   types.Recipient       `gorm:"column:recipient;type:jsonb;serializer:json"`
	Delivery    types.DeliveryInfo    `gorm:"column:delivery;type:jsonb;serializer:json"`
	Payment     types.PaymentInfo     `gorm:"column:payment;type:jsonb;serializer:json"`
	Timeline    []types.TimelineEntry `gorm:"column:timeline;type:jsonb;serializer:json"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (Order) TableName() string {
	return "orders"
}
