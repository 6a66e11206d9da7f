package orders

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/angelmondragon/florale-backend/internal/cart"
	"github.com/angelmondragon/florale-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists orders. The in-memory Store stays the source of truth while the process runs.
type Repository interface {
	Save(ctx context.Context, order Order) error
	List(ctx context.Context) ([]Order, error)
	WithTx(tx *gorm.DB) Repository
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Save inserts the order or overwrites every column of the existing row.
func (r *repository) Save(ctx context.Context, order Order) error {
	row, err := toModel(order)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
}

// List returns every order, most recent first.
func (r *repository) List(ctx context.Context) ([]Order, error) {
	var rows []models.Order
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Order, 0, len(rows))
	for _, row := range rows {
		order, err := fromModel(row)
		if err != nil {
			return nil, err
		}
		out = append(out, order)
	}
	return out, nil
}

func toModel(o Order) (models.Order, error) {
	items := o.Items
	if items == nil {
		items = []cart.Item{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return models.Order{}, fmt.Errorf("encode order items: %w", err)
	}
	return models.Order{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Status:      o.Status,
		PointID:     o.PointID,
		FloristID:   optional(o.FloristID),
		CourierID:   optional(o.CourierID),
		Total:       o.Total,
		Items:       raw,
		Recipient:   o.Recipient,
		Delivery:    o.Delivery,
		Payment:     o.Payment,
		Timeline:    o.Timeline,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}, nil
}

func fromModel(row models.Order) (Order, error) {
	var items []cart.Item
	if len(row.Items) > 0 {
		if err := json.Unmarshal(row.Items, &items); err != nil {
			return Order{}, fmt.Errorf("decode items of order %s: %w", row.ID, err)
		}
	}
	order := Order{
		ID:          row.ID,
		OrderNumber: row.OrderNumber,
		Status:      row.Status,
		Items:       items,
		Recipient:   row.Recipient,
		Delivery:    row.Delivery,
		Payment:     row.Payment,
		Total:       row.Total,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
		Timeline:    row.Timeline,
		PointID:     row.PointID,
	}
	if row.FloristID != nil {
		order.FloristID = *row.FloristID
	}
	if row.CourierID != nil {
		order.CourierID = *row.CourierID
	}
	return order, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
