package cart

import (
	"github.com/angelmondragon/florale-backend/api/validators"
	cartsvc "github.com/angelmondragon/florale-backend/internal/cart"
)

const maxIDLength = 64

// AddItemRequest adds a catalog product to the cart. Empty size_id picks the first size.
type AddItemRequest struct {
	ProductID   string `json:"product_id" validate:"required,max=64"`
	SizeID      string `json:"size_id" validate:"max=64"`
	PackagingID string `json:"packaging_id" validate:"max=64"`
	CardMessage string `json:"card_message" validate:"max=200"`
	CardDesign  string `json:"card_design" validate:"max=64"`
}

// UpdateItemRequest patches the lines of a product. When size_id is set the quantity change
// applies to that single line only.
type UpdateItemRequest struct {
	SizeID      *string `json:"size_id" validate:"omitempty,max=64"`
	Quantity    *int    `json:"quantity" validate:"omitempty,max=999"`
	PackagingID *string `json:"packaging_id" validate:"omitempty,max=64"`
	CardMessage *string `json:"card_message" validate:"omitempty,max=200"`
}

func (r UpdateItemRequest) empty() bool {
	return r.Quantity == nil && r.PackagingID == nil && r.CardMessage == nil
}

func toAddProductInput(productID string, payload AddItemRequest) cartsvc.AddProductInput {
	if productID == "" {
		productID = payload.ProductID
	}
	return cartsvc.AddProductInput{
		ProductID:   validators.SanitizeString(productID, maxIDLength),
		SizeID:      validators.SanitizeString(payload.SizeID, maxIDLength),
		PackagingID: validators.SanitizeString(payload.PackagingID, maxIDLength),
		CardMessage: payload.CardMessage,
		CardDesign:  validators.SanitizeString(payload.CardDesign, maxIDLength),
	}
}
