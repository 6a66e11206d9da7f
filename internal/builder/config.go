package builder

import (
	"fmt"
	"time"

	"github.com/angelmondragon/florale-backend/internal/catalog"
)

const (
	KindEmpty    = "empty"
	KindPartial  = "partial"
	KindComplete = "complete"

	customCategory = "custom"
	customName     = "Custom bouquet"
	customImage    = "/images/custom-bouquet.jpg"
)

// Configuration is one of EmptyConfig, PartialConfig or CompleteConfig.
type Configuration interface {
	Kind() string
	configuration()
}

// EmptyConfig means nothing has been chosen yet.
type EmptyConfig struct{}

// PartialConfig holds a draft with at least one required field missing.
type PartialConfig struct {
	Selection Selection
	Missing   []string
	Price     int64
}

// CompleteConfig has every required field. Only this variant can be converted into a product.
type CompleteConfig struct {
	Style        string                  `json:"style"`
	ColorPalette string                  `json:"color_palette"`
	Size         catalog.ProductSize     `json:"size"`
	Packaging    catalog.PackagingOption `json:"packaging"`
	RibbonColor  string                  `json:"ribbon_color,omitempty"`
	CardMessage  string                  `json:"card_message,omitempty"`
	CardDesign   string                  `json:"card_design,omitempty"`
	Price        int64                   `json:"price"`
}

func (EmptyConfig) Kind() string    { return KindEmpty }
func (PartialConfig) Kind() string  { return KindPartial }
func (CompleteConfig) Kind() string { return KindComplete }

func (EmptyConfig) configuration()    {}
func (PartialConfig) configuration()  {}
func (CompleteConfig) configuration() {}

// ToProduct builds the synthetic catalog product added to the cart for this bouquet.
func (c CompleteConfig) ToProduct(now time.Time) catalog.Product {
	return catalog.Product{
		ID:          fmt.Sprintf("custom-%d", now.UnixMilli()),
		Name:        customName,
		Description: fmt.Sprintf("Style: %s, Palette: %s", c.Style, c.ColorPalette),
		Price:       c.Size.Price,
		Rating:      5,
		Images:      []string{customImage},
		Category:    customCategory,
		Sizes:       []catalog.ProductSize{c.Size},
		Colors:      []string{},
		Composition: []catalog.FlowerComposition{},
		Care:        []string{},
		InStock:     true,
	}
}
