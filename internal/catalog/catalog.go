package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/florale-backend/pkg/errors"
)

//go:embed data/products.json
var feed embed.FS

// Catalog serves the static product feed and builder option tables. It is immutable after construction.
type Catalog struct {
	products []Product
	byID     map[string]int
}

// Load parses the embedded product feed.
func Load() (*Catalog, error) {
	raw, err := feed.ReadFile("data/products.json")
	if err != nil {
		return nil, fmt.Errorf("read product feed: %w", err)
	}
	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("decode product feed: %w", err)
	}
	return New(products)
}

// New builds a catalog from an explicit product list.
func New(products []Product) (*Catalog, error) {
	byID := make(map[string]int, len(products))
	for i, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("product at index %d has no id", i)
		}
		if len(p.Sizes) == 0 {
			return nil, fmt.Errorf("product %s has no sizes", p.ID)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %s", p.ID)
		}
		byID[p.ID] = i
	}
	return &Catalog{products: products, byID: byID}, nil
}

// List returns the products of a collection, or every product when collection is empty or "all".
func (c *Catalog) List(collection string) []Product {
	collection = strings.TrimSpace(strings.ToLower(collection))
	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if collection == "" || collection == "all" || p.Collection == collection {
			out = append(out, p)
		}
	}
	return out
}

// Product looks up a product by id.
func (c *Catalog) Product(id string) (Product, error) {
	idx, ok := c.byID[id]
	if !ok {
		return Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
			WithDetails(map[string]any{"product_id": id})
	}
	return c.products[idx], nil
}

// Size resolves a size of a product. An empty sizeID selects the first size.
func (p Product) Size(sizeID string) (ProductSize, bool) {
	if sizeID == "" {
		return p.Sizes[0], true
	}
	for _, s := range p.Sizes {
		if s.ID == sizeID {
			return s, true
		}
	}
	return ProductSize{}, false
}

// Options returns the builder option tables.
func (c *Catalog) Options() Options {
	return Options{
		Steps:       builderSteps,
		Styles:      bouquetStyles,
		Palettes:    colorPalettes,
		Sizes:       builderSizes,
		Packaging:   packagingOptions,
		CardDesigns: cardDesigns,
	}
}

func (c *Catalog) Style(id string) (Style, bool) {
	for _, s := range bouquetStyles {
		if s.ID == id {
			return s, true
		}
	}
	return Style{}, false
}

func (c *Catalog) Palette(id string) (Palette, bool) {
	for _, p := range colorPalettes {
		if p.ID == id {
			return p, true
		}
	}
	return Palette{}, false
}

// BuilderSize resolves one of the builder's fixed sizes.
func (c *Catalog) BuilderSize(id string) (ProductSize, bool) {
	for _, s := range builderSizes {
		if s.ID == id {
			return s, true
		}
	}
	return ProductSize{}, false
}

func (c *Catalog) Packaging(id string) (PackagingOption, bool) {
	for _, p := range packagingOptions {
		if p.ID == id {
			return p, true
		}
	}
	return PackagingOption{}, false
}

func (c *Catalog) CardDesign(id string) (CardDesign, bool) {
	for _, d := range cardDesigns {
		if d.ID == id {
			return d, true
		}
	}
	return CardDesign{}, false
}
