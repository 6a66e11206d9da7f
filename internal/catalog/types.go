package catalog

// Product is a catalog entry. Prices are whole currency units.
type Product struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	Price        int64               `json:"price"`
	OldPrice     *int64              `json:"old_price,omitempty"`
	Rating       float64             `json:"rating"`
	ReviewsCount int                 `json:"reviews_count"`
	Images       []string            `json:"images"`
	Category     string              `json:"category"`
	Collection   string              `json:"collection,omitempty"`
	Sizes        []ProductSize       `json:"sizes"`
	Colors       []string            `json:"colors"`
	Composition  []FlowerComposition `json:"composition"`
	Care         []string            `json:"care"`
	InStock      bool                `json:"in_stock"`
	Featured     bool                `json:"featured,omitempty"`
}

// ProductSize is a purchasable size variant.
type ProductSize struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	FlowersCount string `json:"flowers_count"`
	Price        int64  `json:"price"`
	Height       string `json:"height"`
}

// PackagingOption carries a flat surcharge applied once per cart line.
type PackagingOption struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Price        int64    `json:"price"`
	Image        string   `json:"image"`
	RibbonColors []string `json:"ribbon_colors,omitempty"`
}

// FlowerComposition lists one flower kind in a bouquet.
type FlowerComposition struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Icon  string `json:"icon,omitempty"`
}

// Style is a builder bouquet style.
type Style struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Palette is a builder color palette.
type Palette struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}

// CardDesign is a greeting card layout.
type CardDesign struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Step describes one builder wizard step.
type Step struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// Options groups the builder option tables.
type Options struct {
	Steps       []Step            `json:"steps"`
	Styles      []Style           `json:"styles"`
	Palettes    []Palette         `json:"palettes"`
	Sizes       []ProductSize     `json:"sizes"`
	Packaging   []PackagingOption `json:"packaging"`
	CardDesigns []CardDesign      `json:"card_designs"`
}
