package catalog

var builderSteps = []Step{
	{ID: 1, Title: "Style"},
	{ID: 2, Title: "Color"},
	{ID: 3, Title: "Size"},
	{ID: 4, Title: "Packaging"},
	{ID: 5, Title: "Card"},
	{ID: 6, Title: "Summary"},
}

var bouquetStyles = []Style{
	{ID: "classic", Name: "Classic", Image: "/images/styles/classic.jpg"},
	{ID: "mono", Name: "Mono bouquet", Image: "/images/styles/mono.jpg"},
	{ID: "field", Name: "Wildflower", Image: "/images/styles/field.jpg"},
	{ID: "exotic", Name: "Exotic", Image: "/images/styles/exotic.jpg"},
	{ID: "mix", Name: "Mix", Image: "/images/styles/mix.jpg"},
}

var colorPalettes = []Palette{
	{ID: "pastel", Name: "Pastel", Colors: []string{"#FFE4E1", "#E8D5D5", "#F5E6E8"}},
	{ID: "bright", Name: "Bright", Colors: []string{"#FF6B9D", "#FFA500", "#FF0000"}},
	{ID: "white", Name: "White", Colors: []string{"#FFFFFF", "#FFFAF0", "#F8F8FF"}},
	{ID: "dark", Name: "Dark", Colors: []string{"#4B0082", "#8B0000", "#2F4F4F"}},
	{ID: "rainbow", Name: "Rainbow", Colors: []string{"#FF0000", "#FFA500", "#FFFF00", "#00FF00", "#0000FF", "#4B0082", "#8B00FF"}},
}

var builderSizes = []ProductSize{
	{ID: "small", Name: "S", FlowersCount: "15-21 flowers", Price: 3500, Height: "40-45 cm"},
	{ID: "medium", Name: "M", FlowersCount: "25-35 flowers", Price: 5500, Height: "50-55 cm"},
	{ID: "large", Name: "L", FlowersCount: "40-51 flowers", Price: 8500, Height: "60-65 cm"},
	{ID: "xlarge", Name: "XL", FlowersCount: "60+ flowers", Price: 12000, Height: "70-75 cm"},
}

var packagingOptions = []PackagingOption{
	{ID: "kraft", Name: "Kraft", Price: 200, Image: "/images/packaging/kraft.jpg", RibbonColors: []string{"#D2691E", "#8B4513", "#A0522D"}},
	{ID: "film", Name: "Film", Price: 150, Image: "/images/packaging/film.jpg", RibbonColors: []string{"#FFB6C1", "#DDA0DD", "#E0B0FF"}},
	{ID: "hatbox", Name: "Hat box", Price: 500, Image: "/images/packaging/hatbox.jpg"},
	{ID: "basket", Name: "Basket", Price: 400, Image: "/images/packaging/basket.jpg"},
	{ID: "none", Name: "No packaging", Price: 0, Image: "/images/packaging/none.jpg"},
}

var cardDesigns = []CardDesign{
	{ID: "classic", Name: "Classic", Image: "/images/cards/classic.jpg"},
	{ID: "minimal", Name: "Minimal", Image: "/images/cards/minimal.jpg"},
	{ID: "floral", Name: "Floral", Image: "/images/cards/floral.jpg"},
	{ID: "watercolor", Name: "Watercolor", Image: "/images/cards/watercolor.jpg"},
}

// Collections are the catalog filter values.
var Collections = []string{"romantic", "luxury", "minimal", "birthday"}
