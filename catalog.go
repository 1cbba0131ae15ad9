package furnish

import (
	"fmt"
	"strings"
)

// CatalogCategory groups catalog entries in the furniture browser.
type CatalogCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Type is the furniture type given to items created from the category.
	Type string `json:"type"`
}

// CatalogEntry is one product offered by the furniture browser. Entries are
// only templates; AddFromCatalog turns one into a FurnitureItem.
type CatalogEntry struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Type         string   `json:"type"`
	Measurements string   `json:"measurements"`
	Image        string   `json:"image"`
	Colors       []string `json:"colors"`
	FileName     string   `json:"fileName,omitempty"`
	OriginalSize float64  `json:"originalSize"`
}

// Catalog is a read-only product list.
type Catalog struct {
	Categories []CatalogCategory `json:"categories"`
	Entries    []CatalogEntry    `json:"entries"`
}

// Lookup returns the entry with the given id.
func (c *Catalog) Lookup(id string) (CatalogEntry, bool) {
	for _, e := range c.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return CatalogEntry{}, false
}

// InCategory returns the entries of one category in catalog order.
func (c *Catalog) InCategory(category string) []CatalogEntry {
	var out []CatalogEntry
	for _, e := range c.Entries {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

const placeholderImage = "/placeholder.svg?height=200&width=300"

// DefaultCatalog returns the built-in product list.
func DefaultCatalog() *Catalog {
	entry := func(id, name, category, typ, measurements string, originalSize float64, colors ...string) CatalogEntry {
		return CatalogEntry{
			ID: id, Name: name, Category: category, Type: typ,
			Measurements: measurements, Image: placeholderImage,
			Colors: colors, OriginalSize: originalSize,
		}
	}
	return &Catalog{
		Categories: []CatalogCategory{
			{ID: "sofas", Name: "Sofas", Type: "sofa"},
			{ID: "chairs", Name: "Chairs", Type: "chair"},
			{ID: "beds", Name: "Beds", Type: "bed"},
			{ID: "tables", Name: "Tables", Type: "table"},
			{ID: "lamps", Name: "Lamps", Type: "lamp"},
		},
		Entries: []CatalogEntry{
			entry("sofa1", "Comfy Couch", "sofas", "sofa", "200cm x 90cm 85cm", 2.0, "#FF0000", "#00FF00", "#0000FF"),
			entry("sofa2", "Modern Sofa", "sofas", "sofa", "180cm x 85cm 80cm", 1.8, "#FFA500", "#800080", "#008080"),
			entry("sofa3", "Sectional Sofa", "sofas", "sofa", "270cm x 200cm 85cm", 2.7, "#FFD700", "#4B0082", "#00CED1"),
			entry("chair1", "Dining Chair", "chairs", "chair", "45cm x 55cm 85cm", 0.85, "#8B4513", "#A52A2A", "#D2691E"),
			entry("chair2", "Office Chair", "chairs", "chair", "65cm x 110cm", 1.1, "#000000", "#808080", "#C0C0C0"),
			entry("chair3", "Accent Chair", "chairs", "chair", "70cm x 75cm 80cm", 0.8, "#FF69B4", "#FF1493", "#C71585"),
			entry("bed1", "Queen Bed", "beds", "bed", "160cm x 200cm", 2.0, "#8B4513", "#D2691E", "#CD853F"),
			entry("bed2", "King Bed", "beds", "bed", "180cm x 200cm", 2.0, "#2F4F4F", "#708090", "#778899"),
			entry("bed3", "Bunk Bed", "beds", "bed", "90cm x 200cm (each bed)", 2.0, "#FF6347", "#FF4500", "#FF8C00"),
			entry("table1", "Dining Table", "tables", "table", "180cm x 90cm 75cm", 1.8, "#8B4513", "#D2691E", "#CD853F"),
			entry("table2", "Coffee Table", "tables", "table", "120cm x 60cm 45cm", 1.2, "#2F4F4F", "#708090", "#778899"),
			entry("table3", "Side Table", "tables", "table", "45cm x 55cm", 0.55, "#B8860B", "#DAA520", "#FFD700"),
			entry("lamp1", "Floor Lamp", "lamps", "lamp", "35cm x 150cm", 1.5, "#FFD700", "#FFA500", "#FF8C00"),
			entry("lamp2", "Table Lamp", "lamps", "lamp", "30cm x 50cm", 0.5, "#00CED1", "#48D1CC", "#40E0D0"),
			entry("lamp3", "Pendant Light", "lamps", "lamp", "40cm diameter x 50cm height", 0.5, "#FF69B4", "#FF1493", "#C71585"),
		},
	}
}

// Item builds a new FurnitureItem from the entry. color must be a valid
// color; an empty color picks the entry's first swatch, or DefaultColor
// when it has none.
func (e CatalogEntry) Item(color string) (FurnitureItem, error) {
	if color == "" {
		color = DefaultColor
		if len(e.Colors) > 0 {
			color = e.Colors[0]
		}
	}
	if _, err := ParseColor(color); err != nil {
		return FurnitureItem{}, err
	}
	typ := e.Type
	if typ == "" {
		typ = strings.TrimSuffix(e.Category, "s")
	}
	if typ == "" {
		return FurnitureItem{}, fmt.Errorf("catalog entry %q has no type", e.ID)
	}
	return FurnitureItem{
		Name:         e.Name,
		Type:         typ,
		Color:        color,
		Size:         SizeMedium,
		OriginalSize: e.OriginalSize,
		FileName:     e.FileName,
	}, nil
}
