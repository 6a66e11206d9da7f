package cart

import (
	"encoding/json"

	"github.com/angelmondragon/florale-backend/internal/catalog"
)

// MaxCardMessageLength caps greeting card text, counted in runes.
const MaxCardMessageLength = 200

// Item is one cart line. Lines are keyed by (ProductID, Size.ID).
type Item struct {
	ProductID   string                   `json:"product_id"`
	Product     catalog.Product          `json:"product"`
	Size        catalog.ProductSize      `json:"size"`
	Quantity    int                      `json:"quantity"`
	Packaging   *catalog.PackagingOption `json:"packaging,omitempty"`
	CardMessage string                   `json:"card_message,omitempty"`
	CardDesign  string                   `json:"card_design,omitempty"`
}

// LineTotal is size price times quantity plus the flat packaging surcharge.
func (i Item) LineTotal() int64 {
	total := i.Size.Price * int64(i.Quantity)
	if i.Packaging != nil {
		total += i.Packaging.Price
	}
	return total
}

func (i Item) matches(productID, sizeID string) bool {
	return i.ProductID == productID && i.Size.ID == sizeID
}

// Ledger is the ordered list of cart lines for one shopper. Lines keep insertion order.
// Operations never fail; unknown ids are silent no-ops.
type Ledger struct {
	items []Item
}

// NewLedger seeds a ledger with existing lines.
func NewLedger(items []Item) *Ledger {
	l := &Ledger{}
	if len(items) > 0 {
		l.items = append([]Item(nil), items...)
	}
	return l
}

// AddItem increments the matching line or appends a new line with quantity 1.
// A repeat add never overwrites packaging or card fields of the existing line.
func (l *Ledger) AddItem(product catalog.Product, size catalog.ProductSize, packaging *catalog.PackagingOption, cardMessage, cardDesign string) {
	for i := range l.items {
		if l.items[i].matches(product.ID, size.ID) {
			l.items[i].Quantity++
			return
		}
	}

	item := Item{
		ProductID:   product.ID,
		Product:     product,
		Size:        size,
		Quantity:    1,
		CardMessage: cardMessage,
		CardDesign:  cardDesign,
	}
	if packaging != nil {
		p := *packaging
		item.Packaging = &p
	}
	l.items = append(l.items, item)
}

// RemoveItem drops every line of the product, whatever its size.
func (l *Ledger) RemoveItem(productID string) {
	l.filter(func(it Item) bool { return it.ProductID != productID })
}

// RemoveLine drops the single line keyed by (productID, sizeID).
func (l *Ledger) RemoveLine(productID, sizeID string) {
	l.filter(func(it Item) bool { return !it.matches(productID, sizeID) })
}

// UpdateQuantity sets quantity on every line of the product. quantity <= 0 removes them.
func (l *Ledger) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		l.RemoveItem(productID)
		return
	}
	for i := range l.items {
		if l.items[i].ProductID == productID {
			l.items[i].Quantity = quantity
		}
	}
}

// UpdateLineQuantity sets quantity on one line. quantity <= 0 removes it.
func (l *Ledger) UpdateLineQuantity(productID, sizeID string, quantity int) {
	if quantity <= 0 {
		l.RemoveLine(productID, sizeID)
		return
	}
	for i := range l.items {
		if l.items[i].matches(productID, sizeID) {
			l.items[i].Quantity = quantity
		}
	}
}

// UpdatePackaging replaces packaging on every line of the product. nil clears it.
func (l *Ledger) UpdatePackaging(productID string, packaging *catalog.PackagingOption) {
	for i := range l.items {
		if l.items[i].ProductID != productID {
			continue
		}
		if packaging == nil {
			l.items[i].Packaging = nil
			continue
		}
		p := *packaging
		l.items[i].Packaging = &p
	}
}

// UpdateCardMessage replaces the card text on every line of the product.
func (l *Ledger) UpdateCardMessage(productID, message string) {
	for i := range l.items {
		if l.items[i].ProductID == productID {
			l.items[i].CardMessage = message
		}
	}
}

func (l *Ledger) Total() int64 {
	var total int64
	for _, it := range l.items {
		total += it.LineTotal()
	}
	return total
}

func (l *Ledger) ItemsCount() int {
	count := 0
	for _, it := range l.items {
		count += it.Quantity
	}
	return count
}

func (l *Ledger) Clear() {
	l.items = nil
}

// Items returns a copy of the lines in insertion order.
func (l *Ledger) Items() []Item {
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

func (l *Ledger) Len() int {
	return len(l.items)
}

func (l *Ledger) filter(keep func(Item) bool) {
	kept := l.items[:0]
	for _, it := range l.items {
		if keep(it) {
			kept = append(kept, it)
		}
	}
	for i := len(kept); i < len(l.items); i++ {
		l.items[i] = Item{}
	}
	l.items = kept
}

type ledgerState struct {
	Items []Item `json:"items"`
}

func (l *Ledger) MarshalJSON() ([]byte, error) {
	items := l.items
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(ledgerState{Items: items})
}

func (l *Ledger) UnmarshalJSON(data []byte) error {
	var state ledgerState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	l.items = state.Items
	return nil
}
