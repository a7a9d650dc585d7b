package layout

import "fmt"

// MinItemSize is the smallest edge, in pixels, the organic strategy will scale
// an item down to.
const MinItemSize = 12

// Item is one input rectangle: a stable identifier and its natural size.
type Item struct {
	// ID identifies the item to the caller, typically a file path.
	ID string `json:"id" yaml:"id"`
	// Width is the natural width in pixels.
	Width int `json:"width" yaml:"width"`
	// Height is the natural height in pixels.
	Height int `json:"height" yaml:"height"`
}

// NewItem creates an item with the given identifier and natural size.
func NewItem(id string, width, height int) Item {
	return Item{ID: id, Width: width, Height: height}
}

// Size returns the natural size of the item.
func (it Item) Size() Size {
	return NewSize(it.Width, it.Height)
}

// Catalog is the normalized, read-only list of items for one layout run.
type Catalog struct {
	items []Item
}

// NewCatalog validates items and returns a catalog over a private copy.
// Duplicate IDs are allowed; placements refer to items by index as well.
func NewCatalog(items []Item) (*Catalog, error) {
	if len(items) == 0 {
		return nil, newError(CodeEmptyInput, "no items to lay out")
	}
	normalized := make([]Item, len(items))
	for i, it := range items {
		if it.Width <= 0 || it.Height <= 0 {
			return nil, newError(CodeInvalidConfig, "item %d (%q) has non-positive size %dx%d", i, it.ID, it.Width, it.Height)
		}
		if it.ID == "" {
			it.ID = fmt.Sprintf("item-%d", i)
		}
		normalized[i] = it
	}
	return &Catalog{items: normalized}, nil
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Item returns the i-th item.
func (c *Catalog) Item(i int) Item {
	return c.items[i]
}

// Items returns a copy of the catalog's items.
func (c *Catalog) Items() []Item {
	return append([]Item(nil), c.items...)
}

// scaledItem is an item resized for one layout attempt. index is the item's
// position in the catalog.
type scaledItem struct {
	index int
	item  Item
	w, h  int
}

func (s scaledItem) size() Size {
	return NewSize(s.w, s.h)
}

func (c *Catalog) scaled() []scaledItem {
	out := make([]scaledItem, len(c.items))
	for i, it := range c.items {
		out[i] = scaledItem{index: i, item: it, w: it.Width, h: it.Height}
	}
	return out
}
