// Package catalog holds the compiled-in menu.
package catalog

import (
	"strings"

	"github.com/ahmed8601/kahramana-site/pkg/models"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

const heroPoster = "https://i.imgur.com/VWCe9vK.jpg"

var menu = []models.MenuItem{
	{ID: 1, Category: models.CategoryMain, Name: "القوزي العراقي الملكي", Price: decimal.RequireFromString("12.5"), Weight: "1.5 كجم", Image: heroPoster, IsFeatured: true},
	{ID: 2, Category: models.CategoryGrill, Name: "كباب عراقي مشكل", Price: decimal.RequireFromString("4.5"), Weight: "450 جرام", Image: "https://i.imgur.com/ZofCGKK.jpg", IsFeatured: true, IsSpicy: true},
	{ID: 3, Category: models.CategoryMain, Name: "برياني دجاج بغدادي", Price: decimal.RequireFromString("5.8"), Weight: "850 جرام", Image: "https://i.imgur.com/62ghngb.jpg"},
	{ID: 4, Category: models.CategoryGrill, Name: "سمك مسكوف عراقي", Price: decimal.RequireFromString("8.9"), Weight: "1.2 كجم", Image: "https://i.imgur.com/aeCIQ6L.jpg", IsFeatured: true},
}

// Catalog is a read-only set of menu items in display order.
type Catalog struct {
	items []models.MenuItem
	byID  map[int]int
}

// New builds a catalog over items. Later duplicates of an id are ignored.
func New(items []models.MenuItem) *Catalog {
	c := &Catalog{byID: make(map[int]int, len(items))}
	for _, it := range items {
		if _, dup := c.byID[it.ID]; dup {
			continue
		}
		c.byID[it.ID] = len(c.items)
		c.items = append(c.items, it)
	}
	return c
}

// Default returns the restaurant's menu.
func Default() *Catalog {
	return New(menu)
}

// Items returns a copy of every item.
func (c *Catalog) Items() []models.MenuItem {
	out := make([]models.MenuItem, len(c.items))
	copy(out, c.items)
	return out
}

// Lookup returns the item with the given id.
func (c *Catalog) Lookup(id int) (models.MenuItem, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.MenuItem{}, false
	}
	return c.items[i], true
}

// Has reports whether id is on the menu.
func (c *Catalog) Has(id int) bool {
	_, ok := c.byID[id]
	return ok
}

// Featured returns the featured items in menu order.
func (c *Catalog) Featured() []models.MenuItem {
	var out []models.MenuItem
	for _, it := range c.items {
		if it.IsFeatured {
			out = append(out, it)
		}
	}
	return out
}

// Filter returns the items of the given category (or all) whose normalized
// name contains the normalized query.
func (c *Catalog) Filter(category models.Category, query string) []models.MenuItem {
	q := Normalize(query)
	out := make([]models.MenuItem, 0, len(c.items))
	for _, it := range c.items {
		if category != models.CategoryAll && category != "" && it.Category != category {
			continue
		}
		if q != "" && !strings.Contains(Normalize(it.Name), q) {
			continue
		}
		out = append(out, it)
	}
	return out
}

var arabicFolds = strings.NewReplacer(
	"أ", "ا",
	"إ", "ا",
	"آ", "ا",
	"ة", "ه",
	"ى", "ي",
)

// Normalize folds alef, taa marbuta and alef maksura variants and case so
// that search ignores spelling differences users commonly type.
func Normalize(s string) string {
	return strings.TrimSpace(cases.Fold().String(arabicFolds.Replace(s)))
}
