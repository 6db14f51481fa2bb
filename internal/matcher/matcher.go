// Package matcher selects the reference sales most comparable to a listing.
package matcher

import (
	"math"
	"strings"

	"vintelli-api/internal/model"
)

// MaxMatches caps the number of entries returned by Match.
const MaxMatches = 3

// priceWindow is the inclusive distance between the listing price and an
// entry's original price for the price stage.
const priceWindow = 20.0

type keywordGroup struct {
	label    string
	keywords []string
}

var keywordGroups = []keywordGroup{
	{label: "hommes", keywords: []string{"jeans", "pants", "trousers", "shirts", "tops"}},
	{label: "femmes", keywords: []string{"dresses", "tops", "skirts", "blouses"}},
	{label: "chaussures", keywords: []string{"shoes", "sneakers", "boots"}},
	{label: "sacs", keywords: []string{"bags", "handbags", "backpacks"}},
	{label: "accessoires", keywords: []string{"accessories", "jewelry", "watches"}},
}

var popularCategories = []string{"Shoes", "Jeans", "Sweaters", "Jackets"}

// Match returns at most MaxMatches entries from dataset, unique by
// (brand, title) and in selection order. It never returns nil.
//
// Brand and category equality are always tried; the remaining stages run
// only while nothing has been selected.
func Match(item model.ItemRecord, dataset []model.ReferenceEntry) []model.ReferenceEntry {
	brand := strings.ToLower(strings.TrimSpace(item.Brand))
	category := strings.ToLower(strings.TrimSpace(item.Category))

	var selected []model.ReferenceEntry
	picked := make(map[model.EntryKey]bool)
	add := func(e model.ReferenceEntry) {
		selected = append(selected, e)
		picked[e.Key()] = true
	}

	if brand != "" {
		for _, e := range dataset {
			if strings.ToLower(e.Brand) == brand {
				add(e)
			}
		}
	}

	if category != "" {
		for _, e := range dataset {
			if strings.ToLower(e.Category) == category && !picked[e.Key()] {
				add(e)
			}
		}
	}

	if len(selected) == 0 && brand != "" {
		for _, e := range dataset {
			eb := strings.ToLower(e.Brand)
			if strings.Contains(eb, brand) || (eb != "" && strings.Contains(brand, eb)) {
				add(e)
			}
		}
	}

	if len(selected) == 0 && category != "" {
		if g, ok := groupFor(category); ok {
			for _, e := range dataset {
				if containsAny(strings.ToLower(e.Category), g.keywords) {
					add(e)
				}
			}
		}
	}

	if len(selected) == 0 && item.HasPrice() {
		price := item.PriceOrZero()
		for _, e := range dataset {
			if math.Abs(e.OriginalPrice-price) <= priceWindow {
				add(e)
			}
		}
	}

	if len(selected) == 0 {
		for _, e := range dataset {
			if len(selected) == MaxMatches {
				break
			}
			if isPopular(e.Category) {
				add(e)
			}
		}
	}

	return dedupe(selected)
}

// groupFor returns the first keyword group whose label or any keyword
// occurs in category.
func groupFor(category string) (keywordGroup, bool) {
	for _, g := range keywordGroups {
		if strings.Contains(category, g.label) || containsAny(category, g.keywords) {
			return g, true
		}
	}
	return keywordGroup{}, false
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func isPopular(category string) bool {
	for _, c := range popularCategories {
		if c == category {
			return true
		}
	}
	return false
}

func dedupe(entries []model.ReferenceEntry) []model.ReferenceEntry {
	out := make([]model.ReferenceEntry, 0, MaxMatches)
	seen := make(map[model.EntryKey]bool, len(entries))
	for _, e := range entries {
		if seen[e.Key()] {
			continue
		}
		seen[e.Key()] = true
		out = append(out, e)
		if len(out) == MaxMatches {
			break
		}
	}
	return out
}
