package scraper

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"vintelli-api/internal/model"
)

// Defaults for synthesized records.
const (
	DefaultSize      = "M"
	DefaultCondition = "Used - Good"
	DefaultCategory  = "Clothing"
	defaultPrice     = 25.00
)

var itemIDRegexp = regexp.MustCompile(`/items/(\d+)`)

// brandRule maps keyword sets to a canonical brand. The rule matches when
// every keyword of any one set is present.
type brandRule struct {
	brand    string
	keywords [][]string
}

var brandRules = []brandRule{
	{brand: "Ralph Lauren", keywords: [][]string{{"ralph", "lauren"}}},
	{brand: "Nike", keywords: [][]string{{"nike"}}},
	{brand: "Adidas", keywords: [][]string{{"adidas"}}},
	{brand: "Levi's", keywords: [][]string{{"levi"}}},
	{brand: "Zara", keywords: [][]string{{"zara"}}},
	{brand: "H&M", keywords: [][]string{{"h&m"}, {"hm"}}},
}

type categoryRule struct {
	category string
	keywords []string
}

var categoryRules = []categoryRule{
	{category: "Pants", keywords: []string{"pantalon", "pants", "jeans", "trousers"}},
	{category: "Shirts", keywords: []string{"shirt", "t-shirt", "polo"}},
	{category: "Sweaters", keywords: []string{"sweater", "pull", "hoodie"}},
	{category: "Jackets", keywords: []string{"jacket", "blazer", "veste"}},
	{category: "Shoes", keywords: []string{"shoes", "sneakers", "chaussures"}},
	{category: "Dresses", keywords: []string{"dress", "robe"}},
}

// placeholderPrice is a deterministic stand-in price, not a market estimate.
// An empty category matches any category of the brand.
type placeholderPrice struct {
	brand    string
	category string
	price    float64
}

var placeholderPrices = []placeholderPrice{
	{brand: "Ralph Lauren", category: "Pants", price: 35.00},
	{brand: "Ralph Lauren", category: "Shirts", price: 30.00},
	{brand: "Ralph Lauren", category: "Sweaters", price: 40.00},
	{brand: "Nike", price: 45.00},
	{brand: "Adidas", price: 40.00},
	{brand: "Levi's", price: 30.00},
	{brand: "Zara", price: 20.00},
	{brand: "H&M", price: 15.00},
}

// HasItemID reports whether the address carries a listing identifier.
func HasItemID(address string) bool {
	return itemIDRegexp.MatchString(address)
}

// Synthesize derives a best-guess record from the listing address alone.
// It returns nil when the address has no /items/<id> segment.
func Synthesize(address string) *model.ItemRecord {
	if !HasItemID(address) {
		return nil
	}

	title := titleFromAddress(address)
	if title == "" {
		return nil
	}

	lower := strings.ToLower(title)
	brand := guessBrand(lower)
	category := guessCategory(lower)

	return &model.ItemRecord{
		Title:       title,
		Price:       model.NewPrice(lookupPlaceholderPrice(brand, category)),
		Brand:       brand,
		Size:        DefaultSize,
		Category:    category,
		Condition:   DefaultCondition,
		URL:         address,
		Synthesized: true,
	}
}

func titleFromAddress(address string) string {
	path := address
	if u, err := url.Parse(address); err == nil && u.Path != "" {
		path = u.Path
	}

	var last string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			last = seg
		}
	}
	if unescaped, err := url.PathUnescape(last); err == nil {
		last = unescaped
	}

	if strings.HasSuffix(strings.ToLower(last), ".html") {
		last = last[:len(last)-len(".html")]
	}

	words := strings.Fields(strings.NewReplacer("-", " ", "_", " ").Replace(last))
	return cases.Title(language.Und).String(strings.Join(words, " "))
}

func guessBrand(lowerTitle string) string {
	for _, rule := range brandRules {
		for _, set := range rule.keywords {
			if containsAll(lowerTitle, set) {
				return rule.brand
			}
		}
	}
	return ""
}

func guessCategory(lowerTitle string) string {
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowerTitle, kw) {
				return rule.category
			}
		}
	}
	return DefaultCategory
}

func lookupPlaceholderPrice(brand, category string) float64 {
	if brand == "" {
		return defaultPrice
	}
	for _, p := range placeholderPrices {
		if p.brand == brand && p.category == category {
			return p.price
		}
	}
	for _, p := range placeholderPrices {
		if p.brand == brand && p.category == "" {
			return p.price
		}
	}
	return defaultPrice
}

func containsAll(s string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(s, kw) {
			return false
		}
	}
	return true
}
