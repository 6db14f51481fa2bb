package scraper

import (
	"bytes"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"vintelli-api/internal/model"
)

// locator finds one field value in a document.
type locator func(doc *goquery.Document) (string, bool)

var (
	titleLocators = []locator{
		textAt(`h1[data-testid="item-title"]`, rejectPlaceholders("vinted")),
		textAt(`h1`, rejectPlaceholders("vinted")),
		textAt(`[data-testid="item-title"]`, rejectPlaceholders("vinted")),
		textAt(`.item-title`, rejectPlaceholders("vinted")),
		attrAt(`meta[property="og:title"]`, "content", rejectPlaceholders("vinted")),
		textAt(`title`, rejectPlaceholders("vinted")),
	}

	priceSelectors = []string{
		`[data-testid="item-price"]`,
		`.price`,
		`.item-price`,
		`[class*="price"]`,
		`span[class*="price"]`,
		`[data-testid="price"]`,
		`.web_ui__Text__text`,
		`[class*="Price"]`,
		`span[class*="Price"]`,
		`div[class*="price"]`,
		`div[class*="Price"]`,
		`[class*="amount"]`,
		`[class*="Amount"]`,
		`span[class*="amount"]`,
		`div[class*="amount"]`,
		`[data-testid*="price"]`,
		`[data-testid*="Price"]`,
		`[class*="cost"]`,
		`[class*="Cost"]`,
	}

	brandLocators = []locator{
		textAt(`a[href*="/brand/"]`, rejectPlaceholders("brand", "marque")),
		textAt(`[data-testid="item-brand"]`, rejectPlaceholders("brand", "marque")),
		textAt(`.brand`, rejectPlaceholders("brand", "marque")),
		textAt(`.item-brand`, rejectPlaceholders("brand", "marque")),
		textAt(`a[href*="brand"]`, rejectPlaceholders("brand", "marque")),
	}

	sizeLocators = []locator{
		textAt(`[data-testid="item-size"]`, labeledValue(sizeValueRegexp, "size", "taille")),
		textAt(`.size`, labeledValue(sizeValueRegexp, "size", "taille")),
		textAt(`.item-size`, labeledValue(sizeValueRegexp, "size", "taille")),
		textAt(`span:contains("Size")`, labeledValue(sizeValueRegexp, "size", "taille")),
		textAt(`span:contains("Taille")`, labeledValue(sizeValueRegexp, "size", "taille")),
	}

	categoryLocators = []locator{
		textAt(`a[href*="/catalog/"]`, rejectPlaceholders("catalog", "catégorie")),
		textAt(`[data-testid="item-category"]`, rejectPlaceholders("catalog", "catégorie")),
		textAt(`.category`, rejectPlaceholders("catalog", "catégorie")),
		textAt(`.item-category`, rejectPlaceholders("catalog", "catégorie")),
		textAt(`nav a[href*="catalog"]`, rejectPlaceholders("catalog", "catégorie")),
	}

	conditionLocators = []locator{
		textAt(`[data-testid="item-condition"]`, labeledValue(conditionValueRegexp, "condition", "état")),
		textAt(`.condition`, labeledValue(conditionValueRegexp, "condition", "état")),
		textAt(`.item-condition`, labeledValue(conditionValueRegexp, "condition", "état")),
		textAt(`span:contains("Condition")`, labeledValue(conditionValueRegexp, "condition", "état")),
		textAt(`span:contains("État")`, labeledValue(conditionValueRegexp, "condition", "état")),
	}
)

var (
	sizeValueRegexp      = regexp.MustCompile(`(?i)(?:Size|Taille)[:\s]*([^\s]+)`)
	conditionValueRegexp = regexp.MustCompile(`(?i)(?:Condition|État)[:\s]*(.+)`)
	titleBrandRegexp     = regexp.MustCompile(`(?i)(\w+)\s+(?:Pantalon|Pants|Shirt|T-shirt|Sweater|Jacket|Shoes|Sneakers)`)
)

// ParseDocument parses an HTML body.
func ParseDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return doc, nil
}

// Extractor builds item records from listing pages. With Debug set it logs
// every candidate it tries.
type Extractor struct {
	Debug bool
}

// Extract runs the default Extractor.
func Extract(doc *goquery.Document, address string) *model.ItemRecord {
	return (&Extractor{}).Extract(doc, address)
}

// Extract builds an ItemRecord from a listing page. It returns nil when no
// title can be located; callers treat that as a cue to synthesize a record
// from the address instead.
func (e *Extractor) Extract(doc *goquery.Document, address string) *model.ItemRecord {
	if doc == nil {
		return nil
	}

	title := e.firstOf(doc, "title", titleLocators)
	if title == "" {
		log.Printf("[Extractor] No title found for %s", address)
		return nil
	}

	rec := &model.ItemRecord{
		Title:     title,
		URL:       address,
		Size:      e.firstOf(doc, "size", sizeLocators),
		Condition: e.firstOf(doc, "condition", conditionLocators),
	}

	if price, ok := e.extractPrice(doc); ok {
		rec.Price = model.NewPrice(price)
	}

	rec.Brand = e.firstOf(doc, "brand", brandLocators)
	if rec.Brand == "" {
		rec.Brand = brandFromTitle(title)
	}

	rec.Category = e.firstOf(doc, "category", categoryLocators)
	if rec.Category == "" {
		rec.Category = lastCatalogLink(doc)
	}

	return rec
}

// extractPrice runs the structured selectors first, then the euro-anchored
// page scan, then the bounded bare-number guess.
func (e *Extractor) extractPrice(doc *goquery.Document) (float64, bool) {
	for _, selector := range priceSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(sel.Text())
		v, ok := ParsePrice(text)
		e.debugf("price selector %s: %q -> %.2f (%v)", selector, text, v, ok)
		if ok {
			return v, true
		}
	}

	text := doc.Text()
	if v, ok := scanEuroAmount(text); ok {
		return v, true
	}

	if v, ok := guessBarePrice(text); ok {
		log.Printf("[Extractor] Using heuristic price guess %.2f", v)
		return v, true
	}
	return 0, false
}

func (e *Extractor) firstOf(doc *goquery.Document, field string, locators []locator) string {
	for i, loc := range locators {
		v, ok := loc(doc)
		e.debugf("%s locator %d: %q (%v)", field, i, v, ok)
		if ok {
			return v
		}
	}
	return ""
}

func (e *Extractor) debugf(format string, args ...interface{}) {
	if e.Debug {
		log.Printf("[Extractor] "+format, args...)
	}
}

func textAt(selector string, accept func(string) (string, bool)) locator {
	return func(doc *goquery.Document) (string, bool) {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			return "", false
		}
		return accept(normalizeText(sel.Text()))
	}
}

func attrAt(selector, attr string, accept func(string) (string, bool)) locator {
	return func(doc *goquery.Document) (string, bool) {
		v, ok := doc.Find(selector).First().Attr(attr)
		if !ok {
			return "", false
		}
		return accept(normalizeText(v))
	}
}

// rejectPlaceholders accepts any non-empty text other than the given
// generic labels (compared case-insensitively).
func rejectPlaceholders(placeholders ...string) func(string) (string, bool) {
	return func(text string) (string, bool) {
		if text == "" {
			return "", false
		}
		lower := strings.ToLower(text)
		for _, p := range placeholders {
			if lower == p {
				return "", false
			}
		}
		return text, true
	}
}

// labeledValue accepts text that mentions one of the labels and returns the
// value following the label, or the whole text when none follows.
func labeledValue(re *regexp.Regexp, labels ...string) func(string) (string, bool) {
	return func(text string) (string, bool) {
		lower := strings.ToLower(text)
		for _, label := range labels {
			if !strings.Contains(lower, label) {
				continue
			}
			if m := re.FindStringSubmatch(text); m != nil {
				if v := strings.TrimSpace(m[1]); v != "" {
					return v, true
				}
			}
			return text, true
		}
		return "", false
	}
}

func brandFromTitle(title string) string {
	if m := titleBrandRegexp.FindStringSubmatch(title); m != nil {
		return m[1]
	}
	return ""
}

// lastCatalogLink returns the text of the deepest breadcrumb link.
func lastCatalogLink(doc *goquery.Document) string {
	var last string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, _ := s.Attr("href"); strings.Contains(href, "/catalog/") {
			last = normalizeText(s.Text())
		}
	})
	return last
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
