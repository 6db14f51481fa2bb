package scraper

import (
	"regexp"
	"strconv"
	"strings"
)

// Price patterns in priority order. The first group is the amount.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`€(\d+(?:[.,]\d+)?)`),
	regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*€`),
	regexp.MustCompile(`(\d+(?:[.,]\d+)?)`),
	regexp.MustCompile(`(\d+)\s*EUR`),
	regexp.MustCompile(`(\d+)\s*euro`),
}

var (
	// euroAmountRegexp finds symbol-anchored amounts anywhere in page text.
	euroAmountRegexp = regexp.MustCompile(`€\s*(\d+(?:[.,]\d+)?)`)
	// bareNumberRegexp finds short numeric tokens for the last-resort guess.
	bareNumberRegexp = regexp.MustCompile(`\d{1,3}(?:[.,]\d{2})?`)
)

// Bounds for the bare-number price guess, inclusive.
const (
	minGuessPrice = 5
	maxGuessPrice = 500
)

// ParsePrice extracts a price from a fragment of text, trying each pattern
// in priority order. Comma decimal separators are normalized to periods.
func ParsePrice(text string) (float64, bool) {
	for _, re := range pricePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v, ok := normalizeAmount(m[1]); ok {
			return v, true
		}
	}
	return 0, false
}

// scanEuroAmount returns the first euro-prefixed amount in text.
func scanEuroAmount(text string) (float64, bool) {
	for _, m := range euroAmountRegexp.FindAllStringSubmatch(text, -1) {
		if v, ok := normalizeAmount(m[1]); ok {
			return v, true
		}
	}
	return 0, false
}

// guessBarePrice returns the first bare number in text whose value lies in
// [minGuessPrice, maxGuessPrice].
func guessBarePrice(text string) (float64, bool) {
	for _, tok := range bareNumberRegexp.FindAllString(text, -1) {
		v, ok := normalizeAmount(tok)
		if !ok {
			continue
		}
		if v >= minGuessPrice && v <= maxGuessPrice {
			return v, true
		}
	}
	return 0, false
}

func normalizeAmount(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
