package model

import "math"

// ItemRecord is the normalized representation of a marketplace listing.
// A record is built once per analysis request and not modified afterwards.
type ItemRecord struct {
	Title     string   `json:"title"`
	Price     *float64 `json:"price"`
	Brand     string   `json:"brand"`
	Size      string   `json:"size"`
	Category  string   `json:"category"`
	Condition string   `json:"condition"`
	URL       string   `json:"url"`

	// Synthesized marks records derived from the address alone.
	Synthesized bool `json:"fallback"`
}

// HasPrice reports whether a price was located or estimated.
func (r ItemRecord) HasPrice() bool {
	return r.Price != nil
}

// PriceOrZero returns the price, or 0 when it is absent.
func (r ItemRecord) PriceOrZero() float64 {
	if r.Price == nil {
		return 0
	}
	return *r.Price
}

// NewPrice returns a pointer to v rounded to cents. Negative values are
// clamped to 0.
func NewPrice(v float64) *float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	p := RoundCents(v)
	return &p
}

// RoundCents rounds v to two fractional digits.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
