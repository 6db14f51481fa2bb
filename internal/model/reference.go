package model

// ReferenceEntry is a previously sold item used for comparison.
type ReferenceEntry struct {
	Title         string  `json:"title"`
	Brand         string  `json:"brand"`
	Category      string  `json:"category"`
	OriginalPrice float64 `json:"original_price"`
	SoldPrice     float64 `json:"sold_price"`
	DaysToSell    int     `json:"days_to_sell"`
	Condition     string  `json:"condition"`
	Size          string  `json:"size"`
}

// Key returns the (brand, title) identity used for de-duplication.
func (e ReferenceEntry) Key() EntryKey {
	return EntryKey{Brand: e.Brand, Title: e.Title}
}

// EntryKey identifies a reference entry by brand and title.
type EntryKey struct {
	Brand string
	Title string
}

func (k EntryKey) String() string {
	return k.Brand + " / " + k.Title
}

// Valid reports whether the entry satisfies the dataset invariants.
func (e ReferenceEntry) Valid() bool {
	return e.SoldPrice >= 0 && e.DaysToSell >= 0
}
