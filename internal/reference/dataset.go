// Package reference holds the immutable set of previously sold items the
// matcher compares listings against.
package reference

import "vintelli-api/internal/model"

// Dataset is a read-only list of reference entries. It is safe for
// concurrent use because nothing mutates it after construction.
type Dataset struct {
	entries []model.ReferenceEntry
}

// NewDataset copies entries into a new Dataset.
func NewDataset(entries []model.ReferenceEntry) *Dataset {
	cp := make([]model.ReferenceEntry, len(entries))
	copy(cp, entries)
	return &Dataset{entries: cp}
}

// Entries returns a copy of the entries in dataset order.
func (d *Dataset) Entries() []model.ReferenceEntry {
	if d == nil {
		return []model.ReferenceEntry{}
	}
	cp := make([]model.ReferenceEntry, len(d.entries))
	copy(cp, d.entries)
	return cp
}

// Len returns the number of entries.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Builtin returns the dataset compiled into the binary.
func Builtin() *Dataset {
	return NewDataset(builtinEntries)
}

// BuiltinEntries returns a copy of the compiled-in entries.
func BuiltinEntries() []model.ReferenceEntry {
	return Builtin().Entries()
}

var builtinEntries = []model.ReferenceEntry{
	{Title: "Nike Air Max 90 Sneakers", Brand: "Nike", Category: "Shoes", OriginalPrice: 45, SoldPrice: 85, DaysToSell: 3, Condition: "Used - Good", Size: "42"},
	{Title: "Levi's 501 Original Jeans", Brand: "Levi's", Category: "Jeans", OriginalPrice: 25, SoldPrice: 55, DaysToSell: 7, Condition: "Used - Good", Size: "32/32"},
	{Title: "Zara Blazer Jacket", Brand: "Zara", Category: "Blazers", OriginalPrice: 35, SoldPrice: 65, DaysToSell: 12, Condition: "Used - Very Good", Size: "M"},
	{Title: "Adidas Ultraboost Running Shoes", Brand: "Adidas", Category: "Shoes", OriginalPrice: 60, SoldPrice: 120, DaysToSell: 5, Condition: "Used - Excellent", Size: "41"},
	{Title: "H&M Summer Dress", Brand: "H&M", Category: "Dresses", OriginalPrice: 15, SoldPrice: 28, DaysToSell: 15, Condition: "Used - Good", Size: "S"},
	{Title: "Uniqlo Cashmere Sweater", Brand: "Uniqlo", Category: "Sweaters", OriginalPrice: 20, SoldPrice: 45, DaysToSell: 8, Condition: "Used - Very Good", Size: "L"},
	{Title: "Converse Chuck Taylor All Star", Brand: "Converse", Category: "Shoes", OriginalPrice: 30, SoldPrice: 55, DaysToSell: 4, Condition: "Used - Good", Size: "39"},
	{Title: "Mango Leather Bag", Brand: "Mango", Category: "Bags", OriginalPrice: 40, SoldPrice: 75, DaysToSell: 10, Condition: "Used - Very Good", Size: "One Size"},
	{Title: "Pull&Bear Denim Jacket", Brand: "Pull&Bear", Category: "Jackets", OriginalPrice: 25, SoldPrice: 48, DaysToSell: 6, Condition: "Used - Good", Size: "M"},
	{Title: "Bershka Crop Top", Brand: "Bershka", Category: "Tops", OriginalPrice: 8, SoldPrice: 18, DaysToSell: 20, Condition: "Used - Good", Size: "S"},
	{Title: "Ralph Lauren Polo Shirt", Brand: "Ralph Lauren", Category: "Shirts", OriginalPrice: 25, SoldPrice: 45, DaysToSell: 5, Condition: "Used - Very Good", Size: "M"},
	{Title: "Ralph Lauren Chino Pants", Brand: "Ralph Lauren", Category: "Pants", OriginalPrice: 30, SoldPrice: 55, DaysToSell: 8, Condition: "Used - Good", Size: "32/32"},
	{Title: "Ralph Lauren Sweater", Brand: "Ralph Lauren", Category: "Sweaters", OriginalPrice: 35, SoldPrice: 65, DaysToSell: 6, Condition: "Used - Excellent", Size: "L"},
}
