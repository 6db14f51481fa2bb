package scraper

import "testing"

func TestSynthesize(t *testing.T) {
	tests := []struct {
		address  string
		title    string
		brand    string
		category string
		price    float64
	}{
		{
			address:  "https://www.vinted.fr/items/4567890-ralph-lauren-chino-pants",
			title:    "4567890 Ralph Lauren Chino Pants",
			brand:    "Ralph Lauren",
			category: "Pants",
			price:    35.00,
		},
		{
			address:  "https://www.vinted.fr/items/123-nike-air-max-sneakers?referrer=catalog",
			title:    "123 Nike Air Max Sneakers",
			brand:    "Nike",
			category: "Shoes",
			price:    45.00,
		},
		{
			address:  "https://www.vinted.fr/items/55-zara-robe.html",
			title:    "55 Zara Robe",
			brand:    "Zara",
			category: "Dresses",
			price:    20.00,
		},
		{
			address:  "https://www.vinted.fr/items/1-ralph-lauren-jacket",
			title:    "1 Ralph Lauren Jacket",
			brand:    "Ralph Lauren",
			category: "Jackets",
			price:    25.00,
		},
		{
			address:  "https://www.vinted.fr/items/2-hm-hoodie",
			title:    "2 Hm Hoodie",
			brand:    "H&M",
			category: "Sweaters",
			price:    15.00,
		},
		{
			address:  "https://www.vinted.fr/items/9-vintage-scarf",
			title:    "9 Vintage Scarf",
			brand:    "",
			category: DefaultCategory,
			price:    25.00,
		},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			rec := Synthesize(tt.address)
			if rec == nil {
				t.Fatal("Synthesize returned nil")
			}
			if rec.Title != tt.title {
				t.Errorf("Title: got %q, want %q", rec.Title, tt.title)
			}
			if rec.Brand != tt.brand {
				t.Errorf("Brand: got %q, want %q", rec.Brand, tt.brand)
			}
			if rec.Category != tt.category {
				t.Errorf("Category: got %q, want %q", rec.Category, tt.category)
			}
			if rec.Price == nil || *rec.Price != tt.price {
				t.Errorf("Price: got %v, want %.2f", rec.Price, tt.price)
			}
			if rec.Size != DefaultSize || rec.Condition != DefaultCondition {
				t.Errorf("Size/Condition: got %q/%q", rec.Size, rec.Condition)
			}
			if !rec.Synthesized {
				t.Error("synthesized record must be flagged")
			}
			if rec.URL != tt.address {
				t.Errorf("URL: got %q", rec.URL)
			}
		})
	}
}

func TestSynthesizeRequiresItemID(t *testing.T) {
	addresses := []string{
		"https://www.vinted.fr/catalog/12-shoes",
		"https://www.vinted.fr/items/abc-shirt",
		"https://www.vinted.fr/",
		"",
	}

	for _, address := range addresses {
		if rec := Synthesize(address); rec != nil {
			t.Errorf("Synthesize(%q) = %+v; want nil", address, rec)
		}
	}
}

func TestSynthesizeIsDeterministic(t *testing.T) {
	address := "https://www.vinted.de/items/777-levis-501-jeans"

	a := Synthesize(address)
	b := Synthesize(address)
	if a == nil || b == nil {
		t.Fatal("Synthesize returned nil")
	}
	if a.Title != b.Title || a.Brand != b.Brand || a.Category != b.Category || *a.Price != *b.Price {
		t.Errorf("results differ: %+v vs %+v", a, b)
	}
	if a.Brand != "Levi's" || a.Category != "Pants" || *a.Price != 30.00 {
		t.Errorf("got brand=%q category=%q price=%.2f", a.Brand, a.Category, *a.Price)
	}
}
