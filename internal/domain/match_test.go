package domain

import "testing"

func TestMatchMarketPrice(t *testing.T) {
	entries := []MarketPriceEntry{
		{ProductKey: "Laptop Computer", Category: "electronics"},
		{ProductKey: "laptop", Category: "generic"},
		{ProductKey: "Wireless Headphones", Category: "audio"},
	}
	cases := []struct {
		product  string
		category string
		found    bool
	}{
		{"laptop", "generic", true},
		{"Laptop Model XPS-15", "generic", true},
		{"laptop computer 15 inch", "electronics", true},
		{"headphones", "audio", true},
		{"cotton shirt", "", false},
		{"  ", "", false},
	}
	for _, tc := range cases {
		e, ok := MatchMarketPrice(entries, tc.product)
		if ok != tc.found || e.Category != tc.category {
			t.Fatalf("MatchMarketPrice(%q) = %q,%v want %q,%v", tc.product, e.Category, ok, tc.category, tc.found)
		}
	}
}
