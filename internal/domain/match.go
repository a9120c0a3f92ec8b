package domain

import "strings"

// MatchMarketPrice picks the entry for product: an exact key first, then the
// first entry whose key contains, or is contained in, the product name
// (case-insensitive).
func MatchMarketPrice(entries []MarketPriceEntry, product string) (MarketPriceEntry, bool) {
	for _, e := range entries {
		if e.ProductKey == product {
			return e, true
		}
	}
	needle := strings.ToLower(strings.TrimSpace(product))
	if needle == "" {
		return MarketPriceEntry{}, false
	}
	for _, e := range entries {
		key := strings.ToLower(e.ProductKey)
		if key == "" {
			continue
		}
		if strings.Contains(needle, key) || strings.Contains(key, needle) {
			return e, true
		}
	}
	return MarketPriceEntry{}, false
}
