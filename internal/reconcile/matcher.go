package reconcile

import (
	"sort"

	"docrecon/internal/domain"
)

// MatchedPair joins the purchase order and invoice items sharing a key.
// Exactly one side is nil for unmatched items.
type MatchedPair struct {
	Key     string
	PO      *domain.LineItem
	Invoice *domain.LineItem
}

// MatchItems pairs po and inv items by key and returns the pairs sorted by
// key ascending. Every input item appears in exactly one pair.
func MatchItems(po, inv []domain.LineItem, strategy KeyStrategy) []MatchedPair {
	var ambiguous map[string]bool
	if strategy == KeyStrategySKU {
		ambiguous = ambiguousSKUs(po, inv)
	}

	byKey := make(map[string]*MatchedPair, len(po)+len(inv))
	pairFor := func(key string) *MatchedPair {
		p, ok := byKey[key]
		if !ok {
			p = &MatchedPair{Key: key}
			byKey[key] = p
		}
		return p
	}

	for i, key := range assignKeys(po, strategy, ambiguous) {
		item := po[i]
		pairFor(key).PO = &item
	}
	for i, key := range assignKeys(inv, strategy, ambiguous) {
		item := inv[i]
		pairFor(key).Invoice = &item
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]MatchedPair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, *byKey[k])
	}
	return pairs
}
