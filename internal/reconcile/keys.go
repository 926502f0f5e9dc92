package reconcile

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"docrecon/internal/domain"
)

// KeyStrategy selects how line items are reduced to the key used for
// pairing. A single strategy applies to both documents of a run.
type KeyStrategy string

const (
	// KeyStrategyDescription keys items by their lower-cased description.
	KeyStrategyDescription KeyStrategy = "description"
	// KeyStrategySKU keys items by normalized item number, falling back to
	// the description key when the number is empty or not unique.
	KeyStrategySKU KeyStrategy = "sku"
)

// DefaultKeyStrategy is used when none is configured.
const DefaultKeyStrategy = KeyStrategyDescription

// ParseKeyStrategy accepts "description" or "sku" (case-insensitive). An
// empty string yields DefaultKeyStrategy.
func ParseKeyStrategy(s string) (KeyStrategy, error) {
	switch KeyStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultKeyStrategy, nil
	case KeyStrategyDescription:
		return KeyStrategyDescription, nil
	case KeyStrategySKU:
		return KeyStrategySKU, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidKeyStrategy, s)
}

var skuStripper = strings.NewReplacer("-", "", "_", "", ".", "", " ", "")

// NormalizeSKU uppercases an item number and strips separators.
func NormalizeSKU(s string) string {
	return skuStripper.Replace(strings.ToUpper(strings.TrimSpace(s)))
}

// NormalizeDescription folds compatibility characters, collapses whitespace
// and lower-cases the description.
func NormalizeDescription(s string) string {
	folded := strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
	return cases.Lower(language.Und).String(folded)
}

// assignKeys returns one key per item, in item order. Keys are unique within
// the returned slice.
func assignKeys(items []domain.LineItem, strategy KeyStrategy, ambiguousSKUs map[string]bool) []string {
	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = baseKey(item, strategy, ambiguousSKUs)
	}

	// Base keys are reserved up front so a generated suffix never collides
	// with an item whose own key already looks suffixed.
	taken := make(map[string]bool, len(keys))
	for _, k := range keys {
		taken[k] = true
	}

	first := make(map[string]bool, len(keys))
	next := make(map[string]int, len(keys))
	for i, k := range keys {
		if !first[k] {
			first[k] = true
			continue
		}
		n := next[k]
		if n < 2 {
			n = 2
		}
		candidate := fmt.Sprintf("%s#%d", k, n)
		for taken[candidate] {
			n++
			candidate = fmt.Sprintf("%s#%d", k, n)
		}
		taken[candidate] = true
		next[k] = n + 1
		keys[i] = candidate
	}
	return keys
}

func baseKey(item domain.LineItem, strategy KeyStrategy, ambiguousSKUs map[string]bool) string {
	desc := NormalizeDescription(item.Description())
	sku := NormalizeSKU(item.ItemNo())

	if strategy == KeyStrategySKU && sku != "" && !ambiguousSKUs[sku] {
		return sku
	}
	if desc == "" {
		return sku
	}
	return desc
}

// ambiguousSKUs finds normalized item numbers that occur more than once in
// either document. Items carrying them are keyed by description instead.
func ambiguousSKUs(docs ...[]domain.LineItem) map[string]bool {
	out := make(map[string]bool)
	for _, items := range docs {
		counts := make(map[string]int, len(items))
		for _, item := range items {
			if sku := NormalizeSKU(item.ItemNo()); sku != "" {
				counts[sku]++
			}
		}
		for sku, n := range counts {
			if n > 1 {
				out[sku] = true
			}
		}
	}
	return out
}
