package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docrecon/internal/domain"
	"docrecon/internal/reconcile"
)

func TestParseKeyStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    reconcile.KeyStrategy
		wantErr bool
	}{
		{"", reconcile.KeyStrategyDescription, false},
		{"description", reconcile.KeyStrategyDescription, false},
		{" SKU ", reconcile.KeyStrategySKU, false},
		{"ean", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := reconcile.ParseKeyStrategy(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidKeyStrategy)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeSKU(t *testing.T) {
	assert.Equal(t, "AB12", reconcile.NormalizeSKU(" ab-12 "))
	assert.Equal(t, "AB12", reconcile.NormalizeSKU("A.B_1 2"))
	assert.Equal(t, "", reconcile.NormalizeSKU("  "))
}

func TestNormalizeDescription(t *testing.T) {
	assert.Equal(t, "steel bolt m8", reconcile.NormalizeDescription("  Steel   Bolt\tM8 "))
	// Fullwidth letters fold to ASCII.
	assert.Equal(t, "widget", reconcile.NormalizeDescription("Ｗｉｄｇｅｔ"))
}

func TestMatchItems_DescriptionStrategy(t *testing.T) {
	po := []domain.LineItem{
		lineItem(t, "A1", "Widget", 1, 1),
		lineItem(t, "B2", "Bracket", 1, 1),
	}
	inv := []domain.LineItem{
		lineItem(t, "Z9", "WIDGET", 1, 1),
		lineItem(t, "C3", "Clamp", 1, 1),
	}

	pairs := reconcile.MatchItems(po, inv, reconcile.KeyStrategyDescription)

	require.Len(t, pairs, 3)
	assert.Equal(t, []string{"bracket", "clamp", "widget"}, pairKeys(pairs))

	assert.NotNil(t, pairs[0].PO)
	assert.Nil(t, pairs[0].Invoice)
	assert.Nil(t, pairs[1].PO)
	assert.NotNil(t, pairs[1].Invoice)
	require.NotNil(t, pairs[2].PO)
	require.NotNil(t, pairs[2].Invoice)
	assert.Equal(t, "A1", pairs[2].PO.ItemNo())
	assert.Equal(t, "Z9", pairs[2].Invoice.ItemNo())
}

func TestMatchItems_SKUStrategy(t *testing.T) {
	t.Run("pairs by normalized sku", func(t *testing.T) {
		po := []domain.LineItem{lineItem(t, "ab-12", "Hex bolt", 1, 1)}
		inv := []domain.LineItem{lineItem(t, "AB12", "Bolt, hex", 1, 1)}

		pairs := reconcile.MatchItems(po, inv, reconcile.KeyStrategySKU)

		require.Len(t, pairs, 1)
		assert.Equal(t, "AB12", pairs[0].Key)
	})

	t.Run("empty sku falls back to description", func(t *testing.T) {
		po := []domain.LineItem{lineItem(t, "", "Freight", 1, 20)}
		inv := []domain.LineItem{lineItem(t, "", "freight", 1, 20)}

		pairs := reconcile.MatchItems(po, inv, reconcile.KeyStrategySKU)

		require.Len(t, pairs, 1)
		assert.Equal(t, "freight", pairs[0].Key)
	})

	t.Run("colliding sku falls back to description in both documents", func(t *testing.T) {
		po := []domain.LineItem{
			lineItem(t, "MISC", "Packing", 1, 5),
			lineItem(t, "MISC", "Labels", 1, 2),
		}
		inv := []domain.LineItem{
			lineItem(t, "MISC", "Labels", 1, 2),
		}

		pairs := reconcile.MatchItems(po, inv, reconcile.KeyStrategySKU)

		assert.Equal(t, []string{"labels", "packing"}, pairKeys(pairs))
		assert.NotNil(t, pairs[0].Invoice)
		assert.Nil(t, pairs[1].Invoice)
	})
}

func TestMatchItems_DuplicateKeysKeepEveryItem(t *testing.T) {
	t.Run("repeated description", func(t *testing.T) {
		po := []domain.LineItem{
			lineItem(t, "", "Cable", 1, 3),
			lineItem(t, "", "Cable", 2, 3),
		}
		inv := []domain.LineItem{
			lineItem(t, "", "cable", 1, 3),
		}

		pairs := reconcile.MatchItems(po, inv, reconcile.KeyStrategyDescription)

		require.Len(t, pairs, 2)
		assert.Equal(t, []string{"cable", "cable#2"}, pairKeys(pairs))
		assert.NotNil(t, pairs[0].Invoice)
		assert.Equal(t, 2.0, pairs[1].PO.Quantity())
		assert.Nil(t, pairs[1].Invoice)
	})

	t.Run("suffix skips a key already used by another item", func(t *testing.T) {
		po := []domain.LineItem{
			lineItem(t, "", "Widget", 1, 5),
			lineItem(t, "", "Widget#2", 2, 5),
			lineItem(t, "", "Widget", 3, 5),
		}

		pairs := reconcile.MatchItems(po, nil, reconcile.KeyStrategyDescription)

		require.Len(t, pairs, 3)
		assert.Equal(t, []string{"widget", "widget#2", "widget#3"}, pairKeys(pairs))
		quantities := map[string]float64{}
		for _, p := range pairs {
			require.NotNil(t, p.PO)
			assert.Nil(t, p.Invoice)
			quantities[p.Key] = p.PO.Quantity()
		}
		assert.Equal(t, map[string]float64{"widget": 1, "widget#2": 2, "widget#3": 3}, quantities)
	})
}

func TestMatchItems_Empty(t *testing.T) {
	assert.Empty(t, reconcile.MatchItems(nil, nil, reconcile.KeyStrategySKU))
}

func pairKeys(pairs []reconcile.MatchedPair) []string {
	keys := make([]string, len(pairs))
	for i, p := range pairs {
		keys[i] = p.Key
	}
	return keys
}
