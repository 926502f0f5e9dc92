package reconcile_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docrecon/internal/domain"
	"docrecon/internal/reconcile"
)

func TestSynthesizeAlerts_CleanComparison(t *testing.T) {
	result := reconcile.Compare(
		purchaseOrder(t, 50, lineItem(t, "A1", "Widget", 10, 5)),
		invoice(t, 50, lineItem(t, "A1", "Widget", 10, 5)),
	)

	alerts := reconcile.SynthesizeAlerts(result)

	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)
}

func TestSynthesizeAlerts_TotalVariance(t *testing.T) {
	tests := []struct {
		name      string
		poTotal   float64
		invTotal  float64
		wantAlert bool
		wantText  string
	}{
		{"five percent over", 1000, 1050, true, "PO Total: $1,000.00 vs. PI Total: $1,050.00. Difference: +$50.00 (5.00%)"},
		{"large absolute under", 100000, 99850, true, "Difference: -$150.00 (0.15%)"},
		{"within thresholds", 1000, 1020, false, ""},
		{"zero purchase order total small diff", 0, 50, false, ""},
		{"zero purchase order total large diff", 0, 150, true, "Difference: +$150.00 (0.00%)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := reconcile.SynthesizeAlerts(reconcile.Compare(purchaseOrder(t, tt.poTotal), invoice(t, tt.invTotal)))
			if !tt.wantAlert {
				assert.Empty(t, alerts)
				return
			}
			require.Len(t, alerts, 1)
			assert.Equal(t, domain.AlertLevelAlert, alerts[0].Level)
			assert.Equal(t, reconcile.RuleTotalVariance, alerts[0].Rule)
			assert.Contains(t, alerts[0].Message, "ALERT: Significant total value discrepancy detected.")
			assert.Contains(t, alerts[0].Message, tt.wantText)
		})
	}
}

func TestSynthesizeAlerts_PriceIncreaseOrder(t *testing.T) {
	result := reconcile.Compare(
		purchaseOrder(t, 100, lineItem(t, "A1", "Widget", 1, 100)),
		invoice(t, 115, lineItem(t, "A1", "Widget", 1, 115)),
	)

	alerts := reconcile.SynthesizeAlerts(result)

	require.Len(t, alerts, 3)
	assert.Equal(t, reconcile.RuleTotalVariance, alerts[0].Rule)

	assert.Equal(t, reconcile.RulePriceChange, alerts[1].Rule)
	assert.Equal(t, "A1", alerts[1].SKU)
	assert.Equal(t,
		"ALERT: SKU A1 'Widget' has a price increase of $15.00 per unit (from $100.00 to $115.00). This changes the line total by +$15.00.",
		alerts[1].Message)

	assert.Equal(t, domain.AlertLevelRecommendation, alerts[2].Level)
	assert.Equal(t,
		"RECOMMENDATION: Contact the supplier to clarify pricing discrepancies for SKUs A1 before payment. Verify if the higher prices are intentional or errors.",
		alerts[2].Message)
}

func TestSynthesizeAlerts_PriceDecrease(t *testing.T) {
	result := reconcile.Compare(
		purchaseOrder(t, 2000, lineItem(t, "K7", "Kettle", 100, 20)),
		invoice(t, 2000, lineItem(t, "K7", "Kettle", 100, 8)),
	)

	alerts := reconcile.SynthesizeAlerts(result)

	require.NotEmpty(t, alerts)
	var found bool
	for _, a := range alerts {
		if a.Rule == reconcile.RulePriceChange {
			found = true
			assert.Contains(t, a.Message, "has a price decrease of $12.00 per unit (from $20.00 to $8.00)")
			assert.Contains(t, a.Message, "This changes the line total by -$1,200.00.")
		}
	}
	assert.True(t, found)
}

func TestSynthesizeAlerts_SuspiciousPrecision(t *testing.T) {
	noisy := discountedItem(t, "D1", "Drill", 1, 10, 0, 0.12345678901234)
	tidy := discountedItem(t, "D2", "Driver", 1, 10, 0, 12.5)

	result := reconcile.Compare(
		purchaseOrder(t, 0, noisy, tidy),
		invoice(t, 0, noisy, tidy),
	)

	alerts := reconcile.SynthesizeAlerts(result)

	require.Len(t, alerts, 1)
	assert.Equal(t, domain.AlertLevelWarning, alerts[0].Level)
	assert.Equal(t, "D1", alerts[0].SKU)
	assert.Contains(t, alerts[0].Message, "extremely long decimal for Discount Amount (0.12345678901234)")
}

func TestSynthesizeAlerts_RecommendationCapsSKUs(t *testing.T) {
	var poItems, invItems []domain.LineItem
	for i := 1; i <= 7; i++ {
		sku := fmt.Sprintf("S%d", i)
		desc := fmt.Sprintf("Part %d", i)
		poItems = append(poItems, lineItem(t, sku, desc, 1, 10))
		invItems = append(invItems, lineItem(t, sku, desc, 1, 15))
	}

	alerts := reconcile.SynthesizeAlerts(reconcile.Compare(purchaseOrder(t, 70, poItems...), invoice(t, 70, invItems...)))

	var recommendations []domain.Alert
	var priceAlerts int
	for _, a := range alerts {
		switch a.Rule {
		case reconcile.RuleSupplierFollowUp:
			recommendations = append(recommendations, a)
		case reconcile.RulePriceChange:
			priceAlerts++
		}
	}
	assert.Equal(t, 7, priceAlerts)
	require.Len(t, recommendations, 1)
	assert.Contains(t, recommendations[0].Message, "SKUs S1, S2, S3, S4, S5 before payment")
}

func TestSynthesizeAlerts_MissingItems(t *testing.T) {
	result := reconcile.Compare(
		purchaseOrder(t, 0,
			lineItem(t, "A1", "Widget", 1, 0),
			lineItem(t, "B2", "Bracket", 1, 0),
		),
		invoice(t, 0),
	)

	alerts := reconcile.SynthesizeAlerts(result)

	require.NotEmpty(t, alerts)
	last := alerts[len(alerts)-1]
	assert.Equal(t, domain.AlertLevelCritical, last.Level)
	assert.Equal(t, "CRITICAL: 2 item(s) from the Purchase Order are missing in the Invoice. Review delivery documentation.", last.Message)
	assert.Equal(t, []string{last.Message}, reconcile.AlertMessages(alerts[len(alerts)-1:]))
}
