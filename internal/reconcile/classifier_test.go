package reconcile_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"docrecon/internal/domain"
	"docrecon/internal/reconcile"
)

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		name         string
		po           domain.LineItem
		inv          domain.LineItem
		wantStatus   domain.DiscrepancyStatus
		wantSeverity domain.Severity
		wantReason   string
	}{
		{
			name:         "identical",
			po:           lineItem(t, "A1", "Widget", 10, 5),
			inv:          lineItem(t, "A1", "Widget", 10, 5),
			wantStatus:   domain.StatusMatch,
			wantSeverity: domain.SeverityNone,
			wantReason:   "Perfect match",
		},
		{
			name:         "price wins over quantity",
			po:           lineItem(t, "A1", "Widget", 10, 5),
			inv:          lineItem(t, "A1", "Widget", 11, 6),
			wantStatus:   domain.StatusPriceMismatch,
			wantSeverity: domain.SeverityHigh,
			wantReason:   "Quantity mismatch, Unit price mismatch",
		},
		{
			name:         "price above twenty percent is critical",
			po:           lineItem(t, "A1", "Widget", 10, 4),
			inv:          lineItem(t, "A1", "Widget", 10, 5),
			wantStatus:   domain.StatusPriceMismatch,
			wantSeverity: domain.SeverityCritical,
			wantReason:   "Unit price mismatch",
		},
		{
			name:         "small quantity change is medium",
			po:           lineItem(t, "A1", "Widget", 100, 5),
			inv:          lineItem(t, "A1", "Widget", 105, 5),
			wantStatus:   domain.StatusQuantityMismatch,
			wantSeverity: domain.SeverityMedium,
			wantReason:   "Quantity mismatch",
		},
		{
			name: "supplied total differs with same quantity and price",
			po:   lineItem(t, "A1", "Widget", 10, 5),
			inv: func() domain.LineItem {
				item, _ := domain.NewLineItem(domain.LineItemInput{ItemNo: "A1", Description: "Widget", Quantity: 10, UnitPrice: 5, TotalPrice: 50.5})
				return item
			}(),
			wantStatus:   domain.StatusTotalMismatch,
			wantSeverity: domain.SeverityMedium,
			wantReason:   "Line total mismatch",
		},
		{
			name:         "discount change drives total",
			po:           discountedItem(t, "A1", "Widget", 10, 10, 10, 0),
			inv:          discountedItem(t, "A1", "Widget", 10, 10, 5, 0),
			wantStatus:   domain.StatusTotalMismatch,
			wantSeverity: domain.SeverityMedium,
			wantReason:   "Discount percentage mismatch leading to different line total",
		},
		{
			name:         "total within a cent matches",
			po:           lineItem(t, "A1", "Widget", 3, 3.333),
			inv:          lineItem(t, "A1", "Widget", 3, 3.333),
			wantStatus:   domain.StatusMatch,
			wantSeverity: domain.SeverityNone,
			wantReason:   "Perfect match",
		},
	}

	c := reconcile.NewClassifier(reconcile.DefaultTolerances(), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := c.Classify("widget", &tt.po, &tt.inv)
			assert.Equal(t, tt.wantStatus, d.Status)
			assert.Equal(t, tt.wantSeverity, d.Severity)
			assert.Equal(t, tt.wantReason, d.Reason)
			assert.Equal(t, "widget", d.Key)
		})
	}
}

func TestClassifier_LineTotalFallbackIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	c := reconcile.NewClassifier(reconcile.DefaultTolerances(), zap.New(core))

	po := lineItem(t, "A1", "Widget", 10, 5)
	inv, err := domain.NewLineItem(domain.LineItemInput{ItemNo: "A1", Description: "Widget", Quantity: 10, UnitPrice: 5, TotalPrice: 50.5})
	require.NoError(t, err)

	d := c.Classify("widget", &po, &inv)
	assert.Equal(t, "Line total mismatch", d.Reason)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "widget", entry.ContextMap()["key"])
	assert.Equal(t, string(domain.StatusTotalMismatch), entry.ContextMap()["status"])

	matched := c.Classify("widget", &po, &po)
	assert.Equal(t, "Perfect match", matched.Reason)
	assert.Equal(t, 1, logs.Len())
}

func TestClassifier_ToleranceBoundary(t *testing.T) {
	po := lineItem(t, "A1", "Widget", 10, 4)
	inv := lineItem(t, "A1", "Widget", 10, 5)

	atBoundary := reconcile.NewClassifier(reconcile.Tolerances{QuantityPct: 0.01, PricePct: 25}, nil).Classify("widget", &po, &inv)
	assert.Equal(t, 25.0, atBoundary.PriceVariancePct)
	assert.False(t, atBoundary.PriceDiscrepancy)

	justBelow := reconcile.NewClassifier(reconcile.Tolerances{QuantityPct: 0.01, PricePct: 24.99}, nil).Classify("widget", &po, &inv)
	assert.True(t, justBelow.PriceDiscrepancy)
	assert.Equal(t, domain.StatusPriceMismatch, justBelow.Status)
}

func TestClassifier_ZeroBaseVariance(t *testing.T) {
	c := reconcile.NewClassifier(reconcile.DefaultTolerances(), nil)

	t.Run("both zero", func(t *testing.T) {
		po := lineItem(t, "A1", "Sample", 0, 0)
		inv := lineItem(t, "A1", "Sample", 0, 0)
		d := c.Classify("sample", &po, &inv)
		assert.Equal(t, 0.0, d.QuantityVariancePct)
		assert.Equal(t, 0.0, d.PriceVariancePct)
		assert.Equal(t, domain.StatusMatch, d.Status)
	})

	t.Run("free item becomes priced", func(t *testing.T) {
		po := lineItem(t, "A1", "Sample", 1, 0)
		inv := lineItem(t, "A1", "Sample", 1, 2)
		d := c.Classify("sample", &po, &inv)
		assert.True(t, math.IsInf(d.PriceVariancePct, 1))
		assert.True(t, d.PriceDiscrepancy)
		assert.Equal(t, domain.SeverityCritical, d.Severity)
	})
}

func TestClassifier_UnmatchedSides(t *testing.T) {
	c := reconcile.NewClassifier(reconcile.DefaultTolerances(), nil)
	item := discountedItem(t, "B2", "Bracket", 5, 10, 10, 0)

	missing := c.Classify("bracket", &item, nil)
	assert.Equal(t, domain.StatusMissingItem, missing.Status)
	assert.Equal(t, domain.SeverityCritical, missing.Severity)
	assert.True(t, missing.QuantityDiscrepancy)
	assert.True(t, missing.PriceDiscrepancy)
	assert.True(t, missing.TotalDiscrepancy)
	assert.False(t, missing.DiscountDiscrepancy)
	assert.Equal(t, "B2", missing.ItemNo)
	assert.Equal(t, 5.0, missing.PODiscountAmount)
	assert.Zero(t, missing.InvoiceLineTotal)

	extra := c.Classify("bracket", nil, &item)
	assert.Equal(t, domain.StatusExtraItem, extra.Status)
	assert.Equal(t, domain.SeverityHigh, extra.Severity)
	assert.Equal(t, 45.0, extra.InvoiceLineTotal)
	assert.Zero(t, extra.POLineTotal)
	assert.Equal(t, 45.0, extra.TotalDiff)
}

func TestToleranceOverrides_Apply(t *testing.T) {
	five := 5.0
	base := reconcile.DefaultTolerances()

	tests := []struct {
		name string
		o    *reconcile.ToleranceOverrides
		want reconcile.Tolerances
	}{
		{"nil keeps base", nil, base},
		{"empty keeps base", &reconcile.ToleranceOverrides{}, base},
		{"quantity only", &reconcile.ToleranceOverrides{QuantityPct: &five}, reconcile.Tolerances{QuantityPct: 5, PricePct: 0.01}},
		{"price only", &reconcile.ToleranceOverrides{PricePct: &five}, reconcile.Tolerances{QuantityPct: 0.01, PricePct: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.o.Apply(base))
		})
	}
}
