package domain

import (
	"encoding/json"
	"math"
)

// ItemDiscrepancy is the classified comparison of one matched key. Deltas are
// invoice minus purchase order. Variance percentages are +Inf/-Inf when the
// purchase order value is zero and the delta is not.
type ItemDiscrepancy struct {
	Key         string `json:"key"`
	ItemNo      string `json:"item_no"`
	Description string `json:"description"`

	POQuantity            float64 `json:"po_quantity"`
	InvoiceQuantity       float64 `json:"invoice_quantity"`
	POUnitPrice           float64 `json:"po_unit_price"`
	InvoiceUnitPrice      float64 `json:"invoice_unit_price"`
	PODiscountPct         float64 `json:"po_discount_pct"`
	InvoiceDiscountPct    float64 `json:"invoice_discount_pct"`
	PODiscountAmount      float64 `json:"po_discount_amount"`
	InvoiceDiscountAmount float64 `json:"invoice_discount_amount"`
	POLineTotal           float64 `json:"po_line_total"`
	InvoiceLineTotal      float64 `json:"invoice_line_total"`

	QuantityDiscrepancy bool `json:"quantity_discrepancy"`
	PriceDiscrepancy    bool `json:"price_discrepancy"`
	TotalDiscrepancy    bool `json:"total_discrepancy"`
	DiscountDiscrepancy bool `json:"discount_discrepancy"`

	QuantityDiff        float64 `json:"quantity_diff"`
	QuantityVariancePct float64 `json:"quantity_variance_pct"`
	PriceDiff           float64 `json:"price_diff"`
	PriceVariancePct    float64 `json:"price_variance_pct"`
	TotalDiff           float64 `json:"total_diff"`
	DiscountDiff        float64 `json:"discount_diff"`

	Status   DiscrepancyStatus `json:"status"`
	Severity Severity          `json:"severity"`
	Reason   string            `json:"reason"`
}

// HasDiscrepancy reports whether any flag is set.
func (d ItemDiscrepancy) HasDiscrepancy() bool {
	return d.QuantityDiscrepancy || d.PriceDiscrepancy || d.TotalDiscrepancy || d.DiscountDiscrepancy
}

type itemDiscrepancyAlias ItemDiscrepancy

type itemDiscrepancyJSON struct {
	itemDiscrepancyAlias
	QuantityVariancePct       *float64 `json:"quantity_variance_pct"`
	PriceVariancePct          *float64 `json:"price_variance_pct"`
	QuantityVarianceUndefined bool     `json:"quantity_variance_undefined"`
	PriceVarianceUndefined    bool     `json:"price_variance_undefined"`
}

// MarshalJSON writes non-finite variances as null and flags them as undefined.
func (d ItemDiscrepancy) MarshalJSON() ([]byte, error) {
	out := itemDiscrepancyJSON{itemDiscrepancyAlias: itemDiscrepancyAlias(d)}
	out.QuantityVariancePct, out.QuantityVarianceUndefined = finiteOrNil(d.QuantityVariancePct)
	out.PriceVariancePct, out.PriceVarianceUndefined = finiteOrNil(d.PriceVariancePct)
	return json.Marshal(out)
}

// UnmarshalJSON restores infinite variances from the undefined flags, using
// the sign of the matching delta.
func (d *ItemDiscrepancy) UnmarshalJSON(data []byte) error {
	var in itemDiscrepancyJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*d = ItemDiscrepancy(in.itemDiscrepancyAlias)
	d.QuantityVariancePct = restoreVariance(in.QuantityVariancePct, in.QuantityVarianceUndefined, d.QuantityDiff)
	d.PriceVariancePct = restoreVariance(in.PriceVariancePct, in.PriceVarianceUndefined, d.PriceDiff)
	return nil
}

func finiteOrNil(v float64) (*float64, bool) {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil, true
	}
	return &v, false
}

func restoreVariance(v *float64, undefined bool, diff float64) float64 {
	if undefined {
		if diff < 0 {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	if v == nil {
		return 0
	}
	return *v
}

// SummaryMetrics compares document-level totals. Differences are invoice
// minus purchase order.
type SummaryMetrics struct {
	SubtotalPO          float64 `json:"subtotal_po"`
	SubtotalPI          float64 `json:"subtotal_pi"`
	SubtotalDifference  float64 `json:"subtotal_difference"`
	DiscountsPO         float64 `json:"discounts_po"`
	DiscountsPI         float64 `json:"discounts_pi"`
	DiscountsDifference float64 `json:"discounts_difference"`
	TaxableAmountPO     float64 `json:"taxable_amount_po"`
	TaxableAmountPI     float64 `json:"taxable_amount_pi"`
	TaxableDifference   float64 `json:"taxable_difference"`
	TaxPO               float64 `json:"tax_po"`
	TaxPI               float64 `json:"tax_pi"`
	TaxDifference       float64 `json:"tax_difference"`
	GrandTotalPO        float64 `json:"grand_total_po"`
	GrandTotalPI        float64 `json:"grand_total_pi"`
	GrandTotalDiff      float64 `json:"grand_total_difference"`
}

// MismatchedProduct lists a non-matching item in the comparison digest.
type MismatchedProduct struct {
	SKU         string `json:"SKU"`
	Description string `json:"Description"`
	Reason      string `json:"Reason"`
}

// DocumentComparison is the full result of reconciling a purchase order with
// an invoice.
type DocumentComparison struct {
	PODocumentID      string `json:"po_document_id"`
	InvoiceDocumentID string `json:"invoice_document_id"`
	KeyStrategy       string `json:"key_strategy"`

	TotalItemsCompared int `json:"total_items_compared"`
	MatchingItems      int `json:"matching_items"`
	DiscrepantItems    int `json:"discrepant_items"`

	SummaryMetrics         SummaryMetrics      `json:"summary_metrics"`
	ItemLevelComparison    []ItemDiscrepancy   `json:"item_level_comparison"`
	ProductsWithMismatches []MismatchedProduct `json:"products_with_mismatches"`

	TotalQuantityOrdered  float64 `json:"total_quantity_ordered"`
	TotalQuantityInvoiced float64 `json:"total_quantity_invoiced"`
	TotalValueOrdered     float64 `json:"total_value_ordered"`
	TotalValueInvoiced    float64 `json:"total_value_invoiced"`

	SummaryText string `json:"summary_text"`
}

// HighestSeverity returns the most severe item classification.
func (c DocumentComparison) HighestSeverity() Severity {
	highest := SeverityNone
	for _, item := range c.ItemLevelComparison {
		if item.Severity.Rank() > highest.Rank() {
			highest = item.Severity
		}
	}
	return highest
}

// Alert is a human-readable finding derived from a comparison.
type Alert struct {
	Level   AlertLevel `json:"level"`
	Rule    string     `json:"rule"`
	SKU     string     `json:"sku,omitempty"`
	Message string     `json:"message"`
}

func (a Alert) String() string {
	return a.Message
}
