package report

import (
	"encoding/json"
	"io"
	"time"

	"docrecon/internal/domain"
)

// DiscrepancyReport is the top-level JSON report document.
type DiscrepancyReport struct {
	DiscrepancyReport ReportBody `json:"discrepancy_report"`
	BonusAlerts       []string   `json:"bonus_alerts"`
}

// ReportBody holds the report sections.
type ReportBody struct {
	Metadata                 ReportMetadata             `json:"metadata"`
	ItemLevelComparison      []ItemRow                  `json:"item_level_comparison"`
	SummaryMetrics           map[string]MetricRow       `json:"summary_metrics"`
	ProductsWithMismatches   []domain.MismatchedProduct `json:"products_with_mismatches"`
	TotalQuantitiesAndValues QuantitiesAndValues        `json:"total_quantities_and_values"`
}

// ReportMetadata identifies the compared documents.
type ReportMetadata struct {
	POID               string `json:"po_id"`
	InvoiceID          string `json:"invoice_id"`
	GeneratedAt        string `json:"generated_at"`
	TotalItemsCompared int    `json:"total_items_compared"`
}

// ItemRow is one item in the JSON report.
type ItemRow struct {
	SKU                 string  `json:"SKU"`
	Description         string  `json:"Description"`
	QtyOrdered          float64 `json:"Qty_Ordered"`
	QtyInvoiced         float64 `json:"Qty_Invoiced"`
	UnitPriceOrdered    float64 `json:"Unit_Price_Ordered"`
	UnitPriceInvoiced   float64 `json:"Unit_Price_Invoiced"`
	DiscountPctOrdered  float64 `json:"Discount_Pct_Ordered"`
	DiscountPctInvoiced float64 `json:"Discount_Pct_Invoiced"`
	LineTotalOrdered    float64 `json:"Line_Total_Ordered"`
	LineTotalInvoiced   float64 `json:"Line_Total_Invoiced"`
	QuantityDiscrepancy bool    `json:"Quantity_Discrepancy"`
	PriceDiscrepancy    bool    `json:"Price_Discrepancy"`
	TotalDiscrepancy    bool    `json:"Total_Discrepancy"`
	Severity            string  `json:"Severity"`
	Reason              string  `json:"Reason"`
}

// MetricRow compares one document-level amount.
type MetricRow struct {
	PO         float64 `json:"po"`
	PI         float64 `json:"pi"`
	Difference float64 `json:"difference"`
}

// QuantitiesAndValues aggregates quantities and document totals.
type QuantitiesAndValues struct {
	TotalQuantityOrdered  float64 `json:"total_quantity_ordered"`
	TotalQuantityInvoiced float64 `json:"total_quantity_invoiced"`
	TotalValueOrdered     float64 `json:"total_value_ordered"`
	TotalValueInvoiced    float64 `json:"total_value_invoiced"`
}

// BuildDiscrepancyReport assembles the JSON report with amounts rounded to
// cents.
func BuildDiscrepancyReport(in Input) DiscrepancyReport {
	c := in.Comparison
	generatedAt := in.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}

	items := make([]ItemRow, 0, len(c.ItemLevelComparison))
	for _, d := range c.ItemLevelComparison {
		items = append(items, ItemRow{
			SKU:                 d.ItemNo,
			Description:         d.Description,
			QtyOrdered:          d.POQuantity,
			QtyInvoiced:         d.InvoiceQuantity,
			UnitPriceOrdered:    round2(d.POUnitPrice),
			UnitPriceInvoiced:   round2(d.InvoiceUnitPrice),
			DiscountPctOrdered:  round2(d.PODiscountPct),
			DiscountPctInvoiced: round2(d.InvoiceDiscountPct),
			LineTotalOrdered:    round2(d.POLineTotal),
			LineTotalInvoiced:   round2(d.InvoiceLineTotal),
			QuantityDiscrepancy: d.QuantityDiscrepancy,
			PriceDiscrepancy:    d.PriceDiscrepancy,
			TotalDiscrepancy:    d.TotalDiscrepancy,
			Severity:            string(d.Severity),
			Reason:              d.Reason,
		})
	}

	m := c.SummaryMetrics
	mismatches := c.ProductsWithMismatches
	if mismatches == nil {
		mismatches = []domain.MismatchedProduct{}
	}

	return DiscrepancyReport{
		DiscrepancyReport: ReportBody{
			Metadata: ReportMetadata{
				POID:               c.PODocumentID,
				InvoiceID:          c.InvoiceDocumentID,
				GeneratedAt:        generatedAt.Format(time.RFC3339),
				TotalItemsCompared: len(c.ItemLevelComparison),
			},
			ItemLevelComparison: items,
			SummaryMetrics: map[string]MetricRow{
				"Subtotal":       metricRow(m.SubtotalPO, m.SubtotalPI, m.SubtotalDifference),
				"Discounts":      metricRow(m.DiscountsPO, m.DiscountsPI, m.DiscountsDifference),
				"Taxable_Amount": metricRow(m.TaxableAmountPO, m.TaxableAmountPI, m.TaxableDifference),
				"Tax":            metricRow(m.TaxPO, m.TaxPI, m.TaxDifference),
				"Grand_Total":    metricRow(m.GrandTotalPO, m.GrandTotalPI, m.GrandTotalDiff),
			},
			ProductsWithMismatches: mismatches,
			TotalQuantitiesAndValues: QuantitiesAndValues{
				TotalQuantityOrdered:  c.TotalQuantityOrdered,
				TotalQuantityInvoiced: c.TotalQuantityInvoiced,
				TotalValueOrdered:     round2(c.TotalValueOrdered),
				TotalValueInvoiced:    round2(c.TotalValueInvoiced),
			},
		},
		BonusAlerts: alertMessages(in.Alerts),
	}
}

// WriteJSON writes the indented JSON report.
func WriteJSON(w io.Writer, in Input) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiscrepancyReport(in))
}

func metricRow(po, pi, diff float64) MetricRow {
	return MetricRow{PO: round2(po), PI: round2(pi), Difference: round2(diff)}
}

func alertMessages(alerts []domain.Alert) []string {
	out := make([]string, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.Message)
	}
	return out
}
