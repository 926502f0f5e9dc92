package reconcile

import "docrecon/internal/domain"

// CalculateSummaryMetrics compares the document-level totals of po and inv.
func CalculateSummaryMetrics(po, inv domain.ExtractedDocument) domain.SummaryMetrics {
	p, i := po.Totals(), inv.Totals()
	return domain.SummaryMetrics{
		SubtotalPO:          p.Subtotal,
		SubtotalPI:          i.Subtotal,
		SubtotalDifference:  i.Subtotal - p.Subtotal,
		DiscountsPO:         p.TotalDiscount,
		DiscountsPI:         i.TotalDiscount,
		DiscountsDifference: i.TotalDiscount - p.TotalDiscount,
		TaxableAmountPO:     p.TaxableAmount,
		TaxableAmountPI:     i.TaxableAmount,
		TaxableDifference:   i.TaxableAmount - p.TaxableAmount,
		TaxPO:               p.Tax,
		TaxPI:               i.Tax,
		TaxDifference:       i.Tax - p.Tax,
		GrandTotalPO:        p.Total,
		GrandTotalPI:        i.Total,
		GrandTotalDiff:      i.Total - p.Total,
	}
}
