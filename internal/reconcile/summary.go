package reconcile

import (
	"fmt"
	"strings"

	"docrecon/internal/domain"
)

func buildSummaryText(c domain.DocumentComparison) string {
	m := c.SummaryMetrics
	var b strings.Builder

	b.WriteString("COMPARISON SUMMARY\n")
	b.WriteString("==================\n")
	fmt.Fprintf(&b, "Total Items Compared: %d\n", c.TotalItemsCompared)
	fmt.Fprintf(&b, "Matching Items: %d\n", c.MatchingItems)
	fmt.Fprintf(&b, "Discrepant Items: %d\n", c.DiscrepantItems)
	b.WriteString("\nFINANCIAL SUMMARY\n")
	b.WriteString("=================\n")
	fmt.Fprintf(&b, "Subtotal Difference: %s\n", signedMoney(m.SubtotalDifference))
	fmt.Fprintf(&b, "Discount Difference: %s\n", signedMoney(m.DiscountsDifference))
	fmt.Fprintf(&b, "Taxable Amount Difference: %s\n", signedMoney(m.TaxableDifference))
	fmt.Fprintf(&b, "Tax Difference: %s\n", signedMoney(m.TaxDifference))
	fmt.Fprintf(&b, "Grand Total Difference: %s\n", signedMoney(m.GrandTotalDiff))
	fmt.Fprintf(&b, "\nPO Total: %s\n", money(m.GrandTotalPO))
	fmt.Fprintf(&b, "Invoice Total: %s\n", money(m.GrandTotalPI))
	fmt.Fprintf(&b, "Net Difference: %s", signedMoney(m.GrandTotalDiff))

	return b.String()
}
