package reconcile

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"docrecon/internal/domain"
)

// Alert rule identifiers, in evaluation order.
const (
	RuleTotalVariance     = "total_variance"
	RulePriceChange       = "price_change"
	RuleSuspiciousDecimal = "suspicious_precision"
	RuleSupplierFollowUp  = "supplier_follow_up"
	RuleMissingItems      = "missing_items"
)

const (
	totalVarianceAbs    = 100.0
	totalVariancePct    = 3.0
	itemPriceDiffAbs    = 10.0
	maxDiscountDecimals = 10
	maxRecommendedSKUs  = 5
)

// SynthesizeAlerts derives ordered review alerts from a comparison.
func SynthesizeAlerts(c domain.DocumentComparison) []domain.Alert {
	alerts := []domain.Alert{}
	alerts = append(alerts, totalVarianceAlerts(c.SummaryMetrics)...)
	alerts = append(alerts, priceChangeAlerts(c.ItemLevelComparison)...)
	alerts = append(alerts, suspiciousPrecisionAlerts(c.ItemLevelComparison)...)
	alerts = append(alerts, supplierFollowUpAlerts(c.ItemLevelComparison)...)
	alerts = append(alerts, missingItemAlerts(c.ItemLevelComparison)...)
	return alerts
}

// AlertMessages returns the message text of each alert.
func AlertMessages(alerts []domain.Alert) []string {
	out := make([]string, len(alerts))
	for i, a := range alerts {
		out[i] = a.Message
	}
	return out
}

func totalVarianceAlerts(m domain.SummaryMetrics) []domain.Alert {
	diff := m.GrandTotalDiff
	var pct float64
	if m.GrandTotalPO != 0 {
		pct = math.Abs(diff / m.GrandTotalPO * 100)
	}
	if math.Abs(diff) <= totalVarianceAbs && pct <= totalVariancePct {
		return nil
	}
	return []domain.Alert{{
		Level: domain.AlertLevelAlert,
		Rule:  RuleTotalVariance,
		Message: fmt.Sprintf(
			"ALERT: Significant total value discrepancy detected. PO Total: %s vs. PI Total: %s. Difference: %s (%s). Please review.",
			money(m.GrandTotalPO), money(m.GrandTotalPI), signedMoney(diff), percent(pct),
		),
	}}
}

func priceChangeAlerts(items []domain.ItemDiscrepancy) []domain.Alert {
	var alerts []domain.Alert
	for _, d := range items {
		if !d.QuantityDiscrepancy && !d.PriceDiscrepancy {
			continue
		}
		if d.Severity != domain.SeverityCritical && math.Abs(d.PriceDiff) <= itemPriceDiffAbs {
			continue
		}

		var change string
		switch {
		case d.PriceDiff > 0:
			change = fmt.Sprintf("has a price increase of %s per unit (from %s to %s)",
				money(d.PriceDiff), money(d.POUnitPrice), money(d.InvoiceUnitPrice))
		case d.PriceDiff < 0:
			change = fmt.Sprintf("has a price decrease of %s per unit (from %s to %s)",
				money(-d.PriceDiff), money(d.POUnitPrice), money(d.InvoiceUnitPrice))
		default:
			change = fmt.Sprintf("has an unchanged unit price of %s", money(d.POUnitPrice))
		}

		alerts = append(alerts, domain.Alert{
			Level: domain.AlertLevelAlert,
			Rule:  RulePriceChange,
			SKU:   skuOf(d),
			Message: fmt.Sprintf("ALERT: SKU %s '%s' %s. This changes the line total by %s.",
				skuOf(d), d.Description, change, signedMoney(d.TotalDiff)),
		})
	}
	return alerts
}

func suspiciousPrecisionAlerts(items []domain.ItemDiscrepancy) []domain.Alert {
	var alerts []domain.Alert
	for _, d := range items {
		amount := d.InvoiceDiscountAmount
		if amount <= 0 || decimalPlaces(amount) <= maxDiscountDecimals {
			continue
		}
		alerts = append(alerts, domain.Alert{
			Level: domain.AlertLevelWarning,
			Rule:  RuleSuspiciousDecimal,
			SKU:   skuOf(d),
			Message: fmt.Sprintf(
				"WARNING: The Proforma Invoice for SKU %s '%s' shows an extremely long decimal for Discount Amount (%s). This may indicate a rounding or calculation error in the invoice system.",
				skuOf(d), d.Description, strconv.FormatFloat(amount, 'f', -1, 64),
			),
		})
	}
	return alerts
}

func supplierFollowUpAlerts(items []domain.ItemDiscrepancy) []domain.Alert {
	var skus []string
	for _, d := range items {
		if !d.PriceDiscrepancy {
			continue
		}
		if d.Severity != domain.SeverityCritical && d.Severity != domain.SeverityHigh {
			continue
		}
		skus = append(skus, skuOf(d))
	}
	if len(skus) == 0 {
		return nil
	}
	if len(skus) > maxRecommendedSKUs {
		skus = skus[:maxRecommendedSKUs]
	}
	return []domain.Alert{{
		Level: domain.AlertLevelRecommendation,
		Rule:  RuleSupplierFollowUp,
		Message: fmt.Sprintf(
			"RECOMMENDATION: Contact the supplier to clarify pricing discrepancies for SKUs %s before payment. Verify if the higher prices are intentional or errors.",
			strings.Join(skus, ", "),
		),
	}}
}

func missingItemAlerts(items []domain.ItemDiscrepancy) []domain.Alert {
	var missing int
	for _, d := range items {
		if d.Status == domain.StatusMissingItem {
			missing++
		}
	}
	if missing == 0 {
		return nil
	}
	return []domain.Alert{{
		Level: domain.AlertLevelCritical,
		Rule:  RuleMissingItems,
		Message: fmt.Sprintf(
			"CRITICAL: %d item(s) from the Purchase Order are missing in the Invoice. Review delivery documentation.",
			missing,
		),
	}}
}

// decimalPlaces counts the digits after the decimal point in the shortest
// decimal rendering of v.
func decimalPlaces(v float64) int {
	exp := decimal.NewFromFloat(v).Exponent()
	if exp >= 0 {
		return 0
	}
	return int(-exp)
}

func skuOf(d domain.ItemDiscrepancy) string {
	if d.ItemNo != "" {
		return d.ItemNo
	}
	return d.Description
}
