// Package email builds the reviewer notification sent when a comparison
// raises critical alerts.
package email

import (
	"fmt"
	"html"
	"strings"

	"docrecon/internal/domain"
)

// Message is a rendered notification.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// ComparisonURL links to a comparison run on the dashboard.
func ComparisonURL(dashboardURL string, run *domain.ComparisonRun) string {
	return fmt.Sprintf("%s/comparisons/%s", strings.TrimRight(dashboardURL, "/"), run.ID)
}

// BuildAlertMessage renders the alert notification for run.
func BuildAlertMessage(run *domain.ComparisonRun, dashboardURL string) Message {
	link := ComparisonURL(dashboardURL, run)
	alerts := run.CriticalAlerts()

	subject := fmt.Sprintf("[%s] PO %s vs invoice %s: %d discrepant item(s)",
		run.HighestSeverity, displayID(run.PODocumentID), displayID(run.InvoiceDocumentID), run.DiscrepantItems)

	var text strings.Builder
	fmt.Fprintf(&text, "Comparison %s found %d of %d items with discrepancies.\n",
		run.ID, run.DiscrepantItems, run.TotalItemsCompared)
	fmt.Fprintf(&text, "Grand total difference: %.2f\n\n", run.GrandTotalDifference)
	for _, a := range alerts {
		fmt.Fprintf(&text, "- %s\n", a.Message)
	}
	fmt.Fprintf(&text, "\nReview: %s\n", link)

	var items strings.Builder
	for _, a := range alerts {
		fmt.Fprintf(&items, "    <li>%s</li>\n", html.EscapeString(a.Message))
	}

	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Purchase order discrepancies</h2>
  <p>PO <strong>%s</strong> vs invoice <strong>%s</strong>: %d of %d items need review
  (highest severity <strong>%s</strong>).</p>
  <ul>
%s  </ul>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Review Comparison</a>
  </p>
</body>
</html>`,
		html.EscapeString(displayID(run.PODocumentID)),
		html.EscapeString(displayID(run.InvoiceDocumentID)),
		run.DiscrepantItems, run.TotalItemsCompared, run.HighestSeverity,
		items.String(), link)

	return Message{Subject: subject, Text: text.String(), HTML: body}
}

func displayID(id string) string {
	if id == "" {
		return "(unnumbered)"
	}
	return id
}
