package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"docrecon/internal/domain"
)

const (
	sheetSummary       = "Summary"
	sheetItems         = "Item Comparison"
	sheetDiscrepancies = "Discrepancies"
	sheetAlerts        = "Alerts"
)

var (
	summaryHeaders = []string{"Metric", "Purchase_Order", "Proforma_Invoice", "Difference"}
	itemHeaders    = []string{
		"SKU", "Description", "PO_Qty", "Invoice_Qty", "Qty_Match",
		"PO_Price", "Invoice_Price", "Price_Match",
		"PO_Total", "Invoice_Total", "Total_Diff", "Severity", "Status",
	}
	alertHeaders = []string{"Level", "Rule", "SKU", "Message"}
)

// WriteExcel writes a workbook with a summary sheet, the item comparison,
// the discrepant items and the alerts.
func WriteExcel(w io.Writer, in Input) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("xlsx rename sheet: %w", err)
	}
	if err := writeSummarySheet(f, in.Comparison.SummaryMetrics); err != nil {
		return err
	}

	if _, err := f.NewSheet(sheetItems); err != nil {
		return fmt.Errorf("xlsx new sheet: %w", err)
	}
	if err := writeItemSheet(f, sheetItems, in.Comparison.ItemLevelComparison); err != nil {
		return err
	}

	var discrepant []domain.ItemDiscrepancy
	for _, d := range in.Comparison.ItemLevelComparison {
		if d.Severity != domain.SeverityNone {
			discrepant = append(discrepant, d)
		}
	}
	if len(discrepant) > 0 {
		if _, err := f.NewSheet(sheetDiscrepancies); err != nil {
			return fmt.Errorf("xlsx new sheet: %w", err)
		}
		if err := writeItemSheet(f, sheetDiscrepancies, discrepant); err != nil {
			return err
		}
	}

	if len(in.Alerts) > 0 {
		if _, err := f.NewSheet(sheetAlerts); err != nil {
			return fmt.Errorf("xlsx new sheet: %w", err)
		}
		if err := writeAlertSheet(f, in.Alerts); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, m domain.SummaryMetrics) error {
	if err := writeRow(f, sheetSummary, 1, stringsToAny(summaryHeaders)); err != nil {
		return err
	}
	rows := [][]any{
		{"Subtotal", round2(m.SubtotalPO), round2(m.SubtotalPI), round2(m.SubtotalDifference)},
		{"Discounts", round2(m.DiscountsPO), round2(m.DiscountsPI), round2(m.DiscountsDifference)},
		{"Taxable Amount", round2(m.TaxableAmountPO), round2(m.TaxableAmountPI), round2(m.TaxableDifference)},
		{"Tax", round2(m.TaxPO), round2(m.TaxPI), round2(m.TaxDifference)},
		{"Grand Total", round2(m.GrandTotalPO), round2(m.GrandTotalPI), round2(m.GrandTotalDiff)},
	}
	for i, r := range rows {
		if err := writeRow(f, sheetSummary, i+2, r); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(sheetSummary, "A", "A", 18)
	_ = f.SetColWidth(sheetSummary, "B", "D", 18)
	return nil
}

func writeItemSheet(f *excelize.File, sheet string, items []domain.ItemDiscrepancy) error {
	if err := writeRow(f, sheet, 1, stringsToAny(itemHeaders)); err != nil {
		return err
	}
	for i, d := range items {
		err := writeRow(f, sheet, i+2, []any{
			d.ItemNo,
			d.Description,
			d.POQuantity,
			d.InvoiceQuantity,
			matchMark(!d.QuantityDiscrepancy),
			round2(d.POUnitPrice),
			round2(d.InvoiceUnitPrice),
			matchMark(!d.PriceDiscrepancy),
			round2(d.POLineTotal),
			round2(d.InvoiceLineTotal),
			round2(d.TotalDiff),
			string(d.Severity),
			d.Reason,
		})
		if err != nil {
			return err
		}
	}
	_ = f.SetColWidth(sheet, "A", "A", 16) // sku
	_ = f.SetColWidth(sheet, "B", "B", 40) // description
	_ = f.SetColWidth(sheet, "C", "K", 14)
	_ = f.SetColWidth(sheet, "L", "L", 12)
	_ = f.SetColWidth(sheet, "M", "M", 48) // reason
	return nil
}

func writeAlertSheet(f *excelize.File, alerts []domain.Alert) error {
	if err := writeRow(f, sheetAlerts, 1, stringsToAny(alertHeaders)); err != nil {
		return err
	}
	for i, a := range alerts {
		if err := writeRow(f, sheetAlerts, i+2, []any{string(a.Level), a.Rule, a.SKU, a.Message}); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(sheetAlerts, "A", "C", 16)
	_ = f.SetColWidth(sheetAlerts, "D", "D", 100)
	return nil
}

// writeRow stops at the first cell that cannot be written.
func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("xlsx %s row %d: %w", sheet, row, err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("xlsx %s cell %s: %w", sheet, cell, err)
		}
	}
	return nil
}

func stringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func matchMark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
