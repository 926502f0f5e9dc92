package report

import (
	"encoding/csv"
	"io"

	"docrecon/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (18 columns).
var columns = []string{
	"SKU",
	"Description",
	"Qty_Ordered",
	"Qty_Invoiced",
	"Qty_Diff",
	"Unit_Price_Ordered",
	"Unit_Price_Invoiced",
	"Price_Diff",
	"Discount_Pct_Ordered",
	"Discount_Pct_Invoiced",
	"Line_Total_Ordered",
	"Line_Total_Invoiced",
	"Total_Diff",
	"Quantity_Discrepancy",
	"Price_Discrepancy",
	"Total_Discrepancy",
	"Severity",
	"Reason",
}

// Writer wraps csv.Writer for exporting item comparisons.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the 18-column header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteItems writes one row per item.
func (w *Writer) WriteItems(items []domain.ItemDiscrepancy) error {
	for i := range items {
		if err := w.csv.Write(itemToRow(&items[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// WriteCSV writes a BOM, the header and every item, then flushes.
func WriteCSV(w io.Writer, items []domain.ItemDiscrepancy) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}
	cw := NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return err
	}
	if err := cw.WriteItems(items); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func itemToRow(d *domain.ItemDiscrepancy) []string {
	return []string{
		d.ItemNo,
		d.Description,
		formatQuantity(d.POQuantity),
		formatQuantity(d.InvoiceQuantity),
		formatMoney(d.QuantityDiff),
		formatMoney(d.POUnitPrice),
		formatMoney(d.InvoiceUnitPrice),
		formatMoney(d.PriceDiff),
		formatMoney(d.PODiscountPct),
		formatMoney(d.InvoiceDiscountPct),
		formatMoney(d.POLineTotal),
		formatMoney(d.InvoiceLineTotal),
		formatMoney(d.TotalDiff),
		formatBool(d.QuantityDiscrepancy),
		formatBool(d.PriceDiscrepancy),
		formatBool(d.TotalDiscrepancy),
		string(d.Severity),
		d.Reason,
	}
}
