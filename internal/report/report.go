// Package report renders comparison results as JSON, CSV and Excel documents.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"docrecon/internal/domain"
)

// Format identifies a report rendering.
type Format string

const (
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatExcel Format = "xlsx"
)

// Formats lists every supported format in archive order.
var Formats = []Format{FormatJSON, FormatCSV, FormatExcel}

// ParseFormat accepts "json", "csv", "xlsx" or "excel".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatExcel, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, s)
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/json"
}

// DefaultName is the file name used when a report is written to disk.
func (f Format) DefaultName() string {
	switch f {
	case FormatCSV:
		return "item_comparison.csv"
	case FormatExcel:
		return "detailed_comparison.xlsx"
	}
	return "discrepancy_report.json"
}

// Input is everything a report renders.
type Input struct {
	Comparison  domain.DocumentComparison
	Alerts      []domain.Alert
	GeneratedAt time.Time
}

// InputFromRun builds an Input from a stored comparison run.
func InputFromRun(run *domain.ComparisonRun) (Input, error) {
	if run.Comparison == nil {
		return Input{}, fmt.Errorf("comparison run %s has no result", run.ID)
	}
	return Input{Comparison: *run.Comparison, Alerts: run.Alerts, GeneratedAt: run.CreatedAt}, nil
}

// Render writes in to w in format f.
func Render(w io.Writer, f Format, in Input) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, in)
	case FormatCSV:
		return WriteCSV(w, in.Comparison.ItemLevelComparison)
	case FormatExcel:
		return WriteExcel(w, in)
	}
	return fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, f)
}

// round2 rounds half away from zero to cents. Non-finite values pass through.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func formatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

func formatQuantity(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return decimal.NewFromFloat(v).String()
}

func formatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}
