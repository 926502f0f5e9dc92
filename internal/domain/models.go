package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ComparisonRun is a persisted reconciliation of one purchase order against
// one invoice.
type ComparisonRun struct {
	ID                   uuid.UUID       `db:"id" json:"id"`
	PODocumentID         string          `db:"po_document_id" json:"po_document_id"`
	InvoiceDocumentID    string          `db:"invoice_document_id" json:"invoice_document_id"`
	InputHash            string          `db:"input_hash" json:"input_hash"`
	KeyStrategy          string          `db:"key_strategy" json:"key_strategy"`
	QuantityTolerance    float64         `db:"quantity_tolerance" json:"quantity_tolerance"`
	PriceTolerance       float64         `db:"price_tolerance" json:"price_tolerance"`
	TotalItemsCompared   int             `db:"total_items_compared" json:"total_items_compared"`
	MatchingItems        int             `db:"matching_items" json:"matching_items"`
	DiscrepantItems      int             `db:"discrepant_items" json:"discrepant_items"`
	GrandTotalDifference float64         `db:"grand_total_difference" json:"grand_total_difference"`
	HighestSeverity      Severity        `db:"highest_severity" json:"highest_severity"`
	ResultData           json.RawMessage `db:"result" json:"-"`
	AlertData            json.RawMessage `db:"alerts" json:"-"`
	ArchivePrefix        string          `db:"archive_prefix" json:"archive_prefix,omitempty"`
	CreatedBy            string          `db:"created_by" json:"created_by"`
	CreatedAt            time.Time       `db:"created_at" json:"created_at"`

	Comparison *DocumentComparison `db:"-" json:"comparison,omitempty"`
	Alerts     []Alert             `db:"-" json:"alerts"`
}

// NewComparisonRun summarizes comparison into a run ready for storage.
func NewComparisonRun(comparison DocumentComparison, alerts []Alert, inputHash string, qtyTol, priceTol float64, createdBy string) *ComparisonRun {
	if alerts == nil {
		alerts = []Alert{}
	}
	return &ComparisonRun{
		ID:                   uuid.New(),
		PODocumentID:         comparison.PODocumentID,
		InvoiceDocumentID:    comparison.InvoiceDocumentID,
		InputHash:            inputHash,
		KeyStrategy:          comparison.KeyStrategy,
		QuantityTolerance:    qtyTol,
		PriceTolerance:       priceTol,
		TotalItemsCompared:   comparison.TotalItemsCompared,
		MatchingItems:        comparison.MatchingItems,
		DiscrepantItems:      comparison.DiscrepantItems,
		GrandTotalDifference: comparison.SummaryMetrics.GrandTotalDiff,
		HighestSeverity:      comparison.HighestSeverity(),
		CreatedBy:            createdBy,
		CreatedAt:            time.Now().UTC(),
		Comparison:           &comparison,
		Alerts:               alerts,
	}
}

// EncodePayload serializes Comparison and Alerts into the stored JSON columns.
func (r *ComparisonRun) EncodePayload() error {
	result, err := json.Marshal(r.Comparison)
	if err != nil {
		return fmt.Errorf("encoding comparison result: %w", err)
	}
	alerts, err := json.Marshal(r.Alerts)
	if err != nil {
		return fmt.Errorf("encoding alerts: %w", err)
	}
	r.ResultData = result
	r.AlertData = alerts
	return nil
}

// DecodePayload restores Comparison and Alerts from the stored JSON columns.
func (r *ComparisonRun) DecodePayload() error {
	if len(r.ResultData) > 0 && string(r.ResultData) != "null" {
		var comparison DocumentComparison
		if err := json.Unmarshal(r.ResultData, &comparison); err != nil {
			return fmt.Errorf("decoding comparison result: %w", err)
		}
		r.Comparison = &comparison
	}
	r.Alerts = []Alert{}
	if len(r.AlertData) > 0 {
		if err := json.Unmarshal(r.AlertData, &r.Alerts); err != nil {
			return fmt.Errorf("decoding alerts: %w", err)
		}
	}
	return nil
}

// CriticalAlerts returns the alerts that warrant notifying a reviewer.
func (r *ComparisonRun) CriticalAlerts() []Alert {
	var out []Alert
	for _, a := range r.Alerts {
		if a.Level == AlertLevelCritical || a.Level == AlertLevelAlert {
			out = append(out, a)
		}
	}
	return out
}
