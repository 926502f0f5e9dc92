// Package reconcile matches purchase order lines against invoice lines and
// classifies the differences.
package reconcile

import (
	"go.uber.org/zap"

	"docrecon/internal/domain"
)

// Options configure a Comparator.
type Options struct {
	Tolerances  Tolerances
	KeyStrategy KeyStrategy
	Logger      *zap.Logger
}

// Comparator reconciles document pairs. It holds no per-run state and is safe
// for concurrent use.
type Comparator struct {
	tolerances Tolerances
	strategy   KeyStrategy
	classifier *Classifier
	logger     *zap.Logger
}

// NewComparator validates opts and builds a Comparator. An empty KeyStrategy
// selects DefaultKeyStrategy.
func NewComparator(opts Options) (*Comparator, error) {
	if err := opts.Tolerances.Validate(); err != nil {
		return nil, err
	}
	strategy, err := ParseKeyStrategy(string(opts.KeyStrategy))
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Comparator{
		tolerances: opts.Tolerances,
		strategy:   strategy,
		classifier: NewClassifier(opts.Tolerances, logger),
		logger:     logger,
	}, nil
}

// Tolerances returns the tolerances the comparator applies.
func (c *Comparator) Tolerances() Tolerances { return c.tolerances }

// KeyStrategy returns the key strategy the comparator applies.
func (c *Comparator) KeyStrategy() KeyStrategy { return c.strategy }

// Compare reconciles po against inv. Empty documents are valid input.
func (c *Comparator) Compare(po, inv domain.ExtractedDocument) domain.DocumentComparison {
	poItems, invItems := po.Items(), inv.Items()
	pairs := MatchItems(poItems, invItems, c.strategy)

	result := domain.DocumentComparison{
		PODocumentID:           po.Metadata().DocumentID,
		InvoiceDocumentID:      inv.Metadata().DocumentID,
		KeyStrategy:            string(c.strategy),
		TotalItemsCompared:     len(pairs),
		ItemLevelComparison:    make([]domain.ItemDiscrepancy, 0, len(pairs)),
		ProductsWithMismatches: []domain.MismatchedProduct{},
		SummaryMetrics:         CalculateSummaryMetrics(po, inv),
		TotalQuantityOrdered:   sumQuantity(poItems),
		TotalQuantityInvoiced:  sumQuantity(invItems),
		TotalValueOrdered:      po.Totals().Total,
		TotalValueInvoiced:     inv.Totals().Total,
	}

	for _, pair := range pairs {
		d := c.classifier.Classify(pair.Key, pair.PO, pair.Invoice)
		result.ItemLevelComparison = append(result.ItemLevelComparison, d)
		if d.Status == domain.StatusMatch {
			result.MatchingItems++
			continue
		}
		result.DiscrepantItems++
		result.ProductsWithMismatches = append(result.ProductsWithMismatches, domain.MismatchedProduct{
			SKU:         d.ItemNo,
			Description: d.Description,
			Reason:      d.Reason,
		})
	}

	result.SummaryText = buildSummaryText(result)

	c.logger.Debug("comparison complete",
		zap.String("po_document_id", result.PODocumentID),
		zap.String("invoice_document_id", result.InvoiceDocumentID),
		zap.Int("items", result.TotalItemsCompared),
		zap.Int("discrepant", result.DiscrepantItems),
	)
	return result
}

// Compare reconciles po against inv with default tolerances and key strategy.
func Compare(po, inv domain.ExtractedDocument) domain.DocumentComparison {
	c, _ := NewComparator(Options{Tolerances: DefaultTolerances()})
	return c.Compare(po, inv)
}

func sumQuantity(items []domain.LineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Quantity()
	}
	return total
}
