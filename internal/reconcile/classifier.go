package reconcile

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"docrecon/internal/domain"
)

// Tolerances are the percentage variances above which quantity and unit
// price differences are flagged. 0.01 means 0.01%.
type Tolerances struct {
	QuantityPct float64 `json:"quantity_tolerance"`
	PricePct    float64 `json:"price_tolerance"`
}

// DefaultTolerances returns 0.01% for both quantity and price.
func DefaultTolerances() Tolerances {
	return Tolerances{QuantityPct: 0.01, PricePct: 0.01}
}

// ToleranceOverrides carries per-request tolerances. A nil field keeps the
// base value.
type ToleranceOverrides struct {
	QuantityPct *float64 `json:"quantity_tolerance"`
	PricePct    *float64 `json:"price_tolerance"`
}

// Apply returns base with every set override applied. A nil receiver returns
// base unchanged.
func (o *ToleranceOverrides) Apply(base Tolerances) Tolerances {
	if o == nil {
		return base
	}
	if o.QuantityPct != nil {
		base.QuantityPct = *o.QuantityPct
	}
	if o.PricePct != nil {
		base.PricePct = *o.PricePct
	}
	return base
}

// Validate rejects negative or non-finite tolerances.
func (t Tolerances) Validate() error {
	for field, v := range map[string]float64{"quantity_tolerance": t.QuantityPct, "price_tolerance": t.PricePct} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return domain.NewValidationError(domain.ErrInvalidTolerance, field, fmt.Sprintf("must be a non-negative number, got %v", v))
		}
	}
	return nil
}

const (
	// Line totals and discounts are compared to the cent, independently of
	// the percentage tolerances.
	totalTolerance    = 0.01
	discountTolerance = 0.01

	criticalVariancePct = 20
	highVariancePct     = 10
)

const (
	reasonMissing       = "Item missing from Invoice"
	reasonExtra         = "Item not in Purchase Order"
	reasonPerfectMatch  = "Perfect match"
	reasonQuantity      = "Quantity mismatch"
	reasonPrice         = "Unit price mismatch"
	reasonDiscount      = "Discount percentage mismatch leading to different line total"
	reasonLineTotalOnly = "Line total mismatch"
)

// Classifier turns a matched pair into an ItemDiscrepancy.
type Classifier struct {
	tol    Tolerances
	logger *zap.Logger
}

// NewClassifier creates a Classifier. A nil logger discards output.
func NewClassifier(tol Tolerances, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{tol: tol, logger: logger}
}

// Classify compares the items sharing key. At least one of po and inv must be
// non-nil.
func (c *Classifier) Classify(key string, po, inv *domain.LineItem) domain.ItemDiscrepancy {
	switch {
	case po != nil && inv == nil:
		return missingFromInvoice(key, *po)
	case po == nil && inv != nil:
		return extraInInvoice(key, *inv)
	case po == nil && inv == nil:
		c.logger.Warn("classifier: empty pair", zap.String("key", key))
		return domain.ItemDiscrepancy{Key: key, Status: domain.StatusMatch, Severity: domain.SeverityNone, Reason: reasonPerfectMatch}
	}

	d := domain.ItemDiscrepancy{
		Key:                   key,
		ItemNo:                po.ItemNo(),
		Description:           po.Description(),
		POQuantity:            po.Quantity(),
		InvoiceQuantity:       inv.Quantity(),
		POUnitPrice:           po.UnitPrice(),
		InvoiceUnitPrice:      inv.UnitPrice(),
		PODiscountPct:         po.DiscountPct(),
		InvoiceDiscountPct:    inv.DiscountPct(),
		PODiscountAmount:      po.DiscountAmount(),
		InvoiceDiscountAmount: inv.DiscountAmount(),
		POLineTotal:           po.TotalPrice(),
		InvoiceLineTotal:      inv.TotalPrice(),
	}
	if d.ItemNo == "" {
		d.ItemNo = inv.ItemNo()
	}

	d.QuantityDiff = inv.Quantity() - po.Quantity()
	d.QuantityVariancePct = variancePct(d.QuantityDiff, po.Quantity())
	d.PriceDiff = inv.UnitPrice() - po.UnitPrice()
	d.PriceVariancePct = variancePct(d.PriceDiff, po.UnitPrice())
	d.TotalDiff = inv.TotalPrice() - po.TotalPrice()
	d.DiscountDiff = inv.DiscountAmount() - po.DiscountAmount()

	d.QuantityDiscrepancy = math.Abs(d.QuantityVariancePct) > c.tol.QuantityPct
	d.PriceDiscrepancy = math.Abs(d.PriceVariancePct) > c.tol.PricePct
	d.TotalDiscrepancy = math.Abs(d.TotalDiff) > totalTolerance
	d.DiscountDiscrepancy = math.Abs(d.DiscountDiff) > discountTolerance ||
		math.Abs(inv.DiscountPct()-po.DiscountPct()) > discountTolerance

	switch {
	case d.PriceDiscrepancy:
		d.Status = domain.StatusPriceMismatch
	case d.QuantityDiscrepancy:
		d.Status = domain.StatusQuantityMismatch
	case d.TotalDiscrepancy, d.DiscountDiscrepancy:
		d.Status = domain.StatusTotalMismatch
	default:
		d.Status = domain.StatusMatch
	}

	if d.Status == domain.StatusMatch {
		d.Severity = domain.SeverityNone
		d.Reason = reasonPerfectMatch
		return d
	}

	d.Severity = magnitudeSeverity(d.QuantityVariancePct, d.PriceVariancePct)
	d.Reason = c.reason(d)
	return d
}

func (c *Classifier) reason(d domain.ItemDiscrepancy) string {
	var reasons []string
	if d.QuantityDiscrepancy {
		reasons = append(reasons, reasonQuantity)
	}
	if d.PriceDiscrepancy {
		reasons = append(reasons, reasonPrice)
	}
	if d.DiscountDiscrepancy {
		reasons = append(reasons, reasonDiscount)
	}
	if len(reasons) > 0 {
		return strings.Join(reasons, ", ")
	}
	c.logger.Warn("classifier: line total differs without a specific cause",
		zap.String("key", d.Key),
		zap.String("status", string(d.Status)),
		zap.Float64("total_diff", d.TotalDiff),
	)
	return reasonLineTotalOnly
}

func missingFromInvoice(key string, po domain.LineItem) domain.ItemDiscrepancy {
	return domain.ItemDiscrepancy{
		Key:                 key,
		ItemNo:              po.ItemNo(),
		Description:         po.Description(),
		POQuantity:          po.Quantity(),
		POUnitPrice:         po.UnitPrice(),
		PODiscountPct:       po.DiscountPct(),
		PODiscountAmount:    po.DiscountAmount(),
		POLineTotal:         po.TotalPrice(),
		QuantityDiscrepancy: true,
		PriceDiscrepancy:    true,
		TotalDiscrepancy:    true,
		QuantityDiff:        -po.Quantity(),
		QuantityVariancePct: variancePct(-po.Quantity(), po.Quantity()),
		PriceDiff:           -po.UnitPrice(),
		PriceVariancePct:    variancePct(-po.UnitPrice(), po.UnitPrice()),
		TotalDiff:           -po.TotalPrice(),
		DiscountDiff:        -po.DiscountAmount(),
		Status:              domain.StatusMissingItem,
		Severity:            domain.SeverityCritical,
		Reason:              reasonMissing,
	}
}

func extraInInvoice(key string, inv domain.LineItem) domain.ItemDiscrepancy {
	return domain.ItemDiscrepancy{
		Key:                   key,
		ItemNo:                inv.ItemNo(),
		Description:           inv.Description(),
		InvoiceQuantity:       inv.Quantity(),
		InvoiceUnitPrice:      inv.UnitPrice(),
		InvoiceDiscountPct:    inv.DiscountPct(),
		InvoiceDiscountAmount: inv.DiscountAmount(),
		InvoiceLineTotal:      inv.TotalPrice(),
		QuantityDiscrepancy:   true,
		PriceDiscrepancy:      true,
		TotalDiscrepancy:      true,
		QuantityDiff:          inv.Quantity(),
		QuantityVariancePct:   variancePct(inv.Quantity(), 0),
		PriceDiff:             inv.UnitPrice(),
		PriceVariancePct:      variancePct(inv.UnitPrice(), 0),
		TotalDiff:             inv.TotalPrice(),
		DiscountDiff:          inv.DiscountAmount(),
		Status:                domain.StatusExtraItem,
		Severity:              domain.SeverityHigh,
		Reason:                reasonExtra,
	}
}

// variancePct is diff relative to base in percent. A zero base gives 0 for a
// zero diff and a signed infinity otherwise.
func variancePct(diff, base float64) float64 {
	if base > 0 {
		return diff / base * 100
	}
	switch {
	case diff > 0:
		return math.Inf(1)
	case diff < 0:
		return math.Inf(-1)
	}
	return 0
}

func magnitudeSeverity(qtyPct, pricePct float64) domain.Severity {
	worst := math.Max(math.Abs(qtyPct), math.Abs(pricePct))
	switch {
	case worst > criticalVariancePct:
		return domain.SeverityCritical
	case worst > highVariancePct:
		return domain.SeverityHigh
	}
	return domain.SeverityMedium
}
