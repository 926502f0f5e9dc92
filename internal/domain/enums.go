package domain

// DocumentType classifies an extracted business document.
type DocumentType string

const (
	DocTypePurchaseOrder   DocumentType = "PURCHASE_ORDER"
	DocTypeProformaInvoice DocumentType = "PROFORMA_INVOICE"
	DocTypeInvoice         DocumentType = "INVOICE"
	DocTypeUnknown         DocumentType = "UNKNOWN"
)

// Valid reports whether t is one of the known document types.
func (t DocumentType) Valid() bool {
	switch t {
	case DocTypePurchaseOrder, DocTypeProformaInvoice, DocTypeInvoice, DocTypeUnknown:
		return true
	}
	return false
}

// DiscrepancyStatus is the primary classification of a matched item pair.
type DiscrepancyStatus string

const (
	StatusMatch            DiscrepancyStatus = "MATCH"
	StatusQuantityMismatch DiscrepancyStatus = "QUANTITY_MISMATCH"
	StatusPriceMismatch    DiscrepancyStatus = "PRICE_MISMATCH"
	StatusTotalMismatch    DiscrepancyStatus = "TOTAL_MISMATCH"
	StatusMissingItem      DiscrepancyStatus = "MISSING_FROM_INVOICE"
	StatusExtraItem        DiscrepancyStatus = "EXTRA_IN_INVOICE"
)

// Severity ranks how much attention a discrepancy needs.
type Severity string

const (
	SeverityNone     Severity = "NONE"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

var severityRank = map[Severity]int{
	SeverityNone:     0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// Rank orders severities from NONE (0) to CRITICAL (3).
func (s Severity) Rank() int {
	return severityRank[s]
}

// AlertLevel tags a synthesized alert.
type AlertLevel string

const (
	AlertLevelAlert          AlertLevel = "ALERT"
	AlertLevelWarning        AlertLevel = "WARNING"
	AlertLevelRecommendation AlertLevel = "RECOMMENDATION"
	AlertLevelCritical       AlertLevel = "CRITICAL"
)

// UserRole is carried in access tokens issued to reviewers.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleReviewer UserRole = "reviewer"
)
