package parser

import (
	"strings"

	"docrecon/internal/domain"
)

// DetectDocumentType guesses the document type from its raw text.
func DetectDocumentType(rawText string) domain.DocumentType {
	text := strings.ToLower(rawText)
	switch {
	case strings.Contains(text, "purchase order"), strings.Contains(text, "po#"):
		return domain.DocTypePurchaseOrder
	case strings.Contains(text, "proforma"), strings.Contains(text, "pro forma"):
		return domain.DocTypeProformaInvoice
	case strings.Contains(text, "invoice"):
		return domain.DocTypeInvoice
	}
	return domain.DocTypeUnknown
}
