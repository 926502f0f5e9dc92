package port

import (
	"context"

	"docrecon/internal/domain"
)

// ParseInput carries an extracted document payload.
type ParseInput struct {
	Data        []byte
	ContentType string
	// DocumentType is used when neither the payload nor its raw text
	// identifies the document type.
	DocumentType domain.DocumentType
}

// DocumentParser turns an extracted document payload into a validated
// ExtractedDocument.
type DocumentParser interface {
	Parse(ctx context.Context, input ParseInput) (domain.ExtractedDocument, error)
}
