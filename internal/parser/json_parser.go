// Package parser decodes extracted purchase orders and invoices.
package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"docrecon/internal/domain"
	"docrecon/internal/port"
)

type lineItemPayload struct {
	ItemNo         string `json:"item_no" validate:"max=64"`
	Description    string `json:"description" validate:"max=1024"`
	Unit           string `json:"unit" validate:"max=32"`
	Quantity       amount `json:"quantity" validate:"gte=0"`
	UnitPrice      amount `json:"unit_price" validate:"gte=0"`
	DiscountPct    amount `json:"discount_pct" validate:"gte=0,lte=100"`
	DiscountAmount amount `json:"discount_amount" validate:"gte=0"`
	TaxableAmount  amount `json:"taxable_amount"`
	TotalPrice     amount `json:"total_price"`
}

type metadataPayload struct {
	DocType      string `json:"doc_type" validate:"omitempty,oneof=PURCHASE_ORDER PROFORMA_INVOICE INVOICE UNKNOWN"`
	DocumentID   string `json:"document_id" validate:"max=128"`
	Date         string `json:"date"`
	VendorName   string `json:"vendor_name"`
	CustomerName string `json:"customer_name"`
}

type documentPayload struct {
	Metadata      metadataPayload   `json:"metadata"`
	Items         []lineItemPayload `json:"items" validate:"dive"`
	Subtotal      amount            `json:"subtotal"`
	TotalDiscount amount            `json:"total_discount" validate:"gte=0"`
	TaxableAmount amount            `json:"taxable_amount"`
	Tax           amount            `json:"tax"`
	TaxRate       amount            `json:"tax_rate" validate:"gte=0,lte=100"`
	Total         amount            `json:"total"`
	Notes         string            `json:"notes"`
	RawText       string            `json:"raw_text"`
}

// JSONParser decodes documents produced by the extraction step. The payload
// is checked against a JSON Schema, then field rules, then the domain
// constructors.
type JSONParser struct {
	schema   *jsonschema.Schema
	validate *validator.Validate
}

var _ port.DocumentParser = (*JSONParser)(nil)

// NewJSONParser compiles the document schema.
func NewJSONParser() (*JSONParser, error) {
	b, err := json.Marshal(documentSchema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("document.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("document.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &JSONParser{schema: schema, validate: v}, nil
}

// Parse decodes input.Data. Only JSON content is accepted.
func (p *JSONParser) Parse(_ context.Context, input port.ParseInput) (domain.ExtractedDocument, error) {
	if ct := input.ContentType; ct != "" && !strings.Contains(ct, "json") {
		return domain.ExtractedDocument{}, domain.NewValidationError(domain.ErrInvalidDocument, "content_type", "unsupported content type "+ct)
	}
	return p.decode(input.Data, input.DocumentType)
}

// Decode decodes a document, detecting its type from the raw text when the
// metadata does not carry one.
func (p *JSONParser) Decode(data []byte) (domain.ExtractedDocument, error) {
	return p.decode(data, "")
}

func (p *JSONParser) decode(data []byte, fallback domain.DocumentType) (domain.ExtractedDocument, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.ExtractedDocument{}, domain.NewValidationError(domain.ErrInvalidDocument, "document", "malformed JSON: "+err.Error())
	}
	if err := p.schema.Validate(raw); err != nil {
		return domain.ExtractedDocument{}, schemaError(err)
	}

	var payload documentPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return domain.ExtractedDocument{}, domain.NewValidationError(domain.ErrInvalidDocument, "document", err.Error())
	}
	if err := p.validate.Struct(payload); err != nil {
		return domain.ExtractedDocument{}, fieldError(err)
	}

	items := make([]domain.LineItem, 0, len(payload.Items))
	for i, it := range payload.Items {
		item, err := domain.NewLineItem(domain.LineItemInput{
			ItemNo:         it.ItemNo,
			Description:    it.Description,
			Unit:           it.Unit,
			Quantity:       float64(it.Quantity),
			UnitPrice:      float64(it.UnitPrice),
			DiscountPct:    float64(it.DiscountPct),
			DiscountAmount: float64(it.DiscountAmount),
			TaxableAmount:  float64(it.TaxableAmount),
			TotalPrice:     float64(it.TotalPrice),
		})
		if err != nil {
			return domain.ExtractedDocument{}, fmt.Errorf("items[%d]: %w", i, err)
		}
		items = append(items, item)
	}

	docType := domain.DocumentType(strings.ToUpper(strings.TrimSpace(payload.Metadata.DocType)))
	if docType == "" || docType == domain.DocTypeUnknown {
		docType = DetectDocumentType(payload.RawText)
	}
	if docType == domain.DocTypeUnknown && fallback != "" {
		docType = fallback
	}

	return domain.NewExtractedDocument(
		domain.DocumentMetadata{
			DocType:      docType,
			DocumentID:   payload.Metadata.DocumentID,
			Date:         payload.Metadata.Date,
			VendorName:   payload.Metadata.VendorName,
			CustomerName: payload.Metadata.CustomerName,
		},
		items,
		domain.DocumentTotals{
			Subtotal:      float64(payload.Subtotal),
			TotalDiscount: float64(payload.TotalDiscount),
			TaxableAmount: float64(payload.TaxableAmount),
			Tax:           float64(payload.Tax),
			TaxRate:       float64(payload.TaxRate),
			Total:         float64(payload.Total),
		},
		payload.Notes,
		payload.RawText,
	)
}

func schemaError(err error) error {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return domain.NewValidationError(domain.ErrInvalidDocument, "document", err.Error())
	}
	leaf := verr
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	field := strings.TrimPrefix(leaf.InstanceLocation, "/")
	if field == "" {
		field = "document"
	}
	return domain.NewValidationError(domain.ErrInvalidDocument, field, leaf.Message)
}

func fieldError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.NewValidationError(domain.ErrInvalidDocument, "document", err.Error())
	}
	fe := verrs[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	reason := fmt.Sprintf("failed %q rule", fe.Tag())
	if fe.Param() != "" {
		reason = fmt.Sprintf("failed %q rule (%s)", fe.Tag(), fe.Param())
	}
	return domain.NewValidationError(domain.ErrInvalidDocument, field, reason)
}
