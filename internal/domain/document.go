package domain

import (
	"encoding/json"
	"math"
	"strings"
)

// LineItemInput carries the raw values of one extracted line. Zero values for
// DiscountAmount, TaxableAmount and TotalPrice mean "not supplied" and are
// derived by NewLineItem.
type LineItemInput struct {
	ItemNo         string
	Description    string
	Unit           string
	Quantity       float64
	UnitPrice      float64
	DiscountPct    float64
	DiscountAmount float64
	TaxableAmount  float64
	TotalPrice     float64
}

// LineItem is one row of a purchase order or invoice. It is immutable once
// built; construct it with NewLineItem.
type LineItem struct {
	itemNo         string
	description    string
	unit           string
	quantity       float64
	unitPrice      float64
	discountPct    float64
	discountAmount float64
	taxableAmount  float64
	totalPrice     float64
}

// NewLineItem validates in and fills the derived amounts:
//
//	discount_amount = quantity * unit_price * discount_pct / 100   (when absent and pct > 0)
//	taxable_amount  = quantity * unit_price - discount_amount      (when absent)
//	total_price     = taxable_amount                               (when absent)
//
// Supplied non-zero values are kept as-is.
func NewLineItem(in LineItemInput) (LineItem, error) {
	if err := validateLineItem(in); err != nil {
		return LineItem{}, err
	}

	item := LineItem{
		itemNo:         strings.TrimSpace(in.ItemNo),
		description:    in.Description,
		unit:           in.Unit,
		quantity:       in.Quantity,
		unitPrice:      in.UnitPrice,
		discountPct:    in.DiscountPct,
		discountAmount: in.DiscountAmount,
		taxableAmount:  in.TaxableAmount,
		totalPrice:     in.TotalPrice,
	}

	if item.discountAmount == 0 && item.discountPct > 0 {
		item.discountAmount = item.quantity * item.unitPrice * item.discountPct / 100
	}
	if item.taxableAmount == 0 {
		item.taxableAmount = item.quantity*item.unitPrice - item.discountAmount
	}
	if item.totalPrice == 0 {
		item.totalPrice = item.taxableAmount
	}
	return item, nil
}

func validateLineItem(in LineItemInput) error {
	numbers := []struct {
		field string
		value float64
	}{
		{"quantity", in.Quantity},
		{"unit_price", in.UnitPrice},
		{"discount_pct", in.DiscountPct},
		{"discount_amount", in.DiscountAmount},
		{"taxable_amount", in.TaxableAmount},
		{"total_price", in.TotalPrice},
	}
	for _, n := range numbers {
		if math.IsNaN(n.value) || math.IsInf(n.value, 0) {
			return NewValidationError(ErrInvalidLineItem, n.field, "must be a finite number")
		}
	}

	switch {
	case strings.TrimSpace(in.Description) == "" && strings.TrimSpace(in.ItemNo) == "":
		return NewValidationError(ErrInvalidLineItem, "description", "description or item_no is required")
	case in.Quantity < 0:
		return NewValidationError(ErrInvalidLineItem, "quantity", "must not be negative")
	case in.UnitPrice < 0:
		return NewValidationError(ErrInvalidLineItem, "unit_price", "must not be negative")
	case in.DiscountPct < 0 || in.DiscountPct > 100:
		return NewValidationError(ErrInvalidLineItem, "discount_pct", "must be between 0 and 100")
	case in.DiscountAmount < 0:
		return NewValidationError(ErrInvalidLineItem, "discount_amount", "must not be negative")
	}
	return nil
}

func (l LineItem) ItemNo() string          { return l.itemNo }
func (l LineItem) Description() string     { return l.description }
func (l LineItem) Unit() string            { return l.unit }
func (l LineItem) Quantity() float64       { return l.quantity }
func (l LineItem) UnitPrice() float64      { return l.unitPrice }
func (l LineItem) DiscountPct() float64    { return l.discountPct }
func (l LineItem) DiscountAmount() float64 { return l.discountAmount }
func (l LineItem) TaxableAmount() float64  { return l.taxableAmount }
func (l LineItem) TotalPrice() float64     { return l.totalPrice }

type lineItemJSON struct {
	ItemNo         string  `json:"item_no"`
	Description    string  `json:"description"`
	Unit           string  `json:"unit"`
	Quantity       float64 `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	DiscountPct    float64 `json:"discount_pct"`
	DiscountAmount float64 `json:"discount_amount"`
	TaxableAmount  float64 `json:"taxable_amount"`
	TotalPrice     float64 `json:"total_price"`
}

// MarshalJSON encodes the item with its derived amounts.
func (l LineItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(lineItemJSON{
		ItemNo:         l.itemNo,
		Description:    l.description,
		Unit:           l.unit,
		Quantity:       l.quantity,
		UnitPrice:      l.unitPrice,
		DiscountPct:    l.discountPct,
		DiscountAmount: l.discountAmount,
		TaxableAmount:  l.taxableAmount,
		TotalPrice:     l.totalPrice,
	})
}

// UnmarshalJSON decodes through NewLineItem so that decoded items obey the
// same rules as constructed ones.
func (l *LineItem) UnmarshalJSON(data []byte) error {
	var raw lineItemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	item, err := NewLineItem(LineItemInput(raw))
	if err != nil {
		return err
	}
	*l = item
	return nil
}

// DocumentMetadata identifies an extracted document.
type DocumentMetadata struct {
	DocType      DocumentType `json:"doc_type"`
	DocumentID   string       `json:"document_id"`
	Date         string       `json:"date"`
	VendorName   string       `json:"vendor_name"`
	CustomerName string       `json:"customer_name"`
}

// DocumentTotals holds the document-level amounts as printed on the document.
type DocumentTotals struct {
	Subtotal      float64 `json:"subtotal"`
	TotalDiscount float64 `json:"total_discount"`
	TaxableAmount float64 `json:"taxable_amount"`
	Tax           float64 `json:"tax"`
	TaxRate       float64 `json:"tax_rate"`
	Total         float64 `json:"total"`
}

// ExtractedDocument is a structured purchase order or invoice. Reconciliation
// only reads it.
type ExtractedDocument struct {
	metadata DocumentMetadata
	items    []LineItem
	totals   DocumentTotals
	notes    string
	rawText  string
}

// NewExtractedDocument validates metadata and totals and copies items.
func NewExtractedDocument(meta DocumentMetadata, items []LineItem, totals DocumentTotals, notes, rawText string) (ExtractedDocument, error) {
	if meta.DocType == "" {
		meta.DocType = DocTypeUnknown
	}
	if !meta.DocType.Valid() {
		return ExtractedDocument{}, NewValidationError(ErrInvalidDocument, "metadata.doc_type", "unknown document type "+string(meta.DocType))
	}

	amounts := []struct {
		field string
		value float64
	}{
		{"subtotal", totals.Subtotal},
		{"total_discount", totals.TotalDiscount},
		{"taxable_amount", totals.TaxableAmount},
		{"tax", totals.Tax},
		{"tax_rate", totals.TaxRate},
		{"total", totals.Total},
	}
	for _, a := range amounts {
		if math.IsNaN(a.value) || math.IsInf(a.value, 0) {
			return ExtractedDocument{}, NewValidationError(ErrInvalidDocument, a.field, "must be a finite number")
		}
	}
	if totals.TaxRate < 0 {
		return ExtractedDocument{}, NewValidationError(ErrInvalidDocument, "tax_rate", "must not be negative")
	}

	copied := make([]LineItem, len(items))
	copy(copied, items)

	return ExtractedDocument{
		metadata: meta,
		items:    copied,
		totals:   totals,
		notes:    notes,
		rawText:  rawText,
	}, nil
}

func (d ExtractedDocument) Metadata() DocumentMetadata { return d.metadata }
func (d ExtractedDocument) Totals() DocumentTotals     { return d.totals }
func (d ExtractedDocument) Notes() string              { return d.notes }
func (d ExtractedDocument) RawText() string            { return d.rawText }
func (d ExtractedDocument) ItemCount() int             { return len(d.items) }

// Items returns a copy of the line items in document order.
func (d ExtractedDocument) Items() []LineItem {
	out := make([]LineItem, len(d.items))
	copy(out, d.items)
	return out
}

type extractedDocumentJSON struct {
	Metadata DocumentMetadata `json:"metadata"`
	Items    []LineItem       `json:"items"`
	DocumentTotals
	Notes   string `json:"notes"`
	RawText string `json:"raw_text"`
}

// MarshalJSON encodes the document in its wire shape.
func (d ExtractedDocument) MarshalJSON() ([]byte, error) {
	items := d.items
	if items == nil {
		items = []LineItem{}
	}
	return json.Marshal(extractedDocumentJSON{
		Metadata:       d.metadata,
		Items:          items,
		DocumentTotals: d.totals,
		Notes:          d.notes,
		RawText:        d.rawText,
	})
}

// UnmarshalJSON decodes the wire shape through NewExtractedDocument.
func (d *ExtractedDocument) UnmarshalJSON(data []byte) error {
	var raw extractedDocumentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	doc, err := NewExtractedDocument(raw.Metadata, raw.Items, raw.DocumentTotals, raw.Notes, raw.RawText)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}
