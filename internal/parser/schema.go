package parser

// amountSchema accepts plain numbers and formatted strings such as "$1,234.50".
var amountSchema = map[string]any{
	"type": []any{"number", "string", "null"},
}

var lineItemSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"item_no":         map[string]any{"type": []any{"string", "null"}},
		"description":     map[string]any{"type": []any{"string", "null"}},
		"unit":            map[string]any{"type": []any{"string", "null"}},
		"quantity":        amountSchema,
		"unit_price":      amountSchema,
		"discount_pct":    amountSchema,
		"discount_amount": amountSchema,
		"taxable_amount":  amountSchema,
		"total_price":     amountSchema,
	},
	"anyOf": []any{
		map[string]any{"required": []any{"item_no"}},
		map[string]any{"required": []any{"description"}},
	},
}

// documentSchema describes the structured output of the extraction step.
var documentSchema = map[string]any{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type":    "object",
	"required": []any{
		"items",
	},
	"properties": map[string]any{
		"metadata": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"doc_type":      map[string]any{"type": []any{"string", "null"}},
				"document_id":   map[string]any{"type": []any{"string", "null"}},
				"date":          map[string]any{"type": []any{"string", "null"}},
				"vendor_name":   map[string]any{"type": []any{"string", "null"}},
				"customer_name": map[string]any{"type": []any{"string", "null"}},
			},
		},
		"items": map[string]any{
			"type":  "array",
			"items": lineItemSchema,
		},
		"subtotal":       amountSchema,
		"total_discount": amountSchema,
		"taxable_amount": amountSchema,
		"tax":            amountSchema,
		"tax_rate":       amountSchema,
		"total":          amountSchema,
		"notes":          map[string]any{"type": []any{"string", "null"}},
		"raw_text":       map[string]any{"type": []any{"string", "null"}},
	},
}
