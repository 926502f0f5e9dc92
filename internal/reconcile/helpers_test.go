package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"docrecon/internal/domain"
)

func lineItem(t *testing.T, sku, desc string, qty, price float64) domain.LineItem {
	t.Helper()
	item, err := domain.NewLineItem(domain.LineItemInput{
		ItemNo:      sku,
		Description: desc,
		Quantity:    qty,
		UnitPrice:   price,
	})
	require.NoError(t, err)
	return item
}

func discountedItem(t *testing.T, sku, desc string, qty, price, pct, amount float64) domain.LineItem {
	t.Helper()
	item, err := domain.NewLineItem(domain.LineItemInput{
		ItemNo:         sku,
		Description:    desc,
		Quantity:       qty,
		UnitPrice:      price,
		DiscountPct:    pct,
		DiscountAmount: amount,
	})
	require.NoError(t, err)
	return item
}

func document(t *testing.T, docType domain.DocumentType, id string, total float64, items ...domain.LineItem) domain.ExtractedDocument {
	t.Helper()
	var subtotal float64
	for _, it := range items {
		subtotal += it.TotalPrice()
	}
	doc, err := domain.NewExtractedDocument(
		domain.DocumentMetadata{DocType: docType, DocumentID: id},
		items,
		domain.DocumentTotals{Subtotal: subtotal, TaxableAmount: subtotal, Total: total},
		"", "",
	)
	require.NoError(t, err)
	return doc
}

func purchaseOrder(t *testing.T, total float64, items ...domain.LineItem) domain.ExtractedDocument {
	t.Helper()
	return document(t, domain.DocTypePurchaseOrder, "PO-1", total, items...)
}

func invoice(t *testing.T, total float64, items ...domain.LineItem) domain.ExtractedDocument {
	t.Helper()
	return document(t, domain.DocTypeProformaInvoice, "PI-1", total, items...)
}
