package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docrecon/internal/domain"
	"docrecon/internal/handler"
	"docrecon/internal/middleware"
	"docrecon/internal/port"
	"docrecon/internal/reconcile"
	"docrecon/internal/report"
	"docrecon/internal/service"
	"docrecon/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const compareBody = `{
	"purchase_order": {"metadata": {"document_id": "PO-1"}, "items": [{"item_no": "B-1", "description": "Bolt", "quantity": 10, "unit_price": 2.5}]},
	"invoice": {"metadata": {"document_id": "PI-1"}, "items": [{"item_no": "B-1", "description": "Bolt", "quantity": 10, "unit_price": 2.5}]},
	"tolerances": {"quantity_tolerance": 1, "price_tolerance": 0.5},
	"key_strategy": "sku"
}`

func newComparisonHandler() (*handler.ComparisonHandler, *mocks.MockComparisonService, *mocks.MockDocumentParser) {
	svc := new(mocks.MockComparisonService)
	parser := new(mocks.MockDocumentParser)
	return handler.NewComparisonHandler(svc, parser), svc, parser
}

func newTestContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, target, http.NoBody)
	} else {
		req, _ = http.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	c.Set(middleware.ContextKeySubject, "reviewer-1")
	c.Set(middleware.ContextKeyRole, string(domain.RoleReviewer))
	return c, w
}

func parseDocType(docType domain.DocumentType) interface{} {
	return mock.MatchedBy(func(in port.ParseInput) bool {
		return in.DocumentType == docType && in.ContentType == "application/json"
	})
}

func sampleRun() *domain.ComparisonRun {
	run := domain.NewComparisonRun(domain.DocumentComparison{
		PODocumentID:       "PO-1",
		InvoiceDocumentID:  "PI-1",
		TotalItemsCompared: 1,
		MatchingItems:      1,
	}, nil, "hash", 1, 0.5, "reviewer-1")
	run.CreatedAt = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	return run
}

func decode(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestComparisonHandler_Create_Success(t *testing.T) {
	h, svc, parser := newComparisonHandler()
	parser.On("Parse", mock.Anything, parseDocType(domain.DocTypePurchaseOrder)).Return(domain.ExtractedDocument{}, nil)
	parser.On("Parse", mock.Anything, parseDocType(domain.DocTypeProformaInvoice)).Return(domain.ExtractedDocument{}, nil)
	svc.On("Compare", mock.Anything, mock.MatchedBy(func(in service.CompareInput) bool {
		return in.CreatedBy == "reviewer-1" &&
			in.KeyStrategy == "sku" &&
			in.Tolerances.Apply(reconcile.DefaultTolerances()) == reconcile.Tolerances{QuantityPct: 1, PricePct: 0.5}
	})).Return(sampleRun(), nil)

	c, w := newTestContext(http.MethodPost, "/api/v1/comparisons", compareBody)
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "PO-1", data["po_document_id"])
	svc.AssertExpectations(t)
	parser.AssertExpectations(t)
}

func TestComparisonHandler_Create_PartialTolerances(t *testing.T) {
	h, svc, parser := newComparisonHandler()
	parser.On("Parse", mock.Anything, mock.Anything).Return(domain.ExtractedDocument{}, nil)

	var got service.CompareInput
	svc.On("Compare", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(service.CompareInput) }).
		Return(sampleRun(), nil)

	body := `{"purchase_order": {"items": []}, "invoice": {"items": []}, "tolerances": {"quantity_tolerance": 5}}`
	c, w := newTestContext(http.MethodPost, "/api/v1/comparisons", body)
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, got.Tolerances)
	require.NotNil(t, got.Tolerances.QuantityPct)
	assert.Equal(t, 5.0, *got.Tolerances.QuantityPct)
	assert.Nil(t, got.Tolerances.PricePct)
	assert.Equal(t,
		reconcile.Tolerances{QuantityPct: 5, PricePct: 0.01},
		got.Tolerances.Apply(reconcile.DefaultTolerances()),
	)
}

func TestComparisonHandler_Create_MissingInvoice(t *testing.T) {
	h, svc, _ := newComparisonHandler()

	c, w := newTestContext(http.MethodPost, "/api/v1/comparisons", `{"purchase_order": {}}`)
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decode(t, w).Error.Code)
	svc.AssertNotCalled(t, "Compare", mock.Anything, mock.Anything)
}

func TestComparisonHandler_Create_InvalidDocument(t *testing.T) {
	h, svc, parser := newComparisonHandler()
	verr := domain.NewValidationError(domain.ErrInvalidLineItem, "items[0].quantity", "must be finite")
	parser.On("Parse", mock.Anything, parseDocType(domain.DocTypePurchaseOrder)).Return(domain.ExtractedDocument{}, verr)

	c, w := newTestContext(http.MethodPost, "/api/v1/comparisons", compareBody)
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "INVALID_LINE_ITEM", resp.Error.Code)
	assert.Equal(t, "purchase_order.items[0].quantity", resp.Error.Field)
	assert.Equal(t, "must be finite", resp.Error.Message)
	svc.AssertNotCalled(t, "Compare", mock.Anything, mock.Anything)
}

func TestComparisonHandler_Create_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"bad tolerance", domain.NewValidationError(domain.ErrInvalidTolerance, "quantity_tolerance", "must not be negative"), http.StatusBadRequest, "INVALID_TOLERANCE"},
		{"bad key strategy", domain.ErrInvalidKeyStrategy, http.StatusBadRequest, "INVALID_KEY_STRATEGY"},
		{"storage down", errors.New("connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, svc, parser := newComparisonHandler()
			parser.On("Parse", mock.Anything, mock.Anything).Return(domain.ExtractedDocument{}, nil)
			svc.On("Compare", mock.Anything, mock.Anything).Return(nil, tt.err)

			c, w := newTestContext(http.MethodPost, "/api/v1/comparisons", compareBody)
			h.Create(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decode(t, w).Error.Code)
		})
	}
}

func TestComparisonHandler_Batch(t *testing.T) {
	h, svc, parser := newComparisonHandler()
	parser.On("Parse", mock.Anything, mock.Anything).Return(domain.ExtractedDocument{}, nil)
	svc.On("CompareBatch", mock.Anything, mock.MatchedBy(func(in []service.CompareInput) bool {
		return len(in) == 2
	})).Return([]*domain.ComparisonRun{sampleRun(), sampleRun()}, nil)

	body := `{"pairs": [` + compareBody + `,` + compareBody + `]}`
	c, w := newTestContext(http.MethodPost, "/api/v1/comparisons/batch", body)
	h.Batch(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decode(t, w).Data.([]interface{})
	assert.Len(t, data, 2)
	parser.AssertNumberOfCalls(t, "Parse", 4)
}

func TestComparisonHandler_Batch_Errors(t *testing.T) {
	t.Run("empty pairs", func(t *testing.T) {
		h, _, _ := newComparisonHandler()
		c, w := newTestContext(http.MethodPost, "/api/v1/comparisons/batch", `{"pairs": []}`)
		h.Batch(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("too large", func(t *testing.T) {
		h, svc, parser := newComparisonHandler()
		parser.On("Parse", mock.Anything, mock.Anything).Return(domain.ExtractedDocument{}, nil)
		svc.On("CompareBatch", mock.Anything, mock.Anything).Return(nil, domain.ErrBatchTooLarge)

		c, w := newTestContext(http.MethodPost, "/api/v1/comparisons/batch", `{"pairs": [`+compareBody+`]}`)
		h.Batch(c)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("field names carry the pair index", func(t *testing.T) {
		h, _, parser := newComparisonHandler()
		parser.On("Parse", mock.Anything, mock.Anything).
			Return(domain.ExtractedDocument{}, domain.NewValidationError(domain.ErrInvalidDocument, "items", "must not be empty"))

		c, w := newTestContext(http.MethodPost, "/api/v1/comparisons/batch", `{"pairs": [`+compareBody+`]}`)
		h.Batch(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "pairs[0].purchase_order.items", decode(t, w).Error.Field)
	})
}

func TestComparisonHandler_List(t *testing.T) {
	h, svc, _ := newComparisonHandler()
	svc.On("List", mock.Anything, port.ComparisonListFilter{
		PODocumentID: "PO-1",
		MinSeverity:  domain.SeverityHigh,
		Offset:       10,
		Limit:        20,
	}).Return([]domain.ComparisonRun{*sampleRun()}, 11, nil)

	c, w := newTestContext(http.MethodGet, "/api/v1/comparisons?offset=10&limit=500&po_document_id=PO-1&min_severity=high", "")
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 11, resp.Meta.Total)
	assert.Equal(t, 10, resp.Meta.Offset)
	assert.Equal(t, 20, resp.Meta.Limit)
	svc.AssertExpectations(t)
}

func TestComparisonHandler_List_InvalidSeverity(t *testing.T) {
	h, _, _ := newComparisonHandler()
	c, w := newTestContext(http.MethodGet, "/api/v1/comparisons?min_severity=urgent", "")
	h.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestComparisonHandler_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		h, svc, _ := newComparisonHandler()
		run := sampleRun()
		svc.On("Get", mock.Anything, run.ID).Return(run, nil)

		c, w := newTestContext(http.MethodGet, "/api/v1/comparisons/"+run.ID.String(), "")
		c.Params = gin.Params{{Key: "id", Value: run.ID.String()}}
		h.GetByID(c)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		h, svc, _ := newComparisonHandler()
		id := uuid.New()
		svc.On("Get", mock.Anything, id).Return(nil, domain.ErrComparisonNotFound)

		c, w := newTestContext(http.MethodGet, "/api/v1/comparisons/"+id.String(), "")
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		h.GetByID(c)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "COMPARISON_NOT_FOUND", decode(t, w).Error.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		h, _, _ := newComparisonHandler()
		c, w := newTestContext(http.MethodGet, "/api/v1/comparisons/nope", "")
		c.Params = gin.Params{{Key: "id", Value: "nope"}}
		h.GetByID(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_ID", decode(t, w).Error.Code)
	})
}

func TestComparisonHandler_Delete(t *testing.T) {
	h, svc, _ := newComparisonHandler()
	id := uuid.New()
	svc.On("Delete", mock.Anything, id).Return(nil)

	c, w := newTestContext(http.MethodDelete, "/api/v1/comparisons/"+id.String(), "")
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestComparisonHandler_Report(t *testing.T) {
	h, svc, _ := newComparisonHandler()
	run := sampleRun()
	svc.On("RenderReport", mock.Anything, run.ID, report.FormatCSV, mock.Anything).Return(run, "SKU,Description\n", nil)

	c, w := newTestContext(http.MethodGet, "/api/v1/comparisons/"+run.ID.String()+"/report?format=csv", "")
	c.Params = gin.Params{{Key: "id", Value: run.ID.String()}}
	h.Report(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="PO-1_vs_PI-1_2025-03-14.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "SKU,Description\n", w.Body.String())
}

func TestComparisonHandler_Report_UnsupportedFormat(t *testing.T) {
	h, svc, _ := newComparisonHandler()
	id := uuid.New()

	c, w := newTestContext(http.MethodGet, "/api/v1/comparisons/"+id.String()+"/report?format=pdf", "")
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.Report(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UNSUPPORTED_FORMAT", decode(t, w).Error.Code)
	svc.AssertNotCalled(t, "RenderReport", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestComparisonHandler_ArchiveURL(t *testing.T) {
	t.Run("presigned", func(t *testing.T) {
		h, svc, _ := newComparisonHandler()
		id := uuid.New()
		svc.On("ArchiveURL", mock.Anything, id, report.FormatExcel).Return("https://bucket.s3/x.xlsx?sig", nil)

		c, w := newTestContext(http.MethodGet, "/api/v1/comparisons/"+id.String()+"/archive?format=xlsx", "")
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		h.ArchiveURL(c)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decode(t, w).Data.(map[string]interface{})
		assert.Equal(t, "https://bucket.s3/x.xlsx?sig", data["url"])
	})

	t.Run("archive disabled", func(t *testing.T) {
		h, svc, _ := newComparisonHandler()
		id := uuid.New()
		svc.On("ArchiveURL", mock.Anything, id, report.FormatJSON).Return("", domain.ErrStorageDisabled)

		c, w := newTestContext(http.MethodGet, "/api/v1/comparisons/"+id.String()+"/archive", "")
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		h.ArchiveURL(c)

		assert.Equal(t, http.StatusNotImplemented, w.Code)
	})
}
