package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docrecon/internal/domain"
	"docrecon/internal/middleware"
	"docrecon/internal/port"
	"docrecon/internal/reconcile"
	"docrecon/internal/report"
	"docrecon/internal/service"
)

// ComparisonHandler handles reconciliation endpoints.
type ComparisonHandler struct {
	comparisonService service.ComparisonService
	parser            port.DocumentParser
}

// NewComparisonHandler creates a new ComparisonHandler.
func NewComparisonHandler(comparisonService service.ComparisonService, parser port.DocumentParser) *ComparisonHandler {
	return &ComparisonHandler{comparisonService: comparisonService, parser: parser}
}

// CompareRequest is one purchase order / proforma invoice pair in extracted form.
type CompareRequest struct {
	PurchaseOrder json.RawMessage               `json:"purchase_order" binding:"required"`
	Invoice       json.RawMessage               `json:"invoice" binding:"required"`
	Tolerances    *reconcile.ToleranceOverrides `json:"tolerances"`
	KeyStrategy   string                        `json:"key_strategy"`
}

// BatchCompareRequest carries several pairs reconciled in one call.
type BatchCompareRequest struct {
	Pairs []CompareRequest `json:"pairs" binding:"required,min=1,dive"`
}

// Create handles POST /api/v1/comparisons
// @Summary Reconcile a purchase order against a proforma invoice
// @Tags comparisons
// @Accept json
// @Produce json
// @Param request body CompareRequest true "Extracted documents and options"
// @Success 201 {object} APIResponse{data=domain.ComparisonRun}
// @Failure 400 {object} APIResponse "Invalid document or options"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /comparisons [post]
func (h *ComparisonHandler) Create(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "purchase_order and invoice are required")
		return
	}

	input, err := h.toCompareInput(c, "", req)
	if err != nil {
		HandleError(c, err)
		return
	}

	run, err := h.comparisonService.Compare(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, run)
}

// Batch handles POST /api/v1/comparisons/batch
// @Summary Reconcile several document pairs
// @Tags comparisons
// @Accept json
// @Produce json
// @Param request body BatchCompareRequest true "Document pairs"
// @Success 201 {object} APIResponse{data=[]domain.ComparisonRun}
// @Failure 400 {object} APIResponse "Invalid document or options"
// @Failure 413 {object} APIResponse "Too many pairs"
// @Security BearerAuth
// @Router /comparisons/batch [post]
func (h *ComparisonHandler) Batch(c *gin.Context) {
	var req BatchCompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "pairs must contain at least one purchase_order/invoice pair")
		return
	}

	inputs := make([]service.CompareInput, 0, len(req.Pairs))
	for i, pair := range req.Pairs {
		input, err := h.toCompareInput(c, fmt.Sprintf("pairs[%d].", i), pair)
		if err != nil {
			HandleError(c, err)
			return
		}
		inputs = append(inputs, input)
	}

	runs, err := h.comparisonService.CompareBatch(c.Request.Context(), inputs)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, runs)
}

// List handles GET /api/v1/comparisons
// @Summary List comparison runs
// @Tags comparisons
// @Produce json
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit" default(20)
// @Param po_document_id query string false "Purchase order number"
// @Param min_severity query string false "Lowest highest-severity to include" Enums(NONE, MEDIUM, HIGH, CRITICAL)
// @Success 200 {object} APIResponse{data=[]domain.ComparisonRun}
// @Security BearerAuth
// @Router /comparisons [get]
func (h *ComparisonHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)
	filter := port.ComparisonListFilter{
		PODocumentID: strings.TrimSpace(c.Query("po_document_id")),
		Offset:       offset,
		Limit:        limit,
	}
	if s := c.Query("min_severity"); s != "" {
		sev := domain.Severity(strings.ToUpper(s))
		if _, ok := validSeverities[sev]; !ok {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "min_severity must be one of NONE, MEDIUM, HIGH, CRITICAL")
			return
		}
		filter.MinSeverity = sev
	}

	runs, total, err := h.comparisonService.List(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, runs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/comparisons/:id
// @Summary Get a comparison run with its full result
// @Tags comparisons
// @Produce json
// @Param id path string true "Comparison ID"
// @Success 200 {object} APIResponse{data=domain.ComparisonRun}
// @Failure 404 {object} APIResponse "Comparison not found"
// @Security BearerAuth
// @Router /comparisons/{id} [get]
func (h *ComparisonHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	run, err := h.comparisonService.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, run)
}

// Delete handles DELETE /api/v1/comparisons/:id
// @Summary Delete a comparison run and its archived reports
// @Tags comparisons
// @Param id path string true "Comparison ID"
// @Success 200 {object} APIResponse
// @Failure 403 {object} APIResponse "Admin role required"
// @Failure 404 {object} APIResponse "Comparison not found"
// @Security BearerAuth
// @Router /comparisons/{id} [delete]
func (h *ComparisonHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.comparisonService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "comparison deleted"})
}

// Report handles GET /api/v1/comparisons/:id/report
// @Summary Download a comparison report
// @Tags comparisons
// @Produce json,text/csv,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Comparison ID"
// @Param format query string false "Report format" Enums(json, csv, xlsx) default(json)
// @Success 200 {file} file
// @Failure 400 {object} APIResponse "Unsupported format"
// @Failure 404 {object} APIResponse "Comparison not found"
// @Security BearerAuth
// @Router /comparisons/{id}/report [get]
func (h *ComparisonHandler) Report(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	format, err := report.ParseFormat(c.DefaultQuery("format", string(report.FormatJSON)))
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	run, err := h.comparisonService.RenderReport(c.Request.Context(), id, format, &buf)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := report.BuildFilename(run.PODocumentID, run.InvoiceDocumentID, format, reportTimestamp(run))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// ArchiveURL handles GET /api/v1/comparisons/:id/archive
// @Summary Get a presigned download URL for an archived report
// @Tags comparisons
// @Produce json
// @Param id path string true "Comparison ID"
// @Param format query string false "Report format" Enums(json, csv, xlsx) default(json)
// @Success 200 {object} APIResponse{data=map[string]string}
// @Failure 404 {object} APIResponse "Comparison or archive not found"
// @Failure 501 {object} APIResponse "Archive not configured"
// @Security BearerAuth
// @Router /comparisons/{id}/archive [get]
func (h *ComparisonHandler) ArchiveURL(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	format, err := report.ParseFormat(c.DefaultQuery("format", string(report.FormatJSON)))
	if err != nil {
		HandleError(c, err)
		return
	}

	url, err := h.comparisonService.ArchiveURL(c.Request.Context(), id, format)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url, "format": format})
}

func (h *ComparisonHandler) toCompareInput(c *gin.Context, fieldPrefix string, req CompareRequest) (service.CompareInput, error) {
	ctx := c.Request.Context()
	po, err := h.parse(ctx, req.PurchaseOrder, domain.DocTypePurchaseOrder, fieldPrefix+"purchase_order")
	if err != nil {
		return service.CompareInput{}, err
	}
	inv, err := h.parse(ctx, req.Invoice, domain.DocTypeProformaInvoice, fieldPrefix+"invoice")
	if err != nil {
		return service.CompareInput{}, err
	}

	subject, _ := middleware.GetSubject(c)
	return service.CompareInput{
		PurchaseOrder: po,
		Invoice:       inv,
		Tolerances:    req.Tolerances,
		KeyStrategy:   req.KeyStrategy,
		CreatedBy:     subject,
	}, nil
}

func (h *ComparisonHandler) parse(ctx context.Context, data json.RawMessage, docType domain.DocumentType, field string) (domain.ExtractedDocument, error) {
	doc, err := h.parser.Parse(ctx, port.ParseInput{
		Data:         data,
		ContentType:  "application/json",
		DocumentType: docType,
	})
	if err != nil {
		return domain.ExtractedDocument{}, prefixField(err, field)
	}
	return doc, nil
}

// prefixField qualifies the field of a validation error with the request
// member it came from.
func prefixField(err error, field string) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		qualified := *verr
		qualified.Field = field + "." + verr.Field
		return &qualified
	}
	return fmt.Errorf("%s: %w", field, err)
}

var validSeverities = map[domain.Severity]struct{}{
	domain.SeverityNone:     {},
	domain.SeverityMedium:   {},
	domain.SeverityHigh:     {},
	domain.SeverityCritical: {},
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid comparison ID")
		return uuid.Nil, false
	}
	return id, true
}

func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}

// reportTimestamp is the fallback date for runs that predate CreatedAt.
func reportTimestamp(run *domain.ComparisonRun) time.Time {
	if run.CreatedAt.IsZero() {
		return time.Now().UTC()
	}
	return run.CreatedAt
}
