package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"docrecon/internal/domain"
	"docrecon/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrComparisonNotFound):
		return http.StatusNotFound, "COMPARISON_NOT_FOUND", "comparison not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrInvalidDocument):
		return http.StatusBadRequest, "INVALID_DOCUMENT", "document failed validation"
	case errors.Is(err, domain.ErrInvalidLineItem):
		return http.StatusBadRequest, "INVALID_LINE_ITEM", "line item failed validation"
	case errors.Is(err, domain.ErrInvalidTolerance):
		return http.StatusBadRequest, "INVALID_TOLERANCE", "tolerances must be non-negative numbers"
	case errors.Is(err, domain.ErrInvalidKeyStrategy):
		return http.StatusBadRequest, "INVALID_KEY_STRATEGY", "invalid key strategy; allowed: description, sku"
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusBadRequest, "UNSUPPORTED_FORMAT", "unsupported report format; allowed: json, csv, xlsx"
	case errors.Is(err, domain.ErrBatchTooLarge):
		return http.StatusRequestEntityTooLarge, "BATCH_TOO_LARGE", "batch exceeds maximum number of pairs"
	case errors.Is(err, domain.ErrStorageDisabled):
		return http.StatusNotImplemented, "ARCHIVE_DISABLED", "report archive is not configured"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "report upload to storage failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
// Validation errors carry the rejected field and reason.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		middleware.LoggerFrom(c).Error("internal error", zap.Error(err))
	}

	apiErr := &APIError{Code: code, Message: msg}
	var verr *domain.ValidationError
	if status == http.StatusBadRequest && errors.As(err, &verr) {
		apiErr.Field = verr.Field
		apiErr.Message = verr.Reason
	}
	c.JSON(status, APIResponse{Success: false, Error: apiErr})
}
