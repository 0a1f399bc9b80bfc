package dto

import "net/http"

// Error codes follow ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	ErrCodeValidationFormat   = "ERR_VALIDATION_FORMAT"
)

// Resource error codes
const (
	ErrCodeNotFound = "ERR_NOT_FOUND"
	ErrCodeConflict = "ERR_CONFLICT"
)

// Export error codes
const (
	// ErrCodeExportInProgress is returned while another export of the same document runs
	ErrCodeExportInProgress = "ERR_EXPORT_IN_PROGRESS"
	// ErrCodeExportFailed is returned for conversion failures that carry no render code
	ErrCodeExportFailed = "ERR_EXPORT_FAILED"
)

// Render error codes. Conversion failures are not retried and always answer 500.
const (
	ErrCodeRenderTimeout    = "ERR_RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "ERR_RENDER_FAILED"
	ErrCodeInvalidHTML      = "ERR_INVALID_HTML"
	ErrCodeInvalidPaperSize = "ERR_INVALID_PAPER_SIZE"
	ErrCodeTemplateMissing  = "ERR_TEMPLATE_MISSING"
	ErrCodeInvalidPDF       = "ERR_INVALID_PDF"
	ErrCodeStorageFailed    = "ERR_STORAGE_FAILED"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeBodyTooLarge = "ERR_BODY_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,

	ErrCodeNotFound: http.StatusNotFound,
	ErrCodeConflict: http.StatusConflict,

	ErrCodeExportInProgress: http.StatusConflict,
	ErrCodeExportFailed:     http.StatusInternalServerError,

	ErrCodeRenderTimeout:    http.StatusInternalServerError,
	ErrCodeRenderFailed:     http.StatusInternalServerError,
	ErrCodeInvalidHTML:      http.StatusInternalServerError,
	ErrCodeInvalidPaperSize: http.StatusInternalServerError,
	ErrCodeTemplateMissing:  http.StatusInternalServerError,
	ErrCodeInvalidPDF:       http.StatusInternalServerError,
	ErrCodeStorageFailed:    http.StatusInternalServerError,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeBodyTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodes maps shared.DomainError codes to API codes
var domainErrorCodes = map[string]string{
	"NOT_FOUND":          ErrCodeNotFound,
	"INVALID_INPUT":      ErrCodeInvalidInput,
	"REQUIRED":           ErrCodeValidationRequired,
	"EXPORT_IN_PROGRESS": ErrCodeExportInProgress,
	"VALIDATION_ERROR":   ErrCodeValidation,
	"BAD_REQUEST":        ErrCodeBadRequest,
	"INTERNAL_ERROR":     ErrCodeInternal,

	"RENDER_TIMEOUT":     ErrCodeRenderTimeout,
	"RENDER_FAILED":      ErrCodeRenderFailed,
	"INVALID_HTML":       ErrCodeInvalidHTML,
	"INVALID_PAPER_SIZE": ErrCodeInvalidPaperSize,
	"TEMPLATE_MISSING":   ErrCodeTemplateMissing,
	"INVALID_PDF":        ErrCodeInvalidPDF,
	"STORAGE_FAILED":     ErrCodeStorageFailed,
}

// NormalizeErrorCode converts a domain error code to its API code.
// Codes that are already API codes, or unknown, are returned as is.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := domainErrorCodes[code]; ok {
		return apiCode
	}
	return code
}
