package printing

import (
	"context"
	"time"

	"github.com/shipdocs/backend/internal/domain/printing"
)

// ConvertRequest contains the parameters for turning settled HTML into a PDF
type ConvertRequest struct {
	// HTML is a complete document whose images are already inlined
	HTML []byte
	// Settings are the page settings; exports always pass printing.ExportSettings()
	Settings printing.PageSettings
	// Title for the PDF document metadata
	Title string
	// Timeout overrides the default conversion timeout
	Timeout time.Duration
}

// ConvertResult contains the output from a conversion
type ConvertResult struct {
	// PDFData is the raw PDF file content
	PDFData []byte
	// ConvertDuration is how long the conversion took
	ConvertDuration time.Duration
}

// PDFConverter converts HTML to PDF
type PDFConverter interface {
	Convert(ctx context.Context, req *ConvertRequest) (*ConvertResult, error)
	// Close releases any resources held by the converter
	Close() error
}

// RenderError represents an error while rendering a document or converting it to PDF
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
	ErrCodeStorageFailed    = "STORAGE_FAILED"
	ErrCodeTemplateMissing  = "TEMPLATE_MISSING"
	ErrCodeInvalidPDF       = "INVALID_PDF"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
