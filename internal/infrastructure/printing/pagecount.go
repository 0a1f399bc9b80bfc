package printing

import (
	"bytes"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFInspector reads facts back from produced PDFs
type PDFInspector struct {
	conf *model.Configuration
}

// NewPDFInspector creates a PDFInspector with relaxed validation
func NewPDFInspector() *PDFInspector {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFInspector{conf: conf}
}

// PageCount returns the number of pages of pdf
func (p *PDFInspector) PageCount(pdf []byte) (int, error) {
	if len(pdf) == 0 {
		return 0, NewRenderError(ErrCodeInvalidPDF, "PDF is empty", nil)
	}
	n, err := api.PageCount(bytes.NewReader(pdf), p.conf)
	if err != nil {
		return 0, NewRenderError(ErrCodeInvalidPDF, "failed to read page count", err)
	}
	return n, nil
}
