package printing

import (
	"github.com/shipdocs/backend/internal/domain/printing"
	"github.com/shipdocs/backend/internal/domain/shipping"
)

// RenderRequest asks for one presentation of a stored document
type RenderRequest struct {
	DocumentID string
	Variant    printing.Variant
	// Interactive adds the download button to the export sheet
	Interactive bool
	// Busy renders that button disabled while an export is running
	Busy bool
}

// RenderResponse is a rendered page
type RenderResponse struct {
	Document *shipping.ShippingDocument
	HTML     []byte
	// Filename is set for presentations served as a file
	Filename string
}

// PrintFilename is the inline name of the print page: document-<number-or-id>.html
func PrintFilename(doc *shipping.ShippingDocument) string {
	return "document-" + doc.DisplayNumber() + ".html"
}
