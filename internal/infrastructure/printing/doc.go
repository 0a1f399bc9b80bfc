// Package printing renders shipping documents and turns them into PDFs.
//
// This package contains:
//   - TemplateEngine, one html/template set shared by the screen, print and
//     export presentations plus the list, form and not-found pages
//   - DocumentView, the field-resolution model every presentation reads from
//   - ImageBarrier, which waits for every image of a page to settle and inlines it
//   - ChromedpConverter, a PDFConverter backed by headless Chrome
//   - FileSystemArchive, a local archive for produced PDFs
//
// Example usage:
//
//	engine, err := NewTemplateEngine()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	view := NewDocumentView(doc, printing.VariantPrint, ViewOptions{PublicBaseURL: "https://docs.example.com"})
//	if err := engine.RenderDocument(w, view); err != nil {
//	    log.Fatal(err)
//	}
package printing
