// Package printing holds the page vocabulary shared by every presentation of
// a shipping document: which variant is rendered, on what paper, with which
// margins, and the fixed settings the PDF export always uses.
package printing
