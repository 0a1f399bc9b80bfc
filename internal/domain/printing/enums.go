package printing

// Variant selects one presentation of a shipping document
type Variant string

const (
	VariantScreen Variant = "screen" // read view in the browser
	VariantPrint  Variant = "print"  // static HTML for the browser print dialog
	VariantExport Variant = "export" // interactive sheet that is turned into a PDF
)

// IsValid checks if the Variant is a valid value
func (v Variant) IsValid() bool {
	switch v {
	case VariantScreen, VariantPrint, VariantExport:
		return true
	}
	return false
}

// String returns the string representation of Variant
func (v Variant) String() string {
	return string(v)
}

// AllVariants returns all valid Variant values
func AllVariants() []Variant {
	return []Variant{VariantScreen, VariantPrint, VariantExport}
}

// PaperSize represents the paper size for printing
type PaperSize string

const (
	PaperSizeA4 PaperSize = "A4" // 210mm x 297mm
	PaperSizeA5 PaperSize = "A5" // 148mm x 210mm
)

// IsValid checks if the PaperSize is a valid value
func (p PaperSize) IsValid() bool {
	switch p {
	case PaperSizeA4, PaperSizeA5:
		return true
	}
	return false
}

// String returns the string representation of PaperSize
func (p PaperSize) String() string {
	return string(p)
}

// Dimensions returns the paper dimensions in millimeters (width, height)
func (p PaperSize) Dimensions() (width, height int) {
	switch p {
	case PaperSizeA5:
		return 148, 210
	default:
		return 210, 297
	}
}

// Orientation represents the page orientation for printing
type Orientation string

const (
	OrientationPortrait  Orientation = "PORTRAIT"
	OrientationLandscape Orientation = "LANDSCAPE"
)

// IsValid checks if the Orientation is a valid value
func (o Orientation) IsValid() bool {
	switch o {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// String returns the string representation of Orientation
func (o Orientation) String() string {
	return string(o)
}

// PageBreakMode controls how the converter keeps sections together
type PageBreakMode string

const (
	PageBreakAvoidAll PageBreakMode = "avoid-all"
	PageBreakCSS      PageBreakMode = "css"
	PageBreakLegacy   PageBreakMode = "legacy"
)
