package printing

import "github.com/shipdocs/backend/internal/domain/shared"

// Margins represents the page margins in millimeters
type Margins struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// NewMargins creates a new Margins value object
func NewMargins(top, right, bottom, left int) (Margins, error) {
	if top < 0 || right < 0 || bottom < 0 || left < 0 {
		return Margins{}, shared.NewDomainError("INVALID_MARGINS", "Margins cannot be negative")
	}
	if top > 100 || right > 100 || bottom > 100 || left > 100 {
		return Margins{}, shared.NewDomainError("INVALID_MARGINS", "Margins cannot exceed 100mm")
	}
	return Margins{Top: top, Right: right, Bottom: bottom, Left: left}, nil
}

// UniformMargins returns the same margin on every side
func UniformMargins(mm int) Margins {
	return Margins{Top: mm, Right: mm, Bottom: mm, Left: mm}
}

// DefaultMargins returns the margins of the exported PDF
func DefaultMargins() Margins {
	return UniformMargins(10)
}

// PrintMargins returns the margins declared by the print stylesheet
func PrintMargins() Margins {
	return UniformMargins(15)
}

// IsZero returns true if all margins are zero
func (m Margins) IsZero() bool {
	return m.Top == 0 && m.Right == 0 && m.Bottom == 0 && m.Left == 0
}

// Equals checks if two Margins are equal
func (m Margins) Equals(other Margins) bool {
	return m == other
}

// PageSettings describes how a rendered document is laid out on paper
type PageSettings struct {
	PaperSize    PaperSize
	Orientation  Orientation
	Margins      Margins
	ImageQuality float64 // JPEG quality in (0, 1]
	Scale        float64 // device scale factor used while rasterizing
	PageBreaks   []PageBreakMode
}

// ExportSettings returns the fixed settings every PDF export uses.
// Callers cannot override them.
func ExportSettings() PageSettings {
	return PageSettings{
		PaperSize:    PaperSizeA4,
		Orientation:  OrientationPortrait,
		Margins:      DefaultMargins(),
		ImageQuality: 0.98,
		Scale:        2,
		PageBreaks:   []PageBreakMode{PageBreakAvoidAll, PageBreakCSS, PageBreakLegacy},
	}
}

// JPEGQuality converts ImageQuality to the 1-100 scale used by image encoders
func (s PageSettings) JPEGQuality() int {
	q := int(s.ImageQuality*100 + 0.5)
	if q < 1 {
		return 1
	}
	if q > 100 {
		return 100
	}
	return q
}

// AvoidsBreaks reports whether sections must never be split across pages
func (s PageSettings) AvoidsBreaks() bool {
	for _, m := range s.PageBreaks {
		if m == PageBreakAvoidAll {
			return true
		}
	}
	return false
}
