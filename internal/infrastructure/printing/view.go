package printing

import (
	"fmt"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shipdocs/backend/internal/domain/printing"
	"github.com/shipdocs/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
)

// Placeholders rendered in place of absent values
const (
	DateUnsetText      = "لم يحدد"
	EmptyCargoText     = "لا توجد بيانات بضاعة"
	YesText            = "نعم"
	NoText             = "لا"
	DefaultTruckLabel  = "تريلا"
	DownloadIdleText   = "تحميل PDF"
	DownloadBusyText   = "جارٍ التحويل..."
	DisclaimerText     = "دون أدنى مسؤولية على محتويات الوثيقة"
	DocumentTitleText  = "وثيقة نقل"
	CargoManifestTitle = "وثيقة بيان حمولة"
)

const (
	defaultQREndpoint = "https://api.qrserver.com/v1/create-qr-code/"
	defaultQRSize     = 120
)

// ViewOptions carries the deployment-specific parts of a page
type ViewOptions struct {
	// PublicBaseURL is the externally reachable origin used in QR payloads
	PublicBaseURL string
	// QREndpoint is the QR image service; the payload is passed as "data"
	QREndpoint string
	// QRSize is the QR image edge in pixels
	QRSize int
	// LogoURL is shown at the top of the export sheet when set
	LogoURL string
	// Interactive adds the download button to the export sheet
	Interactive bool
	// Busy renders the download button in its disabled state
	Busy bool
}

// CargoRow is one rendered line of the cargo table
type CargoRow struct {
	Index       int
	Description string
	Quantity    string
	Weight      string
	Unit        string
	Dimensions  string
	Status      string
}

// DocumentView is the single field-resolution model shared by every presentation.
// Templates read resolved strings from it and never see absent values.
type DocumentView struct {
	Variant printing.Variant
	Doc     *shipping.ShippingDocument

	Title      string
	PaperSize  printing.PaperSize
	MarginMM   int
	RouteLine  string
	TruckLabel string
	Negotiable string
	CargoRows  []CargoRow

	ShowManifest bool

	DocumentURL string
	QRCodeURL   string
	LogoURL     string
	DownloadURL string
	PrintURL    string
	ExportURL   string

	Interactive bool
	Busy        bool
}

// NewDocumentView resolves every field of doc for the given variant
func NewDocumentView(doc *shipping.ShippingDocument, variant printing.Variant, opts ViewOptions) *DocumentView {
	margins := printing.DefaultMargins()
	if variant == printing.VariantPrint {
		margins = printing.PrintMargins()
	}

	v := &DocumentView{
		Variant:      variant,
		Doc:          doc,
		Title:        DocumentTitleText + " - " + doc.DisplayNumber(),
		PaperSize:    printing.PaperSizeA4,
		MarginMM:     margins.Top,
		RouteLine:    RouteLine(doc.Route),
		TruckLabel:   fallback(doc.Truck.Type, DefaultTruckLabel),
		Negotiable:   YesNo(doc.IsNegotiable),
		CargoRows:    CargoRows(doc.CargoItems),
		ShowManifest: doc.ShowsCargoManifest(),
		DocumentURL:  DocumentURL(opts.PublicBaseURL, doc.ID),
		LogoURL:      opts.LogoURL,
		DownloadURL:  "/documents/" + url.PathEscape(doc.ID) + "/pdf/download",
		PrintURL:     "/api/pdf/" + url.PathEscape(doc.ID),
		ExportURL:    "/documents/" + url.PathEscape(doc.ID) + "/pdf",
		Interactive:  opts.Interactive && variant == printing.VariantExport,
		Busy:         opts.Busy,
	}
	if variant == printing.VariantExport {
		v.QRCodeURL = QRCodeURL(opts.QREndpoint, opts.QRSize, v.DocumentURL)
	}
	return v
}

// DocumentURL is the public address of the screen view of a document
func DocumentURL(baseURL, id string) string {
	return strings.TrimRight(baseURL, "/") + "/documents/" + url.PathEscape(id)
}

// QRCodeURL builds the QR image address encoding payload
func QRCodeURL(endpoint string, size int, payload string) string {
	if endpoint == "" {
		endpoint = defaultQREndpoint
	}
	if size <= 0 {
		size = defaultQRSize
	}
	return fmt.Sprintf("%s?size=%dx%d&data=%s", endpoint, size, size, url.QueryEscape(payload))
}

// RouteLine renders the route as one sentence, empty parts stay empty
func RouteLine(r shipping.Route) string {
	return fmt.Sprintf("من %s, %s الى %s, %s",
		fallback(r.FromCity, ""), fallback(r.FromCountry, ""),
		fallback(r.ToCity, ""), fallback(r.ToCountry, ""))
}

// YesNo renders the negotiability answer; an unanswered question renders empty
func YesNo(b *bool) string {
	if b == nil {
		return ""
	}
	if *b {
		return YesText
	}
	return NoText
}

// CargoRows resolves the cargo lines in their original order
func CargoRows(items []shipping.CargoItem) []CargoRow {
	rows := make([]CargoRow, 0, len(items))
	for i, item := range items {
		rows = append(rows, CargoRow{
			Index:       i + 1,
			Description: fallback(item.Description, ""),
			Quantity:    formatNumber(item.Quantity),
			Weight:      formatNumber(item.Weight),
			Unit:        fallback(item.Unit, ""),
			Dimensions:  fallback(item.Dimensions, ""),
			Status:      fallback(item.Status, ""),
		})
	}
	return rows
}

// fallback returns alt for nil, empty strings and nil pointers, otherwise the
// value's text. It is the only place absent values are resolved.
func fallback(v any, alt string) string {
	if v == nil {
		return alt
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return alt
		}
		rv = rv.Elem()
	}

	var s string
	switch rv.Kind() {
	case reflect.String:
		s = rv.String()
	case reflect.Bool:
		s = strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		s = strconv.FormatInt(rv.Int(), 10)
	case reflect.Float32, reflect.Float64:
		s = formatNumber(rv.Float())
	default:
		if t, ok := rv.Interface().(time.Time); ok {
			if t.IsZero() {
				return alt
			}
			return t.Format("2006-01-02")
		}
		s = fmt.Sprint(rv.Interface())
	}
	if s == "" {
		return alt
	}
	return s
}

// formatNumber renders a number without trailing zeros: 5 -> "5", 7.50 -> "7.5"
func formatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return decimal.NewFromFloat(f).String()
}

// formatDate renders a timestamp as a calendar date
func formatDate(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func toTime(v any) time.Time {
	switch val := v.(type) {
	case time.Time:
		return val
	case *time.Time:
		if val == nil {
			return time.Time{}
		}
		return *val
	case string:
		for _, f := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(f, val); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
