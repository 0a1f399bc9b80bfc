package printing

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/shipdocs/backend/internal/domain/printing"
	"github.com/shipdocs/backend/internal/domain/shipping"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// StaticFS returns the embedded static assets (logo)
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Template names
const (
	tmplList     = "list"
	tmplForm     = "form"
	tmplNotFound = "not_found"
	tmplError    = "error"
)

// TemplateEngine renders every page of the application from one html/template set.
// The three document presentations share the section partials in sections.tmpl.
type TemplateEngine struct {
	funcMap   template.FuncMap
	templates *template.Template
	dir       string
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithTemplateDir loads templates from dir instead of the embedded set
func WithTemplateDir(dir string) TemplateEngineOption {
	return func(e *TemplateEngine) {
		e.dir = dir
	}
}

// NewTemplateEngine parses the template set
func NewTemplateEngine(opts ...TemplateEngineOption) (*TemplateEngine, error) {
	e := &TemplateEngine{}
	e.funcMap = template.FuncMap{
		"fallback":   fallback,
		"formatDate": formatDate,
		"party":      partyView,
		"input":      newInputField,
		"inc":        func(i int) int { return i + 1 },
		"cargoField": cargoField,
	}

	for _, opt := range opts {
		opt(e)
	}

	var source fs.FS = templateFS
	pattern := "templates/*.tmpl"
	if e.dir != "" {
		source = os.DirFS(e.dir)
		pattern = "*.tmpl"
	}

	tmpl, err := template.New("shipdocs").Funcs(e.funcMap).ParseFS(source, pattern)
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to parse templates", err)
	}
	for _, name := range []string{
		string(printing.VariantScreen), string(printing.VariantPrint), string(printing.VariantExport),
		tmplList, tmplForm, tmplNotFound, tmplError,
	} {
		if tmpl.Lookup(name) == nil {
			return nil, NewRenderError(ErrCodeTemplateMissing, "template not defined: "+name, nil)
		}
	}
	e.templates = tmpl
	return e, nil
}

// RenderDocument writes one presentation of a document
func (e *TemplateEngine) RenderDocument(w io.Writer, view *DocumentView) error {
	if view == nil || view.Doc == nil {
		return NewRenderError(ErrCodeRenderFailed, "document view is nil", nil)
	}
	if !view.Variant.IsValid() {
		return NewRenderError(ErrCodeRenderFailed, "unknown variant: "+string(view.Variant), nil)
	}
	return e.execute(w, string(view.Variant), view)
}

// RenderDocumentBytes renders a presentation into memory
func (e *TemplateEngine) RenderDocumentBytes(view *DocumentView) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.RenderDocument(&buf, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderList writes the document list page
func (e *TemplateEngine) RenderList(w io.Writer, view *ListView) error {
	return e.execute(w, tmplList, view)
}

// RenderForm writes the new-document form
func (e *TemplateEngine) RenderForm(w io.Writer, view *FormView) error {
	return e.execute(w, tmplForm, view)
}

// RenderNotFound writes the missing-document page
func (e *TemplateEngine) RenderNotFound(w io.Writer, message string) error {
	return e.execute(w, tmplNotFound, MessageView{Title: "غير موجود", Message: message})
}

// RenderErrorPage writes a generic error page
func (e *TemplateEngine) RenderErrorPage(w io.Writer, message string) error {
	return e.execute(w, tmplError, MessageView{Title: "خطأ", Message: message})
}

// execute renders into a buffer first so a failing template never leaves a
// half-written response behind
func (e *TemplateEngine) execute(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return NewRenderError(ErrCodeRenderFailed, "failed to execute template "+name, err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return NewRenderError(ErrCodeRenderFailed, "failed to write "+name, err)
	}
	return nil
}

// PartyView is a sender or recipient block
type PartyView struct {
	Role  string
	Title string
	Party shipping.Party
}

func partyView(doc *shipping.ShippingDocument, role string) PartyView {
	r := shipping.PartyRole(role)
	return PartyView{Role: role, Title: partyTitle(r), Party: doc.Party(r)}
}

func partyTitle(role shipping.PartyRole) string {
	if role == shipping.RoleRecipient {
		return "بيانات المرسل إليه"
	}
	return "بيانات المرسل"
}

type inputField struct {
	Name     string
	Label    string
	Value    string
	Type     string
	Required bool
}

func newInputField(name, label string, value any, typ string, required bool) inputField {
	return inputField{Name: name, Label: label, Value: fallback(value, ""), Type: typ, Required: required}
}

// cargoField is the form key of one cargo cell: cargo_items[0][description]
func cargoField(i int, field string) string {
	return fmt.Sprintf("%s[%d][%s]", shipping.FieldCargoItems, i, field)
}

// MessageView backs the not-found and error pages
type MessageView struct {
	Title   string
	Message string
}

// ListItem is one row of the document list
type ListItem struct {
	ID          string
	Number      string
	Status      string
	ReceiptDate string
	CreatedDate string
	Carrier     string
	Driver      string
	Route       string
}

// ListView backs the document list page
type ListView struct {
	Title string
	Items []ListItem
}

// NewListView summarizes documents, newest first as given
func NewListView(docs []*shipping.ShippingDocument) *ListView {
	items := make([]ListItem, 0, len(docs))
	for _, d := range docs {
		item := ListItem{
			ID:          d.ID,
			Number:      d.DisplayNumber(),
			Status:      fallback(d.Status, ""),
			ReceiptDate: d.ReceiptDate,
			CreatedDate: formatDate(d.CreatedAt),
			Carrier:     d.Carrier.Name,
			Driver:      d.Driver.Name,
		}
		if d.Route.FromCity != "" && d.Route.ToCity != "" {
			item.Route = d.Route.FromCity + " ← " + d.Route.ToCity
		}
		items = append(items, item)
	}
	return &ListView{Title: "الوثائق", Items: items}
}

// FormView backs the new-document form
type FormView struct {
	Title      string
	Draft      *shipping.ShippingDocument
	Negotiable string
	Error      string
	Parties    []PartyView
	Statuses   []shipping.Status
	IDTypes    []shipping.DriverIDType
	Payers     []shipping.Payer
	Units      []shipping.CargoUnit
	Conditions []shipping.CargoCondition
}

// NewFormView prepares the form for draft; errMsg is shown above the form when set
func NewFormView(draft *shipping.ShippingDocument, errMsg string) *FormView {
	negotiable := ""
	if draft.IsNegotiable != nil {
		negotiable = strconv.FormatBool(*draft.IsNegotiable)
	}
	return &FormView{
		Title:      "وثيقة نقل جديدة",
		Draft:      draft,
		Negotiable: negotiable,
		Error:      errMsg,
		Parties: []PartyView{
			partyView(draft, string(shipping.RoleSender)),
			partyView(draft, string(shipping.RoleRecipient)),
		},
		Statuses:   withCurrent(shipping.AllStatuses(), draft.Status),
		IDTypes:    withCurrent(shipping.AllDriverIDTypes(), draft.Driver.IDType),
		Payers:     withCurrent(shipping.AllPayers(), draft.Payment.By),
		Units:      shipping.AllCargoUnits(),
		Conditions: shipping.AllCargoConditions(),
	}
}

// withCurrent keeps a free-form value selectable when it is not one of the offered options
func withCurrent[T ~string](options []T, current T) []T {
	if current == "" {
		return options
	}
	for _, o := range options {
		if o == current {
			return options
		}
	}
	return append(options, current)
}
