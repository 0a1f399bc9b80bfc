package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	appprinting "github.com/shipdocs/backend/internal/application/printing"
	appshipping "github.com/shipdocs/backend/internal/application/shipping"
	"github.com/shipdocs/backend/internal/domain/printing"
	"github.com/shipdocs/backend/internal/domain/shared"
	"github.com/shipdocs/backend/internal/domain/shipping"
	"github.com/shipdocs/backend/internal/infrastructure/logger"
	infra "github.com/shipdocs/backend/internal/infrastructure/printing"
	"go.uber.org/zap"
)

// User-facing messages of the HTML pages
const (
	msgDocumentNotFound = "الوثيقة المطلوبة غير موجودة"
	msgNumberRequired   = "رقم الوثيقة مطلوب"
	msgSaveFailed       = "تعذر حفظ الوثيقة، يرجى المحاولة مرة أخرى"
	msgLoadFailed       = "تعذر تحميل الوثائق"
	msgRenderFailed     = "تعذر عرض الوثيقة"
)

const htmlContentType = "text/html; charset=utf-8"

// PageTemplates renders the non-document pages
type PageTemplates interface {
	RenderList(w io.Writer, view *infra.ListView) error
	RenderForm(w io.Writer, view *infra.FormView) error
	RenderNotFound(w io.Writer, message string) error
	RenderErrorPage(w io.Writer, message string) error
}

// DocumentRenderer renders one presentation of a stored document
type DocumentRenderer interface {
	Render(ctx context.Context, req appprinting.RenderRequest) (*appprinting.RenderResponse, error)
}

// ExportStatus reports whether an export of a document is running
type ExportStatus interface {
	Held(ctx context.Context, key string) (bool, error)
}

// PageHandler serves the HTML pages: list, form, document views and the print page
type PageHandler struct {
	BaseHandler
	documents DocumentService
	renderer  DocumentRenderer
	templates PageTemplates
	exports   ExportStatus
}

// NewPageHandler creates a new PageHandler. exports may be nil, in which
// case the export sheet is always rendered idle.
func NewPageHandler(documents DocumentService, renderer DocumentRenderer, templates PageTemplates, exports ExportStatus) *PageHandler {
	return &PageHandler{
		documents: documents,
		renderer:  renderer,
		templates: templates,
		exports:   exports,
	}
}

// Index sends the root path to the document list
func (h *PageHandler) Index(c *gin.Context) {
	c.Redirect(http.StatusFound, "/documents")
}

// List renders every document, newest first
func (h *PageHandler) List(c *gin.Context) {
	docs, err := h.documents.List(c.Request.Context())
	if err != nil {
		logger.GetGinLogger(c).Error("failed to list documents", zap.Error(err))
		h.errorPage(c, http.StatusInternalServerError, msgLoadFailed)
		return
	}
	h.page(c, http.StatusOK, func(w io.Writer) error {
		return h.templates.RenderList(w, infra.NewListView(docs))
	})
}

// New renders the empty document form
func (h *PageHandler) New(c *gin.Context) {
	draft := shipping.NewDraft()
	h.form(c, http.StatusOK, &draft, "")
}

// Submit handles every button of the form. Add and remove re-render the
// draft; save writes it and redirects to the screen view.
func (h *PageHandler) Submit(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		draft := shipping.NewDraft()
		h.form(c, http.StatusBadRequest, &draft, msgSaveFailed)
		return
	}

	submission := appshipping.ParseForm(c.Request.PostForm)
	draft := submission.Draft()
	if submission.Apply(draft) {
		h.form(c, http.StatusOK, draft, "")
		return
	}

	doc, err := h.documents.Create(c.Request.Context(), draft)
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "REQUIRED" {
			h.form(c, http.StatusBadRequest, draft, msgNumberRequired)
			return
		}
		logger.GetGinLogger(c).Error("failed to save document from form",
			zap.String("document_number", draft.DocumentNumber),
			zap.Error(err))
		h.form(c, http.StatusInternalServerError, draft, msgSaveFailed)
		return
	}

	c.Redirect(http.StatusSeeOther, "/documents/"+doc.ID)
}

// Screen renders the interactive view of a document
func (h *PageHandler) Screen(c *gin.Context) {
	h.document(c, appprinting.RenderRequest{
		DocumentID: c.Param("id"),
		Variant:    printing.VariantScreen,
	})
}

// ExportView renders the export sheet with its download button. The button
// is disabled while an export of the same document is running.
func (h *PageHandler) ExportView(c *gin.Context) {
	id := c.Param("id")
	busy := false
	if h.exports != nil {
		held, err := h.exports.Held(c.Request.Context(), id)
		if err != nil {
			logger.GetGinLogger(c).Warn("failed to read export state", zap.String("document_id", id), zap.Error(err))
		}
		busy = held
	}

	h.document(c, appprinting.RenderRequest{
		DocumentID:  id,
		Variant:     printing.VariantExport,
		Interactive: true,
		Busy:        busy,
	})
}

// Print serves the self-contained print page inline as document-<number>.html.
// Errors use the JSON envelope since the route lives under /api.
func (h *PageHandler) Print(c *gin.Context) {
	resp, err := h.renderer.Render(c.Request.Context(), appprinting.RenderRequest{
		DocumentID: c.Param("id"),
		Variant:    printing.VariantPrint,
	})
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			logger.GetGinLogger(c).Error("failed to render print page", zap.String("document_id", c.Param("id")), zap.Error(err))
		}
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", contentDisposition("inline", resp.Filename))
	c.Data(http.StatusOK, htmlContentType, resp.HTML)
}

func (h *PageHandler) document(c *gin.Context, req appprinting.RenderRequest) {
	resp, err := h.renderer.Render(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.notFound(c)
			return
		}
		logger.GetGinLogger(c).Error("failed to render document",
			zap.String("document_id", req.DocumentID),
			zap.String("variant", string(req.Variant)),
			zap.Error(err))
		h.errorPage(c, http.StatusInternalServerError, msgRenderFailed)
		return
	}
	c.Data(http.StatusOK, htmlContentType, resp.HTML)
}

func (h *PageHandler) form(c *gin.Context, status int, draft *shipping.ShippingDocument, errMsg string) {
	h.page(c, status, func(w io.Writer) error {
		return h.templates.RenderForm(w, infra.NewFormView(draft, errMsg))
	})
}

func (h *PageHandler) notFound(c *gin.Context) {
	h.page(c, http.StatusNotFound, func(w io.Writer) error {
		return h.templates.RenderNotFound(w, msgDocumentNotFound)
	})
}

func (h *PageHandler) errorPage(c *gin.Context, status int, message string) {
	h.page(c, status, func(w io.Writer) error {
		return h.templates.RenderErrorPage(w, message)
	})
}

// page renders into memory so a template failure can still become a plain 500
func (h *PageHandler) page(c *gin.Context, status int, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		logger.GetGinLogger(c).Error("failed to render page", zap.Error(err))
		c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	c.Data(status, htmlContentType, buf.Bytes())
}
