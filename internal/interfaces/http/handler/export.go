package handler

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shipdocs/backend/internal/application/export"
	"github.com/shipdocs/backend/internal/domain/shared"
	"github.com/shipdocs/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// PageCountHeader carries the page count of a downloaded PDF
const PageCountHeader = "X-Page-Count"

// Exporter produces the PDF of a stored document
type Exporter interface {
	Export(ctx context.Context, id string) (*export.Result, error)
}

// ExportHandler serves PDF downloads
type ExportHandler struct {
	BaseHandler
	exporter Exporter
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exporter Exporter) *ExportHandler {
	return &ExportHandler{exporter: exporter}
}

// Download converts the export sheet to an A4 PDF and sends it as
// shipping-<number>.pdf. A concurrent request for the same document gets 409.
func (h *ExportHandler) Download(c *gin.Context) {
	id := c.Param("id")
	result, err := h.exporter.Export(c.Request.Context(), id)
	if err != nil {
		log := logger.GetGinLogger(c).With(zap.String("document_id", id))
		if errors.Is(err, shared.ErrExportInProgress) {
			log.Info("export already running")
		} else if !errors.Is(err, shared.ErrNotFound) {
			log.Error("export failed", zap.Error(err))
		}
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", contentDisposition("attachment", result.Filename))
	c.Header("Cache-Control", "no-store")
	if result.Pages > 0 {
		c.Header(PageCountHeader, strconv.Itoa(result.Pages))
	}
	c.Data(http.StatusOK, "application/pdf", result.PDF)
}

// contentDisposition quotes ASCII names as is and falls back to the RFC 2231
// form for anything else, which covers Arabic document numbers.
func contentDisposition(kind, filename string) string {
	if isQuotableASCII(filename) {
		return kind + `; filename="` + filename + `"`
	}
	if v := mime.FormatMediaType(kind, map[string]string{"filename": filename}); v != "" {
		return v
	}
	return kind
}

func isQuotableASCII(s string) bool {
	for _, r := range s {
		if r < 0x20 || r > 0x7e {
			return false
		}
	}
	return !strings.ContainsAny(s, `"\`)
}
