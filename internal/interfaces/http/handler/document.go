package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	appshipping "github.com/shipdocs/backend/internal/application/shipping"
	"github.com/shipdocs/backend/internal/domain/shipping"
	"github.com/shipdocs/backend/internal/infrastructure/logger"
	"github.com/shipdocs/backend/internal/interfaces/http/dto"
	"github.com/shipdocs/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// DocumentService is the record store facade used by the HTTP layer
type DocumentService interface {
	Create(ctx context.Context, doc *shipping.ShippingDocument) (*shipping.ShippingDocument, error)
	CreateFromInput(ctx context.Context, in appshipping.DocumentInput) (*shipping.ShippingDocument, error)
	Get(ctx context.Context, id string) (*shipping.ShippingDocument, error)
	List(ctx context.Context) ([]*shipping.ShippingDocument, error)
}

// DocumentHandler serves the JSON document API
type DocumentHandler struct {
	BaseHandler
	documents DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documents DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// Create godoc
//
//	@ID				createShippingDocument
//	@Summary		Create a shipping document
//	@Description	Stores a new transport document. Only document_number is required; unset fields get the form defaults.
//	@Tags			documents
//	@Accept			json
//	@Produce		json
//	@Param			request	body		appshipping.DocumentInput	true	"Document"
//	@Success		201		{object}	APIResponse[appshipping.DocumentResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/documents [post]
func (h *DocumentHandler) Create(c *gin.Context) {
	var req appshipping.DocumentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	doc, err := h.documents.CreateFromInput(c.Request.Context(), req)
	if err != nil {
		logger.GetGinLogger(c).Error("failed to create document",
			zap.String("document_number", req.DocumentNumber),
			zap.Error(err))
		h.HandleError(c, err)
		return
	}

	h.Created(c, doc)
}

// List godoc
//
//	@ID				listShippingDocuments
//	@Summary		List shipping documents
//	@Description	Returns every stored document, newest first
//	@Tags			documents
//	@Produce		json
//	@Success		200	{object}	APIResponse[[]appshipping.DocumentSummary]
//	@Failure		500	{object}	ErrorResponse
//	@Router			/documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.documents.List(c.Request.Context())
	if err != nil {
		logger.GetGinLogger(c).Error("failed to list documents", zap.Error(err))
		h.HandleError(c, err)
		return
	}

	summaries := make([]appshipping.DocumentSummary, 0, len(docs))
	for _, d := range docs {
		summaries = append(summaries, appshipping.ToSummary(d))
	}
	h.Success(c, summaries)
}

// GetByID godoc
//
//	@ID				getShippingDocument
//	@Summary		Get a shipping document
//	@Tags			documents
//	@Produce		json
//	@Param			id	path		string	true	"Document ID"
//	@Success		200	{object}	APIResponse[appshipping.DocumentResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/documents/{id} [get]
func (h *DocumentHandler) GetByID(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.NotFound(c, "Document not found")
		return
	}

	doc, err := h.documents.Get(c.Request.Context(), req.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}
