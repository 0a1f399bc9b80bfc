package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shipdocs/backend/internal/interfaces/http/router"
)

// DocumentRoutes is the versioned JSON API: /api/v1/documents
func DocumentRoutes(h *DocumentHandler, mw ...gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("documents", "/documents")
	group.Use(mw...)

	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.GetByID)

	return group
}

// PageRoutes are the HTML pages and the PDF download, mounted at the root
func PageRoutes(pages *PageHandler, exports *ExportHandler, mw ...gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("pages", "")
	group.Use(mw...)

	group.GET("/", pages.Index)

	documents := group.Group("documents", "/documents")
	documents.GET("", pages.List)
	documents.POST("", pages.Submit)
	documents.GET("/new", pages.New)
	documents.GET("/:id", pages.Screen)

	pdf := documents.Group("pdf", "/:id/pdf")
	pdf.GET("", pages.ExportView)
	pdf.GET("/download", exports.Download)

	return group
}

// PrintRoutes serves the standalone print page at /api/pdf/:id
func PrintRoutes(pages *PageHandler, mw ...gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("print", "/api/pdf")
	group.Use(mw...)

	group.GET("/:id", pages.Print)

	return group
}
