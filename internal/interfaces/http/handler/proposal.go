package handler

import (
	"io"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	proposalapp "github.com/quotedesk/backend/internal/application/proposal"
	"github.com/quotedesk/backend/internal/interfaces/http/dto"
)

// ProposalHandler handles proposal rendering API endpoints
type ProposalHandler struct {
	BaseHandler
	service *proposalapp.Service
}

// NewProposalHandler creates a new ProposalHandler
func NewProposalHandler(service *proposalapp.Service) *ProposalHandler {
	return &ProposalHandler{service: service}
}

// RegisterRoutes registers all proposal routes
func (h *ProposalHandler) RegisterRoutes(rg *gin.RouterGroup) {
	proposals := rg.Group("/proposals")
	{
		proposals.POST("", h.Create)
		proposals.POST("/render", h.Render)
		proposals.GET("/:number/download", h.Download)
	}
}

// Render renders a proposal and returns the PDF directly, without archiving.
func (h *ProposalHandler) Render(c *gin.Context) {
	var req proposalapp.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	doc, err := h.service.Render(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+sanitizeFileName(doc.FileName)+"\"")
	c.Data(http.StatusOK, "application/pdf", doc.PDFData)
}

// Create renders a proposal, archives the document and returns its metadata.
func (h *ProposalHandler) Create(c *gin.Context) {
	var req proposalapp.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	resp, err := h.service.RenderAndStore(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Download streams the most recently archived document for a proposal number.
func (h *ProposalHandler) Download(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Proposal number is required")
		return
	}

	rc, name, err := h.service.GetDocument(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		h.InternalError(c, "Failed to read archived document")
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+sanitizeFileName(name)+"\"")
	c.Data(http.StatusOK, "application/pdf", data)
}

var unsafeFileNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// sanitizeFileName keeps header injection out of Content-Disposition.
func sanitizeFileName(name string) string {
	return unsafeFileNameChars.ReplaceAllString(name, "_")
}
