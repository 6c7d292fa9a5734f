package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"motordesk/internal/domain/content"
	"motordesk/internal/infrastructure/http/v1/dto"
)

// ContentHandler provides HTTP handlers for the content store.
type ContentHandler struct {
	*BaseHandler
	service *content.Service
}

// NewContentHandler creates a new content handler.
func NewContentHandler(base *BaseHandler, service *content.Service) *ContentHandler {
	return &ContentHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /content - all blocks ordered by slug.
func (h *ContentHandler) List(c *gin.Context) {
	blocks, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": dto.FromBlocks(blocks)})
}

// Get handles GET /content/:slug.
func (h *ContentHandler) Get(c *gin.Context) {
	block, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromBlock(block))
}

// Save handles PUT /content/:slug - upsert by slug.
func (h *ContentHandler) Save(c *gin.Context) {
	var req dto.SaveBlockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	block, err := h.service.Save(c.Request.Context(), req.ToEntity(c.Param("slug")))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromBlock(block))
}
