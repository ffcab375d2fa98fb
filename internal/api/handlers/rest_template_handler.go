package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/luis-hernandez01/service-notifications/internal/models"
	"github.com/luis-hernandez01/service-notifications/internal/services"
	"github.com/luis-hernandez01/service-notifications/internal/utils"
)

// RestTemplateHandler handles REST requests for templates.
type RestTemplateHandler struct {
	templateService services.ITemplateService
}

func NewRestTemplateHandler(templateService services.ITemplateService) *RestTemplateHandler {
	return &RestTemplateHandler{templateService: templateService}
}

type createTemplateRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	ContentHTML  string `json:"content_html" binding:"required"`
	CredentialID string `json:"credential_id" binding:"required"`
}

// Create handles POST /v1/templates
func (h *RestTemplateHandler) Create(c *gin.Context) {
	var req createTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	credID, err := utils.ParseSixID(req.CredentialID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credential_id"})
		return
	}

	tpl, err := h.templateService.Create(c.Request.Context(), &models.Template{
		Name:         req.Name,
		Description:  req.Description,
		ContentHTML:  req.ContentHTML,
		CredentialID: credID,
	})
	if err != nil {
		respondCRUDError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tpl)
}

// Get handles GET /v1/templates/:id
func (h *RestTemplateHandler) Get(c *gin.Context) {
	id, err := utils.ParseSixID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template ID"})
		return
	}
	tpl, err := h.templateService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondCRUDError(c, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// List handles GET /v1/templates
func (h *RestTemplateHandler) List(c *gin.Context) {
	page, pageSize := paginationParams(c)
	templates, total, err := h.templateService.List(c.Request.Context(), page, pageSize)
	if err != nil {
		respondCRUDError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": templates, "total": total, "page": page, "page_size": pageSize})
}

type updateTemplateRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	ContentHTML  *string `json:"content_html"`
	CredentialID *string `json:"credential_id"`
}

// Update handles PUT /v1/templates/:id with any subset of fields.
func (h *RestTemplateHandler) Update(c *gin.Context) {
	id, err := utils.ParseSixID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template ID"})
		return
	}

	var req updateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	updates := bson.M{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ContentHTML != nil {
		updates["content_html"] = *req.ContentHTML
	}
	if req.CredentialID != nil {
		credID, err := utils.ParseSixID(*req.CredentialID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credential_id"})
			return
		}
		updates["credential_id"] = credID
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	tpl, err := h.templateService.Update(c.Request.Context(), id, updates)
	if err != nil {
		respondCRUDError(c, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// Delete handles DELETE /v1/templates/:id (soft delete).
func (h *RestTemplateHandler) Delete(c *gin.Context) {
	id, err := utils.ParseSixID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template ID"})
		return
	}
	if err := h.templateService.Delete(c.Request.Context(), id); err != nil {
		respondCRUDError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Reactivate handles POST /v1/templates/:id/reactivate
func (h *RestTemplateHandler) Reactivate(c *gin.Context) {
	id, err := utils.ParseSixID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template ID"})
		return
	}
	status, err := h.templateService.Reactivate(c.Request.Context(), id)
	if err != nil {
		respondCRUDError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(status)})
}

// paginationParams reads page/page_size query params with sane bounds.
func paginationParams(c *gin.Context) (int64, int64) {
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.ParseInt(c.DefaultQuery("page_size", "20"), 10, 64)
	if err != nil || pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}
	return page, pageSize
}

// respondCRUDError maps service errors for the CRUD endpoints.
func respondCRUDError(c *gin.Context, err error) {
	var notFound *services.ErrNotFound
	var duplicate *services.ErrDuplicateName

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &duplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
