package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/luis-hernandez01/service-notifications/internal/models"
	"github.com/luis-hernandez01/service-notifications/internal/services"
	"github.com/luis-hernandez01/service-notifications/internal/utils"
)

// RestCredentialHandler handles REST requests for credentials.
type RestCredentialHandler struct {
	credentialService services.ICredentialService
}

func NewRestCredentialHandler(credentialService services.ICredentialService) *RestCredentialHandler {
	return &RestCredentialHandler{credentialService: credentialService}
}

type createCredentialRequest struct {
	Kind  models.CredentialKind   `json:"kind" binding:"required"`
	Graph *models.GraphCredential `json:"graph"`
	SMTP  *models.SMTPCredential  `json:"smtp"`
}

// Create handles POST /v1/credentials
func (h *RestCredentialHandler) Create(c *gin.Context) {
	var req createCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	switch req.Kind {
	case models.CredentialKindGraph:
		if req.Graph == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "kind \"graph\" requires the graph fields"})
			return
		}
	case models.CredentialKindSMTP:
		if req.SMTP == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "kind \"smtp\" requires the smtp fields"})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be \"graph\" or \"smtp\""})
		return
	}

	cred, err := h.credentialService.Create(c.Request.Context(), &models.Credential{
		Kind:  req.Kind,
		Graph: req.Graph,
		SMTP:  req.SMTP,
	})
	if err != nil {
		respondCRUDError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cred)
}

// Get handles GET /v1/credentials/:id
func (h *RestCredentialHandler) Get(c *gin.Context) {
	id, err := utils.ParseSixID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credential ID"})
		return
	}
	cred, err := h.credentialService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondCRUDError(c, err)
		return
	}
	c.JSON(http.StatusOK, cred)
}

// List handles GET /v1/credentials
func (h *RestCredentialHandler) List(c *gin.Context) {
	page, pageSize := paginationParams(c)
	creds, total, err := h.credentialService.List(c.Request.Context(), page, pageSize)
	if err != nil {
		respondCRUDError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": creds, "total": total, "page": page, "page_size": pageSize})
}

type updateCredentialRequest struct {
	Graph *models.GraphCredential `json:"graph"`
	SMTP  *models.SMTPCredential  `json:"smtp"`
}

// Update handles PUT /v1/credentials/:id. The kind never changes; only the
// fields of the variant the record already holds.
func (h *RestCredentialHandler) Update(c *gin.Context) {
	id, err := utils.ParseSixID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credential ID"})
		return
	}

	var req updateCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	updates := bson.M{}
	if req.Graph != nil {
		updates["graph"] = req.Graph
	}
	if req.SMTP != nil {
		updates["smtp"] = req.SMTP
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	cred, err := h.credentialService.Update(c.Request.Context(), id, updates)
	if err != nil {
		respondCRUDError(c, err)
		return
	}
	c.JSON(http.StatusOK, cred)
}

// Delete handles DELETE /v1/credentials/:id (soft delete).
func (h *RestCredentialHandler) Delete(c *gin.Context) {
	id, err := utils.ParseSixID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credential ID"})
		return
	}
	if err := h.credentialService.Delete(c.Request.Context(), id); err != nil {
		respondCRUDError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Reactivate handles POST /v1/credentials/:id/reactivate
func (h *RestCredentialHandler) Reactivate(c *gin.Context) {
	id, err := utils.ParseSixID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credential ID"})
		return
	}
	status, err := h.credentialService.Reactivate(c.Request.Context(), id)
	if err != nil {
		respondCRUDError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(status)})
}
