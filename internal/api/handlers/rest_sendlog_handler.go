package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/luis-hernandez01/service-notifications/internal/models"
	"github.com/luis-hernandez01/service-notifications/internal/services"
)

// RestSendLogHandler exposes the dispatch audit trail.
type RestSendLogHandler struct {
	sendLogService services.ISendLogService
}

func NewRestSendLogHandler(sendLogService services.ISendLogService) *RestSendLogHandler {
	return &RestSendLogHandler{sendLogService: sendLogService}
}

// List handles GET /v1/logs with optional recipient/template/status/date filters.
func (h *RestSendLogHandler) List(c *gin.Context) {
	filter := services.SendLogFilter{
		Recipient:    c.Query("recipient"),
		TemplateName: c.Query("template"),
		Status:       models.SendStatus(c.Query("status")),
	}

	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be RFC3339"})
			return
		}
		filter.From = from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be RFC3339"})
			return
		}
		filter.To = to
	}

	page, pageSize := paginationParams(c)
	logs, total, err := h.sendLogService.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		respondCRUDError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": logs, "total": total, "page": page, "page_size": pageSize})
}
