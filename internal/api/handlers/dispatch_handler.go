package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"github.com/luis-hernandez01/service-notifications/internal/models"
	"github.com/luis-hernandez01/service-notifications/internal/services"
	"github.com/luis-hernandez01/service-notifications/internal/tasks"
)

// IAsynqClient defines the interface for the Asynq client methods used by the
// handler. This allows easier mocking than using the concrete asynq.Client.
type IAsynqClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// DispatchHandler handles the send endpoints.
type DispatchHandler struct {
	dispatchService services.IDispatchService
	taskClient      IAsynqClient
}

func NewDispatchHandler(dispatchService services.IDispatchService, taskClient IAsynqClient) *DispatchHandler {
	return &DispatchHandler{
		dispatchService: dispatchService,
		taskClient:      taskClient,
	}
}

// SendSync handles POST /v1/send: the whole pipeline runs before responding.
func (h *DispatchHandler) SendSync(c *gin.Context) {
	var req models.DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := h.dispatchService.Dispatch(c.Request.Context(), &req)
	if err != nil {
		respondDispatchError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SendAsync handles POST /v1/send/async: the request is queued and the
// response only confirms acceptance.
func (h *DispatchHandler) SendAsync(c *gin.Context) {
	var req models.DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	task, err := tasks.NewEmailDispatchTask(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build task: " + err.Error()})
		return
	}
	info, err := h.taskClient.EnqueueContext(c.Request.Context(), task)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enqueue dispatch: " + err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued", "task_id": info.ID, "to": req.To})
}

// SendForm handles POST /v1/send/form: a multipart request carrying uploaded
// attachment binaries alongside the dispatch fields.
func (h *DispatchHandler) SendForm(c *gin.Context) {
	req, err := bindDispatchForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := h.dispatchService.Dispatch(c.Request.Context(), req)
	if err != nil {
		respondDispatchError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func bindDispatchForm(c *gin.Context) (*models.DispatchRequest, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	req := &models.DispatchRequest{
		TemplateName: c.PostForm("identifying_name"),
		To:           c.PostForm("to"),
		Subject:      c.PostForm("subject"),
		CC:           splitAddressList(c.PostForm("cc")),
		BCC:          splitAddressList(c.PostForm("bcc")),
	}
	if req.TemplateName == "" {
		return nil, errors.New("identifying_name is required")
	}
	if req.To == "" {
		return nil, errors.New("to is required")
	}

	// data is an optional JSON document; a non-JSON value is kept as a scalar.
	if raw := c.PostForm("data"); raw != "" {
		var parsed interface{}
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
			req.Data = parsed
		} else {
			req.Data = raw
		}
	}

	if raw := c.PostForm("images_embed"); raw != "" {
		images := map[string]string{}
		if err := json.Unmarshal([]byte(raw), &images); err != nil {
			return nil, errors.New("images_embed must be a JSON object of cid to path")
		}
		req.ImagesEmbed = images
	}

	for _, fileHeader := range form.File["files"] {
		file, err := fileHeader.Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, err
		}
		req.Attachments = append(req.Attachments, models.AttachmentRef{
			Filename:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Content:     content,
		})
	}
	return req, nil
}

func splitAddressList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

// respondDispatchError maps the dispatch error taxonomy onto HTTP statuses.
func respondDispatchError(c *gin.Context, err error) {
	var notFound *services.ErrNotFound
	var validation *services.ErrValidation
	var transfer *services.ErrAttachmentTransfer
	var transport *services.ErrTransport

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &transfer):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.As(err, &transport):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
