package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/luis-hernandez01/service-notifications/internal/storage"
)

// RestFileHandler handles the blob file store endpoints.
type RestFileHandler struct {
	blobStorage storage.IBlobStorage
}

func NewRestFileHandler(blobStorage storage.IBlobStorage) *RestFileHandler {
	return &RestFileHandler{blobStorage: blobStorage}
}

// Upload handles POST /v1/files/upload (multipart field "file").
func (h *RestFileHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open upload: " + err.Error()})
		return
	}
	defer file.Close()

	key, err := h.blobStorage.Upload(c.Request.Context(), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"key": key, "size": fileHeader.Size})
}

// Download handles GET /v1/files/download/*name and streams the object.
func (h *RestFileHandler) Download(c *gin.Context) {
	key := c.Param("name")
	if len(key) > 0 && key[0] == '/' {
		key = key[1:]
	}
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "object name is required"})
		return
	}

	body, obj, err := h.blobStorage.Download(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	defer body.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(key))
	c.DataFromReader(http.StatusOK, obj.Size, contentType, body, nil)
}

// List handles GET /v1/files/list with an optional prefix query param.
func (h *RestFileHandler) List(c *gin.Context) {
	objects, err := h.blobStorage.List(c.Request.Context(), c.Query("prefix"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": objects, "count": len(objects)})
}

// Delete handles DELETE /v1/files/*name.
func (h *RestFileHandler) Delete(c *gin.Context) {
	key := c.Param("name")
	if len(key) > 0 && key[0] == '/' {
		key = key[1:]
	}
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "object name is required"})
		return
	}

	if err := h.blobStorage.Delete(c.Request.Context(), key); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "key": key})
}
