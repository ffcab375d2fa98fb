package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/luis-hernandez01/service-notifications/internal/api/handlers"
	"github.com/luis-hernandez01/service-notifications/internal/models"
	"github.com/luis-hernandez01/service-notifications/internal/services"
	"github.com/luis-hernandez01/service-notifications/internal/tasks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func dispatchTestRouter(svc *MockDispatchService, client *MockAsynqClient) *gin.Engine {
	h := handlers.NewDispatchHandler(svc, client)
	router := gin.New()
	router.POST("/v1/send", h.SendSync)
	router.POST("/v1/send/async", h.SendAsync)
	router.POST("/v1/send/form", h.SendForm)
	return router
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestSendSyncSuccess(t *testing.T) {
	svc := new(MockDispatchService)
	svc.On("Dispatch", mock.Anything, mock.AnythingOfType("*models.DispatchRequest")).
		Return(&models.DispatchResult{Status: "processed", To: "dest@example.com"}, nil)

	router := dispatchTestRouter(svc, new(MockAsynqClient))
	w := postJSON(router, "/v1/send", gin.H{
		"identifying_name": "welcome",
		"to":               "dest@example.com",
		"data":             gin.H{"name": "Ana"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"processed"`)
	svc.AssertExpectations(t)
}

func TestSendSyncMissingFields(t *testing.T) {
	svc := new(MockDispatchService)
	router := dispatchTestRouter(svc, new(MockAsynqClient))

	w := postJSON(router, "/v1/send", gin.H{"to": "dest@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestSendSyncErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"template not found", &services.ErrNotFound{Resource: "template", Key: "x"}, http.StatusNotFound},
		{"invalid recipient", &services.ErrValidation{Field: "to", Reason: "bad"}, http.StatusUnprocessableEntity},
		{"relay failure", &services.ErrAttachmentTransfer{Path: "a", Err: errors.New("503")}, http.StatusBadGateway},
		{"send rejected", &services.ErrTransport{Err: errors.New("550")}, http.StatusBadGateway},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockDispatchService)
			svc.On("Dispatch", mock.Anything, mock.Anything).Return(nil, tc.err)
			router := dispatchTestRouter(svc, new(MockAsynqClient))

			w := postJSON(router, "/v1/send", gin.H{
				"identifying_name": "welcome",
				"to":               "dest@example.com",
			})
			assert.Equal(t, tc.code, w.Code)
		})
	}
}

func TestSendAsyncEnqueues(t *testing.T) {
	client := new(MockAsynqClient)
	var enqueued *asynq.Task
	client.On("EnqueueContext", mock.Anything, mock.AnythingOfType("*asynq.Task")).Run(func(args mock.Arguments) {
		enqueued = args.Get(1).(*asynq.Task)
	}).Return(&asynq.TaskInfo{ID: "task-1"}, nil)

	svc := new(MockDispatchService)
	router := dispatchTestRouter(svc, client)

	w := postJSON(router, "/v1/send/async", gin.H{
		"identifying_name": "welcome",
		"to":               "dest@example.com",
	})

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), `"queued"`)
	require.NotNil(t, enqueued)
	assert.Equal(t, tasks.TypeEmailDispatch, enqueued.Type())
	// The synchronous pipeline must not run on the API goroutine.
	svc.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestSendAsyncEnqueueFailure(t *testing.T) {
	client := new(MockAsynqClient)
	client.On("EnqueueContext", mock.Anything, mock.Anything).Return(nil, errors.New("redis down"))

	router := dispatchTestRouter(new(MockDispatchService), client)
	w := postJSON(router, "/v1/send/async", gin.H{
		"identifying_name": "welcome",
		"to":               "dest@example.com",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSendFormBindsUploadsAndData(t *testing.T) {
	svc := new(MockDispatchService)
	var got *models.DispatchRequest
	svc.On("Dispatch", mock.Anything, mock.AnythingOfType("*models.DispatchRequest")).Run(func(args mock.Arguments) {
		got = args.Get(1).(*models.DispatchRequest)
	}).Return(&models.DispatchResult{Status: "processed", To: "dest@example.com"}, nil)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("identifying_name", "welcome")
	writer.WriteField("to", "dest@example.com")
	writer.WriteField("cc", "cc1@example.com,cc2@example.com")
	writer.WriteField("subject", "Hi")
	writer.WriteField("data", `{"name":"Ana"}`)
	part, err := writer.CreateFormFile("files", "report.pdf")
	require.NoError(t, err)
	part.Write([]byte("pdf-bytes"))
	require.NoError(t, writer.Close())

	router := dispatchTestRouter(svc, new(MockAsynqClient))
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/v1/send/form", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got)
	assert.Equal(t, "welcome", got.TemplateName)
	assert.Equal(t, []string{"cc1@example.com", "cc2@example.com"}, got.CC)
	assert.Equal(t, map[string]interface{}{"name": "Ana"}, got.Data)
	require.Len(t, got.Attachments, 1)
	assert.Equal(t, "report.pdf", got.Attachments[0].Filename)
	assert.Equal(t, []byte("pdf-bytes"), got.Attachments[0].Content)
	assert.True(t, got.Attachments[0].IsUpload())
}

func TestSendFormMissingTemplateName(t *testing.T) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("to", "dest@example.com")
	require.NoError(t, writer.Close())

	router := dispatchTestRouter(new(MockDispatchService), new(MockAsynqClient))
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/v1/send/form", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
