package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/luis-hernandez01/service-notifications/internal/api/handlers"
	"github.com/luis-hernandez01/service-notifications/internal/models"
	"github.com/luis-hernandez01/service-notifications/internal/services"
	"github.com/luis-hernandez01/service-notifications/internal/utils"
)

func templateTestRouter(svc *MockTemplateService) *gin.Engine {
	h := handlers.NewRestTemplateHandler(svc)
	router := gin.New()
	router.POST("/v1/templates", h.Create)
	router.GET("/v1/templates", h.List)
	router.GET("/v1/templates/:id", h.Get)
	router.PUT("/v1/templates/:id", h.Update)
	router.DELETE("/v1/templates/:id", h.Delete)
	router.POST("/v1/templates/:id/reactivate", h.Reactivate)
	return router
}

func TestTemplateCreate(t *testing.T) {
	svc := new(MockTemplateService)
	credID := utils.NewSixID()
	created := &models.Template{Name: "welcome", ContentHTML: "<p>x</p>", CredentialID: credID, Active: true}
	created.ID = utils.NewSixID()
	svc.On("Create", mock.Anything, mock.AnythingOfType("*models.Template")).Return(created, nil)

	router := templateTestRouter(svc)
	w := postJSON(router, "/v1/templates", gin.H{
		"name":          "welcome",
		"content_html":  "<p>x</p>",
		"credential_id": credID.String(),
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "welcome")
}

func TestTemplateCreateDuplicateName(t *testing.T) {
	svc := new(MockTemplateService)
	svc.On("Create", mock.Anything, mock.Anything).Return(nil, &services.ErrDuplicateName{Name: "welcome"})

	router := templateTestRouter(svc)
	w := postJSON(router, "/v1/templates", gin.H{
		"name":          "welcome",
		"content_html":  "<p>x</p>",
		"credential_id": utils.NewSixID().String(),
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTemplateCreateBadCredentialID(t *testing.T) {
	router := templateTestRouter(new(MockTemplateService))
	w := postJSON(router, "/v1/templates", gin.H{
		"name":          "welcome",
		"content_html":  "<p>x</p>",
		"credential_id": "???",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTemplateGetNotFound(t *testing.T) {
	svc := new(MockTemplateService)
	id := utils.NewSixID()
	svc.On("FindByID", mock.Anything, id).Return(nil, &services.ErrNotFound{Resource: "template", Key: id.String()})

	router := templateTestRouter(svc)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/v1/templates/"+id.String(), nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTemplateUpdateSubset(t *testing.T) {
	svc := new(MockTemplateService)
	id := utils.NewSixID()
	updated := &models.Template{Name: "welcome", Description: "changed"}
	updated.ID = id
	svc.On("Update", mock.Anything, id, mock.MatchedBy(func(u bson.M) bool {
		// Only the provided field lands in the update document.
		_, hasDescription := u["description"]
		_, hasContent := u["content_html"]
		return hasDescription && !hasContent
	})).Return(updated, nil)

	router := templateTestRouter(svc)
	w := httptest.NewRecorder()
	body, _ := json.Marshal(gin.H{"description": "changed"})
	req, _ := http.NewRequest(http.MethodPut, "/v1/templates/"+id.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestTemplateReactivateStatuses(t *testing.T) {
	for _, status := range []services.ReactivateStatus{
		services.ReactivateStatusReactivated,
		services.ReactivateStatusAlreadyActive,
	} {
		svc := new(MockTemplateService)
		id := utils.NewSixID()
		svc.On("Reactivate", mock.Anything, id).Return(status, nil)

		router := templateTestRouter(svc)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/v1/templates/"+id.String()+"/reactivate", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), string(status))
	}
}

func TestTemplateDelete(t *testing.T) {
	svc := new(MockTemplateService)
	id := utils.NewSixID()
	svc.On("Delete", mock.Anything, id).Return(nil)

	router := templateTestRouter(svc)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/v1/templates/"+id.String(), nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
