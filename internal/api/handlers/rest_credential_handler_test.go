package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/luis-hernandez01/service-notifications/internal/api/handlers"
	"github.com/luis-hernandez01/service-notifications/internal/models"
	"github.com/luis-hernandez01/service-notifications/internal/services"
	"github.com/luis-hernandez01/service-notifications/internal/utils"
)

func credentialTestRouter(svc *MockCredentialService) *gin.Engine {
	h := handlers.NewRestCredentialHandler(svc)
	router := gin.New()
	router.POST("/v1/credentials", h.Create)
	router.GET("/v1/credentials", h.List)
	router.GET("/v1/credentials/:id", h.Get)
	router.PUT("/v1/credentials/:id", h.Update)
	router.DELETE("/v1/credentials/:id", h.Delete)
	router.POST("/v1/credentials/:id/reactivate", h.Reactivate)
	return router
}

func TestCredentialCreateSMTP(t *testing.T) {
	svc := new(MockCredentialService)
	created := &models.Credential{
		Kind:   models.CredentialKindSMTP,
		SMTP:   &models.SMTPCredential{Host: "smtp.example.com", Port: 587},
		Active: true,
	}
	created.ID = utils.NewSixID()
	svc.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Credential) bool {
		return c.Kind == models.CredentialKindSMTP && c.SMTP != nil
	})).Return(created, nil)

	router := credentialTestRouter(svc)
	w := postJSON(router, "/v1/credentials", gin.H{
		"kind": "smtp",
		"smtp": gin.H{"host": "smtp.example.com", "port": 587, "username": "u", "password": "p"},
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestCredentialCreateKindMismatch(t *testing.T) {
	router := credentialTestRouter(new(MockCredentialService))

	// graph kind without graph fields
	w := postJSON(router, "/v1/credentials", gin.H{
		"kind": "graph",
		"smtp": gin.H{"host": "smtp.example.com", "port": 587},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// unknown kind
	w = postJSON(router, "/v1/credentials", gin.H{"kind": "carrier-pigeon"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCredentialGetNotFound(t *testing.T) {
	svc := new(MockCredentialService)
	id := utils.NewSixID()
	svc.On("FindByID", mock.Anything, id).Return(nil, &services.ErrNotFound{Resource: "credential", Key: id.String()})

	router := credentialTestRouter(svc)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/v1/credentials/"+id.String(), nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCredentialReactivate(t *testing.T) {
	svc := new(MockCredentialService)
	id := utils.NewSixID()
	svc.On("Reactivate", mock.Anything, id).Return(services.ReactivateStatusAlreadyActive, nil)

	router := credentialTestRouter(svc)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/v1/credentials/"+id.String()+"/reactivate", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "already_active")
}
