package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/luis-hernandez01/service-notifications/internal/api/handlers"
	"github.com/luis-hernandez01/service-notifications/internal/api/middleware"
	"github.com/luis-hernandez01/service-notifications/internal/config"
	"github.com/luis-hernandez01/service-notifications/internal/email"
	"github.com/luis-hernandez01/service-notifications/internal/services"
	"github.com/luis-hernandez01/service-notifications/internal/storage"
)

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(
	cfg *config.Config,
	db *mongo.Database,
	taskClient handlers.IAsynqClient,
	dispatchService services.IDispatchService,
	blobStorage storage.IBlobStorage,
) *gin.Engine {
	// Services backing the CRUD handlers
	templateService := services.NewTemplateService(db)
	credentialService := services.NewCredentialService(db)
	sendLogService := services.NewSendLogService(db)

	r := gin.Default()

	// Apply global middleware first (order matters)
	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)
	r.Use(middleware.CORSMiddleware())
	r.Use(rateLimiter.Limit())

	// Initialize handlers
	dispatchHandler := handlers.NewDispatchHandler(dispatchService, taskClient)
	templateHandler := handlers.NewRestTemplateHandler(templateService)
	credentialHandler := handlers.NewRestCredentialHandler(credentialService)
	sendLogHandler := handlers.NewRestSendLogHandler(sendLogService)
	fileHandler := handlers.NewRestFileHandler(blobStorage)

	v1 := r.Group("/v1")
	{
		v1.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		// Everything else requires a bearer token from a trusted caller.
		authRequired := v1.Group("/")
		authRequired.Use(middleware.AuthMiddleware(cfg.JwtSecret))
		{
			authRequired.POST("/send", dispatchHandler.SendSync)
			authRequired.POST("/send/async", dispatchHandler.SendAsync)
			authRequired.POST("/send/form", dispatchHandler.SendForm)

			authRequired.POST("/templates", templateHandler.Create)
			authRequired.GET("/templates", templateHandler.List)
			authRequired.GET("/templates/:id", templateHandler.Get)
			authRequired.PUT("/templates/:id", templateHandler.Update)
			authRequired.DELETE("/templates/:id", templateHandler.Delete)
			authRequired.POST("/templates/:id/reactivate", templateHandler.Reactivate)

			authRequired.POST("/credentials", credentialHandler.Create)
			authRequired.GET("/credentials", credentialHandler.List)
			authRequired.GET("/credentials/:id", credentialHandler.Get)
			authRequired.PUT("/credentials/:id", credentialHandler.Update)
			authRequired.DELETE("/credentials/:id", credentialHandler.Delete)
			authRequired.POST("/credentials/:id/reactivate", credentialHandler.Reactivate)

			authRequired.GET("/logs", sendLogHandler.List)

			authRequired.POST("/files/upload", fileHandler.Upload)
			authRequired.GET("/files/download/*name", fileHandler.Download)
			authRequired.GET("/files/list", fileHandler.List)
			authRequired.DELETE("/files/*name", fileHandler.Delete)
		}
	}

	return r
}

// SetupServiceRouter configures and returns the service Gin engine. It serves
// on a separate, non-public port: a shutdown method for orchestration and
// getTestEmail which reads back mock-transport captures from Redis.
func SetupServiceRouter(cfg *config.Config, rdb *redis.Client, shutdownChan chan<- struct{}) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.POST("/api", func(c *gin.Context) {
		var req struct {
			Method    string          `json:"method"`
			Arguments json.RawMessage `json:"arguments"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
			return
		}

		switch req.Method {
		case "shutdown":
			fmt.Println("Received shutdown command via Service API")
			c.JSON(http.StatusOK, gin.H{"success": true, "result": "Shutdown initiated"})
			select {
			case shutdownChan <- struct{}{}:
				fmt.Println("Shutdown signal sent successfully.")
			default:
				fmt.Println("Shutdown channel already signaled or blocked.")
			}
		case "getTestEmail":
			var args []string // Expect ["recipient"]
			if err := json.Unmarshal(req.Arguments, &args); err != nil || len(args) != 1 {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid arguments: expected JSON array [recipient]"})
				return
			}
			redisKey := email.MockEmailKey(args[0])

			// Poll Redis briefly for the key
			var emailJsonData string
			var getErr error
			found := false
			ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
			defer cancel()
			for i := 0; i < 10; i++ { // Poll up to ~2 seconds
				emailJsonData, getErr = rdb.Get(ctx, redisKey).Result()
				if getErr == nil {
					found = true
					rdb.Del(ctx, redisKey) // Delete after fetching
					break
				}
				if getErr != redis.Nil {
					log.Printf("Service API: Error getting key %s from Redis: %v", redisKey, getErr)
					c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Redis error"})
					return
				}
				time.Sleep(200 * time.Millisecond)
			}

			if !found {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("Test email not found in Redis for key %s", redisKey)})
				return
			}

			var emailData map[string]interface{}
			if err := json.Unmarshal([]byte(emailJsonData), &emailData); err != nil {
				log.Printf("Service API: Error unmarshalling email data from key %s: %v", redisKey, err)
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to parse stored email data"})
				return
			}

			c.JSON(http.StatusOK, gin.H{"success": true, "data": emailData})

		default:
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("Unknown service method: %s", req.Method)})
		}
	})

	return r
}
