// Package api wires the HTTP surface: auth, group operations, health, and
// metrics endpoints.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/esusu/internal/auth"
	"github.com/mmynk/esusu/internal/engine"
)

// NewRouter builds the gin engine with all routes and middleware.
func NewRouter(e *engine.Engine, authenticator auth.Authenticator, jwtManager *auth.JWTManager) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(), Metrics())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := NewAuthHandler(authenticator, jwtManager)
	groupHandler := NewGroupHandler(e)

	v1 := router.Group("/api/v1")
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)

	groups := v1.Group("/groups", RequireAuth(jwtManager))
	groups.POST("", groupHandler.Create)
	groups.GET("", groupHandler.List)
	groups.GET("/:id", groupHandler.Get)
	groups.POST("/:id/join", groupHandler.Join)
	groups.POST("/:id/leave", groupHandler.Leave)
	groups.POST("/:id/contributions", groupHandler.Contribute)
	groups.POST("/:id/payouts/:memberId", groupHandler.MarkPaid)

	return router
}
