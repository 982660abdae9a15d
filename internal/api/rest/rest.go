package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures the faucet routes; metrics is mounted at /metrics when set
func SetupRoutes(router *gin.Engine, handler Handler, metrics http.Handler) {
	router.GET("/healthz", handler.HealthCheck)
	router.GET("/gain/:address", handler.Gain)

	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}
}
