package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/decibling/smart-contracts/internal/faucet"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// Gain requests a faucet grant for an address
	// GET /gain/:address -> text/plain "done" | "wait" | "failed"
	Gain(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /healthz
	HealthCheck(c *gin.Context)
}

type handler struct {
	faucet faucet.Service
}

// NewHandler creates a new REST API handler
func NewHandler(faucetService faucet.Service) Handler {
	return &handler{faucet: faucetService}
}

// Gain always answers 200 with a bare result word; failure detail stays in the logs
func (h *handler) Gain(c *gin.Context) {
	result, _ := h.faucet.Request(c.Request.Context(), c.Param("address"))
	if result == "" {
		result = faucet.ResultFailed
	}
	c.String(http.StatusOK, string(result))
}

func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "decibling-faucet",
	})
}
