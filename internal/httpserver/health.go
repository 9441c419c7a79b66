package httpserver

import (
	"gh-telegram-relay/pkg/response"

	"github.com/gin-gonic/gin"
)

// Health response constants (single source for version and service identity).
const (
	HealthMessage = "GitHub to Telegram relay"
	HealthVersion = "1.0.0"
	ServiceName   = "gh-telegram-relay"
)

// Routing states reported by /ready.
const (
	RoutingConfigured = "configured"
	RoutingEmpty      = "empty"
)

func (srv HTTPServer) status(state string) gin.H {
	return gin.H{
		"status":  state,
		"message": HealthMessage,
		"version": HealthVersion,
		"service": ServiceName,
	}
}

// healthCheck handles health check requests
// @Summary Health Check
// @Description Check if the relay process is healthy
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "Relay is healthy"
// @Router /health [get]
func (srv HTTPServer) healthCheck(c *gin.Context) {
	response.OK(c, srv.status("healthy"))
}

// readyCheck reports the loaded routing table. An empty table is still ready,
// it just relays nothing.
// @Summary Readiness Check
// @Description Report readiness and how many routing rules are loaded
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "Relay is ready"
// @Router /ready [get]
func (srv HTTPServer) readyCheck(c *gin.Context) {
	body := srv.status("ready")
	body["rules"] = srv.ruleCount
	body["routing"] = RoutingConfigured
	if srv.ruleCount == 0 {
		body["routing"] = RoutingEmpty
	}
	response.OK(c, body)
}

// liveCheck handles liveness check requests
// @Summary Liveness Check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "Relay is alive"
// @Router /live [get]
func (srv HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, srv.status("alive"))
}
