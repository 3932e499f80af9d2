package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rvasily/incident-capture-service/internal/handlers"
	"github.com/rvasily/incident-capture-service/internal/incident"
	"github.com/rvasily/incident-capture-service/internal/store"
)

// NewRouter wires the capture/search endpoints plus health probes.
// Public: /health, /ready
// API: /problems, /find, /find2
func NewRouter(st store.Store, svc *incident.Service) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), requestLog())

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the storage dependency is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	handlers.RegisterIncidentRoutes(r, svc)

	return r
}
