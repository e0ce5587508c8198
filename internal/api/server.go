package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer creates a gin engine with all routes configured. metrics may be
// nil, in which case /metrics is not mounted.
func NewServer(handler *Handler, metrics http.Handler, log *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	if log == nil {
		log = slog.Default()
	}

	r := gin.New()
	r.Use(requestLogger(log.With("component", "http")))
	r.Use(gin.Recovery())

	setupRoutes(r, handler, metrics)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, metrics http.Handler) {
	r.GET("/health", handler.GetHealth)
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}

	api := r.Group("/api")
	{
		api.GET("/pets", handler.ListPets)
		api.GET("/pets/:id", handler.GetPet)
		api.POST("/pets/:id/archive", handler.ArchivePet)
		api.GET("/stats", handler.GetStats)
		api.POST("/ingest", handler.TriggerIngest)
		api.POST("/subscriptions", handler.Subscribe)
	}
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP())
	}
}
