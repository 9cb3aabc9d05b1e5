package httpapi

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter registers the query endpoints and the metrics scrape endpoint.
func NewRouter(h *Handler, log *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	router.GET("/last_dates", h.LastDates)
	router.GET("/dynamics", h.Dynamics)
	router.GET("/last_results", h.LastResults)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		if log == nil {
			return
		}
		log.Debug("request served",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(started))
	}
}
