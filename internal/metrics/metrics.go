package metrics

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mathquest_http_requests_total",
		Help: "HTTP requests by method, route and status code",
	}, []string{"method", "route", "status"})

	ProgressSubmissions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mathquest_progress_submissions_total",
		Help: "Quiz and lesson completion submissions accepted",
	})

	AchievementUnlocks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mathquest_achievement_unlocks_total",
		Help: "Achievements awarded",
	})
)

// Middleware counts requests per route template and status
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}

// Handler exposes the prometheus scrape endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
