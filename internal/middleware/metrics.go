package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by operation.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cafehub_redis_errors_total",
		Help: "Total number of Redis errors by operation",
	}, []string{"operation"})

	// AuthAttempts counts signup and login outcomes.
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cafehub_auth_attempts_total",
		Help: "Authentication attempts by result",
	}, []string{"result"})

	// LikeToggles counts like and unlike calls that reached storage.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cafehub_like_toggles_total",
		Help: "Like API mutations by action",
	}, []string{"action"})
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics returns the process-wide HTTP metrics collector. Collectors are
// registered on the default registry once, so repeated calls share one instance.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}

// MetricsMiddleware records request metrics, skipping the scrape endpoint and static assets.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if path == "/metrics" || len(path) >= 8 && path[:8] == "/static/" {
			return c.Next()
		}
		return p.Middleware(c)
	}
}
