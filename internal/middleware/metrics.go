package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis errors by command name.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "dawgsocial_redis_errors_total",
	Help: "Total number of Redis errors by command",
}, []string{"operation"})

// SessionsIssued counts sessions established by source (login or register).
var SessionsIssued = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "dawgsocial_sessions_issued_total",
	Help: "Total number of sessions issued",
}, []string{"source"})

// InitMetrics creates the Prometheus HTTP middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware adapts the fiberprometheus middleware into a fiber.Handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
