package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics registers HTTP request metrics and the /metrics endpoint on app.
// Collectors are registered once per process; every app shares them.
func InitMetrics(app *fiber.App, serviceName string) fiber.Handler {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
		prom.SetSkipPaths([]string{"/metrics", "/health/live", "/health/ready"})
	})
	prom.RegisterAt(app, "/metrics")
	return prom.Middleware
}
