package handler

import (
	"database/sql"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"donorapi/docs"
	"donorapi/internal/service"
)

// RouteConfig carries the transport settings of RegisterRoutes.
type RouteConfig struct {
	// MaxUploadBytes caps the CSV accepted by POST /distributions. Zero disables the check.
	MaxUploadBytes int64
	// Gatherer backs /metrics. Nil leaves the endpoint unregistered.
	Gatherer prometheus.Gatherer
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, distSvc service.DistributionService, callSvc service.CallDetailService, cfg RouteConfig) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	if cfg.Gatherer != nil {
		metrics := promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})
		app.Get("/metrics", adaptor.HTTPHandler(otelhttp.NewHandler(metrics, "metrics")))
	}

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	app.Post("/distributions", IngestDistribution(distSvc, cfg.MaxUploadBytes))
	app.Get("/candidates/:id/distributions", ListCandidateAssignments(distSvc))

	app.Get("/uploads", ListUploads(distSvc))
	app.Get("/uploads/:id", GetUpload(distSvc))
	app.Delete("/uploads/:id", DeleteUpload(distSvc))

	app.Post("/records/:id/call-details", LogCallDetail(callSvc))
	app.Get("/records/:id/call-details", ListCallDetails(callSvc))
}
