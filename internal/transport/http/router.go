// Package httptransport wires the HTTP surface: middleware stack, module
// handlers, health probes, and the metrics endpoint.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	credentialhandler "vigil/internal/credential/handler"
	"vigil/internal/platform/health"
	"vigil/internal/platform/middleware"
	"vigil/internal/token"
	verificationhandler "vigil/internal/verification/handler"
)

const requestTimeout = 30 * time.Second

// Deps carries the handlers the router mounts.
type Deps struct {
	Verification *verificationhandler.Handler
	Credentials  *credentialhandler.Handler
	Health       *health.Handler
	Tokens       *token.Service
}

// NewRouter wires all endpoints with the middleware stack.
func NewRouter(deps Deps, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.ContentTypeJSON)

	deps.Health.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	deps.Verification.Register(r)
	deps.Verification.RegisterAdmin(r, deps.Tokens)
	deps.Credentials.Register(r)

	return r
}
