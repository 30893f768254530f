package http

import (
	"net/http"
	"time"

	"github.com/emlakos/verify-api/internal/application/registration"
	"github.com/emlakos/verify-api/internal/application/verification"
	"github.com/emlakos/verify-api/internal/config"
	"github.com/emlakos/verify-api/internal/transport/http/handler"
	appmiddleware "github.com/emlakos/verify-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — all three entry points are public and
	// guard a 6-digit code space.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10, cfg.TrustProxyHeaders)

	issuerSvc := registration.NewService(registration.ServiceDeps{
		AccountRepo:      deps.AccountRepo,
		VerificationRepo: deps.VerificationRepo,
		Sender:           deps.Sender,
		CodeTTL:          time.Duration(cfg.CodeTTLMinutes) * time.Minute,
	})
	verifierSvc := verification.NewService(verification.ServiceDeps{
		AccountRepo:      deps.AccountRepo,
		VerificationRepo: deps.VerificationRepo,
		MaxAttempts:      cfg.MaxVerifyAttempts,
	})

	healthH := handler.NewHealthHandler()
	accountH := handler.NewAccountHandler(issuerSvc)
	confirmH := handler.NewConfirmEmailHandler(issuerSvc, verifierSvc)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/accounts", accountH.Register)
		r.With(sensitiveRL.Limit).Post("/confirm-email/{action}", confirmH.Action)
	})

	return r
}
