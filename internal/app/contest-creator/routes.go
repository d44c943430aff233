// Package contestcreator собирает приложение сервиса создания конкурсов.
package contestcreator

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/contest-creator/internal/http-server/handlers/complete"
	"github.com/magabrotheeeer/contest-creator/internal/http-server/handlers/events"
	"github.com/magabrotheeeer/contest-creator/internal/http-server/handlers/health"
	"github.com/magabrotheeeer/contest-creator/internal/http-server/handlers/limits"
	"github.com/magabrotheeeer/contest-creator/internal/http-server/handlers/paymentsend"
	"github.com/magabrotheeeer/contest-creator/internal/http-server/handlers/purchase"
	"github.com/magabrotheeeer/contest-creator/internal/http-server/handlers/quote"
	"github.com/magabrotheeeer/contest-creator/internal/http-server/handlers/reload"
	"github.com/magabrotheeeer/contest-creator/internal/http-server/handlers/schedule"
	"github.com/magabrotheeeer/contest-creator/internal/http-server/mware"
	"github.com/magabrotheeeer/contest-creator/internal/ledger"
	appjwt "github.com/magabrotheeeer/contest-creator/internal/lib/jwt"
	creatorservice "github.com/magabrotheeeer/contest-creator/internal/services/creator"
	purchasesvc "github.com/magabrotheeeer/contest-creator/internal/services/purchase"
	"github.com/magabrotheeeer/contest-creator/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, creatorService *creatorservice.Service,
	registry *purchasesvc.Registry, ledgerClient *ledger.Client, db *repository.Storage,
	jwtMaker appjwt.Maker) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые справочные конечные точки
		r.Get("/pricing/schedule", schedule.New(logger, creatorService).ServeHTTP)
		r.Get("/pricing/limits", limits.New(logger, creatorService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(mware.JWTMiddleware(jwtMaker, logger))
			r.Use(mware.RateLimitMiddleware(logger))
			r.Post("/contests/purchase", purchase.New(logger, creatorService).ServeHTTP)
			r.Get("/sessions/{id}/quote", quote.New(logger, registry).ServeHTTP)
			r.Get("/sessions/{id}/events", events.New(logger, registry).ServeHTTP)
			r.Post("/sessions/{id}/payment", paymentsend.New(logger, registry, ledgerClient).ServeHTTP)
			r.Post("/sessions/{id}/complete", complete.New(logger, registry).ServeHTTP)
		})

		// Административные конечные точки
		r.Group(func(r chi.Router) {
			r.Use(mware.JWTMiddleware(jwtMaker, logger))
			r.Use(mware.AdminOnlyMiddleware(logger))
			r.Post("/admin/config/reload", reload.New(logger, creatorService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
