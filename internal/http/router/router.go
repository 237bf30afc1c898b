package router

import (
	"net/http"

	_ "github.com/ayres-originals/originals-api/docs"
	"github.com/ayres-originals/originals-api/internal/http/ban"
	"github.com/ayres-originals/originals-api/internal/http/handlers"
	mw "github.com/ayres-originals/originals-api/internal/http/middleware"
	rl "github.com/ayres-originals/originals-api/internal/http/rate_limiter"
	"github.com/ayres-originals/originals-api/internal/models"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Options struct {
	// Limiter throttles the public write routes. Nil disables throttling.
	Limiter *rl.Limiter
	// Bans escalates throttled clients to bans. Optional.
	Bans *ban.Tracker
	// AccessPassword enables the access gate when non-empty.
	AccessPassword string
	// RequestLogging turns on chi's request logger.
	RequestLogging bool
	// TrustProxy rewrites RemoteAddr from forwarding headers before rate limiting.
	TrustProxy bool
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	if opts.RequestLogging {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(mw.CORS())
	r.Use(mw.AccessGate(opts.AccessPassword))

	throttled := func(r chi.Router) chi.Router {
		if opts.Limiter == nil {
			return r
		}
		return r.With(mw.RateLimit(opts.Limiter, opts.Bans))
	}

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Get("/health", handlers.HealthHandler)

	throttled(r).Post("/verify", handlers.VerifyHandler)
	throttled(r).Post("/access", handlers.NewAccessHandler(opts.AccessPassword))
	throttled(r).Post("/signup", handlers.SignupHandler)
	throttled(r).Post("/login", handlers.LoginHandler)
	throttled(r).Post("/password/reset", handlers.PasswordResetHandler)
	r.Post("/password/reset/confirm", handlers.PasswordResetConfirmHandler)
	r.Post("/refresh", handlers.RefreshHandler)
	r.Post("/logout", handlers.LogoutHandler)

	r.Get("/profiles/search", handlers.SearchProfilesHandler)
	r.Get("/profiles/{id}", handlers.GetProfileHandler)
	r.Get("/profiles/{id}/products", handlers.GetProfileProductsHandler)

	r.Get("/products", handlers.GetProductsHandler)
	r.Get("/products/search", handlers.FilterProductsHandler)
	r.Get("/products/{id}", handlers.GetProductByIDHandler)
	r.Get("/products/{id}/verifications", handlers.GetVerificationsHandler)
	r.Get("/products/{id}/verifications/export", handlers.ExportVerificationsHandler)

	r.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware)

		r.Put("/profiles/me", handlers.UpdateMyProfileHandler)

		r.Post("/products", handlers.CreateProductHandler)
		r.Post("/products/import", handlers.ImportProductsHandler)
		r.Put("/products/{id}", handlers.UpdateProductHandler)
		r.Delete("/products/{id}", handlers.DeleteProductHandler)
		throttled(r).Post("/products/{id}/verify", handlers.VerifyProductHandler)

		r.Post("/images", handlers.UploadImageHandler)

		r.With(mw.RequireRole(models.RoleAdmin)).Get("/metrics/dashboard", handlers.GetDashboardMetricsHandler)
	})

	return r
}
