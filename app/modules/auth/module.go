package auth

import (
	"context"
	"log/slog"
	"sync"

	authhandlers "github.com/Black-And-White-Club/frolf-fantasy/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/Black-And-White-Club/frolf-fantasy/app/modules/auth/infrastructure/jwt"
	"github.com/Black-And-White-Club/frolf-fantasy/config"
	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

// RouteRegistrar is implemented by module HTTP handlers that serve
// authenticated routes.
type RouteRegistrar interface {
	Routes(r chi.Router)
}

// AdminRouteRegistrar is implemented by handlers with admin-only routes.
type AdminRouteRegistrar interface {
	AdminRoutes(r chi.Router)
}

// Module represents the auth module. It owns token validation and the
// middleware chain in front of every API route.
type Module struct {
	Provider   authjwt.Provider
	limiter    *authhandlers.IPRateLimiter
	config     *config.Config
	cancelFunc context.CancelFunc
	logger     *slog.Logger
}

// NewModule creates a new auth module.
func NewModule(ctx context.Context, cfg *config.Config, logger *slog.Logger, clock clockwork.Clock) *Module {
	logger.InfoContext(ctx, "Initializing auth module")

	return &Module{
		Provider: authjwt.NewProvider(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience),
		limiter:  authhandlers.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst, clock),
		config:   cfg,
		logger:   logger,
	}
}

// Mount registers the /api tree. Every route goes through CORS, the per-IP
// rate limit and bearer authentication; admin routes additionally require the
// admin role.
func (m *Module) Mount(httpRouter chi.Router, registrars ...RouteRegistrar) {
	httpRouter.Route("/api", func(r chi.Router) {
		r.Use(authhandlers.CORSMiddleware(m.config.HTTP.AllowedOrigins))
		r.Use(authhandlers.RateLimitMiddleware(m.limiter))
		r.Use(authhandlers.Authenticate(m.Provider, m.logger))

		for _, reg := range registrars {
			reg.Routes(r)
		}

		r.Group(func(r chi.Router) {
			r.Use(authhandlers.RequireAdmin)
			for _, reg := range registrars {
				if admin, ok := reg.(AdminRouteRegistrar); ok {
					admin.AdminRoutes(r)
				}
			}
		})
	})
}

// Run starts the auth module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting auth module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Auth module goroutine stopped")
}

// Close stops the auth module.
func (m *Module) Close() error {
	m.logger.Info("Stopping auth module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.logger.Info("Auth module stopped")
	return nil
}
