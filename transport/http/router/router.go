package router

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	"concierge/internal/handlers/catalog"
	"concierge/internal/handlers/health"
	"concierge/internal/handlers/reservation"
	"concierge/internal/handlers/session"
	"concierge/transport/http/middleware"
)

type DomainHandlers struct {
	Health      health.Handler
	Catalog     catalog.Handler
	Reservation reservation.Handler
	Session     session.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	Middleware     middleware.AppMiddleware
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(r.Middleware.RequestID())
	router.Use(r.Middleware.Tracing())
	router.Use(r.Middleware.CORS())
	router.Use(r.Middleware.RateLimit())

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Health.Router(routerGroup)

		routerGroup.Group(func(protected chi.Router) {
			protected.Use(r.Middleware.APIKey())

			r.DomainHandlers.Catalog.Router(protected)
			r.DomainHandlers.Reservation.Router(protected)
			r.DomainHandlers.Session.Router(protected)
		})
	})
}

func New(domainHandlers DomainHandlers, appMiddleware middleware.AppMiddleware) Router {
	return Router{
		DomainHandlers: domainHandlers,
		Middleware:     appMiddleware,
	}
}
