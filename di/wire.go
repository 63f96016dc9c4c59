//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"
	"github.com/rs/zerolog/log"

	"concierge/config"
	"concierge/infras/kafka"
	"concierge/infras/otel"
	"concierge/infras/redis"
	"concierge/infras/reservations"
	"concierge/shared/cache"
	"concierge/shared/wallclock"
	"concierge/transport/http"
	"concierge/transport/http/middleware"
	"concierge/transport/http/router"

	catalogService "concierge/internal/domains/catalog/service"
	draftService "concierge/internal/domains/draft/service"
	reservationService "concierge/internal/domains/reservation/service"

	catalogHandler "concierge/internal/handlers/catalog"
	healthHandler "concierge/internal/handlers/health"
	reservationHandler "concierge/internal/handlers/reservation"
	sessionHandler "concierge/internal/handlers/session"
)

func provideCodec(cfg *config.Config) wallclock.Codec {
	codec, err := wallclock.Load(cfg.App.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.App.Timezone).Msg("failed to load timezone")
	}

	return codec
}

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	otel.New,
	redis.New,
	kafka.New,
	reservations.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	provideCodec,
)

var catalogDomain = wire.NewSet(
	catalogService.New,
)

var reservationDomain = wire.NewSet(
	reservationService.New,
)

var draftDomain = wire.NewSet(
	draftService.New,
)

var domains = wire.NewSet(
	catalogDomain,
	reservationDomain,
	draftDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	healthHandler.New,
	catalogHandler.New,
	reservationHandler.New,
	sessionHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
