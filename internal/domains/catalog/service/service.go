package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"concierge/config"
	"concierge/infras/otel"
	"concierge/infras/reservations"
	"concierge/internal/domains/catalog/model"
	"concierge/shared"
	"concierge/shared/cache"
	"concierge/shared/constant"
)

const cacheGetAllResource = "resource:gets"

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

// Catalog serves the bookable resource list of a kind. The reservation
// service owns the data; this layer only caches it so the availability
// fallback never has to wait on the network.
type Catalog interface {
	GetAll(ctx context.Context, kind string) ([]model.Resource, error)
}

type serviceImpl struct {
	client reservations.Client
	cfg    *config.Config
	cache  cache.RedisCache
	otel   otel.Otel
}

func New(client reservations.Client, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Catalog {
	return &serviceImpl{
		client: client,
		cfg:    cfg,
		cache:  cache,
		otel:   otel,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, kind string) (res []model.Resource, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetAllResource, kind)
	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.client.ListResources(ctx, kind)
	if err != nil {
		log.Error().Err(err).Str("kind", kind).Msg("failed to fetch resources")

		return nil, fmt.Errorf("failed to fetch resources: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)
		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Warn().Err(err).Msg("failed to save resources to cache")
		}
	}()

	return res, nil
}
