package shared

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"concierge/shared/cache"
	"concierge/shared/constant"
)

const cacheKeySeparator = ":"

// BuildCacheKey joins a cache namespace with its discriminating parts.
func BuildCacheKey(parts ...string) string {
	return strings.Join(parts, cacheKeySeparator)
}

// InvalidateCaches clears every key under the given prefix. Errors are logged
// and swallowed; a stale cache entry expires on its own TTL anyway.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, BuildCacheKey(prefix, constant.Asterix)); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}
