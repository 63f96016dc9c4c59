package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"concierge/config"
	"concierge/infras/otel"
	"concierge/shared/cache"
	"concierge/shared/constant"
	"concierge/shared/failure"
	"concierge/transport/http/response"
)

type AppMiddleware interface {
	CORS() func(http.Handler) http.Handler
	RateLimit() func(http.Handler) http.Handler
	APIKey() func(http.Handler) http.Handler
	Tracing() func(http.Handler) http.Handler
	RequestID() func(http.Handler) http.Handler
}

type appMiddleware struct {
	config *config.Config
	cache  cache.RedisCache
	otel   otel.Otel
}

func NewAppMiddleware(cfg *config.Config, cache cache.RedisCache, otel otel.Otel) AppMiddleware {
	return &appMiddleware{
		config: cfg,
		cache:  cache,
		otel:   otel,
	}
}

func (a *appMiddleware) CORS() func(http.Handler) http.Handler {
	if !a.config.App.CORS.Enable {
		return passthrough
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   a.config.App.CORS.AllowedOrigins,
		AllowedMethods:   a.config.App.CORS.AllowedMethods,
		AllowedHeaders:   a.config.App.CORS.AllowedHeaders,
		AllowCredentials: a.config.App.CORS.AllowCredentials,
		MaxAge:           a.config.App.CORS.MaxAgeSeconds,
	})
}

// APIKey gates every route behind the shared dashboard key. An empty
// configured key disables the check.
func (a *appMiddleware) APIKey() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if a.config.App.APIKey == "" {
				next.ServeHTTP(w, r)

				return
			}

			if r.Header.Get(constant.RequestHeaderAPIKey) != a.config.App.APIKey {
				response.WithError(w, failure.Unauthorized("invalid or missing api key"))

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Tracing opens a root span per request; handler scopes nest under it.
func (a *appMiddleware) Tracing() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, scope := a.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, r.Method+" "+r.URL.Path)
			defer scope.End()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (a *appMiddleware) RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(constant.RequestHeaderRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}

			w.Header().Set(constant.RequestHeaderRequestID, requestID)

			ctx := context.WithValue(r.Context(), constant.ContextKeyRequestID, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func passthrough(next http.Handler) http.Handler {
	return next
}
