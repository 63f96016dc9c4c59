package constant

import (
	"time"
)

// Context key types to avoid collisions
type contextKey string

const (
	ContextKeySessionID contextKey = "session_id"
	ContextKeyRequestID contextKey = "request_id"
)

const (
	RequestParamID        = "id"
	RequestParamSession   = "session"
	RequestParamKind      = "kind"
	RequestParamDate      = "date"
	RequestParamStartDate = "start_date"
)

const (
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

const (
	DateFormat    = time.RFC3339
	DayFormat     = "2006-01-02"
	ClockFormat   = "15:04"
	MinuteSeconds = 60
)

const (
	OtelServiceScopeName  = "service"
	OtelHandlerScopeName  = "handler"
	OtelExternalScopeName = "external"
	OtelEventScopeName    = "event"

	OtelUpstreamAttributeKey = "upstream.endpoint"
)

const (
	RequestHeaderAuthorization      = "Authorization"
	RequestHeaderUserAgent          = "User-Agent"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"
	RequestHeaderRequestID          = "X-Request-ID"
	RequestHeaderAPIKey             = "X-API-Key"
	RequestHeaderSessionID          = "X-Session-ID"
	RequestHeaderForwardedFor       = "X-Forwarded-For"
	RequestHeaderRealIP             = "X-Real-IP"
)

const (
	ContentTypeJSON = "application/json"
)

const (
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy            = "SERVER UNHEALTHY"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
)

const (
	ServerEnvDevelopment = "development"
	ServerEnvProduction  = "production"
)

const (
	Asterix = "*"
	Empty   = ""
)
