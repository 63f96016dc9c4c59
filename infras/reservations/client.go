package reservations

//go:generate go run go.uber.org/mock/mockgen -source=./client.go -destination=./mocks/client_mock.go -package=mocks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"

	"concierge/config"
	"concierge/infras/otel"
	catalogModel "concierge/internal/domains/catalog/model"
	reservationModel "concierge/internal/domains/reservation/model"
	"concierge/shared/constant"
	"concierge/shared/failure"
	"concierge/shared/wallclock"
)

// AvailabilityRequest asks the reservation service which resources of a kind
// are eligible for a time range and party size. The call is idempotent and
// side-effect-free on the remote side.
type AvailabilityRequest struct {
	Kind      string
	Start     time.Time
	End       time.Time
	PartySize int
}

type Client interface {
	CheckAvailability(ctx context.Context, req AvailabilityRequest) ([]catalogModel.Resource, error)
	ListResources(ctx context.Context, kind string) ([]catalogModel.Resource, error)
	ListReservations(ctx context.Context, kind string) ([]reservationModel.Reservation, error)
	CreateReservation(ctx context.Context, reservation reservationModel.Reservation) (reservationModel.Reservation, error)
	UpdateReservation(ctx context.Context, reservation reservationModel.Reservation) (reservationModel.Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
}

type clientImpl struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	codec      wallclock.Codec
	breaker    *gobreaker.CircuitBreaker[[]byte]
	otel       otel.Otel
}

func New(cfg *config.Config, codec wallclock.Codec, ot otel.Otel) Client {
	settings := gobreaker.Settings{
		Name:    "reservation-service",
		Timeout: time.Duration(cfg.Upstream.Breaker.CooldownSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(cfg.Upstream.Breaker.MaxFailures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("reservation service circuit breaker state changed")
		},
	}

	return &clientImpl{
		httpClient: &http.Client{Timeout: time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second},
		baseURL:    cfg.Upstream.BaseURL,
		apiKey:     cfg.Upstream.APIKey,
		codec:      codec,
		breaker:    gobreaker.NewCircuitBreaker[[]byte](settings),
		otel:       ot,
	}
}

type availabilityPayload struct {
	ResourceKind string `json:"resource_kind"`
	Start        string `json:"start"`
	End          string `json:"end"`
	PartySize    int    `json:"party_size"`
}

type availabilityResponse struct {
	Success           bool                    `json:"success"`
	Message           string                  `json:"message"`
	EligibleResources []catalogModel.Resource `json:"eligible_resources"`
}

func (c *clientImpl) CheckAvailability(ctx context.Context, req AvailabilityRequest) ([]catalogModel.Resource, error) {
	payload := availabilityPayload{
		ResourceKind: req.Kind,
		Start:        c.codec.ToWire(req.Start),
		End:          c.codec.ToWire(req.End),
		PartySize:    req.PartySize,
	}

	body, err := c.do(ctx, http.MethodPost, "/check-availability", nil, payload)
	if err != nil {
		return nil, err
	}

	var res availabilityResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("failed to decode availability response: %w", err)
	}

	if !res.Success {
		return nil, failure.Upstream(http.StatusBadGateway, res.Message) //nolint:wrapcheck
	}

	return res.EligibleResources, nil
}

type resourcesResponse struct {
	Data []catalogModel.Resource `json:"data"`
}

func (c *clientImpl) ListResources(ctx context.Context, kind string) ([]catalogModel.Resource, error) {
	query := url.Values{}
	if kind != "" {
		query.Set(constant.RequestParamKind, kind)
	}

	body, err := c.do(ctx, http.MethodGet, "/resources", query, nil)
	if err != nil {
		return nil, err
	}

	var res resourcesResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("failed to decode resources response: %w", err)
	}

	return res.Data, nil
}

// wireReservation is the reservation record as the service serializes it; the
// timestamps are naive wall-clock values dressed up as UTC.
type wireReservation struct {
	ID         string  `json:"id"`
	ResourceID string  `json:"resource_id"`
	Kind       string  `json:"kind"`
	GuestName  string  `json:"guest_name"`
	GuestEmail string  `json:"guest_email"`
	GuestPhone string  `json:"guest_phone"`
	PartySize  int     `json:"party_size"`
	Start      string  `json:"start_time"`
	End        string  `json:"end_time"`
	Status     string  `json:"status"`
	TotalPrice float64 `json:"total_price"`
	CreatedAt  string  `json:"created_at,omitempty"`
	UpdatedAt  string  `json:"updated_at,omitempty"`
}

func (c *clientImpl) toWire(reservation reservationModel.Reservation) wireReservation {
	return wireReservation{
		ID:         reservation.ID,
		ResourceID: reservation.ResourceID,
		Kind:       reservation.Kind,
		GuestName:  reservation.GuestName,
		GuestEmail: reservation.GuestEmail,
		GuestPhone: reservation.GuestPhone,
		PartySize:  reservation.PartySize,
		Start:      c.codec.ToWire(reservation.Start),
		End:        c.codec.ToWire(reservation.End),
		Status:     reservation.Status,
		TotalPrice: reservation.TotalPrice,
	}
}

func (c *clientImpl) fromWire(wire wireReservation) (reservationModel.Reservation, error) {
	start, err := c.codec.FromWire(wire.Start)
	if err != nil {
		return reservationModel.Reservation{}, fmt.Errorf("failed to decode reservation start: %w", err)
	}

	end, err := c.codec.FromWire(wire.End)
	if err != nil {
		return reservationModel.Reservation{}, fmt.Errorf("failed to decode reservation end: %w", err)
	}

	return reservationModel.Reservation{
		ID:         wire.ID,
		ResourceID: wire.ResourceID,
		Kind:       wire.Kind,
		GuestName:  wire.GuestName,
		GuestEmail: wire.GuestEmail,
		GuestPhone: wire.GuestPhone,
		PartySize:  wire.PartySize,
		Start:      start,
		End:        end,
		Status:     wire.Status,
		TotalPrice: wire.TotalPrice,
		CreatedAt:  wire.CreatedAt,
		UpdatedAt:  wire.UpdatedAt,
	}, nil
}

type reservationsResponse struct {
	Data []wireReservation `json:"data"`
}

func (c *clientImpl) ListReservations(ctx context.Context, kind string) ([]reservationModel.Reservation, error) {
	query := url.Values{}
	if kind != "" {
		query.Set(constant.RequestParamKind, kind)
	}

	body, err := c.do(ctx, http.MethodGet, "/reservations", query, nil)
	if err != nil {
		return nil, err
	}

	var res reservationsResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("failed to decode reservations response: %w", err)
	}

	reservations := make([]reservationModel.Reservation, 0, len(res.Data))
	for _, wire := range res.Data {
		reservation, err := c.fromWire(wire)
		if err != nil {
			return nil, err
		}

		reservations = append(reservations, reservation)
	}

	return reservations, nil
}

func (c *clientImpl) CreateReservation(ctx context.Context, reservation reservationModel.Reservation) (reservationModel.Reservation, error) {
	body, err := c.do(ctx, http.MethodPost, "/reservations", nil, c.toWire(reservation))
	if err != nil {
		return reservationModel.Reservation{}, err
	}

	return c.decodeReservation(body)
}

func (c *clientImpl) UpdateReservation(ctx context.Context, reservation reservationModel.Reservation) (reservationModel.Reservation, error) {
	body, err := c.do(ctx, http.MethodPut, "/reservations/"+url.PathEscape(reservation.ID), nil, c.toWire(reservation))
	if err != nil {
		return reservationModel.Reservation{}, err
	}

	return c.decodeReservation(body)
}

func (c *clientImpl) DeleteReservation(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/reservations/"+url.PathEscape(id), nil, nil)

	return err
}

func (c *clientImpl) decodeReservation(body []byte) (reservationModel.Reservation, error) {
	var wire wireReservation
	if err := json.Unmarshal(body, &wire); err != nil {
		return reservationModel.Reservation{}, fmt.Errorf("failed to decode reservation response: %w", err)
	}

	return c.fromWire(wire)
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *clientImpl) do(ctx context.Context, method, path string, query url.Values, payload any) (body []byte, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+"."+method+" "+path)
	defer scope.End()
	defer scope.TraceIfError(err)

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	scope.SetAttribute(constant.OtelUpstreamAttributeKey, endpoint)

	return c.breaker.Execute(func() ([]byte, error) {
		var reqBody io.Reader
		if payload != nil {
			encoded, err := json.Marshal(payload)
			if err != nil {
				return nil, fmt.Errorf("failed to encode request payload: %w", err)
			}

			reqBody = bytes.NewReader(encoded)
		}

		request, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to build upstream request: %w", err)
		}

		request.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
		if c.apiKey != "" {
			request.Header.Set(constant.RequestHeaderAPIKey, c.apiKey)
		}

		response, err := c.httpClient.Do(request)
		if err != nil {
			return nil, fmt.Errorf("reservation service request failed: %w", err)
		}
		defer response.Body.Close()

		body, err := io.ReadAll(response.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read upstream response: %w", err)
		}

		if response.StatusCode >= http.StatusBadRequest {
			var remote errorResponse
			_ = json.Unmarshal(body, &remote)

			msg := remote.Error
			if msg == "" {
				msg = remote.Message
			}

			log.Error().
				Int("status", response.StatusCode).
				Str("endpoint", endpoint).
				Str("message", msg).
				Msg("reservation service returned an error")

			return nil, failure.Upstream(response.StatusCode, msg) //nolint:wrapcheck
		}

		return body, nil
	})
}
