package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"concierge/config"
	"concierge/infras/kafka"
	"concierge/infras/otel"
	"concierge/infras/reservations"
	catalogModel "concierge/internal/domains/catalog/model"
	"concierge/internal/domains/reservation/model"
	"concierge/internal/domains/reservation/model/dto"
	"concierge/internal/domains/timeline"
	"concierge/shared"
	"concierge/shared/cache"
	"concierge/shared/constant"
	"concierge/shared/failure"
	"concierge/shared/wallclock"
)

const (
	cacheGetAllReservation = "reservation:gets"

	topicCreated   = "reservation.created"
	topicUpdated   = "reservation.updated"
	topicCancelled = "reservation.cancelled"
	topicDeleted   = "reservation.deleted"
)

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

// Reservation proxies the reservation records held by the external service,
// caching reads and publishing lifecycle events on mutation.
type Reservation interface {
	GetAll(ctx context.Context, kind string) (dto.GetReservationsResponse, error)
	GetDay(ctx context.Context, kind string, day time.Time) (dto.GetReservationsResponse, error)
	Timeline(ctx context.Context, kind string, start time.Time) (dto.TimelineResponse, error)
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.ReservationResponse, error)
	Update(ctx context.Context, req dto.UpdateReservationRequest, id string) (dto.ReservationResponse, error)
	Delete(ctx context.Context, id string) error

	// Persist and Models are the draft service's entry points; they work on
	// models directly so a submit does not round-trip through wire DTOs.
	Persist(ctx context.Context, reservation model.Reservation, update bool) (model.Reservation, error)
	Models(ctx context.Context, kind string) ([]model.Reservation, error)
}

type serviceImpl struct {
	client reservations.Client
	cfg    *config.Config
	cache  cache.RedisCache
	events kafka.Client
	codec  wallclock.Codec
	otel   otel.Otel
}

func New(client reservations.Client, cfg *config.Config, cache cache.RedisCache, events kafka.Client, codec wallclock.Codec, otel otel.Otel) Reservation {
	return &serviceImpl{
		client: client,
		cfg:    cfg,
		cache:  cache,
		events: events,
		codec:  codec,
		otel:   otel,
	}
}

func (s *serviceImpl) Models(ctx context.Context, kind string) (res []model.Reservation, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Models")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetAllReservation, kind)
	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.client.ListReservations(ctx, kind)
	if err != nil {
		log.Error().Err(err).Str("kind", kind).Msg("failed to fetch reservations")

		return nil, fmt.Errorf("failed to fetch reservations: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)
		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Warn().Err(err).Msg("failed to save reservations to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, kind string) (res dto.GetReservationsResponse, err error) {
	models, err := s.Models(ctx, kind)
	if err != nil {
		return dto.GetReservationsResponse{}, err
	}

	res.FromModels(models, s.codec)

	return res, nil
}

// GetDay narrows the list to bookings touching one calendar day, matching on
// local wall-clock days rather than instants.
func (s *serviceImpl) GetDay(ctx context.Context, kind string, day time.Time) (res dto.GetReservationsResponse, err error) {
	models, err := s.Models(ctx, kind)
	if err != nil {
		return dto.GetReservationsResponse{}, err
	}

	filtered := make([]model.Reservation, 0, len(models))
	for _, m := range models {
		if wallclock.SameDay(m.Start, day) || wallclock.SameDay(m.End, day) {
			filtered = append(filtered, m)
		}
	}

	res.FromModels(filtered, s.codec)

	return res, nil
}

// Timeline projects the kind's reservations onto its grid: one restaurant day
// of hourly cells for tables, a rolling day window for rooms.
func (s *serviceImpl) Timeline(ctx context.Context, kind string, start time.Time) (res dto.TimelineResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Timeline")
	defer scope.End()
	defer scope.TraceIfError(err)

	models, err := s.Models(ctx, kind)
	if err != nil {
		return dto.TimelineResponse{}, err
	}

	var window timeline.Window
	if kind == catalogModel.KindRoom {
		window = timeline.DayWindow(start, s.cfg.Booking.HotelWindowDays)
	} else {
		window = timeline.HourWindow(start, s.cfg.Booking.RestaurantOpenHour, s.cfg.Booking.RestaurantHours)
	}

	res.FromWindow(window, window.Project(models), s.codec)

	return res, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	reservation, err := req.ToModel(s.codec)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse reservation request")

		return dto.ReservationResponse{}, failure.BadRequestFromString(fmt.Sprintf("invalid date/time format: %v", err)) //nolint:wrapcheck
	}

	created, err := s.Persist(ctx, reservation, false)
	if err != nil {
		return dto.ReservationResponse{}, err
	}

	res.FromModel(created, s.codec)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateReservationRequest, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	existing, err := s.find(ctx, id)
	if err != nil {
		return dto.ReservationResponse{}, err
	}

	reservation, err := req.Apply(existing, s.codec)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse reservation update")

		return dto.ReservationResponse{}, failure.BadRequestFromString(fmt.Sprintf("invalid date/time format: %v", err)) //nolint:wrapcheck
	}

	updated, err := s.Persist(ctx, reservation, true)
	if err != nil {
		return dto.ReservationResponse{}, err
	}

	res.FromModel(updated, s.codec)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	existing, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err := s.client.DeleteReservation(ctx, id); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to delete reservation")

		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	s.afterMutation(ctx, topicDeleted, existing)

	return nil
}

func (s *serviceImpl) Persist(ctx context.Context, reservation model.Reservation, update bool) (saved model.Reservation, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Persist")
	defer scope.End()
	defer scope.TraceIfError(err)

	topic := topicCreated

	if update {
		topic = topicUpdated
		if reservation.Status == model.StatusCancelled {
			topic = topicCancelled
		}

		saved, err = s.client.UpdateReservation(ctx, reservation)
	} else {
		if reservation.ID == "" {
			reservation.ID = uuid.NewString()
		}

		saved, err = s.client.CreateReservation(ctx, reservation)
	}

	if err != nil {
		log.Error().Err(err).Str("id", reservation.ID).Msg("failed to persist reservation")

		return model.Reservation{}, fmt.Errorf("failed to persist reservation: %w", err)
	}

	s.afterMutation(ctx, topic, saved)

	return saved, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Reservation, error) {
	models, err := s.Models(ctx, "")
	if err != nil {
		return model.Reservation{}, err
	}

	for _, m := range models {
		if m.ID == id {
			return m, nil
		}
	}

	return model.Reservation{}, failure.NotFound(model.EntityName) //nolint:wrapcheck
}

// afterMutation invalidates the read cache and publishes the lifecycle event,
// both off the request path.
func (s *serviceImpl) afterMutation(ctx context.Context, topic string, reservation model.Reservation) {
	go func() {
		c := context.WithoutCancel(ctx)
		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
		s.publish(c, topic, reservation)
	}()
}

func (s *serviceImpl) publish(ctx context.Context, topic string, reservation model.Reservation) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".publish")
	defer scope.End()

	// The kafka client JSON-encodes Value itself.
	message := kafka.Message{
		Key: reservation.ID,
		Value: eventPayload{
			ID:         reservation.ID,
			ResourceID: reservation.ResourceID,
			Kind:       reservation.Kind,
			PartySize:  reservation.PartySize,
			Start:      s.codec.ToWire(reservation.Start),
			End:        s.codec.ToWire(reservation.End),
			Status:     reservation.Status,
		},
	}

	fullTopic := s.cfg.Kafka.TopicPrefix + "." + topic
	if err := s.events.SendMessages(ctx, fullTopic, message); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Str("topic", fullTopic).Msg("failed to publish reservation event")
	}
}

type eventPayload struct {
	ID         string `json:"id"`
	ResourceID string `json:"resource_id"`
	Kind       string `json:"kind"`
	PartySize  int    `json:"party_size"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Status     string `json:"status"`
}
