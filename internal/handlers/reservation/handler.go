package reservation

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"concierge/infras/otel"
	"concierge/internal/domains/reservation/model/dto"
	"concierge/internal/domains/reservation/service"
	"concierge/shared/constant"
	"concierge/shared/failure"
	"concierge/shared/validator"
	"concierge/shared/wallclock"
	"concierge/transport/http/response"
)

type Handler struct {
	service service.Reservation
	codec   wallclock.Codec
	otel    otel.Otel
}

func New(service service.Reservation, codec wallclock.Codec, otel otel.Otel) Handler {
	return Handler{
		service: service,
		codec:   codec,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reservations", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetReservations)
		routerGroup.Get("/timeline", handler.GetTimeline)
		routerGroup.Post("/", handler.CreateReservation)
		routerGroup.Patch("/{id}", handler.UpdateReservation)
		routerGroup.Delete("/{id}", handler.DeleteReservation)
	})
}

// GetReservations lists reservations, optionally narrowed to one calendar day.
// @Summary Get reservations
// @Description Retrieve reservations of a kind, optionally filtered to one local calendar day.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param kind query string false "Resource kind (table, room)"
// @Param date query string false "Calendar day (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetReservationsResponse] "List of reservations"
// @Failure 400 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/reservations [get]
func (handler *Handler) GetReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservations")
	defer scope.End()

	kind := r.URL.Query().Get(constant.RequestParamKind)
	date := r.URL.Query().Get(constant.RequestParamDate)

	var (
		reservations dto.GetReservationsResponse
		err          error
	)

	if date != "" {
		var day time.Time
		day, err = handler.codec.ParseDay(date)
		if err != nil {
			scope.TraceError(err)
			response.WithError(w, failure.BadRequestFromString("invalid date, expected YYYY-MM-DD"))

			return
		}

		reservations, err = handler.service.GetDay(ctx, kind, day)
	} else {
		reservations, err = handler.service.GetAll(ctx, kind)
	}

	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservations")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservations)
}

// GetTimeline projects reservations onto the kind's percentage grid.
// @Summary Get the reservation timeline
// @Description Project reservations onto the hourly grid of one restaurant day or the rolling hotel day window.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param kind query string false "Resource kind (table, room)"
// @Param start_date query string false "Window start day (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Data[dto.TimelineResponse] "Projected timeline"
// @Failure 400 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/reservations/timeline [get]
func (handler *Handler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTimeline")
	defer scope.End()

	kind := r.URL.Query().Get(constant.RequestParamKind)

	start := handler.codec.Day(time.Now().In(handler.codec.Location()))
	if raw := r.URL.Query().Get(constant.RequestParamStartDate); raw != "" {
		parsed, err := handler.codec.ParseDay(raw)
		if err != nil {
			scope.TraceError(err)
			response.WithError(w, failure.BadRequestFromString("invalid start_date, expected YYYY-MM-DD"))

			return
		}

		start = parsed
	}

	timeline, err := handler.service.Timeline(ctx, kind, start)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to project timeline")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, timeline)
}

// CreateReservation stores a new reservation through the reservation service.
// @Summary Create a reservation
// @Description Create a reservation directly, bypassing the draft flow.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param request body dto.CreateReservationRequest true "Create Reservation Request"
// @Success 201 {object} response.Data[dto.ReservationResponse] "Created reservation"
// @Failure 400 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/reservations [post]
func (handler *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReservation")
	defer scope.End()

	req := dto.CreateReservationRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	created, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create reservation")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservation created successfully")

	response.WithJSON(w, http.StatusCreated, created)
}

// UpdateReservation applies a partial update to a reservation.
// @Summary Update a reservation
// @Description Update the given fields of an existing reservation.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.UpdateReservationRequest true "Update Reservation Request"
// @Success 200 {object} response.Data[dto.ReservationResponse] "Updated reservation"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/reservations/{id} [patch]
func (handler *Handler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateReservation")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateReservationRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	updated, err := handler.service.Update(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update reservation")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, updated)
}

// DeleteReservation removes a reservation.
// @Summary Delete a reservation
// @Description Delete a reservation by its ID.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Message "Reservation deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/reservations/{id} [delete]
func (handler *Handler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteReservation")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete reservation")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Reservation deleted successfully")
}
