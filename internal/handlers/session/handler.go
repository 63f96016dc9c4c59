// Package session exposes the booking draft flow over HTTP. A client opens a
// session, edits its draft field by field, and submits; availability refresh
// happens server-side between edits.
package session

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"concierge/infras/otel"
	"concierge/internal/domains/draft/model/dto"
	"concierge/internal/domains/draft/service"
	"concierge/shared/constant"
	"concierge/shared/validator"
	"concierge/transport/http/response"
)

type Handler struct {
	service service.Draft
	otel    otel.Otel
}

func New(service service.Draft, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/sessions", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.OpenSession)
		routerGroup.Delete("/{session}", handler.CloseSession)
		routerGroup.Get("/{session}/draft", handler.GetDraft)
		routerGroup.Post("/{session}/draft", handler.OpenDraft)
		routerGroup.Post("/{session}/draft/edit", handler.OpenEditDraft)
		routerGroup.Patch("/{session}/draft", handler.UpdateDraft)
		routerGroup.Post("/{session}/draft/reset", handler.ResetDraft)
		routerGroup.Post("/{session}/draft/submit", handler.SubmitDraft)
	})
}

// OpenSession starts a booking session.
// @Summary Open a booking session
// @Description Open a session that can hold one booking draft at a time.
// @Tags Session
// @Accept json
// @Produce json
// @Success 201 {object} response.Data[dto.OpenSessionResponse] "Opened session"
// @Router /v1/sessions [post]
func (handler *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".OpenSession")
	defer scope.End()

	session, err := handler.service.OpenSession(ctx)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, session)
}

// CloseSession discards a session and its draft.
// @Summary Close a booking session
// @Description Close a session, discarding any in-progress draft.
// @Tags Session
// @Accept json
// @Produce json
// @Param session path string true "Session ID"
// @Success 200 {object} response.Message "Session closed"
// @Failure 404 {object} response.Error
// @Router /v1/sessions/{session} [delete]
func (handler *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CloseSession")
	defer scope.End()

	if err := handler.service.CloseSession(ctx, chi.URLParam(r, constant.RequestParamSession)); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Session closed")
}

// GetDraft returns the session's draft snapshot.
// @Summary Get the draft
// @Description Retrieve the current draft state, including its availability set.
// @Tags Session
// @Accept json
// @Produce json
// @Param session path string true "Session ID"
// @Success 200 {object} response.Data[dto.DraftResponse] "Draft snapshot"
// @Failure 404 {object} response.Error
// @Router /v1/sessions/{session}/draft [get]
func (handler *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDraft")
	defer scope.End()

	draft, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamSession))
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, draft)
}

// OpenDraft starts a new draft in create mode.
// @Summary Open a create-mode draft
// @Description Start drafting a new reservation of the given kind.
// @Tags Session
// @Accept json
// @Produce json
// @Param session path string true "Session ID"
// @Param request body dto.OpenCreateRequest true "Open Draft Request"
// @Success 200 {object} response.Data[dto.DraftResponse] "Opened draft"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/sessions/{session}/draft [post]
func (handler *Handler) OpenDraft(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".OpenDraft")
	defer scope.End()

	req := dto.OpenCreateRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	draft, err := handler.service.OpenCreate(ctx, chi.URLParam(r, constant.RequestParamSession), req)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, draft)
}

// OpenEditDraft starts a draft seeded from an existing reservation.
// @Summary Open an edit-mode draft
// @Description Start editing an existing reservation; its resource stays selectable for the draft's lifetime.
// @Tags Session
// @Accept json
// @Produce json
// @Param session path string true "Session ID"
// @Param request body dto.OpenEditRequest true "Open Edit Request"
// @Success 200 {object} response.Data[dto.DraftResponse] "Opened draft"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/sessions/{session}/draft/edit [post]
func (handler *Handler) OpenEditDraft(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".OpenEditDraft")
	defer scope.End()

	req := dto.OpenEditRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	draft, err := handler.service.OpenEdit(ctx, chi.URLParam(r, constant.RequestParamSession), req)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, draft)
}

// UpdateDraft applies field changes to the draft.
// @Summary Update the draft
// @Description Apply one or more field changes; time or party size changes trigger an availability refresh.
// @Tags Session
// @Accept json
// @Produce json
// @Param session path string true "Session ID"
// @Param request body dto.UpdateDraftRequest true "Update Draft Request"
// @Success 200 {object} response.Data[dto.DraftResponse] "Updated draft"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "Draft is read-only after a failed availability refresh"
// @Router /v1/sessions/{session}/draft [patch]
func (handler *Handler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateDraft")
	defer scope.End()

	req := dto.UpdateDraftRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	draft, err := handler.service.Update(ctx, chi.URLParam(r, constant.RequestParamSession), req)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, draft)
}

// ResetDraft abandons the draft, clearing any read-only lock.
// @Summary Reset the draft
// @Description Abandon the draft and return the session to idle.
// @Tags Session
// @Accept json
// @Produce json
// @Param session path string true "Session ID"
// @Success 200 {object} response.Data[dto.DraftResponse] "Reset draft"
// @Failure 404 {object} response.Error
// @Router /v1/sessions/{session}/draft/reset [post]
func (handler *Handler) ResetDraft(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ResetDraft")
	defer scope.End()

	draft, err := handler.service.Reset(ctx, chi.URLParam(r, constant.RequestParamSession))
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, draft)
}

// SubmitDraft validates and persists the draft.
// @Summary Submit the draft
// @Description Validate the draft and persist it through the reservation service.
// @Tags Session
// @Accept json
// @Produce json
// @Param session path string true "Session ID"
// @Success 200 {object} response.Data[dto.DraftResponse] "Draft after submission"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/sessions/{session}/draft/submit [post]
func (handler *Handler) SubmitDraft(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SubmitDraft")
	defer scope.End()

	draft, err := handler.service.Submit(ctx, chi.URLParam(r, constant.RequestParamSession))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to submit draft")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservation submitted successfully")

	response.WithJSON(w, http.StatusOK, draft)
}
