package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"concierge/config"
	"concierge/infras/otel"
	"concierge/infras/reservations"
	"concierge/internal/domains/availability"
	catalogModel "concierge/internal/domains/catalog/model"
	catalogService "concierge/internal/domains/catalog/service"
	"concierge/internal/domains/draft/model"
	"concierge/internal/domains/draft/model/dto"
	"concierge/internal/domains/pricing"
	reservationModel "concierge/internal/domains/reservation/model"
	reservationService "concierge/internal/domains/reservation/service"
	"concierge/shared/constant"
	"concierge/shared/failure"
	"concierge/shared/wallclock"
)

// Draft manages booking sessions. Each session owns at most one draft plus
// its availability debouncer; all draft mutation is funneled through the
// session mutex, so the state machine itself never races.
type Draft interface {
	OpenSession(ctx context.Context) (dto.OpenSessionResponse, error)
	CloseSession(ctx context.Context, sessionID string) error
	OpenCreate(ctx context.Context, sessionID string, req dto.OpenCreateRequest) (dto.DraftResponse, error)
	OpenEdit(ctx context.Context, sessionID string, req dto.OpenEditRequest) (dto.DraftResponse, error)
	Update(ctx context.Context, sessionID string, req dto.UpdateDraftRequest) (dto.DraftResponse, error)
	Get(ctx context.Context, sessionID string) (dto.DraftResponse, error)
	Reset(ctx context.Context, sessionID string) (dto.DraftResponse, error)
	Submit(ctx context.Context, sessionID string) (dto.DraftResponse, error)
}

type session struct {
	id        string
	mu        sync.Mutex
	draft     model.Draft
	debouncer *availability.Debouncer
	lastSeen  time.Time

	// availabilityGen is the generation of the session's latest Request,
	// written under mu by refresh and compared in sink.
	availabilityGen uint64
}

type serviceImpl struct {
	client       reservations.Client
	catalog      catalogService.Catalog
	reservations reservationService.Reservation
	cfg          *config.Config
	codec        wallclock.Codec
	otel         otel.Otel

	mu       sync.Mutex
	sessions map[string]*session
}

func New(client reservations.Client, catalog catalogService.Catalog, reservations reservationService.Reservation, cfg *config.Config, codec wallclock.Codec, otel otel.Otel) Draft {
	return &serviceImpl{
		client:       client,
		catalog:      catalog,
		reservations: reservations,
		cfg:          cfg,
		codec:        codec,
		otel:         otel,
		sessions:     make(map[string]*session),
	}
}

func (s *serviceImpl) OpenSession(ctx context.Context) (res dto.OpenSessionResponse, err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".OpenSession")
	defer scope.End()

	sess := &session{
		id:       uuid.NewString(),
		draft:    model.Draft{State: model.StateIdle},
		lastSeen: time.Now(),
	}

	sess.debouncer = availability.NewDebouncer(
		s.client,
		time.Duration(s.cfg.Booking.SettleMs)*time.Millisecond,
		s.sink(sess),
	)

	s.mu.Lock()
	s.evictExpired()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	return dto.OpenSessionResponse{SessionID: sess.id}, nil
}

func (s *serviceImpl) CloseSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if !ok {
		return failure.SessionNotFound //nolint:wrapcheck
	}

	sess.debouncer.Stop()

	return nil
}

func (s *serviceImpl) OpenCreate(ctx context.Context, sessionID string, req dto.OpenCreateRequest) (res dto.DraftResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".OpenCreate")
	defer scope.End()
	defer scope.TraceIfError(err)

	var start, end time.Time
	if req.Start != "" {
		if start, err = s.codec.FromWire(req.Start); err != nil {
			return dto.DraftResponse{}, failure.BadRequestFromString(fmt.Sprintf("invalid start time: %v", err)) //nolint:wrapcheck
		}
	}

	if req.End != "" {
		if end, err = s.codec.FromWire(req.End); err != nil {
			return dto.DraftResponse{}, failure.BadRequestFromString(fmt.Sprintf("invalid end time: %v", err)) //nolint:wrapcheck
		}
	}

	return s.withSession(ctx, sessionID, func(ctx context.Context, sess *session) error {
		sess.draft = model.OpenCreate(req.Kind, start, end, req.PartySize)
		s.refresh(ctx, sess)

		return nil
	})
}

func (s *serviceImpl) OpenEdit(ctx context.Context, sessionID string, req dto.OpenEditRequest) (res dto.DraftResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".OpenEdit")
	defer scope.End()
	defer scope.TraceIfError(err)

	reservation, err := s.findReservation(ctx, req.ReservationID)
	if err != nil {
		return dto.DraftResponse{}, err
	}

	return s.withSession(ctx, sessionID, func(ctx context.Context, sess *session) error {
		sess.draft = model.OpenEdit(reservation)
		s.refresh(ctx, sess)

		return nil
	})
}

func (s *serviceImpl) Update(ctx context.Context, sessionID string, req dto.UpdateDraftRequest) (res dto.DraftResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.withSession(ctx, sessionID, func(ctx context.Context, sess *session) error {
		availabilityInputsChanged := false

		if req.PartySize != nil {
			if err := sess.draft.SetPartySize(*req.PartySize); err != nil {
				return err
			}

			availabilityInputsChanged = true
		}

		if req.Start != nil || req.End != nil {
			start, end, err := s.resolveRange(sess.draft, req.Start, req.End)
			if err != nil {
				return err
			}

			if err := sess.draft.SetTimeRange(start, end); err != nil {
				return err
			}

			availabilityInputsChanged = true
		}

		if req.ResourceID != nil {
			if err := sess.draft.SetResource(*req.ResourceID); err != nil {
				return err
			}
		}

		if req.GuestName != nil {
			if err := sess.draft.SetContactName(*req.GuestName); err != nil {
				return err
			}
		}

		if req.GuestEmail != nil {
			if err := sess.draft.SetContactEmail(*req.GuestEmail); err != nil {
				return err
			}
		}

		if req.GuestPhone != nil {
			if err := sess.draft.SetContactPhone(*req.GuestPhone); err != nil {
				return err
			}
		}

		if req.Status != nil {
			if err := sess.draft.SetStatus(*req.Status); err != nil {
				return err
			}
		}

		if availabilityInputsChanged {
			s.refresh(ctx, sess)
		}

		return nil
	})
}

func (s *serviceImpl) Get(ctx context.Context, sessionID string) (res dto.DraftResponse, err error) {
	return s.withSession(ctx, sessionID, func(ctx context.Context, sess *session) error {
		return nil
	})
}

func (s *serviceImpl) Reset(ctx context.Context, sessionID string) (res dto.DraftResponse, err error) {
	return s.withSession(ctx, sessionID, func(ctx context.Context, sess *session) error {
		sess.debouncer.Stop()
		sess.draft.Reset()

		return nil
	})
}

func (s *serviceImpl) Submit(ctx context.Context, sessionID string) (res dto.DraftResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Submit")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.withSession(ctx, sessionID, func(ctx context.Context, sess *session) error {
		if err := sess.draft.BeginSubmit(); err != nil {
			return err
		}

		update := sess.draft.Mode == model.ModeEdit
		_, err := s.reservations.Persist(ctx, sess.draft.ToReservation(), update)
		if err != nil {
			sess.draft.FinishSubmit(false)

			return err
		}

		sess.draft.FinishSubmit(true)

		return nil
	})
}

// withSession runs fn under the session mutex and snapshots the draft into a
// response afterwards. The snapshot is taken even when fn fails so callers
// can surface the untouched draft alongside the error.
func (s *serviceImpl) withSession(ctx context.Context, sessionID string, fn func(ctx context.Context, sess *session) error) (dto.DraftResponse, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return dto.DraftResponse{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.lastSeen = time.Now()

	fnErr := fn(ctx, sess)

	var res dto.DraftResponse
	res.FromModel(sess.draft, s.nights(sess.draft), s.codec)

	return res, fnErr
}

func (s *serviceImpl) lookup(sessionID string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, failure.SessionNotFound //nolint:wrapcheck
	}

	return sess, nil
}

// evictExpired drops sessions idle past the TTL. Callers hold s.mu.
func (s *serviceImpl) evictExpired() {
	ttl := time.Duration(s.cfg.Booking.SessionTTLSeconds) * time.Second
	cutoff := time.Now().Add(-ttl)

	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			sess.debouncer.Stop()
			delete(s.sessions, id)
		}
	}
}

// refresh hands the draft's current inputs to the debouncer. Candidates come
// from the cached catalog; a catalog failure degrades to an empty candidate
// list rather than blocking the edit.
func (s *serviceImpl) refresh(ctx context.Context, sess *session) {
	candidates, err := s.catalog.GetAll(ctx, sess.draft.Kind)
	if err != nil {
		log.Warn().Err(err).Str("kind", sess.draft.Kind).Msg("failed to load candidate resources")
	}

	sess.availabilityGen = sess.debouncer.Request(availability.Params{
		Kind:               sess.draft.Kind,
		Start:              sess.draft.Start,
		End:                sess.draft.End,
		PartySize:          sess.draft.PartySize,
		Edit:               sess.draft.Mode == model.ModeEdit,
		OriginalResourceID: sess.draft.OriginalResourceID,
		Candidates:         candidates,
	})
}

// sink applies debouncer results to the session's draft. It runs on the
// debouncer goroutine, hence the explicit lock.
func (s *serviceImpl) sink(sess *session) func(availability.Result) {
	return func(r availability.Result) {
		sess.mu.Lock()
		defer sess.mu.Unlock()

		if sess.draft.State == model.StateIdle {
			return
		}

		// The debouncer's staleness check runs before this callback can take
		// the session lock, so a result can pass it and then queue behind a
		// draft swap. Re-check against the session's latest generation here.
		if r.Set.Generation != sess.availabilityGen {
			return
		}

		sess.draft.ApplyAvailability(r.Set, r.Err)
	}
}

func (s *serviceImpl) nights(draft model.Draft) int {
	if draft.Kind != catalogModel.KindRoom || draft.Start.IsZero() || draft.End.IsZero() {
		return 0
	}

	return pricing.Nights(draft.Start, draft.End)
}

func (s *serviceImpl) resolveRange(draft model.Draft, start, end *string) (time.Time, time.Time, error) {
	resolvedStart := draft.Start
	resolvedEnd := draft.End

	if start != nil {
		parsed, err := s.codec.FromWire(*start)
		if err != nil {
			return time.Time{}, time.Time{}, failure.BadRequestFromString(fmt.Sprintf("invalid start time: %v", err)) //nolint:wrapcheck
		}

		resolvedStart = parsed
	}

	if end != nil {
		parsed, err := s.codec.FromWire(*end)
		if err != nil {
			return time.Time{}, time.Time{}, failure.BadRequestFromString(fmt.Sprintf("invalid end time: %v", err)) //nolint:wrapcheck
		}

		resolvedEnd = parsed
	}

	return resolvedStart, resolvedEnd, nil
}

func (s *serviceImpl) findReservation(ctx context.Context, id string) (reservationModel.Reservation, error) {
	models, err := s.reservations.Models(ctx, "")
	if err != nil {
		return reservationModel.Reservation{}, err
	}

	for _, m := range models {
		if m.ID == id {
			return m, nil
		}
	}

	return reservationModel.Reservation{}, failure.NotFound(reservationModel.EntityName) //nolint:wrapcheck
}
