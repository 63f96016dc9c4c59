package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"concierge/config"
	otelMocks "concierge/infras/otel/mocks"
	"concierge/infras/reservations"
	reservationClientMocks "concierge/infras/reservations/mocks"
	catalogModel "concierge/internal/domains/catalog/model"
	catalogMocks "concierge/internal/domains/catalog/service/mocks"
	"concierge/internal/domains/draft/model"
	"concierge/internal/domains/draft/model/dto"
	"concierge/internal/domains/draft/service"
	reservationModel "concierge/internal/domains/reservation/model"
	reservationSvcMocks "concierge/internal/domains/reservation/service/mocks"
	"concierge/shared/failure"
	"concierge/shared/wallclock"
)

type fixture struct {
	client       *reservationClientMocks.MockClient
	catalog      *catalogMocks.MockCatalog
	reservations *reservationSvcMocks.MockReservation
	svc          service.Draft
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &fixture{
		client:       reservationClientMocks.NewMockClient(ctrl),
		catalog:      catalogMocks.NewMockCatalog(ctrl),
		reservations: reservationSvcMocks.NewMockReservation(ctrl),
	}

	cfg := &config.Config{}
	cfg.Booking.SettleMs = 10
	cfg.Booking.SessionTTLSeconds = 1800

	f.svc = service.New(f.client, f.catalog, f.reservations, cfg, wallclock.NewCodec(time.UTC), otelMocks.NewOtel())

	return f
}

func tables() []catalogModel.Resource {
	return []catalogModel.Resource{
		{ID: "t1", Kind: catalogModel.KindTable, Label: "Table 1", Capacity: 2, Active: true},
		{ID: "t2", Kind: catalogModel.KindTable, Label: "Table 2", Capacity: 4, Active: true},
		{ID: "t3", Kind: catalogModel.KindTable, Label: "Table 3", Capacity: 8, Active: true},
	}
}

func (f *fixture) openSession(t *testing.T) string {
	t.Helper()

	res, err := f.svc.OpenSession(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, res.SessionID)

	return res.SessionID
}

func (f *fixture) waitForAvailability(t *testing.T, sessionID string) dto.DraftResponse {
	t.Helper()

	var snapshot dto.DraftResponse

	require.Eventually(t, func() bool {
		res, err := f.svc.Get(context.Background(), sessionID)
		if err != nil {
			return false
		}

		snapshot = res

		return len(res.Available.Entries) > 0 || res.Locked
	}, 2*time.Second, 5*time.Millisecond)

	return snapshot
}

func openCreateRequest() dto.OpenCreateRequest {
	return dto.OpenCreateRequest{
		Kind:      catalogModel.KindTable,
		Start:     "2025-06-01T19:00:00Z",
		End:       "2025-06-01T21:00:00Z",
		PartySize: 2,
	}
}

func TestDraftService_SessionLifecycle(t *testing.T) {
	f := newFixture(t)

	sessionID := f.openSession(t)

	res, err := f.svc.Get(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, model.StateIdle, res.State)

	require.NoError(t, f.svc.CloseSession(context.Background(), sessionID))

	_, err = f.svc.Get(context.Background(), sessionID)
	assert.ErrorIs(t, err, failure.SessionNotFound)

	err = f.svc.CloseSession(context.Background(), "unknown")
	assert.ErrorIs(t, err, failure.SessionNotFound)
}

func TestDraftService_OpenCreateRefreshesAvailability(t *testing.T) {
	f := newFixture(t)

	f.catalog.EXPECT().
		GetAll(gomock.Any(), catalogModel.KindTable).
		Return(tables(), nil).
		AnyTimes()

	f.client.EXPECT().
		CheckAvailability(gomock.Any(), gomock.Any()).
		Return(tables()[:2], nil)

	sessionID := f.openSession(t)

	res, err := f.svc.OpenCreate(context.Background(), sessionID, openCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, model.StateEditing, res.State)
	assert.Equal(t, model.ModeCreate, res.Mode)

	snapshot := f.waitForAvailability(t, sessionID)

	assert.False(t, snapshot.Locked)
	assert.False(t, snapshot.Available.Fallback)
	assert.Len(t, snapshot.Available.Entries, 2)
}

func TestDraftService_AvailabilityFailureLocksDraft(t *testing.T) {
	f := newFixture(t)

	f.catalog.EXPECT().
		GetAll(gomock.Any(), catalogModel.KindTable).
		Return(tables(), nil).
		AnyTimes()

	failing := f.client.EXPECT().
		CheckAvailability(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("upstream down"))

	sessionID := f.openSession(t)

	_, err := f.svc.OpenCreate(context.Background(), sessionID, openCreateRequest())
	require.NoError(t, err)

	snapshot := f.waitForAvailability(t, sessionID)
	require.True(t, snapshot.Locked)
	assert.True(t, snapshot.Available.Fallback)
	assert.NotEmpty(t, snapshot.LastError)

	// Selection, contact, and submit are rejected while the lock holds.
	name := "Ana"
	_, err = f.svc.Update(context.Background(), sessionID, dto.UpdateDraftRequest{GuestName: &name})
	assert.ErrorIs(t, err, failure.DraftLocked)

	_, err = f.svc.Submit(context.Background(), sessionID)
	assert.ErrorIs(t, err, failure.DraftLocked)

	// Correcting an availability input is still allowed; the refresh it
	// triggers clears the lock once the service answers again.
	f.client.EXPECT().
		CheckAvailability(gomock.Any(), gomock.Any()).
		Return(tables(), nil).
		After(failing).
		AnyTimes()

	partySize := 4
	_, err = f.svc.Update(context.Background(), sessionID, dto.UpdateDraftRequest{PartySize: &partySize})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		res, err := f.svc.Get(context.Background(), sessionID)

		return err == nil && !res.Locked
	}, 2*time.Second, 5*time.Millisecond)

	// Reset still abandons the draft.
	res, err := f.svc.Reset(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, model.StateIdle, res.State)
	assert.False(t, res.Locked)
}

func TestDraftService_UpdateAndSubmit(t *testing.T) {
	f := newFixture(t)

	f.catalog.EXPECT().
		GetAll(gomock.Any(), catalogModel.KindTable).
		Return(tables(), nil).
		AnyTimes()

	f.client.EXPECT().
		CheckAvailability(gomock.Any(), gomock.Any()).
		Return(tables(), nil).
		AnyTimes()

	sessionID := f.openSession(t)

	_, err := f.svc.OpenCreate(context.Background(), sessionID, openCreateRequest())
	require.NoError(t, err)

	f.waitForAvailability(t, sessionID)

	resourceID := "t2"
	name := "Ana"
	email := "ana@example.com"
	phone := "555-0101"

	res, err := f.svc.Update(context.Background(), sessionID, dto.UpdateDraftRequest{
		ResourceID: &resourceID,
		GuestName:  &name,
		GuestEmail: &email,
		GuestPhone: &phone,
	})
	require.NoError(t, err)
	assert.Equal(t, "t2", res.ResourceID)
	assert.Equal(t, "Ana", res.Contact.Name)

	f.reservations.EXPECT().
		Persist(gomock.Any(), gomock.Any(), false).
		DoAndReturn(func(_ context.Context, r reservationModel.Reservation, _ bool) (reservationModel.Reservation, error) {
			assert.Equal(t, "t2", r.ResourceID)
			assert.Equal(t, "Ana", r.GuestName)
			assert.Equal(t, 2, r.PartySize)

			return r, nil
		})

	res, err = f.svc.Submit(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, model.StateIdle, res.State)
}

func TestDraftService_SubmitValidationFailure(t *testing.T) {
	f := newFixture(t)

	f.catalog.EXPECT().
		GetAll(gomock.Any(), catalogModel.KindTable).
		Return(tables(), nil).
		AnyTimes()

	f.client.EXPECT().
		CheckAvailability(gomock.Any(), gomock.Any()).
		Return(tables(), nil).
		AnyTimes()

	sessionID := f.openSession(t)

	_, err := f.svc.OpenCreate(context.Background(), sessionID, openCreateRequest())
	require.NoError(t, err)

	f.waitForAvailability(t, sessionID)

	// No resource and no contact yet; the submit must fail locally and leave
	// the draft editable.
	res, err := f.svc.Submit(context.Background(), sessionID)
	assert.Error(t, err)
	assert.Equal(t, model.StateEditing, res.State)
}

func TestDraftService_SubmitPersistFailureKeepsDraft(t *testing.T) {
	f := newFixture(t)

	f.catalog.EXPECT().
		GetAll(gomock.Any(), catalogModel.KindTable).
		Return(tables(), nil).
		AnyTimes()

	f.client.EXPECT().
		CheckAvailability(gomock.Any(), gomock.Any()).
		Return(tables(), nil).
		AnyTimes()

	sessionID := f.openSession(t)

	_, err := f.svc.OpenCreate(context.Background(), sessionID, openCreateRequest())
	require.NoError(t, err)

	f.waitForAvailability(t, sessionID)

	resourceID := "t2"
	name := "Ana"
	email := "ana@example.com"
	phone := "555-0101"

	_, err = f.svc.Update(context.Background(), sessionID, dto.UpdateDraftRequest{
		ResourceID: &resourceID,
		GuestName:  &name,
		GuestEmail: &email,
		GuestPhone: &phone,
	})
	require.NoError(t, err)

	f.reservations.EXPECT().
		Persist(gomock.Any(), gomock.Any(), false).
		Return(reservationModel.Reservation{}, errors.New("upstream down"))

	res, err := f.svc.Submit(context.Background(), sessionID)
	assert.Error(t, err)
	assert.Equal(t, model.StateEditing, res.State)
	assert.Equal(t, "t2", res.ResourceID)
	assert.Equal(t, "Ana", res.Contact.Name)
}

func TestDraftService_OpenEdit(t *testing.T) {
	f := newFixture(t)

	existing := reservationModel.Reservation{
		ID:         "r1",
		ResourceID: "t3",
		Kind:       catalogModel.KindTable,
		GuestName:  "Ben",
		GuestEmail: "ben@example.com",
		GuestPhone: "555-0202",
		PartySize:  4,
		Start:      time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC),
		End:        time.Date(2025, 6, 1, 21, 0, 0, 0, time.UTC),
		Status:     reservationModel.StatusConfirmed,
	}

	f.reservations.EXPECT().
		Models(gomock.Any(), "").
		Return([]reservationModel.Reservation{existing}, nil)

	f.catalog.EXPECT().
		GetAll(gomock.Any(), catalogModel.KindTable).
		Return(tables(), nil).
		AnyTimes()

	// The service reports only t1 free; the edited booking's table must stay
	// selectable regardless.
	f.client.EXPECT().
		CheckAvailability(gomock.Any(), gomock.Any()).
		Return(tables()[:1], nil)

	sessionID := f.openSession(t)

	res, err := f.svc.OpenEdit(context.Background(), sessionID, dto.OpenEditRequest{ReservationID: "r1"})
	require.NoError(t, err)
	assert.Equal(t, model.ModeEdit, res.Mode)
	assert.Equal(t, "t3", res.OriginalResourceID)

	snapshot := f.waitForAvailability(t, sessionID)

	require.Len(t, snapshot.Available.Entries, 2)

	var tags []string
	for _, entry := range snapshot.Available.Entries {
		tags = append(tags, entry.Tag)
	}

	assert.Contains(t, tags, "current")
	assert.Equal(t, "t3", snapshot.ResourceID)
}

func TestDraftService_LateCreateResultDoesNotTouchEditDraft(t *testing.T) {
	f := newFixture(t)

	existing := reservationModel.Reservation{
		ID:         "r1",
		ResourceID: "t3",
		Kind:       catalogModel.KindTable,
		GuestName:  "Ben",
		GuestEmail: "ben@example.com",
		GuestPhone: "555-0202",
		PartySize:  4,
		Start:      time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC),
		End:        time.Date(2025, 6, 1, 21, 0, 0, 0, time.UTC),
		Status:     reservationModel.StatusConfirmed,
	}

	f.reservations.EXPECT().
		Models(gomock.Any(), "").
		Return([]reservationModel.Reservation{existing}, nil)

	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})

	firstCatalog := f.catalog.EXPECT().
		GetAll(gomock.Any(), catalogModel.KindTable).
		Return(tables(), nil)

	// The edit's candidate load runs under the session lock. Releasing the
	// create query here puts its result in flight while the lock is held,
	// which is the window where it could land on the replaced draft.
	f.catalog.EXPECT().
		GetAll(gomock.Any(), catalogModel.KindTable).
		DoAndReturn(func(context.Context, string) ([]catalogModel.Resource, error) {
			close(releaseFirst)
			time.Sleep(100 * time.Millisecond)

			return tables(), nil
		}).
		After(firstCatalog)

	// Create-mode answer without t3; applied to the edit draft it would clear
	// the preselected resource.
	firstCheck := f.client.EXPECT().
		CheckAvailability(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, reservations.AvailabilityRequest) ([]catalogModel.Resource, error) {
			close(firstStarted)
			<-releaseFirst

			return tables()[1:2], nil
		})

	f.client.EXPECT().
		CheckAvailability(gomock.Any(), gomock.Any()).
		Return(tables()[:1], nil).
		After(firstCheck)

	sessionID := f.openSession(t)

	_, err := f.svc.OpenCreate(context.Background(), sessionID, openCreateRequest())
	require.NoError(t, err)

	<-firstStarted

	res, err := f.svc.OpenEdit(context.Background(), sessionID, dto.OpenEditRequest{ReservationID: "r1"})
	require.NoError(t, err)
	require.Equal(t, "t3", res.ResourceID)

	snapshot := f.waitForAvailability(t, sessionID)

	assert.Equal(t, model.ModeEdit, snapshot.Mode)
	assert.Equal(t, "t3", snapshot.ResourceID)

	var tags []string
	for _, entry := range snapshot.Available.Entries {
		tags = append(tags, entry.Tag)
	}

	assert.Contains(t, tags, "current")
}

func TestDraftService_OpenEditUnknownReservation(t *testing.T) {
	f := newFixture(t)

	f.reservations.EXPECT().
		Models(gomock.Any(), "").
		Return(nil, nil)

	sessionID := f.openSession(t)

	_, err := f.svc.OpenEdit(context.Background(), sessionID, dto.OpenEditRequest{ReservationID: "missing"})
	assert.Error(t, err)
}
