package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BariVakhidov/guestlist/internal/domain/models"
	"github.com/BariVakhidov/guestlist/internal/lib/token"
	"github.com/BariVakhidov/guestlist/internal/storage"
)

func newStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "guestlist.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate(context.Background()))

	return s
}

func seedEvent(t *testing.T, s *Storage) models.Event {
	t.Helper()

	event, err := s.SaveEvent(context.Background(), models.Event{
		ID:                uuid.New(),
		Name:              gofakeit.Sentence(3),
		Venue:             gofakeit.City(),
		EnabledCategories: []string{models.CategoryRegular, models.CategoryVIP},
		CreatedAt:         time.Now().UTC(),
	})
	require.NoError(t, err)

	return event
}

func seedGuest(t *testing.T, s *Storage, eventID uuid.UUID, category string) models.Guest {
	t.Helper()

	accessToken := token.Generate()
	guest, err := s.SaveGuest(context.Background(), models.Guest{
		ID:          uuid.New(),
		EventID:     eventID,
		Name:        gofakeit.Name(),
		Category:    category,
		Email:       gofakeit.Email(),
		AccessToken: accessToken,
		ShortCode:   token.ShortCode(accessToken),
		CreatedAt:   time.Now().UTC(),
	})
	require.NoError(t, err)

	return guest
}

func TestEvent_RoundTrip(t *testing.T) {
	s := newStorage(t)
	event := seedEvent(t, s)

	got, err := s.Event(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.Name, got.Name)
	assert.Equal(t, event.EnabledCategories, got.EnabledCategories)

	_, err = s.Event(context.Background(), uuid.New())
	assert.ErrorIs(t, err, storage.ErrEventNotFound)
}

func TestSaveGuest_Duplicate(t *testing.T) {
	s := newStorage(t)
	event := seedEvent(t, s)
	guest := seedGuest(t, s, event.ID, models.CategoryRegular)

	dup := guest
	dup.ID = uuid.New()
	_, err := s.SaveGuest(context.Background(), dup)
	assert.ErrorIs(t, err, storage.ErrGuestExists)
}

func TestSaveGuest_UnknownEvent(t *testing.T) {
	s := newStorage(t)

	accessToken := token.Generate()
	_, err := s.SaveGuest(context.Background(), models.Guest{
		ID:          uuid.New(),
		EventID:     uuid.New(),
		Name:        gofakeit.Name(),
		Category:    models.CategoryRegular,
		AccessToken: accessToken,
		ShortCode:   token.ShortCode(accessToken),
		CreatedAt:   time.Now().UTC(),
	})
	assert.ErrorIs(t, err, storage.ErrEventNotFound)
}

func TestGuestLookup(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()
	event := seedEvent(t, s)
	guest := seedGuest(t, s, event.ID, models.CategoryVIP)

	card, err := s.GuestByToken(ctx, guest.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, guest.Card(), card)

	card, err = s.GuestByShortCode(ctx, strings.ToLower(guest.ShortCode))
	require.NoError(t, err)
	assert.Equal(t, guest.Card(), card)

	_, err = s.GuestByToken(ctx, token.Generate())
	assert.ErrorIs(t, err, storage.ErrGuestNotFound)

	public, err := s.PublicCard(ctx, guest.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, guest.Card(), public.Guest)
	assert.Equal(t, guest.ShortCode, public.ShortCode)
	assert.Equal(t, event.ID, public.Event.ID)
}

func TestSaveAdmission_Once(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()
	event := seedEvent(t, s)
	guest := seedGuest(t, s, event.ID, models.CategoryRegular)

	t1 := time.Date(2026, 5, 1, 19, 30, 0, 0, time.UTC)
	admission, err := s.SaveAdmission(ctx, guest.ID, "door-1", t1)
	require.NoError(t, err)

	_, err = s.SaveAdmission(ctx, guest.ID, "door-2", t1.Add(2*time.Second))
	require.ErrorIs(t, err, storage.ErrAdmissionExists)

	got, err := s.Admission(ctx, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, admission.ID, got.ID)
	assert.Equal(t, "door-1", got.OperatorID)
	assert.True(t, t1.Equal(got.AdmittedAt))

	_, err = s.Admission(ctx, uuid.New())
	assert.ErrorIs(t, err, storage.ErrAdmissionNotFound)

	_, err = s.SaveAdmission(ctx, uuid.New(), "door-1", t1)
	assert.ErrorIs(t, err, storage.ErrGuestNotFound)
}

func TestSaveAdmission_ConcurrentScans(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()
	event := seedEvent(t, s)
	guest := seedGuest(t, s, event.ID, models.CategoryRegular)

	const operators = 8

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		duplicate int
	)
	for i := 0; i < operators; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := s.SaveAdmission(ctx, guest.ID, gofakeit.Username(), time.Now().UTC())

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case assert.ErrorIs(t, err, storage.ErrAdmissionExists):
				duplicate++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, operators-1, duplicate)

	events, err := s.NewEvents(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestDeleteGuest(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()
	event := seedEvent(t, s)
	admitted := seedGuest(t, s, event.ID, models.CategoryRegular)
	pending := seedGuest(t, s, event.ID, models.CategoryRegular)

	_, err := s.SaveAdmission(ctx, admitted.ID, "door-1", time.Now().UTC())
	require.NoError(t, err)

	_, err = s.DeleteGuest(ctx, admitted.ID)
	assert.ErrorIs(t, err, storage.ErrGuestAdmitted)

	accessToken, err := s.DeleteGuest(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, pending.AccessToken, accessToken)

	_, err = s.DeleteGuest(ctx, pending.ID)
	assert.ErrorIs(t, err, storage.ErrGuestNotFound)
}

func TestUpdateGuest(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()
	event := seedEvent(t, s)
	guest := seedGuest(t, s, event.ID, models.CategoryRegular)

	name, email := "Ada Obi", ""
	updated, err := s.UpdateGuest(ctx, guest.ID, models.GuestUpdate{Name: &name, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "Ada Obi", updated.Name)
	assert.Equal(t, models.CategoryRegular, updated.Category)
	assert.Empty(t, updated.Email)
	assert.Equal(t, guest.AccessToken, updated.AccessToken)
	assert.Equal(t, guest.ShortCode, updated.ShortCode)
	assert.Equal(t, guest.EventID, updated.EventID)

	_, err = s.UpdateGuest(ctx, uuid.New(), models.GuestUpdate{Name: &name})
	assert.ErrorIs(t, err, storage.ErrGuestNotFound)
}

func TestStats(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()
	event := seedEvent(t, s)

	vip := seedGuest(t, s, event.ID, models.CategoryVIP)
	seedGuest(t, s, event.ID, models.CategoryVIP)
	seedGuest(t, s, event.ID, models.CategoryRegular)

	_, err := s.SaveAdmission(ctx, vip.ID, "door-1", time.Now().UTC())
	require.NoError(t, err)

	stats, err := s.Stats(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{Total: 3, CheckedIn: 1, VIP: 2, Pending: 2}, stats)

	guests, err := s.Guests(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, guests, 3)

	admissions, err := s.Admissions(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, admissions, 1)
	assert.Equal(t, vip.ID, admissions[0].GuestID)
}

func TestOutbox(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()
	event := seedEvent(t, s)
	guest := seedGuest(t, s, event.ID, models.CategoryRegular)

	_, err := s.SaveAdmission(ctx, guest.ID, "door-1", time.Now().UTC())
	require.NoError(t, err)

	events, err := s.NewEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventTypeGuestAdmitted, events[0].Type)
	assert.Contains(t, events[0].Payload, guest.ID.String())

	// reserved events are not handed out twice
	again, err := s.NewEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, again)

	done, err := s.SetEventDone(ctx, events[0].ID)
	require.NoError(t, err)
	assert.Equal(t, events[0].ID, done.ID)
}
