package guests

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BariVakhidov/guestlist/internal/domain/models"
	"github.com/BariVakhidov/guestlist/internal/lib/clock"
	"github.com/BariVakhidov/guestlist/internal/storage/sqlite"
)

type recordingCache struct {
	forgotten []string
}

func (c *recordingCache) ForgetGuest(_ context.Context, accessToken string) error {
	c.forgotten = append(c.forgotten, accessToken)
	return nil
}

type suite struct {
	svc   *Service
	store *sqlite.Storage
	cache *recordingCache
}

func newSuite(t *testing.T) suite {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "guestlist.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	cache := &recordingCache{}
	svc := New(Opts{
		Log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		Events:     store,
		Guests:     store,
		Attendance: store,
		Cache:      cache,
		Clock:      clock.NewFake(time.Date(2026, 6, 20, 18, 0, 0, 0, time.UTC)),
		PublicURL:  "https://party.example.com/",
	})

	return suite{svc: svc, store: store, cache: cache}
}

func (s suite) event(t *testing.T) models.Event {
	t.Helper()

	event, err := s.svc.CreateEvent(context.Background(), models.Event{
		Name:    gofakeit.Sentence(3),
		Venue:   gofakeit.City(),
		Honoree: gofakeit.Name(),
	})
	require.NoError(t, err)

	return event
}

func TestCreateEvent_DefaultCategories(t *testing.T) {
	s := newSuite(t)
	event := s.event(t)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, []string{models.CategoryRegular, models.CategoryVIP}, event.EnabledCategories)

	_, err := s.svc.Event(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestAddGuest(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()
	event := s.event(t)

	guest, err := s.svc.AddGuest(ctx, event.ID, NewGuest{Name: "  Ada Obi ", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Ada Obi", guest.Name)
	assert.Equal(t, models.CategoryRegular, guest.Category)
	assert.Len(t, guest.AccessToken, 32)
	assert.Equal(t, strings.ToUpper(guest.AccessToken[:8]), guest.ShortCode)

	_, err = s.svc.AddGuest(ctx, event.ID, NewGuest{Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidGuest)

	_, err = s.svc.AddGuest(ctx, uuid.New(), NewGuest{Name: "Bola Ade"})
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestAddGuest_RetriesTokenCollision(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()
	event := s.event(t)

	first, err := s.svc.AddGuest(ctx, event.ID, NewGuest{Name: "Ada Obi"})
	require.NoError(t, err)

	// same short code, different token
	collision := strings.ToLower(first.ShortCode) + "ffffffffffffffffffffffff"
	tokens := []string{first.AccessToken, collision, "00000000111122223333444455556666"}
	s.svc.newToken = func() string {
		next := tokens[0]
		tokens = tokens[1:]
		return next
	}

	second, err := s.svc.AddGuest(ctx, event.ID, NewGuest{Name: "Bola Ade"})
	require.NoError(t, err)
	assert.Equal(t, "00000000111122223333444455556666", second.AccessToken)
	assert.Empty(t, tokens)
}

func TestDeleteGuest(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()
	event := s.event(t)

	admitted, err := s.svc.AddGuest(ctx, event.ID, NewGuest{Name: "Ada Obi"})
	require.NoError(t, err)
	pending, err := s.svc.AddGuest(ctx, event.ID, NewGuest{Name: "Bola Ade"})
	require.NoError(t, err)

	_, err = s.store.SaveAdmission(ctx, admitted.ID, "door-1", time.Now().UTC())
	require.NoError(t, err)

	assert.ErrorIs(t, s.svc.DeleteGuest(ctx, admitted.ID), ErrGuestAdmitted)
	require.NoError(t, s.svc.DeleteGuest(ctx, pending.ID))
	assert.Equal(t, []string{pending.AccessToken}, s.cache.forgotten)
	assert.ErrorIs(t, s.svc.DeleteGuest(ctx, pending.ID), ErrGuestNotFound)
}

func ptr(s string) *string { return &s }

func TestUpdateGuest(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()
	event := s.event(t)

	guest, err := s.svc.AddGuest(ctx, event.ID, NewGuest{
		Name:  "Ada Obi",
		Phone: "+2348000000",
		Email: "ada@example.com",
	})
	require.NoError(t, err)

	updated, err := s.svc.UpdateGuest(ctx, guest.ID, models.GuestUpdate{
		Name:     ptr(" Ada Obi-Okafor "),
		Category: ptr(models.CategoryVIP),
		Phone:    ptr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Obi-Okafor", updated.Name)
	assert.Equal(t, models.CategoryVIP, updated.Category)
	assert.Empty(t, updated.Phone)
	assert.Equal(t, "ada@example.com", updated.Email, "fields left out stay")
	assert.Equal(t, guest.AccessToken, updated.AccessToken)
	assert.Equal(t, guest.ShortCode, updated.ShortCode)
	assert.Equal(t, []string{guest.AccessToken}, s.cache.forgotten)

	card, err := s.store.GuestByToken(ctx, guest.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, updated.Card(), card)

	_, err = s.svc.UpdateGuest(ctx, guest.ID, models.GuestUpdate{Name: ptr("  ")})
	assert.ErrorIs(t, err, ErrInvalidGuest)
	_, err = s.svc.UpdateGuest(ctx, guest.ID, models.GuestUpdate{})
	assert.ErrorIs(t, err, ErrInvalidGuest)
	_, err = s.svc.UpdateGuest(ctx, uuid.New(), models.GuestUpdate{Name: ptr("Bola Ade")})
	assert.ErrorIs(t, err, ErrGuestNotFound)
}

func TestRoster(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()
	event := s.event(t)

	ada, err := s.svc.AddGuest(ctx, event.ID, NewGuest{Name: "Ada Obi"})
	require.NoError(t, err)
	_, err = s.svc.AddGuest(ctx, event.ID, NewGuest{Name: "Bola Ade"})
	require.NoError(t, err)

	t1 := time.Date(2026, 6, 20, 19, 4, 0, 0, time.UTC)
	_, err = s.store.SaveAdmission(ctx, ada.ID, "door-1", t1)
	require.NoError(t, err)

	roster, err := s.svc.Roster(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, roster, 2)

	assert.Equal(t, "Ada Obi", roster[0].Name)
	assert.True(t, roster[0].CheckedIn)
	require.NotNil(t, roster[0].AdmittedAt)
	assert.True(t, t1.Equal(*roster[0].AdmittedAt))

	assert.Equal(t, "Bola Ade", roster[1].Name)
	assert.False(t, roster[1].CheckedIn)
	assert.Nil(t, roster[1].AdmittedAt)

	_, err = s.svc.Roster(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestImportExport(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()
	event := s.event(t)

	roster := "Name,Phone,Email,Type\n" +
		"Ada Obi,+2348000000,ada@example.com,VIP\n" +
		",555,nobody@example.com,\n" +
		"Bola Ade,,,\n"

	result, err := s.svc.Import(ctx, event.ID, strings.NewReader(roster))
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Imported: 2}, result)

	guests, err := s.svc.Guests(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, guests, 2)

	ada := guests[0]
	assert.Equal(t, "Ada Obi", ada.Name)
	assert.Equal(t, models.CategoryVIP, ada.Category)
	assert.Equal(t, models.CategoryRegular, guests[1].Category)

	_, err = s.store.SaveAdmission(ctx, ada.ID, "door-1", time.Now().UTC())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.svc.Export(ctx, event.ID, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Checked In", records[1][4])
	assert.Equal(t, "Not Checked In", records[2][4])
	assert.Equal(t, "https://party.example.com/card/"+ada.AccessToken, records[1][7])

	stats, err := s.svc.Stats(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{Total: 2, CheckedIn: 1, VIP: 1, Pending: 1}, stats)
}

func TestImport_Rejects(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()
	event := s.event(t)

	_, err := s.svc.Import(ctx, event.ID, strings.NewReader("phone\n123\n"))
	assert.ErrorIs(t, err, ErrInvalidRoster)

	_, err = s.svc.Import(ctx, event.ID, strings.NewReader("name\n,\n"))
	assert.ErrorIs(t, err, ErrInvalidRoster)

	_, err = s.svc.Import(ctx, uuid.New(), strings.NewReader("name\nAda Obi\n"))
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestPublicCard(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()
	event := s.event(t)

	guest, err := s.svc.AddGuest(ctx, event.ID, NewGuest{Name: "Ada Obi", Phone: "+2348000000", Category: models.CategoryVIP})
	require.NoError(t, err)

	card, err := s.svc.PublicCard(ctx, guest.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, guest.Card(), card.Guest)
	assert.Equal(t, event.Name, card.Event.Name)
	assert.Equal(t, guest.ShortCode, card.ShortCode)

	png, err := s.svc.CardQR(ctx, guest.AccessToken)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	_, err = s.svc.CardQR(ctx, "00000000000000000000000000000000")
	assert.ErrorIs(t, err, ErrGuestNotFound)
}
