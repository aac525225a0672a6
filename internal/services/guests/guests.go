package guests

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"github.com/BariVakhidov/guestlist/internal/domain/models"
	"github.com/BariVakhidov/guestlist/internal/lib/clock"
	"github.com/BariVakhidov/guestlist/internal/lib/csvroster"
	"github.com/BariVakhidov/guestlist/internal/lib/logger/sl"
	"github.com/BariVakhidov/guestlist/internal/lib/token"
	"github.com/BariVakhidov/guestlist/internal/storage"
)

// tokenAttempts bounds retries when a generated token or short code collides.
const tokenAttempts = 5

type EventStorage interface {
	SaveEvent(ctx context.Context, event models.Event) (models.Event, error)
	Event(ctx context.Context, id uuid.UUID) (models.Event, error)
}

type GuestStorage interface {
	SaveGuest(ctx context.Context, guest models.Guest) (models.Guest, error)
	Guests(ctx context.Context, eventID uuid.UUID) ([]models.Guest, error)
	UpdateGuest(ctx context.Context, id uuid.UUID, update models.GuestUpdate) (models.Guest, error)
	DeleteGuest(ctx context.Context, id uuid.UUID) (string, error)
	PublicCard(ctx context.Context, accessToken string) (models.PublicCard, error)
}

type AttendanceProvider interface {
	Admissions(ctx context.Context, eventID uuid.UUID) ([]models.Admission, error)
	Stats(ctx context.Context, eventID uuid.UUID) (models.Stats, error)
}

type CacheInvalidator interface {
	ForgetGuest(ctx context.Context, accessToken string) error
}

type Service struct {
	log        *slog.Logger
	events     EventStorage
	guests     GuestStorage
	attendance AttendanceProvider
	cache      CacheInvalidator
	clock      clock.Clock
	publicURL  string
	newToken   func() string
	qrSize     int
}

type Opts struct {
	Log        *slog.Logger
	Events     EventStorage
	Guests     GuestStorage
	Attendance AttendanceProvider
	// Cache is optional.
	Cache     CacheInvalidator
	Clock     clock.Clock
	PublicURL string
	QRSize    int
}

func New(opts Opts) *Service {
	c := opts.Clock
	if c == nil {
		c = clock.Real()
	}
	qrSize := opts.QRSize
	if qrSize <= 0 {
		qrSize = 256
	}

	return &Service{
		log:        opts.Log,
		events:     opts.Events,
		guests:     opts.Guests,
		attendance: opts.Attendance,
		cache:      opts.Cache,
		clock:      c,
		publicURL:  strings.TrimRight(opts.PublicURL, "/"),
		newToken:   token.Generate,
		qrSize:     qrSize,
	}
}

func (s *Service) CreateEvent(ctx context.Context, event models.Event) (models.Event, error) {
	const op = "guests.CreateEvent"
	log := s.log.With(slog.String("op", op))

	event.ID = uuid.New()
	event.CreatedAt = s.clock.Now()
	if len(event.EnabledCategories) == 0 {
		event.EnabledCategories = []string{models.CategoryRegular, models.CategoryVIP}
	}

	saved, err := s.events.SaveEvent(ctx, event)
	if err != nil {
		log.Error("failed to save event", sl.Err(err))
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("event created", slog.String("event_id", saved.ID.String()))

	return saved, nil
}

func (s *Service) Event(ctx context.Context, id uuid.UUID) (models.Event, error) {
	const op = "guests.Event"

	event, err := s.events.Event(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrEventNotFound) {
			return models.Event{}, fmt.Errorf("%s: %w", op, ErrEventNotFound)
		}

		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	return event, nil
}

type NewGuest struct {
	Name     string
	Phone    string
	Email    string
	Category string
}

// AddGuest registers a guest and issues their access token.
func (s *Service) AddGuest(ctx context.Context, eventID uuid.UUID, in NewGuest) (models.Guest, error) {
	const op = "guests.AddGuest"
	log := s.log.With(slog.String("op", op), slog.String("event_id", eventID.String()))

	guest, err := s.addGuest(ctx, eventID, in)
	if err != nil {
		if !errors.Is(err, ErrEventNotFound) && !errors.Is(err, ErrInvalidGuest) {
			log.Error("failed to add guest", sl.Err(err))
		}
		return models.Guest{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("guest added", slog.String("guest_id", guest.ID.String()))

	return guest, nil
}

func (s *Service) addGuest(ctx context.Context, eventID uuid.UUID, in NewGuest) (models.Guest, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Guest{}, fmt.Errorf("%w: name is required", ErrInvalidGuest)
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = models.CategoryRegular
	}

	var lastErr error
	for attempt := 0; attempt < tokenAttempts; attempt++ {
		accessToken := s.newToken()
		guest, err := s.guests.SaveGuest(ctx, models.Guest{
			ID:          uuid.New(),
			EventID:     eventID,
			Name:        name,
			Category:    category,
			Phone:       strings.TrimSpace(in.Phone),
			Email:       strings.TrimSpace(in.Email),
			AccessToken: accessToken,
			ShortCode:   token.ShortCode(accessToken),
			CreatedAt:   s.clock.Now(),
		})
		switch {
		case err == nil:
			return guest, nil
		case errors.Is(err, storage.ErrEventNotFound):
			return models.Guest{}, ErrEventNotFound
		case errors.Is(err, storage.ErrGuestExists):
			// token or short code collision
			lastErr = err
			continue
		default:
			return models.Guest{}, err
		}
	}

	return models.Guest{}, fmt.Errorf("no free access token after %d attempts: %w", tokenAttempts, lastErr)
}

// Guests lists every guest of an event with contact details.
func (s *Service) Guests(ctx context.Context, eventID uuid.UUID) ([]models.Guest, error) {
	const op = "guests.Guests"

	if _, err := s.Event(ctx, eventID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	guests, err := s.guests.Guests(ctx, eventID)
	if err != nil {
		s.log.Error("failed to list guests", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return guests, nil
}

// Roster lists the guests of an event with their check-in status.
func (s *Service) Roster(ctx context.Context, eventID uuid.UUID) ([]models.RosterEntry, error) {
	const op = "guests.Roster"

	guests, err := s.Guests(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	admissions, err := s.attendance.Admissions(ctx, eventID)
	if err != nil {
		s.log.Error("failed to list admissions", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	admittedAt := make(map[uuid.UUID]time.Time, len(admissions))
	for _, a := range admissions {
		admittedAt[a.GuestID] = a.AdmittedAt
	}

	roster := make([]models.RosterEntry, len(guests))
	for i, g := range guests {
		roster[i] = models.RosterEntry{Guest: g}
		if at, ok := admittedAt[g.ID]; ok {
			roster[i].CheckedIn = true
			roster[i].AdmittedAt = &at
		}
	}

	return roster, nil
}

// UpdateGuest edits the contact details, name or category of a guest. Empty
// phone or email clears it; name and category cannot be blank.
func (s *Service) UpdateGuest(ctx context.Context, id uuid.UUID, update models.GuestUpdate) (models.Guest, error) {
	const op = "guests.UpdateGuest"
	log := s.log.With(slog.String("op", op), slog.String("guest_id", id.String()))

	if update.Name == nil && update.Category == nil && update.Phone == nil && update.Email == nil {
		return models.Guest{}, fmt.Errorf("%s: %w: nothing to update", op, ErrInvalidGuest)
	}
	update.Name = trimmed(update.Name)
	update.Category = trimmed(update.Category)
	update.Phone = trimmed(update.Phone)
	update.Email = trimmed(update.Email)
	if update.Name != nil && *update.Name == "" {
		return models.Guest{}, fmt.Errorf("%s: %w: name is required", op, ErrInvalidGuest)
	}
	if update.Category != nil && *update.Category == "" {
		return models.Guest{}, fmt.Errorf("%s: %w: category is required", op, ErrInvalidGuest)
	}

	guest, err := s.guests.UpdateGuest(ctx, id, update)
	if err != nil {
		if errors.Is(err, storage.ErrGuestNotFound) {
			return models.Guest{}, fmt.Errorf("%s: %w", op, ErrGuestNotFound)
		}

		log.Error("failed to update guest", sl.Err(err))
		return models.Guest{}, fmt.Errorf("%s: %w", op, err)
	}

	// scanners must not see the old name or category
	if s.cache != nil {
		if err := s.cache.ForgetGuest(ctx, guest.AccessToken); err != nil {
			log.Warn("failed to evict guest from cache", sl.Err(err))
		}
	}

	log.Info("guest updated")

	return guest, nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}

// DeleteGuest removes a guest. Guests that were already admitted stay.
func (s *Service) DeleteGuest(ctx context.Context, id uuid.UUID) error {
	const op = "guests.DeleteGuest"
	log := s.log.With(slog.String("op", op), slog.String("guest_id", id.String()))

	accessToken, err := s.guests.DeleteGuest(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrGuestNotFound):
			return fmt.Errorf("%s: %w", op, ErrGuestNotFound)
		case errors.Is(err, storage.ErrGuestAdmitted):
			log.Warn("refused to delete admitted guest")
			return fmt.Errorf("%s: %w", op, ErrGuestAdmitted)
		}

		log.Error("failed to delete guest", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		if err := s.cache.ForgetGuest(ctx, accessToken); err != nil {
			log.Warn("failed to evict guest from cache", sl.Err(err))
		}
	}

	log.Info("guest deleted")

	return nil
}

type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Import adds every guest of a CSV guest list. It stops at the first guest
// that cannot be saved; guests saved before that stay.
func (s *Service) Import(ctx context.Context, eventID uuid.UUID, r io.Reader) (ImportResult, error) {
	const op = "guests.Import"
	log := s.log.With(slog.String("op", op), slog.String("event_id", eventID.String()))

	if _, err := s.Event(ctx, eventID); err != nil {
		return ImportResult{}, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := csvroster.Parse(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("%s: %w: %w", op, ErrInvalidRoster, err)
	}
	if len(rows) == 0 {
		return ImportResult{}, fmt.Errorf("%s: %w: no valid guests found", op, ErrInvalidRoster)
	}

	var result ImportResult
	for _, row := range rows {
		_, err := s.addGuest(ctx, eventID, NewGuest{
			Name:     row.Name,
			Phone:    row.Phone,
			Email:    row.Email,
			Category: row.Category,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidGuest) {
				result.Skipped++
				continue
			}

			log.Error("import interrupted", slog.Int("imported", result.Imported), sl.Err(err))
			return result, fmt.Errorf("%s: %w", op, err)
		}
		result.Imported++
	}

	log.Info("guest list imported", slog.Int("imported", result.Imported), slog.Int("skipped", result.Skipped))

	return result, nil
}

// Export writes the door roster of an event as CSV.
func (s *Service) Export(ctx context.Context, eventID uuid.UUID, w io.Writer) error {
	const op = "guests.Export"

	roster, err := s.Roster(ctx, eventID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows := make([]csvroster.ExportRow, len(roster))
	for i, entry := range roster {
		rows[i] = csvroster.ExportRow{Guest: entry.Guest, CheckedIn: entry.CheckedIn, CardURL: s.CardURL(entry.AccessToken)}
	}

	if err := csvroster.Write(w, rows); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Service) Stats(ctx context.Context, eventID uuid.UUID) (models.Stats, error) {
	const op = "guests.Stats"

	if _, err := s.Event(ctx, eventID); err != nil {
		return models.Stats{}, fmt.Errorf("%s: %w", op, err)
	}

	stats, err := s.attendance.Stats(ctx, eventID)
	if err != nil {
		s.log.Error("failed to count guests", slog.String("op", op), sl.Err(err))
		return models.Stats{}, fmt.Errorf("%s: %w", op, err)
	}

	return stats, nil
}

// PublicCard returns what the guest sees when opening their card link.
func (s *Service) PublicCard(ctx context.Context, accessToken string) (models.PublicCard, error) {
	const op = "guests.PublicCard"

	card, err := s.guests.PublicCard(ctx, accessToken)
	if err != nil {
		if errors.Is(err, storage.ErrGuestNotFound) {
			return models.PublicCard{}, fmt.Errorf("%s: %w", op, ErrGuestNotFound)
		}

		s.log.Error("failed to load card", slog.String("op", op), sl.Secret("token", accessToken), sl.Err(err))
		return models.PublicCard{}, fmt.Errorf("%s: %w", op, err)
	}

	return card, nil
}

// CardQR renders the QR code printed on a guest card. It encodes the card
// URL, so scanning it with a phone opens the card.
func (s *Service) CardQR(ctx context.Context, accessToken string) ([]byte, error) {
	const op = "guests.CardQR"

	if _, err := s.PublicCard(ctx, accessToken); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	png, err := qrcode.Encode(s.CardURL(accessToken), qrcode.Medium, s.qrSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return png, nil
}

func (s *Service) CardURL(accessToken string) string {
	return s.publicURL + "/card/" + accessToken
}
