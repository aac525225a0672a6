package checkin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/BariVakhidov/guestlist/internal/domain/models"
	"github.com/BariVakhidov/guestlist/internal/lib/clock"
	"github.com/BariVakhidov/guestlist/internal/lib/logger/sl"
	"github.com/BariVakhidov/guestlist/internal/lib/token"
	"github.com/BariVakhidov/guestlist/internal/storage"
)

const outcomeSystemError = "system_error"

type GuestProvider interface {
	GuestByToken(ctx context.Context, accessToken string) (models.GuestCard, error)
	GuestByShortCode(ctx context.Context, code string) (models.GuestCard, error)
}

type AdmissionSaver interface {
	SaveAdmission(ctx context.Context, guestID uuid.UUID, operatorID string, at time.Time) (models.Admission, error)
}

type AdmissionProvider interface {
	Admission(ctx context.Context, guestID uuid.UUID) (models.Admission, error)
}

type GuestCache interface {
	CachedGuest(ctx context.Context, key token.Key) (models.GuestCard, error)
	CacheGuest(ctx context.Context, key token.Key, card models.GuestCard) error
}

type ScanRecorder interface {
	SaveScan(ctx context.Context, record models.ScanRecord) error
}

type OutcomeCounter interface {
	Inc(outcome string)
}

type Service struct {
	log               *slog.Logger
	guestProvider     GuestProvider
	admissionSaver    AdmissionSaver
	admissionProvider AdmissionProvider
	cache             GuestCache
	scanRecorder      ScanRecorder
	counter           OutcomeCounter
	clock             clock.Clock
}

type Option func(*Service)

// WithCache puts a read-through cache in front of guest lookups.
func WithCache(cache GuestCache) Option {
	return func(s *Service) { s.cache = cache }
}

func WithScanRecorder(recorder ScanRecorder) Option {
	return func(s *Service) { s.scanRecorder = recorder }
}

func WithOutcomeCounter(counter OutcomeCounter) Option {
	return func(s *Service) { s.counter = counter }
}

func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

func New(
	log *slog.Logger,
	guestProvider GuestProvider,
	admissionSaver AdmissionSaver,
	admissionProvider AdmissionProvider,
	opts ...Option,
) *Service {
	s := &Service{
		log:               log,
		guestProvider:     guestProvider,
		admissionSaver:    admissionSaver,
		admissionProvider: admissionProvider,
		clock:             clock.Real(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Resolve turns a scanned or typed token into an outcome and admits the guest
// if this is their first valid scan. The admission is a single conditional
// insert: whoever loses the race gets AlreadyAdmitted with the winner's time.
//
// A non-nil error wraps ErrSystem and means nothing is known about the guest.
func (s *Service) Resolve(ctx context.Context, rawToken, operatorID string) (models.Outcome, error) {
	const op = "checkin.Resolve"
	log := s.log.With(slog.String("op", op), sl.Secret("token", rawToken), slog.String("operator_id", operatorID))

	outcome, guestID, err := s.resolve(ctx, log, rawToken, operatorID)

	record := models.ScanRecord{
		OperatorID: operatorID,
		Token:      maskToken(rawToken),
		Kind:       outcome.Kind,
		GuestID:    guestID,
		ScannedAt:  s.clock.Now(),
	}
	if err != nil {
		record.Error = err.Error()
		s.count(outcomeSystemError)
		s.recordScan(ctx, log, record)

		return models.Outcome{}, fmt.Errorf("%s: %w: %w", op, ErrSystem, err)
	}

	s.count(string(outcome.Kind))
	s.recordScan(ctx, log, record)

	return outcome, nil
}

func (s *Service) resolve(ctx context.Context, log *slog.Logger, rawToken, operatorID string) (models.Outcome, uuid.UUID, error) {
	key, err := token.Parse(rawToken)
	if err != nil {
		log.Debug("rejected token", sl.Err(err))
		return models.InvalidInput(), uuid.Nil, nil
	}

	guest, err := s.lookup(ctx, log, key)
	if err != nil {
		if errors.Is(err, storage.ErrGuestNotFound) {
			log.Info("guest not found")
			return models.NotFound(), uuid.Nil, nil
		}

		log.Error("failed to look up guest", sl.Err(err))
		return models.Outcome{}, uuid.Nil, err
	}

	// postgres keeps microseconds; the admitted time must read back unchanged
	now := s.clock.Now().Truncate(time.Microsecond)
	admission, err := s.admissionSaver.SaveAdmission(ctx, guest.ID, operatorID, now)
	switch {
	case err == nil:
		log.Info("guest admitted", slog.String("guest_id", guest.ID.String()))
		return models.Admitted(guest, admission.AdmittedAt), guest.ID, nil
	case errors.Is(err, storage.ErrAdmissionExists):
		admission, err := s.admissionProvider.Admission(ctx, guest.ID)
		if err != nil {
			log.Error("failed to read existing admission", sl.Err(err))
			return models.Outcome{}, guest.ID, err
		}

		log.Info("guest already admitted",
			slog.String("guest_id", guest.ID.String()),
			slog.Time("admitted_at", admission.AdmittedAt),
		)
		return models.AlreadyAdmitted(guest, admission.AdmittedAt), guest.ID, nil
	case errors.Is(err, storage.ErrGuestNotFound):
		// the guest was deleted between lookup and insert
		log.Info("guest removed before admission", slog.String("guest_id", guest.ID.String()))
		return models.NotFound(), guest.ID, nil
	default:
		log.Error("failed to save admission", sl.Err(err))
		return models.Outcome{}, guest.ID, err
	}
}

func (s *Service) lookup(ctx context.Context, log *slog.Logger, key token.Key) (models.GuestCard, error) {
	if s.cache != nil {
		card, err := s.cache.CachedGuest(ctx, key)
		if err == nil {
			return card, nil
		}
		if !errors.Is(err, storage.ErrCacheMiss) {
			log.Warn("guest cache unavailable", sl.Err(err))
		}
	}

	var (
		card models.GuestCard
		err  error
	)
	switch key.Kind {
	case token.KindShortCode:
		card, err = s.guestProvider.GuestByShortCode(ctx, key.Value)
	default:
		card, err = s.guestProvider.GuestByToken(ctx, key.Value)
	}
	if err != nil {
		return models.GuestCard{}, err
	}

	if s.cache != nil {
		if err := s.cache.CacheGuest(ctx, key, card); err != nil {
			log.Warn("failed to cache guest", sl.Err(err))
		}
	}

	return card, nil
}

func (s *Service) count(outcome string) {
	if s.counter != nil {
		s.counter.Inc(outcome)
	}
}

func (s *Service) recordScan(ctx context.Context, log *slog.Logger, record models.ScanRecord) {
	if s.scanRecorder == nil {
		return
	}
	if err := s.scanRecorder.SaveScan(ctx, record); err != nil {
		log.Warn("failed to record scan", sl.Err(err))
	}
}

// maskToken keeps enough of a token to correlate scans without storing a
// usable credential. Short codes are masked completely.
func maskToken(raw string) string {
	runes := []rune(raw)
	if len(runes) <= token.ShortCodeLength {
		return "***"
	}

	return string(runes[:4]) + "***"
}
