package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/BariVakhidov/guestlist/internal/domain/converter"
	"github.com/BariVakhidov/guestlist/internal/domain/models"
	"github.com/BariVakhidov/guestlist/internal/storage"
	"github.com/BariVakhidov/guestlist/internal/storage/model"
	"github.com/BariVakhidov/guestlist/migrations"
)

const outboxReservation = 30 * time.Second

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.sqlite.New"

	db, err := sql.Open("sqlite3", storagePath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// sqlite has a single writer; one connection keeps writes serialized
	// and makes the unique index the only arbiter between racing inserts.
	db.SetMaxOpenConns(1)

	return &Storage{db: db}, nil
}

// Migrate applies the embedded sqlite schema.
func (s *Storage) Migrate(ctx context.Context) error {
	const op = "storage.sqlite.Migrate"

	files, err := fs.Glob(migrations.FS, "sqlite/*.up.sql")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	sort.Strings(files)

	for _, file := range files {
		schema, err := fs.ReadFile(migrations.FS, file)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if _, err := s.db.ExecContext(ctx, string(schema)); err != nil {
			return fmt.Errorf("%s: %s: %w", op, file, err)
		}
	}

	return nil
}

func (s *Storage) SaveEvent(ctx context.Context, event models.Event) (models.Event, error) {
	const op = "storage.sqlite.SaveEvent"

	row := converter.ToStorageEvent(event)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events(id,name,date,time,venue,honoree,dress_code,colors,enabled_categories,created_at)
		VALUES(?,?,?,?,?,?,?,?,?,?)`,
		row.ID, row.Name, row.Date, row.Time, row.Venue, row.Honoree, row.DressCode, row.Colors,
		row.EnabledCategories, row.CreatedAt,
	)
	if err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	return event, nil
}

func (s *Storage) Event(ctx context.Context, id uuid.UUID) (models.Event, error) {
	const op = "storage.sqlite.Event"

	row := s.db.QueryRowContext(ctx,
		`SELECT id,name,date,time,venue,honoree,dress_code,colors,enabled_categories,created_at
		FROM events WHERE id=?`, id)

	var e model.Event
	err := row.Scan(&e.ID, &e.Name, &e.Date, &e.Time, &e.Venue, &e.Honoree, &e.DressCode, &e.Colors,
		&e.EnabledCategories, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Event{}, fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
		}

		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	return converter.ToEventFromStorage(e), nil
}

func (s *Storage) SaveGuest(ctx context.Context, guest models.Guest) (models.Guest, error) {
	const op = "storage.sqlite.SaveGuest"

	row := converter.ToStorageGuest(guest)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO guests(id,event_id,name,category,phone,email,access_token,short_code,created_at)
		VALUES(?,?,?,?,?,?,?,?,?)`,
		row.ID, row.EventID, row.Name, row.Category, row.Phone, row.Email, row.AccessToken, row.ShortCode,
		row.CreatedAt,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) {
			switch sqliteErr.ExtendedCode {
			case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
				return models.Guest{}, fmt.Errorf("%s: %w", op, storage.ErrGuestExists)
			case sqlite3.ErrConstraintForeignKey:
				return models.Guest{}, fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
			}
		}

		return models.Guest{}, fmt.Errorf("%s: %w", op, err)
	}

	return guest, nil
}

func (s *Storage) Guests(ctx context.Context, eventID uuid.UUID) ([]models.Guest, error) {
	const op = "storage.sqlite.Guests"

	rows, err := s.db.QueryContext(ctx,
		`SELECT id,event_id,name,category,phone,email,access_token,short_code,created_at
		FROM guests WHERE event_id=? ORDER BY name`, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var guests []model.Guest
	for rows.Next() {
		var g model.Guest
		if err := rows.Scan(&g.ID, &g.EventID, &g.Name, &g.Category, &g.Phone, &g.Email, &g.AccessToken,
			&g.ShortCode, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		guests = append(guests, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return converter.ToGuestsFromStorage(guests), nil
}

// UpdateGuest applies a partial update and returns the stored guest.
func (s *Storage) UpdateGuest(ctx context.Context, id uuid.UUID, update models.GuestUpdate) (models.Guest, error) {
	const op = "storage.sqlite.UpdateGuest"

	u := converter.ToStorageGuestUpdate(update)

	var g model.Guest
	err := s.db.QueryRowContext(ctx,
		`UPDATE guests SET
			name=COALESCE(?,name),
			category=COALESCE(?,category),
			phone=CASE WHEN ? THEN ? ELSE phone END,
			email=CASE WHEN ? THEN ? ELSE email END
		WHERE id=?
		RETURNING id,event_id,name,category,phone,email,access_token,short_code,created_at`,
		u.Name, u.Category, u.SetPhone, u.Phone, u.SetEmail, u.Email, id,
	).Scan(&g.ID, &g.EventID, &g.Name, &g.Category, &g.Phone, &g.Email, &g.AccessToken, &g.ShortCode, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Guest{}, fmt.Errorf("%s: %w", op, storage.ErrGuestNotFound)
		}

		return models.Guest{}, fmt.Errorf("%s: %w", op, err)
	}

	return converter.ToGuestFromStorage(g), nil
}

func (s *Storage) DeleteGuest(ctx context.Context, id uuid.UUID) (string, error) {
	const op = "storage.sqlite.DeleteGuest"

	var accessToken string
	err := s.db.QueryRowContext(ctx, "DELETE FROM guests WHERE id=? RETURNING access_token", id).Scan(&accessToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, storage.ErrGuestNotFound)
		}

		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
			return "", fmt.Errorf("%s: %w", op, storage.ErrGuestAdmitted)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	return accessToken, nil
}

func (s *Storage) GuestByToken(ctx context.Context, accessToken string) (models.GuestCard, error) {
	const op = "storage.sqlite.GuestByToken"

	return s.guestCard(ctx, op, "SELECT id,name,category FROM guests WHERE access_token=?", accessToken)
}

func (s *Storage) GuestByShortCode(ctx context.Context, code string) (models.GuestCard, error) {
	const op = "storage.sqlite.GuestByShortCode"

	return s.guestCard(ctx, op, "SELECT id,name,category FROM guests WHERE short_code=upper(?)", code)
}

func (s *Storage) guestCard(ctx context.Context, op, query, key string) (models.GuestCard, error) {
	var card models.GuestCard

	if err := s.db.QueryRowContext(ctx, query, key).Scan(&card.ID, &card.Name, &card.Category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.GuestCard{}, fmt.Errorf("%s: %w", op, storage.ErrGuestNotFound)
		}

		return models.GuestCard{}, fmt.Errorf("%s: %w", op, err)
	}

	return card, nil
}

func (s *Storage) PublicCard(ctx context.Context, accessToken string) (models.PublicCard, error) {
	const op = "storage.sqlite.PublicCard"

	row := s.db.QueryRowContext(ctx,
		`SELECT g.id,g.name,g.category,g.short_code,
			e.id,e.name,e.date,e.time,e.venue,e.honoree,e.dress_code,e.colors,e.enabled_categories,e.created_at
		FROM guests g JOIN events e ON e.id = g.event_id
		WHERE g.access_token=?`, accessToken)

	var (
		card  models.PublicCard
		event model.Event
	)
	err := row.Scan(
		&card.Guest.ID, &card.Guest.Name, &card.Guest.Category, &card.ShortCode,
		&event.ID, &event.Name, &event.Date, &event.Time, &event.Venue, &event.Honoree,
		&event.DressCode, &event.Colors, &event.EnabledCategories, &event.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PublicCard{}, fmt.Errorf("%s: %w", op, storage.ErrGuestNotFound)
		}

		return models.PublicCard{}, fmt.Errorf("%s: %w", op, err)
	}

	card.Event = converter.ToEventFromStorage(event)

	return card, nil
}

func (s *Storage) SaveAdmission(ctx context.Context, guestID uuid.UUID, operatorID string, at time.Time) (models.Admission, error) {
	const op = "storage.sqlite.SaveAdmission"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Admission{}, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	admission := models.Admission{
		ID:         uuid.New(),
		GuestID:    guestID,
		OperatorID: operatorID,
		AdmittedAt: at,
	}

	_, err = tx.ExecContext(ctx, "INSERT INTO admissions(id,guest_id,operator_id,admitted_at) VALUES(?,?,?,?)",
		admission.ID, admission.GuestID, admission.OperatorID, admission.AdmittedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) {
			switch sqliteErr.ExtendedCode {
			case sqlite3.ErrConstraintUnique:
				return models.Admission{}, fmt.Errorf("%s: %w", op, storage.ErrAdmissionExists)
			case sqlite3.ErrConstraintForeignKey:
				return models.Admission{}, fmt.Errorf("%s: %w", op, storage.ErrGuestNotFound)
			}
		}

		return models.Admission{}, fmt.Errorf("%s: %w", op, err)
	}

	payload, err := json.Marshal(models.GuestAdmitted{
		AdmissionID: admission.ID,
		GuestID:     admission.GuestID,
		OperatorID:  admission.OperatorID,
		AdmittedAt:  admission.AdmittedAt,
	})
	if err != nil {
		return models.Admission{}, fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx, "INSERT INTO outbox(id,event_type,payload,created_at) VALUES(?,?,?,?)",
		uuid.New(), models.EventTypeGuestAdmitted, string(payload), at)
	if err != nil {
		return models.Admission{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return models.Admission{}, fmt.Errorf("%s: %w", op, err)
	}

	return admission, nil
}

func (s *Storage) Admission(ctx context.Context, guestID uuid.UUID) (models.Admission, error) {
	const op = "storage.sqlite.Admission"

	var a model.Admission
	err := s.db.QueryRowContext(ctx, "SELECT id,guest_id,operator_id,admitted_at FROM admissions WHERE guest_id=?", guestID).
		Scan(&a.ID, &a.GuestID, &a.OperatorID, &a.AdmittedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Admission{}, fmt.Errorf("%s: %w", op, storage.ErrAdmissionNotFound)
		}

		return models.Admission{}, fmt.Errorf("%s: %w", op, err)
	}

	return converter.ToAdmissionFromStorage(a), nil
}

func (s *Storage) Admissions(ctx context.Context, eventID uuid.UUID) ([]models.Admission, error) {
	const op = "storage.sqlite.Admissions"

	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id,a.guest_id,a.operator_id,a.admitted_at
		FROM admissions a JOIN guests g ON g.id = a.guest_id
		WHERE g.event_id=? ORDER BY a.admitted_at`, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var admissions []model.Admission
	for rows.Next() {
		var a model.Admission
		if err := rows.Scan(&a.ID, &a.GuestID, &a.OperatorID, &a.AdmittedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		admissions = append(admissions, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return converter.ToAdmissionsFromStorage(admissions), nil
}

func (s *Storage) Stats(ctx context.Context, eventID uuid.UUID) (models.Stats, error) {
	const op = "storage.sqlite.Stats"

	query := `SELECT count(g.id),
			count(a.id),
			coalesce(sum(CASE WHEN g.category = ? THEN 1 ELSE 0 END), 0)
		FROM guests g LEFT JOIN admissions a ON a.guest_id = g.id
		WHERE g.event_id = ?`

	var stats models.Stats
	if err := s.db.QueryRowContext(ctx, query, models.CategoryVIP, eventID).Scan(&stats.Total, &stats.CheckedIn, &stats.VIP); err != nil {
		return models.Stats{}, fmt.Errorf("%s: %w", op, err)
	}
	stats.Pending = stats.Total - stats.CheckedIn

	return stats, nil
}

func (s *Storage) NewEvents(ctx context.Context, limit int) ([]models.OutboxEvent, error) {
	const op = "storage.sqlite.NewEvents"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	rows, err := tx.QueryContext(ctx,
		`SELECT id,event_type,payload,status,created_at,reserved_to FROM outbox
		WHERE status = 'new' AND (reserved_to IS NULL OR reserved_to < ?)
		ORDER BY created_at LIMIT ?`, now, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var events []model.OutboxEvent
	for rows.Next() {
		var e model.OutboxEvent
		if err := rows.Scan(&e.ID, &e.Type, &e.Payload, &e.Status, &e.CreatedAt, &e.ReservedTo); err != nil {
			rows.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		events = append(events, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, e := range events {
		if _, err := tx.ExecContext(ctx, "UPDATE outbox SET reserved_to = ? WHERE id = ?", now.Add(outboxReservation), e.ID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return converter.ToOutboxEventsFromStorage(events), nil
}

func (s *Storage) SetEventDone(ctx context.Context, eventID uuid.UUID) (models.OutboxEvent, error) {
	const op = "storage.sqlite.SetEventDone"

	var e model.OutboxEvent
	err := s.db.QueryRowContext(ctx,
		"UPDATE outbox SET status = 'done' WHERE id = ? RETURNING id,event_type,payload,status,created_at,reserved_to", eventID).
		Scan(&e.ID, &e.Type, &e.Payload, &e.Status, &e.CreatedAt, &e.ReservedTo)
	if err != nil {
		return models.OutboxEvent{}, fmt.Errorf("%s: %w", op, err)
	}

	return converter.ToOutboxEventFromStorage(e), nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}
