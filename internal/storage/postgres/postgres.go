package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BariVakhidov/guestlist/internal/domain/converter"
	"github.com/BariVakhidov/guestlist/internal/domain/models"
	"github.com/BariVakhidov/guestlist/internal/storage"
	"github.com/BariVakhidov/guestlist/internal/storage/model"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"

	outboxReservation = 30 * time.Second
)

type Storage struct {
	dbpool *pgxpool.Pool
}

func New(ctx context.Context, dbAddr string) (*Storage, error) {
	const op = "storage.postgres.New"

	dbpool, err := pgxpool.New(ctx, dbAddr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{dbpool: dbpool}, nil
}

func (s *Storage) SaveEvent(ctx context.Context, event models.Event) (models.Event, error) {
	const op = "storage.postgres.SaveEvent"

	row := converter.ToStorageEvent(event)
	query := `INSERT INTO events(id,name,date,time,venue,honoree,dress_code,colors,enabled_categories,created_at)
		VALUES(@id,@name,@date,@time,@venue,@honoree,@dressCode,@colors,@categories,@createdAt)`
	args := pgx.NamedArgs{
		"id":         row.ID,
		"name":       row.Name,
		"date":       row.Date,
		"time":       row.Time,
		"venue":      row.Venue,
		"honoree":    row.Honoree,
		"dressCode":  row.DressCode,
		"colors":     row.Colors,
		"categories": row.EnabledCategories,
		"createdAt":  row.CreatedAt,
	}

	if _, err := s.dbpool.Exec(ctx, query, args); err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	return event, nil
}

func (s *Storage) Event(ctx context.Context, id uuid.UUID) (models.Event, error) {
	const op = "storage.postgres.Event"

	query := `SELECT id,name,date,time,venue,honoree,dress_code,colors,enabled_categories,created_at
		FROM events WHERE id=$1`

	rows, err := s.dbpool.Query(ctx, query, id)
	if err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	event, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Event])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Event{}, fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
		}

		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	return converter.ToEventFromStorage(event), nil
}

func (s *Storage) SaveGuest(ctx context.Context, guest models.Guest) (models.Guest, error) {
	const op = "storage.postgres.SaveGuest"

	row := converter.ToStorageGuest(guest)
	query := `INSERT INTO guests(id,event_id,name,category,phone,email,access_token,short_code,created_at)
		VALUES(@id,@eventId,@name,@category,@phone,@email,@accessToken,@shortCode,@createdAt)`
	args := pgx.NamedArgs{
		"id":          row.ID,
		"eventId":     row.EventID,
		"name":        row.Name,
		"category":    row.Category,
		"phone":       row.Phone,
		"email":       row.Email,
		"accessToken": row.AccessToken,
		"shortCode":   row.ShortCode,
		"createdAt":   row.CreatedAt,
	}

	if _, err := s.dbpool.Exec(ctx, query, args); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case codeUniqueViolation:
				return models.Guest{}, fmt.Errorf("%s: %w", op, storage.ErrGuestExists)
			case codeForeignKeyViolation:
				return models.Guest{}, fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
			}
		}

		return models.Guest{}, fmt.Errorf("%s: %w", op, err)
	}

	return guest, nil
}

func (s *Storage) Guests(ctx context.Context, eventID uuid.UUID) ([]models.Guest, error) {
	const op = "storage.postgres.Guests"

	query := `SELECT id,event_id,name,category,phone,email,access_token,short_code,created_at
		FROM guests WHERE event_id=$1 ORDER BY name`

	rows, err := s.dbpool.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	guests, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Guest])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return converter.ToGuestsFromStorage(guests), nil
}

// UpdateGuest applies a partial update and returns the stored guest.
func (s *Storage) UpdateGuest(ctx context.Context, id uuid.UUID, update models.GuestUpdate) (models.Guest, error) {
	const op = "storage.postgres.UpdateGuest"

	u := converter.ToStorageGuestUpdate(update)
	query := `UPDATE guests SET
			name=COALESCE(@name::text,name),
			category=COALESCE(@category::text,category),
			phone=CASE WHEN @setPhone::boolean THEN @phone::text ELSE phone END,
			email=CASE WHEN @setEmail::boolean THEN @email::text ELSE email END
		WHERE id=@id
		RETURNING id,event_id,name,category,phone,email,access_token,short_code,created_at`
	args := pgx.NamedArgs{
		"id":       id,
		"name":     u.Name,
		"category": u.Category,
		"setPhone": u.SetPhone,
		"phone":    u.Phone,
		"setEmail": u.SetEmail,
		"email":    u.Email,
	}

	rows, err := s.dbpool.Query(ctx, query, args)
	if err != nil {
		return models.Guest{}, fmt.Errorf("%s: %w", op, err)
	}

	guest, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Guest])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Guest{}, fmt.Errorf("%s: %w", op, storage.ErrGuestNotFound)
		}

		return models.Guest{}, fmt.Errorf("%s: %w", op, err)
	}

	return converter.ToGuestFromStorage(guest), nil
}

// DeleteGuest removes a guest that has not been admitted and returns their
// access token.
func (s *Storage) DeleteGuest(ctx context.Context, id uuid.UUID) (string, error) {
	const op = "storage.postgres.DeleteGuest"

	var accessToken string
	err := s.dbpool.QueryRow(ctx, "DELETE FROM guests WHERE id=$1 RETURNING access_token", id).Scan(&accessToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, storage.ErrGuestNotFound)
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation {
			return "", fmt.Errorf("%s: %w", op, storage.ErrGuestAdmitted)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	return accessToken, nil
}

func (s *Storage) GuestByToken(ctx context.Context, accessToken string) (models.GuestCard, error) {
	const op = "storage.postgres.GuestByToken"

	return s.guestCard(ctx, op, "SELECT id,name,category FROM guests WHERE access_token=$1", accessToken)
}

func (s *Storage) GuestByShortCode(ctx context.Context, code string) (models.GuestCard, error) {
	const op = "storage.postgres.GuestByShortCode"

	return s.guestCard(ctx, op, "SELECT id,name,category FROM guests WHERE short_code=upper($1)", code)
}

func (s *Storage) guestCard(ctx context.Context, op, query, key string) (models.GuestCard, error) {
	var card models.GuestCard

	err := s.dbpool.QueryRow(ctx, query, key).Scan(&card.ID, &card.Name, &card.Category)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.GuestCard{}, fmt.Errorf("%s: %w", op, storage.ErrGuestNotFound)
		}

		return models.GuestCard{}, fmt.Errorf("%s: %w", op, err)
	}

	return card, nil
}

func (s *Storage) PublicCard(ctx context.Context, accessToken string) (models.PublicCard, error) {
	const op = "storage.postgres.PublicCard"

	query := `SELECT g.id,g.name,g.category,g.short_code,
			e.id,e.name,e.date,e.time,e.venue,e.honoree,e.dress_code,e.colors,e.enabled_categories,e.created_at
		FROM guests g JOIN events e ON e.id = g.event_id
		WHERE g.access_token=$1`

	var (
		card  models.PublicCard
		event model.Event
	)
	err := s.dbpool.QueryRow(ctx, query, accessToken).Scan(
		&card.Guest.ID, &card.Guest.Name, &card.Guest.Category, &card.ShortCode,
		&event.ID, &event.Name, &event.Date, &event.Time, &event.Venue, &event.Honoree,
		&event.DressCode, &event.Colors, &event.EnabledCategories, &event.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.PublicCard{}, fmt.Errorf("%s: %w", op, storage.ErrGuestNotFound)
		}

		return models.PublicCard{}, fmt.Errorf("%s: %w", op, err)
	}

	card.Event = converter.ToEventFromStorage(event)

	return card, nil
}

// SaveAdmission inserts the admission and its outbox event in one
// transaction. The unique index on guest_id makes the insert fail with
// storage.ErrAdmissionExists when the guest was already admitted.
func (s *Storage) SaveAdmission(ctx context.Context, guestID uuid.UUID, operatorID string, at time.Time) (models.Admission, error) {
	const op = "storage.postgres.SaveAdmission"

	tx, err := s.dbpool.Begin(ctx)
	if err != nil {
		return models.Admission{}, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	admission := models.Admission{
		ID:         uuid.New(),
		GuestID:    guestID,
		OperatorID: operatorID,
		AdmittedAt: at,
	}

	// admitted_at is read back at the column's precision
	query := `INSERT INTO admissions(id,guest_id,operator_id,admitted_at) VALUES(@id,@guestId,@operatorId,@admittedAt)
		RETURNING admitted_at`
	args := pgx.NamedArgs{
		"id":         admission.ID,
		"guestId":    admission.GuestID,
		"operatorId": admission.OperatorID,
		"admittedAt": admission.AdmittedAt,
	}

	if err := tx.QueryRow(ctx, query, args).Scan(&admission.AdmittedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case codeUniqueViolation:
				return models.Admission{}, fmt.Errorf("%s: %w", op, storage.ErrAdmissionExists)
			case codeForeignKeyViolation:
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

	outboxQuery := "INSERT INTO outbox(id,event_type,payload,created_at) VALUES($1,$2,$3,$4)"
	if _, err := tx.Exec(ctx, outboxQuery, uuid.New(), models.EventTypeGuestAdmitted, string(payload), at); err != nil {
		return models.Admission{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Admission{}, fmt.Errorf("%s: %w", op, err)
	}

	return admission, nil
}

func (s *Storage) Admission(ctx context.Context, guestID uuid.UUID) (models.Admission, error) {
	const op = "storage.postgres.Admission"

	rows, err := s.dbpool.Query(ctx, "SELECT id,guest_id,operator_id,admitted_at FROM admissions WHERE guest_id=$1", guestID)
	if err != nil {
		return models.Admission{}, fmt.Errorf("%s: %w", op, err)
	}

	admission, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Admission])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Admission{}, fmt.Errorf("%s: %w", op, storage.ErrAdmissionNotFound)
		}

		return models.Admission{}, fmt.Errorf("%s: %w", op, err)
	}

	return converter.ToAdmissionFromStorage(admission), nil
}

// Admissions returns every admission of the event's guests.
func (s *Storage) Admissions(ctx context.Context, eventID uuid.UUID) ([]models.Admission, error) {
	const op = "storage.postgres.Admissions"

	query := `SELECT a.id,a.guest_id,a.operator_id,a.admitted_at
		FROM admissions a JOIN guests g ON g.id = a.guest_id
		WHERE g.event_id=$1 ORDER BY a.admitted_at`

	rows, err := s.dbpool.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	admissions, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Admission])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return converter.ToAdmissionsFromStorage(admissions), nil
}

func (s *Storage) Stats(ctx context.Context, eventID uuid.UUID) (models.Stats, error) {
	const op = "storage.postgres.Stats"

	query := `SELECT count(g.id),
			count(a.id),
			count(g.id) FILTER (WHERE g.category = $2)
		FROM guests g LEFT JOIN admissions a ON a.guest_id = g.id
		WHERE g.event_id = $1`

	var stats models.Stats
	if err := s.dbpool.QueryRow(ctx, query, eventID, models.CategoryVIP).Scan(&stats.Total, &stats.CheckedIn, &stats.VIP); err != nil {
		return models.Stats{}, fmt.Errorf("%s: %w", op, err)
	}
	stats.Pending = stats.Total - stats.CheckedIn

	return stats, nil
}

// NewEvents reserves up to limit pending outbox events. A reservation expires
// so events of a crashed sender are picked up again.
func (s *Storage) NewEvents(ctx context.Context, limit int) ([]models.OutboxEvent, error) {
	const op = "storage.postgres.NewEvents"

	query := `UPDATE outbox SET reserved_to = now() + make_interval(secs => $2)
		WHERE id IN (
			SELECT id FROM outbox
			WHERE status = 'new' AND (reserved_to IS NULL OR reserved_to < now())
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id,event_type,payload,status,created_at,reserved_to`

	rows, err := s.dbpool.Query(ctx, query, limit, outboxReservation.Seconds())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	events, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.OutboxEvent])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return converter.ToOutboxEventsFromStorage(events), nil
}

func (s *Storage) SetEventDone(ctx context.Context, eventID uuid.UUID) (models.OutboxEvent, error) {
	const op = "storage.postgres.SetEventDone"

	query := "UPDATE outbox SET status = 'done' WHERE id=$1 RETURNING id,event_type,payload,status,created_at,reserved_to"

	rows, err := s.dbpool.Query(ctx, query, eventID)
	if err != nil {
		return models.OutboxEvent{}, fmt.Errorf("%s: %w", op, err)
	}

	event, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.OutboxEvent])
	if err != nil {
		return models.OutboxEvent{}, fmt.Errorf("%s: %w", op, err)
	}

	return converter.ToOutboxEventFromStorage(event), nil
}

func (s *Storage) ClosePool() {
	s.dbpool.Close()
}
