package converter

import (
	"database/sql"
	"strings"

	"github.com/BariVakhidov/guestlist/internal/domain/models"
	storageModel "github.com/BariVakhidov/guestlist/internal/storage/model"
)

func ToOutboxEventFromStorage(storageEvent storageModel.OutboxEvent) models.OutboxEvent {
	return models.OutboxEvent{
		ID:      storageEvent.ID,
		Type:    storageEvent.Type,
		Payload: storageEvent.Payload,
	}
}

func ToOutboxEventsFromStorage(storageEvents []storageModel.OutboxEvent) []models.OutboxEvent {
	events := make([]models.OutboxEvent, len(storageEvents))
	for i, event := range storageEvents {
		events[i] = ToOutboxEventFromStorage(event)
	}

	return events
}

func ToEventFromStorage(e storageModel.Event) models.Event {
	return models.Event{
		ID:                e.ID,
		Name:              e.Name,
		Date:              e.Date.String,
		Time:              e.Time.String,
		Venue:             e.Venue.String,
		Honoree:           e.Honoree.String,
		DressCode:         e.DressCode.String,
		Colors:            e.Colors.String,
		EnabledCategories: SplitCategories(e.EnabledCategories.String),
		CreatedAt:         e.CreatedAt,
	}
}

func ToStorageEvent(e models.Event) storageModel.Event {
	return storageModel.Event{
		ID:                e.ID,
		Name:              e.Name,
		Date:              nullString(e.Date),
		Time:              nullString(e.Time),
		Venue:             nullString(e.Venue),
		Honoree:           nullString(e.Honoree),
		DressCode:         nullString(e.DressCode),
		Colors:            nullString(e.Colors),
		EnabledCategories: nullString(strings.Join(e.EnabledCategories, ",")),
		CreatedAt:         e.CreatedAt,
	}
}

// SplitCategories parses a comma separated category list, dropping blanks.
func SplitCategories(list string) []string {
	var categories []string
	for _, c := range strings.Split(list, ",") {
		if c = strings.TrimSpace(c); c != "" {
			categories = append(categories, c)
		}
	}

	return categories
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
