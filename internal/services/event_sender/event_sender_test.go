package eventsender

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BariVakhidov/guestlist/internal/domain/models"
)

type fakeOutbox struct {
	mu      sync.Mutex
	pending []models.OutboxEvent
	done    []uuid.UUID
}

func (o *fakeOutbox) NewEvents(_ context.Context, limit int) ([]models.OutboxEvent, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	n := min(limit, len(o.pending))
	batch := o.pending[:n]
	o.pending = o.pending[n:]

	return batch, nil
}

func (o *fakeOutbox) SetEventDone(_ context.Context, eventID uuid.UUID) (models.OutboxEvent, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.done = append(o.done, eventID)

	return models.OutboxEvent{ID: eventID}, nil
}

func (o *fakeOutbox) doneCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	return len(o.done)
}

type fakePublisher struct {
	mu      sync.Mutex
	keys    []string
	failFor string
}

func (p *fakePublisher) Publish(_ context.Context, key, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if string(data) == p.failFor {
		return errors.New("broker unavailable")
	}
	p.keys = append(p.keys, string(key))

	return nil
}

func TestSender_PublishesAndMarksDone(t *testing.T) {
	outbox := &fakeOutbox{}
	for i := 0; i < 5; i++ {
		outbox.pending = append(outbox.pending, models.OutboxEvent{
			ID:      uuid.New(),
			Type:    models.EventTypeGuestAdmitted,
			Payload: uuid.NewString(),
		})
	}
	failing := outbox.pending[2]
	publisher := &fakePublisher{failFor: failing.Payload}

	sender := NewSender(slog.New(slog.NewTextHandler(io.Discard, nil)), publisher, outbox)
	sender.StartProducing(context.Background(), 2, 5*time.Millisecond)

	require.Eventually(t, func() bool { return outbox.doneCount() == 4 }, time.Second, 5*time.Millisecond)
	sender.StopSending()

	assert.NotContains(t, outbox.done, failing.ID)
	for _, key := range publisher.keys {
		assert.Equal(t, models.EventTypeGuestAdmitted, key)
	}
}

func TestSender_StopIsIdempotent(t *testing.T) {
	sender := NewSender(slog.New(slog.NewTextHandler(io.Discard, nil)), &fakePublisher{}, &fakeOutbox{})
	sender.StartProducing(context.Background(), 10, time.Hour)

	sender.StopSending()
	sender.StopSending()
}
