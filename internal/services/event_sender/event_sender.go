package eventsender

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BariVakhidov/guestlist/internal/domain/models"
	"github.com/BariVakhidov/guestlist/internal/lib/logger/sl"
)

type EventPublisher interface {
	Publish(ctx context.Context, key, data []byte) error
}

type EventProvider interface {
	NewEvents(ctx context.Context, limit int) ([]models.OutboxEvent, error)
	SetEventDone(ctx context.Context, eventID uuid.UUID) (models.OutboxEvent, error)
}

// Sender relays outbox events to the broker. An event that fails to publish
// stays reserved until its reservation expires and is then picked up again.
type Sender struct {
	log            *slog.Logger
	eventPublisher EventPublisher
	eventProvider  EventProvider
	stopChan       chan struct{}
	stopOnce       sync.Once
	done           chan struct{}
}

func NewSender(
	log *slog.Logger,
	eventPublisher EventPublisher,
	eventProvider EventProvider,
) *Sender {
	return &Sender{
		log:            log,
		eventPublisher: eventPublisher,
		eventProvider:  eventProvider,
		stopChan:       make(chan struct{}),
		done:           make(chan struct{}),
	}
}

func (s *Sender) StartProducing(ctx context.Context, limit int, interval time.Duration) {
	const op = "service.event_sender.StartProducing"
	log := s.log.With(slog.String("op", op))

	if err := ctx.Err(); err != nil {
		log.Info("stopping event producing", sl.Err(err))
		close(s.done)
		return
	}

	ticker := time.NewTicker(interval)

	log.Info("starting producing events", slog.Int("limit", limit), slog.Duration("interval", interval))

	go func() {
		defer func() {
			ticker.Stop()
			close(s.done)
			log.Info("stopping event producing")
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.produce(ctx, log, limit)
			}
		}
	}()
}

func (s *Sender) produce(ctx context.Context, log *slog.Logger, limit int) {
	events, err := s.eventProvider.NewEvents(ctx, limit)
	if err != nil {
		log.Error("failed to get new events", sl.Err(err))
		return
	}

	wg := &sync.WaitGroup{}
	for _, event := range events {
		wg.Add(1)
		go s.processEvent(ctx, wg, event)
	}
	wg.Wait()
}

func (s *Sender) processEvent(ctx context.Context, wg *sync.WaitGroup, event models.OutboxEvent) {
	const op = "service.event_sender.processEvent"
	log := s.log.With(slog.String("op", op), slog.String("event_id", event.ID.String()))

	defer wg.Done()

	if err := s.eventPublisher.Publish(ctx, []byte(event.Type), []byte(event.Payload)); err != nil {
		log.Error("failed to publish event", sl.Err(err))
		return
	}

	if _, err := s.eventProvider.SetEventDone(ctx, event.ID); err != nil {
		log.Error("failed to mark event as done", sl.Err(err))
		return
	}
}

// StopSending stops the loop and waits for the batch in flight.
func (s *Sender) StopSending() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	<-s.done
}
