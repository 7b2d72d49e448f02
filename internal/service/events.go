package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sanskaar/booking/internal/domain/event"
	"sanskaar/booking/internal/queue"

	log "github.com/sirupsen/logrus"
)

const eventReadBlock = 5 * time.Second

// TailEvents reads booking events as consumer until ctx is done, passing each
// decoded event to handle and acknowledging it afterwards.
func (s *Service) TailEvents(ctx context.Context, consumer string, handle func(event.Event)) error {
	if s.queue == nil {
		return fmt.Errorf("event stream requires redis.enabled")
	}

	log.Infof("🚀 Tailing booking events as consumer %s", consumer)
	for {
		select {
		case <-ctx.Done():
			log.Infof("🛑 Consumer %s stopping", consumer)
			return nil
		default:
		}

		msg, err := s.queue.ReadEvent(ctx, consumer, eventReadBlock)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			log.Errorf("❌ Failed to read booking event: %v", err)
			continue
		}
		if msg == nil {
			continue
		}

		if err := s.processMessage(ctx, msg, handle); err != nil {
			log.Errorf("❌ Failed to process message %s: %v", msg.ID, err)
		}
	}
}

func (s *Service) processMessage(ctx context.Context, msg *queue.Message, handle func(event.Event)) error {
	var (
		e   event.Event
		err error
	)
	switch msg.EventType {
	case event.BookingCreatedType:
		e, err = event.UnmarshalEvent[*event.BookingCreatedEvent](msg.Data)
	case event.BookingStatusChangedType:
		e, err = event.UnmarshalEvent[*event.BookingStatusChangedEvent](msg.Data)
	default:
		err = fmt.Errorf("unknown event type: %s", msg.EventType)
	}
	if err != nil {
		return fmt.Errorf("failed to decode event: %w", err)
	}

	handle(e)

	return s.queue.AckEvent(ctx, msg)
}
