package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sanskaar/booking/internal/config"
	"sanskaar/booking/internal/domain/event"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Queue publishes booking events to one redis stream per event type and lets
// consumers in a group read and acknowledge them.
type Queue interface {
	AddEvent(ctx context.Context, e event.Event) (string, error) // Returns message ID
	ReadEvent(ctx context.Context, consumer string, block time.Duration) (*Message, error)
	AckEvent(ctx context.Context, msg *Message) error
	EnsureStreamsExist(ctx context.Context) error
}

// Message is one event read from a stream.
type Message struct {
	ID        string
	Stream    string
	EventType string
	Data      []byte
}

type RedisQueue struct {
	redisClient  *redis.Client
	streamPrefix string
	groupName    string
}

func NewRedisQueue(ctx context.Context, redisClient *redis.Client, cfg config.RedisConfig) (*RedisQueue, error) {
	q := &RedisQueue{
		redisClient:  redisClient,
		streamPrefix: cfg.StreamPrefix,
		groupName:    cfg.ConsumerGroup,
	}

	if err := q.EnsureStreamsExist(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure streams exist: %w", err)
	}

	return q, nil
}

func (q *RedisQueue) streamName(eventType string) string {
	return q.streamPrefix + eventType
}

func (q *RedisQueue) AddEvent(ctx context.Context, e event.Event) (string, error) {
	eventType := e.EventType()
	streamName := q.streamName(eventType)

	value, err := e.EventValue()
	if err != nil {
		return "", fmt.Errorf("failed to serialize event: %w", err)
	}

	messageID, err := q.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: streamName,
		Values: map[string]interface{}{
			"event_type": eventType,
			"event_data": string(value),
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to add event to Redis stream %s: %w", streamName, err)
	}

	log.Debugf("Added event %s to stream %s with message ID: %s", eventType, streamName, messageID)
	return messageID, nil
}

// ReadEvent reads the next undelivered event from any booking stream. It
// returns nil, nil when nothing arrives within block.
func (q *RedisQueue) ReadEvent(ctx context.Context, consumer string, block time.Duration) (*Message, error) {
	streams := make([]string, 0, 2*len(event.Types))
	for _, eventType := range event.Types {
		streams = append(streams, q.streamName(eventType))
	}
	for range event.Types {
		streams = append(streams, ">")
	}

	result, err := q.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    q.groupName,
		Consumer: consumer,
		Streams:  streams,
		Count:    1,
		Block:    block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read from booking streams: %w", err)
	}

	for _, stream := range result {
		if len(stream.Messages) == 0 {
			continue
		}
		return toMessage(stream.Stream, stream.Messages[0])
	}
	return nil, nil
}

func toMessage(stream string, msg redis.XMessage) (*Message, error) {
	eventType, ok := msg.Values["event_type"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid event type in message %s", msg.ID)
	}
	data, ok := msg.Values["event_data"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid event data in message %s", msg.ID)
	}

	return &Message{
		ID:        msg.ID,
		Stream:    stream,
		EventType: eventType,
		Data:      []byte(data),
	}, nil
}

func (q *RedisQueue) AckEvent(ctx context.Context, msg *Message) error {
	if err := q.redisClient.XAck(ctx, msg.Stream, q.groupName, msg.ID).Err(); err != nil {
		return fmt.Errorf("failed to ack message %s: %w", msg.ID, err)
	}
	return nil
}

func (q *RedisQueue) createGroup(ctx context.Context, stream string) error {
	err := q.redisClient.XGroupCreateMkStream(ctx, stream, q.groupName, "0").Err()
	if err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP") {
		log.Debugf("Group %s already exists for stream %s", q.groupName, stream)
		return nil
	}
	return err
}

// EnsureStreamsExist creates every booking stream and its consumer group upfront.
func (q *RedisQueue) EnsureStreamsExist(ctx context.Context) error {
	for _, eventType := range event.Types {
		streamName := q.streamName(eventType)
		if err := q.createGroup(ctx, streamName); err != nil {
			return fmt.Errorf("failed to create consumer group for %s: %w", eventType, err)
		}
		log.Debugf("✅ Stream %s and consumer group %s ready", streamName, q.groupName)
	}
	return nil
}
