package queue

import (
	"testing"
	"time"

	"sanskaar/booking/internal/domain"
	"sanskaar/booking/internal/domain/event"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMessage(t *testing.T) {
	published := &event.BookingStatusChangedEvent{
		EventID:   "e-1",
		BookingID: "b-1",
		From:      domain.StatusRequested,
		To:        domain.StatusAccepted,
		ChangedAt: time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC),
	}
	data, err := published.EventValue()
	require.NoError(t, err)

	msg, err := toMessage("booking:stream:BookingStatusChanged", redis.XMessage{
		ID: "1-0",
		Values: map[string]interface{}{
			"event_type": published.EventType(),
			"event_data": string(data),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "1-0", msg.ID)
	assert.Equal(t, event.BookingStatusChangedType, msg.EventType)

	decoded, err := event.UnmarshalEvent[*event.BookingStatusChangedEvent](msg.Data)
	require.NoError(t, err)
	assert.Equal(t, published, decoded)
}

func TestToMessage_Invalid(t *testing.T) {
	_, err := toMessage("s", redis.XMessage{ID: "1-0", Values: map[string]interface{}{"event_type": "X"}})
	assert.Error(t, err)

	_, err = toMessage("s", redis.XMessage{ID: "1-0", Values: map[string]interface{}{"event_data": "{}"}})
	assert.Error(t, err)
}

func TestStreamName(t *testing.T) {
	q := &RedisQueue{streamPrefix: "booking:stream:"}
	assert.Equal(t, "booking:stream:BookingCreated", q.streamName(event.BookingCreatedType))
}
