package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"resona/internal/model"
)

// Event types for the activity stream
const (
	EventNotification = "notification"
	EventMessage      = "message"
)

// Stream and consumer group names
const (
	StreamActivity        = "stream:activity"
	ConsumerGroupActivity = "activity_workers"
)

// ActivityEvent represents one unit of externally created activity: either
// an inbound notification or an inbound direct message. Exactly one payload
// is set, matching Type.
type ActivityEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when the event was published

	Notification *model.Notification `json:"notification,omitempty"`
	Message      *model.Message      `json:"message,omitempty"`
}

// NewNotificationEvent wraps an inbound notification.
func NewNotificationEvent(n model.Notification) ActivityEvent {
	return ActivityEvent{
		Type:         EventNotification,
		Timestamp:    time.Now().Unix(),
		Notification: &n,
	}
}

// NewMessageEvent wraps an inbound direct message.
func NewMessageEvent(m model.Message) ActivityEvent {
	return ActivityEvent{
		Type:      EventMessage,
		Timestamp: time.Now().Unix(),
		Message:   &m,
	}
}

// ToMap converts the event to a map for Redis XADD. Streams store
// field-value pairs, so the payload is serialized to JSON in a "data" field.
func (e ActivityEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseActivityEvent parses an ActivityEvent from stream message values.
func ParseActivityEvent(values map[string]interface{}) (ActivityEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return ActivityEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event ActivityEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return ActivityEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
