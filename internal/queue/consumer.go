package queue

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// StreamMessage represents a message read from the activity stream.
type StreamMessage struct {
	ID    string        // Redis message ID
	Event ActivityEvent // Parsed event data
}

// Consumer defines the interface for consuming activity from a stream.
type Consumer interface {
	// EnsureGroup creates the consumer group if it doesn't exist. Call at
	// pump startup.
	EnsureGroup(ctx context.Context, stream, group string) error

	// Read reads up to count messages for this consumer, blocking up to
	// block waiting for new ones.
	Read(ctx context.Context, stream, group, consumer string, count int64, block time.Duration) ([]StreamMessage, error)

	// Ack acknowledges processed messages.
	Ack(ctx context.Context, stream, group string, messageIDs ...string) error
}

// RedisConsumer implements Consumer using Redis Streams.
type RedisConsumer struct {
	client *redis.Client
}

// NewConsumer creates a Consumer backed by Redis Streams.
func NewConsumer(client *redis.Client) Consumer {
	return &RedisConsumer{client: client}
}

// EnsureGroup creates the group with XGROUP CREATE MKSTREAM, reading from
// the beginning of the stream. An already-existing group is not an error.
func (c *RedisConsumer) EnsureGroup(ctx context.Context, stream, group string) error {
	err := c.client.XGroupCreateMkStream(ctx, stream, group, "0").Err()
	if err != nil {
		if strings.HasPrefix(err.Error(), "BUSYGROUP") {
			return nil
		}
		return fmt.Errorf("create consumer group: %w", err)
	}
	return nil
}

func (c *RedisConsumer) Read(ctx context.Context, stream, group, consumer string, count int64, block time.Duration) ([]StreamMessage, error) {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, ">"},
		Count:    count,
		Block:    block,
	}).Result()

	if err == redis.Nil {
		return nil, nil // Block timeout, no new messages
	}
	if err != nil {
		return nil, fmt.Errorf("xreadgroup: %w", err)
	}

	var messages []StreamMessage
	for _, s := range streams {
		for _, msg := range s.Messages {
			event, err := ParseActivityEvent(msg.Values)
			if err != nil {
				// Ack malformed messages so they don't poison the group.
				log.Printf("[Consumer] Skipping malformed message msgID=%s: %v", msg.ID, err)
				_ = c.Ack(ctx, stream, group, msg.ID)
				continue
			}
			messages = append(messages, StreamMessage{ID: msg.ID, Event: event})
		}
	}
	return messages, nil
}

func (c *RedisConsumer) Ack(ctx context.Context, stream, group string, messageIDs ...string) error {
	if len(messageIDs) == 0 {
		return nil
	}
	if err := c.client.XAck(ctx, stream, group, messageIDs...).Err(); err != nil {
		return fmt.Errorf("xack: %w", err)
	}
	return nil
}
