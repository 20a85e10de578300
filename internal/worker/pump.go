// Package worker pumps externally created activity from the queue into the
// domain stores. Notifications and conversations are created outside the
// client; this is the simulated inbound feed delivering them.
package worker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"resona/internal/model"
	"resona/internal/queue"
)

const (
	// DefaultPumpCount is the default number of pump goroutines.
	DefaultPumpCount = 1

	// DefaultBatchSize is the number of messages to read per batch.
	DefaultBatchSize = 10

	// DefaultBlockTimeout is how long a read blocks waiting for activity.
	DefaultBlockTimeout = 5 * time.Second
)

// NotificationSink receives inbound notifications.
type NotificationSink interface {
	Apply(n model.Notification)
}

// MessageSink receives inbound direct messages.
type MessageSink interface {
	ApplyIncoming(m model.Message) error
}

// PumpConfig holds configuration for the activity pump.
type PumpConfig struct {
	PumpCount    int
	BatchSize    int64
	BlockTimeout time.Duration
}

// Pump consumes activity events and delivers them into the stores.
type Pump struct {
	consumer      queue.Consumer
	notifications NotificationSink
	messages      MessageSink
	cfg           PumpConfig

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewPump creates a pump delivering into the given sinks.
func NewPump(consumer queue.Consumer, notifications NotificationSink, messages MessageSink, cfg PumpConfig) *Pump {
	if cfg.PumpCount <= 0 {
		cfg.PumpCount = DefaultPumpCount
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = DefaultBlockTimeout
	}
	return &Pump{
		consumer:      consumer,
		notifications: notifications,
		messages:      messages,
		cfg:           cfg,
	}
}

// Start begins consuming. Call Stop to shut down gracefully.
func (p *Pump) Start(ctx context.Context) error {
	ctx, p.cancel = context.WithCancel(ctx)

	if err := p.consumer.EnsureGroup(ctx, queue.StreamActivity, queue.ConsumerGroupActivity); err != nil {
		return err
	}

	for i := 0; i < p.cfg.PumpCount; i++ {
		name := fmt.Sprintf("pump-%d", i+1)
		p.wg.Add(1)
		go p.run(ctx, name)
	}

	log.Printf("[Pump] Started %d consumers for stream=%s group=%s",
		p.cfg.PumpCount, queue.StreamActivity, queue.ConsumerGroupActivity)
	return nil
}

// Stop shuts the pump down and blocks until all consumers have finished.
func (p *Pump) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	log.Printf("[Pump] Stopped")
}

func (p *Pump) run(ctx context.Context, consumerName string) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		messages, err := p.consumer.Read(ctx, queue.StreamActivity, queue.ConsumerGroupActivity,
			consumerName, p.cfg.BatchSize, p.cfg.BlockTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[Pump] Read FAILED: consumer=%s err=%v", consumerName, err)
			time.Sleep(time.Second) // Back off on error
			continue
		}

		for _, msg := range messages {
			p.deliver(msg.Event)
			if err := p.consumer.Ack(ctx, queue.StreamActivity, queue.ConsumerGroupActivity, msg.ID); err != nil {
				log.Printf("[Pump] Ack FAILED: msgID=%s err=%v", msg.ID, err)
			}
		}
	}
}

// deliver routes one event into its store. Delivery failures are reported
// and the event is still acknowledged; inbound activity is best-effort in
// this scope.
func (p *Pump) deliver(event queue.ActivityEvent) {
	switch event.Type {
	case queue.EventNotification:
		if event.Notification == nil {
			log.Printf("[Pump] Dropping notification event with no payload")
			return
		}
		p.notifications.Apply(*event.Notification)
	case queue.EventMessage:
		if event.Message == nil {
			log.Printf("[Pump] Dropping message event with no payload")
			return
		}
		if err := p.messages.ApplyIncoming(*event.Message); err != nil {
			log.Printf("[Pump] Deliver message FAILED: message=%s err=%v", event.Message.ID, err)
		}
	default:
		log.Printf("[Pump] Unknown event type: %s", event.Type)
	}
}
