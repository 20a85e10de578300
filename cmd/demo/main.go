// Command demo wires the full client state layer against the fixture-backed
// remote source and a Redis-backed session cache, then walks through a
// typical session: restore, login, browse, like, post, message, and inbound
// activity delivered through the queue pump.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"resona/internal/cache"
	"resona/internal/config"
	"resona/internal/identity"
	"resona/internal/model"
	"resona/internal/queue"
	"resona/internal/seed"
	"resona/internal/source"
	"resona/internal/store"
	"resona/internal/worker"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("demo failed: %v", err)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client, err := cache.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis client: %w", err)
	}
	defer client.Close()
	if err := cache.Ping(ctx, client); err != nil {
		return err
	}

	// Fixture data plus a seeded tail for the explore feed.
	fixtures := source.DefaultFixtures()
	factory := seed.NewFactory(cfg.SeedValue)
	fixtures.Posts = append(fixtures.Posts, factory.Feed(20)...)

	fixtureSource := source.NewFixtureSource(fixtures, cfg.SourceLatency)

	// The identity stand-in knows the fixture user so login succeeds.
	provider := identity.NewStandinProvider(cfg.JWTSecret, time.Duration(cfg.AccessTokenMaxAge)*time.Second)
	self := fixtures.Users[0]
	if err := provider.Register(self, "demo-password"); err != nil {
		return err
	}

	sessions := store.NewSessionStore(cache.NewSessionCache(client), provider)
	sessions.Restore(ctx)
	if !sessions.Snapshot().IsAuthenticated {
		if err := sessions.Login(ctx, self.Email, "demo-password"); err != nil {
			return fmt.Errorf("login: %w", err)
		}
	}

	// A live database substitutes for the fixtures without changing any
	// store wiring; that substitution is the point of the source seam.
	var posts *store.PostStore
	if cfg.PostgresDSN != "" {
		db, err := sqlx.Connect("postgres", cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer db.Close()
		posts = store.NewPostStore(source.NewPostgresSource(db, sessions.CurrentUserID()), sessions)
	} else {
		posts = store.NewPostStore(fixtureSource, sessions)
	}

	notifications := store.NewNotificationStore(fixtureSource, sessions)
	conversations := store.NewConversationStore(fixtureSource, sessions)

	posts.SetQuery(ctx, model.FeedViewHome, "")
	posts.Wait()
	if err := notifications.Refresh(ctx); err != nil {
		return err
	}
	if err := conversations.Refresh(ctx); err != nil {
		return err
	}

	log.Printf("[Demo] Feed loaded: posts=%d unread_notifications=%d unread_conversations=%d",
		len(posts.Posts()), notifications.UnreadCount(), conversations.UnreadCount())

	// Optimistic like on the newest post.
	feed := posts.Posts()
	if len(feed) > 0 {
		if err := posts.ToggleLike(feed[0].ID); err != nil {
			return err
		}
	}

	// Publish a new text post.
	created, err := posts.CreatePost(model.PostDraft{
		Type:    model.PostTypeText,
		Content: "Settling in with a fresh cup and the morning queue.",
	})
	if err != nil {
		return err
	}
	log.Printf("[Demo] Created post=%s", created.ID)

	// Reply in the first conversation.
	convs := conversations.Conversations()
	if len(convs) > 0 {
		if err := conversations.SendMessage(convs[0].ID, "Thanks! New mix coming this week."); err != nil {
			return err
		}
	}

	// Inbound activity: publish through the stream, deliver via the pump.
	pump := worker.NewPump(queue.NewConsumer(client), notifications, conversations, worker.PumpConfig{
		BlockTimeout: 500 * time.Millisecond,
	})
	if err := pump.Start(ctx); err != nil {
		return fmt.Errorf("start pump: %w", err)
	}

	publisher := queue.NewPublisher(client)
	inbound := model.Notification{
		ID:        uuid.NewString(),
		Type:      model.NotificationTypeLike,
		FromUser:  fixtures.Users[1],
		PostID:    &created.ID,
		Message:   "liked your post",
		CreatedAt: time.Now().UTC(),
	}
	if _, err := publisher.Publish(ctx, queue.StreamActivity, queue.NewNotificationEvent(inbound)); err != nil {
		return err
	}

	// Give the pump a beat to deliver, then report and shut down.
	time.Sleep(time.Second)
	pump.Stop()
	posts.Wait()

	log.Printf("[Demo] Done: posts=%d unread_notifications=%d unread_conversations=%d",
		len(posts.Posts()), notifications.UnreadCount(), conversations.UnreadCount())
	return nil
}
