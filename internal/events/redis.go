package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GoSim-25-26J-441/go-impact-backend/config"
)

// DefaultChannel is the pub/sub channel used when none is configured.
const DefaultChannel = "impact:events"

// RedisPublisher publishes events as JSON on a Redis pub/sub channel. Every
// event goes to the shared channel and to a per-project channel
// ({channel}:{project_id}) so subscribers can follow a single project.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

var _ Publisher = (*RedisPublisher)(nil)

// NewRedisPublisher creates a publisher on an existing client.
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{client: client, channel: channel}
}

// Connect opens a client for cfg and checks it answers.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// Channel returns the shared channel name.
func (p *RedisPublisher) Channel() string {
	return p.channel
}

// ProjectChannel returns the channel carrying only the events of projectID.
func (p *RedisPublisher) ProjectChannel(projectID string) string {
	return p.channel + ":" + projectID
}

// Publish sends e to the shared and the per-project channel.
func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	pipe := p.client.Pipeline()
	pipe.Publish(ctx, p.channel, data)
	if e.ProjectID != "" {
		pipe.Publish(ctx, p.ProjectChannel(e.ProjectID), data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", e.Type, err)
	}
	return nil
}

// Close closes the underlying client.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
