package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/go-impact-backend/config"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/logging"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	err = client.Ping(context.Background()).Err()
	require.NoError(t, err)

	return client, mr
}

func TestNew(t *testing.T) {
	ctx := logging.WithRequestID(context.Background(), "req-1")
	e := New(ctx, ProjectCreated, "P1", map[string]int{"n": 1})

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, ProjectCreated, e.Type)
	assert.Equal(t, "P1", e.ProjectID)
	assert.Equal(t, "req-1", e.RequestID)
	assert.WithinDuration(t, time.Now(), e.OccurredAt, time.Second)
}

func TestRedisPublisher_Publish(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()
	pub := NewRedisPublisher(client, "")
	assert.Equal(t, DefaultChannel, pub.Channel())

	all := client.Subscribe(ctx, pub.Channel())
	defer all.Close()
	one := client.Subscribe(ctx, pub.ProjectChannel("P1"))
	defer one.Close()
	_, err := all.Receive(ctx)
	require.NoError(t, err)
	_, err = one.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, pub.Publish(ctx, New(ctx, ProjectDeleted, "P1", nil)))

	for _, sub := range []*redis.PubSub{all, one} {
		select {
		case msg := <-sub.Channel():
			var got Event
			require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
			assert.Equal(t, ProjectDeleted, got.Type)
			assert.Equal(t, "P1", got.ProjectID)
		case <-time.After(2 * time.Second):
			t.Fatal("event not received")
		}
	}
}

func TestRedisPublisher_PublishFailsWhenServerDown(t *testing.T) {
	client, mr := setupTestRedis(t)
	pub := NewRedisPublisher(client, "custom")
	mr.Close()

	err := pub.Publish(context.Background(), New(context.Background(), ProjectUpdated, "P1", nil))
	assert.Error(t, err)
}

func TestConnect(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	addr := mr.Addr()
	client, err := Connect(context.Background(), config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	client.Close()

	mr.Close()
	_, err = Connect(context.Background(), config.RedisConfig{Addr: addr})
	assert.Error(t, err)
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.Publish(context.Background(), Event{}))
	assert.NoError(t, p.Close())
}
