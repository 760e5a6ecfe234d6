package storage

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/hotelops/hotel-admin-backend/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real server when REDIS_TEST_ADDR is set
func setupRedisStore(t *testing.T, origin string) *RedisStore {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	prefix := "hotel-test:" + NewInstanceID() + ":"
	store, err := NewRedisStore(context.Background(), config.RedisConfig{
		Addr:      addr,
		KeyPrefix: prefix,
		Channel:   prefix + "changes",
	}, origin, logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRedisStore(t *testing.T) {
	exerciseStore(t, setupRedisStore(t, "instance-a"))
}

func TestRedisStore_WatchSeesOtherInstances(t *testing.T) {
	writer := setupRedisStore(t, "instance-a")
	reader := NewRedisStoreFromClient(writer.client, writer.prefix, writer.channel, "instance-b", writer.logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changes, err := reader.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, writer.Set(ctx, KeyRooms, []byte(`[]`)))

	select {
	case change := <-changes:
		assert.Equal(t, KeyRooms, change.Key)
		assert.Equal(t, "instance-a", change.Origin)
	case <-ctx.Done():
		t.Fatal("no change notification received")
	}
}
