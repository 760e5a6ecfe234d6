package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hotelops/hotel-admin-backend/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisStore keeps values as plain redis strings and announces every
// write on a pub/sub channel
type RedisStore struct {
	client  *redis.Client
	prefix  string
	channel string
	origin  string
	logger  *logrus.Logger
}

// NewRedisStore connects to redis and verifies the connection
func NewRedisStore(ctx context.Context, cfg config.RedisConfig, origin string, logger *logrus.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return NewRedisStoreFromClient(client, cfg.KeyPrefix, cfg.Channel, origin, logger), nil
}

// NewRedisStoreFromClient wraps an existing client
func NewRedisStoreFromClient(client *redis.Client, prefix, channel, origin string, logger *logrus.Logger) *RedisStore {
	return &RedisStore{
		client:  client,
		prefix:  prefix,
		channel: channel,
		origin:  origin,
		logger:  logger,
	}
}

// Ping checks the redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Get returns the value under key
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

// Set stores value and publishes the change in one transaction
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	payload, err := EncodeChange(key, s.origin)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.prefix+key, value, 0)
		pipe.Publish(ctx, s.channel, payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Delete removes key and publishes the change
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	payload, err := EncodeChange(key, s.origin)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.prefix+key)
		pipe.Publish(ctx, s.channel, payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Watch subscribes to the change channel
func (s *RedisStore) Watch(ctx context.Context) (<-chan Change, error) {
	sub := s.client.Subscribe(ctx, s.channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", s.channel, err)
	}

	changes := make(chan Change, 16)
	go func() {
		defer close(changes)
		defer sub.Close()

		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				change, foreign := DecodeForeignChange(msg.Payload, s.origin)
				if !foreign {
					continue
				}
				select {
				case changes <- change:
				default:
					s.logger.WithField("key", change.Key).Warn("Dropping storage change notification, watcher is behind")
				}
			}
		}
	}()

	return changes, nil
}

// Close closes the redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
