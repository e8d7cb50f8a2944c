package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/m3rciful/quizbot/core/logger"
)

const defaultRedisPrefix = "quiz:user:"

// RedisConfig locates the redis instance used by RedisStore.
type RedisConfig struct {
	Addr     string `yaml:"addr" envconfig:"REDIS_ADDR"`
	Password string `yaml:"password" envconfig:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" envconfig:"REDIS_DB"`
	// Prefix is prepended to the user id to form the key; empty -> "quiz:user:".
	Prefix string `yaml:"prefix" envconfig:"REDIS_PREFIX"`
}

// RedisStore keeps each record as a JSON string under <prefix><id>, without expiry.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("users: redis ping %s: %w", addr, err)
	}
	logger.Info(ctx, "store", "store.connect",
		slog.String("driver", DriverRedis),
		slog.String("host", addr),
	)
	return newRedisStore(client, cfg.Prefix), nil
}

func newRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(id int64) string {
	return s.prefix + strconv.FormatInt(id, 10)
}

// Load fetches and decodes one document.
func (s *RedisStore) Load(ctx context.Context, id int64) (Record, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("users: redis get %d: %w", id, err)
	}
	rec, err := Decode(data)
	if err == nil {
		err = checkLoaded(id, rec)
	}
	if err != nil {
		return Record{}, fmt.Errorf("users: load %d: %w", id, err)
	}
	return rec, nil
}

// Save overwrites the document.
func (s *RedisStore) Save(ctx context.Context, rec Record) error {
	data, err := Encode(rec)
	if err != nil {
		return fmt.Errorf("users: encode %d: %w", rec.ID, err)
	}
	if err := s.client.Set(ctx, s.key(rec.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("users: redis set %d: %w", rec.ID, err)
	}
	logger.Debug(ctx, "store", "store.save",
		slog.String("driver", DriverRedis),
		slog.Int64("user_id", rec.ID),
		slog.Int("task_index", rec.TaskIndex),
		slog.Int("score", rec.Score),
	)
	return nil
}

// List scans every key under the prefix.
func (s *RedisStore) List(ctx context.Context) ([]Record, error) {
	var out []Record
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		idStr := strings.TrimPrefix(iter.Val(), s.prefix)
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			continue
		}
		rec, err := s.Load(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			logger.Warn(ctx, "store", "store.list.skip",
				slog.String("driver", DriverRedis),
				slog.Int64("user_id", id),
				slog.String("err", err.Error()),
			)
			continue
		}
		out = append(out, rec)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("users: redis scan: %w", err)
	}
	return out, nil
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
