package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultMaxRetries = 16

// RedisBackend stores each document under <prefix>doc:<kind>. Mutate uses
// WATCH/MULTI so a concurrent writer forces a retry instead of a lost update.
type RedisBackend struct {
	client     *redis.Client
	prefix     string
	maxRetries int
}

func NewRedisBackend(client *redis.Client, prefix string) *RedisBackend {
	return &RedisBackend{client: client, prefix: prefix, maxRetries: defaultMaxRetries}
}

func (b *RedisBackend) key(kind Kind) string {
	return b.prefix + "doc:" + string(kind)
}

func (b *RedisBackend) Read(ctx context.Context, kind Kind) ([]byte, error) {
	data, err := b.client.Get(ctx, b.key(kind)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return data, nil
}

func (b *RedisBackend) Write(ctx context.Context, kind Kind, data []byte) error {
	if err := b.client.Set(ctx, b.key(kind), data, 0).Err(); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

func (b *RedisBackend) Mutate(ctx context.Context, kind Kind, fn func(current []byte) ([]byte, error)) error {
	key := b.key(kind)
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			current = nil
		} else if err != nil {
			return fmt.Errorf("reading document: %w", err)
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			return nil
		})
		return err
	}

	for i := 0; i < b.maxRetries; i++ {
		err := b.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrConflict
}
