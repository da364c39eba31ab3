package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/urbano-pos-api/internal/application/ports"
	"github.com/jhoicas/urbano-pos-api/pkg/config"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

const (
	keyPrefix        = "idem:"
	processingMarker = "processing"
)

// IdempotencyStore claves de idempotencia en Redis: SETNX con marcador de "en curso",
// luego la respuesta serializada; ambas con TTL.
type IdempotencyStore struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewClient abre el cliente y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// NewIdempotencyStore ttl<=0 usa 24h.
func NewIdempotencyStore(rdb *goredis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (bool, *ports.StoredResponse, error) {
	ok, err := s.rdb.SetNX(ctx, keyPrefix+key, processingMarker, s.ttl).Result()
	if err != nil {
		return false, nil, fmt.Errorf("idempotency reserve: %w", err)
	}
	if ok {
		return true, nil, nil
	}

	val, err := s.rdb.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		// expiró entre SETNX y GET: se intenta de nuevo una sola vez
		ok, err = s.rdb.SetNX(ctx, keyPrefix+key, processingMarker, s.ttl).Result()
		if err != nil {
			return false, nil, fmt.Errorf("idempotency reserve: %w", err)
		}
		return ok, nil, nil
	}
	if err != nil {
		return false, nil, fmt.Errorf("idempotency get: %w", err)
	}
	if val == processingMarker {
		return false, nil, nil
	}

	var resp ports.StoredResponse
	if err := json.Unmarshal([]byte(val), &resp); err != nil {
		return false, nil, fmt.Errorf("idempotency decode: %w", err)
	}
	return false, &resp, nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, key string, resp ports.StoredResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("idempotency encode: %w", err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}
