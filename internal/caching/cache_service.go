package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "stockpulse"

type CacheService interface {
	// Dashboard snapshots. A miss is reported as (false, nil).
	GetDashboard(ctx context.Context, tenantID uuid.UUID, variant string, dst interface{}) (bool, error)
	SetDashboard(ctx context.Context, tenantID uuid.UUID, variant string, value interface{}, ttl time.Duration) error
	InvalidateTenantDashboards(ctx context.Context, tenantID uuid.UUID) error

	Ping(ctx context.Context) error
	Close() error
}

type redisCacheService struct {
	client redis.UniversalClient
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port as well as host:port
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Warn().Err(pingErr).Str("addr", parsedAddr).Msg("redis ping failed on initialization")
	} else {
		log.Debug().Str("addr", parsedAddr).Msg("redis connection established")
	}

	return NewCacheServiceWithClient(client)
}

// NewCacheServiceWithClient wraps an existing client.
func NewCacheServiceWithClient(client redis.UniversalClient) CacheService {
	return &redisCacheService{client: client}
}

// DashboardKey is the redis key of one dashboard variant of a tenant.
func DashboardKey(tenantID uuid.UUID, variant string) string {
	return fmt.Sprintf("%s:dashboard:%s:%s", keyPrefix, tenantID.String(), variant)
}

func (r *redisCacheService) GetDashboard(ctx context.Context, tenantID uuid.UUID, variant string, dst interface{}) (bool, error) {
	data, err := r.client.Get(ctx, DashboardKey(tenantID, variant)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil // cache miss
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode cached dashboard: %w", err)
	}
	return true, nil
}

func (r *redisCacheService) SetDashboard(ctx context.Context, tenantID uuid.UUID, variant string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, DashboardKey(tenantID, variant), data, ttl).Err()
}

func (r *redisCacheService) InvalidateTenantDashboards(ctx context.Context, tenantID uuid.UUID) error {
	pattern := fmt.Sprintf("%s:dashboard:%s:*", keyPrefix, tenantID.String())

	var keys []string
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisCacheService) Close() error {
	return r.client.Close()
}
