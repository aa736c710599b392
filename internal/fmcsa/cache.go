package fmcsa

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/loadbroker/backend/internal/eligibility"
	"github.com/loadbroker/backend/pkg/logger"
)

// Cache holds recent carrier snapshots in redis so repeated verification
// calls for the same MC number skip the registry. It is an optimization:
// every failure here degrades to a live lookup.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(host string, port int, password string, db int, ttl time.Duration) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Carrier cache initialized",
		zap.String("addr", fmt.Sprintf("%s:%d", host, port)),
		zap.Duration("ttl", ttl),
	)

	return &Cache{client: client, ttl: ttl}, nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) Get(ctx context.Context, mc string) (eligibility.CarrierRecord, bool) {
	var rec eligibility.CarrierRecord

	data, err := c.client.Get(ctx, carrierKey(mc)).Bytes()
	if err == redis.Nil {
		return rec, false
	}
	if err != nil {
		logger.Warn("Carrier cache read failed", zap.String("mc", mc), zap.Error(err))
		return rec, false
	}

	if err := json.Unmarshal(data, &rec); err != nil {
		logger.Warn("Carrier cache entry corrupt", zap.String("mc", mc), zap.Error(err))
		return rec, false
	}

	return rec, true
}

func (c *Cache) Set(ctx context.Context, mc string, rec eligibility.CarrierRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		logger.Warn("Failed to marshal carrier snapshot", zap.String("mc", mc), zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, carrierKey(mc), data, c.ttl).Err(); err != nil {
		logger.Warn("Carrier cache write failed", zap.String("mc", mc), zap.Error(err))
	}
}

func carrierKey(mc string) string {
	return "carrier:" + mc
}
