package utils

import (
	"context"
	"log"
	"time"

	"appointly/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// SlotCacheClient caches generated slot listings. The cache is advisory:
// booking creation always re-validates against live booking state.
var SlotCacheClient *redis.Client

// InitSlotCache initializes the Redis client used for slot-listing caching.
func InitSlotCache() {
	SlotCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPass,
		DB:       config.AppConfig.RedisSlotDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := SlotCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (slot cache): %v", err)
	}
}

// GetSlotCacheClient returns the slot cache client.
func GetSlotCacheClient() *redis.Client {
	if SlotCacheClient == nil {
		InitSlotCache()
	}
	return SlotCacheClient
}

// BumpSlotVersion invalidates every cached slot listing for a professional by
// advancing the version counter embedded in the cache keys. Booking,
// availability and policy writers all bump the same counter. Safe to call
// with a nil client.
func BumpSlotVersion(ctx context.Context, client *redis.Client, professionalID string) {
	if client == nil {
		return
	}
	if err := client.Incr(ctx, "slots:ver:"+professionalID).Err(); err != nil {
		GetLogger().Warn("failed to bump slot cache version",
			zap.String("professionalID", professionalID), zap.Error(err))
	}
}
