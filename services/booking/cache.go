package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"appointly/models"
	"appointly/utils"

	"go.uber.org/zap"
)

const slotCacheTTL = 60 * time.Second

// Slot listings are cached under a per-professional version counter; booking
// mutations, availability writes and policy changes all bump the counter so
// stale listings fall out of reach without explicit deletion. A listing is at
// worst slotCacheTTL stale if a writer misses the bump. The cache is advisory
// only: CreateBooking always re-validates against live booking state.

func (se *DefaultSchedulingEngine) slotVersion(ctx context.Context, professionalID string) int64 {
	if se.Cache == nil {
		return 0
	}
	v, err := se.Cache.Get(ctx, "slots:ver:"+professionalID).Int64()
	if err != nil {
		return 0
	}
	return v
}

func (se *DefaultSchedulingEngine) slotCacheKey(ctx context.Context, professionalID, serviceID, from, to string, includeUnavailable bool) string {
	return fmt.Sprintf("slots:%d:%s:%s:%s:%s:%t",
		se.slotVersion(ctx, professionalID), professionalID, serviceID, from, to, includeUnavailable)
}

func (se *DefaultSchedulingEngine) cachedSlots(ctx context.Context, professionalID, serviceID, from, to string, includeUnavailable bool) ([]models.Slot, bool) {
	if se.Cache == nil {
		return nil, false
	}
	data, err := se.Cache.Get(ctx, se.slotCacheKey(ctx, professionalID, serviceID, from, to, includeUnavailable)).Result()
	if err != nil {
		return nil, false
	}
	var slots []models.Slot
	if err := json.Unmarshal([]byte(data), &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (se *DefaultSchedulingEngine) storeSlots(ctx context.Context, professionalID, serviceID, from, to string, includeUnavailable bool, slots []models.Slot) {
	if se.Cache == nil {
		return
	}
	data, err := json.Marshal(slots)
	if err != nil {
		return
	}
	key := se.slotCacheKey(ctx, professionalID, serviceID, from, to, includeUnavailable)
	if err := se.Cache.Set(ctx, key, data, slotCacheTTL).Err(); err != nil {
		utils.GetLogger().Warn("failed to cache slot listing", zap.String("key", key), zap.Error(err))
	}
}

// bumpSlotVersion invalidates all cached slot listings for a professional.
func (se *DefaultSchedulingEngine) bumpSlotVersion(ctx context.Context, professionalID string) {
	utils.BumpSlotVersion(ctx, se.Cache, professionalID)
}
