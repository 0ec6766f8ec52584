package user

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/teamtodo/server/internal/rpc"
	"github.com/teamtodo/server/internal/utils/metrics"
)

const (
	snapshotKeyPrefix = "user:snapshot:"
	snapshotTTL       = 30 * time.Second
)

// SnapshotCache caches user snapshots in Redis. A nil client disables
// caching; every method becomes a no-op miss.
type SnapshotCache struct {
	client  redis.UniversalClient
	metrics *metrics.Metrics
}

// NewSnapshotCache creates a snapshot cache.
func NewSnapshotCache(client redis.UniversalClient, m *metrics.Metrics) *SnapshotCache {
	return &SnapshotCache{client: client, metrics: m}
}

// Get returns the cached snapshot, or nil on a miss.
func (c *SnapshotCache) Get(ctx context.Context, userID string) *rpc.UserSnapshot {
	if c.client == nil {
		return nil
	}

	data, err := c.client.Get(ctx, snapshotKeyPrefix+userID).Bytes()
	if err != nil {
		c.recordMiss()
		return nil
	}

	var snap rpc.UserSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		c.recordMiss()
		return nil
	}

	c.recordHit()
	return &snap
}

// Set stores the snapshot with a short TTL.
func (c *SnapshotCache) Set(ctx context.Context, snap *rpc.UserSnapshot) {
	if c.client == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	c.client.Set(ctx, snapshotKeyPrefix+snap.ID, data, snapshotTTL)
}

// Invalidate drops the cached snapshot after a mutation.
func (c *SnapshotCache) Invalidate(ctx context.Context, userID string) {
	if c.client == nil {
		return
	}
	c.client.Del(ctx, snapshotKeyPrefix+userID)
}

func (c *SnapshotCache) recordHit() {
	if c.metrics != nil {
		c.metrics.RecordCacheHit("user_snapshot")
	}
}

func (c *SnapshotCache) recordMiss() {
	if c.metrics != nil {
		c.metrics.RecordCacheMiss("user_snapshot")
	}
}
