package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/salon-booking-service/internal/domain"
	"github.com/m04kA/salon-booking-service/pkg/metrics"
)

const keyPrefix = "schedule"

// Cache read-through кеш снимков расписания в Redis
//
// Ключ снимка содержит версию расписания мастера. Invalidate увеличивает версию,
// после чего старые ключи перестают читаться и истекают по TTL.
// Ошибки Redis не прерывают запрос: данные читаются из источника.
type Cache struct {
	rdb     *redis.Client
	source  SnapshotSource
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  Logger
}

// NewCache создает кеш; m может быть nil
func NewCache(rdb *redis.Client, source SnapshotSource, ttl time.Duration, m *metrics.Metrics, logger Logger) *Cache {
	return &Cache{
		rdb:     rdb,
		source:  source,
		ttl:     ttl,
		metrics: m,
		logger:  logger,
	}
}

// GetSnapshot возвращает снимок из кеша или загружает его из источника
func (c *Cache) GetSnapshot(ctx context.Context, staffID int64, date time.Time) (*domain.ScheduleSnapshot, error) {
	version, err := c.version(ctx, staffID)
	if err != nil {
		c.observe("error")
		c.logger.Warn("ScheduleCache: failed to read version for staff=%d: %v", staffID, err)
		return c.source.GetSnapshot(ctx, staffID, date)
	}

	key := snapshotKey(staffID, version, date)

	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var snapshot domain.ScheduleSnapshot
		if err := json.Unmarshal(data, &snapshot); err == nil {
			c.observe("hit")
			return &snapshot, nil
		}
		c.logger.Warn("ScheduleCache: corrupted entry %s, reloading", key)
	case errors.Is(err, redis.Nil):
	default:
		c.observe("error")
		c.logger.Warn("ScheduleCache: failed to read %s: %v", key, err)
		return c.source.GetSnapshot(ctx, staffID, date)
	}

	c.observe("miss")

	snapshot, err := c.source.GetSnapshot(ctx, staffID, date)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		c.logger.Warn("ScheduleCache: failed to encode snapshot for staff=%d: %v", staffID, err)
		return snapshot, nil
	}

	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("ScheduleCache: failed to write %s: %v", key, err)
	}

	return snapshot, nil
}

// Invalidate делает недействительными все закешированные снимки мастера
func (c *Cache) Invalidate(ctx context.Context, staffID int64) error {
	if err := c.rdb.Incr(ctx, versionKey(staffID)).Err(); err != nil {
		return fmt.Errorf("schedule.cache: invalidate staff=%d: %w", staffID, err)
	}
	return nil
}

func (c *Cache) version(ctx context.Context, staffID int64) (int64, error) {
	v, err := c.rdb.Get(ctx, versionKey(staffID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *Cache) observe(result string) {
	if c.metrics == nil {
		return
	}
	c.metrics.ScheduleCacheRequests.WithLabelValues(result).Inc()
}

func versionKey(staffID int64) string {
	return fmt.Sprintf("%s:version:%d", keyPrefix, staffID)
}

func snapshotKey(staffID, version int64, date time.Time) string {
	return fmt.Sprintf("%s:%d:v%d:%s", keyPrefix, staffID, version, date.Format(domain.DateFormat))
}
