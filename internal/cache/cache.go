package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// Availability caches resolved availability per staff, day and service.
// Every method is best effort: failures are logged, never returned.
//
// Entry keys carry the staff and day versions current when Key was
// called. Invalidation bumps a version instead of deleting entries, so a
// result computed before a write and saved after it lands on a key that
// is never read again.
type Availability interface {
	// Key must be resolved before the result is computed. ok is false when
	// the cache cannot be used for this request.
	Key(ctx context.Context, accountID, staffID, serviceID uint, day time.Time) (key string, ok bool)
	Get(ctx context.Context, key string, dst any) bool
	Save(ctx context.Context, key string, value any)
	InvalidateDay(ctx context.Context, accountID, staffID uint, day time.Time)
	InvalidateStaff(ctx context.Context, accountID, staffID uint)
}

// Version is the generation of one staff member's entries (Staff) and of
// one of their days (Day).
type Version struct {
	Staff int64
	Day   int64
}

// AvailabilityKey builds availability:{account}:{staff}:{yyyy-mm-dd}:{service}:v{staff}.{day}.
// day must already be in the account's location.
func AvailabilityKey(accountID, staffID, serviceID uint, day time.Time, v Version) string {
	return fmt.Sprintf("availability:%d:%d:%s:%d:v%d.%d",
		accountID, staffID, day.Format("2006-01-02"), serviceID, v.Staff, v.Day)
}

func staffVersionKey(accountID, staffID uint) string {
	return fmt.Sprintf("availability:ver:%d:%d", accountID, staffID)
}

func dayVersionKey(accountID, staffID uint, day time.Time) string {
	return fmt.Sprintf("%s:%s", staffVersionKey(accountID, staffID), day.Format("2006-01-02"))
}

type redisAvailability struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAvailability(client *redis.Client, ttl time.Duration) Availability {
	return &redisAvailability{client: client, ttl: ttl}
}

func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// versionTTL outlives every entry written under an older version, so a
// version key never expires back to a value whose entries are still live.
func (c *redisAvailability) versionTTL() time.Duration {
	return c.ttl + 24*time.Hour
}

func (c *redisAvailability) Key(ctx context.Context, accountID, staffID, serviceID uint, day time.Time) (string, bool) {
	vals, err := c.client.MGet(ctx,
		staffVersionKey(accountID, staffID),
		dayVersionKey(accountID, staffID, day),
	).Result()
	if err != nil {
		log.Warn().Err(err).Uint("staffId", staffID).Msg("availability cache version read failed")
		return "", false
	}

	v := Version{Staff: parseVersion(vals[0]), Day: parseVersion(vals[1])}
	return AvailabilityKey(accountID, staffID, serviceID, day, v), true
}

// parseVersion reads one MGET reply; a missing key is version 0.
func parseVersion(raw any) int64 {
	s, ok := raw.(string)
	if !ok {
		return 0
	}
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func (c *redisAvailability) Get(ctx context.Context, key string, dst any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("availability cache get failed")
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("availability cache entry unreadable")
		return false
	}
	return true
}

func (c *redisAvailability) Save(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("availability cache marshal failed")
		return
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("availability cache save failed")
	}
}

func (c *redisAvailability) InvalidateDay(ctx context.Context, accountID, staffID uint, day time.Time) {
	c.bump(ctx, dayVersionKey(accountID, staffID, day))
}

func (c *redisAvailability) InvalidateStaff(ctx context.Context, accountID, staffID uint) {
	c.bump(ctx, staffVersionKey(accountID, staffID))
}

func (c *redisAvailability) bump(ctx context.Context, versionKey string) {
	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, versionKey)
	pipe.Expire(ctx, versionKey, c.versionTTL())
	if _, err := pipe.Exec(ctx); err != nil {
		log.Error().Err(err).Str("key", versionKey).Msg("availability cache invalidation failed")
	}
}

// Noop is used when no Redis address is configured.
type Noop struct{}

func (Noop) Key(context.Context, uint, uint, uint, time.Time) (string, bool) { return "", false }
func (Noop) Get(context.Context, string, any) bool { return false }
func (Noop) Save(context.Context, string, any) {}
func (Noop) InvalidateDay(context.Context, uint, uint, time.Time) {}
func (Noop) InvalidateStaff(context.Context, uint, uint) {}
