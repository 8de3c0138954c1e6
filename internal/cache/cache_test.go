package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
)

func TestAvailabilityKey(t *testing.T) {
	day := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "availability:3:7:2026-10-20:12:v0.0", AvailabilityKey(3, 7, 12, day, Version{}))
	assert.Equal(t, "availability:3:7:2026-10-20:12:v2.5", AvailabilityKey(3, 7, 12, day, Version{Staff: 2, Day: 5}))
	assert.Equal(t, "availability:ver:3:7", staffVersionKey(3, 7))
	assert.Equal(t, "availability:ver:3:7:2026-10-20", dayVersionKey(3, 7, day))
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		raw  any
		want int64
	}{
		{nil, 0},
		{"0", 0},
		{"17", 17},
		{"garbage", 0},
		{int64(4), 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseVersion(tt.raw), "%v", tt.raw)
	}
}

func TestRedisUnavailableDisablesKey(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewRedisAvailability(client, time.Minute)
	ctx := context.Background()
	day := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)

	key, ok := c.Key(ctx, 3, 7, 12, day)
	assert.False(t, ok)
	assert.Empty(t, key)

	var dst map[string]any
	assert.False(t, c.Get(ctx, "k", &dst))
	c.InvalidateDay(ctx, 3, 7, day)
}

func TestNoop(t *testing.T) {
	var c Availability = Noop{}
	var dst map[string]any

	_, ok := c.Key(context.Background(), 1, 2, 3, time.Now())
	assert.False(t, ok)

	c.Save(context.Background(), "k", map[string]any{"a": 1})
	assert.False(t, c.Get(context.Background(), "k", &dst))
	assert.Nil(t, dst)
}
