package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"event-ticketing/internal/model"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("availability cache miss")

const DefaultAvailabilityTTL = 5 * time.Minute

type AvailabilityCache interface {
	// Set 寫入活動容量快照，asOf 早於已快取的快照時忽略 (使用Lua腳本確保原子性)
	Set(ctx context.Context, availability model.Availability, asOf time.Time) error
	// Get 快取不存在時回傳 ErrCacheMiss
	Get(ctx context.Context, eventID int) (model.Availability, error)
	Invalidate(ctx context.Context, eventID int) error
}

type RedisAvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAvailabilityCache(client *redis.Client, ttl time.Duration) AvailabilityCache {
	if ttl <= 0 {
		ttl = DefaultAvailabilityTTL
	}
	return &RedisAvailabilityCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *RedisAvailabilityCache) key(eventID int) string {
	return fmt.Sprintf("event:%d:availability", eventID)
}

var setIfNewerScript = redis.NewScript(`
	local key = KEYS[1]
	local as_of = tonumber(ARGV[1])
	local ttl_ms = tonumber(ARGV[2])

	-- 1. 既有快照較新則不覆蓋
	local current = redis.call('HGET', key, 'as_of')
	if current and tonumber(current) > as_of then
		return 0
	end

	-- 2. 寫入快照並更新 TTL
	redis.call('HSET', key,
		'capacity', ARGV[3],
		'outstanding', ARGV[4],
		'remaining', ARGV[5],
		'price', ARGV[6],
		'as_of', ARGV[1])
	redis.call('PEXPIRE', key, ttl_ms)
	return 1
`)

func (c *RedisAvailabilityCache) Set(ctx context.Context, availability model.Availability, asOf time.Time) error {
	price := ""
	if availability.Price != nil {
		price = strconv.FormatFloat(*availability.Price, 'f', 2, 64)
	}

	return setIfNewerScript.Run(ctx, c.client, []string{c.key(availability.EventID)},
		asOf.UnixMicro(),
		c.ttl.Milliseconds(),
		availability.Capacity,
		availability.Outstanding,
		availability.Remaining,
		price,
	).Err()
}

func (c *RedisAvailabilityCache) Get(ctx context.Context, eventID int) (model.Availability, error) {
	result, err := c.client.HGetAll(ctx, c.key(eventID)).Result()
	if err != nil {
		return model.Availability{}, err
	}

	// 檢查 key 是否存在
	if len(result) == 0 {
		return model.Availability{}, ErrCacheMiss
	}

	capacity, err := strconv.Atoi(result["capacity"])
	if err != nil {
		return model.Availability{}, fmt.Errorf("invalid capacity: %v", err)
	}

	outstanding, err := strconv.Atoi(result["outstanding"])
	if err != nil {
		return model.Availability{}, fmt.Errorf("invalid outstanding: %v", err)
	}

	remaining, err := strconv.Atoi(result["remaining"])
	if err != nil {
		return model.Availability{}, fmt.Errorf("invalid remaining: %v", err)
	}

	availability := model.Availability{
		EventID:     eventID,
		Capacity:    capacity,
		Outstanding: outstanding,
		Remaining:   remaining,
	}

	if raw := result["price"]; raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.Availability{}, fmt.Errorf("invalid price: %v", err)
		}
		availability.Price = &price
	}

	return availability, nil
}

func (c *RedisAvailabilityCache) Invalidate(ctx context.Context, eventID int) error {
	return c.client.Del(ctx, c.key(eventID)).Err()
}
