package keyvalue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/FelixBrandt/StackDroid/internal/pkg/env"
)

// ErrNotFound is returned when a key or hash field does not exist.
// Callers must treat it as "no value", not as an infrastructure failure.
var ErrNotFound = errors.New("keyvalue: not found")

const (
	opTimeout   = 3 * time.Second
	maxAttempts = 3
	retryDelay  = 100 * time.Millisecond
)

var client *redis.Client

// decrIfPositive decrements a hash field by one only when its current value
// is greater than zero. Running as a script makes check-and-decrement a
// single atomic step on the server.
var decrIfPositive = redis.NewScript(`
local v = tonumber(redis.call('HGET', KEYS[1], ARGV[1]) or '0')
if v > 0 then
	redis.call('HINCRBY', KEYS[1], ARGV[1], -1)
	return 1
end
return 0
`)

// SetupStore initializes the connection to the Redis store.
func SetupStore() {
	host := env.GetEnv("REDIS_HOST", "localhost")
	port := env.GetEnv("REDIS_PORT", "6379")
	password := env.GetEnv("REDIS_PASSWORD", "")
	db, err := strconv.Atoi(env.GetEnv("REDIS_DB", "0"))
	if err != nil {
		db = 0
	}

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		log.Printf("Warning: Could not connect to Redis store: %v", err)
	} else {
		log.Printf("Successfully connected to Redis store: %s", pong)
	}
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	if client == nil {
		SetupStore()
	}
	return client
}

// withRetry runs op with a bounded per-attempt timeout and retries transient
// failures. A missing key (redis.Nil) is never retried.
func withRetry(ctx context.Context, op func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		opCtx, cancel := context.WithTimeout(ctx, opTimeout)
		err = op(opCtx)
		cancel()
		if err == nil || errors.Is(err, redis.Nil) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
		if attempt < maxAttempts {
			time.Sleep(time.Duration(attempt) * retryDelay)
		}
	}
	return err
}

// Get retrieves a string value by key.
func Get(ctx context.Context, key string) (string, error) {
	var val string
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		val, err = GetClient().Get(ctx, key).Result()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return val, err
}

// GetJSON retrieves a JSON value by key and unmarshals it into dest.
func GetJSON(ctx context.Context, key string, dest interface{}) error {
	raw, err := Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), dest)
}

// Set stores a value without expiration.
func Set(ctx context.Context, key string, value interface{}) error {
	return SetWithTTL(ctx, key, value, 0)
}

// SetWithTTL stores a value with the given expiration time.
func SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return withRetry(ctx, func(ctx context.Context) error {
		return GetClient().Set(ctx, key, value, ttl).Err()
	})
}

// SetJSON marshals value as JSON and stores it under key.
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return SetWithTTL(ctx, key, data, ttl)
}

// SetNX stores a value only if the key does not exist yet and reports
// whether this call created it.
func SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	var created bool
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		created, err = GetClient().SetNX(ctx, key, value, ttl).Result()
		return err
	})
	return created, err
}

// Delete removes a value by key.
func Delete(ctx context.Context, key string) error {
	return withRetry(ctx, func(ctx context.Context) error {
		return GetClient().Del(ctx, key).Err()
	})
}

// HGet retrieves a hash field.
func HGet(ctx context.Context, key, field string) (string, error) {
	var val string
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		val, err = GetClient().HGet(ctx, key, field).Result()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return val, err
}

// HGetAll retrieves all fields of a hash. A missing key yields an empty map.
func HGetAll(ctx context.Context, key string) (map[string]string, error) {
	var val map[string]string
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		val, err = GetClient().HGetAll(ctx, key).Result()
		return err
	})
	return val, err
}

// HIncrBy increments a hash field by delta and returns the new value.
func HIncrBy(ctx context.Context, key, field string, delta int64) (int64, error) {
	var val int64
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		val, err = GetClient().HIncrBy(ctx, key, field, delta).Result()
		return err
	})
	return val, err
}

// HDecrIfPositive atomically decrements a hash field by one when it is
// positive. Returns true when a unit was taken.
func HDecrIfPositive(ctx context.Context, key, field string) (bool, error) {
	var taken bool
	err := withRetry(ctx, func(ctx context.Context) error {
		res, err := decrIfPositive.Run(ctx, GetClient(), []string{key}, field).Int()
		if err != nil {
			return err
		}
		taken = res == 1
		return nil
	})
	return taken, err
}

// SAdd adds members to a set.
func SAdd(ctx context.Context, key string, members ...interface{}) error {
	return withRetry(ctx, func(ctx context.Context) error {
		return GetClient().SAdd(ctx, key, members...).Err()
	})
}

// SMembers returns all members of a set. A missing key yields an empty slice.
func SMembers(ctx context.Context, key string) ([]string, error) {
	var members []string
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		members, err = GetClient().SMembers(ctx, key).Result()
		return err
	})
	return members, err
}

// SCard returns the number of members in a set.
func SCard(ctx context.Context, key string) (int64, error) {
	var n int64
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		n, err = GetClient().SCard(ctx, key).Result()
		return err
	})
	return n, err
}

// IncrWithTTL increments a plain counter and applies ttl on first increment.
func IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	var val int64
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		val, err = GetClient().Incr(ctx, key).Result()
		if err != nil {
			return err
		}
		if val == 1 && ttl > 0 {
			return GetClient().Expire(ctx, key, ttl).Err()
		}
		return nil
	})
	return val, err
}

// RPushWithTTL appends a value to a list and refreshes the list ttl.
func RPushWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return withRetry(ctx, func(ctx context.Context) error {
		if err := GetClient().RPush(ctx, key, value).Err(); err != nil {
			return err
		}
		if ttl > 0 {
			return GetClient().Expire(ctx, key, ttl).Err()
		}
		return nil
	})
}

// LRange returns list entries between start and stop.
func LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	var entries []string
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		entries, err = GetClient().LRange(ctx, key, start, stop).Result()
		return err
	})
	return entries, err
}
