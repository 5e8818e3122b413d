package recorder

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// SeenKeyPrefix namespaces history hashes: <prefix>:<symbol>.
const SeenKeyPrefix = "alphascanner:seen"

// RedisHistory stores seen-before state in Redis hashes. When Redis is
// unreachable it keeps working against an in-memory fallback.
type RedisHistory struct {
	client    *redis.Client
	ttl       time.Duration
	fallback  *MemoryHistory
	available atomic.Bool
}

// NewRedisHistory pings the client once. A nil client runs memory-only.
func NewRedisHistory(client *redis.Client, ttl time.Duration) *RedisHistory {
	h := &RedisHistory{client: client, ttl: ttl, fallback: NewMemoryHistory()}
	if client == nil {
		log.Info().Msg("no redis client, seen-before history kept in memory")
		return h
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unavailable at startup, using in-memory history")
		return h
	}
	h.available.Store(true)
	log.Info().Msg("redis history connected")
	return h
}

func seenKey(symbol string) string { return SeenKeyPrefix + ":" + symbol }

func (h *RedisHistory) LastSeen(ctx context.Context, symbol string) (SeenRecord, bool, error) {
	if !h.available.Load() {
		return h.fallback.LastSeen(ctx, symbol)
	}
	fields, err := h.client.HGetAll(ctx, seenKey(symbol)).Result()
	if err != nil {
		if ctx.Err() != nil {
			return SeenRecord{}, false, fmt.Errorf("redis hgetall %s: %w", symbol, err)
		}
		h.degrade(err)
		return h.fallback.LastSeen(ctx, symbol)
	}
	if len(fields) == 0 {
		return SeenRecord{}, false, nil
	}
	rec := SeenRecord{Symbol: symbol}
	rec.FirstSeen = unixField(fields["first_seen"])
	rec.LastSeen = unixField(fields["last_seen"])
	rec.LastScore, _ = strconv.Atoi(fields["last_score"])
	rec.TimesShown, _ = strconv.Atoi(fields["times"])
	return rec, true, nil
}

func (h *RedisHistory) MarkSeen(ctx context.Context, symbol string, at time.Time, score int) error {
	if err := h.fallback.MarkSeen(ctx, symbol, at, score); err != nil {
		return err
	}
	if !h.available.Load() {
		return nil
	}
	key := seenKey(symbol)
	_, err := h.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSetNX(ctx, key, "first_seen", at.Unix())
		p.HSet(ctx, key, "last_seen", at.Unix(), "last_score", score)
		p.HIncrBy(ctx, key, "times", 1)
		if h.ttl > 0 {
			p.Expire(ctx, key, h.ttl)
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("redis mark seen %s: %w", symbol, err)
		}
		h.degrade(err)
	}
	return nil
}

// degrade switches to the in-memory fallback for the rest of the process.
// Every MarkSeen also lands in the fallback, so it already holds this run's marks.
func (h *RedisHistory) degrade(err error) {
	if h.available.CompareAndSwap(true, false) {
		log.Warn().Err(err).Msg("redis call failed, seen-before history switched to memory")
	}
}

func unixField(s string) time.Time {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n == 0 {
		return time.Time{}
	}
	return time.Unix(n, 0)
}
