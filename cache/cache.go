// Package cache provides a time-boxed read-through cache at the
// source-query level. Merged and ranked results are never cached; only the
// raw per-source pages are, for a short TTL.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	"feedmix/feeds"
	"feedmix/models"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Connect opens a redis client and verifies the connection with exponential
// backoff, so a redis that is still starting up does not fail the service.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxInterval = 2 * time.Second
	bo.MaxElapsedTime = 15 * time.Second

	err := backoff.Retry(func() error {
		return rdb.Ping(ctx).Err()
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}

// SourceCache decorates a feeds.Source with a redis read-through cache.
// Cache failures are soft: on any redis error the fetch falls through to the
// inner source.
type SourceCache struct {
	inner feeds.Source
	rdb   *redis.Client
	ttl   time.Duration
}

func NewSourceCache(inner feeds.Source, rdb *redis.Client, ttl time.Duration) *SourceCache {
	return &SourceCache{inner: inner, rdb: rdb, ttl: ttl}
}

var _ feeds.Source = (*SourceCache)(nil)

func pageKey(kind models.SourceKind, offset, limit int, excludeIDs []string) string {
	// The exclusion set is part of the query identity; hash it so the key
	// stays bounded regardless of session length
	sorted := append([]string(nil), excludeIDs...)
	sort.Strings(sorted)

	h := fnv.New64a()
	h.Write([]byte(strings.Join(sorted, ",")))

	return fmt.Sprintf("feedmix:source:%s:%d:%d:%x", kind, offset, limit, h.Sum64())
}

func (c *SourceCache) FetchPage(ctx context.Context, kind models.SourceKind, offset int, limit int, excludeIDs []string) ([]models.ContentRecord, error) {
	key := pageKey(kind, offset, limit, excludeIDs)

	cached, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var records []models.ContentRecord
		if err := json.Unmarshal(cached, &records); err == nil {
			return records, nil
		}
		// Unreadable entry, fall through and overwrite
	} else if err != redis.Nil {
		log.WithFields(log.Fields{
			"key":   key,
			"error": err,
		}).Warn("Cache read failed, falling through to source")
	}

	records, err := c.inner.FetchPage(ctx, kind, offset, limit, excludeIDs)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(records); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			log.WithFields(log.Fields{
				"key":   key,
				"error": err,
			}).Warn("Cache write failed")
		}
	}

	return records, nil
}
