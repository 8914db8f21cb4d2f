// Package cache 提供基于 Redis 的推荐缓存，可替代 postgres 表
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"oss-matchmaker/internal/common"
	"oss-matchmaker/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "matchmaker:recommendations:"

// RedisCache 实现了 port.RecommendationCache 接口。
// 每个用户一个 key，值是整批条目的 JSON
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache 创建 Redis 缓存，ttl 作为 key 的过期时间
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// NewClient 按地址创建 Redis 客户端
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

func key(userID string) string {
	return keyPrefix + userID
}

// Lookup 返回 now 时刻未过期的条目，分数降序，同分保持写入顺序
func (c *RedisCache) Lookup(ctx context.Context, userID string, now time.Time, limit int) ([]domain.CacheEntry, error) {
	raw, err := c.client.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.CacheEntry{}, nil
	}
	if err != nil {
		return nil, common.WrapError(common.ErrCodeDatabase, "读取推荐缓存失败", err)
	}

	var stored []domain.CacheEntry
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, common.WrapError(common.ErrCodeDatabase, "推荐缓存格式错误", err)
	}

	entries := make([]domain.CacheEntry, 0, len(stored))
	for _, e := range stored {
		if e.ExpiresAt.After(now) {
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].MatchScore > entries[j].MatchScore
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Replace 在一个 MULTI 里删除旧值并写入新值
func (c *RedisCache) Replace(ctx context.Context, userID string, entries []domain.CacheEntry) error {
	var payload []byte
	if len(entries) > 0 {
		var err error
		payload, err = json.Marshal(entries)
		if err != nil {
			return common.WrapError(common.ErrCodeCachePersist, "序列化推荐缓存失败", err)
		}
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key(userID))
		if payload != nil {
			pipe.Set(ctx, key(userID), payload, c.ttl)
		}
		return nil
	})
	if err != nil {
		return common.WrapError(common.ErrCodeCachePersist, fmt.Sprintf("写入推荐缓存失败: %s", userID), err)
	}
	return nil
}

// Ping 检查连接
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
