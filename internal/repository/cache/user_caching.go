// Package cache is a read-through Redis layer in front of a UserRepository.
// Redis failures are logged and never returned: the wrapped repository is always the fallback.
package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/maxviazov/users-admin/internal/model"
	"github.com/maxviazov/users-admin/internal/repository"
)

const (
	keyPrefix     = "users:"
	pageKeyPrefix = keyPrefix + "page:"
	idKeyPrefix   = keyPrefix + "id:"

	scanBatch = 100
)

// UserCaching caches pages under the same (page, pageSize) key the list view queries with,
// and single records by id. Update drops the record and every cached page.
type UserCaching struct {
	repository.UserRepository

	Redis *redis.Client
	TTL   time.Duration

	log zerolog.Logger
}

func NewUserCaching(inner repository.UserRepository, rdb *redis.Client, ttl time.Duration, logger zerolog.Logger) *UserCaching {
	l := logger.With().Str("module", "repository").Str("component", "user_cache").Logger()
	return &UserCaching{UserRepository: inner, Redis: rdb, TTL: ttl, log: l}
}

var _ repository.UserRepository = (*UserCaching)(nil)

func (c *UserCaching) List(ctx context.Context, p repository.Page) (repository.PageResult[model.User], error) {
	key := pageKey(p)

	var cached repository.PageResult[model.User]
	if c.get(ctx, key, &cached) {
		return cached, nil
	}

	res, err := c.UserRepository.List(ctx, p)
	if err != nil {
		return res, err
	}
	c.set(ctx, key, res)
	return res, nil
}

func (c *UserCaching) GetByID(ctx context.Context, id int64) (model.User, error) {
	key := idKey(id)

	var cached model.User
	if c.get(ctx, key, &cached) {
		return cached, nil
	}

	u, err := c.UserRepository.GetByID(ctx, id)
	if err != nil {
		return u, err
	}
	c.set(ctx, key, u)
	return u, nil
}

func (c *UserCaching) Update(ctx context.Context, id int64, up model.UserUpdate) (model.User, error) {
	u, err := c.UserRepository.Update(ctx, id, up)
	if err != nil {
		return u, err
	}
	c.invalidate(ctx, id)
	return u, nil
}

// get reports whether key was found and decoded into dst.
func (c *UserCaching) get(ctx context.Context, key string, dst any) bool {
	val, err := c.Redis.Get(ctx, key).Bytes()
	switch {
	case err == redis.Nil:
		return false
	case err != nil:
		c.log.Error().Err(err).Str("key", key).Msg("can't read from redis")
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		c.log.Error().Err(err).Str("key", key).Msg("can't decode cached value")
		return false
	}
	return true
}

func (c *UserCaching) set(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		c.log.Error().Err(err).Str("key", key).Msg("can't encode value for cache")
		return
	}
	if err := c.Redis.Set(ctx, key, b, c.TTL).Err(); err != nil {
		c.log.Error().Err(err).Str("key", key).Msg("can't write to redis")
	}
}

func (c *UserCaching) invalidate(ctx context.Context, id int64) {
	keys := []string{idKey(id)}

	iter := c.Redis.Scan(ctx, 0, pageKeyPrefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Error().Err(err).Msg("can't scan cached pages")
	}

	if err := c.Redis.Del(ctx, keys...).Err(); err != nil {
		c.log.Error().Err(err).Int64("user_id", id).Int("keys", len(keys)).Msg("can't invalidate cache")
	}
}

func pageKey(p repository.Page) string {
	return pageKeyPrefix + strconv.Itoa(p.Number) + ":" + strconv.Itoa(p.Size)
}

func idKey(id int64) string {
	return idKeyPrefix + strconv.FormatInt(id, 10)
}
