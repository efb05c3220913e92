package cache

import (
	"strings"

	"github.com/redis/go-redis/v9"
)

// NewRedis builds a client for addr in host[:port] form; the port defaults to 6379.
func NewRedis(addr, user, password string, db int) (*redis.Client, func() error) {
	if !strings.Contains(addr, ":") {
		addr = addr + ":6379"
	}

	r := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: user,
		Password: password,
		DB:       db,
	})

	return r, r.Close
}
