package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/go-redis/redis/v7"
)

var errNoRedis = errors.New("redis not configured")

// NewRedis returns a client for addr, or nil when addr is empty.
// Callers treat a nil client as "no cache".
func NewRedis(addr, password string) *redis.Client {
	if strings.TrimSpace(addr) == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// Ping reports whether r answers. A nil client never does.
func Ping(r *redis.Client) error {
	if r == nil {
		return errNoRedis
	}
	return r.Ping().Err()
}
