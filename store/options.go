package store

import "time"

const (
	defaultCacheKey = "google_auth:credentials"
	defaultCacheTTL = time.Minute
)

// Option configures CachedCredentials behavior.
type Option func(*StoreOptions)

// StoreOptions carries optional configuration for the credentials cache.
type StoreOptions struct {
	CacheKey string
	CacheTTL time.Duration
}

// WithCacheKey sets the redis key the credentials row is cached under.
func WithCacheKey(key string) Option {
	return func(opts *StoreOptions) {
		opts.CacheKey = key
	}
}

// WithCacheTTL bounds how stale a cached credentials row can get.
func WithCacheTTL(ttl time.Duration) Option {
	return func(opts *StoreOptions) {
		opts.CacheTTL = ttl
	}
}

func buildOptions(opts []Option) StoreOptions {
	o := StoreOptions{CacheKey: defaultCacheKey, CacheTTL: defaultCacheTTL}
	for _, opt := range opts {
		opt(&o)
	}
	if o.CacheKey == "" {
		o.CacheKey = defaultCacheKey
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = defaultCacheTTL
	}
	return o
}
