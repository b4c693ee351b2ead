package store

import (
	"context"

	"github.com/Denis-Pavliha-s-p/strapi-google-auth/auth_fields"
	"github.com/go-redis/redis/v7"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// CredentialBackend is the durable side of the credentials cache.
type CredentialBackend interface {
	Find(ctx context.Context) (*auth_fields.GoogleCredential, error)
	Save(ctx context.Context, data auth_fields.GoogleCredential) error
}

// CachedCredentials reads credentials through redis. Redis failures never fail a
// request: the backend is consulted instead. A missing row is not cached.
type CachedCredentials struct {
	backend CredentialBackend
	redis   *redis.Client
	log     *logrus.Logger
	opts    StoreOptions
}

func NewCachedCredentials(backend CredentialBackend, client *redis.Client, log *logrus.Logger, opts ...Option) *CachedCredentials {
	if log == nil {
		log = logrus.New()
	}
	return &CachedCredentials{backend: backend, redis: client, log: log, opts: buildOptions(opts)}
}

func (c *CachedCredentials) Find(ctx context.Context) (*auth_fields.GoogleCredential, error) {
	if c.redis != nil {
		raw, err := c.redis.WithContext(ctx).Get(c.opts.CacheKey).Bytes()
		switch {
		case err == nil:
			var cred auth_fields.GoogleCredential
			if jerr := json.Unmarshal(raw, &cred); jerr == nil {
				return &cred, nil
			}
			c.log.WithFields(logrus.Fields{"code": "cache_decode", "key": c.opts.CacheKey}).Warn("dropping unreadable cached credentials")
		case err != redis.Nil:
			c.log.WithFields(logrus.Fields{"code": "cache_read", "error": err.Error()}).Warn("redis unavailable, reading credentials from database")
		}
	}

	cred, err := c.backend.Find(ctx)
	if err != nil || cred == nil || c.redis == nil {
		return cred, err
	}
	if raw, jerr := json.Marshal(cred); jerr == nil {
		if serr := c.redis.WithContext(ctx).Set(c.opts.CacheKey, raw, c.opts.CacheTTL).Err(); serr != nil {
			c.log.WithFields(logrus.Fields{"code": "cache_write", "error": serr.Error()}).Warn("failed to cache credentials")
		}
	}
	return cred, nil
}

// Save writes through to the backend and then evicts the cached copy.
func (c *CachedCredentials) Save(ctx context.Context, data auth_fields.GoogleCredential) error {
	if err := c.backend.Save(ctx, data); err != nil {
		return err
	}
	if c.redis != nil {
		if err := c.redis.WithContext(ctx).Del(c.opts.CacheKey).Err(); err != nil {
			c.log.WithFields(logrus.Fields{"code": "cache_evict", "error": err.Error()}).Warn("failed to evict cached credentials")
		}
	}
	return nil
}
