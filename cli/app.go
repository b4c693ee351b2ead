package main

import (
	"context"
	"net/http"

	gateway "github.com/Denis-Pavliha-s-p/strapi-google-auth/apigateway"
	"github.com/Denis-Pavliha-s-p/strapi-google-auth/auth_fields"
	"github.com/Denis-Pavliha-s-p/strapi-google-auth/consumer"
	"github.com/Denis-Pavliha-s-p/strapi-google-auth/google"
	"github.com/Denis-Pavliha-s-p/strapi-google-auth/store"
	"github.com/Denis-Pavliha-s-p/strapi-google-auth/utils"
	"github.com/go-redis/redis/v7"
	"github.com/sirupsen/logrus"
)

// app owns the process-wide resources behind the HTTP engine and the admin commands.
type app struct {
	cfg     auth_fields.AuthConfig
	logger  *logrus.Logger
	db      *store.DB
	redis   *redis.Client
	service *consumer.Service
}

func newApp(ctx context.Context, cfg auth_fields.AuthConfig, logger *logrus.Logger) (*app, error) {
	db, err := store.Open(cfg.DatabasePath, cfg.Debug)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx, db, cfg.DefaultRoleID); err != nil {
		_ = db.Close()
		return nil, err
	}

	rdb := utils.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
	if rdb != nil {
		if err := utils.Ping(rdb); err != nil {
			logger.WithError(err).WithField("addr", cfg.RedisAddr).Warn("redis unavailable, credentials are read from the database")
		}
	}

	credentials := store.NewCachedCredentials(
		store.NewCredentialStore(db.DB),
		rdb,
		logger,
		store.WithCacheTTL(cfg.CredentialsCacheTTL),
	)

	service := &consumer.Service{
		Credentials:    credentials,
		Users:          store.NewUserStore(db.DB),
		PaymentMethods: store.NewPaymentMethodStore(db.DB),
		Hasher:         auth_fields.BcryptHasher{},
		Sessions: &gateway.JWTAuth{
			Key:    []byte(cfg.JWTKey),
			TTL:    cfg.JWTTTL,
			Issuer: cfg.JWTIssuer,
		},
		Provider: &google.Client{
			HTTPClient: &http.Client{Timeout: cfg.ProviderTimeout},
		},
		Logger:        logger,
		DefaultRoleID: cfg.DefaultRoleID,
	}

	return &app{cfg: cfg, logger: logger, db: db, redis: rdb, service: service}, nil
}

// bootstrapCredentials upserts the Google credentials carried by the config, if any.
func (a *app) bootstrapCredentials(ctx context.Context) error {
	if !a.cfg.HasGoogleBootstrap() {
		return nil
	}
	_, err := a.service.SaveCredentials(ctx, consumer.CredentialsRequest{
		ClientID:     a.cfg.GoogleClientID,
		ClientSecret: a.cfg.GoogleClientSecret,
		RedirectURL:  a.cfg.GoogleRedirectURL,
		Scopes:       consumer.ScopeList(a.cfg.GoogleScopes),
	})
	if err != nil {
		return err
	}
	a.logger.WithField("client_id", a.cfg.GoogleClientID).Info("google credentials bootstrapped from config")
	return nil
}

func (a *app) Close() error {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.WithError(err).Warn("redis close failed")
		}
	}
	return a.db.Close()
}
