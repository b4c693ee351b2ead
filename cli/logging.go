package main

import (
	"os"
	"time"

	gateway "github.com/Denis-Pavliha-s-p/strapi-google-auth/apigateway"
	"github.com/Denis-Pavliha-s-p/strapi-google-auth/auth_fields"
	"github.com/sirupsen/logrus"
)

const (
	defaultLogSamplingTick  = 5 * time.Second
	defaultLogSamplingAfter = 2 * time.Second
)

var logrusLogger = logrus.New()

// configureLogger sets the level and JSON output on logger and returns the request
// log sampling derived from cfg.
func configureLogger(logger *logrus.Logger, cfg auth_fields.AuthConfig) gateway.LogSamplingConfig {
	logger.Out = os.Stderr
	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetReportCaller(true)
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetReportCaller(false)
	}
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
	})

	return gateway.LogSamplingConfig{
		Tick:  durationFromMs(cfg.LogSamplingTickMs, defaultLogSamplingTick),
		After: durationFromMs(cfg.LogSamplingAfterMs, defaultLogSamplingAfter),
	}
}

func durationFromMs(ms int, def time.Duration) time.Duration {
	if ms <= 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}
