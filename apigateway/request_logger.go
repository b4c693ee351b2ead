package gateway

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type LogSamplingConfig struct {
	Tick  time.Duration
	After time.Duration
}

type logSampler struct {
	tick  time.Duration
	after time.Duration
	next  time.Time
	mu    sync.Mutex
	now   func() time.Time
}

func newLogSampler(cfg LogSamplingConfig) *logSampler {
	return &logSampler{tick: cfg.Tick, after: cfg.After, now: time.Now}
}

// Allow lets slow requests through and otherwise at most one request per tick.
func (s *logSampler) Allow(duration time.Duration) bool {
	if s.after > 0 && duration >= s.after {
		return true
	}
	if s.tick <= 0 {
		return true
	}
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next.IsZero() || now.After(s.next) {
		s.next = now.Add(s.tick)
		return true
	}
	return false
}

// RequestLogger logs every failed request and a sample of the rest.
func RequestLogger(logger *logrus.Logger, cfg LogSamplingConfig) gin.HandlerFunc {
	sampler := newLogSampler(cfg)
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		status := c.Writer.Status()
		failed := status >= http.StatusInternalServerError || len(c.Errors) > 0
		if !failed && !sampler.Allow(duration) {
			return
		}

		routePath := c.FullPath()
		if routePath == "" {
			routePath = c.Request.URL.Path
		}
		entry := logger.WithFields(logrus.Fields{
			"request_id":  RequestIDFromCtx(c),
			"method":      c.Request.Method,
			"path":        routePath,
			"status":      status,
			"duration_ms": duration.Milliseconds(),
			"bytes_in":    c.Request.ContentLength,
			"bytes_out":   c.Writer.Size(),
			"ip":          c.ClientIP(),
		})
		if userID, ok := c.Get(userIDKey); ok {
			entry = entry.WithField("user_id", userID)
		}
		if userAgent := c.GetHeader("User-Agent"); userAgent != "" {
			entry = entry.WithField("user_agent", userAgent)
		}
		if len(c.Errors) > 0 {
			entry = entry.WithField("error", c.Errors.String())
		}

		switch {
		case failed:
			entry.Error("http_request")
		case status >= http.StatusBadRequest:
			entry.Warn("http_request")
		default:
			entry.Info("http_request")
		}
	}
}
