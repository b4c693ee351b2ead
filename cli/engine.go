package main

import (
	"net/http"
	"sync"

	gateway "github.com/Denis-Pavliha-s-p/strapi-google-auth/apigateway"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
)

var (
	promOnce sync.Once
	promMW   *ginprometheus.Prometheus
)

func prometheusMiddleware() *ginprometheus.Prometheus {
	promOnce.Do(func() {
		promMW = ginprometheus.NewPrometheus("googleauth")
	})
	return promMW
}

// newEngine builds the HTTP engine: middleware, /metrics, /healthz and the sign-in routes.
func newEngine(a *app, sampling gateway.LogSamplingConfig) *gin.Engine {
	if !a.cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	route := gin.New()
	route.Use(gin.Recovery())
	route.Use(gateway.RequestID())
	route.Use(gateway.RequestLogger(a.logger, sampling))
	route.Use(gateway.Instrumentation())
	prometheusMiddleware().Use(route)

	route.GET("/healthz", func(c *gin.Context) {
		if err := a.db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	a.service.RegisterRoutes(route, gateway.RequireAdmin(gateway.AdminAuthConfig{
		Key:      a.cfg.AdminKey,
		User:     a.cfg.AdminUser,
		Password: a.cfg.AdminPassword,
		Debug:    a.cfg.Debug,
	}))
	return route
}
