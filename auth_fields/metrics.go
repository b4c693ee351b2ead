package auth_fields

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

var authMetricsOnce sync.Once

var (
	loginTotal         *prometheus.CounterVec
	authURLTotal       *prometheus.CounterVec
	introspectionTotal *prometheus.CounterVec
	usersProvisioned   prometheus.Counter
)

func registerCountVec(c *prometheus.CounterVec) *prometheus.CounterVec {
	if err := prometheus.Register(c); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
		log.Printf("prometheus counter register failed: %v", err)
	}
	return c
}

func registerCounter(c prometheus.Counter) prometheus.Counter {
	if err := prometheus.Register(c); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(prometheus.Counter); ok {
				return existing
			}
		}
		log.Printf("prometheus counter register failed: %v", err)
	}
	return c
}

func initAuthMetrics() {
	authMetricsOnce.Do(func() {
		loginTotal = registerCountVec(prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "googleauth",
			Name:      "login_total",
			Help:      "Google logins by result code.",
		}, []string{"result"}))

		authURLTotal = registerCountVec(prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "googleauth",
			Name:      "auth_url_total",
			Help:      "Authorization URL requests by result code.",
		}, []string{"result"}))

		introspectionTotal = registerCountVec(prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "googleauth",
			Name:      "introspection_total",
			Help:      "Session token introspections by result code.",
		}, []string{"result"}))

		usersProvisioned = registerCounter(prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "googleauth",
			Name:      "users_provisioned_total",
			Help:      "Local users created on first Google login.",
		}))
	})
}

func ObserveLogin(result string) {
	initAuthMetrics()
	loginTotal.WithLabelValues(result).Inc()
}

func ObserveAuthURL(result string) {
	initAuthMetrics()
	authURLTotal.WithLabelValues(result).Inc()
}

func ObserveIntrospection(result string) {
	initAuthMetrics()
	introspectionTotal.WithLabelValues(result).Inc()
}

func ObserveProvisioned() {
	initAuthMetrics()
	usersProvisioned.Inc()
}
