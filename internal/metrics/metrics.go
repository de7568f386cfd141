package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus metrics for the account service. Defined in a standalone
// package to avoid import cycles between the oauth client and HTTP
// packages.

var (
	LoginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "accounts_logins_total",
		Help: "Logins completados, por provider",
	}, []string{"provider"})

	SocialCallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "accounts_social_callbacks_total",
		Help: "Callbacks de social login por provider y resultado",
	}, []string{"provider", "result"})

	RegistrationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "accounts_registrations_total",
		Help: "Registros por password completados",
	})

	providerRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "accounts_provider_request_seconds",
		Help:    "Latencia de llamadas salientes a providers (token, profile)",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
	}, []string{"provider", "call"})
)

// ObserveProviderRequest records one outbound provider call.
func ObserveProviderRequest(provider, call string, d time.Duration) {
	providerRequestDuration.WithLabelValues(provider, call).Observe(d.Seconds())
}

// Register registers all metrics on the given registry (or the default
// if nil). AlreadyRegistered is tolerated so tests can re-wire.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{
		LoginsTotal,
		SocialCallbacksTotal,
		RegistrationsTotal,
		providerRequestDuration,
	} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
