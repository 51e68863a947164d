package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "pravobot"
)

var (
	lookupDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}

	// Registry lookup metrics
	LookupDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "registry_lookup_duration_seconds",
		Help:      "Time taken for a business-registry lookup to complete.",
		Buckets:   lookupDurationBuckets,
	}, []string{"result"})

	LookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registry_lookups_total",
		Help:      "Count of business-registry lookups.",
	}, []string{"result"})

	// Router metrics
	RoutesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scenario_routes_total",
		Help:      "Count of scenario classifications by outcome phase.",
	}, []string{"scenario", "phase"})

	// Contract analysis metrics
	RiskAnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contract_risk_analyses_total",
		Help:      "Count of contract risk-table generations.",
	}, []string{"mode"})

	// Credential metrics
	TokenRefreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "oauth_token_refreshes_total",
		Help:      "Count of OAuth token refresh attempts.",
	}, []string{"result"})

	// Webhook metrics
	WebhookUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_updates_total",
		Help:      "Count of inbound webhook updates.",
	}, []string{"kind", "status"})
)
