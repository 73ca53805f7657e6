package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type prometheusObserver struct {
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	zoneChecks  *prometheus.CounterVec
}

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "multizone_flag_cache_hits_total",
		Help: "Flag lookups served from the in-process cache",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "multizone_flag_cache_misses_total",
		Help: "Flag lookups that fell through to the datastore",
	})
	zoneChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "multizone_zone_checks_total",
		Help: "Zone health probes by resulting status",
	}, []string{"status"})
)

func NewPrometheusObserver() Observer {
	return &prometheusObserver{
		cacheHits:   cacheHits,
		cacheMisses: cacheMisses,
		zoneChecks:  zoneChecks,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func (p *prometheusObserver) FlagCacheHit() {
	p.cacheHits.Inc()
}

func (p *prometheusObserver) FlagCacheMiss() {
	p.cacheMisses.Inc()
}

func (p *prometheusObserver) ZoneChecked(status string) {
	p.zoneChecks.WithLabelValues(status).Inc()
}
