package monitor

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/turtacn/Lulo/pkg/logger"
)

var (
	regOK atomic.Bool

	// ProbeTotal counts health probe calls, partitioned by operation and result.
	ProbeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lulo_probe_total",
		Help: "Total number of runtime health probes",
	}, []string{"op", "result"})
	// SpawnTotal counts runtime spawn attempts, partitioned by result.
	SpawnTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lulo_spawn_total",
		Help: "Total number of runtime serve spawns",
	}, []string{"result"})
	// HealthWaitDuration tracks the time from spawn until the runtime answered.
	HealthWaitDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "lulo_health_wait_duration_seconds",
		Help:    "Time taken for a spawned runtime to become healthy",
		Buckets: []float64{0.5, 1, 2, 3, 5, 8, 12, 15, 20},
	})
	// PullDuration tracks model installs, partitioned by result.
	PullDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lulo_pull_duration_seconds",
		Help:    "Time taken to pull and alias a model",
		Buckets: prometheus.ExponentialBuckets(1, 3, 9),
	}, []string{"result"})
	// StageTransitions counts orchestrator state transitions.
	StageTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lulo_stage_transitions_total",
		Help: "Number of startup stage transitions",
	}, []string{"from", "to"})
	// RuntimeUp is 1 while a supervised runtime process is alive.
	RuntimeUp = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lulo_runtime_supervised_up",
		Help: "Whether a supervised runtime process is running",
	})
)

// Register registers all collectors with r. Repeated calls are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{ProbeTotal, SpawnTotal, HealthWaitDuration, PullDuration, StageTransitions, RuntimeUp}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// InitMetrics registers the collectors with the default registry and, when
// addr is non-empty, starts an HTTP server exposing /metrics on it.
func InitMetrics(addr string) error {
	if err := Register(prometheus.DefaultRegisterer); err != nil {
		return err
	}
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		logger.Log.Info("Metrics server starting", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Log.Error("Metrics server failed", "err", err)
		}
	}()
	return nil
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "fail"
}

// ObserveProbe records one probe call. Recording is a no-op until Register.
func ObserveProbe(op string, ok bool) {
	if regOK.Load() {
		ProbeTotal.WithLabelValues(op, result(ok)).Inc()
	}
}

func ObserveSpawn(ok bool) {
	if regOK.Load() {
		SpawnTotal.WithLabelValues(result(ok)).Inc()
	}
}

func ObserveHealthWait(seconds float64) {
	if regOK.Load() {
		HealthWaitDuration.Observe(seconds)
	}
}

func ObservePull(seconds float64, ok bool) {
	if regOK.Load() {
		PullDuration.WithLabelValues(result(ok)).Observe(seconds)
	}
}

func RecordTransition(from, to string) {
	if regOK.Load() {
		StageTransitions.WithLabelValues(from, to).Inc()
	}
}

func SetRuntimeUp(up bool) {
	if regOK.Load() {
		if up {
			RuntimeUp.Set(1)
		} else {
			RuntimeUp.Set(0)
		}
	}
}

// Personal.AI order the ending
