// Package metrics exports tree steps as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/zeusync/behave/pkg/behavior"
)

// Observer counts the steps of every observed tree by outcome and records
// how long each step took.
type Observer struct {
	ticks    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ behavior.Observer = (*Observer)(nil)

// New creates an Observer and registers its collectors with reg.
func New(reg prometheus.Registerer) (*Observer, error) {
	o := &Observer{
		ticks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "behave_ticks_total",
				Help: "Number of tree steps by final root status.",
			},
			[]string{"tree", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "behave_tick_duration_seconds",
				Help:    "Duration of a single tree step.",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"tree"},
		),
	}
	for _, c := range []prometheus.Collector{o.ticks, o.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *Observer) Observe(rec behavior.Record) {
	o.ticks.WithLabelValues(rec.Name, rec.Status.String()).Inc()
	o.duration.WithLabelValues(rec.Name).Observe(rec.Duration.Seconds())
}

// Serve exposes the metrics of g on addr under /metrics until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, log *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("metrics listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
