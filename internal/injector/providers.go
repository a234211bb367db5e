package injector

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/zeusync/behave/internal/metrics"
	"github.com/zeusync/behave/internal/observability/log"
	"github.com/zeusync/behave/pkg/behavior/loader"
)

// App bundles the process-wide services of the btrun command.
type App struct {
	Log      *zap.Logger
	Registry *loader.Registry
	Metrics  *prometheus.Registry
	Observer *metrics.Observer
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvidePrometheus,
	ProvideObserver,
	loader.DefaultRegistry,
	wire.Struct(new(App), "*"),
)

func ProvideLogger(cfg log.Config) (*zap.Logger, error) {
	return log.Build(cfg)
}

func ProvidePrometheus() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func ProvideObserver(reg *prometheus.Registry) (*metrics.Observer, error) {
	return metrics.New(reg)
}
