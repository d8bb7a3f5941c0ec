// Package exchange connects to one cryptocurrency exchange's websocket
// feed at a time and decodes its frames into domain.Summary values.
package exchange

import (
	"context"

	"github.com/DimaJoyti/bookwatch/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Adapter is the capability every exchange feed implements: run until
// the upstream closes, a connect error occurs, or shutdown fires.
// New exchanges are added by providing another implementation; nothing
// downstream of the output channel is aware of which exchange produced
// a Summary.
//
// Reconnection on disconnect is intentionally not part of this
// contract: adapters are treated as externally restartable.
type Adapter interface {
	Run(ctx context.Context, out chan<- domain.Summary) error
}

// Config parameterizes an adapter.
type Config struct {
	Symbol domain.Symbol
	Depth  int
	Logger *zap.Logger
}

// Metrics are the Prometheus instruments every adapter reports through,
// labeled by the adapter's own exchange tag.
type Metrics struct {
	FramesTotal *prometheus.CounterVec
	ErrorsTotal *prometheus.CounterVec
}

// NewMetrics registers the adapter instrument set against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FramesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookwatch_adapter_frames_total",
			Help: "Number of successfully decoded exchange frames.",
		}, []string{"exchange"}),
		ErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookwatch_adapter_frame_errors_total",
			Help: "Number of exchange frames dropped due to a decode error.",
		}, []string{"exchange"}),
	}
	reg.MustRegister(m.FramesTotal, m.ErrorsTotal)
	return m
}

// decodeLevels converts raw [price, quantity] string pairs into domain
// Levels tagged with exchange. It parses through decimal.Decimal first
// to avoid the float-string round-trip bug, then reduces to float64 per
// the domain model's Level fields.
func decodeLevels(exchangeTag string, raw [][2]string) ([]domain.Level, error) {
	levels := make([]domain.Level, len(raw))
	for i, pair := range raw {
		price, err := parseDecimal(pair[0])
		if err != nil {
			return nil, err
		}
		qty, err := parseDecimal(pair[1])
		if err != nil {
			return nil, err
		}
		levels[i] = domain.Level{Exchange: exchangeTag, Price: price, Quantity: qty}
	}
	return levels, nil
}
