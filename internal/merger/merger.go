// Package merger owns the single canonical unified order book and emits
// depth-truncated summaries whenever any upstream exchange pushes an
// update. The book is owned entirely by the Merger's own goroutine: no
// locking, all mutation happens between channel operations.
package merger

import (
	"context"

	"github.com/DimaJoyti/bookwatch/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Metrics are the Prometheus instruments the merger reports through.
type Metrics struct {
	UpdatesTotal prometheus.Counter
}

// NewMetrics registers the merger instrument set against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		UpdatesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookwatch_merger_updates_total",
			Help: "Number of Summaries emitted by the merger.",
		}),
	}
	reg.MustRegister(m.UpdatesTotal)
	return m
}

// Merger merges per-exchange Summaries into one unified, sorted,
// depth-bounded book.
type Merger struct {
	depth   int
	bids    []domain.Level
	asks    []domain.Level
	logger  *zap.Logger
	metrics *Metrics
}

// New returns a Merger with an empty book.
func New(depth int, logger *zap.Logger, metrics *Metrics) *Merger {
	return &Merger{depth: depth, logger: logger, metrics: metrics}
}

// Run selects between ctx and in until one fires a terminal condition.
// Every received non-empty Summary purges that exchange's prior
// contribution, merges in the new levels preserving sort order, and
// sends a depth-truncated output Summary to out. An empty Summary
// leaves the book unchanged and emits nothing. The send to out blocks
// until it is received or ctx is cancelled.
func (m *Merger) Run(ctx context.Context, in <-chan domain.Summary, out chan<- domain.Summary) {
	m.logger.Info("merger started", zap.Int("depth", m.depth))
	defer m.logger.Info("merger stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-in:
			if !ok {
				return
			}
			if m.step(s) {
				m.emit(ctx, out)
			}
		}
	}
}

// step applies s to the book and reports whether s carried any levels.
func (m *Merger) step(s domain.Summary) bool {
	exchange := sourceExchange(s)
	if exchange == "" {
		return false
	}

	m.bids = purge(m.bids, exchange)
	m.asks = purge(m.asks, exchange)

	m.bids = mergeBids(m.bids, s.Bids)
	m.asks = mergeAsks(m.asks, s.Asks)
	return true
}

func (m *Merger) emit(ctx context.Context, out chan<- domain.Summary) {
	output := domain.Summary{Bids: m.bids, Asks: m.asks}.Truncate(m.depth)
	select {
	case out <- output:
		if m.metrics != nil {
			m.metrics.UpdatesTotal.Inc()
		}
	case <-ctx.Done():
	}
}

// sourceExchange finds the first non-empty exchange tag: asks[0] first,
// then bids[0]. An empty Summary yields "".
func sourceExchange(s domain.Summary) string {
	if len(s.Asks) > 0 {
		return s.Asks[0].Exchange
	}
	if len(s.Bids) > 0 {
		return s.Bids[0].Exchange
	}
	return ""
}

func purge(levels []domain.Level, exchange string) []domain.Level {
	out := levels[:0:0]
	for _, l := range levels {
		if l.Exchange != exchange {
			out = append(out, l)
		}
	}
	return out
}

// mergeBids merges incoming into existing, both sorted descending by
// price, in a single linear pass. On equal price the incoming level is
// placed first.
func mergeBids(existing, incoming []domain.Level) []domain.Level {
	out := make([]domain.Level, 0, len(existing)+len(incoming))
	i, j := 0, 0
	for i < len(existing) && j < len(incoming) {
		if existing[i].Price > incoming[j].Price {
			out = append(out, existing[i])
			i++
		} else {
			out = append(out, incoming[j])
			j++
		}
	}
	out = append(out, existing[i:]...)
	out = append(out, incoming[j:]...)
	return out
}

// mergeAsks merges incoming into existing, both sorted ascending by
// price, in a single linear pass. On equal price the incoming level is
// placed first.
func mergeAsks(existing, incoming []domain.Level) []domain.Level {
	out := make([]domain.Level, 0, len(existing)+len(incoming))
	i, j := 0, 0
	for i < len(existing) && j < len(incoming) {
		if existing[i].Price < incoming[j].Price {
			out = append(out, existing[i])
			i++
		} else {
			out = append(out, incoming[j])
			j++
		}
	}
	out = append(out, existing[i:]...)
	out = append(out, incoming[j:]...)
	return out
}
