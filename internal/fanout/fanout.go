// Package fanout implements the gRPC-facing side of bookwatch: it fans
// every merged Summary out to however many Subscribe callers are
// currently attached. No Summary is retained, so a new subscriber sees
// only updates broadcast after it attaches.
package fanout

import (
	"context"
	"sync"

	"github.com/DimaJoyti/bookwatch/api/proto"
	"github.com/DimaJoyti/bookwatch/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// subscriberCapacity bounds each subscriber's channel. A subscriber that
// falls more than this many updates behind is evicted rather than
// allowed to stall the broadcaster.
const subscriberCapacity = 4

// Metrics are the Prometheus instruments the fan-out server reports
// through.
type Metrics struct {
	ActiveSubscribers prometheus.Gauge
	Evictions         prometheus.Counter
}

// NewMetrics registers the fan-out instrument set against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ActiveSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bookwatch_fanout_subscribers",
			Help: "Number of currently attached Subscribe streams.",
		}),
		Evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookwatch_fanout_evictions_total",
			Help: "Number of subscribers dropped for falling behind.",
		}),
	}
	reg.MustRegister(m.ActiveSubscribers, m.Evictions)
	return m
}

// Server implements proto.BookSummaryServer. It owns the registry of
// attached subscriber channels and the broadcaster that feeds them from
// the merger's output channel.
type Server struct {
	proto.UnimplementedBookSummaryServer

	logger  *zap.Logger
	metrics *Metrics

	mu          sync.Mutex
	subscribers map[chan domain.Summary]struct{}
}

// New returns a Server with no attached subscribers.
func New(logger *zap.Logger, metrics *Metrics) *Server {
	return &Server{
		logger:      logger,
		metrics:     metrics,
		subscribers: make(map[chan domain.Summary]struct{}),
	}
}

// Run reads merged summaries from in and broadcasts each to every
// attached subscriber until ctx is cancelled or in is closed.
func (s *Server) Run(ctx context.Context, in <-chan domain.Summary) {
	for {
		select {
		case <-ctx.Done():
			return
		case summary, ok := <-in:
			if !ok {
				return
			}
			s.broadcast(summary)
		}
	}
}

func (s *Server) broadcast(summary domain.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for ch := range s.subscribers {
		select {
		case ch <- summary:
		default:
			delete(s.subscribers, ch)
			close(ch)
			s.metrics.Evictions.Inc()
			s.metrics.ActiveSubscribers.Dec()
			s.logger.Warn("evicted slow subscriber")
		}
	}
}

func (s *Server) register() chan domain.Summary {
	ch := make(chan domain.Summary, subscriberCapacity)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()
	s.metrics.ActiveSubscribers.Inc()
	return ch
}

func (s *Server) unregister(ch chan domain.Summary) {
	s.mu.Lock()
	_, ok := s.subscribers[ch]
	delete(s.subscribers, ch)
	s.mu.Unlock()
	if ok {
		s.metrics.ActiveSubscribers.Dec()
	}
}

// Subscribe implements proto.BookSummaryServer. It registers a new
// subscriber channel, streams every broadcast Summary to the caller as
// a wire proto.Summary, and unregisters on return.
func (s *Server) Subscribe(_ *proto.Empty, stream proto.BookSummary_SubscribeServer) error {
	ch := s.register()
	defer s.unregister(ch)

	s.logger.Info("subscriber attached")
	defer s.logger.Info("subscriber detached")

	for {
		select {
		case summary, ok := <-ch:
			if !ok {
				return nil
			}
			if err := stream.Send(domain.ToWire(summary)); err != nil {
				return err
			}
		case <-stream.Context().Done():
			return nil
		}
	}
}
