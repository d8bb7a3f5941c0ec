package fanout

import (
	"context"
	"testing"
	"time"

	"github.com/DimaJoyti/bookwatch/api/proto"
	"github.com/DimaJoyti/bookwatch/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc/metadata"
)

func newTestServer() *Server {
	return New(zap.NewNop(), NewMetrics(prometheus.NewRegistry()))
}

// fakeSubscribeStream is a minimal grpc.ServerStream good enough to
// drive Server.Subscribe in tests, without a real network connection.
type fakeSubscribeStream struct {
	ctx  context.Context
	sent chan *proto.Summary
}

func newFakeStream(ctx context.Context) *fakeSubscribeStream {
	return &fakeSubscribeStream{ctx: ctx, sent: make(chan *proto.Summary, 16)}
}

func (f *fakeSubscribeStream) Send(s *proto.Summary) error {
	f.sent <- s
	return nil
}
func (f *fakeSubscribeStream) SetHeader(metadata.MD) error  { return nil }
func (f *fakeSubscribeStream) SendHeader(metadata.MD) error { return nil }
func (f *fakeSubscribeStream) SetTrailer(metadata.MD)       {}
func (f *fakeSubscribeStream) Context() context.Context     { return f.ctx }
func (f *fakeSubscribeStream) SendMsg(m interface{}) error  { return nil }
func (f *fakeSubscribeStream) RecvMsg(m interface{}) error  { return nil }

func TestServer_RegisterUnregisterTracksSubscriberCount(t *testing.T) {
	s := newTestServer()
	ch := s.register()
	require.Len(t, s.subscribers, 1)
	s.unregister(ch)
	require.Len(t, s.subscribers, 0)
}

func TestServer_BroadcastDeliversToAllSubscribers(t *testing.T) {
	s := newTestServer()
	a := s.register()
	b := s.register()

	summary := domain.Summary{Bids: []domain.Level{{Exchange: "binance", Price: 1, Quantity: 1}}}
	s.broadcast(summary)

	require.Equal(t, summary, <-a)
	require.Equal(t, summary, <-b)
}

// S5: a subscriber that never drains falls behind and is evicted once
// its bounded channel fills.
func TestServer_EvictsSlowSubscriber(t *testing.T) {
	s := newTestServer()
	ch := s.register()

	for i := 0; i < subscriberCapacity; i++ {
		s.broadcast(domain.Summary{})
	}
	require.Len(t, s.subscribers, 1)

	s.broadcast(domain.Summary{})
	require.Len(t, s.subscribers, 0)

	_, ok := <-ch
	for ok {
		_, ok = <-ch
	}

	require.Equal(t, float64(1), counterValue(t, s.metrics.Evictions))
}

func TestServer_Subscribe_StreamsBroadcasts(t *testing.T) {
	s := newTestServer()
	ctx, cancel := context.WithCancel(context.Background())
	stream := newFakeStream(ctx)

	done := make(chan error, 1)
	go func() {
		done <- s.Subscribe(&proto.Empty{}, stream)
	}()

	// Wait for registration to land before broadcasting.
	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return len(s.subscribers) == 1
	}, time.Second, time.Millisecond)

	summary := domain.Summary{Asks: []domain.Level{{Exchange: "bitstamp", Price: 2, Quantity: 3}}}
	s.broadcast(summary)

	select {
	case got := <-stream.sent:
		require.Equal(t, domain.ToWire(summary), got)
	case <-time.After(time.Second):
		t.Fatal("stream did not receive broadcast")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Subscribe did not return after context cancel")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	require.Len(t, s.subscribers, 0)
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}
