package exchange

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DimaJoyti/bookwatch/internal/domain"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const bitstampTag = "bitstamp"

const bitstampURL = "wss://ws.bitstamp.net"

// bitstampEvent is the envelope every Bitstamp frame arrives in,
// discriminated by Event.
type bitstampEvent struct {
	Event string          `json:"event"`
	Data  bitstampPayload `json:"data"`
}

type bitstampPayload struct {
	Bids [][2]string `json:"bids"`
	Asks [][2]string `json:"asks"`
}

// BitstampAdapter connects to Bitstamp's live order book channel for a
// single symbol and decodes each "data" frame into a domain.Summary.
type BitstampAdapter struct {
	cfg     Config
	metrics *Metrics
	dial    func(url string) (*websocket.Conn, error)
}

// NewBitstampAdapter builds an adapter for cfg.Symbol/cfg.Depth.
func NewBitstampAdapter(cfg Config, metrics *Metrics) *BitstampAdapter {
	return &BitstampAdapter{
		cfg:     cfg,
		metrics: metrics,
		dial:    dialWebsocket,
	}
}

func (a *BitstampAdapter) subscribeFrame() []byte {
	channel := fmt.Sprintf("order_book_%s", a.cfg.Symbol.String())
	payload := fmt.Sprintf(`{"event":"bts:subscribe","data":{"channel":"%s"}}`, channel)
	return []byte(payload)
}

// Run connects to Bitstamp, subscribes to the symbol's order book
// channel, and streams decoded summaries to out until ctx is cancelled
// or the connection drops. Each send to out blocks until it is received
// or ctx is cancelled.
func (a *BitstampAdapter) Run(ctx context.Context, out chan<- domain.Summary) error {
	conn, err := a.dial(bitstampURL)
	if err != nil {
		return &ConnectError{URL: bitstampURL, Err: err}
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, a.subscribeFrame()); err != nil {
		return &ConnectError{URL: bitstampURL, Err: err}
	}

	a.cfg.Logger.Info("bitstamp adapter connected", zap.String("url", bitstampURL))

	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		conn.Close()
		close(done)
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return &ConnectError{URL: bitstampURL, Err: err}
			}
		}

		var frame bitstampEvent
		if err := json.Unmarshal(raw, &frame); err != nil {
			a.cfg.Logger.Warn("bitstamp frame decode failed", zap.Error(&UpstreamFrameError{Err: err}))
			a.metrics.ErrorsTotal.WithLabelValues(bitstampTag).Inc()
			continue
		}

		switch frame.Event {
		case "bts:subscription_succeeded":
			continue
		case "data":
			summary, err := a.toSummary(frame.Data)
			if err != nil {
				a.cfg.Logger.Warn("bitstamp level parse failed", zap.Error(err))
				a.metrics.ErrorsTotal.WithLabelValues(bitstampTag).Inc()
				continue
			}
			a.metrics.FramesTotal.WithLabelValues(bitstampTag).Inc()

			select {
			case out <- summary:
			case <-ctx.Done():
				return nil
			}
		default:
			err := &UpstreamFrameError{Err: fmt.Errorf("unrecognized event %q", frame.Event)}
			a.cfg.Logger.Warn("bitstamp unrecognized event", zap.Error(err))
			a.metrics.ErrorsTotal.WithLabelValues(bitstampTag).Inc()
		}
	}
}

func (a *BitstampAdapter) toSummary(data bitstampPayload) (domain.Summary, error) {
	bids, err := decodeLevels(bitstampTag, truncate(data.Bids, a.cfg.Depth))
	if err != nil {
		return domain.Summary{}, err
	}
	asks, err := decodeLevels(bitstampTag, truncate(data.Asks, a.cfg.Depth))
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summary{Bids: bids, Asks: asks}, nil
}
