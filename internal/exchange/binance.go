package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DimaJoyti/bookwatch/internal/domain"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const binanceTag = "binance"

// depthUpdate is the frame shape of Binance's diff-depth stream: bare
// {bids, asks} arrays of [price, quantity] string pairs, pre-sorted by
// the exchange.
type depthUpdate struct {
	Bids [][2]string `json:"bids"`
	Asks [][2]string `json:"asks"`
}

// BinanceAdapter connects to Binance's diff-depth websocket stream for a
// single symbol and decodes each frame into a domain.Summary.
type BinanceAdapter struct {
	cfg     Config
	metrics *Metrics
	dial    func(url string) (*websocket.Conn, error)
}

// NewBinanceAdapter builds an adapter for cfg.Symbol/cfg.Depth.
func NewBinanceAdapter(cfg Config, metrics *Metrics) *BinanceAdapter {
	return &BinanceAdapter{
		cfg:     cfg,
		metrics: metrics,
		dial:    dialWebsocket,
	}
}

func (a *BinanceAdapter) url() string {
	return fmt.Sprintf("wss://stream.binance.com:9443/ws/%s@depth%d@100ms", a.cfg.Symbol.String(), a.cfg.Depth)
}

// Run connects to Binance and streams decoded summaries to out until ctx
// is cancelled or the connection drops. Each send to out blocks until it
// is received or ctx is cancelled.
func (a *BinanceAdapter) Run(ctx context.Context, out chan<- domain.Summary) error {
	url := a.url()
	conn, err := a.dial(url)
	if err != nil {
		return &ConnectError{URL: url, Err: err}
	}
	defer conn.Close()

	a.cfg.Logger.Info("binance adapter connected", zap.String("url", url))

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
				return &ConnectError{URL: url, Err: err}
			}
		}

		var frame depthUpdate
		if err := json.Unmarshal(raw, &frame); err != nil {
			a.cfg.Logger.Warn("binance frame decode failed", zap.Error(&UpstreamFrameError{Err: err}))
			a.metrics.ErrorsTotal.WithLabelValues(binanceTag).Inc()
			continue
		}

		summary, err := a.toSummary(frame)
		if err != nil {
			a.cfg.Logger.Warn("binance level parse failed", zap.Error(err))
			a.metrics.ErrorsTotal.WithLabelValues(binanceTag).Inc()
			continue
		}
		a.metrics.FramesTotal.WithLabelValues(binanceTag).Inc()

		select {
		case out <- summary:
		case <-ctx.Done():
			return nil
		}
	}
}

func (a *BinanceAdapter) toSummary(frame depthUpdate) (domain.Summary, error) {
	bids, err := decodeLevels(binanceTag, frame.Bids)
	if err != nil {
		return domain.Summary{}, err
	}
	asks, err := decodeLevels(binanceTag, frame.Asks)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summary{Bids: bids, Asks: asks}, nil
}

func truncate(levels [][2]string, depth int) [][2]string {
	if depth > 0 && len(levels) > depth {
		return levels[:depth]
	}
	return levels
}

func dialWebsocket(url string) (*websocket.Conn, error) {
	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second
	conn, _, err := dialer.Dial(url, nil)
	return conn, err
}
