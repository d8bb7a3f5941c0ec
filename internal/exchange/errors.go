package exchange

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ParseError reports that a numeric field of a raw level could not be
// parsed. It is non-fatal: the frame carrying it is dropped and the
// adapter keeps reading.
type ParseError struct {
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error on %q: %v", e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConnectError reports a failed websocket handshake, a failed subscribe
// write, or a read error on an established connection. It is fatal to
// the adapter that produced it.
type ConnectError struct {
	URL string
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect to %s: %v", e.URL, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// UpstreamFrameError reports a frame that didn't decode, or whose event
// type isn't recognized. Non-fatal: the frame is dropped.
type UpstreamFrameError struct {
	Err error
}

func (e *UpstreamFrameError) Error() string {
	return fmt.Sprintf("upstream frame error: %v", e.Err)
}

func (e *UpstreamFrameError) Unwrap() error { return e.Err }

func parseDecimal(text string) (float64, error) {
	d, err := decimal.NewFromString(text)
	if err != nil {
		return 0, &ParseError{Text: text, Err: err}
	}
	return d.InexactFloat64(), nil
}
