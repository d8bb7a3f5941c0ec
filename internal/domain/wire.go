package domain

import (
	"github.com/DimaJoyti/bookwatch/api/proto"
)

// ToWire projects an internal Summary onto its public RPC shape: the
// spread is precomputed and each Level's Quantity is renamed Amount.
func ToWire(s Summary) *proto.Summary {
	return &proto.Summary{
		Spread: s.Spread(),
		Bids:   toWireLevels(s.Bids),
		Asks:   toWireLevels(s.Asks),
	}
}

func toWireLevels(levels []Level) []*proto.Level {
	if len(levels) == 0 {
		return nil
	}
	out := make([]*proto.Level, len(levels))
	for i, l := range levels {
		out[i] = &proto.Level{
			Exchange: l.Exchange,
			Price:    l.Price,
			Amount:   l.Quantity,
		}
	}
	return out
}
