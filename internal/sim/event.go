package sim

import "skoll/internal/common"

type EventKind int

const (
	// EventNewOrder carries the attributes of a freshly drawn order.
	EventNewOrder EventKind = iota
	// EventExpire marks the end of a resting limit order's lifetime.
	// The target may have filled already; that makes the event a
	// harmless no-op, not an error.
	EventExpire
)

// Event is a tagged scheduler entry. Events order solely by timestamp;
// ties break on insertion sequence so replay under a fixed seed is
// deterministic.
type Event struct {
	Kind EventKind
	Time float64
	seq  uint64

	// NewOrder payload.
	Side      common.Side
	OrderType common.OrderType
	Size      uint64
	Offset    float64 // fractional reference-price offset, limit only

	// Expire payload.
	OrderID uint64
}
