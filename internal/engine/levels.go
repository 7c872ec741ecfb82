package engine

import "skoll/internal/common"

// LevelDepth summarises one price level for snapshots.
type LevelDepth struct {
	Price    float64
	Quantity uint64
	Orders   int
}

// Snapshot is a point-in-time view of the book: top of book plus depth
// per price level, best-priority first on each side.
type Snapshot struct {
	BestBid       float64
	BestAsk       float64
	HasBid        bool
	HasAsk        bool
	Bids          []LevelDepth
	Asks          []LevelDepth
	RestingOrders uint64
}

// Snapshot captures the current book state for the reporting side.
func (book *OrderBook) Snapshot() Snapshot {
	snap := Snapshot{
		Bids:          depthOf(book.bids),
		Asks:          depthOf(book.asks),
		RestingOrders: book.RestingOrders(),
	}
	if bid, ok := book.BestBid(); ok {
		snap.BestBid, snap.HasBid = bid.LimitPrice, true
	}
	if ask, ok := book.BestAsk(); ok {
		snap.BestAsk, snap.HasAsk = ask.LimitPrice, true
	}
	return snap
}

func depthOf(levels *PriceLevels) []LevelDepth {
	depth := make([]LevelDepth, 0, levels.Len())
	levels.Scan(func(level *PriceLevel) bool {
		var qty uint64
		for _, order := range level.orders {
			qty += order.Quantity
		}
		depth = append(depth, LevelDepth{
			Price:    level.price,
			Quantity: qty,
			Orders:   len(level.orders),
		})
		return true
	})
	return depth
}

// FlatPriceLevel is an inspectable copy of a price level, used by tests
// to compare whole book states.
type FlatPriceLevel struct {
	PriceLevel float64
	Orders     []*common.Order
}

// BidLevels returns the bid levels best-first.
func (book *OrderBook) BidLevels() []*PriceLevel {
	return book.bids.Items()
}

// AskLevels returns the ask levels best-first.
func (book *OrderBook) AskLevels() []*PriceLevel {
	return book.asks.Items()
}

func FlattenLevels(levels []*PriceLevel) []FlatPriceLevel {
	flat := make([]FlatPriceLevel, len(levels))
	for i, level := range levels {
		flat[i] = FlatPriceLevel{
			PriceLevel: level.price,
			Orders:     level.orders,
		}
	}
	return flat
}
