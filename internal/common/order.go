package common

import "fmt"

type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// Opposite returns the side an order executes against.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

type OrderType int

const (
	// Limit orders carry a price and may rest on the book until
	// filled or expired.
	LimitOrder OrderType = iota
	// Market orders take whatever liquidity the opposite side holds
	// and are discarded immediately afterwards, filled or not.
	MarketOrder
)

func (t OrderType) String() string {
	if t == LimitOrder {
		return "limit"
	}
	return "market"
}

type Status int

const (
	Active Status = iota
	PartiallyFilled
	Filled
	Cancelled
	Expired
)

var statusName = map[Status]string{
	Active:          "active",
	PartiallyFilled: "partially-filled",
	Filled:          "filled",
	Cancelled:       "cancelled",
	Expired:         "expired",
}

func (s Status) String() string { return statusName[s] }

// Terminal reports whether the order can no longer trade or rest.
func (s Status) Terminal() bool {
	return s == Filled || s == Cancelled || s == Expired
}

// Order is a single request to trade. Timestamps are simulation time in
// seconds, not wall-clock time.
type Order struct {
	ID            uint64    // Monotonically assigned identity
	OrderType     OrderType //
	Side          Side      // Order side
	LimitPrice    float64   // Limiting price, limit orders only
	Quantity      uint64    // Remaining quantity
	TotalQuantity uint64    // Total volume requested
	Timestamp     float64   // Simulation time of arrival
	ExpiresAt     float64   // Simulation time of expiration, limit orders only
	Status        Status    //
}

func (order Order) String() string {
	return fmt.Sprintf("#%d %s %s qty=%d/%d px=%.4f t=%.6f status=%s",
		order.ID,
		order.Side,
		order.OrderType,
		order.Quantity,
		order.TotalQuantity,
		order.LimitPrice,
		order.Timestamp,
		order.Status,
	)
}
