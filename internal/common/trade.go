package common

import "fmt"

// Trade is an immutable record of an executed match between one buy
// order and one sell order. Trades are append-only once emitted.
type Trade struct {
	BuyOrderID  uint64
	SellOrderID uint64
	Price       float64
	Quantity    uint64
	Timestamp   float64
}

func (t Trade) String() string {
	return fmt.Sprintf("trade buy=#%d sell=#%d %d @ %.4f t=%.6f",
		t.BuyOrderID,
		t.SellOrderID,
		t.Quantity,
		t.Price,
		t.Timestamp,
	)
}
