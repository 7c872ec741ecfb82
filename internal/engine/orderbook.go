package engine

import (
	"errors"
	"fmt"

	"github.com/tidwall/btree"

	"skoll/internal/common"
)

// priceEpsilon absorbs floating-point noise when comparing limit prices
// against level prices.
const priceEpsilon = 1e-9

var (
	ErrInvalidOrder = errors.New("invalid order")
	// ErrOrderNotFound is a benign outcome: the order already left the
	// book (filled or expired) before the caller got to it.
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvariantViolation means the identity index and the price
	// levels disagree. That is a logic defect, never a valid outcome.
	ErrInvariantViolation = errors.New("order book invariant violation")
)

// TradeRecorder consumes executed trades as the book emits them.
type TradeRecorder interface {
	RecordTrade(common.Trade)
}

// PriceLevel groups resting orders at one price, sorted by time added
// as they are appended on arrival.
type PriceLevel struct {
	price  float64
	orders []*common.Order
}

type PriceLevels = btree.BTreeG[*PriceLevel]

// OrderBook maintains resting limit orders on two price-ordered sides
// and matches incoming orders against them under price-time priority.
// It is not safe for concurrent use; the simulation loop is the only
// caller.
type OrderBook struct {
	// Price levels to orders sat on the price level.
	bids *PriceLevels
	asks *PriceLevels

	// Identity index over every resting order, so expirations and
	// cancellations can find an order without walking the levels.
	byID map[uint64]*common.Order

	recorder TradeRecorder

	// Some book keeping
	nBuyOrders   uint64 // Number of bids resting in the book.
	nSellOrders  uint64 // Number of asks resting in the book.
	buyQuantity  uint64 // Bid-side liquidity of the book.
	sellQuantity uint64 // Ask-side liquidity of the book.
}

func NewOrderBook(recorder TradeRecorder) *OrderBook {
	// Sorted greatest first.
	bids := btree.NewBTreeG(func(a, b *PriceLevel) bool {
		return a.price > b.price
	})
	// Sorted least first.
	asks := btree.NewBTreeG(func(a, b *PriceLevel) bool {
		return a.price < b.price
	})
	return &OrderBook{
		bids:     bids,
		asks:     asks,
		byID:     make(map[uint64]*common.Order),
		recorder: recorder,
	}
}

// Submit matches an incoming order against the book. Limit orders first
// trade through any levels their price crosses, then rest at their
// original limit price. Market orders sweep the opposite side and any
// remainder is discarded, never queued.
//
// Trades execute at the resting order's price and are emitted to the
// recorder in execution order.
func (book *OrderBook) Submit(order *common.Order) error {
	if order.Quantity == 0 || order.Quantity != order.TotalQuantity {
		return fmt.Errorf("%w: %s", ErrInvalidOrder, order)
	}

	switch order.OrderType {
	case common.LimitOrder:
		return book.handleLimit(order)
	case common.MarketOrder:
		return book.handleMarket(order)
	}
	return fmt.Errorf("%w: unknown order type %d", ErrInvalidOrder, order.OrderType)
}

// handleMarket sweeps the opposite side until the order's volume is
// filled or liquidity runs out. An unfilled remainder models a failed
// liquidity take and is dropped, which is an ordinary outcome.
func (book *OrderBook) handleMarket(order *common.Order) error {
	if err := book.sweep(order); err != nil {
		return err
	}
	if order.Quantity == 0 {
		order.Status = common.Filled
	} else {
		order.Status = common.Cancelled
	}
	return nil
}

// handleLimit trades through any crossing levels first, then rests the
// remainder at the order's original limit price. The price is never
// re-derived from what the crossing portion traded at.
func (book *OrderBook) handleLimit(order *common.Order) error {
	if err := book.sweep(order); err != nil {
		return err
	}
	if order.Quantity == 0 {
		order.Status = common.Filled
		return nil
	}
	if order.Quantity < order.TotalQuantity {
		order.Status = common.PartiallyFilled
	}
	book.rest(order)
	return nil
}

// crosses reports whether the taker's limit price reaches a resting
// level on the opposite side.
func crosses(taker *common.Order, levelPrice float64) bool {
	if taker.OrderType == common.MarketOrder {
		return true
	}
	if taker.Side == common.Buy {
		return taker.LimitPrice >= levelPrice-priceEpsilon
	}
	return taker.LimitPrice <= levelPrice+priceEpsilon
}

// sweep consumes opposite-side levels best-first while the taker still
// has quantity and its price crosses. Within a level, orders match in
// arrival order; a partially filled maker keeps its queue position.
func (book *OrderBook) sweep(taker *common.Order) error {
	opposite := book.sideLevels(taker.Side.Opposite())

	for taker.Quantity > 0 {
		level, ok := opposite.MinMut()
		if !ok || !crosses(taker, level.price) {
			break
		}

		consumed := 0
		for _, maker := range level.orders {
			if taker.Quantity == 0 {
				break
			}

			matchQty := min(taker.Quantity, maker.Quantity)
			taker.Quantity -= matchQty
			maker.Quantity -= matchQty
			book.adjustLiquidity(maker.Side, matchQty)
			book.emitTrade(taker, maker, matchQty, level.price)

			if maker.Quantity == 0 {
				maker.Status = common.Filled
				delete(book.byID, maker.ID)
				book.decOrderCount(maker.Side)
				consumed++
			} else {
				maker.Status = common.PartiallyFilled
			}
		}

		// Slice off fully consumed orders; a partially consumed head
		// keeps its time priority.
		if consumed > 0 {
			level.orders = level.orders[consumed:]
		}
		if len(level.orders) == 0 {
			opposite.Delete(level)
		}
	}
	return nil
}

// rest places a limit order into its side at price-time rank.
func (book *OrderBook) rest(order *common.Order) {
	levels := book.sideLevels(order.Side)

	// Levels comparator only accounts for price, so a dummy level is
	// enough for the search.
	level, ok := levels.GetMut(&PriceLevel{price: order.LimitPrice})
	if ok {
		level.orders = append(level.orders, order)
	} else {
		levels.Set(&PriceLevel{
			price:  order.LimitPrice,
			orders: []*common.Order{order},
		})
	}

	book.byID[order.ID] = order
	switch order.Side {
	case common.Buy:
		book.nBuyOrders++
		book.buyQuantity += order.Quantity
	case common.Sell:
		book.nSellOrders++
		book.sellQuantity += order.Quantity
	}
}

// Remove takes a resting order out of the book by identity, for
// expirations and cancellations. Returns ErrOrderNotFound if the order
// is not resting; callers treat that as a no-op, not a failure.
func (book *OrderBook) Remove(id uint64) (*common.Order, error) {
	order, ok := book.byID[id]
	if !ok {
		return nil, ErrOrderNotFound
	}

	levels := book.sideLevels(order.Side)
	level, ok := levels.GetMut(&PriceLevel{price: order.LimitPrice})
	if !ok {
		return nil, fmt.Errorf("%w: order #%d indexed but level %.4f missing",
			ErrInvariantViolation, id, order.LimitPrice)
	}

	idx := -1
	for i, resting := range level.orders {
		if resting.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: order #%d indexed but absent from level %.4f",
			ErrInvariantViolation, id, order.LimitPrice)
	}

	level.orders = append(level.orders[:idx], level.orders[idx+1:]...)
	if len(level.orders) == 0 {
		levels.Delete(level)
	}

	delete(book.byID, id)
	book.adjustLiquidity(order.Side, order.Quantity)
	book.decOrderCount(order.Side)
	return order, nil
}

// ReduceQuantity decrements a resting order's remaining quantity in
// place. Reaching zero fills the order and removes it from the book;
// otherwise it stays at its original time priority, partially filled.
// Reducing by more than remains is a programming error, not a valid
// outcome.
func (book *OrderBook) ReduceQuantity(id uint64, qty uint64) error {
	order, ok := book.byID[id]
	if !ok {
		return ErrOrderNotFound
	}
	if qty == 0 || qty > order.Quantity {
		return fmt.Errorf("%w: reduce %d of %d on order #%d",
			ErrInvalidOrder, qty, order.Quantity, id)
	}

	if qty == order.Quantity {
		removed, err := book.Remove(id)
		if err != nil {
			return err
		}
		removed.Quantity = 0
		removed.Status = common.Filled
		return nil
	}

	order.Quantity -= qty
	order.Status = common.PartiallyFilled
	book.adjustLiquidity(order.Side, qty)
	return nil
}

// BestBid peeks the highest-priority resting buy order.
func (book *OrderBook) BestBid() (*common.Order, bool) {
	return bestOf(book.bids)
}

// BestAsk peeks the highest-priority resting sell order.
func (book *OrderBook) BestAsk() (*common.Order, bool) {
	return bestOf(book.asks)
}

func bestOf(levels *PriceLevels) (*common.Order, bool) {
	level, ok := levels.Min()
	if !ok || len(level.orders) == 0 {
		return nil, false
	}
	return level.orders[0], true
}

// Crossed reports whether the best bid reaches the best ask. Immediately
// after any submit or removal this must be false.
func (book *OrderBook) Crossed() bool {
	bid, bidOk := book.BestBid()
	ask, askOk := book.BestAsk()
	if !bidOk || !askOk {
		return false
	}
	return bid.LimitPrice >= ask.LimitPrice-priceEpsilon
}

// RestingOrders returns the number of orders currently in the book.
func (book *OrderBook) RestingOrders() uint64 {
	return book.nBuyOrders + book.nSellOrders
}

// Liquidity returns resting quantity per side.
func (book *OrderBook) Liquidity() (bid, ask uint64) {
	return book.buyQuantity, book.sellQuantity
}

func (book *OrderBook) sideLevels(side common.Side) *PriceLevels {
	if side == common.Buy {
		return book.bids
	}
	return book.asks
}

func (book *OrderBook) adjustLiquidity(side common.Side, qty uint64) {
	switch side {
	case common.Buy:
		book.buyQuantity -= qty
	case common.Sell:
		book.sellQuantity -= qty
	}
}

func (book *OrderBook) decOrderCount(side common.Side) {
	switch side {
	case common.Buy:
		book.nBuyOrders--
	case common.Sell:
		book.nSellOrders--
	}
}

// emitTrade books a fill between the taker and a resting maker. Buyer
// and seller ids are assigned by side, the execution price is always
// the maker's.
func (book *OrderBook) emitTrade(taker, maker *common.Order, qty uint64, price float64) {
	trade := common.Trade{
		Price:     price,
		Quantity:  qty,
		Timestamp: taker.Timestamp,
	}
	if taker.Side == common.Buy {
		trade.BuyOrderID = taker.ID
		trade.SellOrderID = maker.ID
	} else {
		trade.BuyOrderID = maker.ID
		trade.SellOrderID = taker.ID
	}
	if book.recorder != nil {
		book.recorder.RecordTrade(trade)
	}
}
