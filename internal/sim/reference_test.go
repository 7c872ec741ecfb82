package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skoll/internal/common"
	"skoll/internal/engine"
)

func newBookWithRef(t *testing.T, seedPrice, sigma float64) (*engine.OrderBook, *ReferencePrice) {
	t.Helper()
	book := engine.NewOrderBook(nil)
	return book, NewReferencePrice(book, seedPrice, sigma)
}

func submitLimit(t *testing.T, book *engine.OrderBook, id uint64, side common.Side, price float64, qty uint64, ts float64) {
	t.Helper()
	require.NoError(t, book.Submit(&common.Order{
		ID:            id,
		OrderType:     common.LimitOrder,
		Side:          side,
		LimitPrice:    price,
		Quantity:      qty,
		TotalQuantity: qty,
		Timestamp:     ts,
		Status:        common.Active,
	}))
}

func TestReferencePrice_Bootstrap(t *testing.T) {
	book, ref := newBookWithRef(t, 100.0, 0.05)

	// Empty book falls back to the seed price.
	assert.Equal(t, 100.0, ref.Mid())

	// One-sided book uses that side's best price.
	submitLimit(t, book, 1, common.Buy, 98.0, 10, 1.0)
	assert.Equal(t, 98.0, ref.Mid())

	// Both sides resting gives the midpoint.
	submitLimit(t, book, 2, common.Sell, 102.0, 10, 2.0)
	assert.Equal(t, 100.0, ref.Mid())
}

func TestReferencePrice_OffsetClamped(t *testing.T) {
	_, ref := newBookWithRef(t, 100.0, 0.05)

	assert.Equal(t, 105.0, ref.LimitPriceFor(0.2), "offset clamps to +sigma")
	assert.Equal(t, 95.0, ref.LimitPriceFor(-0.2), "offset clamps to -sigma")
	assert.InDelta(t, 102.0, ref.LimitPriceFor(0.02), 1e-12)
}

func TestReferencePrice_EmptyBookNoSeed(t *testing.T) {
	_, ref := newBookWithRef(t, 0, 0.05)
	assert.Equal(t, 0.0, ref.Mid())
}

// Mirrors the bootstrap walk-through: a one-sided book keeps quoting
// off the resting side, so an aggressive opposite order crosses.
func TestReferencePrice_BootstrapScenario(t *testing.T) {
	capture := &scenarioCapture{}
	book := engine.NewOrderBook(capture)
	ref := NewReferencePrice(book, 100.0, 0.05)

	// First buy limit at offset +0.02 prices at 102 and rests, no
	// opposite side to cross.
	buyPrice := ref.LimitPriceFor(0.02)
	assert.InDelta(t, 102.0, buyPrice, 1e-12)
	submitLimit(t, book, 1, common.Buy, buyPrice, 10, 1.0)
	assert.Empty(t, capture.trades)

	// Book is one-sided, so the reference is still 102. A sell at
	// offset -0.01 prices at 100.98, below the resting 102: crosses
	// and executes at the resting order's 102.
	assert.InDelta(t, 102.0, ref.Mid(), 1e-12)
	sellPrice := ref.LimitPriceFor(-0.01)
	assert.InDelta(t, 100.98, sellPrice, 1e-9)

	sell := &common.Order{
		ID:            2,
		OrderType:     common.LimitOrder,
		Side:          common.Sell,
		LimitPrice:    sellPrice,
		Quantity:      4,
		TotalQuantity: 4,
		Timestamp:     2.0,
		Status:        common.Active,
	}
	require.NoError(t, book.Submit(sell))

	require.Len(t, capture.trades, 1)
	assert.Equal(t, 102.0, capture.trades[0].Price)
	assert.Equal(t, uint64(4), capture.trades[0].Quantity)
	assert.Equal(t, common.Filled, sell.Status)
}

type scenarioCapture struct {
	trades []common.Trade
}

func (c *scenarioCapture) RecordTrade(trade common.Trade) {
	c.trades = append(c.trades, trade)
}
