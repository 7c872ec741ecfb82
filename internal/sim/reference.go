package sim

import "skoll/internal/engine"

// ReferencePrice derives the price new limit orders quote around. With
// both sides resting it is the midpoint of best bid and best ask. The
// bootstrap rule is explicit because no exogenous price exists: a
// one-sided book uses the non-empty side's best price, an empty book
// uses the configured seed price until the first limit order
// establishes a side.
type ReferencePrice struct {
	book      *engine.OrderBook
	seedPrice float64
	sigma     float64
}

func NewReferencePrice(book *engine.OrderBook, seedPrice, sigma float64) *ReferencePrice {
	return &ReferencePrice{
		book:      book,
		seedPrice: seedPrice,
		sigma:     sigma,
	}
}

// Mid returns the current reference price.
func (r *ReferencePrice) Mid() float64 {
	bid, bidOk := r.book.BestBid()
	ask, askOk := r.book.BestAsk()

	switch {
	case bidOk && askOk:
		return (bid.LimitPrice + ask.LimitPrice) / 2
	case bidOk:
		return bid.LimitPrice
	case askOk:
		return ask.LimitPrice
	default:
		return r.seedPrice
	}
}

// LimitPriceFor prices a new limit order at reference * (1 + offset),
// with the offset clamped to [-sigma, +sigma].
func (r *ReferencePrice) LimitPriceFor(offset float64) float64 {
	if offset > r.sigma {
		offset = r.sigma
	} else if offset < -r.sigma {
		offset = -r.sigma
	}
	return r.Mid() * (1 + offset)
}
