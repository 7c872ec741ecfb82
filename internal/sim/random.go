package sim

import (
	"math"
	"math/rand"

	"skoll/internal/common"
	"skoll/internal/config"
)

// Generator produces every stochastic draw the simulation needs:
// inter-arrival times, order attributes and limit-order lifetimes. All
// draws come off a single seeded source advanced only by the event
// loop, which is what makes replay under a fixed seed deterministic.
type Generator struct {
	rng    *rand.Rand
	params config.Params
}

func NewGenerator(params config.Params) *Generator {
	return &Generator{
		rng:    rand.New(rand.NewSource(params.Seed)),
		params: params,
	}
}

// Interarrival draws the time until the next order arrival,
// Exponential(gamma).
func (g *Generator) Interarrival() float64 {
	return g.rng.ExpFloat64() / g.params.Gamma
}

// Side draws buy with probability beta.
func (g *Generator) Side() common.Side {
	if g.rng.Float64() < g.params.Beta {
		return common.Buy
	}
	return common.Sell
}

// OrderType draws limit with probability rho.
func (g *Generator) OrderType() common.OrderType {
	if g.rng.Float64() < g.params.Rho {
		return common.LimitOrder
	}
	return common.MarketOrder
}

// Size draws an order quantity from the exponential distribution for
// the given order type, rounded up to a whole unit and clamped to the
// configured bounds.
func (g *Generator) Size(orderType common.OrderType) uint64 {
	rate := g.params.LambdaLimit
	if orderType == common.MarketOrder {
		rate = g.params.LambdaMarket
	}

	size := uint64(math.Ceil(g.rng.ExpFloat64() / rate))
	if size < g.params.MinSize {
		size = g.params.MinSize
	}
	if g.params.MaxSize != 0 && size > g.params.MaxSize {
		size = g.params.MaxSize
	}
	return size
}

// Offset draws a limit order's fractional price offset,
// Uniform(-sigma, +sigma). The sign is unconstrained by side: a buy
// priced above the reference is immediately aggressive, and that is
// the mechanism by which crossing trades and price drift occur.
func (g *Generator) Offset() float64 {
	return (2*g.rng.Float64() - 1) * g.params.Sigma
}

// Lifetime draws how long a limit order rests before expiring,
// Exponential(mu).
func (g *Generator) Lifetime() float64 {
	return g.rng.ExpFloat64() / g.params.Mu
}
