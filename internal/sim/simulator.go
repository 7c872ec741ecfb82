package sim

import (
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"skoll/internal/common"
	"skoll/internal/config"
	"skoll/internal/engine"
	"skoll/internal/report"
)

// Simulator is the discrete-event loop tying the pieces together:
// the generator feeds the scheduler, the scheduler drives the clock,
// arrivals dispatch to the matching book and expirations to removal.
// Strictly sequential: one event runs to completion before the next is
// popped, so no locking is needed anywhere.
type Simulator struct {
	params    config.Params
	gen       *Generator
	sched     *Scheduler
	book      *engine.OrderBook
	ref       *ReferencePrice
	trades    *report.TradeLog
	snapshots *report.SnapshotLog

	clock      float64 // advances only by popping events, never backwards
	nextID     uint64
	dispatched uint64
}

func New(params config.Params) (*Simulator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	trades := report.NewTradeLog()
	book := engine.NewOrderBook(trades)
	return &Simulator{
		params:    params,
		gen:       NewGenerator(params),
		sched:     NewScheduler(),
		book:      book,
		ref:       NewReferencePrice(book, params.SeedPrice, params.Sigma),
		trades:    trades,
		snapshots: report.NewSnapshotLog(),
	}, nil
}

// Book exposes the live order book, mainly for inspection in tests.
func (s *Simulator) Book() *engine.OrderBook { return s.book }

// Clock returns the current simulation time.
func (s *Simulator) Clock() float64 { return s.clock }

// Run executes the event loop until the horizon is reached, then
// bundles the run's outputs. A returned error is always fatal: either
// bad configuration surfaced earlier or a book invariant violation.
func (s *Simulator) Run() (*report.Results, error) {
	runID := uuid.New().String()
	log.Info().
		Str("run", runID).
		Int64("seed", s.params.Seed).
		Float64("gamma", s.params.Gamma).
		Float64("sigma", s.params.Sigma).
		Msg("simulation starting")

	s.scheduleArrival()

	for {
		ev, ok := s.sched.Next()
		if !ok {
			break
		}
		if s.params.MaxTime > 0 && ev.Time > s.params.MaxTime {
			break
		}
		if s.params.MaxEvents > 0 && s.dispatched >= s.params.MaxEvents {
			break
		}

		s.clock = ev.Time
		if err := s.dispatch(ev); err != nil {
			return nil, err
		}
		s.dispatched++
	}

	results := &report.Results{
		RunID:     runID,
		Seed:      s.params.Seed,
		EndTime:   s.clock,
		Events:    s.dispatched,
		Trades:    s.trades.Trades(),
		Book:      s.snapshots.States(),
		FinalBook: s.book.Snapshot(),
	}
	return results, nil
}

func (s *Simulator) dispatch(ev Event) error {
	switch ev.Kind {
	case EventNewOrder:
		return s.processArrival(ev)
	case EventExpire:
		return s.processExpiration(ev)
	}
	return nil
}

// processArrival creates the order from the drawn attributes, prices it
// off the current reference if it is a limit order, schedules its
// expiration and hands it to the book. The next arrival is drawn only
// after this one fully dispatched, keeping the draw stream ordered.
func (s *Simulator) processArrival(ev Event) error {
	s.nextID++
	order := &common.Order{
		ID:            s.nextID,
		OrderType:     ev.OrderType,
		Side:          ev.Side,
		Quantity:      ev.Size,
		TotalQuantity: ev.Size,
		Timestamp:     ev.Time,
		Status:        common.Active,
	}

	if order.OrderType == common.LimitOrder {
		order.LimitPrice = s.ref.LimitPriceFor(ev.Offset)
		order.ExpiresAt = ev.Time + s.gen.Lifetime()
		s.sched.Schedule(Event{
			Kind:    EventExpire,
			Time:    order.ExpiresAt,
			OrderID: order.ID,
		})
	}

	if err := s.book.Submit(order); err != nil {
		return err
	}
	s.snapshots.Record(s.clock, s.book.Snapshot())

	s.scheduleArrival()
	return nil
}

// processExpiration removes a resting order whose lifetime elapsed. The
// order may have filled or expired already; a dead expiration event is
// expected and leaves the book untouched.
func (s *Simulator) processExpiration(ev Event) error {
	order, err := s.book.Remove(ev.OrderID)
	if errors.Is(err, engine.ErrOrderNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	order.Status = common.Expired
	s.snapshots.Record(s.clock, s.book.Snapshot())
	return nil
}

// scheduleArrival draws the next order's attributes and queues its
// arrival. The price offset is drawn now but applied to the reference
// price at dispatch time, when the book state it depends on exists.
func (s *Simulator) scheduleArrival() {
	dt := s.gen.Interarrival()
	side := s.gen.Side()
	orderType := s.gen.OrderType()
	size := s.gen.Size(orderType)

	ev := Event{
		Kind:      EventNewOrder,
		Time:      s.clock + dt,
		Side:      side,
		OrderType: orderType,
		Size:      size,
	}
	if orderType == common.LimitOrder {
		ev.Offset = s.gen.Offset()
	}
	s.sched.Schedule(ev)
}
