package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rs/zerolog"

	"skoll/internal/common"
	"skoll/internal/engine"
)

// TradeLog is the append-only execution log. The book writes into it
// synchronously during matching; flushing to an external sink happens
// after the run, outside the hot loop.
type TradeLog struct {
	trades []common.Trade
}

func NewTradeLog() *TradeLog {
	return &TradeLog{}
}

func (l *TradeLog) RecordTrade(trade common.Trade) {
	l.trades = append(l.trades, trade)
}

func (l *TradeLog) Trades() []common.Trade { return l.trades }

func (l *TradeLog) Len() int { return len(l.trades) }

// WriteCSV flushes the execution log as CSV with a header row.
func (l *TradeLog) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "buy_order_id", "sell_order_id", "price", "quantity"}); err != nil {
		return err
	}
	for _, t := range l.trades {
		record := []string{
			strconv.FormatFloat(t.Timestamp, 'f', -1, 64),
			strconv.FormatUint(t.BuyOrderID, 10),
			strconv.FormatUint(t.SellOrderID, 10),
			strconv.FormatFloat(t.Price, 'f', -1, 64),
			strconv.FormatUint(t.Quantity, 10),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// BookState is one recorded order book observation.
type BookState struct {
	Time float64
	engine.Snapshot
}

// SnapshotLog records book states as the simulation mutates the book.
type SnapshotLog struct {
	states []BookState
}

func NewSnapshotLog() *SnapshotLog {
	return &SnapshotLog{}
}

func (l *SnapshotLog) Record(time float64, snap engine.Snapshot) {
	l.states = append(l.states, BookState{Time: time, Snapshot: snap})
}

func (l *SnapshotLog) States() []BookState { return l.states }

func (l *SnapshotLog) Len() int { return len(l.states) }

// Results bundles everything a finished run hands to the reporting
// side.
type Results struct {
	RunID     string
	Seed      int64
	EndTime   float64
	Events    uint64
	Trades    []common.Trade
	Book      []BookState
	FinalBook engine.Snapshot
}

// Log emits a one-line run summary.
func (r *Results) Log(logger zerolog.Logger) {
	logger.Info().
		Str("run", r.RunID).
		Int64("seed", r.Seed).
		Float64("end_time", r.EndTime).
		Uint64("events", r.Events).
		Int("trades", len(r.Trades)).
		Uint64("resting_orders", r.FinalBook.RestingOrders).
		Msg("simulation finished")
}
