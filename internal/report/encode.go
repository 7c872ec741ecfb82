package report

import (
	"encoding/binary"
	"errors"
	"math"

	"skoll/internal/common"
)

var ErrTruncatedRecord = errors.New("truncated trade record")

// Trade record wire format, big endian:
//
//	timestamp  float64  8 bytes
//	buy id     uint64   8 bytes
//	sell id    uint64   8 bytes
//	price      float64  8 bytes
//	quantity   uint64   8 bytes
const tradeRecordLen = 8 + 8 + 8 + 8 + 8

// AppendTradeRecord serialises one trade onto buf and returns the
// extended buffer.
func AppendTradeRecord(buf []byte, t common.Trade) []byte {
	var rec [tradeRecordLen]byte
	binary.BigEndian.PutUint64(rec[0:8], math.Float64bits(t.Timestamp))
	binary.BigEndian.PutUint64(rec[8:16], t.BuyOrderID)
	binary.BigEndian.PutUint64(rec[16:24], t.SellOrderID)
	binary.BigEndian.PutUint64(rec[24:32], math.Float64bits(t.Price))
	binary.BigEndian.PutUint64(rec[32:40], t.Quantity)
	return append(buf, rec[:]...)
}

// Serialize packs the whole execution log into a flat byte buffer.
// Byte-for-byte equality of two serialised logs is how determinism of
// two runs is checked.
func (l *TradeLog) Serialize() []byte {
	buf := make([]byte, 0, len(l.trades)*tradeRecordLen)
	for _, t := range l.trades {
		buf = AppendTradeRecord(buf, t)
	}
	return buf
}

// ReadTradeRecords decodes a buffer produced by Serialize.
func ReadTradeRecords(data []byte) ([]common.Trade, error) {
	if len(data)%tradeRecordLen != 0 {
		return nil, ErrTruncatedRecord
	}
	trades := make([]common.Trade, 0, len(data)/tradeRecordLen)
	for off := 0; off < len(data); off += tradeRecordLen {
		rec := data[off : off+tradeRecordLen]
		trades = append(trades, common.Trade{
			Timestamp:   math.Float64frombits(binary.BigEndian.Uint64(rec[0:8])),
			BuyOrderID:  binary.BigEndian.Uint64(rec[8:16]),
			SellOrderID: binary.BigEndian.Uint64(rec[16:24]),
			Price:       math.Float64frombits(binary.BigEndian.Uint64(rec[24:32])),
			Quantity:    binary.BigEndian.Uint64(rec[32:40]),
		})
	}
	return trades, nil
}
