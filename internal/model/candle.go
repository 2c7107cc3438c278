package model

import (
	"fmt"
	"math"
	"sort"
)

// Candle represents a single OHLCV price candle. Time is epoch seconds.
type Candle struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Up reports whether the candle closed at or above its open.
func (c Candle) Up() bool { return c.Close >= c.Open }

// PriceHistory is an ordered candle sequence, strictly increasing by Time.
// A history is replaced wholesale by each accepted fetch, never mutated.
type PriceHistory []Candle

// Validate checks the strictly-increasing, no-duplicate-timestamp invariant.
func (h PriceHistory) Validate() error {
	for i := 1; i < len(h); i++ {
		if h[i].Time <= h[i-1].Time {
			return fmt.Errorf("candle %d: time %d not after %d", i, h[i].Time, h[i-1].Time)
		}
	}
	return nil
}

// NormalizeHistory sorts candles by time and drops rows with NaN prices or
// duplicate timestamps. Remote chart feeds occasionally deliver both.
func NormalizeHistory(candles []Candle) PriceHistory {
	clean := make([]Candle, 0, len(candles))
	for _, c := range candles {
		if math.IsNaN(c.Open) || math.IsNaN(c.High) || math.IsNaN(c.Low) || math.IsNaN(c.Close) {
			continue
		}
		clean = append(clean, c)
	}
	sort.Slice(clean, func(i, j int) bool { return clean[i].Time < clean[j].Time })

	out := make(PriceHistory, 0, len(clean))
	for i, c := range clean {
		if i > 0 && c.Time == clean[i-1].Time {
			continue
		}
		out = append(out, c)
	}
	return out
}

// CandlestickResponse is the wire format of the candlesticks endpoint.
type CandlestickResponse struct {
	Symbol string   `json:"symbol"`
	Data   []Candle `json:"data"`
	Count  int      `json:"count"`
}

// IndicatorResponse is the wire format of the indicator endpoints. Null
// entries mark warm-up indices with no computed value.
type IndicatorResponse struct {
	Data []*float64 `json:"data"`
}
