package model

import (
	"fmt"
	"math"
)

// IndicatorKind identifies a technical indicator computed by the remote
// service. Keeping it a closed typed set means every consumer dispatches on
// the same constants instead of scattering string literals.
type IndicatorKind string

const (
	KindSMA        IndicatorKind = "sma"
	KindEMA        IndicatorKind = "ema"
	KindRSI        IndicatorKind = "rsi"
	KindMACD       IndicatorKind = "macd"
	KindBollinger  IndicatorKind = "bollinger"
	KindStochastic IndicatorKind = "stochastic"
	KindATR        IndicatorKind = "atr"
)

// IndicatorKinds lists every supported kind.
func IndicatorKinds() []IndicatorKind {
	return []IndicatorKind{KindSMA, KindEMA, KindRSI, KindMACD, KindBollinger, KindStochastic, KindATR}
}

// ParseIndicatorKind validates a raw kind string. It accepts both the
// canonical name and the wire slug.
func ParseIndicatorKind(s string) (IndicatorKind, error) {
	if s == "bollinger-bands" {
		return KindBollinger, nil
	}
	for _, k := range IndicatorKinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("invalid indicator kind %q", s)
}

func (k IndicatorKind) String() string { return string(k) }

// Slug returns the path segment the indicator endpoint expects. The server
// routes Bollinger under "bollinger-bands" rather than the bare kind name.
func (k IndicatorKind) Slug() string {
	if k == KindBollinger {
		return "bollinger-bands"
	}
	return string(k)
}

// IndicatorSeries holds one fetched indicator. Values align positionally with
// the price history the series was requested against: index i corresponds to
// candle i. A nil entry is a warm-up index with no computed value.
type IndicatorSeries struct {
	Kind   IndicatorKind
	Values []*float64
}

// At returns the value at index i and whether one is present. NaN values from
// the wire are treated as absent.
func (s IndicatorSeries) At(i int) (float64, bool) {
	if i < 0 || i >= len(s.Values) || s.Values[i] == nil {
		return 0, false
	}
	v := *s.Values[i]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Len returns the number of entries, present or absent.
func (s IndicatorSeries) Len() int { return len(s.Values) }

// Overlay is one active indicator series displayed alongside price. The
// RequestToken records which issued fetch produced it.
type Overlay struct {
	ID           string
	Kind         IndicatorKind
	Series       IndicatorSeries
	RequestToken uint64
}
