package model

import "fmt"

// Period is the historical range requested from the charting endpoint. The
// server maps each value to a concrete date range; this subsystem treats it
// as an opaque request parameter and cache-scope key.
type Period string

const (
	Period1D  Period = "1d"
	Period5D  Period = "5d"
	Period1Mo Period = "1mo"
	Period3Mo Period = "3mo"
	Period6Mo Period = "6mo"
	Period1Y  Period = "1y"
	Period2Y  Period = "2y"
	Period5Y  Period = "5y"
)

// Periods lists every valid period in display order.
func Periods() []Period {
	return []Period{Period1D, Period5D, Period1Mo, Period3Mo, Period6Mo, Period1Y, Period2Y, Period5Y}
}

// ParsePeriod validates a raw period string.
func ParsePeriod(s string) (Period, error) {
	for _, p := range Periods() {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid period %q", s)
}

func (p Period) String() string { return string(p) }

// Scope is the (symbol, period) pair that bounds request freshness. Overlays
// and cached history never survive a scope change.
type Scope struct {
	Symbol string
	Period Period
}

func (s Scope) String() string {
	return s.Symbol + "/" + string(s.Period)
}
