package model

import (
	"math"
	"testing"
)

func TestParsePeriod(t *testing.T) {
	for _, p := range Periods() {
		got, err := ParsePeriod(string(p))
		if err != nil || got != p {
			t.Errorf("ParsePeriod(%q) = (%v, %v)", p, got, err)
		}
	}
	if _, err := ParsePeriod("10y"); err == nil {
		t.Error("ParsePeriod(10y) should fail")
	}
}

func TestParseIndicatorKind(t *testing.T) {
	tests := []struct {
		in      string
		want    IndicatorKind
		wantErr bool
	}{
		{"sma", KindSMA, false},
		{"bollinger", KindBollinger, false},
		{"bollinger-bands", KindBollinger, false},
		{"vwap", "", true},
	}
	for _, tt := range tests {
		got, err := ParseIndicatorKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseIndicatorKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseIndicatorKind(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestIndicatorKindSlug(t *testing.T) {
	if got := KindBollinger.Slug(); got != "bollinger-bands" {
		t.Errorf("bollinger slug = %s", got)
	}
	if got := KindRSI.Slug(); got != "rsi" {
		t.Errorf("rsi slug = %s", got)
	}
}

func TestNormalizeHistory(t *testing.T) {
	raw := []Candle{
		{Time: 300, Open: 3, High: 4, Low: 2, Close: 3.5},
		{Time: 100, Open: 1, High: 2, Low: 0.5, Close: 1.5},
		{Time: 200, Open: math.NaN(), High: 2, Low: 1, Close: 2},
		{Time: 100, Open: 1.1, High: 2, Low: 0.6, Close: 1.6},
	}

	history := NormalizeHistory(raw)
	if err := history.Validate(); err != nil {
		t.Fatalf("normalized history invalid: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d candles, want 2 (NaN and duplicate dropped)", len(history))
	}
	if history[0].Time != 100 || history[1].Time != 300 {
		t.Errorf("unexpected order: %v", history)
	}
}

func TestIndicatorSeriesAt(t *testing.T) {
	v := 42.0
	nan := math.NaN()
	s := IndicatorSeries{Kind: KindSMA, Values: []*float64{nil, &v, &nan}}

	if _, ok := s.At(0); ok {
		t.Error("nil entry should be absent")
	}
	if got, ok := s.At(1); !ok || got != 42 {
		t.Errorf("At(1) = (%v, %v), want 42", got, ok)
	}
	if _, ok := s.At(2); ok {
		t.Error("NaN entry should be absent")
	}
	if _, ok := s.At(5); ok {
		t.Error("out-of-range index should be absent")
	}
}

func TestPriceHistoryValidate(t *testing.T) {
	bad := PriceHistory{{Time: 100}, {Time: 100}}
	if err := bad.Validate(); err == nil {
		t.Error("duplicate timestamps should fail validation")
	}
	good := PriceHistory{{Time: 100}, {Time: 200}}
	if err := good.Validate(); err != nil {
		t.Errorf("valid history rejected: %v", err)
	}
}
