package model

import "time"

// Annotation is the tooltip row for one candle: a date label plus the four
// OHLC values and volume.
type Annotation struct {
	Time   int64
	Label  string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// AlignedBundle is the render-ready combination of a price history and the
// active overlays. Bundles are recomputed, never mutated: any change to the
// history or the overlay set produces a fresh bundle.
type AlignedBundle struct {
	History     PriceHistory
	Overlays    []Overlay
	Annotations []Annotation
}

// Empty reports whether the bundle is the canonical "no data" state.
func (b AlignedBundle) Empty() bool { return len(b.History) == 0 }

// AnnotationFor builds the tooltip row for a candle.
func AnnotationFor(c Candle) Annotation {
	return Annotation{
		Time:   c.Time,
		Label:  time.Unix(c.Time, 0).UTC().Format("2006-01-02"),
		Open:   c.Open,
		High:   c.High,
		Low:    c.Low,
		Close:  c.Close,
		Volume: c.Volume,
	}
}
