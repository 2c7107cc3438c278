package chart

import (
	"fmt"

	"github.com/stockpeek/chartsync/internal/model"
)

// Representation selects how the aligned bundle is drawn.
type Representation string

const (
	RepLine      Representation = "line"
	RepArea      Representation = "area"
	RepComposite Representation = "composite"
)

// ParseRepresentation validates a raw representation string. "candlestick" is
// accepted as an alias for composite, matching what chart type selectors send.
func ParseRepresentation(s string) (Representation, error) {
	switch s {
	case "line":
		return RepLine, nil
	case "area":
		return RepArea, nil
	case "composite", "candlestick":
		return RepComposite, nil
	}
	return "", fmt.Errorf("invalid chart representation %q", s)
}

// SeriesType is the drawing primitive of one instruction.
type SeriesType string

const (
	SeriesLine        SeriesType = "line"
	SeriesArea        SeriesType = "area"
	SeriesCandlestick SeriesType = "candlestick"
	SeriesHistogram   SeriesType = "histogram"
)

// Axis selects the price scale of one instruction.
type Axis string

const (
	AxisPrice     Axis = "price"
	AxisSecondary Axis = "secondary"
)

// Point is one plotted value. Candlestick points carry the full candle.
type Point struct {
	Time   int64
	Value  float64
	Candle model.Candle
	Up     bool
}

// DrawInstruction is one series to push to the rendering surface.
type DrawInstruction struct {
	Type   SeriesType
	Name   string
	Axis   Axis
	Points []Point
}

// BuildInstructions converts an aligned bundle into draw instructions for the
// chosen representation. Pure: switching representation with the same bundle
// is a re-render, never a fetch.
func BuildInstructions(bundle model.AlignedBundle, repr Representation) []DrawInstruction {
	if bundle.Empty() {
		return nil
	}

	var out []DrawInstruction
	switch repr {
	case RepArea:
		out = append(out, DrawInstruction{
			Type:   SeriesArea,
			Name:   "close",
			Axis:   AxisPrice,
			Points: closePoints(bundle.History),
		})
	case RepComposite:
		candles := make([]Point, len(bundle.History))
		volume := make([]Point, len(bundle.History))
		for i, c := range bundle.History {
			candles[i] = Point{Time: c.Time, Value: c.Close, Candle: c, Up: c.Up()}
			volume[i] = Point{Time: c.Time, Value: float64(c.Volume), Up: c.Up()}
		}
		out = append(out,
			DrawInstruction{Type: SeriesCandlestick, Name: "ohlc", Axis: AxisPrice, Points: candles},
			DrawInstruction{Type: SeriesHistogram, Name: "volume", Axis: AxisSecondary, Points: volume},
		)
	default: // RepLine
		out = append(out, DrawInstruction{
			Type:   SeriesLine,
			Name:   "close",
			Axis:   AxisPrice,
			Points: closePoints(bundle.History),
		})
	}

	for _, o := range bundle.Overlays {
		out = append(out, overlayInstruction(bundle.History, o))
	}
	return out
}

// TooltipAt returns the annotation of the candle nearest in time to t.
func TooltipAt(bundle model.AlignedBundle, t int64) (model.Annotation, bool) {
	if bundle.Empty() {
		return model.Annotation{}, false
	}
	best := 0
	bestDist := absDiff(bundle.History[0].Time, t)
	for i := 1; i < len(bundle.History); i++ {
		if d := absDiff(bundle.History[i].Time, t); d < bestDist {
			best, bestDist = i, d
		}
	}
	return bundle.Annotations[best], true
}

func closePoints(history model.PriceHistory) []Point {
	points := make([]Point, len(history))
	for i, c := range history {
		points[i] = Point{Time: c.Time, Value: c.Close, Up: c.Up()}
	}
	return points
}

// overlayInstruction plots the present values of one aligned overlay. Absent
// warm-up indices are skipped, not interpolated.
func overlayInstruction(history model.PriceHistory, o model.Overlay) DrawInstruction {
	points := make([]Point, 0, len(history))
	for i := range history {
		if v, ok := o.Series.At(i); ok {
			points = append(points, Point{Time: history[i].Time, Value: v})
		}
	}
	return DrawInstruction{
		Type:   SeriesLine,
		Name:   o.Kind.String(),
		Axis:   AxisPrice,
		Points: points,
	}
}

func absDiff(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}
