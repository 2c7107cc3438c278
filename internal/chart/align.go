package chart

import "github.com/stockpeek/chartsync/internal/model"

// Align combines a price history and the active overlays into a render-ready
// bundle. Pure and deterministic: no I/O, no shared state.
//
// Alignment is positional: the remote contract never tags indicator values
// with timestamps, only with array position relative to the most recent
// history fetch, trimmed from the front of the range. Each overlay series is
// therefore normalized to the history length: a longer series is truncated,
// a shorter one is padded with absent leading values so that index i of the
// result always refers to candle i.
func Align(history model.PriceHistory, overlays []model.Overlay) model.AlignedBundle {
	// Empty history is the canonical "no data" state: zero candles and zero
	// effective overlay points regardless of overlay content.
	if len(history) == 0 {
		return model.AlignedBundle{}
	}

	aligned := make([]model.Overlay, 0, len(overlays))
	for _, o := range overlays {
		o.Series = model.IndicatorSeries{
			Kind:   o.Series.Kind,
			Values: fitValues(o.Series.Values, len(history)),
		}
		aligned = append(aligned, o)
	}

	annotations := make([]model.Annotation, len(history))
	for i, c := range history {
		annotations[i] = model.AnnotationFor(c)
	}

	return model.AlignedBundle{
		History:     history,
		Overlays:    aligned,
		Annotations: annotations,
	}
}

// fitValues right-aligns an indicator value slice against n candles. A
// superset from the remote side is implementation slack, not an error; a
// shorter slice leaves its missing leading indices unplotted.
func fitValues(values []*float64, n int) []*float64 {
	if len(values) > n {
		values = values[:n]
	}
	out := make([]*float64, n)
	copy(out[n-len(values):], values)
	return out
}
