package core

import "gold-observer/src/models"

// -----------------------------------------------------------------------------

// DailyDeltas computes day-over-day differences: entry k = values[k+1] - values[k].
// The result has length len(values)-1. Fewer than two values cannot produce a
// delta and yield ErrInsufficientData.
func DailyDeltas(values []float64) ([]float64, error) {
	if len(values) < MinSeriesPoints {
		return nil, ErrInsufficientData
	}

	deltas := make([]float64, len(values)-1)
	for k := 0; k < len(values)-1; k++ {
		deltas[k] = values[k+1] - values[k]
	}
	return deltas, nil
}

// -----------------------------------------------------------------------------

// SummarizeDeltas derives latest/max/min/mean from a single delta sequence so
// the four figures stay mutually consistent. Max is the largest gain, Min the
// largest drop (most negative).
func SummarizeDeltas(deltas []float64) (models.MDeltaSummary, error) {
	if len(deltas) == 0 {
		return models.MDeltaSummary{}, ErrInsufficientData
	}

	summary := models.MDeltaSummary{
		Latest: deltas[len(deltas)-1],
		Max:    deltas[0],
		Min:    deltas[0],
	}

	sum := 0.0
	for _, d := range deltas {
		if d > summary.Max {
			summary.Max = d
		}
		if d < summary.Min {
			summary.Min = d
		}
		sum += d
	}
	summary.Mean = sum / float64(len(deltas))

	return summary, nil
}
