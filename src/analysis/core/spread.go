package core

import "gold-observer/src/models"

// -----------------------------------------------------------------------------

// SpreadSeries computes the dealer margin (sell minus buy) for every point.
// An inverted market (sell < buy) surfaces as a negative spread; nothing is
// clamped or filtered.
func SpreadSeries(points []models.MPricePoint) []float64 {
	spreads := make([]float64, len(points))
	for k, p := range points {
		spreads[k] = p.Sell - p.Buy
	}
	return spreads
}

// -----------------------------------------------------------------------------

// SummarizeSpread derives current/max/min/mean from a spread sequence. A
// single point is enough; an empty series yields ErrInsufficientData.
func SummarizeSpread(spreads []float64) (models.MSpreadSummary, error) {
	if len(spreads) == 0 {
		return models.MSpreadSummary{}, ErrInsufficientData
	}

	summary := models.MSpreadSummary{
		Current: spreads[len(spreads)-1],
		Max:     spreads[0],
		Min:     spreads[0],
	}

	sum := 0.0
	for _, s := range spreads {
		if s > summary.Max {
			summary.Max = s
		}
		if s < summary.Min {
			summary.Min = s
		}
		sum += s
	}
	summary.Mean = sum / float64(len(spreads))

	return summary, nil
}
