package core

import (
	"math"
	"strings"

	"gold-observer/src/models"
)

// -----------------------------------------------------------------------------

// MinSeriesPoints is the minimum number of valid points the delta and return
// engines can work with. Shorter series signal "no data" instead of computing
// an empty reduction.
const MinSeriesPoints = 2

// -----------------------------------------------------------------------------

// NormalizeTrends converts the raw parallel-array trends payload into an
// ordered slice of price points. Any index where buy or sell is missing or
// non-finite is dropped. Dates are truncated to day granularity but never
// re-sorted: the upstream API contract is ascending dates.
func NormalizeTrends(payload models.MTrendPayload) []models.MPricePoint {
	n := len(payload.Dates)
	if len(payload.BuyPrices) < n {
		n = len(payload.BuyPrices)
	}
	if len(payload.SellPrices) < n {
		n = len(payload.SellPrices)
	}

	points := make([]models.MPricePoint, 0, n)
	for i := 0; i < n; i++ {
		buy := payload.BuyPrices[i]
		sell := payload.SellPrices[i]
		if buy == nil || sell == nil {
			continue
		}
		if !isFinite(*buy) || !isFinite(*sell) {
			continue
		}

		points = append(points, models.MPricePoint{
			Date: dayPart(payload.Dates[i]),
			Buy:  *buy,
			Sell: *sell,
		})
	}

	return points
}

// -----------------------------------------------------------------------------

// dayPart strips an optional time component ("2025-01-02 09:30:00" -> "2025-01-02").
func dayPart(date string) string {
	if idx := strings.IndexByte(date, ' '); idx > 0 {
		return date[:idx]
	}
	if idx := strings.IndexByte(date, 'T'); idx > 0 {
		return date[:idx]
	}
	return date
}

// -----------------------------------------------------------------------------

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
