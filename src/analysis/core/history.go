package core

import "gold-observer/src/models"

// -----------------------------------------------------------------------------
// Period summaries over a normalized series: start-to-end change, volatility
// and extremes. periodDays is carried through for display only; the series
// is assumed to already be sliced to the requested period.
// -----------------------------------------------------------------------------

// PriceChange reports the absolute and percentage change of buy and sell
// prices between the first and last points of the series.
func PriceChange(points []models.MPricePoint, periodDays int) (models.MChangeSummary, error) {
	if len(points) < MinSeriesPoints {
		return models.MChangeSummary{}, ErrInsufficientData
	}

	first := points[0]
	last := points[len(points)-1]

	return models.MChangeSummary{
		BuyChange:         last.Buy - first.Buy,
		SellChange:        last.Sell - first.Sell,
		BuyChangePercent:  CalculateChangePercent(last.Buy, first.Buy),
		SellChangePercent: CalculateChangePercent(last.Sell, first.Sell),
		PeriodDays:        periodDays,
	}, nil
}

// -----------------------------------------------------------------------------

// Volatility reports standard deviation and coefficient of variation
// (std/mean as a percentage) for buy and sell prices.
func Volatility(points []models.MPricePoint, periodDays int) (models.MVolatilitySummary, error) {
	if len(points) < MinSeriesPoints {
		return models.MVolatilitySummary{}, ErrInsufficientData
	}

	buys := make([]float64, len(points))
	sells := make([]float64, len(points))
	for i, p := range points {
		buys[i] = p.Buy
		sells[i] = p.Sell
	}

	buyMean, buyStd := CalculateMeanStd(buys)
	sellMean, sellStd := CalculateMeanStd(sells)

	summary := models.MVolatilitySummary{
		BuyStdDev:  buyStd,
		SellStdDev: sellStd,
		PeriodDays: periodDays,
	}
	if buyMean != 0 {
		summary.BuyVolatility = buyStd / buyMean * 100
	}
	if sellMean != 0 {
		summary.SellVolatility = sellStd / sellMean * 100
	}

	return summary, nil
}

// -----------------------------------------------------------------------------

// Extremes reports the highest and lowest buy and sell prices in the series,
// with the dates they occurred on.
func Extremes(points []models.MPricePoint, periodDays int) (models.MExtremesSummary, error) {
	if len(points) == 0 {
		return models.MExtremesSummary{}, ErrInsufficientData
	}

	summary := models.MExtremesSummary{
		BuyMin:      points[0].Buy,
		BuyMinDate:  points[0].Date,
		BuyMax:      points[0].Buy,
		BuyMaxDate:  points[0].Date,
		SellMin:     points[0].Sell,
		SellMinDate: points[0].Date,
		SellMax:     points[0].Sell,
		SellMaxDate: points[0].Date,
		PeriodDays:  periodDays,
	}

	for _, p := range points[1:] {
		if p.Buy < summary.BuyMin {
			summary.BuyMin = p.Buy
			summary.BuyMinDate = p.Date
		}
		if p.Buy > summary.BuyMax {
			summary.BuyMax = p.Buy
			summary.BuyMaxDate = p.Date
		}
		if p.Sell < summary.SellMin {
			summary.SellMin = p.Sell
			summary.SellMinDate = p.Date
		}
		if p.Sell > summary.SellMax {
			summary.SellMax = p.Sell
			summary.SellMaxDate = p.Date
		}
	}

	return summary, nil
}
