package core

import (
	"time"

	"gold-observer/src/models"
)

// -----------------------------------------------------------------------------

const dateLayout = "2006-01-02"

// -----------------------------------------------------------------------------

// SimulateReturn replays a buy-then-sell-later trade over the closed interval
// [entryDate, exitDate] of the series.
//
// The investor acquires gold at the dealer's SELL price on the entry date
// (cost basis) and liquidates at the dealer's BUY price on the exit date
// (exit proceeds). The curve tracks the BUY price on every day of the slice,
// so the day-0 point is NOT forced to zero: it already reflects the bid-ask
// spread paid on entry. Percent and absolute curves come out of the same
// pass, keeping the two display modes in lockstep.
//
// Errors: both dates must exist in the series with entry at or before exit
// (ErrRangeOrder); series shorter than two points signal ErrInsufficientData;
// a zero or non-finite cost basis aborts with ErrZeroCostBasis.
func SimulateReturn(points []models.MPricePoint, entryDate, exitDate string) (models.MReturnSimulation, error) {
	if len(points) < MinSeriesPoints {
		return models.MReturnSimulation{}, ErrInsufficientData
	}

	entryIdx := indexOfDate(points, entryDate)
	exitIdx := indexOfDate(points, exitDate)
	if entryIdx < 0 || exitIdx < 0 || exitIdx < entryIdx {
		return models.MReturnSimulation{}, ErrRangeOrder
	}

	slice := points[entryIdx : exitIdx+1]

	costBasis := slice[0].Sell
	if costBasis == 0 || !isFinite(costBasis) {
		return models.MReturnSimulation{}, ErrZeroCostBasis
	}

	sim := models.MReturnSimulation{
		Dates:         make([]string, len(slice)),
		PercentCurve:  make([]float64, len(slice)),
		AbsoluteCurve: make([]float64, len(slice)),
		EntryCost:     costBasis,
	}

	for i, p := range slice {
		abs := p.Buy - costBasis
		sim.Dates[i] = p.Date
		sim.AbsoluteCurve[i] = abs
		sim.PercentCurve[i] = abs / costBasis * 100
	}

	last := slice[len(slice)-1]
	sim.ExitProceeds = last.Buy
	sim.AbsoluteChange = sim.ExitProceeds - costBasis
	sim.LatestReturn = sim.PercentCurve[len(slice)-1]
	sim.HoldingDays = calendarDays(slice[0].Date, last.Date)

	return sim, nil
}

// -----------------------------------------------------------------------------

func indexOfDate(points []models.MPricePoint, date string) int {
	for i, p := range points {
		if p.Date == date {
			return i
		}
	}
	return -1
}

// -----------------------------------------------------------------------------

// calendarDays returns the calendar-day difference between two ISO dates.
// Unparseable dates fall back to zero distance.
func calendarDays(from, to string) int {
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return 0
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil {
		return 0
	}
	return int(end.Sub(start).Hours() / 24)
}
