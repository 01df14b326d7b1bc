package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gold-observer/src/analysis/core"
	"gold-observer/src/logger"
	"gold-observer/src/models"
)

func newTestFacade(t *testing.T) *AnalysisFacade {
	t.Helper()
	cfg := &models.MConfig{
		Analytics: models.MAnalyticsConfig{
			MAWindowDays: 2,
			PresetDays:   []int{7, 30, 90, 365},
			UnitDivisor:  1_000_000,
		},
	}
	return NewAnalysisFacade(cfg, logger.NewLogger(cfg, "test"))
}

func millionPayload(dates []string, buys, sells []float64) models.MTrendPayload {
	payload := models.MTrendPayload{
		Dates:      dates,
		BuyPrices:  make([]*float64, len(buys)),
		SellPrices: make([]*float64, len(sells)),
	}
	for i := range buys {
		b := buys[i] * 1_000_000
		s := sells[i] * 1_000_000
		payload.BuyPrices[i] = &b
		payload.SellPrices[i] = &s
	}
	return payload
}

// -----------------------------------------------------------------------------

func TestTrendView_ScalesToMillions(t *testing.T) {
	facade := newTestFacade(t)
	payload := millionPayload(
		[]string{"2025-01-01", "2025-01-02", "2025-01-03"},
		[]float64{100, 105, 120},
		[]float64{110, 115, 130},
	)

	view, err := facade.TrendView("SJC", "SJC 1L", payload)
	require.NoError(t, err)

	assert.Equal(t, []float64{100, 105, 120}, view.Buy.Series)
	assert.Equal(t, []float64{110, 115, 130}, view.Sell.Series)
	assert.Equal(t, []string{"2025-01-01", "2025-01-02", "2025-01-03"}, view.Buy.Labels)
	assert.Equal(t, 3, view.DataPoints)

	// Trailing MA with window 2: first value is the raw first value.
	assert.Equal(t, []float64{100, 102.5, 112.5}, view.BuyMA.Series)

	// Delta summary over the buy series: [5, 15].
	assert.Equal(t, 15.0, view.Delta.Latest)
	assert.Equal(t, 15.0, view.Delta.Max)
	assert.Equal(t, 5.0, view.Delta.Min)
	assert.Equal(t, 10.0, view.Delta.Mean)

	// Spread is 10 million at every point.
	assert.Equal(t, 10.0, view.Spread.Current)
	assert.Equal(t, 10.0, view.Spread.Mean)
}

func TestTrendView_InsufficientData(t *testing.T) {
	facade := newTestFacade(t)
	payload := millionPayload([]string{"2025-01-01"}, []float64{100}, []float64{110})

	_, err := facade.TrendView("SJC", "SJC 1L", payload)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

// -----------------------------------------------------------------------------

func TestReturnView_ThreeDayHold(t *testing.T) {
	facade := newTestFacade(t)
	payload := millionPayload(
		[]string{"2025-01-01", "2025-01-02", "2025-01-03"},
		[]float64{100, 105, 120},
		[]float64{110, 115, 130},
	)

	view, err := facade.ReturnView("SJC", "SJC 1L", payload, models.MDateRange{
		EntryDate: "2025-01-01",
		ExitDate:  "2025-01-03",
	})
	require.NoError(t, err)

	assert.Equal(t, 110.0, view.Summary.EntryCost)
	assert.Equal(t, 120.0, view.Summary.ExitProceeds)
	assert.Equal(t, 10.0, view.Summary.AbsoluteChange)
	assert.InDelta(t, 9.0909, view.Summary.LatestReturn, 0.0001)
	assert.Equal(t, 2, view.Summary.HoldingDays)

	// Dual display: percent curve is unscaled, absolute curve is in millions,
	// and both agree point for point.
	require.Len(t, view.Percent.Series, 3)
	require.Len(t, view.Absolute.Series, 3)
	for i := range view.Percent.Series {
		want := view.Absolute.Series[i] / view.Summary.EntryCost * 100
		assert.InDelta(t, want, view.Percent.Series[i], 1e-9)
	}
}

func TestReturnView_RangeOrderError(t *testing.T) {
	facade := newTestFacade(t)
	payload := millionPayload(
		[]string{"2025-01-01", "2025-01-02", "2025-01-03"},
		[]float64{100, 105, 120},
		[]float64{110, 115, 130},
	)

	_, err := facade.ReturnView("SJC", "SJC 1L", payload, models.MDateRange{
		EntryDate: "2025-01-03",
		ExitDate:  "2025-01-01",
	})
	assert.ErrorIs(t, err, core.ErrRangeOrder)
}

func TestReturnViewPreset_ClampsToHistory(t *testing.T) {
	facade := newTestFacade(t)
	payload := millionPayload(
		[]string{"2025-01-01", "2025-01-02", "2025-01-03"},
		[]float64{100, 105, 120},
		[]float64{110, 115, 130},
	)

	view, err := facade.ReturnViewPreset("SJC", "SJC 1L", payload, 365)
	require.NoError(t, err)

	assert.Equal(t, 365, view.PresetDays)
	assert.Equal(t, "2025-01-01", view.Range.EntryDate)
	assert.Equal(t, "2025-01-03", view.Range.ExitDate)
}

func TestReturnView_Idempotent(t *testing.T) {
	facade := newTestFacade(t)
	payload := millionPayload(
		[]string{"2025-01-01", "2025-01-02", "2025-01-03"},
		[]float64{100.123, 105.456, 120.789},
		[]float64{110.321, 115.654, 130.987},
	)
	r := models.MDateRange{EntryDate: "2025-01-01", ExitDate: "2025-01-03"}

	first, err := facade.ReturnView("SJC", "SJC 1L", payload, r)
	require.NoError(t, err)
	second, err := facade.ReturnView("SJC", "SJC 1L", payload, r)
	require.NoError(t, err)

	for i := range first.Percent.Series {
		assert.Equal(t,
			math.Float64bits(first.Percent.Series[i]),
			math.Float64bits(second.Percent.Series[i]),
			"percent curve bit pattern at %d", i)
	}
}

// -----------------------------------------------------------------------------

func TestCollapseDaily_LatestQuoteOfEachDayWins(t *testing.T) {
	quotes := []models.MGoldPrice{
		{GoldType: "SJC 1L", Buy: 100, Sell: 110, Timestamp: 1735689600}, // 2025-01-01 00:00
		{GoldType: "SJC 1L", Buy: 101, Sell: 111, Timestamp: 1735732800}, // 2025-01-01 12:00
		{GoldType: "SJC 1L", Buy: 105, Sell: 115, Timestamp: 1735776000}, // 2025-01-02 00:00
	}

	payload := CollapseDaily(quotes)
	require.Equal(t, []string{"2025-01-01", "2025-01-02"}, payload.Dates)
	assert.Equal(t, 101.0, *payload.BuyPrices[0])
	assert.Equal(t, 111.0, *payload.SellPrices[0])
	assert.Equal(t, 105.0, *payload.BuyPrices[1])
}

func TestLatestPerType(t *testing.T) {
	quotes := []models.MGoldPrice{
		{GoldType: "SJC 1L", Buy: 100, Timestamp: 100},
		{GoldType: "SJC 1L", Buy: 102, Timestamp: 300},
		{GoldType: "SJC Ring 1C", Buy: 90, Timestamp: 200},
	}

	latest := LatestPerType(quotes)
	require.Len(t, latest, 2)
	assert.Equal(t, 102.0, latest["SJC 1L"].Buy)
	assert.Equal(t, 90.0, latest["SJC Ring 1C"].Buy)
}
