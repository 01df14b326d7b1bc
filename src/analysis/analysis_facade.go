package analysis

import (
	"gold-observer/src/analysis/core"
	"gold-observer/src/logger"
	"gold-observer/src/models"
)

// DefaultUnitDivisor scales raw VND quotes to million VND for display. The
// divisor is a core transformation decision, not presentation: every series
// and summary the facade emits is already in millions.
const DefaultUnitDivisor = 1_000_000

// -----------------------------------------------------------------------------

type AnalysisFacade struct {
	Config      *models.MConfig
	Logger      *logger.Logger
	unitDivisor float64
	maWindow    int
	presetDays  []int
}

// -----------------------------------------------------------------------------

func NewAnalysisFacade(cfg *models.MConfig, log *logger.Logger) *AnalysisFacade {
	divisor := cfg.Analytics.UnitDivisor
	if divisor == 0 {
		divisor = DefaultUnitDivisor
	}
	window := cfg.Analytics.MAWindowDays
	if window < 1 {
		window = 7
	}
	presets := cfg.Analytics.PresetDays
	if len(presets) == 0 {
		presets = core.DefaultPresetDays
	}

	return &AnalysisFacade{
		Config:      cfg,
		Logger:      log,
		unitDivisor: divisor,
		maWindow:    window,
		presetDays:  presets,
	}
}

// -----------------------------------------------------------------------------

// PresetDays returns the configured quick-range presets.
func (a *AnalysisFacade) PresetDays() []int {
	return a.presetDays
}

// -----------------------------------------------------------------------------

// TrendView computes the chart bundle for one gold type: scaled buy/sell
// series, their trailing moving averages, and delta/spread summaries. Pure
// function of its inputs; identical payloads yield identical output.
func (a *AnalysisFacade) TrendView(company, goldType string, payload models.MTrendPayload) (models.MTrendView, error) {
	points := core.NormalizeTrends(payload)
	if len(points) < core.MinSeriesPoints {
		return models.MTrendView{}, core.ErrInsufficientData
	}

	labels := make([]string, len(points))
	buys := make([]float64, len(points))
	sells := make([]float64, len(points))
	for i, p := range points {
		labels[i] = p.Date
		buys[i] = p.Buy / a.unitDivisor
		sells[i] = p.Sell / a.unitDivisor
	}

	buyMA, err := core.MovingAverage(buys, a.maWindow)
	if err != nil {
		return models.MTrendView{}, err
	}
	sellMA, err := core.MovingAverage(sells, a.maWindow)
	if err != nil {
		return models.MTrendView{}, err
	}

	deltas, err := core.DailyDeltas(buys)
	if err != nil {
		return models.MTrendView{}, err
	}
	deltaSummary, err := core.SummarizeDeltas(deltas)
	if err != nil {
		return models.MTrendView{}, err
	}

	scaled := make([]models.MPricePoint, len(points))
	for i, p := range points {
		scaled[i] = models.MPricePoint{Date: p.Date, Buy: p.Buy / a.unitDivisor, Sell: p.Sell / a.unitDivisor}
	}
	spreadSummary, err := core.SummarizeSpread(core.SpreadSeries(scaled))
	if err != nil {
		return models.MTrendView{}, err
	}

	return models.MTrendView{
		Company:    company,
		GoldType:   goldType,
		Buy:        models.MChartSeries{Labels: labels, Series: buys},
		Sell:       models.MChartSeries{Labels: labels, Series: sells},
		BuyMA:      models.MChartSeries{Labels: labels, Series: buyMA},
		SellMA:     models.MChartSeries{Labels: labels, Series: sellMA},
		MAWindow:   a.maWindow,
		Delta:      deltaSummary,
		Spread:     spreadSummary,
		DataPoints: len(points),
	}, nil
}

// -----------------------------------------------------------------------------

// ReturnView simulates a buy-then-sell trade over an explicit date range.
// The percent and absolute chart series both come from the single
// SimulateReturn pass so the two display modes cannot drift; the absolute
// series and money summary fields are scaled to millions.
func (a *AnalysisFacade) ReturnView(company, goldType string, payload models.MTrendPayload, r models.MDateRange) (models.MReturnView, error) {
	points := core.NormalizeTrends(payload)

	sim, err := core.SimulateReturn(points, r.EntryDate, r.ExitDate)
	if err != nil {
		return models.MReturnView{}, err
	}

	absolute := make([]float64, len(sim.AbsoluteCurve))
	for i, v := range sim.AbsoluteCurve {
		absolute[i] = v / a.unitDivisor
	}

	scaledSim := sim
	scaledSim.AbsoluteCurve = absolute
	scaledSim.EntryCost = sim.EntryCost / a.unitDivisor
	scaledSim.ExitProceeds = sim.ExitProceeds / a.unitDivisor
	scaledSim.AbsoluteChange = sim.AbsoluteChange / a.unitDivisor

	view := models.MReturnView{
		Company:  company,
		GoldType: goldType,
		Range:    r,
		Percent:  models.MChartSeries{Labels: sim.Dates, Series: sim.PercentCurve},
		Absolute: models.MChartSeries{Labels: sim.Dates, Series: absolute},
		Summary:  scaledSim,
	}

	if days, ok := core.MatchPreset(r, points, a.presetDays); ok {
		view.PresetDays = days
	}

	return view, nil
}

// -----------------------------------------------------------------------------

// ReturnViewPreset resolves a quick-range preset against the available
// history and runs the same simulation.
func (a *AnalysisFacade) ReturnViewPreset(company, goldType string, payload models.MTrendPayload, presetDays int) (models.MReturnView, error) {
	points := core.NormalizeTrends(payload)

	r, err := core.ResolvePreset(presetDays, points)
	if err != nil {
		return models.MReturnView{}, err
	}

	view, err := a.ReturnView(company, goldType, payload, r)
	if err != nil {
		return models.MReturnView{}, err
	}
	view.PresetDays = presetDays
	return view, nil
}

// -----------------------------------------------------------------------------

// ChangeView reports start-to-end price movement in millions.
func (a *AnalysisFacade) ChangeView(payload models.MTrendPayload, periodDays int) (models.MChangeSummary, error) {
	points := a.scaledPoints(payload)
	return core.PriceChange(points, periodDays)
}

// VolatilityView reports std-dev and coefficient of variation in millions.
func (a *AnalysisFacade) VolatilityView(payload models.MTrendPayload, periodDays int) (models.MVolatilitySummary, error) {
	points := a.scaledPoints(payload)
	return core.Volatility(points, periodDays)
}

// ExtremesView reports min/max prices with dates in millions.
func (a *AnalysisFacade) ExtremesView(payload models.MTrendPayload, periodDays int) (models.MExtremesSummary, error) {
	points := a.scaledPoints(payload)
	return core.Extremes(points, periodDays)
}

// -----------------------------------------------------------------------------

func (a *AnalysisFacade) scaledPoints(payload models.MTrendPayload) []models.MPricePoint {
	points := core.NormalizeTrends(payload)
	for i := range points {
		points[i].Buy /= a.unitDivisor
		points[i].Sell /= a.unitDivisor
	}
	return points
}
