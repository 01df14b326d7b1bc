package models

// -----------------------------------------------------------------------------
// Chart-ready structures handed to the presentation layer.
// -----------------------------------------------------------------------------

// MChartSeries is a label/value pair ready for direct chart rendering.
type MChartSeries struct {
	Labels []string  `json:"labels"`
	Series []float64 `json:"series"`
}

// -----------------------------------------------------------------------------

// MDateRange is a user-selected entry/exit pair. Both dates must exist in the
// series, with EntryDate <= ExitDate.
type MDateRange struct {
	EntryDate string `json:"entry_date"`
	ExitDate  string `json:"exit_date"`
}

// -----------------------------------------------------------------------------
// Stat summaries. Always recomputed in full from their series.
// -----------------------------------------------------------------------------

// MDeltaSummary summarizes a day-over-day delta sequence.
type MDeltaSummary struct {
	Latest float64 `json:"latest"`
	Max    float64 `json:"max"`
	Min    float64 `json:"min"`
	Mean   float64 `json:"mean"`
}

// MSpreadSummary summarizes a sell-minus-buy spread sequence.
type MSpreadSummary struct {
	Current float64 `json:"current"`
	Max     float64 `json:"max"`
	Min     float64 `json:"min"`
	Mean    float64 `json:"mean"`
}

// MChangeSummary reports absolute and percentage price change over a period.
type MChangeSummary struct {
	BuyChange         float64 `json:"buy_change"`
	SellChange        float64 `json:"sell_change"`
	BuyChangePercent  float64 `json:"buy_change_percent"`
	SellChangePercent float64 `json:"sell_change_percent"`
	PeriodDays        int     `json:"period_days"`
}

// MVolatilitySummary reports standard deviation and coefficient of variation.
type MVolatilitySummary struct {
	BuyStdDev      float64 `json:"buy_std_dev"`
	SellStdDev     float64 `json:"sell_std_dev"`
	BuyVolatility  float64 `json:"buy_volatility"`
	SellVolatility float64 `json:"sell_volatility"`
	PeriodDays     int     `json:"period_days"`
}

// MExtremesSummary reports min/max prices and the dates they occurred on.
type MExtremesSummary struct {
	BuyMin      float64 `json:"buy_min"`
	BuyMinDate  string  `json:"buy_min_date"`
	BuyMax      float64 `json:"buy_max"`
	BuyMaxDate  string  `json:"buy_max_date"`
	SellMin     float64 `json:"sell_min"`
	SellMinDate string  `json:"sell_min_date"`
	SellMax     float64 `json:"sell_max"`
	SellMaxDate string  `json:"sell_max_date"`
	PeriodDays  int     `json:"period_days"`
}

// -----------------------------------------------------------------------------
// Return simulation output.
// -----------------------------------------------------------------------------

// MReturnSimulation is the full result of one buy-then-sell simulation pass.
// PercentCurve and AbsoluteCurve are derived from the same pass so the two
// display modes can never drift apart. The first curve value is generally NOT
// zero: entry cost is the dealer SELL price while the curve tracks the dealer
// BUY price, so day 0 already carries the bid-ask spread.
type MReturnSimulation struct {
	Dates          []string  `json:"dates"`
	PercentCurve   []float64 `json:"percent_curve"`
	AbsoluteCurve  []float64 `json:"absolute_curve"`
	EntryCost      float64   `json:"entry_cost"`
	ExitProceeds   float64   `json:"exit_proceeds"`
	AbsoluteChange float64   `json:"absolute_change"`
	LatestReturn   float64   `json:"latest_return"`
	HoldingDays    int       `json:"holding_days"`
}

// -----------------------------------------------------------------------------
// Facade views (chart series + summaries bundled per request).
// -----------------------------------------------------------------------------

// MTrendView bundles everything the dashboard chart needs for one gold type.
// Price series are unit-scaled to million VND.
type MTrendView struct {
	Company    string         `json:"company"`
	GoldType   string         `json:"gold_type"`
	Buy        MChartSeries   `json:"buy"`
	Sell       MChartSeries   `json:"sell"`
	BuyMA      MChartSeries   `json:"buy_ma"`
	SellMA     MChartSeries   `json:"sell_ma"`
	MAWindow   int            `json:"ma_window"`
	Delta      MDeltaSummary  `json:"delta"`
	Spread     MSpreadSummary `json:"spread"`
	DataPoints int            `json:"data_points"`
}

// MReturnView bundles the dual-mode return curve with its stat summary.
type MReturnView struct {
	Company    string            `json:"company"`
	GoldType   string            `json:"gold_type"`
	Range      MDateRange        `json:"range"`
	PresetDays int               `json:"preset_days,omitempty"`
	Percent    MChartSeries      `json:"percent"`
	Absolute   MChartSeries      `json:"absolute"`
	Summary    MReturnSimulation `json:"summary"`
}
