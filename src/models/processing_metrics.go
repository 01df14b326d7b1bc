package models

// MProcessingMetrics represents the performance metrics for one analytics pass.
type MProcessingMetrics struct {
	AnalyticsTimeSeconds float64 `json:"analytics_time_seconds"`
	ValidPoints          int     `json:"valid_points"`
	SeriesComputed       int     `json:"series_computed"`
}
